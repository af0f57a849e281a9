package ui

import (
	"os"
	"testing"
)

// Theme tests mutate package state and do not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetTheme("dark")

	tests := map[string]string{
		"dark":    "dark",
		"light":   "light",
		"none":    "none",
		"unknown": "dark",
	}
	for name, want := range tests {
		SetTheme(name)
		if got := GetCurrentTheme().Name; got != want {
			t.Errorf("SetTheme(%q) selected %q, want %q", name, got, want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	defer SetTheme("dark")

	InitTheme("light", true)
	if GetCurrentTheme().Name != "none" {
		t.Error("noColor should disable colors")
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme("light", false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR should disable colors")
	}
}

func TestInitThemeDefault(t *testing.T) {
	defer SetTheme("dark")
	SetTheme("none")

	// Register restoration of NO_COLOR, then clear it for this test.
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")

	InitTheme("dark", false)
	if GetCurrentTheme().Name != "dark" {
		t.Errorf("InitTheme(dark) selected %q, want dark", GetCurrentTheme().Name)
	}

	InitTheme("light", false)
	if GetCurrentTheme().Name != "light" {
		t.Errorf("InitTheme(light) selected %q, want light", GetCurrentTheme().Name)
	}
}
