package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette used by terminal reports.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Border colors table borders.
	Border lipgloss.TerminalColor
	// Header colors titles and column headers.
	Header lipgloss.TerminalColor
	// Success marks passing setups and teardowns.
	Success lipgloss.TerminalColor
	// Warning marks skipped or pending work.
	Warning lipgloss.TerminalColor
	// Error marks failures.
	Error lipgloss.TerminalColor
	// Dim is used for secondary text.
	Dim lipgloss.TerminalColor
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:    "dark",
		Border:  lipgloss.Color("#FF6600"),
		Header:  lipgloss.Color("#FF8C00"),
		Success: lipgloss.Color("#9ece6a"),
		Warning: lipgloss.Color("#FFB347"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#666666"),
	}

	// LightTheme uses darker colors for light backgrounds.
	LightTheme = Theme{
		Name:    "light",
		Border:  lipgloss.Color("#5F5F87"),
		Header:  lipgloss.Color("#005FAF"),
		Success: lipgloss.Color("#008700"),
		Warning: lipgloss.Color("#AF5F00"),
		Error:   lipgloss.Color("#AF0000"),
		Dim:     lipgloss.Color("#585858"),
	}

	// NoColorTheme renders with the terminal's default colors.
	NoColorTheme = Theme{
		Name:    "none",
		Border:  lipgloss.NoColor{},
		Header:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the currently active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetTheme changes the active theme by name ("dark", "light" or "none").
// Unknown names select the dark theme.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "light":
		currentTheme = LightTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme selects the named theme, or NoColorTheme when noColor is true or
// NO_COLOR is set (https://no-color.org/).
func InitTheme(name string, noColor bool) {
	if _, exists := os.LookupEnv("NO_COLOR"); exists || noColor {
		name = "none"
	}
	SetTheme(name)
}
