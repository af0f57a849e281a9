package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/agbru/fixturerun/internal/logging"
	"github.com/agbru/fixturerun/internal/metrics"
	"github.com/agbru/fixturerun/internal/sysmon"
	"github.com/agbru/fixturerun/internal/ui"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	return rec.Body.String()
}

func withHostSampler(t *testing.T, fn func(context.Context) (sysmon.Stats, error)) {
	t.Helper()
	prev := hostSampler
	hostSampler = fn
	t.Cleanup(func() { hostSampler = prev })
}

func TestSampleHost_FailureKeepsGauges(t *testing.T) {
	withHostSampler(t, func(context.Context) (sysmon.Stats, error) {
		return sysmon.Stats{}, errors.New("cpu: no such file")
	})

	m := metrics.NewWithRegistry()
	m.HostSampled(50, 60)

	var logs bytes.Buffer
	sampleHost(context.Background(), "after", m, logging.NewLogger(&logs, "test"))

	body := scrape(t, m)
	for _, want := range []string{"fixturerun_host_cpu_percent 50", "fixturerun_host_memory_percent 60"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should still contain %q", want)
		}
	}
	if !strings.Contains(logs.String(), "host sample failed") {
		t.Errorf("failure should be logged, got: %s", logs.String())
	}
}

func TestSampleHost_Success(t *testing.T) {
	withHostSampler(t, func(context.Context) (sysmon.Stats, error) {
		return sysmon.Stats{CPUPercent: 12.5, MemPercent: 40}, nil
	})

	m := metrics.NewWithRegistry()
	sampleHost(context.Background(), "before", m, logging.NewNopLogger())

	body := scrape(t, m)
	for _, want := range []string{"fixturerun_host_cpu_percent 12.5", "fixturerun_host_memory_percent 40"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %q", want)
		}
	}
}

func TestRun_ThemeFromConfig(t *testing.T) {
	t.Setenv("FIXTURERUN_LOG_LEVEL", "error")
	t.Setenv("FIXTURERUN_THEME", "light")
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	defer ui.SetTheme("dark")

	plan := []PlanEntry{{Name: "unit/ok"}}
	a, err := New([]string{"fixturedemo"}, &bytes.Buffer{}, WithPlan(plan))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if code := a.Run(context.Background(), &bytes.Buffer{}); code != 0 {
		t.Fatalf("Run exit code = %d, want 0", code)
	}
	if got := ui.GetCurrentTheme().Name; got != "light" {
		t.Errorf("theme = %q, want light", got)
	}

	a.NoColor = true
	a.Run(context.Background(), &bytes.Buffer{})
	if got := ui.GetCurrentTheme().Name; got != "none" {
		t.Errorf("theme with -no-color = %q, want none", got)
	}
}
