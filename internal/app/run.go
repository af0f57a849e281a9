package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/fixturerun/internal/coordinator"
	apperrors "github.com/agbru/fixturerun/internal/errors"
	"github.com/agbru/fixturerun/internal/journal"
	"github.com/agbru/fixturerun/internal/logging"
	"github.com/agbru/fixturerun/internal/metrics"
	"github.com/agbru/fixturerun/internal/suite"
	"github.com/agbru/fixturerun/internal/sysmon"
	"github.com/agbru/fixturerun/internal/ui"
)

// Run executes the plan and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.Theme, a.NoColor)
	logger := logging.NewLevelLogger(a.ErrWriter, "fixturedemo", a.Config.LogLevel)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	m := metrics.NewWithRegistry()
	if a.Config.MetricsAddr != "" {
		stop, err := serveMetrics(a.Config.MetricsAddr, m, logger)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error starting metrics endpoint: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer stop()
	}

	opts := append(a.Config.CoordinatorOptions(),
		coordinator.WithLogger(logger),
		coordinator.WithMetrics(m),
	)
	if a.Config.JournalPath != "" {
		j, err := journal.Open(a.Config.JournalPath)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error opening journal: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer j.Close()
		opts = append(opts, coordinator.WithRecorder(j))
	}

	var hookOpts []suite.Option
	hookOpts = append(hookOpts, suite.WithLogger(logger))
	if a.Config.Report {
		hookOpts = append(hookOpts, suite.WithReport(out, ui.GetCurrentTheme()))
	}
	hooks := suite.New(coordinator.New[string](a.Registry, opts...), hookOpts...)

	logger.Debug("fixture types registered", logging.Int("count", len(a.Registry.Types())))
	sampleHost(ctx, "before", m, logger)
	defer sampleHost(context.WithoutCancel(ctx), "after", m, logger)
	return a.runPlan(ctx, hooks, out)
}

// hostSampler reads system-wide resource usage.
var hostSampler = sysmon.Sample

// sampleHost records system-wide resource usage. A failed sample is logged
// and leaves the previous gauge values in place.
func sampleHost(ctx context.Context, phase string, m *metrics.Metrics, logger logging.Logger) {
	stats, err := hostSampler(ctx)
	if err != nil {
		logger.Warn("host sample failed", logging.String("phase", phase), logging.Err(err))
		return
	}
	m.HostSampled(stats.CPUPercent, stats.MemPercent)
	logger.Debug("host resources",
		logging.String("phase", phase),
		logging.Float64("cpu_percent", stats.CPUPercent),
		logging.Float64("mem_percent", stats.MemPercent),
	)
}

// runPlan registers every plan entry, runs each item in order and tears the
// fixtures down at the end, even when the run was interrupted.
func (a *Application) runPlan(ctx context.Context, hooks *suite.Hooks[string], out io.Writer) int {
	decls := make([]suite.Declaration[string], 0, len(a.Plan))
	for _, e := range a.Plan {
		if e.Fixture != "" {
			decls = append(decls, suite.Declare(e.Name, e.Fixture, e.Params...))
		}
	}
	if err := hooks.Discover(decls...); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error registering work items: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	defer hooks.SuiteFinished(context.WithoutCancel(ctx))

	exitCode := apperrors.ExitSuccess
	for _, e := range a.Plan {
		start := time.Now()
		value, err := hooks.BeforeItem(ctx, e.Name)
		if err == nil && e.Body != nil {
			err = e.Body(ctx, value)
		}
		elapsed := time.Since(start).Round(time.Millisecond)

		switch {
		case err == nil:
			fmt.Fprintf(out, "PASS  %-20s %s\n", e.Name, elapsed)
		case apperrors.IsContextError(err):
			fmt.Fprintf(out, "STOP  %-20s %v\n", e.Name, err)
			return apperrors.ExitErrorGeneric
		case apperrors.IsSetupPhase(err):
			fmt.Fprintf(out, "FAIL  %-20s %v\n", e.Name, err)
			exitCode = apperrors.ExitErrorSetup
		default:
			fmt.Fprintf(out, "FAIL  %-20s %v\n", e.Name, err)
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		}
	}
	return exitCode
}

// serveMetrics exposes m on addr until the returned stop function is called.
func serveMetrics(addr string, m *metrics.Metrics, logger logging.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", err)
		}
	}()
	logger.Info("serving metrics", logging.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
