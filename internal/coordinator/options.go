package coordinator

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/fixturerun/internal/logging"
	"github.com/agbru/fixturerun/internal/metrics"
)

const (
	// DefaultWorkers is the size of each setup and teardown pool.
	DefaultWorkers = 30
	// DefaultPollInterval is how often AwaitAllSetups re-snapshots the result
	// store and reports outstanding setups while it waits.
	DefaultPollInterval = 100 * time.Millisecond
)

type options struct {
	workers        int
	pollInterval   time.Duration
	logger         logging.Logger
	metrics        *metrics.Metrics
	tracerProvider trace.TracerProvider
	recorder       Recorder
}

// Option configures a Coordinator during construction.
type Option func(*options)

// WithWorkers sets the pool size used for each setup and teardown run.
// Non-positive values keep the default.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithPollInterval sets the wait-loop interval. Non-positive values keep the
// default.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracerProvider sets the provider used for setup and teardown spans.
// The global otel provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithRecorder attaches a run journal.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}
