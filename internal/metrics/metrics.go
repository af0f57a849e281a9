package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fixturerun"

// Label values.
const (
	statusSuccess = "success"
	statusFailure = "failure"

	pathTeardown       = "teardown"
	pathFailedTeardown = "failed_teardown"

	phaseSetup    = "setup"
	phaseTeardown = "teardown"
)

// Metrics holds the Prometheus collectors of one coordinator. Collectors are
// registered on the Registerer passed to New, so independent coordinators can
// use independent registries. All methods are safe on a nil *Metrics.
type Metrics struct {
	handler http.Handler

	itemsRegistered  prometheus.Counter
	setupJobs        prometheus.Counter
	setupsTotal      *prometheus.CounterVec
	setupDuration    prometheus.Histogram
	teardownsTotal   *prometheus.CounterVec
	teardownDuration prometheus.Histogram
	inFlight         *prometheus.GaugeVec
	hostCPU          prometheus.Gauge
	hostMemory       prometheus.Gauge
}

// New creates the collectors and registers them on reg.
// It panics if registration fails, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		itemsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_registered_total",
			Help:      "Total number of work items registered against a fixture.",
		}),
		setupJobs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "setup_jobs_scheduled_total",
			Help:      "Total number of deduplicated setup jobs scheduled.",
		}),
		setupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "setups_total",
			Help:      "Total number of fixture setups by result.",
		}, []string{"status"}),
		setupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "setup_duration_seconds",
			Help:      "Duration of fixture construction plus setup, in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		teardownsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teardowns_total",
			Help:      "Total number of fixture teardowns by path and result.",
		}, []string{"path", "status"}),
		teardownDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "teardown_duration_seconds",
			Help:      "Duration of fixture teardown, in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_in_flight",
			Help:      "Number of setup or teardown jobs currently running.",
		}, []string{"phase"}),
		hostCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_cpu_percent",
			Help:      "System-wide CPU usage at the last host sample.",
		}),
		hostMemory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_memory_percent",
			Help:      "System-wide memory usage at the last host sample.",
		}),
	}

	reg.MustRegister(
		m.itemsRegistered,
		m.setupJobs,
		m.setupsTotal,
		m.setupDuration,
		m.teardownsTotal,
		m.teardownDuration,
		m.inFlight,
		m.hostCPU,
		m.hostMemory,
	)

	// Pre-initialize label combinations so they are exported with value 0.
	for _, status := range []string{statusSuccess, statusFailure} {
		m.setupsTotal.WithLabelValues(status)
		for _, path := range []string{pathTeardown, pathFailedTeardown} {
			m.teardownsTotal.WithLabelValues(path, status)
		}
	}
	m.inFlight.WithLabelValues(phaseSetup)
	m.inFlight.WithLabelValues(phaseTeardown)

	return m
}

// NewWithRegistry creates collectors on a private registry that also carries
// the Go runtime and process collectors, and serves it from Handler.
func NewWithRegistry() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := New(reg)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

// Handler serves the metrics in the Prometheus exposition format. Metrics
// built with New are served from the default gatherer.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.handler == nil {
		return promhttp.Handler()
	}
	return m.handler
}

// ItemRegistered counts one registered work item.
func (m *Metrics) ItemRegistered() {
	if m == nil {
		return
	}
	m.itemsRegistered.Inc()
}

// SetupsScheduled counts jobs launched by one scheduling run.
func (m *Metrics) SetupsScheduled(jobs int) {
	if m == nil {
		return
	}
	m.setupJobs.Add(float64(jobs))
}

// SetupStarted marks a setup job as running.
func (m *Metrics) SetupStarted() {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(phaseSetup).Inc()
}

// SetupFinished records a finished setup job.
func (m *Metrics) SetupFinished(success bool, d time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(phaseSetup).Dec()
	m.setupsTotal.WithLabelValues(statusLabel(success)).Inc()
	m.setupDuration.Observe(d.Seconds())
}

// TeardownStarted marks a teardown job as running.
func (m *Metrics) TeardownStarted() {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(phaseTeardown).Inc()
}

// TeardownFinished records a finished teardown job.
func (m *Metrics) TeardownFinished(failedPath, success bool, d time.Duration) {
	if m == nil {
		return
	}
	path := pathTeardown
	if failedPath {
		path = pathFailedTeardown
	}
	m.inFlight.WithLabelValues(phaseTeardown).Dec()
	m.teardownsTotal.WithLabelValues(path, statusLabel(success)).Inc()
	m.teardownDuration.Observe(d.Seconds())
}

// HostSampled records a system-wide resource sample.
func (m *Metrics) HostSampled(cpuPercent, memPercent float64) {
	if m == nil {
		return
	}
	m.hostCPU.Set(cpuPercent)
	m.hostMemory.Set(memPercent)
}

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}
	return statusFailure
}
