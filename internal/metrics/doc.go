// Package metrics exposes Prometheus collectors for fixture setup and
// teardown activity.
package metrics
