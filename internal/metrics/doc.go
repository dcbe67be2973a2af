// Package metrics exposes procmon's samples as Prometheus metrics.
//
// System-wide figures are read on every scrape through SystemCollector, so
// a scrape always reflects the proc files at that instant. Collection
// cycles run by the dashboard or the one-shot report are recorded through
// CycleMetrics.
package metrics
