// Package metrics provides Prometheus metrics for the class browser.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session metrics
	sessionsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classbrowser_sessions_opened_total",
			Help: "Total number of archive open attempts",
		},
		[]string{"status"},
	)

	treeSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classbrowser_tree_nodes",
			Help: "Number of nodes in the currently loaded tree",
		},
	)

	indexedEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classbrowser_indexed_entries",
			Help: "Number of browsable entries in the currently loaded archive",
		},
	)

	// Decompilation metrics
	decompileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classbrowser_decompile_duration_seconds",
			Help:    "Time to decompile a whole archive",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine", "status"},
	)

	// Cache metrics
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classbrowser_cache_lookups_total",
			Help: "Decompiled output cache lookups",
		},
		[]string{"result"},
	)

	cacheStaleWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classbrowser_cache_stale_writes_total",
			Help: "Decompiler results discarded because their session was closed",
		},
	)

	cacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classbrowser_cache_entries",
			Help: "Number of decompiled sources held in the cache",
		},
	)

	// Navigation metrics
	resolves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classbrowser_resolves_total",
			Help: "Tree selections resolved, by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordSessionOpen records an open attempt; status is "ok" or "error".
func RecordSessionOpen(status string) {
	sessionsOpened.WithLabelValues(status).Inc()
}

// SetTreeSize sets the loaded tree's node count and browsable entry count.
func SetTreeSize(nodes, entries int) {
	treeSize.Set(float64(nodes))
	indexedEntries.Set(float64(entries))
}

// RecordDecompile records one whole-archive decompilation run.
func RecordDecompile(engine, status string, d time.Duration) {
	decompileDuration.WithLabelValues(engine, status).Observe(d.Seconds())
}

// RecordCacheHit counts a cache hit.
func RecordCacheHit() {
	cacheLookups.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss() {
	cacheLookups.WithLabelValues("miss").Inc()
}

// RecordStaleWrite counts a discarded late decompiler result.
func RecordStaleWrite() {
	cacheStaleWrites.Inc()
}

// SetCacheEntries sets the current cache size.
func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}

// RecordResolve counts a resolution by outcome ("decompiled", "raw",
// "not_found", "missing", "unsupported", "not_ready", "error").
func RecordResolve(outcome string) {
	resolves.WithLabelValues(outcome).Inc()
}

// WriteTextfile dumps every registered metric to path in the Prometheus
// text format, for pickup by a node-exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
