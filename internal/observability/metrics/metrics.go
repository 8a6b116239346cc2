// Package metrics registers the tracker's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PassesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_passes_total",
		Help: "Aggregation passes, by trigger.",
	}, []string{"trigger"})

	PassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracker_pass_duration_seconds",
		Help:    "Wall time of one aggregation pass.",
		Buckets: prometheus.DefBuckets,
	})

	SourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_source_errors_total",
		Help: "Upstream fetch failures, by source.",
	}, []string{"source"})

	ArticlesAggregated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tracker_articles",
		Help: "Articles in the current snapshot.",
	})

	BreakingArticles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tracker_breaking_articles",
		Help: "Articles currently classified as breaking.",
	})

	NewArticles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_new_articles_total",
		Help: "Articles first seen by a pass.",
	})
)
