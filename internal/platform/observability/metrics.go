package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsCrawled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brief_items_crawled_total",
		Help: "The total number of raw items fetched per source",
	}, []string{"source"})

	CrawlErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brief_crawl_errors_total",
		Help: "The total number of failed or timed-out source fetches",
	}, []string{"source"})

	PipelineProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brief_pipeline_processed_total",
		Help: "The total number of items processed by the selection pipeline",
	}, []string{"status"})

	DropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brief_drops_total",
		Help: "Total number of dropped items by reason",
	}, []string{"reason"})

	SelectionRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brief_selection_runs_total",
		Help: "Total number of selection runs by evaluation provenance",
	}, []string{"provenance"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brief_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "success"})

	DigestsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brief_digests_sent_total",
		Help: "The total number of digest emails sent",
	}, []string{"status"})

	DigestItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brief_digest_items",
		Help: "Number of items selected for the latest digest",
	})

	FeedbackEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brief_feedback_events_total",
		Help: "Total number of subscriber feedback events",
	}, []string{"section", "direction"})
)
