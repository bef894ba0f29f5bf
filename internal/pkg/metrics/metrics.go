package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckInsTotal counts evaluated check-ins by resulting status label.
	CheckInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presence_checkins_total",
		Help: "Check-ins evaluated, labelled by resulting status.",
	}, []string{"status"})

	// CascadeRecordsTotal counts forced-absence records written for the day
	// after a very late check-in.
	CascadeRecordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presence_cascade_records_total",
		Help: "Forced next-day absence records created by the cascade rule.",
	})

	// DegradedFetchesTotal counts calendar batch-fetch branches that failed
	// and were substituted with defaults.
	DegradedFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presence_calendar_degraded_fetches_total",
		Help: "Calendar batch fetch branches replaced by safe defaults.",
	}, []string{"branch"})

	// CalendarBuildSeconds observes end-to-end monthly calendar build time.
	CalendarBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "presence_calendar_build_seconds",
		Help:    "Duration of monthly calendar aggregation.",
		Buckets: prometheus.DefBuckets,
	})
)
