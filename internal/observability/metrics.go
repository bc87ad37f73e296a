package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	queriesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "health_query",
		Subsystem: "engine",
		Name:      "queries_total",
		Help:      "Number of processed queries grouped by resolved intent and outcome.",
	}, []string{"intent", "outcome"})

	insightRunsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "health_query",
		Subsystem: "insights",
		Name:      "generation_runs_total",
		Help:      "Number of insight generation runs.",
	})

	insightCountGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "health_query",
		Subsystem: "insights",
		Name:      "last_generation_count",
		Help:      "Number of insights produced by the most recent generation run.",
	})

	lastQueryGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "health_query",
		Subsystem: "engine",
		Name:      "last_query_timestamp_seconds",
		Help:      "Unix timestamp of the most recent processed query.",
	})
)

func init() {
	prometheus.MustRegister(queriesCounter, insightRunsCounter, insightCountGauge, lastQueryGauge)
}

// RecordQuery updates the query counters after the orchestrator finishes a
// request, successfully or not.
func RecordQuery(intent string, err error, ts time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	queriesCounter.WithLabelValues(intent, outcome).Inc()
	if !ts.IsZero() {
		lastQueryGauge.Set(float64(ts.Unix()))
	}
}

// RecordInsightRun updates the insight generation counters.
func RecordInsightRun(count int) {
	insightRunsCounter.Inc()
	insightCountGauge.Set(float64(count))
}
