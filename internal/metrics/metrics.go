package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_generation_duration_seconds",
			Help:    "Duration of each full recommendation generation in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60},
		},
	)
	GenerationStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "recommender_generation_step_duration_seconds",
			Help:       "Duration of each step in the recommendation pipeline.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	GeneratedSetsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_generated_sets_total",
			Help: "Total number of recommendation sets written to the cache.",
		},
	)
	StaleCacheCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_stale_caches_total",
			Help: "Total number of freshness checks that found a stale or missing cache.",
		},
	)
)

func StartMetricsServer(address string) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(GenerationStepDuration)
	prometheus.MustRegister(GeneratedSetsCounter)
	prometheus.MustRegister(StaleCacheCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(address, nil))
	}()
}
