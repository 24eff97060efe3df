package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "unscramble"

var (
	roundsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rounds_started_total",
		Help:      "Total rounds started, including restarts",
	})

	roundsFinished = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rounds_finished_total",
		Help:      "Total rounds played to the last word",
	})

	guesses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guesses_total",
		Help:      "Submitted guesses by outcome",
	}, []string{"outcome"})

	skips = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skips_total",
		Help:      "Total skipped words",
	})

	finalScores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "final_score",
		Help:      "Distribution of final round scores",
		Buckets:   prometheus.LinearBuckets(0, 20, 11),
	})

	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory",
	})
)

var registerOnce sync.Once

// Init 向默认注册表注册指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			roundsStarted,
			roundsFinished,
			guesses,
			skips,
			finalScores,
			activeSessions,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RoundStarted() {
	roundsStarted.Inc()
}

func RoundFinished(score int) {
	roundsFinished.Inc()
	finalScores.Observe(float64(score))
}

func Guess(correct bool) {
	if correct {
		guesses.WithLabelValues("correct").Inc()
		return
	}

	guesses.WithLabelValues("incorrect").Inc()
}

func Skip() {
	skips.Inc()
}

func SessionOpened() {
	activeSessions.Inc()
}

func SessionClosed() {
	activeSessions.Dec()
}
