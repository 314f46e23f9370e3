// Package metrics exposes Prometheus instruments for games, reply fallbacks
// and searches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	gamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quarto_games_total",
		Help: "Finished games by outcome",
	}, []string{"outcome"})

	fallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quarto_fallbacks_total",
		Help: "Seat replies replaced by a random legal choice",
	}, []string{"decision", "reason"})

	searchEpisodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quarto_search_episodes",
		Help:    "Simulations completed per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	}, []string{"decision"})

	searchSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quarto_search_seconds",
		Help:    "Wall clock time per search",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
	}, []string{"decision"})
)

// GameFinished counts a game ending with outcome "win" or "draw".
func GameFinished(outcome string) {
	gamesTotal.WithLabelValues(outcome).Inc()
}

// Fallback counts a substituted piece or move; reason is the failure kind.
func Fallback(decision, reason string) {
	fallbacksTotal.WithLabelValues(decision, reason).Inc()
}

func SearchCompleted(decision string, episodes int, duration time.Duration) {
	searchEpisodes.WithLabelValues(decision).Observe(float64(episodes))
	searchSeconds.WithLabelValues(decision).Observe(duration.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
