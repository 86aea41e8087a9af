// Package metrics exposes Prometheus counters for game activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	gamesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numerix_games_started_total",
			Help: "Sessions started by mode.",
		},
		[]string{"mode"},
	)

	gamesFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numerix_games_finished_total",
			Help: "Sessions finished by mode and status (won, lost).",
		},
		[]string{"mode", "status"},
	)

	guesses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numerix_guesses_total",
			Help: "Guesses submitted by mode and validity.",
		},
		[]string{"mode", "valid"},
	)

	achievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "numerix_achievements_unlocked_total",
		Help: "Achievements unlocked across all players.",
	})

	persistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "numerix_persist_failures_total",
		Help: "Session-end pipelines that failed to persist.",
	})
)

func GameStarted(mode string) { gamesStarted.WithLabelValues(mode).Inc() }

func GameFinished(mode, status string) { gamesFinished.WithLabelValues(mode, status).Inc() }

// Guess counts one submitted guess.
func Guess(mode string, valid bool) {
	v := "false"
	if valid {
		v = "true"
	}
	guesses.WithLabelValues(mode, v).Inc()
}

func AchievementsUnlocked(n int) { achievementsUnlocked.Add(float64(n)) }

func PersistFailed() { persistFailures.Inc() }

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
