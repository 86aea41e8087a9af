// internal/httpserver/routes_progress.go
//
// Player progress routes:
//   - GET    /stats/me      → aggregated stats plus speed and puzzle records
//   - GET    /achievements  → unlocked achievements, the catalogue and progress
//   - GET    /settings      → client preferences (defaults on first run)
//   - PUT    /settings      → replace client preferences
//   - DELETE /progress      → wipe every record of the player

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numerix/apps/go-server/internal/achievements"
	"github.com/robalobadob/numerix/apps/go-server/internal/progress"
	"github.com/robalobadob/numerix/apps/go-server/internal/stats"
)

func (s *Server) mountProgress(r chi.Router) {
	r.Get("/stats/me", s.handleStats)
	r.Get("/achievements", s.handleAchievements)
	r.Get("/settings", s.handleGetSettings)
	r.Put("/settings", s.handlePutSettings)
	r.Delete("/progress", s.handleClearProgress)
}

type statsRes struct {
	Stats   stats.UserStats   `json:"stats"`
	WinRate float64           `json:"winRate"`
	Speed   stats.SpeedStats  `json:"speed"`
	Puzzle  stats.PuzzleStats `json:"puzzle"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.repo.Stats(r.Context(), s.playerID(w, r))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, statsRes{Stats: st, WinRate: st.WinRate(), Speed: st.Speed, Puzzle: st.Puzzle})
}

type achievementsRes struct {
	Unlocked []achievements.Unlocked `json:"unlocked"`
	Rules    []achievements.Rule     `json:"rules"`
	Progress achievements.Progress   `json:"progress"`
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	have, err := s.repo.Achievements(r.Context(), s.playerID(w, r))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, achievementsRes{
		Unlocked: have,
		Rules:    s.eval.Rules(),
		Progress: s.eval.Progress(have),
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	set, err := s.repo.Settings(r.Context(), s.playerID(w, r))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	set := progress.DefaultSettings()
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	if set.Theme != "dark" && set.Theme != "light" {
		writeErr(w, http.StatusBadRequest, "bad_theme")
		return
	}
	if err := s.repo.SaveSettings(r.Context(), player, set); err != nil {
		log.Error().Err(err).Str("player", player).Msg("save settings")
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// handleClearProgress abandons the active session and deletes all records.
func (s *Server) handleClearProgress(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	s.sessions.drop(player)
	if err := s.repo.ClearAll(r.Context(), player); err != nil {
		log.Error().Err(err).Str("player", player).Msg("clear progress")
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	log.Info().Str("player", player).Msg("progress cleared")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
