// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three read endpoints under /daily:
//   - GET /daily/today       → today's challenge summary and the player's standing
//   - GET /daily/record      → the player's daily history and streaks
//   - GET /daily/leaderboard → top 20 winners for today (or ?date=YYYY-MM-DD)
//
// Play itself goes through POST /game/new {"mode":"daily"}. The challenge is
// derived from the UTC date, so every player gets the same one.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/today", s.handleDailyToday)
		r.Get("/record", s.handleDailyRecord)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// todayRes describes today's challenge without its target.
type todayRes struct {
	Date          string     `json:"date"`
	MaxRange      int        `json:"maxRange"`
	Trials        int        `json:"trials"`
	Difficulty    string     `json:"difficulty"`
	SpecialRule   daily.Rule `json:"specialRule,omitempty"`
	HasTimer      bool       `json:"hasTimer"`
	TimeLimit     int        `json:"timeLimit,omitempty"`
	Played        bool       `json:"played"`
	Won           bool       `json:"won"`
	Streak        int        `json:"streak"`
	LongestStreak int        `json:"longestStreak"`
}

func (s *Server) handleDailyToday(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	now := s.now()
	ch, err := daily.Generate(now)
	if err != nil {
		log.Error().Err(err).Str("date", daily.DateKey(now)).Msg("daily generation failed")
		writeErr(w, http.StatusInternalServerError, "challenge_unavailable")
		return
	}
	rec, err := s.repo.Daily(r.Context(), player)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, todayRes{
		Date:          ch.Date,
		MaxRange:      ch.MaxRange,
		Trials:        ch.Trials,
		Difficulty:    ch.Difficulty,
		SpecialRule:   ch.SpecialRule,
		HasTimer:      ch.SpecialRule.TimeLimit() > 0,
		TimeLimit:     ch.SpecialRule.TimeLimit(),
		Played:        daily.HasPlayedToday(rec, now),
		Won:           daily.HasWonToday(rec, now),
		Streak:        daily.DisplayStreak(rec, now),
		LongestStreak: rec.LongestStreak,
	})
}

func (s *Server) handleDailyRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.repo.Daily(r.Context(), s.playerID(w, r))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if _, err := daily.ParseDateKey(date); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_date")
		return
	}
	if s.board == nil {
		writeJSON(w, http.StatusOK, lbRes{Date: date, Top: []daily.LBRow{}})
		return
	}
	rows, err := s.board.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard query")
		writeErr(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
