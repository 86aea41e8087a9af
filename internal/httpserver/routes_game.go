// internal/httpserver/routes_game.go
//
// Game session routes:
//   - POST /game/new    → start a session for any mode (abandons the previous one)
//   - POST /game/guess  → submit a guess to the active session
//   - GET  /game/{id}   → read the active session
//
// The target stays hidden until the session is won or lost. When a session
// finishes (by guess or by countdown) the progress pipeline runs once.

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numerix/apps/go-server/internal/achievements"
	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
	"github.com/robalobadob/numerix/apps/go-server/internal/game"
	"github.com/robalobadob/numerix/apps/go-server/internal/metrics"
	"github.com/robalobadob/numerix/apps/go-server/internal/progress"
	"github.com/robalobadob/numerix/apps/go-server/internal/speed"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Get("/game/{id}", s.handleGetGame)
}

type newGameReq struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	PuzzleType string `json:"puzzleType"`
}

// gameView is the client-facing session snapshot.
type gameView struct {
	GameID string      `json:"gameId"`
	Config game.Config `json:"config"`
	State  game.State  `json:"state"`
	Answer *int        `json:"answer,omitempty"`
}

func viewOf(sess *game.Session, st game.State) gameView {
	v := gameView{GameID: sess.ID, Config: sess.Config(), State: st}
	if st.Status != game.StatusPlaying {
		target := st.TargetNumber
		v.Answer = &target
	}
	return v
}

// startInput resolves the challenge a mode needs.
func (s *Server) startInput(req newGameReq) (game.StartInput, error) {
	in := game.StartInput{ModeID: game.ModeID(req.Mode), Difficulty: req.Difficulty}
	switch in.ModeID {
	case game.ModeDaily:
		ch, err := daily.Generate(s.now())
		if err != nil {
			return in, err
		}
		in.Daily = &ch
	case game.ModeSpeed:
		ch := s.speed.Generate(req.Difficulty)
		in.Speed = &ch
	case game.ModePuzzle:
		ch, err := s.puzzle.Generate(req.Difficulty, req.PuzzleType)
		if err != nil {
			return in, err
		}
		in.Puzzle = &ch
	}
	return in, nil
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	in, err := s.startInput(req)
	if err != nil {
		log.Error().Err(err).Str("mode", req.Mode).Str("player", player).Msg("challenge generation failed")
		writeErr(w, http.StatusInternalServerError, "challenge_unavailable")
		return
	}
	sess, err := s.registry.Start(in)
	switch {
	case errors.Is(err, game.ErrUnknownMode):
		writeErr(w, http.StatusBadRequest, "unknown_mode")
		return
	case errors.Is(err, game.ErrInvalidChallenge):
		writeErr(w, http.StatusUnprocessableEntity, "invalid_challenge")
		return
	case err != nil:
		writeErr(w, http.StatusInternalServerError, "start_failed")
		return
	}

	var cancel context.CancelFunc
	if sess.Config().HasTimer {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		go sess.RunCountdown(ctx, s.cfg.SpeedTick, func(game.State) {
			_, _ = s.finish(context.Background(), player, sess)
		})
	}
	s.sessions.put(player, sess, cancel)
	metrics.GameStarted(string(in.ModeID))

	writeJSON(w, http.StatusOK, viewOf(sess, sess.Snapshot()))
}

// guessValue accepts a guess sent as a JSON string or number.
type guessValue string

func (g *guessValue) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = guessValue(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*g = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*g = guessValue(n.String())
	return nil
}

type guessReq struct {
	GameID string     `json:"gameId"`
	Guess  guessValue `json:"guess"`
}

type guessRes struct {
	Valid    bool                `json:"valid"`
	Message  string              `json:"message,omitempty"`
	State    game.State          `json:"state"`
	Finished bool                `json:"finished,omitempty"`
	Answer   *int                `json:"answer,omitempty"`
	Saved    *bool               `json:"saved,omitempty"`
	Score    *speed.Score        `json:"score,omitempty"`
	Unlocked []achievements.Rule `json:"unlocked,omitempty"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.sessions.get(player, req.GameID)
	if !ok {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	res, err := sess.Guess(string(req.Guess))
	if errors.Is(err, game.ErrSessionOver) {
		writeErr(w, http.StatusConflict, "game_over")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	mode := string(sess.Config().ModeID)
	metrics.Guess(mode, res.Validation.Valid)

	out := guessRes{
		Valid:    res.Validation.Valid,
		Message:  res.Validation.Message,
		State:    res.State,
		Finished: res.Finished,
	}
	if res.State.Status != game.StatusPlaying {
		target := res.State.TargetNumber
		out.Answer = &target
	}
	if res.Finished {
		sum, err := s.finish(r.Context(), player, sess)
		saved := err == nil
		out.Saved = &saved
		out.Score = sum.Score
		out.Unlocked = sum.Unlocked
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	sess, ok := s.sessions.get(player, chi.URLParam(r, "id"))
	if !ok {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, sess.Snapshot()))
}

// finish runs the progress pipeline for a session that just ended.
func (s *Server) finish(ctx context.Context, player string, sess *game.Session) (progress.Summary, error) {
	res, ok := sess.Result()
	if !ok {
		return progress.Summary{}, nil
	}
	status := "lost"
	if res.Won {
		status = "won"
	}
	metrics.GameFinished(string(res.ModeID), status)

	sum, err := s.tracker.Finish(ctx, player, res)
	if err != nil {
		metrics.PersistFailed()
		log.Error().Err(err).Str("player", player).Str("mode", string(res.ModeID)).Msg("session results not saved")
		return sum, err
	}
	if n := len(sum.Unlocked); n > 0 {
		metrics.AchievementsUnlocked(n)
		log.Info().Str("player", player).Int("count", n).Msg("achievements unlocked")
	}
	log.Debug().Str("player", player).Str("session", sess.ID).Str("status", status).
		Int("attempts", res.Attempts).Msg("session finished")
	return sum, nil
}
