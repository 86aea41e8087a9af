// internal/game/engine.go
//
// Session state machine for a single game.
// Responsibilities:
//   - Hold the immutable Config and the mutable State of one session.
//   - Route raw guesses through the mode's validate and handle steps.
//   - Apply countdown ticks for timed modes.
//   - Track transitions: playing → won/lost (terminal).
//
// Notes:
//   - Guess and Tick serialize on one mutex; whichever acquires it first
//     while the status is playing decides the terminal state.
//   - Exactly one call (Guess or Tick) reports Finished for a session.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Session is one game in progress. Safe for concurrent use.
type Session struct {
	ID        string
	StartedAt time.Time

	mode Mode
	cfg  Config
	now  func() time.Time

	mu               sync.Mutex
	st               State
	trialsBeforeLast int
	finishedAt       time.Time
}

// GuessResult is returned by Session.Guess.
type GuessResult struct {
	Validation Validation `json:"validation"`
	State      State      `json:"state"`
	// Finished is true only on the guess that ended the session.
	Finished bool `json:"finished"`
}

// Result summarizes a finished session for stats and achievements.
type Result struct {
	ModeID        ModeID
	Difficulty    string
	Date          string
	PuzzleType    string
	Won           bool
	Target        int
	Attempts      int
	// TrialsBeforeLast is the budget left before the final guess was made.
	TrialsBeforeLast int
	TimeLimit        int
	TimeRemaining    int
	Elapsed          time.Duration

	BaseScore            int
	DifficultyMultiplier float64
	UseProximityBonus    bool
}

func newSession(id string, mode Mode, cfg *Config, target int, now func() time.Time) *Session {
	st := State{
		Status:          StatusPlaying,
		TargetNumber:    target,
		TrialsRemaining: cfg.Trials,
		GuessHistory:    []int{},
		Hint:            cfg.Instructions,
	}
	if cfg.HasTimer {
		secs := cfg.TimerSeconds
		st.TimeRemaining = &secs
	}
	return &Session{
		ID:        id,
		StartedAt: now(),
		mode:      mode,
		cfg:       *cfg,
		now:       now,
		st:        st,
	}
}

// Config returns the session's config.
func (s *Session) Config() Config { return s.cfg }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

// Guess validates and applies one raw guess. A rejected guess leaves the
// state untouched and is reported through GuessResult.Validation. Guessing
// on a finished session returns ErrSessionOver.
func (s *Session) Guess(raw string) (GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Status != StatusPlaying {
		return GuessResult{State: s.st.clone()}, ErrSessionOver
	}
	s.st.CurrentGuessText = raw
	v := s.mode.ValidateGuess(raw, s.st.TargetNumber, &s.cfg, s.st)
	if !v.Valid {
		return GuessResult{Validation: v, State: s.st.clone()}, nil
	}

	before := s.st.TrialsRemaining
	out := s.mode.HandleGuess(v.Guess, s.st.TargetNumber, &s.cfg, s.st)
	s.st.Status = out.Status
	s.st.TrialsRemaining = out.TrialsRemaining
	s.st.GuessHistory = out.GuessHistory
	s.st.Hint = out.Hint
	s.st.Proximity = out.Proximity
	s.st.CurrentGuessText = ""
	s.trialsBeforeLast = before

	finished := out.Status != StatusPlaying
	if finished {
		s.finishedAt = s.now()
	}
	return GuessResult{Validation: v, State: s.st.clone(), Finished: finished}, nil
}

// Tick advances the countdown by one second. It reports true when this tick
// expired the session. Ticks on an untimed or finished session are no-ops.
func (s *Session) Tick() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Status != StatusPlaying || s.st.TimeRemaining == nil {
		return s.st.clone(), false
	}
	*s.st.TimeRemaining--
	if *s.st.TimeRemaining > 0 {
		return s.st.clone(), false
	}
	*s.st.TimeRemaining = 0
	s.st.Status = StatusLost
	s.st.Proximity = ProximityNone
	s.st.Hint = fmt.Sprintf("Time's up! The answer was %d", s.st.TargetNumber)
	s.trialsBeforeLast = s.st.TrialsRemaining
	s.finishedAt = s.now()
	return s.st.clone(), true
}

// RunCountdown ticks the session every interval until it finishes or ctx is
// cancelled. onExpire runs once if a tick ended the session.
func (s *Session) RunCountdown(ctx context.Context, interval time.Duration, onExpire func(State)) {
	if !s.cfg.HasTimer {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st, expired := s.Tick()
			if expired {
				if onExpire != nil {
					onExpire(st)
				}
				return
			}
			if st.Status != StatusPlaying {
				return
			}
		}
	}
}

// Result reports the summary of a finished session; ok is false while the
// session is still playing.
func (s *Session) Result() (r Result, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.Status == StatusPlaying {
		return Result{}, false
	}
	r = Result{
		ModeID:               s.cfg.ModeID,
		Difficulty:           s.cfg.Difficulty,
		Date:                 s.cfg.Date,
		PuzzleType:           s.cfg.PuzzleType,
		Won:                  s.st.Status == StatusWon,
		Target:               s.st.TargetNumber,
		Attempts:             len(s.st.GuessHistory),
		TrialsBeforeLast:     s.trialsBeforeLast,
		TimeLimit:            s.cfg.TimerSeconds,
		Elapsed:              s.finishedAt.Sub(s.StartedAt),
		BaseScore:            s.cfg.BaseScore,
		DifficultyMultiplier: s.cfg.DifficultyMultiplier,
		UseProximityBonus:    s.cfg.UseProximityBonus,
	}
	if s.st.TimeRemaining != nil {
		r.TimeRemaining = *s.st.TimeRemaining
	}
	return r, true
}
