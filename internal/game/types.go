// internal/game/types.go
//
// Core type definitions for the number-guessing engine.
// Defines:
//   - ModeID / Status / Proximity enums.
//   - Config: immutable per-session settings built by a Mode.
//   - State: mutable per-session state owned by a Session.
//   - Validation / Outcome: results of a Mode's validate and handle steps.

package game

import (
	"errors"

	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
	"github.com/robalobadob/numerix/apps/go-server/internal/puzzle"
	"github.com/robalobadob/numerix/apps/go-server/internal/speed"
)

var (
	// ErrInvalidChallenge means a start request could not produce a config.
	ErrInvalidChallenge = errors.New("game: invalid challenge")
	// ErrUnknownMode means no mode is registered for the requested ID.
	ErrUnknownMode = errors.New("game: unknown mode")
	// ErrSessionOver is returned for guesses against a won or lost session.
	ErrSessionOver = errors.New("game: session finished")
)

// ModeID names a game mode.
type ModeID string

const (
	ModeClassic ModeID = "classic"
	ModeDaily   ModeID = "daily"
	ModeSpeed   ModeID = "speed"
	ModePuzzle  ModeID = "puzzle"
)

// Status is the session state. Won and lost are terminal.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Proximity is the distance band of a wrong guess.
type Proximity string

const (
	ProximityNone      Proximity = ""
	ProximityBurning   Proximity = "burning"
	ProximityVeryClose Proximity = "very_close"
	ProximityClose     Proximity = "close"
	ProximityMedium    Proximity = "medium"
	ProximityFar       Proximity = "far"
)

// Unbounded marks a trial budget with no limit (speed mode).
const Unbounded = -1

// Config is built once at session start and never modified afterwards.
type Config struct {
	ModeID       ModeID     `json:"modeId"`
	Difficulty   string     `json:"difficulty"`
	Name         string     `json:"name"`
	MinGuess     int        `json:"minGuess"`
	MaxRange     int        `json:"maxRange"`
	Trials       int        `json:"trials"`
	HasTimer     bool       `json:"hasTimer"`
	TimerSeconds int        `json:"timerSeconds,omitempty"`
	TargetNumber *int       `json:"-"`
	SpecialRule  daily.Rule `json:"specialRule,omitempty"`
	ColorKey     string     `json:"colorKey"`
	Instructions string     `json:"instructions"`
	Date         string     `json:"date,omitempty"`

	BaseScore            int     `json:"baseScore,omitempty"`
	DifficultyMultiplier float64 `json:"difficultyMultiplier,omitempty"`
	UseProximityBonus    bool    `json:"useProximityBonus,omitempty"`

	PuzzleType     string   `json:"puzzleType,omitempty"`
	PuzzleText     string   `json:"puzzleText,omitempty"`
	PuzzleHints    []string `json:"-"`
	HintsAvailable int      `json:"hintsAvailable,omitempty"`
}

// Bounded reports whether the config has a finite trial budget.
func (c *Config) Bounded() bool { return c.Trials != Unbounded }

// State is the mutable state of one session.
type State struct {
	Status           Status    `json:"status"`
	TargetNumber     int       `json:"-"`
	CurrentGuessText string    `json:"currentGuessText"`
	TrialsRemaining  int       `json:"trialsRemaining"`
	GuessHistory     []int     `json:"guessHistory"`
	Hint             string    `json:"hint"`
	Proximity        Proximity `json:"proximity,omitempty"`
	TimeRemaining    *int      `json:"timeRemaining,omitempty"`
}

func (s State) clone() State {
	out := s
	out.GuessHistory = append([]int(nil), s.GuessHistory...)
	if s.TimeRemaining != nil {
		v := *s.TimeRemaining
		out.TimeRemaining = &v
	}
	return out
}

func (s State) guessed(n int) bool {
	for _, g := range s.GuessHistory {
		if g == n {
			return true
		}
	}
	return false
}

// Validation is the result of checking raw input. A rejected guess is a
// normal value, not an error.
type Validation struct {
	Valid   bool   `json:"valid"`
	Guess   int    `json:"guess,omitempty"`
	Message string `json:"message,omitempty"`
}

func reject(msg string) Validation { return Validation{Message: msg} }

// Outcome is the state transition produced by an accepted guess.
type Outcome struct {
	Status          Status
	TrialsRemaining int
	GuessHistory    []int
	Hint            string
	Proximity       Proximity
}

// StartInput is what the client supplies to begin a session. Only the field
// relevant to ModeID is read.
type StartInput struct {
	ModeID     ModeID
	Difficulty string
	Daily      *daily.Challenge
	Speed      *speed.Challenge
	Puzzle     *puzzle.Challenge
}

// Mode is one game variant.
type Mode interface {
	ID() ModeID
	// Config builds the session config or returns an error wrapping
	// ErrInvalidChallenge. Callers must not start a session on error.
	Config(in StartInput) (*Config, error)
	// GenerateTarget returns the number to guess.
	GenerateTarget(cfg *Config) int
	// ValidateGuess parses and checks raw input without changing state.
	ValidateGuess(raw string, target int, cfg *Config, st State) Validation
	// HandleGuess computes the transition for an already validated guess.
	HandleGuess(guess, target int, cfg *Config, st State) Outcome
}
