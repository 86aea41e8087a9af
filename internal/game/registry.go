package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
)

// Registry is the fixed set of game modes.
type Registry struct {
	modes map[ModeID]Mode
	now   func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithIntn sets the randomness source for classic targets. intn must return
// a uniform value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(r *Registry) { r.modes[ModeClassic] = classicMode{intn: intn} }
}

// WithClock sets the clock used for session start and finish times.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry registers classic, daily, speed and puzzle.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		modes: map[ModeID]Mode{
			ModeClassic: classicMode{intn: cryptoIntn},
			ModeDaily:   dailyMode{},
			ModeSpeed:   speedMode{},
			ModePuzzle:  puzzleMode{},
		},
		now: time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Lookup returns the mode for id or ErrUnknownMode.
func (r *Registry) Lookup(id ModeID) (Mode, error) {
	m, ok := r.modes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, id)
	}
	return m, nil
}

// Start builds the config, fixes the target and opens a new session.
// Config failures are logged and returned; no session is created.
func (r *Registry) Start(in StartInput) (*Session, error) {
	m, err := r.Lookup(in.ModeID)
	if err != nil {
		return nil, err
	}
	cfg, err := m.Config(in)
	if err != nil {
		log.Warn().Err(err).Str("mode", string(in.ModeID)).Msg("rejecting session start")
		return nil, err
	}
	target := m.GenerateTarget(cfg)
	s := newSession(randomID(), m, cfg, target, r.now)
	log.Debug().Str("session", s.ID).Str("mode", string(cfg.ModeID)).Str("difficulty", cfg.Difficulty).Msg("session started")
	return s, nil
}

func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
