// internal/progress/repository.go
//
// Typed access to a player's persisted records on top of store.KV.
// Every record is one JSON document under "player:{id}:{record}". A record
// that was never written reads as its first-run default, never as an error.

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robalobadob/numerix/apps/go-server/internal/achievements"
	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
	"github.com/robalobadob/numerix/apps/go-server/internal/stats"
	"github.com/robalobadob/numerix/apps/go-server/internal/store"
)

// ErrPersist wraps every failed write.
var ErrPersist = errors.New("progress: persist failed")

// Record names one per-player document.
type Record string

const (
	RecordSettings     Record = "settings"
	RecordUserStats    Record = "user-stats"
	RecordAchievements Record = "achievements"
	RecordDaily        Record = "daily-challenge"
	RecordSpeed        Record = "speed-stats"
	RecordPuzzle       Record = "puzzle-stats"
)

// Records lists every per-player document.
var Records = []Record{
	RecordSettings, RecordUserStats, RecordAchievements,
	RecordDaily, RecordSpeed, RecordPuzzle,
}

// Key returns the gateway key of a player's record.
func Key(player string, rec Record) string {
	return "player:" + player + ":" + string(rec)
}

// Settings are the player's client preferences.
type Settings struct {
	Theme          string `json:"theme"`
	SoundEnabled   bool   `json:"soundEnabled"`
	MusicEnabled   bool   `json:"musicEnabled"`
	HapticFeedback bool   `json:"hapticFeedback"`
	Notifications  bool   `json:"notifications"`
}

// DefaultSettings is the first-run settings record.
func DefaultSettings() Settings {
	return Settings{
		Theme:          "dark",
		SoundEnabled:   true,
		MusicEnabled:   true,
		HapticFeedback: true,
		Notifications:  true,
	}
}

// Repository reads and writes player records.
type Repository struct {
	kv store.KV
}

func NewRepository(kv store.KV) *Repository { return &Repository{kv: kv} }

// load decodes a record into dst. It reports false, leaving dst untouched,
// when the record does not exist.
func (r *Repository) load(ctx context.Context, player string, rec Record, dst any) (bool, error) {
	b, err := r.kv.Get(ctx, Key(player, rec))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", rec, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", rec, err)
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, player string, rec Record, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersist, rec, err)
	}
	if err := r.kv.Set(ctx, Key(player, rec), b); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPersist, rec, err)
	}
	return nil
}

func (r *Repository) Settings(ctx context.Context, player string) (Settings, error) {
	s := DefaultSettings()
	_, err := r.load(ctx, player, RecordSettings, &s)
	return s, err
}

func (r *Repository) SaveSettings(ctx context.Context, player string, s Settings) error {
	return r.save(ctx, player, RecordSettings, s)
}

// Stats loads the user stats together with the speed and puzzle records.
func (r *Repository) Stats(ctx context.Context, player string) (stats.UserStats, error) {
	s := stats.NewUserStats()
	if _, err := r.load(ctx, player, RecordUserStats, &s); err != nil {
		return s, err
	}
	if s.ByDifficulty == nil {
		s.ByDifficulty = stats.NewUserStats().ByDifficulty
	}
	if _, err := r.load(ctx, player, RecordSpeed, &s.Speed); err != nil {
		return s, err
	}
	if s.Speed.ByLevel == nil {
		s.Speed.ByLevel = map[string]stats.SpeedLevel{}
	}
	if _, err := r.load(ctx, player, RecordPuzzle, &s.Puzzle); err != nil {
		return s, err
	}
	if s.Puzzle.ByType == nil {
		s.Puzzle.ByType = map[string]stats.PuzzleType{}
	}
	if s.Puzzle.ByDifficulty == nil {
		s.Puzzle.ByDifficulty = map[string]stats.PuzzleLevel{}
	}
	return s, nil
}

// SaveStats writes the user, speed and puzzle records in that order and
// stops at the first failure.
func (r *Repository) SaveStats(ctx context.Context, player string, s stats.UserStats) error {
	if err := r.save(ctx, player, RecordUserStats, s); err != nil {
		return err
	}
	if err := r.save(ctx, player, RecordSpeed, s.Speed); err != nil {
		return err
	}
	return r.save(ctx, player, RecordPuzzle, s.Puzzle)
}

func (r *Repository) Achievements(ctx context.Context, player string) ([]achievements.Unlocked, error) {
	out := []achievements.Unlocked{}
	_, err := r.load(ctx, player, RecordAchievements, &out)
	return out, err
}

func (r *Repository) SaveAchievements(ctx context.Context, player string, a []achievements.Unlocked) error {
	return r.save(ctx, player, RecordAchievements, a)
}

func (r *Repository) Daily(ctx context.Context, player string) (daily.Record, error) {
	rec := daily.NewRecord()
	if _, err := r.load(ctx, player, RecordDaily, &rec); err != nil {
		return rec, err
	}
	if rec.Results == nil {
		rec.Results = []daily.Result{}
	}
	return rec, nil
}

func (r *Repository) SaveDaily(ctx context.Context, player string, rec daily.Record) error {
	return r.save(ctx, player, RecordDaily, rec)
}

// ClearAll removes every record of a player; later reads return defaults.
func (r *Repository) ClearAll(ctx context.Context, player string) error {
	keys := make([]string, 0, len(Records))
	for _, rec := range Records {
		keys = append(keys, Key(player, rec))
	}
	if err := r.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("%w: clear: %v", ErrPersist, err)
	}
	return nil
}

// Claim moves the records of player from to player to, so progress made
// anonymously follows a new account. Nothing moves if to already has any
// record; claimed reports whether a move happened.
func (r *Repository) Claim(ctx context.Context, from, to string) (claimed bool, err error) {
	if from == "" || from == to {
		return false, nil
	}
	for _, rec := range Records {
		_, err := r.kv.Get(ctx, Key(to, rec))
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return false, fmt.Errorf("claim: %w", err)
		}
	}
	var moved []string
	for _, rec := range Records {
		b, err := r.kv.Get(ctx, Key(from, rec))
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("claim: %w", err)
		}
		if err := r.kv.Set(ctx, Key(to, rec), b); err != nil {
			return false, fmt.Errorf("%w: claim %s: %v", ErrPersist, rec, err)
		}
		moved = append(moved, Key(from, rec))
	}
	if len(moved) == 0 {
		return false, nil
	}
	if err := r.kv.Delete(ctx, moved...); err != nil {
		return true, fmt.Errorf("%w: claim cleanup: %v", ErrPersist, err)
	}
	return true, nil
}
