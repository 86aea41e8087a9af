// Package stats folds finished sessions into the cumulative per-player
// records. Every fold is pure: it takes a record value and returns an
// updated copy.
package stats

import (
	"github.com/robalobadob/numerix/apps/go-server/internal/game"
)

// Bucket is the per-difficulty breakdown of UserStats.
type Bucket struct {
	Games         int  `json:"games"`
	Wins          int  `json:"wins"`
	TotalAttempts int  `json:"totalAttempts"`
	BestAttempts  *int `json:"bestAttempts"`
}

// UserStats is the cumulative record for classic and daily games.
type UserStats struct {
	TotalGames       int               `json:"totalGames"`
	TotalWins        int               `json:"totalWins"`
	TotalLosses      int               `json:"totalLosses"`
	CurrentWinStreak int               `json:"currentWinStreak"`
	LongestWinStreak int               `json:"longestWinStreak"`
	PerfectGames     int               `json:"perfectGames"`
	Comebacks        int               `json:"comebacks"`
	DailyStreak      int               `json:"dailyStreak"`
	ByDifficulty     map[string]Bucket `json:"byDifficulty"`

	// Speed and Puzzle are persisted under their own keys.
	Speed  SpeedStats  `json:"-"`
	Puzzle PuzzleStats `json:"-"`
}

// NewUserStats returns the first-run record with easy, medium and hard
// buckets present.
func NewUserStats() UserStats {
	return UserStats{
		ByDifficulty: map[string]Bucket{
			"easy":   {},
			"medium": {},
			"hard":   {},
		},
		Speed:  NewSpeedStats(),
		Puzzle: NewPuzzleStats(),
	}
}

// Clone returns a deep copy.
func (s UserStats) Clone() UserStats {
	out := s
	out.ByDifficulty = make(map[string]Bucket, len(s.ByDifficulty))
	for k, b := range s.ByDifficulty {
		b.BestAttempts = copyInt(b.BestAttempts)
		out.ByDifficulty[k] = b
	}
	out.Speed = s.Speed.Clone()
	out.Puzzle = s.Puzzle.Clone()
	return out
}

// WinRate is wins over games, 0 with no games.
func (s UserStats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.TotalWins) / float64(s.TotalGames)
}

// Fold applies a finished session to the record of its mode. Classic and
// daily results update the main counters; speed and puzzle results update
// only their own sub-records.
func Fold(s UserStats, r game.Result) UserStats {
	out := s.Clone()
	switch r.ModeID {
	case game.ModeSpeed:
		out.Speed, _ = FoldSpeed(out.Speed, r)
	case game.ModePuzzle:
		out.Puzzle = FoldPuzzle(out.Puzzle, r)
	default:
		out = foldGame(out, r)
	}
	return out
}

func foldGame(s UserStats, r game.Result) UserStats {
	s.TotalGames++
	b := s.ByDifficulty[r.Difficulty]
	b.Games++
	if r.Won {
		s.TotalWins++
		s.CurrentWinStreak++
		s.LongestWinStreak = max(s.LongestWinStreak, s.CurrentWinStreak)
		if r.Attempts == 1 {
			s.PerfectGames++
		}
		if r.TrialsBeforeLast == 1 {
			s.Comebacks++
		}
		b.Wins++
		b.TotalAttempts += r.Attempts
		b.BestAttempts = minPtr(b.BestAttempts, r.Attempts)
	} else {
		s.TotalLosses++
		s.CurrentWinStreak = 0
	}
	if s.ByDifficulty == nil {
		s.ByDifficulty = map[string]Bucket{}
	}
	s.ByDifficulty[r.Difficulty] = b
	return s
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// minPtr returns a fresh pointer holding min(*cur, v), or v when cur is nil.
func minPtr(cur *int, v int) *int {
	if cur != nil && *cur < v {
		v = *cur
	}
	return &v
}
