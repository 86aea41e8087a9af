package stats

import "github.com/robalobadob/numerix/apps/go-server/internal/game"

// PuzzleType is the per-category puzzle breakdown.
type PuzzleType struct {
	Games         int  `json:"games"`
	Wins          int  `json:"wins"`
	TotalAttempts int  `json:"totalAttempts"`
	BestAttempts  *int `json:"bestAttempts"`
	BestTime      *int `json:"bestTime"`
}

// PuzzleLevel is the per-difficulty puzzle breakdown.
type PuzzleLevel struct {
	Games    int  `json:"games"`
	Wins     int  `json:"wins"`
	BestTime *int `json:"bestTime"`
}

// PuzzleStats is the cumulative puzzle-mode record.
type PuzzleStats struct {
	TotalGames       int                    `json:"totalGames"`
	TotalWins        int                    `json:"totalWins"`
	TotalLosses      int                    `json:"totalLosses"`
	CurrentWinStreak int                    `json:"currentWinStreak"`
	LongestWinStreak int                    `json:"longestWinStreak"`
	BestTime         *int                   `json:"bestTime"`
	ByType           map[string]PuzzleType  `json:"byType"`
	ByDifficulty     map[string]PuzzleLevel `json:"byDifficulty"`
}

// NewPuzzleStats returns an empty puzzle record.
func NewPuzzleStats() PuzzleStats {
	return PuzzleStats{
		ByType:       map[string]PuzzleType{},
		ByDifficulty: map[string]PuzzleLevel{},
	}
}

// Clone returns a deep copy.
func (s PuzzleStats) Clone() PuzzleStats {
	out := s
	out.BestTime = copyInt(s.BestTime)
	out.ByType = make(map[string]PuzzleType, len(s.ByType))
	for k, t := range s.ByType {
		t.BestAttempts = copyInt(t.BestAttempts)
		t.BestTime = copyInt(t.BestTime)
		out.ByType[k] = t
	}
	out.ByDifficulty = make(map[string]PuzzleLevel, len(s.ByDifficulty))
	for k, l := range s.ByDifficulty {
		l.BestTime = copyInt(l.BestTime)
		out.ByDifficulty[k] = l
	}
	return out
}

// FoldPuzzle applies a finished puzzle round.
func FoldPuzzle(s PuzzleStats, r game.Result) PuzzleStats {
	out := s.Clone()
	used := r.TimeLimit - r.TimeRemaining
	ty := out.ByType[r.PuzzleType]
	lvl := out.ByDifficulty[r.Difficulty]

	out.TotalGames++
	ty.Games++
	lvl.Games++
	if r.Won {
		out.TotalWins++
		out.CurrentWinStreak++
		out.LongestWinStreak = max(out.LongestWinStreak, out.CurrentWinStreak)
		out.BestTime = minPtr(out.BestTime, used)
		ty.Wins++
		ty.TotalAttempts += r.Attempts
		ty.BestAttempts = minPtr(ty.BestAttempts, r.Attempts)
		ty.BestTime = minPtr(ty.BestTime, used)
		lvl.Wins++
		lvl.BestTime = minPtr(lvl.BestTime, used)
	} else {
		out.TotalLosses++
		out.CurrentWinStreak = 0
	}
	out.ByType[r.PuzzleType] = ty
	out.ByDifficulty[r.Difficulty] = lvl
	return out
}
