package stats

import (
	"math"

	"github.com/robalobadob/numerix/apps/go-server/internal/game"
	"github.com/robalobadob/numerix/apps/go-server/internal/speed"
)

// perfectShare is the fraction of the time budget that must remain for a
// speed win to count as perfect.
const perfectShare = 0.8

// SpeedLevel is the per-difficulty speed breakdown.
type SpeedLevel struct {
	Games        int  `json:"games"`
	Wins         int  `json:"wins"`
	BestTime     *int `json:"bestTime"`
	BestGuesses  *int `json:"bestGuesses"`
	TotalGuesses int  `json:"totalGuesses"`
	Perfect      int  `json:"perfect"`
}

// SpeedStats is the cumulative speed-mode record.
type SpeedStats struct {
	TotalGames     int                   `json:"totalGames"`
	TotalWins      int                   `json:"totalWins"`
	BestTime       *int                  `json:"bestTime"`
	BestGuesses    *int                  `json:"bestGuesses"`
	TotalGuesses   int                   `json:"totalGuesses"`
	AverageGuesses int                   `json:"averageGuesses"`
	PerfectRuns    int                   `json:"perfectRuns"`
	BestScore      int                   `json:"bestScore"`
	TotalScore     int                   `json:"totalScore"`
	LastScore      *speed.Score          `json:"lastScore,omitempty"`
	ByLevel        map[string]SpeedLevel `json:"byLevel"`
}

// NewSpeedStats returns an empty speed record.
func NewSpeedStats() SpeedStats {
	return SpeedStats{ByLevel: map[string]SpeedLevel{}}
}

// Clone returns a deep copy.
func (s SpeedStats) Clone() SpeedStats {
	out := s
	out.BestTime = copyInt(s.BestTime)
	out.BestGuesses = copyInt(s.BestGuesses)
	if s.LastScore != nil {
		v := *s.LastScore
		out.LastScore = &v
	}
	out.ByLevel = make(map[string]SpeedLevel, len(s.ByLevel))
	for k, l := range s.ByLevel {
		l.BestTime = copyInt(l.BestTime)
		l.BestGuesses = copyInt(l.BestGuesses)
		out.ByLevel[k] = l
	}
	return out
}

// FoldSpeed applies a finished speed run. The returned score is nil for a
// lost run.
func FoldSpeed(s SpeedStats, r game.Result) (SpeedStats, *speed.Score) {
	out := s.Clone()
	taken := r.TimeLimit - r.TimeRemaining
	lvl := out.ByLevel[r.Difficulty]

	out.TotalGames++
	out.TotalGuesses += r.Attempts
	out.AverageGuesses = int(math.Round(float64(out.TotalGuesses) / float64(out.TotalGames)))
	lvl.Games++
	lvl.TotalGuesses += r.Attempts

	var score *speed.Score
	if r.Won {
		sc := speed.ScoreRun(r.BaseScore, r.DifficultyMultiplier, r.TimeLimit, r.TimeRemaining, r.Attempts, r.UseProximityBonus)
		score = &sc
		out.TotalWins++
		out.BestTime = minPtr(out.BestTime, taken)
		out.BestGuesses = minPtr(out.BestGuesses, r.Attempts)
		out.BestScore = max(out.BestScore, sc.Total)
		out.TotalScore += sc.Total
		out.LastScore = score
		lvl.Wins++
		lvl.BestTime = minPtr(lvl.BestTime, taken)
		lvl.BestGuesses = minPtr(lvl.BestGuesses, r.Attempts)
		if r.TimeLimit > 0 && float64(r.TimeRemaining) > perfectShare*float64(r.TimeLimit) {
			out.PerfectRuns++
			lvl.Perfect++
		}
	}
	out.ByLevel[r.Difficulty] = lvl
	return out, score
}
