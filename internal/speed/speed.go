// Package speed generates timed speed challenges and scores finished runs.
package speed

import (
	"crypto/rand"
	"math"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Level tuning for speed challenges.
type Level struct {
	MaxRange             int
	TimeLimit            int
	BaseScore            int
	DifficultyMultiplier float64
}

var levels = map[string]Level{
	"easy":    {MaxRange: 50, TimeLimit: 45, BaseScore: 100, DifficultyMultiplier: 1.0},
	"medium":  {MaxRange: 100, TimeLimit: 60, BaseScore: 200, DifficultyMultiplier: 1.5},
	"hard":    {MaxRange: 200, TimeLimit: 75, BaseScore: 300, DifficultyMultiplier: 2.0},
	"extreme": {MaxRange: 500, TimeLimit: 90, BaseScore: 500, DifficultyMultiplier: 3.0},
}

// Levels lists the accepted difficulty keys, easiest first.
var Levels = []string{"easy", "medium", "hard", "extreme"}

const (
	minTimeLimit       = 20
	proximityChancePct = 30
	proximityBonus     = 50
	efficiencyPar      = 20
)

// Challenge is one generated speed round.
type Challenge struct {
	ID                   string  `json:"id"`
	Difficulty           string  `json:"difficulty"`
	Name                 string  `json:"name"`
	MaxRange             int     `json:"maxRange"`
	TimeLimit            int     `json:"timeLimit"`
	TargetNumber         int     `json:"targetNumber"`
	BaseScore            int     `json:"baseScore"`
	DifficultyMultiplier float64 `json:"difficultyMultiplier"`
	UseProximityBonus    bool    `json:"useProximityBonus"`
}

// Generator builds challenges. Intn must return a uniform value in [0, n).
type Generator struct {
	Intn func(n int) int
}

// NewGenerator returns a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{Intn: cryptoIntn}
}

func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Generate returns a challenge for difficulty, falling back to medium for
// unknown keys.
func (g *Generator) Generate(difficulty string) Challenge {
	lvl, ok := levels[difficulty]
	if !ok {
		difficulty = "medium"
		lvl = levels[difficulty]
	}
	limit := lvl.TimeLimit + g.Intn(11) - 5
	if limit < minTimeLimit {
		limit = minTimeLimit
	}
	return Challenge{
		ID:                   "speed_" + uuid.NewString(),
		Difficulty:           difficulty,
		Name:                 "Speed Challenge - " + strings.ToUpper(difficulty[:1]) + difficulty[1:],
		MaxRange:             lvl.MaxRange,
		TimeLimit:            limit,
		TargetNumber:         g.Intn(lvl.MaxRange) + 1,
		BaseScore:            lvl.BaseScore,
		DifficultyMultiplier: lvl.DifficultyMultiplier,
		UseProximityBonus:    g.Intn(100) < proximityChancePct,
	}
}

// Breakdown itemises a run's score.
type Breakdown struct {
	Base       int `json:"base"`
	Time       int `json:"time"`
	Efficiency int `json:"efficiency"`
	Proximity  int `json:"proximity"`
}

// Score is the total plus its components.
type Score struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
}

// ScoreRun scores a winning run: base + time bonus + efficiency bonus, plus a
// flat bonus when proximity hints were active.
func ScoreRun(base int, multiplier float64, timeLimit, timeRemaining, guessCount int, useProximityBonus bool) Score {
	var timeBonus float64
	if timeLimit > 0 {
		timeBonus = math.Floor(float64(timeRemaining)/float64(timeLimit)*100) * multiplier
	}
	efficiency := (efficiencyPar - guessCount) * 10
	if efficiency < 0 {
		efficiency = 0
	}
	prox := 0
	if useProximityBonus {
		prox = proximityBonus
	}
	total := int(math.Floor(float64(base) + timeBonus + float64(efficiency) + float64(prox)))
	return Score{
		Total: total,
		Breakdown: Breakdown{
			Base:       base,
			Time:       int(math.Floor(timeBonus)),
			Efficiency: efficiency,
			Proximity:  prox,
		},
	}
}
