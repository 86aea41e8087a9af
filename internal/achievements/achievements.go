// Package achievements holds the static achievement table and evaluates
// which rules a stats snapshot newly satisfies.
package achievements

import (
	"math"
	"time"

	"github.com/robalobadob/numerix/apps/go-server/internal/stats"
)

// Category groups related achievements.
type Category string

const (
	CategoryBeginner   Category = "beginner"
	CategoryProgress   Category = "progress"
	CategoryStreak     Category = "streak"
	CategorySpecial    Category = "special"
	CategoryDifficulty Category = "difficulty"
	CategoryDaily      Category = "daily"
	CategoryWinRate    Category = "winrate"
	CategoryUltimate   Category = "ultimate"
)

// CategoryNames maps categories to display names.
var CategoryNames = map[Category]string{
	CategoryBeginner:   "Beginner",
	CategoryProgress:   "Progress",
	CategoryStreak:     "Win Streaks",
	CategorySpecial:    "Special",
	CategoryDifficulty: "Difficulty",
	CategoryDaily:      "Daily Challenge",
	CategoryWinRate:    "Win Rate",
	CategoryUltimate:   "Ultimate",
}

// Rule is one achievement definition.
type Rule struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	// Condition reports whether the rule is satisfied by a stats snapshot.
	Condition func(*stats.UserStats) bool `json:"-"`
}

// Unlocked is a persisted unlock.
type Unlocked struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// Progress summarizes how many rules are unlocked.
type Progress struct {
	Total      int `json:"total"`
	Unlocked   int `json:"unlocked"`
	Percentage int `json:"percentage"`
}

// Evaluator holds the rule table.
type Evaluator struct {
	rules []Rule
	now   func() time.Time
}

// NewEvaluator returns an evaluator over the full rule table.
func NewEvaluator() *Evaluator {
	return &Evaluator{rules: buildRules(), now: time.Now}
}

// Rules returns a copy of the table.
func (e *Evaluator) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Rule looks up a rule by ID.
func (e *Evaluator) Rule(id string) (Rule, bool) {
	for _, r := range e.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Check returns the rules that s satisfies and that are not in have, plus
// the full unlocked list with the new entries appended. Already unlocked
// rules are never re-evaluated or removed.
func (e *Evaluator) Check(s *stats.UserStats, have []Unlocked) (fresh []Rule, all []Unlocked) {
	seen := make(map[string]bool, len(have))
	for _, u := range have {
		seen[u.ID] = true
	}
	all = append([]Unlocked(nil), have...)
	now := e.now().UTC()
	for _, r := range e.rules {
		if seen[r.ID] || !r.Condition(s) {
			continue
		}
		fresh = append(fresh, r)
		all = append(all, Unlocked{ID: r.ID, UnlockedAt: now})
	}
	return fresh, all
}

// Progress reports unlocked over total, rounded to a whole percent.
func (e *Evaluator) Progress(have []Unlocked) Progress {
	total := len(e.rules)
	p := Progress{Total: total, Unlocked: len(have)}
	if total > 0 {
		p.Percentage = int(math.Round(float64(len(have)) / float64(total) * 100))
	}
	return p
}

func winRateAtLeast(minGames int, rate float64) func(*stats.UserStats) bool {
	return func(s *stats.UserStats) bool {
		return s.TotalGames >= minGames && s.WinRate() >= rate
	}
}

func difficultyWins(key string, n int) func(*stats.UserStats) bool {
	return func(s *stats.UserStats) bool { return s.ByDifficulty[key].Wins >= n }
}

func buildRules() []Rule {
	return []Rule{
		{
			ID: "first_win", Title: "First Victory",
			Description: "Win your first game", Category: CategoryBeginner,
			Condition: func(s *stats.UserStats) bool { return s.TotalWins >= 1 },
		},
		{
			ID: "first_steps", Title: "First Steps",
			Description: "Play 5 games", Category: CategoryBeginner,
			Condition: func(s *stats.UserStats) bool { return s.TotalGames >= 5 },
		},
		{
			ID: "getting_started", Title: "Getting Started",
			Description: "Play 10 games", Category: CategoryProgress,
			Condition: func(s *stats.UserStats) bool { return s.TotalGames >= 10 },
		},

		{
			ID: "win_streak_3", Title: "Triple Threat",
			Description: "Win 3 games in a row", Category: CategoryStreak,
			Condition: func(s *stats.UserStats) bool { return s.LongestWinStreak >= 3 },
		},
		{
			ID: "win_streak_5", Title: "Hot Streak",
			Description: "Win 5 games in a row", Category: CategoryStreak,
			Condition: func(s *stats.UserStats) bool { return s.LongestWinStreak >= 5 },
		},
		{
			ID: "win_streak_10", Title: "Unstoppable",
			Description: "Win 10 games in a row", Category: CategoryStreak,
			Condition: func(s *stats.UserStats) bool { return s.LongestWinStreak >= 10 },
		},
		{
			ID: "win_streak_20", Title: "Legendary",
			Description: "Win 20 games in a row", Category: CategoryStreak,
			Condition: func(s *stats.UserStats) bool { return s.LongestWinStreak >= 20 },
		},

		{
			ID: "perfect_game", Title: "Perfect Game",
			Description: "Win in one attempt", Category: CategorySpecial,
			Condition: func(s *stats.UserStats) bool { return s.PerfectGames >= 1 },
		},
		{
			ID: "perfect_five", Title: "Perfectionist",
			Description: "Win 5 perfect games", Category: CategorySpecial,
			Condition: func(s *stats.UserStats) bool { return s.PerfectGames >= 5 },
		},
		{
			ID: "comeback_king", Title: "Comeback King",
			Description: "Win with only 1 attempt left", Category: CategorySpecial,
			Condition: func(s *stats.UserStats) bool { return s.Comebacks >= 1 },
		},
		{
			ID: "clutch_master", Title: "Clutch Master",
			Description: "Win 10 times with 1 attempt left", Category: CategorySpecial,
			Condition: func(s *stats.UserStats) bool { return s.Comebacks >= 10 },
		},

		{
			ID: "games_25", Title: "Regular Player",
			Description: "Play 25 games", Category: CategoryProgress,
			Condition: func(s *stats.UserStats) bool { return s.TotalGames >= 25 },
		},
		{
			ID: "games_50", Title: "Dedicated Player",
			Description: "Play 50 games", Category: CategoryProgress,
			Condition: func(s *stats.UserStats) bool { return s.TotalGames >= 50 },
		},
		{
			ID: "games_100", Title: "Century Club",
			Description: "Play 100 games", Category: CategoryProgress,
			Condition: func(s *stats.UserStats) bool { return s.TotalGames >= 100 },
		},
		{
			ID: "games_250", Title: "Veteran",
			Description: "Play 250 games", Category: CategoryProgress,
			Condition: func(s *stats.UserStats) bool { return s.TotalGames >= 250 },
		},

		{
			ID: "master_easy", Title: "Easy Master",
			Description: "Win 20 easy games", Category: CategoryDifficulty,
			Condition: difficultyWins("easy", 20),
		},
		{
			ID: "master_medium", Title: "Medium Master",
			Description: "Win 20 medium games", Category: CategoryDifficulty,
			Condition: difficultyWins("medium", 20),
		},
		{
			ID: "master_hard", Title: "Hard Master",
			Description: "Win 20 hard games", Category: CategoryDifficulty,
			Condition: difficultyWins("hard", 20),
		},
		{
			ID: "grand_master", Title: "Grand Master",
			Description: "Win 50 games on hard difficulty", Category: CategoryDifficulty,
			Condition: difficultyWins("hard", 50),
		},

		{
			ID: "daily_streak_3", Title: "Daily Habit",
			Description: "Complete 3 daily challenges in a row", Category: CategoryDaily,
			Condition: func(s *stats.UserStats) bool { return s.DailyStreak >= 3 },
		},
		{
			ID: "daily_streak_7", Title: "Weekly Warrior",
			Description: "Complete 7 daily challenges in a row", Category: CategoryDaily,
			Condition: func(s *stats.UserStats) bool { return s.DailyStreak >= 7 },
		},
		{
			ID: "daily_streak_30", Title: "Monthly Master",
			Description: "Complete 30 daily challenges in a row", Category: CategoryDaily,
			Condition: func(s *stats.UserStats) bool { return s.DailyStreak >= 30 },
		},

		{
			ID: "win_rate_50", Title: "Fifty Percent",
			Description: "Achieve 50% win rate (min 20 games)", Category: CategoryWinRate,
			Condition: winRateAtLeast(20, 0.5),
		},
		{
			ID: "win_rate_75", Title: "Three Quarters",
			Description: "Achieve 75% win rate (min 30 games)", Category: CategoryWinRate,
			Condition: winRateAtLeast(30, 0.75),
		},

		{
			ID: "numerix_legend", Title: "NUMERIX Legend",
			Description: "Win 100 games total", Category: CategoryUltimate,
			Condition: func(s *stats.UserStats) bool { return s.TotalWins >= 100 },
		},
	}
}
