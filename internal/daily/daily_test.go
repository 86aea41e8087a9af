package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := ParseDateKey(key)
	require.NoError(t, err)
	return d
}

func TestSeedMatchesRollingHash(t *testing.T) {
	// Consecutive days differ only in the last character code.
	assert.Equal(t, int64(613341632), Seed("2024-01-01"))
	assert.Equal(t, int64(613341631), Seed("2024-01-02"))
	assert.Equal(t, int64(613311841), Seed("2024-02-01"))
}

func TestGenerateKnownDates(t *testing.T) {
	tests := []struct {
		date string
		want Challenge
	}{
		{"2024-01-01", Challenge{Date: "2024-01-01", TargetNumber: 88, MaxRange: 150, Trials: 10, Difficulty: "medium", SpecialRule: RuleNoConsecutiveDirection}},
		{"2024-02-01", Challenge{Date: "2024-02-01", TargetNumber: 9, MaxRange: 100, Trials: 7, Difficulty: "medium"}},
		{"2024-02-02", Challenge{Date: "2024-02-02", TargetNumber: 40, MaxRange: 50, Trials: 8, Difficulty: "easy"}},
		{"2024-04-01", Challenge{Date: "2024-04-01", TargetNumber: 251, MaxRange: 500, Trials: 10, Difficulty: "expert", SpecialRule: RuleReverseHints}},
		{"2024-05-28", Challenge{Date: "2024-05-28", TargetNumber: 11, MaxRange: 100, Trials: 7, Difficulty: "medium", SpecialRule: RuleTimeLimit30}},
		{"2024-06-01", Challenge{Date: "2024-06-01", TargetNumber: 65, MaxRange: 200, Trials: 8, Difficulty: "hard", SpecialRule: RuleOnlyMultiplesOf5}},
		{"2024-09-01", Challenge{Date: "2024-09-01", TargetNumber: 6, MaxRange: 50, Trials: 8, Difficulty: "easy", SpecialRule: RuleTimeLimit60}},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := GenerateKey(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	d := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	a, err := Generate(d)
	require.NoError(t, err)
	b, err := Generate(d.Add(-23 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	c, err := GenerateKey("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestGenerateUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2024, 1, 2, 5, 0, 0, 0, loc) // 2024-01-01 19:00 UTC
	got, err := Generate(local)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.Date)
}

func TestGenerateTwoYearWindowIsValid(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rulesSeen := map[Rule]bool{}
	for i := 0; i < 731; i++ {
		c, err := Generate(start.AddDate(0, 0, i))
		require.NoError(t, err)
		require.GreaterOrEqual(t, c.TargetNumber, 1, c.Date)
		require.LessOrEqual(t, c.TargetNumber, c.MaxRange, c.Date)
		require.Positive(t, c.Trials, c.Date)
		if c.SpecialRule == RuleOnlyMultiplesOf5 {
			require.Zero(t, c.TargetNumber%5, c.Date)
		}
		rulesSeen[c.SpecialRule] = true
	}
	assert.Len(t, rulesSeen, 6)
}

func TestRuleTimeLimit(t *testing.T) {
	assert.Equal(t, 30, RuleTimeLimit30.TimeLimit())
	assert.Equal(t, 60, RuleTimeLimit60.TimeLimit())
	assert.Zero(t, RuleReverseHints.TimeLimit())
	assert.Zero(t, RuleNone.TimeLimit())
}

func TestCheckRejectsBrokenChallenge(t *testing.T) {
	err := Challenge{Date: "x", TargetNumber: 0, MaxRange: 10, Trials: 3}.check()
	assert.ErrorIs(t, err, ErrInvariant)

	err = Challenge{Date: "x", TargetNumber: 7, MaxRange: 10, Trials: 3, SpecialRule: RuleOnlyMultiplesOf5}.check()
	assert.ErrorIs(t, err, ErrInvariant)

	assert.NoError(t, Challenge{Date: "x", TargetNumber: 10, MaxRange: 10, Trials: 3, SpecialRule: RuleOnlyMultiplesOf5}.check())
}
