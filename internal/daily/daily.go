// Package daily produces the date-keyed daily challenge and tracks the
// player's daily streak.
//
// The generator is a pure function of the UTC calendar date: every install
// computes the same challenge for the same day without any coordination.
package daily

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvariant marks a generated challenge that violates its own rules.
// It signals a generator defect, never bad user input.
var ErrInvariant = errors.New("daily: generator invariant violated")

// Rule is an optional modifier applied to a daily challenge.
type Rule string

const (
	RuleNone                   Rule = ""
	RuleNoConsecutiveDirection Rule = "no_consecutive_direction"
	RuleOnlyMultiplesOf5       Rule = "only_multiples_of_5"
	RuleReverseHints           Rule = "reverse_hints"
	RuleTimeLimit60            Rule = "time_limit_60"
	RuleTimeLimit30            Rule = "time_limit_30"
)

// TimeLimit returns the countdown in seconds for time-limited rules, or 0.
func (r Rule) TimeLimit() int {
	switch r {
	case RuleTimeLimit30:
		return 30
	case RuleTimeLimit60:
		return 60
	}
	return 0
}

// Challenge is the generated record for one calendar date.
type Challenge struct {
	Date         string `json:"date"`
	TargetNumber int    `json:"targetNumber"`
	MaxRange     int    `json:"maxRange"`
	Trials       int    `json:"trials"`
	Difficulty   string `json:"difficulty"`
	SpecialRule  Rule   `json:"specialRule,omitempty"`
}

type rangeOption struct {
	maxRange   int
	trials     int
	difficulty string
}

// Order matters: indices are derived from the date hash.
var rangeOptions = []rangeOption{
	{50, 8, "easy"},
	{100, 7, "medium"},
	{150, 8, "medium"},
	{200, 8, "hard"},
	{300, 9, "hard"},
	{500, 10, "expert"},
}

// Order matters. Blank slots make rule-free days more common.
var ruleOptions = []Rule{
	RuleNone,
	RuleNoConsecutiveDirection,
	RuleNone,
	RuleOnlyMultiplesOf5,
	RuleReverseHints,
	RuleNone,
	RuleTimeLimit60,
	RuleTimeLimit30,
}

const multipleOf = 5

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDateKey parses a YYYY-MM-DD key as midnight UTC.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse("2006-01-02", key)
}

// Seed is the non-negative rolling hash of the date key:
// h = h*31 + c over the key's bytes with 32-bit signed wraparound, then abs.
func Seed(key string) int64 {
	var h int32
	for i := 0; i < len(key); i++ {
		h = h*31 + int32(key[i])
	}
	s := int64(h)
	if s < 0 {
		s = -s
	}
	return s
}

// Generate returns the challenge for date's UTC calendar day.
func Generate(date time.Time) (Challenge, error) {
	return GenerateKey(DateKey(date))
}

// GenerateKey returns the challenge for a YYYY-MM-DD key.
func GenerateKey(key string) (Challenge, error) {
	seed := Seed(key)
	opt := rangeOptions[seed%int64(len(rangeOptions))]
	rule := ruleOptions[(seed>>8)%int64(len(ruleOptions))]

	c := Challenge{
		Date:        key,
		MaxRange:    opt.maxRange,
		Trials:      opt.trials,
		Difficulty:  opt.difficulty,
		SpecialRule: rule,
	}

	targetSeed := abs64(seed*7919+104729) % int64(opt.maxRange)
	c.TargetNumber = int(targetSeed) + 1

	switch rule {
	case RuleOnlyMultiplesOf5:
		domain := int64(opt.maxRange / multipleOf)
		c.TargetNumber = int((targetSeed%domain)+1) * multipleOf
		if c.TargetNumber > c.MaxRange {
			c.TargetNumber = c.MaxRange - c.MaxRange%multipleOf
		}
		c.Trials = int(math.Ceil(math.Log2(float64(domain)))) + 2
	case RuleNoConsecutiveDirection:
		c.Trials += 2
	}

	if err := c.check(); err != nil {
		return Challenge{}, err
	}
	return c, nil
}

func (c Challenge) check() error {
	if c.TargetNumber < 1 || c.TargetNumber > c.MaxRange {
		return fmt.Errorf("%w: target %d outside [1,%d] on %s", ErrInvariant, c.TargetNumber, c.MaxRange, c.Date)
	}
	if c.SpecialRule == RuleOnlyMultiplesOf5 && c.TargetNumber%multipleOf != 0 {
		return fmt.Errorf("%w: target %d not a multiple of %d on %s", ErrInvariant, c.TargetNumber, multipleOf, c.Date)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: trial budget %d on %s", ErrInvariant, c.Trials, c.Date)
	}
	return nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
