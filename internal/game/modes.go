package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
)

// ClassicLevel is one row of the classic difficulty table.
type ClassicLevel struct {
	Name     string `json:"name"`
	MaxRange int    `json:"maxRange"`
	Trials   int    `json:"trials"`
}

// ClassicLevels is the static classic difficulty table.
var ClassicLevels = map[string]ClassicLevel{
	"easy":   {Name: "Easy", MaxRange: 50, Trials: 10},
	"medium": {Name: "Medium", MaxRange: 100, Trials: 7},
	"hard":   {Name: "Hard", MaxRange: 200, Trials: 5},
}

// parseGuess accepts a trimmed base-10 integer in [cfg.MinGuess, cfg.MaxRange]
// that is not already in the history.
func parseGuess(raw string, cfg *Config, st State, repeatVerb string) Validation {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < cfg.MinGuess || n > cfg.MaxRange {
		return reject(fmt.Sprintf("Enter a number between %d and %d", cfg.MinGuess, cfg.MaxRange))
	}
	if st.guessed(n) {
		return reject(fmt.Sprintf("%s %d", repeatVerb, n))
	}
	return Validation{Valid: true, Guess: n}
}

// boundedOutcome is the shared transition for modes with a trial budget.
func boundedOutcome(guess, target int, st State, won, lost string, hint func(trials int) (string, Proximity)) Outcome {
	out := Outcome{
		TrialsRemaining: st.TrialsRemaining - 1,
		GuessHistory:    append(append([]int(nil), st.GuessHistory...), guess),
	}
	switch {
	case guess == target:
		out.Status, out.Hint = StatusWon, won
	case out.TrialsRemaining <= 0:
		out.Status, out.TrialsRemaining, out.Hint = StatusLost, 0, lost
	default:
		out.Status = StatusPlaying
		out.Hint, out.Proximity = hint(out.TrialsRemaining)
	}
	return out
}

// ---- classic ----

type classicMode struct {
	intn func(n int) int
}

func (classicMode) ID() ModeID { return ModeClassic }

func (classicMode) Config(in StartInput) (*Config, error) {
	lvl, ok := ClassicLevels[in.Difficulty]
	if !ok {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidChallenge, in.Difficulty)
	}
	return &Config{
		ModeID:       ModeClassic,
		Difficulty:   in.Difficulty,
		Name:         lvl.Name,
		MinGuess:     1,
		MaxRange:     lvl.MaxRange,
		Trials:       lvl.Trials,
		ColorKey:     in.Difficulty,
		Instructions: fmt.Sprintf("Guess the number between 1 and %d in %d attempts", lvl.MaxRange, lvl.Trials),
	}, nil
}

func (m classicMode) GenerateTarget(cfg *Config) int {
	return m.intn(cfg.MaxRange) + 1
}

func (classicMode) ValidateGuess(raw string, _ int, cfg *Config, st State) Validation {
	return parseGuess(raw, cfg, st, "Already guessed")
}

func (classicMode) HandleGuess(guess, target int, _ *Config, st State) Outcome {
	return boundedOutcome(guess, target, st,
		fmt.Sprintf("Correct! The number was %d", target),
		fmt.Sprintf("Game over! The number was %d", target),
		func(int) (string, Proximity) { return ClassicHint(guess, target) })
}

// ---- daily ----

type dailyMode struct{}

func (dailyMode) ID() ModeID { return ModeDaily }

func (dailyMode) Config(in StartInput) (*Config, error) {
	ch := in.Daily
	if ch == nil {
		return nil, fmt.Errorf("%w: missing daily challenge", ErrInvalidChallenge)
	}
	if ch.MaxRange <= 0 || ch.Trials <= 0 {
		return nil, fmt.Errorf("%w: daily range %d trials %d", ErrInvalidChallenge, ch.MaxRange, ch.Trials)
	}
	if ch.TargetNumber < 1 || ch.TargetNumber > ch.MaxRange {
		return nil, fmt.Errorf("%w: daily target %d outside 1..%d", ErrInvalidChallenge, ch.TargetNumber, ch.MaxRange)
	}
	if ch.SpecialRule == daily.RuleOnlyMultiplesOf5 && ch.TargetNumber%5 != 0 {
		return nil, fmt.Errorf("%w: daily target %d not a multiple of 5", ErrInvalidChallenge, ch.TargetNumber)
	}
	target := ch.TargetNumber
	instr := fmt.Sprintf("Guess the number between 1 and %d in %d attempts", ch.MaxRange, ch.Trials)
	if ch.SpecialRule != daily.RuleNone {
		instr += ". Special Rule: " + strings.ToUpper(strings.ReplaceAll(string(ch.SpecialRule), "_", " "))
	}
	limit := ch.SpecialRule.TimeLimit()
	return &Config{
		ModeID:       ModeDaily,
		Difficulty:   ch.Difficulty,
		Name:         "Daily Challenge",
		MinGuess:     1,
		MaxRange:     ch.MaxRange,
		Trials:       ch.Trials,
		HasTimer:     limit > 0,
		TimerSeconds: limit,
		TargetNumber: &target,
		SpecialRule:  ch.SpecialRule,
		ColorKey:     ch.Difficulty,
		Instructions: instr,
		Date:         ch.Date,
	}, nil
}

func (dailyMode) GenerateTarget(cfg *Config) int { return *cfg.TargetNumber }

func (dailyMode) ValidateGuess(raw string, target int, cfg *Config, st State) Validation {
	v := parseGuess(raw, cfg, st, "Already guessed")
	if !v.Valid {
		return v
	}
	switch cfg.SpecialRule {
	case daily.RuleOnlyMultiplesOf5:
		if v.Guess%5 != 0 {
			return reject("Only multiples of 5 allowed!")
		}
	case daily.RuleNoConsecutiveDirection:
		// The winning number is never blocked.
		if n := len(st.GuessHistory); n > 0 && v.Guess != target {
			if (st.GuessHistory[n-1] > target) == (v.Guess > target) {
				return reject("Cannot guess in the same direction twice!")
			}
		}
	}
	return v
}

func (dailyMode) HandleGuess(guess, target int, cfg *Config, st State) Outcome {
	reverse := cfg.SpecialRule == daily.RuleReverseHints
	return boundedOutcome(guess, target, st,
		fmt.Sprintf("Daily Challenge Completed! The answer was %d", target),
		fmt.Sprintf("Challenge Failed! The answer was %d. Try again!", target),
		func(int) (string, Proximity) {
			return proximityHint(classicBands, classicFar, guess, target, reverse)
		})
}

// ---- speed ----

type speedMode struct{}

func (speedMode) ID() ModeID { return ModeSpeed }

func (speedMode) Config(in StartInput) (*Config, error) {
	ch := in.Speed
	if ch == nil {
		return nil, fmt.Errorf("%w: missing speed challenge", ErrInvalidChallenge)
	}
	if ch.MaxRange <= 0 || ch.TimeLimit <= 0 {
		return nil, fmt.Errorf("%w: speed range %d time %d", ErrInvalidChallenge, ch.MaxRange, ch.TimeLimit)
	}
	if ch.TargetNumber < 1 || ch.TargetNumber > ch.MaxRange {
		return nil, fmt.Errorf("%w: speed target %d outside 1..%d", ErrInvalidChallenge, ch.TargetNumber, ch.MaxRange)
	}
	target := ch.TargetNumber
	instr := fmt.Sprintf("Find the number between 1 and %d before time runs out!", ch.MaxRange)
	if ch.UseProximityBonus {
		instr += " Proximity hints enabled!"
	}
	return &Config{
		ModeID:               ModeSpeed,
		Difficulty:           ch.Difficulty,
		Name:                 "Speed Challenge",
		MinGuess:             1,
		MaxRange:             ch.MaxRange,
		Trials:               Unbounded,
		HasTimer:             true,
		TimerSeconds:         ch.TimeLimit,
		TargetNumber:         &target,
		ColorKey:             "warning",
		Instructions:         instr,
		BaseScore:            ch.BaseScore,
		DifficultyMultiplier: ch.DifficultyMultiplier,
		UseProximityBonus:    ch.UseProximityBonus,
	}, nil
}

func (speedMode) GenerateTarget(cfg *Config) int { return *cfg.TargetNumber }

func (speedMode) ValidateGuess(raw string, _ int, cfg *Config, st State) Validation {
	return parseGuess(raw, cfg, st, "Already tried")
}

func (speedMode) HandleGuess(guess, target int, cfg *Config, st State) Outcome {
	hist := append(append([]int(nil), st.GuessHistory...), guess)
	count := len(hist)
	guesses := plural(count, "guess", "guesses")
	if guess == target {
		return Outcome{
			Status:          StatusWon,
			TrialsRemaining: Unbounded,
			GuessHistory:    hist,
			Hint:            fmt.Sprintf("Speed Challenge Complete! Found %d in %d %s!", target, count, guesses),
		}
	}
	bands, far := classicBands, classicFar
	if cfg.UseProximityBonus {
		bands, far = speedBonusBands, speedBonusFar
	}
	text, prox := proximityHint(bands, far, guess, target, false)
	return Outcome{
		Status:          StatusPlaying,
		TrialsRemaining: Unbounded,
		GuessHistory:    hist,
		Hint:            fmt.Sprintf("%s • %d %s", text, count, guesses),
		Proximity:       prox,
	}
}

// ---- puzzle ----

type puzzleMode struct{}

const (
	puzzleDefaultTime     = 180
	puzzleDefaultRange    = 100
	puzzleDefaultAttempts = 5
)

func (puzzleMode) ID() ModeID { return ModePuzzle }

func (puzzleMode) Config(in StartInput) (*Config, error) {
	ch := in.Puzzle
	if ch == nil {
		return nil, fmt.Errorf("%w: missing puzzle challenge", ErrInvalidChallenge)
	}
	if strings.TrimSpace(ch.Puzzle) == "" {
		return nil, fmt.Errorf("%w: missing puzzle text", ErrInvalidChallenge)
	}
	if len(ch.Hints) == 0 {
		return nil, fmt.Errorf("%w: missing puzzle hints", ErrInvalidChallenge)
	}
	maxRange := orDefault(ch.MaxRange, puzzleDefaultRange)
	if ch.Solution < 0 || ch.Solution > maxRange {
		return nil, fmt.Errorf("%w: puzzle solution %d outside 0..%d", ErrInvalidChallenge, ch.Solution, maxRange)
	}
	hintsAvail := ch.HintsAvailable
	if hintsAvail <= 0 {
		hintsAvail = min(3, len(ch.Hints))
	}
	diff := ch.Difficulty
	if diff == "" {
		diff = "medium"
	}
	ptype := ch.Type
	if ptype == "" {
		ptype = "mathematical"
	}
	target := ch.Solution
	return &Config{
		ModeID:         ModePuzzle,
		Difficulty:     diff,
		Name:           "Puzzle Challenge",
		MinGuess:       0,
		MaxRange:       maxRange,
		Trials:         orDefault(ch.MaxAttempts, puzzleDefaultAttempts),
		HasTimer:       true,
		TimerSeconds:   orDefault(ch.TimeLimit, puzzleDefaultTime),
		TargetNumber:   &target,
		ColorKey:       "purple",
		Instructions:   ch.Puzzle,
		PuzzleType:     ptype,
		PuzzleText:     ch.Puzzle,
		PuzzleHints:    append([]string(nil), ch.Hints...),
		HintsAvailable: hintsAvail,
	}, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (puzzleMode) GenerateTarget(cfg *Config) int { return *cfg.TargetNumber }

func (puzzleMode) ValidateGuess(raw string, _ int, cfg *Config, st State) Validation {
	return parseGuess(raw, cfg, st, "Already tried")
}

func (puzzleMode) HandleGuess(guess, target int, _ *Config, st State) Outcome {
	return boundedOutcome(guess, target, st,
		fmt.Sprintf("Puzzle Solved! The answer was %d", target),
		fmt.Sprintf("Puzzle Failed! The answer was %d", target),
		func(trials int) (string, Proximity) { return puzzleHint(guess, target, trials) })
}
