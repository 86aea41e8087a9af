// Package puzzle builds riddle-style challenges whose answer is a number.
//
// Riddle text lives in assets/puzzles.txt; this package only selects a
// template and attaches the level's attempt, time and hint budget.
package puzzle

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/robalobadob/numerix/apps/go-server/assets"
)

// ErrNoTemplate is returned when no template exists for a type at any level.
var ErrNoTemplate = errors.New("puzzle: no template available")

// TypeInfo describes a puzzle category.
type TypeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Types lists the puzzle categories in display order.
var Types = []TypeInfo{
	{ID: "mathematical", Name: "Math Puzzles", Description: "Solve mathematical riddles"},
	{ID: "logical", Name: "Logic Puzzles", Description: "Use logic and reasoning"},
	{ID: "pattern", Name: "Pattern Recognition", Description: "Find the pattern"},
	{ID: "wordplay", Name: "Word Math", Description: "Decode word puzzles"},
}

// Level is the attempt/time/hint budget for a difficulty.
type Level struct {
	MaxAttempts    int
	TimeLimit      int
	HintsAvailable int
}

var levels = map[string]Level{
	"easy":    {MaxAttempts: 7, TimeLimit: 240, HintsAvailable: 3},
	"medium":  {MaxAttempts: 5, TimeLimit: 180, HintsAvailable: 2},
	"hard":    {MaxAttempts: 4, TimeLimit: 120, HintsAvailable: 1},
	"extreme": {MaxAttempts: 3, TimeLimit: 90, HintsAvailable: 1},
}

const defaultMaxRange = 100

// Template is the content contract: a riddle, its numeric answer, hints and
// the guess range.
type Template struct {
	Type       string
	Difficulty string
	Puzzle     string
	Solution   int
	Hints      []string
	MaxRange   int
}

// Source supplies templates for a type and difficulty.
type Source interface {
	Templates(puzzleType, difficulty string) []Template
}

// Challenge is a generated puzzle round.
type Challenge struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	TypeName       string   `json:"typeName"`
	Difficulty     string   `json:"difficulty"`
	Puzzle         string   `json:"puzzle"`
	Solution       int      `json:"solution"`
	Hints          []string `json:"hints"`
	MaxAttempts    int      `json:"maxAttempts"`
	TimeLimit      int      `json:"timeLimit"`
	HintsAvailable int      `json:"hintsAvailable"`
	MaxRange       int      `json:"maxRange"`
}

// Generator picks templates. Intn must return a uniform value in [0, n).
type Generator struct {
	Source Source
	Intn   func(n int) int
}

// NewGenerator returns a generator over the embedded templates.
func NewGenerator() (*Generator, error) {
	src, err := Embedded()
	if err != nil {
		return nil, err
	}
	return &Generator{Source: src, Intn: cryptoIntn}, nil
}

func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func knownType(id string) (TypeInfo, bool) {
	for _, t := range Types {
		if t.ID == id {
			return t, true
		}
	}
	return TypeInfo{}, false
}

// Generate builds a challenge. An empty or unknown puzzleType picks one at
// random; an unknown difficulty becomes medium. When the type has no template
// at the requested level, easy is tried, then any level of that type.
func (g *Generator) Generate(difficulty, puzzleType string) (Challenge, error) {
	lvl, ok := levels[difficulty]
	if !ok {
		difficulty = "medium"
		lvl = levels[difficulty]
	}
	info, ok := knownType(puzzleType)
	if !ok {
		info = Types[g.Intn(len(Types))]
	}

	pool := g.Source.Templates(info.ID, difficulty)
	if len(pool) == 0 {
		pool = g.Source.Templates(info.ID, "easy")
	}
	if len(pool) == 0 {
		pool = g.Source.Templates(info.ID, "")
	}
	if len(pool) == 0 {
		return Challenge{}, fmt.Errorf("%w: %s/%s", ErrNoTemplate, info.ID, difficulty)
	}
	tpl := pool[g.Intn(len(pool))]

	maxRange := tpl.MaxRange
	if maxRange <= 0 {
		maxRange = defaultMaxRange
	}
	hints := append([]string(nil), tpl.Hints...)
	avail := lvl.HintsAvailable
	if avail > len(hints) {
		avail = len(hints)
	}
	return Challenge{
		ID:             "puzzle_" + uuid.NewString(),
		Type:           info.ID,
		TypeName:       info.Name,
		Difficulty:     difficulty,
		Puzzle:         tpl.Puzzle,
		Solution:       tpl.Solution,
		Hints:          hints,
		MaxAttempts:    lvl.MaxAttempts,
		TimeLimit:      lvl.TimeLimit,
		HintsAvailable: avail,
		MaxRange:       maxRange,
	}, nil
}

// templateSet is an in-memory Source.
type templateSet []Template

func (s templateSet) Templates(puzzleType, difficulty string) []Template {
	var out []Template
	for _, t := range s {
		if t.Type == puzzleType && (difficulty == "" || t.Difficulty == difficulty) {
			out = append(out, t)
		}
	}
	return out
}

var (
	embeddedOnce sync.Once
	embedded     Source
	embeddedErr  error
)

// Embedded returns the templates shipped in assets/puzzles.txt, parsed once.
func Embedded() (Source, error) {
	embeddedOnce.Do(func() {
		lines, err := assets.PuzzleLines()
		if err != nil {
			embeddedErr = err
			return
		}
		embedded, embeddedErr = ParseTemplates(lines)
	})
	return embedded, embeddedErr
}

// ParseTemplates parses "type|difficulty|solution|maxRange|puzzle|hint;hint" lines.
func ParseTemplates(lines []string) (Source, error) {
	out := make(templateSet, 0, len(lines))
	for i, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) != 6 {
			return nil, fmt.Errorf("puzzle: line %d: want 6 fields, got %d", i+1, len(parts))
		}
		solution, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("puzzle: line %d: solution: %w", i+1, err)
		}
		maxRange, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil {
			return nil, fmt.Errorf("puzzle: line %d: maxRange: %w", i+1, err)
		}
		var hints []string
		for _, h := range strings.Split(parts[5], ";") {
			if h = strings.TrimSpace(h); h != "" {
				hints = append(hints, h)
			}
		}
		out = append(out, Template{
			Type:       strings.TrimSpace(parts[0]),
			Difficulty: strings.TrimSpace(parts[1]),
			Solution:   solution,
			MaxRange:   maxRange,
			Puzzle:     strings.TrimSpace(parts[4]),
			Hints:      hints,
		})
	}
	return out, nil
}
