package puzzle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTemplatesAreValid(t *testing.T) {
	src, err := Embedded()
	require.NoError(t, err)
	for _, ty := range Types {
		all := src.Templates(ty.ID, "")
		require.NotEmpty(t, all, ty.ID)
		for _, tpl := range all {
			assert.NotEmpty(t, tpl.Puzzle)
			assert.NotEmpty(t, tpl.Hints, tpl.Puzzle)
			assert.GreaterOrEqual(t, tpl.Solution, 0, tpl.Puzzle)
			assert.LessOrEqual(t, tpl.Solution, tpl.MaxRange, tpl.Puzzle)
			_, ok := levels[tpl.Difficulty]
			assert.True(t, ok, tpl.Difficulty)
		}
	}
}

func TestGenerateRequestedTypeAndLevel(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	g.Intn = func(int) int { return 0 }

	c, err := g.Generate("easy", "pattern")
	require.NoError(t, err)
	assert.Equal(t, "pattern", c.Type)
	assert.Equal(t, "Pattern Recognition", c.TypeName)
	assert.Equal(t, "easy", c.Difficulty)
	assert.Equal(t, 32, c.Solution)
	assert.Equal(t, 7, c.MaxAttempts)
	assert.Equal(t, 240, c.TimeLimit)
	assert.Equal(t, 2, c.HintsAvailable, "capped by the template's hint count")
	assert.True(t, strings.HasPrefix(c.ID, "puzzle_"))
}

func TestGenerateFallsBackToEasy(t *testing.T) {
	src, err := ParseTemplates([]string{
		"logical|easy|3|10|Three?|yes",
	})
	require.NoError(t, err)
	g := &Generator{Source: src, Intn: func(int) int { return 0 }}

	c, err := g.Generate("extreme", "logical")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Solution)
	assert.Equal(t, "extreme", c.Difficulty)
	assert.Equal(t, 3, c.MaxAttempts)
}

func TestGenerateFallsBackToAnyLevel(t *testing.T) {
	src, err := ParseTemplates([]string{
		"wordplay|hard|8|0|Eight?|a;b",
	})
	require.NoError(t, err)
	g := &Generator{Source: src, Intn: func(int) int { return 0 }}

	c, err := g.Generate("medium", "wordplay")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Solution)
	assert.Equal(t, defaultMaxRange, c.MaxRange)
}

func TestGenerateNoTemplate(t *testing.T) {
	src, err := ParseTemplates(nil)
	require.NoError(t, err)
	g := &Generator{Source: src, Intn: func(int) int { return 0 }}
	_, err = g.Generate("easy", "logical")
	assert.ErrorIs(t, err, ErrNoTemplate)
}

func TestParseTemplatesRejectsMalformed(t *testing.T) {
	_, err := ParseTemplates([]string{"logical|easy|x|10|?|h"})
	assert.Error(t, err)
	_, err = ParseTemplates([]string{"logical|easy|3"})
	assert.Error(t, err)
}
