package game

import "fmt"

// band maps distances up to within onto a proximity and direction texts.
type band struct {
	within    int
	proximity Proximity
	up, down  string
}

var classicBands = []band{
	{5, ProximityVeryClose, "Slightly higher", "Slightly lower"},
	{15, ProximityClose, "Go higher", "Go lower"},
	{30, ProximityMedium, "Much higher", "Much lower"},
}

var classicFar = band{0, ProximityFar, "Way too low", "Way too high"}

var speedBonusBands = []band{
	{3, ProximityBurning, "SO CLOSE! Slightly higher", "SO CLOSE! Slightly lower"},
	{10, ProximityVeryClose, "Getting warm... higher", "Getting warm... lower"},
	{25, ProximityClose, "Go higher", "Go lower"},
	{50, ProximityMedium, "Much higher", "Much lower"},
}

var speedBonusFar = band{0, ProximityFar, "Way too low!", "Way too high!"}

// proximityHint picks the band for |guess-target|. up means the target is
// above the guess; reverse flips the direction text but not the band.
func proximityHint(bands []band, far band, guess, target int, reverse bool) (string, Proximity) {
	diff := guess - target
	if diff < 0 {
		diff = -diff
	}
	up := guess < target
	if reverse {
		up = !up
	}
	b := far
	for _, c := range bands {
		if diff <= c.within {
			b = c
			break
		}
	}
	if up {
		return b.up, b.proximity
	}
	return b.down, b.proximity
}

// ClassicHint is the standard hint: very close within 5, close within 15,
// medium within 30, far beyond.
func ClassicHint(guess, target int) (string, Proximity) {
	return proximityHint(classicBands, classicFar, guess, target, false)
}

func puzzleHint(guess, target, trialsLeft int) (string, Proximity) {
	diff := guess - target
	if diff < 0 {
		diff = -diff
	}
	dir := "lower"
	if guess < target {
		dir = "higher"
	}
	switch {
	case diff <= 3:
		return "Very close! Try slightly " + dir, ProximityVeryClose
	case diff <= 10:
		return "Getting warmer... Go " + dir, ProximityClose
	}
	return fmt.Sprintf("Not quite. %d %s left", trialsLeft, plural(trialsLeft, "attempt", "attempts")), ProximityFar
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
