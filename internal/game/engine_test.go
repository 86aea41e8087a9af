package game

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(step)
		return t
	}
}

func startClassic(t *testing.T, difficulty string, target int) *Session {
	t.Helper()
	r := NewRegistry(WithIntn(fixedIntn(target - 1)))
	s, err := r.Start(StartInput{ModeID: ModeClassic, Difficulty: difficulty})
	require.NoError(t, err)
	return s
}

func guess(t *testing.T, s *Session, raw string) GuessResult {
	t.Helper()
	res, err := s.Guess(raw)
	require.NoError(t, err)
	require.True(t, res.Validation.Valid, res.Validation.Message)
	return res
}

func TestClassicEndToEnd(t *testing.T) {
	s := startClassic(t, "easy", 27)
	st := s.Snapshot()
	assert.Equal(t, StatusPlaying, st.Status)
	assert.Equal(t, 10, st.TrialsRemaining)
	assert.Nil(t, st.TimeRemaining)

	steps := []struct {
		raw  string
		prox Proximity
	}{
		{"10", ProximityMedium},
		{"40", ProximityClose},
		{"25", ProximityVeryClose},
	}
	for _, step := range steps {
		res := guess(t, s, step.raw)
		assert.Equal(t, StatusPlaying, res.State.Status)
		assert.Equal(t, step.prox, res.State.Proximity, step.raw)
		assert.False(t, res.Finished)
	}

	res := guess(t, s, "27")
	assert.True(t, res.Finished)
	assert.Equal(t, StatusWon, res.State.Status)
	assert.Equal(t, 6, res.State.TrialsRemaining)
	assert.Equal(t, []int{10, 40, 25, 27}, res.State.GuessHistory)

	r, ok := s.Result()
	require.True(t, ok)
	assert.True(t, r.Won)
	assert.Equal(t, 4, r.Attempts)
	assert.Equal(t, 7, r.TrialsBeforeLast)
	assert.Equal(t, "easy", r.Difficulty)
}

func TestClassicComebackWin(t *testing.T) {
	s := startClassic(t, "hard", 100)
	for _, raw := range []string{"1", "2", "3", "4"} {
		guess(t, s, raw)
	}
	assert.Equal(t, 1, s.Snapshot().TrialsRemaining)

	res := guess(t, s, "100")
	assert.Equal(t, StatusWon, res.State.Status)
	assert.Equal(t, 0, res.State.TrialsRemaining)

	r, _ := s.Result()
	assert.Equal(t, 1, r.TrialsBeforeLast)
	assert.Equal(t, 5, r.Attempts)
}

func TestClassicLossAndTerminal(t *testing.T) {
	s := startClassic(t, "hard", 100)
	var last GuessResult
	for _, raw := range []string{"1", "2", "3", "4", "5"} {
		last = guess(t, s, raw)
	}
	assert.True(t, last.Finished)
	assert.Equal(t, StatusLost, last.State.Status)
	assert.Equal(t, 0, last.State.TrialsRemaining)
	assert.Equal(t, "Game over! The number was 100", last.State.Hint)

	_, err := s.Guess("100")
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.Equal(t, StatusLost, s.Snapshot().Status)
}

func TestRejectedGuessLeavesStateUntouched(t *testing.T) {
	s := startClassic(t, "easy", 27)
	guess(t, s, "12")
	before := s.Snapshot()

	for _, raw := range []string{"12", "abc", "0", "51"} {
		res, err := s.Guess(raw)
		require.NoError(t, err)
		assert.False(t, res.Validation.Valid, raw)
		assert.False(t, res.Finished)
		assert.Equal(t, before.TrialsRemaining, res.State.TrialsRemaining)
		assert.Equal(t, before.GuessHistory, res.State.GuessHistory)
	}
}

func TestTrialsNeverIncrease(t *testing.T) {
	s := startClassic(t, "medium", 64)
	prev := s.Snapshot().TrialsRemaining
	seen := map[int]bool{}
	for _, raw := range []string{"50", "50", "75", "60", "x", "70", "62", "64"} {
		res, err := s.Guess(raw)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.State.TrialsRemaining, prev)
		prev = res.State.TrialsRemaining
		for _, g := range res.State.GuessHistory {
			seen[g] = true
		}
		assert.Len(t, seen, len(res.State.GuessHistory), "history has no duplicates")
	}
	assert.Equal(t, StatusWon, s.Snapshot().Status)
}

func startSpeed(t *testing.T, seconds int) *Session {
	t.Helper()
	ch := speedChallenge(false)
	ch.TimeLimit = seconds
	s, err := NewRegistry().Start(StartInput{ModeID: ModeSpeed, Speed: ch})
	require.NoError(t, err)
	return s
}

func TestTickExpiresTimedSession(t *testing.T) {
	s := startSpeed(t, 2)
	st, expired := s.Tick()
	assert.False(t, expired)
	assert.Equal(t, 1, *st.TimeRemaining)

	st, expired = s.Tick()
	assert.True(t, expired)
	assert.Equal(t, StatusLost, st.Status)
	assert.Equal(t, 0, *st.TimeRemaining)
	assert.Equal(t, "Time's up! The answer was 50", st.Hint)

	_, expired = s.Tick()
	assert.False(t, expired, "expiry is reported once")
	_, err := s.Guess("50")
	assert.ErrorIs(t, err, ErrSessionOver)
}

func TestWinBeforeTickKeepsWin(t *testing.T) {
	s := startSpeed(t, 1)
	res := guess(t, s, "50")
	assert.True(t, res.Finished)

	st, expired := s.Tick()
	assert.False(t, expired)
	assert.Equal(t, StatusWon, st.Status)
	assert.Equal(t, 1, *st.TimeRemaining)
}

func TestTickOnUntimedSessionIsNoop(t *testing.T) {
	s := startClassic(t, "easy", 27)
	st, expired := s.Tick()
	assert.False(t, expired)
	assert.Nil(t, st.TimeRemaining)
	assert.Equal(t, StatusPlaying, st.Status)
}

func TestGuessTickRaceFinishesOnce(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := startSpeed(t, 1)
		var finished atomic.Int32
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if res, err := s.Guess("50"); err == nil && res.Finished {
				finished.Add(1)
			}
		}()
		go func() {
			defer wg.Done()
			if _, expired := s.Tick(); expired {
				finished.Add(1)
			}
		}()
		wg.Wait()
		assert.Equal(t, int32(1), finished.Load())
		assert.NotEqual(t, StatusPlaying, s.Snapshot().Status)
	}
}

func TestRunCountdownExpires(t *testing.T) {
	s := startSpeed(t, 3)
	done := make(chan State, 1)
	go s.RunCountdown(context.Background(), time.Millisecond, func(st State) { done <- st })

	select {
	case st := <-done:
		assert.Equal(t, StatusLost, st.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire")
	}
}

func TestRunCountdownStopsOnCancel(t *testing.T) {
	s := startSpeed(t, 60)
	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})
	go func() {
		s.RunCountdown(ctx, time.Millisecond, func(State) { t.Error("unexpected expiry") })
		close(exited)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown ignored cancel")
	}
	assert.Equal(t, StatusPlaying, s.Snapshot().Status)
}

func TestResultElapsedUsesClock(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(WithIntn(fixedIntn(26)), WithClock(stepClock(t0, 5*time.Second)))
	s, err := r.Start(StartInput{ModeID: ModeClassic, Difficulty: "easy"})
	require.NoError(t, err)

	_, ok := s.Result()
	assert.False(t, ok)

	guess(t, s, "27")
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, res.Elapsed)
	assert.Equal(t, 1, res.Attempts)
}
