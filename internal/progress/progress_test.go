package progress

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numerix/apps/go-server/internal/achievements"
	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
	"github.com/robalobadob/numerix/apps/go-server/internal/game"
	"github.com/robalobadob/numerix/apps/go-server/internal/stats"
	"github.com/robalobadob/numerix/apps/go-server/internal/store"
)

// failingKV rejects writes to keys with the given suffix.
type failingKV struct {
	store.KV
	suffix string
}

func (f failingKV) Set(ctx context.Context, key string, v []byte) error {
	if strings.HasSuffix(key, f.suffix) {
		return errors.New("disk full")
	}
	return f.KV.Set(ctx, key, v)
}

type recorder struct{ wins []daily.Win }

func (r *recorder) InsertWin(_ context.Context, w daily.Win) error {
	r.wins = append(r.wins, w)
	return nil
}

func TestRepositoryDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemory())

	s, err := repo.Settings(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	st, err := repo.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, st.ByDifficulty, 3)
	assert.NotNil(t, st.Speed.ByLevel)
	assert.NotNil(t, st.Puzzle.ByDifficulty)

	rec, err := repo.Daily(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, rec.LastPlayedDate)
	assert.NotNil(t, rec.Results)

	a, err := repo.Achievements(ctx, "p1")
	require.NoError(t, err)
	assert.NotNil(t, a)
	assert.Empty(t, a)
}

func TestRepositoryStatsSplitAcrossKeys(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := NewRepository(kv)

	st := stats.NewUserStats()
	st.TotalGames, st.TotalWins = 3, 2
	st.Speed.TotalGames = 4
	st.Puzzle.TotalGames = 5
	require.NoError(t, repo.SaveStats(ctx, "p1", st))

	for _, rec := range []Record{RecordUserStats, RecordSpeed, RecordPuzzle} {
		_, err := kv.Get(ctx, Key("p1", rec))
		assert.NoError(t, err, rec)
	}
	raw, err := kv.Get(ctx, Key("p1", RecordUserStats))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "byLevel")

	got, err := repo.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalGames)
	assert.Equal(t, 4, got.Speed.TotalGames)
	assert.Equal(t, 5, got.Puzzle.TotalGames)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemory())
	require.NoError(t, repo.SaveSettings(ctx, "p1", Settings{Theme: "light"}))
	require.NoError(t, repo.SaveDaily(ctx, "p1", daily.Record{CurrentStreak: 4, LongestStreak: 4}))

	require.NoError(t, repo.ClearAll(ctx, "p1"))
	s, _ := repo.Settings(ctx, "p1")
	assert.Equal(t, "dark", s.Theme)
	rec, _ := repo.Daily(ctx, "p1")
	assert.Zero(t, rec.CurrentStreak)
}

func TestClaim(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := NewRepository(kv)
	require.NoError(t, repo.SaveSettings(ctx, "anon", Settings{Theme: "ocean"}))

	ok, err := repo.Claim(ctx, "anon", "user")
	require.NoError(t, err)
	assert.True(t, ok)
	s, _ := repo.Settings(ctx, "user")
	assert.Equal(t, "ocean", s.Theme)
	_, err = kv.Get(ctx, Key("anon", RecordSettings))
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, repo.SaveSettings(ctx, "anon2", Settings{Theme: "forest"}))
	ok, err = repo.Claim(ctx, "anon2", "user")
	require.NoError(t, err)
	assert.False(t, ok, "existing account keeps its records")
	s, _ = repo.Settings(ctx, "user")
	assert.Equal(t, "ocean", s.Theme)

	ok, err = repo.Claim(ctx, "nobody", "fresh")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newTracker(kv store.KV, board WinRecorder) (*Tracker, *Repository) {
	repo := NewRepository(kv)
	tr := NewTracker(repo, achievements.NewEvaluator(), board)
	tr.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return tr, repo
}

func TestFinishClassicUnlocksAfterSave(t *testing.T) {
	ctx := context.Background()
	tr, repo := newTracker(store.NewMemory(), nil)

	sum, err := tr.Finish(ctx, "p1", game.Result{ModeID: game.ModeClassic, Difficulty: "easy", Won: true, Attempts: 1, TrialsBeforeLast: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Stats.TotalWins)
	assert.Nil(t, sum.Daily)

	var got []string
	for _, r := range sum.Unlocked {
		got = append(got, r.ID)
	}
	assert.ElementsMatch(t, []string{"first_win", "perfect_game"}, got)

	have, err := repo.Achievements(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, have, 2)

	sum, err = tr.Finish(ctx, "p1", game.Result{ModeID: game.ModeClassic, Difficulty: "easy", Attempts: 10, TrialsBeforeLast: 1})
	require.NoError(t, err)
	assert.Empty(t, sum.Unlocked)
	persisted, _ := repo.Stats(ctx, "p1")
	assert.Equal(t, 2, persisted.TotalGames)
	assert.Equal(t, 1, persisted.TotalLosses)
}

func TestFinishDailyUpdatesStreakAndBoard(t *testing.T) {
	ctx := context.Background()
	board := &recorder{}
	tr, repo := newTracker(store.NewMemory(), board)

	for i, date := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		sum, err := tr.Finish(ctx, "p1", game.Result{
			ModeID: game.ModeDaily, Difficulty: "hard", Date: date, Target: 65,
			Won: true, Attempts: 4, TrialsBeforeLast: 5, Elapsed: 1500 * time.Millisecond,
		})
		require.NoError(t, err)
		require.NotNil(t, sum.Daily)
		assert.Equal(t, i+1, sum.Daily.CurrentStreak)
		assert.Equal(t, i+1, sum.Stats.DailyStreak)
	}

	rec, err := repo.Daily(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.LongestStreak)
	assert.Len(t, rec.Results, 3)

	have, _ := repo.Achievements(ctx, "p1")
	var ids []string
	for _, u := range have {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, "daily_streak_3")

	require.Len(t, board.wins, 3)
	assert.Equal(t, daily.Win{PlayerID: "p1", Date: "2024-06-01", Target: 65, Attempts: 4, ElapsedMs: 1500}, board.wins[0])
}

func TestFinishDailyLossSkipsBoard(t *testing.T) {
	board := &recorder{}
	tr, _ := newTracker(store.NewMemory(), board)
	sum, err := tr.Finish(context.Background(), "p1", game.Result{ModeID: game.ModeDaily, Difficulty: "easy", Date: "2024-06-01", Attempts: 8})
	require.NoError(t, err)
	assert.Zero(t, sum.Daily.CurrentStreak)
	assert.Len(t, sum.Daily.Results, 1)
	assert.Empty(t, board.wins)
}

func TestFinishStatsWriteFailureSkipsAchievements(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	tr, _ := newTracker(failingKV{KV: mem, suffix: ":" + string(RecordUserStats)}, nil)

	_, err := tr.Finish(ctx, "p1", game.Result{ModeID: game.ModeClassic, Difficulty: "easy", Won: true, Attempts: 1, TrialsBeforeLast: 10})
	assert.ErrorIs(t, err, ErrPersist)

	_, err = mem.Get(ctx, Key("p1", RecordAchievements))
	assert.ErrorIs(t, err, store.ErrNotFound, "no achievements against unsaved stats")
}

func TestFinishSpeedReturnsScore(t *testing.T) {
	tr, repo := newTracker(store.NewMemory(), nil)
	sum, err := tr.Finish(context.Background(), "p1", game.Result{
		ModeID: game.ModeSpeed, Difficulty: "medium", Won: true, Attempts: 5,
		TimeLimit: 60, TimeRemaining: 30, BaseScore: 200, DifficultyMultiplier: 1.5,
	})
	require.NoError(t, err)
	require.NotNil(t, sum.Score)
	assert.Equal(t, 425, sum.Score.Total)
	assert.Zero(t, sum.Stats.TotalGames)

	got, _ := repo.Stats(context.Background(), "p1")
	assert.Equal(t, 1, got.Speed.TotalWins)
	assert.Equal(t, 425, got.Speed.BestScore)
}
