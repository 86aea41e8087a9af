package progress

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numerix/apps/go-server/internal/achievements"
	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
	"github.com/robalobadob/numerix/apps/go-server/internal/game"
	"github.com/robalobadob/numerix/apps/go-server/internal/speed"
	"github.com/robalobadob/numerix/apps/go-server/internal/stats"
)

// WinRecorder stores daily wins for the leaderboard.
type WinRecorder interface {
	InsertWin(ctx context.Context, w daily.Win) error
}

// Summary is what the session-end pipeline produced.
type Summary struct {
	Stats    stats.UserStats     `json:"stats"`
	Daily    *daily.Record       `json:"daily,omitempty"`
	Score    *speed.Score        `json:"score,omitempty"`
	Unlocked []achievements.Rule `json:"unlocked"`
}

// Tracker runs the session-end pipeline: fold stats, update the daily
// streak, persist, then check achievements against the persisted stats.
// Steps run one after another; a failed write stops the pipeline.
type Tracker struct {
	repo  *Repository
	eval  *achievements.Evaluator
	board WinRecorder
	now   func() time.Time
}

// NewTracker wires a tracker. board may be nil when no leaderboard is kept.
func NewTracker(repo *Repository, eval *achievements.Evaluator, board WinRecorder) *Tracker {
	return &Tracker{repo: repo, eval: eval, board: board, now: time.Now}
}

// Finish folds a finished session into the player's records. On a write
// failure it returns an error wrapping ErrPersist and does not evaluate
// achievements.
func (t *Tracker) Finish(ctx context.Context, player string, r game.Result) (Summary, error) {
	cur, err := t.repo.Stats(ctx, player)
	if err != nil {
		return Summary{}, err
	}
	next := stats.Fold(cur, r)
	sum := Summary{Unlocked: []achievements.Rule{}}
	if r.ModeID == game.ModeSpeed && r.Won {
		sum.Score = next.Speed.LastScore
	}

	if r.ModeID == game.ModeDaily {
		rec, err := t.repo.Daily(ctx, player)
		if err != nil {
			return Summary{}, err
		}
		day := t.now()
		if parsed, perr := daily.ParseDateKey(r.Date); perr == nil {
			day = parsed
		}
		rec = daily.UpdateStreak(rec, day, r.Won, r.Attempts)
		next.DailyStreak = rec.CurrentStreak
		if err := t.repo.SaveDaily(ctx, player, rec); err != nil {
			log.Error().Err(err).Str("player", player).Str("date", r.Date).Msg("daily record not saved")
			return Summary{}, err
		}
		sum.Daily = &rec
	}

	if err := t.repo.SaveStats(ctx, player, next); err != nil {
		log.Error().Err(err).Str("player", player).Str("mode", string(r.ModeID)).Msg("stats not saved")
		return Summary{}, err
	}
	sum.Stats = next

	if r.ModeID == game.ModeDaily && r.Won && t.board != nil {
		w := daily.Win{
			PlayerID:  player,
			Date:      r.Date,
			Target:    r.Target,
			Attempts:  r.Attempts,
			ElapsedMs: r.Elapsed.Milliseconds(),
		}
		if err := t.board.InsertWin(ctx, w); err != nil {
			log.Warn().Err(err).Str("player", player).Str("date", r.Date).Msg("leaderboard insert failed")
		}
	}

	have, err := t.repo.Achievements(ctx, player)
	if err != nil {
		return sum, err
	}
	fresh, all := t.eval.Check(&next, have)
	if len(fresh) > 0 {
		if err := t.repo.SaveAchievements(ctx, player, all); err != nil {
			log.Error().Err(err).Str("player", player).Msg("achievements not saved")
			return sum, err
		}
		sum.Unlocked = fresh
	}
	return sum, nil
}
