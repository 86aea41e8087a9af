package daily

import (
	"context"
	"database/sql"
)

// Win is a single player's winning daily-challenge run.
type Win struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	Target    int    `json:"target"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store persists daily wins for the leaderboard (daily_results table).
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertWin records a win. Only the first win per player and date is kept.
func (s *Store) InsertWin(ctx context.Context, w Win) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, target, attempts, elapsed_ms)
         VALUES(?,?,?,?,?)`, w.PlayerID, w.Date, w.Target, w.Attempts, w.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard line.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard lists winners of date by fewest attempts, then fastest time.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, attempts, elapsed_ms
         FROM daily_results
         WHERE date=?
         ORDER BY attempts ASC, elapsed_ms ASC, created_at ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Attempts, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
