// Package results records finished games in SQLite and ranks them.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed-width so finished_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000Z"

// DefaultLimit caps leaderboard queries that pass no limit.
const DefaultLimit = 20

type Result struct {
	ID         string    `json:"id"`
	GameID     string    `json:"gameId"`
	PegsLeft   int       `json:"pegsLeft"`
	Jumps      int       `json:"jumps"`
	FinishedAt time.Time `json:"finishedAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r. ID and FinishedAt are filled in when zero.
func (s *Store) Record(ctx context.Context, r Result) (Result, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	r.FinishedAt = r.FinishedAt.UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results(id, game_id, pegs_left, jumps, finished_at)
VALUES(?,?,?,?,?)`, r.ID, r.GameID, r.PegsLeft, r.Jumps, r.FinishedAt.Format(timeLayout),
	)
	if err != nil {
		return Result{}, fmt.Errorf("insert result: %w", err)
	}
	return r, nil
}

// Leaderboard returns the best finished games: fewest pegs left, earliest
// first among ties.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, pegs_left, jumps, finished_at
FROM results
ORDER BY pegs_left ASC, finished_at ASC
LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r        Result
			finished string
		)
		if err := rows.Scan(&r.ID, &r.GameID, &r.PegsLeft, &r.Jumps, &finished); err != nil {
			return nil, err
		}
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finished, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns how many games have been recorded.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM results`).Scan(&n)
	return n, err
}
