// Package results keeps the final score of every finished game and serves the
// leaderboard.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/robalobadob/yams/internal/game"
)

// Result is one player's outcome in one finished game.
type Result struct {
	GameID     string `json:"gameId"`
	UserID     string `json:"userId"`
	Total      int    `json:"total"`
	Resigned   bool   `json:"resigned"`
	Winner     bool   `json:"winner"`
	FinishedAt string `json:"finishedAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// RecordGame writes one row per seated player of an ended game. Recording the
// same game twice is ignored.
func (s *Store) RecordGame(ctx context.Context, g *game.Game, finishedAt time.Time) error {
	if !g.Ended() {
		return fmt.Errorf("record game %s: %w", g.ID, game.ErrInvalidStateTransition)
	}
	winners := g.Winners()
	v := g.View()
	at := finishedAt.UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, p := range v.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO results(game_id, user_id, total, resigned, winner, finished_at)
VALUES(?,?,?,?,?,?)`,
			g.ID, string(p.ID), p.Card.Total, p.Resigned, slices.Contains(winners, p.ID), at,
		); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	return tx.Commit()
}

// LBRow is one leaderboard line.
type LBRow struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Best     int    `json:"best"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
}

// Leaderboard ranks users by their best total among games they finished
// without resigning.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.user_id, COALESCE(u.username, ''), MAX(r.total), COUNT(1), SUM(r.winner)
FROM results r LEFT JOIN users u ON u.id = r.user_id
WHERE r.resigned = 0
GROUP BY r.user_id
ORDER BY MAX(r.total) DESC, SUM(r.winner) DESC, r.user_id ASC
LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Best, &r.Games, &r.Wins); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ForUser lists a user's results, newest first.
func (s *Store) ForUser(ctx context.Context, userID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, user_id, total, resigned, winner, finished_at
FROM results WHERE user_id=?
ORDER BY finished_at DESC, game_id ASC
LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.GameID, &r.UserID, &r.Total, &r.Resigned, &r.Winner, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
