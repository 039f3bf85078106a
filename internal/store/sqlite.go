package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/yams/internal/game"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// sqliteStore persists games as JSON snapshots. Each Get restores a fresh
// *game.Game, so callers must Save after mutating.
type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore returns a Store over a migrated database handle.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db, now: time.Now}
}

func (s *sqliteStore) Save(ctx context.Context, g *game.Game) error {
	snap, err := json.Marshal(g.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	now := s.now().UTC().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO games (id, stage, archived, snapshot, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            stage=excluded.stage, archived=excluded.archived,
            snapshot=excluded.snapshot, updated_at=excluded.updated_at`,
		g.ID, string(g.Stage()), g.Archived(), string(snap), now, now,
	); err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_players WHERE game_id=?`, g.ID); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}
	for seat, p := range g.Players() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, player_id, seat) VALUES (?, ?, ?)`,
			g.ID, string(p), seat,
		); err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*game.Game, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM games WHERE id=?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func (s *sqliteStore) ListByPlayer(ctx context.Context, player game.PlayerID) ([]*game.Game, error) {
	return s.list(ctx, `
        SELECT g.snapshot
        FROM games g JOIN game_players p ON p.game_id = g.id
        WHERE p.player_id=?
        ORDER BY g.updated_at DESC
        LIMIT 50`, string(player),
	)
}

func (s *sqliteStore) ListUnfinished(ctx context.Context, player game.PlayerID) ([]*game.Game, error) {
	return s.list(ctx, `
        SELECT g.snapshot
        FROM games g JOIN game_players p ON p.game_id = g.id
        WHERE p.player_id=? AND g.stage != ?
        ORDER BY g.updated_at DESC`, string(player), string(game.StageGameEnd),
	)
}

// list decodes every snapshot returned by query.
func (s *sqliteStore) list(ctx context.Context, query string, args ...any) ([]*game.Game, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*game.Game
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		g, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id)
	return err
}

func (s *sqliteStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM games WHERE archived=1 OR updated_at < ?`,
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func decode(raw string) (*game.Game, error) {
	var snap game.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return game.Restore(snap, nil)
}
