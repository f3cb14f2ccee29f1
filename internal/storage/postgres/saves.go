package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/donut/internal/game/session"
)

// SaveRepository implements session.Store with one JSONB row per session.
type SaveRepository struct {
	db *pgxpool.Pool
}

var _ session.Store = (*SaveRepository)(nil)

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Get implements session.Store.
//
// Postcondition: Returns the session or session.ErrNotFound.
func (r *SaveRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	var state []byte
	err := r.db.QueryRow(ctx, `SELECT state FROM session_saves WHERE id::text = $1`, id).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("querying save: %w", err)
	}
	s, err := session.Unmarshal(state)
	if err != nil {
		return nil, fmt.Errorf("decoding save %q: %w", id, err)
	}
	return s, nil
}

// Put implements session.Store. The summary columns mirror the document so
// saves can be listed without decoding it.
func (r *SaveRepository) Put(ctx context.Context, s *session.Session) error {
	state, err := session.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", s.ID, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO session_saves (id, state, turn, level, game_over, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET state = EXCLUDED.state, turn = EXCLUDED.turn, level = EXCLUDED.level,
		    game_over = EXCLUDED.game_over, updated_at = EXCLUDED.updated_at`,
		s.ID, state, s.Turn, s.Player.Level, s.GameOver, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving session %q: %w", s.ID, err)
	}
	return nil
}

// Delete implements session.Store.
func (r *SaveRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM session_saves WHERE id::text = $1`, id); err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	return nil
}
