package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/donut/internal/leaderboard"
)

// LeaderboardRepository implements leaderboard.Store.
type LeaderboardRepository struct {
	db *pgxpool.Pool
}

var _ leaderboard.Store = (*LeaderboardRepository)(nil)

// NewLeaderboardRepository creates a LeaderboardRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewLeaderboardRepository(db *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Top returns at most limit entries ordered by level descending, then age.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, level, created_at
		FROM leaderboard
		ORDER BY level DESC, created_at ASC, id ASC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (leaderboard.Entry, error) {
		var e leaderboard.Entry
		err := row.Scan(&e.Name, &e.Level, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning leaderboard row: %w", err)
	}
	return entries, nil
}

// Insert adds a new row.
//
// Precondition: e.Name is trimmed and at most 20 characters; e.Level >= 1.
func (r *LeaderboardRepository) Insert(ctx context.Context, e leaderboard.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leaderboard (name, level, created_at) VALUES ($1, $2, $3)`,
		e.Name, e.Level, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting leaderboard entry: %w", err)
	}
	return nil
}

// Raise updates the best row named e.Name when e.Level is higher, or inserts
// e when the name is new. The read and write share one transaction.
func (r *LeaderboardRepository) Raise(ctx context.Context, e leaderboard.Entry) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		var level int
		err := tx.QueryRow(ctx, `
			SELECT id, level FROM leaderboard
			WHERE name = $1
			ORDER BY level DESC, created_at ASC
			LIMIT 1
			FOR UPDATE`,
			e.Name,
		).Scan(&id, &level)
		if errors.Is(err, pgx.ErrNoRows) {
			_, err = tx.Exec(ctx, `
				INSERT INTO leaderboard (name, level, created_at) VALUES ($1, $2, $3)`,
				e.Name, e.Level, e.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("inserting leaderboard entry: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("querying leaderboard entry: %w", err)
		}
		if e.Level <= level {
			return nil
		}
		if _, err := tx.Exec(ctx, `
			UPDATE leaderboard SET level = $2, created_at = $3 WHERE id = $1`,
			id, e.Level, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("raising leaderboard entry: %w", err)
		}
		return nil
	})
}
