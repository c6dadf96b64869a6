package universe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the screener universe from PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Tickers returns the active tickers in the universe table
func (r *Repository) Tickers(ctx context.Context) ([]string, error) {
	query := `
		SELECT ticker
		FROM fundamentals.universe
		WHERE active = true
		ORDER BY ticker
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query universe: %w", err)
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("scan universe: %w", err)
		}
		list = append(list, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate universe: %w", err)
	}

	return normalize(list), nil
}

// Replace swaps the active universe for tickers in one transaction
func (r *Repository) Replace(ctx context.Context, tickers []string) (int, error) {
	list := normalize(tickers)
	if len(list) == 0 {
		return 0, ErrEmpty
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE fundamentals.universe SET active = false`); err != nil {
		return 0, fmt.Errorf("deactivate universe: %w", err)
	}

	query := `
		INSERT INTO fundamentals.universe (ticker, active, updated_at)
		VALUES ($1, true, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			active = true,
			updated_at = NOW()
	`
	for _, t := range list {
		if _, err := tx.Exec(ctx, query, t); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", t, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit universe: %w", err)
	}
	return len(list), nil
}
