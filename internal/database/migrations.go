package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the cars table and its indexes if missing.
// The seq column preserves insertion order for unfiltered reads;
// gen_random_uuid needs the pgcrypto extension on Postgres < 13.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cars (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			seq BIGSERIAL,
			brand TEXT NOT NULL,
			model TEXT NOT NULL,
			year INTEGER NOT NULL,
			attributes JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cars table: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_cars_brand
		ON cars (LOWER(brand))
	`)
	if err != nil {
		return fmt.Errorf("failed to create idx_cars_brand: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_cars_year
		ON cars (year)
	`)
	if err != nil {
		return fmt.Errorf("failed to create idx_cars_year: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_cars_attributes
		ON cars USING GIN (attributes)
	`)
	if err != nil {
		return fmt.Errorf("failed to create idx_cars_attributes: %w", err)
	}

	return nil
}
