package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

const schema = `
CREATE TABLE IF NOT EXISTS financial_models (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	model_json  JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);`

// InitDB initializes the database connection pool. An empty url falls back
// to the DATABASE_URL environment variable. The table is created if missing.
func InitDB(ctx context.Context, url string) error {
	var err error
	once.Do(func() {
		if url == "" {
			url = os.Getenv("DATABASE_URL")
		}
		if url == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(url)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			err = fmt.Errorf("failed to create pool: %w", err)
			return
		}
		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			pool = nil
			err = fmt.Errorf("failed to reach database: %w", err)
			return
		}
		if _, execErr := pool.Exec(ctx, schema); execErr != nil {
			err = fmt.Errorf("failed to ensure schema: %w", execErr)
		}
	})
	return err
}

// GetPool returns the database connection pool, or nil before a successful InitDB.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}
