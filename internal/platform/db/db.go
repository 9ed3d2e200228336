// Package db opens the Postgres connection used for run archival.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Open connects to Postgres through the pgx stdlib driver and verifies
// the connection. The pool is kept small; archival is a batch job, not
// a request path.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: open postgres: %w", err)
	}

	pool.SetMaxOpenConns(4)
	pool.SetMaxIdleConns(2)
	pool.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: verify postgres connection: %w", err)
	}

	return pool, nil
}
