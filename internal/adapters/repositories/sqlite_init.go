package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createInstancesQuery := `
	CREATE TABLE IF NOT EXISTS instances (
		name TEXT PRIMARY KEY,
		capacity REAL NOT NULL
	);
	`

	createCustomersQuery := `
	CREATE TABLE IF NOT EXISTS customers (
		instance_name TEXT NOT NULL,
		customer_id INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		demand REAL NOT NULL,
		ready REAL NOT NULL,
		due REAL NOT NULL,
		service_time REAL NOT NULL,
		PRIMARY KEY (instance_name, customer_id)
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		instance_name TEXT NOT NULL,
		method TEXT NOT NULL,
		created_at TEXT NOT NULL,
		fitness REAL NOT NULL,
		total_distance REAL NOT NULL,
		total_duration REAL NOT NULL,
		feasible INTEGER NOT NULL
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		run_id TEXT NOT NULL,
		vehicle INTEGER NOT NULL,
		customers TEXT NOT NULL,
		load REAL NOT NULL,
		distance REAL NOT NULL,
		duration REAL NOT NULL,
		capacity_violations INTEGER NOT NULL,
		time_window_violations INTEGER NOT NULL,
		PRIMARY KEY (run_id, vehicle)
	);
	`

	createConvergenceQuery := `
	CREATE TABLE IF NOT EXISTS convergence (
		run_id TEXT NOT NULL,
		generation INTEGER NOT NULL,
		best_fitness REAL NOT NULL,
		mean_fitness REAL NOT NULL,
		std_dev REAL NOT NULL,
		elapsed_ms REAL NOT NULL,
		PRIMARY KEY (run_id, generation)
	);
	`

	createRunsIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_runs_instance_created
	ON runs(instance_name, created_at);
	`

	statements := []string{
		createInstancesQuery,
		createCustomersQuery,
		createRunsQuery,
		createRoutesQuery,
		createConvergenceQuery,
		createRunsIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
