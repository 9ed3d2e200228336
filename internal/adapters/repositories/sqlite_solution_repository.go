package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/ports"
)

// SQLite-backed implementation of the SolutionRepository port.
// Route customer sequences are stored as JSON arrays inside the route
// row; convergence history gets one row per recorded generation.
type SqliteSolutionRepository struct{ DB *sql.DB }

func NewSqliteSolutionRepository(db *sql.DB) *SqliteSolutionRepository {
	return &SqliteSolutionRepository{DB: db}
}

// Persist a run with its routes and convergence history.
func (s *SqliteSolutionRepository) SaveRun(ctx context.Context, run *domain.Run) error {
	if s.DB == nil {
		return errors.New("sqlite solution repository: DB is nil")
	}
	if run.Solution == nil {
		return errors.New("save run: solution is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	feasible := 0
	if run.Solution.Feasible {
		feasible = 1
	}
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO runs (
		run_id,
		instance_name,
		method,
		created_at,
		fitness,
		total_distance,
		total_duration,
		feasible
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`, run.ID, run.InstanceName, run.Method, run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Solution.Fitness, run.Solution.TotalDistance, run.Solution.TotalDuration, feasible); err != nil {
		return fmt.Errorf("save run %s: insert run row: %w", run.ID, err)
	}

	routeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO routes (
		run_id,
		vehicle,
		customers,
		load,
		distance,
		duration,
		capacity_violations,
		time_window_violations
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save run %s: prepare route insert: %w", run.ID, err)
	}
	defer routeStmt.Close()

	for _, r := range run.Solution.Routes {
		seq, err := json.Marshal(r.Customers)
		if err != nil {
			return fmt.Errorf("save run %s: encode route %d: %w", run.ID, r.Vehicle, err)
		}
		if _, err := routeStmt.ExecContext(ctx, run.ID, r.Vehicle, string(seq),
			r.Load, r.Distance, r.Duration, r.CapacityViolations, r.TimeWindowViolations); err != nil {
			return fmt.Errorf("save run %s: insert route %d: %w", run.ID, r.Vehicle, err)
		}
	}

	if len(run.Convergence) > 0 {
		convStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO convergence (
			run_id,
			generation,
			best_fitness,
			mean_fitness,
			std_dev,
			elapsed_ms
		)
		VALUES (?, ?, ?, ?, ?, ?);
		`)
		if err != nil {
			return fmt.Errorf("save run %s: prepare convergence insert: %w", run.ID, err)
		}
		defer convStmt.Close()

		for _, g := range run.Convergence {
			if _, err := convStmt.ExecContext(ctx, run.ID, g.Generation,
				g.BestFitness, g.MeanFitness, g.StdDev,
				float64(g.Elapsed)/float64(time.Millisecond)); err != nil {
				return fmt.Errorf("save run %s: insert generation %d: %w", run.ID, g.Generation, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: commit tx: %w", run.ID, err)
	}
	return nil
}

// Load a run with its routes and convergence history.
func (s *SqliteSolutionRepository) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite solution repository: DB is nil")
	}

	run := &domain.Run{ID: id, Solution: &domain.Solution{}}
	var createdAt string
	var feasible int
	err := s.DB.QueryRowContext(ctx, `
	SELECT
		instance_name,
		method,
		created_at,
		fitness,
		total_distance,
		total_duration,
		feasible
	FROM runs
	WHERE run_id = ?;
	`, id).Scan(&run.InstanceName, &run.Method, &createdAt,
		&run.Solution.Fitness, &run.Solution.TotalDistance, &run.Solution.TotalDuration, &feasible)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ports.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: query run row: %w", id, err)
	}
	run.Solution.Feasible = feasible != 0
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("get run %s: parse created_at %q: %w", id, createdAt, err)
	}

	if run.Solution.Routes, err = s.loadRoutes(ctx, id); err != nil {
		return nil, err
	}
	if run.Convergence, err = s.loadConvergence(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SqliteSolutionRepository) loadRoutes(ctx context.Context, id string) ([]domain.Route, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		vehicle,
		customers,
		load,
		distance,
		duration,
		capacity_violations,
		time_window_violations
	FROM routes
	WHERE run_id = ?
	ORDER BY vehicle;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: query routes: %w", id, err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0, 16)
	for rows.Next() {
		var r domain.Route
		var seq string
		if err := rows.Scan(&r.Vehicle, &seq, &r.Load, &r.Distance, &r.Duration,
			&r.CapacityViolations, &r.TimeWindowViolations); err != nil {
			return nil, fmt.Errorf("get run %s: scan route row: %w", id, err)
		}
		if err := json.Unmarshal([]byte(seq), &r.Customers); err != nil {
			return nil, fmt.Errorf("get run %s: decode route %d: %w", id, r.Vehicle, err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run %s: route iteration: %w", id, err)
	}
	return routes, nil
}

func (s *SqliteSolutionRepository) loadConvergence(ctx context.Context, id string) ([]domain.GenerationStats, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		generation,
		best_fitness,
		mean_fitness,
		std_dev,
		elapsed_ms
	FROM convergence
	WHERE run_id = ?
	ORDER BY generation;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: query convergence: %w", id, err)
	}
	defer rows.Close()

	var history []domain.GenerationStats
	for rows.Next() {
		var g domain.GenerationStats
		var elapsedMs float64
		if err := rows.Scan(&g.Generation, &g.BestFitness, &g.MeanFitness, &g.StdDev, &elapsedMs); err != nil {
			return nil, fmt.Errorf("get run %s: scan convergence row: %w", id, err)
		}
		g.Elapsed = time.Duration(elapsedMs * float64(time.Millisecond))
		history = append(history, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run %s: convergence iteration: %w", id, err)
	}
	return history, nil
}

// List runs, newest first, optionally filtered by instance name.
// The returned runs carry aggregate solution metrics only; load a
// single run to get its routes and convergence history.
func (s *SqliteSolutionRepository) ListRuns(ctx context.Context, instanceName string) ([]*domain.Run, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite solution repository: DB is nil")
	}

	query := `
	SELECT
		run_id,
		instance_name,
		method,
		created_at,
		fitness,
		total_distance,
		total_duration,
		feasible
	FROM runs
	`
	args := []any{}
	if instanceName != "" {
		query += ` WHERE instance_name = ?`
		args = append(args, instanceName)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: query: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0, 16)
	for rows.Next() {
		run := &domain.Run{Solution: &domain.Solution{}}
		var createdAt string
		var feasible int
		if err := rows.Scan(&run.ID, &run.InstanceName, &run.Method, &createdAt,
			&run.Solution.Fitness, &run.Solution.TotalDistance, &run.Solution.TotalDuration, &feasible); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		run.Solution.Feasible = feasible != 0
		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("list runs: parse created_at %q: %w", createdAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}
	return runs, nil
}
