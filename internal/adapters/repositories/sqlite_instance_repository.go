package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/ports"
)

// SQLite-backed implementation of the InstanceRepository port.
// Instances are stored as raw customer rows; the distance matrix is
// rebuilt on load with the injected metric.
type SqliteInstanceRepository struct {
	DB   *sql.DB
	Dist domain.DistanceFunc
}

func NewSqliteInstanceRepository(db *sql.DB, dist domain.DistanceFunc) *SqliteInstanceRepository {
	return &SqliteInstanceRepository{DB: db, Dist: dist}
}

// Persist an instance and all its customer rows under its name.
// An existing instance with the same name is replaced.
func (s *SqliteInstanceRepository) SaveInstance(ctx context.Context, in *domain.Instance) error {
	if s.DB == nil {
		return errors.New("sqlite instance repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save instance: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO instances (name, capacity) VALUES (?, ?);`,
		in.Name, in.Capacity); err != nil {
		return fmt.Errorf("save instance: insert instance row: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM customers WHERE instance_name = ?;`, in.Name); err != nil {
		return fmt.Errorf("save instance: clear customer rows: %w", err)
	}

	query := `
	INSERT INTO customers (
		instance_name,
		customer_id,
		x, y,
		demand,
		ready,
		due,
		service_time
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("save instance: prepare insert: %w", err)
	}
	defer stmt.Close()

	insert := func(c domain.Customer) error {
		_, err := stmt.ExecContext(ctx, in.Name, c.ID, c.Pos.X, c.Pos.Y, c.Demand, c.Ready, c.Due, c.ServiceTime)
		return err
	}
	if err := insert(in.Depot()); err != nil {
		return fmt.Errorf("save instance: insert depot: %w", err)
	}
	for _, c := range in.Customers() {
		if err := insert(c); err != nil {
			return fmt.Errorf("save instance: insert customer %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save instance: commit tx: %w", err)
	}
	return nil
}

// Load an instance by name, rebuilding the distance matrix.
func (s *SqliteInstanceRepository) GetInstance(ctx context.Context, name string) (*domain.Instance, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite instance repository: DB is nil")
	}

	var capacity float64
	err := s.DB.QueryRowContext(ctx,
		`SELECT capacity FROM instances WHERE name = ?;`, name).Scan(&capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get instance %q: %w", name, ports.ErrInstanceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get instance %q: query instance row: %w", name, err)
	}

	query := `
	SELECT
		customer_id,
		x, y,
		demand,
		ready,
		due,
		service_time
	FROM customers
	WHERE instance_name = ?
	ORDER BY customer_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("get instance %q: query customers: %w", name, err)
	}
	defer rows.Close()

	var depot *domain.Customer
	customers := make([]domain.Customer, 0, 64)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Pos.X, &c.Pos.Y, &c.Demand, &c.Ready, &c.Due, &c.ServiceTime); err != nil {
			return nil, fmt.Errorf("get instance %q: scan customer row: %w", name, err)
		}
		if c.IsDepot() {
			d := c
			depot = &d
			continue
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get instance %q: row iteration: %w", name, err)
	}
	if depot == nil {
		return nil, fmt.Errorf("get instance %q: stored instance has no depot row", name)
	}

	inst, err := domain.NewInstance(name, *depot, customers, capacity, s.Dist)
	if err != nil {
		return nil, fmt.Errorf("get instance %q: %w", name, err)
	}
	return inst, nil
}

// List stored instances with their customer counts.
func (s *SqliteInstanceRepository) ListInstances(ctx context.Context) ([]ports.InstanceSummary, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite instance repository: DB is nil")
	}

	query := `
	SELECT
		i.name,
		i.capacity,
		COUNT(c.customer_id) - 1 AS customers
	FROM instances i
	LEFT JOIN customers c ON c.instance_name = i.name
	GROUP BY i.name, i.capacity
	ORDER BY i.name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list instances: query: %w", err)
	}
	defer rows.Close()

	summaries := make([]ports.InstanceSummary, 0, 16)
	for rows.Next() {
		var sum ports.InstanceSummary
		if err := rows.Scan(&sum.Name, &sum.Capacity, &sum.Customers); err != nil {
			return nil, fmt.Errorf("list instances: scan row: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list instances: row iteration: %w", err)
	}
	return summaries, nil
}
