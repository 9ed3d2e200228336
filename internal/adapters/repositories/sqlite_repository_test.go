package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"delivery-route-optimizer/internal/adapters/distance"
	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/ports"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every pooled connection would get its own empty in-memory
	// database; pin the pool to one connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return db
}

func testInstance(t *testing.T) *domain.Instance {
	t.Helper()
	depot := domain.NewDepot(domain.Point{X: 0, Y: 0}, 1000)
	provider := distance.NewEuclideanProvider()
	inst, err := domain.NewInstance("T1", depot, []domain.Customer{
		{ID: 1, Pos: domain.Point{X: 0, Y: 10}, Demand: 10, Ready: 5, Due: 500, ServiceTime: 2},
		{ID: 2, Pos: domain.Point{X: 10, Y: 0}, Demand: 15, Ready: 0, Due: 800, ServiceTime: 3},
	}, 30, provider.Distance)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return inst
}

func TestInstanceRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	provider := distance.NewEuclideanProvider()
	repo := NewSqliteInstanceRepository(db, provider.Distance)
	ctx := context.Background()

	in := testInstance(t)
	if err := repo.SaveInstance(ctx, in); err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}

	got, err := repo.GetInstance(ctx, "T1")
	if err != nil {
		t.Fatalf("GetInstance: %v", err)
	}
	if got.Name != "T1" || got.Capacity != 30 || got.NumCustomers() != 2 {
		t.Errorf("loaded instance = %s cap=%v n=%d", got.Name, got.Capacity, got.NumCustomers())
	}
	c1 := got.Customer(1)
	if c1.Pos.Y != 10 || c1.Demand != 10 || c1.Ready != 5 || c1.Due != 500 || c1.ServiceTime != 2 {
		t.Errorf("customer 1 = %+v", c1)
	}
	if got.Distance(1, 2) != in.Distance(1, 2) {
		t.Errorf("matrix not rebuilt: %v vs %v", got.Distance(1, 2), in.Distance(1, 2))
	}
}

func TestInstanceRepositorySaveReplaces(t *testing.T) {
	db := openTestDB(t)
	provider := distance.NewEuclideanProvider()
	repo := NewSqliteInstanceRepository(db, provider.Distance)
	ctx := context.Background()

	if err := repo.SaveInstance(ctx, testInstance(t)); err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}
	// Same name, one customer: wins over the stored version.
	depot := domain.NewDepot(domain.Point{}, 1000)
	smaller, err := domain.NewInstance("T1", depot, []domain.Customer{
		{ID: 1, Pos: domain.Point{X: 1, Y: 1}, Demand: 5, Due: 100},
	}, 50, provider.Distance)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	if err := repo.SaveInstance(ctx, smaller); err != nil {
		t.Fatalf("SaveInstance replace: %v", err)
	}

	got, err := repo.GetInstance(ctx, "T1")
	if err != nil {
		t.Fatalf("GetInstance: %v", err)
	}
	if got.NumCustomers() != 1 || got.Capacity != 50 {
		t.Errorf("replacement not applied: n=%d cap=%v", got.NumCustomers(), got.Capacity)
	}
}

func TestInstanceRepositoryNotFound(t *testing.T) {
	db := openTestDB(t)
	provider := distance.NewEuclideanProvider()
	repo := NewSqliteInstanceRepository(db, provider.Distance)

	if _, err := repo.GetInstance(context.Background(), "nope"); !errors.Is(err, ports.ErrInstanceNotFound) {
		t.Fatalf("err = %v, want ErrInstanceNotFound", err)
	}
}

func TestInstanceRepositoryList(t *testing.T) {
	db := openTestDB(t)
	provider := distance.NewEuclideanProvider()
	repo := NewSqliteInstanceRepository(db, provider.Distance)
	ctx := context.Background()

	if err := repo.SaveInstance(ctx, testInstance(t)); err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}
	got, err := repo.ListInstances(ctx)
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(got) != 1 || got[0].Name != "T1" || got[0].Customers != 2 || got[0].Capacity != 30 {
		t.Errorf("summaries = %+v", got)
	}
}

func testRun() *domain.Run {
	return &domain.Run{
		ID:           "run-1",
		InstanceName: "T1",
		Method:       "genetic",
		CreatedAt:    time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Solution: &domain.Solution{
			Routes: []domain.Route{
				{Vehicle: 0, Customers: []int{1}, Load: 10, Distance: 20, Duration: 22},
				{Vehicle: 1, Customers: []int{2}, Load: 15, Distance: 20, Duration: 23},
			},
			Fitness:       40,
			TotalDistance: 40,
			TotalDuration: 23,
			Feasible:      true,
		},
		Convergence: []domain.GenerationStats{
			{Generation: 0, BestFitness: 60, MeanFitness: 80, StdDev: 5, Elapsed: 12 * time.Millisecond},
			{Generation: 1, BestFitness: 40, MeanFitness: 70, StdDev: 4, Elapsed: 25 * time.Millisecond},
		},
	}
}

func TestSolutionRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteSolutionRepository(db)
	ctx := context.Background()

	if err := repo.SaveRun(ctx, testRun()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := repo.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.InstanceName != "T1" || got.Method != "genetic" {
		t.Errorf("run = %+v", got)
	}
	if !got.CreatedAt.Equal(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("created at = %v", got.CreatedAt)
	}
	if got.Solution.Fitness != 40 || !got.Solution.Feasible {
		t.Errorf("solution = %+v", got.Solution)
	}
	if len(got.Solution.Routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(got.Solution.Routes))
	}
	if len(got.Solution.Routes[1].Customers) != 1 || got.Solution.Routes[1].Customers[0] != 2 {
		t.Errorf("route 1 customers = %v", got.Solution.Routes[1].Customers)
	}
	if len(got.Convergence) != 2 {
		t.Fatalf("convergence = %d rows, want 2", len(got.Convergence))
	}
	if got.Convergence[1].BestFitness != 40 || got.Convergence[1].Elapsed != 25*time.Millisecond {
		t.Errorf("convergence[1] = %+v", got.Convergence[1])
	}
}

func TestSolutionRepositoryNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteSolutionRepository(db)

	if _, err := repo.GetRun(context.Background(), "missing"); !errors.Is(err, ports.ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestSolutionRepositoryListFiltersByInstance(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteSolutionRepository(db)
	ctx := context.Background()

	r1 := testRun()
	if err := repo.SaveRun(ctx, r1); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	r2 := testRun()
	r2.ID = "run-2"
	r2.InstanceName = "T2"
	r2.CreatedAt = r1.CreatedAt.Add(time.Hour)
	if err := repo.SaveRun(ctx, r2); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	all, err := repo.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 2 || all[0].ID != "run-2" {
		t.Errorf("all runs = %+v, want newest first", all)
	}

	only, err := repo.ListRuns(ctx, "T1")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(only) != 1 || only[0].ID != "run-1" {
		t.Errorf("filtered runs = %+v", only)
	}
}
