package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"delivery-route-optimizer/internal/adapters/distance"
	"delivery-route-optimizer/internal/adapters/loaders"
	"delivery-route-optimizer/internal/adapters/repositories"
	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/platform/db"
)

// dbtool manages the service database: schema init, instance imports,
// and archiving run summaries to Postgres for long-term storage.
//
//	dbtool init
//	dbtool import-solomon <file.txt> [more files...]
//	dbtool import-food <train.csv>
//	dbtool archive
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := flag.String("db", config.Get("DB_PATH", "data/app.db"), "path to the SQLite database")
	maxCustomers := flag.Int("max-customers", 0, "truncate imported instances (0 = keep all)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("usage: dbtool [flags] init|import-solomon|import-food|archive")
	}

	sqlite, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open sqlite database %q: %v", *dbPath, err)
	}
	defer sqlite.Close()

	if err := repositories.InitSchema(sqlite); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	switch cmd := args[0]; cmd {
	case "init":
		log.Println("Schema ready.")
	case "import-solomon":
		if len(args) < 2 {
			log.Fatal("import-solomon needs at least one instance file")
		}
		if err := importSolomon(ctx, sqlite, args[1:], *maxCustomers); err != nil {
			log.Fatal(err)
		}
	case "import-food":
		if len(args) != 2 {
			log.Fatal("import-food needs exactly one csv file")
		}
		if err := importFood(ctx, sqlite, args[1], *maxCustomers); err != nil {
			log.Fatal(err)
		}
	case "archive":
		if err := archiveRuns(ctx, sqlite); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown command %q", cmd)
	}
}

func importSolomon(ctx context.Context, sqlite *sql.DB, paths []string, maxCustomers int) error {
	provider := distance.NewEuclideanProvider()
	repo := repositories.NewSqliteInstanceRepository(sqlite, provider.Distance)

	for _, path := range paths {
		parsed, err := loaders.LoadSolomonFile(path, maxCustomers, provider.Distance)
		if err != nil {
			return err
		}
		if err := repo.SaveInstance(ctx, parsed.Instance); err != nil {
			return err
		}
		log.Printf("imported instance=%s customers=%d capacity=%v",
			parsed.Instance.Name, parsed.Instance.NumCustomers(), parsed.Instance.Capacity)
	}
	return nil
}

func importFood(ctx context.Context, sqlite *sql.DB, path string, maxCustomers int) error {
	provider := distance.NewEuclideanProvider()
	repo := repositories.NewSqliteInstanceRepository(sqlite, provider.Distance)

	opts := loaders.DefaultFoodDeliveryOptions()
	if maxCustomers > 0 {
		opts.MaxCustomers = maxCustomers
	}
	inst, err := loaders.LoadFoodDeliveryFile(path, opts)
	if err != nil {
		return err
	}
	if err := repo.SaveInstance(ctx, inst); err != nil {
		return err
	}
	log.Printf("imported instance=%s customers=%d capacity=%.2f",
		inst.Name, inst.NumCustomers(), inst.Capacity)
	return nil
}

const createArchiveTable = `
CREATE TABLE IF NOT EXISTS run_archive (
	run_id TEXT PRIMARY KEY,
	instance_name TEXT NOT NULL,
	method TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	fitness DOUBLE PRECISION NOT NULL,
	total_distance DOUBLE PRECISION NOT NULL,
	total_duration DOUBLE PRECISION NOT NULL,
	feasible BOOLEAN NOT NULL
);
`

const insertArchiveRow = `
INSERT INTO run_archive (
	run_id, instance_name, method, created_at,
	fitness, total_distance, total_duration, feasible
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (run_id) DO NOTHING;
`

// archiveRuns copies run summary rows into a Postgres archive table.
func archiveRuns(ctx context.Context, sqlite *sql.DB) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		return fmt.Errorf("archive: DATABASE_URL is required")
	}

	pg, err := db.Open(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	defer pg.Close()

	if _, err := pg.ExecContext(ctx, createArchiveTable); err != nil {
		return fmt.Errorf("archive: create archive table: %w", err)
	}

	runs, err := repositories.NewSqliteSolutionRepository(sqlite).ListRuns(ctx, "")
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}

	archived := 0
	for _, run := range runs {
		res, err := pg.ExecContext(ctx, insertArchiveRow,
			run.ID, run.InstanceName, run.Method, run.CreatedAt,
			run.Solution.Fitness, run.Solution.TotalDistance,
			run.Solution.TotalDuration, run.Solution.Feasible)
		if err != nil {
			return fmt.Errorf("archive: insert run %s: %w", run.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			archived += int(n)
		}
	}
	log.Printf("archived runs=%d new=%d", len(runs), archived)
	return nil
}
