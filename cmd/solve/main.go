package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"delivery-route-optimizer/internal/adapters/distance"
	"delivery-route-optimizer/internal/adapters/loaders"
	"delivery-route-optimizer/internal/adapters/repositories"
	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/platform/obs"
	"delivery-route-optimizer/internal/report"
	"delivery-route-optimizer/internal/solver"
)

// solve runs the full pipeline on one instance file: construct a
// baseline with the Solomon heuristic, improve it with the genetic
// algorithm, write the comparison report and solution files, and
// optionally persist both runs to the database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	instancePath := flag.String("instance", "", "path to the instance file")
	format := flag.String("format", "solomon", "instance format: solomon or food")
	maxCustomers := flag.Int("max-customers", 0, "truncate the instance (0 = keep all)")
	solverConfigPath := flag.String("config", config.Get("SOLVER_CONFIG", ""), "solver parameter YAML")
	seed := flag.Int64("seed", 0, "override the random seed (0 = keep configured)")
	outDir := flag.String("out", "results", "output directory for report and solutions")
	dbPath := flag.String("db", "", "SQLite database to persist runs into (empty = skip)")
	flag.Parse()

	if *instancePath == "" {
		log.Fatal("-instance is required")
	}

	solverCfg, err := config.LoadSolverFile(*solverConfigPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		solverCfg.Genetic.Seed = *seed
	}

	inst, err := loadInstance(*instancePath, *format, *maxCustomers)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("instance=%s customers=%d capacity=%v min_vehicles=%d",
		inst.Name, inst.NumCustomers(), inst.Capacity, inst.MinVehicles())

	ctx := context.Background()
	baseline, improved, err := runPipeline(ctx, inst, solverCfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := writeOutputs(*outDir, inst, baseline, improved); err != nil {
		log.Fatal(err)
	}
	if *dbPath != "" {
		if err := persistRuns(ctx, *dbPath, inst, baseline, improved); err != nil {
			log.Fatal(err)
		}
	}
}

func loadInstance(path, format string, maxCustomers int) (*domain.Instance, error) {
	provider := distance.NewEuclideanProvider()
	switch format {
	case "solomon":
		parsed, err := loaders.LoadSolomonFile(path, maxCustomers, provider.Distance)
		if err != nil {
			return nil, err
		}
		return parsed.Instance, nil
	case "food":
		opts := loaders.DefaultFoodDeliveryOptions()
		if maxCustomers > 0 {
			opts.MaxCustomers = maxCustomers
		}
		return loaders.LoadFoodDeliveryFile(path, opts)
	default:
		return nil, fmt.Errorf("unknown instance format %q (want solomon or food)", format)
	}
}

func runPipeline(ctx context.Context, inst *domain.Instance, cfg config.SolverFile) (baseline, improved *domain.Run, err error) {
	defer obs.Time(ctx, "pipeline")(&err)

	eval := solver.NewEvaluator(inst, cfg.Genetic.Penalties)
	constructor, err := solver.NewSolomonInsertion(inst, cfg.Insertion, eval)
	if err != nil {
		return nil, nil, err
	}
	base := constructor.Construct()
	log.Printf("solomon fitness=%.2f distance=%.2f vehicles=%d feasible=%t",
		base.Fitness, base.TotalDistance, base.Vehicles(), base.Feasible)

	ga, err := solver.NewGeneticAlgorithm(inst, cfg.Genetic, cfg.Insertion)
	if err != nil {
		return nil, nil, err
	}
	ga.SetObserver(func(stats domain.GenerationStats) {
		log.Printf("gen=%d best=%.2f mean=%.2f stddev=%.2f elapsed=%s",
			stats.Generation, stats.BestFitness, stats.MeanFitness, stats.StdDev,
			stats.Elapsed.Round(time.Millisecond))
	})
	best, err := ga.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("genetic fitness=%.2f distance=%.2f vehicles=%d feasible=%t",
		best.Fitness, best.TotalDistance, best.Vehicles(), best.Feasible)

	now := time.Now().UTC()
	baseline = &domain.Run{
		ID:           uuid.NewString(),
		InstanceName: inst.Name,
		Method:       "solomon",
		CreatedAt:    now,
		Solution:     base,
	}
	improved = &domain.Run{
		ID:           uuid.NewString(),
		InstanceName: inst.Name,
		Method:       "genetic",
		CreatedAt:    now,
		Solution:     best,
		Convergence:  ga.History(),
	}
	return baseline, improved, nil
}

func writeOutputs(dir string, inst *domain.Instance, baseline, improved *domain.Run) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}

	comparison := report.Comparison{InstanceName: inst.Name, Baseline: baseline, Improved: improved}
	reportPath := filepath.Join(dir, inst.Name+"_report.txt")
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	defer f.Close()
	if err := report.Write(f, comparison); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	log.Printf("report written path=%s", reportPath)

	for _, run := range []*domain.Run{baseline, improved} {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", inst.Name, run.Method))
		sf, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("write outputs: %w", err)
		}
		if err := report.WriteSolutionJSON(sf, run); err != nil {
			sf.Close()
			return fmt.Errorf("write outputs: %w", err)
		}
		if err := sf.Close(); err != nil {
			return fmt.Errorf("write outputs: %w", err)
		}
		log.Printf("solution written path=%s", path)
	}
	return nil
}

func persistRuns(ctx context.Context, dbPath string, inst *domain.Instance, runs ...*domain.Run) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("persist runs: open sqlite database %q: %w", dbPath, err)
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("persist runs: %w", err)
	}

	provider := distance.NewEuclideanProvider()
	if err := repositories.NewSqliteInstanceRepository(db, provider.Distance).SaveInstance(ctx, inst); err != nil {
		return fmt.Errorf("persist runs: %w", err)
	}
	solutions := repositories.NewSqliteSolutionRepository(db)
	for _, run := range runs {
		if err := solutions.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("persist runs: %w", err)
		}
		log.Printf("run saved run_id=%s method=%s", run.ID, run.Method)
	}
	return nil
}
