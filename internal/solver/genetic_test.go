package solver

import (
	"context"
	"errors"
	"testing"

	"delivery-route-optimizer/internal/domain"
)

func smallGAConfig() GeneticConfig {
	cfg := DefaultGeneticConfig()
	cfg.PopSize = 12
	cfg.EliteSize = 3
	cfg.Generations = 25
	cfg.TournamentSize = 3
	cfg.ReportInterval = 5
	cfg.Seed = 1
	return cfg
}

func TestGeneticRunFindsFeasibleSolution(t *testing.T) {
	inst := squareInstance(t)
	ga, err := NewGeneticAlgorithm(inst, smallGAConfig(), DefaultInsertionConfig())
	if err != nil {
		t.Fatalf("NewGeneticAlgorithm: %v", err)
	}

	best, err := ga.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := best.CheckPartition(inst); err != nil {
		t.Fatalf("partition broken: %v", err)
	}
	if !best.Feasible {
		t.Errorf("easy instance should converge to a feasible solution, fitness=%v", best.Fitness)
	}
	if ga.Phase() != PhaseTerminated {
		t.Errorf("phase = %v, want %v", ga.Phase(), PhaseTerminated)
	}
}

func TestGeneticBestNeverRegresses(t *testing.T) {
	inst := squareInstance(t)
	ga, err := NewGeneticAlgorithm(inst, smallGAConfig(), DefaultInsertionConfig())
	if err != nil {
		t.Fatalf("NewGeneticAlgorithm: %v", err)
	}
	if _, err := ga.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	hist := ga.History()
	if len(hist) != 26 {
		t.Fatalf("history length = %d, want 26 (initial plus one per generation)", len(hist))
	}
	for i := 1; i < len(hist); i++ {
		if hist[i].BestFitness > hist[i-1].BestFitness {
			t.Fatalf("best fitness regressed at generation %d: %v -> %v",
				hist[i].Generation, hist[i-1].BestFitness, hist[i].BestFitness)
		}
	}
}

func TestGeneticIsDeterministicForSeed(t *testing.T) {
	inst := squareInstance(t)
	run := func() *domain.Solution {
		ga, err := NewGeneticAlgorithm(inst, smallGAConfig(), DefaultInsertionConfig())
		if err != nil {
			t.Fatalf("NewGeneticAlgorithm: %v", err)
		}
		best, err := ga.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return best
	}

	a := run()
	b := run()
	if !almostEqual(a.Fitness, b.Fitness) {
		t.Fatalf("same seed produced different fitness: %v vs %v", a.Fitness, b.Fitness)
	}
	if len(a.Routes) != len(b.Routes) {
		t.Fatalf("same seed produced different route counts: %d vs %d", len(a.Routes), len(b.Routes))
	}
	for i := range a.Routes {
		ra, rb := a.Routes[i].Customers, b.Routes[i].Customers
		if len(ra) != len(rb) {
			t.Fatalf("route %d length differs", i)
		}
		for j := range ra {
			if ra[j] != rb[j] {
				t.Fatalf("route %d differs: %v vs %v", i, ra, rb)
			}
		}
	}
}

func TestGeneticObserverCadence(t *testing.T) {
	inst := squareInstance(t)
	ga, err := NewGeneticAlgorithm(inst, smallGAConfig(), DefaultInsertionConfig())
	if err != nil {
		t.Fatalf("NewGeneticAlgorithm: %v", err)
	}

	var seen []int
	ga.SetObserver(func(stats domain.GenerationStats) {
		seen = append(seen, stats.Generation)
	})
	if _, err := ga.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []int{5, 10, 15, 20, 25}
	if len(seen) != len(want) {
		t.Fatalf("observer calls = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("observer calls = %v, want %v", seen, want)
		}
	}
}

func TestGeneticHonorsCancellation(t *testing.T) {
	inst := squareInstance(t)
	ga, err := NewGeneticAlgorithm(inst, smallGAConfig(), DefaultInsertionConfig())
	if err != nil {
		t.Fatalf("NewGeneticAlgorithm: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	best, err := ga.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if best == nil {
		t.Fatal("cancelled run must still return the best solution so far")
	}
	if err := best.CheckPartition(inst); err != nil {
		t.Fatalf("partition broken: %v", err)
	}
	if ga.Phase() != PhaseTerminated {
		t.Errorf("phase = %v, want %v", ga.Phase(), PhaseTerminated)
	}
}

func TestGeneticRejectsBadConfig(t *testing.T) {
	inst := squareInstance(t)
	cfg := smallGAConfig()
	cfg.EliteSize = cfg.PopSize + 1
	if _, err := NewGeneticAlgorithm(inst, cfg, DefaultInsertionConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
