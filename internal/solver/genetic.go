package solver

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"delivery-route-optimizer/internal/domain"
)

// Phase tracks the lifecycle of one GeneticAlgorithm run.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseEvolving
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseEvolving:
		return "evolving"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Observer receives periodic progress snapshots during evolution.
type Observer func(stats domain.GenerationStats)

// GeneticAlgorithm is the hybrid metaheuristic: a generational GA over
// complete solutions, seeded from the Solomon constructor and sharpened
// by 2-opt local search on a fraction of the offspring.
//
// A run is deterministic for a given instance, configuration and seed:
// all randomness flows through one rand.Rand drawn in a fixed order on
// a single goroutine. Fitness evaluation may fan out across workers
// because it is pure.
type GeneticAlgorithm struct {
	inst      *domain.Instance
	cfg       GeneticConfig
	insertion InsertionConfig
	eval      *Evaluator
	rng       *rand.Rand

	phase    Phase
	best     *domain.Solution
	history  []domain.GenerationStats
	observer Observer
}

func NewGeneticAlgorithm(inst *domain.Instance, cfg GeneticConfig, insertion InsertionConfig) (*GeneticAlgorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("genetic algorithm: %w", err)
	}
	if err := insertion.Validate(); err != nil {
		return nil, fmt.Errorf("genetic algorithm: %w", err)
	}
	return &GeneticAlgorithm{
		inst:      inst,
		cfg:       cfg,
		insertion: insertion,
		eval:      NewEvaluator(inst, cfg.Penalties),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		phase:     PhaseInitializing,
	}, nil
}

// SetObserver registers a progress callback. It must be called before
// Run; the callback runs on the Run goroutine.
func (g *GeneticAlgorithm) SetObserver(fn Observer) { g.observer = fn }

func (g *GeneticAlgorithm) Phase() Phase { return g.phase }

// Best returns the best solution found so far. It never regresses
// between generations.
func (g *GeneticAlgorithm) Best() *domain.Solution { return g.best }

// History returns the per-generation convergence records.
func (g *GeneticAlgorithm) History() []domain.GenerationStats { return g.history }

// Run executes the full evolution and returns the best solution found.
// Cancelling the context stops the run at the next generation boundary
// with the best solution so far and ctx.Err().
func (g *GeneticAlgorithm) Run(ctx context.Context) (*domain.Solution, error) {
	started := time.Now()

	pop, err := g.initialize()
	if err != nil {
		return nil, err
	}
	g.eval.EvaluateAll(pop, g.cfg.EvalWorkers)
	g.trackBest(pop)
	g.record(0, pop, started)
	g.phase = PhaseEvolving

	for gen := 1; gen <= g.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			g.phase = PhaseTerminated
			return g.best.Clone(), err
		}

		pop = g.nextGeneration(pop)
		g.eval.EvaluateAll(pop, g.cfg.EvalWorkers)
		g.trackBest(pop)
		g.record(gen, pop, started)

		if g.observer != nil && (gen%g.cfg.ReportInterval == 0 || gen == g.cfg.Generations) {
			g.observer(g.history[len(g.history)-1])
		}
	}

	g.phase = PhaseTerminated
	return g.best.Clone(), nil
}

// initialize builds the starting population: the Solomon solution plus
// perturbed clones of it.
func (g *GeneticAlgorithm) initialize() ([]*domain.Solution, error) {
	constructor, err := NewSolomonInsertion(g.inst, g.insertion, g.eval)
	if err != nil {
		return nil, err
	}
	base := constructor.Construct()

	pop := make([]*domain.Solution, g.cfg.PopSize)
	pop[0] = base
	for i := 1; i < g.cfg.PopSize; i++ {
		clone := base.Clone()
		g.eval.Perturb(clone, g.rng)
		pop[i] = clone
	}
	return pop, nil
}

// nextGeneration applies elitism, tournament selection, crossover,
// mutation and local search to produce a population of the same size.
func (g *GeneticAlgorithm) nextGeneration(pop []*domain.Solution) []*domain.Solution {
	order := make([]int, len(pop))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pop[order[a]].Fitness < pop[order[b]].Fitness
	})

	next := make([]*domain.Solution, 0, g.cfg.PopSize)
	for i := 0; i < g.cfg.EliteSize; i++ {
		next = append(next, pop[order[i]].Clone())
	}

	for len(next) < g.cfg.PopSize {
		p1 := g.tournament(pop)
		p2 := g.tournament(pop)

		var child *domain.Solution
		if g.rng.Float64() < g.cfg.CrossoverRate {
			child = g.eval.Crossover(p1, p2, g.rng)
		} else {
			child = p1.Clone()
		}
		if g.rng.Float64() < g.cfg.MutationRate {
			g.eval.Mutate(child, g.rng)
		}
		if g.rng.Float64() < g.cfg.LocalSearchRate {
			g.eval.Evaluate(child)
			g.eval.TwoOptSolution(child)
		}
		next = append(next, child)
	}
	return next
}

// tournament draws TournamentSize candidates with replacement and
// returns the fittest.
func (g *GeneticAlgorithm) tournament(pop []*domain.Solution) *domain.Solution {
	best := pop[g.rng.Intn(len(pop))]
	for i := 1; i < g.cfg.TournamentSize; i++ {
		c := pop[g.rng.Intn(len(pop))]
		if c.Fitness < best.Fitness {
			best = c
		}
	}
	return best
}

// trackBest updates the best-ever solution. Strict improvement only,
// so the incumbent is stable under ties.
func (g *GeneticAlgorithm) trackBest(pop []*domain.Solution) {
	for _, s := range pop {
		if g.best == nil || s.Fitness < g.best.Fitness {
			clone := s.Clone()
			g.best = clone
		}
	}
}

func (g *GeneticAlgorithm) record(gen int, pop []*domain.Solution, started time.Time) {
	fitness := make([]float64, len(pop))
	for i, s := range pop {
		fitness[i] = s.Fitness
	}
	g.history = append(g.history, domain.GenerationStats{
		Generation:  gen,
		BestFitness: g.best.Fitness,
		MeanFitness: stat.Mean(fitness, nil),
		StdDev:      stat.StdDev(fitness, nil),
		Elapsed:     time.Since(started),
	})
}
