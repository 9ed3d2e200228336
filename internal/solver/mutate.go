package solver

import (
	"math/rand"

	"delivery-route-optimizer/internal/domain"
)

// Mutation operators. Every operator preserves the customer partition:
// customers only move between positions and routes, never appear twice
// or disappear. Feasibility is allowed to degrade; the penalties in the
// fitness take care of steering the search back.

// mutateSwap exchanges two customers picked uniformly over all stops.
func (e *Evaluator) mutateSwap(s *domain.Solution, rng *rand.Rand) {
	stops := s.CustomerCount()
	if stops < 2 {
		return
	}
	a := rng.Intn(stops)
	b := rng.Intn(stops - 1)
	if b >= a {
		b++
	}
	ra, pa := locateStop(s, a)
	rb, pb := locateStop(s, b)
	s.Routes[ra].Customers[pa], s.Routes[rb].Customers[pb] =
		s.Routes[rb].Customers[pb], s.Routes[ra].Customers[pa]
}

// mutateRelocate removes one customer and reinserts it at the cheapest
// position of a randomly chosen route.
func (e *Evaluator) mutateRelocate(s *domain.Solution, rng *rand.Rand) {
	stops := s.CustomerCount()
	if stops < 2 {
		return
	}
	ri, pi := locateStop(s, rng.Intn(stops))
	id := s.Routes[ri].Customers[pi]
	s.Routes[ri].Customers = append(s.Routes[ri].Customers[:pi], s.Routes[ri].Customers[pi+1:]...)

	target := rng.Intn(len(s.Routes))
	route := s.Routes[target].Customers
	bestPos := 0
	bestDelta := 0.0
	for pos := 0; pos <= len(route); pos++ {
		prev, next := 0, 0
		if pos > 0 {
			prev = route[pos-1]
		}
		if pos < len(route) {
			next = route[pos]
		}
		delta := e.inst.Distance(prev, id) + e.inst.Distance(id, next) - e.inst.Distance(prev, next)
		if pos == 0 || delta < bestDelta {
			bestPos = pos
			bestDelta = delta
		}
	}
	route = append(route, 0)
	copy(route[bestPos+1:], route[bestPos:])
	route[bestPos] = id
	s.Routes[target].Customers = route
	s.DropEmptyRoutes()
}

// mutateSplitMerge either splits one route in two at a random point or
// concatenates two routes into one.
func (e *Evaluator) mutateSplitMerge(s *domain.Solution, rng *rand.Rand) {
	if rng.Intn(2) == 0 {
		// Split. Needs a route with at least two stops.
		candidates := make([]int, 0, len(s.Routes))
		for i := range s.Routes {
			if len(s.Routes[i].Customers) >= 2 {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			return
		}
		ri := candidates[rng.Intn(len(candidates))]
		ids := s.Routes[ri].Customers
		cut := 1 + rng.Intn(len(ids)-1)
		tail := make([]int, len(ids)-cut)
		copy(tail, ids[cut:])
		s.Routes[ri].Customers = ids[:cut]
		s.Routes = append(s.Routes, domain.Route{Vehicle: len(s.Routes), Customers: tail})
		return
	}
	// Merge. Needs two routes.
	if len(s.Routes) < 2 {
		return
	}
	a := rng.Intn(len(s.Routes))
	b := rng.Intn(len(s.Routes) - 1)
	if b >= a {
		b++
	}
	s.Routes[a].Customers = append(s.Routes[a].Customers, s.Routes[b].Customers...)
	s.Routes[b].Customers = nil
	s.DropEmptyRoutes()
}

// Mutate applies one randomly chosen operator. Relocate is drawn most
// often, then swap, then split/merge.
func (e *Evaluator) Mutate(s *domain.Solution, rng *rand.Rand) {
	switch p := rng.Float64(); {
	case p < 0.5:
		e.mutateRelocate(s, rng)
	case p < 0.8:
		e.mutateSwap(s, rng)
	default:
		e.mutateSplitMerge(s, rng)
	}
}

// Perturb applies between 2 and 4 random mutations. The genetic
// algorithm uses it to diversify the initial population around the
// constructive solution.
func (e *Evaluator) Perturb(s *domain.Solution, rng *rand.Rand) {
	for n := 2 + rng.Intn(3); n > 0; n-- {
		e.Mutate(s, rng)
	}
}

// locateStop maps a flat stop index to a (route, position) pair.
func locateStop(s *domain.Solution, idx int) (route, pos int) {
	for ri := range s.Routes {
		if idx < len(s.Routes[ri].Customers) {
			return ri, idx
		}
		idx -= len(s.Routes[ri].Customers)
	}
	// Unreachable for idx < CustomerCount().
	return len(s.Routes) - 1, len(s.Routes[len(s.Routes)-1].Customers) - 1
}
