package solver

import (
	"math"
	"math/rand"

	"delivery-route-optimizer/internal/domain"
)

// Crossover produces a child by copying a random subset of routes from
// parent a and repairing the partition with the customers it misses,
// taken in the order parent b visits them. Each missing customer goes
// to its cheapest feasible position; a customer with no feasible spot
// anywhere opens a route of its own.
func (e *Evaluator) Crossover(a, b *domain.Solution, rng *rand.Rand) *domain.Solution {
	child := &domain.Solution{}

	keep := len(a.Routes) / 3
	if keep < 1 {
		keep = 1
	}
	inChild := make(map[int]bool)
	for _, ri := range rng.Perm(len(a.Routes))[:keep] {
		r := a.Routes[ri].Clone()
		r.Vehicle = len(child.Routes)
		child.Routes = append(child.Routes, r)
		for _, id := range r.Customers {
			inChild[id] = true
		}
	}

	for _, r := range b.Routes {
		for _, id := range r.Customers {
			if inChild[id] {
				continue
			}
			e.insertCheapest(child, id)
			inChild[id] = true
		}
	}

	child.DropEmptyRoutes()
	return child
}

// insertCheapest places id at the feasible position with the smallest
// added distance, falling back to a new single-customer route.
func (e *Evaluator) insertCheapest(s *domain.Solution, id int) {
	demand := e.inst.Customer(id).Demand
	bestRoute, bestPos := -1, 0
	bestDelta := math.Inf(1)
	for ri := range s.Routes {
		route := s.Routes[ri].Customers
		if s.Routes[ri].Load+demand > e.inst.Capacity {
			continue
		}
		for pos := 0; pos <= len(route); pos++ {
			prev, next := 0, 0
			if pos > 0 {
				prev = route[pos-1]
			}
			if pos < len(route) {
				next = route[pos]
			}
			delta := e.inst.Distance(prev, id) + e.inst.Distance(id, next) - e.inst.Distance(prev, next)
			if delta >= bestDelta {
				continue
			}
			candidate := make([]int, 0, len(route)+1)
			candidate = append(candidate, route[:pos]...)
			candidate = append(candidate, id)
			candidate = append(candidate, route[pos:]...)
			if !e.ScheduleFeasible(candidate) {
				continue
			}
			bestRoute, bestPos, bestDelta = ri, pos, delta
		}
	}

	if bestRoute < 0 {
		s.Routes = append(s.Routes, domain.Route{Vehicle: len(s.Routes), Customers: []int{id}})
		e.EvaluateRoute(&s.Routes[len(s.Routes)-1])
		return
	}

	route := s.Routes[bestRoute].Customers
	route = append(route, 0)
	copy(route[bestPos+1:], route[bestPos:])
	route[bestPos] = id
	s.Routes[bestRoute].Customers = route
	e.EvaluateRoute(&s.Routes[bestRoute])
}
