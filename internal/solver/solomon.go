package solver

import (
	"fmt"
	"math"

	"delivery-route-optimizer/internal/domain"
)

// SolomonInsertion builds an initial solution with the I1 sequential
// insertion heuristic. Routes are grown one customer at a time: each
// step inserts the unrouted customer with the cheapest weighted cost
// over every feasible position in every open route, and a new route is
// opened only when nothing can be inserted feasibly.
//
// All scans run in ascending customer id order, so the result is fully
// deterministic for a given instance and configuration.
type SolomonInsertion struct {
	inst *domain.Instance
	cfg  InsertionConfig
	eval *Evaluator
}

func NewSolomonInsertion(inst *domain.Instance, cfg InsertionConfig, eval *Evaluator) (*SolomonInsertion, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solomon insertion: %w", err)
	}
	return &SolomonInsertion{inst: inst, cfg: cfg, eval: eval}, nil
}

type insertion struct {
	route int
	pos   int
	cost  float64
}

// Construct runs the heuristic over the whole instance. The result
// always covers every customer exactly once; when a customer fits
// nowhere it still gets its own route and the violation penalties
// surface in the fitness.
func (s *SolomonInsertion) Construct() *domain.Solution {
	n := s.inst.NumCustomers()
	routed := make([]bool, n+1)
	remaining := n

	var routes [][]int
	for remaining > 0 {
		bestID := 0
		best := insertion{cost: math.Inf(1)}
		for id := 1; id <= n; id++ {
			if routed[id] {
				continue
			}
			if ins, ok := s.bestInsertion(routes, id); ok && ins.cost < best.cost {
				best = ins
				bestID = id
			}
		}
		if bestID != 0 {
			r := routes[best.route]
			r = append(r, 0)
			copy(r[best.pos+1:], r[best.pos:])
			r[best.pos] = bestID
			routes[best.route] = r
			routed[bestID] = true
			remaining--
			continue
		}

		// Nothing fits anywhere. Open a new route with the seed
		// customer; a customer that is infeasible even alone still
		// gets routed and priced by the penalties.
		seed := s.pickSeed(routed)
		routes = append(routes, []int{seed})
		routed[seed] = true
		remaining--
	}

	sol := &domain.Solution{Routes: make([]domain.Route, len(routes))}
	for i, ids := range routes {
		sol.Routes[i] = domain.Route{Vehicle: i, Customers: ids}
	}
	s.eval.Evaluate(sol)
	return sol
}

// bestInsertion scans every position of every route for customer u and
// returns the cheapest feasible one under the weighted I1 cost.
func (s *SolomonInsertion) bestInsertion(routes [][]int, u int) (insertion, bool) {
	best := insertion{cost: math.Inf(1)}
	found := false
	demand := s.inst.Customer(u).Demand
	for ri, route := range routes {
		if s.eval.RouteLoad(route)+demand > s.inst.Capacity {
			continue
		}
		for pos := 0; pos <= len(route); pos++ {
			candidate := make([]int, 0, len(route)+1)
			candidate = append(candidate, route[:pos]...)
			candidate = append(candidate, u)
			candidate = append(candidate, route[pos:]...)
			if !s.eval.ScheduleFeasible(candidate) {
				continue
			}
			cost := s.insertionCost(route, candidate, u, pos)
			if cost < best.cost {
				best = insertion{route: ri, pos: pos, cost: cost}
				found = true
			}
		}
	}
	return best, found
}

// insertionCost is the I1 weighted cost alpha*c1 + lambda*c2.
// c1 is the detour d(i,u)+d(u,j)-mu*d(i,j) with i and j the neighbors
// of u after insertion (the depot at the ends). c2 is the arrival time
// push b_j - b_u measured on the post-insertion schedule.
func (s *SolomonInsertion) insertionCost(route, candidate []int, u, pos int) float64 {
	i, j := 0, 0
	if pos > 0 {
		i = route[pos-1]
	}
	if pos < len(route) {
		j = route[pos]
	}
	c1 := s.inst.Distance(i, u) + s.inst.Distance(u, j) - s.cfg.Mu*s.inst.Distance(i, j)

	arrivals := s.arrivals(candidate)
	bu := arrivals[pos]
	var bj float64
	if pos+1 < len(arrivals) {
		bj = arrivals[pos+1]
	} else {
		// u became the last stop; the successor is the return leg.
		cust := s.inst.Customer(u)
		start := bu
		if start < cust.Ready {
			start = cust.Ready
		}
		bj = start + cust.ServiceTime + s.inst.Distance(u, 0)
	}
	c2 := bj - bu

	return s.cfg.Alpha*c1 + s.cfg.Lambda*c2
}

// arrivals propagates the schedule and returns the arrival time at
// each stop of the route.
func (s *SolomonInsertion) arrivals(route []int) []float64 {
	out := make([]float64, len(route))
	prev := 0
	clock := 0.0
	for i, id := range route {
		cust := s.inst.Customer(id)
		arrival := clock + s.inst.Distance(prev, id)
		out[i] = arrival
		if arrival < cust.Ready {
			arrival = cust.Ready
		}
		clock = arrival + cust.ServiceTime
		prev = id
	}
	return out
}

// pickSeed chooses the first customer of a new route among the
// unrouted ones. Ties resolve to the lowest id.
func (s *SolomonInsertion) pickSeed(routed []bool) int {
	seed := 0
	switch s.cfg.SeedRule {
	case SeedEarliestDue:
		best := math.Inf(1)
		for id := 1; id < len(routed); id++ {
			if !routed[id] && s.inst.Customer(id).Due < best {
				best = s.inst.Customer(id).Due
				seed = id
			}
		}
	default: // SeedFarthest
		best := math.Inf(-1)
		for id := 1; id < len(routed); id++ {
			if !routed[id] && s.inst.Distance(0, id) > best {
				best = s.inst.Distance(0, id)
				seed = id
			}
		}
	}
	return seed
}
