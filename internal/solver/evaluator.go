package solver

import (
	"sync"

	"delivery-route-optimizer/internal/domain"
)

// Evaluator scores routes and solutions against a fixed instance.
// Evaluation is pure: the same route always yields the same numbers,
// so calls are safe from multiple goroutines.
type Evaluator struct {
	inst              *domain.Instance
	capacityPenalty   float64
	timeWindowPenalty float64
}

func NewEvaluator(inst *domain.Instance, penalties PenaltyConfig) *Evaluator {
	return &Evaluator{
		inst:              inst,
		capacityPenalty:   penalties.Capacity,
		timeWindowPenalty: penalties.TimeWindow,
	}
}

// EvaluateRoute recomputes a route's load, distance, duration and
// violation counts by propagating arrival times from the depot.
// The vehicle leaves the depot at time zero, waits out early arrivals,
// and a stop counts as a time window violation when the vehicle arrives
// after the window closes. A stop counts as a capacity violation when
// the load accumulated up to and including it exceeds the vehicle
// capacity.
func (e *Evaluator) EvaluateRoute(r *domain.Route) {
	r.Load = 0
	r.Distance = 0
	r.Duration = 0
	r.CapacityViolations = 0
	r.TimeWindowViolations = 0
	if len(r.Customers) == 0 {
		return
	}

	depot := e.inst.Depot()
	capacity := e.inst.Capacity
	prev := depot
	clock := 0.0
	for _, id := range r.Customers {
		cust := e.inst.Customer(id)

		r.Load += cust.Demand
		if r.Load > capacity {
			r.CapacityViolations++
		}

		leg := e.inst.Distance(prev.ID, cust.ID)
		r.Distance += leg
		arrival := clock + leg
		if arrival > cust.Due {
			r.TimeWindowViolations++
		}
		start := arrival
		if start < cust.Ready {
			start = cust.Ready
		}
		clock = start + cust.ServiceTime
		prev = cust
	}

	back := e.inst.Distance(prev.ID, depot.ID)
	r.Distance += back
	r.Duration = clock + back
	if r.Duration > depot.Due {
		r.TimeWindowViolations++
	}
}

// Evaluate scores every route of a solution and aggregates the totals.
// TotalDuration is the sum of per-vehicle durations, not the makespan.
// Fitness is total distance plus the configured penalty per violation.
func (e *Evaluator) Evaluate(s *domain.Solution) {
	s.TotalDistance = 0
	s.TotalDuration = 0
	capViol := 0
	twViol := 0
	for i := range s.Routes {
		e.EvaluateRoute(&s.Routes[i])
		s.TotalDistance += s.Routes[i].Distance
		s.TotalDuration += s.Routes[i].Duration
		capViol += s.Routes[i].CapacityViolations
		twViol += s.Routes[i].TimeWindowViolations
	}
	s.Fitness = s.TotalDistance +
		e.capacityPenalty*float64(capViol) +
		e.timeWindowPenalty*float64(twViol)
	s.Feasible = capViol == 0 && twViol == 0
}

// EvaluateAll scores a batch of solutions, fanning out across at most
// workers goroutines. With workers=1 it degenerates to a sequential
// loop.
func (e *Evaluator) EvaluateAll(sols []*domain.Solution, workers int) {
	if workers <= 1 || len(sols) <= 1 {
		for _, s := range sols {
			e.Evaluate(s)
		}
		return
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, s := range sols {
		wg.Add(1)
		sem <- struct{}{}
		go func(s *domain.Solution) {
			defer wg.Done()
			defer func() { <-sem }()
			e.Evaluate(s)
		}(s)
	}
	wg.Wait()
}

// ScheduleFeasible reports whether visiting the given customers in
// order respects every time window, including the return to the depot.
func (e *Evaluator) ScheduleFeasible(customers []int) bool {
	depot := e.inst.Depot()
	prevID := depot.ID
	clock := 0.0
	for _, id := range customers {
		cust := e.inst.Customer(id)
		arrival := clock + e.inst.Distance(prevID, id)
		if arrival > cust.Due {
			return false
		}
		if arrival < cust.Ready {
			arrival = cust.Ready
		}
		clock = arrival + cust.ServiceTime
		prevID = id
	}
	return clock+e.inst.Distance(prevID, depot.ID) <= depot.Due
}

// RouteLoad sums the demand of the given customers.
func (e *Evaluator) RouteLoad(customers []int) float64 {
	total := 0.0
	for _, id := range customers {
		total += e.inst.Customer(id).Demand
	}
	return total
}

// RouteFeasible checks both capacity and time windows for an ordering.
func (e *Evaluator) RouteFeasible(customers []int) bool {
	return e.RouteLoad(customers) <= e.inst.Capacity && e.ScheduleFeasible(customers)
}
