package domain

import (
	"fmt"
)

// Solution is a complete assignment of customers to vehicle routes,
// together with evaluated aggregate metrics.
//
// The structural invariant every operator must preserve: the union of all
// route customer sequences is exactly the instance's customer set, each
// customer appearing once. Feasibility may be violated (and is then priced
// into Fitness); the partition never is.
type Solution struct {
	Routes []Route

	Fitness       float64
	TotalDistance float64
	TotalDuration float64
	Feasible      bool
}

// Vehicles returns the number of non-empty routes.
func (s *Solution) Vehicles() int {
	n := 0
	for _, r := range s.Routes {
		if len(r.Customers) > 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the solution.
func (s *Solution) Clone() *Solution {
	out := &Solution{
		Routes:        make([]Route, len(s.Routes)),
		Fitness:       s.Fitness,
		TotalDistance: s.TotalDistance,
		TotalDuration: s.TotalDuration,
		Feasible:      s.Feasible,
	}
	for i, r := range s.Routes {
		out.Routes[i] = r.Clone()
	}
	return out
}

// CustomerCount returns the number of customers over all routes,
// counting duplicates if any.
func (s *Solution) CustomerCount() int {
	n := 0
	for _, r := range s.Routes {
		n += len(r.Customers)
	}
	return n
}

// CheckPartition verifies the structural invariant against an instance:
// every customer id in [1, N] appears exactly once across all routes.
func (s *Solution) CheckPartition(in *Instance) error {
	n := in.NumCustomers()
	seen := make([]bool, n+1)
	for _, r := range s.Routes {
		for _, id := range r.Customers {
			if id < 1 || id > n {
				return fmt.Errorf("%w: route %d contains unknown customer id %d", ErrInvalidInstance, r.Vehicle, id)
			}
			if seen[id] {
				return fmt.Errorf("%w: customer %d appears in more than one position", ErrInvalidInstance, id)
			}
			seen[id] = true
		}
	}
	for id := 1; id <= n; id++ {
		if !seen[id] {
			return fmt.Errorf("%w: customer %d is not routed", ErrInvalidInstance, id)
		}
	}
	return nil
}

// DropEmptyRoutes removes routes with no customers and renumbers vehicles.
func (s *Solution) DropEmptyRoutes() {
	out := s.Routes[:0]
	for _, r := range s.Routes {
		if len(r.Customers) == 0 {
			continue
		}
		r.Vehicle = len(out)
		out = append(out, r)
	}
	s.Routes = out
}
