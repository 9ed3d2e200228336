package domain

// Route is one vehicle's delivery sequence. Customers holds non-depot
// customer ids in visiting order; the vehicle implicitly starts and ends
// at the depot. The remaining fields are derived metrics filled in by the
// evaluator and are not trusted as input.
type Route struct {
	Vehicle   int
	Customers []int

	Load     float64
	Distance float64
	Duration float64

	CapacityViolations   int
	TimeWindowViolations int
}

// Feasible reports whether this route violates no capacity or time-window
// constraint, according to the last evaluation.
func (r Route) Feasible() bool {
	return r.CapacityViolations == 0 && r.TimeWindowViolations == 0
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	out := r
	out.Customers = make([]int, len(r.Customers))
	copy(out.Customers, r.Customers)
	return out
}
