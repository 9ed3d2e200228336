package solver

import "delivery-route-optimizer/internal/domain"

const improvementEps = 1e-9

// TwoOpt runs intra-route 2-opt on a single route, in place.
// It scans edge pairs in order and applies the first segment reversal
// that strictly shortens the route while keeping every time window
// satisfied, then restarts the scan until no improving reversal
// remains. Capacity is untouched because the customer set does not
// change. Returns true if the route was improved.
func (e *Evaluator) TwoOpt(r *domain.Route) bool {
	ids := r.Customers
	if len(ids) < 3 {
		return false
	}

	improved := false
	for {
		applied := false
	scan:
		for i := 0; i < len(ids)-1; i++ {
			for j := i + 1; j < len(ids); j++ {
				// Reversing ids[i..j] replaces edges
				// (prev(i), ids[i]) and (ids[j], next(j)).
				prev, next := 0, 0
				if i > 0 {
					prev = ids[i-1]
				}
				if j < len(ids)-1 {
					next = ids[j+1]
				}
				delta := e.inst.Distance(prev, ids[j]) + e.inst.Distance(ids[i], next) -
					e.inst.Distance(prev, ids[i]) - e.inst.Distance(ids[j], next)
				if delta >= -improvementEps {
					continue
				}
				reverse(ids, i, j)
				if !e.ScheduleFeasible(ids) {
					reverse(ids, i, j)
					continue
				}
				applied = true
				improved = true
				break scan
			}
		}
		if !applied {
			break
		}
	}

	if improved {
		e.EvaluateRoute(r)
	}
	return improved
}

// TwoOptSolution applies TwoOpt to every route of a solution and
// refreshes the aggregate totals when anything changed.
func (e *Evaluator) TwoOptSolution(s *domain.Solution) bool {
	improved := false
	for i := range s.Routes {
		if e.TwoOpt(&s.Routes[i]) {
			improved = true
		}
	}
	if improved {
		e.Evaluate(s)
	}
	return improved
}

func reverse(ids []int, i, j int) {
	for i < j {
		ids[i], ids[j] = ids[j], ids[i]
		i++
		j--
	}
}
