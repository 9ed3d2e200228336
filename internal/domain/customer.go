package domain

// Immutable planar position of a depot or customer.
type Point struct {
	X float64
	Y float64
}

// Represents a single delivery stop in the problem.
// A Customer has a demand to be satisfied by exactly one vehicle visit,
// a service duration, and a time window [Ready, Due] during which service
// must begin. The depot is a Customer with ID 0, zero demand and a window
// covering the whole planning horizon.
type Customer struct {
	ID          int
	Pos         Point
	Demand      float64
	Ready       float64
	Due         float64
	ServiceTime float64
}

// NewDepot builds the depot record: id 0, no demand, no service time,
// and a time window spanning the full planning horizon.
func NewDepot(pos Point, horizon float64) Customer {
	return Customer{
		ID:  0,
		Pos: pos,
		Due: horizon,
	}
}

// IsDepot reports whether this customer is the depot.
func (c Customer) IsDepot() bool { return c.ID == 0 }
