package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInstance marks structural problems in the problem data.
// Wrapped errors name the offending field and value.
var ErrInvalidInstance = errors.New("invalid instance")

// DistanceFunc computes travel distance between two points.
// It must be symmetric and zero for identical points.
type DistanceFunc func(from, to Point) float64

// Instance is the read-only description of one VRPTW problem:
// the depot, the customers, the shared vehicle capacity, and the
// precomputed pairwise distance matrix.
//
// Customer ids are dense: the depot is 0 and customer i lives at index i.
// The matrix is indexed by customer id.
type Instance struct {
	Name     string
	Capacity float64

	customers   []Customer
	matrix      [][]float64
	totalDemand float64
}

// NewInstance validates the problem data, computes the distance matrix with
// the given metric, and returns an immutable Instance.
//
// customers must not include the depot; their ids must be exactly 1..N.
func NewInstance(name string, depot Customer, customers []Customer, capacity float64, dist DistanceFunc) (*Instance, error) {
	if len(customers) == 0 {
		return nil, fmt.Errorf("%w: customers must not be empty", ErrInvalidInstance)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: vehicle capacity must be positive (got %v)", ErrInvalidInstance, capacity)
	}
	if dist == nil {
		return nil, fmt.Errorf("%w: distance function is nil", ErrInvalidInstance)
	}
	if depot.ID != 0 {
		return nil, fmt.Errorf("%w: depot id must be 0 (got %d)", ErrInvalidInstance, depot.ID)
	}
	if depot.Demand != 0 {
		return nil, fmt.Errorf("%w: depot demand must be 0 (got %v)", ErrInvalidInstance, depot.Demand)
	}

	all := make([]Customer, len(customers)+1)
	seen := make([]bool, len(customers)+1)
	all[0] = depot
	seen[0] = true

	total := 0.0
	for _, c := range customers {
		if c.ID < 1 || c.ID > len(customers) {
			return nil, fmt.Errorf("%w: customer id %d out of range [1, %d]", ErrInvalidInstance, c.ID, len(customers))
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: duplicate customer id %d", ErrInvalidInstance, c.ID)
		}
		if err := validateCustomer(c); err != nil {
			return nil, err
		}
		all[c.ID] = c
		seen[c.ID] = true
		total += c.Demand
	}

	n := len(all)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dist(all[i].Pos, all[j].Pos)
			if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				return nil, fmt.Errorf("%w: distance(%d,%d) is not a finite non-negative number (got %v)", ErrInvalidInstance, i, j, d)
			}
			matrix[i][j] = d
			matrix[j][i] = d
		}
	}

	return &Instance{
		Name:        name,
		Capacity:    capacity,
		customers:   all,
		matrix:      matrix,
		totalDemand: total,
	}, nil
}

func validateCustomer(c Customer) error {
	if c.Demand < 0 {
		return fmt.Errorf("%w: customer %d demand must be non-negative (got %v)", ErrInvalidInstance, c.ID, c.Demand)
	}
	if c.ServiceTime < 0 {
		return fmt.Errorf("%w: customer %d service time must be non-negative (got %v)", ErrInvalidInstance, c.ID, c.ServiceTime)
	}
	if c.Due < c.Ready {
		return fmt.Errorf("%w: customer %d time window due=%v earlier than ready=%v", ErrInvalidInstance, c.ID, c.Due, c.Ready)
	}
	return nil
}

// NumCustomers returns the number of customers excluding the depot.
func (in *Instance) NumCustomers() int { return len(in.customers) - 1 }

// Depot returns the depot record.
func (in *Instance) Depot() Customer { return in.customers[0] }

// Customer returns the customer with the given id (0 = depot).
func (in *Instance) Customer(id int) Customer { return in.customers[id] }

// Customers returns all non-depot customers in id order.
// The returned slice is a copy.
func (in *Instance) Customers() []Customer {
	out := make([]Customer, len(in.customers)-1)
	copy(out, in.customers[1:])
	return out
}

// Distance returns the precomputed travel distance between two ids.
func (in *Instance) Distance(i, j int) float64 { return in.matrix[i][j] }

// TotalDemand returns the sum of all customer demands.
func (in *Instance) TotalDemand() float64 { return in.totalDemand }

// MinVehicles returns the capacity lower bound on the fleet size,
// ceil(total demand / capacity).
func (in *Instance) MinVehicles() int {
	return int(math.Ceil(in.totalDemand / in.Capacity))
}
