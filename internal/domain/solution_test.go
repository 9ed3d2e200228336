package domain

import (
	"errors"
	"testing"
)

func partitionInstance(t *testing.T) *Instance {
	t.Helper()
	depot := NewDepot(Point{}, 1000)
	inst, err := NewInstance("X", depot, []Customer{
		{ID: 1, Pos: Point{X: 1}, Due: 100},
		{ID: 2, Pos: Point{X: 2}, Due: 100},
		{ID: 3, Pos: Point{X: 3}, Due: 100},
	}, 50, euclid)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return inst
}

func TestCheckPartition(t *testing.T) {
	inst := partitionInstance(t)

	ok := &Solution{Routes: []Route{
		{Vehicle: 0, Customers: []int{2}},
		{Vehicle: 1, Customers: []int{3, 1}},
	}}
	if err := ok.CheckPartition(inst); err != nil {
		t.Errorf("valid partition rejected: %v", err)
	}

	missing := &Solution{Routes: []Route{{Customers: []int{1, 2}}}}
	if err := missing.CheckPartition(inst); !errors.Is(err, ErrInvalidInstance) {
		t.Errorf("missing customer not detected: %v", err)
	}

	duplicate := &Solution{Routes: []Route{
		{Customers: []int{1, 2}},
		{Customers: []int{2, 3}},
	}}
	if err := duplicate.CheckPartition(inst); !errors.Is(err, ErrInvalidInstance) {
		t.Errorf("duplicate customer not detected: %v", err)
	}

	unknown := &Solution{Routes: []Route{{Customers: []int{1, 2, 3, 9}}}}
	if err := unknown.CheckPartition(inst); !errors.Is(err, ErrInvalidInstance) {
		t.Errorf("unknown id not detected: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := &Solution{
		Routes:  []Route{{Vehicle: 0, Customers: []int{1, 2}}},
		Fitness: 10,
	}
	c := s.Clone()
	c.Routes[0].Customers[0] = 99
	c.Fitness = 42

	if s.Routes[0].Customers[0] != 1 {
		t.Error("clone shares route storage with the original")
	}
	if s.Fitness != 10 {
		t.Error("clone shares metrics with the original")
	}
}

func TestDropEmptyRoutesRenumbers(t *testing.T) {
	s := &Solution{Routes: []Route{
		{Vehicle: 0, Customers: []int{1}},
		{Vehicle: 1, Customers: nil},
		{Vehicle: 2, Customers: []int{2, 3}},
	}}
	s.DropEmptyRoutes()

	if len(s.Routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(s.Routes))
	}
	if s.Routes[0].Vehicle != 0 || s.Routes[1].Vehicle != 1 {
		t.Errorf("vehicles not renumbered: %d, %d", s.Routes[0].Vehicle, s.Routes[1].Vehicle)
	}
	if s.Routes[1].Customers[0] != 2 {
		t.Errorf("route order changed: %v", s.Routes[1].Customers)
	}
}

func TestVehiclesCountsNonEmptyRoutes(t *testing.T) {
	s := &Solution{Routes: []Route{
		{Customers: []int{1}},
		{Customers: nil},
		{Customers: []int{2}},
	}}
	if got := s.Vehicles(); got != 2 {
		t.Errorf("Vehicles = %d, want 2", got)
	}
	if got := s.CustomerCount(); got != 2 {
		t.Errorf("CustomerCount = %d, want 2", got)
	}
}
