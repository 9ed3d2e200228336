package loaders

import (
	"errors"
	"strings"
	"testing"
)

const foodDeliveryFixture = `id,week,center_id,meal_id,checkout_price,base_price,emailer_for_promotion,homepage_featured,num_orders
1,1,10,1885,136.83,152.29,0,0,177
2,1,10,1885,135.83,152.29,0,0,23
3,1,10,1993,134.86,135.86,0,0,270
4,1,10,2539,157.14,159.14,0,0,189
5,1,55,1885,243.50,242.50,0,0,400
6,2,10,1885,140.00,152.29,0,0,50
`

func TestParseFoodDeliveryPicksBusiestCenterAndWeek(t *testing.T) {
	opts := DefaultFoodDeliveryOptions()
	inst, err := ParseFoodDelivery(strings.NewReader(foodDeliveryFixture), opts)
	if err != nil {
		t.Fatalf("ParseFoodDelivery: %v", err)
	}

	// Center 10 has 709 orders against center 55's 400; its busiest
	// week is week 1. Three meal groups remain.
	if inst.Name != "FoodDelivery_Center10_3customers" {
		t.Errorf("name = %q", inst.Name)
	}
	if inst.NumCustomers() != 3 {
		t.Fatalf("customers = %d, want 3", inst.NumCustomers())
	}

	// Demand is orders/100; meal 1885 aggregates rows 1 and 2.
	total := 0.0
	for _, c := range inst.Customers() {
		total += c.Demand
	}
	if total < 6.58 || total > 6.60 {
		t.Errorf("total demand = %v, want 6.59", total)
	}

	// Default capacity is a fifth of the total demand.
	if inst.Capacity < total/5-1e-9 || inst.Capacity > total/5+1e-9 {
		t.Errorf("capacity = %v, want %v", inst.Capacity, total/5)
	}

	depot := inst.Depot()
	if depot.Pos.X != 50 || depot.Pos.Y != 50 || depot.Due != operatingHorizon {
		t.Errorf("depot = %+v, want grid center with %v horizon", depot, operatingHorizon)
	}
}

func TestParseFoodDeliveryOrdersCustomersByVolume(t *testing.T) {
	opts := DefaultFoodDeliveryOptions()
	opts.MaxCustomers = 2
	inst, err := ParseFoodDelivery(strings.NewReader(foodDeliveryFixture), opts)
	if err != nil {
		t.Fatalf("ParseFoodDelivery: %v", err)
	}

	// Meals 1993 (270) and 1885 (200) beat 2539 (189).
	if inst.NumCustomers() != 2 {
		t.Fatalf("customers = %d, want 2", inst.NumCustomers())
	}
	if got := inst.Customer(1).Demand; got != 2.70 {
		t.Errorf("customer 1 demand = %v, want 2.70", got)
	}
	if got := inst.Customer(2).Demand; got != 2.00 {
		t.Errorf("customer 2 demand = %v, want 2.00", got)
	}
}

func TestParseFoodDeliveryHonorsFilters(t *testing.T) {
	opts := DefaultFoodDeliveryOptions()
	opts.CenterID = 55
	opts.Capacity = 10
	inst, err := ParseFoodDelivery(strings.NewReader(foodDeliveryFixture), opts)
	if err != nil {
		t.Fatalf("ParseFoodDelivery: %v", err)
	}
	if inst.NumCustomers() != 1 {
		t.Fatalf("customers = %d, want 1", inst.NumCustomers())
	}
	if inst.Capacity != 10 {
		t.Errorf("capacity = %v, want the 10 override", inst.Capacity)
	}
}

func TestParseFoodDeliveryRejectsMissingColumns(t *testing.T) {
	csv := "id,week,center_id\n1,1,10\n"
	if _, err := ParseFoodDelivery(strings.NewReader(csv), DefaultFoodDeliveryOptions()); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestParseFoodDeliveryRejectsEmptyData(t *testing.T) {
	csv := "id,week,center_id,meal_id,checkout_price,base_price,num_orders\n"
	if _, err := ParseFoodDelivery(strings.NewReader(csv), DefaultFoodDeliveryOptions()); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}
