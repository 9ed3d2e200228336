package loaders

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"delivery-route-optimizer/internal/adapters/distance"
	"delivery-route-optimizer/internal/domain"
)

// FoodDeliveryOptions controls how the meal-order history is condensed
// into a routing instance.
type FoodDeliveryOptions struct {
	// MaxCustomers caps the instance size; the highest-volume
	// center/meal combinations win.
	MaxCustomers int
	// CenterID filters to one distribution center. Zero picks the
	// center with the most orders.
	CenterID int
	// Week filters to one week. Zero picks the busiest week of the
	// chosen center.
	Week int
	// Capacity overrides the vehicle capacity. Zero derives it as a
	// fifth of the total demand.
	Capacity float64
}

func DefaultFoodDeliveryOptions() FoodDeliveryOptions {
	return FoodDeliveryOptions{MaxCustomers: 50}
}

// operatingHorizon is the depot's working day in minutes.
const operatingHorizon = 480.0

type mealGroup struct {
	centerID, mealID     int
	orders               float64
	checkoutSum, baseSum float64
	weekSum              float64
	rows                 int
}

// LoadFoodDeliveryFile reads the meal-order CSV from disk and builds a
// synthetic routing instance out of it.
func LoadFoodDeliveryFile(path string, opts FoodDeliveryOptions) (*domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load food delivery data: %w", err)
	}
	defer f.Close()

	inst, err := ParseFoodDelivery(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load food delivery data %s: %w", path, err)
	}
	return inst, nil
}

// ParseFoodDelivery condenses a meal-order history into a VRPTW
// instance. Orders are grouped per center and meal; each group becomes
// one customer with demand proportional to its order volume, synthetic
// planar coordinates derived from the ids and price ratio, and a time
// window spread over the working day by order week.
//
// The CSV must carry week, center_id, meal_id, checkout_price,
// base_price and num_orders columns; extra columns are ignored.
func ParseFoodDelivery(r io.Reader, opts FoodDeliveryOptions) (*domain.Instance, error) {
	if opts.MaxCustomers <= 0 {
		opts.MaxCustomers = 50
	}

	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrBadFormat, err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"week", "center_id", "meal_id", "checkout_price", "base_price", "num_orders"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadFormat, name)
		}
	}

	type rowKey struct{ center, meal int }
	groups := map[rowKey]*mealGroup{}
	centerOrders := map[int]float64{}
	weekOrders := map[[2]int]float64{}

	type row struct {
		week, center, meal    int
		checkout, base, count float64
	}
	var rows []row
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		var rw row
		if rw.week, err = strconv.Atoi(rec[col["week"]]); err != nil {
			return nil, fmt.Errorf("%w: week %q", ErrBadFormat, rec[col["week"]])
		}
		if rw.center, err = strconv.Atoi(rec[col["center_id"]]); err != nil {
			return nil, fmt.Errorf("%w: center_id %q", ErrBadFormat, rec[col["center_id"]])
		}
		if rw.meal, err = strconv.Atoi(rec[col["meal_id"]]); err != nil {
			return nil, fmt.Errorf("%w: meal_id %q", ErrBadFormat, rec[col["meal_id"]])
		}
		if rw.checkout, err = strconv.ParseFloat(rec[col["checkout_price"]], 64); err != nil {
			return nil, fmt.Errorf("%w: checkout_price %q", ErrBadFormat, rec[col["checkout_price"]])
		}
		if rw.base, err = strconv.ParseFloat(rec[col["base_price"]], 64); err != nil {
			return nil, fmt.Errorf("%w: base_price %q", ErrBadFormat, rec[col["base_price"]])
		}
		if rw.count, err = strconv.ParseFloat(rec[col["num_orders"]], 64); err != nil {
			return nil, fmt.Errorf("%w: num_orders %q", ErrBadFormat, rec[col["num_orders"]])
		}
		rows = append(rows, rw)
		centerOrders[rw.center] += rw.count
		weekOrders[[2]int{rw.center, rw.week}] += rw.count
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrBadFormat)
	}

	center := opts.CenterID
	if center == 0 {
		center = busiestCenter(centerOrders)
	}
	week := opts.Week
	if week == 0 {
		week = busiestWeek(weekOrders, center)
	}

	for _, rw := range rows {
		if rw.center != center || rw.week != week {
			continue
		}
		k := rowKey{rw.center, rw.meal}
		g := groups[k]
		if g == nil {
			g = &mealGroup{centerID: rw.center, mealID: rw.meal}
			groups[k] = g
		}
		g.orders += rw.count
		g.checkoutSum += rw.checkout
		g.baseSum += rw.base
		g.weekSum += float64(rw.week)
		g.rows++
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no orders for center %d week %d", ErrBadFormat, center, week)
	}

	selected := make([]*mealGroup, 0, len(groups))
	for _, g := range groups {
		selected = append(selected, g)
	}
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].orders != selected[j].orders {
			return selected[i].orders > selected[j].orders
		}
		return selected[i].mealID < selected[j].mealID
	})
	if len(selected) > opts.MaxCustomers {
		selected = selected[:opts.MaxCustomers]
	}

	depot := domain.Customer{ID: 0, Pos: domain.Point{X: 50, Y: 50}, Due: operatingHorizon}
	customers := make([]domain.Customer, 0, len(selected))
	totalDemand := 0.0
	for i, g := range selected {
		customers = append(customers, synthesizeCustomer(i+1, g))
		totalDemand += customers[i].Demand
	}

	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = totalDemand / 5
	}

	name := fmt.Sprintf("FoodDelivery_Center%d_%dcustomers", center, len(customers))
	provider := distance.NewEuclideanProvider()
	return domain.NewInstance(name, depot, customers, capacity, provider.Distance)
}

// synthesizeCustomer maps one center/meal group onto the plane.
// The center id places its cluster by golden angle, the meal id sets
// the bearing from the depot, and the price ratio sets the distance.
func synthesizeCustomer(id int, g *mealGroup) domain.Customer {
	avgCheckout := g.checkoutSum / float64(g.rows)
	avgBase := g.baseSum / float64(g.rows)
	if avgBase < 1 {
		avgBase = 1
	}
	priceRatio := avgCheckout / avgBase
	avgWeek := g.weekSum / float64(g.rows)

	centerAngle := math.Mod(float64(g.centerID)*137.5, 360)
	centerRadius := 5 + float64(g.centerID%5)*3
	mealAngle := math.Mod(float64(g.mealID)*222.5, 360)
	dist := clamp(15+(priceRatio-1)*25, 10, 45)

	x := clamp(50+centerRadius*math.Cos(rad(centerAngle))+dist*math.Cos(rad(mealAngle)), 5, 95)
	y := clamp(50+centerRadius*math.Sin(rad(centerAngle))+dist*math.Sin(rad(mealAngle)), 5, 95)

	demand := g.orders / 100

	weekNorm := (avgWeek - 1) / 144
	ready := weekNorm * 300
	windowSize := 60 + (priceRatio-1)*30
	due := math.Min(ready+windowSize, operatingHorizon)
	if due <= ready {
		ready = math.Max(0, due-60)
	}
	service := 5 + (demand/50)*10

	return domain.Customer{
		ID:          id,
		Pos:         domain.Point{X: x, Y: y},
		Demand:      demand,
		Ready:       ready,
		Due:         due,
		ServiceTime: service,
	}
}

func busiestCenter(orders map[int]float64) int {
	best, bestOrders := 0, -1.0
	for center, n := range orders {
		if n > bestOrders || (n == bestOrders && center < best) {
			best, bestOrders = center, n
		}
	}
	return best
}

func busiestWeek(orders map[[2]int]float64, center int) int {
	best, bestOrders := 0, -1.0
	for key, n := range orders {
		if key[0] != center {
			continue
		}
		if n > bestOrders || (n == bestOrders && key[1] < best) {
			best, bestOrders = key[1], n
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
