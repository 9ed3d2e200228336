// Package loaders turns external datasets into domain instances.
package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"delivery-route-optimizer/internal/domain"
)

// ErrBadFormat marks instance files the parsers cannot make sense of.
var ErrBadFormat = errors.New("malformed instance file")

// SolomonInstance is the parsed content of one Solomon benchmark file,
// including the declared fleet size that the instance itself does not
// carry.
type SolomonInstance struct {
	Instance    *domain.Instance
	NumVehicles int
}

// LoadSolomonFile reads a Solomon benchmark instance from disk.
// maxCustomers > 0 truncates the instance to its first maxCustomers
// customers, the usual way the 25 and 50 customer variants are derived.
func LoadSolomonFile(path string, maxCustomers int, dist domain.DistanceFunc) (*SolomonInstance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load solomon instance: %w", err)
	}
	defer f.Close()

	inst, err := ParseSolomon(f, maxCustomers, dist)
	if err != nil {
		return nil, fmt.Errorf("load solomon instance %s: %w", path, err)
	}
	return inst, nil
}

// ParseSolomon parses the classic Solomon layout: the instance name on
// the first line, "NUMBER CAPACITY" on the fifth, and customer rows
// "id x y demand ready due service" from the tenth on, with row id 0
// being the depot.
func ParseSolomon(r io.Reader, maxCustomers int, dist domain.DistanceFunc) (*SolomonInstance, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 10 {
		return nil, fmt.Errorf("%w: expected header plus customer rows, got %d lines", ErrBadFormat, len(lines))
	}

	name := strings.TrimSpace(lines[0])
	if name == "" {
		return nil, fmt.Errorf("%w: missing instance name on line 1", ErrBadFormat)
	}

	vehicleInfo := strings.Fields(lines[4])
	if len(vehicleInfo) < 2 {
		return nil, fmt.Errorf("%w: vehicle line must hold count and capacity (got %q)", ErrBadFormat, lines[4])
	}
	numVehicles, err := strconv.Atoi(vehicleInfo[0])
	if err != nil {
		return nil, fmt.Errorf("%w: vehicle count %q: %v", ErrBadFormat, vehicleInfo[0], err)
	}
	capacity, err := strconv.ParseFloat(vehicleInfo[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: vehicle capacity %q: %v", ErrBadFormat, vehicleInfo[1], err)
	}

	var depot *domain.Customer
	var customers []domain.Customer
	for i := 9; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < 7 {
			continue
		}
		cust, err := parseCustomerRow(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadFormat, i+1, err)
		}
		if cust.ID == 0 {
			c := cust
			depot = &c
			continue
		}
		customers = append(customers, cust)
		if maxCustomers > 0 && len(customers) >= maxCustomers {
			break
		}
	}
	if depot == nil {
		return nil, fmt.Errorf("%w: depot row (id 0) not found", ErrBadFormat)
	}

	inst, err := domain.NewInstance(name, *depot, customers, capacity, dist)
	if err != nil {
		return nil, err
	}
	return &SolomonInstance{Instance: inst, NumVehicles: numVehicles}, nil
}

func parseCustomerRow(fields []string) (domain.Customer, error) {
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Customer{}, fmt.Errorf("customer id %q: %v", fields[0], err)
	}
	vals := make([]float64, 6)
	for i, f := range fields[1:7] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("field %q: %v", f, err)
		}
		vals[i] = v
	}
	return domain.Customer{
		ID:          id,
		Pos:         domain.Point{X: vals[0], Y: vals[1]},
		Demand:      vals[2],
		Ready:       vals[3],
		Due:         vals[4],
		ServiceTime: vals[5],
	}, nil
}
