package domain

import (
	"fmt"
	"strings"
	"time"
)

// RouteRequest is the parsed input of one optimization run.
type RouteRequest struct {
	Depot         Location
	Vans          []Van
	Locations     []Location
	DepartAt      *time.Time
	ReturnToDepot bool
}

// Validate rejects malformed requests before they reach the optimizer.
// All problems are collected so callers can fix a request in one round trip.
func (r RouteRequest) Validate() error {
	verr := &ValidationError{}

	depotID := strings.TrimSpace(r.Depot.ID)
	if depotID == "" {
		verr.add("depot id is required")
	}
	if !addressable(r.Depot) {
		verr.add("depot needs coordinates or an address")
	}
	if r.Depot.Coordinates != nil && !r.Depot.Coordinates.Valid() {
		verr.add("depot coordinates out of range")
	}

	if len(r.Vans) == 0 {
		verr.add("at least one van is required")
	}
	vanIDs := make(map[string]struct{}, len(r.Vans))
	vanNumbers := make(map[int]struct{}, len(r.Vans))
	for i, v := range r.Vans {
		id := strings.TrimSpace(v.ID)
		if id == "" {
			verr.add(fmt.Sprintf("van at index %d: id is required", i))
		} else if _, ok := vanIDs[id]; ok {
			verr.add(fmt.Sprintf("van %q: duplicate id", id))
		}
		vanIDs[id] = struct{}{}

		if v.Number <= 0 {
			verr.add(fmt.Sprintf("van %q: van number must be positive, got %d", id, v.Number))
		} else if _, ok := vanNumbers[v.Number]; ok {
			verr.add(fmt.Sprintf("van %q: duplicate van number %d", id, v.Number))
		}
		vanNumbers[v.Number] = struct{}{}

		if v.Capacity <= 0 {
			verr.add(fmt.Sprintf("van %q: capacity must be positive, got %d", id, v.Capacity))
		}
	}

	if len(r.Locations) == 0 {
		verr.add("at least one location is required")
	}
	locIDs := make(map[string]struct{}, len(r.Locations))
	for i, l := range r.Locations {
		id := strings.TrimSpace(l.ID)
		switch {
		case id == "":
			verr.add(fmt.Sprintf("location at index %d: id is required", i))
		case id == depotID:
			verr.add(fmt.Sprintf("location %q: id collides with depot", id))
		default:
			if _, ok := locIDs[id]; ok {
				verr.add(fmt.Sprintf("location %q: duplicate id", id))
			}
		}
		locIDs[id] = struct{}{}

		if l.Demand < 0 {
			verr.add(fmt.Sprintf("location %q: demand must be non-negative, got %d", id, l.Demand))
		}
		if !addressable(l) {
			verr.add(fmt.Sprintf("location %q: needs coordinates or an address", id))
		}
		if l.Coordinates != nil && !l.Coordinates.Valid() {
			verr.add(fmt.Sprintf("location %q: coordinates out of range", id))
		}
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func addressable(l Location) bool {
	return l.Coordinates != nil || strings.TrimSpace(l.Address) != ""
}
