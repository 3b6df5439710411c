package domain

import (
	"errors"
	"strings"
	"testing"
)

func validRequest() RouteRequest {
	return RouteRequest{
		Depot: Location{ID: "depot", Coordinates: &Coordinates{Lon: -112.07, Lat: 33.45}},
		Vans: []Van{
			{ID: "v1", Number: 1, Capacity: 6},
			{ID: "v2", Number: 2, Capacity: 7},
		},
		Locations: []Location{
			{ID: "a", Name: "A", Coordinates: &Coordinates{Lon: -112.1, Lat: 33.5}, Demand: 2},
			{ID: "b", Name: "B", Address: "1 Main St", Demand: 0},
		},
	}
}

func TestRouteRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *RouteRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(r *RouteRequest) {}},
		{
			name:    "empty van list",
			mutate:  func(r *RouteRequest) { r.Vans = nil },
			wantErr: "at least one van is required",
		},
		{
			name:    "empty location list",
			mutate:  func(r *RouteRequest) { r.Locations = nil },
			wantErr: "at least one location is required",
		},
		{
			name:    "duplicate location id",
			mutate:  func(r *RouteRequest) { r.Locations[1].ID = "a" },
			wantErr: `location "a": duplicate id`,
		},
		{
			name:    "duplicate van id",
			mutate:  func(r *RouteRequest) { r.Vans[1].ID = "v1" },
			wantErr: `van "v1": duplicate id`,
		},
		{
			name:    "duplicate van number",
			mutate:  func(r *RouteRequest) { r.Vans[1].Number = 1 },
			wantErr: "duplicate van number 1",
		},
		{
			name:    "zero van number",
			mutate:  func(r *RouteRequest) { r.Vans[0].Number = 0 },
			wantErr: "van number must be positive",
		},
		{
			name:    "negative demand",
			mutate:  func(r *RouteRequest) { r.Locations[0].Demand = -1 },
			wantErr: "demand must be non-negative",
		},
		{
			name:    "zero capacity",
			mutate:  func(r *RouteRequest) { r.Vans[0].Capacity = 0 },
			wantErr: "capacity must be positive",
		},
		{
			name:    "location without place",
			mutate:  func(r *RouteRequest) { r.Locations[1].Address = " " },
			wantErr: "needs coordinates or an address",
		},
		{
			name:    "location reusing depot id",
			mutate:  func(r *RouteRequest) { r.Locations[0].ID = "depot" },
			wantErr: "collides with depot",
		},
		{
			name:    "coordinates out of range",
			mutate:  func(r *RouteRequest) { r.Locations[0].Coordinates = &Coordinates{Lon: 0, Lat: 91} },
			wantErr: "coordinates out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRouteRequestValidateCollectsAllProblems(t *testing.T) {
	req := validRequest()
	req.Vans[0].Capacity = -2
	req.Locations[0].Demand = -1

	var verr *ValidationError
	if !errors.As(req.Validate(), &verr) {
		t.Fatalf("expected validation error")
	}
	if len(verr.Problems) != 2 {
		t.Fatalf("problems = %d, want 2: %v", len(verr.Problems), verr.Problems)
	}
}

func TestVanFits(t *testing.T) {
	v := Van{ID: "v", Number: 1, Capacity: 4}
	if !v.Fits(2, 2) {
		t.Errorf("Fits(2, 2) = false, want true")
	}
	if v.Fits(2, 3) {
		t.Errorf("Fits(2, 3) = true, want false")
	}
}
