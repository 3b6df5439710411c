package domain

import (
	"math"
	"testing"
)

func TestCoordinatesDistanceMeters(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Coordinates
		want      float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         Coordinates{Lon: -112.07, Lat: 33.45},
			b:         Coordinates{Lon: -112.07, Lat: 33.45},
			want:      0,
			tolerance: 0.001,
		},
		{
			name:      "London to Paris",
			a:         Coordinates{Lon: -0.1278, Lat: 51.5074},
			b:         Coordinates{Lon: 2.3522, Lat: 48.8566},
			want:      344000,
			tolerance: 10000,
		},
		{
			name:      "one degree of latitude",
			a:         Coordinates{Lon: 0, Lat: 0},
			b:         Coordinates{Lon: 0, Lat: 1},
			want:      111195,
			tolerance: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.DistanceMeters(tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceMeters() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestLocationPlaceKey(t *testing.T) {
	a := Location{ID: "a", Coordinates: &Coordinates{Lon: -112.0740001, Lat: 33.4484}}
	b := Location{ID: "b", Coordinates: &Coordinates{Lon: -112.074, Lat: 33.4484}}
	if a.PlaceKey() != b.PlaceKey() {
		t.Fatalf("keys differ: %q vs %q", a.PlaceKey(), b.PlaceKey())
	}

	c := Location{ID: "c", Address: "  1901 W  Madison St,   Phoenix "}
	d := Location{ID: "d", Address: "1901 w madison st, phoenix"}
	if c.PlaceKey() != d.PlaceKey() {
		t.Fatalf("address keys differ: %q vs %q", c.PlaceKey(), d.PlaceKey())
	}

	if a.PlaceKey() == c.PlaceKey() {
		t.Fatalf("coordinate and address keys must not collide")
	}
}

func TestStatusFlags(t *testing.T) {
	s := Status{Completion: TimeBudgetExhausted, DegradedEstimates: true}
	got := s.Flags()
	if len(got) != 2 || got[0] != "time-budget-exhausted" || got[1] != "degraded-estimates-used" {
		t.Fatalf("Flags() = %v", got)
	}

	s = Status{Completion: FullyOptimized}
	if got := s.Flags(); len(got) != 1 || got[0] != "fully-optimized" {
		t.Fatalf("Flags() = %v", got)
	}
}
