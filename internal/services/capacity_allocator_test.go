package services

import (
	"slices"
	"testing"

	"van-route-service/internal/domain"
)

func TestAllocateCapacityOneVanStrandsSecondLocation(t *testing.T) {
	depot := at("depot", 0, 0)
	a, b := at("A", 2, 1), at("B", 3, 2)
	m := matrixFromTable(depot, []domain.Location{a, b}, map[pair]float64{
		{"depot", "A"}: 10,
		{"depot", "B"}: 5,
		{"A", "B"}:     3,
	})

	vans := []domain.Van{{ID: "v1", Number: 1, Capacity: 4}}
	got := AllocateCapacity(m, vans, []domain.Location{a, b}, false)

	if !slices.Equal(got.Stops["v1"], []string{"A"}) {
		t.Fatalf("v1 stops = %v, want [A]", got.Stops["v1"])
	}
	if len(got.Unassigned) != 1 || got.Unassigned[0].LocationID != "B" {
		t.Fatalf("unassigned = %+v, want [B]", got.Unassigned)
	}
	if got.Unassigned[0].Reason != domain.ReasonFleetCapacityExhausted {
		t.Fatalf("reason = %q, want %q", got.Unassigned[0].Reason, domain.ReasonFleetCapacityExhausted)
	}
}

func TestAllocateCapacityZeroVans(t *testing.T) {
	depot := at("depot", 0, 0)
	locs := []domain.Location{at("a", 1, 1), at("b", 0, 2)}
	m := matrixFromTable(depot, locs, map[pair]float64{{"depot", "a"}: 1, {"depot", "b"}: 2, {"a", "b"}: 1})

	got := AllocateCapacity(m, nil, locs, false)

	if len(got.Stops) != 0 {
		t.Fatalf("stops = %v, want none", got.Stops)
	}
	if len(got.Unassigned) != 2 {
		t.Fatalf("unassigned = %d, want 2", len(got.Unassigned))
	}
	for _, u := range got.Unassigned {
		if u.Reason != domain.ReasonExceedsLargestVan {
			t.Fatalf("reason = %q, want %q", u.Reason, domain.ReasonExceedsLargestVan)
		}
	}
}

func TestAllocateCapacityOversizedLocation(t *testing.T) {
	depot := at("depot", 0, 0)
	locs := []domain.Location{at("big", 9, 1), at("small", 2, 2)}
	m := matrixFromTable(depot, locs, map[pair]float64{{"depot", "big"}: 1, {"depot", "small"}: 2, {"big", "small"}: 1})

	vans := []domain.Van{{ID: "v1", Number: 1, Capacity: 4}, {ID: "v2", Number: 2, Capacity: 6}}
	got := AllocateCapacity(m, vans, locs, false)

	if len(got.Unassigned) != 1 || got.Unassigned[0].LocationID != "big" {
		t.Fatalf("unassigned = %+v, want [big]", got.Unassigned)
	}
	if got.Unassigned[0].Reason != domain.ReasonExceedsLargestVan {
		t.Fatalf("reason = %q, want %q", got.Unassigned[0].Reason, domain.ReasonExceedsLargestVan)
	}
	if !slices.Equal(got.Stops["v1"], []string{"small"}) {
		t.Fatalf("v1 stops = %v, want [small]", got.Stops["v1"])
	}
}

func TestAllocateCapacityTiesGoToLowestVanNumber(t *testing.T) {
	depot := at("depot", 0, 0)
	locs := []domain.Location{at("a", 1, 1)}
	m := matrixFromTable(depot, locs, map[pair]float64{{"depot", "a"}: 4})

	// Listed out of order on purpose.
	vans := []domain.Van{{ID: "late", Number: 7, Capacity: 4}, {ID: "early", Number: 2, Capacity: 4}}
	got := AllocateCapacity(m, vans, locs, false)

	if !slices.Equal(got.Stops["early"], []string{"a"}) {
		t.Fatalf("stops = %v, want a on van number 2", got.Stops)
	}
}

func TestAllocateCapacityHonorsReturnLeg(t *testing.T) {
	// x sits right next to the depot on the way back from far.
	depot := at("depot", 0, 0)
	locs := []domain.Location{at("far", 1, 1), at("x", 1, 2)}
	m := matrixFromTable(depot, locs, map[pair]float64{
		{"depot", "far"}: 20,
		{"depot", "x"}:   2,
		{"far", "x"}:     19,
	})
	vans := []domain.Van{{ID: "v1", Number: 1, Capacity: 4}}

	open := AllocateCapacity(m, vans, locs, false)
	if !slices.Equal(open.Stops["v1"], []string{"x", "far"}) {
		t.Fatalf("open path stops = %v, want [x far]", open.Stops["v1"])
	}

	closed := AllocateCapacity(m, vans, locs, true)
	if got := closed.TotalCost(m, true); got != 41 {
		t.Fatalf("closed tour cost = %v, want 41", got)
	}
}
