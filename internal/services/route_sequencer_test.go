package services

import (
	"slices"
	"testing"

	"van-route-service/internal/domain"
)

func TestSequenceRouteNearestNeighbor(t *testing.T) {
	depot := at("HUB", 0, 0)
	locs := []domain.Location{at("A", 1, 1), at("B", 1, 2), at("C", 1, 3)}
	m := matrixFromTable(depot, locs, map[pair]float64{
		{"HUB", "A"}: 5,
		{"HUB", "B"}: 10,
		{"HUB", "C"}: 7.5,
		{"A", "B"}:   4,
		{"A", "C"}:   3.5,
		{"B", "C"}:   4.5,
	})

	got := SequenceRoute(m, []string{"B", "C", "A"})
	if !slices.Equal(got, []string{"A", "C", "B"}) {
		t.Fatalf("order = %v, want [A C B]", got)
	}
	if cost := m.pathCost(got, false); cost != 13 {
		t.Fatalf("cost = %v, want 13", cost)
	}
}

func TestSequenceRouteTieBreaksOnLowestID(t *testing.T) {
	depot := at("depot", 0, 0)
	locs := []domain.Location{at("b", 1, 1), at("a", 1, 2)}
	m := matrixFromTable(depot, locs, map[pair]float64{
		{"depot", "a"}: 5,
		{"depot", "b"}: 5,
		{"a", "b"}:     1,
	})

	got := SequenceRoute(m, []string{"b", "a"})
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("order = %v, want [a b]", got)
	}
}

func TestSequenceRouteEmpty(t *testing.T) {
	m := matrixFromTable(at("depot", 0, 0), []domain.Location{at("a", 1, 1)}, nil)
	if got := SequenceRoute(m, nil); len(got) != 0 {
		t.Fatalf("order = %v, want empty", got)
	}
}
