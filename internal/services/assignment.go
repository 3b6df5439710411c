package services

import (
	"cmp"
	"slices"

	"van-route-service/internal/domain"
)

// Costs closer than epsilon minutes are treated as equal.
const epsilon = 1e-9

// Assignment maps each van id to its ordered location ids, plus the
// locations no van could take. Every location appears exactly once.
type Assignment struct {
	Stops      map[string][]string
	Unassigned []domain.UnassignedLocation
}

func (a Assignment) clone() Assignment {
	out := Assignment{
		Stops:      make(map[string][]string, len(a.Stops)),
		Unassigned: slices.Clone(a.Unassigned),
	}
	for van, stops := range a.Stops {
		out.Stops[van] = slices.Clone(stops)
	}
	return out
}

// Load sums the demand of the stops assigned to a van.
func (a Assignment) Load(m *TravelTimeMatrix, vanID string) int {
	load := 0
	for _, id := range a.Stops[vanID] {
		l, _ := m.Location(id)
		load += l.Demand
	}
	return load
}

// TotalCost sums the route cost of every van.
func (a Assignment) TotalCost(m *TravelTimeMatrix, returnToDepot bool) float64 {
	vans := make([]string, 0, len(a.Stops))
	for van := range a.Stops {
		vans = append(vans, van)
	}
	slices.Sort(vans)

	total := 0.0
	for _, van := range vans {
		total += m.pathCost(a.Stops[van], returnToDepot)
	}
	return total
}

// sortedVans orders vans by van number.
func sortedVans(vans []domain.Van) []domain.Van {
	out := slices.Clone(vans)
	slices.SortFunc(out, func(a, b domain.Van) int { return cmp.Compare(a.Number, b.Number) })
	return out
}

// insertionDelta returns the added cost of inserting id before position pos.
func insertionDelta(m *TravelTimeMatrix, route []string, pos int, id string, returnToDepot bool) float64 {
	depot := m.DepotID()
	prev := depot
	if pos > 0 {
		prev = route[pos-1]
	}

	if pos < len(route) {
		next := route[pos]
		return m.Minutes(prev, id) + m.Minutes(id, next) - m.Minutes(prev, next)
	}

	delta := m.Minutes(prev, id)
	if returnToDepot {
		delta += m.Minutes(id, depot) - m.Minutes(prev, depot)
	}
	return delta
}

// cheapestInsertion finds the lowest-cost position for id in route,
// preferring the earliest position on ties.
func cheapestInsertion(m *TravelTimeMatrix, route []string, id string, returnToDepot bool) (int, float64) {
	bestPos, bestDelta := 0, 0.0
	for pos := 0; pos <= len(route); pos++ {
		d := insertionDelta(m, route, pos, id, returnToDepot)
		if pos == 0 || d < bestDelta-epsilon {
			bestPos, bestDelta = pos, d
		}
	}
	return bestPos, bestDelta
}

func insertAt(route []string, pos int, id string) []string {
	return slices.Insert(slices.Clone(route), pos, id)
}
