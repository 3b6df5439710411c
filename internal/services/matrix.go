package services

import (
	"van-route-service/internal/domain"
)

type matrixEntry struct {
	minutes    float64
	meters     float64
	provenance domain.Provenance
}

// TravelTimeMatrix is the directed travel-time table for one request.
//
// Node 0 is always the depot; nodes 1..n are the locations in request order.
// The matrix is filled by MatrixBuilder and read-only afterwards.
type TravelTimeMatrix struct {
	ids       []string
	locations []domain.Location
	index     map[string]int
	entries   [][]matrixEntry
}

func newTravelTimeMatrix(depot domain.Location, locations []domain.Location) *TravelTimeMatrix {
	n := len(locations) + 1
	m := &TravelTimeMatrix{
		ids:       make([]string, 0, n),
		locations: make([]domain.Location, 0, n),
		index:     make(map[string]int, n),
		entries:   make([][]matrixEntry, n),
	}

	for _, l := range append([]domain.Location{depot}, locations...) {
		m.index[l.ID] = len(m.ids)
		m.ids = append(m.ids, l.ID)
		m.locations = append(m.locations, l)
	}
	for i := range m.entries {
		m.entries[i] = make([]matrixEntry, n)
		m.entries[i][i] = matrixEntry{provenance: domain.Measured}
	}

	return m
}

func (m *TravelTimeMatrix) set(i, j int, e matrixEntry) { m.entries[i][j] = e }

// Size returns the number of nodes, depot included.
func (m *TravelTimeMatrix) Size() int { return len(m.ids) }

// DepotID returns the id of node 0.
func (m *TravelTimeMatrix) DepotID() string { return m.ids[0] }

// Location returns the location with the given id.
func (m *TravelTimeMatrix) Location(id string) (domain.Location, bool) {
	i, ok := m.index[id]
	if !ok {
		return domain.Location{}, false
	}
	return m.locations[i], true
}

// Minutes returns the travel time from one id to another.
// Unknown ids cost nothing; callers only pass ids taken from the request.
func (m *TravelTimeMatrix) Minutes(from, to string) float64 {
	i, ok1 := m.index[from]
	j, ok2 := m.index[to]
	if !ok1 || !ok2 {
		return 0
	}
	return m.entries[i][j].minutes
}

// Meters returns the distance reported for a pair, zero when unknown.
func (m *TravelTimeMatrix) Meters(from, to string) float64 {
	i, ok1 := m.index[from]
	j, ok2 := m.index[to]
	if !ok1 || !ok2 {
		return 0
	}
	return m.entries[i][j].meters
}

// Provenance tells whether the pair was measured or estimated.
func (m *TravelTimeMatrix) Provenance(from, to string) domain.Provenance {
	i, ok1 := m.index[from]
	j, ok2 := m.index[to]
	if !ok1 || !ok2 {
		return domain.Estimated
	}
	return m.entries[i][j].provenance
}

// EstimatedEntries counts off-diagonal entries that fell back to an estimate.
func (m *TravelTimeMatrix) EstimatedEntries() int {
	n := 0
	for i := range m.entries {
		for j := range m.entries[i] {
			if i != j && m.entries[i][j].provenance == domain.Estimated {
				n++
			}
		}
	}
	return n
}

// pathCost sums the legs depot -> stops[0] -> ... -> stops[n-1], plus the
// leg back to the depot when returnToDepot is set.
func (m *TravelTimeMatrix) pathCost(stops []string, returnToDepot bool) float64 {
	if len(stops) == 0 {
		return 0
	}
	depot := m.DepotID()
	cost := 0.0
	prev := depot
	for _, s := range stops {
		cost += m.Minutes(prev, s)
		prev = s
	}
	if returnToDepot {
		cost += m.Minutes(prev, depot)
	}
	return cost
}
