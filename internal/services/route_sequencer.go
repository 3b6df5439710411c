package services

import (
	"slices"
)

// SequenceRoute orders a van's stops with a greedy nearest-neighbor walk.
//
// Starting at the depot, it always moves to the unvisited stop with the
// smallest travel time from the current position. Ties go to the lowest
// location id so the order is deterministic. The result is a feasible
// starting point for ImproveRoutes, not an optimal tour.
func SequenceRoute(m *TravelTimeMatrix, stops []string) []string {
	if len(stops) == 0 {
		return []string{}
	}

	remaining := slices.Clone(stops)
	slices.Sort(remaining)

	ordered := make([]string, 0, len(stops))
	current := m.DepotID()

	for len(remaining) > 0 {
		bestIdx := 0
		minMinutes := m.Minutes(current, remaining[0])

		// remaining is sorted, so a strict comparison keeps the lowest id on ties.
		for i := 1; i < len(remaining); i++ {
			if d := m.Minutes(current, remaining[i]); d < minMinutes-epsilon {
				minMinutes = d
				bestIdx = i
			}
		}

		current = remaining[bestIdx]
		ordered = append(ordered, current)
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}

	return ordered
}

// SequenceAll re-sequences every van of an assignment.
func SequenceAll(m *TravelTimeMatrix, a Assignment) Assignment {
	out := a.clone()
	for van, stops := range out.Stops {
		out.Stops[van] = SequenceRoute(m, stops)
	}
	return out
}
