package services

import (
	"cmp"
	"slices"

	"van-route-service/internal/domain"
)

// AllocateCapacity builds the initial assignment by cheapest insertion.
//
// Locations are taken farthest-from-depot first so distant stops are not
// stranded, and each one goes to the (van, position) with the smallest added
// cost among vans that still have seats for it. Locations no van can seat are
// returned as unassigned with a reason instead of failing the request.
func AllocateCapacity(
	m *TravelTimeMatrix,
	vans []domain.Van,
	locations []domain.Location,
	returnToDepot bool,
) Assignment {
	ordered := sortedVans(vans)
	depot := m.DepotID()

	a := Assignment{Stops: make(map[string][]string, len(ordered))}
	loads := make(map[string]int, len(ordered))
	largest := 0
	for _, v := range ordered {
		a.Stops[v.ID] = []string{}
		largest = max(largest, v.Capacity)
	}

	ranked := slices.Clone(locations)
	slices.SortStableFunc(ranked, func(x, y domain.Location) int {
		dx, dy := m.Minutes(depot, x.ID), m.Minutes(depot, y.ID)
		if dx > dy+epsilon {
			return -1
		}
		if dy > dx+epsilon {
			return 1
		}
		return cmp.Compare(x.ID, y.ID)
	})

	unassigned := make(map[string]domain.UnassignedReason)
	for _, loc := range ranked {
		bestVan := ""
		bestPos, bestDelta := 0, 0.0

		for _, v := range ordered {
			if !v.Fits(loads[v.ID], loc.Demand) {
				continue
			}
			pos, delta := cheapestInsertion(m, a.Stops[v.ID], loc.ID, returnToDepot)
			if bestVan == "" || delta < bestDelta-epsilon {
				bestVan, bestPos, bestDelta = v.ID, pos, delta
			}
		}

		if bestVan == "" {
			reason := domain.ReasonFleetCapacityExhausted
			if len(ordered) == 0 || loc.Demand > largest {
				reason = domain.ReasonExceedsLargestVan
			}
			unassigned[loc.ID] = reason
			continue
		}

		a.Stops[bestVan] = insertAt(a.Stops[bestVan], bestPos, loc.ID)
		loads[bestVan] += loc.Demand
	}

	// Report unassigned locations in request order.
	for _, loc := range locations {
		if reason, ok := unassigned[loc.ID]; ok {
			a.Unassigned = append(a.Unassigned, domain.UnassignedLocation{
				LocationID: loc.ID,
				Name:       loc.Name,
				Demand:     loc.Demand,
				Reason:     reason,
			})
		}
	}

	return a
}
