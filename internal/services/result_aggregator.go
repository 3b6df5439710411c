package services

import (
	"time"

	"van-route-service/internal/domain"
)

// AggregateResult converts the final assignment into per-van routes.
//
// Every van gets a route, in van-number order, even when it has no stops.
// EstimatedMinutes is the sum of matrix legs from the depot through the last
// stop, plus the return leg when opts.ReturnToDepot is set. Dwell time only
// shifts arrival times and is reported on its own.
func AggregateResult(
	m *TravelTimeMatrix,
	vans []domain.Van,
	a Assignment,
	completion domain.Completion,
	departAt *time.Time,
	opts Options,
) *domain.RouteResult {
	depot := m.DepotID()
	result := &domain.RouteResult{
		Routes:     make([]domain.Route, 0, len(vans)),
		Unassigned: append([]domain.UnassignedLocation{}, a.Unassigned...),
	}

	for _, v := range sortedVans(vans) {
		route := domain.Route{
			VanID:     v.ID,
			VanNumber: v.Number,
			Capacity:  v.Capacity,
			Stops:     make([]domain.RouteStop, 0, len(a.Stops[v.ID])),
			DepartAt:  departAt,
		}

		prev := depot
		minutes := 0.0
		passengers := 0
		for i, id := range a.Stops[v.ID] {
			loc, _ := m.Location(id)
			leg := m.Minutes(prev, id)
			minutes += leg
			passengers += loc.Demand

			stop := domain.RouteStop{
				LocationID:           id,
				Name:                 loc.Name,
				Demand:               loc.Demand,
				CumulativePassengers: passengers,
				LegMinutes:           leg,
				CumulativeMinutes:    minutes,
				LegProvenance:        m.Provenance(prev, id),
			}
			if departAt != nil {
				at := departAt.Add(toDuration(minutes + float64(i)*opts.DwellMinutes))
				stop.ArriveAt = &at
			}

			route.Stops = append(route.Stops, stop)
			prev = id
		}

		if opts.ReturnToDepot && len(route.Stops) > 0 {
			route.ReturnMinutes = m.Minutes(prev, depot)
		}
		route.TotalPassengers = passengers
		route.EstimatedMinutes = minutes + route.ReturnMinutes
		route.DwellMinutes = float64(len(route.Stops)) * opts.DwellMinutes

		result.TotalPassengers += passengers
		result.TotalMinutes += route.EstimatedMinutes
		result.Routes = append(result.Routes, route)
	}

	result.EstimatedEntries = m.EstimatedEntries()
	result.Status = domain.Status{
		Completion:        completion,
		DegradedEstimates: result.EstimatedEntries > 0,
	}

	return result
}

func toDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}
