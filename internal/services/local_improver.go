package services

import (
	"context"
	"slices"
	"time"

	"van-route-service/internal/domain"
)

// ImproveStats describes how a local search run ended.
type ImproveStats struct {
	Moves       int
	InitialCost float64
	FinalCost   float64
	Completion  domain.Completion
}

type relocation struct {
	from, to string
	id       string
	pos      int
	gain     float64
}

// ImproveRoutes runs 2-opt and inter-route relocation until no move improves
// the total cost or the budget runs out.
//
// Vans are visited by ascending van number and candidate moves are compared
// with ties broken by van number then location id. Every accepted move
// lowers the total cost by more than epsilon, so the result is never worse
// than the input. The input assignment is not modified.
func ImproveRoutes(
	ctx context.Context,
	m *TravelTimeMatrix,
	vans []domain.Van,
	initial Assignment,
	opts Options,
) (Assignment, ImproveStats) {
	opts = opts.withDefaults()
	a := initial.clone()
	ordered := sortedVans(vans)
	for _, v := range ordered {
		if _, ok := a.Stops[v.ID]; !ok {
			a.Stops[v.ID] = []string{}
		}
	}

	stats := ImproveStats{InitialCost: a.TotalCost(m, opts.ReturnToDepot)}
	deadline := time.Now().Add(opts.ImproveBudget)

	// exhausted reports whether another move may not be applied.
	exhausted := func() bool {
		return stats.Moves >= opts.MaxIterations || ctx.Err() != nil || time.Now().After(deadline)
	}

	for {
		improved := false

		for _, v := range ordered {
			for {
				route, ok := twoOpt(m, a.Stops[v.ID], opts.ReturnToDepot)
				if !ok {
					break
				}
				if exhausted() {
					return a, stats.finish(m, a, opts, domain.TimeBudgetExhausted)
				}
				a.Stops[v.ID] = route
				stats.Moves++
				improved = true
			}
		}

		if mv, ok := bestRelocation(m, ordered, a, opts.ReturnToDepot); ok {
			if exhausted() {
				return a, stats.finish(m, a, opts, domain.TimeBudgetExhausted)
			}
			a.Stops[mv.from] = slices.DeleteFunc(slices.Clone(a.Stops[mv.from]), func(s string) bool { return s == mv.id })
			a.Stops[mv.to] = insertAt(a.Stops[mv.to], mv.pos, mv.id)
			stats.Moves++
			improved = true
		}

		if !improved {
			return a, stats.finish(m, a, opts, domain.FullyOptimized)
		}
	}
}

func (s ImproveStats) finish(m *TravelTimeMatrix, a Assignment, opts Options, c domain.Completion) ImproveStats {
	s.FinalCost = a.TotalCost(m, opts.ReturnToDepot)
	s.Completion = c
	return s
}

// twoOpt returns the first segment reversal that strictly lowers the route
// cost. Segments are re-costed in full since the matrix is directed.
func twoOpt(m *TravelTimeMatrix, route []string, returnToDepot bool) ([]string, bool) {
	if len(route) < 2 {
		return nil, false
	}

	current := m.pathCost(route, returnToDepot)
	for i := 0; i < len(route)-1; i++ {
		for j := i + 1; j < len(route); j++ {
			candidate := slices.Clone(route)
			slices.Reverse(candidate[i : j+1])
			if m.pathCost(candidate, returnToDepot) < current-epsilon {
				return candidate, true
			}
		}
	}
	return nil, false
}

// bestRelocation finds the single stop move between vans with the largest
// saving. Ties keep the lowest receiving van number, then the lowest location
// id, then the earliest position.
func bestRelocation(m *TravelTimeMatrix, vans []domain.Van, a Assignment, returnToDepot bool) (relocation, bool) {
	owner := make(map[string]string)
	saving := make(map[string]float64)
	for _, v := range vans {
		route := a.Stops[v.ID]
		base := m.pathCost(route, returnToDepot)
		for i, id := range route {
			without := slices.Delete(slices.Clone(route), i, i+1)
			owner[id] = v.ID
			saving[id] = base - m.pathCost(without, returnToDepot)
		}
	}

	ids := make([]string, 0, len(owner))
	for id := range owner {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var best relocation
	found := false
	for _, to := range vans {
		load := a.Load(m, to.ID)
		for _, id := range ids {
			if owner[id] == to.ID {
				continue
			}
			loc, _ := m.Location(id)
			if !to.Fits(load, loc.Demand) {
				continue
			}

			pos, cost := cheapestInsertion(m, a.Stops[to.ID], id, returnToDepot)
			gain := saving[id] - cost
			if gain <= epsilon {
				continue
			}
			if !found || gain > best.gain+epsilon {
				best = relocation{from: owner[id], to: to.ID, id: id, pos: pos, gain: gain}
				found = true
			}
		}
	}

	return best, found
}
