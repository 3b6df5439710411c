package cache

import (
	"sort"

	"van-route-service/internal/domain"
)

// uniqueAddresses normalizes addresses and drops blanks and repeats,
// preserving first-seen order.
func uniqueAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		a = domain.NormalizeAddress(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// normalizedEntries re-keys results by normalized address in sorted order.
// Blank keys are reported through the returned bool.
func normalizedEntries(results map[string]domain.Coordinates) ([]string, []domain.Coordinates, bool) {
	byAddr := make(map[string]domain.Coordinates, len(results))
	for addr, c := range results {
		norm := domain.NormalizeAddress(addr)
		if norm == "" {
			return nil, nil, false
		}
		byAddr[norm] = c
	}

	keys := make([]string, 0, len(byAddr))
	for k := range byAddr {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	coords := make([]domain.Coordinates, len(keys))
	for i, k := range keys {
		coords[i] = byAddr[k]
	}
	return keys, coords, true
}
