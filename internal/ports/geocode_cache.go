package ports

import (
	"context"

	"van-route-service/internal/domain"
)

// GeocodeCache persists address -> coordinate lookups across requests.
// Keys are normalized addresses (see domain.NormalizeAddress).
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
