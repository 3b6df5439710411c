package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"van-route-service/internal/domain"
)

// InitSchema creates the Postgres tables used by SQLGeocodeCache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_geocode_cache_updated_at
	ON geocode_cache(updated_at);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// GeocodeSeed is one known address in a seed file.
type GeocodeSeed struct {
	Address string  `json:"address"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
}

// LoadGeocodeSeeds reads and validates a JSON list of known addresses,
// keyed by normalized address.
func LoadGeocodeSeeds(jsonPath string) (map[string]domain.Coordinates, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed geocodes: read %q: %w", jsonPath, err)
	}

	var data []GeocodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed geocodes: parse json: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(data))
	for i, item := range data {
		addr := domain.NormalizeAddress(item.Address)
		if addr == "" {
			return nil, fmt.Errorf("seed geocodes: item at index %d: address cannot be empty", i+1)
		}

		c := domain.Coordinates{Lon: item.Lon, Lat: item.Lat}
		if !c.Valid() {
			return nil, fmt.Errorf("seed geocodes: item at index %d: coordinates out of range", i+1)
		}
		out[addr] = c
	}

	return out, nil
}
