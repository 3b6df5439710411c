package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"van-route-service/internal/domain"
	"van-route-service/internal/platform/obs"

	"github.com/sirupsen/logrus"
)

const selectGeocodes = `
SELECT address, lon, lat
FROM geocode_cache
WHERE address = ANY($1::text[]);
`

// Arrays are unnested so a whole batch is one round trip.
const upsertGeocodes = `
INSERT INTO geocode_cache (address, lon, lat, updated_at)
SELECT address, lon, lat, now()
FROM unnest($1::text[], $2::double precision[], $3::double precision[]) AS t(address, lon, lat)
ON CONFLICT (address) DO UPDATE
SET lon = EXCLUDED.lon,
	lat = EXCLUDED.lat,
	updated_at = now();
`

// SQLGeocodeCache is a Postgres-backed ports.GeocodeCache keyed by
// normalized address.
type SQLGeocodeCache struct {
	db  *sql.DB
	log logrus.FieldLogger
}

func NewSQLGeocodeCache(db *sql.DB, log logrus.FieldLogger) *SQLGeocodeCache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SQLGeocodeCache{db: db, log: log.WithField("cache", "geocode.sql")}
}

// GetMany returns the cached coordinates among addresses. Misses are absent.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, s.log, "geocode.sql.GetMany")(&err)

	if s.db == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueAddresses(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	rows, err := s.db.QueryContext(ctx, selectGeocodes, uniq)
	if err != nil {
		return nil, fmt.Errorf("geocode cache lookup: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var (
			addr string
			c    domain.Coordinates
		)
		if err := rows.Scan(&addr, &c.Lon, &c.Lat); err != nil {
			return nil, fmt.Errorf("geocode cache lookup: scan: %w", err)
		}
		out[addr] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode cache lookup: rows: %w", err)
	}

	return out, nil
}

// PutMany upserts address to coordinate mappings in one statement.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, s.log, "geocode.sql.PutMany")(&err)

	if s.db == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	addrs, coords, ok := normalizedEntries(results)
	if !ok {
		return errors.New("geocode cache store: empty address key")
	}

	lons := make([]float64, len(coords))
	lats := make([]float64, len(coords))
	for i, c := range coords {
		lons[i], lats[i] = c.Lon, c.Lat
	}

	if _, err := s.db.ExecContext(ctx, upsertGeocodes, addrs, lons, lats); err != nil {
		return fmt.Errorf("geocode cache store %d addresses: %w", len(addrs), err)
	}

	return nil
}
