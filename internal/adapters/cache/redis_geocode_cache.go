package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"van-route-service/internal/domain"
	"van-route-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const geocodeKeyPrefix = "geocode:"

// RedisGeocodeCache stores normalized address -> coordinates with a TTL.
// It implements ports.GeocodeCache.
type RedisGeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
	log logrus.FieldLogger
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *RedisGeocodeCache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl, log: log.WithField("cache", "geocode.redis")}
}

// Fetch cached coordinates for the given addresses. Missing or malformed
// entries are treated as misses.
func (c *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, c.log, "geocode.redis.GetMany")(&err)

	if c.rdb == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueAddresses(addresses)
	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = geocodeKeyPrefix + a
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	if len(keys) == 0 {
		return out, nil
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		coords, err := decodeCoordinates(s)
		if err != nil {
			c.log.WithError(err).WithField("address", uniq[i]).Warn("dropping malformed geocode cache entry")
			continue
		}
		out[uniq[i]] = coords
	}

	return out, nil
}

// Store address -> coordinate mappings with the configured TTL.
func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, c.log, "geocode.redis.PutMany")(&err)

	if c.rdb == nil {
		return errors.New("geocode cache: redis client is nil")
	}
	if len(results) == 0 {
		return nil
	}

	addrs, coords, ok := normalizedEntries(results)
	if !ok {
		return errors.New("insert geocode cache: empty address key")
	}

	pipe := c.rdb.Pipeline()
	for i, addr := range addrs {
		pipe.Set(ctx, geocodeKeyPrefix+addr, encodeCoordinates(coords[i]), c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: pipeline exec: %w", err)
	}
	return nil
}

func encodeCoordinates(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

func decodeCoordinates(s string) (domain.Coordinates, error) {
	lonStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("decode coordinates %q: missing separator", s)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode coordinates %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode coordinates %q: %w", s, err)
	}
	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}
