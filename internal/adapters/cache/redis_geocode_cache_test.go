package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"van-route-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisGeocodeCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log, _ := test.NewNullLogger()
	return NewRedisGeocodeCache(rdb, ttl, log), mr
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	c, _ := newTestRedisCache(t, time.Hour)
	ctx := context.Background()

	want := domain.Coordinates{Lon: -112.0740, Lat: 33.4484}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{"1901 w madison st": want}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"1901 W  Madison St", "unknown place"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("hits = %d, want 1", len(got))
	}
	if got["1901 w madison st"] != want {
		t.Fatalf("coords = %+v, want %+v", got["1901 w madison st"], want)
	}
}

func TestRedisGeocodeCacheExpires(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	if err := c.PutMany(ctx, map[string]domain.Coordinates{"a": {Lon: 1, Lat: 2}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, []string{"a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired entry, got %v", got)
	}
}

func TestRedisGeocodeCacheSkipsMalformedEntries(t *testing.T) {
	c, mr := newTestRedisCache(t, 0)
	if err := mr.Set(geocodeKeyPrefix+"broken", "not-a-coordinate"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := c.GetMany(context.Background(), []string{"broken"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected malformed entry to be skipped, got %v", got)
	}
}

func TestLoadGeocodeSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.json")
	body := `[{"address": " Depot  Rd ", "lon": -112.07, "lat": 33.45}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadGeocodeSeeds(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c, ok := got["depot rd"]; !ok || c.Lat != 33.45 {
		t.Fatalf("seeds = %v, want depot rd", got)
	}
}
