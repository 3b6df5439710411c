package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"van-route-service/internal/domain"
	"van-route-service/internal/platform/obs"
	"van-route-service/internal/ports"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ORSConfig holds the OpenRouteService connection settings.
type ORSConfig struct {
	APIKey     string
	BaseURL    string
	Profile    string
	RatePerSec float64
	Burst      int
	Timeout    time.Duration
}

// ORSDistanceProvider implements DistanceMatrixProvider using OpenRouteService.
//
// It coordinates:
//   - Geocoding of address-only locations, through an optional persistent cache
//   - One-origin matrix rows from /v2/matrix/{profile}
//   - Client-side rate limiting shared by every call
//
// Retrying is left to the caller. Responses that will never succeed (4xx other
// than 429, unknown addresses) are wrapped with ports.ErrPermanent.
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	limiter      *rate.Limiter
	geocodeCache ports.GeocodeCache
	log          logrus.FieldLogger
}

func NewORSDistanceProvider(
	cfg ORSConfig,
	geocodeCache ports.GeocodeCache,
	log logrus.FieldLogger,
) (*ORSDistanceProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openrouteservice.org"
	}
	if cfg.Profile == "" {
		cfg.Profile = "driving-car"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := max(cfg.Burst, 1)

	return &ORSDistanceProvider{
		session:      &http.Client{Timeout: cfg.Timeout},
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		profile:      cfg.Profile,
		limiter:      rate.NewLimiter(limit, burst),
		geocodeCache: geocodeCache,
		log:          log.WithField("provider", "ors"),
	}, nil
}

// Delegate to batched path to reuse geocoding and matrix logic.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin domain.Location,
	destination domain.Location,
) (ports.DistanceResult, error) {
	results, err := o.GetDistances(ctx, origin, []domain.Location{destination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distance %q -> %q: %w",
			origin.Label(), destination.Label(), err,
		)
	}

	result, ok := results[destination.PlaceKey()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %q -> %q", origin.Label(), destination.Label())
	}

	return result, nil
}

// Compute distances from a single origin to many destinations, keyed by
// destination place key.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin domain.Location,
	destinations []domain.Location,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, o.log, "ors.GetDistances")(&err)

	originKey := origin.PlaceKey()
	seen := make(map[string]struct{}, len(destinations))
	destList := make([]domain.Location, 0, len(destinations))
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		key := d.PlaceKey()
		if key == originKey {
			out[key] = ports.DistanceResult{}
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		destList = append(destList, d)
	}

	if len(destList) == 0 {
		return out, nil
	}

	coords, err := o.resolve(ctx, append([]domain.Location{origin}, destList...))
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	destCoords := make([]domain.Coordinates, len(destList))
	for i, d := range destList {
		destCoords[i] = coords[d.PlaceKey()]
	}

	row, err := o.matrixRow(ctx, coords[originKey], destCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	for i, r := range row {
		if r != nil {
			out[destList[i].PlaceKey()] = *r
		}
	}
	return out, nil
}

// resolve returns coordinates for every location keyed by place key.
// Address-only locations go through the geocode cache, then ORS geocoding.
func (o *ORSDistanceProvider) resolve(
	ctx context.Context,
	locations []domain.Location,
) (map[string]domain.Coordinates, error) {
	coords := make(map[string]domain.Coordinates, len(locations))
	addresses := make([]string, 0)
	for _, l := range locations {
		if l.Coordinates != nil {
			coords[l.PlaceKey()] = *l.Coordinates
			continue
		}
		addresses = append(addresses, domain.NormalizeAddress(l.Address))
	}

	if len(addresses) == 0 {
		return coords, nil
	}

	hits := make(map[string]domain.Coordinates)
	if o.geocodeCache != nil {
		var err error
		hits, err = o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			// A broken cache must not block routing.
			o.log.WithError(err).Warn("geocode cache read failed")
			hits = map[string]domain.Coordinates{}
		}
	}

	misses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}

	fresh := make(map[string]domain.Coordinates)
	if len(misses) > 0 {
		var err error
		fresh, err = o.geocodeMany(ctx, misses)
		if err != nil {
			return nil, err
		}
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			o.log.WithError(err).Warn("geocode cache write failed")
		}
	}

	for _, a := range addresses {
		c, ok := hits[a]
		if !ok {
			c, ok = fresh[a]
		}
		if !ok {
			return nil, fmt.Errorf("missing coordinate for %q: %w", a, ports.ErrPermanent)
		}
		coords["a:"+a] = c
	}

	return coords, nil
}
