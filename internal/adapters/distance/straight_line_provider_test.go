package distance

import (
	"context"
	"errors"
	"testing"

	"van-route-service/internal/domain"
	"van-route-service/internal/ports"
)

func TestStraightLineProvider(t *testing.T) {
	p, err := NewStraightLineProvider(60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One degree of latitude is about 111.2km, so 60km/h takes ~111 minutes.
	origin := domain.Location{ID: "o", Coordinates: &domain.Coordinates{Lon: 0, Lat: 0}}
	dest := domain.Location{ID: "d", Coordinates: &domain.Coordinates{Lon: 0, Lat: 1}}

	r, err := p.GetDistance(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.DistanceMeters < 111000 || r.DistanceMeters > 111400 {
		t.Fatalf("distance = %d, want ~111195", r.DistanceMeters)
	}
	if r.DurationSeconds < 6660 || r.DurationSeconds > 6690 {
		t.Fatalf("duration = %d, want ~6672", r.DurationSeconds)
	}

	_, err = p.GetDistance(context.Background(), origin, domain.Location{ID: "x", Address: "somewhere"})
	if !errors.Is(err, ports.ErrPermanent) {
		t.Fatalf("err = %v, want ErrPermanent", err)
	}
}

func TestNewStraightLineProviderRejectsZeroSpeed(t *testing.T) {
	if _, err := NewStraightLineProvider(0); err == nil {
		t.Fatalf("expected error for zero speed")
	}
}
