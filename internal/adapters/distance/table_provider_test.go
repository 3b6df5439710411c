package distance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"van-route-service/internal/domain"
	"van-route-service/internal/ports"
)

const sampleTable = `
symmetric: true
pairs:
  - {from: depot, to: a, minutes: 10, meters: 8000}
  - {from: depot, to: b, minutes: 7.5}
  - {from: b, to: depot, minutes: 9}
`

func TestTableProviderLookup(t *testing.T) {
	p, err := NewTableProvider(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	depot := domain.Location{ID: "depot"}
	a := domain.Location{ID: "a"}
	b := domain.Location{ID: "b"}

	tests := []struct {
		name        string
		from, to    domain.Location
		wantSeconds int
	}{
		{name: "declared", from: depot, to: a, wantSeconds: 600},
		{name: "symmetric copy", from: a, to: depot, wantSeconds: 600},
		{name: "fractional minutes", from: depot, to: b, wantSeconds: 450},
		{name: "explicit reverse wins", from: b, to: depot, wantSeconds: 540},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := p.GetDistance(context.Background(), tt.from, tt.to)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.DurationSeconds != tt.wantSeconds {
				t.Fatalf("duration = %d, want %d", r.DurationSeconds, tt.wantSeconds)
			}
		})
	}
}

func TestTableProviderMissingPairIsPermanent(t *testing.T) {
	p, err := NewTableProvider(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.GetDistance(context.Background(), domain.Location{ID: "a"}, domain.Location{ID: "b"})
	if !errors.Is(err, ports.ErrPermanent) {
		t.Fatalf("err = %v, want ErrPermanent", err)
	}
}

func TestTableProviderRejectsNegativeValues(t *testing.T) {
	_, err := NewTableProvider(strings.NewReader("pairs:\n  - {from: a, to: b, minutes: -1}\n"))
	if err == nil {
		t.Fatalf("expected error for negative minutes")
	}
}

func TestLoadTableProviderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	if err := os.WriteFile(path, []byte(sampleTable), 0o600); err != nil {
		t.Fatalf("write table: %v", err)
	}

	p, err := LoadTableProvider(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// depot->a, a->depot, depot->b, b->depot
	if p.Len() != 4 {
		t.Fatalf("entries = %d, want 4", p.Len())
	}
}
