package distance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"van-route-service/internal/domain"
	"van-route-service/internal/ports"

	"gopkg.in/yaml.v3"
)

// travelTable is the YAML layout of an offline travel-time table:
//
//	symmetric: true
//	pairs:
//	  - {from: depot, to: a, minutes: 12.5, meters: 8400}
type travelTable struct {
	Symmetric bool `yaml:"symmetric"`
	Pairs     []struct {
		From    string  `yaml:"from"`
		To      string  `yaml:"to"`
		Minutes float64 `yaml:"minutes"`
		Meters  float64 `yaml:"meters"`
	} `yaml:"pairs"`
}

// TableProvider serves precomputed travel times keyed by location id.
// Pairs missing from the table fail permanently.
type TableProvider struct {
	m map[string]ports.DistanceResult
}

// LoadTableProvider reads a YAML travel table from path.
func LoadTableProvider(path string) (*TableProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load travel table: %w", err)
	}
	defer f.Close()

	p, err := NewTableProvider(f)
	if err != nil {
		return nil, fmt.Errorf("load travel table %q: %w", path, err)
	}
	return p, nil
}

func NewTableProvider(r io.Reader) (*TableProvider, error) {
	var t travelTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode travel table: %w", err)
	}

	m := make(map[string]ports.DistanceResult, len(t.Pairs))
	for i, p := range t.Pairs {
		if p.From == "" || p.To == "" {
			return nil, fmt.Errorf("travel table pair %d: from and to are required", i)
		}
		if p.Minutes < 0 || p.Meters < 0 {
			return nil, fmt.Errorf("travel table pair %q -> %q: values must be non-negative", p.From, p.To)
		}

		r := ports.DistanceResult{
			DistanceMeters:  int(math.Round(p.Meters)),
			DurationSeconds: int(math.Round(p.Minutes * 60)),
		}
		m[p.From+"|"+p.To] = r
		if t.Symmetric {
			if _, ok := m[p.To+"|"+p.From]; !ok {
				m[p.To+"|"+p.From] = r
			}
		}
	}

	return &TableProvider{m: m}, nil
}

func (p *TableProvider) GetDistance(ctx context.Context, origin, destination domain.Location) (ports.DistanceResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	r, ok := p.m[origin.ID+"|"+destination.ID]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("travel table has no entry %q -> %q: %w", origin.ID, destination.ID, ports.ErrPermanent)
	}
	return r, nil
}

// Len returns the number of directed entries.
func (p *TableProvider) Len() int { return len(p.m) }
