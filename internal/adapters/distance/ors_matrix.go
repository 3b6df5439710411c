package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"van-route-service/internal/domain"
	"van-route-service/internal/ports"
)

// ORS caps the number of locations in one matrix request; a row is split
// into chunks so the origin plus destinations stay under the cap.
const maxMatrixDestinations = 49

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// matrixRow returns one result per destination, in order. Unroutable
// destinations come back nil.
func (o *ORSDistanceProvider) matrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) ([]*ports.DistanceResult, error) {
	out := make([]*ports.DistanceResult, 0, len(destinations))
	for start := 0; start < len(destinations); start += maxMatrixDestinations {
		end := min(start+maxMatrixDestinations, len(destinations))
		chunk, err := o.matrixChunk(ctx, origin, destinations[start:end])
		if err != nil {
			return nil, fmt.Errorf("destinations %d-%d: %w", start, end-1, err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (o *ORSDistanceProvider) matrixChunk(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) ([]*ports.DistanceResult, error) {
	body := matrixRequest{
		Locations:    make([][]float64, 0, len(destinations)+1),
		Sources:      []int{0},
		Destinations: make([]int, len(destinations)),
		Metrics:      []string{"distance", "duration"},
	}
	body.Locations = append(body.Locations, origin.CoordsToList())
	for i, c := range destinations {
		body.Locations = append(body.Locations, c.CoordsToList())
		body.Destinations[i] = i + 1
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	req, err := o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := o.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("matrix request: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}
	if len(mr.Distances) != 1 || len(mr.Durations) != 1 ||
		len(mr.Distances[0]) != len(destinations) || len(mr.Durations[0]) != len(destinations) {
		return nil, fmt.Errorf("matrix response shape mismatch for %d destinations", len(destinations))
	}

	results := make([]*ports.DistanceResult, len(destinations))
	for i := range destinations {
		meters, seconds := mr.Distances[0][i], mr.Durations[0][i]
		// null marks an unroutable pair
		if meters == nil || seconds == nil {
			continue
		}
		results[i] = &ports.DistanceResult{
			DistanceMeters:  int(math.Round(*meters)),
			DurationSeconds: int(math.Round(*seconds)),
		}
	}
	return results, nil
}
