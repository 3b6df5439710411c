package dto

import (
	"time"

	"van-route-service/internal/domain"
)

type CoordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type LocationRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Address     string              `json:"address"`
	Coordinates *CoordinatesRequest `json:"coordinates"`
	Demand      int                 `json:"demand"`
}

type VanRequest struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
}

// RouteRequest is the POST /routes body. ReturnToDepot falls back to the
// server default when omitted.
type RouteRequest struct {
	Depot         LocationRequest   `json:"depot"`
	Vans          []VanRequest      `json:"vans"`
	Locations     []LocationRequest `json:"locations"`
	DepartAt      *time.Time        `json:"depart_at"`
	ReturnToDepot *bool             `json:"return_to_depot"`
}

func (l LocationRequest) toDomain() domain.Location {
	loc := domain.Location{
		ID:      l.ID,
		Name:    l.Name,
		Address: l.Address,
		Demand:  l.Demand,
	}
	if l.Coordinates != nil {
		loc.Coordinates = &domain.Coordinates{Lon: l.Coordinates.Lon, Lat: l.Coordinates.Lat}
	}
	return loc
}

// ToDomain maps the wire request to the optimizer input.
func (r RouteRequest) ToDomain(defaultReturnToDepot bool) domain.RouteRequest {
	out := domain.RouteRequest{
		Depot:         r.Depot.toDomain(),
		Vans:          make([]domain.Van, 0, len(r.Vans)),
		Locations:     make([]domain.Location, 0, len(r.Locations)),
		DepartAt:      r.DepartAt,
		ReturnToDepot: defaultReturnToDepot,
	}
	if r.ReturnToDepot != nil {
		out.ReturnToDepot = *r.ReturnToDepot
	}
	for _, v := range r.Vans {
		out.Vans = append(out.Vans, domain.Van{ID: v.ID, Number: v.Number, Capacity: v.Capacity})
	}
	for _, l := range r.Locations {
		out.Locations = append(out.Locations, l.toDomain())
	}
	return out
}

type RouteStopResponse struct {
	LocationID           string     `json:"location_id"`
	Name                 string     `json:"name,omitempty"`
	Demand               int        `json:"demand"`
	CumulativePassengers int        `json:"cumulative_passengers"`
	LegMinutes           float64    `json:"leg_minutes"`
	CumulativeMinutes    float64    `json:"cumulative_minutes"`
	LegProvenance        string     `json:"leg_provenance"`
	ArriveAt             *time.Time `json:"arrive_at,omitempty"`
}

type RouteResponse struct {
	VanID            string              `json:"van_id"`
	VanNumber        int                 `json:"van_number"`
	Capacity         int                 `json:"capacity"`
	TotalPassengers  int                 `json:"total_passengers"`
	EstimatedMinutes float64             `json:"estimated_minutes"`
	ReturnMinutes    float64             `json:"return_minutes"`
	DwellMinutes     float64             `json:"dwell_minutes"`
	DepartAt         *time.Time          `json:"depart_at,omitempty"`
	Stops            []RouteStopResponse `json:"stops"`
}

type UnassignedResponse struct {
	LocationID string `json:"location_id"`
	Name       string `json:"name,omitempty"`
	Demand     int    `json:"demand"`
	Reason     string `json:"reason"`
}

type RouteResultResponse struct {
	Routes           []RouteResponse      `json:"routes"`
	Unassigned       []UnassignedResponse `json:"unassigned"`
	Status           []string             `json:"status"`
	TotalPassengers  int                  `json:"total_passengers"`
	TotalMinutes     float64              `json:"total_minutes"`
	EstimatedEntries int                  `json:"estimated_entries"`
}

// FromResult maps the optimizer output to the wire response.
func FromResult(res *domain.RouteResult) RouteResultResponse {
	out := RouteResultResponse{
		Routes:           make([]RouteResponse, 0, len(res.Routes)),
		Unassigned:       make([]UnassignedResponse, 0, len(res.Unassigned)),
		Status:           res.Status.Flags(),
		TotalPassengers:  res.TotalPassengers,
		TotalMinutes:     res.TotalMinutes,
		EstimatedEntries: res.EstimatedEntries,
	}

	for _, r := range res.Routes {
		stops := make([]RouteStopResponse, 0, len(r.Stops))
		for _, s := range r.Stops {
			stops = append(stops, RouteStopResponse{
				LocationID:           s.LocationID,
				Name:                 s.Name,
				Demand:               s.Demand,
				CumulativePassengers: s.CumulativePassengers,
				LegMinutes:           s.LegMinutes,
				CumulativeMinutes:    s.CumulativeMinutes,
				LegProvenance:        string(s.LegProvenance),
				ArriveAt:             s.ArriveAt,
			})
		}

		out.Routes = append(out.Routes, RouteResponse{
			VanID:            r.VanID,
			VanNumber:        r.VanNumber,
			Capacity:         r.Capacity,
			TotalPassengers:  r.TotalPassengers,
			EstimatedMinutes: r.EstimatedMinutes,
			ReturnMinutes:    r.ReturnMinutes,
			DwellMinutes:     r.DwellMinutes,
			DepartAt:         r.DepartAt,
			Stops:            stops,
		})
	}

	for _, u := range res.Unassigned {
		out.Unassigned = append(out.Unassigned, UnassignedResponse{
			LocationID: u.LocationID,
			Name:       u.Name,
			Demand:     u.Demand,
			Reason:     string(u.Reason),
		})
	}

	return out
}
