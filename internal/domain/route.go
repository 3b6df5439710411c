package domain

import "time"

// Provenance tells whether a travel time came from the provider or from the
// straight-line fallback.
type Provenance string

const (
	Measured  Provenance = "measured"
	Estimated Provenance = "estimated"
)

// Represents a single pickup in a van route.
// Minutes are the leg from the previous stop (or the depot), CumulativeMinutes
// the travel time from the depot up to and including this leg.
type RouteStop struct {
	LocationID           string
	Name                 string
	Demand               int
	CumulativePassengers int
	LegMinutes           float64
	CumulativeMinutes    float64
	LegProvenance        Provenance
	ArriveAt             *time.Time
}

// Represents the planned pickup route for a single van.
// EstimatedMinutes is the sum of matrix entries along depot -> stop1 -> ... -> stopN,
// plus ReturnMinutes when the return leg is configured. Dwell time is reported
// separately and never included in EstimatedMinutes.
type Route struct {
	VanID            string
	VanNumber        int
	Capacity         int
	Stops            []RouteStop
	TotalPassengers  int
	EstimatedMinutes float64
	ReturnMinutes    float64
	DwellMinutes     float64
	DepartAt         *time.Time
}

// UnassignedReason explains why a location could not be placed on any van.
type UnassignedReason string

const (
	// No van in the fleet has enough seats for the location on its own.
	ReasonExceedsLargestVan UnassignedReason = "exceeds-largest-van"
	// Some van could seat it, but remaining seats were already taken.
	ReasonFleetCapacityExhausted UnassignedReason = "fleet-capacity-exhausted"
)

type UnassignedLocation struct {
	LocationID string
	Name       string
	Demand     int
	Reason     UnassignedReason
}

// Completion records whether local search reached a local optimum.
type Completion string

const (
	FullyOptimized      Completion = "fully-optimized"
	TimeBudgetExhausted Completion = "time-budget-exhausted"
)

// DegradedEstimatesUsed is reported alongside the completion whenever at least
// one matrix entry fell back to a straight-line estimate.
const DegradedEstimatesUsed = "degraded-estimates-used"

type Status struct {
	Completion        Completion
	DegradedEstimates bool
}

// Flags lists the status as wire strings, completion first.
func (s Status) Flags() []string {
	flags := []string{string(s.Completion)}
	if s.DegradedEstimates {
		flags = append(flags, DegradedEstimatesUsed)
	}
	return flags
}

// RouteResult is the full optimizer output for one request.
type RouteResult struct {
	Routes           []Route
	Unassigned       []UnassignedLocation
	Status           Status
	TotalPassengers  int
	TotalMinutes     float64
	EstimatedEntries int
}
