package domain

import "strings"

// Represents a passenger pickup point, or the depot when Demand is zero.
// A Location is addressable by coordinates, by a free-form address, or both;
// provider adapters decide which one they use.
type Location struct {
	ID          string
	Name        string
	Address     string
	Coordinates *Coordinates
	Demand      int
}

// PlaceKey identifies the physical place behind a location.
// Two locations with the same key are the same point for travel-time purposes.
func (l Location) PlaceKey() string {
	if l.Coordinates != nil {
		return "c:" + l.Coordinates.Key()
	}
	return "a:" + NormalizeAddress(l.Address)
}

// NormalizeAddress collapses whitespace and case so cache keys stay consistent.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Label returns the best human-readable reference for logs.
func (l Location) Label() string {
	if l.Name != "" {
		return l.Name
	}
	if l.Address != "" {
		return l.Address
	}
	return l.ID
}
