package services

import "time"

// Options tunes one optimizer run. Zero values are replaced by the defaults
// from DefaultOptions, except for the booleans and DwellMinutes.
type Options struct {
	// Travel mode forwarded to the provider cache key (e.g. "driving-car").
	Mode string

	// Matrix building.
	Concurrency     int
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	CallTimeout     time.Duration
	AverageSpeedKPH float64
	FallbackMinutes float64

	// Local improvement.
	MaxIterations int
	ImproveBudget time.Duration

	// Timeout bounds the whole request, matrix building included.
	Timeout time.Duration

	DwellMinutes  float64
	ReturnToDepot bool
}

func DefaultOptions() Options {
	return Options{
		Mode:            "driving-car",
		Concurrency:     5,
		MaxAttempts:     4,
		InitialBackoff:  200 * time.Millisecond,
		MaxBackoff:      2 * time.Second,
		CallTimeout:     10 * time.Second,
		AverageSpeedKPH: 40,
		FallbackMinutes: 30,
		MaxIterations:   1000,
		ImproveBudget:   2 * time.Second,
		Timeout:         30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Mode == "" {
		o.Mode = d.Mode
	}
	if o.Concurrency <= 0 {
		o.Concurrency = d.Concurrency
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = d.InitialBackoff
	}
	if o.MaxBackoff < o.InitialBackoff {
		o.MaxBackoff = max(d.MaxBackoff, o.InitialBackoff)
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = d.CallTimeout
	}
	if o.AverageSpeedKPH <= 0 {
		o.AverageSpeedKPH = d.AverageSpeedKPH
	}
	if o.FallbackMinutes <= 0 {
		o.FallbackMinutes = d.FallbackMinutes
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.ImproveBudget <= 0 {
		o.ImproveBudget = d.ImproveBudget
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.DwellMinutes < 0 {
		o.DwellMinutes = 0
	}
	return o
}
