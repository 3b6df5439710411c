package domain

import (
	"errors"
	"strings"
)

var (
	ErrNoLocations = errors.New("location set must not be empty")
	ErrDuplicateID = errors.New("duplicate id")
)

// ValidationError reports every problem found in a routing request.
// It is the only error class that aborts a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid route request: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}
