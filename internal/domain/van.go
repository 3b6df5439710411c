package domain

// A passenger van with a fixed number of seats.
type Van struct {
	ID       string
	Number   int
	Capacity int
}

// Fits reports whether demand more passengers can board given the current load.
func (v Van) Fits(load, demand int) bool {
	return load+demand <= v.Capacity
}
