package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck probes one backing dependency, e.g. the geocode cache store.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Health reports liveness plus the state of each dependency. Any failing
// check turns the response into a 503.
func Health(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		res := map[string]string{"status": "ok"}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				res[c.Name] = "unavailable"
				res["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			res[c.Name] = "ok"
		}

		writeJSON(w, r, status, res)
	}
}
