package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"van-route-service/internal/api/dto"
	"van-route-service/internal/domain"
	"van-route-service/internal/platform/obs"

	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds the request body of POST /routes.
const maxBodyBytes = 1 << 20

// RouteOptimizer is the slice of services.Optimizer the handler needs.
type RouteOptimizer interface {
	Optimize(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error)
}

type RouteHandler struct {
	Optimizer            RouteOptimizer
	DefaultReturnToDepot bool
	Log                  logrus.FieldLogger
}

// Optimize decodes a routing request, runs the optimizer and writes the
// per-van routes. Validation problems map to 400, anything else to 500.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RouteRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	res, err := h.Optimizer.Optimize(r.Context(), req.ToDomain(h.DefaultReturnToDepot))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, r, http.StatusBadRequest, verr.Error())
			return
		}

		h.logger().WithField("req_id", obs.RequestID(r.Context())).WithError(err).Error("optimize routes failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromResult(res))
}

func (h *RouteHandler) logger() logrus.FieldLogger {
	if h.Log == nil {
		return logrus.StandardLogger()
	}
	return h.Log
}
