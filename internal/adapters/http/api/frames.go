package api

import (
	"errors"
	"net/http"

	service "github.com/okian/chargegauge/internal/app"
	"github.com/okian/chargegauge/internal/domain/trigger"
)

// FramesHandler handles telemetry frame ingestion.
type FramesHandler struct {
	deps FrameDependencies
}

// NewFramesHandler creates a new frames handler
func NewFramesHandler(deps FrameDependencies) *FramesHandler {
	return &FramesHandler{deps: deps}
}

// HandlePostFrame handles POST /frames requests
func (h *FramesHandler) HandlePostFrame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_frame"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var f trigger.Frame
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Enqueue(r.Context(), f)
	switch {
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	if res.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", FrameID: res.FrameID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", FrameID: res.FrameID})
}
