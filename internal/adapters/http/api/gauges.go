package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/chargegauge/internal/app"
	"github.com/okian/chargegauge/internal/domain/gauge"
	"github.com/okian/chargegauge/internal/domain/model"
)

const optionsSuffix = "/options"

// GaugesHandler handles gauge reads and option edits.
type GaugesHandler struct {
	deps GaugeDependencies
}

// NewGaugesHandler creates a new gauges handler.
func NewGaugesHandler(deps GaugeDependencies) *GaugesHandler {
	return &GaugesHandler{deps: deps}
}

type statesResponse struct {
	Gauges []model.State `json:"gauges"`
}

// HandleList handles GET /gauges requests.
func (h *GaugesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, statesResponse{Gauges: h.deps.States()})
}

// HandleGauge handles GET /gauges/{name} and POST /gauges/{name}/options.
func (h *GaugesHandler) HandleGauge(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/gauges/")
	if name, ok := strings.CutSuffix(path, optionsSuffix); ok {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		h.handleOptions(w, r, name)
		return
	}
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	h.handleGet(w, cleanName(path))
}

func (h *GaugesHandler) handleGet(w http.ResponseWriter, gaugeName string) {
	const op = "api.get_gauge"
	if gaugeName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	v, err := h.deps.Gauge(gaugeName)
	if err != nil {
		writeGaugeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *GaugesHandler) handleOptions(w http.ResponseWriter, r *http.Request, gaugeName string) {
	const op = "api.post_gauge_options"
	gaugeName = cleanName(gaugeName)
	if gaugeName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var edit service.OptionEdit
	if err := decodeJSON(w, r, &edit); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.ApplyOptions(r.Context(), gaugeName, edit)
	if err != nil {
		writeGaugeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeGaugeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownGauge):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrInvalidOption):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, gauge.ErrPersist):
		writeError(w, http.StatusInternalServerError, "persist_failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// cleanName rejects nested paths; gauge names never contain a slash.
func cleanName(path string) string {
	path = strings.TrimSpace(path)
	if strings.Contains(path, "/") {
		return ""
	}
	return path
}
