package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/chargegauge/internal/adapters/jobs"
	service "github.com/okian/chargegauge/internal/app"
)

// JobHandler handles job reads and switches.
type JobHandler struct {
	deps JobDependencies
}

// NewJobHandler creates a new job handler.
func NewJobHandler(deps JobDependencies) *JobHandler {
	return &JobHandler{deps: deps}
}

type jobRequest struct {
	ID string `json:"id"`
}

type jobResponse struct {
	Job  *jobs.Job `json:"job"`
	Jobs []string  `json:"jobs"`
}

// HandleJob handles GET /job and POST /job requests.
func (h *JobHandler) HandleJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.job"
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req jobRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if strings.TrimSpace(req.ID) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing id")))
			return
		}
		if err := h.deps.SetJob(r.Context(), req.ID); err != nil {
			writeJobError(w, op, err)
			return
		}
	default:
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.current())
}

// HandleReset handles POST /job/reset requests.
func (h *JobHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.job_reset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.ResetJob(r.Context()); err != nil {
		writeJobError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, h.current())
}

func (h *JobHandler) current() jobResponse {
	resp := jobResponse{Jobs: h.deps.Jobs()}
	if job, ok := h.deps.Job(); ok {
		resp.Job = &job
	}
	return resp
}

func writeJobError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownJob), errors.Is(err, service.ErrNoJob):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
