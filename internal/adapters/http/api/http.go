// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/chargegauge/internal/adapters/jobs"
	service "github.com/okian/chargegauge/internal/app"
	"github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/internal/domain/trigger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	FrameDependencies
	GaugeDependencies
	JobDependencies
	BoardDependencies
	StatsProvider
}

// FrameDependencies accepts telemetry frames.
type FrameDependencies interface {
	// Enqueue submits a frame for the tick loop. It returns
	// service.ErrQueueFull on backpressure.
	Enqueue(ctx context.Context, f trigger.Frame) (service.Enqueued, error)
}

// GaugeDependencies reads and edits the gauges of the current job.
type GaugeDependencies interface {
	States() []model.State
	Gauge(name string) (service.GaugeView, error)
	ApplyOptions(ctx context.Context, name string, edit service.OptionEdit) (service.OptionResult, error)
}

// JobDependencies reads and switches the current job.
type JobDependencies interface {
	Job() (jobs.Job, bool)
	Jobs() []string
	SetJob(ctx context.Context, id string) error
	ResetJob(ctx context.Context) error
}

// BoardDependencies renders the terminal board.
type BoardDependencies interface {
	Board(width int) string
}

// Server wires HTTP routes for the gauge API.
type Server struct {
	healthHandler  *HealthHandler
	metricsHandler http.Handler
	statsHandler   *StatsHandler
	framesHandler  *FramesHandler
	gaugesHandler  *GaugesHandler
	jobHandler     *JobHandler
	boardHandler   *BoardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		metricsHandler: NewMetricsHandler(),
		statsHandler:   NewStatsHandler(deps),
		framesHandler:  NewFramesHandler(deps),
		gaugesHandler:  NewGaugesHandler(deps),
		jobHandler:     NewJobHandler(deps),
		boardHandler:   NewBoardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.metricsHandler)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/frames", MetricsMiddleware(s.framesHandler.HandlePostFrame, "frames"))
	mux.HandleFunc("/gauges", MetricsMiddleware(s.gaugesHandler.HandleList, "gauges"))
	mux.HandleFunc("/gauges/", MetricsMiddleware(s.gaugesHandler.HandleGauge, "gauge"))
	mux.HandleFunc("/job", MetricsMiddleware(s.jobHandler.HandleJob, "job"))
	mux.HandleFunc("/job/reset", MetricsMiddleware(s.jobHandler.HandleReset, "job_reset"))
	mux.HandleFunc("/board", MetricsMiddleware(s.boardHandler.HandleBoard, "board"))
}

type ackResponse struct {
	Status    string `json:"status"`
	FrameID   string `json:"frame_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
