package api

import (
	"net/http"
	"time"

	"github.com/okian/chargegauge/internal/domain/model"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

type statsDependencies interface {
	StatsProvider
	States() []model.State
}

// StatsHandler serves service counters together with a summary of the
// current job's gauges.
type StatsHandler struct {
	deps    statsDependencies
	started time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps statsDependencies) *StatsHandler {
	return &StatsHandler{deps: deps, started: time.Now()}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	stats := h.deps.GetStats()
	if stats == nil {
		stats = map[string]interface{}{}
	}

	// A gauge at rest has no bar-assigned part this tick.
	atRest := []string{}
	active := 0
	for _, st := range h.deps.States() {
		if st.BarAssigned {
			active++
			continue
		}
		atRest = append(atRest, st.Gauge)
	}
	stats["activeGauges"] = active
	stats["restingGauges"] = atRest
	stats["uptimeSeconds"] = int64(time.Since(h.started).Seconds())

	writeJSON(w, http.StatusOK, stats)
}
