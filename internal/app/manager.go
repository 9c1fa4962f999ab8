package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/chargegauge/internal/adapters/jobs"
	"github.com/okian/chargegauge/internal/adapters/surface"
	"github.com/okian/chargegauge/internal/domain/gauge"
	"github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/internal/domain/trigger"
	"github.com/okian/chargegauge/pkg/logger"
	"github.com/okian/chargegauge/pkg/metrics"
)

// GaugeView is a read-only copy of one gauge.
type GaugeView struct {
	Name          string           `json:"name"`
	State         model.State      `json:"state"`
	Definition    model.Definition `json:"definition"`
	PartColors    []model.Color    `json:"part_colors"`
	TotalDiamonds int              `json:"total_diamonds"`
	Surface       *surface.Snapshot `json:"surface,omitempty"`
}

// Rejected records a gauge of the current job whose definition failed validation.
type Rejected struct {
	Gauge  string `json:"gauge"`
	Reason string `json:"reason"`
}

// OptionEdit carries the option changes of one request. Nil fields are left alone.
type OptionEdit struct {
	BarColor      *model.Color      `json:"bar_color,omitempty"`
	VisualType    *model.VisualType `json:"visual_type,omitempty"`
	NoSoundOnFull *bool             `json:"no_sound_on_full,omitempty"`
}

// OptionResult reports what an edit changed.
type OptionResult struct {
	PartColors []model.Color `json:"part_colors,omitempty"`
	Gauge      GaugeView     `json:"gauge"`
}

// Manager owns the gauges of the current job. Ticks, option edits and job
// switches are serialized by its lock, so a gauge never sees an edit in the
// middle of a tick.
type Manager struct {
	mu sync.Mutex

	tables   *jobs.Table
	store    gauge.PreferenceStore
	factory  gauge.SurfaceFactory
	notifier gauge.Notifier

	job      jobs.Job
	hasJob   bool
	gauges   []*gauge.Gauge
	rejected []Rejected
	ticks    int64

	logger logger.Logger
}

// NewManager creates a manager with no job selected.
func NewManager(tables *jobs.Table, opts ...ManagerOption) *Manager {
	m := &Manager{
		tables:  tables,
		factory: surface.ForType,
		logger:  logger.Get().Named("manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetJob tears down the current gauges and builds the gauges of job id.
// Gauges whose definition is invalid are logged and skipped; the rest of
// the job keeps working.
func (m *Manager) SetJob(ctx context.Context, id string) error {
	job, err := m.tables.Job(id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownJob, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.build(ctx, job)
}

// ResetJob rebuilds the current job from the tables and stored preferences.
func (m *Manager) ResetJob(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasJob {
		return ErrNoJob
	}
	job, err := m.tables.Job(m.job.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownJob, err)
	}
	return m.build(ctx, job)
}

func (m *Manager) build(ctx context.Context, job jobs.Job) error {
	built := make([]*gauge.Gauge, 0, len(job.Gauges))
	var rejected []Rejected

	for _, entry := range job.Gauges {
		g, err := gauge.New(ctx, entry.Name, entry.Definition,
			gauge.WithSurfaceFactory(m.factory),
			gauge.WithPreferenceStore(m.store),
			gauge.WithNotifier(m.notifier),
		)
		if errors.Is(err, model.ErrInvalidDefinition) {
			metrics.RecordGaugeConfigError(entry.Name)
			m.logger.Error(ctx, "gauge definition rejected",
				logger.String("job", job.ID),
				logger.String("gauge", entry.Name),
				logger.Error(err),
			)
			rejected = append(rejected, Rejected{Gauge: entry.Name, Reason: err.Error()})
			continue
		}
		if err != nil {
			return fmt.Errorf("build %s/%s: %w", job.ID, entry.Name, err)
		}
		m.logger.Debug(ctx, "gauge built", logger.String("gauge", g.String()))
		built = append(built, g)
	}

	m.job = job
	m.hasJob = true
	m.gauges = built
	m.rejected = rejected
	metrics.UpdateActiveGauges(len(built))
	m.logger.Info(ctx, "job selected",
		logger.String("job", job.ID),
		logger.Int("gauges", len(built)),
		logger.Int("rejected", len(rejected)),
	)
	return nil
}

// Tick applies one snapshot to every gauge in table order.
func (m *Manager) Tick(ctx context.Context, snap trigger.Snapshot) []model.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	states := make([]model.State, len(m.gauges))
	for i, g := range m.gauges {
		states[i] = g.Tick(ctx, snap)
	}
	m.ticks++
	return states
}

// Job returns the current job, if any.
func (m *Manager) Job() (jobs.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.job, m.hasJob
}

// Jobs lists the ids known to the tables.
func (m *Manager) Jobs() []string {
	return m.tables.IDs()
}

// Ticks returns the number of snapshots applied.
func (m *Manager) Ticks() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

// Rejected lists the gauges of the current job that failed validation.
func (m *Manager) Rejected() []Rejected {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Rejected(nil), m.rejected...)
}

// States returns the last emitted state of every gauge.
func (m *Manager) States() []model.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.State, len(m.gauges))
	for i, g := range m.gauges {
		out[i] = g.Last()
	}
	return out
}

// Gauge returns a view of the named gauge.
func (m *Manager) Gauge(name string) (GaugeView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.lookup(name)
	if err != nil {
		return GaugeView{}, err
	}
	return view(g), nil
}

// Gauges returns a view of every gauge in table order.
func (m *Manager) Gauges() []GaugeView {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GaugeView, len(m.gauges))
	for i, g := range m.gauges {
		out[i] = view(g)
	}
	return out
}

// ApplyOptions applies an edit to the named gauge. Each changed option is
// persisted by the gauge; a visual type change also rebuilds it.
func (m *Manager) ApplyOptions(ctx context.Context, name string, edit OptionEdit) (OptionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.lookup(name)
	if err != nil {
		return OptionResult{}, err
	}
	if edit.BarColor == nil && edit.VisualType == nil && edit.NoSoundOnFull == nil {
		return OptionResult{}, fmt.Errorf("%w: nothing to change", ErrInvalidOption)
	}
	// Reject obviously bad values before anything is applied.
	if edit.BarColor != nil && *edit.BarColor == "" {
		return OptionResult{}, fmt.Errorf("%w: bar_color: %w", ErrInvalidOption, gauge.ErrInvalidColor)
	}
	if edit.VisualType != nil && !edit.VisualType.Valid() {
		return OptionResult{}, fmt.Errorf("%w: visual_type: %w", ErrInvalidOption, model.ErrUnknownVisualType)
	}

	var res OptionResult
	if edit.VisualType != nil {
		if err := g.SetVisualType(ctx, *edit.VisualType); err != nil {
			return OptionResult{}, m.optionError(ctx, name, "visual_type", err)
		}
		metrics.RecordOptionEdit("visual_type")
	}
	if edit.BarColor != nil {
		colors, err := g.SetBarColor(ctx, *edit.BarColor)
		if err != nil {
			return OptionResult{}, m.optionError(ctx, name, "bar_color", err)
		}
		res.PartColors = colors
		metrics.RecordOptionEdit("bar_color")
	}
	if edit.NoSoundOnFull != nil {
		if err := g.SetNoSoundOnFull(ctx, *edit.NoSoundOnFull); err != nil {
			return OptionResult{}, m.optionError(ctx, name, "no_sound_on_full", err)
		}
		metrics.RecordOptionEdit("no_sound_on_full")
	}

	res.Gauge = view(g)
	return res, nil
}

func (m *Manager) optionError(ctx context.Context, name, option string, err error) error {
	if errors.Is(err, gauge.ErrPersist) {
		metrics.RecordErrorByComponent("manager", "persist")
		m.logger.Error(ctx, "persisting gauge option failed",
			logger.String("gauge", name),
			logger.String("option", option),
			logger.Error(err),
		)
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidOption, option, err)
}

// Board renders the current job's surfaces as text.
func (m *Manager) Board(width int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make([]surface.Row, len(m.gauges))
	for i, g := range m.gauges {
		rows[i] = surface.Row{Name: g.Name(), Surface: g.Surface()}
	}
	title := ""
	if m.hasJob {
		title = m.job.ID
		if m.job.Name != "" {
			title += " - " + m.job.Name
		}
	}
	return surface.Board{Title: title, Width: width}.Render(rows)
}

func (m *Manager) lookup(name string) (*gauge.Gauge, error) {
	for _, g := range m.gauges {
		if g.Name() == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGauge, name)
}

type snapshotter interface {
	Snapshot() surface.Snapshot
}

func view(g *gauge.Gauge) GaugeView {
	v := GaugeView{
		Name:          g.Name(),
		State:         g.Last(),
		Definition:    g.Definition(),
		PartColors:    g.PartColors(),
		TotalDiamonds: g.TotalDiamonds(),
	}
	if s, ok := g.Surface().(snapshotter); ok {
		snap := s.Snapshot()
		v.Surface = &snap
	}
	return v
}
