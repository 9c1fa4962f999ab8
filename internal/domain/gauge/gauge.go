package gauge

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/internal/domain/trigger"
)

// ValidVisualTypes lists the display modes a charge gauge supports.
var ValidVisualTypes = []model.VisualType{model.BarDiamondCombo, model.Bar, model.Diamond}

// Gauge is a constructed charge gauge. It is not safe for concurrent use:
// ticks and option edits must be serialized by the owner.
type Gauge struct {
	name  string
	def   model.Definition
	prefs model.Preferences

	factory  SurfaceFactory
	store    PreferenceStore
	notifier Notifier

	surface Surface
	last    model.State

	// wasFull is written once per tick, at the end of Tick, and reset on
	// rebuild. Nothing outside this type reads it.
	wasFull bool
}

// New builds a gauge from its static definition, overlaying stored
// preferences. An invalid definition aborts construction.
func New(ctx context.Context, name string, def model.Definition, opts ...Option) (*Gauge, error) {
	g := &Gauge{
		name:    name,
		factory: func(model.VisualType) Surface { return Discard },
	}
	for _, opt := range opts {
		opt(g)
	}

	effective := def.Clone()
	if g.store != nil {
		prefs, found, err := g.store.Load(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load preferences for %q: %w", name, err)
		}
		if found {
			g.prefs = prefs
			effective = effective.WithPreferences(prefs)
		}
	}
	if err := effective.Validate(name); err != nil {
		return nil, err
	}

	g.def = effective
	g.rebuild()
	return g, nil
}

// Tick aggregates the snapshot, paints the surface, and fires the full
// notification on the active-to-idle edge.
func (g *Gauge) Tick(ctx context.Context, snap trigger.Snapshot) model.State {
	st := Aggregate(g.name, g.def, snap)

	if !st.BarAssigned && !g.wasFull && !g.def.NoSoundOnFull {
		st.BecameFull = true
	}
	g.paintValues(st)
	g.wasFull = !st.BarAssigned
	g.last = st

	if st.BecameFull && g.notifier != nil {
		g.notifier.GaugeFull(ctx, g.name)
	}
	return st
}

// SetBarColor changes the bar color and returns the resulting part color
// assignment.
func (g *Gauge) SetBarColor(ctx context.Context, c model.Color) ([]model.Color, error) {
	if c == "" {
		return nil, ErrInvalidColor
	}
	g.def.BarColor = c
	colors := g.def.PartColors()
	g.paintColors(colors)

	g.prefs.BarColor = c
	return colors, g.persist(ctx)
}

// SetVisualType switches the display mode and rebuilds the gauge, which
// resets the full latch.
func (g *Gauge) SetVisualType(ctx context.Context, t model.VisualType) error {
	if !supported(t) {
		return fmt.Errorf("%w: %s", ErrUnsupportedVisualType, t)
	}
	next := g.def.Clone()
	next.Type = t
	if err := next.Validate(g.name); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedVisualType, err)
	}

	g.def = next
	g.prefs.Type = t
	g.rebuild()
	return g.persist(ctx)
}

// SetNoSoundOnFull toggles suppression of the full notification.
func (g *Gauge) SetNoSoundOnFull(ctx context.Context, suppress bool) error {
	g.def.NoSoundOnFull = suppress
	g.prefs.NoSoundOnFull = &suppress
	return g.persist(ctx)
}

// Name returns the gauge name.
func (g *Gauge) Name() string { return g.name }

// Definition returns a copy of the effective definition.
func (g *Gauge) Definition() model.Definition { return g.def.Clone() }

// PartColors returns the effective part color assignment.
func (g *Gauge) PartColors() []model.Color { return g.def.PartColors() }

// TotalDiamonds is the diamond capacity fixed at construction.
func (g *Gauge) TotalDiamonds() int { return g.def.TotalDiamonds() }

// Last returns the state emitted by the most recent tick.
func (g *Gauge) Last() model.State { return g.last }

// Surface returns the current display surface.
func (g *Gauge) Surface() Surface { return g.surface }

func (g *Gauge) rebuild() {
	g.surface = g.factory(g.def.Type)
	if g.surface == nil {
		g.surface = Discard
	}

	total := g.def.TotalDiamonds()
	g.surface.SetDiamondCapacity(total)
	g.paintColors(g.def.PartColors())

	g.wasFull = true
	g.last = model.State{Gauge: g.name, Label: idleLabel, Diamonds: []model.DiamondSlot{}}
	g.surface.SetPercent(0)
	g.surface.SetText(idleLabel)
	g.surface.SetDiamondValue(0, 0, total)
}

func (g *Gauge) paintColors(colors []model.Color) {
	g.surface.SetColor(g.def.BarColor)
	start := 0
	for i, part := range g.def.Parts {
		if !part.Diamond {
			continue
		}
		g.surface.SetDiamondColor(colors[i], start, part.MaxCharges)
		start += part.MaxCharges
	}
}

func (g *Gauge) paintValues(st model.State) {
	g.surface.SetText(st.Label)
	g.surface.SetPercent(st.Fraction)
	for _, d := range st.Diamonds {
		g.surface.SetDiamondValue(d.Value, d.Start, d.Length)
	}
}

func (g *Gauge) persist(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	if err := g.store.Save(ctx, g.name, g.prefs); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersist, g.name, err)
	}
	return nil
}

func supported(t model.VisualType) bool {
	for _, v := range ValidVisualTypes {
		if v == t {
			return true
		}
	}
	return false
}

// String describes the gauge for logs.
func (g *Gauge) String() string {
	parts := make([]string, len(g.def.Parts))
	for i, p := range g.def.Parts {
		ids := make([]string, len(p.Triggers))
		for j, id := range p.Triggers {
			ids[j] = id.String()
		}
		parts[i] = strings.Join(ids, "|")
	}
	return fmt.Sprintf("%s[%s %s]", g.name, g.def.Type, strings.Join(parts, ","))
}
