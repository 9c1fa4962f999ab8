// Package model contains the gauge definitions and the per-tick state passed
// between the engine, the stores, and the rendering surfaces.
package model

import "github.com/okian/chargegauge/internal/domain/trigger"

// Part is one configured rule of a charge gauge. Triggers are consulted in
// declared order and the first active one wins.
type Part struct {
	Triggers   []trigger.ID `toml:"triggers" json:"triggers"`
	Duration   float64      `toml:"duration" json:"duration,omitempty"`       // nominal effect duration
	CD         float64      `toml:"cd" json:"cd,omitempty"`                   // recast length of one charge
	Bar        bool         `toml:"bar" json:"bar"`                           // participates in the bar
	Diamond    bool         `toml:"diamond" json:"diamond"`                   // participates in the diamonds
	MaxCharges int          `toml:"max_charges" json:"max_charges,omitempty"` // diamond slots contributed
	Color      Color        `toml:"color" json:"color,omitempty"`
}

// Kind is the declared kind of the part: the kind of its first trigger.
func (p Part) Kind() trigger.Kind {
	if len(p.Triggers) == 0 {
		return 0
	}
	return p.Triggers[0].Kind
}

// Definition is the static description of a charge gauge.
type Definition struct {
	Parts         []Part     `toml:"parts" json:"parts"`
	Type          VisualType `toml:"type" json:"type"`
	BarColor      Color      `toml:"bar_color" json:"bar_color"`
	SameColor     bool       `toml:"same_color" json:"same_color"`
	NoSoundOnFull bool       `toml:"no_sound_on_full" json:"no_sound_on_full"`
	// Capacity optionally declares the total diamond count. Zero means the
	// capacity is derived from the parts.
	Capacity int `toml:"capacity" json:"capacity,omitempty"`
}

// Clone returns a deep copy so the caller owns every slice.
func (d Definition) Clone() Definition {
	out := d
	out.Parts = make([]Part, len(d.Parts))
	for i, p := range d.Parts {
		p.Triggers = append([]trigger.ID(nil), p.Triggers...)
		out.Parts[i] = p
	}
	return out
}

// TotalDiamonds sums MaxCharges across diamond parts.
func (d Definition) TotalDiamonds() int {
	total := 0
	for _, p := range d.Parts {
		if p.Diamond {
			total += p.MaxCharges
		}
	}
	return total
}

// PartColors returns the effective color of every part. With SameColor set
// every part takes the bar color.
func (d Definition) PartColors() []Color {
	colors := make([]Color, len(d.Parts))
	for i, p := range d.Parts {
		if d.SameColor {
			colors[i] = d.BarColor
			continue
		}
		colors[i] = p.Color
	}
	return colors
}

// WithPreferences overlays stored user preferences on a copy of d.
func (d Definition) WithPreferences(p Preferences) Definition {
	out := d.Clone()
	if p.BarColor != "" {
		out.BarColor = p.BarColor
	}
	if p.Type != 0 {
		out.Type = p.Type
	}
	if p.NoSoundOnFull != nil {
		out.NoSoundOnFull = *p.NoSoundOnFull
	}
	return out
}

// Preferences are the user-editable overrides persisted by the
// configuration store. Zero values mean "not set".
type Preferences struct {
	BarColor      Color      `json:"bar_color,omitempty"`
	Type          VisualType `json:"visual_type,omitempty"`
	NoSoundOnFull *bool      `json:"no_sound_on_full,omitempty"`
}

// DiamondSlot describes how many slots of one part's diamond range are lit.
type DiamondSlot struct {
	Value  int `json:"value"`
	Start  int `json:"start"`
	Length int `json:"length"`
}

// State is the per-tick output of a gauge.
type State struct {
	Gauge    string        `json:"gauge"`
	Fraction float64       `json:"fraction"`
	Label    string        `json:"label"`
	Diamonds []DiamondSlot `json:"diamonds"`
	// BarAssigned is true when some part drove the bar this tick.
	BarAssigned bool `json:"bar_assigned"`
	// BecameFull is set on the tick the gauge went idle after being active,
	// unless full notifications are suppressed.
	BecameFull bool `json:"became_full"`
}
