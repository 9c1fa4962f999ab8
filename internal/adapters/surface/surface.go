// Package surface provides the terminal display variants for charge gauges.
//
// Each variant records what the engine painted and renders it on demand with
// lipgloss. Variants without a bar or without diamonds ignore those calls.
package surface

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/chargegauge/internal/domain/gauge"
	"github.com/okian/chargegauge/internal/domain/model"
)

const (
	defaultBarWidth = 20
	filledCell      = "█"
	emptyCell       = "░"
	litDiamond      = "◆"
	unlitDiamond    = "◇"
	dimColor        = "#4B5563"
)

// Viewer renders a surface as a single terminal line.
type Viewer interface {
	View(width int) string
}

// Slot is one diamond as last painted.
type Slot struct {
	Lit   bool        `json:"lit"`
	Color model.Color `json:"color,omitempty"`
}

// Snapshot is a copy of everything painted on a surface.
type Snapshot struct {
	Type     string      `json:"type"`
	Percent  float64     `json:"percent"`
	Text     string      `json:"text"`
	Color    model.Color `json:"color,omitempty"`
	Diamonds []Slot      `json:"diamonds,omitempty"`
}

// ForType is a gauge.SurfaceFactory. Unknown types get a combo surface.
func ForType(t model.VisualType) gauge.Surface {
	switch t {
	case model.Bar:
		return NewBar()
	case model.Diamond:
		return NewDiamonds()
	default:
		return NewCombo()
	}
}

var _ gauge.SurfaceFactory = ForType

// Bar shows a fill bar with a text label.
type Bar struct {
	mu      sync.RWMutex
	percent float64
	text    string
	color   model.Color
}

// NewBar creates an empty bar surface.
func NewBar() *Bar { return &Bar{} }

func (b *Bar) SetPercent(fraction float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.percent = clamp01(fraction)
}

func (b *Bar) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

func (b *Bar) SetColor(c model.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.color = c
}

func (b *Bar) SetDiamondValue(int, int, int)         {}
func (b *Bar) SetDiamondColor(model.Color, int, int) {}
func (b *Bar) SetDiamondCapacity(int)                {}

// Snapshot returns what was last painted.
func (b *Bar) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{Type: model.Bar.String(), Percent: b.percent, Text: b.text, Color: b.color}
}

// View renders the bar over width cells followed by the label.
func (b *Bar) View(width int) string {
	s := b.Snapshot()
	return renderBar(s, width)
}

// Diamonds shows one glyph per charge.
type Diamonds struct {
	mu    sync.RWMutex
	slots []Slot
}

// NewDiamonds creates a diamond surface with no capacity.
func NewDiamonds() *Diamonds { return &Diamonds{} }

func (d *Diamonds) SetPercent(float64)   {}
func (d *Diamonds) SetText(string)       {}
func (d *Diamonds) SetColor(model.Color) {}

// SetDiamondCapacity resizes the row, dropping everything painted so far.
func (d *Diamonds) SetDiamondCapacity(total int) {
	if total < 0 {
		total = 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots = make([]Slot, total)
}

// SetDiamondValue lights the first value slots of [start, start+length)
// and clears the rest of that range.
func (d *Diamonds) SetDiamondValue(value, start, length int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < length; i++ {
		idx := start + i
		if idx < 0 || idx >= len(d.slots) {
			continue
		}
		d.slots[idx].Lit = i < value
	}
}

// SetDiamondColor colors [start, start+length).
func (d *Diamonds) SetDiamondColor(c model.Color, start, length int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < length; i++ {
		idx := start + i
		if idx < 0 || idx >= len(d.slots) {
			continue
		}
		d.slots[idx].Color = c
	}
}

// Snapshot returns what was last painted.
func (d *Diamonds) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{Type: model.Diamond.String(), Diamonds: append([]Slot(nil), d.slots...)}
}

// Lit returns how many diamonds are lit.
func (d *Diamonds) Lit() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, s := range d.slots {
		if s.Lit {
			n++
		}
	}
	return n
}

// View renders the diamond row. Width is ignored.
func (d *Diamonds) View(int) string {
	return renderDiamonds(d.Snapshot().Diamonds)
}

// Combo shows a bar with the diamond row beneath the label.
type Combo struct {
	*Bar
	*Diamonds
}

// NewCombo creates an empty bar-and-diamonds surface.
func NewCombo() *Combo {
	return &Combo{Bar: NewBar(), Diamonds: NewDiamonds()}
}

func (c *Combo) SetPercent(fraction float64) { c.Bar.SetPercent(fraction) }
func (c *Combo) SetText(text string)         { c.Bar.SetText(text) }
func (c *Combo) SetColor(col model.Color)    { c.Bar.SetColor(col) }
func (c *Combo) SetDiamondValue(value, start, length int) {
	c.Diamonds.SetDiamondValue(value, start, length)
}
func (c *Combo) SetDiamondColor(col model.Color, start, length int) {
	c.Diamonds.SetDiamondColor(col, start, length)
}
func (c *Combo) SetDiamondCapacity(total int) { c.Diamonds.SetDiamondCapacity(total) }

// Snapshot merges the bar and diamond state.
func (c *Combo) Snapshot() Snapshot {
	s := c.Bar.Snapshot()
	s.Type = model.BarDiamondCombo.String()
	s.Diamonds = c.Diamonds.Snapshot().Diamonds
	return s
}

// View renders the bar followed by the diamond row.
func (c *Combo) View(width int) string {
	s := c.Snapshot()
	return renderBar(s, width) + " " + renderDiamonds(s.Diamonds)
}

func renderBar(s Snapshot, width int) string {
	if width <= 0 {
		width = defaultBarWidth
	}
	filled := int(s.Percent*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(string(s.Color)))
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor))
	label := lipgloss.NewStyle().Bold(true).Width(3).Align(lipgloss.Right)

	return fill.Render(strings.Repeat(filledCell, filled)) +
		empty.Render(strings.Repeat(emptyCell, width-filled)) +
		" " + label.Render(s.Text)
}

func renderDiamonds(slots []Slot) string {
	var b strings.Builder
	unlit := lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor))
	for _, s := range slots {
		if s.Lit {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(string(s.Color))).Render(litDiamond))
			continue
		}
		b.WriteString(unlit.Render(unlitDiamond))
	}
	return b.String()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
