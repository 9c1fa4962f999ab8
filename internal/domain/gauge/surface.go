package gauge

import (
	"context"

	"github.com/okian/chargegauge/internal/domain/model"
)

// Surface is the capability set a display variant exposes to the engine.
// Variants that lack a bar or diamonds ignore the calls they cannot show;
// the engine never inspects which variant it is talking to.
type Surface interface {
	SetPercent(fraction float64)
	SetText(text string)
	SetColor(c model.Color)
	SetDiamondValue(value, start, length int)
	SetDiamondColor(c model.Color, start, length int)
	SetDiamondCapacity(total int)
}

// SurfaceFactory builds the surface for a visual type. It is called on
// construction and on every rebuild.
type SurfaceFactory func(t model.VisualType) Surface

// Notifier receives the one-shot "gauge became full" signal.
type Notifier interface {
	GaugeFull(ctx context.Context, gauge string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, gauge string)

// GaugeFull implements Notifier.
func (f NotifierFunc) GaugeFull(ctx context.Context, gauge string) { f(ctx, gauge) }

// PreferenceStore is the configuration store: it supplies overrides at
// construction and receives a write after every option edit.
type PreferenceStore interface {
	Load(ctx context.Context, gauge string) (model.Preferences, bool, error)
	Save(ctx context.Context, gauge string, p model.Preferences) error
}

type discard struct{}

func (discard) SetPercent(float64)                    {}
func (discard) SetText(string)                        {}
func (discard) SetColor(model.Color)                  {}
func (discard) SetDiamondValue(int, int, int)         {}
func (discard) SetDiamondColor(model.Color, int, int) {}
func (discard) SetDiamondCapacity(int)                {}

// Discard is a Surface that drops every update.
var Discard Surface = discard{}
