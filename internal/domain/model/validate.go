package model

import (
	"fmt"

	"github.com/okian/chargegauge/internal/domain/trigger"
)

// Validate checks the definition before a gauge is built from it. Any
// problem is fatal for the gauge; nothing is validated at tick time.
func (d Definition) Validate(name string) error {
	fail := func(part int, format string, args ...any) error {
		return &ConfigurationError{Gauge: name, Part: part, Reason: fmt.Sprintf(format, args...)}
	}

	if !d.Type.Valid() {
		return fail(-1, "unknown visual type %d", d.Type)
	}
	if len(d.Parts) == 0 {
		return fail(-1, "no parts")
	}
	for i, p := range d.Parts {
		if len(p.Triggers) == 0 {
			return fail(i, "no triggers")
		}
		if p.MaxCharges < 0 {
			return fail(i, "negative max charges %d", p.MaxCharges)
		}
		for _, id := range p.Triggers {
			switch id.Kind {
			case trigger.Effect:
				if p.Bar && p.Duration <= 0 {
					return fail(i, "bar trigger %s needs a positive duration", id)
				}
			case trigger.Recast:
				if p.CD <= 0 {
					return fail(i, "recast trigger %s needs a positive cd", id)
				}
			default:
				return fail(i, "trigger %s has no kind", id)
			}
		}
	}

	total := d.TotalDiamonds()
	if d.Capacity > 0 && d.Capacity != total {
		return fail(-1, "declared capacity %d does not match diamond charges %d", d.Capacity, total)
	}
	if d.Type == Diamond && total == 0 {
		return fail(-1, "diamond display without diamond charges")
	}
	return nil
}
