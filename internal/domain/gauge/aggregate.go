// Package gauge aggregates charge parts into the state a gauge shows each
// tick and owns the only state carried between ticks.
package gauge

import (
	"github.com/okian/chargegauge/internal/domain/charge"
	"github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/internal/domain/trigger"
)

const idleLabel = "0"

// Aggregate evaluates every part in declared order. The first matching bar
// part drives the bar; every diamond part appends its slot range in order.
// It is pure: BecameFull is left to the caller, which owns the latch.
func Aggregate(name string, def model.Definition, snap trigger.Snapshot) model.State {
	st := model.State{
		Gauge:    name,
		Label:    idleLabel,
		Diamonds: make([]model.DiamondSlot, 0, len(def.Parts)),
	}

	cursor := 0
	for _, part := range def.Parts {
		res := charge.Evaluate(part, snap)

		if part.Bar && !st.BarAssigned && res.Matched {
			st.BarAssigned = true
			st.Fraction = res.Fraction
			st.Label = res.Label()
		}
		if part.Diamond {
			st.Diamonds = append(st.Diamonds, model.DiamondSlot{
				Value:  res.Diamonds,
				Start:  cursor,
				Length: part.MaxCharges,
			})
			cursor += part.MaxCharges
		}
	}
	return st
}
