// Package charge evaluates a single gauge part against a telemetry snapshot.
package charge

import (
	"math"
	"strconv"

	"github.com/okian/chargegauge/internal/domain/model"
	"github.com/okian/chargegauge/internal/domain/trigger"
)

// Result is the part-local outcome of one evaluation.
type Result struct {
	// Matched is true when one of the part's triggers was active.
	Matched bool
	// Trigger is the trigger that matched, zero when none did.
	Trigger trigger.ID
	// Fraction is the bar fill in [0,1] when matched.
	Fraction float64
	// Seconds is the rounded remaining time shown as the bar label.
	Seconds int
	// Diamonds is the number of lit slots in [0, MaxCharges].
	Diamonds int
}

// Label renders Seconds as shown on the bar.
func (r Result) Label() string { return strconv.Itoa(r.Seconds) }

// Evaluate resolves the part's triggers in declared order, stopping at the
// first active one. It never fails: an unmatched part reports its idle
// diamond value (full for recasts, empty for effects).
func Evaluate(p model.Part, snap trigger.Snapshot) Result {
	id, st, ok := trigger.First(p.Triggers, snap)
	if !ok {
		return Result{Diamonds: idleDiamonds(p)}
	}

	switch id.Kind {
	case trigger.Effect:
		return Result{
			Matched:  true,
			Trigger:  id,
			Fraction: ratio(st.Time, p.Duration),
			Seconds:  roundSeconds(st.Time),
			Diamonds: clampCharges(st.Stacks, p.MaxCharges),
		}
	case trigger.Recast:
		// CD > 0 is guaranteed by model.Definition.Validate.
		cycle := math.Mod(st.Time, p.CD)
		return Result{
			Matched:  true,
			Trigger:  id,
			Fraction: ratio(cycle, p.CD),
			Seconds:  roundSeconds(p.CD - cycle),
			Diamonds: clampCharges(int(math.Floor(st.Time/p.CD)), p.MaxCharges),
		}
	default:
		return Result{Diamonds: idleDiamonds(p)}
	}
}

func idleDiamonds(p model.Part) int {
	if p.Kind() == trigger.Recast {
		return clampCharges(p.MaxCharges, p.MaxCharges)
	}
	return 0
}

func ratio(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, v/total))
}

// roundSeconds rounds half to even, the host's default rounding mode.
func roundSeconds(v float64) int {
	return int(math.RoundToEven(v))
}

func clampCharges(v, limit int) int {
	if limit < 0 {
		limit = 0
	}
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
