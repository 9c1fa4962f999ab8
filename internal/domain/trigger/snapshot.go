package trigger

// EffectState is the observed state of one active timed effect.
type EffectState struct {
	Remaining float64 `json:"remaining"`
	Stacks    int     `json:"stacks"`
}

// Snapshot is the telemetry visible during a single tick. Values are only
// valid for that tick and must not be cached by callers.
type Snapshot interface {
	// Effect returns the state of an active timed effect.
	Effect(key uint32) (EffectState, bool)
	// Recast reports whether the ability recast is running and the time
	// elapsed since it started.
	Recast(key uint32) (elapsed float64, active bool)
}

// Frame is a materialized snapshot as delivered by the telemetry feed.
type Frame struct {
	ID      string                 `json:"id"`
	Effects map[uint32]EffectState `json:"effects,omitempty"`
	Recasts map[uint32]float64     `json:"recasts,omitempty"`
}

var _ Snapshot = Frame{}

// Effect implements Snapshot.
func (f Frame) Effect(key uint32) (EffectState, bool) {
	st, ok := f.Effects[key]
	if !ok {
		return EffectState{}, false
	}
	if st.Remaining < 0 {
		st.Remaining = 0
	}
	if st.Stacks < 0 {
		st.Stacks = 0
	}
	return st, true
}

// Recast implements Snapshot.
func (f Frame) Recast(key uint32) (float64, bool) {
	elapsed, ok := f.Recasts[key]
	if !ok {
		return 0, false
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, true
}

// Empty is a snapshot with nothing active.
var Empty Snapshot = Frame{}
