// Package telemetry scripts the effects and ability recasts a game client
// would report and turns them into frames at any point in time.
package telemetry

import (
	"fmt"
	"math"

	"github.com/okian/chargegauge/internal/domain/trigger"
)

// span is one stretch of an effect with a fixed stack count.
type span struct {
	from   float64
	until  float64
	stacks int
}

type effect struct {
	last  float64
	spans []span
}

// use records the recast start implied by one ability use.
type use struct {
	at    float64
	start float64
}

type ability struct {
	cd         float64
	maxCharges int
	uses       []use
}

// full is the elapsed time at which every charge is back.
func (a *ability) full() float64 { return a.cd * float64(a.maxCharges) }

// elapsedAt returns the recast elapsed time at t and whether it is running.
func (a *ability) elapsedAt(t float64) (float64, bool) {
	for i := len(a.uses) - 1; i >= 0; i-- {
		u := a.uses[i]
		if u.at > t {
			continue
		}
		elapsed := t - u.start
		if elapsed >= a.full() {
			return 0, false
		}
		return elapsed, true
	}
	return 0, false
}

// Timeline holds scripted telemetry. Events for one key must be added in
// time order; events for different keys are independent. It is not safe
// for concurrent mutation.
type Timeline struct {
	effects   map[uint32]*effect
	abilities map[uint32]*ability
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{
		effects:   make(map[uint32]*effect),
		abilities: make(map[uint32]*ability),
	}
}

// ApplyEffect starts or refreshes an effect at time at.
func (tl *Timeline) ApplyEffect(at float64, key uint32, duration float64, stacks int) error {
	if duration <= 0 || stacks < 0 {
		return fmt.Errorf("%w: effect %d: duration %v stacks %d", ErrInvalidEvent, key, duration, stacks)
	}
	e, err := tl.effectAt(at, key)
	if err != nil {
		return err
	}
	e.close(at)
	e.spans = append(e.spans, span{from: at, until: at + duration, stacks: stacks})
	return nil
}

// SetStacks changes the stack count of an active effect without touching
// its expiry. Zero stacks removes it.
func (tl *Timeline) SetStacks(at float64, key uint32, stacks int) error {
	if stacks < 0 {
		return fmt.Errorf("%w: effect %d: stacks %d", ErrInvalidEvent, key, stacks)
	}
	e, err := tl.effectAt(at, key)
	if err != nil {
		return err
	}
	cur, ok := e.active(at)
	if !ok {
		return fmt.Errorf("%w: effect %d at %v", ErrNotActive, key, at)
	}
	e.close(at)
	if stacks > 0 {
		e.spans = append(e.spans, span{from: at, until: cur.until, stacks: stacks})
	}
	return nil
}

// RemoveEffect ends an effect early. Removing an inactive effect is a no-op.
func (tl *Timeline) RemoveEffect(at float64, key uint32) error {
	e, err := tl.effectAt(at, key)
	if err != nil {
		return err
	}
	e.close(at)
	return nil
}

// RegisterAbility declares a charged ability. Re-registering resets it.
func (tl *Timeline) RegisterAbility(key uint32, cd float64, maxCharges int) error {
	if cd <= 0 || maxCharges < 1 {
		return fmt.Errorf("%w: ability %d: cd %v charges %d", ErrInvalidEvent, key, cd, maxCharges)
	}
	tl.abilities[key] = &ability{cd: cd, maxCharges: maxCharges}
	return nil
}

// UseAbility spends one charge at time at. With every charge available the
// recast starts one cycle short of full; otherwise it moves back one cycle.
func (tl *Timeline) UseAbility(at float64, key uint32) error {
	a, ok := tl.abilities[key]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAbility, key)
	}
	if n := len(a.uses); n > 0 && at < a.uses[n-1].at {
		return fmt.Errorf("%w: ability %d at %v", ErrOutOfOrder, key, at)
	}

	elapsed, running := a.elapsedAt(at)
	switch {
	case !running:
		elapsed = a.cd * float64(a.maxCharges-1)
	case math.Floor(elapsed/a.cd) < 1:
		return fmt.Errorf("%w: ability %d at %v", ErrNoCharge, key, at)
	default:
		elapsed -= a.cd
	}
	a.uses = append(a.uses, use{at: at, start: at - elapsed})
	return nil
}

// Charges returns how many charges of an ability are available at t.
func (tl *Timeline) Charges(t float64, key uint32) (int, error) {
	a, ok := tl.abilities[key]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownAbility, key)
	}
	elapsed, running := a.elapsedAt(t)
	if !running {
		return a.maxCharges, nil
	}
	return int(math.Floor(elapsed / a.cd)), nil
}

// FrameAt materializes the telemetry visible at time t. The frame id is
// left empty.
func (tl *Timeline) FrameAt(t float64) trigger.Frame {
	f := trigger.Frame{
		Effects: make(map[uint32]trigger.EffectState),
		Recasts: make(map[uint32]float64),
	}
	for key, e := range tl.effects {
		if s, ok := e.active(t); ok {
			f.Effects[key] = trigger.EffectState{Remaining: s.until - t, Stacks: s.stacks}
		}
	}
	for key, a := range tl.abilities {
		if elapsed, ok := a.elapsedAt(t); ok {
			f.Recasts[key] = elapsed
		}
	}
	return f
}

// End returns the time after which nothing changes any more.
func (tl *Timeline) End() float64 {
	end := 0.0
	for _, e := range tl.effects {
		for _, s := range e.spans {
			end = math.Max(end, s.until)
		}
	}
	for _, a := range tl.abilities {
		if n := len(a.uses); n > 0 {
			end = math.Max(end, a.uses[n-1].start+a.full())
		}
	}
	return end
}

func (tl *Timeline) effectAt(at float64, key uint32) (*effect, error) {
	e, ok := tl.effects[key]
	if !ok {
		e = &effect{last: at}
		tl.effects[key] = e
	}
	if at < e.last {
		return nil, fmt.Errorf("%w: effect %d at %v", ErrOutOfOrder, key, at)
	}
	e.last = at
	return e, nil
}

// active returns the span covering t.
func (e *effect) active(t float64) (span, bool) {
	for i := len(e.spans) - 1; i >= 0; i-- {
		s := e.spans[i]
		if s.from > t {
			continue
		}
		return s, t < s.until
	}
	return span{}, false
}

// close ends the span running at t, if any.
func (e *effect) close(t float64) {
	n := len(e.spans)
	if n == 0 {
		return
	}
	if last := &e.spans[n-1]; last.from <= t && t < last.until {
		last.until = t
	}
}
