package telemetry

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default_script.toml
var defaultScript []byte

// Script is a TOML description of a timeline.
type Script struct {
	Job       string        `toml:"job"`
	Abilities []AbilitySpec `toml:"ability"`
	Events    []Event       `toml:"event"`
}

// AbilitySpec registers a charged ability.
type AbilitySpec struct {
	Key        uint32  `toml:"key"`
	CD         float64 `toml:"cd"`
	MaxCharges int     `toml:"max_charges"`
}

// Event kinds.
const (
	EventApply  = "apply"
	EventStacks = "stacks"
	EventRemove = "remove"
	EventUse    = "use"
)

// Event is one scripted change.
type Event struct {
	At       float64 `toml:"at"`
	Kind     string  `toml:"kind"`
	Key      uint32  `toml:"key"`
	Duration float64 `toml:"duration"`
	Stacks   int     `toml:"stacks"`
}

// ParseScript decodes a TOML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrParse, strings.Join(keys, ", "))
	}
	return &s, nil
}

// LoadScript reads a TOML script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DefaultScript returns the built-in Black Mage opener.
func DefaultScript() *Script {
	s, err := ParseScript(defaultScript)
	if err != nil {
		panic(fmt.Sprintf("embedded script: %v", err))
	}
	return s
}

// Timeline builds a timeline, applying events in time order. Events at
// the same time keep their declared order.
func (s *Script) Timeline() (*Timeline, error) {
	tl := NewTimeline()
	for _, a := range s.Abilities {
		if err := tl.RegisterAbility(a.Key, a.CD, a.MaxCharges); err != nil {
			return nil, err
		}
	}

	events := append([]Event(nil), s.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	for i, ev := range events {
		var err error
		switch strings.ToLower(ev.Kind) {
		case EventApply:
			err = tl.ApplyEffect(ev.At, ev.Key, ev.Duration, ev.Stacks)
		case EventStacks:
			err = tl.SetStacks(ev.At, ev.Key, ev.Stacks)
		case EventRemove:
			err = tl.RemoveEffect(ev.At, ev.Key)
		case EventUse:
			err = tl.UseAbility(ev.At, ev.Key)
		default:
			err = fmt.Errorf("%w: kind %q", ErrInvalidEvent, ev.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("event %d at %v: %w", i, ev.At, err)
		}
	}
	return tl, nil
}
