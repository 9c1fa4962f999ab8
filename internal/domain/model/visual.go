package model

import (
	"fmt"
	"strings"
)

// VisualType selects how a gauge is displayed.
type VisualType uint8

// Visual types supported by charge gauges.
const (
	Bar VisualType = iota + 1
	Diamond
	BarDiamondCombo
)

var visualNames = map[VisualType]string{
	Bar:             "bar",
	Diamond:         "diamond",
	BarDiamondCombo: "bar_diamond_combo",
}

// String returns the configuration name of the visual type.
func (v VisualType) String() string {
	if name, ok := visualNames[v]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether v is a known visual type.
func (v VisualType) Valid() bool {
	_, ok := visualNames[v]
	return ok
}

// HasBar reports whether the display shows a bar.
func (v VisualType) HasBar() bool { return v == Bar || v == BarDiamondCombo }

// HasDiamonds reports whether the display shows diamonds.
func (v VisualType) HasDiamonds() bool { return v == Diamond || v == BarDiamondCombo }

// ParseVisualType accepts the configuration names, case-insensitive.
func ParseVisualType(s string) (VisualType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	if norm == "combo" {
		return BarDiamondCombo, nil
	}
	for v, name := range visualNames {
		if name == norm {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVisualType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (v VisualType) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVisualType, v)
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *VisualType) UnmarshalText(text []byte) error {
	parsed, err := ParseVisualType(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
