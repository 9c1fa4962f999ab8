// Package trigger identifies the telemetry sources a gauge can react to and
// resolves them against a per-tick snapshot.
package trigger

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the two trigger families.
type Kind uint8

// Trigger kinds.
const (
	// Effect is a timed status effect (buff) with a remaining duration and stacks.
	Effect Kind = iota + 1
	// Recast is an ability recast timer observed through its elapsed time.
	Recast
)

const (
	effectPrefix = "effect"
	recastPrefix = "recast"
)

// String returns the textual prefix used in job tables.
func (k Kind) String() string {
	switch k {
	case Effect:
		return effectPrefix
	case Recast:
		return recastPrefix
	default:
		return "unknown"
	}
}

// ID is an immutable trigger identity. Two IDs are equal when both kind and
// key match, so ID is usable as a map key.
type ID struct {
	Kind Kind
	Key  uint32
}

// EffectID returns the identity of a timed effect.
func EffectID(key uint32) ID { return ID{Kind: Effect, Key: key} }

// RecastID returns the identity of an ability recast.
func RecastID(key uint32) ID { return ID{Kind: Recast, Key: key} }

// Valid reports whether the kind is known.
func (id ID) Valid() bool {
	return id.Kind == Effect || id.Kind == Recast
}

// String renders the identity as "effect:<key>" or "recast:<key>".
func (id ID) String() string {
	return id.Kind.String() + ":" + strconv.FormatUint(uint64(id.Key), 10)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidID, id.Kind)
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Parse reads the textual form produced by String.
func Parse(s string) (ID, error) {
	prefix, raw, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	key, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q: %v", ErrInvalidID, s, err)
	}
	switch strings.ToLower(strings.TrimSpace(prefix)) {
	case effectPrefix, "buff":
		return EffectID(uint32(key)), nil
	case recastPrefix, "action":
		return RecastID(uint32(key)), nil
	default:
		return ID{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidID, prefix)
	}
}
