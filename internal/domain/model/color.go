package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Color is a "#RRGGBB" hex color.
type Color string

// Named palette entries used by job tables.
const (
	NoColor   Color = "#000000"
	White     Color = "#FFFFFF"
	Red       Color = "#E3413A"
	Orange    Color = "#F28C28"
	Yellow    Color = "#F2D13B"
	Green     Color = "#5CB85C"
	BlueGreen Color = "#2FB59C"
	LightBlue Color = "#7FC8F8"
	Blue      Color = "#3B7BD9"
	DarkBlue  Color = "#23418C"
	Purple    Color = "#8E5BD8"
	DarkPink  Color = "#C2417D"
)

var palette = map[string]Color{
	"none":       NoColor,
	"white":      White,
	"red":        Red,
	"orange":     Orange,
	"yellow":     Yellow,
	"green":      Green,
	"blue_green": BlueGreen,
	"light_blue": LightBlue,
	"blue":       Blue,
	"dark_blue":  DarkBlue,
	"purple":     Purple,
	"dark_pink":  DarkPink,
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseColor accepts a palette name or a "#RRGGBB" literal.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if hexColor.MatchString(s) {
		return Color(strings.ToUpper(s)), nil
	}
	key := strings.ReplaceAll(strings.ToLower(s), "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	if c, ok := palette[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*c = ""
		return nil
	}
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
