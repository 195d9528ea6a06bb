package model

import (
	"fmt"
	"strings"
)

// Color is the active colour of an indicator. Its value is the bit offset of the
// colour's LED inside the indicator's nibble.
type Color uint8

const (
	Green  Color = 0
	Yellow Color = 1
	Red    Color = 2
)

var colorNames = [...]string{
	Green:  "green",
	Yellow: "yellow",
	Red:    "red",
}

// Colors lists every colour in offset order.
func Colors() []Color {
	return []Color{Green, Yellow, Red}
}

func (c Color) Valid() bool {
	return c <= Red
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// ParseColor accepts a colour name in any case.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
