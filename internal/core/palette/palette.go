// Package palette provides the fixed activity color palette and
// theme-aware color resolution.
package palette

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme selects which variant of a color set is rendered.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Variant is one themed rendering of a color set.
type Variant struct {
	Background string
	Text       string
	Border     string
}

// Set is one palette entry: a hue with light and dark variants.
type Set struct {
	Name  string
	Hue   float64
	Light Variant
	Dark  Variant
}

// Variant returns the set's rendering for the given theme.
func (s Set) Variant(theme Theme) Variant {
	if theme == ThemeDark {
		return s.Dark
	}
	return s.Light
}

// paletteHues is the fixed, ordered palette. Index 0 is the default used
// when a stored color cannot be parsed.
var paletteHues = []struct {
	name string
	hue  float64
}{
	{"green", 120},
	{"blue", 210},
	{"orange", 30},
	{"purple", 280},
	{"red", 0},
	{"cyan", 180},
	{"amber", 45},
	{"lime", 90},
	{"indigo", 240},
	{"pink", 330},
	{"brown", 20},
	{"teal", 165},
}

var sets = buildSets()

func buildSets() []Set {
	out := make([]Set, 0, len(paletteHues))
	for _, p := range paletteHues {
		out = append(out, Set{
			Name: p.name,
			Hue:  p.hue,
			Light: Variant{
				Background: colorful.Hsl(p.hue, 0.90, 0.95).Hex(),
				Text:       colorful.Hsl(p.hue, 0.90, 0.30).Hex(),
				Border:     colorful.Hsl(p.hue, 0.90, 0.40).Hex(),
			},
			Dark: Variant{
				Background: colorful.Hsl(p.hue, 0.70, 0.25).Hex(),
				Text:       colorful.Hsl(p.hue, 0.70, 0.90).Hex(),
				Border:     colorful.Hsl(p.hue, 0.70, 0.40).Hex(),
			},
		})
	}
	return out
}

// Sets returns the full ordered palette.
func Sets() []Set {
	out := make([]Set, len(sets))
	copy(out, sets)
	return out
}

// Len returns the palette size.
func Len() int { return len(sets) }

// At returns the palette entry for a stored color index. Out-of-range
// indexes wrap so older records never fail.
func At(index int) Set {
	if index < 0 {
		index = 0
	}
	return sets[index%len(sets)]
}

// Resolve maps a stored hue-bearing color to the palette entry whose hue
// is circularly closest and returns its variant for the active theme.
// Unparseable colors fall back to the first palette entry.
func Resolve(stored string, theme Theme) Variant {
	c, err := colorful.Hex(stored)
	if err != nil {
		return sets[0].Variant(theme)
	}

	hue, _, _ := c.Hsl()
	return Closest(hue).Variant(theme)
}

// Closest returns the palette entry whose hue is circularly closest to
// the given hue, wrapping around the color wheel (358 degrees is closer
// to 2 than to 330).
func Closest(hue float64) Set {
	best := sets[0]
	smallest := 360.0

	for _, s := range sets {
		diff := math.Abs(s.Hue - hue)
		if wrapped := 360 - diff; wrapped < diff {
			diff = wrapped
		}
		if diff < smallest {
			smallest = diff
			best = s
		}
	}
	return best
}
