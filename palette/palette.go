// Package palette provides color palettes with nearest-color search.
//
// A Palette is an ordered list of reference colors. Pixel-art generation
// conforms every image to one of these palettes, so lookup must be stable:
// for a given query color the same palette always returns the same entry.
package palette

import (
	"pixelforge/core"
)

// Color is a four-channel color with each channel in [0, 1].
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// Clamp returns c with every channel clamped to [0, 1].
func (c Color) Clamp() Color {
	return Color{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
		A: clamp01(c.A),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Palette is an ordered, immutable set of reference colors.
// Order matters: nearest-color ties are broken by first occurrence.
type Palette struct {
	Name   string
	Colors []Color
}

// New returns a Palette with the given name and colors. The color slice is
// copied so later mutation of the argument cannot change the palette.
func New(name string, colors []Color) *Palette {
	owned := make([]Color, len(colors))
	copy(owned, colors)
	return &Palette{Name: name, Colors: owned}
}

// Validate checks that the palette is usable for conformance.
// Construction deliberately does not enforce this; callers validate at the
// point of use so partially built palettes can exist during editing.
func (p *Palette) Validate() error {
	if p == nil {
		return core.NewValidationError("palette", "palette is nil")
	}
	if p.Name == "" {
		return core.NewValidationError("palette.name", "must not be empty")
	}
	if len(p.Colors) == 0 {
		return core.NewValidationError("palette.colors", "must not be empty")
	}
	return nil
}

// FindNearest returns the palette color closest to c by Euclidean distance
// in RGB space. Alpha is ignored. Ties are broken by palette order, so the
// result is deterministic for a given palette.
func (p *Palette) FindNearest(c Color) (Color, error) {
	if p == nil || len(p.Colors) == 0 {
		return Color{}, &core.NotFoundError{Resource: "palette color", Reason: "empty palette"}
	}

	best := p.Colors[0]
	bestDist := distanceSquared(c, best)
	for _, candidate := range p.Colors[1:] {
		// Strict less-than keeps the first occurrence on ties.
		if d := distanceSquared(c, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, nil
}

// distanceSquared is the squared Euclidean RGB distance. The square root is
// monotonic so comparisons on squared distances pick the same winner.
func distanceSquared(a, b Color) float64 {
	dr := a.R - b.R
	dg := a.G - b.G
	db := a.B - b.B
	return dr*dr + dg*dg + db*db
}
