package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"pixelforge/core"
)

// Palettes are stored on disk and in the database as lists of hex strings
// ("#rrggbb"). go-colorful handles the parsing and formatting; alpha is not
// representable in that form and defaults to fully opaque.

// ParseHex converts a "#rrggbb" string into a Color with A = 1.
func ParseHex(s string) (Color, error) {
	parsed, err := colorful.Hex(s)
	if err != nil {
		return Color{}, core.NewValidationError("color", err.Error())
	}
	return Color{R: parsed.R, G: parsed.G, B: parsed.B, A: 1}, nil
}

// Hex formats c as a "#rrggbb" string, dropping alpha.
func (c Color) Hex() string {
	clamped := c.Clamp()
	return colorful.Color{R: clamped.R, G: clamped.G, B: clamped.B}.Hex()
}

// ParseHexList converts a list of hex strings into colors, failing on the
// first malformed entry.
func ParseHexList(hexes []string) ([]Color, error) {
	colors := make([]Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// HexList formats the palette's colors as hex strings in palette order.
func (p *Palette) HexList() []string {
	hexes := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		hexes[i] = c.Hex()
	}
	return hexes
}
