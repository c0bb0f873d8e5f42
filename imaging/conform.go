package imaging

import (
	"fmt"

	"pixelforge/core"
	"pixelforge/palette"
)

// DitherMode selects the quantization strategy for palette conformance.
type DitherMode int

const (
	// DitherNone replaces each pixel independently with its nearest palette color.
	DitherNone DitherMode = iota
	// DitherFloydSteinberg diffuses quantization error to unprocessed
	// neighbors using the classic 7/16, 3/16, 5/16, 1/16 kernel.
	DitherFloydSteinberg
)

// String returns the human-readable name of the dither mode.
func (m DitherMode) String() string {
	switch m {
	case DitherNone:
		return "none"
	case DitherFloydSteinberg:
		return "floyd-steinberg"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ConformToPalette returns a copy of img in which every pixel is a palette
// color. The output depends only on (img, pal, mode); repeated calls with
// the same inputs produce identical images.
func ConformToPalette(img *Image, pal *palette.Palette, mode DitherMode) (*Image, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	if err := pal.Validate(); err != nil {
		return nil, err
	}

	switch mode {
	case DitherNone:
		return conformNearest(img, pal)
	case DitherFloydSteinberg:
		return conformFloydSteinberg(img, pal)
	default:
		return nil, core.NewProcessingError("conform to palette", fmt.Sprintf("unknown dither mode %d", int(mode)))
	}
}

func conformNearest(img *Image, pal *palette.Palette) (*Image, error) {
	out, err := New(img.width, img.height)
	if err != nil {
		return nil, err
	}
	for i, c := range img.pix {
		nearest, err := pal.FindNearest(c)
		if err != nil {
			return nil, err
		}
		out.pix[i] = nearest
	}
	return out, nil
}

// conformFloydSteinberg processes pixels in raster order. Each pixel is
// quantized to its nearest palette color and the per-channel error
// (working value minus quantized value) is pushed onto the neighbors that
// have not been visited yet:
//
//	          x    7/16
//	3/16    5/16   1/16
//
// Channels are clamped to [0, 1] after each addition; neighbors outside the
// image are skipped. Alpha carries no error.
func conformFloydSteinberg(img *Image, pal *palette.Palette) (*Image, error) {
	work, err := Clone(img)
	if err != nil {
		return nil, err
	}
	out, err := New(img.width, img.height)
	if err != nil {
		return nil, err
	}

	for y := 0; y < work.height; y++ {
		for x := 0; x < work.width; x++ {
			original := work.At(x, y)
			quantized, err := pal.FindNearest(original)
			if err != nil {
				return nil, err
			}
			out.Set(x, y, quantized)

			errR := original.R - quantized.R
			errG := original.G - quantized.G
			errB := original.B - quantized.B

			diffuse(work, x+1, y, errR, errG, errB, 7.0/16.0)
			diffuse(work, x-1, y+1, errR, errG, errB, 3.0/16.0)
			diffuse(work, x, y+1, errR, errG, errB, 5.0/16.0)
			diffuse(work, x+1, y+1, errR, errG, errB, 1.0/16.0)
		}
	}
	return out, nil
}

func diffuse(work *Image, x, y int, errR, errG, errB, weight float64) {
	if x < 0 || x >= work.width || y < 0 || y >= work.height {
		return
	}
	c := work.At(x, y)
	c.R = clamp01(c.R + errR*weight)
	c.G = clamp01(c.G + errG*weight)
	c.B = clamp01(c.B + errB*weight)
	work.Set(x, y, c)
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
