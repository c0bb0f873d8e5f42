// Package imaging provides the deterministic image transformations used by
// the generation pipeline: palette conformance with optional error-diffusion
// dithering, pixelation, and hard-edge upscaling.
//
// All transformations are pure: they validate their inputs, never mutate
// them, and return freshly allocated images. Identical inputs always produce
// identical outputs.
package imaging

import (
	"pixelforge/core"
	"pixelforge/palette"
)

// Image is a 2D grid of colors in row-major order.
// An Image is owned by whichever stage currently holds it; transformations
// return new images rather than writing into their inputs.
type Image struct {
	width  int
	height int
	pix    []palette.Color
}

// New allocates a transparent-black image of the given dimensions.
func New(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, core.NewProcessingError("new image", "dimensions must be positive")
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]palette.Color, width*height),
	}, nil
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// At returns the color at (x, y). Coordinates must be in bounds.
func (img *Image) At(x, y int) palette.Color {
	return img.pix[y*img.width+x]
}

// Set writes the color at (x, y). Coordinates must be in bounds.
func (img *Image) Set(x, y int, c palette.Color) {
	img.pix[y*img.width+x] = c
}

// Validate fails on nil images and images without positive dimensions.
func Validate(img *Image) error {
	if img == nil {
		return core.NewProcessingError("validate image", "image is nil")
	}
	if img.width <= 0 || img.height <= 0 {
		return core.NewProcessingError("validate image", "dimensions must be positive")
	}
	if len(img.pix) != img.width*img.height {
		return core.NewProcessingError("validate image", "pixel buffer does not match dimensions")
	}
	return nil
}

// Clone returns a fully independent deep copy of img.
func Clone(img *Image) (*Image, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	pix := make([]palette.Color, len(img.pix))
	copy(pix, img.pix)
	return &Image{width: img.width, height: img.height, pix: pix}, nil
}

// Equal reports whether two images have identical dimensions and pixels.
func Equal(a, b *Image) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.width != b.width || a.height != b.height {
		return false
	}
	for i := range a.pix {
		if a.pix[i] != b.pix[i] {
			return false
		}
	}
	return true
}

// Fill sets every pixel of img to c. Used by tests and fixtures.
func (img *Image) Fill(c palette.Color) {
	for i := range img.pix {
		img.pix[i] = c
	}
}
