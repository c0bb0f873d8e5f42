package imaging

import "pixelforge/core"

// Pixelate downsamples img to width x height by nearest-neighbor sampling:
// each destination pixel copies exactly one source pixel, with no averaging
// or blur, which preserves the hard edges pixel art needs.
func Pixelate(img *Image, width, height int) (*Image, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, core.NewProcessingError("pixelate", "target dimensions must be positive")
	}

	out, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		srcY := clampIndex(y*img.height/height, img.height)
		for x := 0; x < width; x++ {
			srcX := clampIndex(x*img.width/width, img.width)
			out.Set(x, y, img.At(srcX, srcY))
		}
	}
	return out, nil
}

// Upscale enlarges img by an integer factor. Every source pixel becomes a
// solid factor x factor block in the output; no interpolation is applied.
// A factor of 1 returns an independent copy.
func Upscale(img *Image, factor int) (*Image, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	if factor <= 0 {
		return nil, core.NewProcessingError("upscale", "factor must be positive")
	}
	if factor == 1 {
		return Clone(img)
	}

	out, err := New(img.width*factor, img.height*factor)
	if err != nil {
		return nil, err
	}
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := img.At(x, y)
			baseX := x * factor
			baseY := y * factor
			for dy := 0; dy < factor; dy++ {
				for dx := 0; dx < factor; dx++ {
					out.Set(baseX+dx, baseY+dy, c)
				}
			}
		}
	}
	return out, nil
}

// clampIndex keeps integer sampling indexes inside [0, size).
// x*srcW/dstW cannot exceed srcW-1 for in-range x, but the clamp guards the
// boundary arithmetic explicitly.
func clampIndex(i, size int) int {
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
