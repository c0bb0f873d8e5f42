package imaging

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder

	xdraw "golang.org/x/image/draw"

	"pixelforge/core"
	"pixelforge/palette"
)

// Decode reads a PNG, JPEG, or GIF stream into an Image. Decoded frames are
// normalized to straight-alpha RGBA before conversion so every source format
// lands in the same channel layout.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, core.NewIOError("decode", "image stream", err)
	}
	return FromStdImage(src)
}

// FromStdImage converts a standard library image into an Image with
// channels in [0, 1].
func FromStdImage(src image.Image) (*Image, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, core.NewProcessingError("convert image", "source has no pixels")
	}

	normalized := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(normalized, normalized.Bounds(), src, bounds.Min, xdraw.Src)

	out, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		row := normalized.Pix[y*normalized.Stride:]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+4]
			out.Set(x, y, palette.Color{
				R: float64(p[0]) / 255.0,
				G: float64(p[1]) / 255.0,
				B: float64(p[2]) / 255.0,
				A: float64(p[3]) / 255.0,
			})
		}
	}
	return out, nil
}

// ToStdImage converts img into a straight-alpha NRGBA image for encoding.
func ToStdImage(img *Image) (*image.NRGBA, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := img.At(x, y).Clamp()
			i := y*out.Stride + x*4
			out.Pix[i+0] = channelByte(c.R)
			out.Pix[i+1] = channelByte(c.G)
			out.Pix[i+2] = channelByte(c.B)
			out.Pix[i+3] = channelByte(c.A)
		}
	}
	return out, nil
}

func channelByte(v float64) uint8 {
	return uint8(math.Round(v * 255))
}

// EncodePNG writes img as PNG to w.
func EncodePNG(w io.Writer, img *Image) error {
	std, err := ToStdImage(img)
	if err != nil {
		return err
	}
	if err := png.Encode(w, std); err != nil {
		return core.NewIOError("encode", "png stream", err)
	}
	return nil
}

// EncodePNGBytes returns img encoded as a PNG byte slice.
func EncodePNGBytes(img *Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadFile reads and decodes the image at path.
func LoadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewIOError("read", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, core.NewIOError("decode", path, err)
	}
	return FromStdImage(src)
}

// SaveFile encodes img as PNG and writes it to path.
func SaveFile(path string, img *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return core.NewIOError("write", path, err)
	}
	defer f.Close()

	if err := EncodePNG(f, img); err != nil {
		return core.NewIOError("encode", path, err)
	}
	return nil
}
