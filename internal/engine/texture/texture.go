// Package texture decodes and generates the RGBA images uploaded as
// diffuse textures and height maps.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type decoder struct {
	format string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

// The tga package registers with image.Decode under an empty magic that
// matches every input, so formats are picked here instead. TGA has no
// magic and is tried last.
var decoders = []decoder{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"bmp", "BM", bmp.Decode},
	{"tga", "", tga.Decode},
}

// Decode reads a PNG, JPEG, BMP or TGA image into RGBA.
func Decode(data []byte) (*image.RGBA, error) {
	for _, d := range decoders {
		if !bytes.HasPrefix(data, []byte(d.magic)) {
			continue
		}
		img, err := d.decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s image: %w", d.format, err)
		}
		if img.Bounds().Empty() {
			return nil, fmt.Errorf("decoding %s image: empty bounds", d.format)
		}
		return ImageToRGBA(img), nil
	}
	return nil, fmt.Errorf("decoding image: %w", image.ErrFormat)
}

// Load decodes the image file at path.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ImageToRGBA converts img to a zero-origin RGBA image. RGBA input with a
// zero origin is returned as is.
func ImageToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// FlipVertical mirrors img top to bottom in place. GL expects the first
// row to be the bottom of the texture.
func FlipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// Fit downscales img so neither side exceeds maxSize, keeping the aspect
// ratio. Smaller images are returned unchanged.
func Fit(img *image.RGBA, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
