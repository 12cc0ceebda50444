package texture

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/chewxy/math32"
)

// Checker returns a size×size board of cells×cells alternating squares.
func Checker(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(1, size/max(cells, 1))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Noise returns a tileable grayscale value-noise image for height maps.
// Each octave doubles the lattice frequency and halves the amplitude.
// The same seed always yields the same image.
func Noise(size, octaves int, seed uint64) *image.RGBA {
	octaves = max(octaves, 1)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	heights := make([]float32, size*size)
	amplitude, total := float32(1), float32(0)
	for o := 0; o < octaves; o++ {
		lattice := 4 << o
		values := make([]float32, lattice*lattice)
		for i := range values {
			values[i] = rng.Float32()
		}
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				u := float32(x) * float32(lattice) / float32(size)
				v := float32(y) * float32(lattice) / float32(size)
				heights[y*size+x] += amplitude * sampleLattice(values, lattice, u, v)
			}
		}
		total += amplitude
		amplitude /= 2
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i, h := range heights {
		g := uint8(math32.Round(h / total * 255))
		img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2], img.Pix[i*4+3] = g, g, g, 255
	}
	return img
}

// sampleLattice interpolates the wrapped lattice at (u, v) with a
// smoothstep fade.
func sampleLattice(values []float32, n int, u, v float32) float32 {
	x0, y0 := int(math32.Floor(u)), int(math32.Floor(v))
	fx, fy := smooth(u-float32(x0)), smooth(v-float32(y0))
	x0, y0 = x0%n, y0%n
	x1, y1 := (x0+1)%n, (y0+1)%n

	top := lerp(values[y0*n+x0], values[y0*n+x1], fx)
	bottom := lerp(values[y1*n+x0], values[y1*n+x1], fx)
	return lerp(top, bottom, fy)
}

func smooth(t float32) float32 { return t * t * (3 - 2*t) }

func lerp(a, b, t float32) float32 { return a + (b-a)*t }
