// Package debug builds the overlay figures and captures drawn frames.
package debug

import (
	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/pkg/math"
)

// FigureKind selects the mesh a figure is drawn with.
type FigureKind int

const (
	// FigureSphere is drawn with the radius 0.5 unit sphere.
	FigureSphere FigureKind = iota
	// FigureBox is drawn with the unit cube.
	FigureBox
)

func (k FigureKind) String() string {
	switch k {
	case FigureSphere:
		return "sphere"
	case FigureBox:
		return "box"
	}
	return "unknown"
}

// Figure is one shape in the debug overlay, in world space.
type Figure struct {
	Kind   FigureKind
	Center math.Vec3
	Radius float32   // FigureSphere
	Size   math.Vec3 // FigureBox
}

// SphereFigure wraps a bound sphere.
func SphereFigure(s bounds.Sphere) Figure {
	return Figure{Kind: FigureSphere, Center: s.Center, Radius: s.Radius}
}

// BoxFigure wraps a world-space box, grown by padding on every side.
func BoxFigure(b bounds.Box, padding float32) Figure {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	return Figure{Kind: FigureBox, Center: b.Center(), Size: b.Size().Add(pad.Scale(2))}
}

// Model returns the matrix placing the figure's unit mesh.
func (f Figure) Model() math.Mat4 {
	switch f.Kind {
	case FigureBox:
		return math.Translation(f.Center).Mul(math.Scaling(f.Size))
	default:
		d := f.Radius * 2
		return math.Translation(f.Center).Mul(math.Scaling(math.Vec3{X: d, Y: d, Z: d}))
	}
}

// ShadowPreviewViewport returns the square viewport (x, y, w, h) the
// shadow-map preview is drawn into: the top-left corner, a third of the
// shorter window side.
func ShadowPreviewViewport(width, height int32) [4]int32 {
	size := min(width, height) / 3
	return [4]int32{0, height - size, size, size}
}
