// Package bounds holds the axis-aligned boxes and spheres used for culling.
package bounds

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// Box is an axis-aligned bounding box in object space.
type Box struct {
	Min, Max math.Vec3
}

// BoxFromPoints returns the smallest box containing every xyz triple in
// positions. An empty slice yields the zero box.
func BoxFromPoints(positions []float32) Box {
	if len(positions) < 3 {
		return Box{}
	}
	b := Box{Min: math.Vec3From(positions), Max: math.Vec3From(positions)}
	for i := 3; i+2 < len(positions); i += 3 {
		b = b.Extend(math.Vec3From(positions[i:]))
	}
	return b
}

// Extend grows the box to include p.
func (b Box) Extend(p math.Vec3) Box {
	return Box{
		Min: math.Vec3{X: math32.Min(b.Min.X, p.X), Y: math32.Min(b.Min.Y, p.Y), Z: math32.Min(b.Min.Z, p.Z)},
		Max: math.Vec3{X: math32.Max(b.Max.X, p.X), Y: math32.Max(b.Max.Y, p.Y), Z: math32.Max(b.Max.Z, p.Z)},
	}
}

// Center returns the midpoint.
func (b Box) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the per-axis extents.
func (b Box) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// SphereFromBox wraps b in a sphere centered at its midpoint with radius
// (√2/2)·max(dx, dy, dz). The radius is loose for elongated boxes and
// may even under-cover a cube's corners; culling code never treats it as tight.
func SphereFromBox(b Box) Sphere {
	return Sphere{
		Center: b.Center(),
		Radius: math.Sqrt2 * 0.5 * b.Size().MaxComponent(),
	}
}

// Transform maps the sphere through model: the center is transformed as a
// point and the radius grows by the largest axis scale.
func (s Sphere) Transform(model math.Mat4) Sphere {
	return Sphere{
		Center: model.MulPoint(s.Center),
		Radius: s.Radius * model.MaxAxisScale(),
	}
}

// Contains reports whether p lies inside or on the sphere.
func (s Sphere) Contains(p math.Vec3) bool {
	d := p.Sub(s.Center)
	return d.Dot(d) <= s.Radius*s.Radius
}
