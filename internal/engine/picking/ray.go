// Package picking casts camera rays into the scene.
package picking

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/pkg/math"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay unprojects pixel coordinates (origin top-left) through the
// inverse projection-view matrix. The ray starts on the near plane.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invProjView math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := invProjView.MulPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invProjView.MulPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// IntersectSphere returns the distance to the first hit with s. A ray
// starting inside the sphere hits at its exit point.
func (r Ray) IntersectSphere(s bounds.Sphere) (float32, bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	if t := -b - sq; t >= 0 {
		return t, true
	}
	if t := -b + sq; t >= 0 {
		return t, true
	}
	return 0, false
}

// IntersectBox runs the slab test against b. A ray starting inside the
// box hits at its exit point.
func (r Ray) IntersectBox(b bounds.Box) (float32, bool) {
	tmin, tmax := float32(-gomath.MaxFloat32), float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float32{b.Max.X, b.Max.Y, b.Max.Z}

	for i := range 3 {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectPlaneY returns where the ray crosses the horizontal plane at y.
func (r Ray) IntersectPlaneY(y float32) (math.Vec3, bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return math.Vec3{}, false
	}
	t := (y - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}
