// Package camera provides the perspective viewer and its culling test.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/pkg/math"
)

// Params configures the projection and the shadow reference volume.
type Params struct {
	Aspect      float32
	FovY        float32 // vertical field of view, radians
	Near        float32
	MaxDistance float32
	// ShadowDistance is the radius of the view-bound sphere the light fits
	// its frustum to. It is independent of MaxDistance.
	ShadowDistance float32
}

// DefaultParams returns a 90° camera seeing out to 1000 units.
func DefaultParams(aspect float32) Params {
	return Params{
		Aspect:         aspect,
		FovY:           math.Pi / 2,
		Near:           0.1,
		MaxDistance:    1000,
		ShadowDistance: 12,
	}
}

// Direction is a look direction in turns: 1 is a full revolution.
type Direction struct {
	Yaw   float32
	Pitch float32
}

// Orientation places the camera.
type Orientation struct {
	Position  math.Vec3
	Direction Direction
}

// Camera is a perspective viewer.
type Camera struct {
	params      Params
	orientation Orientation

	projection  math.Mat4
	view        math.Mat4
	projView    math.Mat4
	invProjView math.Mat4
	viewBound   bounds.Sphere

	// half-angle tangents and cosines of the frustum
	tanH, tanV float32
	cosH, cosV float32
}

// New returns a camera at the origin looking down -Z.
func New(p Params) *Camera {
	c := &Camera{params: p}
	c.updateProjection()
	c.SetOrientation(Orientation{})
	return c
}

func (c *Camera) updateProjection() {
	p := c.params
	c.projection = math.Perspective(p.FovY, p.Aspect, p.Near, p.MaxDistance)
	c.tanV = math32.Tan(p.FovY / 2)
	c.tanH = c.tanV * p.Aspect
	c.cosV = 1 / math32.Sqrt(1+c.tanV*c.tanV)
	c.cosH = 1 / math32.Sqrt(1+c.tanH*c.tanH)
}

// SetAspect updates the projection after a viewport resize.
func (c *Camera) SetAspect(aspect float32) {
	c.params.Aspect = aspect
	c.updateProjection()
	c.SetOrientation(c.orientation)
}

// SetOrientation moves the camera and recomputes every derived matrix and
// the view-bound sphere.
func (c *Camera) SetOrientation(o Orientation) {
	c.orientation = o
	yaw := o.Direction.Yaw * 2 * math.Pi
	pitch := o.Direction.Pitch * 2 * math.Pi

	c.view = math.RotationX(-pitch).
		Mul(math.RotationY(-yaw)).
		Mul(math.Translation(o.Position.Negate()))
	c.projView = c.projection.Mul(c.view)
	c.invProjView, _ = c.projView.Inverse()

	forward := math.RotationY(yaw).Mul(math.RotationX(pitch)).
		MulDirection(math.Vec3{Z: -c.params.ShadowDistance})
	c.viewBound = bounds.Sphere{
		Center: o.Position.Add(forward),
		Radius: c.params.ShadowDistance,
	}
}

// TransformIntoCameraCoords maps a world point into camera space, where the
// camera looks down -Z.
func (c *Camera) TransformIntoCameraCoords(p math.Vec3) math.Vec3 {
	return c.view.MulPoint(p)
}

// IsSphereBoundVisible reports whether s may intersect the view frustum.
// It never rejects a visible sphere; spheres near the frustum corners may
// be accepted even though they are outside.
func (c *Camera) IsSphereBoundVisible(s bounds.Sphere) bool {
	p := c.TransformIntoCameraCoords(s.Center)
	depth := -p.Z
	r := s.Radius

	if depth+r < c.params.Near || depth-r > c.params.MaxDistance {
		return false
	}

	x, y := math32.Abs(p.X), math32.Abs(p.Y)

	// coarse box at the far distance
	if x >= c.tanH*c.params.MaxDistance+r || y >= c.tanV*c.params.MaxDistance+r {
		return false
	}

	if x >= c.tanH*depth+r/c.cosH {
		return false
	}
	if y >= c.tanV*depth+r/c.cosV {
		return false
	}
	return true
}

// ViewBoundSphere returns the sphere the light fits its frustum to.
func (c *Camera) ViewBoundSphere() bounds.Sphere { return c.viewBound }

// ProjectionView returns perspective * view.
func (c *Camera) ProjectionView() math.Mat4 { return c.projView }

// InverseProjectionView maps clip space back to world space.
func (c *Camera) InverseProjectionView() math.Mat4 { return c.invProjView }

// Position returns the eye position.
func (c *Camera) Position() math.Vec3 { return c.orientation.Position }

// Orientation returns the last orientation set.
func (c *Camera) Orientation() Orientation { return c.orientation }

// Params returns the projection parameters.
func (c *Camera) Params() Params { return c.params }
