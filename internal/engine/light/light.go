// Package light implements the single directional light and the
// light-space matrix used by the shadow pass.
package light

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/pkg/math"
)

// Near is the distance of the light frustum's near plane from its eye.
const Near = 0.01

// DefaultDirection points up and slightly behind-left, toward the sun.
var DefaultDirection = math.Vec3{X: -5, Y: 10, Z: 4}

// ViewVolume is the reference volume the light frustum is fitted to.
// *camera.Camera satisfies it.
type ViewVolume interface {
	ViewBoundSphere() bounds.Sphere
}

// Light is a directional light with an orthographic shadow frustum.
type Light struct {
	direction math.Vec3
	position  math.Vec3
	fitted    bounds.Sphere

	projView math.Mat4

	// inverse half extents of the clip box, for the culling test
	invHalfX, invHalfY, invHalfDepth float32
}

// New returns a light shining from direction (the vector toward the
// light). The frustum is fitted to a unit sphere at the origin until
// AdaptToCamera is called.
func New(direction math.Vec3) *Light {
	l := &Light{direction: direction.Normalize()}
	l.fit(bounds.Sphere{Radius: 1})
	return l
}

// AdaptToCamera refits the frustum to the viewer's bound sphere.
// Calling it again with an unchanged viewer produces the same matrix.
func (l *Light) AdaptToCamera(v ViewVolume) {
	s := v.ViewBoundSphere()
	if s == l.fitted {
		return
	}
	l.fit(s)
}

func (l *Light) fit(s bounds.Sphere) {
	r := s.Radius
	far := 2 * r

	proj := math.Ortho(-r, r, -r, r, Near, far)
	l.position = s.Center.Add(l.direction.Scale(r))

	up := math.Vec3{Y: 1}
	if math32.Abs(l.direction.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	l.projView = proj.Mul(math.LookAt(l.position, s.Center, up))

	l.invHalfX = 1 / r
	l.invHalfY = 1 / r
	l.invHalfDepth = 2 / (far - Near)
	l.fitted = s
}

// IsSphereBoundVisible tests s against the light's clip box. It is looser
// than the camera's cone test.
func (l *Light) IsSphereBoundVisible(s bounds.Sphere) bool {
	c := l.projView.MulPoint(s.Center)
	return math32.Abs(c.X)-s.Radius*l.invHalfX <= 1 &&
		math32.Abs(c.Y)-s.Radius*l.invHalfY <= 1 &&
		math32.Abs(c.Z)-s.Radius*l.invHalfDepth <= 1
}

// Direction returns the normalized vector toward the light.
func (l *Light) Direction() math.Vec3 { return l.direction }

// Position returns the eye of the shadow frustum.
func (l *Light) Position() math.Vec3 { return l.position }

// ProjectionView returns the light-space matrix.
func (l *Light) ProjectionView() math.Mat4 { return l.projView }

// DirectionFromAngles converts a sun longitude (around Y, degrees) and
// latitude (elevation above the horizon, degrees) to a direction toward
// the sun.
func DirectionFromAngles(longitude, latitude int32) math.Vec3 {
	lon := float32(longitude) * math.Pi / 180
	lat := float32(latitude) * math.Pi / 180
	sinLon, cosLon := math32.Sincos(lon)
	sinLat, cosLat := math32.Sincos(lat)
	return math.Vec3{X: cosLat * sinLon, Y: sinLat, Z: cosLat * cosLon}
}
