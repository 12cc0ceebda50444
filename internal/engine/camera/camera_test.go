package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/pkg/math"
)

func newTestCamera() *Camera {
	c := New(DefaultParams(1))
	c.SetOrientation(Orientation{Position: math.Vec3{Z: 5}})
	return c
}

func TestIsSphereBoundVisible(t *testing.T) {
	c := newTestCamera()

	tests := []struct {
		name   string
		sphere bounds.Sphere
		want   bool
	}{
		{"origin in front", bounds.Sphere{Radius: 1}, true},
		{"far off to the side", bounds.Sphere{Center: math.Vec3{X: 1000}, Radius: 1}, false},
		{"behind camera", bounds.Sphere{Center: math.Vec3{Z: 10}, Radius: 1}, false},
		{"behind but overlapping near plane", bounds.Sphere{Center: math.Vec3{Z: 6}, Radius: 2}, true},
		{"beyond far plane", bounds.Sphere{Center: math.Vec3{Z: -1100}, Radius: 10}, false},
		{"straddling far plane", bounds.Sphere{Center: math.Vec3{Z: -1000}, Radius: 10}, true},
		{"just outside right edge", bounds.Sphere{Center: math.Vec3{X: 12}, Radius: 1}, false},
		{"touching right edge", bounds.Sphere{Center: math.Vec3{X: 5.5}, Radius: 1}, true},
		{"above", bounds.Sphere{Center: math.Vec3{Y: 20}, Radius: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsSphereBoundVisible(tt.sphere))
		})
	}
}

func TestVisibilityGrowsWithRadius(t *testing.T) {
	c := newTestCamera()
	centers := []math.Vec3{
		{}, {X: 8}, {X: -20, Y: 3}, {Z: 7}, {Y: -40, Z: -30}, {X: 600, Z: -900},
	}
	for _, center := range centers {
		seen := false
		for r := float32(0.1); r < 200; r *= 1.5 {
			v := c.IsSphereBoundVisible(bounds.Sphere{Center: center, Radius: r})
			if seen {
				assert.True(t, v, "center %v: radius %v hid a sphere visible at a smaller radius", center, r)
			}
			seen = seen || v
		}
	}
}

func TestCenterInsideFrustumAlwaysVisible(t *testing.T) {
	c := newTestCamera()
	for _, r := range []float32{0, 0.01, 1, 50, 5000} {
		assert.True(t, c.IsSphereBoundVisible(bounds.Sphere{Center: math.Vec3{X: 1, Y: -1}, Radius: r}), "radius %v", r)
	}
}

func TestMarginGrowsWithDepth(t *testing.T) {
	c := newTestCamera()
	// x = 8 is outside the frustum 5 units away but inside it 15 units away.
	assert.False(t, c.IsSphereBoundVisible(bounds.Sphere{Center: math.Vec3{X: 8, Z: 0}, Radius: 0.5}))
	assert.True(t, c.IsSphereBoundVisible(bounds.Sphere{Center: math.Vec3{X: 8, Z: -10}, Radius: 0.5}))
}

func TestTransformIntoCameraCoords(t *testing.T) {
	c := New(DefaultParams(1))
	c.SetOrientation(Orientation{Position: math.Vec3{X: 1, Y: 2, Z: 3}, Direction: Direction{Yaw: 0.25}})

	// Yaw a quarter turn: the camera looks down -X.
	p := c.TransformIntoCameraCoords(math.Vec3{X: -9, Y: 2, Z: 3})
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
	assert.InDelta(t, -10, p.Z, 1e-4)
}

func TestViewBoundSphere(t *testing.T) {
	c := New(DefaultParams(1.5))

	c.SetOrientation(Orientation{Position: math.Vec3{Y: 1}})
	s := c.ViewBoundSphere()
	assert.InDelta(t, -12, s.Center.Z, 1e-4)
	assert.InDelta(t, 1, s.Center.Y, 1e-4)
	assert.Equal(t, float32(12), s.Radius)

	c.SetOrientation(Orientation{Direction: Direction{Pitch: 0.25}})
	s = c.ViewBoundSphere()
	assert.InDelta(t, 12, s.Center.Y, 1e-4, "looking straight up")
}

func TestInverseProjectionView(t *testing.T) {
	c := newTestCamera()
	p := math.Vec3{X: 0.3, Y: -0.2, Z: -4}
	clip := c.ProjectionView().MulPoint(p)
	back := c.InverseProjectionView().MulPoint(clip)
	assert.InDelta(t, p.X, back.X, 1e-3)
	assert.InDelta(t, p.Y, back.Y, 1e-3)
	assert.InDelta(t, p.Z, back.Z, 1e-3)
}

func TestSetAspectKeepsOrientation(t *testing.T) {
	c := newTestCamera()
	c.SetAspect(2)
	require.Equal(t, math.Vec3{Z: 5}, c.Position())
	// wider aspect makes x = 8 at depth 5 visible
	assert.True(t, c.IsSphereBoundVisible(bounds.Sphere{Center: math.Vec3{X: 8}, Radius: 0.5}))
}
