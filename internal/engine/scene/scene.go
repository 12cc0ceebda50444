// Package scene holds the drawable instances of a frame together with the
// camera, the light and the shadow map target they are rendered against.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/animation"
	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/debug"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/light"
	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/picking"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

var (
	// ErrMissingVariant is returned when a draw object asks for a variant
	// that is not loaded or that its model was not uploaded for.
	ErrMissingVariant = errors.New("missing render variant")
	// ErrNoJoints is returned when a skinned variant is requested for a
	// model without a skeleton.
	ErrNoJoints = errors.New("model has no joints")
	// ErrInvalidCamera is returned by Setup for camera parameters that
	// cannot form a projection.
	ErrInvalidCamera = errors.New("invalid camera parameters")
)

// DefaultShadowResolution is the shadow map size when none is configured.
const DefaultShadowResolution = 2048

// Viewport is the drawable size in pixels.
type Viewport struct {
	Width, Height int32
}

// Aspect returns width over height, 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Options configures Setup.
type Options struct {
	Viewport         Viewport
	RenderShadows    bool
	ShadowResolution int32
	// Camera.Aspect is taken from Viewport; zero fields take the
	// camera.DefaultParams values.
	Camera camera.Params
	// LightDirection points toward the light; zero means the default.
	LightDirection math.Vec3
}

// Scene is append-only: instances are never removed, and their order is
// the draw order.
type Scene struct {
	dev      gpu.Device
	variants *variant.Collection
	camera   *camera.Camera
	light    *light.Light
	binder   *gpu.Binder
	shadow   *gpu.DepthTarget
	viewport Viewport

	instances []*Instance
	figures   []debug.Figure

	log *zap.Logger
}

// Setup creates the camera, the light adapted to it, the binder and, when
// shadows are requested, the depth target. A depth target that cannot be
// created disables shadows.
func Setup(dev gpu.Device, variants *variant.Collection, opts Options) (*Scene, error) {
	if dev == nil || variants == nil {
		return nil, errors.New("scene setup: device and variants are required")
	}

	params, err := cameraParams(opts.Camera, opts.Viewport.Aspect())
	if err != nil {
		return nil, fmt.Errorf("scene setup: %w", err)
	}

	dir := opts.LightDirection
	if dir == (math.Vec3{}) {
		dir = light.DefaultDirection
	}

	s := &Scene{
		dev:      dev,
		variants: variants,
		camera:   camera.New(params),
		light:    light.New(dir),
		binder:   gpu.NewBinder(dev),
		viewport: opts.Viewport,
		log:      logger.Named("scene"),
	}
	s.light.AdaptToCamera(s.camera)

	if opts.RenderShadows {
		res := opts.ShadowResolution
		if res <= 0 {
			res = DefaultShadowResolution
		}
		target, err := dev.NewDepthTarget(res)
		if err != nil {
			s.log.Warn("shadow map unavailable, rendering without shadows",
				zap.Int32("resolution", res), zap.Error(err))
		} else {
			s.shadow = target
		}
	}

	s.log.Debug("scene ready",
		zap.Int32("width", opts.Viewport.Width),
		zap.Int32("height", opts.Viewport.Height),
		zap.Bool("shadows", s.shadow != nil),
		zap.Int("variants", variants.Len()))
	return s, nil
}

// cameraParams fills zero fields from camera.DefaultParams and rejects
// ranges that would make the projection or the light fit degenerate.
func cameraParams(p camera.Params, aspect float32) (camera.Params, error) {
	def := camera.DefaultParams(aspect)
	p.Aspect = aspect
	if p.FovY == 0 {
		p.FovY = def.FovY
	}
	if p.Near == 0 {
		p.Near = def.Near
	}
	if p.MaxDistance == 0 {
		p.MaxDistance = def.MaxDistance
	}
	if p.ShadowDistance == 0 {
		p.ShadowDistance = def.ShadowDistance
	}

	switch {
	case p.FovY < 0 || p.FovY >= math.Pi:
		return p, fmt.Errorf("%w: fov %g", ErrInvalidCamera, p.FovY)
	case p.Near < 0 || p.MaxDistance <= p.Near:
		return p, fmt.Errorf("%w: range [%g, %g]", ErrInvalidCamera, p.Near, p.MaxDistance)
	case p.ShadowDistance < 0:
		return p, fmt.Errorf("%w: shadow distance %g", ErrInvalidCamera, p.ShadowDistance)
	}
	return p, nil
}

// AddDrawObject places a model in the scene and returns its instance.
func (s *Scene) AddDrawObject(obj DrawObject) (*Instance, error) {
	m := obj.Model
	if m == nil {
		return nil, errors.New("add draw object: nil model")
	}

	v, ok := s.variants.Get(obj.Variant)
	if !ok {
		return nil, fmt.Errorf("model %q: variant %s not loaded: %w", m.Name, obj.Variant, ErrMissingVariant)
	}
	src, ok := m.Source(obj.Variant)
	if !ok {
		return nil, fmt.Errorf("model %q: no vertex source for %s: %w", m.Name, obj.Variant, ErrMissingVariant)
	}

	inst := &Instance{
		Drawable:   m,
		Model:      obj.Transform.Mat4(),
		Bounds:     bounds.SphereFromBox(v.ModifyBounds(m.Bounds)),
		BeforeDraw: obj.BeforeDraw,
		Renderers:  Renderers{Regular: &Renderer{Variant: v, Source: src}},
	}

	if v.Skinned() {
		if m.JointCount() == 0 {
			return nil, fmt.Errorf("model %q with %s: %w", m.Name, obj.Variant, ErrNoJoints)
		}
		inst.Joints = s.identityJoints(m)
	}

	s.checkCompatibility(m, v, src)
	inst.Renderers.ShadowMap = s.shadowRenderer(m, obj.Variant)

	s.instances = append(s.instances, inst)
	return inst, nil
}

func (s *Scene) identityJoints(m *model.Model) []float32 {
	if m.JointCount() > variant.MaxJoints {
		s.log.Warn("skeleton exceeds shader joint limit, extra joints are ignored",
			zap.String("model", m.Name),
			zap.Int("joints", m.JointCount()),
			zap.Int("max", variant.MaxJoints))
	}
	return animation.IdentityJoints(m.JointCount())
}

// shadowRenderer pairs the instance with its depth variant when both the
// collection and the model provide one.
func (s *Scene) shadowRenderer(m *model.Model, kind variant.Kind) *Renderer {
	if kind == variant.OverlayQuad {
		return nil
	}
	shadowKind := variant.ShadowCounterpart(kind)
	v, hasVariant := s.variants.Get(shadowKind)
	src, hasSource := m.Source(shadowKind)

	switch {
	case hasVariant && hasSource:
		return &Renderer{Variant: v, Source: src}
	case hasVariant != hasSource:
		s.log.Warn("shadow variant mismatch, instance casts no shadow",
			zap.String("model", m.Name),
			zap.String("variant", string(kind)),
			zap.String("shadow_variant", string(shadowKind)),
			zap.Bool("variant_loaded", hasVariant),
			zap.Bool("model_uploaded", hasSource))
	}
	return nil
}

var compatibleTypes = map[variant.Kind][]model.Type{
	variant.Default:            {model.TypeMesh, model.TypeSkinned},
	variant.DefaultShadow:      {model.TypeMesh, model.TypeSkinned},
	variant.Skin:               {model.TypeSkinned},
	variant.SkinShadow:         {model.TypeSkinned},
	variant.HeightMap:          {model.TypeHeightMap},
	variant.HeightMapInstanced: {model.TypeHeightMap},
	variant.OverlayQuad:        {model.TypeScreen},
}

func (s *Scene) checkCompatibility(m *model.Model, v variant.Variant, src *gpu.VertexSource) {
	if missing := src.Attributes.Missing(v.Attributes()); missing != 0 {
		s.log.Warn("vertex source lacks attributes the variant reads",
			zap.String("model", m.Name),
			zap.String("variant", string(v.Kind())),
			zap.Stringer("missing", missing))
	}
	if m.Type != "" && !slices.Contains(compatibleTypes[v.Kind()], m.Type) {
		s.log.Warn("model type does not match variant",
			zap.String("model", m.Name),
			zap.String("type", string(m.Type)),
			zap.String("variant", string(v.Kind())))
	}
}

// Instances returns the instances in insertion order. The slice must not
// be modified.
func (s *Scene) Instances() []*Instance { return s.instances }

// Len returns the number of instances.
func (s *Scene) Len() int { return len(s.instances) }

func (s *Scene) Camera() *camera.Camera { return s.camera }
func (s *Scene) Light() *light.Light { return s.light }
func (s *Scene) Binder() *gpu.Binder { return s.binder }
func (s *Scene) Device() gpu.Device { return s.dev }
func (s *Scene) Variants() *variant.Collection { return s.variants }

// Shadow returns the depth target, nil when shadows are off.
func (s *Scene) Shadow() *gpu.DepthTarget { return s.shadow }

func (s *Scene) Viewport() Viewport { return s.viewport }

// Resize updates the viewport and the camera aspect.
func (s *Scene) Resize(width, height int32) {
	if width == s.viewport.Width && height == s.viewport.Height {
		return
	}
	s.viewport = Viewport{Width: width, Height: height}
	s.camera.SetAspect(s.viewport.Aspect())
}

// Pick returns the nearest instance whose world bound sphere the camera
// ray through pixel (x, y) hits.
func (s *Scene) Pick(x, y float32) (*Instance, float32, bool) {
	if s.viewport.Width == 0 || s.viewport.Height == 0 {
		return nil, 0, false
	}
	ray := picking.ScreenToRay(x, y, float32(s.viewport.Width), float32(s.viewport.Height), s.camera.InverseProjectionView())

	var (
		best     *Instance
		bestDist float32
	)
	for _, inst := range s.instances {
		d, ok := ray.IntersectSphere(inst.WorldBounds())
		if ok && (best == nil || d < bestDist) {
			best, bestDist = inst, d
		}
	}
	return best, bestDist, best != nil
}

// AddDebugFigure queues a figure for the debug overlay.
func (s *Scene) AddDebugFigure(f debug.Figure) {
	s.figures = append(s.figures, f)
}

// DebugFigures returns the queued overlay figures.
func (s *Scene) DebugFigures() []debug.Figure { return s.figures }

// ClearDebug drops every queued figure.
func (s *Scene) ClearDebug() { s.figures = s.figures[:0] }

// Destroy releases the depth target.
func (s *Scene) Destroy() {
	if s.shadow != nil {
		s.dev.DeleteDepthTarget(s.shadow)
		s.shadow = nil
	}
}
