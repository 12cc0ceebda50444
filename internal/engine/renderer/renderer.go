// Package renderer draws a scene in two passes, shadow depth then lit
// color, and drives the render loop.
package renderer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// Options configures a Renderer.
type Options struct {
	// Debug enables the overlay when set. See NewDebugAssets.
	Debug *DebugAssets
	// ShowBounds adds the world bound sphere of every instance drawn in
	// the color pass to the overlay.
	ShowBounds bool
	// FallbackTexture is bound to the diffuse slot for untextured models.
	FallbackTexture uint32
}

// FrameStats counts what one RenderFrame did.
type FrameStats struct {
	ShadowDraws int
	ColorDraws  int
	Culled      int
	DebugDraws  int
}

// viewer is what a pass culls against and projects with: the light in
// the shadow pass, the camera in the color pass.
type viewer interface {
	IsSphereBoundVisible(s bounds.Sphere) bool
	ProjectionView() math.Mat4
}

type pass int

const (
	shadowPass pass = iota
	colorPass
)

// Renderer borrows its scene for the duration of each call.
type Renderer struct {
	scene *scene.Scene
	opts  Options

	debugOverlay bool
	visible      []bounds.Sphere
	stats        FrameStats

	loop *loop
	log  *zap.Logger
}

// New returns a renderer for sc.
func New(sc *scene.Scene, opts Options) *Renderer {
	return &Renderer{
		scene:        sc,
		opts:         opts,
		debugOverlay: opts.Debug != nil,
		log:          logger.Named("renderer"),
	}
}

// SetDebugOverlay toggles the overlay. It stays off without debug assets.
func (r *Renderer) SetDebugOverlay(enabled bool) {
	r.debugOverlay = enabled && r.opts.Debug != nil
}

// DebugOverlay reports whether the overlay is drawn.
func (r *Renderer) DebugOverlay() bool { return r.debugOverlay }

// LastStats returns the counters of the most recent frame.
func (r *Renderer) LastStats() FrameStats { return r.stats }

// RenderFrame draws the shadow pass when the scene has a depth target,
// then the color pass and the debug overlay.
func (r *Renderer) RenderFrame() FrameStats {
	sc := r.scene
	dev := sc.Device()
	binder := sc.Binder()
	stats := FrameStats{}
	r.visible = r.visible[:0]

	if target := sc.Shadow(); target != nil {
		sc.Light().AdaptToCamera(sc.Camera())

		binder.UseFramebuffer(target.FBO)
		dev.Viewport(0, 0, target.Resolution, target.Resolution)
		dev.SetDepthTest(true)
		dev.SetCullFace(gpu.CullFront)
		dev.Clear(gpu.ClearDepth)

		drawn, culled := r.drawPass(shadowPass, sc.Light())
		stats.ShadowDraws = drawn
		stats.Culled += culled
	}

	vp := sc.Viewport()
	binder.ResetFramebuffer()
	dev.Viewport(0, 0, vp.Width, vp.Height)
	dev.SetDepthTest(true)
	dev.SetCullFace(gpu.CullBack)
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)

	drawn, culled := r.drawPass(colorPass, sc.Camera())
	stats.ColorDraws = drawn
	stats.Culled += culled

	if r.debugOverlay {
		stats.DebugDraws = r.drawDebug()
	}

	r.stats = stats
	return stats
}

func (r *Renderer) drawPass(p pass, view viewer) (drawn, culled int) {
	sc := r.scene
	dev := sc.Device()
	binder := sc.Binder()
	projView := view.ProjectionView()

	for _, inst := range sc.Instances() {
		rd := inst.Renderers.Regular
		if p == shadowPass {
			rd = inst.Renderers.ShadowMap
		}
		if rd == nil {
			continue
		}

		world := inst.WorldBounds()
		if !view.IsSphereBoundVisible(world) {
			culled++
			continue
		}

		v := rd.Variant
		binder.UseProgram(v.Program())
		binder.UseVertexSource(rd.Source)
		dev.UniformMat4(v.Projection(), &projView)
		dev.UniformMat4(v.Model(), &inst.Model)

		switch v := v.(type) {
		case *variant.Surface:
			r.uploadSurface(v, inst)
		case *variant.Overlay:
			if tex := inst.Drawable.Texture; tex != 0 {
				binder.UseTexture(tex, variant.DiffuseSlot)
			}
			dev.UniformInt(v.Texture, variant.DiffuseSlot)
		case *variant.Depth:
		}

		if inst.BeforeDraw != nil {
			inst.BeforeDraw(inst, v, dev)
		}
		if v.Skinned() {
			v.UploadJoints(dev, inst.Joints)
		}

		dev.Draw(rd.Source)
		drawn++
		if p == colorPass && r.opts.ShowBounds {
			r.visible = append(r.visible, world)
		}
	}
	return drawn, culled
}

func (r *Renderer) uploadSurface(v *variant.Surface, inst *scene.Instance) {
	sc := r.scene
	binder := sc.Binder()
	l := sc.Light()
	shadow := sc.Shadow()

	v.UploadLighting(sc.Device(), l.Direction(), l.ProjectionView(), shadow != nil)
	if shadow != nil {
		binder.UseTexture(shadow.Texture, variant.ShadowMapSlot)
	}

	tex := inst.Drawable.Texture
	if tex == 0 {
		tex = r.opts.FallbackTexture
	}
	if tex != 0 {
		binder.UseTexture(tex, variant.DiffuseSlot)
	}
	if hm := inst.Drawable.HeightMap; hm != 0 {
		binder.UseTexture(hm, variant.HeightMapSlot)
	}
}
