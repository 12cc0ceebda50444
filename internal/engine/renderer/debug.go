package renderer

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/debug"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/variant"
)

// DebugAssets are the meshes and variants the overlay draws with.
type DebugAssets struct {
	lit     *variant.Surface
	overlay *variant.Overlay

	sphere *model.Model
	box    *model.Model
	quad   *model.Model
}

// NewDebugAssets uploads the overlay meshes. variants must hold the
// default and overlay-quad variants.
func NewDebugAssets(up gpu.Uploader, variants *variant.Collection) (*DebugAssets, error) {
	lit, ok := variants.Get(variant.Default)
	if !ok {
		return nil, fmt.Errorf("debug overlay: %s variant not loaded", variant.Default)
	}
	ov, ok := variants.Get(variant.OverlayQuad)
	if !ok {
		return nil, fmt.Errorf("debug overlay: %s variant not loaded", variant.OverlayQuad)
	}

	d := &DebugAssets{lit: lit.(*variant.Surface), overlay: ov.(*variant.Overlay)}
	var err error
	if d.sphere, err = model.Initialize(up, variants, model.UnitSphere(16, 12), variant.Default); err != nil {
		return nil, fmt.Errorf("debug overlay: %w", err)
	}
	if d.box, err = model.Initialize(up, variants, model.Cube("debug-box"), variant.Default); err != nil {
		return nil, fmt.Errorf("debug overlay: %w", err)
	}
	if d.quad, err = model.Initialize(up, variants, model.Quad(), variant.OverlayQuad); err != nil {
		return nil, fmt.Errorf("debug overlay: %w", err)
	}
	return d, nil
}

// drawDebug draws the scene's figures, the visible bound spheres and the
// shadow map preview on top of the color pass.
func (r *Renderer) drawDebug() int {
	d := r.opts.Debug
	sc := r.scene
	dev := sc.Device()
	binder := sc.Binder()
	draws := 0

	figures := sc.DebugFigures()
	if len(figures) > 0 || len(r.visible) > 0 {
		projView := sc.Camera().ProjectionView()
		binder.UseProgram(d.lit.Program())
		dev.UniformMat4(d.lit.Projection(), &projView)
		d.lit.UploadLighting(dev, sc.Light().Direction(), sc.Light().ProjectionView(), false)
		if r.opts.FallbackTexture != 0 {
			binder.UseTexture(r.opts.FallbackTexture, variant.DiffuseSlot)
		}

		for _, f := range figures {
			r.drawFigure(f)
			draws++
		}
		for _, s := range r.visible {
			r.drawFigure(debug.SphereFigure(s))
			draws++
		}
	}

	if shadow := sc.Shadow(); shadow != nil {
		src := d.quad.Sources[variant.OverlayQuad]
		binder.UseProgram(d.overlay.Program())
		binder.UseVertexSource(src)
		binder.UseTexture(shadow.Texture, variant.ShadowMapSlot)
		dev.UniformInt(d.overlay.Texture, variant.ShadowMapSlot)
		dev.UniformInt(d.overlay.InvertColor, 1)
		dev.UniformInt(d.overlay.RedOnly, 1)

		vp := sc.Viewport()
		preview := debug.ShadowPreviewViewport(vp.Width, vp.Height)
		dev.SetDepthTest(false)
		dev.Viewport(preview[0], preview[1], preview[2], preview[3])
		dev.Draw(src)
		dev.Viewport(0, 0, vp.Width, vp.Height)
		dev.SetDepthTest(true)
		draws++
	}
	return draws
}

func (r *Renderer) drawFigure(f debug.Figure) {
	d := r.opts.Debug
	m := d.sphere
	if f.Kind == debug.FigureBox {
		m = d.box
	}
	src := m.Sources[variant.Default]
	world := f.Model()

	r.scene.Binder().UseVertexSource(src)
	r.scene.Device().UniformMat4(d.lit.Model(), &world)
	r.scene.Device().Draw(src)
}
