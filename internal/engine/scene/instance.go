package scene

import (
	"github.com/Faultbox/lumen/internal/engine/animation"
	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/pkg/math"
)

// BeforeDrawFunc runs right before each draw of an instance, once per
// pass, with the variant about to be used. It may mutate inst.Joints and
// upload extra uniforms through dev.
type BeforeDrawFunc func(inst *Instance, v variant.Variant, dev gpu.Device)

// DrawObject describes an instance to add.
type DrawObject struct {
	Model      *model.Model
	Transform  math.Transform
	Variant    variant.Kind
	BeforeDraw BeforeDrawFunc
}

// Renderer pairs a variant with the model's vertex source for it.
type Renderer struct {
	Variant variant.Variant
	Source  *gpu.VertexSource
}

// Renderers holds the color pass renderer and the optional shadow pass one.
type Renderers struct {
	Regular   *Renderer
	ShadowMap *Renderer
}

// Instance is a placed model. Model may be changed between frames;
// Bounds stays in object space.
type Instance struct {
	Drawable   *model.Model
	Model      math.Mat4
	Bounds     bounds.Sphere
	Renderers  Renderers
	Joints     []float32 // 16 floats per joint, skinned instances only
	BeforeDraw BeforeDrawFunc
}

// SetTransform replaces the model matrix.
func (i *Instance) SetTransform(t math.Transform) {
	i.Model = t.Mat4()
}

// WorldBounds returns the bound sphere under the current model matrix.
func (i *Instance) WorldBounds() bounds.Sphere {
	return i.Bounds.Transform(i.Model)
}

// Skinned reports whether the instance carries a joint buffer.
func (i *Instance) Skinned() bool {
	return len(i.Joints) > 0
}

// ApplyAnimation writes frame of the model's animation clip into the
// joint buffer. Out of range clips are ignored; frames are not checked.
func (i *Instance) ApplyAnimation(clip, frame int) {
	if !i.Skinned() || clip < 0 || clip >= len(i.Drawable.Animations) {
		return
	}
	animation.ApplyAnimationFrame(i.Joints, i.Drawable.Animations[clip], frame)
}
