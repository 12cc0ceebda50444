// Package variant defines the closed set of render variants: a shader
// program plus the vertex layout and bounds rule it expects.
package variant

import (
	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// Kind names a variant. Models key their vertex sources by Kind.
type Kind string

const (
	Default            Kind = "default"
	DefaultShadow      Kind = "default-shadow"
	Skin               Kind = "skin"
	SkinShadow         Kind = "skin-shadow"
	HeightMap          Kind = "height-map"
	HeightMapInstanced Kind = "height-map-instanced"
	OverlayQuad        Kind = "overlay-quad"
)

// MaxJoints is the size of the joint matrix array in the skinning shaders.
const MaxJoints = 20

// Texture units.
const (
	DiffuseSlot   = 0
	HeightMapSlot = 1
	ShadowMapSlot = 5
)

// Variant is implemented by *Surface, *Depth and *Overlay only.
type Variant interface {
	Kind() Kind
	Program() *gpu.Program
	Attributes() gpu.AttributeSet
	// ModifyBounds adjusts a model's object-space box to what the shader
	// actually draws.
	ModifyBounds(bounds.Box) bounds.Box
	Skinned() bool
	UploadJoints(dev gpu.Device, joints []float32)

	// Projection and Model are the locations every variant uploads.
	Projection() int32
	Model() int32

	sealed()
}

type base struct {
	kind       Kind
	program    *gpu.Program
	attributes gpu.AttributeSet
	skinned    bool

	projection int32
	model      int32
	joints     int32
}

func newBase(kind Kind, p *gpu.Program, attrs gpu.AttributeSet, skinned bool) base {
	return base{
		kind:       kind,
		program:    p,
		attributes: attrs,
		skinned:    skinned,
		projection: p.Uniform("u_projection"),
		model:      p.Uniform("u_model"),
		joints:     p.Uniform("u_jointMatrices"),
	}
}

func (b *base) Kind() Kind { return b.kind }
func (b *base) Program() *gpu.Program { return b.program }
func (b *base) Attributes() gpu.AttributeSet { return b.attributes }
func (b *base) ModifyBounds(box bounds.Box) bounds.Box { return box }
func (b *base) Skinned() bool { return b.skinned }
func (b *base) Projection() int32 { return b.projection }
func (b *base) Model() int32 { return b.model }
func (b *base) sealed() {}

// Joints returns the joint matrix array location, -1 for rigid variants.
func (b *base) Joints() int32 { return b.joints }

// UploadJoints sends at most MaxJoints matrices.
func (b *base) UploadJoints(dev gpu.Device, joints []float32) {
	if b.joints < 0 || len(joints) == 0 {
		return
	}
	if len(joints) > MaxJoints*16 {
		joints = joints[:MaxJoints*16]
	}
	dev.UniformMat4Array(b.joints, joints)
}

// Surface is a lit variant drawn in the color pass. It receives the light
// direction and samples the shadow map.
type Surface struct {
	base
	LightDirection int32
	LightSpace     int32
	ShadowMap      int32
	ShadowsEnabled int32
	Diffuse        int32
	HeightMap      int32
	CellSize       int32

	modifyBounds func(bounds.Box) bounds.Box
}

func newSurface(kind Kind, p *gpu.Program, attrs gpu.AttributeSet, skinned bool) *Surface {
	return &Surface{
		base:           newBase(kind, p, attrs, skinned),
		LightDirection: p.Uniform("u_lightDirection"),
		LightSpace:     p.Uniform("u_lightSpace"),
		ShadowMap:      p.Uniform("u_shadowMap"),
		ShadowsEnabled: p.Uniform("u_shadowsEnabled"),
		Diffuse:        p.Uniform("u_diffuse"),
		HeightMap:      p.Uniform("u_heightMap"),
		CellSize:       p.Uniform("u_cellSize"),
	}
}

func (s *Surface) ModifyBounds(box bounds.Box) bounds.Box {
	if s.modifyBounds == nil {
		return box
	}
	return s.modifyBounds(box)
}

// UploadLighting sets the light uniforms. shadowMap=false tells the shader
// to skip the lookup.
func (s *Surface) UploadLighting(dev gpu.Device, direction math.Vec3, lightSpace math.Mat4, shadowMap bool) {
	dev.UniformVec3(s.LightDirection, direction)
	dev.UniformMat4(s.LightSpace, &lightSpace)
	dev.UniformInt(s.Diffuse, DiffuseSlot)
	dev.UniformInt(s.HeightMap, HeightMapSlot)
	dev.UniformInt(s.ShadowMap, ShadowMapSlot)
	enabled := int32(0)
	if shadowMap {
		enabled = 1
	}
	dev.UniformInt(s.ShadowsEnabled, enabled)
}

// Depth renders into the shadow map.
type Depth struct {
	base
}

// Overlay draws a textured quad in screen space, unlit.
type Overlay struct {
	base
	Texture     int32
	InvertColor int32
	RedOnly     int32
}

// heightMapInstancedBounds maps the unit cell of an instanced grid to the
// unit cube the shader draws the whole grid into. The grid is square, so
// the x range also stands in for the second axis.
func heightMapInstancedBounds(b bounds.Box) bounds.Box {
	return bounds.Box{
		Min: math.Vec3{X: b.Min.X - 0.5, Y: b.Min.X - 0.5, Z: -0.5},
		Max: math.Vec3{X: b.Max.X - 0.5, Y: b.Max.X - 0.5, Z: 0.5},
	}
}
