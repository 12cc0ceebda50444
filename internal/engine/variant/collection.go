package variant

import (
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/variant/shaders"
)

// Collection holds the compiled variants by kind.
type Collection struct {
	variants map[Kind]Variant
}

type definition struct {
	kind     Kind
	vertex   string
	fragment string
	attrs    gpu.AttributeSet
	skinned  bool
}

var (
	rigid  = gpu.Attributes(gpu.AttrPosition, gpu.AttrNormal, gpu.AttrTexCoord)
	skin   = gpu.Attributes(gpu.AttrPosition, gpu.AttrNormal, gpu.AttrTexCoord, gpu.AttrJoints, gpu.AttrWeights)
	height = gpu.Attributes(gpu.AttrPosition, gpu.AttrTexCoord)
	cells  = gpu.Attributes(gpu.AttrPosition, gpu.AttrOffset)
)

var definitions = []definition{
	{Default, shaders.DefaultVertex, shaders.LitFragment, rigid, false},
	{DefaultShadow, shaders.DefaultDepthVertex, shaders.DepthFragment, gpu.Attributes(gpu.AttrPosition), false},
	{Skin, shaders.SkinVertex, shaders.LitFragment, skin, true},
	{SkinShadow, shaders.SkinDepthVertex, shaders.DepthFragment, gpu.Attributes(gpu.AttrPosition, gpu.AttrJoints, gpu.AttrWeights), true},
	{HeightMap, shaders.HeightMapVertex, shaders.LitFragment, height, false},
	{HeightMapInstanced, shaders.HeightMapInstancedVertex, shaders.LitFragment, cells, false},
	{OverlayQuad, shaders.OverlayQuadVertex, shaders.OverlayQuadFragment, gpu.Attributes(gpu.AttrPosition), false},
}

// Load compiles every variant. kinds restricts the set; none means all.
func Load(c gpu.Compiler, kinds ...Kind) (*Collection, error) {
	want := map[Kind]bool{}
	for _, k := range kinds {
		want[k] = true
	}

	col := &Collection{variants: map[Kind]Variant{}}
	for _, s := range definitions {
		if len(want) > 0 && !want[s.kind] {
			continue
		}
		p, err := c.CompileProgram(string(s.kind), s.vertex, s.fragment)
		if err != nil {
			return nil, fmt.Errorf("compiling %s variant: %w", s.kind, err)
		}
		col.variants[s.kind] = build(s, p)
	}
	return col, nil
}

func build(s definition, p *gpu.Program) Variant {
	switch s.kind {
	case DefaultShadow, SkinShadow:
		return &Depth{base: newBase(s.kind, p, s.attrs, s.skinned)}
	case OverlayQuad:
		return &Overlay{
			base:        newBase(s.kind, p, s.attrs, s.skinned),
			Texture:     p.Uniform("u_diffuse"),
			InvertColor: p.Uniform("u_invertColor"),
			RedOnly:     p.Uniform("u_useOnlyRedChannel"),
		}
	}
	v := newSurface(s.kind, p, s.attrs, s.skinned)
	if s.kind == HeightMapInstanced {
		v.modifyBounds = heightMapInstancedBounds
	}
	return v
}

// Get returns the variant for kind.
func (c *Collection) Get(kind Kind) (Variant, bool) {
	v, ok := c.variants[kind]
	return v, ok
}

// Len returns the number of loaded variants.
func (c *Collection) Len() int {
	return len(c.variants)
}

// ShadowCounterpart names the depth variant paired with kind: skinned
// kinds map to their "-shadow" sibling, everything else to DefaultShadow.
func ShadowCounterpart(kind Kind) Kind {
	if kind == Skin {
		return kind + "-shadow"
	}
	return DefaultShadow
}
