package variant_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/pkg/math"
)

func TestLoadAll(t *testing.T) {
	col, err := variant.Load(gputest.New())
	require.NoError(t, err)
	assert.Equal(t, 7, col.Len())

	for _, k := range []variant.Kind{variant.Default, variant.Skin, variant.HeightMap, variant.HeightMapInstanced} {
		v, ok := col.Get(k)
		require.True(t, ok, k)
		s, ok := v.(*variant.Surface)
		require.True(t, ok, "%s should be a lit surface", k)
		assert.GreaterOrEqual(t, s.LightDirection, int32(0), "%s declares u_lightDirection", k)
		assert.GreaterOrEqual(t, v.Projection(), int32(0))
		assert.GreaterOrEqual(t, v.Model(), int32(0))
	}

	for _, k := range []variant.Kind{variant.DefaultShadow, variant.SkinShadow} {
		v, _ := col.Get(k)
		assert.IsType(t, &variant.Depth{}, v)
	}
	v, _ := col.Get(variant.OverlayQuad)
	assert.IsType(t, &variant.Overlay{}, v)
}

func TestLoadSubset(t *testing.T) {
	col, err := variant.Load(gputest.New(), variant.Default, variant.DefaultShadow)
	require.NoError(t, err)
	assert.Equal(t, 2, col.Len())
	_, ok := col.Get(variant.Skin)
	assert.False(t, ok)
}

type failingCompiler struct{}

func (failingCompiler) CompileProgram(string, string, string) (*gpu.Program, error) {
	return nil, errors.New("link failed")
}

func TestLoadWrapsCompileError(t *testing.T) {
	_, err := variant.Load(failingCompiler{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default variant")
}

func TestSkinnedVariants(t *testing.T) {
	col, err := variant.Load(gputest.New())
	require.NoError(t, err)

	skin, _ := col.Get(variant.Skin)
	assert.True(t, skin.Skinned())
	assert.True(t, skin.Attributes().Has(gpu.AttrJoints))

	def, _ := col.Get(variant.Default)
	assert.False(t, def.Skinned())
}

func TestShadowCounterpart(t *testing.T) {
	assert.Equal(t, variant.SkinShadow, variant.ShadowCounterpart(variant.Skin))
	assert.Equal(t, variant.DefaultShadow, variant.ShadowCounterpart(variant.Default))
	assert.Equal(t, variant.DefaultShadow, variant.ShadowCounterpart(variant.HeightMapInstanced))
}

func TestModifyBounds(t *testing.T) {
	col, err := variant.Load(gputest.New())
	require.NoError(t, err)

	cell := bounds.Box{Max: math.Vec3{X: 1, Y: 1}}

	hm, _ := col.Get(variant.HeightMapInstanced)
	got := hm.ModifyBounds(cell)
	assert.Equal(t, math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, got.Min)
	assert.Equal(t, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, got.Max)

	def, _ := col.Get(variant.Default)
	assert.Equal(t, cell, def.ModifyBounds(cell))
}

func TestUploadJointsTruncates(t *testing.T) {
	dev := gputest.New()
	col, err := variant.Load(dev, variant.Skin)
	require.NoError(t, err)
	v, _ := col.Get(variant.Skin)

	gpu.NewBinder(dev).UseProgram(v.Program())
	v.UploadJoints(dev, make([]float32, 16*(variant.MaxJoints+5)))
	dev.Draw(&gpu.VertexSource{})

	got, ok := dev.Draws[0].Uniform("u_jointMatrices")
	require.True(t, ok)
	assert.Len(t, got, 16*variant.MaxJoints)
}
