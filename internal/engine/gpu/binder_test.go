package gpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
)

func TestBinderSkipsRepeatedBinds(t *testing.T) {
	dev := gputest.New()
	b := gpu.NewBinder(dev)
	p := gpu.NewProgram("a", 7, nil)
	src := &gpu.VertexSource{VAO: 3}

	for i := 0; i < 5; i++ {
		b.UseProgram(p)
		b.UseVertexSource(src)
		b.UseTexture(11, 0)
		b.ResetFramebuffer()
	}

	assert.Equal(t, 1, dev.Calls.UseProgram)
	assert.Equal(t, 1, dev.Calls.BindVertexArray)
	assert.Equal(t, 1, dev.Calls.BindTexture)
	assert.Equal(t, 1, dev.Calls.BindFramebuffer)
}

func TestBinderRebindsOnChange(t *testing.T) {
	dev := gputest.New()
	b := gpu.NewBinder(dev)
	p1 := gpu.NewProgram("a", 1, nil)
	p2 := gpu.NewProgram("b", 2, nil)

	b.UseProgram(p1)
	b.UseProgram(p2)
	b.UseProgram(p1)
	assert.Equal(t, 3, dev.Calls.UseProgram)

	b.UseFramebuffer(9)
	b.ResetFramebuffer()
	b.UseFramebuffer(9)
	assert.Equal(t, 3, dev.Calls.BindFramebuffer)
	assert.Equal(t, uint32(9), dev.Framebuffer())
}

func TestBinderTexturesPerSlot(t *testing.T) {
	dev := gputest.New()
	b := gpu.NewBinder(dev)

	b.UseTexture(4, 0)
	b.UseTexture(4, 5)
	b.UseTexture(4, 0)
	b.UseTexture(4, 5)
	assert.Equal(t, 2, dev.Calls.BindTexture)
}

func TestBinderInvalidate(t *testing.T) {
	dev := gputest.New()
	b := gpu.NewBinder(dev)
	p := gpu.NewProgram("a", 1, nil)
	src := &gpu.VertexSource{VAO: 2}

	b.UseProgram(p)
	b.UseVertexSource(src)
	b.UseTexture(3, 0)
	b.Invalidate()
	b.UseProgram(p)
	b.UseVertexSource(src)
	b.UseTexture(3, 0)

	assert.Equal(t, 2, dev.Calls.UseProgram)
	assert.Equal(t, 2, dev.Calls.BindVertexArray)
	assert.Equal(t, 2, dev.Calls.BindTexture)
}

func TestBinderFirstBindOfZeroReachesDevice(t *testing.T) {
	dev := gputest.New()
	b := gpu.NewBinder(dev)
	b.ResetFramebuffer()
	assert.Equal(t, 1, dev.Calls.BindFramebuffer)
}

func TestAttributeSet(t *testing.T) {
	have := gpu.Attributes(gpu.AttrPosition, gpu.AttrNormal)
	want := gpu.Attributes(gpu.AttrPosition, gpu.AttrJoints, gpu.AttrWeights)

	missing := have.Missing(want)
	assert.True(t, missing.Has(gpu.AttrJoints))
	assert.False(t, missing.Has(gpu.AttrPosition))
	assert.Equal(t, "joints,weights", missing.String())
}

func TestProgramUniformMissing(t *testing.T) {
	p := gpu.NewProgram("a", 1, map[string]int32{"u_model": 2})
	assert.Equal(t, int32(2), p.Uniform("u_model"))
	assert.Equal(t, int32(-1), p.Uniform("u_nope"))
	assert.False(t, p.HasUniform("u_nope"))
}
