// Package gpu describes the graphics state the engine drives and tracks
// what is currently bound so redundant driver calls are skipped.
package gpu

import "github.com/Faultbox/lumen/pkg/math"

// ClearMask selects the buffers Clear resets.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// CullFace selects which triangle faces are discarded.
type CullFace uint8

const (
	CullBack CullFace = iota
	CullFront
	CullNone
)

// Device is the subset of a GL context used by the renderer.
// Implementations assume they are called from the context's thread.
type Device interface {
	UseProgram(id uint32)
	BindVertexArray(id uint32)
	BindTexture(slot, id uint32)
	BindFramebuffer(id uint32)

	Viewport(x, y, width, height int32)
	Clear(mask ClearMask)
	SetDepthTest(enabled bool)
	SetCullFace(face CullFace)

	UniformMat4(location int32, m *math.Mat4)
	UniformMat4Array(location int32, data []float32)
	UniformVec3(location int32, v math.Vec3)
	UniformVec2(location int32, x, y float32)
	UniformInt(location int32, v int32)
	UniformFloat(location int32, v float32)

	Draw(src *VertexSource)

	NewDepthTarget(resolution int32) (*DepthTarget, error)
	DeleteDepthTarget(t *DepthTarget)
}

// Compiler links shader programs. The GL device implements it; tests use
// the recording device.
type Compiler interface {
	CompileProgram(name, vertexSrc, fragmentSrc string) (*Program, error)
}

// DepthTarget is an offscreen depth-only framebuffer.
type DepthTarget struct {
	FBO        uint32
	Texture    uint32
	Resolution int32
}
