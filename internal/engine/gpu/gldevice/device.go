// Package gldevice implements the gpu interfaces on an OpenGL 4.1 core
// context. Every call must come from the thread owning the context.
package gldevice

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// Device drives the current GL context.
type Device struct {
	log *zap.Logger
}

var (
	_ gpu.Device   = (*Device)(nil)
	_ gpu.Compiler = (*Device)(nil)
	_ gpu.Uploader = (*Device)(nil)
)

// New loads the GL function pointers and sets the default state.
// IMPORTANT: must be called after the GL context is created.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	d := &Device{log: logger.Named("gl")}
	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	return d, nil
}

func (d *Device) UseProgram(id uint32) { gl.UseProgram(id) }

func (d *Device) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (d *Device) BindTexture(slot, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (d *Device) BindFramebuffer(id uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, id) }

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *Device) SetCullFace(face gpu.CullFace) {
	switch face {
	case gpu.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

// Uniform setters ignore location -1 the same way GL does.

func (d *Device) UniformMat4(loc int32, m *math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

func (d *Device) UniformMat4Array(loc int32, data []float32) {
	if len(data) < 16 {
		return
	}
	gl.UniformMatrix4fv(loc, int32(len(data)/16), false, &data[0])
}

func (d *Device) UniformVec3(loc int32, v math.Vec3) { gl.Uniform3f(loc, v.X, v.Y, v.Z) }
func (d *Device) UniformVec2(loc int32, x, y float32) { gl.Uniform2f(loc, x, y) }
func (d *Device) UniformInt(loc int32, v int32) { gl.Uniform1i(loc, v) }
func (d *Device) UniformFloat(loc int32, v float32) { gl.Uniform1f(loc, v) }

var primitives = map[gpu.Primitive]uint32{
	gpu.Triangles:     gl.TRIANGLES,
	gpu.Lines:         gl.LINES,
	gpu.TriangleStrip: gl.TRIANGLE_STRIP,
}

var indexTypes = map[gpu.IndexType]uint32{
	gpu.Uint8Indices:  gl.UNSIGNED_BYTE,
	gpu.Uint16Indices: gl.UNSIGNED_SHORT,
	gpu.Uint32Indices: gl.UNSIGNED_INT,
}

// Draw issues the draw call for the currently bound vertex array.
func (d *Device) Draw(src *gpu.VertexSource) {
	mode := primitives[src.Primitive]
	switch {
	case src.Indexed() && src.Instances > 0:
		gl.DrawElementsInstanced(mode, src.Count, indexTypes[src.Indices], nil, src.Instances)
	case src.Indexed():
		gl.DrawElements(mode, src.Count, indexTypes[src.Indices], nil)
	case src.Instances > 0:
		gl.DrawArraysInstanced(mode, 0, src.Count, src.Instances)
	default:
		gl.DrawArrays(mode, 0, src.Count)
	}
}

// ReadPixels returns the RGBA contents of the default framebuffer, bottom
// row first.
func (d *Device) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
