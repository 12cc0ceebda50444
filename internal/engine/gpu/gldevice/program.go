package gldevice

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// CompileProgram compiles and links a vertex/fragment pair and records
// the locations of every active uniform.
func (d *Device) CompileProgram(name, vertexSrc, fragmentSrc string) (*gpu.Program, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s: vertex shader: %w", name, err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s: fragment shader: %w", name, err)
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programInfoLog(id)
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("%s: linking program: %s", name, log)
	}

	uniforms := activeUniforms(id)
	d.log.Debug("program linked",
		zap.String("name", name),
		zap.Uint32("id", id),
		zap.Int("uniforms", len(uniforms)),
	)
	return gpu.NewProgram(name, id, uniforms), nil
}

// DeleteProgram releases a linked program.
func (d *Device) DeleteProgram(p *gpu.Program) {
	if p != nil && p.ID != 0 {
		gl.DeleteProgram(p.ID)
	}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compiling shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func programInfoLog(id uint32) string {
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

// activeUniforms maps uniform names to locations. Drivers report arrays
// as "name[0]"; the suffix is dropped so lookups use the plain name.
func activeUniforms(id uint32) map[string]int32 {
	var count, maxLen int32
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)

	uniforms := make(map[string]int32, count)
	buf := make([]uint8, maxLen+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var kind uint32
		gl.GetActiveUniform(id, uint32(i), maxLen+1, &length, &size, &kind, &buf[0])
		name := string(buf[:length])
		loc := gl.GetUniformLocation(id, gl.Str(name+"\x00"))
		uniforms[strings.TrimSuffix(name, "[0]")] = loc
	}
	return uniforms
}
