// Package gputest provides a recording gpu.Device for tests that run
// without a GL context.
package gputest

import (
	"errors"
	"image"
	"maps"
	"regexp"

	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// Counts tallies driver calls that reached the device.
type Counts struct {
	UseProgram      int
	BindVertexArray int
	BindTexture     int
	BindFramebuffer int
	Viewport        int
	Clear           int
	Draw            int
}

// DrawCall is a snapshot of the state a draw was issued with.
type DrawCall struct {
	Program     *gpu.Program
	VAO         uint32
	Framebuffer uint32
	Count       int32
	Instances   int32
	DepthTest   bool
	Viewport    [4]int32
	Textures    map[uint32]uint32
	Uniforms    map[int32]any
}

// Uniform returns the value last uploaded to name for this draw's program.
func (d DrawCall) Uniform(name string) (any, bool) {
	v, ok := d.Uniforms[d.Program.Uniform(name)]
	return v, ok
}

// Device records everything and renders nothing.
type Device struct {
	Calls Counts
	Draws []DrawCall

	// Uploads counts meshes and textures sent through the Uploader methods.
	Uploads int
	// TextureSizes records the size of every uploaded texture by id.
	TextureSizes map[uint32]image.Point
	// Deleted counts vertex sources released through DeleteVertexSource.
	Deleted int
	// UploadMeshErr, when set, is returned by UploadMesh once FailAfter
	// meshes have been uploaded.
	UploadMeshErr error
	FailAfter     int

	// DepthTargetErr, when set, is returned by NewDepthTarget.
	DepthTargetErr error

	programs  map[uint32]*gpu.Program
	uniforms  map[uint32]map[int32]any
	textures  map[uint32]uint32
	program   uint32
	vao       uint32
	fbo       uint32
	viewport  [4]int32
	depthTest bool
	cull      gpu.CullFace
	nextID    uint32
	meshes    int
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		TextureSizes: map[uint32]image.Point{},

		programs:  map[uint32]*gpu.Program{},
		uniforms:  map[uint32]map[int32]any{},
		textures:  map[uint32]uint32{},
		depthTest: true,
	}
}

var (
	_ gpu.Device   = (*Device)(nil)
	_ gpu.Compiler = (*Device)(nil)
	_ gpu.Uploader = (*Device)(nil)
)

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)`)

// CompileProgram assigns a fresh id and gives every declared uniform a
// location in declaration order.
func (d *Device) CompileProgram(name, vertexSrc, fragmentSrc string) (*gpu.Program, error) {
	if vertexSrc == "" || fragmentSrc == "" {
		return nil, errors.New("empty shader source")
	}
	locs := map[string]int32{}
	for _, src := range []string{vertexSrc, fragmentSrc} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, ok := locs[m[1]]; !ok {
				locs[m[1]] = int32(len(locs))
			}
		}
	}
	p := gpu.NewProgram(name, d.id(), locs)
	d.programs[p.ID] = p
	return p, nil
}

// UploadMesh fabricates a vertex array for the streams in attrs that the
// mesh actually has.
func (d *Device) UploadMesh(data *gpu.MeshData, attrs gpu.AttributeSet) (*gpu.VertexSource, error) {
	if data.VertexCount() == 0 {
		return nil, errors.New("mesh has no positions")
	}
	if d.UploadMeshErr != nil && d.meshes >= d.FailAfter {
		return nil, d.UploadMeshErr
	}
	d.meshes++
	src := &gpu.VertexSource{
		VAO:        d.id(),
		Count:      int32(data.VertexCount()),
		Primitive:  data.Primitive,
		Instances:  int32(data.InstanceCount()),
		Attributes: data.Attributes() & attrs,
	}
	if len(data.Indices) > 0 {
		src.Count = int32(len(data.Indices))
		src.Indices = gpu.Uint32Indices
	}
	d.Uploads++
	return src, nil
}

// UploadTexture records the upload and returns a fresh texture id.
func (d *Device) UploadTexture(img *image.RGBA, _ gpu.TextureOptions) (uint32, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, errors.New("empty image")
	}
	d.Uploads++
	id := d.id()
	d.TextureSizes[id] = img.Bounds().Size()
	return id, nil
}

// DeleteVertexSource counts the release.
func (d *Device) DeleteVertexSource(*gpu.VertexSource) { d.Deleted++ }

// NewVertexSource fabricates an uploaded vertex array.
func (d *Device) NewVertexSource(count int32, attrs gpu.AttributeSet) *gpu.VertexSource {
	return &gpu.VertexSource{VAO: d.id(), Count: count, Indices: gpu.Uint16Indices, Attributes: attrs}
}

func (d *Device) UseProgram(id uint32) {
	d.Calls.UseProgram++
	d.program = id
}

func (d *Device) BindVertexArray(id uint32) {
	d.Calls.BindVertexArray++
	d.vao = id
}

func (d *Device) BindTexture(slot, id uint32) {
	d.Calls.BindTexture++
	d.textures[slot] = id
}

func (d *Device) BindFramebuffer(id uint32) {
	d.Calls.BindFramebuffer++
	d.fbo = id
}

func (d *Device) Viewport(x, y, w, h int32) {
	d.Calls.Viewport++
	d.viewport = [4]int32{x, y, w, h}
}

func (d *Device) Clear(gpu.ClearMask) { d.Calls.Clear++ }
func (d *Device) SetDepthTest(enabled bool) { d.depthTest = enabled }
func (d *Device) SetCullFace(f gpu.CullFace) { d.cull = f }

// CullFace returns the face culling mode last set.
func (d *Device) CullFace() gpu.CullFace { return d.cull }

// Framebuffer returns the currently bound framebuffer.
func (d *Device) Framebuffer() uint32 { return d.fbo }

func (d *Device) set(loc int32, v any) {
	if loc < 0 {
		return
	}
	u, ok := d.uniforms[d.program]
	if !ok {
		u = map[int32]any{}
		d.uniforms[d.program] = u
	}
	u[loc] = v
}

func (d *Device) UniformMat4(loc int32, m *math.Mat4) { d.set(loc, *m) }

func (d *Device) UniformMat4Array(loc int32, data []float32) {
	d.set(loc, append([]float32(nil), data...))
}

func (d *Device) UniformVec3(loc int32, v math.Vec3) { d.set(loc, v) }
func (d *Device) UniformVec2(loc int32, x, y float32) { d.set(loc, [2]float32{x, y}) }
func (d *Device) UniformInt(loc int32, v int32) { d.set(loc, v) }
func (d *Device) UniformFloat(loc int32, v float32) { d.set(loc, v) }

func (d *Device) Draw(src *gpu.VertexSource) {
	d.Calls.Draw++
	d.Draws = append(d.Draws, DrawCall{
		Program:     d.programs[d.program],
		VAO:         d.vao,
		Framebuffer: d.fbo,
		Count:       src.Count,
		Instances:   src.Instances,
		DepthTest:   d.depthTest,
		Viewport:    d.viewport,
		Textures:    maps.Clone(d.textures),
		Uniforms:    maps.Clone(d.uniforms[d.program]),
	})
}

func (d *Device) NewDepthTarget(resolution int32) (*gpu.DepthTarget, error) {
	if d.DepthTargetErr != nil {
		return nil, d.DepthTargetErr
	}
	return &gpu.DepthTarget{FBO: d.id(), Texture: d.id(), Resolution: resolution}, nil
}

func (d *Device) DeleteDepthTarget(*gpu.DepthTarget) {}

// DrawsTo returns the draws issued while fbo was bound.
func (d *Device) DrawsTo(fbo uint32) []DrawCall {
	var out []DrawCall
	for _, dc := range d.Draws {
		if dc.Framebuffer == fbo {
			out = append(out, dc)
		}
	}
	return out
}

// Reset drops recorded calls and draws but keeps bound state.
func (d *Device) Reset() {
	d.Calls = Counts{}
	d.Draws = nil
}
