package gldevice

import (
	"errors"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/lumen/internal/engine/gpu"
)

// UploadMesh builds a vertex array with one buffer per stream, bound at
// the attribute's location. Offsets advance once per instance.
func (d *Device) UploadMesh(data *gpu.MeshData, attrs gpu.AttributeSet) (*gpu.VertexSource, error) {
	if data.VertexCount() == 0 {
		return nil, errors.New("mesh has no positions")
	}

	src := &gpu.VertexSource{
		Count:      int32(data.VertexCount()),
		Primitive:  data.Primitive,
		Instances:  int32(data.InstanceCount()),
		Attributes: data.Attributes() & attrs,
	}

	gl.GenVertexArrays(1, &src.VAO)
	gl.BindVertexArray(src.VAO)

	for a := gpu.AttrPosition; a <= gpu.AttrOffset; a++ {
		if !src.Attributes.Has(a) {
			continue
		}
		stream, size := data.Stream(a)

		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(stream)*4, gl.Ptr(stream), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(uint32(a))
		gl.VertexAttribPointerWithOffset(uint32(a), size, gl.FLOAT, false, 0, 0)
		if a == gpu.AttrOffset {
			gl.VertexAttribDivisor(uint32(a), 1)
		}
		src.Buffers = append(src.Buffers, vbo)
	}

	if len(data.Indices) > 0 {
		var ebo uint32
		gl.GenBuffers(1, &ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		if data.VertexCount() < 1<<16 {
			short := make([]uint16, len(data.Indices))
			for i, idx := range data.Indices {
				short[i] = uint16(idx)
			}
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(short)*2, gl.Ptr(short), gl.STATIC_DRAW)
			src.Indices = gpu.Uint16Indices
		} else {
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)
			src.Indices = gpu.Uint32Indices
		}
		src.Buffers = append(src.Buffers, ebo)
		src.Count = int32(len(data.Indices))
	}

	gl.BindVertexArray(0)
	return src, nil
}

// DeleteVertexSource releases the vertex array and its buffers.
func (d *Device) DeleteVertexSource(src *gpu.VertexSource) {
	if src == nil {
		return
	}
	if len(src.Buffers) > 0 {
		gl.DeleteBuffers(int32(len(src.Buffers)), &src.Buffers[0])
		src.Buffers = nil
	}
	if src.VAO != 0 {
		gl.DeleteVertexArrays(1, &src.VAO)
		src.VAO = 0
	}
}

// UploadTexture creates an RGBA8 texture from img.
func (d *Device) UploadTexture(img *image.RGBA, opts gpu.TextureOptions) (uint32, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, errors.New("empty image")
	}
	w, h := int32(img.Bounds().Dx()), int32(img.Bounds().Dy())

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	wrap := int32(gl.CLAMP_TO_EDGE)
	if opts.Repeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)

	minFilter, magFilter := int32(gl.LINEAR), int32(gl.LINEAR)
	if opts.Nearest {
		minFilter, magFilter = gl.NEAREST, gl.NEAREST
	}
	if opts.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		minFilter = gl.LINEAR_MIPMAP_LINEAR
		if opts.Nearest {
			minFilter = gl.NEAREST_MIPMAP_NEAREST
		}
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id, nil
}

// DeleteTexture releases a texture.
func (d *Device) DeleteTexture(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}
