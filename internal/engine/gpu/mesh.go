package gpu

import "image"

// MeshData holds the CPU-side attribute streams of a mesh, one flat
// slice per attribute. Offsets are per instance; a mesh with offsets is
// drawn once per offset pair.
type MeshData struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	TexCoords []float32 // 2 per vertex
	Joints    []float32 // 4 per vertex
	Weights   []float32 // 4 per vertex
	Offsets   []float32 // 2 per instance
	Indices   []uint32
	Primitive Primitive
}

// Stream returns the data and component count of attribute a.
func (m *MeshData) Stream(a Attribute) ([]float32, int32) {
	switch a {
	case AttrPosition:
		return m.Positions, 3
	case AttrNormal:
		return m.Normals, 3
	case AttrTexCoord:
		return m.TexCoords, 2
	case AttrJoints:
		return m.Joints, 4
	case AttrWeights:
		return m.Weights, 4
	case AttrOffset:
		return m.Offsets, 2
	}
	return nil, 0
}

// Attributes returns the set of non-empty streams.
func (m *MeshData) Attributes() AttributeSet {
	var s AttributeSet
	for a := Attribute(0); a < attrCount; a++ {
		if data, _ := m.Stream(a); len(data) > 0 {
			s |= 1 << a
		}
	}
	return s
}

// VertexCount is the number of vertices in the position stream.
func (m *MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// InstanceCount is the number of offset pairs, 0 for plain meshes.
func (m *MeshData) InstanceCount() int {
	return len(m.Offsets) / 2
}

// TextureOptions controls texture sampling.
type TextureOptions struct {
	Repeat  bool
	Nearest bool
	Mipmaps bool
}

// Uploader moves mesh and image data to the GPU.
type Uploader interface {
	// UploadMesh builds a vertex array binding only the streams in attrs.
	UploadMesh(data *MeshData, attrs AttributeSet) (*VertexSource, error)
	DeleteVertexSource(src *VertexSource)
	UploadTexture(img *image.RGBA, opts TextureOptions) (uint32, error)
}
