package model

import (
	"github.com/Faultbox/lumen/internal/engine/animation"
	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// Mesh is a CPU-side model before upload.
type Mesh struct {
	Name string
	Type Type
	gpu.MeshData

	// BoundBox overrides the box computed from positions when set.
	BoundBox *bounds.Box

	// Skeleton is named apart from the per-vertex Joints stream.
	Skeleton   []animation.JointInfo
	Animations []*animation.Animation
}

// Bounds returns the object-space box of the mesh.
func (m *Mesh) Bounds() bounds.Box {
	if m.BoundBox != nil {
		return *m.BoundBox
	}
	return bounds.BoxFromPoints(m.Positions)
}

// SmoothNormals averages the normals of vertices that share a position,
// hiding the seams of meshes built from separate faces.
func SmoothNormals(m *gpu.MeshData) {
	const epsilon float32 = 0.001

	groups := make(map[[3]int32][]int)
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Positions[i*3 : i*3+3]
		key := [3]int32{int32(p[0] / epsilon), int32(p[1] / epsilon), int32(p[2] / epsilon)}
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, i := range idxs {
			sum = sum.Add(math.Vec3From(m.Normals[i*3:]))
		}
		avg := sum.Normalize()
		for _, i := range idxs {
			m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2] = avg.X, avg.Y, avg.Z
		}
	}
}

// FlatNormals recomputes one face normal per triangle. Indices must not
// share vertices between triangles for the result to look flat.
func FlatNormals(m *gpu.MeshData) {
	if len(m.Normals) != len(m.Positions) {
		m.Normals = make([]float32, len(m.Positions))
	}
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		a := math.Vec3From(m.Positions[i0*3:])
		b := math.Vec3From(m.Positions[i1*3:])
		c := math.Vec3From(m.Positions[i2*3:])
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for _, i := range [3]uint32{i0, i1, i2} {
			m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2] = n.X, n.Y, n.Z
		}
	}
}
