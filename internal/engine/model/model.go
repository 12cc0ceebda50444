// Package model holds drawable models: uploaded vertex sources keyed by
// render variant, plus bounds and an optional skeleton.
package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lumen/internal/engine/animation"
	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/variant"
)

// ErrEmptyMesh is returned when a mesh has no positions.
var ErrEmptyMesh = errors.New("mesh has no vertices")

// Type tells which family of variants a model was built for.
type Type string

const (
	TypeMesh      Type = "mesh"
	TypeSkinned   Type = "skinned"
	TypeHeightMap Type = "height-map"
	TypeScreen    Type = "screen"
)

// Model is what scene instances draw. It is immutable after Initialize
// and may be shared by any number of instances.
type Model struct {
	Name       string
	Type       Type
	Bounds     bounds.Box
	Sources    map[variant.Kind]*gpu.VertexSource
	Joints     []animation.JointInfo
	Animations []*animation.Animation

	// Texture is bound to the diffuse slot, HeightMap to the height slot.
	Texture   uint32
	HeightMap uint32
}

// Source returns the vertex source uploaded for kind.
func (m *Model) Source(kind variant.Kind) (*gpu.VertexSource, bool) {
	src, ok := m.Sources[kind]
	return src, ok
}

// JointCount returns the skeleton size, 0 for rigid models.
func (m *Model) JointCount() int {
	return len(m.Joints)
}

// Initialize uploads mesh once per requested variant kind, binding only
// the streams that variant reads. Kinds missing from the collection are
// an error.
func Initialize(up gpu.Uploader, col *variant.Collection, mesh *Mesh, kinds ...variant.Kind) (*Model, error) {
	if mesh.VertexCount() == 0 {
		return nil, fmt.Errorf("model %q: %w", mesh.Name, ErrEmptyMesh)
	}

	m := &Model{
		Name:       mesh.Name,
		Type:       mesh.Type,
		Bounds:     mesh.Bounds(),
		Sources:    make(map[variant.Kind]*gpu.VertexSource, len(kinds)),
		Joints:     mesh.Skeleton,
		Animations: mesh.Animations,
	}
	for _, k := range kinds {
		v, ok := col.Get(k)
		if !ok {
			m.Release(up)
			return nil, fmt.Errorf("model %q: variant %s not loaded", mesh.Name, k)
		}
		src, err := up.UploadMesh(&mesh.MeshData, v.Attributes())
		if err != nil {
			m.Release(up)
			return nil, fmt.Errorf("model %q: uploading %s source: %w", mesh.Name, k, err)
		}
		m.Sources[k] = src
	}
	return m, nil
}

// Release deletes every uploaded vertex source. Textures are not owned by
// the model and stay alive.
func (m *Model) Release(up gpu.Uploader) {
	for k, src := range m.Sources {
		up.DeleteVertexSource(src)
		delete(m.Sources, k)
	}
}
