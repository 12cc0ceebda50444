package model

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/internal/engine/animation"
	"github.com/Faultbox/lumen/internal/engine/bounds"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/pkg/math"
)

// Cube returns a unit cube centered at the origin with per-face normals.
func Cube(name string) *Mesh {
	faces := [6][2]math.Vec3{
		{{X: 1}, {Z: -1}},
		{{X: -1}, {Z: 1}},
		{{Y: 1}, {X: 1}},
		{{Y: -1}, {X: 1}},
		{{Z: 1}, {X: 1}},
		{{Z: -1}, {X: -1}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	m := &Mesh{Name: name, Type: TypeMesh}
	for f, face := range faces {
		n, u := face[0], face[1]
		v := n.Cross(u)
		for _, c := range corners {
			p := n.Add(u.Scale(c[0])).Add(v.Scale(c[1])).Scale(0.5)
			m.Positions = append(m.Positions, p.X, p.Y, p.Z)
			m.Normals = append(m.Normals, n.X, n.Y, n.Z)
			m.TexCoords = append(m.TexCoords, (c[0]+1)/2, (1-c[1])/2)
		}
		base := uint32(f * 4)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Quad returns a full-screen quad in normalized device coordinates.
func Quad() *Mesh {
	return &Mesh{
		Name: "quad",
		Type: TypeScreen,
		MeshData: gpu.MeshData{
			Positions: []float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0},
			Indices:   []uint32{0, 1, 2, 0, 2, 3},
		},
	}
}

// UnitSphere returns a UV sphere of radius 0.5. Debug figures scale it by
// twice the radius they draw.
func UnitSphere(segments, rings int) *Mesh {
	segments, rings = max(segments, 3), max(rings, 2)
	m := &Mesh{Name: "unit-sphere", Type: TypeMesh}

	for r := 0; r <= rings; r++ {
		phi := math.Pi * float32(r) / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float32(s) / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)
			n := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			m.Positions = append(m.Positions, n.X*0.5, n.Y*0.5, n.Z*0.5)
			m.Normals = append(m.Normals, n.X, n.Y, n.Z)
			m.TexCoords = append(m.TexCoords, float32(s)/float32(segments), float32(r)/float32(rings))
		}
	}

	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			m.Indices = append(m.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return m
}

// HeightMapGrid returns a dim×dim grid on the XZ plane spanning
// [-0.5, 0.5]. Heights come from the height map in the vertex shader, so
// the box reserves the full unit range on Y.
func HeightMapGrid(dim int) *Mesh {
	dim = max(dim, 1)
	m := &Mesh{
		Name:     "height-map",
		Type:     TypeHeightMap,
		BoundBox: &bounds.Box{Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
	}

	for y := 0; y <= dim; y++ {
		v := float32(y) / float32(dim)
		for x := 0; x <= dim; x++ {
			u := float32(x) / float32(dim)
			m.Positions = append(m.Positions, u-0.5, 0, v-0.5)
			m.TexCoords = append(m.TexCoords, u, v)
		}
	}

	stride := uint32(dim + 1)
	for y := uint32(0); y < uint32(dim); y++ {
		for x := uint32(0); x < uint32(dim); x++ {
			upLeft := y*stride + x
			upRight := upLeft + 1
			downLeft := upLeft + stride
			downRight := downLeft + 1
			if y%2 == 0 {
				m.Indices = append(m.Indices, upLeft, downLeft, upRight, downLeft, downRight, upRight)
			} else {
				m.Indices = append(m.Indices, upLeft, downLeft, downRight, upLeft, downRight, upRight)
			}
		}
	}
	return m
}

// HeightMapCells returns one unit quad drawn size² times, one instance
// per grid cell. Offsets are cell origins in grid units; the shader scales
// them by the cell size.
func HeightMapCells(size int) *Mesh {
	size = max(size, 1)
	m := &Mesh{
		Name: "height-map-cells",
		Type: TypeHeightMap,
		MeshData: gpu.MeshData{
			Positions: []float32{0, 0, 0, 0, 1, 0, 1, 1, 0, 0, 0, 0, 1, 1, 0, 1, 0, 0},
			Offsets:   make([]float32, 0, size*size*2),
		},
	}
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			m.Offsets = append(m.Offsets, float32(j), float32(i))
		}
	}
	return m
}

// SkinnedColumn returns a square column of the given height bent by two
// joints, plus a looping sway clip with frames keyframes.
func SkinnedColumn(height float32, frames int) *Mesh {
	const (
		rings     = 8
		halfWidth = 0.15
	)
	frames = max(frames, 1)
	half := height / 2

	m := &Mesh{Name: "skinned-column", Type: TypeSkinned}
	sides := [4][2]math.Vec3{
		{{X: 1}, {Z: -1}},
		{{X: -1}, {Z: 1}},
		{{Z: 1}, {X: 1}},
		{{Z: -1}, {X: -1}},
	}
	for _, side := range sides {
		n, u := side[0], side[1]
		base := uint32(len(m.Positions) / 3)
		for r := 0; r <= rings; r++ {
			t := float32(r) / rings
			y := t * height
			for _, c := range [2]float32{-1, 1} {
				p := n.Scale(halfWidth).Add(u.Scale(c * halfWidth))
				m.Positions = append(m.Positions, p.X, y, p.Z)
				m.Normals = append(m.Normals, n.X, n.Y, n.Z)
				m.TexCoords = append(m.TexCoords, (c+1)/2, t)
				m.Joints = append(m.Joints, 0, 1, 0, 0)
				m.Weights = append(m.Weights, 1-t, t, 0, 0)
			}
		}
		for r := uint32(0); r < rings; r++ {
			a := base + r*2
			m.Indices = append(m.Indices, a, a+1, a+3, a, a+3, a+2)
		}
	}

	offset := math.Vec3{Y: half}
	m.Skeleton = []animation.JointInfo{
		{NodeIndex: 0, Children: []int{1}, InverseBind: math.Identity()},
		{NodeIndex: 1, Transform: math.Translated(offset), InverseBind: math.Translation(offset.Negate())},
	}
	m.Animations = []*animation.Animation{swayAnimation(m.Skeleton, offset, frames)}
	return m
}

// swayAnimation tilts the root back and forth around Z while the upper
// joint bends twice as far, completing one period over frames keyframes.
func swayAnimation(skeleton []animation.JointInfo, offset math.Vec3, frames int) *animation.Animation {
	const amplitude = 0.25

	times := make([]float32, frames)
	root := make([]float32, 0, frames*4)
	upper := make([]float32, 0, frames*4)
	translation := make([]float32, 0, frames*3)
	for f := 0; f < frames; f++ {
		times[f] = float32(f) / float32(frames)
		angle := amplitude * math32.Sin(2*math.Pi*times[f])
		r := math.QuatFromAxisAngle(math.Vec3{Z: 1}, angle)
		u := math.QuatFromAxisAngle(math.Vec3{Z: 1}, 2*angle)
		root = append(root, r.X, r.Y, r.Z, r.W)
		upper = append(upper, u.X, u.Y, u.Z, u.W)
		translation = append(translation, offset.X, offset.Y, offset.Z)
	}

	return &animation.Animation{
		Name: "sway",
		Joints: []animation.JointTrack{
			{
				Joint: skeleton[0],
				Mutations: []animation.Mutation{
					{Path: animation.Rotation, Sampler: animation.Sampler{Interpolation: animation.Linear, Input: times, Output: root}},
				},
			},
			{
				Joint: skeleton[1],
				Mutations: []animation.Mutation{
					{Path: animation.Translation, Sampler: animation.Sampler{Interpolation: animation.Linear, Input: times, Output: translation}},
					{Path: animation.Rotation, Sampler: animation.Sampler{Interpolation: animation.Linear, Input: times, Output: upper}},
				},
			},
		},
	}
}
