// Package animation evaluates joint hierarchies for skinned meshes.
package animation

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lumen/pkg/math"
)

// ErrUnknownPath is returned for a mutation track that targets neither
// translation, rotation nor scale.
var ErrUnknownPath = errors.New("unknown animation path")

// Path is the component a mutation track drives.
type Path string

const (
	Translation Path = "translation"
	Rotation    Path = "rotation"
	Scale       Path = "scale"
)

// Size returns the number of floats per frame for p.
func (p Path) Size() int {
	switch p {
	case Translation, Scale:
		return 3
	case Rotation:
		return 4
	}
	return 0
}

// Interpolation mirrors the glTF sampler modes. Frames are sampled by
// index, so only the values layout depends on it.
type Interpolation string

const (
	Linear      Interpolation = "LINEAR"
	Step        Interpolation = "STEP"
	CubicSpline Interpolation = "CUBICSPLINE"
)

// Sampler holds keyframe times and flattened per-frame values.
type Sampler struct {
	Interpolation Interpolation
	Input         []float32
	Output        []float32
}

// JointInfo is one node of a skeleton.
type JointInfo struct {
	NodeIndex   int
	Children    []int
	Transform   math.Transform
	InverseBind math.Mat4
}

// Mutation animates one component of a joint.
type Mutation struct {
	Path    Path
	Sampler Sampler
}

// JointTrack pairs a joint with its mutations.
type JointTrack struct {
	Joint     JointInfo
	Mutations []Mutation
}

// Animation is a named clip. Joints[0] is the skeleton root.
type Animation struct {
	Name   string
	Joints []JointTrack
}

// Validate rejects tracks with unknown paths.
func (a *Animation) Validate() error {
	for i, j := range a.Joints {
		for _, m := range j.Mutations {
			if m.Path.Size() == 0 {
				return fmt.Errorf("animation %q joint %d: %w %q", a.Name, i, ErrUnknownPath, m.Path)
			}
		}
	}
	return nil
}

// Frames returns the number of keyframes in the clip, taken from the
// longest sampler input.
func (a *Animation) Frames() int {
	n := 0
	for _, j := range a.Joints {
		for _, m := range j.Mutations {
			n = max(n, len(m.Sampler.Input))
		}
	}
	return n
}

// CalculateGlobalJointMatrices returns the bind-pose world matrix of every
// joint, indexed like joints.
func CalculateGlobalJointMatrices(joints []JointInfo) []math.Mat4 {
	out := make([]math.Mat4, len(joints))
	if len(joints) == 0 {
		return out
	}
	var descend func(parent math.Mat4, i int)
	descend = func(parent math.Mat4, i int) {
		global := parent.Mul(joints[i].Transform.Mat4())
		out[i] = global
		for _, c := range joints[i].Children {
			descend(global, c)
		}
	}
	descend(math.Identity(), 0)
	return out
}

// ApplyAnimationFrame writes the skinning matrix global·inverseBind of each
// joint at frame into out[joint*16:]. out must hold 16 floats per joint.
// frame is not range checked; sample buffers shorter than the frame panic.
func ApplyAnimationFrame(out []float32, anim *Animation, frame int) {
	if len(anim.Joints) == 0 {
		return
	}
	applyJoint(out, anim, frame, math.Identity(), 0)
}

func applyJoint(out []float32, anim *Animation, frame int, parent math.Mat4, i int) {
	track := &anim.Joints[i]
	global := parent.Mul(localAt(track.Mutations, frame))

	skin := global.Mul(track.Joint.InverseBind)
	copy(out[i*16:i*16+16], skin[:])

	for _, c := range track.Joint.Children {
		applyJoint(out, anim, frame, global, c)
	}
}

// localAt composes the present tracks as T·R·S regardless of their order
// in the mutation list. Missing components stay identity.
func localAt(mutations []Mutation, frame int) math.Mat4 {
	local := math.Identity()
	for _, p := range [...]Path{Translation, Rotation, Scale} {
		for _, m := range mutations {
			if m.Path != p {
				continue
			}
			size := p.Size()
			v := m.Sampler.Output[frame*size : (frame+1)*size]
			switch p {
			case Translation:
				local = local.Mul(math.Translation(math.Vec3From(v)))
			case Rotation:
				local = local.Mul(math.QuatFrom(v).Mat4())
			case Scale:
				local = local.Mul(math.Scaling(math.Vec3From(v)))
			}
		}
	}
	return local
}

// IdentityJoints returns a joint buffer of count identity matrices.
func IdentityJoints(count int) []float32 {
	out := make([]float32, 16*count)
	id := math.Identity()
	for i := 0; i < count; i++ {
		copy(out[i*16:], id[:])
	}
	return out
}
