package gpu

import "strings"

// Attribute is a vertex input slot. The value is the shader location.
type Attribute uint32

const (
	AttrPosition Attribute = iota
	AttrNormal
	AttrTexCoord
	AttrJoints
	AttrWeights
	AttrOffset
	attrCount
)

var attributeNames = [attrCount]string{"position", "normal", "texcoord", "joints", "weights", "offset"}

func (a Attribute) String() string {
	if a < attrCount {
		return attributeNames[a]
	}
	return "unknown"
}

// AttributeSet is a bitmask of attributes.
type AttributeSet uint32

// Attributes builds a set.
func Attributes(attrs ...Attribute) AttributeSet {
	var s AttributeSet
	for _, a := range attrs {
		s |= 1 << a
	}
	return s
}

// Has reports whether a is in the set.
func (s AttributeSet) Has(a Attribute) bool {
	return s&(1<<a) != 0
}

// Missing returns the members of required that s lacks.
func (s AttributeSet) Missing(required AttributeSet) AttributeSet {
	return required &^ s
}

func (s AttributeSet) String() string {
	var names []string
	for a := Attribute(0); a < attrCount; a++ {
		if s.Has(a) {
			names = append(names, a.String())
		}
	}
	return strings.Join(names, ",")
}

// Primitive is the assembly mode of a draw.
type Primitive uint8

const (
	Triangles Primitive = iota
	Lines
	TriangleStrip
)

// IndexType is the element type of an index buffer.
type IndexType uint8

const (
	NoIndices IndexType = iota
	Uint8Indices
	Uint16Indices
	Uint32Indices
)

// VertexSource is an uploaded vertex array ready to draw.
type VertexSource struct {
	VAO        uint32
	Buffers    []uint32
	Count      int32
	Indices    IndexType
	Primitive  Primitive
	Instances  int32
	Attributes AttributeSet
}

// Indexed reports whether Count refers to indices.
func (v *VertexSource) Indexed() bool {
	return v.Indices != NoIndices
}
