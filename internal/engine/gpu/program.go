package gpu

// Program is a linked shader program with its active uniform locations.
type Program struct {
	Name     string
	ID       uint32
	uniforms map[string]int32
}

// NewProgram wraps a linked program id. uniforms maps active uniform
// names to locations.
func NewProgram(name string, id uint32, uniforms map[string]int32) *Program {
	if uniforms == nil {
		uniforms = map[string]int32{}
	}
	return &Program{Name: name, ID: id, uniforms: uniforms}
}

// Uniform returns the location for name or -1 when the program does not
// use it; GL ignores uploads to -1.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// HasUniform reports whether the program declares name.
func (p *Program) HasUniform(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}
