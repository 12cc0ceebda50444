package gpu

// Binder remembers the program, vertex array, framebuffer and per-slot
// textures last bound through it and skips repeats. It must be the only
// path that binds these resources, otherwise its cache goes stale; call
// Invalidate after anything else touches the bindings or after the
// context is recreated.
type Binder struct {
	dev Device

	program     uint32
	vao         uint32
	framebuffer uint32
	textures    map[uint32]uint32

	programKnown     bool
	vaoKnown         bool
	framebufferKnown bool
}

// NewBinder returns a binder with no assumptions about current state.
func NewBinder(dev Device) *Binder {
	return &Binder{dev: dev, textures: make(map[uint32]uint32)}
}

// Device returns the wrapped device.
func (b *Binder) Device() Device {
	return b.dev
}

// UseProgram makes p current.
func (b *Binder) UseProgram(p *Program) {
	if b.programKnown && b.program == p.ID {
		return
	}
	b.dev.UseProgram(p.ID)
	b.program, b.programKnown = p.ID, true
}

// UseVertexSource binds the vertex array of src.
func (b *Binder) UseVertexSource(src *VertexSource) {
	if b.vaoKnown && b.vao == src.VAO {
		return
	}
	b.dev.BindVertexArray(src.VAO)
	b.vao, b.vaoKnown = src.VAO, true
}

// UseTexture binds texture to slot.
func (b *Binder) UseTexture(texture, slot uint32) {
	if cur, ok := b.textures[slot]; ok && cur == texture {
		return
	}
	b.dev.BindTexture(slot, texture)
	b.textures[slot] = texture
}

// UseFramebuffer binds an offscreen framebuffer.
func (b *Binder) UseFramebuffer(fbo uint32) {
	if b.framebufferKnown && b.framebuffer == fbo {
		return
	}
	b.dev.BindFramebuffer(fbo)
	b.framebuffer, b.framebufferKnown = fbo, true
}

// ResetFramebuffer binds the default framebuffer.
func (b *Binder) ResetFramebuffer() {
	b.UseFramebuffer(0)
}

// Invalidate forgets all remembered bindings.
func (b *Binder) Invalidate() {
	b.programKnown = false
	b.vaoKnown = false
	b.framebufferKnown = false
	clear(b.textures)
}
