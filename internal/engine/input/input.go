// Package input turns SDL2 events into per-tick controller state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lumen/internal/engine/camera"
)

// Action is a bound key's meaning.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionToggleDebug
	ActionScreenshot
	ActionToggleMouse
	ActionQuit
	actionCount
)

// DefaultBindings maps WASD plus Space/Ctrl for movement and the function
// keys for the viewer toggles.
var DefaultBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_W:      ActionForward,
	sdl.SCANCODE_S:      ActionBack,
	sdl.SCANCODE_A:      ActionLeft,
	sdl.SCANCODE_D:      ActionRight,
	sdl.SCANCODE_SPACE:  ActionUp,
	sdl.SCANCODE_LCTRL:  ActionDown,
	sdl.SCANCODE_F1:     ActionToggleDebug,
	sdl.SCANCODE_F12:    ActionScreenshot,
	sdl.SCANCODE_TAB:    ActionToggleMouse,
	sdl.SCANCODE_ESCAPE: ActionQuit,
}

// Input accumulates events between ticks.
type Input struct {
	bindings map[sdl.Scancode]Action

	held    [actionCount]bool
	pressed [actionCount]bool

	mouseDX, mouseDY float32
	mouseX, mouseY   int32
	clicked          bool

	resized       bool
	width, height int32
	quit          bool
}

// New creates an input handler with the given bindings, or
// DefaultBindings when nil.
func New(bindings map[sdl.Scancode]Action) *Input {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Input{bindings: bindings}
}

// Poll clears the previous edges and drains the SDL queue. It reports false once the user asked to quit.
func (i *Input) Poll() bool {
	i.BeginTick()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.Handle(event)
	}
	return !i.quit
}

// BeginTick clears the edge-triggered state of the previous poll. Mouse
// motion keeps accumulating until TakeMovement.
func (i *Input) BeginTick() {
	i.pressed = [actionCount]bool{}
	i.clicked = false
	i.resized = false
}

// Handle folds one event into the state.
func (i *Input) Handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED || e.Event == sdl.WINDOWEVENT_RESIZED {
			i.resized = true
			i.width, i.height = e.Data1, e.Data2
		}

	case *sdl.KeyboardEvent:
		action := i.bindings[e.Keysym.Scancode]
		if action == ActionNone {
			return
		}
		switch e.Type {
		case sdl.KEYDOWN:
			if e.Repeat == 0 {
				i.pressed[action] = true
			}
			i.held[action] = true
			if action == ActionQuit {
				i.quit = true
			}
		case sdl.KEYUP:
			i.held[action] = false
		}

	case *sdl.MouseMotionEvent:
		i.mouseDX += float32(e.XRel)
		i.mouseDY += float32(e.YRel)
		i.mouseX, i.mouseY = e.X, e.Y

	case *sdl.MouseButtonEvent:
		if e.Type == sdl.MOUSEBUTTONDOWN && e.Button == sdl.BUTTON_LEFT {
			i.clicked = true
			i.mouseX, i.mouseY = e.X, e.Y
		}
	}
}

// Movement returns the controller input for this tick.
func (i *Input) Movement() camera.Movement {
	return camera.Movement{
		Forward: i.held[ActionForward],
		Back:    i.held[ActionBack],
		Left:    i.held[ActionLeft],
		Right:   i.held[ActionRight],
		Up:      i.held[ActionUp],
		Down:    i.held[ActionDown],
		MouseDX: i.mouseDX,
		MouseDY: i.mouseDY,
	}
}

// TakeMovement returns Movement and resets the accumulated mouse motion.
func (i *Input) TakeMovement() camera.Movement {
	m := i.Movement()
	i.mouseDX, i.mouseDY = 0, 0
	return m
}

// Pressed reports whether a went down during this tick.
func (i *Input) Pressed(a Action) bool { return i.pressed[a] }

// Held reports whether a is down.
func (i *Input) Held(a Action) bool { return i.held[a] }

// Click returns the pointer position of a left click during this tick.
func (i *Input) Click() (x, y int32, ok bool) {
	return i.mouseX, i.mouseY, i.clicked
}

// Resized returns the new drawable size after a window resize.
func (i *Input) Resized() (width, height int32, ok bool) {
	return i.width, i.height, i.resized
}

// Quit reports whether the user asked to quit.
func (i *Input) Quit() bool { return i.quit }
