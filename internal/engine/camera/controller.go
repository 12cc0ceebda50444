package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

const (
	// MaxPitch keeps the camera just short of looking straight up or down.
	MaxPitch = 0.23

	DefaultMouseSensitivity = 0.1
	DefaultAcceleration     = 20
)

// Movement is one tick of user input.
type Movement struct {
	Forward, Back, Left, Right, Up, Down bool

	// MouseDX and MouseDY are pointer motion in pixels since the last tick.
	MouseDX, MouseDY float32
}

func (m Movement) direction() math.Vec3 {
	var d math.Vec3
	if m.Forward {
		d.Z--
	}
	if m.Back {
		d.Z++
	}
	if m.Left {
		d.X--
	}
	if m.Right {
		d.X++
	}
	if m.Up {
		d.Y++
	}
	if m.Down {
		d.Y--
	}
	return d
}

// FlyController turns keyboard and mouse input into camera orientations.
// Velocity eases toward the target speed instead of jumping to it.
type FlyController struct {
	MovementSpeed    float32
	MouseSensitivity float32
	Acceleration     float32

	orientation Orientation
	velocity    math.Vec3
	dirty       bool
}

// NewFlyController starts at o.
func NewFlyController(o Orientation, movementSpeed float32) *FlyController {
	return &FlyController{
		MovementSpeed:    movementSpeed,
		MouseSensitivity: DefaultMouseSensitivity,
		Acceleration:     DefaultAcceleration,
		orientation:      o,
		dirty:            true,
	}
}

// SetPosition teleports the camera and stops it.
func (f *FlyController) SetPosition(p math.Vec3) {
	f.orientation.Position = p
	f.velocity = math.Vec3{}
	f.dirty = true
}

// Orientation returns the current orientation.
func (f *FlyController) Orientation() Orientation { return f.orientation }

// Velocity returns the current world-space velocity.
func (f *FlyController) Velocity() math.Vec3 { return f.velocity }

// Tick advances the controller by delta seconds. It reports true when the
// orientation changed and the camera needs updating.
func (f *FlyController) Tick(delta float32, in Movement) (Orientation, bool) {
	f.look(delta, in)
	f.move(delta, in)

	changed := f.dirty
	f.dirty = false
	return f.orientation, changed
}

func (f *FlyController) look(delta float32, in Movement) {
	if in.MouseDX == 0 && in.MouseDY == 0 {
		return
	}
	d := &f.orientation.Direction
	d.Yaw -= in.MouseDX * delta * f.MouseSensitivity
	d.Pitch -= in.MouseDY * delta * f.MouseSensitivity
	d.Pitch = math32.Max(-MaxPitch, math32.Min(MaxPitch, d.Pitch))
	f.dirty = true
}

func (f *FlyController) move(delta float32, in Movement) {
	dir := in.direction()
	moving := dir != (math.Vec3{})
	if !moving && f.velocity == (math.Vec3{}) {
		return
	}

	var target math.Vec3
	if moving {
		yaw := f.orientation.Direction.Yaw * 2 * math.Pi
		pitch := f.orientation.Direction.Pitch * 2 * math.Pi
		world := math.RotationY(yaw).Mul(math.RotationX(pitch)).MulDirection(dir.Normalize())
		target = world.Scale(f.MovementSpeed)
	}

	if dist := target.Distance(f.velocity); dist > 0 {
		mix := math32.Min(1, f.Acceleration*delta/dist)
		f.velocity = f.velocity.Lerp(target, mix)
	}

	if f.velocity != (math.Vec3{}) {
		f.orientation.Position = f.orientation.Position.Add(f.velocity.Scale(delta))
		f.dirty = true
	}
}
