package animation

import gomath "math"

// FrameIndex maps a wall-clock time onto a looping clip of frames spread
// evenly over windowMs. The result is not clamped; float rounding at the
// end of the window can, in principle, yield frames.
func FrameIndex(nowMs, windowMs float64, frames int) int {
	return int(gomath.Floor(gomath.Mod(nowMs, windowMs) / (windowMs / float64(frames))))
}

// ReverseFrameIndex plays the same loop backwards.
func ReverseFrameIndex(nowMs, windowMs float64, frames int) int {
	return frames - 1 - FrameIndex(nowMs, windowMs, frames)
}
