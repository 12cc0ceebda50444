package game

import "time"

// frameStats counts frames over a reporting window.
type frameStats struct {
	window time.Duration
	start  time.Duration
	frames int
	began  bool
}

func newFrameStats(window time.Duration) *frameStats {
	return &frameStats{window: window}
}

// frame records one frame at now. Once per window it returns the frame
// rate measured over it.
func (s *frameStats) frame(now time.Duration) (float64, bool) {
	if !s.began {
		s.start, s.began = now, true
	}
	s.frames++

	elapsed := now - s.start
	if elapsed < s.window {
		return 0, false
	}
	fps := float64(s.frames) / elapsed.Seconds()
	s.start, s.frames = now, 0
	return fps, true
}
