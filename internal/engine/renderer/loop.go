package renderer

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyInRenderLoop is returned by StartLoop while a loop runs.
var ErrAlreadyInRenderLoop = errors.New("already in render loop")

// TickTime is passed to the tick callback before each frame.
type TickTime struct {
	Timestamp time.Duration
	Delta     float32 // seconds
	DeltaMs   float64
}

// TickFunc updates the scene before a frame is drawn.
type TickFunc func(TickTime)

// StopFunc stops the loop it was returned with. Extra calls are no-ops.
type StopFunc func()

// LoopOptions configures StartLoop.
type LoopOptions struct {
	// FPS switches to a fixed-rate interval. Zero or less follows the
	// host's natural frame callbacks.
	FPS int
}

type loop struct {
	r      *Renderer
	host   Host
	onTick TickFunc

	frame    Handle
	interval Handle
	fixed    bool

	last    time.Duration
	started bool
}

// StartLoop renders one frame immediately, then one per host callback.
// onTick runs before every frame.
func (r *Renderer) StartLoop(host Host, onTick TickFunc, opts LoopOptions) (StopFunc, error) {
	if r.loop != nil {
		return nil, ErrAlreadyInRenderLoop
	}

	l := &loop{r: r, host: host, onTick: onTick}
	r.loop = l

	if opts.FPS > 0 {
		l.fixed = true
		l.interval = host.StartInterval(time.Second/time.Duration(opts.FPS), l.process)
	} else {
		l.frame = host.RequestFrame(l.onFrame)
	}

	l.process(host.Now())

	r.log.Info("render loop started", zap.Int("fps", max(opts.FPS, 0)))
	return func() { r.stopLoop(l) }, nil
}

// StopLoop stops the active loop, if any.
func (r *Renderer) StopLoop() {
	if r.loop != nil {
		r.stopLoop(r.loop)
	}
}

// InRenderLoop reports whether a loop is active.
func (r *Renderer) InRenderLoop() bool { return r.loop != nil }

func (r *Renderer) stopLoop(l *loop) {
	if r.loop != l {
		return
	}
	if l.fixed {
		l.host.StopInterval(l.interval)
	} else {
		l.host.CancelFrame(l.frame)
	}
	r.loop = nil
	r.log.Info("render loop stopped")
}

func (l *loop) onFrame(now time.Duration) {
	l.process(now)
	if l.r.loop == l {
		l.frame = l.host.RequestFrame(l.onFrame)
	}
}

func (l *loop) process(now time.Duration) {
	l.tick(now)
	l.r.RenderFrame()
}

// tick reports a 1ms delta on the first frame so consumers scaling by
// delta never see zero.
func (l *loop) tick(now time.Duration) {
	delta := time.Millisecond
	if l.started {
		delta = now - l.last
	}
	l.last, l.started = now, true

	if l.onTick == nil {
		return
	}
	l.onTick(TickTime{
		Timestamp: now,
		Delta:     float32(delta.Seconds()),
		DeltaMs:   float64(delta) / float64(time.Millisecond),
	})
}
