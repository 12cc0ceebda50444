package renderer

import (
	"slices"
	"time"
)

// Handle identifies a scheduled frame or interval.
type Handle uint64

// Host schedules loop callbacks. Callbacks receive the host timestamp and
// must never run concurrently with each other.
type Host interface {
	Now() time.Duration
	RequestFrame(fn func(now time.Duration)) Handle
	CancelFrame(h Handle)
	StartInterval(every time.Duration, fn func(now time.Duration)) Handle
	StopInterval(h Handle)
}

type interval struct {
	every time.Duration
	next  time.Duration
	fn    func(time.Duration)
}

// CooperativeHost runs callbacks only from Pump, on the caller's
// goroutine. Frames requested during a pump run on the next one.
type CooperativeHost struct {
	clock func() time.Duration

	next      Handle
	order     []Handle
	frames    map[Handle]func(time.Duration)
	intervals map[Handle]*interval
}

// NewCooperativeHost returns a host reading time from clock.
func NewCooperativeHost(clock func() time.Duration) *CooperativeHost {
	return &CooperativeHost{
		clock:     clock,
		frames:    map[Handle]func(time.Duration){},
		intervals: map[Handle]*interval{},
	}
}

// MonotonicClock returns a clock counting from the moment it is created.
func MonotonicClock() func() time.Duration {
	start := time.Now()
	return func() time.Duration { return time.Since(start) }
}

func (h *CooperativeHost) Now() time.Duration { return h.clock() }

func (h *CooperativeHost) RequestFrame(fn func(time.Duration)) Handle {
	h.next++
	h.frames[h.next] = fn
	h.order = append(h.order, h.next)
	return h.next
}

func (h *CooperativeHost) CancelFrame(id Handle) {
	delete(h.frames, id)
}

func (h *CooperativeHost) StartInterval(every time.Duration, fn func(time.Duration)) Handle {
	h.next++
	h.intervals[h.next] = &interval{every: every, next: h.clock() + every, fn: fn}
	return h.next
}

func (h *CooperativeHost) StopInterval(id Handle) {
	delete(h.intervals, id)
}

// Pending reports whether any frame or interval is scheduled.
func (h *CooperativeHost) Pending() bool {
	return len(h.frames) > 0 || len(h.intervals) > 0
}

// Pump runs the frames requested before the call, then every interval
// that is due at now, at most once each. A late interval does not catch
// up on missed ticks. Returns the number of callbacks run.
func (h *CooperativeHost) Pump(now time.Duration) int {
	ran := 0

	order := h.order
	h.order = nil
	for _, id := range order {
		fn, ok := h.frames[id]
		if !ok {
			continue
		}
		delete(h.frames, id)
		fn(now)
		ran++
	}

	ids := make([]Handle, 0, len(h.intervals))
	for id := range h.intervals {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		iv, ok := h.intervals[id]
		if !ok || now < iv.next {
			continue
		}
		iv.next += iv.every
		if iv.next <= now {
			iv.next = now + iv.every
		}
		iv.fn(now)
		ran++
	}
	return ran
}

// NextDeadline returns when the earliest interval is due, false when none
// is scheduled. Requested frames are due immediately.
func (h *CooperativeHost) NextDeadline() (time.Duration, bool) {
	if len(h.frames) > 0 {
		return h.clock(), true
	}
	var (
		best  time.Duration
		found bool
	)
	for _, iv := range h.intervals {
		if !found || iv.next < best {
			best, found = iv.next, true
		}
	}
	return best, found
}
