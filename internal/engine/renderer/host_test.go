package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooperativeHostFrames(t *testing.T) {
	h := NewCooperativeHost(func() time.Duration { return 0 })

	var got []string
	h.RequestFrame(func(time.Duration) { got = append(got, "a") })
	b := h.RequestFrame(func(time.Duration) { got = append(got, "b") })
	h.RequestFrame(func(time.Duration) {
		got = append(got, "c")
		h.RequestFrame(func(time.Duration) { got = append(got, "next") })
	})
	h.CancelFrame(b)

	assert.Equal(t, 2, h.Pump(time.Millisecond))
	assert.Equal(t, []string{"a", "c"}, got)

	assert.Equal(t, 1, h.Pump(2*time.Millisecond))
	assert.Equal(t, []string{"a", "c", "next"}, got)
	assert.False(t, h.Pending())
}

func TestCooperativeHostIntervalDoesNotCatchUp(t *testing.T) {
	h := NewCooperativeHost(func() time.Duration { return 0 })

	var at []time.Duration
	id := h.StartInterval(10*time.Millisecond, func(now time.Duration) { at = append(at, now) })

	next, ok := h.NextDeadline()
	assert.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, next)

	assert.Zero(t, h.Pump(5*time.Millisecond))
	assert.Equal(t, 1, h.Pump(55*time.Millisecond))
	assert.Zero(t, h.Pump(60*time.Millisecond))
	assert.Equal(t, 1, h.Pump(65*time.Millisecond))
	assert.Equal(t, []time.Duration{55 * time.Millisecond, 65 * time.Millisecond}, at)

	h.StopInterval(id)
	_, ok = h.NextDeadline()
	assert.False(t, ok)
}
