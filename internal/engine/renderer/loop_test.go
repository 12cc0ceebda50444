package renderer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/pkg/math"
)

type fakeClock struct{ now time.Duration }

func (c *fakeClock) Now() time.Duration { return c.now }

func newLoopFixture(t *testing.T) (*renderer.Renderer, *renderer.CooperativeHost, *fakeClock, *fixture) {
	t.Helper()
	f := newFixture(t, true)
	f.add(t, model.Cube("cube"), variant.Default, math.Transform{}, variant.DefaultShadow)
	clock := &fakeClock{now: 100 * time.Millisecond}
	return renderer.New(f.scene, renderer.Options{}), renderer.NewCooperativeHost(clock.Now), clock, f
}

func TestLoopRendersEagerFrame(t *testing.T) {
	r, host, _, f := newLoopFixture(t)

	var ticks []renderer.TickTime
	stop, err := r.StartLoop(host, func(tt renderer.TickTime) { ticks = append(ticks, tt) }, renderer.LoopOptions{})
	require.NoError(t, err)
	defer stop()

	require.Len(t, ticks, 1)
	assert.Equal(t, 100*time.Millisecond, ticks[0].Timestamp)
	assert.Equal(t, 1.0, ticks[0].DeltaMs)
	assert.InDelta(t, 0.001, ticks[0].Delta, 1e-9)
	assert.Equal(t, 2, f.dev.Calls.Draw, "shadow and color draw")
	assert.True(t, r.InRenderLoop())
}

func TestLoopDeltaBetweenFrames(t *testing.T) {
	r, host, _, _ := newLoopFixture(t)

	var ticks []renderer.TickTime
	stop, err := r.StartLoop(host, func(tt renderer.TickTime) { ticks = append(ticks, tt) }, renderer.LoopOptions{})
	require.NoError(t, err)
	defer stop()

	assert.Equal(t, 1, host.Pump(116*time.Millisecond))
	assert.Equal(t, 1, host.Pump(150*time.Millisecond))

	require.Len(t, ticks, 3)
	assert.Equal(t, 16.0, ticks[1].DeltaMs)
	assert.Equal(t, 34.0, ticks[2].DeltaMs)
	assert.InDelta(t, 0.034, ticks[2].Delta, 1e-6)
}

func TestStartLoopTwiceFails(t *testing.T) {
	r, host, _, _ := newLoopFixture(t)

	stop, err := r.StartLoop(host, nil, renderer.LoopOptions{})
	require.NoError(t, err)

	_, err = r.StartLoop(host, nil, renderer.LoopOptions{})
	assert.ErrorIs(t, err, renderer.ErrAlreadyInRenderLoop)

	stop()
	stop()
	assert.False(t, r.InRenderLoop())
	assert.False(t, host.Pending())

	_, err = r.StartLoop(host, nil, renderer.LoopOptions{})
	assert.NoError(t, err)
}

func TestStopLoopNeverStarted(t *testing.T) {
	r, _, _, _ := newLoopFixture(t)
	assert.NotPanics(t, r.StopLoop)
	assert.False(t, r.InRenderLoop())
}

func TestStopFromTickCallback(t *testing.T) {
	r, host, _, f := newLoopFixture(t)

	var stop renderer.StopFunc
	ticks := 0
	stop, err := r.StartLoop(host, func(renderer.TickTime) {
		ticks++
		if ticks == 2 {
			stop()
		}
	}, renderer.LoopOptions{})
	require.NoError(t, err)

	host.Pump(116 * time.Millisecond)
	assert.False(t, r.InRenderLoop())
	assert.False(t, host.Pending())

	draws := f.dev.Calls.Draw
	assert.Zero(t, host.Pump(132*time.Millisecond))
	assert.Equal(t, 2, ticks)
	assert.Equal(t, draws, f.dev.Calls.Draw)
}

func TestStaleStopDoesNotStopNewLoop(t *testing.T) {
	r, host, _, _ := newLoopFixture(t)

	first, err := r.StartLoop(host, nil, renderer.LoopOptions{})
	require.NoError(t, err)
	first()

	_, err = r.StartLoop(host, nil, renderer.LoopOptions{})
	require.NoError(t, err)
	first()
	assert.True(t, r.InRenderLoop())
}

func TestFixedRateLoop(t *testing.T) {
	r, host, _, _ := newLoopFixture(t)

	var ticks []renderer.TickTime
	stop, err := r.StartLoop(host, func(tt renderer.TickTime) { ticks = append(ticks, tt) }, renderer.LoopOptions{FPS: 10})
	require.NoError(t, err)

	assert.Zero(t, host.Pump(150*time.Millisecond))
	assert.Equal(t, 1, host.Pump(200*time.Millisecond))
	require.Len(t, ticks, 2)
	assert.Equal(t, 100.0, ticks[1].DeltaMs)

	stop()
	assert.Zero(t, host.Pump(400*time.Millisecond))
}
