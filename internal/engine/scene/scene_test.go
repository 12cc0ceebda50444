package scene_test

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/debug"
	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

type fixture struct {
	dev      *gputest.Device
	variants *variant.Collection
	scene    *scene.Scene
}

func newFixture(t *testing.T, shadows bool, kinds ...variant.Kind) *fixture {
	t.Helper()
	dev := gputest.New()
	col, err := variant.Load(dev, kinds...)
	require.NoError(t, err)
	sc, err := scene.Setup(dev, col, scene.Options{
		Viewport:      scene.Viewport{Width: 800, Height: 600},
		RenderShadows: shadows,
	})
	require.NoError(t, err)
	return &fixture{dev: dev, variants: col, scene: sc}
}

func (f *fixture) model(t *testing.T, mesh *model.Mesh, kinds ...variant.Kind) *model.Model {
	t.Helper()
	m, err := model.Initialize(f.dev, f.variants, mesh, kinds...)
	require.NoError(t, err)
	return m
}

func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Replace(zap.New(core))
	t.Cleanup(func() { logger.Replace(zap.NewNop()) })
	return logs
}

func TestSetup(t *testing.T) {
	f := newFixture(t, true)
	sc := f.scene

	require.NotNil(t, sc.Shadow())
	assert.EqualValues(t, scene.DefaultShadowResolution, sc.Shadow().Resolution)
	assert.InDelta(t, 800.0/600.0, sc.Camera().Params().Aspect, 1e-6)
	assert.Zero(t, sc.Len())

	// Setup already adapted the light; doing it again changes nothing.
	before := sc.Light().ProjectionView()
	sc.Light().AdaptToCamera(sc.Camera())
	assert.Equal(t, before, sc.Light().ProjectionView())
}

func TestSetupWithoutShadows(t *testing.T) {
	f := newFixture(t, false)
	assert.Nil(t, f.scene.Shadow())
}

func TestSetupDepthTargetFailure(t *testing.T) {
	logs := observeWarnings(t)
	dev := gputest.New()
	dev.DepthTargetErr = errors.New("incomplete framebuffer")
	col, err := variant.Load(dev)
	require.NoError(t, err)

	sc, err := scene.Setup(dev, col, scene.Options{Viewport: scene.Viewport{Width: 10, Height: 10}, RenderShadows: true})
	require.NoError(t, err)
	assert.Nil(t, sc.Shadow())
	assert.Equal(t, 1, logs.FilterMessageSnippet("shadow map").Len())
}

func TestSetupFillsMissingCameraFields(t *testing.T) {
	dev := gputest.New()
	col, err := variant.Load(dev)
	require.NoError(t, err)

	sc, err := scene.Setup(dev, col, scene.Options{
		Viewport:      scene.Viewport{Width: 800, Height: 600},
		RenderShadows: true,
		Camera:        camera.Params{FovY: math.Pi / 2, Near: 0.1, MaxDistance: 1000},
	})
	require.NoError(t, err)

	p := sc.Camera().Params()
	assert.Equal(t, camera.DefaultParams(1).ShadowDistance, p.ShadowDistance)
	for i, v := range sc.Light().ProjectionView() {
		assert.False(t, math32.IsNaN(v), "light matrix element %d", i)
	}

	m, err := model.Initialize(dev, col, model.Cube("box"), variant.Default, variant.DefaultShadow)
	require.NoError(t, err)
	inst, err := sc.AddDrawObject(scene.DrawObject{Model: m, Variant: variant.Default})
	require.NoError(t, err)
	assert.True(t, sc.Light().IsSphereBoundVisible(inst.WorldBounds()))
}

func TestSetupRejectsInvalidCamera(t *testing.T) {
	tests := []struct {
		name   string
		params camera.Params
	}{
		{"far before near", camera.Params{Near: 10, MaxDistance: 5}},
		{"negative near", camera.Params{Near: -1}},
		{"negative shadow distance", camera.Params{ShadowDistance: -3}},
		{"fov past half turn", camera.Params{FovY: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New()
			col, err := variant.Load(dev, variant.Default)
			require.NoError(t, err)

			_, err = scene.Setup(dev, col, scene.Options{
				Viewport: scene.Viewport{Width: 10, Height: 10},
				Camera:   tt.params,
			})
			assert.ErrorIs(t, err, scene.ErrInvalidCamera)
		})
	}
}

func TestAddDrawObject(t *testing.T) {
	f := newFixture(t, true)
	cube := f.model(t, model.Cube("cube"), variant.Default, variant.DefaultShadow)

	inst, err := f.scene.AddDrawObject(scene.DrawObject{
		Model:     cube,
		Transform: math.Translated(math.Vec3{X: 2}),
		Variant:   variant.Default,
	})
	require.NoError(t, err)

	require.NotNil(t, inst.Renderers.Regular)
	assert.Equal(t, variant.Default, inst.Renderers.Regular.Variant.Kind())
	require.NotNil(t, inst.Renderers.ShadowMap)
	assert.Equal(t, variant.DefaultShadow, inst.Renderers.ShadowMap.Variant.Kind())
	assert.False(t, inst.Skinned())

	assert.InDelta(t, math.Sqrt2*0.5, inst.Bounds.Radius, 1e-5)
	assert.InDelta(t, 2, inst.WorldBounds().Center.X, 1e-6)
	assert.Same(t, inst, f.scene.Instances()[0])
}

func TestAddDrawObjectMissingVariant(t *testing.T) {
	f := newFixture(t, false, variant.Default, variant.DefaultShadow)
	cube := f.model(t, model.Cube("cube"), variant.Default)

	_, err := f.scene.AddDrawObject(scene.DrawObject{Model: cube, Variant: variant.Skin})
	assert.ErrorIs(t, err, scene.ErrMissingVariant, "variant not loaded")

	_, err = f.scene.AddDrawObject(scene.DrawObject{Model: cube, Variant: variant.DefaultShadow})
	assert.ErrorIs(t, err, scene.ErrMissingVariant, "model not uploaded for variant")
	assert.Zero(t, f.scene.Len())
}

func TestAddDrawObjectNoJoints(t *testing.T) {
	f := newFixture(t, false)
	cube := f.model(t, model.Cube("cube"), variant.Skin)

	_, err := f.scene.AddDrawObject(scene.DrawObject{Model: cube, Variant: variant.Skin})
	assert.ErrorIs(t, err, scene.ErrNoJoints)
}

func TestAddSkinnedObject(t *testing.T) {
	f := newFixture(t, true)
	column := f.model(t, model.SkinnedColumn(2, 25), variant.Skin, variant.SkinShadow)

	inst, err := f.scene.AddDrawObject(scene.DrawObject{Model: column, Variant: variant.Skin})
	require.NoError(t, err)
	require.Len(t, inst.Joints, 2*16)
	id := math.Identity()
	assert.Equal(t, id[:], inst.Joints[:16])
	assert.Equal(t, id[:], inst.Joints[16:])

	require.NotNil(t, inst.Renderers.ShadowMap)
	assert.Equal(t, variant.SkinShadow, inst.Renderers.ShadowMap.Variant.Kind())

	inst.ApplyAnimation(0, 6)
	assert.NotEqual(t, id[:], inst.Joints[:16])
	inst.ApplyAnimation(3, 0) // unknown clip is ignored
}

func TestShadowMismatchIsLogged(t *testing.T) {
	logs := observeWarnings(t)
	f := newFixture(t, true)
	column := f.model(t, model.SkinnedColumn(2, 25), variant.Skin)

	inst, err := f.scene.AddDrawObject(scene.DrawObject{Model: column, Variant: variant.Skin})
	require.NoError(t, err)
	assert.Nil(t, inst.Renderers.ShadowMap)

	entries := logs.FilterMessageSnippet("shadow variant mismatch").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "skin-shadow", entries[0].ContextMap()["shadow_variant"])
}

func TestNoShadowVariantLoadedIsSilent(t *testing.T) {
	logs := observeWarnings(t)
	f := newFixture(t, false, variant.Default)
	cube := f.model(t, model.Cube("cube"), variant.Default)

	inst, err := f.scene.AddDrawObject(scene.DrawObject{Model: cube, Variant: variant.Default})
	require.NoError(t, err)
	assert.Nil(t, inst.Renderers.ShadowMap)
	assert.Zero(t, logs.Len())
}

func TestTypeMismatchIsLoggedNotFatal(t *testing.T) {
	logs := observeWarnings(t)
	f := newFixture(t, false)
	grid := f.model(t, model.HeightMapGrid(4), variant.Default)

	_, err := f.scene.AddDrawObject(scene.DrawObject{Model: grid, Variant: variant.Default})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("model type does not match").Len())
	// The grid has no normals either.
	assert.Equal(t, 1, logs.FilterMessageSnippet("lacks attributes").Len())
}

func TestHeightMapInstancedBounds(t *testing.T) {
	f := newFixture(t, false)
	cells := f.model(t, model.HeightMapCells(8), variant.HeightMapInstanced)

	inst, err := f.scene.AddDrawObject(scene.DrawObject{Model: cells, Variant: variant.HeightMapInstanced})
	require.NoError(t, err)
	assert.InDelta(t, 0, inst.Bounds.Center.X, 1e-6)
	assert.InDelta(t, math.Sqrt2*0.5, inst.Bounds.Radius, 1e-5)
}

func TestInstancesAreAppendOnly(t *testing.T) {
	f := newFixture(t, false)
	cube := f.model(t, model.Cube("cube"), variant.Default)

	var added []*scene.Instance
	for i := range 3 {
		inst, err := f.scene.AddDrawObject(scene.DrawObject{
			Model:     cube,
			Transform: math.Translated(math.Vec3{X: float32(i)}),
			Variant:   variant.Default,
		})
		require.NoError(t, err)
		added = append(added, inst)
	}
	assert.Equal(t, added, f.scene.Instances())
	assert.Equal(t, 3, f.scene.Len())
}

func TestResize(t *testing.T) {
	f := newFixture(t, false)
	f.scene.Resize(1000, 500)
	assert.Equal(t, scene.Viewport{Width: 1000, Height: 500}, f.scene.Viewport())
	assert.InDelta(t, 2, f.scene.Camera().Params().Aspect, 1e-6)
}

func TestPick(t *testing.T) {
	f := newFixture(t, false)
	cube := f.model(t, model.Cube("cube"), variant.Default)

	far, err := f.scene.AddDrawObject(scene.DrawObject{Model: cube, Transform: math.Translated(math.Vec3{Z: -10}), Variant: variant.Default})
	require.NoError(t, err)
	near, err := f.scene.AddDrawObject(scene.DrawObject{Model: cube, Transform: math.Translated(math.Vec3{Z: -5}), Variant: variant.Default})
	require.NoError(t, err)

	hit, dist, ok := f.scene.Pick(400, 300)
	require.True(t, ok)
	assert.Same(t, near, hit)
	assert.NotSame(t, far, hit)
	assert.InDelta(t, 5-math.Sqrt2*0.5-0.1, dist, 1e-3)

	_, _, ok = f.scene.Pick(0, 0)
	assert.False(t, ok)
}

func TestDebugFigures(t *testing.T) {
	f := newFixture(t, false)
	f.scene.AddDebugFigure(debug.Figure{Kind: debug.FigureSphere, Radius: 1})
	assert.Len(t, f.scene.DebugFigures(), 1)
	f.scene.ClearDebug()
	assert.Empty(t, f.scene.DebugFigures())
}
