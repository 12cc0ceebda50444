package game

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/lumen/internal/engine/gpu/gputest"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

func newWorld(t *testing.T) (*World, *gputest.Device) {
	t.Helper()
	return newWorldWith(t, WorldOptions{TerrainCells: 8, Seed: 1})
}

func newWorldWith(t *testing.T, opts WorldOptions) (*World, *gputest.Device) {
	t.Helper()
	dev := gputest.New()
	variants, err := variant.Load(dev)
	require.NoError(t, err)
	sc, err := scene.Setup(dev, variants, scene.Options{
		Viewport:      scene.Viewport{Width: 1280, Height: 720},
		RenderShadows: true,
	})
	require.NoError(t, err)

	w, err := Populate(sc, dev, opts)
	require.NoError(t, err)
	return w, dev
}

func writePNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{R: 10, A: 255})

	path := filepath.Join(t.TempDir(), "floor.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestFloorTextureFromFile(t *testing.T) {
	path := writePNG(t, 512, 128)

	w, dev := newWorldWith(t, WorldOptions{TerrainCells: 8, FloorTexture: path, MaxTextureSize: 256})

	assert.Equal(t, image.Pt(256, 64), dev.TextureSizes[w.Floor.Drawable.Texture], "scaled down to the size cap")
}

func TestFloorTextureWithinCapKeepsSize(t *testing.T) {
	path := writePNG(t, 64, 32)

	w, dev := newWorldWith(t, WorldOptions{TerrainCells: 8, FloorTexture: path})

	assert.Equal(t, image.Pt(64, 32), dev.TextureSizes[w.Floor.Drawable.Texture])
}

func TestFloorTextureFallsBackToChecker(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Replace(zap.New(core))
	t.Cleanup(func() { logger.Replace(zap.NewNop()) })

	missing := filepath.Join(t.TempDir(), "missing.png")
	w, dev := newWorldWith(t, WorldOptions{TerrainCells: 8, FloorTexture: missing, MaxTextureSize: 1024})

	assert.Equal(t, image.Pt(256, 256), dev.TextureSizes[w.Floor.Drawable.Texture])
	warned := logs.FilterMessage("floor texture not loaded, using checkerboard").All()
	require.Len(t, warned, 1)
	assert.Equal(t, missing, warned[0].ContextMap()["path"])
}

func TestPopulate(t *testing.T) {
	w, _ := newWorld(t)

	// floor, three cubes, sphere, four columns, terrain
	assert.Equal(t, 10, w.Scene.Len())
	assert.Len(t, w.Columns, len(columnX))
	for _, c := range w.Columns {
		assert.True(t, c.Skinned())
		require.NotNil(t, c.Renderers.ShadowMap)
		assert.Equal(t, variant.SkinShadow, c.Renderers.ShadowMap.Variant.Kind())
	}

	assert.NotZero(t, w.Floor.Drawable.Texture)
	assert.NotZero(t, w.Terrain.Drawable.HeightMap)
	assert.NotNil(t, w.Terrain.BeforeDraw)
	assert.Len(t, w.Models(), 4)
}

func TestUpdateAnimatesColumns(t *testing.T) {
	w, _ := newWorld(t)

	w.Update(renderer.TickTime{Timestamp: 0, Delta: 0.001})
	assert.Equal(t, 0, w.Frame())
	bind := append([]float32(nil), w.Columns[0].Joints...)
	assert.NotEqual(t, bind, w.Columns[1].Joints, "odd columns play backwards")

	w.Update(renderer.TickTime{Timestamp: 200 * time.Millisecond, Delta: 0.2})
	assert.Equal(t, 5, w.Frame())
	assert.NotEqual(t, bind, w.Columns[0].Joints)
}

func TestUpdateSpinsInPlace(t *testing.T) {
	w, _ := newWorld(t)
	before := w.Spinner.Model

	w.Update(renderer.TickTime{Timestamp: time.Second, Delta: 1})
	assert.NotEqual(t, before, w.Spinner.Model)
	assert.Equal(t, spinnerAt, w.Spinner.Model.MulPoint(math.Vec3{}))
}

func TestTerrainUploadsCellSize(t *testing.T) {
	w, dev := newWorld(t)
	v := w.Terrain.Renderers.Regular.Variant
	surface, ok := v.(*variant.Surface)
	require.True(t, ok)

	dev.UseProgram(surface.Program().ID)
	w.Terrain.BeforeDraw(w.Terrain, v, dev)
	dev.Draw(w.Terrain.Renderers.Regular.Source)

	got, ok := dev.Draws[len(dev.Draws)-1].Uniform("u_cellSize")
	require.True(t, ok)
	assert.Equal(t, [2]float32{0.125, 0.125}, got)
}

func TestFrameStats(t *testing.T) {
	s := newFrameStats(time.Second)
	for i := range 59 {
		_, ok := s.frame(time.Duration(i) * time.Second / 60)
		assert.False(t, ok)
	}
	fps, ok := s.frame(time.Second)
	require.True(t, ok)
	assert.InDelta(t, 60, fps, 0.001)
}
