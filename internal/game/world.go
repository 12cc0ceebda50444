package game

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/animation"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/model"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// WorldOptions shapes the test scene.
type WorldOptions struct {
	AnimationWindowMs float64
	AnimationFrames   int
	// TerrainCells is the number of height map cells per side.
	TerrainCells int
	Seed         uint64
	// FloorTexture is an optional image file for the floor. The
	// checkerboard is used when it is empty or fails to load.
	FloorTexture   string
	MaxTextureSize int
}

func (o WorldOptions) withDefaults() WorldOptions {
	if o.AnimationWindowMs <= 0 {
		o.AnimationWindowMs = 1000
	}
	if o.AnimationFrames <= 0 {
		o.AnimationFrames = 25
	}
	if o.TerrainCells <= 0 {
		o.TerrainCells = 64
	}
	return o
}

// spinSpeed is in turns per second.
const spinSpeed = 0.125

var (
	columnX     = []float32{-4.5, -1.5, 1.5, 4.5}
	spinnerAt   = math.Vec3{Y: 1.5, Z: -4}
	terrainAt   = math.Vec3{Y: -1, Z: -18}
	terrainSize = math.Vec3{X: 16, Y: 3, Z: 16}
)

// World is the demo content: a floor, a few rigid shapes, a row of
// swaying skinned columns and an instanced height map.
type World struct {
	Scene   *scene.Scene
	Floor   *scene.Instance
	Spinner *scene.Instance
	Columns []*scene.Instance
	Terrain *scene.Instance

	opts   WorldOptions
	models []*model.Model
	spin   float32
	frame  int
}

// Populate uploads the demo models and adds their instances to sc.
func Populate(sc *scene.Scene, up gpu.Uploader, opts WorldOptions) (*World, error) {
	w := &World{Scene: sc, opts: opts.withDefaults()}
	variants := sc.Variants()

	floorTex, err := up.UploadTexture(w.floorImage(), gpu.TextureOptions{Repeat: true, Mipmaps: true})
	if err != nil {
		return nil, fmt.Errorf("uploading floor texture: %w", err)
	}

	cube, err := w.initialize(up, variants, model.Cube("cube"), variant.Default, variant.DefaultShadow)
	if err != nil {
		return nil, err
	}
	floor := *cube
	floor.Name = "floor"
	floor.Texture = floorTex

	w.Floor, err = sc.AddDrawObject(scene.DrawObject{
		Model:     &floor,
		Transform: math.Translated(math.Vec3{Y: -0.1}).Scaled(math.Vec3{X: 24, Y: 0.2, Z: 24}),
		Variant:   variant.Default,
	})
	if err != nil {
		return nil, err
	}

	for _, t := range []math.Transform{
		math.Translated(math.Vec3{X: -3, Y: 0.5, Z: -2}),
		math.Translated(math.Vec3{X: 3, Y: 0.75, Z: -1}).Scaled(math.Vec3{X: 1.5, Y: 1.5, Z: 1.5}),
	} {
		if _, err := sc.AddDrawObject(scene.DrawObject{Model: cube, Transform: t, Variant: variant.Default}); err != nil {
			return nil, err
		}
	}
	w.Spinner, err = sc.AddDrawObject(scene.DrawObject{
		Model:     cube,
		Transform: math.Translated(spinnerAt),
		Variant:   variant.Default,
	})
	if err != nil {
		return nil, err
	}

	sphere, err := w.initialize(up, variants, model.UnitSphere(24, 16), variant.Default, variant.DefaultShadow)
	if err != nil {
		return nil, err
	}
	if _, err := sc.AddDrawObject(scene.DrawObject{
		Model:     sphere,
		Transform: math.Translated(math.Vec3{X: -1.5, Y: 0.5, Z: 1.5}),
		Variant:   variant.Default,
	}); err != nil {
		return nil, err
	}

	if err := w.addColumns(up, variants); err != nil {
		return nil, err
	}
	if err := w.addTerrain(up, variants); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) floorImage() *image.RGBA {
	if path := w.opts.FloorTexture; path != "" {
		img, err := texture.Load(path)
		if err == nil {
			return texture.Fit(img, w.opts.MaxTextureSize)
		}
		logger.Named("world").Warn("floor texture not loaded, using checkerboard",
			zap.String("path", path), zap.Error(err))
	}
	return texture.Checker(256, 8, color.RGBA{R: 200, G: 200, B: 190, A: 255}, color.RGBA{R: 90, G: 110, B: 100, A: 255})
}

func (w *World) initialize(up gpu.Uploader, variants *variant.Collection, mesh *model.Mesh, kinds ...variant.Kind) (*model.Model, error) {
	m, err := model.Initialize(up, variants, mesh, kinds...)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", mesh.Name, err)
	}
	w.models = append(w.models, m)
	return m, nil
}

func (w *World) addColumns(up gpu.Uploader, variants *variant.Collection) error {
	column, err := w.initialize(up, variants, model.SkinnedColumn(2, w.opts.AnimationFrames), variant.Skin, variant.SkinShadow)
	if err != nil {
		return err
	}
	for _, x := range columnX {
		inst, err := w.Scene.AddDrawObject(scene.DrawObject{
			Model:     column,
			Transform: math.Translated(math.Vec3{X: x, Z: -6}),
			Variant:   variant.Skin,
		})
		if err != nil {
			return err
		}
		w.Columns = append(w.Columns, inst)
	}
	return nil
}

func (w *World) addTerrain(up gpu.Uploader, variants *variant.Collection) error {
	heights, err := up.UploadTexture(texture.Noise(128, 4, w.opts.Seed), gpu.TextureOptions{})
	if err != nil {
		return fmt.Errorf("uploading height map: %w", err)
	}
	cells, err := w.initialize(up, variants, model.HeightMapCells(w.opts.TerrainCells), variant.HeightMapInstanced)
	if err != nil {
		return err
	}
	cells.HeightMap = heights

	w.Terrain, err = w.Scene.AddDrawObject(scene.DrawObject{
		Model:      cells,
		Transform:  math.Translated(terrainAt).Scaled(terrainSize),
		Variant:    variant.HeightMapInstanced,
		BeforeDraw: cellSize(w.opts.TerrainCells),
	})
	return err
}

// cellSize uploads the size of one cell in texture space.
func cellSize(cells int) scene.BeforeDrawFunc {
	size := 1 / float32(cells)
	return func(_ *scene.Instance, v variant.Variant, dev gpu.Device) {
		if s, ok := v.(*variant.Surface); ok {
			dev.UniformVec2(s.CellSize, size, size)
		}
	}
}

// Update advances the animations to t. Even columns play the sway clip
// forward, odd ones backward.
func (w *World) Update(t renderer.TickTime) {
	nowMs := float64(t.Timestamp.Milliseconds())
	w.frame = animation.FrameIndex(nowMs, w.opts.AnimationWindowMs, w.opts.AnimationFrames)
	reverse := animation.ReverseFrameIndex(nowMs, w.opts.AnimationWindowMs, w.opts.AnimationFrames)

	for i, c := range w.Columns {
		frame := w.frame
		if i%2 == 1 {
			frame = reverse
		}
		c.ApplyAnimation(0, frame)
	}

	w.spin = math32.Mod(w.spin+t.Delta*spinSpeed, 1)
	w.Spinner.SetTransform(math.Translated(spinnerAt).
		Rotated(math.QuatFromAxisAngle(math.Vec3{Y: 1}, w.spin*2*math.Pi)))
}

// Frame returns the forward animation frame of the last Update.
func (w *World) Frame() int { return w.frame }

// Models returns every model Populate built.
func (w *World) Models() []*model.Model { return w.models }
