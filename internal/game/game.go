// Package game wires the engine into the interactive viewer: window,
// input, the demo world and the frame pump.
package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/debug"
	"github.com/Faultbox/lumen/internal/engine/gpu"
	"github.com/Faultbox/lumen/internal/engine/gpu/gldevice"
	"github.com/Faultbox/lumen/internal/engine/input"
	"github.com/Faultbox/lumen/internal/engine/light"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/engine/variant"
	"github.com/Faultbox/lumen/internal/engine/window"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// Game is the viewer instance.
type Game struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	device   *gldevice.Device
	input    *input.Input
	scene    *scene.Scene
	renderer *renderer.Renderer
	host     *renderer.CooperativeHost
	world    *World

	controller  *camera.FlyController
	screenshots *debug.Screenshots
	stats       *frameStats
	stop        renderer.StopFunc

	running     bool
	captured    bool
	wantCapture bool
}

// New opens the window, compiles the variants and builds the demo world.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:         cfg,
		log:         logger.Named("game"),
		input:       input.New(nil),
		screenshots: debug.NewScreenshots(cfg.Screenshots.Dir, "lumen"),
	}

	g.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("shadows", cfg.Render.Shadows),
	)

	var err error
	g.window, err = window.New(window.Config{
		Title:      "Lumen",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// the device needs the context the window just created
	if g.device, err = gldevice.New(); err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	if err := g.build(); err != nil {
		g.Close()
		return nil, err
	}

	g.log.Info("viewer initialized", zap.Int("instances", g.scene.Len()))
	return g, nil
}

func (g *Game) build() error {
	cfg := g.cfg

	variants, err := variant.Load(g.device)
	if err != nil {
		return fmt.Errorf("loading variants: %w", err)
	}

	width, height := g.window.DrawableSize()
	g.scene, err = scene.Setup(g.device, variants, scene.Options{
		Viewport:         scene.Viewport{Width: width, Height: height},
		RenderShadows:    cfg.Render.Shadows,
		ShadowResolution: int32(cfg.Render.ShadowResolution),
		Camera: camera.Params{
			FovY:           cfg.Camera.FovY,
			Near:           cfg.Camera.Near,
			MaxDistance:    cfg.Camera.MaxDistance,
			ShadowDistance: cfg.Camera.ShadowDistance,
		},
		LightDirection: lightDirection(cfg.Light),
	})
	if err != nil {
		return fmt.Errorf("setting up scene: %w", err)
	}

	g.world, err = Populate(g.scene, g.device, WorldOptions{
		AnimationWindowMs: cfg.Animation.WindowMs,
		AnimationFrames:   cfg.Animation.Frames,
		TerrainCells:      64,
		FloorTexture:      cfg.Textures.Floor,
		MaxTextureSize:    cfg.Textures.MaxSize,
		Seed:              uint64(time.Now().UnixNano()),
	})
	if err != nil {
		return fmt.Errorf("populating world: %w", err)
	}

	fallback, err := g.device.UploadTexture(
		texture.Checker(64, 8, color.RGBA{R: 230, G: 230, B: 230, A: 255}, color.RGBA{R: 170, G: 170, B: 170, A: 255}),
		gpu.TextureOptions{Repeat: true, Nearest: true},
	)
	if err != nil {
		return fmt.Errorf("uploading fallback texture: %w", err)
	}

	debugAssets, err := renderer.NewDebugAssets(g.device, variants)
	if err != nil {
		return fmt.Errorf("building debug assets: %w", err)
	}
	g.renderer = renderer.New(g.scene, renderer.Options{
		Debug:           debugAssets,
		ShowBounds:      cfg.Render.ShowBounds,
		FallbackTexture: fallback,
	})
	g.renderer.SetDebugOverlay(cfg.Render.DebugOverlay)
	// uploads bound textures and vertex arrays behind the binder's back
	g.scene.Binder().Invalidate()

	g.controller = camera.NewFlyController(camera.Orientation{
		Position: math.Vec3{X: cfg.Camera.Position[0], Y: cfg.Camera.Position[1], Z: cfg.Camera.Position[2]},
	}, cfg.Camera.MovementSpeed)
	g.controller.MouseSensitivity = cfg.Camera.MouseSensitivity

	g.host = renderer.NewCooperativeHost(renderer.MonotonicClock())
	g.stats = newFrameStats(time.Second)
	return nil
}

func lightDirection(cfg config.LightConfig) math.Vec3 {
	d := math.Vec3{X: cfg.Direction[0], Y: cfg.Direction[1], Z: cfg.Direction[2]}
	if d != (math.Vec3{}) {
		return d
	}
	return light.DirectionFromAngles(cfg.Longitude, cfg.Latitude)
}

// Run pumps SDL events and the render loop until the user quits.
func (g *Game) Run() error {
	var err error
	g.stop, err = g.renderer.StartLoop(g.host, g.tick, renderer.LoopOptions{FPS: g.cfg.Render.FPS})
	if err != nil {
		return fmt.Errorf("starting render loop: %w", err)
	}
	defer g.stop()
	g.present()

	g.running = true
	g.log.Info("starting main loop")
	for g.running {
		if !g.input.Poll() {
			g.running = false
			break
		}
		g.handleInput()

		if g.host.Pump(g.host.Now()) > 0 {
			g.present()
		}
		g.wait()
	}
	return nil
}

// tick runs inside the render loop before every frame.
func (g *Game) tick(t renderer.TickTime) {
	if o, changed := g.controller.Tick(t.Delta, g.input.TakeMovement()); changed {
		g.scene.Camera().SetOrientation(o)
	}
	g.world.Update(t)

	if fps, ok := g.stats.frame(t.Timestamp); ok {
		s := g.renderer.LastStats()
		g.window.SetTitle(fmt.Sprintf("Lumen - %.0f fps", fps))
		g.log.Debug("frame stats",
			zap.Float64("fps", fps),
			zap.Int("shadow_draws", s.ShadowDraws),
			zap.Int("color_draws", s.ColorDraws),
			zap.Int("culled", s.Culled),
		)
	}
}

func (g *Game) handleInput() {
	in := g.input

	if w, h, ok := in.Resized(); ok {
		g.scene.Resize(w, h)
	}
	if in.Pressed(input.ActionToggleDebug) {
		g.renderer.SetDebugOverlay(!g.renderer.DebugOverlay())
	}
	if in.Pressed(input.ActionToggleMouse) {
		g.captured = !g.captured
		g.window.SetMouseCaptured(g.captured)
	}
	if in.Pressed(input.ActionScreenshot) {
		g.wantCapture = true
	}
	if x, y, ok := in.Click(); ok && !g.captured {
		g.pick(x, y)
	}
}

func (g *Game) pick(x, y int32) {
	g.scene.ClearDebug()
	inst, dist, ok := g.scene.Pick(float32(x), float32(y))
	if !ok {
		return
	}
	g.scene.AddDebugFigure(debug.SphereFigure(inst.WorldBounds()))
	g.log.Info("picked",
		zap.String("model", inst.Drawable.Name),
		zap.Float32("distance", dist),
	)
}

// present captures a pending screenshot and swaps.
func (g *Game) present() {
	if g.wantCapture {
		g.wantCapture = false
		vp := g.scene.Viewport()
		pixels := g.device.ReadPixels(vp.Width, vp.Height)
		if path, err := g.screenshots.Capture(pixels, int(vp.Width), int(vp.Height)); err != nil {
			g.log.Error("screenshot failed", zap.Error(err))
		} else {
			g.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	g.window.SwapBuffers()
}

// wait sleeps until the next interval when the loop runs at a fixed rate.
// Natural frames are paced by vsync in SwapBuffers.
func (g *Game) wait() {
	next, ok := g.host.NextDeadline()
	if !ok {
		return
	}
	if d := next - g.host.Now(); d > time.Millisecond {
		sdl.Delay(uint32(d / time.Millisecond))
	}
}

// Close releases GPU resources and the window.
func (g *Game) Close() {
	g.log.Info("closing viewer")

	if g.renderer != nil {
		g.renderer.StopLoop()
	}
	if g.scene != nil {
		g.scene.Destroy()
	}
	if g.world != nil && g.device != nil {
		for _, m := range g.world.Models() {
			m.Release(g.device)
		}
	}
	if g.window != nil {
		g.window.Close()
	}
}
