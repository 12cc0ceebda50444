// Package config handles viewer configuration loading and saving.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Render      RenderConfig      `yaml:"render"`
	Camera      CameraConfig      `yaml:"camera"`
	Light       LightConfig       `yaml:"light"`
	Animation   AnimationConfig   `yaml:"animation"`
	Textures    TexturesConfig    `yaml:"textures"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds window settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// RenderConfig holds pipeline settings.
type RenderConfig struct {
	Shadows          bool `yaml:"shadows"`
	ShadowResolution int  `yaml:"shadow_resolution"`
	DebugOverlay     bool `yaml:"debug_overlay"`
	// ShowBounds adds instance bound spheres to the debug overlay.
	ShowBounds bool `yaml:"show_bounds"`
	// FPS > 0 switches the render loop to a fixed interval.
	FPS int `yaml:"fps"`
}

// CameraConfig holds projection and controller settings.
type CameraConfig struct {
	FovY             float32    `yaml:"fov_y"` // radians
	Near             float32    `yaml:"near"`
	MaxDistance      float32    `yaml:"max_distance"`
	ShadowDistance   float32    `yaml:"shadow_distance"`
	MovementSpeed    float32    `yaml:"movement_speed"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	Position         [3]float32 `yaml:"position"`
}

// LightConfig selects the sun direction. A non-zero Direction wins over
// the angle pair.
type LightConfig struct {
	Direction [3]float32 `yaml:"direction"`
	Longitude int32      `yaml:"longitude"`
	Latitude  int32      `yaml:"latitude"`
}

// AnimationConfig controls the demo animation clock.
type AnimationConfig struct {
	WindowMs float64 `yaml:"window_ms"`
	Frames   int     `yaml:"frames"`
}

// TexturesConfig points at optional image files (PNG, JPEG, BMP or TGA)
// that replace the generated textures.
type TexturesConfig struct {
	Floor string `yaml:"floor"`
	// MaxSize caps either side of a loaded texture; larger images are
	// scaled down.
	MaxSize int `yaml:"max_size"`
}

// ScreenshotsConfig sets where F12 captures go.
type ScreenshotsConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock viewer settings.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Render: RenderConfig{
			Shadows:          true,
			ShadowResolution: 2048,
		},
		Camera: CameraConfig{
			FovY:             1.5707964,
			Near:             0.1,
			MaxDistance:      1000,
			ShadowDistance:   12,
			MovementSpeed:    5,
			MouseSensitivity: 0.1,
			Position:         [3]float32{0, 2, 8},
		},
		Light: LightConfig{
			Direction: [3]float32{-5, 10, 4},
		},
		Animation: AnimationConfig{
			WindowMs: 1000,
			Frames:   25,
		},
		Textures: TexturesConfig{
			MaxSize: 1024,
		},
		Screenshots: ScreenshotsConfig{
			Dir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
