package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and the debug overlay")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagFPS        = flag.Int("fps", -1, "Fixed frame rate (0 follows the display)")
	flagNoShadows  = flag.Bool("no-shadows", false, "Disable the shadow pass")
	flagShadowRes  = flag.Int("shadow-res", 0, "Shadow map resolution")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path given by -config.
func ConfigPath() string {
	return *flagConfig
}

func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Render.DebugOverlay = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagFPS >= 0 {
		cfg.Render.FPS = *flagFPS
	}
	if *flagNoShadows {
		cfg.Render.Shadows = false
	}
	if *flagShadowRes > 0 {
		cfg.Render.ShadowResolution = *flagShadowRes
	}
}
