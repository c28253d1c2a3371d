package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagWidth  = flag.Int("width", 0, "Canvas width")
	flagHeight = flag.Int("height", 0, "Canvas height")
	flagFPS    = flag.Int("fps", 0, "Frames per second")
	flagOut    = flag.String("out", "", "Frame output directory")
	flagFrames = flag.Int("frames", 0, "Number of frames to render")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagFPS > 0 {
		cfg.Graphics.FPS = *flagFPS
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagFrames > 0 {
		cfg.Output.Frames = *flagFrames
	}
}
