package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("window", false, "Run in a window")
	flagFullscreen = flag.Bool("fullscreen", false, "Run fullscreen")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagDepth      = flag.Int("depth", 0, "Colour depth in bits")
	flagNoMusic    = flag.Bool("m", false, "Disable music")
	flagNoSounds   = flag.Bool("s", false, "Disable sound effects")
	flagProfile    = flag.String("profile", "", "Terrain profile file")
	flagData       = flag.String("data", "", "Data directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path given with -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Game.ShowFPS = true
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
	if *flagDepth > 0 {
		cfg.Graphics.Depth = *flagDepth
	}
	if *flagNoMusic {
		cfg.Audio.Music = false
	}
	if *flagNoSounds {
		cfg.Audio.Sounds = false
	}
	if *flagProfile != "" {
		cfg.Terrain.Profile = *flagProfile
	}
	if *flagData != "" {
		cfg.Data.Dir = *flagData
	}
}
