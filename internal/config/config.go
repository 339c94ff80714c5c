// Package config loads game settings from defaults, a YAML file and flags.
package config

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Game     GameConfig     `yaml:"game"`
	Audio    AudioConfig    `yaml:"audio"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Depth      int  `yaml:"depth"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// TerrainConfig holds terrain simulation settings.
type TerrainConfig struct {
	Profile        string  `yaml:"profile"`
	MaxTextureSize int     `yaml:"max_texture_size"`
	Gravity        float32 `yaml:"gravity"`
	Step           float32 `yaml:"step"`
}

// GameConfig holds gameplay and sprite settings.
type GameConfig struct {
	ShowFPS     bool   `yaml:"show_fps"`
	StartPaused bool   `yaml:"start_paused"`
	Tank        string `yaml:"tank"`
	Projectile  string `yaml:"projectile"`
	Flare       string `yaml:"flare"`
	Smoke       string `yaml:"smoke"`
	Background  string `yaml:"background"`
	Seed        int64  `yaml:"seed"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Music        bool    `yaml:"music"`
	Sounds       bool    `yaml:"sounds"`
	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
	MusicFile    string  `yaml:"music_file"`
	ImpactFile   string  `yaml:"impact_file"`
}

// DataConfig holds data file locations. Relative paths elsewhere in the
// config resolve against Dir.
type DataConfig struct {
	Dir         string `yaml:"dir"`
	Screenshots string `yaml:"screenshots"`
	// ScreenshotFormat is png or bmp.
	ScreenshotFormat string `yaml:"screenshot_format"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock settings.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  800,
			Height: 600,
			Depth:  32,
			VSync:  true,
		},
		Terrain: TerrainConfig{
			Profile:        "terrain/test.set",
			MaxTextureSize: 512,
			Gravity:        190,
			Step:           0.001,
		},
		Game: GameConfig{
			Tank:       "images/tank.tga",
			Projectile: "images/projectile.tga",
			Flare:      "images/flare.tga",
			Smoke:      "images/smoke.tga",
			Background: "images/space.tga",
		},
		Audio: AudioConfig{
			Music:        true,
			Sounds:       true,
			MasterVolume: 0.8,
			MusicVolume:  0.7,
			SFXVolume:    0.8,
			MusicFile:    "music/theme.wav",
			ImpactFile:   "sounds/impact.wav",
		},
		Data: DataConfig{
			Dir:              "data",
			Screenshots:      "screenshots",
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "searth.log",
		},
	}
}
