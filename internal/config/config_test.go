package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 800 || cfg.Graphics.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Depth != 32 {
		t.Errorf("expected depth 32, got %d", cfg.Graphics.Depth)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Terrain.Profile != "terrain/test.set" {
		t.Errorf("expected profile terrain/test.set, got %s", cfg.Terrain.Profile)
	}
	if cfg.Terrain.MaxTextureSize != 512 {
		t.Errorf("expected max texture 512, got %d", cfg.Terrain.MaxTextureSize)
	}
	if cfg.Terrain.Gravity != 190 {
		t.Errorf("expected gravity 190, got %f", cfg.Terrain.Gravity)
	}

	if !cfg.Audio.Music || !cfg.Audio.Sounds {
		t.Error("expected music and sounds enabled by default")
	}
	if cfg.Audio.MasterVolume != 0.8 {
		t.Errorf("expected master volume 0.8, got %f", cfg.Audio.MasterVolume)
	}

	if cfg.Data.ScreenshotFormat != "png" {
		t.Errorf("expected png screenshots, got %s", cfg.Data.ScreenshotFormat)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "searth.log" {
		t.Errorf("expected log file searth.log, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1024
  height: 768
  fullscreen: true

terrain:
  profile: "terrain/hills.set"
  gravity: 95
  max_texture_size: 1024

game:
  show_fps: true
  start_paused: true

audio:
  music: false
  sfx_volume: 0.25

logging:
  level: "debug"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1024 || cfg.Graphics.Height != 768 {
		t.Errorf("expected 1024x768, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.Depth != 32 {
		t.Errorf("expected depth to keep default 32, got %d", cfg.Graphics.Depth)
	}

	if cfg.Terrain.Profile != "terrain/hills.set" {
		t.Errorf("expected profile terrain/hills.set, got %s", cfg.Terrain.Profile)
	}
	if cfg.Terrain.Gravity != 95 {
		t.Errorf("expected gravity 95, got %f", cfg.Terrain.Gravity)
	}
	if cfg.Terrain.MaxTextureSize != 1024 {
		t.Errorf("expected max texture 1024, got %d", cfg.Terrain.MaxTextureSize)
	}
	if cfg.Terrain.Step != 0.001 {
		t.Errorf("expected step to keep default, got %f", cfg.Terrain.Step)
	}

	if !cfg.Game.ShowFPS || !cfg.Game.StartPaused {
		t.Error("expected show_fps and start_paused to be true")
	}
	if cfg.Audio.Music {
		t.Error("expected music to be disabled")
	}
	if cfg.Audio.SFXVolume != 0.25 {
		t.Errorf("expected sfx volume 0.25, got %f", cfg.Audio.SFXVolume)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "searth.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 640\n"), 0o644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find searth.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Game.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "window overrides fullscreen",
			setup: func() {
				*flagFullscreen = true
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("fullscreen is applied after window")
				}
			},
			teardown: func() {
				*flagFullscreen = false
				*flagWindowed = false
			},
		},
		{
			name:  "window flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with window flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name: "size and depth flags",
			setup: func() {
				*flagWidth = 1024
				*flagHeight = 768
				*flagDepth = 16
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 1024 || cfg.Graphics.Height != 768 {
					t.Errorf("expected 1024x768, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
				if cfg.Graphics.Depth != 16 {
					t.Errorf("expected depth 16, got %d", cfg.Graphics.Depth)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
				*flagDepth = 0
			},
		},
		{
			name: "audio flags",
			setup: func() {
				*flagNoMusic = true
				*flagNoSounds = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Audio.Music || cfg.Audio.Sounds {
					t.Error("expected music and sounds disabled")
				}
			},
			teardown: func() {
				*flagNoMusic = false
				*flagNoSounds = false
			},
		},
		{
			name: "profile and data flags",
			setup: func() {
				*flagProfile = "custom.set"
				*flagData = "/opt/searth"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Profile != "custom.set" {
					t.Errorf("expected profile custom.set, got %s", cfg.Terrain.Profile)
				}
				if cfg.Data.Dir != "/opt/searth" {
					t.Errorf("expected data dir /opt/searth, got %s", cfg.Data.Dir)
				}
			},
			teardown: func() {
				*flagProfile = ""
				*flagData = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Terrain.Gravity = 50
	cfg.Game.Seed = 7
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Terrain.Gravity != 50 || loaded.Game.Seed != 7 {
		t.Errorf("round trip lost values: %+v", loaded.Terrain)
	}
}

func TestDataDir(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Data.Dir = dir

	if err := cfg.CheckDataDir(); err != nil {
		t.Errorf("CheckDataDir: %v", err)
	}
	if got, want := cfg.DataPath("terrain/test.set"), filepath.Join(dir, "terrain", "test.set"); got != want {
		t.Errorf("DataPath = %s, want %s", got, want)
	}
	if got := cfg.DataPath("/abs/file"); got != "/abs/file" {
		t.Errorf("absolute path changed: %s", got)
	}

	cfg.Data.Dir = filepath.Join(dir, "missing")
	if err := cfg.CheckDataDir(); !errors.Is(err, ErrDataDir) {
		t.Errorf("expected ErrDataDir, got %v", err)
	}

	file := filepath.Join(dir, "file")
	os.WriteFile(file, nil, 0o644)
	cfg.Data.Dir = file
	if err := cfg.CheckDataDir(); !errors.Is(err, ErrDataDir) {
		t.Errorf("expected ErrDataDir for file, got %v", err)
	}
}
