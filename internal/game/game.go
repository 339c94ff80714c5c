// Package game implements the main loop: it owns the window, the renderer
// and the audio, steps the world every frame and draws it.
package game

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/searth/internal/assets"
	"github.com/Faultbox/searth/internal/config"
	"github.com/Faultbox/searth/internal/engine/audio"
	"github.com/Faultbox/searth/internal/engine/debug"
	"github.com/Faultbox/searth/internal/engine/input"
	"github.com/Faultbox/searth/internal/engine/renderer"
	"github.com/Faultbox/searth/internal/engine/surface"
	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/internal/engine/window"
	"github.com/Faultbox/searth/internal/game/particles"
	"github.com/Faultbox/searth/internal/game/world"
	"github.com/Faultbox/searth/pkg/math"
)

// Title is the window title.
const Title = "SEarth"

// maxFrame caps the simulated time of a single frame, in seconds.
const maxFrame = 0.25

var (
	dirtColor  = renderer.RGBA8(particles.Earth.R, particles.Earth.G, particles.Earth.B, particles.Earth.A)
	flareColor = renderer.Color{R: 0.6, G: 0.3, B: 0, A: 1}
)

// Game is the running program.
type Game struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	audio    *audio.Manager
	assets   *assets.Manager
	terrain  *terrain.Terrain
	world    *world.World

	background *renderer.Texture
	tank       *renderer.Texture
	projectile *renderer.Texture
	flare      *renderer.Texture
	smoke      *renderer.Texture

	screenshots *debug.Capture
	dumps       *debug.Capture

	running    bool
	showFPS    bool
	screenshot bool
	fps        int
}

// New opens the window and loads the scene described by cfg.
func New(cfg *config.Config, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		cfg:         cfg,
		log:         log,
		showFPS:     cfg.Game.ShowFPS,
		input:       input.New(nil),
		screenshots: debug.NewCapture(cfg.Data.Screenshots, "screenshot"),
		dumps:       debug.NewCapture(cfg.Data.Screenshots, "terrain"),
	}
	for _, c := range []*debug.Capture{g.screenshots, g.dumps} {
		if err := c.SetFormat(cfg.Data.ScreenshotFormat); err != nil {
			log.Warn("keeping PNG captures", zap.Error(err))
		}
	}

	log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("depth", cfg.Graphics.Depth))

	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Depth:      cfg.Graphics.Depth,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window created.
	g.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	}, log.Named("renderer"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := g.loadScene(); err != nil {
		g.Close()
		return nil, err
	}
	g.startAudio()

	log.Info("game initialized successfully")
	return g, nil
}

func (g *Game) loadScene() error {
	cfg := g.cfg
	images := surface.New(g.log.Named("surface"))

	var err error
	g.terrain, err = terrain.Load(cfg.DataPath(cfg.Terrain.Profile),
		cfg.Graphics.Width, cfg.Graphics.Height,
		terrain.WithImages(images),
		terrain.WithGPU(renderer.NewTileTextures(g.renderer)),
		terrain.WithLogger(g.log.Named("terrain")),
		terrain.WithGravity(cfg.Terrain.Gravity),
		terrain.WithMaxTextureSize(cfg.Terrain.MaxTextureSize),
		terrain.WithStep(cfg.Terrain.Step),
	)
	if err != nil {
		return err
	}

	g.assets = assets.NewManager(cfg.Data.Dir)
	sprites := g.assets.Sprites(assets.SpritePaths{
		Background: cfg.Game.Background,
		Tank:       cfg.Game.Tank,
		Projectile: cfg.Game.Projectile,
		Flare:      cfg.Game.Flare,
		Smoke:      cfg.Game.Smoke,
	}, g.log.Named("assets"))
	tankMask, shellMask, err := sprites.Masks(images)
	if err != nil {
		return fmt.Errorf("sprite masks: %w", err)
	}

	if sprites.Background != nil {
		g.background = renderer.NewTexture(sprites.Background)
	}
	g.tank = renderer.NewTexture(sprites.Tank)
	g.projectile = renderer.NewTexture(sprites.Projectile)
	g.flare = renderer.NewTexture(sprites.Flare)
	g.smoke = renderer.NewTexture(sprites.Smoke)

	g.world = world.New(g.terrain, tankMask, shellMask, world.ConfigFrom(cfg), g.log.Named("world"))
	g.world.SetPaused(cfg.Game.StartPaused)
	return nil
}

func (g *Game) startAudio() {
	cfg := g.cfg.Audio
	g.audio = audio.New(g.log.Named("audio"))
	g.audio.SetMusicEnabled(cfg.Music)
	g.audio.SetSoundsEnabled(cfg.Sounds)
	g.audio.SetMasterVolume(cfg.MasterVolume)
	g.audio.SetMusicVolume(cfg.MusicVolume)
	g.audio.SetSFXVolume(cfg.SFXVolume)

	if !cfg.Music && !cfg.Sounds {
		return
	}
	if err := g.audio.Init(); err != nil {
		g.log.Warn("audio unavailable", zap.Error(err))
		return
	}
	if cfg.Music {
		if err := g.audio.PlayMusicFile(g.assets.Path(cfg.MusicFile)); err != nil {
			g.log.Warn("music unavailable", zap.Error(err))
		}
	}
	if cfg.Sounds {
		if err := g.audio.LoadImpactFile(g.assets.Path(cfg.ImpactFile)); err != nil {
			g.log.Debug("impact sound unavailable, using synthesized blast", zap.Error(err))
		}
	}
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	last := window.Ticks()
	fpsTimer := last
	frames := 0

	g.log.Info("starting game loop")

	for g.running {
		now := window.Ticks()
		dt := min(float32(now-last)/1000, maxFrame)
		last = now

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		if impact, hit := g.world.Update(dt); hit {
			g.onImpact(impact)
		}

		g.render()
		if g.screenshot {
			g.screenshot = false
			g.saveScreenshot()
		}
		g.window.SwapBuffers()

		frames++
		if now-fpsTimer >= 1000 {
			g.fps = frames
			frames = 0
			fpsTimer = now
			g.updateTitle()
			g.log.Debug("fps", zap.Int("count", g.fps), zap.Float32("dt", dt))
		}

		if limit := g.cfg.Graphics.FPSLimit; limit > 0 {
			budget := uint32(1000 / limit)
			if spent := window.Ticks() - now; spent < budget {
				window.Delay(budget - spent)
			}
		}
	}
	return nil
}

func (g *Game) handleEvents() {
	for _, ev := range g.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			g.renderer.Resize(ev.Width, ev.Height)
		case input.EventKeyDown:
			g.handleAction(ev.Action)
		}
	}
}

func (g *Game) handleAction(action input.Action) {
	switch action {
	case input.ActionPause:
		g.world.TogglePause()
		g.updateTitle()
	case input.ActionToggleFPS:
		g.showFPS = !g.showFPS
		g.updateTitle()
	case input.ActionScreenshot:
		g.screenshot = true
	case input.ActionDumpTerrain:
		g.dumpTerrain()
	}
}

func (g *Game) updateTitle() {
	title := Title
	if g.world.Paused() {
		title += " (paused)"
	}
	if g.showFPS {
		title = fmt.Sprintf("%s - %d fps", title, g.fps)
	}
	g.window.SetTitle(title)
}

func (g *Game) onImpact(impact world.Impact) {
	if err := g.audio.PlayImpact(float64(impact.Speed) / 300); err != nil {
		g.log.Debug("impact sound skipped", zap.Error(err))
	}
}

func (g *Game) saveScreenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.screenshots.FromPixels(pixels, w, h)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

func (g *Game) dumpTerrain() {
	img, err := g.terrain.Snapshot()
	if err != nil {
		g.log.Error("terrain dump failed", zap.Error(err))
		return
	}
	path, err := g.dumps.FromImage(img)
	if err != nil {
		g.log.Error("terrain dump failed", zap.Error(err))
		return
	}
	g.log.Info("terrain dumped", zap.String("path", path))
}

func (g *Game) render() {
	r := g.renderer
	r.Begin()
	defer r.End()

	if g.background != nil {
		r.DrawTexture(g.background, 0, 0, 0, renderer.White)
	}
	g.terrain.Render()

	tank := g.world.Tank()
	r.DrawTexture(g.tank, tank.Position.X, tank.Position.Y, 0, renderer.White)

	if spray := g.world.Spray(); spray != nil {
		for _, p := range spray.Particles() {
			if !p.Dead {
				r.DrawRect(p.Position.X, p.Position.Y, particles.Size, particles.Size, dirtColor)
			}
		}
		smoke := g.world.Smoke()
		r.DrawTexture(g.smoke,
			smoke.Position.X-float32(g.smoke.Width)/2,
			smoke.Position.Y-float32(g.smoke.Height)/2,
			0, renderer.White)
	}

	if p := g.world.Projectile(); p.Visible {
		heading := p.Heading()
		c := p.Center()
		// The flare trails the shell along its heading.
		back := math.FromPolar(float32(g.projectile.Width), heading+gomath.Pi).Vec3()
		fc := c.Add(back)
		r.DrawTexture(g.flare, fc.X-float32(g.flare.Width)/2, fc.Y-float32(g.flare.Height)/2, heading, flareColor)
		r.DrawTexture(g.projectile, p.Position.X, p.Position.Y, heading, renderer.White)
	}
}

// Close releases everything New acquired.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.audio != nil {
		g.audio.Close()
	}
	for _, tex := range []*renderer.Texture{g.background, g.tank, g.projectile, g.flare, g.smoke} {
		if tex != nil {
			tex.Delete()
		}
	}
	if g.terrain != nil {
		g.terrain.Close()
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
