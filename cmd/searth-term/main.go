// searth-term runs the SEarth scene in a terminal. Each character cell
// shows two vertically stacked samples of the playfield.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/searth/internal/assets"
	"github.com/Faultbox/searth/internal/config"
	"github.com/Faultbox/searth/internal/engine/audio"
	"github.com/Faultbox/searth/internal/engine/debug"
	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/internal/game/world"
	"github.com/Faultbox/searth/internal/logger"
)

const frameTime = 16 * time.Millisecond

type app struct {
	screen tcell.Screen
	world  *world.World
	audio  *audio.Manager
	dumps  *debug.Capture
	log    *zap.Logger
	view   *view
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.CheckDataDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Data error: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the view, so logs only go to the file.
	log, err := logger.New(cfg.Logging.Level, logger.DefaultFileConfig(cfg.Logging.LogFile), false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Set(log)
	defer logger.Sync()

	a, err := newApp(cfg)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	a.run()
	a.close()
}

func newApp(cfg *config.Config) (*app, error) {
	log := logger.Named("term")
	images := &terrain.MemoryImages{}

	t, err := terrain.Load(cfg.DataPath(cfg.Terrain.Profile),
		cfg.Graphics.Width, cfg.Graphics.Height,
		terrain.WithImages(images),
		terrain.WithLogger(logger.Named("terrain")),
		terrain.WithGravity(cfg.Terrain.Gravity),
		terrain.WithMaxTextureSize(cfg.Terrain.MaxTextureSize),
		terrain.WithStep(cfg.Terrain.Step),
	)
	if err != nil {
		return nil, err
	}

	store := assets.NewManager(cfg.Data.Dir)
	sprites := store.Sprites(assets.SpritePaths{
		Tank:       cfg.Game.Tank,
		Projectile: cfg.Game.Projectile,
	}, logger.Named("assets"))
	tank, shell, err := sprites.Masks(images)
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("sprite masks: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		t.Close()
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()

	a := &app{
		screen: screen,
		world:  world.New(t, tank, shell, world.ConfigFrom(cfg), logger.Named("world")),
		dumps:  debug.NewCapture(cfg.Data.Screenshots, "terrain"),
		log:    log,
	}
	if err := a.dumps.SetFormat(cfg.Data.ScreenshotFormat); err != nil {
		log.Warn("keeping PNG dumps", zap.Error(err))
	}
	a.world.SetPaused(cfg.Game.StartPaused)
	a.resize()

	if cfg.Audio.Sounds {
		a.audio = audio.New(logger.Named("audio"))
		a.audio.SetMusicEnabled(false)
		a.audio.SetSFXVolume(cfg.Audio.SFXVolume)
		if err := a.audio.Init(); err != nil {
			log.Warn("audio unavailable", zap.Error(err))
			a.audio = nil
		} else if err := a.audio.LoadImpactFile(store.Path(cfg.Audio.ImpactFile)); err != nil {
			log.Debug("impact sound unavailable, using synthesized blast", zap.Error(err))
		}
	}
	return a, nil
}

func (a *app) resize() {
	w, h := a.screen.Size()
	a.view = newView(a.world, w, h)
}

func (a *app) run() {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.handle(ev) {
				return
			}

		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			if impact, hit := a.world.Update(min(dt, 0.25)); hit && a.audio != nil {
				if err := a.audio.PlayImpact(float64(impact.Speed) / 300); err != nil {
					a.log.Debug("impact sound skipped", zap.Error(err))
				}
			}
			a.view.draw(a.screen)
			a.screen.Show()
		}
	}
}

// handle processes one terminal event and reports whether to keep running.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'p', 'P':
				a.world.TogglePause()
			case 's', 'S':
				a.dump()
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	}
	return true
}

func (a *app) dump() {
	img, err := a.world.Terrain().Snapshot()
	if err != nil {
		a.log.Error("terrain dump failed", zap.Error(err))
		return
	}
	path, err := a.dumps.FromImage(img)
	if err != nil {
		a.log.Error("terrain dump failed", zap.Error(err))
		return
	}
	a.log.Info("terrain dumped", zap.String("path", path))
}

func (a *app) close() {
	a.screen.Fini()
	if a.audio != nil {
		a.audio.Close()
	}
	a.world.Terrain().Close()
}
