// Package world runs the scene: a tank resting on destructible ground, the
// projectile it fires, the dirt thrown up on impact and the settling of
// the loosened earth. It has no rendering and drives every frontend.
package world

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/searth/internal/config"
	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/internal/game/entity"
	"github.com/Faultbox/searth/internal/game/particles"
	"github.com/Faultbox/searth/pkg/math"
)

// Config holds the scene constants.
type Config struct {
	Gravity            float32
	TankStart          math.Vec3
	ProjectileStart    math.Vec3
	ProjectileVelocity math.Vec3
	SmokeVelocity      math.Vec3
	// MaxLaunch bounds each component of a relaunch velocity.
	MaxLaunch int
	Seed      uint64
}

// DefaultConfig returns the stock scene.
func DefaultConfig() Config {
	return Config{
		Gravity:            terrain.DefaultGravity,
		TankStart:          math.Vec3{X: 70, Y: 500},
		ProjectileStart:    math.Vec3{X: 100, Y: 217},
		ProjectileVelocity: math.Vec3{X: 200, Y: 200},
		SmokeVelocity:      math.Vec3{Y: 25},
		MaxLaunch:          300,
	}
}

// ConfigFrom derives the scene constants from the game settings. A zero
// seed picks one from the clock.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	c.Gravity = cfg.Terrain.Gravity
	c.Seed = uint64(cfg.Game.Seed)
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

// Impact describes a projectile hitting the ground.
type Impact struct {
	Position math.Vec3
	Radius   int
	Speed    float32
}

// World is the simulated scene.
type World struct {
	cfg     Config
	terrain *terrain.Terrain
	log     *zap.Logger
	rng     *rand.Rand

	entities   *entity.Manager
	tank       *entity.Entity
	projectile *entity.Entity
	smoke      *entity.Entity
	spray      *particles.Spray

	// nudge is the last sideways correction of the tank, made while its
	// footprint rested on nudgeRow.
	nudge    int
	nudgeRow int
	settling bool
	paused   bool
	impacts  int
}

// New builds a scene on t with the given tank and projectile shapes.
func New(t *terrain.Terrain, tank, projectile terrain.Mask, cfg Config, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		cfg:      cfg,
		terrain:  t,
		log:      log,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		entities: entity.NewManager(),
	}
	w.tank = w.entities.Spawn(entity.KindTank, cfg.TankStart, math.Vec3{}, tank)
	w.projectile = w.entities.Spawn(entity.KindProjectile, cfg.ProjectileStart, cfg.ProjectileVelocity, projectile)
	w.smoke = w.entities.Spawn(entity.KindSmoke, math.Vec3{}, cfg.SmokeVelocity, nil)
	w.projectile.Visible = false
	w.smoke.Visible = false
	return w
}

// Terrain returns the ground.
func (w *World) Terrain() *terrain.Terrain { return w.terrain }

// Tank returns the tank.
func (w *World) Tank() *entity.Entity { return w.tank }

// Projectile returns the projectile.
func (w *World) Projectile() *entity.Entity { return w.projectile }

// Smoke returns the smoke puff.
func (w *World) Smoke() *entity.Entity { return w.smoke }

// Entities returns every entity in draw order.
func (w *World) Entities() []*entity.Entity { return w.entities.All() }

// Spray returns the active dirt spray, or nil.
func (w *World) Spray() *particles.Spray { return w.spray }

// Settling reports whether loosened earth is still falling.
func (w *World) Settling() bool { return w.settling }

// Paused reports whether the scene is frozen.
func (w *World) Paused() bool { return w.paused }

// SetPaused freezes or resumes the scene.
func (w *World) SetPaused(paused bool) {
	if w.paused != paused {
		w.log.Info("pause toggled", zap.Bool("paused", paused))
	}
	w.paused = paused
}

// TogglePause flips the pause state and returns the new one.
func (w *World) TogglePause() bool {
	w.SetPaused(!w.paused)
	return w.paused
}

// Impacts returns the number of projectile hits so far.
func (w *World) Impacts() int { return w.impacts }

// Launch places the projectile at pos with velocity vel.
func (w *World) Launch(pos, vel math.Vec3) {
	w.projectile.Position = pos
	w.projectile.Velocity = vel
}

// Update advances the scene by dt seconds. It reports the impact when the
// projectile hit the ground during this frame.
func (w *World) Update(dt float32) (Impact, bool) {
	landed := w.paused || w.moveTank(dt)
	w.tank.Landed = landed

	if w.spray != nil && !w.paused {
		w.spray.Update(w.terrain, dt)
		w.smoke.Drift(dt)

		if w.spray.Finished() && !w.settling {
			w.spray = nil
			w.smoke.Visible = false
			w.log.Debug("dirt cleared")
		}
		if w.settling {
			w.settling = w.terrain.Slide(dt)
			if !w.settling {
				w.log.Debug("earth settled")
			}
		}
	}

	w.projectile.Visible = landed && w.spray == nil
	if !w.projectile.Visible || w.paused {
		return Impact{}, false
	}
	return w.moveProjectile(dt)
}

// moveTank lets the tank fall and reports whether it came to rest.
func (w *World) moveTank(dt float32) bool {
	t := w.tank
	target, avg := t.Step(dt, w.cfg.Gravity)
	contact, hit := w.terrain.Collision(t.Position, target, avg, t.Mask)
	if !hit {
		t.Position = target
		return false
	}
	t.Position = contact
	t.Stop()

	_, row := terrain.Footprint(t.Position)
	if row != w.nudgeRow {
		w.nudge = 0
	}
	nudge := w.terrain.WouldFall(t.Position, t.Mask)
	if nudge == 0 {
		w.nudge = 0
		return true
	}
	// A correction against the previous one on the same row would rock the
	// tank between two ledges; it stays put instead.
	if nudge*w.nudge < 0 {
		return true
	}
	w.nudge, w.nudgeRow = nudge, row
	t.Position.X += float32(nudge)
	return false
}

func (w *World) moveProjectile(dt float32) (Impact, bool) {
	p := w.projectile
	target, avg := p.Step(dt, w.cfg.Gravity)
	contact, hit := w.terrain.Collision(p.Position, target, avg, p.Mask)
	if !hit {
		p.Position = target
		return Impact{}, false
	}

	speed := p.Velocity.Length()
	impact := Impact{Position: contact, Radius: int(speed / 5), Speed: speed}
	w.terrain.Deform(contact, impact.Radius)

	// Throw the dirt from just above the surface.
	origin := contact.Add(math.Vec3{X: -sign(p.Velocity.X), Y: -sign(p.Velocity.Y)})
	w.spray = particles.NewSpray(origin, speed/-2, p.Heading(), w.cfg.Gravity, w.rng)
	w.spray.EmitMax()

	w.smoke.Position = contact
	w.smoke.Velocity = w.cfg.SmokeVelocity
	w.smoke.Visible = true

	tw, th := w.tank.Size()
	w.Launch(
		w.tank.Position.Add(math.Vec3{X: float32(tw), Y: float32(th)}),
		math.Vec3{X: w.launchComponent(), Y: w.launchComponent()},
	)
	p.Visible = false
	w.settling = true
	w.impacts++

	w.log.Info("impact",
		zap.Float32("x", contact.X),
		zap.Float32("y", contact.Y),
		zap.Float32("speed", speed),
		zap.Int("radius", impact.Radius))
	return impact, true
}

func (w *World) launchComponent() float32 {
	if w.cfg.MaxLaunch <= 0 {
		return 0
	}
	return float32(w.rng.IntN(w.cfg.MaxLaunch))
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
