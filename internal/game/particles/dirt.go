// Package particles implements the dirt thrown up by an impact.
package particles

import (
	"image/color"
	"math/rand/v2"

	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/internal/game/entity"
	"github.com/Faultbox/searth/pkg/math"
)

// Spray defaults.
const (
	MaxParticles = 500
	Size         = 2

	velocityFuzz = 25
	originFuzz   = 12
)

// Earth is the colour of a dirt particle.
var Earth = color.NRGBA{R: 0, G: 192, B: 6, A: 255}

// Collider sweeps a mask against the ground.
type Collider interface {
	Collision(s0, s1, v math.Vec3, m terrain.Mask) (math.Vec3, bool)
}

// Particle is one clod of dirt.
type Particle struct {
	Position math.Vec3
	Velocity math.Vec3
	Dead     bool
}

// Spray is a burst of dirt particles. Each particle flies ballistically
// and dies on its first contact with the ground.
type Spray struct {
	origin    math.Vec3
	initial   math.Vec3
	gravity   float32
	mask      terrain.Box
	rng       *rand.Rand
	particles []Particle
	alive     int
}

// NewSpray creates an empty spray at origin. The initial velocity has
// magnitude force and points along angle; only its length shapes the
// particles, which are thrown upward.
func NewSpray(origin math.Vec3, force, angle, gravity float32, rng *rand.Rand) *Spray {
	return &Spray{
		origin:  origin,
		initial: math.FromPolar(force, angle).Vec3(),
		gravity: gravity,
		mask:    terrain.Box{W: Size, H: Size},
		rng:     rng,
	}
}

// Emit adds up to n particles, never exceeding MaxParticles in total.
func (s *Spray) Emit(n int) {
	n = min(n, MaxParticles-len(s.particles))
	speed := s.initial.Length()
	for i := 0; i < n; i++ {
		vel := math.Vec3{
			X: s.fuzz(velocityFuzz),
			Y: speed + s.fuzz(velocityFuzz),
			Z: s.initial.Z,
		}
		pos := s.origin.Add(math.Vec3{X: s.fuzz(originFuzz), Y: s.fuzz(originFuzz)})
		s.particles = append(s.particles, Particle{Position: pos, Velocity: vel})
		s.alive++
	}
}

// EmitMax fills the spray to MaxParticles.
func (s *Spray) EmitMax() {
	s.Emit(MaxParticles)
}

// fuzz returns a whole number in [-n, n).
func (s *Spray) fuzz(n int) float32 {
	return float32(s.rng.IntN(2*n) - n)
}

// Update moves every live particle by dt seconds.
func (s *Spray) Update(c Collider, dt float32) {
	for i := range s.particles {
		p := &s.particles[i]
		if p.Dead {
			continue
		}
		target, avg := entity.Ballistic(p.Position, &p.Velocity, dt, s.gravity)
		if _, hit := c.Collision(p.Position, target, avg, s.mask); hit {
			p.Dead = true
			s.alive--
			continue
		}
		p.Position = target
	}
}

// Particles returns every particle, dead ones included.
func (s *Spray) Particles() []Particle { return s.particles }

// Alive returns the number of live particles.
func (s *Spray) Alive() int { return s.alive }

// Finished reports whether every particle has landed.
func (s *Spray) Finished() bool { return s.alive == 0 }
