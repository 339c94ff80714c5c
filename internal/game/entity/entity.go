// Package entity implements the moving bodies of the game: the tank, its
// projectile and the smoke puff left by an impact.
package entity

import (
	"sort"

	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/pkg/math"
)

// Kind tags what an entity is.
type Kind uint8

const (
	KindTank Kind = iota
	KindProjectile
	KindSmoke
)

func (k Kind) String() string {
	switch k {
	case KindTank:
		return "tank"
	case KindProjectile:
		return "projectile"
	case KindSmoke:
		return "smoke"
	default:
		return "unknown"
	}
}

// Ballistic reports whether gravity acts on the kind.
func (k Kind) Ballistic() bool {
	return k == KindTank || k == KindProjectile
}

// Entity is a body with a bottom-left anchored position and a mask.
type Entity struct {
	ID       uint32
	Kind     Kind
	Position math.Vec3
	Velocity math.Vec3
	Mask     terrain.Mask

	// Landed is set while a tank rests without sliding sideways.
	Landed  bool
	Visible bool
}

// New creates a visible entity.
func New(id uint32, kind Kind, pos, vel math.Vec3, mask terrain.Mask) *Entity {
	return &Entity{
		ID:       id,
		Kind:     kind,
		Position: pos,
		Velocity: vel,
		Mask:     mask,
		Visible:  true,
	}
}

// Size returns the mask size, or zero without a mask.
func (e *Entity) Size() (int, int) {
	if e.Mask == nil {
		return 0, 0
	}
	return e.Mask.Size()
}

// Center returns the middle of the entity's mask.
func (e *Entity) Center() math.Vec3 {
	w, h := e.Size()
	return e.Position.Add(math.Vec3{X: float32(w) / 2, Y: float32(h) / 2})
}

// Heading returns the direction of travel in radians.
func (e *Entity) Heading() float32 {
	return e.Velocity.XY().Angle()
}

// Step advances the velocity by dt seconds and returns the target
// position together with the average velocity over the step. The position
// itself is not moved; callers sweep toward the target first.
func (e *Entity) Step(dt, gravity float32) (target, avg math.Vec3) {
	return Ballistic(e.Position, &e.Velocity, dt, gravity)
}

// Drift moves a non-ballistic entity at constant velocity.
func (e *Entity) Drift(dt float32) {
	e.Position = e.Position.Add(e.Velocity.Scale(dt))
}

// Stop zeroes the velocity.
func (e *Entity) Stop() {
	e.Velocity = math.Vec3{}
}

// Ballistic integrates constant downward acceleration over dt. The
// returned avg is the mean velocity across the step, and target is pos
// moved by it.
func Ballistic(pos math.Vec3, vel *math.Vec3, dt, gravity float32) (target, avg math.Vec3) {
	avg = math.Vec3{X: vel.X, Y: vel.Y - gravity/2*dt, Z: vel.Z}
	vel.Y -= gravity * dt
	return pos.Add(avg.Scale(dt)), avg
}

// Manager keeps the entities of a scene by ID.
type Manager struct {
	entities map[uint32]*Entity
	nextID   uint32
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{entities: make(map[uint32]*Entity)}
}

// Spawn creates and adds an entity with the next free ID.
func (m *Manager) Spawn(kind Kind, pos, vel math.Vec3, mask terrain.Mask) *Entity {
	m.nextID++
	e := New(m.nextID, kind, pos, vel, mask)
	m.entities[e.ID] = e
	return e
}

// Remove removes an entity.
func (m *Manager) Remove(id uint32) {
	delete(m.entities, id)
}

// Get returns an entity by ID.
func (m *Manager) Get(id uint32) *Entity {
	return m.entities[id]
}

// All returns all entities in spawn order.
func (m *Manager) All() []*Entity {
	result := make([]*Entity, 0, len(m.entities))
	for _, e := range m.entities {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Visible returns the visible entities in spawn order.
func (m *Manager) Visible() []*Entity {
	all := m.All()
	result := all[:0]
	for _, e := range all {
		if e.Visible {
			result = append(result, e)
		}
	}
	return result
}

// ByKind returns the entities of one kind in spawn order.
func (m *Manager) ByKind(kind Kind) []*Entity {
	var result []*Entity
	for _, e := range m.All() {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// Count returns the number of entities.
func (m *Manager) Count() int {
	return len(m.entities)
}
