package terrain

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/searth/pkg/math"
)

// Deformation is the last crater carved into the terrain.
type Deformation struct {
	Center math.Vec3
	// Radius covers every ring the crater cleared.
	Radius int
}

var polar = func() (t [360][2]float64) {
	for a := range t {
		rad := float64(a) * gomath.Pi / 180
		t[a] = [2]float64{gomath.Cos(rad), gomath.Sin(rad)}
	}
	return t
}()

// forEachCraterCell visits the cells a crater at center clears: one sample
// per whole degree on every ring from 1 to radius, clamped into the grid.
// Cells may be visited more than once.
func forEachCraterCell(g *Grid, center math.Vec3, radius int, fn func(x, y int)) {
	cx, cy := float64(center.X), float64(center.Y)
	for _, dir := range polar {
		for r := 1; r <= radius; r++ {
			x, y := g.Clamp(int(cx+float64(r)*dir[0]), int(cy+float64(r)*dir[1]))
			fn(x, y)
		}
	}
}

// Deform carves a crater of the given radius around center, clearing the
// grid and the tile pixels, and records it for Slide.
func (t *Terrain) Deform(center math.Vec3, radius int) {
	mirror := t.lockTiles()
	forEachCraterCell(t.grid, center, radius, func(x, y int) {
		t.grid.Set(x, y, false)
		if mirror {
			t.tiles.Clear(x, y)
		}
	})
	t.unlockTiles(mirror)

	t.last = Deformation{Center: center, Radius: radius + 1}
	t.log.Debug("crater carved",
		zap.Float32("x", center.X),
		zap.Float32("y", center.Y),
		zap.Int("radius", radius))
	t.refresh()
}

// LastDeform returns the most recent crater.
func (t *Terrain) LastDeform() Deformation { return t.last }
