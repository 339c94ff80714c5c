package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/internal/game/entity"
	"github.com/Faultbox/searth/internal/game/particles"
	"github.com/Faultbox/searth/internal/game/world"
)

// smokeSize is the side of the square drawn around the smoke puff, in cells.
const smokeSize = 8

var (
	skyColor        = tcell.ColorBlack
	tankColor       = tcell.ColorBlue
	projectileColor = tcell.ColorWhite
	smokeColor      = tcell.ColorGray

	entityColors = map[entity.Kind]tcell.Color{
		entity.KindTank:       tankColor,
		entity.KindProjectile: projectileColor,
	}
)

// view maps the playfield onto a grid of character cells. Every cell covers
// two samples, drawn as an upper half block.
type view struct {
	world      *world.World
	cols, rows int
	samples    []tcell.Color
}

func newView(w *world.World, cols, rows int) *view {
	cols, rows = max(cols, 1), max(rows, 1)
	return &view{
		world:   w,
		cols:    cols,
		rows:    rows,
		samples: make([]tcell.Color, cols*rows*2),
	}
}

// toSample converts a grid cell to sample coordinates. Sample row 0 is the
// top of the screen.
func (v *view) toSample(x, y int) (int, int, bool) {
	t := v.world.Terrain()
	if x < 0 || y < 0 || x >= t.Width() || y >= t.Height() {
		return 0, 0, false
	}
	return x * v.cols / t.Width(), (t.Height() - 1 - y) * v.rows * 2 / t.Height(), true
}

func (v *view) set(x, y int, c tcell.Color) {
	if sx, sy, ok := v.toSample(x, y); ok {
		v.samples[sy*v.cols+sx] = c
	}
}

// sample fills the buffer from the ground and stamps the entities over it.
func (v *view) sample() {
	t := v.world.Terrain()
	g := t.Grid()
	srows := v.rows * 2
	for sx := range v.cols {
		x := (2*sx + 1) * t.Width() / (2 * v.cols)
		top := g.ColumnHeight(x)
		for sy := range srows {
			y := t.Height() - 1 - (2*sy+1)*t.Height()/(2*srows)
			c := skyColor
			if g.Solid(x, y) {
				c = earth(top - y)
			}
			v.samples[sy*v.cols+sx] = c
		}
	}

	if v.world.Smoke().Visible {
		x0, y0 := terrain.Footprint(v.world.Smoke().Position)
		x0, y0 = x0-smokeSize/2, y0-smokeSize/2
		for y := y0; y < y0+smokeSize; y++ {
			for x := x0; x < x0+smokeSize; x++ {
				v.set(x, y, smokeColor)
			}
		}
	}
	if s := v.world.Spray(); s != nil {
		dirt := tcell.NewRGBColor(int32(particles.Earth.R), int32(particles.Earth.G), int32(particles.Earth.B))
		for _, p := range s.Particles() {
			if p.Dead {
				continue
			}
			x0, y0 := terrain.Footprint(p.Position)
			for y := y0; y < y0+particles.Size; y++ {
				for x := x0; x < x0+particles.Size; x++ {
					v.set(x, y, dirt)
				}
			}
		}
	}
	for _, e := range v.world.Entities() {
		if e.Visible {
			v.stamp(e)
		}
	}
}

// stamp draws the opaque cells of an entity's mask. Maskless entities are
// skipped.
func (v *view) stamp(e *entity.Entity) {
	c, ok := entityColors[e.Kind]
	if e.Mask == nil || !ok {
		return
	}
	w, h := e.Mask.Size()
	x0, y0 := terrain.Footprint(e.Position)
	for my := range h {
		for mx := range w {
			if e.Mask.Opaque(mx, my) {
				v.set(x0+mx, y0+my, c)
			}
		}
	}
}

func (v *view) at(sx, sy int) tcell.Color { return v.samples[sy*v.cols+sx] }

func (v *view) draw(screen tcell.Screen) {
	v.sample()
	for row := range v.rows {
		for col := range v.cols {
			style := tcell.StyleDefault.
				Foreground(v.at(col, 2*row)).
				Background(v.at(col, 2*row+1))
			screen.SetContent(col, row, '▀', nil, style)
		}
	}
	if v.world.Paused() {
		label := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)
		for i, r := range " PAUSED " {
			if i < v.cols {
				screen.SetContent(i, 0, r, nil, label)
			}
		}
	}
}

func earth(depth int) tcell.Color {
	c := terrain.Earth(depth)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
