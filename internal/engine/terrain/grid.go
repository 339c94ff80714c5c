package terrain

import "github.com/Faultbox/searth/pkg/formats"

// Grid is the occupancy grid: one solid/empty flag per terrain pixel.
// Row 0 is the bottom of the world. Cells are stored row-major in a single
// slice indexed by y*width+x; the dimensions never change after NewGrid.
type Grid struct {
	width  int
	height int
	cells  []bool
}

// NewGrid allocates an empty grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Clamp pulls (x, y) into the grid.
func (g *Grid) Clamp(x, y int) (int, int) {
	return clampInt(x, 0, g.width-1), clampInt(y, 0, g.height-1)
}

// Solid reports whether the cell is ground. Out of range cells are empty.
func (g *Grid) Solid(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y*g.width+x]
}

// Set marks a cell solid or empty. Out of range writes are dropped.
func (g *Grid) Set(x, y int, solid bool) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = solid
}

// Swap exchanges the state of two cells.
func (g *Grid) Swap(x1, y1, x2, y2 int) {
	if !g.InBounds(x1, y1) || !g.InBounds(x2, y2) {
		return
	}
	a, b := y1*g.width+x1, y2*g.width+x2
	g.cells[a], g.cells[b] = g.cells[b], g.cells[a]
}

// FillColumn makes rows 0 through top of column x solid.
func (g *Grid) FillColumn(x, top int) {
	if x < 0 || x >= g.width {
		return
	}
	top = min(top, g.height-1)
	for y := 0; y <= top; y++ {
		g.cells[y*g.width+x] = true
	}
}

// ColumnHeight returns the highest solid row of column x, or
// formats.EmptyColumn if the column holds no ground.
func (g *Grid) ColumnHeight(x int) int {
	if x < 0 || x >= g.width {
		return formats.EmptyColumn
	}
	for y := g.height - 1; y >= 0; y-- {
		if g.cells[y*g.width+x] {
			return y
		}
	}
	return formats.EmptyColumn
}

// Count returns the number of solid cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Apply fills the grid from a parsed profile. Existing ground is kept.
func (g *Grid) Apply(p *formats.Profile) {
	for x, h := range p.Heights {
		if h != formats.EmptyColumn {
			g.FillColumn(x, h)
		}
	}
}

// Profile captures the current column tops.
func (g *Grid) Profile() *formats.Profile {
	p := &formats.Profile{Heights: make([]int, g.width)}
	for x := range p.Heights {
		p.Heights[x] = g.ColumnHeight(x)
	}
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
