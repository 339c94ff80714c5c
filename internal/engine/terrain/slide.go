package terrain

import gomath "math"

// Slide lets loosened earth around the last crater fall for elapsed
// seconds and reports whether any cell moved. Call it once per frame until
// it returns false; that call repaints the tiles so fallen cells take the
// shade of their new depth.
func (t *Terrain) Slide(elapsed float32) bool {
	r := t.last.Radius
	if r <= 0 {
		return false
	}
	amt := max(int(gomath.Ceil(float64(t.gravity*elapsed))), 1)

	cx, cy := int(t.last.Center.X), int(t.last.Center.Y)
	xs, ys := t.grid.Clamp(cx-r, cy-r)
	xe, _ := t.grid.Clamp(cx+r, 0)

	mirror := t.lockTiles()
	moved := false
	for x := xs; x <= xe; x++ {
		if t.settleColumn(x, ys, amt, mirror) {
			moved = true
		}
	}
	t.unlockTiles(mirror)

	switch {
	case moved:
		t.sliding = true
		t.refresh()
	case t.sliding:
		t.sliding = false
		t.log.Debug("earth settled, repainting")
		t.Regenerate()
	}
	return moved
}

// settleColumn drops each solid cell from row start upward by at most amt
// rows, stopping on the first solid cell beneath it.
func (t *Terrain) settleColumn(x, start, amt int, mirror bool) bool {
	g := t.grid
	moved := false
	for y := max(start, 1); y < g.height; y++ {
		if !g.Solid(x, y) || g.Solid(x, y-1) {
			continue
		}
		floor := max(y-amt, 0)
		dest := floor
		for i := y - 2; i >= floor; i-- {
			if g.Solid(x, i) {
				dest = i + 1
				break
			}
		}
		t.swap(x, y, x, dest, mirror)
		moved = true
	}
	return moved
}

func (t *Terrain) swap(x1, y1, x2, y2 int, mirror bool) {
	t.grid.Swap(x1, y1, x2, y2)
	if !mirror {
		return
	}
	a, b := t.tiles.mirrored(y1), t.tiles.mirrored(y2)
	switch {
	case a && b:
		t.tiles.Swap(x1, y1, x2, y2)
	case a:
		t.tiles.Paint(x1, y1, t.grid.Solid(x1, y1))
	case b:
		t.tiles.Paint(x2, y2, t.grid.Solid(x2, y2))
	}
}
