package terrain

// WouldFall decides how an entity whose footprint starts at cell (x, y)
// should shift to rest on the ground below it. It returns 0 when the entity
// is supported or when nothing at all holds it up, and otherwise a column
// offset toward the side that still has ground under it. The offset never
// moves the footprint past either side of the grid.
func WouldFall(g *Grid, x, y int, m Mask) int {
	return keepInside(g, x, m, wouldFall(g, x, y, m))
}

// keepInside limits nudge so the shifted footprint stays clear of the
// collision band along the grid sides.
func keepInside(g *Grid, x int, m Mask, nudge int) int {
	w, _ := m.Size()
	switch {
	case nudge > 0:
		return min(nudge, max(g.width-1-w-x, 0))
	case nudge < 0:
		return max(nudge, min(-x, 0))
	}
	return 0
}

func wouldFall(g *Grid, x, y int, m Mask) int {
	w, h := m.Size()
	if w <= 0 || h <= 0 || y <= 0 {
		return 0
	}
	x, y = g.Clamp(x, y)
	end := min(x+w, g.width)
	span := end - x

	supported := func(col int) bool {
		b := bottomRow(m, col-x)
		if b < 0 {
			return false
		}
		below := y + b - 1
		return below < 0 || g.Solid(col, below)
	}

	left := 0
	for col := x; col < end && !supported(col); col++ {
		left++
	}
	right := 0
	for col := end - 1; col >= x && !supported(col); col-- {
		right++
	}

	if left >= span || right >= span {
		return 0
	}
	half := span / 2
	switch {
	case left > right && left > half:
		return span - left
	case right > left && right > half:
		return -(span - right)
	}
	return 0
}
