package terrain

import (
	gomath "math"

	"github.com/Faultbox/searth/pkg/math"
)

// DefaultStep is the time slice, in seconds, between probes of a sweep.
const DefaultStep = 0.001

// maxBacktrack bounds the walk back out of the ground after a sweep hit.
const maxBacktrack = 1000

// Overlaps reports whether mask m placed at pos touches solid ground.
// A shape hanging off the left, right or bottom edge of the world always
// collides; rows above the top are open sky. A mask with no opaque pixel
// never collides.
func Overlaps(g *Grid, pos math.Vec3, m Mask) bool {
	if isBlank(m) {
		return false
	}
	return overlaps(g, pos, m)
}

func overlaps(g *Grid, pos math.Vec3, m Mask) bool {
	w, h := m.Size()
	if pos.X < 0 || pos.Y < 0 || pos.X+float32(w) >= float32(g.width) {
		return true
	}

	x0, y0 := Footprint(pos)
	top := min(y0+h, g.height)
	for y := y0; y < top; y++ {
		for x := x0; x < x0+w; x++ {
			if g.Solid(x, y) && m.Opaque(x-x0, y-y0) {
				return true
			}
		}
	}
	return false
}

// Sweep moves a probe from s0 toward s1 in increments of v*step and reports
// the first position of contact with the ground. On a hit the probe backs
// out along v until it is clear again and that position is returned; when
// no clear position is found within maxBacktrack steps s0 is returned.
// The probe stops once it has passed s1 on both axes.
func Sweep(g *Grid, s0, s1, v math.Vec3, m Mask, step float32) (math.Vec3, bool) {
	if isBlank(m) {
		return math.Vec3{}, false
	}

	d := v.Scale(step)
	limit := sweepLimit(s0, s1, d)
	pos := s0
	for i := 0; i <= limit; i++ {
		if passed(s0, s1, pos) {
			return math.Vec3{}, false
		}
		if overlaps(g, pos, m) {
			return backOut(g, s0, pos, d, m), true
		}
		pos = pos.Add(d)
	}
	return math.Vec3{}, false
}

func backOut(g *Grid, s0, pos, d math.Vec3, m Mask) math.Vec3 {
	if d.X == 0 && d.Y == 0 {
		return s0
	}
	for i := 0; i < maxBacktrack; i++ {
		pos = pos.Sub(d)
		if !overlaps(g, pos, m) {
			return pos
		}
	}
	return s0
}

func passed(s0, s1, pos math.Vec3) bool {
	return crossed(s0.X, s1.X, pos.X) && crossed(s0.Y, s1.Y, pos.Y)
}

func crossed(from, to, at float32) bool {
	if from <= to {
		return at >= to
	}
	return at <= to
}

// sweepLimit is the number of increments needed to pass s1, plus slack for
// rounding. An axis the probe can never cross contributes nothing, which
// bounds sweeps whose velocity does not lead to the target.
func sweepLimit(s0, s1, d math.Vec3) int {
	n := 0
	for _, a := range [][3]float32{{s0.X, s1.X, d.X}, {s0.Y, s1.Y, d.Y}} {
		dist, inc := float64(a[1]-a[0]), float64(a[2])
		if dist == 0 || inc == 0 || (dist > 0) != (inc > 0) {
			continue
		}
		n = max(n, int(gomath.Ceil(dist/inc)))
	}
	return n + 2
}
