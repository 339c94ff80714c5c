package terrain

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/searth/pkg/math"
)

// settle calls Slide until it reports no movement and returns the number
// of calls made, or -1 after limit calls.
func settle(tr *Terrain, dt float32, limit int) int {
	for i := 1; i <= limit; i++ {
		if !tr.Slide(dt) {
			return i
		}
	}
	return -1
}

func TestSlide_NoCrater(t *testing.T) {
	tr := mustNew(t, flatProfile(64, 10), 64, 64)
	if tr.Slide(1.0 / 60) {
		t.Error("slide without a crater should not move anything")
	}
}

func TestSlide_ConvergesAndConserves(t *testing.T) {
	const dt = float32(1.0 / 60)
	tr := mustNew(t, flatProfile(200, 150), 200, 200)
	tr.Deform(math.Vec3{X: 100, Y: 60}, 20)
	g := tr.Grid()
	count := g.Count()

	r := tr.LastDeform().Radius
	amt := int(gomath.Ceil(float64(tr.Gravity() * dt)))
	limit := 2*r/amt + 3
	calls := settle(tr, dt, limit)
	if calls < 0 {
		t.Fatalf("slide did not settle within %d calls", limit)
	}
	if calls < 2 {
		t.Errorf("buried crater should need several slides, got %d", calls)
	}
	if got := g.Count(); got != count {
		t.Errorf("cell count changed: %d -> %d", count, got)
	}

	for x := 100 - r; x <= 100+r; x++ {
		for y := 1; y < g.Height(); y++ {
			if g.Solid(x, y) && !g.Solid(x, y-1) {
				t.Fatalf("column %d: solid cell at row %d floats over a gap", x, y)
			}
		}
	}
}

func TestSlide_SurfaceCraterIsStable(t *testing.T) {
	tr := mustNew(t, flatProfile(200, 50), 200, 200)
	tr.Deform(math.Vec3{X: 100, Y: 50}, 10)
	count := tr.Grid().Count()

	if calls := settle(tr, 1.0/60, 10); calls < 0 {
		t.Fatal("open crater did not settle")
	}
	if tr.Grid().Count() != count {
		t.Error("cell count changed")
	}
}

func TestSlide_TilesFollowGrid(t *testing.T) {
	tr := mustNew(t, flatProfile(200, 150), 200, 200)
	tr.Deform(math.Vec3{X: 100, Y: 120}, 20)
	if settle(tr, 0.05, 50) < 0 {
		t.Fatal("slide did not settle")
	}

	img, err := tr.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	g := tr.Grid()
	h := tr.Tiles().Height()
	for y := 0; y < h; y++ {
		for x := 0; x < g.Width(); x++ {
			opaque := img.NRGBAAt(x, h-1-y).A == 0xff
			if opaque != g.Solid(x, y) {
				t.Fatalf("pixel (%d,%d) opaque=%v, grid solid=%v", x, y, opaque, g.Solid(x, y))
			}
		}
	}
}

func TestSlide_RepaintsWhenSettled(t *testing.T) {
	tr := mustNew(t, flatProfile(200, 150), 200, 200)
	tr.Deform(math.Vec3{X: 100, Y: 120}, 20)
	if settle(tr, 0.05, 50) < 0 {
		t.Fatal("slide did not settle")
	}

	img, err := tr.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	g := tr.Grid()
	h := tr.Tiles().Height()
	for x := 80; x <= 120; x++ {
		depth := 0
		for y := h - 1; y >= 0; y-- {
			if !g.Solid(x, y) {
				continue
			}
			if got, want := img.NRGBAAt(x, h-1-y), Earth(depth); got != want {
				t.Fatalf("cell (%d,%d) colour %v, want %v at depth %d", x, y, got, want, depth)
			}
			depth++
		}
	}
}

func TestSlide_ZeroElapsedStillProgresses(t *testing.T) {
	tr := mustNew(t, flatProfile(100, 80), 100, 100)
	tr.Deform(math.Vec3{X: 50, Y: 40}, 5)
	if !tr.Slide(0) {
		t.Error("slide with zero elapsed time should still move one row")
	}
}
