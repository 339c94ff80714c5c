package entity

import (
	"testing"

	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/pkg/math"
)

func near(a, b float32) bool {
	d := a - b
	return d < 1e-3 && d > -1e-3
}

func TestBallistic(t *testing.T) {
	vel := math.Vec3{X: 200, Y: 200}
	target, avg := Ballistic(math.Vec3{X: 100, Y: 217}, &vel, 0.1, 190)

	if !near(avg.X, 200) || !near(avg.Y, 190.5) {
		t.Errorf("avg = %+v, want (200, 190.5)", avg)
	}
	if !near(vel.Y, 181) {
		t.Errorf("vel.Y = %f, want 181", vel.Y)
	}
	if !near(target.X, 120) || !near(target.Y, 236.05) {
		t.Errorf("target = %+v, want (120, 236.05)", target)
	}
}

func TestBallisticMatchesClosedForm(t *testing.T) {
	// Average-velocity integration is exact for constant acceleration.
	pos := math.Vec3{}
	vel := math.Vec3{Y: 100}
	for i := 0; i < 100; i++ {
		pos, _ = Ballistic(pos, &vel, 0.01, 190)
	}
	// y(1) = 100 - 95
	if d := pos.Y - 5; d > 0.01 || d < -0.01 {
		t.Errorf("y after 1s = %f, want 5", pos.Y)
	}
}

func TestEntity_StepLeavesPosition(t *testing.T) {
	e := New(1, KindProjectile, math.Vec3{X: 5, Y: 5}, math.Vec3{X: 10}, terrain.Box{W: 2, H: 2})
	target, _ := e.Step(1, 190)
	if e.Position != (math.Vec3{X: 5, Y: 5}) {
		t.Errorf("Step moved the entity to %+v", e.Position)
	}
	if !near(target.X, 15) || !near(target.Y, -90) {
		t.Errorf("target = %+v", target)
	}
	if !near(e.Velocity.Y, -190) {
		t.Errorf("vel.Y = %f, want -190", e.Velocity.Y)
	}
}

func TestEntity_Drift(t *testing.T) {
	e := New(1, KindSmoke, math.Vec3{X: 10, Y: 10}, math.Vec3{Y: 25}, nil)
	e.Drift(2)
	if e.Position != (math.Vec3{X: 10, Y: 60}) {
		t.Errorf("Position = %+v, want (10, 60)", e.Position)
	}
	if w, h := e.Size(); w != 0 || h != 0 {
		t.Errorf("Size without mask = %dx%d", w, h)
	}
}

func TestEntity_Center(t *testing.T) {
	e := New(1, KindTank, math.Vec3{X: 10, Y: 20}, math.Vec3{}, terrain.Box{W: 24, H: 12})
	if c := e.Center(); c != (math.Vec3{X: 22, Y: 26}) {
		t.Errorf("Center = %+v", c)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind      Kind
		name      string
		ballistic bool
	}{
		{KindTank, "tank", true},
		{KindProjectile, "projectile", true},
		{KindSmoke, "smoke", false},
		{Kind(99), "unknown", false},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.kind.Ballistic(); got != tt.ballistic {
			t.Errorf("%s Ballistic() = %v", tt.name, got)
		}
	}
}

func TestManager(t *testing.T) {
	m := NewManager()
	tank := m.Spawn(KindTank, math.Vec3{}, math.Vec3{}, terrain.Box{W: 1, H: 1})
	shell := m.Spawn(KindProjectile, math.Vec3{}, math.Vec3{}, terrain.Box{W: 1, H: 1})
	smoke := m.Spawn(KindSmoke, math.Vec3{}, math.Vec3{}, nil)

	if m.Count() != 3 {
		t.Fatalf("Count = %d, want 3", m.Count())
	}
	if m.Get(shell.ID) != shell {
		t.Error("Get returned the wrong entity")
	}
	all := m.All()
	if all[0] != tank || all[1] != shell || all[2] != smoke {
		t.Error("All not in spawn order")
	}

	smoke.Visible = false
	if v := m.Visible(); len(v) != 2 {
		t.Errorf("Visible = %d entities, want 2", len(v))
	}
	if p := m.ByKind(KindProjectile); len(p) != 1 || p[0] != shell {
		t.Errorf("ByKind(projectile) = %v", p)
	}

	m.Remove(tank.ID)
	if m.Get(tank.ID) != nil || m.Count() != 2 {
		t.Error("Remove did not drop the tank")
	}
}
