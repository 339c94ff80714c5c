package terrain

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/searth/pkg/formats"
	"github.com/Faultbox/searth/pkg/math"
)

// flatProfile fills every column up to row top.
func flatProfile(width, top int) *formats.Profile {
	p := &formats.Profile{Heights: make([]int, width)}
	for i := range p.Heights {
		p.Heights[i] = top
	}
	return p
}

func mustNew(t *testing.T, p *formats.Profile, width, height int, opts ...Option) *Terrain {
	t.Helper()
	tr, err := New(p, width, height, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

// mockGPU records texture traffic.
type mockGPU struct {
	uploads  int
	releases int
	draws    int
	fail     error
}

func (g *mockGPU) Upload(tiles []*Tile) error {
	if g.fail != nil {
		return g.fail
	}
	g.uploads++
	return nil
}

func (g *mockGPU) Draw(tiles []*Tile) { g.draws++ }
func (g *mockGPU) Release()           { g.releases++ }

func TestGrid_FlatZeroProfile(t *testing.T) {
	tr := mustNew(t, flatProfile(800, 0), 800, 600)
	g := tr.Grid()

	if g.Width() != 800 || g.Height() != 600 {
		t.Fatalf("size = %dx%d, want 800x600", g.Width(), g.Height())
	}
	if got := g.Count(); got != 800 {
		t.Errorf("solid cells = %d, want 800", got)
	}
	for x := 0; x < 800; x++ {
		if !g.Solid(x, 0) {
			t.Fatalf("cell (%d,0) should be solid", x)
		}
		if g.Solid(x, 1) {
			t.Fatalf("cell (%d,1) should be empty", x)
		}
	}
}

func TestGrid_OutOfRange(t *testing.T) {
	g := NewGrid(10, 10)
	g.Set(-1, 0, true)
	g.Set(10, 0, true)
	g.Set(0, 10, true)
	g.Swap(-1, 0, 0, 0)
	if g.Count() != 0 {
		t.Errorf("out of range writes changed the grid: %d cells", g.Count())
	}
	if g.Solid(-1, -1) || g.Solid(100, 100) {
		t.Error("out of range cells should read as empty")
	}
	if x, y := g.Clamp(-5, 42); x != 0 || y != 9 {
		t.Errorf("Clamp(-5,42) = (%d,%d), want (0,9)", x, y)
	}
}

func TestGrid_ColumnHeightAndProfile(t *testing.T) {
	g := NewGrid(4, 8)
	g.FillColumn(0, 3)
	g.FillColumn(2, 20)

	want := []int{3, formats.EmptyColumn, 7, formats.EmptyColumn}
	p := g.Profile()
	for x, h := range want {
		if p.Heights[x] != h {
			t.Errorf("column %d height = %d, want %d", x, p.Heights[x], h)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.set")
	if err := os.WriteFile(path, []byte("0,800\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, err := Load(path, 800, 600)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer tr.Close()
	if got := tr.Grid().Count(); got != 800 {
		t.Errorf("solid cells = %d, want 800", got)
	}
}

func TestLoad_ClampsToTileHeight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tall.set")
	if err := os.WriteFile(path, []byte("599,4"), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, err := Load(path, 4, 600)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h := tr.Grid().ColumnHeight(0); h != 511 {
		t.Errorf("column height = %d, want 511", h)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.set"), 800, 600)
	if !errors.Is(err, ErrLoad) {
		t.Errorf("missing file: err = %v, want ErrLoad", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, should carry the I/O error", err)
	}

	path := filepath.Join(t.TempDir(), "bad.set")
	if err := os.WriteFile(path, []byte("10 abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(path, 800, 600)
	if !errors.Is(err, ErrLoad) || !errors.Is(err, formats.ErrMalformedProfile) {
		t.Errorf("malformed file: err = %v", err)
	}

	if _, err := New(nil, 0, 600); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero width: err = %v, want ErrInvalidSize", err)
	}
}

func TestTerrain_ImageFailureKeepsGrid(t *testing.T) {
	images := &MemoryImages{Fail: func(string) error { return errors.New("out of memory") }}
	gpu := &mockGPU{}
	tr := mustNew(t, flatProfile(100, 10), 100, 100, WithImages(images), WithGPU(gpu))

	if tr.Tiles() != nil {
		t.Fatal("tiles should be missing")
	}
	tr.Render()
	if gpu.draws != 0 {
		t.Errorf("draws = %d, want 0 without tiles", gpu.draws)
	}
	if _, err := tr.Snapshot(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Snapshot err = %v, want ErrNoImage", err)
	}

	tr.Deform(math.Vec3{X: 50, Y: 10}, 5)
	if tr.Grid().Solid(50, 8) {
		t.Error("deform should still clear the grid")
	}

	images.Fail = nil
	tr.Render()
	if tr.Tiles() == nil || gpu.draws != 1 {
		t.Errorf("render should recover once images are available, draws = %d", gpu.draws)
	}
	img, err := tr.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if a := img.NRGBAAt(50, img.Rect.Dy()-1-8).A; a != 0 {
		t.Errorf("recovered tiles should show the crater, alpha = %d", a)
	}
}

func TestTerrain_RenderUploadsOnce(t *testing.T) {
	gpu := &mockGPU{}
	tr := mustNew(t, flatProfile(800, 100), 800, 600, WithGPU(gpu))

	if gpu.uploads != 1 {
		t.Fatalf("uploads after load = %d, want 1", gpu.uploads)
	}
	tr.Render()
	tr.Render()
	if gpu.uploads != 1 || gpu.draws != 2 {
		t.Errorf("uploads = %d draws = %d, want 1 and 2", gpu.uploads, gpu.draws)
	}

	tr.Deform(math.Vec3{X: 400, Y: 100}, 10)
	if gpu.uploads != 2 {
		t.Errorf("deform should re-upload, uploads = %d", gpu.uploads)
	}
	if gpu.releases < 2 {
		t.Errorf("textures should be released before upload, releases = %d", gpu.releases)
	}

	tr.Close()
	if tr.Tiles() != nil {
		t.Error("Close should free the tiles")
	}
}

func TestTerrain_UploadFailureSkipsDraw(t *testing.T) {
	gpu := &mockGPU{fail: errors.New("no texture memory")}
	tr := mustNew(t, flatProfile(64, 10), 64, 64, WithGPU(gpu))

	tr.Render()
	if gpu.draws != 0 {
		t.Errorf("draws = %d, want 0", gpu.draws)
	}
	gpu.fail = nil
	tr.Render()
	if gpu.uploads != 1 || gpu.draws != 1 {
		t.Errorf("uploads = %d draws = %d, want 1 and 1", gpu.uploads, gpu.draws)
	}
}

func TestProfile_RoundTripThroughGrid(t *testing.T) {
	p, err := formats.ParseProfile(strings.NewReader("5,3 2r6 9"), 8, 511)
	if err != nil {
		t.Fatal(err)
	}
	tr := mustNew(t, p, 8, 32)
	got := tr.Grid().Profile().String()
	if want := "5,3 2 3 4 5 9"; got != want {
		t.Errorf("profile = %q, want %q", got, want)
	}
}
