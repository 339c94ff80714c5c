// Package terrain implements destructible 2D ground: an occupancy grid, its
// mirror as power-of-two image tiles, per-pixel collision, crater carving,
// settling of loosened earth and a support query for resting entities.
package terrain

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/searth/pkg/formats"
	"github.com/Faultbox/searth/pkg/math"
)

// Terrain errors.
var (
	// ErrLoad is returned when a terrain profile cannot be read or parsed.
	ErrLoad = errors.New("terrain load failed")
	// ErrInvalidSize is returned for non-positive grid or texture dimensions.
	ErrInvalidSize = errors.New("invalid terrain size")
	// ErrNoImage is returned when an image buffer cannot be created.
	ErrNoImage = errors.New("image buffer unavailable")
)

// Defaults.
const (
	DefaultGravity        = 190
	DefaultMaxTextureSize = 512
)

// GPU owns the textures mirroring the tiles.
type GPU interface {
	Upload(tiles []*Tile) error
	Draw(tiles []*Tile)
	Release()
}

// Terrain owns the occupancy grid and everything derived from it.
type Terrain struct {
	grid  *Grid
	tiles *TileSet
	last  Deformation
	// sliding is set while a settle episode is moving cells.
	sliding bool

	images   Images
	gpu      GPU
	uploaded bool
	stale    bool

	gravity    float32
	step       float32
	maxTexture int
	log        *zap.Logger
}

// Option configures a Terrain.
type Option func(*Terrain)

// WithImages sets the image service used for the tiles.
func WithImages(images Images) Option {
	return func(t *Terrain) { t.images = images }
}

// WithGPU sets the texture backend. Without one, Render is a no-op.
func WithGPU(gpu GPU) Option {
	return func(t *Terrain) { t.gpu = gpu }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(t *Terrain) { t.log = log }
}

// WithGravity sets the settling acceleration in pixels per second.
func WithGravity(g float32) Option {
	return func(t *Terrain) { t.gravity = g }
}

// WithMaxTextureSize caps tile dimensions.
func WithMaxTextureSize(size int) Option {
	return func(t *Terrain) { t.maxTexture = size }
}

// WithStep sets the sweep time slice in seconds.
func WithStep(step float32) Option {
	return func(t *Terrain) { t.step = step }
}

func newTerrain(opts []Option) *Terrain {
	t := &Terrain{
		images:     &MemoryImages{},
		gravity:    DefaultGravity,
		step:       DefaultStep,
		maxTexture: DefaultMaxTextureSize,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load reads a profile file and builds a width x height terrain from it.
func Load(path string, width, height int, opts ...Option) (*Terrain, error) {
	t := newTerrain(opts)
	if err := t.validate(width, height); err != nil {
		return nil, err
	}
	p, err := formats.LoadProfile(path, width, t.maxRow(height))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	t.log.Info("terrain profile loaded",
		zap.String("path", path),
		zap.Int("columns", p.Filled()))
	t.build(p, width, height)
	return t, nil
}

// New builds a width x height terrain from an already parsed profile.
func New(p *formats.Profile, width, height int, opts ...Option) (*Terrain, error) {
	t := newTerrain(opts)
	if err := t.validate(width, height); err != nil {
		return nil, err
	}
	t.build(p, width, height)
	return t, nil
}

// MaxRow returns the highest row a profile may fill in a grid of the given
// height when tiles are limited to maxTexture.
func MaxRow(height, maxTexture int) int {
	return max(TileHeight(height, maxTexture)-1, 0)
}

func (t *Terrain) maxRow(height int) int { return MaxRow(height, t.maxTexture) }

func (t *Terrain) validate(width, height int) error {
	if width <= 0 || height <= 0 || t.maxTexture <= 0 {
		return fmt.Errorf("%w: %dx%d, max texture %d", ErrInvalidSize, width, height, t.maxTexture)
	}
	return nil
}

func (t *Terrain) build(p *formats.Profile, width, height int) {
	t.grid = NewGrid(width, height)
	if p != nil {
		t.grid.Apply(p)
	}
	t.Regenerate()
}

// Grid exposes the occupancy grid.
func (t *Terrain) Grid() *Grid { return t.grid }

// Width returns the grid width.
func (t *Terrain) Width() int { return t.grid.width }

// Height returns the grid height.
func (t *Terrain) Height() int { return t.grid.height }

// Gravity returns the settling acceleration.
func (t *Terrain) Gravity() float32 { return t.gravity }

// Tiles returns the tile mirror, or nil when no image buffers exist.
func (t *Terrain) Tiles() *TileSet { return t.tiles }

// Overlaps reports whether m placed at pos touches the ground.
func (t *Terrain) Overlaps(pos math.Vec3, m Mask) bool {
	return Overlaps(t.grid, pos, m)
}

// Collision sweeps m from s0 toward s1 along v and returns the last clear
// position before contact.
func (t *Terrain) Collision(s0, s1, v math.Vec3, m Mask) (math.Vec3, bool) {
	return Sweep(t.grid, s0, s1, v, m, t.step)
}

// WouldFall returns the sideways nudge for an entity resting at pos.
func (t *Terrain) WouldFall(pos math.Vec3, m Mask) int {
	x, y := Footprint(pos)
	return WouldFall(t.grid, x, y, m)
}

// Regenerate repaints the tiles from the grid and uploads them again.
// Missing image buffers are created first.
func (t *Terrain) Regenerate() {
	if t.tiles == nil && !t.createTiles() {
		return
	}
	if err := t.tiles.Regenerate(t.grid); err != nil {
		t.log.Warn("terrain repaint failed", zap.Error(err))
		t.stale = true
		return
	}
	t.stale = false
	t.upload()
}

func (t *Terrain) createTiles() bool {
	tiles, err := NewTileSet(t.images, t.grid.width, t.grid.height, t.maxTexture)
	if err != nil {
		t.log.Warn("terrain image buffers unavailable", zap.Error(err))
		return false
	}
	t.tiles = tiles
	t.log.Debug("terrain tiles created",
		zap.Int("count", len(tiles.tiles)),
		zap.Int("height", tiles.height))
	return true
}

// refresh brings the GPU copy up to date after the tiles changed.
func (t *Terrain) refresh() {
	if t.stale {
		t.Regenerate()
		return
	}
	t.upload()
}

func (t *Terrain) upload() {
	if t.gpu == nil || t.tiles == nil {
		return
	}
	t.gpu.Release()
	t.uploaded = false
	if err := t.gpu.Upload(t.tiles.tiles); err != nil {
		t.log.Warn("terrain texture upload failed", zap.Error(err))
		return
	}
	t.uploaded = true
}

// Render draws the terrain. Resources that failed earlier are retried, and
// the frame is skipped when they are still unavailable.
func (t *Terrain) Render() {
	if t.tiles == nil || t.stale {
		t.Regenerate()
	}
	if t.gpu == nil || t.tiles == nil {
		return
	}
	if !t.uploaded {
		t.upload()
		if !t.uploaded {
			return
		}
	}
	t.gpu.Draw(t.tiles.tiles)
}

// Snapshot returns the current terrain image, row 0 at the bottom.
func (t *Terrain) Snapshot() (*image.NRGBA, error) {
	if t.tiles == nil {
		return nil, fmt.Errorf("%w: terrain tiles not created", ErrNoImage)
	}
	return t.tiles.Image()
}

// Close releases GPU textures and image buffers.
func (t *Terrain) Close() {
	if t.gpu != nil {
		t.gpu.Release()
		t.uploaded = false
	}
	if t.tiles != nil {
		t.tiles.Free()
		t.tiles = nil
	}
}

// lockTiles prepares the tiles for a batch of pixel edits. When they
// cannot be locked the edits touch only the grid and the tiles are
// repainted on the next refresh.
func (t *Terrain) lockTiles() bool {
	if t.tiles == nil {
		return false
	}
	if err := t.tiles.Lock(); err != nil {
		t.log.Warn("terrain lock failed", zap.Error(err))
		t.stale = true
		return false
	}
	return true
}

func (t *Terrain) unlockTiles(locked bool) {
	if locked {
		t.tiles.Unlock()
	}
}
