// Package surface provides terrain image buffers backed by SDL surfaces.
package surface

import (
	"encoding/binary"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/searth/internal/engine/terrain"
)

// Images creates SDL surfaces in ABGR8888, whose bytes are RGBA in memory
// and upload to GL without conversion.
type Images struct {
	log *zap.Logger
}

// New returns an SDL image service.
func New(log *zap.Logger) *Images {
	if log == nil {
		log = zap.NewNop()
	}
	return &Images{log: log}
}

// Create allocates a surface.
func (s *Images) Create(name string, width, height, depth int) (terrain.Image, error) {
	if depth != 32 {
		return nil, fmt.Errorf("%w: %s: unsupported depth %d", terrain.ErrNoImage, name, depth)
	}
	surf, err := sdl.CreateRGBSurfaceWithFormat(0, int32(width), int32(height), int32(depth), uint32(sdl.PIXELFORMAT_ABGR8888))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", terrain.ErrNoImage, name, err)
	}
	s.log.Debug("surface created",
		zap.String("name", name),
		zap.Int("width", width),
		zap.Int("height", height))
	return &Image{name: name, surf: surf}, nil
}

// Image is an SDL surface.
type Image struct {
	name string
	surf *sdl.Surface
}

func (i *Image) Name() string { return i.name }
func (i *Image) Width() int   { return int(i.surf.W) }
func (i *Image) Height() int  { return int(i.surf.H) }

func (i *Image) Lock() error {
	if i.surf == nil {
		return fmt.Errorf("%w: %s: surface freed", terrain.ErrNoImage, i.name)
	}
	if err := i.surf.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", i.name, err)
	}
	return nil
}

func (i *Image) Unlock() {
	if i.surf != nil {
		i.surf.Unlock()
	}
}

func (i *Image) offset(x, y int) int {
	return y*int(i.surf.Pitch) + x*4
}

func (i *Image) Pixel(x, y int) uint32 {
	off := i.offset(x, y)
	return binary.LittleEndian.Uint32(i.surf.Pixels()[off : off+4])
}

func (i *Image) SetPixel(x, y int, pixel uint32) {
	off := i.offset(x, y)
	binary.LittleEndian.PutUint32(i.surf.Pixels()[off:off+4], pixel)
}

func (i *Image) MapRGBA(r, g, b, a uint8) uint32 {
	return sdl.MapRGBA(i.surf.Format, r, g, b, a)
}

func (i *Image) RGBA(pixel uint32) (r, g, b, a uint8) {
	return sdl.GetRGBA(pixel, i.surf.Format)
}

func (i *Image) Pixels() []byte { return i.surf.Pixels() }

func (i *Image) Free() {
	if i.surf != nil {
		i.surf.Free()
		i.surf = nil
	}
}
