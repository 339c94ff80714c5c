package terrain

import (
	"fmt"
	"image"
	"image/color"
)

// Images creates pixel buffers. The SDL backed implementation lives in the
// surface package; MemoryImages serves headless tools and tests.
type Images interface {
	Create(name string, width, height, depth int) (Image, error)
}

// Image is a lockable RGBA pixel buffer. Pixel values are packed the way
// MapRGBA returns them; rows are addressed bottom-up like the grid.
type Image interface {
	Name() string
	Width() int
	Height() int
	Lock() error
	Unlock()
	Pixel(x, y int) uint32
	SetPixel(x, y int, pixel uint32)
	MapRGBA(r, g, b, a uint8) uint32
	RGBA(pixel uint32) (r, g, b, a uint8)
	// Pixels exposes the raw RGBA bytes, row 0 first, for texture upload.
	Pixels() []byte
	Free()
}

// MemoryImages allocates images backed by image.NRGBA.
type MemoryImages struct {
	// Fail, when set, is consulted before every allocation.
	Fail func(name string) error

	live int
}

// Create allocates a width x height image. Only depth 32 is supported.
func (m *MemoryImages) Create(name string, width, height, depth int) (Image, error) {
	if depth != 32 {
		return nil, fmt.Errorf("%w: %s: unsupported depth %d", ErrNoImage, name, depth)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %s: invalid size %dx%d", ErrNoImage, name, width, height)
	}
	if m.Fail != nil {
		if err := m.Fail(name); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoImage, name, err)
		}
	}
	m.live++
	return &memoryImage{
		owner: m,
		name:  name,
		img:   image.NewNRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Live returns the number of images created and not yet freed.
func (m *MemoryImages) Live() int { return m.live }

type memoryImage struct {
	owner *MemoryImages
	name  string
	img   *image.NRGBA
	locks int
	freed bool
}

func (i *memoryImage) Name() string { return i.name }
func (i *memoryImage) Width() int   { return i.img.Rect.Dx() }
func (i *memoryImage) Height() int  { return i.img.Rect.Dy() }

func (i *memoryImage) Lock() error {
	if i.freed {
		return fmt.Errorf("%w: %s: image freed", ErrNoImage, i.name)
	}
	i.locks++
	return nil
}

func (i *memoryImage) Unlock() {
	if i.locks > 0 {
		i.locks--
	}
}

func (i *memoryImage) Pixel(x, y int) uint32 {
	c := i.img.NRGBAAt(x, y)
	return i.MapRGBA(c.R, c.G, c.B, c.A)
}

func (i *memoryImage) SetPixel(x, y int, pixel uint32) {
	r, g, b, a := i.RGBA(pixel)
	i.img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
}

// MapRGBA packs components as ABGR8888, matching the byte order of Pixels.
func (i *memoryImage) MapRGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

func (i *memoryImage) RGBA(pixel uint32) (r, g, b, a uint8) {
	return uint8(pixel), uint8(pixel >> 8), uint8(pixel >> 16), uint8(pixel >> 24)
}

func (i *memoryImage) Pixels() []byte { return i.img.Pix }

func (i *memoryImage) Free() {
	if i.freed {
		return
	}
	i.freed = true
	i.owner.live--
}

// Copy allocates an image from images holding the pixels of img. Rows
// keep their top-down order.
func Copy(images Images, name string, img *image.NRGBA) (Image, error) {
	b := img.Bounds()
	out, err := images.Create(name, b.Dx(), b.Dy(), 32)
	if err != nil {
		return nil, err
	}
	if err := out.Lock(); err != nil {
		out.Free()
		return nil, err
	}
	defer out.Unlock()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			out.SetPixel(x, y, out.MapRGBA(c.R, c.G, c.B, c.A))
		}
	}
	return out, nil
}

// SpriteFromImage builds a mask straight from img using a temporary
// buffer from images.
func SpriteFromImage(images Images, name string, img *image.NRGBA, key color.NRGBA) (*Sprite, error) {
	buf, err := Copy(images, name, img)
	if err != nil {
		return nil, err
	}
	defer buf.Free()
	return NewSprite(buf, buf.MapRGBA(key.R, key.G, key.B, key.A))
}
