package terrain

import (
	gomath "math"

	"github.com/Faultbox/searth/pkg/math"
)

// Mask is the shape an entity occupies. Opaque rows count upward from the
// bottom of the shape, like grid rows.
type Mask interface {
	Size() (w, h int)
	Opaque(x, y int) bool
}

// Box is a fully opaque rectangle.
type Box struct {
	W, H int
}

func (b Box) Size() (int, int)     { return b.W, b.H }
func (b Box) Opaque(x, y int) bool { return x >= 0 && y >= 0 && x < b.W && y < b.H }
func (b Box) Blank() bool          { return b.W <= 0 || b.H <= 0 }
func (b Box) Bottom(x int) int     { return boolRow(x >= 0 && x < b.W && b.H > 0, 0) }

// Sprite is a mask taken from an image with a colour key.
type Sprite struct {
	w, h   int
	opaque []bool
	bottom []int
	count  int
}

// NewSprite builds a mask from img. Pixels equal to key, or with zero
// alpha, are transparent. Image rows are top-down; the mask flips them.
func NewSprite(img Image, key uint32) (*Sprite, error) {
	if err := img.Lock(); err != nil {
		return nil, err
	}
	defer img.Unlock()

	s := &Sprite{
		w:      img.Width(),
		h:      img.Height(),
		opaque: make([]bool, img.Width()*img.Height()),
		bottom: make([]int, img.Width()),
	}
	for x := range s.bottom {
		s.bottom[x] = -1
	}
	for y := 0; y < s.h; y++ {
		row := s.h - 1 - y
		for x := 0; x < s.w; x++ {
			p := img.Pixel(x, y)
			if _, _, _, a := img.RGBA(p); p == key || a == 0 {
				continue
			}
			s.opaque[row*s.w+x] = true
			s.count++
		}
	}
	for x := 0; x < s.w; x++ {
		for y := 0; y < s.h; y++ {
			if s.opaque[y*s.w+x] {
				s.bottom[x] = y
				break
			}
		}
	}
	return s, nil
}

func (s *Sprite) Size() (int, int) { return s.w, s.h }

func (s *Sprite) Opaque(x, y int) bool {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return false
	}
	return s.opaque[y*s.w+x]
}

// Blank reports whether the sprite has no opaque pixel.
func (s *Sprite) Blank() bool { return s.count == 0 }

// Bottom returns the lowest opaque row of column x, or -1.
func (s *Sprite) Bottom(x int) int {
	if x < 0 || x >= s.w {
		return -1
	}
	return s.bottom[x]
}

// Footprint returns the bottom-left cell covered by an entity at pos.
// Columns truncate; rows round up, so a shape resting on row r sits at a
// y in (r, r+1].
func Footprint(pos math.Vec3) (x, y int) {
	return int(gomath.Floor(float64(pos.X))), int(gomath.Ceil(float64(pos.Y)))
}

type blanker interface{ Blank() bool }

type bottomer interface{ Bottom(x int) int }

func isBlank(m Mask) bool {
	if b, ok := m.(blanker); ok {
		return b.Blank()
	}
	w, h := m.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Opaque(x, y) {
				return false
			}
		}
	}
	return true
}

func bottomRow(m Mask, x int) int {
	if b, ok := m.(bottomer); ok {
		return b.Bottom(x)
	}
	_, h := m.Size()
	for y := 0; y < h; y++ {
		if m.Opaque(x, y) {
			return y
		}
	}
	return -1
}

func boolRow(ok bool, row int) int {
	if ok {
		return row
	}
	return -1
}
