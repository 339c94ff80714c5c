package texture

import (
	"image"
	"image/color"
)

// Magenta is the transparent key colour of the bundled sprites.
var Magenta = color.NRGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}

// IsKey reports whether c matches key within 5 per channel.
func IsKey(c, key color.NRGBA) bool {
	return near(c.R, key.R) && near(c.G, key.G) && near(c.B, key.B)
}

func near(a, b uint8) bool {
	if a > b {
		return a-b <= 5
	}
	return b-a <= 5
}

// ApplyKey makes every pixel matching key transparent black in place.
func ApplyKey(img *image.NRGBA, key color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if IsKey(img.NRGBAAt(x, y), key) {
				img.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
}

// Recolor turns coverage into colour: each pixel becomes tint scaled by
// its alpha, fully opaque where alpha was non-zero and transparent
// elsewhere.
func Recolor(img *image.NRGBA, tint color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := uint32(img.NRGBAAt(x, y).A)
			if a == 0 {
				img.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(uint32(tint.R) * a / 255),
				G: uint8(uint32(tint.G) * a / 255),
				B: uint8(uint32(tint.B) * a / 255),
				A: 0xff,
			})
		}
	}
}

// ToNRGBA converts any image to *image.NRGBA with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
