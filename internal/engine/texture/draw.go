package texture

import (
	"image"
	"image/color"
)

// solid returns a w x h image filled with c.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Tank draws a fallback tank sprite: a hull with a turret on a transparent
// background. Alpha carries the shading Recolor turns into colour.
func Tank() *image.NRGBA {
	const w, h = 24, 14
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	body := color.NRGBA{A: 230}
	tread := color.NRGBA{A: 150}
	for y := 5; y < 9; y++ {
		for x := 9; x < 15; x++ {
			img.SetNRGBA(x, y, body)
		}
	}
	for x := 12; x < 22; x++ {
		img.SetNRGBA(x, 3, body)
	}
	for y := 9; y < 12; y++ {
		for x := 2; x < w-2; x++ {
			img.SetNRGBA(x, y, body)
		}
	}
	for y := 12; y < h; y++ {
		for x := 3; x < w-3; x++ {
			img.SetNRGBA(x, y, tread)
		}
	}
	return img
}

// Shell draws a fallback projectile sprite: a filled disc of diameter d.
func Shell(d int) *image.NRGBA {
	img := solid(d, d, Magenta)
	c := color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	r := float64(d) / 2
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// Smoke draws a soft grey puff.
func Smoke(d int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, d, d))
	r := float64(d) / 2
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			f := 1 - (dx*dx+dy*dy)/(r*r)
			if f > 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 180, G: 180, B: 180, A: uint8(f * 160)})
			}
		}
	}
	return img
}
