// Package texture decodes sprite images and prepares them for the terrain
// and the renderer.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

// ErrTGA is returned for TGA data that cannot be decoded.
var ErrTGA = errors.New("invalid TGA")

// DecodeTGA decodes an uncompressed or RLE compressed true-colour TGA.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("%w: header truncated", ErrTGA)
	}

	idLength := int(data[0])
	mapped := data[1] != 0
	kind := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topDown := data[17]&0x20 != 0

	switch {
	case mapped:
		return nil, fmt.Errorf("%w: colour-mapped images not supported", ErrTGA)
	case kind != TGATypeUncompressed && kind != TGATypeRLE:
		return nil, fmt.Errorf("%w: unsupported type %d", ErrTGA, kind)
	case bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: unsupported depth %d", ErrTGA, bpp)
	case 18+idLength > len(data):
		return nil, fmt.Errorf("%w: id field truncated", ErrTGA)
	}

	d := &tgaDecoder{
		img:     image.NewNRGBA(image.Rect(0, 0, width, height)),
		data:    data[18+idLength:],
		bytesPP: bpp / 8,
		topDown: topDown,
	}
	if kind == TGATypeUncompressed {
		if len(d.data) < width*height*d.bytesPP {
			return nil, fmt.Errorf("%w: pixel data truncated", ErrTGA)
		}
		for i := 0; i < width*height; i++ {
			d.put(i, d.read())
		}
		return d.img, nil
	}
	d.decodeRLE()
	return d.img, nil
}

type tgaDecoder struct {
	img     *image.NRGBA
	data    []byte
	pos     int
	bytesPP int
	topDown bool
}

// read consumes one BGR(A) pixel.
func (d *tgaDecoder) read() color.NRGBA {
	p := d.data[d.pos : d.pos+d.bytesPP]
	d.pos += d.bytesPP
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
	if d.bytesPP == 4 {
		c.A = p[3]
	}
	return c
}

func (d *tgaDecoder) fits() bool { return d.pos+d.bytesPP <= len(d.data) }

// put stores the i-th pixel in file order.
func (d *tgaDecoder) put(i int, c color.NRGBA) {
	w, h := d.img.Rect.Dx(), d.img.Rect.Dy()
	x, y := i%w, i/w
	if !d.topDown {
		y = h - 1 - y
	}
	d.img.SetNRGBA(x, y, c)
}

// decodeRLE expands run and raw packets. Truncated data leaves the rest of
// the image transparent.
func (d *tgaDecoder) decodeRLE() {
	total := d.img.Rect.Dx() * d.img.Rect.Dy()
	for i := 0; i < total && d.pos < len(d.data); {
		packet := d.data[d.pos]
		d.pos++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if !d.fits() {
				return
			}
			c := d.read()
			for ; count > 0 && i < total; count-- {
				d.put(i, c)
				i++
			}
			continue
		}
		for ; count > 0 && i < total; count-- {
			if !d.fits() {
				return
			}
			d.put(i, d.read())
			i++
		}
	}
}
