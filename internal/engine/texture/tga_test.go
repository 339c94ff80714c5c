package texture

import (
	"errors"
	"image/color"
	"testing"
)

// tgaHeader builds an 18-byte header.
func tgaHeader(kind byte, w, h, bpp int, topDown bool) []byte {
	hdr := make([]byte, 18)
	hdr[2] = kind
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = byte(bpp)
	if topDown {
		hdr[17] = 0x20
	}
	return hdr
}

func TestDecodeTGA_Uncompressed(t *testing.T) {
	data := tgaHeader(TGATypeUncompressed, 2, 2, 24, false)
	// Bottom row first: blue, green; then top row: red, white.
	data = append(data,
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]color.NRGBA{
		{0, 1}: {B: 255, A: 255},
		{1, 1}: {G: 255, A: 255},
		{0, 0}: {R: 255, A: 255},
		{1, 0}: {R: 255, G: 255, B: 255, A: 255},
	}
	for p, c := range want {
		if got := img.NRGBAAt(p[0], p[1]); got != c {
			t.Errorf("pixel %v = %v, want %v", p, got, c)
		}
	}
}

func TestDecodeTGA_RLE(t *testing.T) {
	data := tgaHeader(TGATypeRLE, 3, 1, 32, true)
	data = append(data,
		0x81, 10, 20, 30, 40, // run of two
		0x00, 1, 2, 3, 4, // one raw pixel
	)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.NRGBAAt(1, 0), (color.NRGBA{R: 30, G: 20, B: 10, A: 40}); got != want {
		t.Errorf("run pixel = %v, want %v", got, want)
	}
	if got, want := img.NRGBAAt(2, 0), (color.NRGBA{R: 3, G: 2, B: 1, A: 4}); got != want {
		t.Errorf("raw pixel = %v, want %v", got, want)
	}
}

func TestDecodeTGA_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0, 0, 2}},
		{"colour mapped", func() []byte { h := tgaHeader(2, 1, 1, 24, false); h[1] = 1; return h }()},
		{"unsupported type", tgaHeader(3, 1, 1, 24, false)},
		{"unsupported depth", tgaHeader(2, 1, 1, 16, false)},
		{"truncated pixels", tgaHeader(2, 4, 4, 24, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); !errors.Is(err, ErrTGA) {
				t.Errorf("err = %v, want ErrTGA", err)
			}
		})
	}
}

func TestApplyKey(t *testing.T) {
	data := tgaHeader(TGATypeUncompressed, 2, 1, 24, true)
	data = append(data, 252, 3, 251, 9, 9, 9)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	ApplyKey(img, Magenta)
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("near-magenta pixel alpha = %d, want 0", a)
	}
	if a := img.NRGBAAt(1, 0).A; a != 255 {
		t.Errorf("grey pixel alpha = %d, want 255", a)
	}
}

func TestRecolor(t *testing.T) {
	img := solid(2, 1, color.NRGBA{R: 5, G: 5, B: 5, A: 128})
	img.SetNRGBA(1, 0, color.NRGBA{R: 9, A: 0})

	Recolor(img, color.NRGBA{B: 255, A: 255})
	if got, want := img.NRGBAAt(0, 0), (color.NRGBA{B: 128, A: 255}); got != want {
		t.Errorf("covered pixel = %v, want %v", got, want)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{}) {
		t.Errorf("empty pixel = %v, want transparent", got)
	}
}

func TestFallbackSprites(t *testing.T) {
	tank := Tank()
	if a := tank.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("tank corner alpha = %d, want 0", a)
	}
	if a := tank.NRGBAAt(12, 10).A; a == 0 {
		t.Error("tank hull should be covered")
	}

	shell := Shell(6)
	ApplyKey(shell, Magenta)
	if a := shell.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("shell corner alpha = %d, want 0", a)
	}
	if a := shell.NRGBAAt(3, 3).A; a != 255 {
		t.Errorf("shell centre alpha = %d, want 255", a)
	}
}
