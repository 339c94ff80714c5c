package debug

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func fixedCapture(dir string) *Capture {
	c := NewCapture(dir, "shot")
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }
	return c
}

func TestCapture_FromPixelsFlips(t *testing.T) {
	dir := t.TempDir()
	c := fixedCapture(dir)

	// 1x2 framebuffer: bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := c.FromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "shot_2024-03-01_12-30-00.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, b, _ := img.At(0, 0).RGBA(); b != 0xffff {
		t.Error("top of the image should be the blue framebuffer row")
	}
	if r, _, _, _ := img.At(0, 1).RGBA(); r != 0xffff {
		t.Error("bottom of the image should be the red framebuffer row")
	}
}

func TestCapture_SizeMismatch(t *testing.T) {
	c := fixedCapture(t.TempDir())
	if _, err := c.FromPixels(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestCapture_DoesNotOverwrite(t *testing.T) {
	c := fixedCapture(t.TempDir())
	pixels := make([]byte, 4)
	first, err := c.FromPixels(pixels, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.FromPixels(pixels, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("second capture overwrote %q", first)
	}
}

func TestCapture_BMP(t *testing.T) {
	dir := t.TempDir()
	c := fixedCapture(dir)
	if err := c.SetFormat(".BMP"); err != nil {
		t.Fatal(err)
	}

	path, err := c.FromPixels([]byte{0, 255, 0, 255}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "shot_2024-03-01_12-30-00.bmp"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, g, _, _ := img.At(0, 0).RGBA(); g != 0xffff {
		t.Errorf("pixel = %v, want green", img.At(0, 0))
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
		err  bool
	}{
		{"png", PNG, false},
		{".bmp", BMP, false},
		{"", PNG, false},
		{"jpg", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name)
		if (err != nil) != tt.err {
			t.Errorf("ParseFormat(%q) error = %v", tt.name, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrFormat", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWrite_UnknownExtensionIsPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.out")
	if err := Write(path, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("decoding as PNG: %v", err)
	}
}
