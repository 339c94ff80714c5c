// Package debug writes screenshots and terrain dumps as PNG or BMP files.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// Format is an image file format, named by its extension.
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ErrFormat is returned for an image format that cannot be written.
var ErrFormat = errors.New("unsupported image format")

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case PNG, BMP:
		return f, nil
	case "":
		return PNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, name)
}

// Capture names and writes image captures.
type Capture struct {
	outputDir string
	prefix    string
	format    Format
	now       func() time.Time
	seq       int
}

// NewCapture returns a capture writing prefix_<timestamp>.png files in
// outputDir.
func NewCapture(outputDir, prefix string) *Capture {
	return &Capture{outputDir: outputDir, prefix: prefix, format: PNG, now: time.Now}
}

// SetFormat switches the file format of later captures.
func (c *Capture) SetFormat(name string) error {
	f, err := ParseFormat(name)
	if err != nil {
		return err
	}
	c.format = f
	return nil
}

// Filename returns the path the next capture will use.
func (c *Capture) Filename() string {
	name := fmt.Sprintf("%s_%s", c.prefix, c.now().Format("2006-01-02_15-04-05"))
	if c.seq > 0 {
		name = fmt.Sprintf("%s_%d", name, c.seq)
	}
	return filepath.Join(c.outputDir, name+"."+string(c.format))
}

// FromPixels writes a bottom-up RGBA framebuffer, flipping it upright.
func (c *Capture) FromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return c.FromImage(img)
}

// FromImage writes img as is.
func (c *Capture) FromImage(img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	path := c.Filename()
	if _, err := os.Stat(path); err == nil {
		c.seq++
		path = c.Filename()
	}
	if err := Write(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// Write encodes img to path in the format its extension names. Paths
// without a known extension are written as PNG.
func Write(path string, img image.Image) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		format = PNG
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if format == BMP {
		err = bmp.Encode(f, img)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", strings.ToUpper(string(format)), err)
	}
	return f.Close()
}
