package terrain

import (
	"fmt"
	"image"
	"image/color"
)

// Earth shading. Going down from a column's surface the red channel rises
// and the green channel falls until the depth counter saturates.
const (
	earthGreen    = 192
	earthBlue     = 6
	earthMaxDepth = 128
)

// Earth returns the colour of a solid cell depth cells below the surface
// of its column.
func Earth(depth int) color.NRGBA {
	d := uint8(min(max(depth, 0), earthMaxDepth))
	return color.NRGBA{R: d, G: earthGreen - d, B: earthBlue, A: 0xff}
}

// Tile is one power-of-two wide slice of the terrain image.
type Tile struct {
	Index   int
	XOffset int
	Width   int
	Height  int
	Image   Image
}

// TileSet mirrors the occupancy grid into a row of pixel buffers whose
// widths are powers of two, so each can become a texture.
type TileSet struct {
	tiles  []*Tile
	width  int
	height int
}

// PartitionWidths splits width greedily into powers of two no larger than
// maxTexture: 800 with a 512 limit gives 512, 256, 32.
func PartitionWidths(width, maxTexture int) []int {
	var widths []int
	for remaining := width; remaining > 0; {
		w := floorPow2(min(remaining, maxTexture))
		widths = append(widths, w)
		remaining -= w
	}
	return widths
}

// TileHeight returns the largest power of two not above min(height, maxTexture).
func TileHeight(height, maxTexture int) int {
	return floorPow2(min(height, maxTexture))
}

func floorPow2(v int) int {
	if v < 1 {
		return 0
	}
	p := 1
	for p*2 <= v {
		p *= 2
	}
	return p
}

// NewTileSet allocates the tiles covering a width x height grid. On failure
// every buffer already created is freed.
func NewTileSet(images Images, width, height, maxTexture int) (*TileSet, error) {
	if images == nil {
		return nil, fmt.Errorf("%w: no image service", ErrNoImage)
	}
	if width <= 0 || height <= 0 || maxTexture <= 0 {
		return nil, fmt.Errorf("%w: %dx%d, max texture %d", ErrInvalidSize, width, height, maxTexture)
	}

	ts := &TileSet{width: width, height: TileHeight(height, maxTexture)}
	offset := 0
	for i, w := range PartitionWidths(width, maxTexture) {
		img, err := images.Create(fmt.Sprintf("terrain%d", i+1), w, ts.height, 32)
		if err != nil {
			ts.Free()
			return nil, err
		}
		ts.tiles = append(ts.tiles, &Tile{
			Index:   i,
			XOffset: offset,
			Width:   w,
			Height:  ts.height,
			Image:   img,
		})
		offset += w
	}
	return ts, nil
}

// Tiles returns the tiles left to right.
func (ts *TileSet) Tiles() []*Tile { return ts.tiles }

// Width returns the total width covered.
func (ts *TileSet) Width() int { return ts.width }

// Height returns the tile height. Grid rows at or above it are not mirrored.
func (ts *TileSet) Height() int { return ts.height }

// Locate maps a grid column to its tile and the column inside that tile.
func (ts *TileSet) Locate(x int) (*Tile, int) {
	for _, t := range ts.tiles {
		if x >= t.XOffset && x < t.XOffset+t.Width {
			return t, x - t.XOffset
		}
	}
	return nil, 0
}

// Lock locks every tile image for pixel access.
func (ts *TileSet) Lock() error {
	for i, t := range ts.tiles {
		if err := t.Image.Lock(); err != nil {
			for _, done := range ts.tiles[:i] {
				done.Image.Unlock()
			}
			return fmt.Errorf("locking %s: %w", t.Image.Name(), err)
		}
	}
	return nil
}

// Unlock releases the locks taken by Lock.
func (ts *TileSet) Unlock() {
	for _, t := range ts.tiles {
		t.Image.Unlock()
	}
}

// Regenerate repaints every tile from the grid, shading earth by depth
// below the surface of its column.
func (ts *TileSet) Regenerate(g *Grid) error {
	if err := ts.Lock(); err != nil {
		return err
	}
	defer ts.Unlock()

	for x := 0; x < ts.width; x++ {
		t, lx := ts.Locate(x)
		if t == nil {
			continue
		}
		empty := t.Image.MapRGBA(0, 0, 0, 0)
		depth := 0
		for y := ts.height - 1; y >= 0; y-- {
			if !g.Solid(x, y) {
				t.Image.SetPixel(lx, y, empty)
				continue
			}
			c := Earth(depth)
			t.Image.SetPixel(lx, y, t.Image.MapRGBA(c.R, c.G, c.B, c.A))
			depth++
		}
	}
	return nil
}

// Clear makes the pixel at a grid cell transparent. The tiles must be locked.
func (ts *TileSet) Clear(x, y int) {
	t, lx := ts.Locate(x)
	if t == nil || y < 0 || y >= ts.height {
		return
	}
	t.Image.SetPixel(lx, y, t.Image.MapRGBA(0, 0, 0, 0))
}

// Paint sets a single pixel to surface earth or transparent. The tiles must
// be locked.
func (ts *TileSet) Paint(x, y int, solid bool) {
	t, lx := ts.Locate(x)
	if t == nil || y < 0 || y >= ts.height {
		return
	}
	if solid {
		c := Earth(0)
		t.Image.SetPixel(lx, y, t.Image.MapRGBA(c.R, c.G, c.B, c.A))
		return
	}
	t.Image.SetPixel(lx, y, t.Image.MapRGBA(0, 0, 0, 0))
}

// Swap exchanges two pixels, keeping their colours. The tiles must be locked.
func (ts *TileSet) Swap(x1, y1, x2, y2 int) {
	a, ax := ts.Locate(x1)
	b, bx := ts.Locate(x2)
	if a == nil || b == nil || !ts.mirrored(y1) || !ts.mirrored(y2) {
		return
	}
	pa := a.Image.Pixel(ax, y1)
	pb := b.Image.Pixel(bx, y2)
	a.Image.SetPixel(ax, y1, pb)
	b.Image.SetPixel(bx, y2, pa)
}

func (ts *TileSet) mirrored(y int) bool {
	return y >= 0 && y < ts.height
}

// Image composes the tiles into one image with row 0 at the bottom.
func (ts *TileSet) Image() (*image.NRGBA, error) {
	if err := ts.Lock(); err != nil {
		return nil, err
	}
	defer ts.Unlock()

	out := image.NewNRGBA(image.Rect(0, 0, ts.width, ts.height))
	for _, t := range ts.tiles {
		for y := 0; y < t.Height; y++ {
			for x := 0; x < t.Width; x++ {
				r, g, b, a := t.Image.RGBA(t.Image.Pixel(x, y))
				out.SetNRGBA(t.XOffset+x, ts.height-1-y, color.NRGBA{R: r, G: g, B: b, A: a})
			}
		}
	}
	return out, nil
}

// Free releases every tile image.
func (ts *TileSet) Free() {
	for _, t := range ts.tiles {
		t.Image.Free()
	}
	ts.tiles = nil
}
