package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/searth/internal/engine/terrain"
)

// TileTextures keeps one GL texture per terrain tile.
type TileTextures struct {
	r        *Renderer
	textures []*Texture
}

// NewTileTextures returns the terrain texture backend for r.
func NewTileTextures(r *Renderer) *TileTextures {
	return &TileTextures{r: r}
}

// Upload creates textures from the tile pixels. Tile rows are bottom-up.
func (tt *TileTextures) Upload(tiles []*terrain.Tile) error {
	for _, tile := range tiles {
		pix := tile.Image.Pixels()
		if len(pix) < tile.Width*tile.Height*4 {
			tt.Release()
			return fmt.Errorf("tile %d: %d bytes for %dx%d", tile.Index, len(pix), tile.Width, tile.Height)
		}
		tex := &Texture{Width: tile.Width, Height: tile.Height}
		tex.ID = upload(pix, tile.Width, tile.Height)
		if tex.ID == 0 {
			tt.Release()
			return fmt.Errorf("tile %d: texture creation failed: GL error %#x", tile.Index, gl.GetError())
		}
		tt.textures = append(tt.textures, tex)
	}
	return nil
}

// Draw places each tile at its column offset on the ground line.
func (tt *TileTextures) Draw(tiles []*terrain.Tile) {
	for i, tex := range tt.textures {
		if i >= len(tiles) {
			return
		}
		tt.r.DrawTexture(tex, float32(tiles[i].XOffset), 0, 0, White)
	}
}

// Release deletes every texture.
func (tt *TileTextures) Release() {
	for _, tex := range tt.textures {
		tex.Delete()
	}
	tt.textures = tt.textures[:0]
}
