package assets

import (
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/internal/engine/texture"
)

// TankTint is the player colour painted over the tank's alpha.
var TankTint = color.NRGBA{B: 255, A: 255}

// SpritePaths names the data files of the scene images.
type SpritePaths struct {
	Background string
	Tank       string
	Projectile string
	Flare      string
	Smoke      string
}

// Sprites holds the decoded scene images, top-down and ready to draw.
type Sprites struct {
	Background *image.NRGBA
	Tank       *image.NRGBA
	Projectile *image.NRGBA
	Flare      *image.NRGBA
	Smoke      *image.NRGBA
}

// Sprites decodes the scene images. A missing or broken file is logged
// and replaced with a drawn stand-in; only Background may be nil. The
// tank is recoloured with TankTint and the projectile's key colour is
// made transparent.
func (m *Manager) Sprites(paths SpritePaths, log *zap.Logger) *Sprites {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sprites{
		Background: m.imageOr(paths.Background, nil, log),
		Tank:       m.imageOr(paths.Tank, texture.Tank, log),
		Projectile: m.imageOr(paths.Projectile, func() *image.NRGBA { return texture.Shell(6) }, log),
		Flare:      m.imageOr(paths.Flare, func() *image.NRGBA { return texture.Smoke(12) }, log),
		Smoke:      m.imageOr(paths.Smoke, func() *image.NRGBA { return texture.Smoke(32) }, log),
	}
	texture.Recolor(s.Tank, TankTint)
	texture.ApplyKey(s.Projectile, texture.Magenta)
	return s
}

func (m *Manager) imageOr(rel string, fallback func() *image.NRGBA, log *zap.Logger) *image.NRGBA {
	img, err := m.Image(rel)
	if err == nil {
		log.Debug("sprite loaded", zap.String("path", rel))
		return img
	}
	if fallback == nil {
		log.Warn("image unavailable", zap.String("path", rel), zap.Error(err))
		return nil
	}
	log.Warn("image unavailable, using stand-in", zap.String("path", rel), zap.Error(err))
	return fallback()
}

// Masks builds the collision shapes of the tank and the projectile, using
// images for the temporary pixel buffers.
func (s *Sprites) Masks(images terrain.Images) (tank, projectile *terrain.Sprite, err error) {
	tank, err = terrain.SpriteFromImage(images, "tank", s.Tank, texture.Magenta)
	if err != nil {
		return nil, nil, err
	}
	projectile, err = terrain.SpriteFromImage(images, "projectile", s.Projectile, texture.Magenta)
	if err != nil {
		return nil, nil, err
	}
	return tank, projectile, nil
}
