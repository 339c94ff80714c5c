// Package renderer draws the 2D scene with OpenGL: terrain tiles, sprites
// and particle quads, all as textured or flat quads under an orthographic
// projection with y pointing up.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/searth/internal/engine/shader"
	"github.com/Faultbox/searth/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	// Sky is the clear colour.
	Sky [3]float32
}

// Renderer owns the quad program and geometry.
type Renderer struct {
	config     Config
	log        *zap.Logger
	program    *shader.Program
	quadVAO    uint32
	quadVBO    uint32
	projection math.Mat4
}

const vertexSrc = `
#version 410 core

layout (location = 0) in vec2 aPos;

uniform mat4 uProjection;
uniform mat4 uModel;
uniform int uFlip;

out vec2 vUV;

void main() {
	vUV = vec2(aPos.x, uFlip == 1 ? 1.0 - aPos.y : aPos.y);
	gl_Position = uProjection * uModel * vec4(aPos, 0.0, 1.0);
}
`

const fragmentSrc = `
#version 410 core

in vec2 vUV;

uniform sampler2D uTexture;
uniform int uTextured;
uniform vec4 uTint;

out vec4 FragColor;

void main() {
	if (uTextured == 1) {
		FragColor = texture(uTexture, vUV) * uTint;
	} else {
		FragColor = uTint;
	}
	if (FragColor.a == 0.0) {
		discard;
	}
}
`

// New initialises OpenGL and builds the quad pipeline. The GL context must
// be current.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{config: cfg, log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(cfg.Sky[0], cfg.Sky[1], cfg.Sky[2], 1)

	var err error
	r.program, err = shader.Compile(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("quad program: %w", err)
	}
	r.createQuad()
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *Renderer) createQuad() {
	vertices := []float32{
		0, 0,
		1, 0,
		1, 1,
		0, 0,
		1, 1,
		0, 1,
	}
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Close frees GL objects.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize sets the viewport and maps world units 1:1 onto it.
func (r *Renderer) Resize(width, height int) {
	r.config.Width, r.config.Height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.projection = math.Ortho(0, float32(width), 0, float32(height), -1, 1)
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height))
}

// Begin clears the frame and binds the quad pipeline.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	r.program.Use()
	r.program.SetMat4("uProjection", r.projection)
	r.program.SetInt("uTexture", 0)
	gl.BindVertexArray(r.quadVAO)
}

// End unbinds the pipeline.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// DrawTexture draws tex with its bottom-left corner at (x, y), rotated by
// angle radians about its centre. Textures uploaded top-down are flipped.
func (r *Renderer) DrawTexture(tex *Texture, x, y, angle float32, tint Color) {
	r.program.SetMat4("uModel", math.Quad(x, y, float32(tex.Width), float32(tex.Height), angle))
	r.program.SetInt("uTextured", 1)
	r.program.SetInt("uFlip", boolInt(tex.TopDown))
	r.program.SetVec4("uTint", tint.R, tint.G, tint.B, tint.A)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// DrawRect fills an axis-aligned rectangle.
func (r *Renderer) DrawRect(x, y, w, h float32, c Color) {
	r.program.SetMat4("uModel", math.Quad(x, y, w, h, 0))
	r.program.SetInt("uTextured", 0)
	r.program.SetVec4("uTint", c.R, c.G, c.B, c.A)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// ReadPixels returns the framebuffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	buf := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&buf[0]))
	return buf, w, h
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Color is a normalised RGBA colour.
type Color struct {
	R, G, B, A float32
}

// White leaves textures untinted.
var White = Color{1, 1, 1, 1}

// RGBA8 converts 8-bit components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}
