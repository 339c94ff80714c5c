package math

import "math"

// Mat4 is a column-major 4x4 matrix laid out the way OpenGL uploads it.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Scale(1, 1, 1)
}

// Scale returns a matrix scaling each axis.
func Scale(x, y, z float32) Mat4 {
	return Mat4{0: x, 5: y, 10: z, 15: 1}
}

// Translate returns a matrix moving points by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// RotateZ returns a counter-clockwise rotation of angle radians in the
// XY plane.
func RotateZ(angle float32) Mat4 {
	sin, cos := math.Sincos(float64(angle))
	c, s := float32(cos), float32(sin)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Ortho returns an orthographic projection mapping the given box onto
// clip space.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	w, h, d := right-left, top-bottom, far-near
	m := Scale(2/w, 2/h, -2/d)
	m[12] = -(right + left) / w
	m[13] = -(top + bottom) / h
	m[14] = -(far + near) / d
	return m
}

// Quad returns the model matrix for a unit quad stretched to w x h with
// its bottom-left corner at (x, y), turned by angle radians about its
// centre.
func Quad(x, y, w, h, angle float32) Mat4 {
	if angle == 0 {
		return Translate(x, y, 0).Mul(Scale(w, h, 1))
	}
	return Translate(x+w/2, y+h/2, 0).
		Mul(RotateZ(angle)).
		Mul(Translate(-w/2, -h/2, 0)).
		Mul(Scale(w, h, 1))
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for c := range 4 {
		for row := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// Apply transforms point v (w = 1).
func (m Mat4) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// Ptr returns a pointer to the first element for uniform uploads.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
