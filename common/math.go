package common

import (
	"math"
	"unsafe"
)

// RadiansToDegrees converts radians to degrees when multiplied.
const RadiansToDegrees = 180.0 / math.Pi

// Mat4 is a column-major 4x4 matrix, the layout WGSL expects for mat4x4<f32>. It is an array
// so transforms can be copied by value.
type Mat4 = [16]float32

// Identity overwrites the first 16 elements of m with the identity matrix.
//
// Parameters:
//   - m: the matrix, at least 16 elements
func Identity(m []float32) {
	clear(m[:16])
	for i := 0; i < 16; i += 5 {
		m[i] = 1
	}
}

// IdentityMat4 returns the identity matrix.
//
// Returns:
//   - Mat4: the identity
func IdentityMat4() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// SliceToBytes views a slice as its raw bytes for buffer uploads. The result aliases data.
//
// Parameters:
//   - data: the elements
//
// Returns:
//   - []byte: the bytes, or nil for an empty slice
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	n := len(data) * int(unsafe.Sizeof(data[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), n)
}

// StructToBytes views a value as its raw bytes, for uniform uploads. The result aliases v.
//
// Parameters:
//   - v: the value
//
// Returns:
//   - []byte: the bytes
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// Mul4 stores a * b in out. out may alias either operand.
//
// Parameters:
//   - out: the result, at least 16 elements
//   - a: the left matrix
//   - b: the right matrix
func Mul4(out, a, b []float32) {
	var r Mat4
	for col := range 4 {
		bc := b[col*4 : col*4+4]
		for row := range 4 {
			r[col*4+row] = a[row]*bc[0] + a[4+row]*bc[1] + a[8+row]*bc[2] + a[12+row]*bc[3]
		}
	}
	copy(out, r[:])
}

// Ortho creates an orthographic projection matrix mapping the given box to
// WebGPU clip space (x, y in [-1, 1], z in [0, 1]).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: horizontal extent of the view box
//   - bottom, top: vertical extent of the view box
//   - near, far: depth extent of the view box
func Ortho(out []float32, left, right, bottom, top, near, far float32) {
	Identity(out)
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = 1 / (near - far)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = near / (near - far)
}

// Translate post-multiplies m by a translation, i.e. m = m * T(x, y, z).
// Points transformed by the result are translated first, then transformed by the original m.
//
// Parameters:
//   - m: the matrix to modify in place (16 elements)
//   - x, y, z: translation components
func Translate(m []float32, x, y, z float32) {
	m[12] += m[0]*x + m[4]*y + m[8]*z
	m[13] += m[1]*x + m[5]*y + m[9]*z
	m[14] += m[2]*x + m[6]*y + m[10]*z
	m[15] += m[3]*x + m[7]*y + m[11]*z
}

// RotateZ post-multiplies m by a rotation around the Z axis, i.e. m = m * Rz(radians).
// Positive angles rotate counter-clockwise when looking down the negative Z axis.
//
// Parameters:
//   - m: the matrix to modify in place (16 elements)
//   - radians: rotation angle in radians
func RotateZ(m []float32, radians float32) {
	if radians == 0 {
		return
	}
	c := float32(math.Cos(float64(radians)))
	s := float32(math.Sin(float64(radians)))
	for row := 0; row < 4; row++ {
		col0 := m[row]
		col1 := m[4+row]
		m[row] = col0*c + col1*s
		m[4+row] = col1*c - col0*s
	}
}

// TransformPoint applies m to the 2D point (x, y, 0, 1) and returns the resulting x and y.
//
// Parameters:
//   - m: the transform matrix (16 elements)
//   - x, y: the point to transform
//
// Returns:
//   - float32, float32: the transformed point
func TransformPoint(m []float32, x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}
