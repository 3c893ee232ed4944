package tilemap_view

import "github.com/Carmen-Shannon/oxy-tilemap/common"

// EffectiveTransform composes base · translate(x, y) · rotateZ(radians) into a new matrix.
// base is not modified.
//
// Parameters:
//   - base: the caller-supplied projection/parent transform
//   - x, y: the view origin in the parent's space
//   - radians: the view rotation
//
// Returns:
//   - common.Mat4: the composed transform
func EffectiveTransform(base common.Mat4, x, y, radians float32) common.Mat4 {
	m := base
	common.Translate(m[:], x, y, 0)
	common.RotateZ(m[:], radians)
	return m
}
