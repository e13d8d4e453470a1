package soaecs

import "github.com/go-gl/mathgl/mgl32"

// ComposeTRS builds the matrix that scales, then rotates, then translates: T * R * S.
func ComposeTRS(rotation mgl32.Quat, translation, scale mgl32.Vec3) mgl32.Mat4 {
	m := rotation.Mat4()
	// Scaling the rotation's basis columns is R * S without a full multiply.
	for col := range 3 {
		for row := range 3 {
			m[col*4+row] *= scale[col]
		}
	}
	m[12], m[13], m[14] = translation[0], translation[1], translation[2]
	return m
}

// NormalFromMat4 returns the inverse transpose of m's upper 3x3, for transforming normals. A
// singular matrix yields the zero matrix.
func NormalFromMat4(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3().Inv().Transpose()
}
