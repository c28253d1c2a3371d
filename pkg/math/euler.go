package math

import "github.com/go-gl/mathgl/mgl64"

// EulerXYZ builds a rotation matrix from XYZ Euler angles in radians,
// composed as Rz * Ry * Rx.
func EulerXYZ(x, y, z float64) mgl64.Mat3 {
	return mgl64.Rotate3DZ(z).Mul3(mgl64.Rotate3DY(y)).Mul3(mgl64.Rotate3DX(x))
}

// TRS builds an affine transform from translation, XYZ Euler rotation
// (radians) and scale, composed as T * R * S.
func TRS(pos, rot, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(pos.X(), pos.Y(), pos.Z())
	r := EulerXYZ(rot.X(), rot.Y(), rot.Z()).Mat4()
	s := mgl64.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(r).Mul4(s)
}

// TransformPoint applies an affine matrix to a 3D point (w = 1).
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}
