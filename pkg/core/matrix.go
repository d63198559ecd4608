package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// singularEpsilon bounds |det| relative to the largest element raised to the
// matrix order; below it a matrix is treated as non-invertible
const singularEpsilon = 1e-12

// Mat4 is a 4x4 affine transform in homogeneous coordinates.
// a.Mul(b) applied to a point applies b first and a last.
type Mat4 struct {
	m mgl64.Mat4
}

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{m: mgl64.Ident4()}
}

// NewMat4 creates a matrix from 16 values given row by row
func NewMat4(
	a1, b1, c1, d1,
	a2, b2, c2, d2,
	a3, b3, c3, d3,
	a4, b4, c4, d4 float64,
) Mat4 {
	return Mat4{m: mgl64.Mat4FromRows(
		mgl64.Vec4{a1, b1, c1, d1},
		mgl64.Vec4{a2, b2, c2, d2},
		mgl64.Vec4{a3, b3, c3, d3},
		mgl64.Vec4{a4, b4, c4, d4},
	)}
}

// Translation returns a translation matrix
func Translation(x, y, z float64) Mat4 {
	return Mat4{m: mgl64.Translate3D(x, y, z)}
}

// Scaling returns a non-uniform scaling matrix
func Scaling(x, y, z float64) Mat4 {
	return Mat4{m: mgl64.Scale3D(x, y, z)}
}

// UniformScaling returns a scaling matrix with the same factor on every axis
func UniformScaling(s float64) Mat4 {
	return Scaling(s, s, s)
}

// RotationX returns a rotation about the X axis
func RotationX(radians float64) Mat4 {
	return Mat4{m: mgl64.HomogRotate3DX(radians)}
}

// RotationY returns a rotation about the Y axis
func RotationY(radians float64) Mat4 {
	return Mat4{m: mgl64.HomogRotate3DY(radians)}
}

// RotationZ returns a rotation about the Z axis
func RotationZ(radians float64) Mat4 {
	return Mat4{m: mgl64.HomogRotate3DZ(radians)}
}

// Rotation returns a rotation about an arbitrary axis (need not be normalized)
func Rotation(axis Vec3, radians float64) Mat4 {
	n := axis.Normalize()
	return Mat4{m: mgl64.HomogRotate3D(radians, mgl64.Vec3{n.X, n.Y, n.Z})}
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// At returns the element at the given row and column
func (a Mat4) At(row, col int) float64 {
	return a.m.At(row, col)
}

// Mul returns the matrix product a*b
func (a Mat4) Mul(b Mat4) Mat4 {
	return Mat4{m: a.m.Mul4(b.m)}
}

// Transpose returns the transposed matrix
func (a Mat4) Transpose() Mat4 {
	return Mat4{m: a.m.Transpose()}
}

// Determinant returns the determinant of the matrix
func (a Mat4) Determinant() float64 {
	return a.m.Det()
}

// Inverse returns the inverse matrix, or false if the matrix is singular.
// The test is relative to the matrix scale, so UniformScaling(1e-5) inverts.
func (a Mat4) Inverse() (Mat4, bool) {
	if a.m.Row(3) == (mgl64.Vec4{0, 0, 0, 1}) {
		// Affine: the translation column never affects invertibility
		upper := a.m.Mat3()
		if singular(upper.Det(), upper[:], 3) {
			return Mat4{}, false
		}
	} else if singular(a.Determinant(), a.m[:], 4) {
		return Mat4{}, false
	}
	return Mat4{m: a.m.Inv()}, true
}

// NormalMatrix returns the inverse-transpose of the upper 3x3 block, used to
// carry surface normals from the matrix's local frame into its parent frame
func (a Mat4) NormalMatrix() (Mat3, bool) {
	upper := a.m.Mat3()
	if singular(upper.Det(), upper[:], 3) {
		return Mat3{}, false
	}
	return Mat3{m: upper.Inv().Transpose()}, true
}

// singular compares det against the largest element magnitude to the power of order
func singular(det float64, elements []float64, order int) bool {
	scale := 0.0
	for _, e := range elements {
		scale = math.Max(scale, math.Abs(e))
	}
	if det == 0 || scale == 0 {
		return true
	}
	return math.Abs(det) < singularEpsilon*math.Pow(scale, float64(order))
}

// TransformPoint applies the matrix to a point (w = 1)
func (a Mat4) TransformPoint(p Vec3) Vec3 {
	r := a.m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return Vec3{r[0], r[1], r[2]}
}

// TransformDirection applies the matrix to a direction (w = 0), ignoring translation
func (a Mat4) TransformDirection(d Vec3) Vec3 {
	r := a.m.Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return Vec3{r[0], r[1], r[2]}
}

// ApproxEqual reports whether every element differs by at most epsilon
func (a Mat4) ApproxEqual(b Mat4, epsilon float64) bool {
	return a.m.ApproxEqualThreshold(b.m, epsilon)
}

// Mat3 is a 3x3 linear transform, used for normals
type Mat3 struct {
	m mgl64.Mat3
}

// Transform applies the matrix to a vector
func (a Mat3) Transform(v Vec3) Vec3 {
	r := a.m.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return Vec3{r[0], r[1], r[2]}
}
