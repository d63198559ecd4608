package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

// Transform places a child in its parent's frame through an affine matrix
type Transform struct {
	Child        Intersectable
	Matrix       core.Mat4
	inverse      core.Mat4
	normalMatrix core.Mat3
	invertible   bool
}

// NewTransform wraps child with matrix m. A singular matrix yields a transform
// that never intersects.
func NewTransform(child Intersectable, m core.Mat4) *Transform {
	t := &Transform{Child: child, Matrix: m}

	inverse, ok := m.Inverse()
	if !ok {
		return t
	}
	normalMatrix, ok := m.NormalMatrix()
	if !ok {
		return t
	}

	t.inverse = inverse
	t.normalMatrix = normalMatrix
	t.invertible = true
	return t
}

// Invertible reports whether the matrix could be inverted
func (t *Transform) Invertible() bool {
	return t.invertible
}

// Intersect moves the ray into the child's frame, delegates, and carries the
// normal back out. The local direction is left unnormalized so t is shared.
func (t *Transform) Intersect(ray core.Ray, tMin float64, hit *material.HitRecord) bool {
	if !t.invertible {
		return false
	}

	local := core.NewRay(
		t.inverse.TransformPoint(ray.Origin),
		t.inverse.TransformDirection(ray.Direction),
	)

	if !t.Child.Intersect(local, tMin, hit) {
		return false
	}

	hit.SetNormal(t.normalMatrix.Transform(hit.Normal).Normalize())
	return true
}
