package geometry

import (
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat *material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray, tMin float64, hit *material.HitRecord) bool {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.LengthSquared()
	b := 2 * ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	if a == 0 {
		return false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one
	root := (-b - sqrtD) / (2 * a)
	if !hit.Accepts(tMin, root) {
		root = (-b + sqrtD) / (2 * a)
		if !hit.Accepts(tMin, root) {
			return false
		}
	}

	normal := ray.At(root).Subtract(s.Center).Normalize()
	hit.Set(root, s.Material, normal)
	return true
}

// Bounds returns the axis-aligned bounding box of the sphere
func (s *Sphere) Bounds() core.Box {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewBox(s.Center.Subtract(radius), s.Center.Add(radius))
}
