package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

// Plane represents an infinite plane in implicit form normal·p + D = 0
type Plane struct {
	Normal   core.Vec3 // Unit normal
	D        float64
	Material *material.Material
}

// NewPlane creates the plane normal·p + offset = 0, so a unit normal (0,1,0)
// with offset -1 is the floor at y = 1. The normal is normalized and the
// offset rescaled to match.
func NewPlane(normal core.Vec3, offset float64, mat *material.Material) *Plane {
	length := normal.Length()
	if length == 0 {
		return &Plane{Material: mat}
	}
	return &Plane{
		Normal:   normal.Multiply(1 / length),
		D:        offset / length,
		Material: mat,
	}
}

// Intersect tests the ray against the plane
func (p *Plane) Intersect(ray core.Ray, tMin float64, hit *material.HitRecord) bool {
	denominator := p.Normal.Dot(ray.Direction)

	// Parallel rays (and degenerate planes) never intersect
	if denominator == 0 {
		return false
	}

	t := -(p.D + p.Normal.Dot(ray.Origin)) / denominator
	if !hit.Accepts(tMin, t) {
		return false
	}

	hit.Set(t, p.Material, p.Normal)
	return true
}
