package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

// Intersectable is anything a ray can be tested against for a nearest hit.
//
// Intersect only updates hit when it finds a root with tMin < t < hit.T and
// returns true iff this call updated hit. The set of implementations is closed
// to this package: Plane, Sphere, Triangle, TriangleMesh, Group, Transform and
// Octree.
type Intersectable interface {
	Intersect(ray core.Ray, tMin float64, hit *material.HitRecord) bool

	intersectable()
}

func (*Plane) intersectable()        {}
func (*Sphere) intersectable()       {}
func (*Triangle) intersectable()     {}
func (*TriangleMesh) intersectable() {}
func (*Group) intersectable()        {}
func (*Transform) intersectable()    {}
func (*Octree) intersectable()       {}
