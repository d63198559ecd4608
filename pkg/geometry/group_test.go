package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

func TestGroup_NearestHit(t *testing.T) {
	nearMaterial := material.NewMaterial(core.NewVec3(1, 0, 0), core.Vec3{}, 0)
	farMaterial := material.NewMaterial(core.NewVec3(0, 0, 1), core.Vec3{}, 0)
	near := NewSphere(core.NewVec3(0, 0, -5), 1, nearMaterial)
	far := NewSphere(core.NewVec3(0, 0, -10), 1, farMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	orders := map[string]*Group{
		"near first": NewGroup(near, far),
		"far first":  NewGroup(far, near),
	}

	for name, group := range orders {
		t.Run(name, func(t *testing.T) {
			hit := material.NewHitRecord()
			if !group.Intersect(ray, 0, &hit) {
				t.Fatal("Expected group hit")
			}
			if hit.Material != nearMaterial {
				t.Error("Expected the nearer sphere's material")
			}
			if math.Abs(hit.T-4) > 1e-9 {
				t.Errorf("Expected t=4, got %f", hit.T)
			}
			if !vecNear(hit.Normal, core.NewVec3(0, 0, 1)) {
				t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
			}
		})
	}
}

func TestGroup_NestedAndEmpty(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	empty := NewGroup()
	hit := material.NewHitRecord()
	if empty.Intersect(ray, 0, &hit) {
		t.Error("Empty group must not intersect")
	}

	inner := NewGroup(NewSphere(core.NewVec3(0, 0, -3), 1, testMaterial()))
	outer := NewGroup()
	outer.Add(NewGroup())
	outer.Add(inner)
	if outer.Len() != 2 || len(outer.Children()) != 2 {
		t.Fatalf("Expected 2 children, got %d", outer.Len())
	}
	if !outer.Intersect(ray, 0, &hit) || math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("Expected nested hit at t=2, got %f", hit.T)
	}
}

func TestTransform_IdentityRoundTrip(t *testing.T) {
	primitives := map[string]Intersectable{
		"sphere": NewSphere(core.NewVec3(0.3, -0.2, -4), 1.5, testMaterial()),
		"plane":  NewPlane(core.NewVec3(0, 1, 0.2), 2, testMaterial()),
		"triangle": NewTriangle([3]Vertex{
			{Position: core.NewVec3(-2, -2, -3)},
			{Position: core.NewVec3(2, -2, -3)},
			{Position: core.NewVec3(0, 2, -3)},
		}, testMaterial(), false),
	}
	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(1, 1, 1), core.NewVec3(-0.2, -0.5, -1)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)),
	}

	for name, primitive := range primitives {
		transformed := NewTransform(primitive, core.Identity())
		for i, ray := range rays {
			direct := material.NewHitRecord()
			wrapped := material.NewHitRecord()
			directHit := primitive.Intersect(ray, 0, &direct)
			wrappedHit := transformed.Intersect(ray, 0, &wrapped)

			if directHit != wrappedHit {
				t.Errorf("%s ray %d: direct=%v wrapped=%v", name, i, directHit, wrappedHit)
				continue
			}
			if directHit && (math.Abs(direct.T-wrapped.T) > 1e-9 || !vecNear(direct.Normal, wrapped.Normal)) {
				t.Errorf("%s ray %d: direct %+v, wrapped %+v", name, i, direct, wrapped)
			}
		}
	}
}

func TestTransform_Intersect(t *testing.T) {
	unitSphere := NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial())

	tests := []struct {
		name           string
		matrix         core.Mat4
		ray            core.Ray
		expectedT      float64
		expectedNormal core.Vec3
	}{
		{
			name:           "translation",
			matrix:         core.Translation(0, 0, -5),
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			expectedT:      4,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "uniform scale keeps world t",
			matrix:         core.UniformScaling(2),
			ray:            core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1)),
			expectedT:      8,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "non-uniform scale",
			matrix:         core.Scaling(3, 1, 1),
			ray:            core.NewRay(core.NewVec3(10, 0, 0), core.NewVec3(-1, 0, 0)),
			expectedT:      7,
			expectedNormal: core.NewVec3(1, 0, 0),
		},
		{
			name:           "rotated and translated",
			matrix:         core.Translation(0, 3, 0).Mul(core.RotationZ(math.Pi / 2)),
			ray:            core.NewRay(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0)),
			expectedT:      6,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transform := NewTransform(unitSphere, tt.matrix)
			hit := material.NewHitRecord()
			if !transform.Intersect(tt.ray, 0, &hit) {
				t.Fatal("Expected hit")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if !vecNear(hit.Normal, tt.expectedNormal) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestTransform_NormalUsesInverseTranspose(t *testing.T) {
	// A 45 degree slope squashed along X: the world normal must stay perpendicular to the surface
	slope := NewPlane(core.NewVec3(1, 1, 0), 0, testMaterial())
	transform := NewTransform(slope, core.Scaling(2, 1, 1))

	hit := material.NewHitRecord()
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	if !transform.Intersect(ray, 0, &hit) {
		t.Fatal("Expected hit")
	}

	surfaceTangent := core.NewVec3(2, -1, 0)
	if math.Abs(hit.Normal.Dot(surfaceTangent)) > 1e-9 {
		t.Errorf("Normal %v not perpendicular to world tangent %v", hit.Normal, surfaceTangent)
	}
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
	}
}

func TestTransform_Singular(t *testing.T) {
	transform := NewTransform(NewSphere(core.Vec3{}, 1, testMaterial()), core.Scaling(1, 0, 1))
	if transform.Invertible() {
		t.Fatal("Expected singular transform")
	}

	hit := material.NewHitRecord()
	if transform.Intersect(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0, &hit) {
		t.Error("Singular transform must never intersect")
	}
}

func TestTransform_MissLeavesNormal(t *testing.T) {
	transform := NewTransform(NewSphere(core.Vec3{}, 1, testMaterial()), core.Scaling(2, 1, 1))

	hit := material.NewHitRecord()
	hit.Set(1, testMaterial(), core.NewVec3(0, 1, 0))
	if transform.Intersect(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0, &hit) {
		t.Fatal("Expected no update behind a closer hit")
	}
	if hit.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Normal must not be re-transformed on miss, got %v", hit.Normal)
	}
}

func TestTransform_TinyScale(t *testing.T) {
	// A radius 20000 sphere scaled down to radius 1
	transform := NewTransform(NewSphere(core.Vec3{}, 20000, testMaterial()), core.UniformScaling(5e-5))
	if !transform.Invertible() {
		t.Fatal("Expected small uniform scale to be invertible")
	}

	hit := material.NewHitRecord()
	if !transform.Intersect(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0, &hit) {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-4) > 1e-9 {
		t.Errorf("Expected t=4, got %f", hit.T)
	}
	if !vecNear(hit.Normal, core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}
}

func TestTransform_NestedThroughGroup(t *testing.T) {
	// Transform -> Group -> Transform: an ellipsoid stretched along X, turned
	// to lie along Z and pushed 5 units away. In world space it is
	// x² + y² + (z+5)²/4 = 1.
	ellipsoid := NewTransform(NewSphere(core.Vec3{}, 1, testMaterial()), core.Scaling(2, 1, 1))
	outer := NewTransform(
		NewGroup(ellipsoid),
		core.Translation(0, 0, -5).Mul(core.RotationY(core.DegreesToRadians(90))),
	)

	t.Run("hit", func(t *testing.T) {
		hit := material.NewHitRecord()
		ray := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, 0, -1))
		if !outer.Intersect(ray, 0, &hit) {
			t.Fatal("Expected hit")
		}

		// Entry at z = -5 + 2*sqrt(1 - 0.25)
		expectedT := 5 - math.Sqrt(3)
		if math.Abs(hit.T-expectedT) > 1e-9 {
			t.Errorf("Expected t=%f, got %f", expectedT, hit.T)
		}

		// Gradient of the implicit surface at the entry point
		expectedNormal := core.NewVec3(0, 0.5, math.Sqrt(3)/4).Normalize()
		if !vecNear(hit.Normal, expectedNormal) {
			t.Errorf("Expected normal %v, got %v", expectedNormal, hit.Normal)
		}
		point := ray.At(hit.T)
		if residual := point.X*point.X + point.Y*point.Y + (point.Z+5)*(point.Z+5)/4 - 1; math.Abs(residual) > 1e-9 {
			t.Errorf("Hit point %v is off the surface by %g", point, residual)
		}
	})

	t.Run("passes above", func(t *testing.T) {
		hit := material.NewHitRecord()
		if outer.Intersect(core.NewRay(core.NewVec3(0, 1.5, 0), core.NewVec3(0, 0, -1)), 0, &hit) {
			t.Error("Expected miss above the ellipsoid")
		}
		if hit.IsHit() {
			t.Error("Miss must leave the record untouched")
		}
	})

	t.Run("closer hit kept", func(t *testing.T) {
		hit := material.NewHitRecord()
		hit.Set(1, testMaterial(), core.NewVec3(0, 1, 0))
		if outer.Intersect(core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, 0, -1)), 0, &hit) {
			t.Fatal("Expected no update behind a closer hit")
		}
		if hit.T != 1 || hit.Normal != core.NewVec3(0, 1, 0) {
			t.Errorf("Outer transform must not touch the record on an inner miss, got t=%f normal %v", hit.T, hit.Normal)
		}
	})
}
