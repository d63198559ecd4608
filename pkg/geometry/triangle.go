package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

// Vertex is one corner of a triangle as read from a mesh
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	TexCoord core.Vec2
}

// Triangle represents a single triangle with per-vertex normals
type Triangle struct {
	A, B, C      core.Vec3          // The three vertices
	Normals      [3]core.Vec3       // Shading normals at A, B and C
	TexCoords    [3]core.Vec2       // Texture coordinates at A, B and C
	HasTexCoords bool               // Texture coordinates are only kept for textured materials
	Material     *material.Material // Material of the triangle
	faceNormal   core.Vec3          // Cached unit face normal
	bounds       core.Box           // Cached bounding box
}

// NewTriangle creates a triangle. A smoothed triangle interpolates the vertex
// normals; otherwise the face normal is used at all three corners.
func NewTriangle(vertices [3]Vertex, mat *material.Material, smoothed bool) *Triangle {
	t := &Triangle{
		A:        vertices[0].Position,
		B:        vertices[1].Position,
		C:        vertices[2].Position,
		Material: mat,
	}

	t.faceNormal = t.B.Subtract(t.A).Cross(t.C.Subtract(t.A)).Normalize()
	t.bounds = core.NewBoxFromPoints(t.A, t.B, t.C)

	if smoothed {
		for i, v := range vertices {
			t.Normals[i] = v.Normal
		}
	} else {
		t.Normals = [3]core.Vec3{t.faceNormal, t.faceNormal, t.faceNormal}
	}

	if mat != nil && mat.HasTexture() {
		for i, v := range vertices {
			t.TexCoords[i] = v.TexCoord
		}
		t.HasTexCoords = true
	}

	return t
}

// Vertex returns vertex 0, 1 or 2
func (t *Triangle) Vertex(index int) core.Vec3 {
	switch index {
	case 0:
		return t.A
	case 1:
		return t.B
	case 2:
		return t.C
	default:
		panic("triangle vertex index out of range")
	}
}

// FaceNormal returns the unit geometric normal (B-A)×(C-A)
func (t *Triangle) FaceNormal() core.Vec3 {
	return t.faceNormal
}

// Bounds returns the axis-aligned bounding box of the triangle
func (t *Triangle) Bounds() core.Box {
	return t.bounds
}

// Intersect tests the ray against the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray, tMin float64, hit *material.HitRecord) bool {
	const epsilon = 1e-12

	edge1 := t.B.Subtract(t.A)
	edge2 := t.C.Subtract(t.A)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the triangle's plane, or the triangle is degenerate
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.A)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tParam := f * edge2.Dot(q)
	if !hit.Accepts(tMin, tParam) {
		return false
	}

	w := 1 - u - v
	normal := t.Normals[0].Multiply(w).
		Add(t.Normals[1].Multiply(u)).
		Add(t.Normals[2].Multiply(v)).
		Normalize()
	if normal == (core.Vec3{}) {
		normal = t.faceNormal
	}

	if t.HasTexCoords {
		uv := t.TexCoords[0].Multiply(w).
			Add(t.TexCoords[1].Multiply(u)).
			Add(t.TexCoords[2].Multiply(v))
		hit.SetWithTexCoords(tParam, t.Material, normal, uv)
	} else {
		hit.Set(tParam, t.Material, normal)
	}
	return true
}
