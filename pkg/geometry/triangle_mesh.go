package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

// TriangleMesh represents a collection of triangles, optionally accelerated by an octree
type TriangleMesh struct {
	triangles []*Triangle
	vertices  []core.Vec3
	octree    *Octree
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	UseOctree bool // Build an octree over the triangles
	MaxLevel  int  // Octree depth limit; 0 means DefaultOctreeMaxLevel
}

// NewTriangleMesh creates a mesh from triangles and the vertex list they were built from.
// An octree is built only when requested and the vertex list is non-empty.
func NewTriangleMesh(triangles []*Triangle, vertices []core.Vec3, options *TriangleMeshOptions) *TriangleMesh {
	for _, triangle := range triangles {
		if triangle == nil {
			panic("triangle mesh contains a nil triangle")
		}
	}

	mesh := &TriangleMesh{
		triangles: triangles,
		vertices:  vertices,
	}

	if options != nil && options.UseOctree && len(vertices) > 0 {
		maxLevel := options.MaxLevel
		if maxLevel <= 0 {
			maxLevel = DefaultOctreeMaxLevel
		}
		mesh.octree = NewOctree(triangles, vertices, maxLevel)
	}

	return mesh
}

// Intersect delegates to the octree when present, otherwise tests every triangle
func (tm *TriangleMesh) Intersect(ray core.Ray, tMin float64, hit *material.HitRecord) bool {
	if tm.octree != nil {
		return tm.octree.Intersect(ray, tMin, hit)
	}

	intersected := false
	for _, triangle := range tm.triangles {
		if triangle.Intersect(ray, tMin, hit) {
			intersected = true
		}
	}
	return intersected
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// Triangles returns the individual triangles
func (tm *TriangleMesh) Triangles() []*Triangle {
	return tm.triangles
}

// Octree returns the acceleration structure, or nil for a linear mesh
func (tm *TriangleMesh) Octree() *Octree {
	return tm.octree
}

// Bounds returns the box around every triangle
func (tm *TriangleMesh) Bounds() core.Box {
	if len(tm.triangles) == 0 {
		return core.Box{}
	}
	box := tm.triangles[0].Bounds()
	for _, triangle := range tm.triangles[1:] {
		box = box.Union(triangle.Bounds())
	}
	return box
}

// NewIndexedTriangleMesh creates a mesh from a vertex list and a flat face
// index list holding three vertex indices per triangle. Smoothed meshes get
// per-vertex normals from VertexNormals.
func NewIndexedTriangleMesh(vertices []core.Vec3, faces []int, mat *material.Material, smoothed bool, options *TriangleMeshOptions) *TriangleMesh {
	if len(faces)%3 != 0 {
		panic("face index count must be a multiple of 3")
	}

	var normals []core.Vec3
	if smoothed {
		normals = VertexNormals(vertices, faces)
	}

	triangles := make([]*Triangle, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		var corners [3]Vertex
		for k := 0; k < 3; k++ {
			index := faces[i+k]
			if index < 0 || index >= len(vertices) {
				panic("face index out of range")
			}
			corners[k].Position = vertices[index]
			if smoothed {
				corners[k].Normal = normals[index]
			}
		}
		triangles = append(triangles, NewTriangle(corners, mat, smoothed))
	}

	return NewTriangleMesh(triangles, vertices, options)
}

// VertexNormals returns a normal per vertex: the normalized sum of the
// unnormalized face normals of every triangle that uses the vertex, so larger
// faces weigh more. Vertices used by no face get a zero normal.
func VertexNormals(vertices []core.Vec3, faces []int) []core.Vec3 {
	normals := make([]core.Vec3, len(vertices))
	for i := 0; i+2 < len(faces); i += 3 {
		a, b, c := faces[i], faces[i+1], faces[i+2]
		if a < 0 || b < 0 || c < 0 || a >= len(vertices) || b >= len(vertices) || c >= len(vertices) {
			continue
		}
		normal := vertices[b].Subtract(vertices[a]).Cross(vertices[c].Subtract(vertices[a]))
		normals[a] = normals[a].Add(normal)
		normals[b] = normals[b].Add(normal)
		normals[c] = normals[c].Add(normal)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}
