package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

const (
	// OctreeMaxTriangles is the largest triangle count stored in a leaf
	OctreeMaxTriangles = 7
	// DefaultOctreeMaxLevel is the depth beyond which nodes are never split
	DefaultOctreeMaxLevel = 7

	// octreeBoxEpsilon keeps the root box from collapsing for flat meshes
	octreeBoxEpsilon = 1e-9
)

// OctNode is a node of the octree. A terminal node holds triangles, an
// internal node holds exactly 8 children, never both.
type OctNode struct {
	Box       core.Box
	Triangles []*Triangle
	Children  []*OctNode // nil or exactly 8, indexed by octant
}

// IsTerminal returns true for leaf nodes
func (n *OctNode) IsTerminal() bool {
	return n.Children == nil
}

// Octree partitions a mesh's triangles into nested octants
type Octree struct {
	Root     *OctNode
	maxLevel int
}

// NewOctree builds an octree over triangles. The root box is the extent of vertices.
func NewOctree(triangles []*Triangle, vertices []core.Vec3, maxLevel int) *Octree {
	if len(vertices) == 0 {
		return &Octree{maxLevel: maxLevel}
	}

	root := &OctNode{Box: core.NewBoxFromPoints(vertices...).Expand(octreeBoxEpsilon)}

	// Copy so leaves never alias the caller's slice
	trianglesCopy := make([]*Triangle, len(triangles))
	copy(trianglesCopy, triangles)

	o := &Octree{Root: root, maxLevel: maxLevel}
	o.buildNode(root, trianglesCopy, 0)
	return o
}

// buildNode splits node into octants until it holds few enough triangles or gets too deep
func (o *Octree) buildNode(node *OctNode, triangles []*Triangle, level int) {
	if len(triangles) <= OctreeMaxTriangles || level > o.maxLevel {
		node.Triangles = triangles
		return
	}

	node.Children = make([]*OctNode, 8)
	for i := range node.Children {
		child := &OctNode{Box: node.Box.Octant(i)}

		// A triangle straddling a split plane goes to every child it touches
		var childTriangles []*Triangle
		for _, triangle := range triangles {
			if triangle.Bounds().Overlaps(child.Box) {
				childTriangles = append(childTriangles, triangle)
			}
		}

		o.buildNode(child, childTriangles, level+1)
		node.Children[i] = child
	}
}

// MaxLevel returns the configured depth limit
func (o *Octree) MaxLevel() int {
	return o.maxLevel
}

// Intersect finds the nearest triangle hit, visiting octants front to back
func (o *Octree) Intersect(ray core.Ray, tMin float64, hit *material.HitRecord) bool {
	if o.Root == nil {
		return false
	}

	t0, t1, mask, ok := rayBoxParams(ray, o.Root.Box)
	if !ok {
		return false
	}
	return o.traverse(o.Root, t0, t1, mask, ray, tMin, hit)
}

// traverse visits node given the ray's per-axis entry (t0) and exit (t1) parameters
func (o *Octree) traverse(node *OctNode, t0, t1 core.Vec3, mask int, ray core.Ray, tMin float64, hit *material.HitRecord) bool {
	// Entirely behind the valid interval, or starts beyond the best hit so far
	if t1.MinComponent() < tMin || t0.MaxComponent() > hit.T {
		return false
	}

	if node.IsTerminal() {
		intersected := false
		for _, triangle := range node.Triangles {
			if triangle.Intersect(ray, tMin, hit) {
				intersected = true
			}
		}
		return intersected
	}

	visits, count := octantSequence(t0, t1)
	intersected := false
	for _, visit := range visits[:count] {
		if o.traverse(node.Children[visit.octant^mask], visit.t0, visit.t1, mask, ray, tMin, hit) {
			intersected = true
		}
	}
	return intersected
}

// OctreeStats summarizes the shape of an octree
type OctreeStats struct {
	Nodes        int
	Leaves       int
	MaxDepth     int
	TriangleRefs int // Triangles summed over leaves; duplicates counted each time
}

// Stats walks the tree and returns its statistics
func (o *Octree) Stats() OctreeStats {
	stats := OctreeStats{}
	if o.Root != nil {
		collectOctreeStats(o.Root, 0, &stats)
	}
	return stats
}

func collectOctreeStats(node *OctNode, depth int, stats *OctreeStats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.IsTerminal() {
		stats.Leaves++
		stats.TriangleRefs += len(node.Triangles)
		return
	}
	for _, child := range node.Children {
		collectOctreeStats(child, depth+1, stats)
	}
}
