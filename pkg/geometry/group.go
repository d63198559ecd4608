package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

// Group is an unordered collection of intersectables
type Group struct {
	children []Intersectable
}

// NewGroup creates a group from the given children
func NewGroup(children ...Intersectable) *Group {
	return &Group{children: children}
}

// Add appends a child
func (g *Group) Add(child Intersectable) {
	g.children = append(g.children, child)
}

// Len returns the number of children
func (g *Group) Len() int {
	return len(g.children)
}

// Children returns the children
func (g *Group) Children() []Intersectable {
	return g.children
}

// Intersect tests every child; hit ends up holding the nearest result
func (g *Group) Intersect(ray core.Ray, tMin float64, hit *material.HitRecord) bool {
	intersected := false
	for _, child := range g.children {
		if child.Intersect(ray, tMin, hit) {
			intersected = true
		}
	}
	return intersected
}
