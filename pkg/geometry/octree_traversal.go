package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
)

// Parametric octree traversal after Revelles, Ureña and Lastra (2000).
// Octant indices use bit 4 for the upper X half, bit 2 for Y and bit 1 for Z.

// octreeDirectionEpsilon stands in for zero direction components so slab parameters stay finite
const octreeDirectionEpsilon = 1e-12

// endOfSequence marks the exit of the parent node in the transition table
const endOfSequence = 8

// octantVisit is one child visit: the octant (in reflected space) and its slab parameters
type octantVisit struct {
	octant int
	t0, t1 core.Vec3
}

// exitTransitions[i] lists the next octant when leaving octant i through its X, Y or Z exit plane
var exitTransitions = [8][3]int{
	{4, 2, 1},
	{5, 3, endOfSequence},
	{6, endOfSequence, 3},
	{7, endOfSequence, endOfSequence},
	{endOfSequence, 6, 5},
	{endOfSequence, 7, endOfSequence},
	{endOfSequence, endOfSequence, 7},
	{endOfSequence, endOfSequence, endOfSequence},
}

// rayBoxParams reflects the ray so every direction component is non-negative
// and returns the per-axis entry and exit parameters for box. mask records the
// reflected axes. ok is false when the ray's line misses the box.
func rayBoxParams(ray core.Ray, box core.Box) (t0, t1 core.Vec3, mask int, ok bool) {
	origin := ray.Origin
	direction := ray.Direction
	sum := box.Min.Add(box.Max)

	if direction.X < 0 {
		origin.X = sum.X - origin.X
		direction.X = -direction.X
		mask |= 4
	}
	if direction.Y < 0 {
		origin.Y = sum.Y - origin.Y
		direction.Y = -direction.Y
		mask |= 2
	}
	if direction.Z < 0 {
		origin.Z = sum.Z - origin.Z
		direction.Z = -direction.Z
		mask |= 1
	}

	if direction.X == 0 {
		direction.X = octreeDirectionEpsilon
	}
	if direction.Y == 0 {
		direction.Y = octreeDirectionEpsilon
	}
	if direction.Z == 0 {
		direction.Z = octreeDirectionEpsilon
	}

	t0 = box.Min.Subtract(origin).DivideVec(direction)
	t1 = box.Max.Subtract(origin).DivideVec(direction)

	if t0.MaxComponent() > t1.MinComponent() {
		return t0, t1, mask, false
	}
	return t0, t1, mask, true
}

// firstNode returns the first octant entered, from the entry plane and midpoint parameters
func firstNode(t0, tm core.Vec3) int {
	node := 0
	switch {
	case t0.X > t0.Y && t0.X > t0.Z:
		// Entry through the YZ plane
		if tm.Y < t0.X {
			node |= 2
		}
		if tm.Z < t0.X {
			node |= 1
		}
	case t0.Y > t0.Z:
		// Entry through the XZ plane
		if tm.X < t0.Y {
			node |= 4
		}
		if tm.Z < t0.Y {
			node |= 1
		}
	default:
		// Entry through the XY plane
		if tm.X < t0.Z {
			node |= 4
		}
		if tm.Y < t0.Z {
			node |= 2
		}
	}
	return node
}

// nextNode picks the successor of octant from whichever exit plane the ray reaches first
func nextNode(octant int, exit core.Vec3) int {
	candidates := exitTransitions[octant]
	if exit.X < exit.Y {
		if exit.X < exit.Z {
			return candidates[0]
		}
	} else if exit.Y < exit.Z {
		return candidates[1]
	}
	return candidates[2]
}

// childParams returns the slab parameters of octant given the parent's entry, midpoint and exit
func childParams(octant int, t0, tm, t1 core.Vec3) (core.Vec3, core.Vec3) {
	c0, c1 := t0, tm
	if octant&4 != 0 {
		c0.X, c1.X = tm.X, t1.X
	}
	if octant&2 != 0 {
		c0.Y, c1.Y = tm.Y, t1.Y
	}
	if octant&1 != 0 {
		c0.Z, c1.Z = tm.Z, t1.Z
	}
	return c0, c1
}

// octantSequence returns, in visit order, the children a ray crosses given its
// slab parameters for the parent. A ray crosses at most 4 of the 8 children.
func octantSequence(t0, t1 core.Vec3) ([4]octantVisit, int) {
	var visits [4]octantVisit
	tm := t0.Add(t1).Multiply(0.5)

	count := 0
	current := firstNode(t0, tm)
	for current != endOfSequence && count < len(visits) {
		c0, c1 := childParams(current, t0, tm, t1)
		visits[count] = octantVisit{octant: current, t0: c0, t1: c1}
		count++
		current = nextNode(current, c1)
	}
	return visits, count
}

// TraversalOrder returns the octants of box, in visit order, that the ray
// passes through at or after its origin. It returns nil when the ray misses.
func TraversalOrder(ray core.Ray, box core.Box) []int {
	t0, t1, mask, ok := rayBoxParams(ray, box)
	if !ok || t1.MinComponent() < 0 {
		return nil
	}

	visits, count := octantSequence(t0, t1)
	order := make([]int, 0, count)
	for _, visit := range visits[:count] {
		if visit.t1.MinComponent() < 0 {
			continue
		}
		order = append(order, visit.octant^mask)
	}
	return order
}
