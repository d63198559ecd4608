package core

// Box represents an axis-aligned bounding box
type Box struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewBox creates a new box from min and max corners
func NewBox(min, max Vec3) Box {
	return Box{Min: min, Max: max}
}

// NewBoxFromPoints creates a box that bounds all given points
func NewBoxFromPoints(points ...Vec3) Box {
	if len(points) == 0 {
		return Box{}
	}

	b := Box{Min: points[0], Max: points[0]}
	for _, point := range points[1:] {
		b.Min = b.Min.Min(point)
		b.Max = b.Max.Max(point)
	}
	return b
}

// Overlaps reports whether two boxes share any point (touching faces count)
func (b Box) Overlaps(other Box) bool {
	if b.Max.X < other.Min.X || b.Min.X > other.Max.X {
		return false
	}
	if b.Max.Y < other.Min.Y || b.Min.Y > other.Max.Y {
		return false
	}
	if b.Max.Z < other.Min.Z || b.Min.Z > other.Max.Z {
		return false
	}
	return true
}

// Union returns a box that bounds both boxes
func (b Box) Union(other Box) Box {
	return Box{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Center returns the center point of the box
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Size returns the extent of the box along each axis
func (b Box) Size() Vec3 {
	return b.Max.Subtract(b.Min)
}

// Expand returns a box grown by amount in all directions
func (b Box) Expand(amount float64) Box {
	expansion := NewVec3(amount, amount, amount)
	return Box{
		Min: b.Min.Subtract(expansion),
		Max: b.Max.Add(expansion),
	}
}

// Octant returns one of the eight equal sub-boxes. Bit 4 of index selects
// the upper X half, bit 2 the upper Y half and bit 1 the upper Z half.
func (b Box) Octant(index int) Box {
	mid := b.Center()
	child := Box{Min: b.Min, Max: mid}
	if index&4 != 0 {
		child.Min.X, child.Max.X = mid.X, b.Max.X
	}
	if index&2 != 0 {
		child.Min.Y, child.Max.Y = mid.Y, b.Max.Y
	}
	if index&1 != 0 {
		child.Min.Z, child.Max.Z = mid.Z, b.Max.Z
	}
	return child
}

// IsValid returns true if min <= max on every axis
func (b Box) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}
