package renderer

import (
	"math"

	"github.com/df07/go-raycaster/pkg/core"
)

// Camera maps a normalized image-plane point (x, y roughly in [-1, 1], y up)
// to a world-space ray. The sampler supplies lens jitter and may be nil for
// cameras that do not jitter.
type Camera interface {
	GenerateRay(point core.Vec2, sampler core.Sampler) core.Ray
	TMin() float64
	Center() core.Vec3
	Direction() core.Vec3
}

// PerspectiveCamera is a pinhole camera
type PerspectiveCamera struct {
	center      core.Vec3
	direction   core.Vec3 // Unit view direction
	up          core.Vec3 // Unit up, orthogonal to direction
	horizontal  core.Vec3 // Unit right vector
	fieldOfView float64   // Full field of view in radians
	distance    float64   // Image plane distance, 1/tan(fov/2)
	aspect      float64   // height / width
}

// NewPerspectiveCamera creates a pinhole camera. up need not be perpendicular
// to direction; the basis is re-orthogonalized.
func NewPerspectiveCamera(center, direction, up core.Vec3, fieldOfView float64, width, height int) *PerspectiveCamera {
	direction = direction.Normalize()
	horizontal := direction.Cross(up).Normalize()
	up = horizontal.Cross(direction).Normalize()

	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(height) / float64(width)
	}

	return &PerspectiveCamera{
		center:      center,
		direction:   direction,
		up:          up,
		horizontal:  horizontal,
		fieldOfView: fieldOfView,
		distance:    1 / math.Tan(fieldOfView/2),
		aspect:      aspect,
	}
}

// GenerateRay returns the ray through an image-plane point
func (c *PerspectiveCamera) GenerateRay(point core.Vec2, sampler core.Sampler) core.Ray {
	return core.NewRay(c.center, c.pinholeDirection(point))
}

func (c *PerspectiveCamera) pinholeDirection(point core.Vec2) core.Vec3 {
	return c.horizontal.Multiply(point.X).
		Add(c.up.Multiply(point.Y * c.aspect)).
		Add(c.direction.Multiply(c.distance)).
		Normalize()
}

// TMin returns the smallest valid ray parameter
func (c *PerspectiveCamera) TMin() float64 {
	return 0
}

// Center returns the eye position
func (c *PerspectiveCamera) Center() core.Vec3 {
	return c.center
}

// Direction returns the unit view direction
func (c *PerspectiveCamera) Direction() core.Vec3 {
	return c.direction
}

// Up returns the orthogonalized unit up vector
func (c *PerspectiveCamera) Up() core.Vec3 {
	return c.up
}

// Horizontal returns the unit right vector
func (c *PerspectiveCamera) Horizontal() core.Vec3 {
	return c.horizontal
}

// FieldOfView returns the full field of view in radians
func (c *PerspectiveCamera) FieldOfView() float64 {
	return c.fieldOfView
}

// ThinLensCamera adds depth of field: ray origins are spread over a square
// aperture and re-aimed at the focal plane
type ThinLensCamera struct {
	*PerspectiveCamera
	ApertureSize  float64
	FocalDistance float64
}

// NewThinLensCamera creates a depth-of-field camera
func NewThinLensCamera(center, direction, up core.Vec3, fieldOfView float64, width, height int, apertureSize, focalDistance float64) *ThinLensCamera {
	return &ThinLensCamera{
		PerspectiveCamera: NewPerspectiveCamera(center, direction, up, fieldOfView, width, height),
		ApertureSize:      apertureSize,
		FocalDistance:     focalDistance,
	}
}

// GenerateRay jitters the origin uniformly in [-a/2, a/2] along both image axes
func (c *ThinLensCamera) GenerateRay(point core.Vec2, sampler core.Sampler) core.Ray {
	pinhole := c.pinholeDirection(point)
	if c.ApertureSize == 0 || sampler == nil {
		return core.NewRay(c.center, pinhole)
	}

	focalPoint := c.center.Add(pinhole.Multiply(c.FocalDistance))

	jitter := sampler.Get2D()
	offset := c.horizontal.Multiply((jitter.X - 0.5) * c.ApertureSize).
		Add(c.up.Multiply((jitter.Y - 0.5) * c.ApertureSize))
	origin := c.center.Add(offset)

	return core.NewRay(origin, focalPoint.Subtract(origin).Normalize())
}
