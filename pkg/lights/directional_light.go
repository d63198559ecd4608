package lights

import "github.com/df07/go-raycaster/pkg/core"

// DirectionalLight is a light infinitely far away shining along Direction
type DirectionalLight struct {
	Direction core.Vec3 // Direction the light travels (unit length)
	Color     core.Vec3
}

// NewDirectionalLight creates a directional light, normalizing the direction
func NewDirectionalLight(direction, color core.Vec3) *DirectionalLight {
	return &DirectionalLight{Direction: direction.Normalize(), Color: color}
}

// Type returns the light type
func (l *DirectionalLight) Type() LightType {
	return LightTypeDirectional
}

// Illuminate returns the reversed light direction at every point
func (l *DirectionalLight) Illuminate(point core.Vec3) (core.Vec3, core.Vec3) {
	return l.Direction.Negate(), l.Color
}
