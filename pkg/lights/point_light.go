package lights

import "github.com/df07/go-raycaster/pkg/core"

// Attenuation holds distance falloff coefficients. The zero value means no falloff.
type Attenuation struct {
	Constant  float64
	Linear    float64
	Quadratic float64
}

// IsZero reports whether no falloff is configured
func (a Attenuation) IsZero() bool {
	return a.Constant == 0 && a.Linear == 0 && a.Quadratic == 0
}

// Factor returns the multiplier applied to the light color at a distance
func (a Attenuation) Factor(distance float64) float64 {
	if a.IsZero() {
		return 1
	}
	denominator := a.Constant + a.Linear*distance + a.Quadratic*distance*distance
	if denominator <= 0 {
		return 1
	}
	return 1 / denominator
}

// PointLight emits from a single position
type PointLight struct {
	Position    core.Vec3
	Color       core.Vec3
	Attenuation Attenuation
}

// NewPointLight creates a point light without distance falloff
func NewPointLight(position, color core.Vec3) *PointLight {
	return &PointLight{Position: position, Color: color}
}

// Type returns the light type
func (l *PointLight) Type() LightType {
	return LightTypePoint
}

// Illuminate returns the direction toward the light and its (optionally attenuated) color
func (l *PointLight) Illuminate(point core.Vec3) (core.Vec3, core.Vec3) {
	toLight := l.Position.Subtract(point)
	if l.Attenuation.IsZero() {
		return toLight.Normalize(), l.Color
	}
	return toLight.Normalize(), l.Color.Multiply(l.Attenuation.Factor(toLight.Length()))
}
