package material

import (
	"math"

	"github.com/df07/go-raycaster/pkg/core"
)

// HitRecord accumulates the nearest intersection found so far for one ray.
// T starts at +Inf and only ever decreases.
type HitRecord struct {
	T            float64   // Parameter t along the ray
	Normal       core.Vec3 // Surface normal at intersection (unit length)
	Material     *Material // Material of the hit object
	TexCoords    core.Vec2 // Interpolated texture coordinates
	HasTexCoords bool      // Whether TexCoords is meaningful
}

// NewHitRecord returns an empty record with T = +Inf
func NewHitRecord() HitRecord {
	return HitRecord{T: math.Inf(1)}
}

// Accepts reports whether a candidate distance t would improve the record
func (h *HitRecord) Accepts(tMin, t float64) bool {
	return t > tMin && t < h.T
}

// Set records a hit without texture coordinates
func (h *HitRecord) Set(t float64, material *Material, normal core.Vec3) {
	h.T = t
	h.Material = material
	h.Normal = normal
	h.TexCoords = core.Vec2{}
	h.HasTexCoords = false
}

// SetWithTexCoords records a hit carrying interpolated texture coordinates
func (h *HitRecord) SetWithTexCoords(t float64, material *Material, normal core.Vec3, uv core.Vec2) {
	h.T = t
	h.Material = material
	h.Normal = normal
	h.TexCoords = uv
	h.HasTexCoords = true
}

// SetNormal replaces the normal, used when a transform carries it back to its parent frame
func (h *HitRecord) SetNormal(normal core.Vec3) {
	h.Normal = normal
}

// IsHit reports whether anything has been recorded
func (h *HitRecord) IsHit() bool {
	return !math.IsInf(h.T, 1)
}
