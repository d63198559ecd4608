package lights

import "github.com/df07/go-raycaster/pkg/core"

type LightType string

const (
	LightTypeDirectional LightType = "directional"
	LightTypePoint       LightType = "point"
)

// Light interface for sources that illuminate a surface point
type Light interface {
	Type() LightType

	// Illuminate returns the unit direction FROM the point TO the light and
	// the light color arriving at the point
	Illuminate(point core.Vec3) (direction core.Vec3, color core.Vec3)
}
