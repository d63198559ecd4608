package renderer

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
)

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() Camera
	GetLights() []lights.Light
	GetBackground() core.Vec3
	GetAmbientLight() core.Vec3
	GetRoot() geometry.Intersectable
}

// fallbackMaterial shades geometry that was built without a material
var fallbackMaterial = material.NewMaterial(core.NewVec3(1, 1, 1), core.Vec3{}, 0)

// Shade returns ambient plus the Phong contribution of every light at a resolved hit
func Shade(scene Scene, ray core.Ray, hit *material.HitRecord) core.Vec3 {
	mat := hit.Material
	if mat == nil {
		mat = fallbackMaterial
	}

	point := ray.At(hit.T)
	color := mat.Ambient(hit, scene.GetAmbientLight())
	for _, light := range scene.GetLights() {
		direction, lightColor := light.Illuminate(point)
		color = color.Add(mat.Shade(ray, hit, direction, lightColor))
	}
	return color
}
