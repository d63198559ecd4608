package scene

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
)

// NewAxesScene creates a white sphere at the origin and a red, green and
// blue ellipsoid stretched along the X, Y and Z axes. The ellipsoids are
// unit spheres placed with scale and translate transforms.
func NewAxesScene(width, height int, useOctree bool) *Scene {
	camera := newDefaultCamera(core.NewVec3(6, 5, 8), core.NewVec3(0.8, 0.8, 0.8), width, height)

	white := material.NewMaterial(core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.4, 0.4, 0.4), 20)
	red := material.NewMaterial(core.NewVec3(0.9, 0.1, 0.1), core.NewVec3(0.4, 0.4, 0.4), 20)
	green := material.NewMaterial(core.NewVec3(0.1, 0.9, 0.1), core.NewVec3(0.4, 0.4, 0.4), 20)
	blue := material.NewMaterial(core.NewVec3(0.1, 0.1, 0.9), core.NewVec3(0.4, 0.4, 0.4), 20)
	materials := []*material.Material{white, red, green, blue}

	unit := core.NewVec3(0, 0, 0)
	group := geometry.NewGroup(
		geometry.NewSphere(unit, 0.3, white),
		geometry.NewTransform(geometry.NewSphere(unit, 1, red),
			core.Translation(1.5, 0, 0).Mul(core.Scaling(1, 0.15, 0.15))),
		geometry.NewTransform(geometry.NewSphere(unit, 1, green),
			core.Translation(0, 1.5, 0).Mul(core.Scaling(0.15, 1, 0.15))),
		geometry.NewTransform(geometry.NewSphere(unit, 1, blue),
			core.Translation(0, 0, 1.5).Mul(core.Scaling(0.15, 0.15, 1))),
	)

	sceneLights := []lights.Light{
		lights.NewDirectionalLight(core.NewVec3(-1, -1, -1), core.NewVec3(0.8, 0.8, 0.8)),
	}

	return NewScene(camera, sceneLights,
		core.NewVec3(0.15, 0.15, 0.15), core.NewVec3(0.2, 0.2, 0.2),
		materials, group, nil)
}
