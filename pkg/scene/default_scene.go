package scene

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
)

// Field of view used by the built-in scenes, in degrees
const defaultFieldOfView = 30.0

// newDefaultCamera returns the camera shared by the simple built-in scenes
func newDefaultCamera(center, lookAt core.Vec3, width, height int) renderer.Camera {
	return renderer.NewPerspectiveCamera(
		center,
		lookAt.Subtract(center),
		core.NewVec3(0, 1, 0),
		core.DegreesToRadians(defaultFieldOfView),
		width, height,
	)
}

// NewPlaneScene creates an infinite ground plane lit straight from above
func NewPlaneScene(width, height int, useOctree bool) *Scene {
	camera := newDefaultCamera(core.NewVec3(0, 2, 10), core.NewVec3(0, 0, 0), width, height)

	ground := material.NewMaterial(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0, 0, 0), 0)
	materials := []*material.Material{ground}

	group := geometry.NewGroup(
		geometry.NewPlane(core.NewVec3(0, 1, 0), 0, ground),
	)

	sceneLights := []lights.Light{
		lights.NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)),
	}

	return NewScene(camera, sceneLights,
		core.NewVec3(0.2, 0.2, 0.3), core.NewVec3(0.1, 0.1, 0.1),
		materials, group, nil)
}

// NewSphereScene creates a single diffuse sphere in front of the camera
func NewSphereScene(width, height int, useOctree bool) *Scene {
	camera := newDefaultCamera(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, 0), width, height)

	red := material.NewMaterial(core.NewVec3(0.9, 0.1, 0.1), core.NewVec3(0, 0, 0), 0)
	materials := []*material.Material{red}

	group := geometry.NewGroup(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, red),
	)

	sceneLights := []lights.Light{
		lights.NewDirectionalLight(core.NewVec3(-0.5, -0.3, -1), core.NewVec3(0.9, 0.9, 0.9)),
	}

	return NewScene(camera, sceneLights,
		core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.1, 0.1, 0.1),
		materials, group, nil)
}

// NewShineScene creates three spheres of increasing shininess over a plane,
// lit by a key point light and a dim directional fill
func NewShineScene(width, height int, useOctree bool) *Scene {
	camera := newDefaultCamera(core.NewVec3(0, 2, 12), core.NewVec3(0, 0.5, 0), width, height)

	ground := material.NewMaterial(core.NewVec3(0.4, 0.4, 0.45), core.NewVec3(0, 0, 0), 0)
	dull := material.NewMaterial(core.NewVec3(0.2, 0.4, 0.9), core.NewVec3(0.3, 0.3, 0.3), 4)
	satin := material.NewMaterial(core.NewVec3(0.2, 0.8, 0.3), core.NewVec3(0.6, 0.6, 0.6), 20)
	glossy := material.NewMaterial(core.NewVec3(0.9, 0.6, 0.1), core.NewVec3(1, 1, 1), 80)
	materials := []*material.Material{ground, dull, satin, glossy}

	group := geometry.NewGroup(
		geometry.NewPlane(core.NewVec3(0, 1, 0), 0.5, ground),
		geometry.NewSphere(core.NewVec3(-2.5, 0.5, 0), 1, dull),
		geometry.NewSphere(core.NewVec3(0, 0.5, 0), 1, satin),
		geometry.NewSphere(core.NewVec3(2.5, 0.5, 0), 1, glossy),
	)

	key := lights.NewPointLight(core.NewVec3(3, 6, 6), core.NewVec3(0.9, 0.9, 0.85))
	fill := lights.NewDirectionalLight(core.NewVec3(1, -1, -0.5), core.NewVec3(0.2, 0.2, 0.25))

	return NewScene(camera, []lights.Light{key, fill},
		core.NewVec3(0.05, 0.05, 0.1), core.NewVec3(0.1, 0.1, 0.1),
		materials, group, nil)
}
