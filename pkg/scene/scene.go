package scene

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
)

// Scene contains everything the ray caster needs to produce an image
type Scene struct {
	Camera       renderer.Camera
	Lights       []lights.Light
	Materials    []*material.Material
	Background   core.Vec3
	AmbientLight core.Vec3
	Group        *geometry.Group
}

// NewScene assembles a scene. A scene without lights would render black, so
// the ambient light is raised to white and a warning is logged.
func NewScene(
	camera renderer.Camera,
	sceneLights []lights.Light,
	background, ambientLight core.Vec3,
	materials []*material.Material,
	group *geometry.Group,
	logger core.Logger,
) *Scene {
	if logger == nil {
		logger = renderer.NopLogger{}
	}
	if len(sceneLights) == 0 {
		logger.Printf("Warning: scene has no lights, using white ambient light\n")
		ambientLight = core.NewVec3(1, 1, 1)
	}
	if group == nil {
		group = geometry.NewGroup()
	}

	return &Scene{
		Camera:       camera,
		Lights:       sceneLights,
		Materials:    materials,
		Background:   background,
		AmbientLight: ambientLight,
		Group:        group,
	}
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() renderer.Camera {
	return s.Camera
}

// GetLights returns the scene lights
func (s *Scene) GetLights() []lights.Light {
	return s.Lights
}

// GetBackground returns the color of rays that hit nothing
func (s *Scene) GetBackground() core.Vec3 {
	return s.Background
}

// GetAmbientLight returns the ambient light color
func (s *Scene) GetAmbientLight() core.Vec3 {
	return s.AmbientLight
}

// GetRoot returns the root intersectable, or nil for an empty scene
func (s *Scene) GetRoot() geometry.Intersectable {
	if s.Group == nil {
		return nil
	}
	return s.Group
}

// PrimitiveCount returns the number of leaf primitives reachable from the root.
// Triangle meshes count each triangle.
func (s *Scene) PrimitiveCount() int {
	if s.Group == nil {
		return 0
	}
	return countPrimitives(s.Group)
}

func countPrimitives(node geometry.Intersectable) int {
	switch n := node.(type) {
	case *geometry.Group:
		total := 0
		for _, child := range n.Children() {
			total += countPrimitives(child)
		}
		return total
	case *geometry.Transform:
		return countPrimitives(n.Child)
	case *geometry.TriangleMesh:
		return n.TriangleCount()
	case nil:
		return 0
	default:
		return 1
	}
}
