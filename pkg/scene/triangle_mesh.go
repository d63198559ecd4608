package scene

import (
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
)

// NewCubeScene creates a rotated triangle-mesh cube next to a smooth
// icosahedron, both placed with transforms over a ground plane
func NewCubeScene(width, height int, useOctree bool) *Scene {
	camera := newDefaultCamera(core.NewVec3(0, 3, 10), core.NewVec3(0, 0.5, 0), width, height)

	ground := material.NewMaterial(core.NewVec3(0.6, 0.6, 0.6), core.NewVec3(0, 0, 0), 0)
	red := material.NewMaterial(core.NewVec3(0.8, 0.2, 0.2), core.NewVec3(0.5, 0.5, 0.5), 30)
	gold := material.NewMaterial(core.NewVec3(0.8, 0.6, 0.2), core.NewVec3(0.8, 0.8, 0.6), 60)
	materials := []*material.Material{ground, red, gold}

	options := &geometry.TriangleMeshOptions{UseOctree: useOctree}

	// Spin 30° about Y, tip 20° about X, then lift onto the ground
	cubeTransform := core.Translation(-1.5, 1, 0).
		Mul(core.RotationY(core.DegreesToRadians(30))).
		Mul(core.RotationX(core.DegreesToRadians(20)))
	cube := geometry.NewTransform(createBoxMesh(core.NewVec3(1.2, 1.2, 1.2), red, options), cubeTransform)

	icosahedron := geometry.NewTransform(
		createIcosahedronMesh(gold, options),
		core.Translation(1.5, 0.9, 0).Mul(core.UniformScaling(0.9)),
	)

	group := geometry.NewGroup(
		geometry.NewPlane(core.NewVec3(0, 1, 0), 0, ground),
		cube,
		icosahedron,
	)

	sceneLights := []lights.Light{
		lights.NewPointLight(core.NewVec3(-4, 6, 6), core.NewVec3(0.8, 0.8, 0.8)),
		lights.NewDirectionalLight(core.NewVec3(0.5, -1, -0.5), core.NewVec3(0.3, 0.3, 0.3)),
	}

	return NewScene(camera, sceneLights,
		core.NewVec3(0.2, 0.25, 0.35), core.NewVec3(0.1, 0.1, 0.1),
		materials, group, nil)
}

// createBoxMesh creates a flat-shaded box centered at the origin
func createBoxMesh(size core.Vec3, mat *material.Material, options *geometry.TriangleMeshOptions) *geometry.TriangleMesh {
	half := size.Multiply(0.5)
	vertices := []core.Vec3{
		core.NewVec3(-half.X, -half.Y, -half.Z), // 0: left-bottom-back
		core.NewVec3(+half.X, -half.Y, -half.Z), // 1: right-bottom-back
		core.NewVec3(+half.X, +half.Y, -half.Z), // 2: right-top-back
		core.NewVec3(-half.X, +half.Y, -half.Z), // 3: left-top-back
		core.NewVec3(-half.X, -half.Y, +half.Z), // 4: left-bottom-front
		core.NewVec3(+half.X, -half.Y, +half.Z), // 5: right-bottom-front
		core.NewVec3(+half.X, +half.Y, +half.Z), // 6: right-top-front
		core.NewVec3(-half.X, +half.Y, +half.Z), // 7: left-top-front
	}

	// Two triangles per face, wound counter-clockwise seen from outside
	faces := []int{
		0, 2, 1, 0, 3, 2, // back (Z-)
		4, 5, 6, 4, 6, 7, // front (Z+)
		0, 7, 3, 0, 4, 7, // left (X-)
		1, 2, 6, 1, 6, 5, // right (X+)
		0, 1, 5, 0, 5, 4, // bottom (Y-)
		3, 7, 6, 3, 6, 2, // top (Y+)
	}

	return geometry.NewIndexedTriangleMesh(vertices, faces, mat, false, options)
}

// createIcosahedronMesh creates a smooth-shaded icosahedron of unit radius
// centered at the origin
func createIcosahedronMesh(mat *material.Material, options *geometry.TriangleMeshOptions) *geometry.TriangleMesh {
	phi := (1 + math.Sqrt(5)) / 2
	scale := 1 / math.Sqrt(1+phi*phi)

	vertices := []core.Vec3{
		core.NewVec3(-1, phi, 0).Multiply(scale),  // 0
		core.NewVec3(1, phi, 0).Multiply(scale),   // 1
		core.NewVec3(-1, -phi, 0).Multiply(scale), // 2
		core.NewVec3(1, -phi, 0).Multiply(scale),  // 3
		core.NewVec3(0, -1, phi).Multiply(scale),  // 4
		core.NewVec3(0, 1, phi).Multiply(scale),   // 5
		core.NewVec3(0, -1, -phi).Multiply(scale), // 6
		core.NewVec3(0, 1, -phi).Multiply(scale),  // 7
		core.NewVec3(phi, 0, -1).Multiply(scale),  // 8
		core.NewVec3(phi, 0, 1).Multiply(scale),   // 9
		core.NewVec3(-phi, 0, -1).Multiply(scale), // 10
		core.NewVec3(-phi, 0, 1).Multiply(scale),  // 11
	}

	faces := []int{
		// 5 faces around point 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around point 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return geometry.NewIndexedTriangleMesh(vertices, faces, mat, true, options)
}
