package scene

import (
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
)

// SphereGridSize is the number of spheres along each side of the grid
const SphereGridSize = 10

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := core.DegreesToRadians(h)

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	lc := l + 0.3963377774*a + 0.2158037573*b
	mc := l - 0.1055613458*a - 0.0638541728*b
	sc := l - 0.0894841775*a - 1.2914855480*b

	lc = lc * lc * lc
	mc = mc * mc * mc
	sc = sc * sc * sc

	// LMS to linear RGB
	return core.NewVec3(
		+4.0767416621*lc-3.3077115913*mc+0.2309699292*sc,
		-1.2684380046*lc+2.6097574011*mc-0.3413193965*sc,
		-0.0041960863*lc-0.7034186147*mc+1.7076147010*sc,
	).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of colored spheres on a ground plane.
// Each row of spheres is its own group nested inside the root group.
func NewSphereGridScene(width, height int, useOctree bool) *Scene {
	camera := renderer.NewPerspectiveCamera(
		core.NewVec3(4.5, 6, 18),
		core.NewVec3(4.5, 0.8, 4.5).Subtract(core.NewVec3(4.5, 6, 18)),
		core.NewVec3(0, 1, 0),
		core.DegreesToRadians(40),
		width, height,
	)

	ground := material.NewMaterial(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0, 0, 0), 0)
	materials := []*material.Material{ground}
	root := geometry.NewGroup(geometry.NewPlane(core.NewVec3(0, 1, 0), 0, ground))

	// Spread the grid over a 9x9 area centered at x=z=4.5
	targetArea := 9.0
	spacing := targetArea / float64(SphereGridSize-1)
	radius := spacing * 0.35

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < SphereGridSize; i++ {
		row := geometry.NewGroup()
		for j := 0; j < SphereGridSize; j++ {
			x := float64(i)*spacing - targetArea/2 + 4.5
			z := float64(j)*spacing - targetArea/2 + 4.5

			// Hue varies across X, chroma across Z
			hue := float64(i) / float64(SphereGridSize-1) * 360
			chroma := minChroma + float64(j)/float64(SphereGridSize-1)*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			shininess := 10 + 40*float64((i+j)%3)
			mat := material.NewMaterial(oklchToRGB(lightness, chroma, hue), core.NewVec3(0.5, 0.5, 0.5), shininess)
			materials = append(materials, mat)

			row.Add(geometry.NewSphere(core.NewVec3(x, radius, z), radius, mat))
		}
		root.Add(row)
	}

	sceneLights := []lights.Light{
		lights.NewPointLight(core.NewVec3(20, 25, 20), core.NewVec3(0.9, 0.85, 0.8)),
		lights.NewDirectionalLight(core.NewVec3(-0.3, -1, -0.2), core.NewVec3(0.25, 0.25, 0.3)),
	}

	return NewScene(camera, sceneLights,
		core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(0.15, 0.15, 0.15),
		materials, root, nil)
}
