package scene

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func testCamera() renderer.Camera {
	return renderer.NewPerspectiveCamera(
		core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0),
		core.DegreesToRadians(30), 8, 8)
}

func TestNewScene_NoLights(t *testing.T) {
	logger := &recordingLogger{}
	ambient := core.NewVec3(0.1, 0.2, 0.3)

	s := NewScene(testCamera(), nil, core.NewVec3(0, 0, 0), ambient, nil, geometry.NewGroup(), logger)

	if !s.GetAmbientLight().Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Expected white ambient light without lights, got %v", s.GetAmbientLight())
	}
	if len(logger.messages) != 1 || !strings.Contains(logger.messages[0], "no lights") {
		t.Errorf("Expected one no-lights warning, got %q", logger.messages)
	}
}

func TestNewScene_WithLights(t *testing.T) {
	logger := &recordingLogger{}
	ambient := core.NewVec3(0.1, 0.2, 0.3)
	sceneLights := []lights.Light{lights.NewDirectionalLight(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1))}
	background := core.NewVec3(0.5, 0.5, 0.5)

	s := NewScene(testCamera(), sceneLights, background, ambient, nil, nil, logger)

	if !s.GetAmbientLight().Equals(ambient) {
		t.Errorf("Expected ambient %v, got %v", ambient, s.GetAmbientLight())
	}
	if !s.GetBackground().Equals(background) {
		t.Errorf("Expected background %v, got %v", background, s.GetBackground())
	}
	if len(s.GetLights()) != 1 {
		t.Errorf("Expected 1 light, got %d", len(s.GetLights()))
	}
	if len(logger.messages) != 0 {
		t.Errorf("Expected no warnings, got %q", logger.messages)
	}
	if s.GetRoot() == nil {
		t.Error("Expected an empty root group in place of nil")
	}
}

func TestScene_GetRootNilGroup(t *testing.T) {
	s := &Scene{}
	// Must be an untyped nil so the renderer treats the scene as empty
	if root := s.GetRoot(); root != nil {
		t.Errorf("Expected nil root, got %v", root)
	}
	if s.PrimitiveCount() != 0 {
		t.Errorf("Expected 0 primitives, got %d", s.PrimitiveCount())
	}
}

func TestBuiltinScenes(t *testing.T) {
	tests := []struct {
		id         string
		primitives int
	}{
		{"plane", 1},
		{"sphere", 1},
		{"shine", 4},
		{"cube", 1 + 12 + 20},
		{"axes", 4},
		{"spheregrid", 1 + SphereGridSize*SphereGridSize},
	}

	if len(tests) != len(BuiltinSceneIDs()) {
		t.Fatalf("Expected %d built-in scenes, got %v", len(tests), BuiltinSceneIDs())
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := NewBuiltinScene(tt.id, 32, 24, true)
			if err != nil {
				t.Fatalf("NewBuiltinScene(%q) error: %v", tt.id, err)
			}
			if s.GetCamera() == nil {
				t.Fatal("Expected a camera")
			}
			if len(s.GetLights()) == 0 {
				t.Error("Expected built-in scene to have lights")
			}
			if got := s.PrimitiveCount(); got != tt.primitives {
				t.Errorf("Expected %d primitives, got %d", tt.primitives, got)
			}

			raycaster := renderer.NewRaycaster(32, 24, renderer.DefaultRenderConfig(), nil)
			if err := raycaster.Load(s); err != nil {
				t.Fatalf("Load error: %v", err)
			}
			_, stats, err := raycaster.Render()
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if stats.Hits == 0 {
				t.Error("Expected the camera to see some geometry")
			}
		})
	}

	if _, err := NewBuiltinScene("teapot", 32, 24, false); err == nil {
		t.Error("Expected error for unknown built-in scene")
	}
}

func TestCubeScene_OctreeMatchesLinear(t *testing.T) {
	render := func(useOctree bool) *renderer.Buffers {
		raycaster := renderer.NewRaycaster(48, 36, renderer.DefaultRenderConfig(), nil)
		if err := raycaster.Load(NewCubeScene(48, 36, useOctree)); err != nil {
			t.Fatalf("Load error: %v", err)
		}
		buffers, _, err := raycaster.Render()
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		return buffers
	}

	withOctree := render(true)
	linear := render(false)

	for i := range linear.Depth.Pixels {
		a, b := withOctree.Depth.Pixels[i].X, linear.Depth.Pixels[i].X
		if math.IsInf(a, 1) != math.IsInf(b, 1) || (!math.IsInf(a, 1) && math.Abs(a-b) > 1e-9) {
			t.Fatalf("Pixel %d: octree depth %f, linear depth %f", i, a, b)
		}
	}
}

func TestCountPrimitives(t *testing.T) {
	mat := material.NewMaterial(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0), 0)
	sphere := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, mat)

	root := geometry.NewGroup(
		sphere,
		geometry.NewGroup(sphere, sphere),
		geometry.NewTransform(geometry.NewGroup(sphere), core.Translation(1, 0, 0)),
		createBoxMesh(core.NewVec3(1, 1, 1), mat, nil),
	)

	s := &Scene{Group: root}
	if got := s.PrimitiveCount(); got != 4+12 {
		t.Errorf("Expected 16 primitives, got %d", got)
	}
}
