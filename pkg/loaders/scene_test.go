package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
)

const fullSceneJSON = `{
  "Metadata": {"name": "Everything"},
  "Camera": {"type": "PerspectiveCamera", "center": "0 0 10", "direction": [0, 0, -1], "up": "0 1 0", "angle": "30"},
  "Lights": [
    {"type": "PointLight", "position": "0 5 5", "color": "1 1 1", "attenuation": [1, 0.1, 0]},
    {"type": "DirectionalLight", "direction": "0 -1 0", "color": "0.5 0.5 0.5"}
  ],
  "Background": {"color": "0.1 0.2 0.3", "ambientLight": "0.1 0.1 0.1"},
  "Materials": [
    {"diffuseColor": "1 0 0", "specularColor": "1 1 1", "shininess": 20},
    {}
  ],
  "Group": [
    {"type": "Plane", "materialIndex": 1, "normal": "0 1 0", "offset": -2},
    {"type": "Sphere", "materialIndex": "0", "center": "0 0 0", "radius": 1},
    {"type": "Transform", "materialIndex": 0,
     "transforms": ["translate 2 0 0", "uniformScale 0.5"],
     "transformed": {"type": "Sphere", "center": "0 0 0", "radius": 1}},
    {"type": "Group", "Group": [
      {"type": "Sphere", "materialIndex": 1, "center": "-2 0 0", "radius": 0.5},
      {"type": "TriangleMesh", "materialIndex": 1, "objFile": "quad"}
    ]}
  ]
}`

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func writeSceneDir(t *testing.T, sceneJSON string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0644); err != nil {
		t.Fatalf("Failed to write OBJ: %v", err)
	}
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(sceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return path
}

func TestLoadScene_AllElements(t *testing.T) {
	path := writeSceneDir(t, fullSceneJSON)

	s, err := LoadScene(path, SceneOptions{Width: 40, Height: 30, UseOctree: true})
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}

	camera, ok := s.GetCamera().(*renderer.PerspectiveCamera)
	if !ok {
		t.Fatalf("Expected perspective camera, got %T", s.GetCamera())
	}
	if math.Abs(camera.FieldOfView()-core.DegreesToRadians(30)) > 1e-12 {
		t.Errorf("Expected 30° field of view, got %f rad", camera.FieldOfView())
	}
	if !camera.Center().Equals(core.NewVec3(0, 0, 10)) {
		t.Errorf("Unexpected camera center %v", camera.Center())
	}

	if len(s.GetLights()) != 2 {
		t.Fatalf("Expected 2 lights, got %d", len(s.GetLights()))
	}
	point, ok := s.GetLights()[0].(*lights.PointLight)
	if !ok {
		t.Fatalf("Expected point light first, got %T", s.GetLights()[0])
	}
	if point.Attenuation != (lights.Attenuation{Constant: 1, Linear: 0.1}) {
		t.Errorf("Unexpected attenuation %+v", point.Attenuation)
	}
	if s.GetLights()[1].Type() != lights.LightTypeDirectional {
		t.Errorf("Expected directional light second")
	}

	if !s.GetBackground().Equals(core.NewVec3(0.1, 0.2, 0.3)) {
		t.Errorf("Unexpected background %v", s.GetBackground())
	}
	if !s.GetAmbientLight().Equals(core.NewVec3(0.1, 0.1, 0.1)) {
		t.Errorf("Unexpected ambient light %v", s.GetAmbientLight())
	}

	if len(s.Materials) != 2 {
		t.Fatalf("Expected 2 materials, got %d", len(s.Materials))
	}
	if s.Materials[0].Shininess != 20 || !s.Materials[0].SpecularColor.Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Unexpected first material %+v", s.Materials[0])
	}
	defaults := s.Materials[1]
	if !defaults.DiffuseColor.Equals(core.NewVec3(1, 1, 1)) || !defaults.SpecularColor.Equals(core.Vec3{}) || defaults.Shininess != 0 {
		t.Errorf("Expected default material values, got %+v", defaults)
	}

	// plane, sphere, transformed sphere, nested sphere and two quad triangles
	if got := s.PrimitiveCount(); got != 6 {
		t.Errorf("Expected 6 primitives, got %d", got)
	}

	children := s.Group.Children()
	plane, ok := children[0].(*geometry.Plane)
	if !ok {
		t.Fatalf("Expected a plane, got %T", children[0])
	}
	// offset -2 puts the plane at y = 2
	down := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	planeHit := material.NewHitRecord()
	if !plane.Intersect(down, 0, &planeHit) || math.Abs(planeHit.T-3) > 1e-9 {
		t.Errorf("Expected plane hit at t=3, got %f", planeHit.T)
	}

	transform, ok := children[2].(*geometry.Transform)
	if !ok {
		t.Fatalf("Expected a transform, got %T", children[2])
	}
	// The scale applies first, then the translation
	hit := transform.Matrix.TransformPoint(core.NewVec3(1, 0, 0))
	if !vecNear(hit, core.NewVec3(2.5, 0, 0)) {
		t.Errorf("Expected (2.5,0,0), got %v", hit)
	}

	nested, ok := children[3].(*geometry.Group)
	if !ok || nested.Len() != 2 {
		t.Fatalf("Expected nested group of 2, got %T", children[3])
	}
	mesh, ok := nested.Children()[1].(*geometry.TriangleMesh)
	if !ok {
		t.Fatalf("Expected triangle mesh, got %T", nested.Children()[1])
	}
	if mesh.Octree() == nil {
		t.Error("Expected octree when UseOctree is set")
	}
}

func TestParseScene_ThinLensCamera(t *testing.T) {
	input := `{
  "Camera": {"type": "ThinLensCamera", "center": "0 0 5", "direction": "0 0 -1", "up": "0 1 0",
             "angle": 45, "aperture": 0.2, "focalDistance": "5"},
  "Lights": [{"type": "DirectionalLight", "direction": "0 0 -1", "color": "1 1 1"}],
  "Background": {"color": "0 0 0"},
  "Group": []
}`
	s, err := ParseScene(strings.NewReader(input), "", SceneOptions{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}
	camera, ok := s.GetCamera().(*renderer.ThinLensCamera)
	if !ok {
		t.Fatalf("Expected thin lens camera, got %T", s.GetCamera())
	}
	if camera.ApertureSize != 0.2 || camera.FocalDistance != 5 {
		t.Errorf("Unexpected lens parameters %f, %f", camera.ApertureSize, camera.FocalDistance)
	}
	if !s.GetAmbientLight().Equals(core.Vec3{}) {
		t.Errorf("Expected zero ambient light by default, got %v", s.GetAmbientLight())
	}
}

func TestParseScene_NoLightsWarns(t *testing.T) {
	input := `{
  "Camera": {"type": "PerspectiveCamera", "center": "0 0 5", "direction": "0 0 -1", "up": "0 1 0", "angle": 30},
  "Background": {"color": "0 0 0", "ambientLight": "0.2 0.2 0.2"},
  "Group": []
}`
	logger := &recordingLogger{}
	s, err := ParseScene(strings.NewReader(input), "", SceneOptions{Width: 10, Height: 10, Logger: logger})
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}
	if !s.GetAmbientLight().Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Expected white ambient light, got %v", s.GetAmbientLight())
	}
	if len(logger.messages) != 1 {
		t.Errorf("Expected one warning, got %q", logger.messages)
	}
}

func TestParseScene_Errors(t *testing.T) {
	const camera = `"Camera": {"type": "PerspectiveCamera", "center": "0 0 5", "direction": "0 0 -1", "up": "0 1 0", "angle": 30}`
	const background = `"Background": {"color": "0 0 0"}`
	const materials = `"Materials": [{}]`

	tests := []struct {
		name    string
		input   string
		want    error
		element string
	}{
		{
			name:    "missing camera",
			input:   `{` + background + `, "Group": []}`,
			want:    ErrMissingField,
			element: "Camera",
		},
		{
			name:    "unknown camera",
			input:   `{"Camera": {"type": "FisheyeCamera", "center": "0 0 5", "direction": "0 0 -1", "up": "0 1 0", "angle": 30}, ` + background + `, "Group": []}`,
			want:    ErrUnknownType,
			element: "Camera",
		},
		{
			name:    "bad angle",
			input:   `{"Camera": {"type": "PerspectiveCamera", "center": "0 0 5", "direction": "0 0 -1", "up": "0 1 0", "angle": "wide"}, ` + background + `, "Group": []}`,
			want:    ErrInvalidNumber,
			element: "Camera.angle",
		},
		{
			name:    "short vector",
			input:   `{` + camera + `, "Background": {"color": "0 0"}, "Group": []}`,
			want:    ErrInvalidNumber,
			element: "Background.color",
		},
		{
			name:    "unknown light",
			input:   `{` + camera + `, "Lights": [{"type": "AreaLight", "color": "1 1 1"}], ` + background + `, "Group": []}`,
			want:    ErrUnknownType,
			element: "Lights[0]",
		},
		{
			name:    "missing group",
			input:   `{` + camera + `, ` + background + `}`,
			want:    ErrMissingField,
			element: "Group",
		},
		{
			name:    "unknown object in transform",
			input:   `{` + camera + `, ` + background + `, ` + materials + `, "Group": [{"type": "Sphere", "materialIndex": 0, "center": "0 0 0", "radius": 1}, {"type": "Plane", "materialIndex": 0, "normal": "0 1 0", "offset": 0}, {"type": "Transform", "materialIndex": 0, "transforms": [], "transformed": {"type": "Cone"}}]}`,
			want:    ErrUnknownType,
			element: "Group[2].transformed",
		},
		{
			name:    "material index out of range",
			input:   `{` + camera + `, ` + background + `, ` + materials + `, "Group": [{"type": "Sphere", "materialIndex": 3, "center": "0 0 0", "radius": 1}]}`,
			want:    ErrInvalidIndex,
			element: "Group[0].materialIndex",
		},
		{
			name:    "missing material index",
			input:   `{` + camera + `, ` + background + `, ` + materials + `, "Group": [{"type": "Sphere", "center": "0 0 0", "radius": 1}]}`,
			want:    ErrMissingField,
			element: "Group[0].materialIndex",
		},
		{
			name:    "nested missing radius",
			input:   `{` + camera + `, ` + background + `, ` + materials + `, "Group": [{"type": "Group", "Group": [{"type": "Sphere", "materialIndex": 0, "center": "0 0 0"}]}]}`,
			want:    ErrMissingField,
			element: "Group[0].Group[0].radius",
		},
		{
			name:    "unknown transform op",
			input:   `{` + camera + `, ` + background + `, ` + materials + `, "Group": [{"type": "Transform", "materialIndex": 0, "transforms": ["shear 1 2"], "transformed": {"type": "Sphere", "center": "0 0 0", "radius": 1}}]}`,
			want:    ErrUnknownType,
			element: "Group[0].transforms",
		},
		{
			name:    "missing mesh file",
			input:   `{` + camera + `, ` + background + `, ` + materials + `, "Group": [{"type": "TriangleMesh", "materialIndex": 0, "objFile": "nowhere"}]}`,
			want:    fs.ErrNotExist,
			element: "Group[0].objFile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene(strings.NewReader(tt.input), t.TempDir(), SceneOptions{Width: 10, Height: 10})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if !strings.HasPrefix(err.Error(), tt.element) {
				t.Errorf("Expected error to start with %q, got %q", tt.element, err.Error())
			}
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		if _, err := ParseScene(strings.NewReader(`{"Camera": `), "", SceneOptions{}); err == nil {
			t.Error("Expected error for truncated JSON")
		}
	})
}

func TestParseTransformList(t *testing.T) {
	tests := []struct {
		name     string
		ops      []string
		point    core.Vec3
		expected core.Vec3
	}{
		{"empty is identity", nil, core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 3)},
		{"translate", []string{"translate 1 2 3"}, core.NewVec3(0, 0, 0), core.NewVec3(1, 2, 3)},
		{"scale", []string{"scale 1 2 3"}, core.NewVec3(1, 1, 1), core.NewVec3(1, 2, 3)},
		{"last op applies first", []string{"translate 1 0 0", "uniformScale 2"}, core.NewVec3(1, 0, 0), core.NewVec3(3, 0, 0)},
		{"first op applies last", []string{"uniformScale 2", "translate 1 0 0"}, core.NewVec3(1, 0, 0), core.NewVec3(4, 0, 0)},
		{"xRotate", []string{"xRotate 90"}, core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)},
		{"yRotate", []string{"yRotate 90"}, core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0)},
		{"zRotate", []string{"zRotate 90"}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
		{"rotate about z", []string{"rotate 0 0 2 90"}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseTransformList(tt.ops)
			if err != nil {
				t.Fatalf("ParseTransformList failed: %v", err)
			}
			got := m.TransformPoint(tt.point)
			if got.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	errorTests := []struct {
		name string
		ops  []string
		want error
	}{
		{"unknown", []string{"shear 1 1"}, ErrUnknownType},
		{"too few values", []string{"translate 1 2"}, ErrMissingField},
		{"bad number", []string{"xRotate ninety"}, ErrInvalidNumber},
		{"empty op", []string{"  "}, ErrMissingField},
		{"zero axis", []string{"rotate 0 0 0 45"}, ErrInvalidNumber},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTransformList(tt.ops); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadScene_Texture(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	f, err := os.Create(filepath.Join(dir, "green.png"))
	if err != nil {
		t.Fatalf("Failed to create texture: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode texture: %v", err)
	}
	f.Close()

	sceneJSON := `{
  "Camera": {"type": "PerspectiveCamera", "center": "0 0 5", "direction": "0 0 -1", "up": "0 1 0", "angle": 30},
  "Lights": [{"type": "DirectionalLight", "direction": "0 0 -1", "color": "1 1 1"}],
  "Background": {"color": "0 0 0"},
  "Materials": [{"texture": "green.png"}],
  "Group": []
}`
	path := filepath.Join(dir, "textured.json")
	if err := os.WriteFile(path, []byte(sceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	s, err := LoadScene(path, SceneOptions{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if !s.Materials[0].HasTexture() {
		t.Fatal("Expected textured material")
	}
	got := s.Materials[0].Texture.ColorAt(core.NewVec2(0.5, 0.5))
	if !got.Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Expected green texel, got %v", got)
	}

	missing := strings.Replace(sceneJSON, "green.png", "blue.png", 1)
	if _, err := ParseScene(strings.NewReader(missing), dir, SceneOptions{}); err == nil || !strings.HasPrefix(err.Error(), "Materials[0].texture") {
		t.Errorf("Expected error naming the texture, got %v", err)
	}
}

func TestLoadScene_RendersEndToEnd(t *testing.T) {
	path := writeSceneDir(t, fullSceneJSON)
	s, err := LoadScene(path, SceneOptions{Width: 24, Height: 18})
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}

	raycaster := renderer.NewRaycaster(24, 18, renderer.DefaultRenderConfig(), nil)
	if err := raycaster.Load(s); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	buffers, stats, err := raycaster.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.Hits == 0 {
		t.Error("Expected some pixels to hit geometry")
	}
	// The center pixel sees the sphere at the origin, 9 units away
	depth := buffers.Depth.At(12, 9).X
	if depth < 8.5 || depth > 9.5 {
		t.Errorf("Expected center depth near 9, got %f", depth)
	}
}
