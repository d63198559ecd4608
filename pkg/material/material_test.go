package material

import (
	"math"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
)

func TestHitRecord_Accepts(t *testing.T) {
	hit := NewHitRecord()
	if hit.IsHit() {
		t.Fatal("New record should not report a hit")
	}

	tests := []struct {
		name     string
		tMin     float64
		t        float64
		expected bool
	}{
		{"in range", 0, 5, true},
		{"equal to tMin", 1, 1, false},
		{"below tMin", 1, 0.5, false},
		{"negative", 0, -2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hit.Accepts(tt.tMin, tt.t); got != tt.expected {
				t.Errorf("Accepts(%f, %f): expected %v, got %v", tt.tMin, tt.t, tt.expected, got)
			}
		})
	}

	m := NewMaterial(core.NewVec3(1, 1, 1), core.Vec3{}, 0)
	hit.SetWithTexCoords(3, m, core.NewVec3(0, 1, 0), core.NewVec2(0.2, 0.4))
	if !hit.IsHit() || hit.T != 3 || !hit.HasTexCoords {
		t.Fatalf("Unexpected record after set: %+v", hit)
	}
	if hit.Accepts(0, 3) {
		t.Error("Equal distance must not be accepted")
	}
	if !hit.Accepts(0, 2.9) {
		t.Error("Closer distance must be accepted")
	}

	hit.Set(2, m, core.NewVec3(1, 0, 0))
	if hit.HasTexCoords {
		t.Error("Set should clear texture coordinates")
	}
}

func TestMaterial_DiffuseAt(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	blue := core.NewVec3(0, 0, 1)
	m := NewMaterial(red, core.Vec3{}, 0)

	hit := NewHitRecord()
	hit.SetWithTexCoords(1, m, core.NewVec3(0, 0, 1), core.NewVec2(0.5, 0.5))
	if got := m.DiffuseAt(&hit); !got.Equals(red) {
		t.Errorf("Untextured material: expected %v, got %v", red, got)
	}

	m.SetTexture(SolidTexture{Color: blue})
	if !m.HasTexture() {
		t.Fatal("Expected texture to be attached")
	}
	if got := m.DiffuseAt(&hit); !got.Equals(blue) {
		t.Errorf("Textured hit: expected %v, got %v", blue, got)
	}

	hit.Set(1, m, core.NewVec3(0, 0, 1))
	if got := m.DiffuseAt(&hit); !got.Equals(red) {
		t.Errorf("Textured material without UVs: expected %v, got %v", red, got)
	}
}

func TestMaterial_Shade(t *testing.T) {
	white := core.NewVec3(1, 1, 1)
	down := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	up := core.NewVec3(0, 1, 0)

	tests := []struct {
		name     string
		material *Material
		normal   core.Vec3
		lightDir core.Vec3
		expected float64
	}{
		{"diffuse head-on", NewMaterial(core.NewVec3(0.5, 0.5, 0.5), core.Vec3{}, 0), up, up, 0.5},
		{"back face flipped", NewMaterial(core.NewVec3(0.5, 0.5, 0.5), core.Vec3{}, 0), up.Negate(), up, 0.5},
		{"grazing light", NewMaterial(core.NewVec3(0.5, 0.5, 0.5), core.Vec3{}, 0), up, core.NewVec3(1, 0, 0), 0},
		{"light behind surface", NewMaterial(core.NewVec3(0.5, 0.5, 0.5), white, 10), up, up.Negate(), 0},
		{"diffuse plus specular", NewMaterial(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0.25, 0.25, 0.25), 10), up, up, 0.75},
		{"diffuse at 60 degrees", NewMaterial(white, core.Vec3{}, 0), up, core.NewVec3(math.Sqrt(3)/2, 0.5, 0), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := NewHitRecord()
			hit.Set(5, tt.material, tt.normal)
			result := tt.material.Shade(down, &hit, tt.lightDir, white)
			for axis := 0; axis < 3; axis++ {
				if math.Abs(result.Component(axis)-tt.expected) > 1e-9 {
					t.Errorf("Expected %f on every channel, got %v", tt.expected, result)
					break
				}
			}
		})
	}
}

func TestMaterial_Ambient(t *testing.T) {
	m := NewMaterial(core.NewVec3(0.5, 1, 0), core.Vec3{}, 0)
	hit := NewHitRecord()
	hit.Set(1, m, core.NewVec3(0, 1, 0))

	result := m.Ambient(&hit, core.NewVec3(0.2, 0.2, 0.2))
	expected := core.NewVec3(0.1, 0.2, 0)
	if result.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestReflect(t *testing.T) {
	r := Reflect(core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0))
	if !r.Equals(core.NewVec3(1, 1, 0)) {
		t.Errorf("Expected (1,1,0), got %v", r)
	}
}
