package material

import (
	"math"

	"github.com/df07/go-raycaster/pkg/core"
)

// Material is a Phong surface description with an optional diffuse texture
type Material struct {
	DiffuseColor  core.Vec3
	SpecularColor core.Vec3
	Shininess     float64
	Texture       Texture
}

// NewMaterial creates an untextured material
func NewMaterial(diffuse, specular core.Vec3, shininess float64) *Material {
	return &Material{
		DiffuseColor:  diffuse,
		SpecularColor: specular,
		Shininess:     shininess,
	}
}

// SetTexture attaches a diffuse texture. Only call while building a scene.
func (m *Material) SetTexture(texture Texture) {
	m.Texture = texture
}

// HasTexture reports whether a texture is attached
func (m *Material) HasTexture() bool {
	return m.Texture != nil
}

// DiffuseAt returns the texture color when the hit carries UVs, otherwise the diffuse color
func (m *Material) DiffuseAt(hit *HitRecord) core.Vec3 {
	if m.Texture != nil && hit.HasTexCoords {
		return m.Texture.ColorAt(hit.TexCoords)
	}
	return m.DiffuseColor
}

// Ambient returns the ambient contribution at a hit
func (m *Material) Ambient(hit *HitRecord, ambientLight core.Vec3) core.Vec3 {
	return ambientLight.MultiplyVec(m.DiffuseAt(hit))
}

// Shade returns the diffuse plus specular contribution of one light.
// lightDir points from the surface toward the light and must be unit length.
func (m *Material) Shade(ray core.Ray, hit *HitRecord, lightDir, lightColor core.Vec3) core.Vec3 {
	viewDir := ray.Direction.Normalize()
	normal := hit.Normal
	if normal.Dot(viewDir) > 0 {
		normal = normal.Negate()
	}

	diffuse := math.Max(normal.Dot(lightDir), 0)
	color := lightColor.MultiplyVec(m.DiffuseAt(hit)).Multiply(diffuse)

	if m.SpecularColor != (core.Vec3{}) {
		reflected := Reflect(viewDir, normal)
		specular := math.Pow(math.Max(reflected.Dot(lightDir), 0), m.Shininess)
		color = color.Add(lightColor.MultiplyVec(m.SpecularColor).Multiply(specular))
	}

	return color
}

// Reflect mirrors v about the unit normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
