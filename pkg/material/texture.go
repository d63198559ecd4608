package material

import (
	"github.com/df07/go-raycaster/pkg/core"
)

// Texture provides color from texture coordinates
type Texture interface {
	ColorAt(uv core.Vec2) core.Vec3
}

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// ColorAt samples the texture at given UV coordinates using nearest-neighbor filtering
func (t *ImageTexture) ColorAt(uv core.Vec2) core.Vec3 {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return core.Vec3{}
	}

	// Wrap UV coordinates to [0, 1)
	u := uv.X - float64(int(uv.X))
	v := uv.Y - float64(int(uv.Y))
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v += 1.0
	}

	// V=0 is the bottom row
	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	// Clamp to image bounds
	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))

	return t.Pixels[y*t.Width+x]
}

// SolidTexture returns one color everywhere
type SolidTexture struct {
	Color core.Vec3
}

// ColorAt returns the solid color regardless of UV
func (s SolidTexture) ColorAt(uv core.Vec2) core.Vec3 {
	return s.Color
}
