package output

import (
	"image"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/renderer"
)

// toByte clamps a channel to [0, 1] and scales it to 8 bits
func toByte(value float64) uint8 {
	if math.IsNaN(value) {
		return 0
	}
	return uint8(math.Round(math.Max(0, math.Min(1, value)) * 255))
}

// ToRGBA converts a color buffer to an 8-bit image
func ToRGBA(img *renderer.Image) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			setPixel(out, x, y, img.At(x, y))
		}
	}
	return out
}

// DepthToRGBA maps finite depths to gray levels, nearest white and farthest
// black. Pixels where the ray missed are black.
func DepthToRGBA(depth *renderer.Image) *image.NRGBA {
	near, far := math.Inf(1), math.Inf(-1)
	for _, pixel := range depth.Pixels {
		if math.IsInf(pixel.X, 0) || math.IsNaN(pixel.X) {
			continue
		}
		near = math.Min(near, pixel.X)
		far = math.Max(far, pixel.X)
	}

	out := image.NewNRGBA(image.Rect(0, 0, depth.Width, depth.Height))
	for y := 0; y < depth.Height; y++ {
		for x := 0; x < depth.Width; x++ {
			t := depth.At(x, y).X
			var level float64
			if !math.IsInf(t, 0) && !math.IsNaN(t) {
				level = 1 // All hits at the same depth
				if far > near {
					level = 1 - (t-near)/(far-near)
				}
			}
			setPixel(out, x, y, core.NewVec3(level, level, level))
		}
	}
	return out
}

// NormalToRGBA converts a normal buffer, which already holds absolute
// values in [0, 1], to an 8-bit image
func NormalToRGBA(normals *renderer.Image) *image.NRGBA {
	return ToRGBA(normals)
}

func setPixel(out *image.NRGBA, x, y int, color core.Vec3) {
	offset := out.PixOffset(x, y)
	out.Pix[offset] = toByte(color.X)
	out.Pix[offset+1] = toByte(color.Y)
	out.Pix[offset+2] = toByte(color.Z)
	out.Pix[offset+3] = 255
}
