package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
)

// Image is a width x height grid of Vec3 samples, row-major with the origin at the top-left
type Image struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewImage creates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

func (img *Image) index(x, y int) int {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		panic(fmt.Sprintf("pixel (%d, %d) out of bounds for %dx%d image", x, y, img.Width, img.Height))
	}
	return y*img.Width + x
}

// At returns the pixel at column x, row y
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pixels[img.index(x, y)]
}

// Set writes the pixel at column x, row y
func (img *Image) Set(x, y int, value core.Vec3) {
	img.Pixels[img.index(x, y)] = value
}

// Fill sets every pixel to value
func (img *Image) Fill(value core.Vec3) {
	for i := range img.Pixels {
		img.Pixels[i] = value
	}
}

// Buffers holds the three outputs of a render
type Buffers struct {
	Color  *Image
	Depth  *Image // Hit distance t replicated on every channel; +Inf where the ray missed
	Normal *Image // Absolute value of the shading normal
}

// NewBuffers allocates equal-sized color, depth and normal images
func NewBuffers(width, height int) *Buffers {
	depth := NewImage(width, height)
	depth.Fill(core.NewVec3(math.Inf(1), math.Inf(1), math.Inf(1)))

	return &Buffers{
		Color:  NewImage(width, height),
		Depth:  depth,
		Normal: NewImage(width, height),
	}
}
