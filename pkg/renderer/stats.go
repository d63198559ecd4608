package renderer

import (
	"time"

	"github.com/df07/go-raycaster/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	RaysCast         int           // Total camera rays traced
	Hits             int           // Pixels whose first ray hit geometry
	Tiles            int           // Tiles rendered
	Workers          int           // Worker goroutines used
	Elapsed          time.Duration // Wall-clock render time
	AverageLuminance float64       // Mean luminance of the color buffer
}

// Add accumulates the per-tile counters of other
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.RaysCast += other.RaysCast
	s.Hits += other.Hits
	s.Tiles += other.Tiles
}

// HitRatio returns the fraction of pixels that hit geometry
func (s RenderStats) HitRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalPixels)
}

// CalculateAverageLuminance returns the mean luminance of an image
func CalculateAverageLuminance(img *Image) float64 {
	if len(img.Pixels) == 0 {
		return 0
	}

	total := 0.0
	for _, pixel := range img.Pixels {
		total += pixel.Luminance()
	}
	return total / float64(len(img.Pixels))
}

// pixelAccumulator averages color samples for one pixel
type pixelAccumulator struct {
	colorAccum  core.Vec3
	sampleCount int
}

func (p *pixelAccumulator) addSample(color core.Vec3) {
	p.colorAccum = p.colorAccum.Add(color)
	p.sampleCount++
}

func (p *pixelAccumulator) color() core.Vec3 {
	if p.sampleCount == 0 {
		return core.Vec3{}
	}
	return p.colorAccum.Multiply(1.0 / float64(p.sampleCount))
}
