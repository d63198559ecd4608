package renderer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
)

var (
	// ErrInvalidState is returned when Load or Render is called out of order
	ErrInvalidState = errors.New("invalid raycaster state")
	// ErrInvalidSize is returned by Load when the output has no pixels
	ErrInvalidSize = errors.New("invalid image size")
)

// DefaultTileSize is the tile edge length used when none is configured
const DefaultTileSize = 32

// State is the lifecycle stage of a Raycaster
type State int

const (
	StateIdle State = iota
	StateLoaded
	StateRendering
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StateRendering:
		return "rendering"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	TileSize        int // Size of each square tile
	NumWorkers      int // Number of parallel workers (0 = use CPU count)
	SamplesPerPixel int // Camera rays per pixel; more than 1 only helps lens cameras
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:        DefaultTileSize,
		NumWorkers:      0, // Auto-detect CPU count
		SamplesPerPixel: 1,
	}
}

// Raycaster renders one loaded scene into color, depth and normal buffers.
// It moves Idle -> Loaded -> Rendering -> Complete; after a render the scene
// is released and Load must be called again.
type Raycaster struct {
	width  int
	height int
	config RenderConfig
	logger core.Logger

	mu    sync.Mutex
	state State
	scene Scene
}

// NewRaycaster creates an idle raycaster for the given output size
func NewRaycaster(width, height int, config RenderConfig, logger core.Logger) *Raycaster {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = 1
	}
	if logger == nil {
		logger = NopLogger{}
	}

	return &Raycaster{
		width:  width,
		height: height,
		config: config,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current lifecycle stage
func (r *Raycaster) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Load hands a fully built scene to the raycaster
func (r *Raycaster) Load(scene Scene) error {
	if scene == nil {
		return errors.New("cannot load a nil scene")
	}
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("%dx%d: %w", r.width, r.height, ErrInvalidSize)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle && r.state != StateComplete {
		return fmt.Errorf("load while %s: %w", r.state, ErrInvalidState)
	}
	r.scene = scene
	r.state = StateLoaded
	return nil
}

// Render casts every pixel of the loaded scene and returns the output buffers
func (r *Raycaster) Render() (*Buffers, RenderStats, error) {
	r.mu.Lock()
	if r.state != StateLoaded {
		state := r.state
		r.mu.Unlock()
		return nil, RenderStats{}, fmt.Errorf("render while %s: %w", state, ErrInvalidState)
	}
	r.state = StateRendering
	scene := r.scene
	r.mu.Unlock()

	start := time.Now()
	buffers := NewBuffers(r.width, r.height)
	tiles := NewTileGrid(r.width, r.height, r.config.TileSize)

	pool := NewWorkerPool(&tileRenderer{
		scene:   scene,
		width:   r.width,
		height:  r.height,
		samples: r.config.SamplesPerPixel,
	}, len(tiles), r.config.NumWorkers)

	r.logger.Printf("Rendering %dx%d in %d tiles with %d workers\n",
		r.width, r.height, len(tiles), pool.GetNumWorkers())

	pool.Start()
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Buffers: buffers})
	}
	pool.Stop()

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Add(result.Stats)
	}
	stats.Elapsed = time.Since(start)
	stats.AverageLuminance = CalculateAverageLuminance(buffers.Color)

	r.logger.Printf("Rendered %d pixels (%d rays, %d hits) in %v\n",
		stats.TotalPixels, stats.RaysCast, stats.Hits, stats.Elapsed)

	r.mu.Lock()
	r.scene = nil
	r.state = StateComplete
	r.mu.Unlock()

	return buffers, stats, nil
}

// PixelToImagePoint maps pixel (i, j), origin top-left, to the normalized image plane
func PixelToImagePoint(i, j, width, height int) core.Vec2 {
	return core.NewVec2(
		2*(float64(i)+0.5)/float64(width)-1,
		1-2*(float64(j)+0.5)/float64(height),
	)
}

// tileRenderer renders tiles of one scene
type tileRenderer struct {
	scene   Scene
	width   int
	height  int
	samples int
}

// RenderTile casts every pixel inside the tile bounds
func (tr *tileRenderer) RenderTile(tile *Tile, buffers *Buffers) RenderStats {
	stats := RenderStats{Tiles: 1}
	for j := tile.Bounds.Min.Y; j < tile.Bounds.Max.Y; j++ {
		for i := tile.Bounds.Min.X; i < tile.Bounds.Max.X; i++ {
			tr.renderPixel(i, j, tile.Sampler, buffers, &stats)
		}
	}
	return stats
}

// renderPixel writes color, depth and normal for one pixel. Depth and normal
// come from the first sample; colors of all samples are averaged.
func (tr *tileRenderer) renderPixel(i, j int, sampler core.Sampler, buffers *Buffers, stats *RenderStats) {
	camera := tr.scene.GetCamera()
	root := tr.scene.GetRoot()
	point := PixelToImagePoint(i, j, tr.width, tr.height)

	var accumulator pixelAccumulator
	for sample := 0; sample < tr.samples; sample++ {
		ray := camera.GenerateRay(point, sampler)
		hit := material.NewHitRecord()
		stats.RaysCast++

		if root == nil || !root.Intersect(ray, camera.TMin(), &hit) {
			accumulator.addSample(tr.scene.GetBackground())
			continue
		}

		accumulator.addSample(Shade(tr.scene, ray, &hit))
		if sample == 0 {
			stats.Hits++
			buffers.Depth.Set(i, j, core.NewVec3(hit.T, hit.T, hit.T))
			buffers.Normal.Set(i, j, hit.Normal.Abs())
		}
	}

	buffers.Color.Set(i, j, accumulator.color())
	stats.TotalPixels++
}
