package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-raycaster/pkg/config"
	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/output"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// outputOptions selects which files are written next to the color image
type outputOptions struct {
	WriteDepth     bool
	WriteNormal    bool
	ThumbnailWidth int
	RawCodec       string // Empty skips the raw archive
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Parse command line flags; configuration values are the defaults
	sceneID := flag.String("scene", "sphere", "Scene id (see -list) or path to a JSON scene file")
	width := flag.Int("width", cfg.Width, "Image width in pixels")
	height := flag.Int("height", cfg.Height, "Image height in pixels")
	useOctree := flag.Bool("octree", cfg.UseOctree, "Accelerate triangle meshes with an octree")
	workers := flag.Int("workers", cfg.Workers, "Number of worker goroutines (0 = CPU count)")
	samples := flag.Int("samples", cfg.SamplesPerPixel, "Camera rays per pixel")
	outDir := flag.String("out", cfg.OutputDir, "Output directory")
	rawCodec := flag.String("raw", cfg.RawCodec, "Also write a raw float archive: 'zstd' or 'snappy'")
	upload := flag.Bool("upload", false, "Upload the written files to the configured S3 bucket")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if *list {
		ids, err := scene.ListScenes()
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}

	if *width <= 0 || *height <= 0 {
		fmt.Printf("Invalid image size %dx%d\n", *width, *height)
		os.Exit(1)
	}
	if *rawCodec != "" {
		if _, err := output.ParseCodec(*rawCodec); err != nil {
			fmt.Printf("Invalid -raw value: %v\n", err)
			os.Exit(1)
		}
	}

	logger := renderer.NewDefaultLogger()
	logger.Printf("Starting Raycaster...\n")

	selectedScene, err := createScene(*sceneID, loaders.SceneOptions{
		Width:          *width,
		Height:         *height,
		UseOctree:      *useOctree,
		OctreeMaxLevel: cfg.OctreeMaxLevel,
		Logger:         logger,
	})
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}
	logger.Printf("Scene %s: %d primitives, %d lights\n",
		*sceneID, selectedScene.PrimitiveCount(), len(selectedScene.Lights))

	raycaster := renderer.NewRaycaster(*width, *height, renderer.RenderConfig{
		TileSize:        cfg.TileSize,
		NumWorkers:      *workers,
		SamplesPerPixel: *samples,
	}, logger)
	if err := raycaster.Load(selectedScene); err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}

	buffers, stats, err := raycaster.Render()
	if err != nil {
		fmt.Printf("Error rendering: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", stats.Elapsed)
	fmt.Printf("Hits: %d of %d pixels (%.1f%%), average luminance %.3f\n",
		stats.Hits, stats.TotalPixels, stats.HitRatio()*100, stats.AverageLuminance)

	// Create output directory for this scene
	sceneDir := filepath.Join(*outDir, sceneDirName(*sceneID))
	timestamp := time.Now().Format("20060102_150405")

	written, err := saveOutputs(buffers, sceneDir, "render_"+timestamp, outputOptions{
		WriteDepth:     cfg.WriteDepth,
		WriteNormal:    cfg.WriteNormal,
		ThumbnailWidth: cfg.ThumbnailWidth,
		RawCodec:       *rawCodec,
	})
	if err != nil {
		fmt.Printf("Error saving output: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("Saved %s\n", path)
	}

	if *upload {
		if err := uploadOutputs(context.Background(), cfg.S3, sceneDirName(*sceneID), written); err != nil {
			fmt.Printf("Error uploading output: %v\n", err)
			os.Exit(1)
		}
	}
}

func printHelp() {
	fmt.Println("Raycaster")
	fmt.Println("Usage: raycaster [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, id := range scene.BuiltinSceneIDs() {
		fmt.Printf("  %s\n", id)
	}
	fmt.Println()
	fmt.Println("JSON scenes in ./scenes are listed with -list as json:<name>.")
	fmt.Println("Settings are also read from RAYCASTER_* environment variables and .env.")
	fmt.Println()
	fmt.Println("Output will be saved to <out>/<scene>/render_<timestamp>.png")
}

// createScene resolves a scene id or a JSON file path into a scene
func createScene(sceneID string, options loaders.SceneOptions) (*scene.Scene, error) {
	if sceneID == "" {
		return nil, fmt.Errorf("no scene given")
	}

	if strings.HasSuffix(sceneID, ".json") {
		if _, err := os.Stat(sceneID); err == nil {
			return loaders.LoadScene(sceneID, options)
		}
	}

	info, ok := scene.FindScene(sceneID)
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", sceneID)
	}

	switch info.Type {
	case scene.TypeBuiltin:
		s, err := scene.NewBuiltinScene(info.ID, options.Width, options.Height, options.UseOctree)
		if err != nil {
			return nil, err
		}
		return s, nil
	case scene.TypeJSON:
		return loaders.LoadScene(info.FilePath, options)
	default:
		return nil, fmt.Errorf("scene %s has unsupported type %q", sceneID, info.Type)
	}
}

// sceneDirName turns a scene id or file path into an output directory name
func sceneDirName(sceneID string) string {
	name := strings.TrimPrefix(sceneID, scene.TypeJSON+":")
	if strings.HasSuffix(name, ".json") {
		name = strings.TrimSuffix(filepath.Base(name), ".json")
	}
	if name == "" {
		return "scene"
	}
	return name
}

// saveOutputs writes the render under dir using baseName as the file stem
// and returns the written paths, color image first
func saveOutputs(buffers *renderer.Buffers, dir, baseName string, opts outputOptions) ([]string, error) {
	var written []string

	color := output.ToRGBA(buffers.Color)
	colorPath := filepath.Join(dir, baseName+".png")
	if err := output.SavePNG(colorPath, color); err != nil {
		return written, err
	}
	written = append(written, colorPath)

	if opts.WriteDepth {
		path := filepath.Join(dir, baseName+"_depth.png")
		if err := output.SavePNG(path, output.DepthToRGBA(buffers.Depth)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.WriteNormal {
		path := filepath.Join(dir, baseName+"_normal.png")
		if err := output.SavePNG(path, output.NormalToRGBA(buffers.Normal)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.ThumbnailWidth > 0 {
		path := filepath.Join(dir, baseName+"_thumb.png")
		if err := output.SavePNG(path, output.Thumbnail(color, opts.ThumbnailWidth)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.RawCodec != "" {
		codec, err := output.ParseCodec(opts.RawCodec)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, baseName+output.RawExtension(codec))
		if err := output.WriteRawFile(path, buffers, codec); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

// uploadOutputs copies the written files to S3 under <sceneName>/<file>
func uploadOutputs(ctx context.Context, cfg output.S3Config, sceneName string, paths []string) error {
	uploader, err := output.NewS3Uploader(cfg)
	if err != nil {
		return err
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		key := sceneName + "/" + filepath.Base(path)
		if _, err := uploader.Upload(ctx, key, data, contentType(path)); err != nil {
			return err
		}
	}
	return nil
}

func contentType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "image/png"
	}
	return "application/octet-stream"
}
