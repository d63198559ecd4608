package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/df07/go-raycaster/pkg/output"
)

const (
	// DefaultWidth and DefaultHeight size the output image
	DefaultWidth  = 800
	DefaultHeight = 600
	// DefaultOctreeMaxLevel limits octree depth for triangle meshes
	DefaultOctreeMaxLevel = 7
	// DefaultSamplesPerPixel is one camera ray per pixel
	DefaultSamplesPerPixel = 1
	// DefaultTileSize is the edge length of a render tile in pixels
	DefaultTileSize = 32
	// DefaultOutputDir is where the CLI writes images
	DefaultOutputDir = "output"
	// DefaultThumbnailWidth is the width of the preview image; 0 disables it
	DefaultThumbnailWidth = 200
	// DefaultServerAddress is where the web server listens
	DefaultServerAddress = ":8080"
	// DefaultEnvFile is read before the environment when present
	DefaultEnvFile = ".env"
)

// Config captures the runtime settings shared by the CLI and the web server
type Config struct {
	Width           int
	Height          int
	Workers         int // 0 uses the CPU count
	UseOctree       bool
	OctreeMaxLevel  int
	SamplesPerPixel int
	TileSize        int
	OutputDir       string
	WriteDepth      bool
	WriteNormal     bool
	ThumbnailWidth  int
	RawCodec        string // Empty disables raw buffer archives
	ServerAddress   string
	S3              output.S3Config
}

// Load reads the configuration from environment variables after loading an
// optional .env file (RAYCASTER_ENV_FILE overrides its path). Variables that
// are already set win over the file. Every invalid override is reported.
func Load() (*Config, error) {
	envFile := getString("RAYCASTER_ENV_FILE", DefaultEnvFile)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	cfg := &Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		UseOctree:       true,
		OctreeMaxLevel:  DefaultOctreeMaxLevel,
		SamplesPerPixel: DefaultSamplesPerPixel,
		TileSize:        DefaultTileSize,
		OutputDir:       getString("RAYCASTER_OUTPUT_DIR", DefaultOutputDir),
		WriteDepth:      true,
		WriteNormal:     true,
		ThumbnailWidth:  DefaultThumbnailWidth,
		RawCodec:        strings.TrimSpace(os.Getenv("RAYCASTER_RAW_CODEC")),
		ServerAddress:   getString("RAYCASTER_SERVER_ADDRESS", DefaultServerAddress),
		S3: output.S3Config{
			Endpoint:  strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			Region:    strings.TrimSpace(os.Getenv("S3_REGION")),
			Bucket:    strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKey: strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
			Prefix:    strings.TrimSpace(os.Getenv("S3_PREFIX")),
		},
	}

	var problems []string

	parseInt(&problems, "RAYCASTER_WIDTH", &cfg.Width, 1)
	parseInt(&problems, "RAYCASTER_HEIGHT", &cfg.Height, 1)
	parseInt(&problems, "RAYCASTER_WORKERS", &cfg.Workers, 0)
	parseInt(&problems, "RAYCASTER_OCTREE_MAX_LEVEL", &cfg.OctreeMaxLevel, 1)
	parseInt(&problems, "RAYCASTER_SAMPLES", &cfg.SamplesPerPixel, 1)
	parseInt(&problems, "RAYCASTER_TILE_SIZE", &cfg.TileSize, 1)
	parseInt(&problems, "RAYCASTER_THUMBNAIL_WIDTH", &cfg.ThumbnailWidth, 0)
	parseBool(&problems, "RAYCASTER_OCTREE", &cfg.UseOctree)
	parseBool(&problems, "RAYCASTER_WRITE_DEPTH", &cfg.WriteDepth)
	parseBool(&problems, "RAYCASTER_WRITE_NORMAL", &cfg.WriteNormal)

	if cfg.RawCodec != "" {
		if _, err := output.ParseCodec(cfg.RawCodec); err != nil {
			problems = append(problems, fmt.Sprintf("RAYCASTER_RAW_CODEC must be zstd or snappy, got %q", cfg.RawCodec))
		}
	}

	if (cfg.S3.AccessKey == "") != (cfg.S3.SecretKey == "") {
		problems = append(problems, "S3_ACCESS_KEY and S3_SECRET_KEY must be provided together")
	}
	if cfg.S3.Bucket != "" && cfg.S3.Region == "" {
		problems = append(problems, "S3_REGION must be set when S3_BUCKET is set")
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func parseInt(problems *[]string, key string, dst *int, minimum int) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < minimum {
		*problems = append(*problems, fmt.Sprintf("%s must be an integer >= %d, got %q", key, minimum, raw))
		return
	}
	*dst = value
}

func parseBool(problems *[]string, key string, dst *bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be a boolean value, got %q", key, raw))
		return
	}
	*dst = value
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
