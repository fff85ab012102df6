package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings shared by the CLI and the web server.
// Values come from defaults, then the environment (optionally seeded from a
// .env file), then command line flags.
type Config struct {
	Scene           string // Built-in scene name
	Integrator      string // "path-tracing" or "normals"
	Width           int    // Image width override (0 = scene default)
	SamplesPerPixel int    // Samples per pixel override (0 = scene default)
	MaxDepth        int    // Bounce cap override (0 = scene default)
	Mode            string // "normal" or "progressive"
	MaxPasses       int    // Passes for progressive mode
	Workers         int    // Progressive workers (0 = CPU count)
	Output          string // Output file; the extension picks the format
	ThumbnailWidth  int    // Also write a thumbnail this wide (0 = none)
	Port            int    // Web server port
	S3              S3Config
}

// S3Config configures uploads of finished renders
type S3Config struct {
	AccessKey      string
	SecretKey      string
	Endpoint       string // Custom endpoint for S3-compatible stores
	Region         string
	Bucket         string
	Prefix         string // Key prefix for uploaded objects
	CDNURL         string // Public base URL for uploaded objects
	UploadTimeout  time.Duration
	ForcePathStyle bool
}

// Enabled reports whether uploads are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Scene:      "default",
		Integrator: "path-tracing",
		Mode:       "normal",
		MaxPasses:  7,
		Output:     "output/render.png",
		Port:       8080,
		S3: S3Config{
			Region:         "us-east-1",
			UploadTimeout:  30 * time.Second,
			ForcePathStyle: true,
		},
	}
}

// LoadEnv loads variables from a .env file into the process environment.
// Variables already set win over the file. A missing file is not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// FromEnv returns base with RAYTRACER_* and S3_* environment variables applied
func FromEnv(base Config) (Config, error) {
	c := base
	var err error

	c.Scene = getEnv("RAYTRACER_SCENE", c.Scene)
	c.Integrator = getEnv("RAYTRACER_INTEGRATOR", c.Integrator)
	c.Mode = getEnv("RAYTRACER_MODE", c.Mode)
	c.Output = getEnv("RAYTRACER_OUTPUT", c.Output)

	ints := []struct {
		key   string
		value *int
	}{
		{"RAYTRACER_WIDTH", &c.Width},
		{"RAYTRACER_SAMPLES", &c.SamplesPerPixel},
		{"RAYTRACER_MAX_DEPTH", &c.MaxDepth},
		{"RAYTRACER_MAX_PASSES", &c.MaxPasses},
		{"RAYTRACER_WORKERS", &c.Workers},
		{"RAYTRACER_THUMBNAIL_WIDTH", &c.ThumbnailWidth},
		{"RAYTRACER_PORT", &c.Port},
	}
	for _, entry := range ints {
		if *entry.value, err = getEnvInt(entry.key, *entry.value); err != nil {
			return base, err
		}
	}

	c.S3.AccessKey = getEnv("S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = getEnv("S3_SECRET_KEY", c.S3.SecretKey)
	c.S3.Endpoint = getEnv("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Region = getEnv("S3_REGION", c.S3.Region)
	c.S3.Bucket = getEnv("S3_BUCKET", c.S3.Bucket)
	c.S3.Prefix = getEnv("S3_PREFIX", c.S3.Prefix)
	c.S3.CDNURL = getEnv("CDN_URL", c.S3.CDNURL)

	if value, ok := os.LookupEnv("S3_UPLOAD_TIMEOUT"); ok {
		if c.S3.UploadTimeout, err = time.ParseDuration(value); err != nil {
			return base, fmt.Errorf("invalid S3_UPLOAD_TIMEOUT %q: %w", value, err)
		}
	}
	if value, ok := os.LookupEnv("S3_FORCE_PATH_STYLE"); ok {
		if c.S3.ForcePathStyle, err = strconv.ParseBool(value); err != nil {
			return base, fmt.Errorf("invalid S3_FORCE_PATH_STYLE %q: %w", value, err)
		}
	}

	return c, nil
}

// RegisterFlags binds the render settings to fs, using the current values as defaults
func RegisterFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.Scene, "scene", c.Scene, "Scene name (see -list)")
	fs.StringVar(&c.Integrator, "integrator", c.Integrator, "Integrator: 'path-tracing' or 'normals'")
	fs.IntVar(&c.Width, "width", c.Width, "Image width in pixels (0 = scene default)")
	fs.IntVar(&c.SamplesPerPixel, "samples", c.SamplesPerPixel, "Samples per pixel (0 = scene default)")
	fs.IntVar(&c.MaxDepth, "max-depth", c.MaxDepth, "Maximum bounces per path (0 = scene default)")
	fs.StringVar(&c.Mode, "mode", c.Mode, "Render mode: 'normal' or 'progressive'")
	fs.IntVar(&c.MaxPasses, "max-passes", c.MaxPasses, "Number of progressive passes")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Progressive workers (0 = CPU count)")
	fs.StringVar(&c.Output, "output", c.Output, "Output file (.png, .jpg, .ppm, ...)")
	fs.IntVar(&c.ThumbnailWidth, "thumb", c.ThumbnailWidth, "Also write a thumbnail this many pixels wide (0 = none)")
	fs.StringVar(&c.S3.Bucket, "s3-bucket", c.S3.Bucket, "Upload the render to this S3 bucket")
	fs.StringVar(&c.S3.Prefix, "s3-prefix", c.S3.Prefix, "Key prefix for uploaded renders")
}

// Validate reports settings that cannot produce a render
func (c Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	if c.SamplesPerPixel < 0 {
		return fmt.Errorf("samples per pixel must not be negative, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Mode != "normal" && c.Mode != "progressive" {
		return fmt.Errorf("unknown mode %q, expected 'normal' or 'progressive'", c.Mode)
	}
	if c.Mode == "progressive" && c.MaxPasses <= 0 {
		return fmt.Errorf("progressive mode needs at least one pass, got %d", c.MaxPasses)
	}
	if c.Output == "" {
		return errors.New("output path must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.S3.Enabled() && c.S3.Region == "" {
		return errors.New("S3 uploads need a region")
	}
	return nil
}

// getEnv returns the environment value for key, or fallback when unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
