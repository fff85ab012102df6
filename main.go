package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/publish"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Fatalf("Error loading environment: %v", err)
	}
	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		log.Fatalf("Error reading environment: %v", err)
	}

	config.RegisterFlags(flag.CommandLine, &cfg)
	list := flag.Bool("list", false, "List available scenes")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Sphere Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		printScenes()
		fmt.Println()
		fmt.Println("Settings can also come from RAYTRACER_* and S3_* variables or a .env file.")
		return
	}
	if *list {
		printScenes()
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := run(context.Background(), cfg, renderer.NewDefaultLogger()); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
}

func printScenes() {
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-15s %s\n", info.ID, info.Description)
	}
}

// run renders the configured scene, writes it to disk and optionally uploads it
func run(ctx context.Context, cfg config.Config, logger core.Logger) error {
	s, err := createScene(cfg)
	if err != nil {
		return err
	}

	integ, err := integrator.New(cfg.Integrator, integrator.Config{MaxDepth: s.SamplingConfig.MaxDepth})
	if err != nil {
		return err
	}

	sampling := s.GetSamplingConfig()
	logger.Printf("Rendering scene '%s' at %dx%d, %d samples/pixel, %d spheres (%s mode)...\n",
		cfg.Scene, sampling.Width, sampling.Height, sampling.SamplesPerPixel, s.GetPrimitiveCount(), cfg.Mode)

	startTime := time.Now()
	fb, stats, err := render(ctx, cfg, s, integ, logger)
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	if err := output.Save(fb, cfg.Output); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", cfg.Output)

	var thumbPath string
	if cfg.ThumbnailWidth > 0 {
		thumbPath = thumbnailPath(cfg.Output)
		if err := output.SaveImage(output.Thumbnail(fb.Image(), cfg.ThumbnailWidth), thumbPath); err != nil {
			return err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbPath)
	}

	if cfg.S3.Enabled() {
		if err := upload(ctx, cfg.S3, logger, cfg.Output, thumbPath); err != nil {
			return err
		}
	}

	return nil
}

// createScene builds the configured scene with CLI overrides applied
func createScene(cfg config.Config) (*scene.Scene, error) {
	s, err := scene.Create(cfg.Scene, renderer.CameraConfig{Width: cfg.Width})
	if err != nil {
		return nil, err
	}
	s.SetSamplesPerPixel(cfg.SamplesPerPixel)
	s.SetMaxDepth(cfg.MaxDepth)
	return s, nil
}

// render produces the final linear image in the configured mode
func render(ctx context.Context, cfg config.Config, s *scene.Scene, integ integrator.Integrator, logger core.Logger) (*output.Framebuffer, renderer.RenderStats, error) {
	if cfg.Mode != "progressive" {
		return renderer.NewRaytracer(s, integ).RenderPass()
	}

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.MaxSamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	progressiveConfig.MaxPasses = min(cfg.MaxPasses, s.SamplingConfig.SamplesPerPixel)
	progressiveConfig.NumWorkers = cfg.Workers

	pr, err := renderer.NewProgressiveRaytracer(s, progressiveConfig, integ, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var last renderer.PassResult
	for result := range passChan {
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if last.Framebuffer == nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("progressive render produced no passes")
	}
	return last.Framebuffer, last.Stats, nil
}

// thumbnailPath derives the thumbnail file name, keeping PPM outputs viewable as PNG
func thumbnailPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if strings.EqualFold(ext, ".ppm") || ext == "" {
		ext = ".png"
	}
	return base + "_thumb" + ext
}

// upload publishes the saved render and thumbnail files
func upload(ctx context.Context, s3Config config.S3Config, logger core.Logger, paths ...string) error {
	publisher, err := publish.NewS3Publisher(s3Config, logger)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s for upload: %w", path, err)
		}
		url, err := publisher.Publish(ctx, filepath.Base(path), data, output.ContentType(filepath.Ext(path)))
		if err != nil {
			return err
		}
		logger.Printf("Published %s\n", url)
	}
	return nil
}
