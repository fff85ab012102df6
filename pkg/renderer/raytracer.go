package renderer

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/output"
)

// Raytracer is the single-threaded reference renderer. It owns one generator
// seeded with core.DefaultSeed, so the same scene always renders the same image.
type Raytracer struct {
	scene      Scene
	integrator integrator.Integrator
	sampler    core.Sampler
	config     SamplingConfig
}

// NewRaytracer creates a reference renderer for the scene
func NewRaytracer(scene Scene, integ integrator.Integrator) *Raytracer {
	return &Raytracer{
		scene:      scene,
		integrator: integ,
		sampler:    core.NewSeededSampler(core.DefaultSeed),
		config:     scene.GetSamplingConfig(),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// Render streams every pixel into sink in row-major order, top row first
func (rt *Raytracer) Render(sink output.Sink) (RenderStats, error) {
	width, height := rt.config.Width, rt.config.Height
	if width <= 0 || height <= 0 {
		return RenderStats{}, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	samples := max(1, rt.config.SamplesPerPixel)

	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			var ps PixelStats
			for ps.SampleCount < samples {
				ray := camera.GetRay(i, j, rt.sampler)
				ps.AddSample(rt.integrator.RayColor(ray, world, rt.sampler))
			}
			if err := sink.WritePixel(ps.GetColor()); err != nil {
				return RenderStats{}, fmt.Errorf("failed to write pixel (%d, %d): %w", i, j, err)
			}
		}
	}

	return RenderStats{
		TotalPixels:    width * height,
		TotalSamples:   width * height * samples,
		AverageSamples: float64(samples),
		MaxSamples:     samples,
		MinSamples:     samples,
		MaxSamplesUsed: samples,
	}, nil
}

// RenderPass renders the whole image into a new framebuffer
func (rt *Raytracer) RenderPass() (*output.Framebuffer, RenderStats, error) {
	if rt.config.Width <= 0 || rt.config.Height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid image size %dx%d", rt.config.Width, rt.config.Height)
	}
	fb := output.NewFramebuffer(rt.config.Width, rt.config.Height)
	stats, err := rt.Render(fb)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return fb, stats, nil
}
