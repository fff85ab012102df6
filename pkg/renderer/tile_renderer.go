package renderer

import (
	"image"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
)

// TileRenderer renders rectangular regions of the image using an integrator.
// It holds no mutable state, so one instance is shared by every worker.
type TileRenderer struct {
	scene      Scene
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene Scene, integ integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integ,
	}
}

// RenderTileBounds samples every pixel within bounds until it holds targetSamples.
// pixelStats is indexed in global image coordinates; only cells inside bounds are written.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	camera := tr.scene.GetCamera()
	world := tr.scene.GetWorld()

	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			initial := ps.SampleCount
			for ps.SampleCount < targetSamples {
				ray := camera.GetRay(i, j, sampler)
				ps.AddSample(tr.integrator.RayColor(ray, world, sampler))
			}

			samplesUsed := ps.SampleCount - initial
			stats.TotalSamples += samplesUsed
			stats.MinSamples = min(stats.MinSamples, samplesUsed)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}
