package scene

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// NewMirrorClusterScene packs perfect mirrors tightly together, so many rays
// bounce until the depth cap. Useful for checking that the cap holds.
func NewMirrorClusterScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 1.5, 4),
		LookAt:      core.NewVec3(0, 0.5, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       320,
		AspectRatio: 4.0 / 3.0,
		VFov:        45.0,
	}
	cameraConfig := applyOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel: 16,
		MaxDepth:        50,
	}

	mirror := material.NewMetal(core.NewVec3(0.95, 0.95, 0.95), 0.0)
	tinted := material.NewMetal(core.NewVec3(0.9, 0.7, 0.5), 0.0)

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, mirror),
		geometry.NewSphere(core.NewVec3(0, 0.5, 0), 0.5, tinted),
	)

	// Ring of mirrors touching the center sphere
	const ringCount = 8
	for i := 0; i < ringCount; i++ {
		angle := 2 * math.Pi * float64(i) / ringCount
		center := core.NewVec3(math.Cos(angle), 0.5, math.Sin(angle))
		world.Add(geometry.NewSphere(center, 0.5, mirror))
	}

	return newScene(cameraConfig, samplingConfig, world)
}
