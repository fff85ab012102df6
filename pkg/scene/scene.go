package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering.
// It is read-only once constructed, so renderers may share it across goroutines.
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList // Spheres in the scene, tested in order
	SamplingConfig renderer.SamplingConfig
}

// newScene builds a scene whose image size follows the camera configuration
func newScene(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig, world *geometry.HittableList) *Scene {
	camera := renderer.NewCamera(cameraConfig)
	samplingConfig.Width, samplingConfig.Height = camera.GetImageSize()

	return &Scene{
		Camera:         camera,
		CameraConfig:   camera.GetConfig(),
		World:          world,
		SamplingConfig: samplingConfig,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied.
// Zero fields mean "keep the scene value", so an override cannot move a vector
// to the origin. A negative Aperture selects a pinhole camera (aperture 0).
func MergeCameraConfig(base, override renderer.CameraConfig) renderer.CameraConfig {
	result := base
	zero := core.Vec3{}

	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.AspectRatio > 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov > 0 {
		result.VFov = override.VFov
	}
	if override.Aperture > 0 {
		result.Aperture = override.Aperture
	} else if override.Aperture < 0 {
		result.Aperture = 0
	}
	if override.FocusDistance > 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}

// applyOverrides merges the first override, if any, into base
func applyOverrides(base renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return MergeCameraConfig(base, overrides[0])
	}
	return base
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns the scene geometry
func (s *Scene) GetWorld() geometry.Hittable {
	return s.World
}

// GetSamplingConfig returns the sampling configuration
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// SetSamplesPerPixel overrides the sample count; non-positive values are ignored
func (s *Scene) SetSamplesPerPixel(samples int) {
	if samples > 0 {
		s.SamplingConfig.SamplesPerPixel = samples
	}
}

// SetMaxDepth overrides the bounce cap; non-positive values are ignored
func (s *Scene) SetMaxDepth(depth int) {
	if depth > 0 {
		s.SamplingConfig.MaxDepth = depth
	}
}

// GetPrimitiveCount returns the total number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return geometry.CountSpheres(s.World)
}

// MaterialCounts tallies spheres per material kind
type MaterialCounts struct {
	Lambertian int `json:"lambertian"`
	Metal      int `json:"metal"`
	Dielectric int `json:"dielectric"`
}

// CountMaterials tallies sphere materials, descending into nested lists like GetPrimitiveCount
func (s *Scene) CountMaterials() MaterialCounts {
	var counts MaterialCounts
	counts.add(s.World)
	return counts
}

func (c *MaterialCounts) add(h geometry.Hittable) {
	switch obj := h.(type) {
	case *geometry.Sphere:
		switch obj.Material.(type) {
		case *material.Lambertian:
			c.Lambertian++
		case *material.Metal:
			c.Metal++
		case *material.Dielectric:
			c.Dielectric++
		}
	case *geometry.HittableList:
		for _, child := range obj.Objects {
			c.add(child)
		}
	}
}
