package renderer

import "github.com/df07/go-sphere-raytracer/pkg/geometry"

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width in pixels
	Height          int // Image height in pixels
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth (0 = integrator default)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 50,
		MaxDepth:        50,
	}
}

// Scene is everything a renderer needs from a scene.
// Defined here so the scene package can depend on the camera.
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Hittable
	GetSamplingConfig() SamplingConfig
}
