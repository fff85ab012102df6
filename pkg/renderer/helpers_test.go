package renderer

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// testLogger implements core.Logger for testing by discarding all output
type testLogger struct{}

var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {}

// testScene implements Scene for renderer tests
type testScene struct {
	camera *Camera
	world  *geometry.HittableList
	config SamplingConfig
}

func (s *testScene) GetCamera() *Camera                { return s.camera }
func (s *testScene) GetWorld() geometry.Hittable       { return s.world }
func (s *testScene) GetSamplingConfig() SamplingConfig { return s.config }

// createTestScene builds a small scene: a diffuse sphere on a large ground sphere
func createTestScene(width, height, samples int) *testScene {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       width,
		AspectRatio: float64(width) / float64(height),
		VFov:        90.0,
	})

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
	)

	return &testScene{
		camera: camera,
		world:  world,
		config: SamplingConfig{Width: width, Height: height, SamplesPerPixel: samples, MaxDepth: 10},
	}
}

// createEmptyScene builds a scene with no objects
func createEmptyScene(width, height, samples int) *testScene {
	s := createTestScene(width, height, samples)
	s.world = geometry.NewHittableList()
	return s
}
