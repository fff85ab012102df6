package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

const (
	// randomSceneRange bounds the small sphere grid to x, z in [-range, range]
	randomSceneRange = 10

	diffuseProbability = 0.33
	metalProbability   = 0.66
)

// NewRandomScene creates a 21×21 field of small random spheres around three
// large feature spheres. The same seed always yields the same scene.
func NewRandomScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         600,
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
	cameraConfig := applyOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel: 50,
		MaxDepth:        50,
	}

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)
	world.Add(randomSpheres(core.NewSeededSampler(seed))...)
	world.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return newScene(cameraConfig, samplingConfig, world)
}

// randomSpheres places one small sphere per integer grid cell, jittered by up
// to half a unit, resting on y=0
func randomSpheres(sampler core.Sampler) []geometry.Hittable {
	var spheres []geometry.Hittable

	for x := -randomSceneRange; x <= randomSceneRange; x++ {
		for z := -randomSceneRange; z <= randomSceneRange; z++ {
			selection := sampler.Get1D()
			radius := 0.1 * (sampler.Get1D() + 1.0)
			center := core.NewVec3(
				float64(x)+0.5*(sampler.Get1D()*2.0-1.0),
				radius,
				float64(z)+0.5*(sampler.Get1D()*2.0-1.0),
			)

			var mat material.Material
			switch {
			case selection < diffuseProbability:
				mat = material.NewLambertian(core.NewVec3(
					sampler.Get1D()*sampler.Get1D(),
					sampler.Get1D()*sampler.Get1D(),
					sampler.Get1D()*sampler.Get1D(),
				))
			case selection < metalProbability:
				mat = material.NewMetal(core.NewVec3(sampler.Get1D(), sampler.Get1D(), sampler.Get1D()), 0.0)
			default:
				mat = material.NewDielectric(1.5)
			}

			spheres = append(spheres, geometry.NewSphere(center, radius, mat))
		}
	}

	return spheres
}
