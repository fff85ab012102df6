package integrator

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// NormalIntegrator shades hits by their surface normal mapped into [0,1]³.
// It never scatters, which makes it a quick preview of scene geometry.
type NormalIntegrator struct{}

// NewNormalIntegrator creates a normal-shading integrator
func NewNormalIntegrator() *NormalIntegrator {
	return &NormalIntegrator{}
}

// RayColor returns 0.5*(N+1) on hit and the background otherwise
func (n *NormalIntegrator) RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Vec3 {
	hit, isHit := world.Hit(ray, MinHitDistance, math.Inf(1))
	if !isHit {
		return Background(ray)
	}
	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}
