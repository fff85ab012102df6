package integrator

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// PathTracingIntegrator follows a single scattered path per camera ray
type PathTracingIntegrator struct {
	maxDepth int
}

// PathResult describes one traced path
type PathResult struct {
	Color   core.Vec3
	Bounces int  // Number of successful scatter events along the path
	Escaped bool // Whether the path ended in the background
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// A non-positive MaxDepth selects DefaultMaxDepth.
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	maxDepth := config.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// MaxDepth returns the bounce cap
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, world, sampler).Color
}

// Trace follows ray through the world until it escapes, is absorbed or
// reaches the bounce cap. Each bounce multiplies the path throughput by the
// material attenuation; escaped paths pick up the background.
func (pt *PathTracingIntegrator) Trace(ray core.Ray, world geometry.Hittable, sampler core.Sampler) PathResult {
	throughput := core.NewVec3(1, 1, 1)

	for depth := 0; ; depth++ {
		hit, isHit := world.Hit(ray, MinHitDistance, math.Inf(1))
		if !isHit {
			return PathResult{
				Color:   throughput.MultiplyVec(Background(ray)),
				Bounces: depth,
				Escaped: true,
			}
		}

		// Out of bounces: no more light is gathered
		if depth >= pt.maxDepth {
			return PathResult{Bounces: depth}
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return PathResult{Bounces: depth}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}
}
