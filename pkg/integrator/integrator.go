package integrator

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// MinHitDistance is the smallest accepted hit distance. Hits closer than this
// are treated as the ray re-hitting the surface it just left.
const MinHitDistance = 0.0001

// DefaultMaxDepth is the bounce cap used when none is configured
const DefaultMaxDepth = 50

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear RGB color carried back along ray
	RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Vec3
}

// Config contains integrator settings
type Config struct {
	MaxDepth int // Maximum number of scatter events per path
}

// Background returns the sky gradient seen by rays that escape the scene:
// white at the horizon below, sky blue overhead
func Background(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return core.NewVec3(1.0, 1.0, 1.0).Lerp(core.NewVec3(0.5, 0.7, 1.0), t)
}

// New returns the integrator registered under name
func New(name string, config Config) (Integrator, error) {
	switch name {
	case "", "path-tracing":
		return NewPathTracingIntegrator(config), nil
	case "normals":
		return NewNormalIntegrator(), nil
	default:
		return nil, &UnknownIntegratorError{Name: name}
	}
}

// UnknownIntegratorError reports a request for an integrator that does not exist
type UnknownIntegratorError struct {
	Name string
}

func (e *UnknownIntegratorError) Error() string {
	return "unknown integrator: " + e.Name
}
