package material

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Material describes how a surface scatters incoming rays.
// The set of materials is closed: Lambertian, Metal and Dielectric.
type Material interface {
	// Scatter returns the scattered ray and its attenuation, or false when
	// the surface absorbs the ray
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	isMaterial()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Unit surface normal, pointing away from the shape
	T        float64   // Parameter t along the ray
	Material Material  // Material of the hit object
}

// FrontFace reports whether the ray arrives from outside the surface
func (h HitRecord) FrontFace(ray core.Ray) bool {
	return ray.Direction.Dot(h.Normal) < 0
}
