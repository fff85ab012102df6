package core

import "math/rand"

// DefaultSeed seeds the reference renderer's generator. Renders are
// reproducible for a given scene, size and seed.
const DefaultSeed = 42

// maxRejectionAttempts bounds the rejection loops. Acceptance rates are
// about 52% (sphere) and 79% (disk), so the cap is never reached in practice.
const maxRejectionAttempts = 1000

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// SampleInUnitSphere returns a point uniformly distributed inside the unit sphere.
// Points of the [-1,1)³ cube are drawn until one has squared length below 1.
func SampleInUnitSphere(sampler Sampler) Vec3 {
	for i := 0; i < maxRejectionAttempts; i++ {
		p := NewVec3(2*sampler.Get1D()-1, 2*sampler.Get1D()-1, 2*sampler.Get1D()-1)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	return Vec3{}
}

// SampleInUnitDisk returns a point uniformly distributed inside the unit disk
// on the z=0 plane (for depth of field)
func SampleInUnitDisk(sampler Sampler) Vec3 {
	for i := 0; i < maxRejectionAttempts; i++ {
		p := NewVec3(2*sampler.Get1D()-1, 2*sampler.Get1D()-1, 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	return Vec3{}
}
