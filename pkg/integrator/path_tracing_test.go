package integrator

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// createMirrorCluster builds a tight cluster of perfect mirrors around the
// origin plus a pair of facing mirrors that trap an axis-aligned ray
func createMirrorCluster() *geometry.HittableList {
	mirror := material.NewMetal(core.NewVec3(1, 1, 1), 0.0)
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -2), 1, mirror),
		geometry.NewSphere(core.NewVec3(0, 0, 2), 1, mirror),
	)
	for _, c := range []core.Vec3{
		core.NewVec3(2, 0, 0), core.NewVec3(-2, 0, 0),
		core.NewVec3(0, 2, 0), core.NewVec3(0, -2, 0),
		core.NewVec3(1.5, 1.5, 1.5), core.NewVec3(-1.5, -1.5, 1.5),
		core.NewVec3(1.5, -1.5, -1.5), core.NewVec3(-1.5, 1.5, -1.5),
	} {
		world.Add(geometry.NewSphere(c, 1, mirror))
	}
	return world
}

func TestPathTracing_EmptySceneReturnsBackground(t *testing.T) {
	pt := NewPathTracingIntegrator(Config{})
	world := geometry.NewHittableList()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	random := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		dir := core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5)
		ray := core.NewRay(core.NewVec3(0, 0, 0), dir)

		result := pt.Trace(ray, world, sampler)
		if result.Bounces != 0 || !result.Escaped {
			t.Fatalf("Empty scene should escape immediately, got %+v", result)
		}
		if !result.Color.ApproxEquals(Background(ray), 1e-12) {
			t.Errorf("Expected background %v, got %v", Background(ray), result.Color)
		}
	}
}

func TestBackground_Gradient(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -3, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Background(core.NewRay(core.Vec3{}, tt.direction))
			if !got.ApproxEquals(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPathTracing_DepthCapInMirrorCluster(t *testing.T) {
	pt := NewPathTracingIntegrator(Config{MaxDepth: 50})
	world := createMirrorCluster()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Axis-aligned ray bounces between the two facing mirrors forever
	trapped := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	result := pt.Trace(trapped, world, sampler)
	if result.Bounces != 50 {
		t.Errorf("Expected the trapped ray to stop at 50 bounces, got %d", result.Bounces)
	}
	if result.Escaped || !result.Color.Equals(core.Vec3{}) {
		t.Errorf("Trapped ray should end black, got %+v", result)
	}

	random := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		dir := core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5)
		result := pt.Trace(core.NewRay(core.NewVec3(0, 0, 0), dir), world, sampler)
		if result.Bounces > 50 {
			t.Fatalf("Ray %d exceeded the bounce cap: %d", i, result.Bounces)
		}
	}
}

func TestPathTracing_DefaultDepth(t *testing.T) {
	if got := NewPathTracingIntegrator(Config{}).MaxDepth(); got != DefaultMaxDepth {
		t.Errorf("Expected default depth %d, got %d", DefaultMaxDepth, got)
	}
	if got := NewPathTracingIntegrator(Config{MaxDepth: -3}).MaxDepth(); got != DefaultMaxDepth {
		t.Errorf("Expected default depth for negative config, got %d", got)
	}
}

func TestPathTracing_ConfiguredDepth(t *testing.T) {
	pt := NewPathTracingIntegrator(Config{MaxDepth: 3})
	world := createMirrorCluster()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	result := pt.Trace(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), world, sampler)
	if result.Bounces != 3 {
		t.Errorf("Expected 3 bounces, got %d", result.Bounces)
	}
}

func TestPathTracing_AttenuationMultiplies(t *testing.T) {
	// A mirror facing the camera sends the ray straight back into the sky
	albedo := core.NewVec3(0.8, 0.6, 0.2)
	mirror := material.NewMetal(albedo, 0.0)
	world := geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -2), 1, mirror))
	pt := NewPathTracingIntegrator(Config{})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	result := pt.Trace(ray, world, sampler)

	if result.Bounces != 1 || !result.Escaped {
		t.Fatalf("Expected a single bounce into the sky, got %+v", result)
	}
	reflected := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
	expected := albedo.MultiplyVec(Background(reflected))
	if !result.Color.ApproxEquals(expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, result.Color)
	}
}

func TestPathTracing_GlassIsTransparent(t *testing.T) {
	// Dielectric attenuation is white, so every path through glass into the
	// sky returns a pure background color
	glass := material.NewDielectric(1.5)
	world := geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, glass))
	pt := NewPathTracingIntegrator(Config{})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 50; i++ {
		result := pt.Trace(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), world, sampler)
		if !result.Escaped {
			continue
		}
		c := result.Color
		if c.X < 0.5-1e-9 || c.X > 1+1e-9 || math.Abs(c.Z-1.0) > 1e-9 {
			t.Errorf("Expected a sky color, got %v", c)
		}
	}
}

func TestPathTracing_DiffuseDarkensBackground(t *testing.T) {
	lambertian := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	world := geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian))
	pt := NewPathTracingIntegrator(Config{})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	for i := 0; i < 100; i++ {
		c := pt.RayColor(ray, world, sampler)
		if c.X > 0.5+1e-9 || c.Y > 0.5+1e-9 || c.Z > 0.5+1e-9 {
			t.Fatalf("Single diffuse bounce cannot exceed albedo, got %v", c)
		}
		if !c.IsFinite() {
			t.Fatalf("Non-finite color %v", c)
		}
	}
}

func TestNormalIntegrator(t *testing.T) {
	world := geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, nil))
	n := NewNormalIntegrator()

	hitRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if got := n.RayColor(hitRay, world, nil); !got.ApproxEquals(core.NewVec3(0.5, 0.5, 1.0), 1e-12) {
		t.Errorf("Expected normal color (0.5,0.5,1), got %v", got)
	}

	missRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if got := n.RayColor(missRay, world, nil); !got.ApproxEquals(Background(missRay), 1e-12) {
		t.Errorf("Expected background on miss, got %v", got)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "path-tracing", "normals"} {
		if _, err := New(name, Config{}); err != nil {
			t.Errorf("Expected integrator %q, got error %v", name, err)
		}
	}

	_, err := New("bdpt", Config{})
	var unknown *UnknownIntegratorError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownIntegratorError, got %v", err)
	}
	if unknown.Name != "bdpt" {
		t.Errorf("Expected name bdpt, got %s", unknown.Name)
	}
}
