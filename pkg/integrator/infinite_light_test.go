package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// TestPathTracingGradientSky checks that a ray escaping to the background
// picks up the scene's gradient sky color, and that up/down rays differ.
func TestPathTracingGradientSky(t *testing.T) {
	sc := newEmptySkyScene(4)
	pt := NewPathTracingIntegrator(sc.SamplingConfig)

	upRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	downRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))

	upSampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	downSampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	upColor, _ := pt.Li(upRay, sc, upSampler)
	downColor, _ := pt.Li(downRay, sc, downSampler)

	if upColor.IsZero() || downColor.IsZero() {
		t.Error("expected both rays to pick up gradient sky radiance")
	}
	if upColor == downColor {
		t.Error("expected up and down rays to sample different parts of the gradient")
	}
	if upColor.Z <= downColor.Z {
		t.Errorf("expected the upward ray to be more blue than the downward ray: up=%v down=%v", upColor, downColor)
	}
}

// TestPathTracingGradientSkyMatchesBackground checks that a ray that never
// hits geometry returns exactly sc.Background's value (beta stays identity).
func TestPathTracingGradientSkyMatchesBackground(t *testing.T) {
	sc := newEmptySkyScene(4)
	pt := NewPathTracingIntegrator(sc.SamplingConfig)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	color, _ := pt.Li(ray, sc, sampler)
	expected := sc.Background(ray)

	tolerance := 1e-9
	if math.Abs(color.X-expected.X) > tolerance ||
		math.Abs(color.Y-expected.Y) > tolerance ||
		math.Abs(color.Z-expected.Z) > tolerance {
		t.Errorf("expected background color %v, got %v", expected, color)
	}
}
