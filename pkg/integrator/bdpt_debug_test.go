package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// TestBDPTAndPathTracingAgreeInExpectation checks that averaging many BDPT
// and path-tracing samples of the same pixel converges to roughly the same
// radiance, since both integrators estimate the same rendering equation by
// different sampling strategies.
func TestBDPTAndPathTracingAgreeInExpectation(t *testing.T) {
	sc := newSingleSphereScene(6)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)
	pt := NewPathTracingIntegrator(sc.SamplingConfig)

	const samples = 200
	var bdptSum, ptSum core.Vec3

	for i := 0; i < samples; i++ {
		random := rand.New(rand.NewSource(int64(i)))
		sampler := core.NewRandomSampler(random)
		ray := sc.Camera.GetRay(16, 16, sampler.Get2D(), sampler.Get2D())

		bColor, _ := bdpt.Li(ray, sc, sampler)
		bdptSum = bdptSum.Add(bColor)

		random2 := rand.New(rand.NewSource(int64(i)))
		sampler2 := core.NewRandomSampler(random2)
		ray2 := sc.Camera.GetRay(16, 16, sampler2.Get2D(), sampler2.Get2D())
		pColor, _ := pt.Li(ray2, sc, sampler2)
		ptSum = ptSum.Add(pColor)
	}

	bdptAvg := bdptSum.Multiply(1.0 / samples)
	ptAvg := ptSum.Multiply(1.0 / samples)

	diff := bdptAvg.Subtract(ptAvg).Length()
	scale := math.Max(bdptAvg.Length(), ptAvg.Length())
	if scale > 1e-6 && diff/scale > 0.75 {
		t.Errorf("BDPT and path tracing diverged too far: bdpt=%v pt=%v", bdptAvg, ptAvg)
	}
}

// TestBDPTBackgroundHandling checks that a camera ray escaping to the sky
// with no scene geometry still produces finite, non-negative radiance.
func TestBDPTBackgroundHandling(t *testing.T) {
	sc := newEmptySkyScene(4)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)
	random := rand.New(rand.NewSource(3))
	sampler := core.NewRandomSampler(random)

	ray := sc.Camera.GetRay(8, 8, sampler.Get2D(), sampler.Get2D())
	color, _ := bdpt.Li(ray, sc, sampler)

	if math.IsNaN(color.X) || color.X < 0 {
		t.Errorf("expected valid background radiance, got %v", color)
	}
	if color.IsZero() {
		t.Error("expected non-zero background radiance against the gradient sky")
	}
}
