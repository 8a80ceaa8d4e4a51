package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// TestEvaluateConnectionSpecularRejected checks that connecting through a
// specular vertex on either side of the strategy always yields zero, since
// a specular BSDF has no value off its single sampled direction.
func TestEvaluateConnectionSpecularRejected(t *testing.T) {
	sc := newSingleSphereScene(5)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)

	cv := &Vertex{Point: core.NewVec3(0, 0, 1), Normal: core.NewVec3(0, 0, 1), IsSpecular: true}
	lv := &Vertex{Point: core.NewVec3(0, 2, -1), Normal: core.NewVec3(0, -1, 0)}

	contribution := bdpt.evaluateConnection(cv, lv, sc)
	if !contribution.IsZero() {
		t.Errorf("expected zero contribution through a specular vertex, got %v", contribution)
	}
}

// TestEvaluateConnectionCoincidentPointsRejected checks that connecting a
// vertex to itself (zero separation distance) is rejected rather than
// dividing by zero.
func TestEvaluateConnectionCoincidentPointsRejected(t *testing.T) {
	sc := newSingleSphereScene(5)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)

	p := core.NewVec3(0, 0, 1)
	cv := &Vertex{Point: p, Normal: core.NewVec3(0, 0, 1)}
	lv := &Vertex{Point: p, Normal: core.NewVec3(0, 0, -1)}

	contribution := bdpt.evaluateConnection(cv, lv, sc)
	if !contribution.IsZero() {
		t.Errorf("expected zero contribution for coincident points, got %v", contribution)
	}
}

// TestBetaPropagationStaysNonNegativeAndFinite extends real camera and light
// subpaths through a lit scene and checks every vertex's accumulated
// throughput (beta) is physically valid.
func TestBetaPropagationStaysNonNegativeAndFinite(t *testing.T) {
	sc := newSingleSphereScene(6)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)
	random := rand.New(rand.NewSource(11))
	sampler := core.NewRandomSampler(random)

	ray := sc.Camera.GetRay(16, 16, sampler.Get2D(), sampler.Get2D())
	cameraPath := bdpt.generateCameraSubpath(ray, sc, sampler, bdpt.MaxDepth+2)
	lightPath := bdpt.generateLightSubpath(sc, sampler, bdpt.MaxDepth+1)

	checkBeta := func(label string, vertices []Vertex) {
		for i, v := range vertices {
			if v.Beta.X < 0 || v.Beta.Y < 0 || v.Beta.Z < 0 {
				t.Errorf("%s vertex %d has negative beta: %v", label, i, v.Beta)
			}
			for _, c := range []float64{v.Beta.X, v.Beta.Y, v.Beta.Z} {
				if math.IsNaN(c) || math.IsInf(c, 0) {
					t.Errorf("%s vertex %d has non-finite beta: %v", label, i, v.Beta)
				}
			}
		}
	}

	checkBeta("camera", cameraPath.Vertices)
	checkBeta("light", lightPath.Vertices)
}
