package integrator

import (
	"math/rand"
	"testing"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// TestConnectToCameraSpecularRejected checks that the t=1 light-tracing
// strategy never reconnects through a specular vertex, since a specular BSDF
// has no defined value off its single sampled direction.
func TestConnectToCameraSpecularRejected(t *testing.T) {
	sc := newSingleSphereScene(5)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)
	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)

	lv := &Vertex{
		Point:      core.NewVec3(0, 2, -1),
		Normal:     core.NewVec3(0, -1, 0),
		IsSpecular: true,
	}

	_, _, _, ok := bdpt.connectToCamera(lv, sc, sampler)
	if ok {
		t.Error("expected connectToCamera to reject a specular light vertex")
	}
}

// TestConnectToCameraMapsToVisiblePixel checks that a valid light-tracing
// connection lands inside the image and carries non-negative radiance.
func TestConnectToCameraMapsToVisiblePixel(t *testing.T) {
	sc := newSingleSphereScene(5)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)
	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)

	lightPath := bdpt.generateLightSubpath(sc, sampler, bdpt.MaxDepth+1)
	if lightPath.Length == 0 {
		t.Fatal("expected a non-empty light subpath")
	}

	x, y, contribution, ok := bdpt.connectToCamera(&lightPath.Vertices[0], sc, sampler)
	if !ok {
		return // camera-facing connection can legitimately miss the lens; nothing more to check
	}
	if x < 0 || x >= sc.SamplingConfig.Width || y < 0 || y >= sc.SamplingConfig.Height {
		t.Errorf("connectToCamera produced out-of-bounds pixel (%d,%d)", x, y)
	}
	if contribution.X < 0 || contribution.Y < 0 || contribution.Z < 0 {
		t.Errorf("connectToCamera produced negative contribution: %v", contribution)
	}
}
