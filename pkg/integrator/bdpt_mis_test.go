package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// TestSolidAngleToArea tests the solid-angle-to-area-measure PDF conversion
// used throughout MIS weight computation.
func TestSolidAngleToArea(t *testing.T) {
	tests := []struct {
		name          string
		from          core.Vec3
		to            core.Vec3
		toNormal      core.Vec3
		solidAnglePdf float64
		expectedPdf   float64
		tolerance     float64
	}{
		{
			name:          "UnitDistance_DirectlyFacing",
			from:          core.NewVec3(0, 0, 0),
			to:            core.NewVec3(1, 0, 0),
			toNormal:      core.NewVec3(-1, 0, 0),
			solidAnglePdf: 1.0,
			expectedPdf:   1.0,
			tolerance:     1e-10,
		},
		{
			name:          "DistanceTwo_DirectlyFacing",
			from:          core.NewVec3(0, 0, 0),
			to:            core.NewVec3(2, 0, 0),
			toNormal:      core.NewVec3(-1, 0, 0),
			solidAnglePdf: 1.0,
			expectedPdf:   1.0 / 4.0,
			tolerance:     1e-10,
		},
		{
			name:          "ZeroDistance_ReturnsZero",
			from:          core.NewVec3(0, 0, 0),
			to:            core.NewVec3(0, 0, 0),
			toNormal:      core.NewVec3(0, 1, 0),
			solidAnglePdf: 1.0,
			expectedPdf:   0.0,
			tolerance:     1e-10,
		},
		{
			name:          "NoNormal_OmitsCosine",
			from:          core.NewVec3(0, 0, 0),
			to:            core.NewVec3(1, 0, 0),
			toNormal:      core.Vec3{},
			solidAnglePdf: 1.0,
			expectedPdf:   1.0,
			tolerance:     1e-10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := solidAngleToArea(tt.from, tt.to, tt.toNormal, tt.solidAnglePdf)
			if math.Abs(result-tt.expectedPdf) > tt.tolerance {
				t.Errorf("expected PDF %.10f, got %.10f", tt.expectedPdf, result)
			}
		})
	}
}

// TestCalculateMISWeightUnitForSingleBounce checks the s+t==2 identity:
// a direct camera-to-light connection with no intermediate vertices has no
// competing strategy, so its MIS weight is always 1.
func TestCalculateMISWeightUnitForSingleBounce(t *testing.T) {
	sc := newSingleSphereScene(5)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)
	random := rand.New(rand.NewSource(1))
	sampler := core.NewRandomSampler(random)

	ray := sc.Camera.GetRay(16, 16, sampler.Get2D(), sampler.Get2D())
	cameraPath := bdpt.generateCameraSubpath(ray, sc, sampler, bdpt.MaxDepth+2)
	lightPath := bdpt.generateLightSubpath(sc, sampler, bdpt.MaxDepth+1)

	weight := bdpt.calculateMISWeight(cameraPath, lightPath, 0, 2, sc)
	if weight != 1.0 {
		t.Errorf("expected MIS weight 1.0 for s+t==2, got %v", weight)
	}
}

// TestCalculateMISWeightBounded checks every strategy's weight stays within
// the valid [0,1] range across a handful of random (s,t) combinations on a
// real generated path pair.
func TestCalculateMISWeightBounded(t *testing.T) {
	sc := newSingleSphereScene(6)
	bdpt := NewBDPTIntegrator(sc.SamplingConfig)
	random := rand.New(rand.NewSource(99))
	sampler := core.NewRandomSampler(random)

	ray := sc.Camera.GetRay(16, 16, sampler.Get2D(), sampler.Get2D())
	cameraPath := bdpt.generateCameraSubpath(ray, sc, sampler, bdpt.MaxDepth+2)
	lightPath := bdpt.generateLightSubpath(sc, sampler, bdpt.MaxDepth+1)

	for t2 := 1; t2 <= cameraPath.Length; t2++ {
		for s := 0; s <= lightPath.Length; s++ {
			if t2 == 1 && s == 0 {
				continue
			}
			depth := s + t2 - 2
			if depth < 0 || depth > bdpt.MaxDepth {
				continue
			}
			weight := bdpt.calculateMISWeight(cameraPath, lightPath, s, t2, sc)
			if math.IsNaN(weight) || weight < 0 || weight > 1.0+1e-9 {
				t.Errorf("s=%d t=%d: MIS weight out of range: %v", s, t2, weight)
			}
		}
	}
}

func TestRemap0(t *testing.T) {
	if remap0(0) != 1.0 {
		t.Error("remap0(0) should return 1.0")
	}
	if remap0(0.5) != 0.5 {
		t.Error("remap0 should pass through nonzero values unchanged")
	}
}
