package lights

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// PointLight is an isotropic point emitter with no physical extent.
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3 // radiant intensity, W/sr
}

// NewPointLight creates a point light at position with the given intensity.
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

func (pl *PointLight) Type() LightType { return LightTypePoint }
func (pl *PointLight) Flags() Flags    { return DeltaPosition }
func (pl *PointLight) ShapeIndex() int { return -1 }

// Sample returns the point's direction and inverse-square-falloff radiance.
// PDF is 1 because the position is deterministic (a Dirac delta collapsed by
// construction, not sampled).
func (pl *PointLight) Sample(point, _ core.Vec3, _ core.Vec2) LightSample {
	toLight := pl.Position.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq < 1e-12 {
		return LightSample{Point: pl.Position, Direction: core.NewVec3(0, 1, 0), PDF: 1.0}
	}
	dist := math.Sqrt(distSq)
	dir := toLight.Multiply(1 / dist)
	return LightSample{
		Point:     pl.Position,
		Normal:    dir.Negate(),
		Direction: dir,
		Distance:  dist,
		Emission:  pl.Intensity.Multiply(1 / distSq),
		PDF:       1.0,
	}
}

// PDF is zero: a BSDF-sampled ray has zero probability of landing on a
// point with no extent, so this light never participates in MIS against a
// BSDF-sampled direction.
func (pl *PointLight) PDF(_, _, _ core.Vec3) float64 { return 0.0 }

// SampleEmission picks a direction uniformly on the sphere around the point
// to seed a light subpath; positional PDF is the Dirac mass collapsed to 1.
func (pl *PointLight) SampleEmission(_ core.Vec2, sampleDirection core.Vec2) EmissionSample {
	dir := core.UniformSampleSphere(sampleDirection)
	return EmissionSample{
		Point:        pl.Position,
		Normal:       dir,
		Direction:    dir,
		Emission:     pl.Intensity,
		AreaPDF:      1.0,
		DirectionPDF: 1.0 / (4 * math.Pi),
	}
}

func (pl *PointLight) EmissionPDF(_ core.Vec3, _ core.Vec3) float64 { return 1.0 }

// Emit is zero: a point has no surface for a traced ray to hit directly.
func (pl *PointLight) Emit(_ core.Ray) core.Vec3 { return core.Vec3{} }
