package lights

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// DirectionalLight models a distant source (sunlight) that illuminates the
// whole scene from a single direction. For emission sampling it is treated
// as "infinite delta-direction": rays leave a synthetic disc sized to the
// scene bounds, offset behind the scene along -Direction, as if the source
// itself sat infinitely far away.
type DirectionalLight struct {
	Direction core.Vec3 // direction light travels (points from source into scene)
	Intensity core.Vec3 // radiance arriving perpendicular to Direction

	sceneCenter core.Vec3
	sceneRadius float64
}

// NewDirectionalLight creates a directional light. sceneCenter/sceneRadius
// bound the scene and size the synthetic emission disc.
func NewDirectionalLight(direction, intensity, sceneCenter core.Vec3, sceneRadius float64) *DirectionalLight {
	return &DirectionalLight{
		Direction:   direction.Normalize(),
		Intensity:   intensity,
		sceneCenter: sceneCenter,
		sceneRadius: sceneRadius,
	}
}

func (dl *DirectionalLight) Type() LightType { return LightTypeDirectional }
func (dl *DirectionalLight) Flags() Flags    { return DeltaDirection | InfiniteFlag }
func (dl *DirectionalLight) ShapeIndex() int { return -1 }

func (dl *DirectionalLight) Sample(point, _ core.Vec3, _ core.Vec2) LightSample {
	dir := dl.Direction.Negate() // toward the light
	return LightSample{
		Point:     point.Add(dir.Multiply(2 * dl.sceneRadius)),
		Normal:    dir,
		Direction: dir,
		Distance:  2 * dl.sceneRadius,
		Emission:  dl.Intensity,
		PDF:       1.0,
	}
}

// PDF is zero: the light occupies a single direction, unreachable by a
// continuously-sampled BSDF direction.
func (dl *DirectionalLight) PDF(_, _, _ core.Vec3) float64 { return 0.0 }

// SampleEmission seeds a light subpath from the synthetic disc behind the
// scene, radius at least half the scene's bounding diameter.
func (dl *DirectionalLight) SampleEmission(samplePoint core.Vec2, _ core.Vec2) EmissionSample {
	radius := dl.sceneRadius
	diskCenter := dl.sceneCenter.Add(dl.Direction.Multiply(-radius))

	right, up := orthonormalBasisAround(dl.Direction)
	d := core.ConcentricSampleDisk(samplePoint)
	point := diskCenter.Add(right.Multiply(d.X * radius)).Add(up.Multiply(d.Y * radius))

	return EmissionSample{
		Point:        point,
		Normal:       dl.Direction,
		Direction:    dl.Direction,
		Emission:     dl.Intensity,
		AreaPDF:      1.0 / (math.Pi * radius * radius),
		DirectionPDF: 1.0, // Dirac: every emitted ray travels along Direction
	}
}

func (dl *DirectionalLight) EmissionPDF(_ core.Vec3, _ core.Vec3) float64 {
	return 1.0 / (math.Pi * dl.sceneRadius * dl.sceneRadius)
}

// Emit is zero: the light has no shape in the scene for a ray to hit.
func (dl *DirectionalLight) Emit(_ core.Ray) core.Vec3 { return core.Vec3{} }

// orthonormalBasisAround builds an arbitrary right/up frame perpendicular to n.
func orthonormalBasisAround(n core.Vec3) (right, up core.Vec3) {
	var a core.Vec3
	if math.Abs(n.X) > 0.9 {
		a = core.NewVec3(0, 1, 0)
	} else {
		a = core.NewVec3(1, 0, 0)
	}
	right = a.Cross(n).Normalize()
	up = n.Cross(right)
	return right, up
}
