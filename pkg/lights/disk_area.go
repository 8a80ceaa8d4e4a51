package lights

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// DiskAreaLight is a one-sided circular area emitter: it radiates uniform
// radiance from its front face (along Normal) and is dark from the back.
type DiskAreaLight struct {
	Center    core.Vec3
	Normal    core.Vec3
	Right, Up core.Vec3 // orthonormal frame spanning the disk plane
	Radius    float64
	Radiance  core.Vec3 // emitted radiance, constant over the disk and view angle

	shapeIndex int
}

// NewDiskAreaLight creates a disk light. shapeIndex ties it back to the
// scene-store shape a camera ray can hit directly.
func NewDiskAreaLight(center, normal core.Vec3, radius float64, radiance core.Vec3, shapeIndex int) *DiskAreaLight {
	n := normal.Normalize()
	right, up := orthonormalBasisAround(n)
	return &DiskAreaLight{
		Center: center, Normal: n, Right: right, Up: up,
		Radius: radius, Radiance: radiance, shapeIndex: shapeIndex,
	}
}

func (dl *DiskAreaLight) Type() LightType { return LightTypeDiskArea }
func (dl *DiskAreaLight) Flags() Flags    { return AreaFlag }
func (dl *DiskAreaLight) ShapeIndex() int { return dl.shapeIndex }

func (dl *DiskAreaLight) area() float64 { return math.Pi * dl.Radius * dl.Radius }

func (dl *DiskAreaLight) Sample(point, _ core.Vec3, sample core.Vec2) LightSample {
	d := core.ConcentricSampleDisk(sample)
	samplePoint := dl.Center.Add(dl.Right.Multiply(d.X * dl.Radius)).Add(dl.Up.Multiply(d.Y * dl.Radius))

	toLight := samplePoint.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq < 1e-12 {
		return LightSample{Point: samplePoint, Normal: dl.Normal, Direction: dl.Normal.Negate(), PDF: 0}
	}
	dist := math.Sqrt(distSq)
	dir := toLight.Multiply(1 / dist)

	cosTheta := dl.Normal.Dot(dir.Negate())
	if cosTheta <= 1e-6 {
		return LightSample{Point: samplePoint, Normal: dl.Normal, Direction: dir, Distance: dist, PDF: 0}
	}

	pdf := distSq / (dl.area() * cosTheta)
	return LightSample{
		Point:     samplePoint,
		Normal:    dl.Normal,
		Direction: dir,
		Distance:  dist,
		Emission:  dl.Radiance,
		PDF:       pdf,
	}
}

// PDF converts the disk's area pdf to solid angle using the direction's
// actual intersection with the disk plane, following the ray-plane
// intersection used by the geometric shape itself.
func (dl *DiskAreaLight) PDF(point, _, direction core.Vec3) float64 {
	denom := dl.Normal.Dot(direction)
	if denom >= 0 {
		return 0 // facing away from the emitting side
	}
	t := dl.Normal.Dot(dl.Center.Subtract(point)) / denom
	if t <= 0 {
		return 0
	}
	hit := point.Add(direction.Multiply(t))
	if hit.Subtract(dl.Center).LengthSquared() > dl.Radius*dl.Radius {
		return 0
	}
	cosTheta := -denom
	if cosTheta <= 1e-6 {
		return 0
	}
	return (t * t) / (dl.area() * cosTheta)
}

func (dl *DiskAreaLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	d := core.ConcentricSampleDisk(samplePoint)
	point := dl.Center.Add(dl.Right.Multiply(d.X * dl.Radius)).Add(dl.Up.Multiply(d.Y * dl.Radius))
	dir := core.RandomCosineDirection(dl.Normal, sampleDirection)
	cosTheta := dl.Normal.Dot(dir)
	return EmissionSample{
		Point:        point,
		Normal:       dl.Normal,
		Direction:    dir,
		Emission:     dl.Radiance,
		AreaPDF:      1.0 / dl.area(),
		DirectionPDF: cosTheta / math.Pi,
	}
}

func (dl *DiskAreaLight) EmissionPDF(_ core.Vec3, direction core.Vec3) float64 {
	cosTheta := dl.Normal.Dot(direction)
	if cosTheta <= 0 {
		return 0
	}
	return 1.0 / dl.area()
}

// Emit returns the disk's radiance when hit from the front, zero otherwise.
func (dl *DiskAreaLight) Emit(ray core.Ray) core.Vec3 {
	if dl.Normal.Dot(ray.Direction) >= 0 {
		return core.Vec3{}
	}
	return dl.Radiance
}
