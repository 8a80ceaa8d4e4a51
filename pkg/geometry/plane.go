package geometry

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3
	Normal   core.Vec3
	Material material.Material
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: mat,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*core.Interaction, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	tangent, binormal := core.TangentFrame(p.Normal)
	hitRecord := &core.Interaction{
		T:        t,
		P:        hitPoint,
		Wo:       ray.Direction.Negate(),
		Material: p.Material,
		Tangent:  tangent,
		Binormal: binormal,
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}

// BoundingBox returns an AABB for the plane. An infinite plane has no finite
// bounds; callers use planes only as unbounded background geometry excluded
// from BVH construction, so this returns a very large but finite box.
func (p *Plane) BoundingBox() AABB {
	const big = 1e6
	return NewAABB(core.NewVec3(-big, -big, -big), core.NewVec3(big, big, big))
}
