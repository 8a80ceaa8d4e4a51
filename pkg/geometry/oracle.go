package geometry

import "github.com/lumenrt/lumenrt/pkg/core"

// RayQuery bundles a ray with the valid parametric range for one batched
// intersection or occlusion test.
type RayQuery struct {
	Ray  core.Ray
	TMin float64
	TMax float64
}

// Hit is one QueryIntersection result. ShapeIndex is -1 when the ray missed
// or its closest intersection fell beyond TMax.
type Hit struct {
	ShapeIndex  int
	Interaction *core.Interaction
}

// IntersectionOracle is the closest-hit/occlusion contract the integrators
// trace rays through, batched per bounce rather than per pixel so a whole
// wavefront stage issues one call.
type IntersectionOracle interface {
	QueryIntersection(queries []RayQuery) []Hit
	QueryOcclusion(queries []RayQuery) []bool
}

// bvhOracle adapts a BVH to IntersectionOracle. ShapeIndex is always 0 since
// BVH.Hit resolves directly to the closest Interaction without exposing the
// leaf shape's position in the original build list.
type bvhOracle struct {
	bvh *BVH
}

// NewOracle wraps bvh as an IntersectionOracle.
func NewOracle(bvh *BVH) IntersectionOracle {
	return &bvhOracle{bvh: bvh}
}

func (o *bvhOracle) QueryIntersection(queries []RayQuery) []Hit {
	hits := make([]Hit, len(queries))
	for i, q := range queries {
		interaction, ok := o.bvh.Hit(q.Ray, q.TMin, q.TMax)
		if !ok {
			hits[i] = Hit{ShapeIndex: -1}
			continue
		}
		hits[i] = Hit{ShapeIndex: 0, Interaction: interaction}
	}
	return hits
}

func (o *bvhOracle) QueryOcclusion(queries []RayQuery) []bool {
	occluded := make([]bool, len(queries))
	for i, q := range queries {
		_, ok := o.bvh.Hit(q.Ray, q.TMin, q.TMax)
		occluded[i] = ok
	}
	return occluded
}
