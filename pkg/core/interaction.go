package core

// Interaction records everything shading needs about a ray-scene hit: the
// point, its two normals, the parameterization used for texturing and
// tangent-space normal mapping, and the ray-offset epsilon derived from the
// hit's barycentric error. It is filled in by the intersection oracle and
// consumed by materials, lights, and both integrators.
type Interaction struct {
	Wo   Vec3 // outgoing direction (points back toward the ray origin)
	P    Vec3 // world-space hit point
	UV   Vec2 // texture parameterization

	GeometricNormal Vec3 // always the flat triangle normal
	ShadingNormal   Vec3 // geometric normal perturbed by interpolation / normal map
	Tangent         Vec3
	Binormal        Vec3

	T float64 // ray parameter at the hit

	TraceErrorOffset float64 // per-hit epsilon derived from barycentric error
	ShapeIndex       int     // index into the scene store's shape array
	FrontFace        bool

	Material any // material.Material of the hit shape; typed any to avoid an import cycle
}

// SetFaceNormal orients the geometric normal against the incoming ray and
// records which side was hit. Analytic shapes with no normal interpolation
// set ShadingNormal equal to GeometricNormal; shapes with a custom shading
// normal (meshes, normal-mapped surfaces) overwrite it afterward.
func (it *Interaction) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	it.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if it.FrontFace {
		it.GeometricNormal = outwardNormal
	} else {
		it.GeometricNormal = outwardNormal.Negate()
	}
	it.ShadingNormal = it.GeometricNormal
}

// TangentFrame builds an arbitrary tangent/binormal pair perpendicular to n,
// for shapes with no intrinsic UV-derived tangent.
func TangentFrame(n Vec3) (tangent, binormal Vec3) {
	return orthonormalBasis(n)
}

// OffsetOrigin returns a ray origin nudged along the geometric normal, signed
// to land on the same side as dir, using max(TraceOffset, TraceErrorOffset).
func (it *Interaction) OffsetOrigin(dir Vec3) Vec3 {
	offset := TraceOffset
	if it.TraceErrorOffset > offset {
		offset = it.TraceErrorOffset
	}
	n := it.GeometricNormal
	if n.Dot(dir) < 0 {
		n = n.Negate()
	}
	return it.P.Add(n.Multiply(offset))
}

// SpawnRay builds a ray leaving this interaction along dir, offset to avoid
// self-intersection with the originating triangle.
func (it *Interaction) SpawnRay(dir Vec3) Ray {
	return Ray{Origin: it.OffsetOrigin(dir), Direction: dir}
}

// SpawnRayTo builds a shadow ray toward a light sample at distance dist along
// wi, shortened by the offset on both ends so it doesn't re-hit either surface.
func (it *Interaction) SpawnRayTo(wi Vec3, dist float64) (Ray, float64) {
	offset := TraceOffset
	if it.TraceErrorOffset > offset {
		offset = it.TraceErrorOffset
	}
	return Ray{Origin: it.OffsetOrigin(wi), Direction: wi}, dist - 2*offset
}
