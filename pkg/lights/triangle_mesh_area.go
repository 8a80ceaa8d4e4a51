package lights

import (
	"math"
	"sort"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// TriangleMeshAreaLight turns an emissive mesh into a single light: every
// triangle shares one radiance value and is sampled in proportion to its
// area via a precomputed per-triangle CDF, so the effective position PDF
// over the whole mesh collapses to a constant 1/totalArea.
type TriangleMeshAreaLight struct {
	Vertices [][3]core.Vec3 // one vertex triple per triangle, world space
	Normals  []core.Vec3    // one geometric normal per triangle

	areas      []float64
	cdf        []float64 // cdf[i] = sum of areas[0..i] / totalArea
	totalArea  float64
	Radiance   core.Vec3
	shapeIndex int
}

// NewTriangleMeshAreaLight builds the per-triangle area table from the given
// triangle vertex triples.
func NewTriangleMeshAreaLight(vertices [][3]core.Vec3, radiance core.Vec3, shapeIndex int) *TriangleMeshAreaLight {
	n := len(vertices)
	normals := make([]core.Vec3, n)
	areas := make([]float64, n)
	cdf := make([]float64, n)
	total := 0.0
	for i, tri := range vertices {
		e1 := tri[1].Subtract(tri[0])
		e2 := tri[2].Subtract(tri[0])
		cr := e1.Cross(e2)
		area := 0.5 * cr.Length()
		normals[i] = cr.Normalize()
		areas[i] = area
		total += area
		cdf[i] = total
	}
	if total > 0 {
		for i := range cdf {
			cdf[i] /= total
		}
	}
	return &TriangleMeshAreaLight{
		Vertices: vertices, Normals: normals,
		areas: areas, cdf: cdf, totalArea: total,
		Radiance: radiance, shapeIndex: shapeIndex,
	}
}

func (ml *TriangleMeshAreaLight) Type() LightType { return LightTypeMeshArea }
func (ml *TriangleMeshAreaLight) Flags() Flags    { return AreaFlag }
func (ml *TriangleMeshAreaLight) ShapeIndex() int { return ml.shapeIndex }

// pickTriangle locates the CDF bin containing u and remaps the leftover
// entropy to [0,1) so it can be reused as barycentric-sampling input
// instead of spending a fresh random number on the discrete choice.
func (ml *TriangleMeshAreaLight) pickTriangle(u float64) (idx int, remapped float64) {
	idx = sort.SearchFloat64s(ml.cdf, u)
	if idx >= len(ml.cdf) {
		idx = len(ml.cdf) - 1
	}
	lo := 0.0
	if idx > 0 {
		lo = ml.cdf[idx-1]
	}
	hi := ml.cdf[idx]
	if hi <= lo {
		return idx, 0
	}
	return idx, (u - lo) / (hi - lo)
}

// sqrtBarycentric maps two uniform variates to a uniformly distributed
// barycentric coordinate via the standard sqrt(u) construction.
func sqrtBarycentric(u, v float64) (b0, b1 float64) {
	su := math.Sqrt(u)
	return 1 - su, v * su
}

func (ml *TriangleMeshAreaLight) pointAt(idx int, b0, b1 float64) core.Vec3 {
	tri := ml.Vertices[idx]
	b2 := 1 - b0 - b1
	return tri[0].Multiply(b0).Add(tri[1].Multiply(b1)).Add(tri[2].Multiply(b2))
}

func (ml *TriangleMeshAreaLight) Sample(point, _ core.Vec3, sample core.Vec2) LightSample {
	if ml.totalArea <= 0 {
		return LightSample{}
	}
	idx, remU := ml.pickTriangle(sample.X)
	b0, b1 := sqrtBarycentric(remU, sample.Y)
	samplePoint := ml.pointAt(idx, b0, b1)
	normal := ml.Normals[idx]

	toLight := samplePoint.Subtract(point)
	distSq := toLight.LengthSquared()
	if distSq < 1e-12 {
		return LightSample{Point: samplePoint, Normal: normal, PDF: 0}
	}
	dist := math.Sqrt(distSq)
	dir := toLight.Multiply(1 / dist)
	cosTheta := normal.Dot(dir.Negate())
	if cosTheta <= 1e-6 {
		return LightSample{Point: samplePoint, Normal: normal, Direction: dir, Distance: dist, PDF: 0}
	}

	pdf := distSq / (ml.totalArea * cosTheta)
	return LightSample{
		Point: samplePoint, Normal: normal, Direction: dir, Distance: dist,
		Emission: ml.Radiance, PDF: pdf,
	}
}

// intersect finds the closest triangle the ray hits, used by PDF to convert
// a BSDF-sampled direction back to the mesh's area PDF.
func (ml *TriangleMeshAreaLight) intersect(ray core.Ray) (idx int, t float64, hit bool) {
	best := math.Inf(1)
	bestIdx := -1
	for i, tri := range ml.Vertices {
		e1 := tri[1].Subtract(tri[0])
		e2 := tri[2].Subtract(tri[0])
		pvec := ray.Direction.Cross(e2)
		det := e1.Dot(pvec)
		if math.Abs(det) < 1e-10 {
			continue
		}
		invDet := 1 / det
		tvec := ray.Origin.Subtract(tri[0])
		u := tvec.Dot(pvec) * invDet
		if u < 0 || u > 1 {
			continue
		}
		qvec := tvec.Cross(e1)
		v := ray.Direction.Dot(qvec) * invDet
		if v < 0 || u+v > 1 {
			continue
		}
		tHit := e2.Dot(qvec) * invDet
		if tHit > 1e-6 && tHit < best {
			best = tHit
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return -1, 0, false
	}
	return bestIdx, best, true
}

func (ml *TriangleMeshAreaLight) PDF(point, _, direction core.Vec3) float64 {
	if ml.totalArea <= 0 {
		return 0
	}
	idx, t, hit := ml.intersect(core.Ray{Origin: point, Direction: direction})
	if !hit {
		return 0
	}
	cosTheta := ml.Normals[idx].Dot(direction.Negate())
	if cosTheta <= 1e-6 {
		return 0
	}
	return (t * t) / (ml.totalArea * cosTheta)
}

func (ml *TriangleMeshAreaLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	if ml.totalArea <= 0 {
		return EmissionSample{}
	}
	idx, remU := ml.pickTriangle(samplePoint.X)
	b0, b1 := sqrtBarycentric(remU, samplePoint.Y)
	point := ml.pointAt(idx, b0, b1)
	normal := ml.Normals[idx]
	dir := core.RandomCosineDirection(normal, sampleDirection)
	cosTheta := normal.Dot(dir)
	return EmissionSample{
		Point: point, Normal: normal, Direction: dir,
		Emission: ml.Radiance, AreaPDF: 1.0 / ml.totalArea, DirectionPDF: cosTheta / math.Pi,
	}
}

// EmissionPDF reports the constant area PDF 1/totalArea for a point on the
// mesh. Neither point nor direction is consulted, so no facing test against
// the emitting side is made here.
func (ml *TriangleMeshAreaLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if ml.totalArea <= 0 {
		return 0
	}
	return 1.0 / ml.totalArea
}

// Emit returns the mesh's radiance for front-facing hits. It intersects the
// ray against the mesh's own triangles to find the one it strikes and tests
// that triangle's normal; a ray that misses every triangle gets zero.
func (ml *TriangleMeshAreaLight) Emit(ray core.Ray) core.Vec3 {
	idx, _, hit := ml.intersect(ray)
	if !hit {
		return core.Vec3{}
	}
	if ml.Normals[idx].Dot(ray.Direction) >= 0 {
		return core.Vec3{}
	}
	return ml.Radiance
}
