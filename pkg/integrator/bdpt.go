package integrator

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/geometry"
	"github.com/lumenrt/lumenrt/pkg/lights"
	"github.com/lumenrt/lumenrt/pkg/material"
	"github.com/lumenrt/lumenrt/pkg/scene"
)

// Vertex is one node of a camera or light subpath: either the camera lens, a
// light's emission point, or a surface hit. AreaPdfForward/AreaPdfReverse are
// the densities (converted to area measure) of having generated this vertex
// from its subpath's natural predecessor in each direction, used by
// calculateMISWeight to re-derive the sampling probability of every other
// strategy that could have produced the same combined path.
type Vertex struct {
	Point       core.Vec3
	Normal      core.Vec3
	Light       lights.Light
	LightIndex  int
	Material    material.Material
	Interaction *core.Interaction

	IncomingDirection core.Vec3

	AreaPdfForward float64
	AreaPdfReverse float64

	IsLight    bool
	IsCamera   bool
	IsSpecular bool

	Beta         core.Vec3
	EmittedLight core.Vec3
}

// IsOnSurface reports whether the vertex sits on an actual surface (has a
// meaningful shading normal), as opposed to the camera lens or a bare light
// emission point.
func (v *Vertex) IsOnSurface() bool {
	return v.Normal.LengthSquared() > 1e-12
}

// Path is a camera or light subpath generated by a random walk.
type Path struct {
	Vertices []Vertex
	Length   int
}

// BDPTIntegrator implements bidirectional path tracing: a camera subpath and
// a light subpath are both grown by random walk, then every way of
// connecting a prefix of one to a prefix of the other is evaluated as a
// separate sampling strategy and combined with the MIS weight from
// calculateMISWeight. t=1 connections (reconnecting a light subpath vertex
// straight to the lens) splat to whatever pixel that connection lands on
// rather than the pixel the original camera ray came through.
type BDPTIntegrator struct {
	MaxDepth int
}

// NewBDPTIntegrator creates a bidirectional path tracer bounded by config's
// MaxDepth total bounces per combined path.
func NewBDPTIntegrator(config scene.SamplingConfig) *BDPTIntegrator {
	return &BDPTIntegrator{MaxDepth: config.MaxDepth}
}

// Li renders ray via bidirectional path tracing, summing every valid (s,t)
// connection strategy weighted by calculateMISWeight.
func (bdpt *BDPTIntegrator) Li(ray core.Ray, sc *scene.Scene, sampler core.Sampler) (core.Vec3, []Splat) {
	cameraPath := bdpt.generateCameraSubpath(ray, sc, sampler, bdpt.MaxDepth+2)
	lightPath := bdpt.generateLightSubpath(sc, sampler, bdpt.MaxDepth+1)

	L := core.Vec3{}
	var splats []Splat

	for t := 1; t <= cameraPath.Length; t++ {
		for s := 0; s <= lightPath.Length; s++ {
			depth := s + t - 2
			if depth < 0 || depth > bdpt.MaxDepth {
				continue
			}
			if t == 1 && s == 0 {
				continue
			}

			switch {
			case s == 0:
				cv := &cameraPath.Vertices[t-1]
				if !cv.IsLight {
					continue
				}
				weight := bdpt.calculateMISWeight(cameraPath, lightPath, s, t, sc)
				L = L.Add(cv.Beta.MultiplyVec(cv.EmittedLight).Multiply(weight))

			case t == 1:
				lv := &lightPath.Vertices[s-1]
				x, y, contribution, ok := bdpt.connectToCamera(lv, sc, sampler)
				if !ok {
					continue
				}
				weight := bdpt.calculateMISWeight(cameraPath, lightPath, s, t, sc)
				contribution = contribution.Multiply(weight)
				if !contribution.IsZero() {
					splats = append(splats, Splat{X: x, Y: y, Color: contribution})
				}

			default:
				cv := &cameraPath.Vertices[t-1]
				lv := &lightPath.Vertices[s-1]
				contribution := bdpt.evaluateConnection(cv, lv, sc)
				if contribution.IsZero() {
					continue
				}
				weight := bdpt.calculateMISWeight(cameraPath, lightPath, s, t, sc)
				L = L.Add(contribution.Multiply(weight))
			}
		}
	}

	return L, splats
}

// generateCameraSubpath walks from the camera through the scene, recording
// one vertex per bounce up to maxDepth vertices (including the camera vertex
// itself).
func (bdpt *BDPTIntegrator) generateCameraSubpath(ray core.Ray, sc *scene.Scene, sampler core.Sampler, maxDepth int) *Path {
	path := &Path{Vertices: make([]Vertex, 0, maxDepth)}
	if maxDepth < 1 {
		return path
	}

	path.Vertices = append(path.Vertices, Vertex{
		Point:          ray.Origin,
		IsCamera:       true,
		Beta:           core.NewVec3(1, 1, 1),
		AreaPdfForward: 1.0,
	})

	_, dirPdf := sc.Camera.CalculateRayPDFs(ray)
	if dirPdf <= 0 {
		dirPdf = 1.0
	}
	bdpt.randomWalk(sc, ray, core.NewVec3(1, 1, 1), dirPdf, sampler, maxDepth-1, path)
	path.Length = len(path.Vertices)
	return path
}

// generateLightSubpath samples an emission point from the scene's
// LightSampler and walks the resulting ray through the scene, mirroring
// generateCameraSubpath on the light side.
func (bdpt *BDPTIntegrator) generateLightSubpath(sc *scene.Scene, sampler core.Sampler, maxDepth int) *Path {
	path := &Path{}
	if sc.LightSampler == nil || sc.LightSampler.GetLightCount() == 0 || maxDepth < 1 {
		return path
	}

	light, choicePdf, lightIdx := sc.LightSampler.SampleLightEmission(sampler.Get1D())
	if light == nil || choicePdf <= 0 {
		return path
	}

	es := light.SampleEmission(sampler.Get2D(), sampler.Get2D())
	if es.AreaPDF <= 0 || es.DirectionPDF <= 0 {
		return path
	}

	path.Vertices = append(path.Vertices, Vertex{
		Point:          es.Point,
		Normal:         es.Normal,
		Light:          light,
		LightIndex:     lightIdx,
		IsLight:        true,
		Beta:           core.NewVec3(1, 1, 1),
		AreaPdfForward: choicePdf * es.AreaPDF,
	})

	cosTheta := math.Abs(es.Normal.Dot(es.Direction))
	beta := es.Emission.Multiply(cosTheta / (choicePdf * es.AreaPDF * es.DirectionPDF))

	emitRay := core.NewRay(es.Point, es.Direction)
	bdpt.randomWalk(sc, emitRay, beta, es.DirectionPDF, sampler, maxDepth-1, path)
	path.Length = len(path.Vertices)
	return path
}

// randomWalk extends path by tracing currentRay through the scene, appending
// one vertex per surface hit and back-filling the predecessor's
// AreaPdfReverse once the outgoing BSDF sample is known. It stops at
// maxBounces, on escape to the background (no Light backs the gradient sky,
// so no vertex is recorded for it), or when Russian roulette kills the walk.
func (bdpt *BDPTIntegrator) randomWalk(sc *scene.Scene, ray core.Ray, beta core.Vec3, pdfFwd float64, sampler core.Sampler, maxBounces int, path *Path) {
	currentRay := ray
	currentPdfFwd := pdfFwd

	for depth := 0; depth < maxBounces; depth++ {
		if beta.IsZero() {
			return
		}

		hits := sc.Oracle.QueryIntersection([]geometry.RayQuery{
			{Ray: currentRay, TMin: core.TraceOffset, TMax: core.MaxTraceDistance},
		})
		hit := hits[0]
		if hit.Interaction == nil {
			return
		}

		it := hit.Interaction
		mat, _ := it.Material.(material.Material)
		prev := &path.Vertices[len(path.Vertices)-1]

		areaPdfFwd := solidAngleToArea(prev.Point, it.P, it.ShadingNormal, currentPdfFwd)

		vtx := Vertex{
			Point:             it.P,
			Normal:            it.ShadingNormal,
			Material:          mat,
			Interaction:       it,
			IncomingDirection: it.Wo,
			Beta:              beta,
			AreaPdfForward:    areaPdfFwd,
		}
		if light, ok := sc.LightForMaterial[mat]; ok {
			vtx.IsLight = true
			vtx.Light = light
			vtx.LightIndex = lightIndexOf(sc, light)
			vtx.EmittedLight = light.Emit(currentRay)
		}

		path.Vertices = append(path.Vertices, vtx)
		curIdx := len(path.Vertices) - 1
		// append may have moved the backing array; re-take the predecessor.
		prev = &path.Vertices[curIdx-1]

		if mat == nil {
			return
		}
		sample, ok := mat.Sample(it.Wo, it, sampler)
		if !ok || sample.Pdf <= 0 || sample.F.IsZero() {
			return
		}

		revPdf := mat.PDF(sample.Wi, it.Wo, it)
		prev.AreaPdfReverse = solidAngleToArea(it.P, prev.Point, prev.Normal, revPdf)

		cosTheta := math.Abs(sample.Wi.Dot(it.ShadingNormal))
		beta = beta.MultiplyVec(sample.F).Multiply(cosTheta / sample.Pdf)
		path.Vertices[curIdx].IsSpecular = sample.Flags.IsSpecular()

		if depth >= 3 {
			survival := math.Min(0.95, math.Max(0.05, beta.Luminance()))
			if sampler.Get1D() > survival {
				return
			}
			beta = beta.Multiply(1.0 / survival)
		}

		currentPdfFwd = sample.Pdf
		currentRay = it.SpawnRay(sample.Wi)
	}
}

// evaluateConnection computes the unweighted radiance contribution of
// directly connecting camera subpath vertex cv to light subpath vertex lv,
// including the shadow-ray visibility test. Connections through a specular
// vertex are zero since a specular BSDF has no defined value off its single
// sampled direction.
func (bdpt *BDPTIntegrator) evaluateConnection(cv, lv *Vertex, sc *scene.Scene) core.Vec3 {
	if cv.IsSpecular || lv.IsSpecular || cv.Material == nil || cv.Interaction == nil {
		return core.Vec3{}
	}

	d := lv.Point.Subtract(cv.Point)
	distSq := d.LengthSquared()
	if distSq <= 1e-12 {
		return core.Vec3{}
	}
	dist := math.Sqrt(distSq)
	dir := d.Multiply(1 / dist)

	fCam := cv.Material.Evaluate(cv.Interaction.Wo, dir, cv.Interaction).Multiply(math.Abs(dir.Dot(cv.Normal)))
	if fCam.IsZero() {
		return core.Vec3{}
	}

	var fLight core.Vec3
	switch {
	case lv.Material != nil && lv.Interaction != nil:
		fLight = lv.Material.Evaluate(lv.Interaction.Wo, dir.Negate(), lv.Interaction).Multiply(math.Abs(dir.Negate().Dot(lv.Normal)))
	case lv.IsLight && lv.Light != nil:
		fLight = lv.Light.Emit(core.Ray{Origin: cv.Point, Direction: dir})
	default:
		return core.Vec3{}
	}
	if fLight.IsZero() {
		return core.Vec3{}
	}

	shadowRay, shadowDist := spawnShadowRay(cv.Point, cv.Normal, dir, dist)
	occluded := sc.Oracle.QueryOcclusion([]geometry.RayQuery{{Ray: shadowRay, TMin: core.TraceOffset, TMax: shadowDist}})
	if occluded[0] {
		return core.Vec3{}
	}

	return cv.Beta.MultiplyVec(fCam).MultiplyVec(fLight).MultiplyVec(lv.Beta).Multiply(1.0 / distSq)
}

// connectToCamera implements the t=1 "light tracing" strategy: lv is
// reconnected directly to a sampled point on the lens instead of a camera
// subpath vertex, and the resulting radiance is destined for whichever pixel
// that connection lands on.
func (bdpt *BDPTIntegrator) connectToCamera(lv *Vertex, sc *scene.Scene, sampler core.Sampler) (int, int, core.Vec3, bool) {
	if lv.IsSpecular {
		return 0, 0, core.Vec3{}, false
	}

	camSample := sc.Camera.SampleCameraFromPoint(lv.Point, sampler.Get2D())
	if camSample == nil || camSample.PDF <= 0 {
		return 0, 0, core.Vec3{}, false
	}
	x, y, ok := sc.Camera.MapRayToPixel(camSample.Ray)
	if !ok {
		return 0, 0, core.Vec3{}, false
	}

	dirToCamera := camSample.Ray.Direction.Negate()

	var f core.Vec3
	switch {
	case lv.Material != nil && lv.Interaction != nil:
		f = lv.Material.Evaluate(lv.Interaction.Wo, dirToCamera, lv.Interaction).Multiply(math.Abs(dirToCamera.Dot(lv.Normal)))
	case lv.IsLight && lv.Light != nil:
		f = lv.Light.Emit(core.Ray{Origin: camSample.Ray.Origin, Direction: camSample.Ray.Direction})
	default:
		return 0, 0, core.Vec3{}, false
	}
	if f.IsZero() {
		return 0, 0, core.Vec3{}, false
	}

	dist := camSample.Ray.Origin.Subtract(lv.Point).Length()
	shadowRay, shadowDist := spawnShadowRay(lv.Point, lv.Normal, dirToCamera, dist)
	occluded := sc.Oracle.QueryOcclusion([]geometry.RayQuery{{Ray: shadowRay, TMin: core.TraceOffset, TMax: shadowDist}})
	if occluded[0] {
		return 0, 0, core.Vec3{}, false
	}

	contribution := lv.Beta.MultiplyVec(f).MultiplyVec(camSample.Weight).Multiply(1.0 / camSample.PDF)
	return x, y, contribution, true
}

// spawnShadowRay offsets a connection ray's origin along the surface normal
// (on whichever side dir departs) to avoid immediate self-intersection, the
// same epsilon convention core.Interaction.SpawnRayTo uses, generalized to
// endpoints that may not carry a full Interaction (the camera lens, a bare
// light-emission point).
func spawnShadowRay(point, normal, dir core.Vec3, dist float64) (core.Ray, float64) {
	offset := normal
	if offset.Dot(dir) < 0 {
		offset = offset.Negate()
	}
	origin := point.Add(offset.Multiply(core.TraceOffset))
	return core.Ray{Origin: origin, Direction: dir}, math.Max(0, dist-2*core.TraceOffset)
}

// solidAngleToArea converts a solid-angle PDF measured at from, for a
// direction toward to, into an area-measure PDF at to. If to isn't on a
// surface (the camera lens or a delta light), the cosine term is omitted.
func solidAngleToArea(from, to, toNormal core.Vec3, pdfSolid float64) float64 {
	if pdfSolid <= 0 {
		return 0
	}
	d := to.Subtract(from)
	distSq := d.LengthSquared()
	if distSq <= 1e-12 {
		return 0
	}
	pdf := pdfSolid / distSq
	if toNormal.LengthSquared() > 1e-12 {
		dir := d.Multiply(1 / math.Sqrt(distSq))
		pdf *= math.Abs(dir.Dot(toNormal))
	}
	return pdf
}
