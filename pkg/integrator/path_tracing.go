package integrator

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/geometry"
	"github.com/lumenrt/lumenrt/pkg/lights"
	"github.com/lumenrt/lumenrt/pkg/material"
	"github.com/lumenrt/lumenrt/pkg/scene"
)

// PathTracingIntegrator is a unidirectional path tracer that follows one
// camera ray per Li call: each bounce issues one single-ray
// IntersectionOracle query (rays of different pixels are not batched
// together), direct lighting is
// estimated with next-event estimation against the scene's LightSampler,
// and the NEE and BSDF-sampling strategies are combined with the power
// heuristic so neither technique's variance dominates the other's blind
// spot (small bright lights vs. glossy BSDFs). Paths are cut short by
// Russian roulette once they're long enough that further bounces carry
// little remaining throughput.
type PathTracingIntegrator struct {
	MaxDepth                  int
	RussianRouletteMinBounces int
}

// NewPathTracingIntegrator creates a path tracer bounded by config's
// MaxDepth, with Russian roulette eligible starting at
// RussianRouletteMinBounces.
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{MaxDepth: config.MaxDepth, RussianRouletteMinBounces: config.RussianRouletteMinBounces}
}

// lightIndexOf linearly scans sc.Lights for l's position, needed to weigh a
// BSDF-sampled path that happens to land on a light against the choice
// probability LightSampler assigned it during NEE.
func lightIndexOf(sc *scene.Scene, l lights.Light) int {
	for i, candidate := range sc.Lights {
		if candidate == l {
			return i
		}
	}
	return -1
}

// Li traces ray through sc, accumulating radiance via alternating NEE and
// BSDF sampling steps. It never emits splats: unidirectional path tracing
// only ever contributes to the pixel its camera ray was shot through.
func (pt *PathTracingIntegrator) Li(ray core.Ray, sc *scene.Scene, sampler core.Sampler) (core.Vec3, []Splat) {
	L := core.Vec3{}
	beta := core.NewVec3(1, 1, 1)

	// Every contribution added to L is capped componentwise at
	// core.MaxAllowedRadiance to suppress fireflies.
	clampRadiance := func(c core.Vec3) core.Vec3 {
		return core.NewVec3(math.Min(c.X, core.MaxAllowedRadiance), math.Min(c.Y, core.MaxAllowedRadiance), math.Min(c.Z, core.MaxAllowedRadiance))
	}

	currentRay := ray
	specularBounce := true
	bsdfPdf := 0.0
	var prevInteraction *core.Interaction

	for depth := 0; depth < pt.MaxDepth; depth++ {
		hits := sc.Oracle.QueryIntersection([]geometry.RayQuery{
			{Ray: currentRay, TMin: core.TraceOffset, TMax: core.MaxTraceDistance},
		})
		hit := hits[0]

		if hit.Interaction == nil {
			L = L.Add(clampRadiance(beta.MultiplyVec(sc.Background(currentRay))))
			break
		}

		it := hit.Interaction
		mat, _ := it.Material.(material.Material)

		if light, ok := sc.LightForMaterial[mat]; ok {
			emitted := light.Emit(currentRay)
			if !emitted.IsZero() {
				if specularBounce {
					L = L.Add(clampRadiance(beta.MultiplyVec(emitted)))
				} else {
					lightPdf := 0.0
					if idx := lightIndexOf(sc, light); idx >= 0 {
						choicePdf := sc.LightSampler.GetLightProbability(idx, prevInteraction.P, prevInteraction.ShadingNormal)
						areaPdf := light.PDF(prevInteraction.P, prevInteraction.ShadingNormal, currentRay.Direction)
						lightPdf = choicePdf * areaPdf
					}
					weight := core.PowerHeuristic(1, bsdfPdf, 1, lightPdf)
					L = L.Add(clampRadiance(beta.MultiplyVec(emitted).Multiply(weight)))
				}
			}
		}

		if depth+1 >= pt.MaxDepth {
			break
		}

		L = L.Add(clampRadiance(pt.sampleDirectLight(sc, it, mat, sampler, beta)))

		sample, ok := mat.Sample(it.Wo, it, sampler)
		if !ok || sample.Pdf <= 0 || sample.F.IsZero() {
			break
		}

		cosTheta := math.Abs(sample.Wi.Dot(it.ShadingNormal))
		beta = beta.MultiplyVec(sample.F).Multiply(cosTheta / sample.Pdf)
		specularBounce = sample.Flags.IsSpecular()
		bsdfPdf = sample.Pdf
		prevInteraction = it
		currentRay = it.SpawnRay(sample.Wi)

		if depth >= pt.RussianRouletteMinBounces {
			survival := math.Min(0.95, math.Max(0.05, max(beta.X, beta.Y, beta.Z)))
			if sampler.Get1D() > survival {
				break
			}
			beta = beta.Multiply(1.0 / survival)
		}
	}

	return L, nil
}

// sampleDirectLight performs one next-event-estimation shadow-ray test
// against a light drawn from sc.LightSampler, weighted against the BSDF's
// own PDF at the sampled direction via the power heuristic. Delta lights
// (point, directional) skip MIS entirely since no BSDF sample can ever land
// on them.
func (pt *PathTracingIntegrator) sampleDirectLight(sc *scene.Scene, it *core.Interaction, mat material.Material, sampler core.Sampler, beta core.Vec3) core.Vec3 {
	if sc.LightSampler == nil || sc.LightSampler.GetLightCount() == 0 {
		return core.Vec3{}
	}

	light, choicePdf, lightIdx := sc.LightSampler.SampleLight(it.P, it.ShadingNormal, sampler.Get1D())
	if light == nil || choicePdf <= 0 {
		return core.Vec3{}
	}

	ls := light.Sample(it.P, it.ShadingNormal, sampler.Get2D())
	if ls.PDF <= 0 || ls.Emission.IsZero() {
		return core.Vec3{}
	}

	f := mat.Evaluate(it.Wo, ls.Direction, it).Multiply(math.Abs(ls.Direction.Dot(it.ShadingNormal)))
	if f.IsZero() {
		return core.Vec3{}
	}

	shadowRay, dist := it.SpawnRayTo(ls.Direction, ls.Distance)
	occluded := sc.Oracle.QueryOcclusion([]geometry.RayQuery{
		{Ray: shadowRay, TMin: core.TraceOffset, TMax: dist - core.TraceOffset},
	})
	if occluded[0] {
		return core.Vec3{}
	}

	lightPdf := choicePdf * ls.PDF
	weight := 1.0
	if !light.Flags().IsDelta() {
		bsdfPdf := mat.PDF(it.Wo, ls.Direction, it)
		weight = core.PowerHeuristic(1, lightPdf, 1, bsdfPdf)
	}
	_ = lightIdx

	return beta.MultiplyVec(f).MultiplyVec(ls.Emission).Multiply(weight / lightPdf)
}
