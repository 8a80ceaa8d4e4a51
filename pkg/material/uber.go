package material

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// Uber is the sum of four lobes sharing one opacity multiplier: Lambertian
// diffuse, anisotropic-GGX glossy reflection, perfect specular reflection,
// and transmission (glossy GGX or perfect specular, selected by KtGlossy).
type Uber struct {
	Kd core.Vec3 // diffuse reflectance
	Ks core.Vec3 // glossy reflectance
	Kr core.Vec3 // specular reflectance
	Kt core.Vec3 // transmission color

	KtGlossy bool // Kt.w >= 0.5 in the packed spec representation

	AlphaX, AlphaY float64 // anisotropic GGX roughness, clamped >= 1e-5
	Eta            float64 // index of refraction, [1,6]
	Opacity        float64 // [0,1], multiplies every lobe

	DiffuseTex   ColorSource
	GlossTex     ColorSource
	SpecularTex  ColorSource
	TransTex     ColorSource
	NormalMapTex ColorSource // tangent-space normal perturbation, nil if absent
}

// NewUberMaterial builds an Uber material, clamping parameters to the
// ranges the shading math assumes.
func NewUberMaterial(kd, ks, kr, kt core.Vec3, ktGlossy bool, alphaX, alphaY, eta, opacity float64) *Uber {
	return &Uber{
		Kd: kd, Ks: ks, Kr: kr, Kt: kt, KtGlossy: ktGlossy,
		AlphaX:  math.Max(1e-5, alphaX),
		AlphaY:  math.Max(1e-5, alphaY),
		Eta:     math.Max(1, math.Min(6, eta)),
		Opacity: math.Max(0, math.Min(1, opacity)),
	}
}

func (u *Uber) diffuse(uv core.Vec2, p core.Vec3) core.Vec3 {
	if u.DiffuseTex != nil {
		return u.Kd.MultiplyVec(u.DiffuseTex.Evaluate(uv, p))
	}
	return u.Kd
}

func (u *Uber) glossy(uv core.Vec2, p core.Vec3) core.Vec3 {
	if u.GlossTex != nil {
		return u.Ks.MultiplyVec(u.GlossTex.Evaluate(uv, p))
	}
	return u.Ks
}

func (u *Uber) specular(uv core.Vec2, p core.Vec3) core.Vec3 {
	if u.SpecularTex != nil {
		return u.Kr.MultiplyVec(u.SpecularTex.Evaluate(uv, p))
	}
	return u.Kr
}

func (u *Uber) transmission(uv core.Vec2, p core.Vec3) core.Vec3 {
	if u.TransTex != nil {
		return u.Kt.MultiplyVec(u.TransTex.Evaluate(uv, p))
	}
	return u.Kt
}

// lobeWeights returns the four lobe-selection probabilities, normalized to
// sum to 1. A surface with zero reflectance across all lobes is treated as
// purely absorbing (ok=false): the caller kills the path.
func lobeWeights(kd, ks, kr, kt core.Vec3) (pD, pG, pSR, pT float64, ok bool) {
	pD = kd.Luminance()
	pG = ks.Luminance()
	pSR = kr.Luminance()
	pT = kt.Luminance()
	sum := pD + pG + pSR + pT
	if sum < 1e-8 {
		return 0, 0, 0, 0, false
	}
	inv := 1 / sum
	return pD * inv, pG * inv, pSR * inv, pT * inv, true
}

// shadingFrame returns the local basis at the interaction, normal-map
// perturbed. Only the shading normal is ever perturbed; the geometric
// normal used for ray offsetting is untouched.
func (u *Uber) shadingFrame(it *core.Interaction) (t, b, n core.Vec3) {
	n = it.ShadingNormal
	t = it.Tangent
	b = it.Binormal
	if u.NormalMapTex == nil {
		return t, b, n
	}
	tex := u.NormalMapTex.Evaluate(it.UV, it.P)
	// Tangent-space normal map: tex in [0,1]^3 maps to [-1,1]^3.
	local := core.Vec3{X: 2*tex.X - 1, Y: 2*tex.Y - 1, Z: 2*tex.Z - 1}
	n = t.Multiply(local.X).Add(b.Multiply(local.Y)).Add(n.Multiply(local.Z)).Normalize()
	t = t.Subtract(n.Multiply(n.Dot(t))).Normalize()
	b = n.Cross(t)
	return t, b, n
}

func toLocal(w, t, b, n core.Vec3) core.Vec3 {
	return core.Vec3{X: w.Dot(t), Y: w.Dot(b), Z: w.Dot(n)}
}

func toWorld(wLocal, t, b, n core.Vec3) core.Vec3 {
	return t.Multiply(wLocal.X).Add(b.Multiply(wLocal.Y)).Add(n.Multiply(wLocal.Z))
}

// Sample draws one lobe with a single uniform, then samples that lobe.
func (u *Uber) Sample(wo core.Vec3, it *core.Interaction, sampler core.Sampler) (Sample, bool) {
	kd := u.diffuse(it.UV, it.P)
	ks := u.glossy(it.UV, it.P)
	kr := u.specular(it.UV, it.P)
	kt := u.transmission(it.UV, it.P)

	pD, pG, pSR, pT, ok := lobeWeights(kd, ks, kr, kt)
	if !ok {
		return Sample{}, false
	}

	t, b, n := u.shadingFrame(it)
	woLocal := toLocal(wo, t, b, n)
	if woLocal.Z == 0 {
		return Sample{}, false
	}

	lobeU := sampler.Get1D()
	u2 := sampler.Get2D()

	switch {
	case lobeU < pD:
		return u.sampleDiffuse(woLocal, t, b, n, kd, u2, pD, pG, pSR, pT)
	case lobeU < pD+pG:
		return u.sampleGlossy(woLocal, t, b, n, ks, u2, pD, pG, pSR, pT)
	case lobeU < pD+pG+pSR:
		return u.sampleSpecularReflection(woLocal, t, b, n, kr, pSR)
	default:
		return u.sampleTransmission(woLocal, t, b, n, kt, u2, pT)
	}
}

func (u *Uber) sampleDiffuse(woLocal, t, b, n core.Vec3, kd core.Vec3, u2 core.Vec2, pD, pG, pSR, pT float64) (Sample, bool) {
	if woLocal.Z <= 0 {
		return Sample{}, false
	}
	wiLocal := core.RandomCosineDirection(core.Vec3{X: 0, Y: 0, Z: 1}, u2)
	wi := toWorld(wiLocal, t, b, n)
	cosTheta := wiLocal.Z
	f := kd.Multiply(u.Opacity / math.Pi)
	pdf := pD * cosTheta / math.Pi
	pdf += u.glossyPdf(woLocal, wiLocal) * pG
	return Sample{Wi: wi, F: f, Pdf: pdf, Flags: Diffuse}, pdf > 0
}

func (u *Uber) glossyPdf(woLocal, wiLocal core.Vec3) float64 {
	if woLocal.Z*wiLocal.Z <= 0 {
		return 0
	}
	wh := woLocal.Add(wiLocal).Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	return core.GGXPDF(woLocal, wh, u.AlphaX, u.AlphaY) / (4 * math.Abs(woLocal.Dot(wh)))
}

func (u *Uber) sampleGlossy(woLocal, t, b, n core.Vec3, ks core.Vec3, u2 core.Vec2, pD, pG, pSR, pT float64) (Sample, bool) {
	if woLocal.Z <= 0 {
		return Sample{}, false
	}
	wh := core.SampleGGXVisibleNormal(woLocal, u.AlphaX, u.AlphaY, u2)
	wiLocal := reflectLocal(woLocal, wh)
	if wiLocal.Z <= 0 {
		return Sample{}, false
	}
	wi := toWorld(wiLocal, t, b, n)
	f := u.evaluateGlossyLocal(woLocal, wiLocal, ks)
	pdf := pG*u.glossyPdf(woLocal, wiLocal) + pD*wiLocal.Z/math.Pi
	return Sample{Wi: wi, F: f, Pdf: pdf, Flags: Glossy}, pdf > 0
}

func reflectLocal(w, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * w.Dot(n)).Subtract(w)
}

func (u *Uber) evaluateGlossyLocal(woLocal, wiLocal, ks core.Vec3) core.Vec3 {
	cosO := math.Abs(woLocal.Z)
	cosI := math.Abs(wiLocal.Z)
	if cosO < 1e-6 || cosI < 1e-6 {
		return core.Vec3{}
	}
	wh := woLocal.Add(wiLocal)
	if wh.LengthSquared() < 1e-12 {
		return core.Vec3{}
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	d := core.GGXDistribution(wh, u.AlphaX, u.AlphaY)
	g := core.GGXSmithG(woLocal, wiLocal, u.AlphaX, u.AlphaY)
	fr := core.FresnelDielectric(woLocal.Dot(wh), u.Eta)
	scale := u.Opacity * d * g * fr / (4 * cosO * cosI)
	return ks.Multiply(scale)
}

func (u *Uber) sampleSpecularReflection(woLocal, t, b, n core.Vec3, kr core.Vec3, pSR float64) (Sample, bool) {
	if woLocal.Z == 0 {
		return Sample{}, false
	}
	wiLocal := core.Vec3{X: -woLocal.X, Y: -woLocal.Y, Z: woLocal.Z}
	wi := toWorld(wiLocal, t, b, n)
	fr := core.FresnelDielectric(woLocal.Z, u.Eta)
	f := kr.Multiply(u.Opacity * fr / math.Abs(wiLocal.Z))
	return Sample{Wi: wi, F: f, Pdf: pSR, Flags: SpecularReflection}, true
}

func (u *Uber) sampleTransmission(woLocal, t, b, n core.Vec3, kt core.Vec3, u2 core.Vec2, pT float64) (Sample, bool) {
	if u.KtGlossy {
		return u.sampleGlossyTransmission(woLocal, t, b, n, kt, u2, pT)
	}
	return u.sampleSpecularTransmission(woLocal, t, b, n, kt, pT)
}

func (u *Uber) sampleSpecularTransmission(woLocal, t, b, n core.Vec3, kt core.Vec3, pT float64) (Sample, bool) {
	entering := woLocal.Z > 0
	eta := u.Eta
	normal := core.Vec3{X: 0, Y: 0, Z: 1}
	if !entering {
		eta = 1 / eta
		normal = normal.Negate()
	}
	wtLocal, ok := core.Refract(woLocal, normal, eta)
	if !ok {
		return Sample{}, false
	}
	fr := core.FresnelDielectric(woLocal.Z, u.Eta)
	wi := toWorld(wtLocal, t, b, n)
	transmittance := 1 - fr
	f := kt.Multiply(u.Opacity * transmittance / math.Abs(wtLocal.Z))
	return Sample{Wi: wi, F: f, Pdf: pT, Flags: SpecularTransmission}, true
}

func (u *Uber) sampleGlossyTransmission(woLocal, t, b, n core.Vec3, kt core.Vec3, u2 core.Vec2, pT float64) (Sample, bool) {
	entering := woLocal.Z > 0
	whLocal := core.SampleGGXVisibleNormal(woLocal, u.AlphaX, u.AlphaY, u2)
	eta := u.Eta
	normal := whLocal
	if !entering {
		eta = 1 / eta
		normal = normal.Negate()
	}
	wtLocal, ok := core.Refract(woLocal, normal, eta)
	if !ok {
		return Sample{}, false
	}
	wi := toWorld(wtLocal, t, b, n)
	f := u.evaluateGlossyTransmissionLocal(woLocal, wtLocal, kt)
	pdf := pT * u.glossyTransmissionPdf(woLocal, wtLocal)
	return Sample{Wi: wi, F: f, Pdf: pdf, Flags: GlossyTransmission}, pdf > 0
}

func (u *Uber) glossyTransmissionPdf(woLocal, wiLocal core.Vec3) float64 {
	if woLocal.Z*wiLocal.Z >= 0 {
		return 0
	}
	eta := u.Eta
	if woLocal.Z <= 0 {
		eta = 1 / eta
	}
	wh := woLocal.Add(wiLocal.Multiply(eta)).Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	denom := woLocal.Dot(wh) + eta*wiLocal.Dot(wh)
	if math.Abs(denom) < 1e-9 {
		return 0
	}
	// Refraction Jacobian dwh/dwi turns the microfacet density into one over wi.
	return core.GGXPDF(woLocal, wh, u.AlphaX, u.AlphaY) * eta * eta * math.Abs(wiLocal.Dot(wh)) / (denom * denom)
}

func (u *Uber) evaluateGlossyTransmissionLocal(woLocal, wiLocal, kt core.Vec3) core.Vec3 {
	if woLocal.Z*wiLocal.Z >= 0 {
		return core.Vec3{}
	}
	eta := u.Eta
	if woLocal.Z <= 0 {
		eta = 1 / eta
	}
	wh := woLocal.Add(wiLocal.Multiply(eta))
	if wh.LengthSquared() < 1e-12 {
		return core.Vec3{}
	}
	wh = wh.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	cosO := woLocal.Dot(wh)
	cosI := wiLocal.Dot(wh)
	d := core.GGXDistribution(wh, u.AlphaX, u.AlphaY)
	g := core.GGXSmithG(woLocal, wiLocal, u.AlphaX, u.AlphaY)
	fr := core.FresnelDielectric(cosO, u.Eta)
	denom := cosO + eta*cosI
	if math.Abs(denom) < 1e-9 {
		return core.Vec3{}
	}
	factor := math.Abs(cosI*cosO/(woLocal.Z*wiLocal.Z)) * eta * eta * (1 - fr) * d * g / (denom * denom)
	return kt.Multiply(u.Opacity * factor)
}

// Evaluate sums the non-delta lobes (diffuse + glossy + glossy
// transmission). Perfect-specular lobes have zero measure and never
// contribute here.
func (u *Uber) Evaluate(wo, wi core.Vec3, it *core.Interaction) core.Vec3 {
	t, b, n := u.shadingFrame(it)
	woLocal := toLocal(wo, t, b, n)
	wiLocal := toLocal(wi, t, b, n)

	var f core.Vec3
	if woLocal.Z*wiLocal.Z > 0 {
		kd := u.diffuse(it.UV, it.P)
		if kd.Luminance() > 0 {
			f = f.Add(kd.Multiply(u.Opacity / math.Pi))
		}
		ks := u.glossy(it.UV, it.P)
		if ks.Luminance() > 0 {
			f = f.Add(u.evaluateGlossyLocal(woLocal, wiLocal, ks))
		}
	} else if u.KtGlossy {
		kt := u.transmission(it.UV, it.P)
		if kt.Luminance() > 0 {
			f = f.Add(u.evaluateGlossyTransmissionLocal(woLocal, wiLocal, kt))
		}
	}
	return f
}

// PDF sums the sampled-lobe-consistent PDF over the same non-delta lobes
// and weights Sample used to pick among them.
func (u *Uber) PDF(wo, wi core.Vec3, it *core.Interaction) float64 {
	kd := u.diffuse(it.UV, it.P)
	ks := u.glossy(it.UV, it.P)
	kr := u.specular(it.UV, it.P)
	kt := u.transmission(it.UV, it.P)
	pD, pG, _, pT, ok := lobeWeights(kd, ks, kr, kt)
	if !ok {
		return 0
	}

	t, b, n := u.shadingFrame(it)
	woLocal := toLocal(wo, t, b, n)
	wiLocal := toLocal(wi, t, b, n)

	pdf := 0.0
	if woLocal.Z*wiLocal.Z > 0 {
		if wiLocal.Z > 0 {
			pdf += pD * wiLocal.Z / math.Pi
		}
		pdf += pG * u.glossyPdf(woLocal, wiLocal)
	} else if u.KtGlossy {
		pdf += pT * u.glossyTransmissionPdf(woLocal, wiLocal)
	}
	return pdf
}
