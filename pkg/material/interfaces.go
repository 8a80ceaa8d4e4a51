// Package material implements the Uber BSDF: a single material type that
// blends Lambertian diffuse, anisotropic GGX glossy reflection, perfect
// specular reflection, and glossy-or-specular transmission under one
// Fresnel-dielectric interface.
package material

import "github.com/lumenrt/lumenrt/pkg/core"

// Flags classifies the lobe a Sample draw came from. Specular* flags mark
// delta lobes: EvaluateBRDF and PDF are zero for those directions almost
// everywhere, so NEE must not attempt to evaluate f at a specularly-bounced
// direction and a BSDF-sampled path through a delta lobe skips MIS weighting.
type Flags uint8

const (
	Diffuse Flags = 1 << iota
	Glossy
	SpecularReflection
	SpecularTransmission
	GlossyTransmission
)

func (f Flags) IsSpecular() bool {
	return f&(SpecularReflection|SpecularTransmission) != 0
}

// Sample is the result of drawing one direction from the material at a
// surface interaction: the new direction, the BSDF value for (wo,wi), the
// PDF consistent with how wi was drawn, and which lobe produced it.
type Sample struct {
	Wi    core.Vec3
	F     core.Vec3
	Pdf   float64
	Flags Flags
}

// Material is the single BSDF contract every surface in the scene uses.
// wo and wi both point away from the surface, in world space.
type Material interface {
	// Sample draws one scattered direction and its paired BSDF/PDF.
	Sample(wo core.Vec3, it *core.Interaction, sampler core.Sampler) (Sample, bool)

	// Evaluate returns f(wo,wi), summed over the material's non-delta
	// lobes only.
	Evaluate(wo, wi core.Vec3, it *core.Interaction) core.Vec3

	// PDF returns the probability density of having sampled wi via
	// Sample, summed over non-delta lobes with the same lobe-selection
	// weights Sample uses.
	PDF(wo, wi core.Vec3, it *core.Interaction) float64
}
