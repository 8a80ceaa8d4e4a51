package material

import "github.com/lumenrt/lumenrt/pkg/core"

// NewLambertian builds a pure diffuse Uber: all weight in Kd, every other
// lobe dark.
func NewLambertian(albedo core.Vec3) *Uber {
	return NewUberMaterial(albedo, core.Vec3{}, core.Vec3{}, core.Vec3{}, false, 1, 1, 1, 1)
}

// NewMetal builds a specular/glossy reflector: Fresnel-weighted Kr for a
// mirror (roughness 0) or the glossy GGX lobe for roughness>0, tinted by
// albedo. Metal surfaces are opaque, so Kd/Kt stay dark.
func NewMetal(albedo core.Vec3, roughness float64) *Uber {
	if roughness <= 1e-4 {
		return NewUberMaterial(core.Vec3{}, core.Vec3{}, albedo, core.Vec3{}, false, roughness, roughness, 1, 1)
	}
	return NewUberMaterial(core.Vec3{}, albedo, core.Vec3{}, core.Vec3{}, false, roughness, roughness, 1, 1)
}

// NewDielectric builds a clear refractor: specular reflection plus specular
// transmission, Fresnel-split by ior, no diffuse or glossy component.
func NewDielectric(ior float64) *Uber {
	white := core.NewVec3(1, 1, 1)
	return NewUberMaterial(core.Vec3{}, core.Vec3{}, white, white, false, 1e-5, 1e-5, ior, 1)
}

// NewLayered approximates a coating over a base material by combining their
// Uber lobes: base's Kd/Ks (diffuse/glossy response) under top's Kr/Kt,
// transmission mode, roughness and IOR, at full opacity. Only meaningful
// when both arguments are *Uber; otherwise it returns base unchanged if base
// is *Uber, else a grey Lambertian.
func NewLayered(top, base Material) *Uber {
	topU, topOk := top.(*Uber)
	baseU, baseOk := base.(*Uber)
	if !topOk || !baseOk {
		if baseOk {
			return baseU
		}
		return NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	}
	return NewUberMaterial(
		baseU.Kd, baseU.Ks,
		topU.Kr, topU.Kt, topU.KtGlossy,
		topU.AlphaX, topU.AlphaY, topU.Eta, 1,
	)
}

// NewTexturedLambertian builds a pure diffuse Uber whose reflectance comes
// from tex rather than a constant color.
func NewTexturedLambertian(tex ColorSource) *Uber {
	m := NewLambertian(core.NewVec3(1, 1, 1))
	m.DiffuseTex = tex
	return m
}
