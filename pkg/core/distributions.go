package core

import "math"

// orthonormalBasis builds an arbitrary tangent frame around n (Duff et al.'s
// branchless construction), used whenever a sampled direction is generated
// in a local frame and needs to be rotated into world space around a normal.
func orthonormalBasis(n Vec3) (t, b Vec3) {
	sign := math.Copysign(1.0, n.Z)
	a := -1.0 / (sign + n.Z)
	c := n.X * n.Y * a
	t = Vec3{X: 1.0 + sign*n.X*n.X*a, Y: sign * c, Z: -sign * n.X}
	b = Vec3{X: c, Y: sign + n.Y*n.Y*a, Z: -n.Y}
	return t, b
}

// RandomCosineDirection samples a direction in the hemisphere around normal
// with a cosine-weighted distribution (PDF = cosθ/π), using the two
// uniform variates in u.
func RandomCosineDirection(normal Vec3, u Vec2) Vec3 {
	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	z := math.Sqrt(math.Max(0, 1-u.X))

	t, b := orthonormalBasis(normal)
	return t.Multiply(x).Add(b.Multiply(y)).Add(normal.Multiply(z))
}

// RandomInUnitSphere maps three uniform variates to a uniformly distributed
// point inside the unit sphere (used for fuzzy specular perturbation).
func RandomInUnitSphere(u Vec3) Vec3 {
	// Rejection-free: sample a direction uniformly on the sphere, then scale
	// by the cube root of a uniform radius.
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	radius := math.Cbrt(u.Z)
	return Vec3{X: radius * r * math.Cos(phi), Y: radius * r * math.Sin(phi), Z: radius * z}
}

// UniformSampleSphere samples a direction uniformly over the full sphere;
// PDF = 1/(4π). Used for point-light Le sampling.
func UniformSampleSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

// ConcentricSampleDisk maps two uniform variates to a point on the unit disk
// using Shirley's concentric mapping, which keeps samples well distributed
// (better than polar mapping) and is used for disk-light area sampling and
// lens/aperture-style sampling.
func ConcentricSampleDisk(u Vec2) Vec2 {
	ox := 2*u.X - 1
	oy := 2*u.Y - 1
	if ox == 0 && oy == 0 {
		return Vec2{}
	}

	var r, theta float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = (math.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (math.Pi / 2) - (math.Pi/4)*(ox/oy)
	}
	return Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// SampleGGXVisibleNormal draws a microfacet normal from the anisotropic GGX
// visible-normal distribution (Heitz 2018) in the local shading frame, where
// wo is in the +Z hemisphere. alphaX/alphaY are the anisotropic roughness
// parameters.
func SampleGGXVisibleNormal(wo Vec3, alphaX, alphaY float64, u Vec2) Vec3 {
	// Transform to the hemisphere configuration.
	wh := Vec3{X: alphaX * wo.X, Y: alphaY * wo.Y, Z: wo.Z}.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	t1 := Vec3{X: -wh.Y, Y: wh.X, Z: 0}
	if t1.LengthSquared() < 1e-12 {
		t1 = Vec3{X: 1, Y: 0, Z: 0}
	} else {
		t1 = t1.Normalize()
	}
	t2 := wh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + wh.Z)
	p2 = (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2

	pz := math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))
	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(wh.Multiply(pz))

	return Vec3{
		X: alphaX * nh.X,
		Y: alphaY * nh.Y,
		Z: math.Max(1e-6, nh.Z),
	}.Normalize()
}

// GGXDistribution evaluates the anisotropic GGX normal distribution function D(wh).
func GGXDistribution(wh Vec3, alphaX, alphaY float64) float64 {
	cos2Theta := wh.Z * wh.Z
	if cos2Theta <= 0 {
		return 0
	}
	tan2Theta := (1 - cos2Theta) / cos2Theta
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	cos4Theta := cos2Theta * cos2Theta
	sinPhi2, cosPhi2 := 0.0, 1.0
	sinTheta := math.Sqrt(math.Max(0, 1-cos2Theta))
	if sinTheta > 1e-8 {
		cosPhi2 = (wh.X / sinTheta) * (wh.X / sinTheta)
		sinPhi2 = (wh.Y / sinTheta) * (wh.Y / sinTheta)
	}
	e := tan2Theta * (cosPhi2/(alphaX*alphaX) + sinPhi2/(alphaY*alphaY))
	denom := math.Pi * alphaX * alphaY * cos4Theta * (1 + e) * (1 + e)
	if denom <= 0 {
		return 0
	}
	return 1.0 / denom
}

// ggxLambda is the Smith masking auxiliary function for anisotropic GGX.
func ggxLambda(w Vec3, alphaX, alphaY float64) float64 {
	cos2Theta := w.Z * w.Z
	sin2Theta := math.Max(0, 1-cos2Theta)
	if sin2Theta <= 0 {
		return 0
	}
	tan2Theta := sin2Theta / cos2Theta
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	sinTheta := math.Sqrt(sin2Theta)
	cosPhi2, sinPhi2 := 1.0, 0.0
	if sinTheta > 1e-8 {
		cosPhi2 = (w.X / sinTheta) * (w.X / sinTheta)
		sinPhi2 = (w.Y / sinTheta) * (w.Y / sinTheta)
	}
	alpha2 := cosPhi2*alphaX*alphaX + sinPhi2*alphaY*alphaY
	return (math.Sqrt(1+alpha2*tan2Theta) - 1) / 2
}

// GGXSmithG is the height-correlated Smith masking-shadowing term.
func GGXSmithG(wo, wi Vec3, alphaX, alphaY float64) float64 {
	return 1.0 / (1 + ggxLambda(wo, alphaX, alphaY) + ggxLambda(wi, alphaX, alphaY))
}

// GGXPDF returns the PDF of a microfacet normal wh drawn by
// SampleGGXVisibleNormal for wo (the visible-normal density), with respect
// to solid angle of wh. Callers convert it to a density of wi with the
// reflection or refraction Jacobian.
func GGXPDF(wo, wh Vec3, alphaX, alphaY float64) float64 {
	g1 := 1.0 / (1 + ggxLambda(wo, alphaX, alphaY))
	d := GGXDistribution(wh, alphaX, alphaY)
	denom := math.Abs(wo.Z)
	if denom <= 0 {
		return 0
	}
	return d * g1 * math.Abs(wo.Dot(wh)) / denom
}

// FresnelDielectric evaluates the unpolarized Fresnel reflectance at a
// dielectric interface with relative index of refraction eta (transmitted
// side IOR / incident side IOR), given cosThetaI signed with respect to the
// outward-facing normal.
func FresnelDielectric(cosThetaI, eta float64) float64 {
	cosThetaI = math.Max(-1, math.Min(1, cosThetaI))
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	rParallel := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return (rParallel*rParallel + rPerp*rPerp) / 2
}

// Refract computes the refracted direction of wi (pointing away from the
// surface, toward the incident side) through a surface with normal n and
// relative IOR eta, returning ok=false on total internal reflection.
func Refract(wi, n Vec3, eta float64) (wt Vec3, ok bool) {
	cosThetaI := n.Dot(wi)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
		n = n.Negate()
	}

	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	wt = wi.Negate().Multiply(1 / eta).Add(n.Multiply(cosThetaI/eta - cosThetaT))
	return wt, true
}

// Reflect mirrors wi about n.
func Reflect(wi, n Vec3) Vec3 {
	return n.Multiply(2 * wi.Dot(n)).Subtract(wi)
}
