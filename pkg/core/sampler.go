package core

import "math/rand"

// Sampler is the per-path source of random numbers. Both integrators pull
// dimensions from it in a fixed progression: 2 for primary-ray jitter, then
// per bounce 2 for BSDF direction, 1 for Russian roulette, 2 for light
// position and 1 for light choice. BDPT advances the same way over disjoint
// camera/light dimension ranges.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler is a pseudo-random Sampler backed by math/rand. It is used
// for reference renders and for any test that doesn't care about the
// low-discrepancy structure of the Sobol sequence.
type RandomSampler struct {
	rng *rand.Rand
}

// NewRandomSampler wraps an existing *rand.Rand as a Sampler.
func NewRandomSampler(rng *rand.Rand) *RandomSampler {
	return &RandomSampler{rng: rng}
}

func (s *RandomSampler) Get1D() float64 {
	return s.rng.Float64()
}

func (s *RandomSampler) Get2D() Vec2 {
	return Vec2{X: s.rng.Float64(), Y: s.rng.Float64()}
}

func (s *RandomSampler) Get3D() Vec3 {
	return Vec3{X: s.rng.Float64(), Y: s.rng.Float64(), Z: s.rng.Float64()}
}
