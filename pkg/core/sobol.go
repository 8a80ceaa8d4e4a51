package core

import "math/bits"

// SobolDimensions bounds how many scrambled Sobol dimensions are available
// per pixel. Primary-ray jitter consumes 2; each bounce consumes 2 (BSDF
// direction) + 1 (Russian roulette) + 2 (light position) + 1 (light choice).
// BDPT draws its camera- and light-subpath dimensions from one sampler in the
// order it consumes them, with no split of this range. Dimensions beyond the table fall back to a hashed sequence so a
// deep path degrades gracefully instead of reusing correlated samples.
const SobolDimensions = 64

const sobolBits = 32

// sobolPoly holds a primitive polynomial over GF(2) (degree and the bits of
// its non-leading, non-constant coefficients) used to extend a dimension's
// initial direction numbers via the standard Sobol recurrence.
type sobolPoly struct {
	degree int
	coeffs uint32 // coefficients a_1..a_{degree-1}, bit (degree-1-k) = a_k
	m      []uint32
}

// sobolPolys lists one entry per non-trivial dimension (dimension 0 is the
// plain van der Corput sequence and needs no polynomial). The polynomials
// and seed direction numbers follow the classic Sobol/Bratley-Fox
// construction: each m_i must be odd and less than 2^i.
var sobolPolys = []sobolPoly{
	{1, 0, []uint32{1}},
	{2, 1, []uint32{1, 3}},
	{3, 1, []uint32{1, 3, 1}},
	{3, 2, []uint32{1, 1, 1}},
	{4, 1, []uint32{1, 1, 3, 3}},
	{4, 4, []uint32{1, 3, 5, 13}},
	{5, 2, []uint32{1, 1, 5, 11, 19}},
	{5, 4, []uint32{1, 1, 7, 13, 25}},
	{5, 7, []uint32{1, 3, 7, 3, 29}},
	{5, 11, []uint32{1, 1, 1, 9, 5}},
	{5, 13, []uint32{1, 3, 3, 17, 7}},
	{5, 14, []uint32{1, 1, 5, 5, 1}},
	{6, 1, []uint32{1, 3, 1, 15, 17, 43}},
	{6, 16, []uint32{1, 1, 7, 11, 13, 27}},
	{6, 19, []uint32{1, 3, 5, 5, 31, 9}},
	{6, 22, []uint32{1, 1, 3, 29, 21, 5}},
	{6, 25, []uint32{1, 3, 7, 11, 23, 41}},
	{7, 1, []uint32{1, 3, 5, 5, 1, 47, 85}},
	{7, 4, []uint32{1, 1, 1, 19, 11, 29, 115}},
	{7, 7, []uint32{1, 3, 3, 3, 23, 15, 1}},
	{7, 8, []uint32{1, 1, 7, 13, 17, 5, 39}},
	{7, 14, []uint32{1, 1, 5, 15, 9, 39, 87}},
	{7, 19, []uint32{1, 3, 1, 17, 27, 53, 69}},
	{7, 21, []uint32{1, 1, 3, 25, 5, 47, 1}},
	{7, 28, []uint32{1, 3, 3, 9, 25, 29, 91}},
	{7, 31, []uint32{1, 1, 1, 15, 29, 15, 77}},
	{7, 32, []uint32{1, 1, 5, 7, 1, 9, 91}},
	{7, 37, []uint32{1, 3, 7, 3, 27, 21, 121}},
	{7, 41, []uint32{1, 1, 7, 25, 17, 55, 105}},
	{7, 42, []uint32{1, 3, 1, 29, 5, 19, 97}},
	{7, 50, []uint32{1, 1, 3, 1, 9, 41, 13}},
	{7, 55, []uint32{1, 1, 5, 27, 15, 7, 69}},
	{7, 56, []uint32{1, 3, 3, 11, 23, 49, 1}},
	{7, 59, []uint32{1, 1, 1, 3, 29, 9, 31}},
	{7, 62, []uint32{1, 3, 7, 31, 3, 27, 25}},
	{7, 67, []uint32{1, 1, 7, 9, 13, 35, 45}},
	{7, 70, []uint32{1, 3, 1, 9, 25, 37, 117}},
	{7, 79, []uint32{1, 1, 3, 13, 21, 11, 63}},
	{7, 84, []uint32{1, 1, 5, 17, 7, 57, 77}},
	{7, 87, []uint32{1, 3, 3, 5, 3, 5, 103}},
	{7, 91, []uint32{1, 1, 1, 23, 11, 61, 11}},
	{7, 94, []uint32{1, 3, 7, 15, 19, 1, 53}},
	{7, 103, []uint32{1, 1, 7, 29, 5, 33, 35}},
	{7, 104, []uint32{1, 3, 1, 1, 17, 15, 73}},
	{7, 109, []uint32{1, 1, 3, 19, 9, 23, 19}},
	{7, 122, []uint32{1, 1, 5, 3, 25, 11, 111}},
	{7, 124, []uint32{1, 3, 3, 21, 13, 45, 1}},
	{7, 137, []uint32{1, 1, 1, 27, 31, 43, 87}},
	{7, 138, []uint32{1, 3, 7, 7, 27, 17, 29}},
	{7, 143, []uint32{1, 1, 7, 3, 5, 25, 65}},
	{7, 145, []uint32{1, 3, 1, 25, 23, 29, 41}},
	{7, 152, []uint32{1, 1, 3, 9, 17, 9, 23}},
	{7, 167, []uint32{1, 1, 5, 13, 1, 63, 109}},
	{7, 171, []uint32{1, 3, 3, 15, 7, 13, 21}},
	{7, 175, []uint32{1, 1, 1, 5, 15, 31, 51}},
	{7, 176, []uint32{1, 3, 7, 19, 21, 5, 89}},
	{7, 181, []uint32{1, 1, 7, 31, 11, 57, 107}},
	{7, 185, []uint32{1, 3, 1, 11, 29, 39, 1}},
	{7, 191, []uint32{1, 1, 3, 27, 3, 19, 95}},
	{7, 194, []uint32{1, 1, 5, 21, 27, 49, 31}},
	{7, 199, []uint32{1, 3, 3, 29, 9, 11, 83}},
	{7, 218, []uint32{1, 1, 1, 7, 5, 27, 99}},
	{7, 220, []uint32{1, 1, 7, 17, 19, 41, 5}},
}

// sobolMatrix[dim] holds the 32 direction numbers (generator columns) for
// that dimension, one per set bit of sampleIdx.
var sobolMatrix [SobolDimensions][sobolBits]uint32

func init() {
	// Dimension 0: pure van der Corput (identity matrix): bit i of sampleIdx
	// contributes 1<<(31-i), i.e. the column is the reversed bit.
	for i := 0; i < sobolBits; i++ {
		sobolMatrix[0][i] = 1 << uint(sobolBits-1-i)
	}

	for dim := 1; dim < SobolDimensions; dim++ {
		poly := sobolPolys[(dim-1)%len(sobolPolys)]
		m := make([]uint32, sobolBits+1)
		copy(m, poly.m)

		// Standard Sobol recurrence: m_i = XOR_{k=1}^{d-1} (2^k * a_k * m_{i-k}) XOR 2^d*m_{i-d} XOR m_{i-d}
		for i := len(poly.m); i <= sobolBits; i++ {
			d := poly.degree
			var val uint32
			for k := 1; k < d; k++ {
				bit := (poly.coeffs >> uint(d-1-k)) & 1
				if bit != 0 {
					val ^= (1 << uint(k)) * m[i-k]
				}
			}
			val ^= m[i-d]
			val ^= m[i-d] << uint(d)
			m[i] = val
		}

		for i := 0; i < sobolBits; i++ {
			sobolMatrix[dim][i] = m[i] << uint(sobolBits-1-i)
		}
	}
}

// sobolSample implements the scrambled-Sobol contract from the spec: the
// result XORs in the dimension's generator column for every set bit of
// sampleIdx, starting from scramble, then maps the 32-bit value to [0,1).
func sobolSample(sampleIdx uint32, dim int, scramble uint32) float64 {
	v := scramble
	col := &sobolMatrix[dim%SobolDimensions]
	for i := sampleIdx; i != 0; i &= i - 1 {
		b := bits.TrailingZeros32(i)
		v ^= col[b]
	}
	return float64(v) * (1.0 / 4294967296.0)
}

// hashPixel derives a deterministic per-pixel scramble seed, stable across
// every bounce and sample of one frame.
func hashPixel(x, y, frameIndex int) uint32 {
	h := uint32(2166136261)
	for _, v := range [3]int{x, y, frameIndex} {
		h ^= uint32(v)
		h *= 16777619
		h ^= h >> 15
	}
	return h
}

// SobolSampler draws a scrambled Sobol quasi-random sequence indexed by
// (pixel, sample index, dimension), as required by the Sampler component.
type SobolSampler struct {
	sampleIdx uint32
	dim       int
	scramble  [SobolDimensions]uint32
}

// NewSobolSampler builds a sampler for one (pixel, sample) pair. frameIndex
// lets progressive accumulation reuse pixel coordinates across frames
// without correlating samples.
func NewSobolSampler(px, py, sampleIndex, frameIndex int) *SobolSampler {
	s := &SobolSampler{sampleIdx: uint32(sampleIndex)}
	base := hashPixel(px, py, frameIndex)
	for d := 0; d < SobolDimensions; d++ {
		// Per-dimension scramble, independent across dimensions but
		// deterministic for a given pixel/frame.
		h := base ^ uint32(d)*0x9e3779b9
		h ^= h >> 16
		h *= 0x85ebca6b
		h ^= h >> 13
		s.scramble[d] = h
	}
	return s
}

func (s *SobolSampler) next() float64 {
	var v float64
	if s.dim < SobolDimensions {
		v = sobolSample(s.sampleIdx, s.dim, s.scramble[s.dim])
	} else {
		// Past the table: hash (pixel scramble, sample, dimension) instead of
		// wrapping back onto an earlier dimension's sequence.
		h := s.scramble[s.dim%SobolDimensions] ^ s.sampleIdx*0x9e3779b9 ^ uint32(s.dim)*0x85ebca6b
		h ^= h >> 16
		h *= 0x7feb352d
		h ^= h >> 15
		h *= 0x846ca68b
		h ^= h >> 16
		v = float64(h) * (1.0 / 4294967296.0)
	}
	s.dim++
	return v
}

func (s *SobolSampler) Get1D() float64 {
	return s.next()
}

func (s *SobolSampler) Get2D() Vec2 {
	return Vec2{X: s.next(), Y: s.next()}
}

func (s *SobolSampler) Get3D() Vec3 {
	return Vec3{X: s.next(), Y: s.next(), Z: s.next()}
}

// Dim returns the current dimension cursor, useful for tests asserting the
// documented per-bounce dimension budget.
func (s *SobolSampler) Dim() int { return s.dim }
