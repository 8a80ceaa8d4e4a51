package renderer

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// BilateralDenoiser smooths Monte Carlo noise while preserving edges: each
// output pixel is a weighted average of its spatial neighborhood, weighted
// by distance (SigmaS) and by color similarity (SigmaR) alone - no auxiliary
// normal or albedo buffer, just the frame's own color.
type BilateralDenoiser struct {
	Radius         int
	SigmaS, SigmaR float64
}

// NewBilateralDenoiser creates a bilateral denoiser. Radius is clamped to
// [0, 10]; SigmaS controls spatial falloff, SigmaR controls how aggressively
// dissimilar colors are excluded from the average.
func NewBilateralDenoiser(radius int, sigmaS, sigmaR float64) *BilateralDenoiser {
	if radius < 0 {
		radius = 0
	}
	if radius > 10 {
		radius = 10
	}
	return &BilateralDenoiser{Radius: radius, SigmaS: sigmaS, SigmaR: sigmaR}
}

// Denoise filters a width x height image, read via get(x, y), returning the
// filtered pixels in row-major order.
func (bd *BilateralDenoiser) Denoise(width, height int, get func(x, y int) core.Vec3) []core.Vec3 {
	out := make([]core.Vec3, width*height)
	if bd.Radius == 0 {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out[y*width+x] = get(x, y)
			}
		}
		return out
	}

	invTwoSigmaS2 := 1.0 / (2 * bd.SigmaS * bd.SigmaS)
	invTwoSigmaR2 := 1.0 / (2 * bd.SigmaR * bd.SigmaR)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			center := get(x, y)
			sumColor := core.Vec3{}
			sumWeight := 0.0

			for dy := -bd.Radius; dy <= bd.Radius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= height {
					continue
				}
				for dx := -bd.Radius; dx <= bd.Radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= width {
						continue
					}
					neighbor := get(nx, ny)

					spatialDistSq := float64(dx*dx + dy*dy)
					colorDiff := neighbor.Subtract(center)
					colorDistSq := colorDiff.LengthSquared()

					w := math.Exp(-spatialDistSq*invTwoSigmaS2) * math.Exp(-colorDistSq*invTwoSigmaR2)
					sumColor = sumColor.Add(neighbor.Multiply(w))
					sumWeight += w
				}
			}

			if sumWeight > 0 {
				out[y*width+x] = sumColor.Multiply(1.0 / sumWeight)
			} else {
				out[y*width+x] = center
			}
		}
	}

	return out
}
