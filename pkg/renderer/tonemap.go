package renderer

import (
	"image/color"
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// ReinhardTonemapper implements the simple Reinhard operator,
// L' = L(1+L/Lwhite^2)/(1+L), compressing unbounded HDR radiance into a
// displayable range while leaving near-zero luminance pixels almost
// untouched. There is no temporal adaptation: Lwhite is recomputed from
// scratch each frame.
type ReinhardTonemapper struct {
	MinLuminance float64
}

// NewReinhardTonemapper creates a Reinhard tonemapper. MinLuminance floors
// Lwhite so a near-black frame doesn't produce a near-infinite white point.
func NewReinhardTonemapper(minLuminance float64) *ReinhardTonemapper {
	if minLuminance <= 0 {
		minLuminance = 1.0
	}
	return &ReinhardTonemapper{MinLuminance: minLuminance}
}

// Map tonemaps colorVec against frameMax, the maximum luminance observed
// anywhere in the current frame, preserving chrominance by scaling all three
// channels by the luminance-derived factor.
func (rt *ReinhardTonemapper) Map(colorVec core.Vec3, frameMax float64) core.Vec3 {
	lWhite := math.Max(rt.MinLuminance, frameMax)
	l := colorVec.Luminance()
	if l <= 0 {
		return core.Vec3{}
	}
	scale := (1 + l/(lWhite*lWhite)) / (1 + l)
	return colorVec.Multiply(scale)
}

// ToRGBA gamma-corrects and clamps a tonemapped color into a displayable
// 8-bit pixel.
func ToRGBA(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0)
	colorVec = colorVec.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
