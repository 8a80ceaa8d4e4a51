package renderer

import (
	"math"
	"sync"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// FrameAccumulator is the reconstruction stage's film: a width x height grid
// of weightedSum/weightAccum pairs. Every camera sample is splatted, through
// Filter, into every discrete pixel whose center lies within the filter's
// support of the sample's continuous image position - not just the pixel
// the sample was nominally drawn for. Resolve divides weightedSum by
// weightAccum to get each pixel's final reconstructed color.
type FrameAccumulator struct {
	width, height int
	filter        Filter
	weightedSum   []core.Vec3
	weightAccum   []float64
	mu            sync.Mutex
}

// NewFrameAccumulator creates a frame accumulator sized to width x height,
// splatting samples through filter.
func NewFrameAccumulator(width, height int, filter Filter) *FrameAccumulator {
	return &FrameAccumulator{
		width:       width,
		height:      height,
		filter:      filter,
		weightedSum: make([]core.Vec3, width*height),
		weightAccum: make([]float64, width*height),
	}
}

func (fa *FrameAccumulator) index(x, y int) int {
	return y*fa.width + x
}

// AddSample splats color, sampled at continuous image position (px, py)
// (pixel (0,0)'s center is at (0.5, 0.5)), into every pixel within the
// filter's radius of that position.
func (fa *FrameAccumulator) AddSample(px, py float64, color core.Vec3) {
	r := fa.filter.Radius()

	x0 := int(math.Ceil(px - r - 0.5))
	x1 := int(math.Floor(px + r - 0.5))
	y0 := int(math.Ceil(py - r - 0.5))
	y1 := int(math.Floor(py + r - 0.5))

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > fa.width-1 {
		x1 = fa.width - 1
	}
	if y1 > fa.height-1 {
		y1 = fa.height - 1
	}
	if x0 > x1 || y0 > y1 {
		return
	}

	fa.mu.Lock()
	defer fa.mu.Unlock()

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := px - (float64(x) + 0.5)
			dy := py - (float64(y) + 0.5)
			w := fa.filter.Evaluate(dx, dy)
			if w == 0 {
				continue
			}
			idx := fa.index(x, y)
			fa.weightedSum[idx] = fa.weightedSum[idx].Add(color.Multiply(w))
			fa.weightAccum[idx] += w
		}
	}
}

// Resolve returns pixel (x, y)'s reconstructed color: weightedSum/weightAccum,
// or black if no sample ever reached it.
func (fa *FrameAccumulator) Resolve(x, y int) core.Vec3 {
	idx := fa.index(x, y)
	w := fa.weightAccum[idx]
	if w <= 0 {
		return core.Vec3{}
	}
	return fa.weightedSum[idx].Multiply(1.0 / w)
}

// Reset zeros every accumulator cell, used when the camera moves and
// previously accumulated samples are no longer valid for the new view.
func (fa *FrameAccumulator) Reset() {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	for i := range fa.weightedSum {
		fa.weightedSum[i] = core.Vec3{}
		fa.weightAccum[i] = 0
	}
}
