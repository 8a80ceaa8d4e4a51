package renderer

import (
	"image"
	"math/rand"

	"github.com/lumenrt/lumenrt/pkg/camera"
	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/integrator"
	"github.com/lumenrt/lumenrt/pkg/scene"
)

// TileRenderer renders pixels within a tile by drawing SamplesPerPixel camera
// rays through an Integrator and accumulating the results into PixelStats.
// Splats produced by light-subpath techniques (BDPT's t=1 strategy) may land
// on a pixel outside this tile's bounds, so they go to a shared sink rather
// than into PixelStats: the shared FrameAccumulator (at the target pixel's
// centre) when accum is non-nil, otherwise the shared SplatQueue. When accum
// is non-nil, every direct sample is also reconstructed through its filter
// into the FrameAccumulator in addition to being box-averaged in PixelStats.
type TileRenderer struct {
	sc         *scene.Scene
	integrator integrator.Integrator
	splats     *SplatQueue
	accum      *FrameAccumulator
}

// NewTileRenderer creates a tile renderer over sc using integ, routing
// off-tile splat contributions through splats and, if accum is non-nil,
// reconstructing every sample through accum's filter.
func NewTileRenderer(sc *scene.Scene, integ integrator.Integrator, splats *SplatQueue, accum *FrameAccumulator) *TileRenderer {
	return &TileRenderer{sc: sc, integrator: integ, splats: splats, accum: accum}
}

// RenderTileBounds draws targetSamples camera rays per pixel in bounds,
// accumulating into pixelStats (indexed [y][x], sized to the full image).
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand, targetSamples int) RenderStats {
	cam := tr.sc.Camera
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	sampler := core.NewRandomSampler(random)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			samplesUsed := tr.samplePixel(cam, i, j, ps, sampler, targetSamples)
			stats.TotalSamples += samplesUsed
			stats.MinSamples = min(stats.MinSamples, samplesUsed)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

// samplePixel draws up to targetSamples camera rays through pixel (i,j),
// feeding each through the integrator and accumulating into ps. Splats are
// forwarded to the accumulator when one is set and to the shared queue
// otherwise, weighted the same as any direct sample.
func (tr *TileRenderer) samplePixel(cam *camera.Camera, i, j int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	initial := ps.SampleCount

	for ps.SampleCount < targetSamples {
		pixelSample := sampler.Get2D()
		lensSample := sampler.Get2D()
		ray := cam.GetRay(i, j, pixelSample, lensSample)

		color, splats := tr.integrator.Li(ray, tr.sc, sampler)
		ps.AddSample(color)

		if tr.accum != nil {
			tr.accum.AddSample(float64(i)+pixelSample.X, float64(j)+pixelSample.Y, color)
		}

		for _, s := range splats {
			if tr.accum != nil {
				tr.accum.AddSample(float64(s.X)+0.5, float64(s.Y)+0.5, s.Color)
			} else if tr.splats != nil {
				tr.splats.AddSplat(s.X, s.Y, s.Color)
			}
		}
	}

	return ps.SampleCount - initial
}
