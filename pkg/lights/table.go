package lights

import (
	"fmt"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// LightTable implements LightSampler with a fixed per-light selection
// weight, independent of the surface point. The uniform constructor gives
// every active light choicePdf = 1/N; the weighted constructor is kept
// alongside it so a power-proportional scheme can be dropped in later
// without touching call sites.
type LightTable struct {
	lights  []Light
	weights []float64
}

// NewLightTable creates a light table with explicit, non-negative weights
// that are normalized to sum to 1.
func NewLightTable(lights []Light, weights []float64) *LightTable {
	if len(lights) != len(weights) {
		panic(fmt.Sprintf("lights length (%d) must match weights length (%d)", len(lights), len(weights)))
	}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return NewUniformLightTable(lights)
	}
	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / total
	}
	return &LightTable{lights: lights, weights: normalized}
}

// NewUniformLightTable gives every light choicePdf = 1/N.
func NewUniformLightTable(lights []Light) *LightTable {
	if len(lights) == 0 {
		return &LightTable{}
	}
	weights := make([]float64, len(lights))
	uniform := 1.0 / float64(len(lights))
	for i := range weights {
		weights[i] = uniform
	}
	return &LightTable{lights: lights, weights: weights}
}

func (lt *LightTable) selectByU(u float64) int {
	var cumulative float64
	for i := range lt.lights {
		cumulative += lt.weights[i]
		if u <= cumulative {
			return i
		}
	}
	return len(lt.lights) - 1
}

// SampleLight selects a light for next-event estimation from point/normal.
// The table's weights don't depend on the surface point; point and normal
// are accepted only to satisfy LightSampler for samplers that do vary by
// position.
func (lt *LightTable) SampleLight(_, _ core.Vec3, u float64) (Light, float64, int) {
	if len(lt.lights) == 0 {
		return nil, 0, -1
	}
	idx := lt.selectByU(u)
	return lt.lights[idx], lt.weights[idx], idx
}

// SampleLightEmission selects a light for BDPT light-subpath generation.
func (lt *LightTable) SampleLightEmission(u float64) (Light, float64, int) {
	if len(lt.lights) == 0 {
		return nil, 0, -1
	}
	idx := lt.selectByU(u)
	return lt.lights[idx], lt.weights[idx], idx
}

// GetLightProbability returns the fixed choicePdf for the light at lightIndex.
func (lt *LightTable) GetLightProbability(lightIndex int, _, _ core.Vec3) float64 {
	if lightIndex < 0 || lightIndex >= len(lt.weights) {
		return 0
	}
	return lt.weights[lightIndex]
}

func (lt *LightTable) GetLightCount() int { return len(lt.lights) }

func (lt *LightTable) String() string {
	if len(lt.lights) == 0 {
		return "LightTable{no lights}"
	}
	s := fmt.Sprintf("LightTable{%d lights:\n", len(lt.lights))
	for i, l := range lt.lights {
		s += fmt.Sprintf("  [%d] %s: %.1f%%\n", i, l.Type(), lt.weights[i]*100)
	}
	return s + "}"
}
