package lights

import (
	"math"
	"testing"

	"github.com/lumenrt/lumenrt/pkg/core"
)

func TestUniformLightTableChoicePdf(t *testing.T) {
	ls := []Light{
		NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
		NewPointLight(core.NewVec3(1, 1, 0), core.NewVec3(1, 1, 1)),
		NewPointLight(core.NewVec3(0, 1, 1), core.NewVec3(1, 1, 1)),
	}
	table := NewUniformLightTable(ls)

	for i := 0; i < table.GetLightCount(); i++ {
		got := table.GetLightProbability(i, core.Vec3{}, core.Vec3{})
		want := 1.0 / 3.0
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("light %d: expected choicePdf %f, got %f", i, want, got)
		}
	}
}

func TestLightTableSampleLightCoversAllLights(t *testing.T) {
	ls := []Light{
		NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
		NewPointLight(core.NewVec3(1, 1, 0), core.NewVec3(1, 1, 1)),
	}
	table := NewUniformLightTable(ls)

	seen := map[int]bool{}
	for i := 0; i < 20; i++ {
		u := float64(i) / 20.0
		_, _, idx := table.SampleLight(core.Vec3{}, core.Vec3{}, u)
		seen[idx] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected both lights to be reachable via SampleLight, saw %d", len(seen))
	}
}

func TestLightTableEmptyReturnsNoLight(t *testing.T) {
	table := NewUniformLightTable(nil)
	light, pdf, idx := table.SampleLight(core.Vec3{}, core.Vec3{}, 0.5)
	if light != nil || pdf != 0 || idx != -1 {
		t.Errorf("expected nil light, 0 pdf, -1 index for an empty table, got %v, %f, %d", light, pdf, idx)
	}
}

func TestNewLightTableNormalizesWeights(t *testing.T) {
	ls := []Light{
		NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
		NewPointLight(core.NewVec3(1, 1, 0), core.NewVec3(1, 1, 1)),
	}
	table := NewLightTable(ls, []float64{3, 1})

	p0 := table.GetLightProbability(0, core.Vec3{}, core.Vec3{})
	p1 := table.GetLightProbability(1, core.Vec3{}, core.Vec3{})
	if math.Abs(p0-0.75) > 1e-9 || math.Abs(p1-0.25) > 1e-9 {
		t.Errorf("expected normalized weights 0.75/0.25, got %f/%f", p0, p1)
	}
}
