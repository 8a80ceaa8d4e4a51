// Package integrator implements the light-transport algorithms that turn a
// scene and a camera ray into a radiance estimate.
package integrator

import (
	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/scene"
)

// Splat is a radiance contribution destined for a pixel other than the one
// the originating camera ray was shot through, produced by light-subpath
// techniques (BDPT's t=1 strategies) that connect straight to the camera.
// Defined locally rather than as renderer.SplatXY so this package never
// imports pkg/renderer, which itself imports pkg/integrator in its tests.
type Splat struct {
	X, Y  int
	Color core.Vec3
}

// Integrator estimates the radiance arriving along ray, returning both the
// direct contribution to the ray's own pixel and any splats destined
// elsewhere in the image.
type Integrator interface {
	Li(ray core.Ray, sc *scene.Scene, sampler core.Sampler) (core.Vec3, []Splat)
}
