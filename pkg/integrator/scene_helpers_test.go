package integrator

import (
	"github.com/lumenrt/lumenrt/pkg/camera"
	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/geometry"
	"github.com/lumenrt/lumenrt/pkg/material"
	"github.com/lumenrt/lumenrt/pkg/scene"
)

// newSingleSphereScene builds a minimal scene with one lit diffuse sphere,
// the common fixture for integrator unit tests below.
func newSingleSphereScene(maxDepth int) *scene.Scene {
	cam := camera.NewCamera(camera.CameraConfig{
		Center:      core.NewVec3(0, 0, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       32,
		AspectRatio: 1.0,
		VFov:        40.0,
	})

	sc := scene.NewScene()
	sc.Camera = cam
	sc.SamplingConfig = scene.SamplingConfig{
		Width:                     32,
		Height:                    32,
		SamplesPerPixel:           1,
		MaxDepth:                  maxDepth,
		RussianRouletteMinBounces: 3,
	}

	white := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
	sc.Shapes = append(sc.Shapes, geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, white))

	sc.AddQuadLight(
		core.NewVec3(-2, 3, -2),
		core.NewVec3(4, 0, 0),
		core.NewVec3(0, 0, 4),
		core.NewVec3(6.0, 6.0, 6.0),
	)

	if err := sc.Preprocess(); err != nil {
		panic(err)
	}
	return sc
}

// newEmptySkyScene builds a scene with nothing but a gradient sky, used to
// test environment-light contribution with no occluding geometry.
func newEmptySkyScene(maxDepth int) *scene.Scene {
	cam := camera.NewCamera(camera.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       16,
		AspectRatio: 1.0,
		VFov:        60.0,
	})

	sc := scene.NewScene()
	sc.Camera = cam
	sc.SamplingConfig = scene.SamplingConfig{
		Width: 16, Height: 16,
		SamplesPerPixel: 1,
		MaxDepth:        maxDepth,
	}
	sc.AddGradientInfiniteLight(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1, 1, 1))

	if err := sc.Preprocess(); err != nil {
		panic(err)
	}
	return sc
}
