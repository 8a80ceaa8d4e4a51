package scene

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/camera"
	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/geometry"
	"github.com/lumenrt/lumenrt/pkg/lights"
	"github.com/lumenrt/lumenrt/pkg/material"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width                     int // Image width
	Height                    int // Image height
	SamplesPerPixel           int // Number of rays per pixel
	MaxDepth                  int // Maximum ray bounce depth
	RussianRouletteMinBounces int // Minimum bounces before Russian Roulette can activate
}

// pendingDirectional holds a directional light's parameters until the scene
// bounds needed to size its synthetic emission disc are known, which only
// happens once the BVH has been built.
type pendingDirectional struct {
	Direction core.Vec3
	Intensity core.Vec3
}

// changeClass buckets a shape mutation by how expensive it is to absorb: a
// pure transform can refit the existing BVH bounds in place, while a
// topology change (added/removed geometry) forces a full rebuild.
type changeClass int

const (
	changeNone changeClass = iota
	changeTransform
	changeTopology
)

// Scene contains all the elements needed for rendering.
type Scene struct {
	Camera         *camera.Camera
	CameraConfig   camera.CameraConfig
	Shapes         []geometry.Shape
	Lights         []lights.Light
	LightSampler   lights.LightSampler
	SamplingConfig SamplingConfig
	BVH            *geometry.BVH
	Oracle         geometry.IntersectionOracle

	// TopColor/BottomColor shade a ray that escapes the scene with a
	// vertical gradient; set by AddUniformInfiniteLight/AddGradientInfiniteLight
	// since pkg/lights carries no infinite/environment light type.
	TopColor    core.Vec3
	BottomColor core.Vec3

	// LightForMaterial resolves the light attached to a hit shape by the
	// identity of its material, since the BVH oracle does not expose a
	// reliable leaf-shape index to key off of directly.
	LightForMaterial map[material.Material]lights.Light

	pendingDirectionals []pendingDirectional

	// dirtyShapes records shapes mutated since the last Preprocess/Refit,
	// and pendingChange is the most expensive changeClass seen among them.
	dirtyShapes   map[int]struct{}
	pendingChange changeClass
	builtOnce     bool
}

// NewScene returns an empty scene ready for shapes and lights to be added.
func NewScene() *Scene {
	return &Scene{
		LightForMaterial: make(map[material.Material]lights.Light),
		dirtyShapes:      make(map[int]struct{}),
		TopColor:         core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:      core.NewVec3(1.0, 1.0, 1.0),
	}
}

// NewGroundQuad creates a large quad to replace infinite ground planes.
// Creates a horizontal quad centered at the given point with normal pointing up (0,1,0).
func NewGroundQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	u := core.NewVec3(size, 0, 0)
	v := core.NewVec3(0, 0, size)
	return geometry.NewQuad(corner, u, v, mat)
}

// Background returns the gradient-sky radiance for a ray that escaped the
// scene, interpolated by the ray's vertical direction component.
func (s *Scene) Background(ray core.Ray) core.Vec3 {
	d := ray.Direction.Normalize()
	t := 0.5 * (d.Y + 1.0)
	return s.BottomColor.Multiply(1 - t).Add(s.TopColor.Multiply(t))
}

// MarkShapeDirty records that shape i's transform changed since the last
// Preprocess, without changing scene topology.
func (s *Scene) MarkShapeDirty(i int) {
	if s.dirtyShapes == nil {
		s.dirtyShapes = make(map[int]struct{})
	}
	s.dirtyShapes[i] = struct{}{}
	if s.pendingChange < changeTransform {
		s.pendingChange = changeTransform
	}
}

// addShape appends shape and marks the scene's pending change as a topology
// change, since the BVH's leaf set no longer matches what it was built with.
func (s *Scene) addShape(shape geometry.Shape) int {
	s.Shapes = append(s.Shapes, shape)
	s.pendingChange = changeTopology
	return len(s.Shapes) - 1
}

// Preprocess prepares the scene for rendering: first build or Update, then
// preprocess scene-bounds-dependent lights, then build the light sampler.
func (s *Scene) Preprocess() error {
	if err := s.Update(); err != nil {
		return err
	}

	for _, light := range s.Lights {
		if preprocessor, ok := light.(geometry.Preprocessor); ok {
			if err := preprocessor.Preprocess(s.BVH.Center, s.BVH.Radius); err != nil {
				return err
			}
		}
	}

	hadPendingDirectionals := len(s.pendingDirectionals) > 0
	for _, pending := range s.pendingDirectionals {
		s.Lights = append(s.Lights, lights.NewDirectionalLight(pending.Direction, pending.Intensity, s.BVH.Center, s.BVH.Radius))
	}
	s.pendingDirectionals = nil

	if s.LightSampler == nil || hadPendingDirectionals {
		s.LightSampler = lights.NewUniformLightTable(s.Lights)
	}

	for _, shape := range s.Shapes {
		if preprocessor, ok := shape.(geometry.Preprocessor); ok {
			if err := preprocessor.Preprocess(s.BVH.Center, s.BVH.Radius); err != nil {
				return err
			}
		}
	}

	return nil
}

// Update applies the scene's pending-change policy: a transform-only change
// on an already-built BVH refits its bounds in place, anything else (first
// build, or a topology change) rebuilds it from scratch.
func (s *Scene) Update() error {
	switch {
	case !s.builtOnce:
		s.Rebuild()
	case s.pendingChange == changeTopology:
		s.Rebuild()
	case s.pendingChange == changeTransform:
		s.Refit()
	}
	s.pendingChange = changeNone
	s.dirtyShapes = make(map[int]struct{})
	return nil
}

// Rebuild discards the current BVH and builds a fresh one over s.Shapes.
func (s *Scene) Rebuild() {
	s.BVH = geometry.NewBVH(s.Shapes)
	s.Oracle = geometry.NewOracle(s.BVH)
	s.builtOnce = true
}

// Refit recomputes the existing BVH's bounding volumes in place without
// changing its topology, cheap when only dirty shapes' transforms moved.
// geometry.BVH exposes no incremental refit today, so this falls back to a
// full rebuild; the dirty-shape bookkeeping above is kept so a future
// BVH.RefitBounds can slot in without touching scene.go's call sites.
func (s *Scene) Refit() {
	s.Rebuild()
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += s.countPrimitivesInShape(shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, handling complex objects
func (s *Scene) countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.TriangleMesh:
		return obj.GetTriangleCount()
	default:
		return 1
	}
}

// darkMaterial is the backing material for area-light shapes: fully absorbing
// so the shape contributes emission without also scattering incoming light,
// matching the usual raytracer convention that light surfaces don't reflect.
func darkMaterial() material.Material {
	return material.NewLambertian(core.Vec3{})
}

// AddPointLight adds a delta-position point light.
func (s *Scene) AddPointLight(position, intensity core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
}

// AddDirectionalLight adds a distant directional light. Its synthetic
// emission disc can only be sized once the scene's BVH bounds are known, so
// construction is deferred to Preprocess.
func (s *Scene) AddDirectionalLight(direction, intensity core.Vec3) {
	s.pendingDirectionals = append(s.pendingDirectionals, pendingDirectional{Direction: direction, Intensity: intensity})
}

// AddDiskLight adds a one-sided circular area light, backed by a Disc shape
// so camera and shadow rays can hit it directly.
func (s *Scene) AddDiskLight(center, normal core.Vec3, radius float64, radiance core.Vec3) {
	disc := geometry.NewDisc(center, normal, radius, darkMaterial())
	shapeIndex := s.addShape(disc)
	light := lights.NewDiskAreaLight(center, normal, radius, radiance, shapeIndex)
	s.Lights = append(s.Lights, light)
	s.LightForMaterial[disc.Material] = light
}

// AddSphereLight approximates a glowing sphere light as a downward-facing
// disk of the same radius and position, since pkg/lights carries no
// sphere-shaped area light. Adequate for the ceiling/overhead lighting
// rigs these scenes use it for.
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	s.AddDiskLight(center, core.NewVec3(0, -1, 0), radius, emission)
}

// AddSpotLight approximates a cone spotlight as a disk area light at from,
// facing to, sized so the disk roughly spans the cone at the target's
// distance. coneDeltaDegrees and falloff are accepted for call-site
// compatibility with the PBRT-style spot parameterization but have no
// effect on the disk approximation.
func (s *Scene) AddSpotLight(from, to, intensity core.Vec3, coneAngleDegrees, coneDeltaDegrees, falloff float64) {
	direction := to.Subtract(from).Normalize()
	distance := to.Subtract(from).Length()
	radius := distance * math.Tan(coneAngleDegrees*math.Pi/180.0)
	if radius <= 0 {
		radius = 0.1
	}
	s.AddDiskLight(from, direction, radius, intensity)
}

// AddQuadLight adds a rectangular area light spanning corner, corner+u and
// corner+v, backed by two triangles so it is directly hittable.
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	p00 := corner
	p10 := corner.Add(u)
	p11 := corner.Add(u).Add(v)
	p01 := corner.Add(v)

	mat := darkMaterial()
	tri1 := geometry.NewTriangle(p00, p10, p11, mat)
	tri2 := geometry.NewTriangle(p00, p11, p01, mat)
	shapeIndex := s.addShape(tri1)
	s.addShape(tri2)

	light := lights.NewTriangleMeshAreaLight([][3]core.Vec3{{p00, p10, p11}, {p00, p11, p01}}, emission, shapeIndex)
	s.Lights = append(s.Lights, light)
	s.LightForMaterial[mat] = light
}

// AddUniformInfiniteLight sets a flat background radiance in place of adding
// an infinite light, since pkg/lights carries no environment light type.
func (s *Scene) AddUniformInfiniteLight(radiance core.Vec3) {
	s.TopColor = radiance
	s.BottomColor = radiance
}

// AddGradientInfiniteLight sets a vertical gradient background in place of
// adding a gradient infinite light.
func (s *Scene) AddGradientInfiniteLight(topColor, bottomColor core.Vec3) {
	s.TopColor = topColor
	s.BottomColor = bottomColor
}
