package geometry

import "github.com/lumenrt/lumenrt/pkg/core"

// AABB is the axis-aligned bounding box every shape reports for BVH
// construction, shared with pkg/core so intersection code and bounding-box
// code agree on one representation.
type AABB = core.AABB

// NewAABB and NewAABBFromPoints forward to their pkg/core constructors so
// shapes can build their bounds without qualifying the package.
func NewAABB(min, max core.Vec3) AABB { return core.NewAABB(min, max) }

func NewAABBFromPoints(points ...core.Vec3) AABB { return core.NewAABBFromPoints(points...) }

// Shape is the contract every piece of geometry implements: intersection
// and a world-space bounding box for BVH construction.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*core.Interaction, bool)
	BoundingBox() AABB
}

// Preprocessor is implemented by shapes that need the finite scene bounds
// once known (infinite lights sizing their synthetic emission disc).
type Preprocessor interface {
	Preprocess(worldCenter core.Vec3, worldRadius float64) error
}
