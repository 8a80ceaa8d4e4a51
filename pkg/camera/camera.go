// Package camera implements the thin-lens pinhole camera model: primary ray
// generation plus the importance/PDF machinery bidirectional light transport
// needs to connect subpath vertices back to the lens. Split out from
// pkg/renderer so pkg/scene (which embeds a Camera) never has to import the
// renderer package that itself depends on pkg/scene.
package camera

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
)

// CameraConfig describes a thin-lens pinhole-style camera: position, target,
// vertical field of view in degrees, and an optional aperture for depth of
// field. FocusDistance defaults to the distance from Center to LookAt when
// left at zero.
type CameraConfig struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	Width         int
	AspectRatio   float64
	VFov          float64
	Aperture      float64
	FocusDistance float64
}

// MergeCameraConfig layers override onto base: any override field left at
// its zero value falls back to base's value. Width and AspectRatio are
// merged independently so a scene can override one without disturbing the
// other.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Center != (core.Vec3{}) {
		merged.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		merged.Up = override.Up
	}
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	if override.Aperture != 0 {
		merged.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		merged.FocusDistance = override.FocusDistance
	}
	return merged
}

// CameraSample is the result of connecting a reference point to the camera
// lens, used by the t=1 "splat to camera" BDPT strategy.
type CameraSample struct {
	Ray    core.Ray
	PDF    float64
	Weight core.Vec3
}

// Camera generates primary rays and exposes the importance/PDF machinery
// bidirectional light transport needs to connect subpath vertices back to
// the lens.
type Camera struct {
	config CameraConfig

	origin  core.Vec3
	forward core.Vec3
	right   core.Vec3
	up      core.Vec3

	lensRadius    float64
	focusDistance float64

	halfWidthUnit  float64
	halfHeightUnit float64
	imagePlaneArea float64

	imageHeight int
}

// NewCamera builds a Camera from config, deriving an orthonormal basis and
// the virtual image plane used for frustum-corner ray generation.
func NewCamera(config CameraConfig) *Camera {
	aspectRatio := config.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = 16.0 / 9.0
	}

	imageHeight := int(float64(config.Width) / aspectRatio)
	if imageHeight < 1 {
		imageHeight = 1
	}

	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward).Normalize()

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
		if focusDistance <= 0 {
			focusDistance = 1.0
		}
	}

	theta := config.VFov * math.Pi / 180.0
	halfHeightUnit := math.Tan(theta / 2)
	halfWidthUnit := halfHeightUnit * aspectRatio

	return &Camera{
		config:         config,
		origin:         config.Center,
		forward:        forward,
		right:          right,
		up:             up,
		lensRadius:     config.Aperture / 2,
		focusDistance:  focusDistance,
		halfWidthUnit:  halfWidthUnit,
		halfHeightUnit: halfHeightUnit,
		imagePlaneArea: (2 * halfWidthUnit) * (2 * halfHeightUnit),
		imageHeight:    imageHeight,
	}
}

// GetCameraForward returns the camera's look direction.
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.forward
}

func (c *Camera) lensArea() float64 {
	if c.lensRadius <= 0 {
		return 1.0
	}
	return math.Pi * c.lensRadius * c.lensRadius
}

// localDirection decomposes a world-space direction into the camera's
// (right, up, forward) basis, returning the horizontal/vertical tangents at
// unit depth along with cosTheta = dot(d, forward).
func (c *Camera) localDirection(d core.Vec3) (xLocal, yLocal, cosTheta float64) {
	cosTheta = d.Dot(c.forward)
	if cosTheta <= 0 {
		return 0, 0, cosTheta
	}
	xLocal = d.Dot(c.right) / cosTheta
	yLocal = d.Dot(c.up) / cosTheta
	return xLocal, yLocal, cosTheta
}

// GetRay builds the primary ray for pixel (x, y), jittered within the pixel
// by pixelSample and, if the aperture is open, offset on the lens by
// lensSample for depth of field.
func (c *Camera) GetRay(x, y int, pixelSample, lensSample core.Vec2) core.Ray {
	s := (float64(x) + pixelSample.X) / float64(c.config.Width)
	t := (float64(y) + pixelSample.Y) / float64(c.imageHeight)

	xLocal := (2*s - 1) * c.halfWidthUnit
	yLocal := (1 - 2*t) * c.halfHeightUnit

	dirAtUnitDepth := c.forward.Add(c.right.Multiply(xLocal)).Add(c.up.Multiply(yLocal))
	focusPoint := c.origin.Add(dirAtUnitDepth.Multiply(c.focusDistance))

	origin := c.origin
	if c.lensRadius > 0 {
		lens := core.ConcentricSampleDisk(lensSample)
		origin = origin.Add(c.right.Multiply(lens.X * c.lensRadius)).Add(c.up.Multiply(lens.Y * c.lensRadius))
	}

	return core.NewRay(origin, focusPoint.Subtract(origin).Normalize())
}

// MapRayToPixel inverts GetRay's projection, returning the pixel a ray's
// direction falls into and whether it lands within the frustum.
func (c *Camera) MapRayToPixel(ray core.Ray) (x, y int, ok bool) {
	d := ray.Direction.Normalize()
	xLocal, yLocal, cosTheta := c.localDirection(d)
	if cosTheta <= 0 {
		return 0, 0, false
	}
	if math.Abs(xLocal) > c.halfWidthUnit || math.Abs(yLocal) > c.halfHeightUnit {
		return 0, 0, false
	}

	s := (xLocal/c.halfWidthUnit + 1) / 2
	t := (1 - yLocal/c.halfHeightUnit) / 2

	x = int(s * float64(c.config.Width))
	y = int(t * float64(c.imageHeight))

	if x < 0 || x >= c.config.Width || y < 0 || y >= c.imageHeight {
		return 0, 0, false
	}
	return x, y, true
}

// CalculateRayPDFs returns the (area, direction) sampling densities of ray
// under uniform pixel sampling, used by BDPT when the camera vertex's
// forward/reverse PDFs must be recomputed against an existing direction.
// Both are zero for rays pointing away from or outside the frustum.
func (c *Camera) CalculateRayPDFs(ray core.Ray) (areaPDF, directionPDF float64) {
	d := ray.Direction.Normalize()
	xLocal, yLocal, cosTheta := c.localDirection(d)
	if cosTheta <= 0 {
		return 0, 0
	}
	if math.Abs(xLocal) > c.halfWidthUnit || math.Abs(yLocal) > c.halfHeightUnit {
		return 0, 0
	}

	areaPDF = 1.0 / float64(c.config.Width*c.imageHeight)
	directionPDF = (cosTheta * cosTheta * cosTheta) / c.imagePlaneArea
	return areaPDF, directionPDF
}

// EvaluateRayImportance returns the camera's importance function We(ray),
// PBRT's pinhole formula 1/(A_image * lensArea * cos⁴θ); zero outside the
// frustum or behind the lens.
func (c *Camera) EvaluateRayImportance(ray core.Ray) core.Vec3 {
	d := ray.Direction.Normalize()
	xLocal, yLocal, cosTheta := c.localDirection(d)
	if cosTheta <= 0 {
		return core.Vec3{}
	}
	if math.Abs(xLocal) > c.halfWidthUnit || math.Abs(yLocal) > c.halfHeightUnit {
		return core.Vec3{}
	}

	cos2 := cosTheta * cosTheta
	cos4 := cos2 * cos2
	we := 1.0 / (c.imagePlaneArea * c.lensArea() * cos4)
	return core.NewVec3(we, we, we)
}

// SampleCameraFromPoint connects refPoint to a sampled point on the lens,
// implementing the t=1 BDPT strategy ("splat to camera"). Returns nil when
// refPoint lies behind the lens or outside the frustum.
func (c *Camera) SampleCameraFromPoint(refPoint core.Vec3, lensSample core.Vec2) *CameraSample {
	lensPoint := c.origin
	if c.lensRadius > 0 {
		lens := core.ConcentricSampleDisk(lensSample)
		lensPoint = lensPoint.Add(c.right.Multiply(lens.X * c.lensRadius)).Add(c.up.Multiply(lens.Y * c.lensRadius))
	}

	toPoint := refPoint.Subtract(lensPoint)
	dist := toPoint.Length()
	if dist < 1e-9 {
		return nil
	}
	dir := toPoint.Multiply(1.0 / dist)

	ray := core.NewRay(lensPoint, dir)
	if _, _, ok := c.MapRayToPixel(ray); !ok {
		return nil
	}

	_, _, cosTheta := c.localDirection(dir)
	we := c.EvaluateRayImportance(ray)
	pdf := (dist * dist) / (cosTheta * c.lensArea())

	return &CameraSample{Ray: ray, PDF: pdf, Weight: we}
}
