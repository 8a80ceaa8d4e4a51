package server

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/geometry"
	"github.com/lumenrt/lumenrt/pkg/material"
	"github.com/lumenrt/lumenrt/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// extractMaterialInfo extracts detailed material information from the Uber
// BSDF's lobe weights, plus any emission the scene's light registry ties to
// this material (area lights are backed by an absorbing shape material, with
// the actual emitted radiance living on the Light, not the Material).
func (s *Server) extractMaterialInfo(sceneObj *scene.Scene, mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	if light, ok := sceneObj.LightForMaterial[mat]; ok {
		emission := light.Emit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)))
		properties["emission"] = [3]float64{emission.X, emission.Y, emission.Z}
		properties["color"] = colorHex(emission)
		return "area_light", properties
	}

	uber, ok := mat.(*material.Uber)
	if !ok {
		return "unknown", properties
	}

	properties["diffuse"] = [3]float64{uber.Kd.X, uber.Kd.Y, uber.Kd.Z}
	properties["glossy"] = [3]float64{uber.Ks.X, uber.Ks.Y, uber.Ks.Z}
	properties["specular"] = [3]float64{uber.Kr.X, uber.Kr.Y, uber.Kr.Z}
	properties["transmission"] = [3]float64{uber.Kt.X, uber.Kt.Y, uber.Kt.Z}
	properties["transmissionGlossy"] = uber.KtGlossy
	properties["roughness"] = [2]float64{uber.AlphaX, uber.AlphaY}
	properties["ior"] = uber.Eta
	properties["opacity"] = uber.Opacity
	properties["color"] = colorHex(uber.Kd)

	switch {
	case uber.Kt.X+uber.Kt.Y+uber.Kt.Z > 0:
		return "dielectric", properties
	case uber.Kr.X+uber.Kr.Y+uber.Kr.Z > uber.Kd.X+uber.Kd.Y+uber.Kd.Z:
		return "metal", properties
	default:
		return "lambertian", properties
	}
}

func colorHex(c core.Vec3) string {
	clamp := func(v float64) int {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return int(v * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.X), clamp(c.Y), clamp(c.Z))
}

// InspectResult contains rich information about an object hit by an inspection ray
type InspectResult struct {
	Hit         bool
	Interaction *core.Interaction // Full hit record with material reference
	Shape       geometry.Shape    // The actual shape that was hit
}

// inspectPixel casts a ray through the specified pixel coordinates and returns information about the first object hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	// Preprocess scene to build the BVH
	if err := sceneObj.Preprocess(); err != nil {
		return InspectResult{Hit: false}
	}

	camera := sceneObj.Camera

	// Create a deterministic random generator for ray generation
	// This ensures we get a consistent ray through the pixel center
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(0)))
	ray := camera.GetRay(pixelX, pixelY, sampler.Get2D(), sampler.Get2D())

	// Cast the ray and find the first intersection using scene's BVH
	hit, isHit := sceneObj.BVH.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	// Find the specific shape that was hit by testing all shapes
	// (BVH doesn't return the shape, just the hit record)
	for _, shapeCandidate := range sceneObj.Shapes {
		if shapeHit, shapeIsHit := shapeCandidate.Hit(ray, 0.001, hit.T+0.001); shapeIsHit {
			if shapeHit.T == hit.T { // Same intersection
				return InspectResult{
					Hit:         true,
					Interaction: hit,
					Shape:       shapeCandidate,
				}
			}
		}
	}

	// Fallback: return hit without specific shape
	return InspectResult{
		Hit:         true,
		Interaction: hit,
		Shape:       nil,
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Quad:
		properties["corner"] = [3]float64{geom.Corner.X, geom.Corner.Y, geom.Corner.Z}
		properties["u"] = [3]float64{geom.U.X, geom.U.Y, geom.U.Z}
		properties["v"] = [3]float64{geom.V.X, geom.V.Y, geom.V.Z}
		properties["normal"] = [3]float64{geom.Normal.X, geom.Normal.Y, geom.Normal.Z}
		return "quad", properties

	case *geometry.Disc:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["normal"] = [3]float64{geom.Normal.X, geom.Normal.Y, geom.Normal.Z}
		properties["radius"] = geom.Radius
		return "disc", properties

	case *geometry.Triangle:
		properties["v0"] = [3]float64{geom.V0.X, geom.V0.Y, geom.V0.Z}
		properties["v1"] = [3]float64{geom.V1.X, geom.V1.Y, geom.V1.Z}
		properties["v2"] = [3]float64{geom.V2.X, geom.V2.Y, geom.V2.Z}
		return "triangle", properties

	case *geometry.TriangleMesh:
		properties["triangleCount"] = geom.GetTriangleCount()
		bbox := geom.BoundingBox()
		properties["boundingBox"] = map[string]interface{}{
			"min": [3]float64{bbox.Min.X, bbox.Min.Y, bbox.Min.Z},
			"max": [3]float64{bbox.Max.X, bbox.Max.Y, bbox.Max.Z},
		}
		return "triangle_mesh", properties

	case *geometry.Cylinder:
		properties["baseCenter"] = [3]float64{geom.BaseCenter.X, geom.BaseCenter.Y, geom.BaseCenter.Z}
		properties["topCenter"] = [3]float64{geom.TopCenter.X, geom.TopCenter.Y, geom.TopCenter.Z}
		properties["radius"] = geom.Radius
		return "cylinder", properties

	case *geometry.Cone:
		properties["baseCenter"] = [3]float64{geom.BaseCenter.X, geom.BaseCenter.Y, geom.BaseCenter.Z}
		properties["baseRadius"] = geom.BaseRadius
		properties["topCenter"] = [3]float64{geom.TopCenter.X, geom.TopCenter.Y, geom.TopCenter.Z}
		properties["topRadius"] = geom.TopRadius
		if geom.TopRadius == 0 {
			properties["type"] = "pointed"
		} else {
			properties["type"] = "frustum"
		}
		return "cone", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Create request object for parameter parsing
	inspectReq := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid y coordinate"})
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	const configOnly = true
	sceneObj := s.createScene(inspectReq, configOnly, nil)
	if sceneObj == nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Unknown scene: " + inspectReq.Scene})
		return
	}

	// Perform the inspection using the scene directly
	result := inspectPixel(sceneObj, inspectReq.Width, inspectReq.Height, pixelX, pixelY)

	// Convert to JSON response
	if !result.Hit {
		response := InspectResponse{Hit: false}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
		return
	}

	// Extract detailed information
	materialType, materialProps := s.extractMaterialInfo(sceneObj, result.Interaction.Material.(material.Material))
	geometryType, geometryProps := s.extractGeometryInfo(result.Shape)

	// Combine properties
	allProperties := make(map[string]interface{})
	allProperties["material"] = materialProps
	allProperties["geometry"] = geometryProps

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{result.Interaction.P.X, result.Interaction.P.Y, result.Interaction.P.Z},
		Normal:       [3]float64{result.Interaction.GeometricNormal.X, result.Interaction.GeometricNormal.Y, result.Interaction.GeometricNormal.Z},
		Distance:     result.Interaction.T,
		FrontFace:    result.Interaction.FrontFace,
		Properties:   allProperties,
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
