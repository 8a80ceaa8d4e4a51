package renderer

import (
	"image"
	"image/png"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/lumenrt/lumenrt/pkg/camera"
	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/geometry"
	"github.com/lumenrt/lumenrt/pkg/integrator"
	"github.com/lumenrt/lumenrt/pkg/material"
	"github.com/lumenrt/lumenrt/pkg/scene"
)

// testLogger implements core.Logger for testing by discarding all output
type testLogger struct{}

// Ensure testLogger implements core.Logger
var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {
	// Discard log output during tests
}

func newIntegrationCamera(samplingConfig scene.SamplingConfig, center, lookAt core.Vec3, vfov float64) *camera.Camera {
	return camera.NewCamera(camera.CameraConfig{
		Center:      center,
		LookAt:      lookAt,
		Up:          core.NewVec3(0, 1, 0),
		Width:       samplingConfig.Width,
		AspectRatio: 1.0,
		VFov:        vfov,
	})
}

func TestIntegratorLuminanceComparison(t *testing.T) {
	testSamplingConfig := scene.SamplingConfig{
		Width: 32, Height: 32,
		MaxDepth: 5, SamplesPerPixel: 256,
		RussianRouletteMinBounces: 2,
	}

	tests := []struct {
		name        string
		createScene func() *scene.Scene
		tolerance   float64 // Percentage difference tolerance
		skip        bool
	}{
		{
			name: "Infinite Light (Uniform)",
			createScene: func() *scene.Scene {
				// Empty scene with uniform background illumination, no geometry
				s := scene.NewScene()
				s.SamplingConfig = testSamplingConfig
				s.Camera = newIntegrationCamera(testSamplingConfig, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), 45.0)
				s.AddUniformInfiniteLight(core.NewVec3(1.0, 1.0, 1.0))
				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 10.0,
		},
		{
			name: "Single Sphere with Area Light",
			createScene: func() *scene.Scene {
				s := scene.NewScene()
				s.SamplingConfig = testSamplingConfig
				s.Camera = newIntegrationCamera(testSamplingConfig, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -2), 45.0)

				white := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
				sphere := geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, white)
				s.Shapes = append(s.Shapes, sphere)

				s.AddSphereLight(core.NewVec3(0, 2, -1), 0.2, core.NewVec3(10.0, 10.0, 10.0))

				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 15.0,
		},
		{
			name: "Single Sphere with Point Light",
			createScene: func() *scene.Scene {
				s := scene.NewScene()
				s.SamplingConfig = testSamplingConfig
				s.Camera = newIntegrationCamera(testSamplingConfig, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -2), 45.0)

				white := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
				sphere := geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, white)
				s.Shapes = append(s.Shapes, sphere)

				s.AddPointLight(core.NewVec3(0, 2, -1), core.NewVec3(10.0, 10.0, 10.0))

				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 15.0,
		},
		{
			name: "Unit Cornell Box (Quad Light)",
			createScene: func() *scene.Scene {
				s := newUnitCornellBox(testSamplingConfig)
				s.AddQuadLight(
					core.NewVec3(-0.25, 1.98, -0.25),
					core.NewVec3(0.5, 0, 0),
					core.NewVec3(0, 0, 0.5),
					core.NewVec3(15, 15, 15),
				)
				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 10.0, // Slightly higher tolerance for quad lights due to variance
		},
		{
			name: "Unit Cornell Box (Sphere Light)",
			createScene: func() *scene.Scene {
				s := newUnitCornellBox(testSamplingConfig)
				s.AddSphereLight(core.NewVec3(0, 1.98, 0), 0.2, core.NewVec3(15, 15, 15))
				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 5.0,
		},
		{
			name: "Cornell Box - Quad Light at Center",
			createScene: func() *scene.Scene {
				s := newUnitCornellBox(testSamplingConfig)
				s.AddQuadLight(
					core.NewVec3(-0.25, 1.0, -0.25),
					core.NewVec3(0.5, 0, 0),
					core.NewVec3(0, 0, 0.5),
					core.NewVec3(15, 15, 15),
				)
				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 15.0,
		},
		{
			name: "Cornell Box - Quad Light on Back Wall",
			createScene: func() *scene.Scene {
				s := newUnitCornellBox(testSamplingConfig)
				// Light on the back wall (z=-0.98, back wall is at z=-1.0), facing the camera
				s.AddQuadLight(
					core.NewVec3(-0.25, 0.75, -0.98),
					core.NewVec3(0.5, 0, 0),
					core.NewVec3(0, 0.5, 0),
					core.NewVec3(15, 15, 15),
				)
				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 15.0,
		},
		{
			name: "Cornell Box - Sphere Light at Center",
			createScene: func() *scene.Scene {
				s := newUnitCornellBox(testSamplingConfig)
				s.AddSphereLight(core.NewVec3(0, 1.0, 0), 0.25, core.NewVec3(15, 15, 15))
				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 15.0,
		},
		{
			name: "Large-Scale Cornell Box (Quad Light) - DEMONSTRATES BUG",
			createScene: func() *scene.Scene {
				// Exact 278x scaled version of the unit box to isolate a scale-dependent bug.
				// EXPECTED to fail with BDPT producing more luminance than path tracing.
				const scale = 278.0
				s := newScaledCornellBox(testSamplingConfig, scale)
				lightCorner := core.NewVec3(-0.25*scale, 1.98*scale, -0.25*scale)
				lightU := core.NewVec3(0.5*scale, 0, 0)
				lightV := core.NewVec3(0, 0, 0.5*scale)
				s.AddQuadLight(lightCorner, lightU, lightV, core.NewVec3(15, 15, 15))
				if err := s.Preprocess(); err != nil {
					t.Fatalf("preprocess failed: %v", err)
				}
				return s
			},
			tolerance: 15.0, // This test will fail - bug demonstration
			skip:      true, // Skip by default - unskip to demonstrate scale-dependent bug
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.skip {
				t.Skip("Skipping test case")
			}

			sc := tt.createScene()

			// Configure progressive rendering with scene-specific settings
			config := DefaultProgressiveConfig()
			config.InitialSamples = 1
			config.MaxSamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
			config.MaxPasses = 1
			config.TileSize = sc.SamplingConfig.Width // Render full image in one tile for testing

			logger := &testLogger{}

			// Test path tracing
			pathIntegrator := integrator.NewPathTracingIntegrator(sc.SamplingConfig)
			pathRenderer, err := NewProgressiveRaytracer(sc, config, pathIntegrator, logger)
			if err != nil {
				t.Fatalf("Failed to create path tracing renderer: %v", err)
			}

			pathImage, _, err := pathRenderer.RenderPass(1, nil)
			if err != nil {
				t.Fatalf("Path tracing render failed: %v", err)
			}
			pathLuminance := CalculateAverageLuminance(pathImage)
			saveTestImage(t, pathImage, tt.name, "pt")

			// Test BDPT
			bdptIntegrator := integrator.NewBDPTIntegrator(sc.SamplingConfig)
			bdptRenderer, err := NewProgressiveRaytracer(sc, config, bdptIntegrator, logger)
			if err != nil {
				t.Fatalf("Failed to create BDPT renderer: %v", err)
			}

			bdptImage, _, err := bdptRenderer.RenderPass(1, nil)
			if err != nil {
				t.Fatalf("BDPT render failed: %v", err)
			}
			bdptLuminance := CalculateAverageLuminance(bdptImage)
			saveTestImage(t, bdptImage, tt.name, "bdpt")

			t.Logf("Path tracing luminance: %.6f", pathLuminance)
			t.Logf("BDPT luminance: %.6f", bdptLuminance)

			// Calculate percentage difference
			if pathLuminance == 0 && bdptLuminance == 0 {
				// Both zero is fine for completely dark scenes, but we expect light in these tests
				if len(sc.Lights) > 0 {
					t.Log("Both renderers produced zero luminance, but lights are present.")
				}
				return
			}

			var percentDiff float64
			if pathLuminance == 0 {
				// If path tracing is 0 but BDPT is not, that's 100% diff (or infinite)
				percentDiff = 100.0
			} else {
				percentDiff = math.Abs(bdptLuminance-pathLuminance) / pathLuminance * 100
			}

			t.Logf("Luminance difference: %.2f%%", percentDiff)

			if percentDiff > tt.tolerance {
				t.Errorf("BDPT and path tracing luminance differ by %.2f%%, exceeds %.1f%% tolerance. "+
					"BDPT: %.6f, Path tracing: %.6f",
					percentDiff, tt.tolerance, bdptLuminance, pathLuminance)
			}
		})
	}
}

// newUnitCornellBox builds a unit-scale (-1..1 in X/Z, 0..2 in Y) Cornell box
// with white/red/green walls and no light yet attached.
func newUnitCornellBox(samplingConfig scene.SamplingConfig) *scene.Scene {
	return newScaledCornellBox(samplingConfig, 1.0)
}

func newScaledCornellBox(samplingConfig scene.SamplingConfig, scaleFactor float64) *scene.Scene {
	s := scene.NewScene()
	s.SamplingConfig = samplingConfig
	s.Camera = newIntegrationCamera(
		samplingConfig,
		core.NewVec3(0, 1*scaleFactor, 3*scaleFactor),
		core.NewVec3(0, 1*scaleFactor, 0),
		40.0,
	)

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	floor := geometry.NewQuad(
		core.NewVec3(-1*scaleFactor, 0, -1*scaleFactor), core.NewVec3(2*scaleFactor, 0, 0), core.NewVec3(0, 0, 2*scaleFactor), white)
	ceiling := geometry.NewQuad(
		core.NewVec3(-1*scaleFactor, 2*scaleFactor, -1*scaleFactor), core.NewVec3(2*scaleFactor, 0, 0), core.NewVec3(0, 0, 2*scaleFactor), white)
	backWall := geometry.NewQuad(
		core.NewVec3(-1*scaleFactor, 0, -1*scaleFactor), core.NewVec3(2*scaleFactor, 0, 0), core.NewVec3(0, 2*scaleFactor, 0), white)
	leftWall := geometry.NewQuad(
		core.NewVec3(1*scaleFactor, 0, -1*scaleFactor), core.NewVec3(0, 0, 2*scaleFactor), core.NewVec3(0, 2*scaleFactor, 0), red)
	rightWall := geometry.NewQuad(
		core.NewVec3(-1*scaleFactor, 0, -1*scaleFactor), core.NewVec3(0, 0, 2*scaleFactor), core.NewVec3(0, 2*scaleFactor, 0), green)

	s.Shapes = append(s.Shapes, floor, ceiling, backWall, leftWall, rightWall)
	return s
}

func saveTestImage(t *testing.T, img *image.RGBA, testName, suffix string) {
	// Only save images if verbose mode is enabled (go test -v)
	if !testing.Verbose() {
		return
	}

	// Create output directory in project root
	// Tests run in pkg/renderer, so we go up two levels
	outputDir := "../../output/debug_renders"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		t.Logf("Failed to create output directory: %v", err)
		return
	}

	// Sanitize test name for filename
	filename := outputDir + "/" + sanitizeFilename(testName) + "_" + suffix + ".png"

	f, err := os.Create(filename)
	if err != nil {
		t.Logf("Failed to create debug image file %s: %v", filename, err)
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Logf("Failed to encode debug image %s: %v", filename, err)
	} else {
		t.Logf("Saved debug image to %s", filename)
	}
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}
