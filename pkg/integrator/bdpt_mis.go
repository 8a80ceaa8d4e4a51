package integrator

import (
	"math"

	"github.com/lumenrt/lumenrt/pkg/core"
	"github.com/lumenrt/lumenrt/pkg/scene"
)

// calculateMISWeight computes the power-heuristic-free balance weight for the
// (s,t) strategy that produced cameraPath/lightPath, by summing the ratio of
// every other strategy's sampling density to this one's (PBRT's Veach-style
// MIS weight, without the resampling refinement PBRT applies to the s==1 and
// t==1 edge cases — every strategy here is weighed using only the vertices
// the random walk actually generated).
func (bdpt *BDPTIntegrator) calculateMISWeight(cameraPath, lightPath *Path, s, t int, sc *scene.Scene) float64 {
	if s+t == 2 {
		return 1.0
	}

	sumRi := 0.0

	ri := 1.0
	for i := t - 1; i > 0; i-- {
		forwardPdf, reversePdf, connectible := bdpt.cameraVertexPdfs(i, cameraPath, lightPath, s, t, sc)
		ri *= remap0(reversePdf) / remap0(forwardPdf)
		if connectible {
			sumRi += ri
		}
	}

	ri = 1.0
	for i := s - 1; i >= 0; i-- {
		forwardPdf, reversePdf, connectible := bdpt.lightVertexPdfs(i, cameraPath, lightPath, s, t, sc)
		ri *= remap0(reversePdf) / remap0(forwardPdf)
		if connectible {
			sumRi += ri
		}
	}

	return 1.0 / (1.0 + sumRi)
}

// cameraVertexPdfs returns the forward/reverse area-measure densities for
// camera subpath vertex i under strategy (s,t), substituting the densities
// implied by the actual connection at the boundary vertices (t-1, t-2).
func (bdpt *BDPTIntegrator) cameraVertexPdfs(i int, cameraPath, lightPath *Path, s, t int, sc *scene.Scene) (forwardPdf, reversePdf float64, connectible bool) {
	vertex := &cameraPath.Vertices[i]
	forwardPdf = vertex.AreaPdfForward
	reversePdf = vertex.AreaPdfReverse
	connectible = !vertex.IsSpecular

	switch {
	case s == 0:
		if i == t-1 && t > 1 {
			reversePdf = bdpt.lightOriginPdf(&cameraPath.Vertices[t-1], &cameraPath.Vertices[t-2], sc)
			connectible = true
		} else if i == t-2 && t > 2 {
			reversePdf = bdpt.vertexPdf(&cameraPath.Vertices[t-1], nil, &cameraPath.Vertices[t-2], sc)
		}

	default:
		if i == t-1 {
			var prevLv *Vertex
			if s >= 2 {
				prevLv = &lightPath.Vertices[s-2]
			}
			reversePdf = bdpt.vertexPdf(&lightPath.Vertices[s-1], prevLv, &cameraPath.Vertices[t-1], sc)
			connectible = true
		} else if i == t-2 && t > 1 {
			reversePdf = bdpt.vertexPdf(&cameraPath.Vertices[t-1], &lightPath.Vertices[s-1], &cameraPath.Vertices[t-2], sc)
		}
	}

	if i > 0 {
		connectible = connectible && !cameraPath.Vertices[i-1].IsSpecular
	}

	return
}

// lightVertexPdfs is cameraVertexPdfs's counterpart for the light subpath.
// Delta lights (point, directional) can never be reconnected to, since no
// BSDF or light-tracing sample can land on a zero-measure direction.
func (bdpt *BDPTIntegrator) lightVertexPdfs(i int, cameraPath, lightPath *Path, s, t int, sc *scene.Scene) (forwardPdf, reversePdf float64, connectible bool) {
	vertex := &lightPath.Vertices[i]
	forwardPdf = vertex.AreaPdfForward
	reversePdf = vertex.AreaPdfReverse

	isDeltaLight := vertex.IsLight && vertex.Light != nil && vertex.Light.Flags().IsDelta()
	connectible = !vertex.IsSpecular && !isDeltaLight

	if i > 0 {
		predecessor := &lightPath.Vertices[i-1]
		predDeltaLight := predecessor.IsLight && predecessor.Light != nil && predecessor.Light.Flags().IsDelta()
		connectible = connectible && !predecessor.IsSpecular && !predDeltaLight
	}

	if i == s-1 {
		var prevCv *Vertex
		if t >= 2 {
			prevCv = &cameraPath.Vertices[t-2]
		}
		reversePdf = bdpt.vertexPdf(&cameraPath.Vertices[t-1], prevCv, vertex, sc)
		connectible = true
	} else if i == s-2 && s > 1 {
		reversePdf = bdpt.vertexPdf(&lightPath.Vertices[s-1], &cameraPath.Vertices[t-1], &lightPath.Vertices[s-2], sc)
	}

	return
}

// vertexPdf implements PBRT's Vertex::Pdf: the area-measure density of
// having sampled curr given that the walk continues on to next, with prev
// (if any) supplying the BSDF's incoming direction.
func (bdpt *BDPTIntegrator) vertexPdf(curr, prev, next *Vertex, sc *scene.Scene) float64 {
	if curr.IsLight {
		return bdpt.lightPdf(curr, next, sc)
	}

	wn := next.Point.Subtract(curr.Point)
	if wn.LengthSquared() == 0 {
		return 0
	}
	wn = wn.Normalize()

	var pdf float64
	switch {
	case curr.IsCamera:
		ray := core.NewRay(curr.Point, wn)
		_, pdf = sc.Camera.CalculateRayPDFs(ray)
		if pdf == 0 {
			return 0
		}
	case curr.Material != nil && curr.Interaction != nil:
		var wp core.Vec3
		if prev != nil {
			wp = prev.Point.Subtract(curr.Point)
			if wp.LengthSquared() == 0 {
				return 0
			}
			wp = wp.Normalize()
		} else {
			wp = curr.Interaction.Wo
		}
		pdf = curr.Material.PDF(wp, wn, curr.Interaction)
		if pdf <= 0 {
			return 0
		}
	default:
		return 0
	}

	return solidAngleToArea(curr.Point, next.Point, next.Normal, pdf)
}

// lightPdf implements PBRT's Vertex::PdfLight: the area-measure density of
// curr (a light-emission vertex) having emitted toward to, converted from
// the light's own area/direction densities.
func (bdpt *BDPTIntegrator) lightPdf(curr, to *Vertex, sc *scene.Scene) float64 {
	if !curr.IsLight || curr.Light == nil {
		return 0
	}

	w := to.Point.Subtract(curr.Point)
	distSq := w.LengthSquared()
	if distSq <= 1e-12 {
		return 0
	}
	invDist2 := 1.0 / distSq
	w = w.Multiply(math.Sqrt(invDist2))

	pdfPos := curr.Light.EmissionPDF(curr.Point, w)

	var pdfDir float64
	if curr.IsOnSurface() {
		cosTheta := w.Dot(curr.Normal)
		if cosTheta <= 0 {
			return 0
		}
		pdfDir = cosTheta / math.Pi
	} else {
		pdfDir = 1.0 / (4.0 * math.Pi)
	}

	pdf := pdfPos * pdfDir * invDist2
	if to.IsOnSurface() {
		pdf *= math.Abs(to.Normal.Dot(w))
	}

	return pdf
}

// lightOriginPdf implements PBRT's Vertex::PdfLightOrigin: the probability
// of having chosen lightVtx's light and emission point in the first place,
// independent of which direction it emitted in.
func (bdpt *BDPTIntegrator) lightOriginPdf(lightVtx, to *Vertex, sc *scene.Scene) float64 {
	if !lightVtx.IsLight || lightVtx.Light == nil {
		return 0
	}

	w := to.Point.Subtract(lightVtx.Point)
	if w.LengthSquared() <= 1e-12 {
		return 0
	}
	w = w.Normalize()

	choicePdf := sc.LightSampler.GetLightProbability(lightVtx.LightIndex, lightVtx.Point, lightVtx.Normal)
	pdfPos := lightVtx.Light.EmissionPDF(lightVtx.Point, w)

	return pdfPos * choicePdf
}

// remap0 is PBRT's remap0: substitutes 1 for a zero density so a delta
// vertex's 0/0 ratio in the MIS sum resolves to a neutral multiplier instead
// of a NaN.
func remap0(f float64) float64 {
	if f != 0 {
		return f
	}
	return 1.0
}
