package remesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// The target length field assigns every vertex the edge length the
// surrounding elements should converge to. It is computed once per
// remeshing call and read-only during the operator passes; splits
// interpolate it for the vertices they insert.

// uniformTargets fills the field with a single global length.
func uniformTargets(s Surface, length float64) []float64 {
	t := make([]float64, s.VertexCap())
	for i := range t {
		t[i] = length
	}
	return t
}

// adaptiveTargets derives the field from curvature and ear channel
// proximity, clamped to [MinLength, MaxLength], then relaxes it by
// neighbor averaging so adjacent targets never differ abruptly.
func adaptiveTargets(s Surface, p Params) []float64 {
	t := make([]float64, s.VertexCap())
	s.EachVertex(func(v Vertex) {
		t[v] = curvatureTarget(s.MaxAbsCurvature(v), p.ApproxError, p.MinLength, p.MaxLength)
	})

	anchor := highResAnchor(s, p)
	s.EachVertex(func(v Vertex) {
		d := r3.Norm(r3.Sub(s.Position(v), anchor))
		t[v] = math.Min(t[v], distanceTarget(d, p.FalloffRadius, p.MinLength, t[v]))
	})

	smoothTargets(s, t, p.SmoothingPasses, p.MinLength, p.MaxLength)
	return t
}

// curvatureTarget converts a curvature magnitude into the longest edge
// length that keeps the chordal deviation below the error bound. Flat and
// degenerate regions (curvature near zero) get the maximum length.
func curvatureTarget(curvature, maxErr, min, max float64) float64 {
	if curvature < 1e-12 {
		return max
	}
	arg := 6*maxErr/curvature - 3*maxErr*maxErr
	if arg <= 0 {
		return min
	}
	return clampF(math.Sqrt(arg), min, max)
}

// distanceTarget grows linearly from min at the anchor to the
// curvature-limited value beyond the falloff radius. It can only lower the
// target, never raise it.
func distanceTarget(dist, radius, min, curvTarget float64) float64 {
	if radius <= 0 || dist >= radius {
		return curvTarget
	}
	return min + dist/radius*(curvTarget-min)
}

// highResAnchor returns the position resolution is concentrated around.
// Explicitly supplied channel positions win; otherwise the position is
// estimated from the mesh extent, offsetting the centroid along the Y axis
// by gamma times the extent (Palm et al., DAGA 2021).
func highResAnchor(s Surface, p Params) r3.Vec {
	explicit := p.ChannelLeft
	if p.Side == SideRight {
		explicit = p.ChannelRight
	}
	if explicit != (r3.Vec{}) {
		return explicit
	}
	return estimateAnchor(s, p.Side, p.GammaLeft, p.GammaRight)
}

// estimateAnchor guesses an ear channel entrance from the bounding box of
// the head. Left is the positive Y halfspace.
func estimateAnchor(s Surface, side Side, gammaLeft, gammaRight float64) r3.Vec {
	b := s.Bounds()
	center := r3.Scale(0.5, r3.Add(b.Min, b.Max))
	width := b.Max.Y - b.Min.Y
	if side == SideRight {
		center.Y -= gammaRight * width
	} else {
		center.Y += gammaLeft * width
	}
	return center
}

// smoothTargets relaxes the field toward the one-ring average. Each pass
// halves the weight of the vertex's own value, so the ratio between
// neighboring targets stays bounded.
func smoothTargets(s Surface, t []float64, passes int, min, max float64) {
	for pass := 0; pass < passes; pass++ {
		next := append([]float64(nil), t...)
		s.EachVertex(func(v Vertex) {
			if s.IsIsolated(v) {
				return
			}
			sum, n := 0.0, 0
			s.EachNeighbor(v, func(w Vertex) {
				sum += t[w]
				n++
			})
			if n == 0 {
				return
			}
			next[v] = clampF(0.5*t[v]+0.5*sum/float64(n), min, max)
		})
		copy(t, next)
	}
}

func clampF(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(x, lo))
}
