package halfedge

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EdgeLength returns the length of edge e.
func (m *Mesh) EdgeLength(e Edge) float64 {
	a, b := m.EdgeVertices(e)
	return r3.Norm(r3.Sub(m.pos[b], m.pos[a]))
}

// Midpoint returns the midpoint of edge e.
func (m *Mesh) Midpoint(e Edge) r3.Vec {
	a, b := m.EdgeVertices(e)
	return r3.Scale(0.5, r3.Add(m.pos[a], m.pos[b]))
}

// FaceNormal returns the unit normal of face f, or the zero vector for a
// degenerate face.
func (m *Mesh) FaceNormal(f Face) r3.Vec {
	a, b, c := m.FaceVertices(f)
	n := r3.Cross(r3.Sub(m.pos[b], m.pos[a]), r3.Sub(m.pos[c], m.pos[a]))
	nn := r3.Norm(n)
	if nn == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/nn, n)
}

// FaceArea returns the area of face f.
func (m *Mesh) FaceArea(f Face) float64 {
	a, b, c := m.FaceVertices(f)
	n := r3.Cross(r3.Sub(m.pos[b], m.pos[a]), r3.Sub(m.pos[c], m.pos[a]))
	return 0.5 * r3.Norm(n)
}

// VertexNormal returns the angle-weighted average of the face normals
// around v, the same weighting used when welding triangle soups.
func (m *Mesh) VertexNormal(v Vertex) r3.Vec {
	var sum r3.Vec
	m.EachOutgoing(v, func(h Halfedge) {
		f := m.hface[h]
		if f == invalid {
			return
		}
		s1 := r3.Sub(m.pos[m.hvert[h]], m.pos[v])
		s2 := r3.Sub(m.pos[m.hvert[m.hnext[h]]], m.pos[v])
		alpha := math.Acos(clamp(r3.Cos(s1, s2), -1, 1))
		sum = r3.Add(sum, r3.Scale(alpha, m.FaceNormal(f)))
	})
	nn := r3.Norm(sum)
	if nn == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/nn, sum)
}

// DihedralAngle returns the angle in radians between the normals of the
// two faces sharing interior edge e. Boundary edges report pi.
func (m *Mesh) DihedralAngle(e Edge) float64 {
	h := Halfedge(2 * e)
	if m.hface[h] == invalid || m.hface[h^1] == invalid {
		return math.Pi
	}
	n0 := m.FaceNormal(m.hface[h])
	n1 := m.FaceNormal(m.hface[h^1])
	return math.Acos(clamp(r3.Dot(n0, n1), -1, 1))
}

// MaxAbsCurvature estimates the largest absolute principal curvature at v
// from the discrete mean curvature (cotangent Laplacian) and Gaussian
// curvature (angle deficit). Boundary, isolated and degenerate vertices
// report zero, which grading treats as flat.
func (m *Mesh) MaxAbsCurvature(v Vertex) float64 {
	if m.IsIsolated(v) || m.IsBoundaryVertex(v) {
		return 0
	}
	p := m.pos[v]
	var (
		lap      r3.Vec
		area     float64
		angleSum float64
	)
	m.EachOutgoing(v, func(h Halfedge) {
		q := m.pos[m.hvert[h]]
		// Angle at v and barycentric area share the face of h.
		r := m.pos[m.hvert[m.hnext[h]]]
		e1 := r3.Sub(q, p)
		e2 := r3.Sub(r, p)
		angleSum += math.Acos(clamp(r3.Cos(e1, e2), -1, 1))
		area += m.FaceArea(m.hface[h]) / 3

		// Cotangent weight of edge (v, q) from the two flanking angles.
		w := cotAt(m.pos[m.hvert[m.hnext[h]]], p, q)
		w += cotAt(m.pos[m.hvert[m.hnext[h^1]]], p, q)
		lap = r3.Add(lap, r3.Scale(w, r3.Sub(q, p)))
	})
	if area <= 1e-15 {
		return 0
	}
	mean := r3.Norm(lap) / (4 * area)
	gauss := (2*math.Pi - angleSum) / area
	s := math.Sqrt(math.Max(mean*mean-gauss, 0))
	return math.Max(math.Abs(mean+s), math.Abs(mean-s))
}

// cotAt returns the cotangent of the angle at apex a in triangle (a,b,c).
func cotAt(a, b, c r3.Vec) float64 {
	u := r3.Sub(b, a)
	w := r3.Sub(c, a)
	sin := r3.Norm(r3.Cross(u, w))
	if sin < 1e-15 {
		return 0
	}
	return r3.Dot(u, w) / sin
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(x, lo))
}
