package remesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// collapseNormalTol rejects collapses that fold a face past this cosine
// against its previous normal.
var collapseNormalTol = math.Cos(75 * math.Pi / 180)

const maxSplitRounds = 10

// splitLongEdges splits every edge longer than 4/3 of the target length
// averaged over its endpoints. Splitting creates new long edges so the
// pass repeats until a round makes no progress.
func (r *remesher) splitLongEdges() {
	for round := 0; round < maxSplitRounds; round++ {
		split := 0
		ecap := r.s.EdgeCap()
		for i := 0; i < ecap; i++ {
			e := Edge(i)
			if !r.s.EdgeAlive(e) {
				continue
			}
			a, b := r.s.EdgeVertices(e)
			want := 0.5 * (r.target[a] + r.target[b])
			if r.s.EdgeLength(e) <= 4.0/3.0*want {
				continue
			}
			wasFeature := r.efeat[e]
			mid := r3.Scale(0.5, r3.Add(r.s.Position(a), r.s.Position(b)))
			v := r.s.SplitEdge(e, mid)
			r.grow()
			r.target[v] = want
			if wasFeature {
				r.markSplitFeature(v, a, b)
			}
			split++
		}
		if split == 0 {
			return
		}
	}
}

// collapseShortEdges removes edges shorter than 4/5 of the averaged
// target length. Feature edges and feature vertices are left alone, and
// a collapse is vetoed when it would create an overlong edge or fold a
// face over.
func (r *remesher) collapseShortEdges() {
	ecap := r.s.EdgeCap()
	for i := 0; i < ecap; i++ {
		e := Edge(i)
		if !r.s.EdgeAlive(e) || r.efeat[e] {
			continue
		}
		a, b := r.s.EdgeVertices(e)
		want := 0.5 * (r.target[a] + r.target[b])
		if r.s.EdgeLength(e) >= 4.0/5.0*want {
			continue
		}
		h := r.s.EdgeHalfedge(e, 0)
		// Prefer collapsing into the endpoint with the smaller target so
		// refined regions keep their vertices.
		if r.target[r.s.From(h)] < r.target[r.s.To(h)] {
			h = r.s.EdgeHalfedge(e, 1)
		}
		if !r.tryCollapse(h) {
			other := r.s.EdgeHalfedge(e, 0)
			if other == h {
				other = r.s.EdgeHalfedge(e, 1)
			}
			r.tryCollapse(other)
		}
	}
}

// tryCollapse collapses h (removing its origin vertex) if all vetoes pass.
func (r *remesher) tryCollapse(h Halfedge) bool {
	gone := r.s.From(h)
	kept := r.s.To(h)
	if r.vfeat[gone] || !r.s.CanCollapse(h) {
		return false
	}
	keepPos := r.s.Position(kept)
	// Veto if any surviving edge around the removed vertex would exceed
	// the split threshold, which would make split and collapse fight.
	long := false
	r.s.EachNeighbor(gone, func(v Vertex) {
		if v == kept {
			return
		}
		want := 0.5 * (r.target[v] + r.target[kept])
		if r3.Norm(r3.Sub(r.s.Position(v), keepPos)) > 4.0/3.0*want {
			long = true
		}
	})
	if long || r.collapseFolds(gone, kept) {
		return false
	}
	r.s.Collapse(h)
	return true
}

// collapseFolds reports whether moving gone onto kept flips a surviving
// face past collapseNormalTol.
func (r *remesher) collapseFolds(gone, kept Vertex) bool {
	keepPos := r.s.Position(kept)
	folds := false
	r.s.EachVertexFace(gone, func(f Face) {
		a, b, c := r.s.FaceVertices(f)
		if a == kept || b == kept || c == kept {
			return // face disappears in the collapse
		}
		pa, pb, pc := r.s.Position(a), r.s.Position(b), r.s.Position(c)
		before := r3.Cross(r3.Sub(pb, pa), r3.Sub(pc, pa))
		switch gone {
		case a:
			pa = keepPos
		case b:
			pb = keepPos
		case c:
			pc = keepPos
		}
		after := r3.Cross(r3.Sub(pb, pa), r3.Sub(pc, pa))
		nb, na := r3.Norm(before), r3.Norm(after)
		if nb == 0 || na == 0 {
			folds = true
			return
		}
		if r3.Dot(before, after)/(nb*na) < collapseNormalTol {
			folds = true
		}
	})
	return folds
}

// equalizeValences flips interior non-feature edges whenever the flip
// strictly lowers the summed squared deviation from the optimal valence,
// 6 for interior vertices and 4 for boundary vertices.
func (r *remesher) equalizeValences() {
	ecap := r.s.EdgeCap()
	for i := 0; i < ecap; i++ {
		e := Edge(i)
		if !r.s.EdgeAlive(e) || r.efeat[e] || r.s.IsBoundaryEdge(e) {
			continue
		}
		if !r.s.CanFlip(e) {
			continue
		}
		a, b := r.s.EdgeVertices(e)
		c, d := r.s.EdgeOppositeVertices(e)
		if r.vfeat[a] || r.vfeat[b] || r.vfeat[c] || r.vfeat[d] {
			continue
		}
		before := r.valenceDev(a, 0) + r.valenceDev(b, 0) +
			r.valenceDev(c, 0) + r.valenceDev(d, 0)
		after := r.valenceDev(a, -1) + r.valenceDev(b, -1) +
			r.valenceDev(c, +1) + r.valenceDev(d, +1)
		if after >= before {
			continue
		}
		if !r.flipKeepsShape(a, b, c, d) {
			continue
		}
		r.s.Flip(e)
	}
}

// valenceDev returns the squared deviation of v's valence, offset by
// delta, from its optimum.
func (r *remesher) valenceDev(v Vertex, delta int) int {
	opt := 6
	if r.s.IsBoundaryVertex(v) {
		opt = 4
	}
	d := r.s.Valence(v) + delta - opt
	return d * d
}

// flipKeepsShape checks that the two faces produced by flipping the edge
// (a,b) with opposite vertices c,d stay aligned with the quad's normal.
func (r *remesher) flipKeepsShape(a, b, c, d Vertex) bool {
	pa, pb := r.s.Position(a), r.s.Position(b)
	pc, pd := r.s.Position(c), r.s.Position(d)
	old := r3.Add(
		r3.Cross(r3.Sub(pb, pa), r3.Sub(pc, pa)),
		r3.Cross(r3.Sub(pd, pa), r3.Sub(pb, pa)),
	)
	if r3.Norm(old) == 0 {
		return false
	}
	n1 := r3.Cross(r3.Sub(pd, pa), r3.Sub(pc, pa))
	n2 := r3.Cross(r3.Sub(pb, pd), r3.Sub(pc, pd))
	if r3.Norm(n1) == 0 || r3.Norm(n2) == 0 {
		return false
	}
	return r3.Cos(old, n1) > 0 && r3.Cos(old, n2) > 0
}

// tangentialRelax moves free vertices toward their one-ring centroid in
// the tangent plane, then projects them back onto the input surface.
func (r *remesher) tangentialRelax(iters int) {
	for it := 0; it < iters; it++ {
		vcap := r.s.VertexCap()
		moved := make([]r3.Vec, vcap)
		apply := make([]bool, vcap)
		for i := 0; i < vcap; i++ {
			v := Vertex(i)
			if !r.s.VertexAlive(v) || r.vfeat[v] ||
				r.s.IsBoundaryVertex(v) || r.s.IsIsolated(v) {
				continue
			}
			sum := r3.Vec{}
			n := 0
			r.s.EachNeighbor(v, func(u Vertex) {
				sum = r3.Add(sum, r.s.Position(u))
				n++
			})
			if n == 0 {
				continue
			}
			p := r.s.Position(v)
			u := r3.Sub(r3.Scale(1/float64(n), sum), p)
			nrm := r.s.VertexNormal(v)
			u = r3.Sub(u, r3.Scale(r3.Dot(nrm, u), nrm))
			moved[v] = r3.Add(p, u)
			apply[v] = true
		}
		for i := 0; i < vcap; i++ {
			if apply[i] {
				r.s.SetPosition(Vertex(i), moved[i])
			}
		}
		if r.proj != nil {
			for i := 0; i < vcap; i++ {
				if apply[i] {
					v := Vertex(i)
					r.s.SetPosition(v, r.proj.project(r.s.Position(v)))
				}
			}
		}
	}
}
