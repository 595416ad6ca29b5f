package remesh

import "math"

// Boundary and sharp-feature classification. Computed once before the
// first pass and consulted by every operator; splits extend it to the
// elements they create so the feature set never drifts as topology
// changes. Feature edges may be split but are never collapsed or flipped,
// and feature vertices never move.

func (r *remesher) classifyFeatures(angleDeg float64) {
	r.vfeat = make([]bool, r.s.VertexCap())
	r.efeat = make([]bool, r.s.EdgeCap())
	threshold := math.Inf(1)
	if angleDeg > 0 {
		threshold = angleDeg * math.Pi / 180
	}
	r.s.EachEdge(func(e Edge) {
		feature := r.s.IsBoundaryEdge(e)
		if !feature && r.s.DihedralAngle(e) > threshold {
			feature = true
		}
		if feature {
			r.efeat[e] = true
			a, b := r.s.EdgeVertices(e)
			r.vfeat[a] = true
			r.vfeat[b] = true
		}
	})
}

// markSplitFeature marks the split vertex v and both halves of the split
// feature edge, identified as the edges from v back to the original
// endpoints a and b.
func (r *remesher) markSplitFeature(v, a, b Vertex) {
	r.vfeat[v] = true
	r.s.EachOutgoing(v, func(h Halfedge) {
		if w := r.s.To(h); w == a || w == b {
			r.efeat[r.s.HalfedgeEdge(h)] = true
		}
	})
}

// grow extends the per-element state to the current handle capacities
// after topology edits appended elements.
func (r *remesher) grow() {
	for len(r.target) < r.s.VertexCap() {
		r.target = append(r.target, 0)
	}
	for len(r.vfeat) < r.s.VertexCap() {
		r.vfeat = append(r.vfeat, false)
	}
	for len(r.efeat) < r.s.EdgeCap() {
		r.efeat = append(r.efeat, false)
	}
}
