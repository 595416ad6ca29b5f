package halfedge

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// SplitEdge splits edge e at position p, subdividing the one or two
// incident faces, and returns the new vertex. The two halves of e keep the
// boundary status of the original edge. Handles of unrelated elements are
// unaffected.
func (m *Mesh) SplitEdge(e Edge, p r3.Vec) Vertex {
	if !m.EdgeAlive(e) {
		panic(errDeadHandle)
	}
	v := m.newVertex(p)

	h0 := Halfedge(2 * e) // v0 -> v1
	o0 := h0 ^ 1          // v1 -> v0
	v0 := m.hvert[o0]

	// New edge closing the second half v -> v0.
	e1 := m.newEdgeH(v, v0)
	t1 := e1 ^ 1

	f0 := m.hface[h0]
	f3 := m.hface[o0]

	m.vhalf[v] = h0
	m.hvert[o0] = v

	if f0 != invalid {
		h1 := m.hnext[h0]
		h2 := m.hnext[h1]
		vA := m.hvert[h1] // apex of f0

		e0 := m.newEdgeH(v, vA)
		t0 := e0 ^ 1

		f1 := m.newFace(h2)
		m.fhalf[f0] = h0

		m.hface[h1] = f0
		m.hface[t0] = f0
		m.hface[h0] = f0

		m.hface[h2] = f1
		m.hface[t1] = f1
		m.hface[e0] = f1

		m.setNext(h0, h1)
		m.setNext(h1, t0)
		m.setNext(t0, h0)

		m.setNext(e0, h2)
		m.setNext(h2, t1)
		m.setNext(t1, e0)
	} else {
		m.setNext(m.hprev[h0], t1)
		m.setNext(t1, h0)
		// h0 is boundary, so v already stores a boundary halfedge.
	}

	if f3 != invalid {
		o1 := m.hnext[o0]
		o2 := m.hnext[o1]
		vB := m.hvert[o1] // apex of f3

		e2 := m.newEdgeH(v, vB)
		t2 := e2 ^ 1

		f2 := m.newFace(o1)

		m.hface[o1] = f2
		m.hface[t2] = f2
		m.hface[e1] = f2

		m.hface[o2] = f3
		m.hface[o0] = f3
		m.hface[e2] = f3
		m.fhalf[f3] = o0

		m.setNext(e1, o1)
		m.setNext(o1, t2)
		m.setNext(t2, e1)

		m.setNext(o0, e2)
		m.setNext(e2, o2)
		m.setNext(o2, o0)
	} else {
		m.setNext(e1, m.hnext[o0])
		m.setNext(o0, e1)
		m.vhalf[v] = e1
	}

	if m.vhalf[v0] == h0 {
		m.vhalf[v0] = t1
	}
	return v
}

// CanCollapse reports whether collapsing halfedge h, removing its origin
// vertex into its destination, keeps the mesh a 2-manifold. This is a pure
// topology test; geometric criteria are up to the caller.
func (m *Mesh) CanCollapse(h Halfedge) bool {
	if !m.EdgeAlive(m.HalfedgeEdge(h)) {
		return false
	}
	o := h ^ 1
	v0 := m.hvert[o] // removed
	v1 := m.hvert[h] // kept

	vl, vr := Vertex(invalid), Vertex(invalid)

	// The fan next to h degenerates if both its outer edges are boundary.
	if m.hface[h] != invalid {
		h1 := m.hnext[h]
		h2 := m.hnext[h1]
		vl = m.hvert[h1]
		if m.hface[h1^1] == invalid && m.hface[h2^1] == invalid {
			return false
		}
	}
	if m.hface[o] != invalid {
		o1 := m.hnext[o]
		o2 := m.hnext[o1]
		vr = m.hvert[o1]
		if m.hface[o1^1] == invalid && m.hface[o2^1] == invalid {
			return false
		}
	}
	if vl == vr {
		// Either e has no face at all or the two faces share the apex.
		return false
	}
	// An interior edge between two boundary vertices would pinch the
	// boundary together.
	if m.IsBoundaryVertex(v0) && m.IsBoundaryVertex(v1) &&
		m.hface[h] != invalid && m.hface[o] != invalid {
		return false
	}
	// Link condition: the one-rings of v0 and v1 may only share vl and vr.
	ok := true
	m.EachNeighbor(v0, func(vv Vertex) {
		if vv == v1 || vv == vl || vv == vr {
			return
		}
		if _, connected := m.FindHalfedge(vv, v1); connected {
			ok = false
		}
	})
	return ok
}

// Collapse removes the origin vertex of h, gluing its one-ring to the
// destination vertex. The caller must have checked CanCollapse.
func (m *Mesh) Collapse(h Halfedge) {
	h1 := m.hprev[h]
	o := h ^ 1
	o1 := m.hnext[o]

	m.removeEdge(h)

	if m.hnext[m.hnext[h1]] == h1 {
		m.removeLoop(h1)
	}
	if m.hnext[m.hnext[o1]] == o1 {
		m.removeLoop(o1)
	}
}

// removeEdge deletes h's edge and origin vertex, retargeting the origin's
// incoming halfedges at the destination.
func (m *Mesh) removeEdge(h Halfedge) {
	hn := m.hnext[h]
	hp := m.hprev[h]

	o := h ^ 1
	on := m.hnext[o]
	op := m.hprev[o]

	fh := m.hface[h]
	fo := m.hface[o]

	vKeep := m.hvert[h]
	vGone := m.hvert[o]

	m.EachOutgoing(vGone, func(out Halfedge) {
		m.hvert[out^1] = vKeep
	})

	m.setNext(hp, hn)
	m.setNext(op, on)

	if fh != invalid {
		m.fhalf[fh] = hn
	}
	if fo != invalid {
		m.fhalf[fo] = on
	}

	if m.vhalf[vKeep] == o {
		m.vhalf[vKeep] = hn
	}
	m.adjustOutgoing(vKeep)

	m.killVertex(vGone)
	m.killEdge(m.HalfedgeEdge(h))
}

// removeLoop collapses a degenerate two-sided face left behind by
// removeEdge into a single edge.
func (m *Mesh) removeLoop(h Halfedge) {
	h1 := m.hnext[h]
	o := h ^ 1
	o1 := h1 ^ 1

	v0 := m.hvert[h]
	v1 := m.hvert[h1]

	fh := m.hface[h]
	fo := m.hface[o]

	m.setNext(h1, m.hnext[o])
	m.setNext(m.hprev[o], h1)

	m.hface[h1] = fo
	if fo != invalid {
		m.fhalf[fo] = h1
	}

	m.vhalf[v0] = h1
	m.adjustOutgoing(v0)
	m.vhalf[v1] = o1
	m.adjustOutgoing(v1)

	if fh != invalid {
		m.killFace(fh)
	}
	m.killEdge(m.HalfedgeEdge(h))
}

// CanFlip reports whether edge e is interior and flipping it would not
// create a duplicate edge.
func (m *Mesh) CanFlip(e Edge) bool {
	if !m.EdgeAlive(e) || m.IsBoundaryEdge(e) {
		return false
	}
	va, vb := m.EdgeOppositeVertices(e)
	if va == vb {
		return false
	}
	_, connected := m.FindHalfedge(va, vb)
	return !connected
}

// Flip rotates interior edge e inside its two adjacent triangles so it
// connects the previously opposite vertices. The caller must have checked
// CanFlip.
func (m *Mesh) Flip(e Edge) {
	a0 := Halfedge(2 * e)
	b0 := a0 ^ 1

	a1 := m.hnext[a0]
	a2 := m.hnext[a1]
	b1 := m.hnext[b0]
	b2 := m.hnext[b1]

	va0 := m.hvert[a0]
	va1 := m.hvert[a1]
	vb0 := m.hvert[b0]
	vb1 := m.hvert[b1]

	fa := m.hface[a0]
	fb := m.hface[b0]

	m.hvert[a0] = va1
	m.hvert[b0] = vb1

	m.setNext(a0, a2)
	m.setNext(a2, b1)
	m.setNext(b1, a0)

	m.setNext(b0, b2)
	m.setNext(b2, a1)
	m.setNext(a1, b0)

	m.hface[a1] = fb
	m.hface[b1] = fa

	m.fhalf[fa] = a0
	m.fhalf[fb] = b0

	if m.vhalf[va0] == b0 {
		m.vhalf[va0] = a1
	}
	if m.vhalf[vb0] == a0 {
		m.vhalf[vb0] = b1
	}
}

func (m *Mesh) setNext(h, n Halfedge) {
	m.hnext[h] = n
	m.hprev[n] = h
}
