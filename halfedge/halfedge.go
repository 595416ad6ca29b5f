// Package halfedge implements a 2-manifold triangle surface mesh with
// halfedge connectivity. Vertices, edges and faces are addressed by small
// integer handles. Topology edits (edge split, collapse and flip) mark
// removed elements as dead instead of compacting storage, so handles stay
// stable for the duration of a remeshing run.
package halfedge

import (
	"errors"
	"fmt"

	"github.com/cg-tub/remesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Handles into a Mesh. A negative handle is invalid.
type (
	Vertex   int
	Halfedge int
	Edge     int
	Face     int
)

const invalid = -1

// Mesh is a halfedge triangle mesh. Halfedges of edge e are 2e and 2e+1 so
// the opposite of halfedge h is h^1. A boundary halfedge has no face and is
// linked into a boundary loop. The outgoing halfedge stored per vertex is a
// boundary halfedge whenever the vertex lies on the boundary.
type Mesh struct {
	pos   []r3.Vec
	vhalf []Halfedge // outgoing halfedge, invalid for isolated vertices
	hvert []Vertex   // vertex the halfedge points to
	hface []Face     // invalid for boundary halfedges
	hnext []Halfedge
	hprev []Halfedge
	fhalf []Halfedge

	vdead []bool
	edead []bool
	fdead []bool

	nv, ne, nf int
}

// NewFromIndexed builds a mesh from vertex positions and triangles given as
// vertex index triples with consistent counterclockwise winding. It returns
// an error if the triangles do not describe an orientable 2-manifold
// surface (with boundary).
func NewFromIndexed(points []r3.Vec, faces [][3]int) (*Mesh, error) {
	m := &Mesh{
		pos:   append([]r3.Vec(nil), points...),
		vhalf: make([]Halfedge, len(points)),
		vdead: make([]bool, len(points)),
		nv:    len(points),
	}
	for i := range m.vhalf {
		m.vhalf[i] = invalid
	}
	edges := make(map[[2]int]Edge, 3*len(faces)/2)
	for fi, fv := range faces {
		if fv[0] == fv[1] || fv[1] == fv[2] || fv[2] == fv[0] {
			return nil, fmt.Errorf("halfedge: face %d has repeated vertices", fi)
		}
		for _, v := range fv {
			if v < 0 || v >= len(points) {
				return nil, fmt.Errorf("halfedge: face %d references vertex %d out of range", fi, v)
			}
		}
		var fh [3]Halfedge
		for i := 0; i < 3; i++ {
			a, b := fv[i], fv[(i+1)%3]
			key := [2]int{a, b}
			if a > b {
				key[0], key[1] = b, a
			}
			e, ok := edges[key]
			if !ok {
				e = m.newEdge(Vertex(a), Vertex(b))
				edges[key] = e
			}
			h := Halfedge(2 * e)
			if m.hvert[h] != Vertex(b) {
				h ^= 1
			}
			if m.hface[h] != invalid {
				return nil, fmt.Errorf("halfedge: edge %d-%d is non-manifold or inconsistently oriented", a, b)
			}
			fh[i] = h
		}
		f := m.newFace(fh[0])
		for i := 0; i < 3; i++ {
			m.hface[fh[i]] = f
			m.hnext[fh[i]] = fh[(i+1)%3]
			m.hprev[fh[(i+1)%3]] = fh[i]
			if m.vhalf[fv[i]] == invalid {
				m.vhalf[fv[i]] = fh[i]
			}
		}
	}
	if err := m.linkBoundary(); err != nil {
		return nil, err
	}
	return m, nil
}

// linkBoundary chains boundary halfedges into loops and repoints boundary
// vertices at their single outgoing boundary halfedge.
func (m *Mesh) linkBoundary() error {
	for h := Halfedge(0); int(h) < len(m.hvert); h++ {
		if m.hface[h] != invalid {
			continue
		}
		// Rotate around the head vertex until the outgoing boundary
		// halfedge is found. Every visited candidate has a face, so its
		// prev link is already set.
		c := m.Opposite(h)
		for m.hface[c] != invalid {
			c = m.Opposite(m.hprev[c])
		}
		m.hnext[h] = c
		m.hprev[c] = h
	}
	for h := Halfedge(0); int(h) < len(m.hvert); h++ {
		if m.hface[h] != invalid {
			continue
		}
		u := m.From(h)
		if m.hface[m.vhalf[u]] == invalid && m.vhalf[u] != h {
			return fmt.Errorf("halfedge: vertex %d touches more than one boundary loop", u)
		}
		m.vhalf[u] = h
	}
	return nil
}

func (m *Mesh) newVertex(p r3.Vec) Vertex {
	m.pos = append(m.pos, p)
	m.vhalf = append(m.vhalf, invalid)
	m.vdead = append(m.vdead, false)
	m.nv++
	return Vertex(len(m.pos) - 1)
}

// newEdge allocates the halfedge pair a->b, b->a and returns the edge.
func (m *Mesh) newEdge(a, b Vertex) Edge {
	m.hvert = append(m.hvert, b, a)
	m.hface = append(m.hface, invalid, invalid)
	m.hnext = append(m.hnext, invalid, invalid)
	m.hprev = append(m.hprev, invalid, invalid)
	m.edead = append(m.edead, false)
	m.ne++
	return Edge(len(m.edead) - 1)
}

// newEdgeH is newEdge returning the halfedge pointing a->b.
func (m *Mesh) newEdgeH(a, b Vertex) Halfedge {
	return Halfedge(2 * m.newEdge(a, b))
}

func (m *Mesh) newFace(h Halfedge) Face {
	m.fhalf = append(m.fhalf, h)
	m.fdead = append(m.fdead, false)
	m.nf++
	return Face(len(m.fhalf) - 1)
}

func (m *Mesh) killVertex(v Vertex) {
	m.vdead[v] = true
	m.vhalf[v] = invalid
	m.nv--
}

func (m *Mesh) killEdge(e Edge) {
	m.edead[e] = true
	m.ne--
}

func (m *Mesh) killFace(f Face) {
	m.fdead[f] = true
	m.nf--
}

// VertexCount returns the number of live vertices.
func (m *Mesh) VertexCount() int { return m.nv }

// EdgeCount returns the number of live edges.
func (m *Mesh) EdgeCount() int { return m.ne }

// FaceCount returns the number of live faces.
func (m *Mesh) FaceCount() int { return m.nf }

// VertexCap returns one past the largest vertex handle ever allocated,
// dead slots included.
func (m *Mesh) VertexCap() int { return len(m.pos) }

// EdgeCap returns one past the largest edge handle ever allocated.
func (m *Mesh) EdgeCap() int { return len(m.edead) }

// FaceCap returns one past the largest face handle ever allocated.
func (m *Mesh) FaceCap() int { return len(m.fdead) }

// VertexAlive reports whether v is a live vertex handle.
func (m *Mesh) VertexAlive(v Vertex) bool {
	return v >= 0 && int(v) < len(m.pos) && !m.vdead[v]
}

// EdgeAlive reports whether e is a live edge handle.
func (m *Mesh) EdgeAlive(e Edge) bool {
	return e >= 0 && int(e) < len(m.edead) && !m.edead[e]
}

// FaceAlive reports whether f is a live face handle.
func (m *Mesh) FaceAlive(f Face) bool {
	return f >= 0 && int(f) < len(m.fdead) && !m.fdead[f]
}

// Position returns the position of vertex v.
func (m *Mesh) Position(v Vertex) r3.Vec { return m.pos[v] }

// SetPosition moves vertex v to p.
func (m *Mesh) SetPosition(v Vertex, p r3.Vec) { m.pos[v] = p }

// Opposite returns the halfedge paired with h.
func (m *Mesh) Opposite(h Halfedge) Halfedge { return h ^ 1 }

// Next returns the halfedge following h in its face or boundary loop.
func (m *Mesh) Next(h Halfedge) Halfedge { return m.hnext[h] }

// Prev returns the halfedge preceding h in its face or boundary loop.
func (m *Mesh) Prev(h Halfedge) Halfedge { return m.hprev[h] }

// To returns the vertex h points at.
func (m *Mesh) To(h Halfedge) Vertex { return m.hvert[h] }

// From returns the vertex h starts from.
func (m *Mesh) From(h Halfedge) Vertex { return m.hvert[h^1] }

// HalfedgeFace returns the face of h, or a negative handle for boundary
// halfedges.
func (m *Mesh) HalfedgeFace(h Halfedge) Face { return m.hface[h] }

// HalfedgeEdge returns the edge h belongs to.
func (m *Mesh) HalfedgeEdge(h Halfedge) Edge { return Edge(h >> 1) }

// EdgeHalfedge returns halfedge i (0 or 1) of edge e.
func (m *Mesh) EdgeHalfedge(e Edge, i int) Halfedge { return Halfedge(2*int(e) + i) }

// EdgeVertices returns the endpoints of e in the direction of its first
// halfedge.
func (m *Mesh) EdgeVertices(e Edge) (Vertex, Vertex) {
	h := Halfedge(2 * e)
	return m.hvert[h^1], m.hvert[h]
}

// IsBoundaryHalfedge reports whether h has no face.
func (m *Mesh) IsBoundaryHalfedge(h Halfedge) bool { return m.hface[h] == invalid }

// IsBoundaryEdge reports whether e lies on the mesh boundary.
func (m *Mesh) IsBoundaryEdge(e Edge) bool {
	return m.hface[2*e] == invalid || m.hface[2*e+1] == invalid
}

// IsBoundaryVertex reports whether v lies on the mesh boundary.
func (m *Mesh) IsBoundaryVertex(v Vertex) bool {
	h := m.vhalf[v]
	return h != invalid && m.hface[h] == invalid
}

// IsIsolated reports whether v has no incident edges.
func (m *Mesh) IsIsolated(v Vertex) bool { return m.vhalf[v] == invalid }

// Valence returns the number of edges incident to v.
func (m *Mesh) Valence(v Vertex) int {
	n := 0
	m.EachOutgoing(v, func(Halfedge) { n++ })
	return n
}

// EachVertex calls fn for every live vertex.
func (m *Mesh) EachVertex(fn func(Vertex)) {
	for v := Vertex(0); int(v) < len(m.pos); v++ {
		if !m.vdead[v] {
			fn(v)
		}
	}
}

// EachEdge calls fn for every live edge.
func (m *Mesh) EachEdge(fn func(Edge)) {
	for e := Edge(0); int(e) < len(m.edead); e++ {
		if !m.edead[e] {
			fn(e)
		}
	}
}

// EachFace calls fn for every live face.
func (m *Mesh) EachFace(fn func(Face)) {
	for f := Face(0); int(f) < len(m.fdead); f++ {
		if !m.fdead[f] {
			fn(f)
		}
	}
}

// EachOutgoing calls fn for every halfedge leaving v.
func (m *Mesh) EachOutgoing(v Vertex, fn func(Halfedge)) {
	h0 := m.vhalf[v]
	if h0 == invalid {
		return
	}
	h := h0
	for {
		fn(h)
		h = m.hnext[h^1]
		if h == h0 {
			return
		}
	}
}

// EachNeighbor calls fn for every vertex in the one-ring of v.
func (m *Mesh) EachNeighbor(v Vertex, fn func(Vertex)) {
	m.EachOutgoing(v, func(h Halfedge) { fn(m.hvert[h]) })
}

// EachVertexFace calls fn for every face incident to v.
func (m *Mesh) EachVertexFace(v Vertex, fn func(Face)) {
	m.EachOutgoing(v, func(h Halfedge) {
		if f := m.hface[h]; f != invalid {
			fn(f)
		}
	})
}

// FaceVertices returns the three corners of f in winding order.
func (m *Mesh) FaceVertices(f Face) (Vertex, Vertex, Vertex) {
	h := m.fhalf[f]
	return m.hvert[h], m.hvert[m.hnext[h]], m.hvert[m.hprev[h]]
}

// FindHalfedge returns the halfedge from a to b if the two vertices are
// connected.
func (m *Mesh) FindHalfedge(a, b Vertex) (Halfedge, bool) {
	found := Halfedge(invalid)
	m.EachOutgoing(a, func(h Halfedge) {
		if m.hvert[h] == b {
			found = h
		}
	})
	return found, found != invalid
}

// EdgeOppositeVertices returns the two vertices across from edge e in its
// adjacent faces. Only valid for interior edges.
func (m *Mesh) EdgeOppositeVertices(e Edge) (Vertex, Vertex) {
	h := Halfedge(2 * e)
	return m.hvert[m.hnext[h]], m.hvert[m.hnext[h^1]]
}

// Bounds returns the axis-aligned bounding box of the live vertices.
func (m *Mesh) Bounds() r3.Box {
	first := true
	var b r3.Box
	m.EachVertex(func(v Vertex) {
		if first {
			b = r3.Box{Min: m.pos[v], Max: m.pos[v]}
			first = false
			return
		}
		b.Min = d3.MinElem(b.Min, m.pos[v])
		b.Max = d3.MaxElem(b.Max, m.pos[v])
	})
	return b
}

// Triangles returns the live faces as position triples.
func (m *Mesh) Triangles() [][3]r3.Vec {
	out := make([][3]r3.Vec, 0, m.nf)
	m.EachFace(func(f Face) {
		a, b, c := m.FaceVertices(f)
		out = append(out, [3]r3.Vec{m.pos[a], m.pos[b], m.pos[c]})
	})
	return out
}

// adjustOutgoing restores the invariant that a boundary vertex stores an
// outgoing boundary halfedge.
func (m *Mesh) adjustOutgoing(v Vertex) {
	m.EachOutgoing(v, func(h Halfedge) {
		if m.hface[h] == invalid {
			m.vhalf[v] = h
		}
	})
}

var errDeadHandle = errors.New("halfedge: operation on dead element")
