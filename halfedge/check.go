package halfedge

import (
	"errors"
	"fmt"
)

// Validate checks that the connectivity describes a 2-manifold triangle
// mesh: halfedge links are mutually consistent, every face is a triangle,
// no edge is duplicated and every vertex has a single fan of faces with at
// most one boundary gap. It returns the first violation found.
func (m *Mesh) Validate() error {
	if m.nv == 0 && m.nf == 0 {
		return errors.New("halfedge: empty mesh")
	}
	seen := make(map[[2]Vertex]Edge, m.ne)
	for e := Edge(0); int(e) < len(m.edead); e++ {
		if m.edead[e] {
			continue
		}
		a, b := m.EdgeVertices(e)
		if a == b {
			return fmt.Errorf("halfedge: edge %d is a self-loop at vertex %d", e, a)
		}
		if !m.VertexAlive(a) || !m.VertexAlive(b) {
			return fmt.Errorf("halfedge: edge %d references dead vertex", e)
		}
		key := [2]Vertex{a, b}
		if a > b {
			key[0], key[1] = b, a
		}
		if dup, ok := seen[key]; ok {
			return fmt.Errorf("halfedge: edges %d and %d connect the same vertices %d-%d", dup, e, a, b)
		}
		seen[key] = e
		for i := 0; i < 2; i++ {
			h := m.EdgeHalfedge(e, i)
			if m.hnext[h] == invalid || m.hprev[h] == invalid {
				return fmt.Errorf("halfedge: halfedge %d has unset links", h)
			}
			if m.hnext[m.hprev[h]] != h || m.hprev[m.hnext[h]] != h {
				return fmt.Errorf("halfedge: inconsistent next/prev links at halfedge %d", h)
			}
			if m.hface[h] != m.hface[m.hnext[h]] && m.hface[h] == invalid {
				return fmt.Errorf("halfedge: boundary halfedge %d chained to an interior one", h)
			}
			f := m.hface[h]
			if f != invalid {
				if !m.FaceAlive(f) {
					return fmt.Errorf("halfedge: halfedge %d references dead face %d", h, f)
				}
				if m.hnext[m.hnext[m.hnext[h]]] != h {
					return fmt.Errorf("halfedge: face %d is not a triangle", f)
				}
			}
		}
	}
	for f := Face(0); int(f) < len(m.fdead); f++ {
		if m.fdead[f] {
			continue
		}
		h := m.fhalf[f]
		if m.hface[h] != f {
			return fmt.Errorf("halfedge: face %d does not own its anchor halfedge", f)
		}
		a, b, c := m.FaceVertices(f)
		if a == b || b == c || c == a {
			return fmt.Errorf("halfedge: face %d has repeated vertices", f)
		}
	}
	for v := Vertex(0); int(v) < len(m.pos); v++ {
		if m.vdead[v] {
			continue
		}
		h := m.vhalf[v]
		if h == invalid {
			continue // isolated
		}
		if m.edead[m.HalfedgeEdge(h)] {
			return fmt.Errorf("halfedge: vertex %d references dead halfedge %d", v, h)
		}
		if m.From(h) != v {
			return fmt.Errorf("halfedge: vertex %d stores a foreign halfedge", v)
		}
		boundary := 0
		steps := 0
		limit := 2 * len(m.hvert)
		cur := h
		for {
			if m.hface[cur] == invalid {
				boundary++
			}
			cur = m.hnext[cur^1]
			steps++
			if cur == h {
				break
			}
			if steps > limit {
				return fmt.Errorf("halfedge: circulation around vertex %d does not close", v)
			}
		}
		if boundary > 1 {
			return fmt.Errorf("halfedge: vertex %d is non-manifold (%d boundary gaps)", v, boundary)
		}
		if boundary == 1 && m.hface[h] != invalid {
			return fmt.Errorf("halfedge: boundary vertex %d does not store a boundary halfedge", v)
		}
	}
	return nil
}
