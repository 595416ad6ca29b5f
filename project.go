package remesh

import (
	"math"

	"github.com/cg-tub/remesh/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// projector resolves the closest point on a frozen snapshot of the input
// surface. Tangential relaxation projects every moved vertex through it so
// the mesh never drifts away from the geometry it approximates.
type projector struct {
	tree *kdtree.Tree
}

// refTriangle is a kd-tree element: a snapshot triangle indexed by its
// centroid. The query probe reuses the type with only the centroid set.
type refTriangle struct {
	c       r3.Vec
	tri     d3.Triangle
	closest r3.Vec // result of the last Distance call
	probe   bool
}

func (t *refTriangle) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*refTriangle)
	switch d {
	case 0:
		return t.c.X - q.c.X
	case 1:
		return t.c.Y - q.c.Y
	case 2:
		return t.c.Z - q.c.Z
	}
	panic("unreachable")
}

func (t *refTriangle) Dims() int { return 3 }

// Distance returns the squared distance between a probe point and a
// triangle, caching the closest surface point on the triangle element.
func (t *refTriangle) Distance(c kdtree.Comparable) float64 {
	q := c.(*refTriangle)
	if t.probe {
		if q.probe {
			return r3.Norm2(r3.Sub(t.c, q.c))
		}
		t, q = q, t // make t the triangle
	}
	t.closest = t.tri.Closest(q.c)
	return r3.Norm2(r3.Sub(q.c, t.closest))
}

// refSet implements kdtree.Interface over the snapshot triangles.
type refSet []refTriangle

func (s refSet) Index(i int) kdtree.Comparable { return &s[i] }
func (s refSet) Len() int                      { return len(s) }
func (s refSet) Pivot(d kdtree.Dim) int {
	p := refPlane{dim: int(d), set: s}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (s refSet) Slice(start, end int) kdtree.Interface { return s[start:end] }

func (s refSet) Bounds() *kdtree.Bounding {
	min := refTriangle{c: d3.Elem(math.MaxFloat64)}
	max := refTriangle{c: d3.Elem(-math.MaxFloat64)}
	for i := range s {
		min.c = d3.MinElem(min.c, s[i].c)
		max.c = d3.MaxElem(max.c, s[i].c)
	}
	return &kdtree.Bounding{Min: &min, Max: &max}
}

type refPlane struct {
	dim int
	set refSet
}

func (p refPlane) Less(i, j int) bool {
	return p.set[i].Compare(&p.set[j], kdtree.Dim(p.dim)) < 0
}
func (p refPlane) Swap(i, j int)  { p.set[i], p.set[j] = p.set[j], p.set[i] }
func (p refPlane) Len() int       { return len(p.set) }
func (p refPlane) Slice(start, end int) kdtree.SortSlicer {
	p.set = p.set[start:end]
	return p
}

// newProjector snapshots the live faces of s into a kd-tree.
func newProjector(s Surface) *projector {
	set := make(refSet, 0, s.FaceCount())
	s.EachFace(func(f Face) {
		a, b, c := s.FaceVertices(f)
		tri := d3.Triangle{s.Position(a), s.Position(b), s.Position(c)}
		set = append(set, refTriangle{c: tri.Centroid(), tri: tri})
	})
	return &projector{tree: kdtree.New(set, true)}
}

// project returns the point on the snapshot surface closest to q.
func (p *projector) project(q r3.Vec) r3.Vec {
	probe := refTriangle{c: q, probe: true}
	got, _ := p.tree.Nearest(&probe)
	return got.(*refTriangle).closest
}
