// Package remesh grades triangulated surfaces so that element size varies
// smoothly between a minimum and maximum edge length. In adaptive mode the
// per-vertex target edge length follows local curvature, bounded by an
// approximation error, with an extra bias that shrinks elements near an ear
// channel entrance of a head model. Uniform mode drives every edge toward a
// single global length. Both modes run a fixed number of
// split/collapse/flip/relax passes over the mesh.
package remesh

import (
	"github.com/cg-tub/remesh/halfedge"
	"gonum.org/v1/gonum/spatial/r3"
)

// Handle aliases so Surface implementations and callers share one
// vocabulary with the halfedge package.
type (
	Vertex   = halfedge.Vertex
	Halfedge = halfedge.Halfedge
	Edge     = halfedge.Edge
	Face     = halfedge.Face
)

// Surface is the capability set the grading algorithm requires from a mesh.
// halfedge.Mesh satisfies it; any manifold triangle mesh representation
// with stable integer handles can stand in.
//
// Topology edits must be all-or-nothing: SplitEdge always succeeds on a
// live edge, while Collapse and Flip may only be called after their Can
// counterpart reported true. New vertices, edges and faces are appended at
// the end of the handle range; removed elements keep their slot and report
// not-alive.
var _ Surface = (*halfedge.Mesh)(nil)

type Surface interface {
	VertexCount() int
	EdgeCount() int
	FaceCount() int

	// Capacity and liveness allow iterating a snapshot of the element
	// ranges while passes mutate topology behind the iteration cursor.
	VertexCap() int
	EdgeCap() int
	VertexAlive(Vertex) bool
	EdgeAlive(Edge) bool

	Position(Vertex) r3.Vec
	SetPosition(Vertex, r3.Vec)
	Bounds() r3.Box

	EdgeVertices(Edge) (Vertex, Vertex)
	EdgeHalfedge(Edge, int) Halfedge
	HalfedgeEdge(Halfedge) Edge
	To(Halfedge) Vertex
	From(Halfedge) Vertex
	EdgeLength(Edge) float64
	Valence(Vertex) int
	IsBoundaryVertex(Vertex) bool
	IsBoundaryEdge(Edge) bool
	IsIsolated(Vertex) bool

	EachVertex(func(Vertex))
	EachEdge(func(Edge))
	EachFace(func(Face))
	EachNeighbor(Vertex, func(Vertex))
	EachOutgoing(Vertex, func(Halfedge))
	EachVertexFace(Vertex, func(Face))
	FaceVertices(Face) (Vertex, Vertex, Vertex)

	VertexNormal(Vertex) r3.Vec
	MaxAbsCurvature(Vertex) float64
	DihedralAngle(Edge) float64
	EdgeOppositeVertices(Edge) (Vertex, Vertex)

	SplitEdge(Edge, r3.Vec) Vertex
	CanCollapse(Halfedge) bool
	Collapse(Halfedge)
	CanFlip(Edge) bool
	Flip(Edge)

	Validate() error
}
