package remesh

import (
	"errors"
	"fmt"
)

// ErrEmptyMesh is returned when the surface has no live faces.
var ErrEmptyMesh = errors.New("remesh: empty mesh")

// ErrNotManifold is returned when the surface fails its consistency
// checks before any pass runs.
var ErrNotManifold = errors.New("remesh: mesh is not manifold")

// Stats summarizes what a remeshing run did to the surface.
type Stats struct {
	VerticesBefore, VerticesAfter int
	EdgesBefore, EdgesAfter       int
	FacesBefore, FacesAfter       int
}

func (st Stats) String() string {
	return fmt.Sprintf("vertices %d->%d, edges %d->%d, faces %d->%d",
		st.VerticesBefore, st.VerticesAfter,
		st.EdgesBefore, st.EdgesAfter,
		st.FacesBefore, st.FacesAfter)
}

type remesher struct {
	s      Surface
	target []float64
	vfeat  []bool
	efeat  []bool
	proj   *projector
}

// Adaptive grades s so edge lengths follow local curvature, shrinking
// further toward the ear-channel anchor of the chosen side. The surface
// is modified in place.
func Adaptive(s Surface, p Params) (Stats, error) {
	p = p.WithDefaults()
	if err := p.validate(); err != nil {
		return Stats{}, err
	}
	st, err := prepare(s)
	if err != nil {
		return st, err
	}
	r := &remesher{s: s, proj: newProjector(s)}
	r.classifyFeatures(p.FeatureAngle)
	r.target = adaptiveTargets(s, p)
	r.run(p.Iterations)
	return finish(s, st), nil
}

// Uniform drives every edge toward a single target length. A
// non-positive iteration count falls back to the default.
func Uniform(s Surface, edgeLength float64, iterations int) (Stats, error) {
	if edgeLength <= 0 {
		return Stats{}, fmt.Errorf("%w: edge length %g must be positive", ErrBadParams, edgeLength)
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	st, err := prepare(s)
	if err != nil {
		return st, err
	}
	r := &remesher{s: s, proj: newProjector(s)}
	r.classifyFeatures(0)
	r.target = uniformTargets(s, edgeLength)
	r.run(iterations)
	return finish(s, st), nil
}

func (r *remesher) run(iterations int) {
	for i := 0; i < iterations; i++ {
		r.splitLongEdges()
		r.collapseShortEdges()
		r.equalizeValences()
		r.tangentialRelax(5)
	}
}

func prepare(s Surface) (Stats, error) {
	st := Stats{
		VerticesBefore: s.VertexCount(),
		EdgesBefore:    s.EdgeCount(),
		FacesBefore:    s.FaceCount(),
	}
	if st.FacesBefore == 0 {
		return st, ErrEmptyMesh
	}
	if err := s.Validate(); err != nil {
		return st, fmt.Errorf("%w: %s", ErrNotManifold, err)
	}
	return st, nil
}

func finish(s Surface, st Stats) Stats {
	st.VerticesAfter = s.VertexCount()
	st.EdgesAfter = s.EdgeCount()
	st.FacesAfter = s.FaceCount()
	return st
}
