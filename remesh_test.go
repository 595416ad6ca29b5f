package remesh_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cg-tub/remesh"
	"github.com/cg-tub/remesh/halfedge"
	"github.com/cg-tub/remesh/meshio"
	"github.com/deadsy/sdfx/obj"
	sdfxrender "github.com/deadsy/sdfx/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestUniformSphere(t *testing.T) {
	const target = 0.3
	m := halfedge.Icosphere(1, 3)
	st, err := remesh.Uniform(m, target, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if st.FacesAfter != m.FaceCount() || st.FacesBefore != 20<<6 {
		t.Errorf("stats %v disagree with mesh", st)
	}
	assertEdgeBounds(t, m, target, target)
	// Vertices must stay on the unit sphere after reprojection.
	m.EachVertex(func(v halfedge.Vertex) {
		if r := r3.Norm(m.Position(v)); !(math.Abs(r-1) <= 0.05) {
			t.Errorf("vertex %d drifted to radius %g", v, r)
		}
	})
}

func TestUniformCoarsens(t *testing.T) {
	m := halfedge.Icosphere(1, 4)
	before := m.FaceCount()
	if _, err := remesh.Uniform(m, 0.5, 5); err != nil {
		t.Fatal(err)
	}
	if m.FaceCount() >= before/2 {
		t.Errorf("faces %d, want well below %d", m.FaceCount(), before)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestUniformRefines(t *testing.T) {
	m := halfedge.Icosphere(1, 1)
	before := m.FaceCount()
	if _, err := remesh.Uniform(m, 0.1, 5); err != nil {
		t.Fatal(err)
	}
	if m.FaceCount() <= 4*before {
		t.Errorf("faces %d, want well above %d", m.FaceCount(), before)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestUniformFlatPatch(t *testing.T) {
	m := halfedge.UnitSquare()
	if _, err := remesh.Uniform(m, 0.25, 5); err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	// The boundary is a feature: the four corners survive in place.
	corners := map[r3.Vec]bool{
		{}:           false,
		{X: 1}:       false,
		{X: 1, Y: 1}: false,
		{Y: 1}:       false,
	}
	m.EachVertex(func(v halfedge.Vertex) {
		p := m.Position(v)
		if _, ok := corners[p]; ok {
			corners[p] = true
		}
		if p.X < -1e-9 || p.X > 1+1e-9 || p.Y < -1e-9 || p.Y > 1+1e-9 || math.Abs(p.Z) > 1e-9 {
			t.Errorf("vertex %d left the patch: %v", v, p)
		}
	})
	for p, seen := range corners {
		if !seen {
			t.Errorf("corner %v lost", p)
		}
	}
}

func TestUniformKeepsFiniteGeometry(t *testing.T) {
	// Relaxation reads vertex normals; a degenerate normal would smear NaN
	// through every position and defeat the split length guard.
	m := halfedge.UnitSquare()
	st, err := remesh.Uniform(m, 0.5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if st.FacesAfter > 100 {
		t.Fatalf("runaway refinement: %d faces on a two-triangle patch", st.FacesAfter)
	}
	m.EachVertex(func(v halfedge.Vertex) {
		p := m.Position(v)
		for _, c := range []float64{p.X, p.Y, p.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				t.Fatalf("vertex %d has non-finite position %v", v, p)
			}
		}
		n := m.VertexNormal(v)
		if math.IsNaN(n.X + n.Y + n.Z) {
			t.Errorf("vertex %d has non-finite normal %v", v, n)
		}
	})
}

func TestUniformIdempotent(t *testing.T) {
	// A second run at the same target barely changes a converged mesh.
	m := halfedge.Icosphere(1, 3)
	if _, err := remesh.Uniform(m, 0.3, 10); err != nil {
		t.Fatal(err)
	}
	before := m.FaceCount()
	st, err := remesh.Uniform(m, 0.3, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	lo, hi := before-before/5, before+before/5
	if st.FacesAfter < lo || st.FacesAfter > hi {
		t.Errorf("faces %d after rerun, want within [%d, %d]", st.FacesAfter, lo, hi)
	}
}

func TestUniformManifoldEachPass(t *testing.T) {
	for n := 1; n <= 3; n++ {
		m := halfedge.Icosphere(1, 3)
		if _, err := remesh.Uniform(m, 0.2, n); err != nil {
			t.Fatalf("iterations %d: %v", n, err)
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("iterations %d: %v", n, err)
		}
	}
}

func TestUniformGridCoarsens(t *testing.T) {
	m := halfedge.Grid(20, 20)
	before := m.FaceCount()
	if _, err := remesh.Uniform(m, 0.2, 5); err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.FaceCount() >= before/2 {
		t.Errorf("faces %d, want well below %d", m.FaceCount(), before)
	}
}

func TestAdaptiveSphereAnchor(t *testing.T) {
	m := halfedge.Icosphere(1, 4)
	anchor := r3.Vec{Y: 1}
	_, err := remesh.Adaptive(m, remesh.Params{
		MinLength:     0.05,
		MaxLength:     0.4,
		ApproxError:   0.4,
		Side:          remesh.SideLeft,
		ChannelLeft:   anchor,
		FalloffRadius: 1.5,
		Iterations:    5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	near := meanEdgeNear(m, anchor, 0.3)
	far := meanEdgeNear(m, r3.Scale(-1, anchor), 0.3)
	if !(near < far) {
		t.Errorf("mean edge near anchor %g not below far side %g", near, far)
	}
}

func TestAdaptiveGammaEstimate(t *testing.T) {
	// No explicit channels: the anchor is estimated on the positive Y
	// side for the left ear.
	m := halfedge.Icosphere(1, 4)
	_, err := remesh.Adaptive(m, remesh.Params{
		MinLength:     0.05,
		MaxLength:     0.4,
		ApproxError:   0.4,
		Side:          remesh.SideLeft,
		FalloffRadius: 1.5,
		Iterations:    5,
	})
	if err != nil {
		t.Fatal(err)
	}
	near := meanEdgeNear(m, r3.Vec{Y: 1}, 0.4)
	far := meanEdgeNear(m, r3.Vec{Y: -1}, 0.4)
	if !(near < far) {
		t.Errorf("mean edge on graded side %g not below far side %g", near, far)
	}
}

func TestAdaptiveBadParams(t *testing.T) {
	m := halfedge.Icosphere(1, 1)
	before := m.FaceCount()
	_, err := remesh.Adaptive(m, remesh.Params{MinLength: 2, MaxLength: 1})
	if !errors.Is(err, remesh.ErrBadParams) {
		t.Fatalf("got %v, want ErrBadParams", err)
	}
	if m.FaceCount() != before {
		t.Error("mesh mutated despite invalid parameters")
	}
}

func TestEmptyMesh(t *testing.T) {
	if _, err := remesh.Uniform(new(halfedge.Mesh), 0.5, 1); !errors.Is(err, remesh.ErrEmptyMesh) {
		t.Errorf("uniform: got %v, want ErrEmptyMesh", err)
	}
	_, err := remesh.Adaptive(new(halfedge.Mesh), remesh.Params{MinLength: 0.1, MaxLength: 1})
	if !errors.Is(err, remesh.ErrEmptyMesh) {
		t.Errorf("adaptive: got %v, want ErrEmptyMesh", err)
	}
}

func TestStatsString(t *testing.T) {
	st := remesh.Stats{VerticesBefore: 1, VerticesAfter: 2, EdgesBefore: 3, EdgesAfter: 4, FacesBefore: 5, FacesAfter: 6}
	if st.String() != "vertices 1->2, edges 3->4, faces 5->6" {
		t.Errorf("unexpected stats formatting: %q", st)
	}
}

// assertEdgeBounds checks the Botsch-Kobbelt thresholds with slack for
// edges pinned by boundary features.
func assertEdgeBounds(t *testing.T, m *halfedge.Mesh, lo, hi float64) {
	t.Helper()
	over, under, total := 0, 0, 0
	m.EachEdge(func(e halfedge.Edge) {
		total++
		l := m.EdgeLength(e)
		// A non-finite length counts as over so it fails loudly.
		if !(l <= 4.0/3.0*hi*1.01) {
			over++
		}
		if l < 4.0/5.0*lo*0.5 {
			under++
		}
	})
	if over > 0 {
		t.Errorf("%d/%d edges above the split threshold", over, total)
	}
	if under > total/20 {
		t.Errorf("%d/%d edges far below the collapse threshold", under, total)
	}
}

func meanEdgeNear(m *halfedge.Mesh, p r3.Vec, radius float64) float64 {
	sum, n := 0.0, 0
	m.EachEdge(func(e halfedge.Edge) {
		if r3.Norm(r3.Sub(m.Midpoint(e), p)) < radius {
			sum += m.EdgeLength(e)
			n++
		}
	})
	if n == 0 {
		return math.Inf(1)
	}
	return sum / float64(n)
}

func BenchmarkUniformBolt(b *testing.B) {
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)
	path := filepath.Join(b.TempDir(), "bolt.stl")
	object, _ := obj.Bolt(&obj.BoltParms{
		Thread:      "npt_1/2",
		Style:       "hex",
		Tolerance:   0.1,
		TotalLength: 20,
		ShankLength: 10,
	})
	sdfxrender.ToSTL(object, 120, path, &sdfxrender.MarchingCubesOctree{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		m, err := meshio.Load(path, 0)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if _, err := remesh.Uniform(m, 1, 3); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAdaptiveSphere(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		m := halfedge.Icosphere(1, 4)
		b.StartTimer()
		_, err := remesh.Adaptive(m, remesh.Params{
			MinLength:   0.03,
			MaxLength:   0.3,
			ApproxError: 0.1,
			ChannelLeft: r3.Vec{Y: 1},
			Iterations:  3,
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}
