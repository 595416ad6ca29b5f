package meshio_test

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cg-tub/remesh/halfedge"
	"github.com/cg-tub/remesh/internal/d3"
	"github.com/cg-tub/remesh/meshio"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLRoundtrip(t *testing.T) {
	want := halfedge.Icosphere(1, 2).Triangles()
	var b bytes.Buffer
	if err := meshio.WriteSTL(&b, want); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 84+50*len(want) {
		t.Fatalf("wrote %d bytes, want %d", b.Len(), 84+50*len(want))
	}
	got, err := meshio.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d triangles, want %d", len(got), len(want))
	}
	for i := range got {
		for j := range got[i] {
			if !d3.EqualWithin(got[i][j], want[i][j], 1e-6) {
				t.Fatalf("triangle %d vertex %d: got %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestSTLEmpty(t *testing.T) {
	if err := meshio.WriteSTL(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected error writing zero triangles")
	}
	var b bytes.Buffer
	b.Write(make([]byte, 84)) // header with Count == 0
	if _, err := meshio.ReadSTL(&b); err == nil {
		t.Error("expected error reading zero-triangle STL")
	}
}

func TestSTLTruncated(t *testing.T) {
	tris := halfedge.Icosphere(1, 0).Triangles()
	var b bytes.Buffer
	if err := meshio.WriteSTL(&b, tris); err != nil {
		t.Fatal(err)
	}
	trunc := bytes.NewReader(b.Bytes()[:b.Len()-25])
	if _, err := meshio.ReadSTL(trunc); err == nil {
		t.Error("expected error on truncated STL")
	}
}

func TestOBJRoundtrip(t *testing.T) {
	m := halfedge.Icosphere(1, 1)
	points := make([]r3.Vec, 0, m.VertexCount())
	m.EachVertex(func(v halfedge.Vertex) { points = append(points, m.Position(v)) })
	faces := make([][3]int, 0, m.FaceCount())
	m.EachFace(func(f halfedge.Face) {
		a, b, c := m.FaceVertices(f)
		faces = append(faces, [3]int{int(a), int(b), int(c)})
	})

	var b bytes.Buffer
	if err := meshio.WriteOBJ(&b, points, faces); err != nil {
		t.Fatal(err)
	}
	gotPoints, gotFaces, err := meshio.ReadOBJ(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotPoints) != len(points) || len(gotFaces) != len(faces) {
		t.Fatalf("got %d/%d points/faces, want %d/%d", len(gotPoints), len(gotFaces), len(points), len(faces))
	}
	for i := range points {
		if math.Abs(gotPoints[i].X-points[i].X) > 1e-12 {
			t.Fatalf("point %d: got %v, want %v", i, gotPoints[i], points[i])
		}
	}
	if gotFaces[0] != faces[0] {
		t.Fatalf("face 0: got %v, want %v", gotFaces[0], faces[0])
	}
}

func TestOBJQuadFan(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	_, faces, err := meshio.ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(faces) != 2 {
		t.Fatalf("got %d faces from a quad, want 2", len(faces))
	}
	want := [][3]int{{0, 1, 2}, {0, 2, 3}}
	for i := range want {
		if faces[i] != want[i] {
			t.Errorf("face %d: got %v, want %v", i, faces[i], want[i])
		}
	}
}

func TestOBJNegativeIndex(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	_, faces, err := meshio.ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(faces) != 1 || faces[0] != [3]int{0, 1, 2} {
		t.Fatalf("got %v, want [{0 1 2}]", faces)
	}
}

func TestOBJBadFace(t *testing.T) {
	const src = `
v 0 0 0
f 1 2 3
`
	if _, _, err := meshio.ReadOBJ(strings.NewReader(src)); err == nil {
		t.Error("expected out of range index error")
	}
}

func TestLoadSaveFiles(t *testing.T) {
	dir := t.TempDir()
	m := halfedge.Icosphere(1, 2)
	for _, ext := range []string{".stl", ".obj"} {
		path := filepath.Join(dir, "sphere"+ext)
		if err := meshio.Save(path, m); err != nil {
			t.Fatal(err)
		}
		got, err := meshio.Load(path, 0)
		if err != nil {
			t.Fatal(err)
		}
		if err := got.Validate(); err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		if got.FaceCount() != m.FaceCount() {
			t.Errorf("%s: %d faces, want %d", ext, got.FaceCount(), m.FaceCount())
		}
		if got.VertexCount() != m.VertexCount() {
			t.Errorf("%s: %d vertices, want %d", ext, got.VertexCount(), m.VertexCount())
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	if err := meshio.Save(filepath.Join(dir, "mesh.ply"), halfedge.UnitSquare()); err == nil {
		t.Error("expected unsupported format error on save")
	}
	if _, err := meshio.Load(filepath.Join(dir, "mesh.ply"), 0); err == nil {
		t.Error("expected error loading missing file")
	}
}
