// Package meshio loads and stores triangle meshes, dispatching on the
// file extension. STL files are read and written in the binary flavor;
// OBJ files keep only geometry.
package meshio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cg-tub/remesh/halfedge"
	"gonum.org/v1/gonum/spatial/r3"
)

// Load reads the mesh at path into a halfedge mesh. STL triangle soups
// are welded; a non-zero weldTol overrides the automatic tolerance.
// Indexed formats ignore weldTol.
func Load(path string, weldTol float64) (*halfedge.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		tris, err := ReadSTL(f)
		if err != nil && tris == nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		m, err := halfedge.FromTriangles(tris, weldTol)
		if err != nil {
			return nil, fmt.Errorf("weld %s: %w", path, err)
		}
		return m, nil
	case ".obj":
		points, faces, err := ReadOBJ(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		m, err := halfedge.NewFromIndexed(points, faces)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", path, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("load %s: unsupported mesh format %q", path, ext)
	}
}

// Save writes the live elements of m to path, choosing the format from
// the extension. Removed elements are compacted away.
func Save(path string, m *halfedge.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		if err := WriteSTL(f, m.Triangles()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	case ".obj":
		points, faces := compact(m)
		if err := WriteOBJ(f, points, faces); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	default:
		return fmt.Errorf("save %s: unsupported mesh format %q", path, ext)
	}
	return nil
}

// compact renumbers the live vertices and faces of m contiguously.
func compact(m *halfedge.Mesh) ([]r3.Vec, [][3]int) {
	remap := make(map[halfedge.Vertex]int, m.VertexCount())
	points := make([]r3.Vec, 0, m.VertexCount())
	m.EachVertex(func(v halfedge.Vertex) {
		remap[v] = len(points)
		points = append(points, m.Position(v))
	})
	faces := make([][3]int, 0, m.FaceCount())
	m.EachFace(func(f halfedge.Face) {
		a, b, c := m.FaceVertices(f)
		faces = append(faces, [3]int{remap[a], remap[b], remap[c]})
	})
	return points, faces
}
