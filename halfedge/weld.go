package halfedge

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FromTriangles welds a triangle soup into a halfedge mesh, merging
// vertices closer than tol. A tol of zero picks a tolerance from the
// smallest triangle side. Degenerate triangles whose corners weld together
// are dropped.
func FromTriangles(tris [][3]r3.Vec, tol float64) (*Mesh, error) {
	if len(tris) == 0 {
		return nil, errors.New("halfedge: empty triangle slice")
	}
	minSide2 := math.MaxFloat64
	maxSide2 := -math.MaxFloat64
	for i := range tris {
		for j := range tris[i] {
			side2 := r3.Norm2(r3.Sub(tris[i][(j+1)%3], tris[i][j]))
			minSide2 = math.Min(minSide2, side2)
			maxSide2 = math.Max(maxSide2, side2)
		}
	}
	suggested := math.Sqrt(minSide2) / 256
	if tol > math.Sqrt(maxSide2)/2 {
		return nil, fmt.Errorf("halfedge: weld tolerance too large, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	if tol <= 0 {
		return nil, errors.New("halfedge: model contains coincident triangle vertices")
	}

	// Weld vertices on an integer grid of spacing tol.
	cache := make(map[[3]int64]int, len(tris))
	var points []r3.Vec
	faces := make([][3]int, 0, len(tris))
	ri := 1 / tol
	for i := range tris {
		var idx [3]int
		for j, vert := range tris[i] {
			v := r3.Scale(ri, vert)
			key := [3]int64{int64(math.Round(v.X)), int64(math.Round(v.Y)), int64(math.Round(v.Z))}
			vi, ok := cache[key]
			if !ok {
				vi = len(points)
				cache[key] = vi
				points = append(points, vert)
			}
			idx[j] = vi
		}
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[2] == idx[0] {
			continue // triangle collapsed during welding
		}
		faces = append(faces, idx)
	}
	if len(faces) == 0 {
		return nil, errors.New("halfedge: all triangles degenerate after welding")
	}
	return NewFromIndexed(points, faces)
}
