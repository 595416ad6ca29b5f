package halfedge

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Icosphere returns a sphere of the given radius centered at the origin,
// built by subdividing an icosahedron subdiv times. subdiv 0 is the bare
// icosahedron with 20 faces; every level quadruples the face count.
func Icosphere(radius float64, subdiv int) *Mesh {
	phi := (1 + math.Sqrt(5)) / 2
	points := []r3.Vec{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	for s := 0; s < subdiv; s++ {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{a, b}
			if a > b {
				key[0], key[1] = b, a
			}
			if i, ok := mid[key]; ok {
				return i
			}
			i := len(points)
			points = append(points, r3.Scale(0.5, r3.Add(points[a], points[b])))
			mid[key] = i
			return i
		}
		next := make([][3]int, 0, 4*len(faces))
		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], ab, ca},
				[3]int{f[1], bc, ab},
				[3]int{f[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		faces = next
	}
	for i := range points {
		points[i] = r3.Scale(radius/r3.Norm(points[i]), points[i])
	}
	m, err := NewFromIndexed(points, faces)
	if err != nil {
		panic("bug: icosphere construction produced invalid topology")
	}
	return m
}

// UnitSquare returns the unit square in the XY plane as two triangles.
func UnitSquare() *Mesh {
	points := []r3.Vec{
		{}, {X: 1}, {X: 1, Y: 1}, {Y: 1},
	}
	faces := [][3]int{{0, 1, 2}, {0, 2, 3}}
	m, err := NewFromIndexed(points, faces)
	if err != nil {
		panic("bug: unit square construction produced invalid topology")
	}
	return m
}

// Grid returns the unit square in the XY plane subdivided into an nx by ny
// grid of cells, two triangles each.
func Grid(nx, ny int) *Mesh {
	if nx < 1 || ny < 1 {
		panic("bug: grid needs at least one cell per axis")
	}
	points := make([]r3.Vec, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			points = append(points, r3.Vec{X: float64(i) / float64(nx), Y: float64(j) / float64(ny)})
		}
	}
	faces := make([][3]int, 0, 2*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a := j*(nx+1) + i
			b := a + 1
			c := a + nx + 2
			d := a + nx + 1
			faces = append(faces, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	m, err := NewFromIndexed(points, faces)
	if err != nil {
		panic("bug: grid construction produced invalid topology")
	}
	return m
}
