package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ReadOBJ reads the vertex and face statements of a Wavefront OBJ file.
// Faces with more than three vertices are fanned into triangles. Texture
// and normal indices, groups and materials are ignored.
func ReadOBJ(r io.Reader) (points []r3.Vec, faces [][3]int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("OBJ line %d: vertex needs 3 coordinates", line)
			}
			var p r3.Vec
			var errs [3]error
			p.X, errs[0] = strconv.ParseFloat(fields[1], 64)
			p.Y, errs[1] = strconv.ParseFloat(fields[2], 64)
			p.Z, errs[2] = strconv.ParseFloat(fields[3], 64)
			for _, e := range errs {
				if e != nil {
					return nil, nil, fmt.Errorf("OBJ line %d: %w", line, e)
				}
			}
			points = append(points, p)
		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("OBJ line %d: face needs at least 3 vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, f := range fields[1:] {
				i, err := objIndex(f, len(points))
				if err != nil {
					return nil, nil, fmt.Errorf("OBJ line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			for i := 1; i+1 < len(idx); i++ {
				faces = append(faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if len(points) == 0 {
		return nil, nil, fmt.Errorf("OBJ contains no vertices")
	}
	return points, faces, nil
}

// objIndex resolves a face vertex reference ("7", "7/1", "7//3", "-1") to
// a zero-based vertex index.
func objIndex(s string, nv int) (int, error) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v += nv + 1
	}
	if v < 1 || v > nv {
		return 0, fmt.Errorf("vertex index %s out of range [1, %d]", s, nv)
	}
	return v - 1, nil
}

// WriteOBJ writes an indexed triangle mesh as a Wavefront OBJ file.
func WriteOBJ(w io.Writer, points []r3.Vec, faces [][3]int) error {
	if len(faces) == 0 {
		return fmt.Errorf("empty face slice")
	}
	bw := bufio.NewWriter(w)
	for _, p := range points {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, f := range faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}
