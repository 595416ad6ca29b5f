package main

import (
	"github.com/cg-tub/remesh/halfedge"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
)

// writePreview renders a shaded view of the mesh to a PNG.
func writePreview(path string, m *halfedge.Mesh) error {
	const (
		width, height = 1920, 1080 // output width and height in pixels
		scale         = 2          // supersampling
		fovy          = 30         // vertical field of view in degrees
		near, far     = 1, 10
	)
	var (
		eye    = fauxgl.V(3, 3, 3)
		center = fauxgl.V(0, 0, 0)
		up     = fauxgl.V(0, 0, 1)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)

	mesh := fauxgl.NewTriangleMesh(nil)
	for _, tri := range m.Triangles() {
		mesh.Triangles = append(mesh.Triangles, fauxgl.NewTriangleForPoints(
			fauxgl.Vector{X: tri[0].X, Y: tri[0].Y, Z: tri[0].Z},
			fauxgl.Vector{X: tri[1].X, Y: tri[1].Y, Z: tri[1].Z},
			fauxgl.Vector{X: tri[2].X, Y: tri[2].Y, Z: tri[2].Z},
		))
	}

	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, near, far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := resize.Resize(width, height, context.Image(), resize.Bilinear)
	return fauxgl.SavePNG(path, image)
}
