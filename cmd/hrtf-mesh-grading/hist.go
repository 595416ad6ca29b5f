package main

import (
	"github.com/cg-tub/remesh/halfedge"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writeHistogram plots the edge length distribution of the mesh.
func writeHistogram(path string, m *halfedge.Mesh) error {
	var lengths plotter.Values
	m.EachEdge(func(e halfedge.Edge) {
		lengths = append(lengths, m.EdgeLength(e))
	})

	p := plot.New()
	p.Title.Text = "Edge length distribution"
	p.X.Label.Text = "edge length"
	p.Y.Label.Text = "edges"

	h, err := plotter.NewHist(lengths, 50)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
