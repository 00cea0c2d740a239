// Package diagram renders the moment diagram and the section outline as
// images for the dashboard plots, plus an ASCII fallback for terminals.
package diagram

import (
	"bytes"
	"errors"
	"image/color"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"Girder/internal/register"
	"Girder/internal/section"
)

var ErrNoData = errors.New("no data to plot")

// MomentPNG draws position vs moment as a PNG.
func MomentPNG(pts []register.DiagramPoint) ([]byte, error) {
	if len(pts) == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = "Bending Moment Diagram"
	p.X.Label.Text = "Position (m)"
	p.Y.Label.Text = "Moment (kN·m)"

	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.PositionM, Y: pt.MomentKNM}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{R: 162, G: 59, B: 114, A: 255}
	p.Add(line)
	p.Add(plotter.NewGrid())

	return renderPNG(p, 6*vg.Inch, 4*vg.Inch)
}

// SectionPNG draws the cross-section outline with equal axis scales.
func SectionPNG(outline []section.Point, title string) ([]byte, error) {
	if len(outline) < 3 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Width (m)"
	p.Y.Label.Text = "Height (m)"

	xys := make(plotter.XYs, len(outline))
	for i, pt := range outline {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	poly, err := plotter.NewPolygon(xys)
	if err != nil {
		return nil, err
	}
	poly.Color = color.RGBA{R: 46, G: 134, B: 171, A: 150}
	poly.LineStyle.Color = color.RGBA{R: 46, G: 134, B: 171, A: 255}
	poly.LineStyle.Width = vg.Points(2)
	p.Add(poly)

	return renderPNG(p, 4*vg.Inch, 4*vg.Inch)
}

// MomentASCII renders the diagram as an asciigraph line chart.
func MomentASCII(pts []register.DiagramPoint) (string, error) {
	if len(pts) == 0 {
		return "", ErrNoData
	}
	data := make([]float64, len(pts))
	for i, pt := range pts {
		data[i] = pt.MomentKNM
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(72),
		asciigraph.Caption("Moment (kN·m) vs position"),
	)
	return graph, nil
}

func renderPNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
