package export

import (
	"fmt"
	"image/color"
	"io"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"github.com/san-kum/pendsim/internal/render"
)

// ChartFormats are the encodings WriteChart accepts.
var ChartFormats = []string{"png", "svg", "pdf"}

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var (
	lineColor   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	markerColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// WriteChart draws θ against time with the given frame marked and encodes
// it in format to w.
func WriteChart(w io.Writer, anim *render.Animation, frame int, format string) error {
	if !slices.Contains(ChartFormats, format) {
		return fmt.Errorf("unsupported chart format %q, want one of %v", format, ChartFormats)
	}
	f, err := anim.Frame(frame)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Pendulum angle"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "θ (rad)"
	p.Add(plotter.NewGrid())

	times, thetas := anim.Times(), anim.Thetas()
	pts := make(plotter.XYs, len(times))
	for i := range times {
		pts[i].X = times[i]
		pts[i].Y = thetas[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("angle series: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = lineColor
	p.Add(line)

	marker, err := plotter.NewScatter(plotter.XYs{{X: f.Marker.T, Y: f.Marker.Theta}})
	if err != nil {
		return fmt.Errorf("marker: %w", err)
	}
	marker.GlyphStyle = draw.GlyphStyle{
		Color:  markerColor,
		Radius: vg.Points(4),
		Shape:  draw.CircleGlyph{},
	}
	p.Add(marker)

	wt, err := p.WriterTo(chartWidth, chartHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
