package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/render"
)

// AngleChart plots θ against time using at most width columns and marks
// the sample of the given frame in red.
func AngleChart(anim *render.Animation, frame, width, height int) (string, error) {
	f, err := anim.Frame(frame)
	if err != nil {
		return "", err
	}

	thetas := anim.Thetas()
	n := len(thetas)
	cols := min(max(width, 1), n)

	line := make([]float64, cols)
	marker := make([]float64, cols)
	for c := range line {
		line[c] = thetas[column(c, cols, n)]
		marker[c] = math.NaN()
	}
	mc := 0
	if n > 1 {
		mc = int(math.Round(float64(frame) * float64(cols-1) / float64(n-1)))
	}
	marker[mc] = f.Marker.Theta
	line[mc] = f.Marker.Theta

	lo, hi := floats.Min(thetas), floats.Max(thetas)
	if hi-lo == 0 {
		// a flat series would collapse the chart to a single row
		pad := math.Max(1e-3, math.Abs(hi))
		lo, hi = lo-pad, hi+pad
	}

	return asciigraph.PlotMany(
		[][]float64{line, marker},
		asciigraph.Height(height),
		asciigraph.LowerBound(lo),
		asciigraph.UpperBound(hi),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("θ (rad) vs t   t=%.2fs θ=%.3f", f.Marker.T, f.Marker.Theta)),
	), nil
}

// column returns the sample index drawn in chart column c.
func column(c, cols, n int) int {
	if cols <= 1 {
		return 0
	}
	return c * (n - 1) / (cols - 1)
}
