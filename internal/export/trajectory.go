package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/render"
)

// Meta describes the run a trajectory came from.
type Meta struct {
	Integrator string
	Gravity    float64
	Length     float64
	Duration   float64
}

type ExportData struct {
	Integrator string             `json:"integrator"`
	Gravity    float64            `json:"gravity"`
	Length     float64            `json:"length"`
	Duration   float64            `json:"duration"`
	Samples    int                `json:"samples"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Points     [][2]float64       `json:"points"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

var csvHeader = []string{"t", "theta", "omega", "x", "y"}

// WriteCSV writes one row per sample with the bob position appended.
func WriteCSV(w io.Writer, res *dynamo.Result, length float64) error {
	traj := res.Trajectory
	points := render.Cartesian(traj, length)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, len(csvHeader))
	for i, s := range traj.States {
		row[0] = formatFloat(traj.Times[i])
		row[1] = formatFloat(s[0])
		row[2] = formatFloat(s[1])
		row[3] = formatFloat(points[i].X)
		row[4] = formatFloat(points[i].Y)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the run as a single indented document. Non-finite
// metrics are left out since JSON cannot carry them.
func WriteJSON(w io.Writer, res *dynamo.Result, meta Meta) error {
	traj := res.Trajectory
	points := render.Cartesian(traj, meta.Length)

	data := ExportData{
		Integrator: meta.Integrator,
		Gravity:    meta.Gravity,
		Length:     meta.Length,
		Duration:   meta.Duration,
		Samples:    traj.Len(),
		Steps:      res.Steps,
		Times:      traj.Times,
		States:     make([][]float64, len(traj.States)),
		Points:     make([][2]float64, len(points)),
		Metrics:    make(map[string]float64, len(res.Metrics)),
	}
	for i, s := range traj.States {
		data.States[i] = s
	}
	for i, p := range points {
		data.Points[i] = [2]float64{p.X, p.Y}
	}
	for k, v := range res.Metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			data.Metrics[k] = v
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
