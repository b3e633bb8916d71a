package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
)

var ErrFrameOutOfRange = errors.New("render: frame out of range")

// Point is a position in the display plane, pivot at the origin, y up.
type Point struct {
	X, Y float64
}

// Cartesian maps every sample's angle to the bob position.
func Cartesian(traj *dynamo.Trajectory, length float64) []Point {
	p := &physics.Pendulum{Length: length}
	pts := make([]Point, len(traj.States))
	for i, s := range traj.States {
		x, y := p.Tip(s[0])
		pts[i] = Point{X: x, Y: y}
	}
	return pts
}

type Segment struct {
	Pivot, Tip Point
}

// Marker is the current position on the angle-vs-time chart.
type Marker struct {
	T, Theta float64
}

type Frame struct {
	Index   int
	Segment Segment
	Marker  Marker
}

type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (b Bounds) Width() float64  { return b.XMax - b.XMin }
func (b Bounds) Height() float64 { return b.YMax - b.YMin }

// Animation is the read-only view a renderer drives frame by frame.
type Animation struct {
	times    []float64
	thetas   []float64
	points   []Point
	length   float64
	duration float64
}

func NewAnimation(traj *dynamo.Trajectory, p *physics.Pendulum, duration float64) *Animation {
	return &Animation{
		times:    append([]float64(nil), traj.Times...),
		thetas:   traj.Component(0),
		points:   Cartesian(traj, p.Length),
		length:   p.Length,
		duration: duration,
	}
}

func (a *Animation) Len() int { return len(a.times) }

func (a *Animation) Times() []float64  { return append([]float64(nil), a.times...) }
func (a *Animation) Thetas() []float64 { return append([]float64(nil), a.thetas...) }
func (a *Animation) Points() []Point   { return append([]Point(nil), a.points...) }

func (a *Animation) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(a.times) {
		return Frame{}, fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, i, len(a.times))
	}
	return Frame{
		Index:   i,
		Segment: Segment{Tip: a.points[i]},
		Marker:  Marker{T: a.times[i], Theta: a.thetas[i]},
	}, nil
}

// Interval is the wall-clock time between frames, so that playback runs in
// real time. It is truncated to whole milliseconds and never below 1 ms.
func (a *Animation) Interval() time.Duration {
	if len(a.times) == 0 {
		return time.Millisecond
	}
	ms := int(a.duration * 1000 / float64(len(a.times)))
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Bounds leaves a margin around the circle the bob can reach, with little
// room above the pivot.
func (a *Animation) Bounds() Bounds {
	l := a.length
	return Bounds{XMin: -1.2 * l, XMax: 1.2 * l, YMin: -1.2 * l, YMax: 0.2 * l}
}
