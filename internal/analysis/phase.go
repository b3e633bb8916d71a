package analysis

import (
	"strings"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// PhasePoint is one (θ, ω) sample.
type PhasePoint struct {
	Theta, Omega float64
}

// PhasePortrait collects a trajectory's path through (θ, ω) space.
func PhasePortrait(traj *dynamo.Trajectory) []PhasePoint {
	points := make([]PhasePoint, len(traj.States))
	for i, s := range traj.States {
		points[i] = PhasePoint{Theta: s[0], Omega: s[1]}
	}
	return points
}

// PhasePortraitToASCII plots θ horizontally and ω vertically, with axes
// drawn where they fall inside the padded bounds.
func PhasePortraitToASCII(points []PhasePoint, width, height int) string {
	if len(points) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	minX, maxX := points[0].Theta, points[0].Theta
	minY, maxY := points[0].Omega, points[0].Omega
	for _, p := range points {
		minX, maxX = min(minX, p.Theta), max(maxX, p.Theta)
		minY, maxY = min(minY, p.Omega), max(maxY, p.Omega)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, p := range points {
		r, c := row(p.Omega), col(p.Theta)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
