package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pendsim/internal/render"
)

const (
	canvasWidth  = 30
	canvasHeight = 16
	chartWidth   = 60
	chartHeight  = 12
)

type tickMsg time.Time

// Player steps through an Animation in real time: the pendulum on a braille
// canvas on the left and the angle chart on the right.
type Player struct {
	anim     *render.Animation
	frame    int
	loop     bool
	done     bool
	canvas   *Canvas
	chartW   int
	chartH   int
	quitting bool
}

func NewPlayer(anim *render.Animation, loop bool) Player {
	return Player{
		anim:   anim,
		loop:   loop,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		chartW: chartWidth,
		chartH: chartHeight,
	}
}

func (p Player) Frame() int { return p.frame }

// Done reports whether a non-looping player has reached the last frame.
func (p Player) Done() bool { return p.done }

func (p Player) Init() tea.Cmd {
	return p.tick()
}

func (p Player) tick() tea.Cmd {
	return tea.Tick(p.anim.Interval(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			p.quitting = true
			return p, tea.Quit
		}
	case tea.WindowSizeMsg:
		// leave room for the canvas panel, borders and the axis labels
		p.chartW = max(10, min(chartWidth, msg.Width-canvasWidth-20))
	case tickMsg:
		if p.done {
			return p, nil
		}
		p.advance()
		if p.done {
			return p, nil
		}
		return p, p.tick()
	}
	return p, nil
}

func (p *Player) advance() {
	switch {
	case p.frame+1 < p.anim.Len():
		p.frame++
	case p.loop:
		p.frame = 0
	default:
		p.done = true
	}
}

func (p Player) View() string {
	if p.quitting {
		return ""
	}

	f, err := p.anim.Frame(p.frame)
	if err != nil {
		return err.Error()
	}

	p.canvas.Clear()
	p.canvas.DrawPendulum(f.Segment, p.anim.Bounds())
	left := panelStyle.Render(titleStyle.Render("PENDULUM") + "\n" + p.canvas.String())

	chart, err := AngleChart(p.anim, p.frame, p.chartW, p.chartH)
	if err != nil {
		chart = err.Error()
	}

	var s strings.Builder
	s.WriteString(chart + "\n\n")
	s.WriteString(labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%.2f s", f.Marker.T)) + "\n")
	s.WriteString(labelStyle.Render("theta") + valueStyle.Render(fmt.Sprintf("%+.4f rad", f.Marker.Theta)) + "\n")
	s.WriteString(labelStyle.Render("frame") + valueStyle.Render(fmt.Sprintf("%d/%d", p.frame+1, p.anim.Len())) + "\n")
	right := panelStyle.Render(s.String())

	status := statusRunning.Render("PLAYING")
	if p.done {
		status = statusDone.Render("FINISHED")
	} else if p.loop {
		status += " " + keyHint.Render("(loop)")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		status+"  "+keyHint.Render("q: quit"),
	)
}

// Play runs the player on the terminal until the user quits or ctx ends.
func Play(ctx context.Context, anim *render.Animation, loop bool) error {
	prog := tea.NewProgram(NewPlayer(anim, loop), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}
