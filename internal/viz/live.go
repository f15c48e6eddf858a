package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/controlsim/internal/automation"
	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/scene"
)

const (
	historyCapacity = 240
	eventLogSize    = 8
	barWidth        = 24
)

type TickMsg time.Time

type control struct {
	name     string
	kind     string
	touched  bool
	grabbed  bool
	locked   bool
	drag     float64
	dragStep float64
	history  []float64
}

// Live steps a scene once per tick and renders every control's state. Input
// goes through the same actions a script would apply.
type Live struct {
	scene    *scene.Scene
	dt       float64
	running  bool
	controls []*control
	selected int
	frame    scene.Frame
	events   []scene.EventRecord
	err      error
	width    int
}

func NewLive(s *scene.Scene, dt float64) Live {
	m := Live{scene: s, dt: dt, running: true, width: 80}
	for _, c := range s.Controls() {
		m.controls = append(m.controls, &control{
			name:     c.Name(),
			kind:     c.Kind(),
			dragStep: dragStep(c),
		})
	}
	s.Activate()
	return m
}

func dragStep(c controllable.Controllable) float64 {
	switch ctl := c.(type) {
	case *controls.Slider:
		return ctl.Config().MaximumLength / 20
	case *controls.Button:
		return 0
	}
	return 5
}

func tick(dt float64) tea.Cmd {
	return tea.Tick(time.Duration(dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Init() tea.Cmd {
	return tick(m.dt)
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.scene.Deactivate()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			if len(m.controls) > 0 {
				m.selected = (m.selected + 1) % len(m.controls)
			}
		case "t":
			m.toggle(func(c *control) (*bool, string, string) { return &c.touched, "touch", "untouch" })
		case "g":
			m.toggle(func(c *control) (*bool, string, string) { return &c.grabbed, "grab", "ungrab" })
		case "l":
			m.toggle(func(c *control) (*bool, string, string) { return &c.locked, "lock", "unlock" })
		case "left", "h":
			m.dragBy(-1)
		case "right":
			m.dragBy(1)
		case "r":
			m.restart()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick(m.dt)
	}
	return m, nil
}

func (m *Live) current() *control {
	if len(m.controls) == 0 {
		return nil
	}
	return m.controls[m.selected]
}

func (m *Live) apply(c *control, do string, value float64) {
	if err := automation.Apply(m.scene, config.Action{Control: c.name, Do: do, Value: value}); err != nil {
		m.err = err
	}
}

func (m *Live) toggle(field func(*control) (*bool, string, string)) {
	c := m.current()
	if c == nil {
		return
	}
	flag, on, off := field(c)
	do := on
	if *flag {
		do = off
	}
	m.err = nil
	m.apply(c, do, 0)
	if m.err == nil {
		*flag = !*flag
	}
}

func (m *Live) dragBy(dir float64) {
	c := m.current()
	if c == nil || !c.grabbed || c.dragStep == 0 {
		return
	}
	if ctl, err := m.scene.Control(c.name); err == nil {
		c.drag = ctl.GetValue()
	}
	c.drag += dir * c.dragStep
	m.apply(c, "drag", c.drag)
}

func (m *Live) restart() {
	m.scene.Deactivate()
	m.scene.Activate()
	m.events = nil
	m.err = nil
	for _, c := range m.controls {
		c.touched, c.grabbed, c.history = false, false, nil
	}
}

func (m *Live) step() {
	f, err := m.scene.Step(m.dt)
	if err != nil {
		m.err = err
		return
	}
	m.frame = f
	for _, c := range m.controls {
		c.history = append(c.history, f.Samples[c.name].Value)
		if len(c.history) > historyCapacity {
			c.history = c.history[len(c.history)-historyCapacity:]
		}
	}
	m.events = append(m.events, f.Events...)
	if len(m.events) > eventLogSize {
		m.events = m.events[len(m.events)-eventLogSize:]
	}
}

func (m Live) View() string {
	var b strings.Builder

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	b.WriteString(fmt.Sprintf("%s  %s  t=%.2fs  frame %d\n\n",
		Title.Render("controlsim"), status, m.scene.Time(), m.scene.FrameIndex()))

	for i, c := range m.controls {
		s := m.frame.Samples[c.name]
		name := c.name
		if i == m.selected {
			name = Selected.Render("> " + name)
		} else {
			name = "  " + name
		}
		flags := ""
		if c.touched {
			flags += "T"
		}
		if c.grabbed {
			flags += "G"
		}
		if c.locked {
			flags += "L"
		}
		if s.Moving {
			flags += "~"
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(18).Render(name),
			MetricLabel.Render(c.kind),
			ProgressBar(s.Normalized, barWidth), " ",
			MetricValue.Render(fmt.Sprintf("%8.3f", s.Value)), " ",
			LimitBadge(s.AtMin, s.AtMax), " ",
			lipgloss.NewStyle().Width(4).Render(flags),
			Subtle.Render(SparklineChart(c.history, 30)),
		)
		b.WriteString(row + "\n")
	}

	var log strings.Builder
	for _, e := range m.events {
		log.WriteString(fmt.Sprintf("%6.2fs %-10s %-18s %8.3f\n", e.Time, e.Control, e.Kind, e.Value))
	}
	if len(m.events) == 0 {
		log.WriteString(Subtle.Render("no events yet"))
	}
	b.WriteString("\n" + Panel.Render(strings.TrimRight(log.String(), "\n")) + "\n")

	if m.err != nil {
		b.WriteString(StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString(KeyHint.Render("space pause · tab select · t touch · g grab · ←/→ drag · l lock · r restart · q quit"))
	return b.String()
}
