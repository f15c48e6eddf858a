package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/scene"
)

func testResult() *scene.Result {
	return &scene.Result{
		Times: []float64{0, 0.1, 0.2, 0.3},
		Traces: map[string][]scene.Sample{
			"button": {{Value: 0}, {Value: 0.05, Normalized: 0.5}, {Value: 0.1, Normalized: 1}, {Value: 0.1, Normalized: 1}},
			"door":   {{Value: 0}, {Value: 10, Normalized: 0.55}, {Value: 20, Normalized: 0.6}, {Value: 30, Normalized: 0.65}},
		},
		Events: []scene.EventRecord{{Control: "button", Kind: "max_limit_reached"}},
		Frames: 3,
	}
}

func TestPlot(t *testing.T) {
	out, err := Plot(testResult(), "button")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "button value over 3 frames (1 events)") {
		t.Errorf("missing caption in\n%s", out)
	}

	if _, err := Plot(testResult(), "slider"); err == nil {
		t.Error("expected error for unknown control")
	}
}

func TestPlotNormalized(t *testing.T) {
	out, err := PlotNormalized(testResult())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[button door]") {
		t.Errorf("expected sorted control names in caption, got\n%s", out)
	}
	if _, err := PlotNormalized(&scene.Result{}); err == nil {
		t.Error("expected error for empty result")
	}
}

func TestSparkline(t *testing.T) {
	if got := SparklineChart(nil, 4); got != "────" {
		t.Errorf("expected flat line, got %q", got)
	}
	if got := SparklineChart([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8); got != "▁▂▃▄▅▆▇█" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := []rune(SparklineChart([]float64{0, 1, 2, 3, 4, 5}, 3)); len(got) != 3 {
		t.Errorf("expected 3 runes, got %d", len(got))
	}
}

func newLive(t *testing.T) Live {
	t.Helper()
	s := scene.New()
	cfg := controls.DefaultButtonConfig()
	cfg.StayPressed = true
	if err := s.Add(controls.NewButton("button", dynamo.AxisY, host.NewNode("button"), cfg)); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(controls.NewDoor("door", dynamo.AxisY, host.NewNode("door"), controls.DefaultDoorConfig())); err != nil {
		t.Fatal(err)
	}
	return NewLive(s, 1.0/60)
}

func press(m Live, key string) Live {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Live)
}

func ticks(m Live, n int) Live {
	for i := 0; i < n; i++ {
		next, _ := m.Update(TickMsg(time.Now()))
		m = next.(Live)
	}
	return m
}

func TestLiveTouchPressesButton(t *testing.T) {
	m := newLive(t)
	m = press(m, "t")
	m = ticks(m, 120)

	if !m.frame.Samples["button"].AtMax {
		t.Error("expected button at its max limit after touch")
	}
	if !strings.Contains(m.View(), "max_limit_reached") {
		t.Error("expected event log to show the limit event")
	}
}

func TestLivePause(t *testing.T) {
	m := newLive(t)
	m = press(m, " ")
	m = ticks(m, 10)
	if m.scene.FrameIndex() != 0 {
		t.Errorf("expected no frames while paused, got %d", m.scene.FrameIndex())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected paused status")
	}
}

func TestLiveDragDoor(t *testing.T) {
	m := newLive(t)
	m = press(m, "tab")
	m = press(m, "g")
	m = press(m, "right")
	m = press(m, "right")
	m = ticks(m, 1)

	if got := m.frame.Samples["door"].Value; got != 10 {
		t.Errorf("expected door dragged to 10, got %f", got)
	}
}

func TestLiveUnsupportedActionShowsError(t *testing.T) {
	m := newLive(t)
	m = press(m, "l")
	if m.err == nil {
		t.Fatal("expected error locking a button")
	}
	if m.controls[0].locked {
		t.Error("failed toggle should not flip the flag")
	}
}
