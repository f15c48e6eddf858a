package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/san-kum/controlsim/internal/scene"
)

const namespace = "controlsim"

// Collector exports scene frames as prometheus metrics. It is a
// scene.Observer; register it once and attach it to any number of scenes.
type Collector struct {
	events     *prometheus.CounterVec
	value      *prometheus.GaugeVec
	normalized *prometheus.GaugeVec
	atLimit    *prometheus.GaugeVec
	frames     prometheus.Counter
}

func NewCollector() *Collector {
	return &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Control events emitted, by control and kind.",
		}, []string{"control", "kind"}),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "control_value",
			Help:      "Current control value.",
		}, []string{"control"}),
		normalized: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "control_normalized_value",
			Help:      "Current control value normalized to [0,1].",
		}, []string{"control"}),
		atLimit: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "control_at_limit",
			Help:      "-1 at the minimum limit, 1 at the maximum, 0 in range.",
		}, []string{"control"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames stepped.",
		}),
	}
}

func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{c.events, c.value, c.normalized, c.atLimit, c.frames} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) OnFrame(f scene.Frame) {
	c.frames.Inc()
	for name, s := range f.Samples {
		c.value.WithLabelValues(name).Set(s.Value)
		c.normalized.WithLabelValues(name).Set(s.Normalized)
		limit := 0.0
		if s.AtMin {
			limit = -1
		} else if s.AtMax {
			limit = 1
		}
		c.atLimit.WithLabelValues(name).Set(limit)
	}
	for _, e := range f.Events {
		c.events.WithLabelValues(e.Control, e.Kind).Inc()
	}
}

// EventCount reads the events_total counter for one series.
func (c *Collector) EventCount(control, kind string) float64 {
	var m dto.Metric
	if err := c.events.WithLabelValues(control, kind).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// Value reads the last exported value of a control.
func (c *Collector) Value(control string) float64 {
	var m dto.Metric
	if err := c.value.WithLabelValues(control).Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func (c *Collector) Frames() float64 {
	var m dto.Metric
	if err := c.frames.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
