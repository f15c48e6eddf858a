package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/scene"
)

type ExportData struct {
	Name       string                    `json:"name"`
	Integrator string                    `json:"integrator"`
	Dt         float64                   `json:"dt"`
	Duration   float64                   `json:"duration"`
	Frames     int                       `json:"frames"`
	Times      []float64                 `json:"times"`
	Traces     map[string][]scene.Sample `json:"traces"`
	Events     []scene.EventRecord       `json:"events"`
	Metrics    map[string]float64        `json:"metrics"`
}

// ExportJSON writes a whole run as one JSON document.
func ExportJSON(w io.Writer, cfg *config.Config, result *scene.Result) error {
	data := ExportData{
		Name:       cfg.Name,
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Frames:     result.Frames,
		Times:      result.Times,
		Traces:     result.Traces,
		Events:     result.Events,
		Metrics:    result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
