package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/scene"
)

const (
	metadataFile = "metadata.json"
	tracesFile   = "traces.csv"
	eventsFile   = "events.csv"
	configFile   = "config.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ControlInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Frames     int                `json:"frames"`
	Events     int                `json:"events"`
	Controls   []ControlInfo      `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the config that produced
// the run, per-frame traces and the event log.
func (s *Store) Save(cfg *config.Config, result *scene.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", slug(cfg.Name), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Timestamp:  time.Now(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Frames:     result.Frames,
		Events:     len(result.Events),
		Metrics:    result.Metrics,
	}
	for _, cc := range cfg.Controls {
		meta.Controls = append(meta.Controls, ControlInfo{Name: cc.Name, Type: cc.Type})
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeTraces(filepath.Join(runDir, tracesFile), result); err != nil {
		return "", err
	}
	if err := writeEvents(filepath.Join(runDir, eventsFile), result.Events); err != nil {
		return "", err
	}
	return runID, nil
}

func slug(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func controlNames(result *scene.Result) []string {
	names := make([]string, 0, len(result.Traces))
	for name := range result.Traces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// traceColumns is the number of traces.csv columns per control: value,
// normalized, limit (-1, 0, 1), moving and touched.
const traceColumns = 5

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func writeTraces(path string, result *scene.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := controlNames(result)
	header := []string{"time"}
	for _, name := range names {
		header = append(header, name, name+"_normalized", name+"_limit", name+"_moving", name+"_touched")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{formatFloat(t)}
		for _, name := range names {
			trace := result.Traces[name]
			if i >= len(trace) {
				row = append(row, "", "", "", "", "")
				continue
			}
			s := trace[i]
			limit := "0"
			if s.AtMin {
				limit = "-1"
			} else if s.AtMax {
				limit = "1"
			}
			row = append(row, formatFloat(s.Value), formatFloat(s.Normalized), limit,
				formatBool(s.Moving), formatBool(s.Touched))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeEvents(path string, events []scene.EventRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"frame", "time", "control", "kind", "value", "normalized", "interactor"}); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			strconv.Itoa(e.Frame),
			formatFloat(e.Time),
			e.Control,
			e.Kind,
			formatFloat(e.Value),
			formatFloat(e.Normalized),
			e.Interactor,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadResult reads a run's traces and events back into a scene.Result.
func (s *Store) LoadResult(runID string) (*scene.Result, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, tracesFile))
	if err != nil {
		return nil, err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return nil, err
	}
	result := &scene.Result{
		Traces: make(map[string][]scene.Sample),
		Events: events,
	}
	if meta, err := s.Load(runID); err == nil {
		result.Frames = meta.Frames
		result.Metrics = meta.Metrics
	}
	if len(records) < 2 {
		return result, nil
	}

	header := records[0]
	columns := make(map[int]string)
	for j := 1; j+traceColumns-1 < len(header); j += traceColumns {
		columns[j] = header[j]
	}

	for i, record := range records[1:] {
		row := i + 1
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("traces row %d: %w", row, err)
		}
		result.Times = append(result.Times, t)

		for j, name := range columns {
			if j+traceColumns-1 >= len(record) || record[j] == "" {
				continue
			}
			sample, err := parseSample(record[j : j+traceColumns])
			if err != nil {
				return nil, fmt.Errorf("traces row %d, %s: %w", row, name, err)
			}
			result.Traces[name] = append(result.Traces[name], sample)
		}
	}
	return result, nil
}

func parseSample(fields []string) (scene.Sample, error) {
	var sample scene.Sample
	var err error
	if sample.Value, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return sample, err
	}
	if sample.Normalized, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return sample, err
	}
	switch fields[2] {
	case "-1":
		sample.AtMin = true
	case "1":
		sample.AtMax = true
	case "0":
	default:
		return sample, fmt.Errorf("invalid limit %q", fields[2])
	}
	if sample.Moving, err = strconv.ParseBool(fields[3]); err != nil {
		return sample, err
	}
	if sample.Touched, err = strconv.ParseBool(fields[4]); err != nil {
		return sample, err
	}
	return sample, nil
}

// LoadTraces reads back the time column and each control's value column.
func (s *Store) LoadTraces(runID string) ([]float64, map[string][]float64, error) {
	result, err := s.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	traces := make(map[string][]float64, len(result.Traces))
	for name := range result.Traces {
		traces[name] = result.Trace(name)
	}
	return result.Times, traces, nil
}

func (s *Store) LoadEvents(runID string) ([]scene.EventRecord, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, eventsFile))
	if err != nil {
		return nil, err
	}

	events := make([]scene.EventRecord, 0, len(records))
	for i, record := range records {
		if i == 0 || len(record) < 7 {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("events row %d: %w", i, err)
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("events row %d: %w", i, err)
		}
		value, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("events row %d: %w", i, err)
		}
		normalized, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("events row %d: %w", i, err)
		}
		events = append(events, scene.EventRecord{
			Frame:      frame,
			Time:       t,
			Control:    record[2],
			Kind:       record[3],
			Value:      value,
			Normalized: normalized,
			Interactor: record[6],
		})
	}
	return events, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
