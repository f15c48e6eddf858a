package viz

import (
	"fmt"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/controlsim/internal/scene"
)

const (
	PlotHeight = 12
	PlotWidth  = 80
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Red,
	asciigraph.Blue,
}

// Plot charts one control's value over a run.
func Plot(result *scene.Result, control string) (string, error) {
	data := result.Trace(control)
	if len(data) == 0 {
		return "", fmt.Errorf("no trace for control %q", control)
	}
	caption := fmt.Sprintf("%s value over %d frames (%d events)", control, result.Frames, countFor(result, control))
	return asciigraph.Plot(data,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.Caption(caption),
		asciigraph.Precision(3),
	), nil
}

// PlotNormalized charts every control's normalized value on one graph.
func PlotNormalized(result *scene.Result) (string, error) {
	names := make([]string, 0, len(result.Traces))
	for name := range result.Traces {
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("result has no traces")
	}
	sort.Strings(names)

	series := make([][]float64, len(names))
	colors := make([]asciigraph.AnsiColor, len(names))
	for i, name := range names {
		samples := result.Traces[name]
		series[i] = make([]float64, len(samples))
		for j, s := range samples {
			series[i][j] = s.Normalized
		}
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("normalized: %v", names)),
	), nil
}

func countFor(result *scene.Result, control string) int {
	n := 0
	for _, e := range result.Events {
		if e.Control == control {
			n++
		}
	}
	return n
}
