package scene

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
)

func TestRunBatch(t *testing.T) {
	var jobs []Job
	for i := 0; i < 6; i++ {
		distance := 0.05 * float64(i+1)
		jobs = append(jobs, Job{
			Name: fmt.Sprintf("button-%d", i),
			Build: func() (*Scene, error) {
				cfg := controls.DefaultButtonConfig()
				cfg.PositionTarget = 1
				cfg.PressedDistance = distance
				s := New()
				return s, s.Add(controls.NewButton("button", dynamo.AxisX, host.NewNode("b"), cfg))
			},
			Config: Config{Dt: 0.1, Duration: 0.5},
		})
	}

	results, err := RunBatch(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, 6)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("button-%d", i), r.Name)
		trace := r.Result.Trace("button")
		assert.InDelta(t, 0.05*float64(i+1), trace[len(trace)-1], 1e-9)
	}
}

func TestRunBatchBuildError(t *testing.T) {
	bad := errors.New("no such preset")
	jobs := []Job{{
		Name:   "broken",
		Build:  func() (*Scene, error) { return nil, bad },
		Config: DefaultConfig(),
	}}
	_, err := RunBatch(context.Background(), jobs, 0)
	assert.ErrorIs(t, err, bad)
	assert.Contains(t, err.Error(), "broken")
}
