package scene

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job builds and runs one independent scene.
type Job struct {
	Name   string
	Build  func() (*Scene, error)
	Config Config
}

type BatchResult struct {
	Name   string
	Result *Result
}

// RunBatch runs jobs concurrently, at most workers at a time (0 means one
// per CPU). Scenes share no state; the first failure cancels the rest.
func RunBatch(ctx context.Context, jobs []Job, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]BatchResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			s, err := job.Build()
			if err != nil {
				return fmt.Errorf("build %s: %w", job.Name, err)
			}
			r, err := s.Run(ctx, job.Config)
			if err != nil {
				return fmt.Errorf("run %s: %w", job.Name, err)
			}
			results[i] = BatchResult{Name: job.Name, Result: r}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
