package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/metrics"
)

// Job is one independent run inside an Ensemble.
type Job struct {
	Name   string
	Params dynamo.Params
	Preset string
	Ticks  int
	Seed   uint64
}

// Ensemble runs independent simulators concurrently. Each run steps on a
// serial backend so runs, not rows, are the unit of parallelism, and each
// gets its own 60 Hz virtual clock for the drop schedule.
type Ensemble struct {
	opts    Options
	workers int
}

func NewEnsemble(opts Options, workers int) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{opts: opts, workers: workers}
}

func (e *Ensemble) Run(ctx context.Context, jobs []Job, sampleEvery int) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))
	sem := make(chan struct{}, e.workers)

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			job := jobs[idx]
			opts := e.opts
			opts.Seed = job.Seed
			opts.Backend = compute.NewSerialBackend()
			opts.Clock = StepClock(time.Unix(0, 0), time.Second/60)
			if opts.Logger == nil {
				opts.Logger = slog.Default()
			}
			opts.Logger = opts.Logger.With("job", job.Name)

			s, err := New(job.Params, opts)
			if err != nil {
				errs[idx] = err
				return
			}
			if job.Preset != "" {
				if err := s.ApplyPreset(job.Preset); err != nil {
					errs[idx] = err
					return
				}
			}
			for _, m := range metrics.Default() {
				s.AddMetric(m)
			}
			results[idx], errs[idx] = s.Run(ctx, job.Ticks, sampleEvery)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
