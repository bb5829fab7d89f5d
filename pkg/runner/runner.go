package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/textum/internal/logging"
	"github.com/yaklabco/textum/pkg/patch"
)

// Runner applies patch sets across files.
type Runner struct{}

// New creates a Runner.
func New() *Runner {
	return &Runner{}
}

// Run processes every file referenced by set concurrently and returns one
// FileOutcome per file, in the order the files were first registered.
//
// A failing file is recorded in its outcome; other files still run.
// The returned error is only set when the context is cancelled.
func (r *Runner) Run(ctx context.Context, set *patch.Set, opts Options) (*Result, error) {
	files := set.Files()

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.Files = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	logging.FromContext(ctx).Debug("run started",
		logging.FieldFiles, len(files),
		logging.FieldPatches, set.Len(),
		logging.FieldJobs, jobs,
		logging.FieldDryRun, opts.Pipeline.DryRun,
	)

	pipeline := NewPipeline(set)
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, pipeline, workCh, outCh, opts.Pipeline)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker processes files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	pipeline *Pipeline,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	opts PipelineOptions,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{Path: path}

		fr, err := pipeline.ProcessFile(ctx, path, opts)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Result = fr
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
