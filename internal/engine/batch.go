package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Source is one named compilation unit
type Source struct {
	File string
	Text string
}

// BatchResult is the outcome for one Source. Err is a compilation error for
// that source only; it does not stop the rest of the batch.
type BatchResult struct {
	File   string
	Result *Result
	Err    error
}

// CompileBatch compiles independent sources concurrently, at most workers at a
// time (runtime.NumCPU() when workers <= 0). Results are in input order.
// Only cancellation of ctx is returned as an error.
func CompileBatch(ctx context.Context, sources []Source, opts Options, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]BatchResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range sources {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			unitOpts := opts
			unitOpts.File = src.File
			result, err := Compile(src.Text, unitOpts)
			results[i] = BatchResult{File: src.File, Result: result, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
