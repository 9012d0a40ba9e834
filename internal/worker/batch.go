// Package worker provides the concurrency primitives for batch report
// generation and server-side rate limiting.
package worker

import (
	"context"
	"sync"

	"github.com/tsereda/declarant/internal/dictionary"
	"github.com/tsereda/declarant/internal/pipeline"
)

// FileResult is the outcome of processing one declarations CSV.
type FileResult struct {
	Path   string
	Result *pipeline.RunResult
	Err    error
}

// BatchProcessor runs the report pipeline over many CSV files
// concurrently. Each file gets its own declaration slice; the shared
// dictionary is immutable, so no locking is needed.
type BatchProcessor struct {
	pipeline   *pipeline.Pipeline
	maxWorkers int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(p *pipeline.Pipeline, maxWorkers int) *BatchProcessor {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &BatchProcessor{
		pipeline:   p,
		maxWorkers: maxWorkers,
	}
}

// ProcessFiles processes all CSV paths and returns one result per
// path, in input order. Individual file failures are recorded in their
// slot, never aborting the rest of the batch.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, dict *dictionary.Dictionary) []FileResult {
	results := make([]FileResult, len(paths))
	var wg sync.WaitGroup

	// Semaphore to cap concurrent pipeline runs
	semaphore := make(chan struct{}, b.maxWorkers)

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, csvPath string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = FileResult{Path: csvPath, Err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			declarations, err := pipeline.LoadDeclarations(csvPath)
			if err != nil {
				results[idx] = FileResult{Path: csvPath, Err: err}
				return
			}

			result, err := b.pipeline.Run(ctx, declarations, dict)
			results[idx] = FileResult{Path: csvPath, Result: result, Err: err}
		}(i, path)
	}

	wg.Wait()
	return results
}
