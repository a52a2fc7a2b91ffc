package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DeckResult holds the outcome of a single document.
type DeckResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// deckFunc processes one document and returns the path it wrote.
type deckFunc func(ctx context.Context, f DeckFile) (string, error)

// processBatch runs fn over files with at most workers running at once.
// Results keep the order of files.
func processBatch(ctx context.Context, files []DeckFile, workers int, fn deckFunc) []DeckResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := max(1, min(workers, len(files)))

	results := make([]DeckResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = DeckResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = processFile(ctx, files[idx], fn)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// processFile runs fn on one document and times it.
func processFile(ctx context.Context, f DeckFile, fn deckFunc) DeckResult {
	start := time.Now()
	out, err := fn(ctx, f)
	return DeckResult{
		InputPath:  f.InputPath,
		OutputPath: out,
		Err:        err,
		Duration:   time.Since(start),
	}
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed documents.
func countResults(results []DeckResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs batch results using the provided writers.
func printResultsWithWriter(results []DeckResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// BatchError reports the failed documents of a batch. errors.Is sees
// every underlying error, so exit codes follow their causes.
type BatchError struct {
	Errs []error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d deck(s) failed", len(e.Errs))
}

func (e *BatchError) Unwrap() []error {
	return e.Errs
}

// batchErr returns a *BatchError for the failed results, or nil.
func batchErr(results []DeckResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &BatchError{Errs: errs}
}

// isCancelled reports whether err came from an interrupted run.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
