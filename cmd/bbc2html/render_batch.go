package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	bbc "github.com/elkarte/go-bbc"
	"github.com/elkarte/go-bbc/internal/fileutil"
	"github.com/elkarte/go-bbc/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadMessage = errors.New("failed to read message file")
	ErrWriteHTML   = errors.New("failed to write HTML file")
)

// MessageRenderer is the interface for the rendering service.
type MessageRenderer interface {
	Render(ctx context.Context, input bbc.Input) (*bbc.Result, error)
}

// Compile-time interface implementation check.
var _ MessageRenderer = (*bbc.Renderer)(nil)

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Warnings   []string
	Err        error
	Duration   time.Duration
}

// renderParams groups parameters shared across batch/file rendering.
type renderParams struct {
	input      bbc.Input // template; Message is filled per file
	standalone bool
	stylesheet string
	now        func() time.Time
}

// renderBatch renders files concurrently. A Renderer is safe for concurrent
// use, so every worker shares r.
func renderBatch(ctx context.Context, r MessageRenderer, workers int, files []FileToRender, params *renderParams) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], params)
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

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, r MessageRenderer, f FileToRender, params *renderParams) RenderResult {
	start := params.now()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	finish := func(err error) RenderResult {
		result.Err = err
		result.Duration = params.now().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %w", ErrReadMessage, err))
	}

	html, warnings, err := renderMessage(ctx, r, string(content), titleFor(f.InputPath), params)
	result.Warnings = warnings
	if err != nil {
		return finish(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return finish(fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory()))
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(html), filePermissions); err != nil {
		return finish(fmt.Errorf("%w: %w", ErrWriteHTML, err))
	}

	return finish(nil)
}

// renderMessage renders one message and wraps it in a document when
// standalone output is on.
func renderMessage(ctx context.Context, r MessageRenderer, message, title string, params *renderParams) (string, []string, error) {
	input := params.input
	input.Message = message

	res, err := r.Render(ctx, input)
	if err != nil {
		return "", nil, withMessageHint(err)
	}
	if !params.standalone {
		return res.HTML, res.Warnings, nil
	}

	doc, err := buildDocument(title, params.stylesheet, res.HTML)
	if err != nil {
		return "", res.Warnings, err
	}
	return doc, res.Warnings, nil
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
	FirstErr  error
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			if summary.FirstErr == nil {
				summary.FirstErr = r.Err
			}
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs render results using the provided writers.
func printResultsWithWriter(results []RenderResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if !quiet {
			for _, w := range r.Warnings {
				fmt.Fprintf(env.Stderr, "warning: %s: %s\n", r.InputPath, w)
			}
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

	return summary
}

// resolveWorkers determines the worker count.
// Priority: explicit flag > GOMAXPROCS-based calculation.
func resolveWorkers(flagWorkers int) int {
	// Explicit flag takes priority
	if flagWorkers > 0 {
		return flagWorkers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0)

	// Minimum 1, maximum 8
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
