// Package batch runs many documents through the outline pipeline from the
// filesystem and writes one rendered outline per input.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

// Analyzer runs one document to completion.
type Analyzer interface {
	RunOnce(ctx context.Context, filename string, data []byte) (pipeline.Analysis, error)
}

// Options control where and how results are written.
type Options struct {
	Workers int
	// OutDir receives the outputs; empty writes next to each input.
	OutDir string
	Format render.Format
	// Stdout, when set, receives every result in input order instead of files.
	Stdout io.Writer
}

// Summary counts the outcome of a run.
type Summary struct {
	Processed int
	Failed    int
	Outputs   []string
}

// Runner drives a set of files through an Analyzer with a worker pool.
type Runner struct {
	analyzer Analyzer
	opts     Options
	log      *slog.Logger
}

func NewRunner(a Analyzer, opts Options, log *slog.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Format == "" {
		opts.Format = render.FormatJSON
	}
	return &Runner{analyzer: a, opts: opts, log: log}
}

// Collect expands paths into the supported files they name. Directories
// are read one level deep. The result is sorted and free of duplicates.
func Collect(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if !parser.IsSupportedExtension(p) {
				return nil, fmt.Errorf("%w: %s", parser.ErrUnsupported, p)
			}
			add(filepath.Clean(p))
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
				continue
			}
			add(filepath.Join(p, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath returns where the rendered outline for input is written. When
// the natural name would overwrite the input, ".outline" is inserted.
func OutputPath(input, outDir string, f render.Format) string {
	dir := filepath.Dir(input)
	if outDir != "" {
		dir = outDir
	}
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(dir, stem+render.Ext(f))
	if filepath.Clean(out) == filepath.Clean(input) {
		out = filepath.Join(dir, stem+".outline"+render.Ext(f))
	}
	return out
}

type fileResult struct {
	path   string
	output string
	a      pipeline.Analysis
	err    error
}

// Run processes files. Failures are logged per file; the returned error
// joins all of them.
func (r *Runner) Run(ctx context.Context, files []string) (Summary, error) {
	if r.opts.OutDir != "" && r.opts.Stdout == nil {
		if err := os.MkdirAll(r.opts.OutDir, 0o755); err != nil {
			return Summary{}, fmt.Errorf("create output dir: %w", err)
		}
	}

	results := make([]fileResult, len(files))
	work := make(chan int)
	var wg sync.WaitGroup
	for range min(r.opts.Workers, max(len(files), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i] = r.process(ctx, files[i])
			}
		}()
	}

feed:
	for i := range files {
		select {
		case work <- i:
		case <-ctx.Done():
			for j := i; j < len(files); j++ {
				results[j] = fileResult{path: files[j], err: ctx.Err()}
			}
			break feed
		}
	}
	close(work)
	wg.Wait()

	var sum Summary
	var errs []error
	for _, res := range results {
		if res.err == nil && r.opts.Stdout != nil {
			res.err = render.Write(r.opts.Stdout, r.opts.Format, res.a.Result)
		}
		if res.err != nil {
			sum.Failed++
			r.log.Error("outline failed", "file", res.path, "error", res.err)
			errs = append(errs, fmt.Errorf("%s: %w", res.path, res.err))
			continue
		}
		sum.Processed++
		if res.output != "" {
			sum.Outputs = append(sum.Outputs, res.output)
		}
	}
	return sum, errors.Join(errs...)
}

func (r *Runner) process(ctx context.Context, path string) fileResult {
	res := fileResult{path: path}
	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}
	data, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}
	res.a, res.err = r.analyzer.RunOnce(ctx, filepath.Base(path), data)
	if res.err != nil || r.opts.Stdout != nil {
		return res
	}

	res.output = OutputPath(path, r.opts.OutDir, r.opts.Format)
	res.err = writeFile(res.output, r.opts.Format, res.a)
	if res.err == nil {
		r.log.Info("outline written",
			"file", path,
			"output", res.output,
			"entries", len(res.a.Result.Outline),
			"duration_ms", res.a.Elapsed.Milliseconds(),
		)
	}
	return res
}

func writeFile(path string, f render.Format, a pipeline.Analysis) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render.Write(out, f, a.Result); err != nil {
		out.Close()
		return fmt.Errorf("render: %w", err)
	}
	return out.Close()
}
