package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/stats"
)

// ErrDeadline is returned when a document is not finished within the
// per-document timeout. Partial work is discarded.
var ErrDeadline = errors.New("document deadline exceeded")

// Analysis is the outcome of running one document through the pipeline.
type Analysis struct {
	Result    outline.Result
	Pages     int
	Fragments int
	Elapsed   time.Duration
}

type parseFunc func(filename string, data []byte) (*outline.Document, error)

// Worker parses documents and runs the outline engine over them.
type Worker struct {
	engine  *outline.Engine
	latency *stats.Latency
	log     *slog.Logger
	timeout time.Duration

	parse parseFunc
}

func NewWorker(engine *outline.Engine, latency *stats.Latency, log *slog.Logger, timeout time.Duration) *Worker {
	return &Worker{
		engine:  engine,
		latency: latency,
		log:     log,
		timeout: timeout,
		parse:   parseFile,
	}
}

// Process runs the pipeline for a queued job and records the outcome on it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	job.SetStatus(StatusParsing, "parsing")
	a, err := w.analyze(ctx, job.Filename, job.FileData(), func(s JobStatus) {
		job.Advance(s, string(s))
	})
	if err != nil {
		phase := "parsing"
		if errors.Is(err, ErrDeadline) {
			phase = "deadline"
		}
		log.Error("outline failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, phase)
		return
	}

	job.SetResult(a)
	job.SetStatus(StatusCompleted, "done")
	log.Info("outline complete",
		"pages", a.Pages,
		"entries", len(a.Result.Outline),
		"duration_ms", a.Elapsed.Milliseconds(),
	)
}

// Run processes one document synchronously.
func (w *Worker) Run(ctx context.Context, filename string, data []byte) (Analysis, error) {
	return w.analyze(ctx, filename, data, nil)
}

// analyze parses and infers inside a goroutine bounded by the worker
// timeout. onPhase, when set, is told when inference starts.
func (w *Worker) analyze(ctx context.Context, filename string, data []byte, onPhase func(JobStatus)) (Analysis, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	type outcome struct {
		a   Analysis
		err error
	}
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		doc, err := w.parse(filename, data)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		if ctx.Err() != nil {
			return
		}
		if onPhase != nil {
			onPhase(StatusInferring)
		}
		res := w.engine.Infer(*doc)
		done <- outcome{a: Analysis{
			Result:    res,
			Pages:     doc.PageCount,
			Fragments: len(doc.Fragments),
		}}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return Analysis{}, o.err
		}
		o.a.Elapsed = time.Since(start)
		if w.latency != nil {
			w.latency.Record(o.a.Elapsed)
		}
		return o.a, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Analysis{}, fmt.Errorf("%w after %s", ErrDeadline, w.timeout)
		}
		return Analysis{}, ctx.Err()
	}
}

func parseFile(filename string, data []byte) (*outline.Document, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}
