package outline

import (
	"log/slog"
	"sort"
	"strings"
)

// Engine runs the full inference pipeline: boilerplate removal, TOC page
// detection, merging, typography profiling, classification and assembly.
// An Engine holds no per-document state and is safe for concurrent use.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// New creates an Engine. Zero option fields take their defaults; a nil
// logger uses slog.Default().
func New(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{opts: opts.withDefaults(), logger: logger}
}

// Options returns the effective thresholds.
func (e *Engine) Options() Options {
	return e.opts
}

// Infer returns the title and outline of doc. It is total: any fragment
// list, including an empty one, yields a result.
func (e *Engine) Infer(doc Document) Result {
	frags := normalize(doc.Fragments)
	pageCount := Document{PageCount: doc.PageCount, Fragments: frags}.pages()

	toc := TOCPages(frags)
	repeated := RepeatedTexts(PageTextSets(frags), pageCount, e.opts.RepeatRatio, e.opts.MinRepeatPages)
	kept := FilterBoilerplate(frags, repeated, e.opts.MaxBoilerplateWords)

	units := Merge(kept, e.opts.MergeTolerance)
	if len(units) == 0 {
		return Result{Outline: []Entry{}}
	}

	profile := BuildProfile(units)
	classifier := NewClassifier(profile.BodySize, toc, e.opts)
	result := Assemble(units, profile, classifier)

	e.logger.Debug("outline inferred",
		"pages", pageCount,
		"fragments", len(frags),
		"dropped_boilerplate", len(frags)-len(kept),
		"units", len(units),
		"body_size", profile.BodySize,
		"title_size", profile.TitleSize,
		"toc_pages", sortedPages(toc),
		"entries", len(result.Outline),
	)
	return result
}

// Infer runs a default Engine over doc.
func Infer(doc Document) Result {
	return New(DefaultOptions(), nil).Infer(doc)
}

// normalize trims fragment text and drops fragments left empty.
func normalize(frags []Fragment) []Fragment {
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		f.Text = strings.TrimSpace(f.Text)
		if f.Text == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func sortedPages(set map[int]bool) []int {
	pages := make([]int, 0, len(set))
	for p := range set {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}
