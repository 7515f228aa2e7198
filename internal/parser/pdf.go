package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	defaultPageHeight = 792.0
	runBreakGap       = 2.0  // max horizontal gap inside a run, in font sizes
	wordGap           = 0.15 // gap that separates words, in font sizes
	lineTolerance     = 2.0  // max baseline difference inside a line, in points
)

// PDFParser handles PDF files. Glyphs are grouped into styled runs and runs
// into lines; every run reports the top of its line.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (doc *outline.Document, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	// ledongthuc/pdf panics on malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("parse pdf %s: %v", filename, rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc = &outline.Document{PageCount: reader.NumPage()}
	for i := 1; i <= doc.PageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		frags := pageFragments(page.Content().Text, i, mediaBoxHeight(page))
		doc.Fragments = append(doc.Fragments, frags...)
	}
	return doc, nil
}

// mediaBoxHeight reads the MediaBox from the page or the nearest ancestor.
func mediaBoxHeight(page pdflib.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() != 4 {
			continue
		}
		if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return defaultPageHeight
}

type pdfRun struct {
	font     string
	size     float64
	baseline float64
	x0, x1   float64
	text     string
}

func (r *pdfRun) accepts(g pdflib.Text) bool {
	if g.Font != r.font || g.FontSize != r.size || math.Abs(g.Y-r.baseline) > 0.5 {
		return false
	}
	gap := g.X - r.x1
	return gap > -r.size && gap < runBreakGap*r.size
}

func (r *pdfRun) add(g pdflib.Text) {
	if g.X-r.x1 > wordGap*r.size && !strings.HasSuffix(r.text, " ") && !strings.HasPrefix(g.S, " ") {
		r.text += " "
	}
	r.text += g.S
	r.x1 = math.Max(r.x1, g.X+g.W)
}

// groupRuns joins consecutive glyphs that share font, size and baseline.
func groupRuns(glyphs []pdflib.Text) []*pdfRun {
	var runs []*pdfRun
	var cur *pdfRun
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && cur.accepts(g) {
			cur.add(g)
			continue
		}
		cur = &pdfRun{font: g.Font, size: g.FontSize, baseline: g.Y, x0: g.X, x1: g.X + g.W, text: g.S}
		runs = append(runs, cur)
	}
	return runs
}

// groupLines orders runs top to bottom, left to right, and splits them into
// lines by baseline.
func groupLines(runs []*pdfRun) [][]*pdfRun {
	sort.SliceStable(runs, func(i, j int) bool {
		if math.Abs(runs[i].baseline-runs[j].baseline) > lineTolerance {
			return runs[i].baseline > runs[j].baseline
		}
		return runs[i].x0 < runs[j].x0
	})

	var lines [][]*pdfRun
	for _, r := range runs {
		if n := len(lines); n > 0 && math.Abs(lines[n-1][0].baseline-r.baseline) <= lineTolerance {
			lines[n-1] = append(lines[n-1], r)
			continue
		}
		lines = append(lines, []*pdfRun{r})
	}
	return lines
}

func pageFragments(glyphs []pdflib.Text, page int, height float64) []outline.Fragment {
	var frags []outline.Fragment
	for _, line := range groupLines(groupRuns(glyphs)) {
		bbox := outline.BBox{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
		for _, r := range line {
			bbox.X0 = math.Min(bbox.X0, r.x0)
			bbox.X1 = math.Max(bbox.X1, r.x1)
			bbox.Y0 = math.Min(bbox.Y0, height-(r.baseline+r.size))
			bbox.Y1 = math.Max(bbox.Y1, height-r.baseline)
		}
		for _, r := range line {
			text := strings.TrimSpace(r.text)
			if text == "" {
				continue
			}
			frags = append(frags, outline.Fragment{
				Text: text,
				Size: roundSize(r.size),
				Font: r.font,
				Page: page,
				Y:    bbox.Y0,
				BBox: bbox,
			})
		}
	}
	return frags
}
