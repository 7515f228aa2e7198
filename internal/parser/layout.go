package parser

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/outline"
)

// Synthetic page geometry for formats without a fixed layout (DOCX, HTML,
// Markdown, plain text). Values are in points on a US Letter page.
const (
	pageHeight       = 792.0
	pageMargin       = 72.0
	lineAdvance      = 1.2  // line height as a multiple of the font size
	paragraphSpacing = 10.0 // extra space after a paragraph
	charWidth        = 0.5  // average glyph width as a multiple of the font size
	bodySize         = 11.0
)

// headingSizes are the point sizes given to h1..h6 style headings.
var headingSizes = [6]float64{24, 20, 16, 14, 13, 12}

// span is a styled piece of text inside one line.
type span struct {
	text   string
	size   float64
	font   string
	bold   bool
	italic bool
}

func (s span) fontName() string {
	font := s.font
	if font == "" {
		font = "Helvetica"
	}
	switch {
	case s.bold && s.italic:
		return font + "-BoldItalic"
	case s.bold:
		return font + "-Bold"
	case s.italic:
		return font + "-Italic"
	}
	return font
}

func (s span) sameStyle(o span) bool {
	return s.size == o.size && s.font == o.font && s.bold == o.bold && s.italic == o.italic
}

// layout places lines top-down on fixed-size pages and records a fragment per
// styled span. Every span on a line carries the line's bbox.
type layout struct {
	page  int
	y     float64
	used  bool // current page holds at least one line
	frags []outline.Fragment
}

func newLayout() *layout {
	return &layout{page: 1, y: pageMargin}
}

// addLine lays out one line followed by spacing points of extra space.
// Adjacent spans with identical style are joined first so a word split over
// several runs stays one fragment.
func (l *layout) addLine(spans []span, spacing float64) {
	spans = coalesce(spans)
	if len(spans) == 0 {
		return
	}

	size, width := 0.0, 0.0
	for _, s := range spans {
		size = math.Max(size, s.size)
		width += charWidth * s.size * float64(utf8.RuneCountInString(s.text))
	}
	if l.used && l.y+size > pageHeight-pageMargin {
		l.newPage()
	}

	bbox := outline.BBox{X0: pageMargin, Y0: l.y, X1: pageMargin + width, Y1: l.y + size}
	for _, s := range spans {
		l.frags = append(l.frags, outline.Fragment{
			Text: s.text,
			Size: roundSize(s.size),
			Font: s.fontName(),
			Page: l.page,
			Y:    l.y,
			BBox: bbox,
		})
	}
	l.used = true
	l.y += size*lineAdvance + spacing
}

// gap adds vertical space without a line.
func (l *layout) gap(points float64) {
	l.y += points
}

// pageBreak starts a new page unless the current one is still empty.
func (l *layout) pageBreak() {
	if l.used {
		l.newPage()
	}
}

func (l *layout) newPage() {
	l.page++
	l.y = pageMargin
	l.used = false
}

func (l *layout) document() *outline.Document {
	return &outline.Document{PageCount: l.page, Fragments: l.frags}
}

// coalesce joins same-style neighbours, collapses whitespace and drops
// spans left empty.
func coalesce(spans []span) []span {
	var out []span
	for _, s := range spans {
		if n := len(out); n > 0 && out[n-1].sameStyle(s) {
			out[n-1].text += s.text
			continue
		}
		out = append(out, s)
	}
	kept := out[:0]
	for _, s := range out {
		s.text = strings.Join(strings.Fields(s.text), " ")
		if s.text != "" {
			kept = append(kept, s)
		}
	}
	return kept
}

func roundSize(v float64) float64 {
	return math.Round(v*10) / 10
}
