package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/outline"
)

func findFragment(frags []outline.Fragment, text string) *outline.Fragment {
	for i := range frags {
		if frags[i].Text == text {
			return &frags[i]
		}
	}
	return nil
}

func TestTextParser_Lines(t *testing.T) {
	input := "Line one.\nLine two.\n\nLine three."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(doc.Fragments))
	}
	for _, f := range doc.Fragments {
		if f.Page != 1 || f.Size != bodySize {
			t.Errorf("%q: expected page 1 at %vpt, got page %d at %vpt", f.Text, bodySize, f.Page, f.Size)
		}
	}
	first := doc.Fragments[1].Y - doc.Fragments[0].Y
	second := doc.Fragments[2].Y - doc.Fragments[1].Y
	if second <= first {
		t.Errorf("expected a larger gap after the blank line, got %v then %v", first, second)
	}
}

func TestTextParser_FormFeedPages(t *testing.T) {
	input := "Page one\fPage two\f\fPage four"
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "dump.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.PageCount != 4 {
		t.Errorf("expected 4 pages, got %d", doc.PageCount)
	}
	want := map[string]int{"Page one": 1, "Page two": 2, "Page four": 4}
	for text, page := range want {
		f := findFragment(doc.Fragments, text)
		if f == nil {
			t.Fatalf("missing fragment %q", text)
		}
		if f.Page != page {
			t.Errorf("%q: expected page %d, got %d", text, page, f.Page)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Fragments) != 0 {
		t.Errorf("expected 0 fragments for empty input, got %d", len(doc.Fragments))
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \n\t\nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(doc.Fragments))
	}
}
