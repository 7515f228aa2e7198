package outline

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func line(text string, size float64, font string, page int, y float64) Fragment {
	return Fragment(unit(text, size, font, page, y))
}

func body(n int) string {
	return fmt.Sprintf("paragraph %d carries the running discussion forward with plenty of ordinary words", n)
}

func checkInvariants(t *testing.T, res Result) {
	t.Helper()
	if res.Outline == nil {
		t.Fatal("expected non-nil outline")
	}
	for i, e := range res.Outline {
		if e.Text == "" {
			t.Errorf("entry %d: empty text", i)
		}
		if WordCount(e.Text) > 10 {
			t.Errorf("entry %d: %q has more than 10 words", i, e.Text)
		}
		if strings.HasPrefix(e.Text, ":") || strings.HasSuffix(e.Text, ":") {
			t.Errorf("entry %d: %q keeps a colon", i, e.Text)
		}
		if e.Level < LevelH1 || e.Level > LevelH4 {
			t.Errorf("entry %d: level %v outside H1..H4", i, e.Level)
		}
		if e.Page < 1 {
			t.Errorf("entry %d: page %d", i, e.Page)
		}
	}
}

func assertOutline(t *testing.T, got []Entry, want []Entry) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outline mismatch\nexpected: %+v\ngot:      %+v", want, got)
	}
}

func TestInfer_TitleAbsorbed(t *testing.T) {
	doc := Document{PageCount: 1, Fragments: []Fragment{
		line("Project Report", 24, "Helvetica", 1, 72),
		line(body(1), 12, "Helvetica", 1, 120),
		line(body(2), 12, "Helvetica", 1, 135),
		line(body(3), 12, "Helvetica", 1, 150),
	}}
	res := Infer(doc)
	checkInvariants(t, res)
	if res.Title != "Project Report" {
		t.Errorf("expected title %q, got %q", "Project Report", res.Title)
	}
	assertOutline(t, res.Outline, []Entry{})
}

func TestInfer_RunningFooterRemoved(t *testing.T) {
	doc := Document{PageCount: 2, Fragments: []Fragment{
		line("Field Guide", 20, "Helvetica", 1, 72),
		line(body(1), 12, "Helvetica", 1, 120),
		line(body(2), 12, "Helvetica", 1, 135),
		line("Internal Use Only", 14, "Helvetica-Bold", 1, 760),
		line("Scope", 16, "Helvetica", 2, 72),
		line(body(3), 12, "Helvetica", 2, 100),
		line(body(4), 12, "Helvetica", 2, 115),
		line("Internal Use Only", 14, "Helvetica-Bold", 2, 760),
	}}
	res := Infer(doc)
	checkInvariants(t, res)
	assertOutline(t, res.Outline, []Entry{{Level: LevelH1, Text: "Scope", Page: 2}})
}

func TestInfer_Boilerplate(t *testing.T) {
	build := func(footerPages ...int) Document {
		frags := []Fragment{line("Field Guide", 20, "Helvetica", 1, 72)}
		n := 0
		for p := 1; p <= 5; p++ {
			n++
			frags = append(frags, line(body(n), 12, "Helvetica", p, 100))
			n++
			frags = append(frags, line(body(n), 12, "Helvetica", p, 115))
		}
		for _, p := range footerPages {
			frags = append(frags, line("ACME Corp", 14, "Helvetica-Bold", p, 760))
		}
		return Document{PageCount: 5, Fragments: frags}
	}
	count := func(res Result) int {
		n := 0
		for _, e := range res.Outline {
			if e.Text == "ACME Corp" {
				n++
			}
		}
		return n
	}

	if n := count(Infer(build(1, 2, 3, 4))); n != 0 {
		t.Errorf("footer on 4 of 5 pages: expected it dropped, got %d entries", n)
	}
	if n := count(Infer(build(1, 2, 3))); n != 3 {
		t.Errorf("footer on 3 of 5 pages: expected 3 entries, got %d", n)
	}
}

func TestInfer_MonthMentionRejected(t *testing.T) {
	doc := Document{Fragments: []Fragment{
		line("Field Guide", 20, "Helvetica", 1, 72),
		line(body(1), 12, "Helvetica", 2, 40),
		line("March 2023 Release", 12, "Helvetica-Bold", 2, 100),
		line(body(2), 12, "Helvetica", 2, 140),
		line(body(3), 12, "Helvetica", 2, 155),
	}}
	res := Infer(doc)
	checkInvariants(t, res)
	assertOutline(t, res.Outline, []Entry{})
}

func TestInfer_LargerSizeAccepted(t *testing.T) {
	doc := Document{Fragments: []Fragment{
		line("Field Guide", 20, "Helvetica", 1, 72),
		line(body(1), 12, "Helvetica", 1, 200),
		line("1. Introduction", 16, "Helvetica", 2, 72),
		line(body(2), 12, "Helvetica", 2, 100),
		line(body(3), 12, "Helvetica", 2, 115),
		line(body(4), 12, "Helvetica", 2, 130),
	}}
	res := Infer(doc)
	checkInvariants(t, res)
	if res.Title != "Field Guide" {
		t.Errorf("expected title %q, got %q", "Field Guide", res.Title)
	}
	assertOutline(t, res.Outline, []Entry{{Level: LevelH1, Text: "1. Introduction", Page: 2}})
}

func TestInfer_StripsColons(t *testing.T) {
	doc := Document{Fragments: []Fragment{
		line("Field Guide", 20, "Helvetica", 1, 72),
		line("Scope:", 16, "Helvetica", 2, 72),
		line(body(1), 12, "Helvetica", 2, 100),
		line(body(2), 12, "Helvetica", 2, 115),
	}}
	res := Infer(doc)
	checkInvariants(t, res)
	assertOutline(t, res.Outline, []Entry{{Level: LevelH1, Text: "Scope", Page: 2}})
}

func TestInfer_ContinuationPromotion(t *testing.T) {
	doc := Document{Fragments: []Fragment{
		line("Field Guide", 20, "Helvetica", 1, 72),
		line(body(1), 12, "Helvetica", 1, 200),
		line(body(2), 12, "Helvetica", 2, 40),
		line("Goals", 12, "Helvetica-Bold", 2, 72),
		line(body(3), 12, "Helvetica", 2, 100),
		line(body(4), 12, "Helvetica", 2, 115),
		line("Risks", 12, "Helvetica-Bold", 2, 160),
	}}
	res := Infer(doc)
	checkInvariants(t, res)
	assertOutline(t, res.Outline, []Entry{
		{Level: LevelH1, Text: "Goals", Page: 2},
		{Level: LevelH1, Text: "Risks", Page: 2},
	})
}

func TestInfer_TitleSetOnce(t *testing.T) {
	doc := Document{Fragments: []Fragment{
		line("Field Guide", 20, "Helvetica", 1, 72),
		line("Second Banner", 20, "Helvetica", 1, 110),
		line(body(1), 12, "Helvetica", 1, 150),
		line(body(2), 12, "Helvetica", 1, 165),
		line(body(3), 12, "Helvetica", 1, 180),
	}}
	res := Infer(doc)
	checkInvariants(t, res)
	if res.Title != "Field Guide" {
		t.Errorf("expected title %q, got %q", "Field Guide", res.Title)
	}
	assertOutline(t, res.Outline, []Entry{{Level: LevelH2, Text: "Second Banner", Page: 1}})
}

func TestInfer_LongFirstLineBecomesTitle(t *testing.T) {
	doc := Document{Fragments: []Fragment{
		line(body(1), 12, "Helvetica", 1, 72),
		line("Overview", 16, "Helvetica", 1, 120),
		line(body(2), 12, "Helvetica", 1, 150),
		line(body(3), 12, "Helvetica", 1, 165),
	}}
	res := Infer(doc)
	checkInvariants(t, res)
	if res.Title != body(1) {
		t.Errorf("expected the long first line as title, got %q", res.Title)
	}
	assertOutline(t, res.Outline, []Entry{{Level: LevelH2, Text: "Overview", Page: 1}})
}

func TestInfer_LadderAndFallback(t *testing.T) {
	frags := []Fragment{
		line("Field Guide", 30, "Helvetica", 1, 72),
		line(body(1), 12, "Helvetica", 1, 120),
	}
	headings := []struct {
		text string
		size float64
	}{{"Alpha", 28}, {"Beta", 26}, {"Gamma", 24}, {"Delta", 22}, {"Epsilon", 20}}
	y := 72.0
	for i, h := range headings {
		frags = append(frags, line(h.text, h.size, "Helvetica", 2, y))
		frags = append(frags, line(body(i+2), 12, "Helvetica", 2, y+40))
		y += 80
	}
	frags = append(frags, line(body(10), 12, "Helvetica", 2, y))

	res := Infer(Document{Fragments: frags})
	checkInvariants(t, res)
	assertOutline(t, res.Outline, []Entry{
		{Level: LevelH1, Text: "Alpha", Page: 2},
		{Level: LevelH2, Text: "Beta", Page: 2},
		{Level: LevelH3, Text: "Gamma", Page: 2},
		{Level: LevelH4, Text: "Delta", Page: 2},
		{Level: LevelH2, Text: "Epsilon", Page: 2},
	})
}

func tocDocument(marker string) Document {
	return Document{Fragments: []Fragment{
		line("Field Guide", 20, "Helvetica", 1, 72),
		line(body(1), 12, "Helvetica", 1, 200),
		line(marker, 16, "Helvetica", 2, 72),
		line("Scope 3", 12, "Helvetica-Bold", 2, 100),
		line("Design 4", 12, "Helvetica-Bold", 2, 114),
		line("Testing 5", 12, "Helvetica-Bold", 2, 128),
		line(body(2), 12, "Helvetica", 2, 142),
		line("Scope", 16, "Helvetica", 3, 72),
		line(body(3), 12, "Helvetica", 3, 100),
		line(body(4), 12, "Helvetica", 3, 115),
	}}
}

func TestInfer_ContentsPage(t *testing.T) {
	res := Infer(tocDocument("Table of Contents"))
	checkInvariants(t, res)
	assertOutline(t, res.Outline, []Entry{
		{Level: LevelH1, Text: "Table of Contents", Page: 2},
		{Level: LevelH2, Text: "Scope 3", Page: 2},
		{Level: LevelH2, Text: "Design 4", Page: 2},
		{Level: LevelH2, Text: "Testing 5", Page: 2},
		{Level: LevelH1, Text: "Scope", Page: 3},
	})

	res = Infer(tocDocument("Reading Guide"))
	checkInvariants(t, res)
	assertOutline(t, res.Outline, []Entry{
		{Level: LevelH1, Text: "Reading Guide", Page: 2},
		{Level: LevelH1, Text: "Scope", Page: 3},
	})
}

func TestInfer_Empty(t *testing.T) {
	for _, doc := range []Document{
		{},
		{PageCount: 3},
		{Fragments: []Fragment{{Text: "   ", Size: 12, Page: 1}}},
	} {
		res := Infer(doc)
		if res.Title != "" {
			t.Errorf("expected empty title, got %q", res.Title)
		}
		b, err := json.Marshal(res)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != `{"title":"","outline":[]}` {
			t.Errorf("expected empty result, got %s", b)
		}
	}
}

func TestInfer_Deterministic(t *testing.T) {
	doc := tocDocument("Table of Contents")
	first := Infer(doc)
	for i := 0; i < 5; i++ {
		if got := Infer(doc); !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d differs\nfirst: %+v\ngot:   %+v", i, first, got)
		}
	}
}

func TestInfer_DoesNotMutateInput(t *testing.T) {
	doc := tocDocument("Table of Contents")
	doc.Fragments[0].Text = "  Field Guide  "
	before := append([]Fragment(nil), doc.Fragments...)
	Infer(doc)
	if !reflect.DeepEqual(before, doc.Fragments) {
		t.Error("expected Infer to leave the caller's fragments untouched")
	}
}

func TestNew_Defaults(t *testing.T) {
	e := New(Options{}, nil)
	if e.Options() != DefaultOptions() {
		t.Errorf("expected defaults, got %+v", e.Options())
	}
	custom := New(Options{GapThreshold: 30}, nil).Options()
	if custom.GapThreshold != 30 || custom.MergeTolerance != 5 {
		t.Errorf("expected overridden gap and default tolerance, got %+v", custom)
	}
}

func TestInfer_OnePageMinRepeatPages(t *testing.T) {
	doc := Document{PageCount: 1, Fragments: []Fragment{
		line("Project Report", 24, "Helvetica", 1, 72),
		line(body(1), 12, "Helvetica", 1, 120),
		line(body(2), 12, "Helvetica", 1, 135),
	}}
	if res := New(Options{}, nil).Infer(doc); res.Title != "Project Report" {
		t.Errorf("expected default options to keep the title, got %q", res.Title)
	}
	res := New(Options{MinRepeatPages: 1}, nil).Infer(doc)
	checkInvariants(t, res)
	if res.Title == "Project Report" {
		t.Error("expected minRepeatPages=1 to drop the short title as repeated")
	}
}
