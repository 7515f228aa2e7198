package outline

import "testing"

func pagesWith(text string, pages ...int) []Fragment {
	var frags []Fragment
	for _, p := range pages {
		frags = append(frags, Fragment{Text: text, Size: 10, Page: p})
	}
	return frags
}

func TestRepeatedTexts_Threshold(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		pages     []int
		want      bool
	}{
		{"4 of 5 pages", 5, []int{1, 2, 3, 4}, true},
		{"3 of 5 pages", 5, []int{1, 2, 3}, false},
		{"8 of 10 pages", 10, []int{1, 2, 3, 4, 5, 6, 7, 8}, true},
		{"7 of 10 pages", 10, []int{1, 2, 3, 4, 5, 6, 7}, false},
		{"3 of 3 pages", 3, []int{1, 2, 3}, true},
		{"2 of 3 pages", 3, []int{1, 3}, false},
		{"2 of 2 pages", 2, []int{1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frags := pagesWith("Running Header", tt.pages...)
			repeated := RepeatedTexts(PageTextSets(frags), tt.pageCount, 0.8, 2)
			if repeated["Running Header"] != tt.want {
				t.Errorf("expected repeated=%v, got %v", tt.want, repeated["Running Header"])
			}
		})
	}
}

func TestRepeatedTexts_CountsPagesNotOccurrences(t *testing.T) {
	frags := append(pagesWith("Stamp", 1, 1, 1, 1), pagesWith("Stamp", 2)...)
	repeated := RepeatedTexts(PageTextSets(frags), 5, 0.8, 2)
	if repeated["Stamp"] {
		t.Error("expected text repeated on a single page only to be kept")
	}
}

func TestFilterBoilerplate_KeepsLongRepeats(t *testing.T) {
	long := "Chapter Two The Long Road Home Again"
	frags := append(pagesWith("Page Footer", 1, 2), pagesWith(long, 1, 2)...)
	frags = append(frags, Fragment{Text: "Body", Page: 1})

	repeated := RepeatedTexts(PageTextSets(frags), 2, 0.8, 2)
	kept := FilterBoilerplate(frags, repeated, 5)

	for _, f := range kept {
		if f.Text == "Page Footer" {
			t.Fatal("expected short repeated footer to be dropped")
		}
	}
	longCount := 0
	for _, f := range kept {
		if f.Text == long {
			longCount++
		}
	}
	if longCount != 2 {
		t.Errorf("expected long repeated text kept on both pages, got %d", longCount)
	}
}

func TestRepeatedTexts_SinglePage(t *testing.T) {
	sets := PageTextSets([]Fragment{{Text: "Short Line", Page: 1}})
	if repeated := RepeatedTexts(sets, 1, 0.8, 2); repeated["Short Line"] {
		t.Error("expected nothing repeated on a one-page document with minPages=2")
	}
	if repeated := RepeatedTexts(sets, 1, 0.8, 1); !repeated["Short Line"] {
		t.Error("expected the literal threshold to repeat every text with minPages=1")
	}
}

func TestFilterBoilerplate_SinglePageLiteralThreshold(t *testing.T) {
	frags := []Fragment{
		{Text: "Short Line", Page: 1},
		{Text: "a much longer line with more than five words", Page: 1},
	}
	repeated := RepeatedTexts(PageTextSets(frags), 1, 0.8, 1)
	kept := FilterBoilerplate(frags, repeated, 5)
	if len(kept) != 1 {
		t.Fatalf("expected 1 fragment kept on a one-page document, got %d", len(kept))
	}
	if kept[0].Text != "a much longer line with more than five words" {
		t.Errorf("unexpected survivor %q", kept[0].Text)
	}
}

func TestTOCPages(t *testing.T) {
	frags := []Fragment{
		{Text: "Preface", Page: 1},
		{Text: "TABLE OF CONTENTS", Page: 2},
		{Text: "See the table of contents below", Page: 4},
	}
	toc := TOCPages(frags)
	if !toc[2] || !toc[4] {
		t.Errorf("expected pages 2 and 4 flagged, got %v", toc)
	}
	if toc[1] {
		t.Error("expected page 1 not flagged")
	}
}
