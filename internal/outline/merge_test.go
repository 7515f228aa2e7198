package outline

import (
	"reflect"
	"testing"
)

func TestMerge_SameLineSameSize(t *testing.T) {
	frags := []Fragment{
		{Text: "1.", Size: 14, Font: "Helvetica-Bold", Page: 1, Y: 100, BBox: BBox{X0: 72, Y0: 100, X1: 300, Y1: 114}},
		{Text: "Introduction", Size: 14, Font: "Helvetica", Page: 1, Y: 102, BBox: BBox{X0: 90, Y0: 102, X1: 280, Y1: 116}},
	}
	units := Merge(frags, 5)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	u := units[0]
	if u.Text != "1. Introduction" {
		t.Errorf("expected %q, got %q", "1. Introduction", u.Text)
	}
	if u.Font != "Helvetica-Bold" || u.Y != 100 || u.BBox.X1 != 300 {
		t.Errorf("expected attributes of the first fragment, got %+v", u)
	}
}

func TestMerge_Breaks(t *testing.T) {
	tests := []struct {
		name string
		a, b Fragment
		want int
	}{
		{"size change", Fragment{Text: "a", Size: 14, Page: 1, Y: 100}, Fragment{Text: "b", Size: 12, Page: 1, Y: 100}, 2},
		{"gap of exactly 5", Fragment{Text: "a", Size: 12, Page: 1, Y: 100}, Fragment{Text: "b", Size: 12, Page: 1, Y: 105}, 2},
		{"gap just under 5", Fragment{Text: "a", Size: 12, Page: 1, Y: 100}, Fragment{Text: "b", Size: 12, Page: 1, Y: 104.9}, 1},
		{"page change", Fragment{Text: "a", Size: 12, Page: 1, Y: 100}, Fragment{Text: "b", Size: 12, Page: 2, Y: 100}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := Merge([]Fragment{tt.a, tt.b}, 5)
			if len(units) != tt.want {
				t.Errorf("expected %d units, got %d", tt.want, len(units))
			}
		})
	}
}

func TestMerge_SortsIntoReadingOrder(t *testing.T) {
	frags := []Fragment{
		{Text: "second page", Size: 12, Page: 2, Y: 50},
		{Text: "bottom", Size: 12, Page: 1, Y: 700},
		{Text: "top", Size: 12, Page: 1, Y: 50},
	}
	units := Merge(frags, 5)
	var got []string
	for _, u := range units {
		got = append(got, u.Text)
	}
	want := []string{"top", "bottom", "second page"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	frags := []Fragment{
		{Text: "Title", Size: 20, Page: 1, Y: 72},
		{Text: "part", Size: 12, Page: 1, Y: 120},
		{Text: "one", Size: 12, Page: 1, Y: 121},
		{Text: "next line", Size: 12, Page: 1, Y: 140},
		{Text: "other page", Size: 12, Page: 2, Y: 72},
	}
	once := Merge(frags, 5)
	again := make([]Fragment, len(once))
	for i, u := range once {
		again[i] = Fragment(u)
	}
	twice := Merge(again, 5)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("expected merge to be a no-op on merged units\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMerge_Empty(t *testing.T) {
	if units := Merge(nil, 5); len(units) != 0 {
		t.Errorf("expected no units, got %d", len(units))
	}
}
