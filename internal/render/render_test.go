package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/outline"
)

var sample = outline.Result{
	Title: "Field Guide",
	Outline: []outline.Entry{
		{Level: outline.LevelH1, Text: "1. Setup", Page: 1},
		{Level: outline.LevelH2, Text: "Install", Page: 2},
		{Level: outline.LevelH1, Text: "Usage", Page: 4},
	},
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sample); err != nil {
		t.Fatal(err)
	}
	want := `{
  "title": "Field Guide",
  "outline": [
    {
      "level": "H1",
      "text": "1. Setup",
      "page": 1
    },
    {
      "level": "H2",
      "text": "Install",
      "page": 2
    },
    {
      "level": "H1",
      "text": "Usage",
      "page": 4
    }
  ]
}
`
	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestJSON_EmptyOutline(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, outline.Result{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"outline": []`) {
		t.Errorf("expected empty array, got %s", buf.String())
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := YAML(&buf, sample); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"title: Field Guide", "level: H1", "text: Install", "page: 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown(&buf, sample); err != nil {
		t.Fatal(err)
	}
	want := "# Field Guide\n\n- 1\\. Setup (p. 1)\n  - Install (p. 2)\n- Usage (p. 4)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestMarkdown_SkippedLevels(t *testing.T) {
	res := outline.Result{Outline: []outline.Entry{
		{Level: outline.LevelH1, Text: "Setup", Page: 1},
		{Level: outline.LevelH3, Text: "Linux", Page: 2},
		{Level: outline.LevelH2, Text: "Configure", Page: 2},
		{Level: outline.LevelH1, Text: "Usage", Page: 3},
	}}
	var buf bytes.Buffer
	if err := Markdown(&buf, res); err != nil {
		t.Fatal(err)
	}
	want := "- Setup (p. 1)\n    - Linux (p. 2)\n  - Configure (p. 2)\n- Usage (p. 3)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, sample); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"<title>Field Guide</title>",
		"<h1>Field Guide</h1>",
		"<li>Install (p. 2)</li>",
		"1. Setup (p. 1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<ol>") {
		t.Error("expected numbered heading text not to become an ordered list")
	}
}

func TestHTML_EscapesMarkup(t *testing.T) {
	res := outline.Result{
		Title: "<b>Report</b>",
		Outline: []outline.Entry{
			{Level: outline.LevelH1, Text: `<script>alert(1)</script>`, Page: 1},
			{Level: outline.LevelH1, Text: `[click](javascript:alert(1))`, Page: 2},
		},
	}
	var buf bytes.Buffer
	if err := HTML(&buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, bad := range []string{"<script>", "<b>", "href="} {
		if strings.Contains(out, bad) {
			t.Errorf("unexpected %q in:\n%s", bad, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatJSON,
		"JSON":     FormatJSON,
		"yml":      FormatYAML,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"html":     FormatHTML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q): expected %q, got %q (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestExt(t *testing.T) {
	tests := map[Format]string{FormatJSON: ".json", FormatYAML: ".yaml", FormatMarkdown: ".md", FormatHTML: ".html"}
	for f, want := range tests {
		if got := Ext(f); got != want {
			t.Errorf("Ext(%q): expected %q, got %q", f, want, got)
		}
	}
}
