// Package render encodes an inferred outline for files and HTTP responses.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts a format name or its usual short form. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension written for f, with the leading dot.
func Ext(f Format) string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	}
	return ".json"
}

// ContentType returns the HTTP media type for f.
func ContentType(f Format) string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/json"
}

// Write encodes res in format f.
func Write(w io.Writer, f Format, res outline.Result) error {
	switch f {
	case FormatJSON:
		return JSON(w, res)
	case FormatYAML:
		return YAML(w, res)
	case FormatMarkdown:
		return Markdown(w, res)
	case FormatHTML:
		return HTML(w, res)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// JSON writes res with two-space indentation.
func JSON(w io.Writer, res outline.Result) error {
	if res.Outline == nil {
		res.Outline = []outline.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}

// YAML writes res as a YAML document.
func YAML(w io.Writer, res outline.Result) error {
	if res.Outline == nil {
		res.Outline = []outline.Entry{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Markdown writes the title as a heading and the outline as a nested list,
// two spaces of indent per level below H1.
func Markdown(w io.Writer, res outline.Result) error {
	var b strings.Builder
	if res.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(res.Title))
	}
	_ = doctree.Walk(doctree.Build(res), func(n *doctree.DocNode, _ []string) error {
		depth := max(n.Level.Depth(), 1)
		fmt.Fprintf(&b, "%s- %s (p. %d)\n", strings.Repeat("  ", depth-1), escapeMarkdown(n.Title), n.Page)
		return nil
	})
	_, err := io.WriteString(w, b.String())
	return err
}

// htmlPolicy strips anything beyond plain list markup from the rendered body.
var htmlPolicy = bluemonday.UGCPolicy()

// HTML renders the Markdown form through goldmark into a standalone page.
func HTML(w io.Writer, res outline.Result) error {
	var md bytes.Buffer
	if err := Markdown(&md, res); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	title := res.Title
	if title == "" {
		title = "Outline"
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), htmlPolicy.SanitizeBytes(body.Bytes()))
	return err
}

// escapeMarkdown keeps heading text literal inside a list item.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '*', '_', '`', '[', ']', '<', '>', '#':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	out := b.String()

	// A leading "1." or "2)" would start an ordered list.
	i := 0
	for i < len(out) && out[i] >= '0' && out[i] <= '9' {
		i++
	}
	if i > 0 && i < len(out) && (out[i] == '.' || out[i] == ')') {
		out = out[:i] + "\\" + out[i:]
	}
	if strings.HasPrefix(out, "-") || strings.HasPrefix(out, "+") {
		out = "\\" + out
	}
	return out
}
