package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Block elements become lines on synthetic
// pages; heading tags set the size and inline b/strong/i/em set the style.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	w := &htmlWalker{l: newLayout()}
	if body := findBody(doc); body != nil {
		w.walk(body, span{size: bodySize})
	} else {
		w.walk(doc, span{size: bodySize})
	}
	w.flush()
	return w.l.document(), nil
}

type htmlWalker struct {
	l    *layout
	line []span
}

func (w *htmlWalker) flush() {
	w.l.addLine(w.line, paragraphSpacing)
	w.line = nil
}

func (w *htmlWalker) walk(n *html.Node, style span) {
	switch n.Type {
	case html.TextNode:
		s := style
		s.text = n.Data
		w.line = append(w.line, s)
		return
	case html.ElementNode:
	default:
		w.children(n, style)
		return
	}

	switch n.Data {
	case "script", "style", "nav", "noscript", "template", "head":
		return
	case "hr":
		if strings.Contains(attr(n, "class"), "page") {
			w.flush()
			w.l.pageBreak()
		}
		return
	case "br":
		w.flush()
		return
	}

	if breaksPage(attr(n, "style")) {
		w.flush()
		w.l.pageBreak()
	}

	if level := headingLevel(n.Data); level > 0 {
		w.flush()
		style.size = headingSizes[level-1]
		style.bold = true
		w.children(n, style)
		w.flush()
		return
	}

	switch n.Data {
	case "b", "strong":
		style.bold = true
	case "i", "em":
		style.italic = true
	}

	if isBlock(n.Data) {
		w.flush()
		w.children(n, style)
		w.flush()
		return
	}
	w.children(n, style)
}

func (w *htmlWalker) children(n *html.Node, style span) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, style)
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "dl", "dt", "dd", "td", "th", "tr", "table",
		"blockquote", "pre", "section", "article", "aside", "header", "footer", "main",
		"figure", "figcaption", "caption", "address":
		return true
	}
	return false
}

func breaksPage(style string) bool {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return strings.Contains(s, "page-break-before:always") || strings.Contains(s, "break-before:page")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
