package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const codeFont = "Courier"

// MarkdownParser handles Markdown files using goldmark. Headings are sized
// like their HTML counterparts and a thematic break starts a new page.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))
	l := newLayout()

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			level := node.Level
			if level > len(headingSizes) {
				level = len(headingSizes)
			}
			style := span{size: headingSizes[level-1], bold: true}
			l.addLine(inlineSpans(node, src, style), paragraphSpacing)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			l.addLine(inlineSpans(node, src, span{size: bodySize}), paragraphSpacing)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				s := span{text: string(seg.Value(src)), size: bodySize, font: codeFont}
				l.addLine([]span{s}, 0)
			}
			l.gap(paragraphSpacing)
			return ast.WalkSkipChildren, nil
		case *ast.ThematicBreak:
			l.pageBreak()
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown %s: %w", filename, err)
	}
	return l.document(), nil
}

// inlineSpans flattens the inline children of a block into styled spans.
func inlineSpans(n ast.Node, src []byte, style span) []span {
	var spans []span
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			s := style
			s.text = string(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				s.text += " "
			}
			spans = append(spans, s)
		case *ast.String:
			s := style
			s.text = string(node.Value)
			spans = append(spans, s)
		case *ast.Emphasis:
			inner := style
			if node.Level >= 2 {
				inner.bold = true
			} else {
				inner.italic = true
			}
			spans = append(spans, inlineSpans(node, src, inner)...)
		case *ast.CodeSpan:
			inner := style
			inner.font = codeFont
			spans = append(spans, inlineSpans(node, src, inner)...)
		case *ast.RawHTML, *ast.Image:
			continue
		default:
			spans = append(spans, inlineSpans(node, src, style)...)
		}
	}
	return trimEdges(spans)
}

func trimEdges(spans []span) []span {
	if len(spans) == 0 {
		return spans
	}
	spans[0].text = strings.TrimLeft(spans[0].text, " ")
	last := len(spans) - 1
	spans[last].text = strings.TrimRight(spans[last].text, " ")
	return spans
}
