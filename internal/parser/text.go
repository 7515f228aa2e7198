package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
)

// TextParser handles plain text files. Every non-empty line is a body-size
// fragment; a form feed starts a new page, as pdftotext emits.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	l := newLayout()
	for scanner.Scan() {
		pages := strings.Split(scanner.Text(), "\f")
		for i, line := range pages {
			if i > 0 {
				l.newPage()
			}
			if strings.TrimSpace(line) == "" {
				if i == len(pages)-1 {
					l.gap(paragraphSpacing)
				}
				continue
			}
			l.addLine([]span{{text: line, size: bodySize, font: codeFont}}, 0)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return l.document(), nil
}
