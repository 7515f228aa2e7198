package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/fumiama/go-docx"
)

const docxDefaultFont = "Calibri"

// docxStyleSizes are the sizes of the built-in title and heading styles.
var docxStyleSizes = map[string]float64{
	"title":    26,
	"heading1": 20,
	"heading2": 16,
	"heading3": 14,
	"heading4": 13,
	"heading5": 12,
	"heading6": 11,
}

// DOCXParser handles .docx files. Word documents carry no fixed layout, so
// paragraphs are placed on synthetic pages; explicit page breaks are honored.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	data, err = stripOffToggles(data)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	l := newLayout()
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			docxParagraph(l, it)
		case *docx.Table:
			docxTable(l, it)
		}
	}
	return l.document(), nil
}

// docxOffToggle matches bold and italic elements that switch the property
// off. go-docx keeps only the element name, so these would read as on.
var docxOffToggle = regexp.MustCompile(`<w:(?:b|i)\s+w:val=["'](?:0|false|off)["']\s*(?:/>|>\s*</w:(?:b|i)>)`)

// stripOffToggles removes off toggles from word/document.xml. Input that is
// not a zip archive is returned as is for go-docx to reject.
func stripOffToggles(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return data, nil
	}
	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return data, nil
	}
	rc, err := body.Open()
	if err != nil {
		return nil, err
	}
	xmlData, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, err
	}
	if !docxOffToggle.Match(xmlData) {
		return data, nil
	}
	xmlData = docxOffToggle.ReplaceAll(xmlData, nil)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if f != body {
			if err := zw.Copy(f); err != nil {
				return nil, err
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(xmlData); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func docxTable(l *layout, t *docx.Table) {
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			for _, para := range cell.Paragraphs {
				docxParagraph(l, para)
			}
			for _, nested := range cell.Tables {
				docxTable(l, nested)
			}
		}
	}
}

// docxParagraph lays out one paragraph as one line. A page break inside the
// paragraph ends the line and starts a new page.
func docxParagraph(l *layout, para *docx.Paragraph) {
	style := docxStyle(para)
	styleSize, heading := docxStyleSizes[style]

	var line []span
	flush := func() {
		l.addLine(line, paragraphSpacing)
		line = nil
	}

	addRun := func(run *docx.Run) {
		base := span{size: bodySize, font: docxDefaultFont, bold: heading}
		if heading {
			base.size = styleSize
		}
		applyRunProperties(&base, run.RunProperties)

		for _, child := range run.Children {
			switch c := child.(type) {
			case *docx.Text:
				s := base
				s.text = c.Text
				line = append(line, s)
			case *docx.Tab:
				s := base
				s.text = " "
				line = append(line, s)
			case *docx.BarterRabbet:
				if c.Type == "page" {
					flush()
					l.pageBreak()
				}
			}
		}
	}

	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			addRun(c)
		case *docx.Hyperlink:
			addRun(&c.Run)
		}
	}
	flush()
}

func applyRunProperties(s *span, rp *docx.RunProperties) {
	if rp == nil {
		return
	}
	if rp.Bold != nil {
		s.bold = true
	}
	if rp.Italic != nil {
		s.italic = true
	}
	if rp.Fonts != nil && rp.Fonts.ASCII != "" {
		s.font = rp.Fonts.ASCII
	}
	if rp.Size != nil {
		// w:sz is in half-points.
		if half, err := strconv.ParseFloat(rp.Size.Val, 64); err == nil && half > 0 {
			s.size = half / 2
		}
	}
}

// docxStyle normalizes the paragraph style id, so "Heading 1" and
// "heading1" compare equal.
func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
}
