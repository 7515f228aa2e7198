package outline

import "strings"

const tocMarker = "table of contents"

// IsTOCMarker reports whether text announces a table of contents.
func IsTOCMarker(text string) bool {
	return strings.Contains(strings.ToLower(text), tocMarker)
}

// TOCPages returns the pages carrying a table-of-contents marker. Spacing
// signals are not trusted on those pages.
func TOCPages(frags []Fragment) map[int]bool {
	pages := make(map[int]bool)
	for _, f := range frags {
		if IsTOCMarker(f.Text) {
			pages[f.Page] = true
		}
	}
	return pages
}
