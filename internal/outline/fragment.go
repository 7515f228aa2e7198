// Package outline infers a document title and a leveled heading outline from
// the visual layout of styled text fragments. It relies only on size, font
// name, position and page of each fragment, never on embedded structure.
package outline

// BBox is a rectangle in top-down page coordinates.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Fragment is one styled run of text as laid out on a page.
type Fragment struct {
	Text string  `json:"text"`
	Size float64 `json:"size"`
	Font string  `json:"font"`
	Page int     `json:"page"` // 1-based
	Y    float64 `json:"y"`    // top of the owning line
	BBox BBox    `json:"bbox"`
}

// Unit is one or more same-line, same-size fragments read as a single line of
// text. Size, font, page, y and bbox come from the first fragment.
type Unit Fragment

// Document is what a fragment provider hands to the engine.
type Document struct {
	// PageCount is the number of pages in the source, including pages
	// without any text. Zero means "use the highest fragment page".
	PageCount int
	Fragments []Fragment
}

func (d Document) pages() int {
	if d.PageCount > 0 {
		return d.PageCount
	}
	n := 0
	for _, f := range d.Fragments {
		if f.Page > n {
			n = f.Page
		}
	}
	return n
}
