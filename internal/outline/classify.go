package outline

import "strings"

// Classifier decides heading-versus-body for one merged unit, given its
// neighbours.
type Classifier struct {
	BodySize float64
	TOCPages map[int]bool
	Opts     Options
}

// NewClassifier returns a classifier for a document with the given body size
// and table of contents pages.
func NewClassifier(bodySize float64, tocPages map[int]bool, opts Options) Classifier {
	return Classifier{BodySize: bodySize, TOCPages: tocPages, Opts: opts.withDefaults()}
}

// Spacing holds the whitespace signals around a unit.
type Spacing struct {
	Above bool // gap to the previous unit on the same page
	Right bool // right edge differs from the next unit's
	Below bool // gap to the next unit
}

// SpacingAt computes the whitespace signals for units[i]. On table of
// contents pages every signal is true.
func (c Classifier) SpacingAt(units []Unit, i int) Spacing {
	s := Spacing{Above: true, Right: true, Below: true}
	u := units[i]
	if c.TOCPages[u.Page] {
		return s
	}

	s.Above = i > 0 && units[i-1].Page == u.Page && u.Y-units[i-1].Y > c.Opts.GapThreshold
	if i+1 < len(units) {
		next := units[i+1]
		diff := u.BBox.X1 - next.BBox.X1
		if diff < 0 {
			diff = -diff
		}
		s.Right = diff > c.Opts.RightEdgeThreshold
		s.Below = next.Y-u.Y > c.Opts.GapThreshold
	}
	return s
}

// Rejected reports whether text is excluded regardless of styling or layout.
func (c Classifier) Rejected(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || WordCount(text) > c.Opts.MaxHeadingWords {
		return true
	}
	if strings.HasPrefix(strings.ToLower(text), "result:") {
		return true
	}
	return IsDateOrMonth(text)
}

// IsHeading applies the exclusions and then the four acceptance rules to
// units[i].
func (c Classifier) IsHeading(units []Unit, i int) bool {
	u := units[i]
	if c.Rejected(u.Text) {
		return false
	}

	sp := c.SpacingAt(units, i)
	hasNext := i+1 < len(units)
	styled := IsStyled(u.Font)
	short := WordCount(u.Text) <= c.Opts.MaxHeadingWords
	allSpacing := sp.Above && sp.Right && sp.Below

	// Larger than body text.
	if u.Size > c.BodySize {
		return true
	}

	// Styled lead-in at body size followed by a long body paragraph.
	if u.Size == c.BodySize && styled && short && hasNext && allSpacing {
		next := units[i+1]
		if next.Size == c.BodySize && WordCount(next.Text) > c.Opts.MaxHeadingWords {
			return true
		}
	}

	// Short styled line isolated above and below.
	if styled && short && hasNext && sp.Below && sp.Above {
		return true
	}

	// Small styled caption set off on every side.
	if u.Size < c.BodySize && styled && short && hasNext && allSpacing {
		return true
	}

	return false
}
