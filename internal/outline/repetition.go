package outline

import "math"

// PageTextSets returns, per page, the set of distinct fragment texts.
func PageTextSets(frags []Fragment) map[int]map[string]bool {
	sets := make(map[int]map[string]bool)
	for _, f := range frags {
		set, ok := sets[f.Page]
		if !ok {
			set = make(map[string]bool)
			sets[f.Page] = set
		}
		set[f.Text] = true
	}
	return sets
}

// RepeatedTexts returns every text that appears on at least ratio*pageCount
// distinct pages (rounded up) and on no fewer than minPages pages.
func RepeatedTexts(sets map[int]map[string]bool, pageCount int, ratio float64, minPages int) map[string]bool {
	occurrences := make(map[string]int)
	for _, set := range sets {
		for text := range set {
			occurrences[text]++
		}
	}

	threshold := int(math.Ceil(float64(pageCount)*ratio - 1e-9))
	if threshold < minPages {
		threshold = minPages
	}
	if threshold < 1 {
		threshold = 1
	}

	repeated := make(map[string]bool)
	for text, n := range occurrences {
		if n >= threshold {
			repeated[text] = true
		}
	}
	return repeated
}

// IsBoilerplateRepeat reports whether text is a repeated string short enough
// to be a running header, footer or page stamp.
func IsBoilerplateRepeat(text string, repeated map[string]bool, maxWords int) bool {
	return repeated[text] && WordCount(text) <= maxWords
}

// FilterBoilerplate drops every fragment whose exact text is boilerplate.
func FilterBoilerplate(frags []Fragment, repeated map[string]bool, maxWords int) []Fragment {
	kept := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if IsBoilerplateRepeat(f.Text, repeated, maxWords) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
