package outline

import (
	"regexp"
	"strings"
)

var monthKeywords = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b\s+\d{1,2}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*`),
}

var styleMarkers = []string{"bold", "italic", "oblique", "slanted"}

// LooksLikeMonthMention reports whether the lower-cased text contains a month
// name or abbreviation anywhere, including inside longer words.
func LooksLikeMonthMention(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range monthKeywords {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// LooksLikeDate reports whether text contains a numeric or month-name date.
func LooksLikeDate(text string) bool {
	for _, re := range datePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// IsDateOrMonth is the exclusion applied before any styling rule.
func IsDateOrMonth(text string) bool {
	return LooksLikeMonthMention(text) || LooksLikeDate(text)
}

// IsStyled reports whether a font name marks bold, italic, oblique or
// slanted text.
func IsStyled(font string) bool {
	lower := strings.ToLower(font)
	for _, m := range styleMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CountWords counts tokens that are not made only of trailing punctuation.
func CountWords(text string) int {
	n := 0
	for _, w := range strings.Fields(text) {
		if strings.Trim(w, ".,:;!?") != "" {
			n++
		}
	}
	return n
}
