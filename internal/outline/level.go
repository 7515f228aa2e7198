package outline

import "fmt"

// Level is a structural rank on the heading ladder.
type Level int

const (
	LevelNone Level = iota
	LevelTitle
	LevelH1
	LevelH2
	LevelH3
	LevelH4
)

// ladder is the fixed rank order; sizes beyond it get no level.
var ladder = []Level{LevelTitle, LevelH1, LevelH2, LevelH3, LevelH4}

func (l Level) String() string {
	switch l {
	case LevelTitle:
		return "Title"
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	case LevelH4:
		return "H4"
	default:
		return ""
	}
}

// Depth is the nesting depth of an outline level: H1 is 1, H4 is 4.
func (l Level) Depth() int {
	if l < LevelH1 || l > LevelH4 {
		return 0
	}
	return int(l - LevelTitle)
}

// MarshalText encodes the level as "H1".."H4" (or "Title").
func (l Level) MarshalText() ([]byte, error) {
	if l == LevelNone {
		return nil, fmt.Errorf("outline: cannot encode empty level")
	}
	return []byte(l.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (l *Level) UnmarshalText(b []byte) error {
	for _, candidate := range ladder {
		if candidate.String() == string(b) {
			*l = candidate
			return nil
		}
	}
	return fmt.Errorf("outline: unknown level %q", b)
}
