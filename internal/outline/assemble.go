package outline

import "strings"

// Entry is one heading in the outline. Nesting is implied by Level only.
type Entry struct {
	Level Level  `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	Page  int    `json:"page" yaml:"page"`
}

// Result is the inferred structure of one document.
type Result struct {
	Title   string  `json:"title" yaml:"title"`
	Outline []Entry `json:"outline" yaml:"outline"`
}

// UpTo returns a copy of r without the entries below max.
func (r Result) UpTo(max Level) Result {
	out := Result{Title: r.Title, Outline: make([]Entry, 0, len(r.Outline))}
	for _, e := range r.Outline {
		if e.Level <= max {
			out.Outline = append(out.Outline, e)
		}
	}
	return out
}

// assembler carries the state of the single forward pass: the title (set
// once) and the level and size of the last accepted heading, which
// continuation promotion reads.
type assembler struct {
	profile    Profile
	classifier Classifier
	opts       Options

	title     string
	titled    bool
	lastLevel Level
	lastSize  float64
	outline   []Entry
}

// Assemble walks the units in reading order and emits the title and outline.
// Every decision is final.
func Assemble(units []Unit, profile Profile, classifier Classifier) Result {
	a := &assembler{
		profile:    profile,
		classifier: classifier,
		opts:       classifier.Opts.withDefaults(),
		outline:    []Entry{},
	}
	for i := range units {
		a.step(units, i)
	}
	return Result{Title: a.title, Outline: a.outline}
}

func (a *assembler) step(units []Unit, i int) {
	u := units[i]
	text := strings.TrimSpace(u.Text)
	level, mapped := a.profile.LevelOf(u.Size)

	if !a.titled && u.Page == 1 &&
		(u.Size == a.profile.TitleSize || CountWords(text) > a.opts.TitleCaptionWords) {
		a.setTitle(text)
		return
	}

	if a.classifier.IsHeading(units, i) {
		if mapped && level == LevelTitle && !a.titled {
			a.setTitle(text)
			return
		}
		if !mapped || level == LevelTitle {
			level = LevelH2
		}
		a.emit(level, text, u.Page)
		a.lastLevel = level
		a.lastSize = u.Size
		return
	}

	if a.continues(units, i, text) {
		a.emit(a.lastLevel, text, u.Page)
	}
}

// continues reports whether a rejected unit should still join the outline at
// the last heading's level: same size, short, and set off from the line
// above on the same page.
func (a *assembler) continues(units []Unit, i int, text string) bool {
	if a.lastLevel == LevelNone || i == 0 {
		return false
	}
	u, prev := units[i], units[i-1]
	if u.Size != a.lastSize || WordCount(text) > a.opts.MaxHeadingWords {
		return false
	}
	if u.Page != prev.Page || u.Y-prev.Y <= a.opts.GapThreshold {
		return false
	}
	return !IsDateOrMonth(text)
}

func (a *assembler) setTitle(text string) {
	a.title = text
	a.titled = true
}

func (a *assembler) emit(level Level, text string, page int) {
	a.outline = append(a.outline, Entry{
		Level: level,
		Text:  strings.TrimSpace(strings.Trim(text, ":")),
		Page:  page,
	})
}
