package outline

// Options holds the engine thresholds. All distances are in page units.
type Options struct {
	// MergeTolerance is the maximum vertical distance (exclusive) between two
	// fragments that are still read as the same line.
	MergeTolerance float64 `mapstructure:"merge_tolerance" yaml:"merge_tolerance" json:"merge_tolerance"`

	// GapThreshold is the vertical gap (exclusive) above or below a line that
	// counts as whitespace separation.
	GapThreshold float64 `mapstructure:"gap_threshold" yaml:"gap_threshold" json:"gap_threshold"`

	// RightEdgeThreshold is the right-edge difference (exclusive) between a
	// line and the next one that counts as "not aligned with the paragraph".
	RightEdgeThreshold float64 `mapstructure:"right_edge_threshold" yaml:"right_edge_threshold" json:"right_edge_threshold"`

	// MaxHeadingWords is the longest a heading may be, in words.
	MaxHeadingWords int `mapstructure:"max_heading_words" yaml:"max_heading_words" json:"max_heading_words"`

	// TitleCaptionWords: a page-1 line longer than this is taken as the title.
	TitleCaptionWords int `mapstructure:"title_caption_words" yaml:"title_caption_words" json:"title_caption_words"`

	// RepeatRatio is the fraction of pages a text must appear on to be
	// treated as a running header or footer.
	RepeatRatio float64 `mapstructure:"repeat_ratio" yaml:"repeat_ratio" json:"repeat_ratio"`

	// MaxBoilerplateWords caps the length of repeated text that gets dropped.
	MaxBoilerplateWords int `mapstructure:"max_boilerplate_words" yaml:"max_boilerplate_words" json:"max_boilerplate_words"`

	// MinRepeatPages is the fewest distinct pages a text must appear on
	// before the repeat ratio applies. The default of 2 keeps the title of a
	// one-page document. 1 applies the ratio alone, so on a one-page
	// document every short line counts as repeated and is dropped.
	MinRepeatPages int `mapstructure:"min_repeat_pages" yaml:"min_repeat_pages" json:"min_repeat_pages"`
}

// DefaultOptions returns the thresholds the heuristics were tuned with.
func DefaultOptions() Options {
	return Options{
		MergeTolerance:      5,
		GapThreshold:        20,
		RightEdgeThreshold:  50,
		MaxHeadingWords:     10,
		TitleCaptionWords:   10,
		RepeatRatio:         0.8,
		MaxBoilerplateWords: 5,
		MinRepeatPages:      2,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MergeTolerance <= 0 {
		o.MergeTolerance = d.MergeTolerance
	}
	if o.GapThreshold <= 0 {
		o.GapThreshold = d.GapThreshold
	}
	if o.RightEdgeThreshold <= 0 {
		o.RightEdgeThreshold = d.RightEdgeThreshold
	}
	if o.MaxHeadingWords <= 0 {
		o.MaxHeadingWords = d.MaxHeadingWords
	}
	if o.TitleCaptionWords <= 0 {
		o.TitleCaptionWords = d.TitleCaptionWords
	}
	if o.RepeatRatio <= 0 || o.RepeatRatio > 1 {
		o.RepeatRatio = d.RepeatRatio
	}
	if o.MaxBoilerplateWords <= 0 {
		o.MaxBoilerplateWords = d.MaxBoilerplateWords
	}
	if o.MinRepeatPages <= 0 {
		o.MinRepeatPages = d.MinRepeatPages
	}
	return o
}
