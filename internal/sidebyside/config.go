package sidebyside

import (
	"fmt"

	"github.com/codalotl/sidebyside/internal/highlight"
	"github.com/codalotl/sidebyside/internal/rematch"
)

// Matching selects how lines of a modified group are paired.
type Matching int

const (
	MatchingNone  Matching = iota // Pair by position.
	MatchingLines                 // Pair similar lines with rematch.
	MatchingWords                 // Like MatchingLines, and flag replaced words that are close variants (highlight.Span.Changed).
)

func (m Matching) String() string {
	switch m {
	case MatchingNone:
		return "none"
	case MatchingLines:
		return "lines"
	case MatchingWords:
		return "words"
	default:
		return fmt.Sprintf("Matching(%d)", int(m))
	}
}

// ParseMatching parses "none", "lines", or "words".
func ParseMatching(s string) (Matching, error) {
	switch s {
	case "none":
		return MatchingNone, nil
	case "lines":
		return MatchingLines, nil
	case "words":
		return MatchingWords, nil
	default:
		return MatchingNone, fmt.Errorf("unknown matching %q (want none, lines, or words)", s)
	}
}

// Config tunes an Engine. Use DefaultConfig and override fields.
type Config struct {
	Matching  Matching
	DiffStyle highlight.Style

	// NoMatchThreshold is the line distance above which the best pair of a sub-block is considered unrelated (see rematch.NewMatcher).
	NoMatchThreshold float64

	// MatchWordsThreshold is the word distance below which a replaced word is flagged as changed. Only used with MatchingWords.
	MatchWordsThreshold float64

	// MatchingMaxComparisons caps the size of a group that is matched: groups with len(old)*len(new) >= this are paired by position.
	MatchingMaxComparisons int

	// MaxLineSizeInBlockForComparison skips matching for groups containing a line of at least this many runes.
	MaxLineSizeInBlockForComparison int

	// MaxLineLengthHighlight skips intra-line highlighting of lines longer than this many bytes. 0 means no limit.
	MaxLineLengthHighlight int
}

// DefaultConfig returns the default Config: line matching with word-level highlights.
func DefaultConfig() Config {
	return Config{
		Matching:                        MatchingLines,
		DiffStyle:                       highlight.StyleWord,
		NoMatchThreshold:                rematch.DefaultNoMatchThreshold,
		MatchWordsThreshold:             0.25,
		MatchingMaxComparisons:          2500,
		MaxLineSizeInBlockForComparison: 200,
		MaxLineLengthHighlight:          10000,
	}
}

// Validate returns an error describing the first invalid field of c.
func (c Config) Validate() error {
	if c.Matching < MatchingNone || c.Matching > MatchingWords {
		return fmt.Errorf("matching: invalid value %d", int(c.Matching))
	}
	if c.DiffStyle != highlight.StyleWord && c.DiffStyle != highlight.StyleChar {
		return fmt.Errorf("diff style: invalid value %d", int(c.DiffStyle))
	}
	if c.NoMatchThreshold < 0 || c.NoMatchThreshold > 1 {
		return fmt.Errorf("no-match threshold: %v is outside [0, 1]", c.NoMatchThreshold)
	}
	if c.MatchWordsThreshold < 0 || c.MatchWordsThreshold > 1 {
		return fmt.Errorf("match-words threshold: %v is outside [0, 1]", c.MatchWordsThreshold)
	}
	if c.MatchingMaxComparisons < 0 {
		return fmt.Errorf("matching max comparisons: must not be negative (got %d)", c.MatchingMaxComparisons)
	}
	if c.MaxLineSizeInBlockForComparison < 0 {
		return fmt.Errorf("max line size in block for comparison: must not be negative (got %d)", c.MaxLineSizeInBlockForComparison)
	}
	if c.MaxLineLengthHighlight < 0 {
		return fmt.Errorf("max line length highlight: must not be negative (got %d)", c.MaxLineLengthHighlight)
	}
	return nil
}

func (c Config) highlightOptions() highlight.Options {
	return highlight.Options{
		Style:               c.DiffStyle,
		MaxLineLength:       c.MaxLineLengthHighlight,
		MatchWords:          c.Matching == MatchingWords,
		MatchWordsThreshold: c.MatchWordsThreshold,
	}
}
