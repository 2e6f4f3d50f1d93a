// Package uni measures and fits text to terminal columns, one grapheme cluster at a time.
package uni

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation.
//
// Currently only relevant for East Asian code points and their locale.
type Options struct {
	EastAsianWidth   bool // if true, treats certain East Asian code points as 2 wide (e.g., Chinese, Japanese, Korean). Use if the locale is one of CJK.
	TreatEmojiAsWide bool // Only considered if EastAsianWidth. If true, treats emoji as wide (2 columns).
}

// TextWidth returns the text width of str for monospace fonts in terminals. If opts is nil, locale is assumed to be non-East Asian.
func TextWidth[T string | []byte](str T, opts *Options) int {
	cond := conditionFromOptions(opts)
	return textWidth(str, cond)
}

// Iterator iterates over grapheme clusters.
type Iterator[T string | []byte] struct {
	iter *graphemes.Iterator[T]
	cond *runewidth.Condition
}

// NewGraphemeIterator returns a new grapheme iterator for str (string or []byte). If opts is nil, locale is assumed to be non-East Asian.
func NewGraphemeIterator[T string | []byte](str T, opts *Options) *Iterator[T] {
	cond := conditionFromOptions(opts)
	return &Iterator[T]{
		iter: newGraphemeIterator(str),
		cond: cond,
	}
}

func (iter *Iterator[T]) Next() bool {
	return iter.iter.Next()
}

func (iter *Iterator[T]) Value() T {
	return iter.iter.Value()
}

// End returns the byte position after the current token in the original data.
func (iter *Iterator[T]) End() int {
	return iter.iter.End()
}

// TextWidth returns the text width of the current value for monospace fonts in terminals.
func (iter *Iterator[T]) TextWidth() int {
	return textWidth(iter.iter.Value(), iter.cond)
}

// Truncate returns the longest prefix of s that fits in width columns, without splitting a grapheme cluster. The second result is the prefix's width.
func Truncate(s string, width int, opts *Options) (string, int) {
	if width <= 0 {
		return "", 0
	}
	iter := NewGraphemeIterator(s, opts)
	end, used := 0, 0
	for iter.Next() {
		w := iter.TextWidth()
		if used+w > width {
			break
		}
		used += w
		end = iter.End()
	}
	return s[:end], used
}

// Fit returns s truncated to width columns and padded with spaces to exactly width columns. A grapheme that would straddle the edge is replaced by padding.
func Fit(s string, width int, opts *Options) string {
	prefix, used := Truncate(s, width, opts)
	if used >= width {
		return prefix
	}
	return prefix + strings.Repeat(" ", width-used)
}

// ExpandTabs replaces each tab in s with spaces up to the next multiple of tabWidth columns. Columns are counted in runes, which is exact for the ASCII indentation
// tabs usually appear in.
func ExpandTabs(s string, tabWidth int) string {
	if tabWidth <= 0 || !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func conditionFromOptions(opts *Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	if opts == nil {
		return cond
	}

	cond.EastAsianWidth = opts.EastAsianWidth
	if opts.EastAsianWidth && opts.TreatEmojiAsWide {
		cond.StrictEmojiNeutral = false
	}

	return cond
}

func newGraphemeIterator[T string | []byte](text T) *graphemes.Iterator[T] {
	switch v := any(text).(type) {
	case string:
		iter := graphemes.FromString(v)
		return any(&iter).(*graphemes.Iterator[T])
	case []byte:
		iter := graphemes.FromBytes(v)
		return any(&iter).(*graphemes.Iterator[T])
	default:
		panic("unsupported type")
	}
}

func textWidth[T string | []byte](text T, cond *runewidth.Condition) int {
	switch v := any(text).(type) {
	case string:
		return cond.StringWidth(v)
	case []byte:
		return cond.StringWidth(string(v))
	default:
		panic("unsupported type")
	}
}
