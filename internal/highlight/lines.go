package highlight

import "github.com/codalotl/sidebyside/internal/unidiff"

// Options tune Lines.
type Options struct {
	Style Style

	// MaxLineLength disables highlighting when either body is longer than this many bytes. 0 means no limit.
	MaxLineLength int

	// MatchWords enables the Changed flag on replaced words that are close variants of each other (see Span.Changed).
	MatchWords bool

	// MatchWordsThreshold is the maximum distance (see rematch.Distance) for MatchWords. Ignored unless MatchWords.
	MatchWordsThreshold float64
}

// Side is which column a Line belongs to.
type Side int

const (
	SideOld Side = iota
	SideNew
)

// Line is one deconstructed line of a highlighted pair.
type Line struct {
	Side   Side
	Prefix string // Marker column(s) stripped from the raw content.
	Body   string // Content without the prefix.

	// Spans are the intra-line diff shared by both Lines of a pair. Nil when highlighting was skipped (ex: the line is too long).
	Spans []Span
}

// Lines deconstructs the raw contents of a paired old and new line and highlights the differences between their bodies.
func Lines(oldRaw, newRaw string, isCombined bool, opts Options) (Line, Line) {
	oldPrefix, oldBody := unidiff.DeconstructLine(oldRaw, isCombined)
	newPrefix, newBody := unidiff.DeconstructLine(newRaw, isCombined)

	oldLine := Line{Side: SideOld, Prefix: oldPrefix, Body: oldBody}
	newLine := Line{Side: SideNew, Prefix: newPrefix, Body: newBody}

	if opts.MaxLineLength > 0 && (len(oldBody) > opts.MaxLineLength || len(newBody) > opts.MaxLineLength) {
		return oldLine, newLine
	}

	spans := Diff(oldBody, newBody, opts.Style)
	if opts.MatchWords {
		markChangedWords(spans, opts.MatchWordsThreshold)
	}
	oldLine.Spans = spans
	newLine.Spans = spans
	return oldLine, newLine
}

// Plain deconstructs a line that has no counterpart. The result has no spans.
func Plain(raw string, isCombined bool, side Side) Line {
	prefix, body := unidiff.DeconstructLine(raw, isCombined)
	return Line{Side: side, Prefix: prefix, Body: body}
}

// SegmentKind is the presentation of a Segment.
type SegmentKind int

const (
	SegmentPlain    SegmentKind = iota // unchanged text
	SegmentDeleted                     // text only in the old line
	SegmentInserted                    // text only in the new line
)

// Segment is a run of text of one kind within a single Line.
type Segment struct {
	Kind    SegmentKind
	Text    string
	Changed bool // see Span.Changed
}

// Segments returns l's body split into plain and highlighted runs for l's side. A Line without spans is a single plain segment (or none, if the body is empty).
// Concatenating the segment texts yields l.Body.
func (l Line) Segments() []Segment {
	if l.Spans == nil {
		if l.Body == "" {
			return nil
		}
		return []Segment{{Kind: SegmentPlain, Text: l.Body}}
	}

	var segs []Segment
	for _, sp := range l.Spans {
		var text string
		kind := SegmentPlain
		switch {
		case sp.Op == OpEqual:
			text = sp.OldText
		case l.Side == SideOld:
			text = sp.OldText
			kind = SegmentDeleted
		default:
			text = sp.NewText
			kind = SegmentInserted
		}
		if text == "" {
			continue
		}
		segs = append(segs, Segment{Kind: kind, Text: text, Changed: sp.Changed})
	}
	return segs
}

// Marker embeds highlight markers into text. Implementations typically escape text for their output format.
type Marker interface {
	Plain(text string) string
	Deleted(text string, changed bool) string
	Inserted(text string, changed bool) string
}

// MarkSegments concatenates segs, passing each through m.
func MarkSegments(segs []Segment, m Marker) string {
	var out []byte
	for _, seg := range segs {
		switch seg.Kind {
		case SegmentDeleted:
			out = append(out, m.Deleted(seg.Text, seg.Changed)...)
		case SegmentInserted:
			out = append(out, m.Inserted(seg.Text, seg.Changed)...)
		default:
			out = append(out, m.Plain(seg.Text)...)
		}
	}
	return string(out)
}

// BracketMarker marks deleted text as "[-text-]" and inserted text as "{+text+}" (the convention of `git diff --word-diff=plain`). It performs no escaping.
type BracketMarker struct{}

func (BracketMarker) Plain(text string) string { return text }

func (BracketMarker) Deleted(text string, changed bool) string { return "[-" + text + "-]" }

func (BracketMarker) Inserted(text string, changed bool) string { return "{+" + text + "+}" }
