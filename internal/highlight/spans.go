package highlight

import (
	"fmt"
	"strings"

	"github.com/codalotl/sidebyside/internal/rematch"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is an operation from old text to new text.
type Op int

// Operations from old text to new text.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

// Span is a diff within a line.
type Span struct {
	Op      Op     // Operation performed by this span (OpEqual, OpInsert, OpDelete, or OpReplace).
	OldText string // Substring from the old body; empty for inserts.
	NewText string // Substring from the new body; empty for deletes.

	// Changed marks an OpReplace span whose old and new text are close variants of the same word (ex: "color" -> "colour"). Only set when word matching is enabled.
	Changed bool
}

// Style selects the token granularity of Diff.
type Style int

const (
	StyleWord Style = iota // Unicode word boundaries; whitespace runs are tokens.
	StyleChar              // Grapheme clusters.
)

func (s Style) String() string {
	switch s {
	case StyleWord:
		return "word"
	case StyleChar:
		return "char"
	default:
		return "unknown"
	}
}

// ParseStyle parses "word" or "char".
func ParseStyle(s string) (Style, error) {
	switch s {
	case "word":
		return StyleWord, nil
	case "char":
		return StyleChar, nil
	default:
		return StyleWord, fmt.Errorf("unknown diff style %q (want word or char)", s)
	}
}

// Diff diffs oldBody to newBody at the granularity of style. Bodies must not contain newlines.
func Diff(oldBody, newBody string, style Style) []Span {
	if oldBody == newBody {
		if oldBody == "" {
			return nil
		}
		return []Span{{Op: OpEqual, OldText: oldBody, NewText: newBody}}
	}

	oldTokens := Tokenize(oldBody, style)
	newTokens := Tokenize(newBody, style)

	enc := newTokenEncoder()
	rOld := enc.encode(oldTokens)
	rNew := enc.encode(newTokens)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	spans := diffsToSpans(diffs, enc.decode)
	return normalizeSpans(spans)
}

// markChangedWords sets Changed on replace spans whose two sides are single words within threshold distance of each other.
func markChangedWords(spans []Span, threshold float64) {
	for i := range spans {
		sp := &spans[i]
		if sp.Op != OpReplace {
			continue
		}
		if strings.ContainsFunc(sp.OldText+sp.NewText, isSpace) {
			continue
		}
		if rematch.Distance(sp.OldText, sp.NewText) < threshold {
			sp.Changed = true
		}
	}
}

// tokenEncoder maps each distinct token to a rune so token sequences can be diffed with diffmatchpatch's rune API.
type tokenEncoder struct {
	tokens []string
	index  map[string]rune
	next   rune
}

func newTokenEncoder() *tokenEncoder {
	return &tokenEncoder{index: make(map[string]rune), next: 1}
}

func (e *tokenEncoder) encode(tokens []string) []rune {
	out := make([]rune, len(tokens))
	for i, tok := range tokens {
		r, ok := e.index[tok]
		if !ok {
			r = e.next
			e.next++
			if e.next == 0xD800 {
				e.next = 0xE000 // Surrogates don't survive a round trip through string.
			}
			e.index[tok] = r
			e.tokens = append(e.tokens, tok)
		}
		out[i] = r
	}
	return out
}

func (e *tokenEncoder) decode(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(e.tokens[e.slot(r)])
	}
	return b.String()
}

func (e *tokenEncoder) slot(r rune) int {
	if r >= 0xE000 {
		return int(r) - 1 - (0xE000 - 0xD800)
	}
	return int(r) - 1
}

// diffsToSpans converts diffmatchpatch diffs to Spans, decoding token runes and coalescing adjacent equals.
func diffsToSpans(diffs []diffmatchpatch.Diff, decode func(string) string) []Span {
	var spans []Span
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		text := decode(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if len(spans) > 0 && spans[len(spans)-1].Op == OpEqual {
				spans[len(spans)-1].OldText += text
				spans[len(spans)-1].NewText += text
				continue
			}
			spans = append(spans, Span{Op: OpEqual, OldText: text, NewText: text})
		case diffmatchpatch.DiffDelete:
			spans = append(spans, Span{Op: OpDelete, OldText: text})
		case diffmatchpatch.DiffInsert:
			spans = append(spans, Span{Op: OpInsert, NewText: text})
		}
	}
	return spans
}

// normalizeSpans collapses every run of non-equal spans into a single span, then merges whitespace-only equals sandwiched between two changes.
func normalizeSpans(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		last := len(out) - 1
		if s.Op != OpEqual && last >= 0 && out[last].Op != OpEqual {
			out[last] = combine(out[last], s)
			continue
		}
		out = append(out, s)
	}

	// [change][whitespace][change] -> [change]
	var merged []Span
	for i := 0; i < len(out); i++ {
		s := out[i]
		last := len(merged) - 1
		if s.Op == OpEqual && last >= 0 && merged[last].Op != OpEqual && i+1 < len(out) && out[i+1].Op != OpEqual && isBlank(s.OldText) {
			merged[last] = combine(combine(merged[last], s), out[i+1])
			i++
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// combine concatenates two adjacent spans into one non-equal span.
func combine(a, b Span) Span {
	oldText := a.OldText + b.OldText
	newText := a.NewText + b.NewText
	var op Op
	switch {
	case oldText != "" && newText != "":
		op = OpReplace
	case oldText != "":
		op = OpDelete
	default:
		op = OpInsert
	}
	return Span{Op: op, OldText: oldText, NewText: newText}
}

func isBlank(s string) bool {
	return s != "" && strings.TrimFunc(s, isSpace) == ""
}
