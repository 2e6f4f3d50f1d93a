package sidebyside

import (
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/codalotl/sidebyside/internal/highlight"
	"github.com/codalotl/sidebyside/internal/rematch"
	"github.com/codalotl/sidebyside/internal/unidiff"
)

// Engine aligns diff files into rows.
type Engine struct {
	cfg    Config
	styler Styler
	marker highlight.Marker
}

// New returns an Engine. styler supplies Row.Style (a nil styler leaves it empty). marker embeds highlights into Row.Content in AlignAndRender (nil means
// highlight.BracketMarker).
func New(cfg Config, styler Styler, marker highlight.Marker) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if styler == nil {
		styler = StylerFunc(func(Class) string { return "" })
	}
	if marker == nil {
		marker = highlight.BracketMarker{}
	}
	return &Engine{cfg: cfg, styler: styler, marker: marker}, nil
}

// Config returns e's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Rows returns the row descriptors of file, in display order. Rows are computed as the sequence is consumed; stopping early skips the remaining work. Defects found
// along the way are appended to diag, which may be nil.
func (e *Engine) Rows(file unidiff.File, diag *Diagnostics) iter.Seq[RowPair] {
	return func(yield func(RowPair) bool) {
		if len(file.Blocks) == 0 {
			yield(RowPair{Left: e.placeholder(RowEmptyDiff, ClassInfo), Right: e.placeholder(RowEmpty, ClassEmpty)})
			return
		}

		a := &aligner{
			e:          e,
			isCombined: file.IsCombined,
			diag:       diag,
			matcher:    e.newMatcher(file.IsCombined),
		}
		for i, block := range file.Blocks {
			a.block = i
			header := RowPair{
				Left:  Row{Kind: RowHeader, Class: ClassInfo, Style: e.styler.Style(ClassInfo), Content: block.Header},
				Right: Row{Kind: RowHeader, Class: ClassInfo, Style: e.styler.Style(ClassInfo)},
			}
			if !yield(header) {
				return
			}
			if !a.groupRows(Group(block.Lines), yield) {
				return
			}
		}
	}
}

// Align runs file through the Assembler a. Output.Diagnostics holds the defects found while aligning.
func (e *Engine) Align(file unidiff.File, a Assembler) Output {
	var diag Diagnostics
	out := a.Assemble(e.Rows(file, &diag))
	out.Diagnostics = diag.Defects
	return out
}

// AlignAndRender aligns file eagerly. Content rows carry their body with highlights embedded by e's Marker.
func (e *Engine) AlignAndRender(file unidiff.File) Output {
	return e.Align(file, MarkupAssembler{Marker: e.marker})
}

func (e *Engine) newMatcher(isCombined bool) *rematch.Matcher[unidiff.Line] {
	body := func(l unidiff.Line) string {
		_, b := unidiff.DeconstructLine(l.Content, isCombined)
		return b
	}
	return rematch.NewMatcher(rematch.NewDistanceFunc(body), e.cfg.NoMatchThreshold)
}

// shouldMatch reports whether g is small enough to be matched.
func (e *Engine) shouldMatch(g LineGroup) bool {
	if e.cfg.Matching == MatchingNone {
		return false
	}
	if len(g.Old)*len(g.New) >= e.cfg.MatchingMaxComparisons {
		return false
	}
	longest := 0
	for _, lines := range [][]unidiff.Line{g.Old, g.New} {
		for _, l := range lines {
			longest = max(longest, utf8.RuneCountInString(l.Content))
		}
	}
	return longest < e.cfg.MaxLineSizeInBlockForComparison
}

func (e *Engine) placeholder(kind RowKind, class Class) Row {
	return Row{Kind: kind, Class: class, Style: e.styler.Style(class)}
}

// aligner produces the rows of one file.
type aligner struct {
	e          *Engine
	isCombined bool
	block      int
	diag       *Diagnostics
	matcher    *rematch.Matcher[unidiff.Line]
}

// groupRows yields the rows of groups. It returns false if yield did.
func (a *aligner) groupRows(groups []LineGroup, yield func(RowPair) bool) bool {
	for i, g := range groups {
		switch {
		case g.empty():
			a.diag.report(MalformedGroup, a.block, "group %d has no lines", i)
		case g.isContext():
			for _, line := range g.Context {
				if !yield(a.contextRow(line)) {
					return false
				}
			}
		default:
			for _, p := range a.pairs(g) {
				if !a.pairRows(p, yield) {
					return false
				}
			}
		}
	}
	return true
}

func (a *aligner) pairs(g LineGroup) []rematch.Pair[unidiff.Line] {
	if len(g.Old) == 0 || len(g.New) == 0 || !a.e.shouldMatch(g) {
		return []rematch.Pair[unidiff.Line]{{Old: g.Old, New: g.New}}
	}
	return a.matcher.Match(g.Old, g.New)
}

func (a *aligner) contextRow(line unidiff.Line) RowPair {
	a.check(line)
	l := highlight.Plain(line.Content, a.isCombined, highlight.SideOld)
	left := a.lineRow(line, l, ClassContext, true)
	right := left
	right.Number = number(line, false)
	return RowPair{Left: left, Right: right}
}

// pairRows yields max(len(p.Old), len(p.New)) rows, facing p.Old[i] with p.New[i] and padding the shorter side with placeholders.
func (a *aligner) pairRows(p rematch.Pair[unidiff.Line], yield func(RowPair) bool) bool {
	n := max(len(p.Old), len(p.New))
	for i := 0; i < n; i++ {
		row := RowPair{Left: a.e.placeholder(RowEmpty, ClassEmpty), Right: a.e.placeholder(RowEmpty, ClassEmpty)}
		switch {
		case i < len(p.Old) && i < len(p.New):
			oldLine, newLine := p.Old[i], p.New[i]
			a.check(oldLine)
			a.check(newLine)
			ol, nl := highlight.Lines(oldLine.Content, newLine.Content, a.isCombined, a.e.cfg.highlightOptions())
			row.Left = a.lineRow(oldLine, ol, ClassDeleteChanges, true)
			row.Right = a.lineRow(newLine, nl, ClassInsertChanges, false)
		case i < len(p.Old):
			oldLine := p.Old[i]
			a.check(oldLine)
			row.Left = a.lineRow(oldLine, highlight.Plain(oldLine.Content, a.isCombined, highlight.SideOld), ClassOf(oldLine.Type), true)
		default:
			newLine := p.New[i]
			a.check(newLine)
			row.Right = a.lineRow(newLine, highlight.Plain(newLine.Content, a.isCombined, highlight.SideNew), ClassOf(newLine.Type), false)
		}
		if !yield(row) {
			return false
		}
	}
	return true
}

func (a *aligner) lineRow(line unidiff.Line, l highlight.Line, class Class, old bool) Row {
	return Row{
		Kind:      RowContent,
		Class:     class,
		Style:     a.e.styler.Style(class),
		Prefix:    l.Prefix,
		Content:   l.Body,
		Segments:  l.Segments(),
		Number:    number(line, old),
		NoNewline: line.NoNewline,
	}
}

func (a *aligner) check(line unidiff.Line) {
	if !line.Consistent() {
		a.diag.report(InconsistentLineNumbers, a.block, "%v line %q has old number %d and new number %d", line.Type, line.Content, line.OldNumber, line.NewNumber)
	}
}

// number returns line's number in the old (or new) file, or 0 if it has none there.
func number(line unidiff.Line, old bool) int {
	if old {
		return line.OldNumber
	}
	return line.NewNumber
}
