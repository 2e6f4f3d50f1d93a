// Package termrender renders aligned side-by-side rows as fixed-width terminal columns styled with lipgloss.
package termrender

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/codalotl/sidebyside/internal/highlight"
	"github.com/codalotl/sidebyside/internal/q/uni"
	"github.com/codalotl/sidebyside/internal/sidebyside"
)

const (
	separator   = " │ "
	numberWidth = 5 // 4 digits and a space
	minWidth    = 2*(numberWidth+4) + 3

	noNewlineMarker = " \\ no newline"
)

// Options configure a Renderer.
type Options struct {
	Width    int  // Total width of both columns and the separator. Values below the minimum are raised to it.
	TabWidth int  // Tabs in content expand to this many columns. 0 means 4.
	Color    bool // If false, output is plain text.
	Uni      *uni.Options
}

// Styles are the lipgloss styles of each part of the output.
type Styles struct {
	Header        lipgloss.Style
	Context       lipgloss.Style
	Insert        lipgloss.Style
	Delete        lipgloss.Style
	InsertChanges lipgloss.Style
	DeleteChanges lipgloss.Style
	InsertedText  lipgloss.Style
	DeletedText   lipgloss.Style
	ChangedWord   lipgloss.Style
	Empty         lipgloss.Style
	Number        lipgloss.Style
	Separator     lipgloss.Style
	FileName      lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Context:       lipgloss.NewStyle(),
		Insert:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Delete:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		InsertChanges: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		DeleteChanges: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		InsertedText:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2")),
		DeletedText:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("1")),
		ChangedWord:   lipgloss.NewStyle().Underline(true),
		Empty:         lipgloss.NewStyle().Faint(true),
		Number:        lipgloss.NewStyle().Faint(true),
		Separator:     lipgloss.NewStyle().Faint(true),
		FileName:      lipgloss.NewStyle().Bold(true),
	}
}

// PlainStyles returns styles that add no escape sequences.
func PlainStyles() Styles {
	p := lipgloss.NewStyle()
	return Styles{
		Header:        p,
		Context:       p,
		Insert:        p,
		Delete:        p,
		InsertChanges: p,
		DeleteChanges: p,
		InsertedText:  p,
		DeletedText:   p,
		ChangedWord:   p,
		Empty:         p,
		Number:        p,
		Separator:     p,
		FileName:      p,
	}
}

// Row classes as returned by Styler. They index Styles.
const (
	tagContext       = "context"
	tagInsert        = "insert"
	tagDelete        = "delete"
	tagInsertChanges = "insert-changes"
	tagDeleteChanges = "delete-changes"
	tagInfo          = "info"
	tagEmpty         = "empty"
)

// Styler maps row classes to the tags Renderer looks styles up by.
var Styler sidebyside.Styler = sidebyside.StylerFunc(func(c sidebyside.Class) string {
	switch c {
	case sidebyside.ClassInsert:
		return tagInsert
	case sidebyside.ClassDelete:
		return tagDelete
	case sidebyside.ClassInsertChanges:
		return tagInsertChanges
	case sidebyside.ClassDeleteChanges:
		return tagDeleteChanges
	case sidebyside.ClassInfo:
		return tagInfo
	case sidebyside.ClassEmpty:
		return tagEmpty
	default:
		return tagContext
	}
})

// Renderer renders rows into columns of a fixed width.
type Renderer struct {
	opts     Options
	styles   Styles
	colWidth int
}

// New returns a Renderer.
func New(opts Options) *Renderer {
	if opts.Width < minWidth {
		opts.Width = minWidth
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	styles := PlainStyles()
	if opts.Color {
		styles = DefaultStyles()
	}
	return &Renderer{
		opts:     opts,
		styles:   styles,
		colWidth: (opts.Width - uni.TextWidth(separator, nil)) / 2,
	}
}

// ColumnWidth returns the width of one column.
func (r *Renderer) ColumnWidth() int {
	return r.colWidth
}

// RenderRow renders one row as a column exactly ColumnWidth wide (ignoring escape sequences). It has the signature of sidebyside.RenderFunc.
func (r *Renderer) RenderRow(row sidebyside.Row) string {
	switch row.Kind {
	case sidebyside.RowHeader:
		return r.styles.Header.Render(uni.Fit(r.expand(row.Content), r.colWidth, r.opts.Uni))
	case sidebyside.RowEmptyDiff:
		return r.styles.Header.Render(uni.Fit("File without changes", r.colWidth, r.opts.Uni))
	case sidebyside.RowContent:
		return r.contentRow(row)
	default:
		return r.styles.Empty.Render(strings.Repeat(" ", r.colWidth))
	}
}

func (r *Renderer) contentRow(row sidebyside.Row) string {
	line := r.lineStyle(row.Style)

	var b strings.Builder
	num := ""
	if row.Number > 0 {
		num = strconv.Itoa(row.Number)
	}
	b.WriteString(r.styles.Number.Render(fmt.Sprintf("%*s ", numberWidth-1, num)))

	remaining := r.colWidth - numberWidth
	prefix, used := uni.Truncate(row.Prefix, remaining, r.opts.Uni)
	b.WriteString(line.Render(prefix))
	remaining -= used

	for _, seg := range row.Segments {
		if remaining <= 0 {
			break
		}
		text, w := uni.Truncate(r.expand(seg.Text), remaining, r.opts.Uni)
		if text == "" {
			break // the next grapheme doesn't fit
		}
		remaining -= w
		b.WriteString(r.segmentStyle(line, seg).Render(text))
	}
	if row.NoNewline && remaining > 0 {
		text, w := uni.Truncate(noNewlineMarker, remaining, r.opts.Uni)
		remaining -= w
		b.WriteString(r.styles.Empty.Render(text))
	}
	if remaining > 0 {
		b.WriteString(line.Render(strings.Repeat(" ", remaining)))
	}
	return b.String()
}

func (r *Renderer) lineStyle(tag string) lipgloss.Style {
	switch tag {
	case tagInsert:
		return r.styles.Insert
	case tagDelete:
		return r.styles.Delete
	case tagInsertChanges:
		return r.styles.InsertChanges
	case tagDeleteChanges:
		return r.styles.DeleteChanges
	default:
		return r.styles.Context
	}
}

func (r *Renderer) segmentStyle(line lipgloss.Style, seg highlight.Segment) lipgloss.Style {
	var s lipgloss.Style
	switch seg.Kind {
	case highlight.SegmentDeleted:
		s = r.styles.DeletedText
	case highlight.SegmentInserted:
		s = r.styles.InsertedText
	default:
		return line
	}
	if seg.Changed {
		s = s.Inherit(r.styles.ChangedWord)
	}
	return s
}

func (r *Renderer) expand(s string) string {
	return uni.ExpandTabs(s, r.opts.TabWidth)
}

// Write writes a title line for name, then every row pair of s as one line: left column, separator, right column.
func (r *Renderer) Write(w io.Writer, name string, s *sidebyside.Stream) error {
	if name != "" {
		if _, err := fmt.Fprintln(w, r.styles.FileName.Render(name)); err != nil {
			return err
		}
	}
	sep := r.styles.Separator.Render(separator)
	for left, right := range s.Rendered() {
		if _, err := io.WriteString(w, left+sep+right+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Output renders every row pair of an already aligned out as one line, like Lines. Content rows are rendered from their Segments, so out should come from
// sidebyside.DescriptorAssembler.
func (r *Renderer) Output(out sidebyside.Output) []string {
	sep := r.styles.Separator.Render(separator)
	lines := make([]string, 0, len(out.Left))
	for i := range out.Left {
		lines = append(lines, r.RenderRow(out.Left[i])+sep+r.RenderRow(out.Right[i]))
	}
	return lines
}

// Lines renders every row pair of s as one line, like Write, without a title.
func (r *Renderer) Lines(s *sidebyside.Stream) []string {
	sep := r.styles.Separator.Render(separator)
	var lines []string
	for left, right := range s.Rendered() {
		lines = append(lines, left+sep+right)
	}
	return lines
}
