package sidebyside

import (
	"fmt"

	"github.com/codalotl/sidebyside/internal/highlight"
	"github.com/codalotl/sidebyside/internal/unidiff"
)

// RowKind is the kind of a Row.
type RowKind int

const (
	RowHeader    RowKind = iota // Block header. The right column's header row has empty Content.
	RowEmpty                    // Placeholder facing a line that has no counterpart.
	RowEmptyDiff                // Placeholder for a file without blocks.
	RowContent                  // A diff line.
)

func (k RowKind) String() string {
	switch k {
	case RowHeader:
		return "header"
	case RowEmpty:
		return "empty"
	case RowEmptyDiff:
		return "empty-diff"
	case RowContent:
		return "content"
	default:
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
}

// Class is a presentation category of a row. A Styler maps it to the class tag stored in Row.Style.
type Class int

const (
	ClassContext Class = iota
	ClassInsert
	ClassDelete
	ClassInsertChanges // An inserted line shown next to its matched deleted line.
	ClassDeleteChanges // A deleted line shown next to its matched inserted line.
	ClassInfo          // Headers and the empty-diff placeholder.
	ClassEmpty         // Placeholder rows.
)

// Styler maps a Class to a presentation class tag (ex: a CSS class name).
type Styler interface {
	Style(c Class) string
}

// StylerFunc adapts a function to a Styler.
type StylerFunc func(c Class) string

func (f StylerFunc) Style(c Class) string { return f(c) }

// ClassOf returns the Class of an unpaired line of type t.
func ClassOf(t unidiff.LineType) Class {
	switch t {
	case unidiff.LineInsert:
		return ClassInsert
	case unidiff.LineDelete:
		return ClassDelete
	default:
		return ClassContext
	}
}

// Row is one row of one column.
//
// For RowHeader, Content is the block header. For RowContent, Prefix is the marker column(s) of the line and Content is its body: in eager output (AlignAndRender),
// Content carries the markup of the engine's highlight.Marker; in row descriptors (Rows, AlignAndStream), Content is the plain body and Segments holds the highlight
// structure.
type Row struct {
	Kind      RowKind
	Class     Class
	Style     string // Class tag from the Styler.
	Prefix    string
	Content   string
	Segments  []highlight.Segment
	Number    int  // Line number in this column's file; 0 if absent.
	NoNewline bool // The line ends its file without a trailing newline.
}

// RowPair is a left (old) row and the right (new) row displayed next to it.
type RowPair struct {
	Left  Row
	Right Row
}
