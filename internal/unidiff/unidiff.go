// Package unidiff models a parsed unified (or combined) diff: files made of blocks (hunks) made of lines.
//
// A Line keeps its raw Content, including the leading marker column(s) ("+", "-", " " for a plain diff; two columns for a combined diff of a merge with two parents).
// DeconstructLine splits that raw content into the marker prefix and the body.
//
// A "\ No newline at end of file" marker sets NoNewline on the line before it.
//
// Line numbers are 1-based. A zero OldNumber or NewNumber means "absent":
//   - LineContext has both numbers.
//   - LineInsert has only NewNumber.
//   - LineDelete has only OldNumber.
//
// Parse builds Files from diff text (git diff, diff -u, git diff --cc).
package unidiff

import "fmt"

// LineType is the category of a diff line.
type LineType int

const (
	LineContext LineType = iota
	LineInsert
	LineDelete
)

func (t LineType) String() string {
	switch t {
	case LineContext:
		return "context"
	case LineInsert:
		return "insert"
	case LineDelete:
		return "delete"
	default:
		return fmt.Sprintf("LineType(%d)", int(t))
	}
}

// Line is one line of a hunk.
type Line struct {
	Type      LineType
	Content   string // Raw content, including marker prefix.
	OldNumber int    // 0 if the line does not exist in the old file.
	NewNumber int    // 0 if the line does not exist in the new file.

	// NoNewline marks the last line of a file that has no trailing newline (the diff's "\ No newline at end of file").
	NoNewline bool
}

// Consistent reports whether l's present number fields agree with its Type.
func (l Line) Consistent() bool {
	switch l.Type {
	case LineContext:
		return l.OldNumber > 0 && l.NewNumber > 0
	case LineInsert:
		return l.OldNumber == 0 && l.NewNumber > 0
	case LineDelete:
		return l.OldNumber > 0 && l.NewNumber == 0
	default:
		return false
	}
}

// Block is a hunk: a header (ex: "@@ -1,3 +1,4 @@ func main() {") and its lines in order.
type Block struct {
	Header string
	Lines  []Line

	OldStart int // Starting old line number from the header.
	NewStart int // Starting new line number from the header.
}

// File is the diff of a single file.
type File struct {
	OldName string // "" for /dev/null or unknown.
	NewName string // "" for /dev/null or unknown.

	// IsCombined is true for combined diffs (multiple parents, one marker column per parent).
	IsCombined bool

	Blocks []Block
}

// Name returns a display name for f: NewName, falling back to OldName.
func (f File) Name() string {
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}
