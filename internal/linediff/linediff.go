package linediff

import (
	"fmt"
	"strings"

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

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Diff is a line diff from old text to new text.
//
// Invariants:
//   - concat(Hunks.OldText) == OldText
//   - concat(Hunks.NewText) == NewText
//   - No two adjacent hunks are both OpEqual, and no two adjacent hunks are both non-equal.
type Diff struct {
	OldText string // Entire original text.
	NewText string // Entire revised text.
	Hunks   []Hunk // Ordered hunks that cover the whole diff and reconstruct OldText/NewText.
}

// Hunk is a contiguous group of whole lines.
type Hunk struct {
	Op      Op     // Operation for this hunk (OpEqual, OpInsert, OpDelete, or OpReplace).
	OldText string // Old lines in this hunk; empty for inserts.
	NewText string // New lines in this hunk; empty for deletes.
}

// OldLines returns h's old lines without their EOLs ("\n" or "\r\n").
func (h Hunk) OldLines() []string {
	return splitLines(h.OldText)
}

// NewLines returns h's new lines without their EOLs.
func (h Hunk) NewLines() []string {
	return splitLines(h.NewText)
}

// HasChanges reports whether d has any non-equal hunk.
func (d Diff) HasChanges() bool {
	for _, h := range d.Hunks {
		if h.Op != OpEqual {
			return true
		}
	}
	return false
}

// defaultEOL is the EOL ('\n').
const defaultEOL = "\n"

// DiffText diffs oldText to newText line by line, returning a Diff. Deleted and inserted lines that are adjacent are coalesced into a single OpReplace hunk.
func DiffText(oldText, newText string) Diff {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	lineDiffs := dmp.DiffMainRunes(rOld, rNew, false)
	lineDiffs = dmp.DiffCleanupMerge(lineDiffs)

	// Decode rune-string back to the original lines using the lineArray mapping.
	decode := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			idx := int(r)
			if idx >= 0 && idx < len(lineArray) {
				b.WriteString(lineArray[idx])
			}
		}
		return b.String()
	}

	var hunks []Hunk
	var dels, ins strings.Builder

	flush := func() {
		if dels.Len() == 0 && ins.Len() == 0 {
			return
		}
		var op Op
		switch {
		case dels.Len() > 0 && ins.Len() > 0:
			op = OpReplace
		case dels.Len() > 0:
			op = OpDelete
		default:
			op = OpInsert
		}
		hunks = append(hunks, Hunk{Op: op, OldText: dels.String(), NewText: ins.String()})
		dels.Reset()
		ins.Reset()
	}

	for _, d := range lineDiffs {
		text := decode(d.Text)
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			hunks = append(hunks, Hunk{Op: OpEqual, OldText: text, NewText: text})
		case diffmatchpatch.DiffDelete:
			dels.WriteString(text)
		case diffmatchpatch.DiffInsert:
			ins.WriteString(text)
		}
	}
	flush()

	diff := Diff{OldText: oldText, NewText: newText, Hunks: hunks}

	if err := diff.validate(); err != nil {
		panic(fmt.Errorf("DiffText: validate failed with %v", err))
	}

	return diff
}

// splitPreserveEOL splits text by eol and preserves the eol on each line, except possibly the last.
func splitPreserveEOL(text, eol string) []string {
	if text == "" {
		return nil
	}
	if eol == "" {
		eol = defaultEOL
	}
	var lines []string
	for {
		idx := strings.Index(text, eol)
		if idx == -1 {
			if text != "" {
				lines = append(lines, text)
			}
			break
		}
		lines = append(lines, text[:idx+len(eol)])
		text = text[idx+len(eol):]
		if text == "" {
			break
		}
	}
	return lines
}

// trimEOL removes a trailing eol from a line if present.
func trimEOL(line, eol string) (string, bool) {
	if eol != "" && strings.HasSuffix(line, eol) {
		return line[:len(line)-len(eol)], true
	}
	return line, false
}

// splitLines splits text into lines without their EOLs.
func splitLines(text string) []string {
	lines, _ := splitLinesEOL(text)
	return lines
}

// splitLinesEOL splits text into lines without their EOLs ("\n" or "\r\n"). noEOL reports whether the last line has no "\n".
func splitLinesEOL(text string) (lines []string, noEOL bool) {
	lines = splitPreserveEOL(text, defaultEOL)
	for i, ln := range lines {
		ln, ok := trimEOL(ln, defaultEOL)
		if i == len(lines)-1 {
			noEOL = !ok
		}
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines, noEOL
}
