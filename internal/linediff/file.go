package linediff

import (
	"fmt"

	"github.com/codalotl/sidebyside/internal/unidiff"
)

// File returns d as a unidiff.File named oldName/newName, with one Block per group of changes.
//
// contextSize controls how many unchanged lines are shown before and after each group of changes. Two change groups separated by at most 2*contextSize unchanged
// lines are merged into a single Block with the intervening lines shown as context. If d has no changes, the File has no Blocks.
func (d Diff) File(oldName, newName string, contextSize int) unidiff.File {
	if contextSize < 0 {
		contextSize = 0
	}
	f := unidiff.File{OldName: oldName, NewName: newName}

	// Line numbers (1-based) of the first line of each hunk.
	oldStarts := make([]int, len(d.Hunks))
	newStarts := make([]int, len(d.Hunks))
	oldPos, newPos := 1, 1
	for i, h := range d.Hunks {
		oldStarts[i], newStarts[i] = oldPos, newPos
		oldPos += len(splitPreserveEOL(h.OldText, defaultEOL))
		newPos += len(splitPreserveEOL(h.NewText, defaultEOL))
	}

	i := 0
	for i < len(d.Hunks) {
		if d.Hunks[i].Op == OpEqual {
			i++
			continue
		}

		// Pre-context from previous equal hunk tail.
		var pre []string
		if i > 0 {
			eq := d.Hunks[i-1].OldLines()
			pre = eq[len(eq)-min(contextSize, len(eq)):]
		}
		b := newBlockBuilder(oldStarts[i]-len(pre), newStarts[i]-len(pre))
		b.context(pre, false)
		b.change(d.Hunks[i])

		// Possibly include bridging equals and subsequent changes if the gap is small enough.
		j := i + 1
		for j < len(d.Hunks) {
			if d.Hunks[j].Op != OpEqual {
				b.change(d.Hunks[j])
				j++
				continue
			}
			eq, noEOL := splitLinesEOL(d.Hunks[j].OldText)
			if j+1 < len(d.Hunks) && d.Hunks[j+1].Op != OpEqual && len(eq) <= 2*contextSize {
				b.context(eq, false)
				b.change(d.Hunks[j+1])
				j += 2
				continue
			}
			// Otherwise, include head context and stop this block.
			head := eq[:min(contextSize, len(eq))]
			b.context(head, noEOL && len(head) == len(eq))
			break
		}
		i = j

		f.Blocks = append(f.Blocks, b.block())
	}
	return f
}

// blockBuilder accumulates the numbered lines of one Block.
type blockBuilder struct {
	oldStart, newStart int
	oldNext, newNext   int
	oldCount, newCount int
	lines              []unidiff.Line
}

func newBlockBuilder(oldStart, newStart int) *blockBuilder {
	return &blockBuilder{oldStart: oldStart, newStart: newStart, oldNext: oldStart, newNext: newStart}
}

// context appends lines as context. noEOL marks the last of them as the unterminated end of the file.
func (b *blockBuilder) context(lines []string, noEOL bool) {
	for i, ln := range lines {
		b.lines = append(b.lines, unidiff.Line{
			Type:      unidiff.LineContext,
			Content:   " " + ln,
			OldNumber: b.oldNext,
			NewNumber: b.newNext,
			NoNewline: noEOL && i == len(lines)-1,
		})
		b.oldNext++
		b.newNext++
		b.oldCount++
		b.newCount++
	}
}

// change appends h's old lines as deletions, then its new lines as insertions.
func (b *blockBuilder) change(h Hunk) {
	oldLines, oldNoEOL := splitLinesEOL(h.OldText)
	for i, ln := range oldLines {
		b.lines = append(b.lines, unidiff.Line{Type: unidiff.LineDelete, Content: "-" + ln, OldNumber: b.oldNext, NoNewline: oldNoEOL && i == len(oldLines)-1})
		b.oldNext++
		b.oldCount++
	}
	newLines, newNoEOL := splitLinesEOL(h.NewText)
	for i, ln := range newLines {
		b.lines = append(b.lines, unidiff.Line{Type: unidiff.LineInsert, Content: "+" + ln, NewNumber: b.newNext, NoNewline: newNoEOL && i == len(newLines)-1})
		b.newNext++
		b.newCount++
	}
}

// block returns the Block with a unified-diff header. As in `diff -u`, a side with no lines is reported as starting at the line before the change.
func (b *blockBuilder) block() unidiff.Block {
	oldHeaderStart, newHeaderStart := b.oldStart, b.newStart
	if b.oldCount == 0 {
		oldHeaderStart--
	}
	if b.newCount == 0 {
		newHeaderStart--
	}
	return unidiff.Block{
		Header:   fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldHeaderStart, b.oldCount, newHeaderStart, b.newCount),
		Lines:    b.lines,
		OldStart: oldHeaderStart,
		NewStart: newHeaderStart,
	}
}
