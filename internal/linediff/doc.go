// Package linediff computes the line diff between an "old" and a "new" text and shapes it into unified-diff blocks.
//
// Representation: A Diff holds the complete OldText/NewText and an ordered slice of hunks that, when concatenated, reconstruct both sides. Each hunk has an Op:
//   - OpEqual: unchanged lines (OldText == NewText)
//   - OpInsert: lines present only in the new side (OldText == "")
//   - OpDelete: lines present only in the old side (NewText == "")
//   - OpReplace: lines changed on both sides
//
// Hunk texts include the trailing '\n' of each line, if it was present in the input.
//
// Getting blocks: Diff.File turns a Diff into a unidiff.File with a chosen amount of context, numbered like `diff -u` output. That File can be handed to the
// side-by-side engine or written out with unidiff.Format:
//
//	d := linediff.DiffText(oldText, newText)
//	f := d.File("old.txt", "new.txt", 3)
//
// Newlines: This package treats '\n' as the line separator. A missing final newline is not recorded in the File.
package linediff
