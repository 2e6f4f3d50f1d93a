// Package sidebyside aligns the lines of a parsed diff into two parallel columns of rows: left is the old file, right is the new file.
//
// Pipeline, per block (hunk):
//   - Group splits the block's lines into context runs and modified groups (deletions immediately followed by insertions).
//   - Each modified group is partitioned by a rematch.Matcher into (old, new) pairs, so that similar lines face each other.
//   - Lines that face a counterpart are highlighted with highlight.Lines; lines without one are shown plain.
//   - Rows are emitted in pairs; a side without a line gets an empty placeholder row.
//
// Invariants:
//   - len(Output.Left) == len(Output.Right), and Left[i] is displayed next to Right[i].
//   - A context line produces identical left and right rows except for Number.
//   - Every block starts with a header row on the left and an empty header row on the right.
//   - A file without blocks produces a single RowEmptyDiff row on the left and a RowEmpty row on the right.
//
// Output modes:
//   - Engine.AlignAndRender realizes every row eagerly, with highlight markers embedded in Row.Content by a highlight.Marker.
//   - Engine.AlignAndStream returns a Stream of row descriptors (structured Segments, no markup) and renders each row on demand with a caller-supplied RenderFunc.
//
// Engine.Rows is the underlying row sequence; any Assembler can turn it into an Output.
//
// Defects in the input (see DefectKind) never abort alignment. They are collected as Diagnostics and written to simplelogger.
//
// An Engine holds only its configuration. It is safe to use from multiple goroutines. A Stream is not.
package sidebyside
