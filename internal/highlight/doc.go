// Package highlight computes intra-line highlights for a pair of corresponding lines: which parts of the old line were removed and which parts of the new line were
// added.
//
// Representation: Diff returns an ordered slice of Spans that, when concatenated, reconstruct both bodies. Each Span has an Op:
//   - OpEqual: unchanged text (OldText == NewText)
//   - OpDelete: text present only in the old body (NewText == "")
//   - OpInsert: text present only in the new body (OldText == "")
//   - OpReplace: text changed on both sides
//
// Invariants:
//   - concat(spans.OldText) == old body
//   - concat(spans.NewText) == new body
//   - identical bodies produce no non-equal spans
//
// Granularity: StyleWord tokenizes with Unicode word boundaries (UAX #29), so a renamed identifier is highlighted whole; StyleChar diffs grapheme clusters. Runs
// of changes separated only by whitespace are merged into one span. Consumers should rely on the invariants above rather than any particular chunking.
//
// Rendering: Lines returns the two deconstructed Lines (marker prefix, body, spans). Line.Segments gives the per-side view (plain, deleted, inserted text); Line.Mark
// embeds highlight markers using a Marker (ex: HTML <del>/<ins> or ANSI colors, provided by renderers).
package highlight
