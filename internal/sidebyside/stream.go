package sidebyside

import (
	"iter"

	"github.com/codalotl/sidebyside/internal/unidiff"
)

// RenderFunc renders a single row descriptor to output text.
type RenderFunc func(r Row) string

// Stream is the lazy form of an aligned file: row descriptors computed on demand, plus the function that renders them.
//
// A Stream records the defects of its current range, so it must not be ranged over from multiple goroutines at once. Call AlignAndStream once per goroutine instead.
type Stream struct {
	rows   iter.Seq[RowPair]
	render RenderFunc
	diag   *Diagnostics
}

// AlignAndStream returns a Stream of file's rows. Nothing is aligned until the Stream is ranged over. A nil render renders a row as its Content.
func (e *Engine) AlignAndStream(file unidiff.File, render RenderFunc) *Stream {
	if render == nil {
		render = func(r Row) string { return r.Content }
	}
	diag := &Diagnostics{}
	return &Stream{rows: e.Rows(file, diag), render: render, diag: diag}
}

// Rows returns the row descriptors. Each range over the result aligns the file again and resets Diagnostics.
func (s *Stream) Rows() iter.Seq[RowPair] {
	return func(yield func(RowPair) bool) {
		s.diag.Defects = nil
		for p := range s.rows {
			if !yield(p) {
				return
			}
		}
	}
}

// Render renders r with the Stream's RenderFunc.
func (s *Stream) Render(r Row) string {
	return s.render(r)
}

// Rendered returns each (left, right) row pair rendered with Render.
func (s *Stream) Rendered() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for p := range s.Rows() {
			if !yield(s.Render(p.Left), s.Render(p.Right)) {
				return
			}
		}
	}
}

// Diagnostics returns the defects found by the most recent range over Rows (or Rendered), up to the point it stopped.
func (s *Stream) Diagnostics() []Defect {
	return s.diag.Defects
}
