package sidebyside

import (
	"iter"

	"github.com/codalotl/sidebyside/internal/highlight"
)

// Output is a fully realized side-by-side view. Left and Right have equal length.
type Output struct {
	Left        []Row
	Right       []Row
	Diagnostics []Defect
}

// Assembler turns a row sequence into an Output.
type Assembler interface {
	Assemble(rows iter.Seq[RowPair]) Output
}

// DescriptorAssembler collects rows unchanged.
type DescriptorAssembler struct{}

func (DescriptorAssembler) Assemble(rows iter.Seq[RowPair]) Output {
	var out Output
	for p := range rows {
		out.Left = append(out.Left, p.Left)
		out.Right = append(out.Right, p.Right)
	}
	return out
}

// MarkupAssembler collects rows, replacing the Content of each content row with its segments passed through Marker.
type MarkupAssembler struct {
	Marker highlight.Marker
}

func (a MarkupAssembler) Assemble(rows iter.Seq[RowPair]) Output {
	var out Output
	for p := range rows {
		out.Left = append(out.Left, a.mark(p.Left))
		out.Right = append(out.Right, a.mark(p.Right))
	}
	return out
}

func (a MarkupAssembler) mark(r Row) Row {
	if r.Kind == RowContent {
		r.Content = highlight.MarkSegments(r.Segments, a.Marker)
	}
	return r
}
