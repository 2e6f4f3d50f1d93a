package htmlrender

import (
	"bytes"
	"strings"
	"testing"

	"github.com/codalotl/sidebyside/internal/highlight"
	"github.com/codalotl/sidebyside/internal/sidebyside"
	"github.com/codalotl/sidebyside/internal/unidiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarker(t *testing.T) {
	var m Marker
	assert.Equal(t, "a &lt; b", m.Plain("a < b"))
	assert.Equal(t, "<del>&lt;b&gt;</del>", m.Deleted("<b>", false))
	assert.Equal(t, `<ins class="sbs-change-word">colour</ins>`, m.Inserted("colour", true))
}

func TestStyler(t *testing.T) {
	assert.Equal(t, ClassContext, Styler.Style(sidebyside.ClassContext))
	assert.Equal(t, ClassInsert, Styler.Style(sidebyside.ClassInsert))
	assert.Equal(t, ClassDeleteChanges, Styler.Style(sidebyside.ClassDeleteChanges))
	assert.Equal(t, ClassInfo, Styler.Style(sidebyside.ClassInfo))
	assert.Equal(t, ClassEmpty, Styler.Style(sidebyside.ClassEmpty))
}

func renderRows(t *testing.T, left, right sidebyside.Row) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "x", []File{{Name: "a", Left: []sidebyside.Row{left}, Right: []sidebyside.Row{right}}}))
	return buf.String()
}

func TestRender_Cells(t *testing.T) {
	row := sidebyside.Row{
		Kind:   sidebyside.RowContent,
		Style:  ClassDelete,
		Prefix: "-",
		Number: 3,
		Segments: []highlight.Segment{
			{Kind: highlight.SegmentPlain, Text: "x < "},
			{Kind: highlight.SegmentDeleted, Text: "1"},
		},
	}
	html := renderRows(t, row, sidebyside.Row{Kind: sidebyside.RowEmpty, Style: "sbs-cntx"})
	assert.Contains(t, html, `<tr><td class="sbs-num sbs-del">3</td><td class="sbs-del"><span class="sbs-prefix">-</span><span class="sbs-code">x &lt; <del>1</del></span></td><td class="sbs-sep"></td><td class="sbs-num sbs-cntx"></td><td class="sbs-cntx"></td></tr>`)
	assert.NotContains(t, html, NoNewlineText)

	html = renderRows(t, sidebyside.Row{Kind: sidebyside.RowEmptyDiff, Style: ClassInfo}, sidebyside.Row{Kind: sidebyside.RowEmpty})
	assert.Contains(t, html, `<td class="sbs-info">`+EmptyDiffText+`</td>`)
}

func TestRender_NoNewlineAtEndOfFile(t *testing.T) {
	row := sidebyside.Row{
		Kind:      sidebyside.RowContent,
		Style:     ClassDelete,
		Prefix:    "-",
		Number:    2,
		NoNewline: true,
		Segments:  []highlight.Segment{{Kind: highlight.SegmentPlain, Text: "b"}},
	}
	html := renderRows(t, row, sidebyside.Row{Kind: sidebyside.RowEmpty})
	assert.Contains(t, html, `<span class="sbs-code">b</span><span class="sbs-no-newline">\ No newline at end of file</span></td>`)
}

func TestRender(t *testing.T) {
	e, err := sidebyside.New(sidebyside.DefaultConfig(), Styler, Marker{})
	require.NoError(t, err)

	file := unidiff.File{
		NewName: "main.go",
		Blocks: []unidiff.Block{{
			Header: "@@ -1,2 +1,2 @@ func <T>()",
			Lines: []unidiff.Line{
				{Type: unidiff.LineContext, Content: " if a < b {", OldNumber: 1, NewNumber: 1},
				{Type: unidiff.LineDelete, Content: "-\treturn nil", OldNumber: 2},
				{Type: unidiff.LineInsert, Content: "+\treturn err", NewNumber: 2},
			},
		}},
	}
	out := e.AlignAndRender(file)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "diff", []File{{Name: file.Name(), Left: out.Left, Right: out.Right}}))
	html := buf.String()

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>diff</title>")
	assert.Contains(t, html, "main.go")
	assert.Contains(t, html, "func &lt;T&gt;()")
	assert.Contains(t, html, "if a &lt; b {")
	assert.Contains(t, html, "<del>nil</del>")
	assert.Contains(t, html, "<ins>err</ins>")
	assert.Equal(t, 3, strings.Count(html, "<tr>"))
}

func TestRender_MismatchedColumns(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "x", []File{{Name: "a", Left: []sidebyside.Row{{}}}})
	assert.Error(t, err)
}
