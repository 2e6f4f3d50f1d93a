// Package htmlrender renders aligned side-by-side rows as a standalone HTML page.
//
// Use Styler and Marker when building the sidebyside.Engine so rows carry this package's CSS classes. Cell content is always rebuilt from Row.Segments and escaped,
// so rows from either output mode are safe to render.
package htmlrender

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/codalotl/sidebyside/internal/highlight"
	"github.com/codalotl/sidebyside/internal/sidebyside"
)

// CSS classes assigned by Styler.
const (
	ClassContext       = "sbs-cntx"
	ClassInsert        = "sbs-ins"
	ClassDelete        = "sbs-del"
	ClassInsertChanges = "sbs-ins sbs-change"
	ClassDeleteChanges = "sbs-del sbs-change"
	ClassInfo          = "sbs-info"
	ClassEmpty         = "sbs-cntx sbs-emptyplaceholder"

	// ClassChangedWord marks highlighted words that are close variants of their counterpart (see highlight.Span.Changed).
	ClassChangedWord = "sbs-change-word"
)

// EmptyDiffText is shown for a file without blocks.
const EmptyDiffText = "File without changes"

// NoNewlineText follows the last line of a file that has no trailing newline.
const NoNewlineText = `\ No newline at end of file`

// Styler maps row classes to this package's CSS classes.
var Styler sidebyside.Styler = sidebyside.StylerFunc(func(c sidebyside.Class) string {
	switch c {
	case sidebyside.ClassInsert:
		return ClassInsert
	case sidebyside.ClassDelete:
		return ClassDelete
	case sidebyside.ClassInsertChanges:
		return ClassInsertChanges
	case sidebyside.ClassDeleteChanges:
		return ClassDeleteChanges
	case sidebyside.ClassInfo:
		return ClassInfo
	case sidebyside.ClassEmpty:
		return ClassEmpty
	default:
		return ClassContext
	}
})

// Marker escapes text for HTML and wraps deleted and inserted text in <del> and <ins>.
type Marker struct{}

func (Marker) Plain(text string) string {
	return template.HTMLEscapeString(text)
}

func (Marker) Deleted(text string, changed bool) string {
	return wrap("del", text, changed)
}

func (Marker) Inserted(text string, changed bool) string {
	return wrap("ins", text, changed)
}

func wrap(tag, text string, changed bool) string {
	if changed {
		return "<" + tag + ` class="` + ClassChangedWord + `">` + template.HTMLEscapeString(text) + "</" + tag + ">"
	}
	return "<" + tag + ">" + template.HTMLEscapeString(text) + "</" + tag + ">"
}

// File is one file's aligned rows, ready for Render.
type File struct {
	Name  string
	Left  []sidebyside.Row
	Right []sidebyside.Row
}

type filePairs struct {
	Name string
	Rows []sidebyside.RowPair
}

//go:embed page.html.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Funcs(template.FuncMap{
	"number":  number,
	"content": content,
	"emptyDiffText": func() string {
		return EmptyDiffText
	},
	"noNewlineText": func() string {
		return NoNewlineText
	},
}).Parse(pageTemplate))

// Render writes an HTML page showing files side by side.
func Render(w io.Writer, title string, files []File) error {
	data := struct {
		Title string
		Files []filePairs
	}{Title: title}

	for _, f := range files {
		if len(f.Left) != len(f.Right) {
			return fmt.Errorf("file %q: %d left rows but %d right rows", f.Name, len(f.Left), len(f.Right))
		}
		fp := filePairs{Name: f.Name}
		for i := range f.Left {
			fp.Rows = append(fp.Rows, sidebyside.RowPair{Left: f.Left[i], Right: f.Right[i]})
		}
		data.Files = append(data.Files, fp)
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func number(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func content(r sidebyside.Row) template.HTML {
	return template.HTML(highlight.MarkSegments(r.Segments, Marker{}))
}
