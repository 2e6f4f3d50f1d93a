// Package mdfence extracts diffs from the fenced code blocks of a Markdown document (ex: a PR description or review notes with ```diff blocks).
package mdfence

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrUnterminatedFence is returned for a document whose last ``` fence is never closed.
var ErrUnterminatedFence = errors.New("mdfence: unterminated ``` fence")

// Fence is one diff code block.
type Fence struct {
	Info string // Full info string (ex: "diff title=a.go").
	Code string
	Line int // 1-based line in the source where the code starts.
}

// DiffFences returns the fenced code blocks of src whose language is "diff" or "patch", in document order.
func DiffFences(src []byte) ([]Fence, error) {
	if err := checkFences(src); err != nil {
		return nil, err
	}
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	if root == nil {
		return nil, errors.New("mdfence: parse markdown: nil document")
	}

	var fences []Fence
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		info := ""
		if fcb.Info != nil {
			info = string(fcb.Info.Value(src))
		}
		if !isDiffLanguage(info) {
			return ast.WalkSkipChildren, nil
		}
		code, start := fenceContent(src, fcb)
		line := 1
		if start >= 0 {
			line = 1 + bytes.Count(src[:start], []byte("\n"))
		}
		fences = append(fences, Fence{Info: info, Code: code, Line: line})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return fences, nil
}

// Join concatenates the code of fences into one diff text, ending each with a newline.
func Join(fences []Fence) string {
	var b strings.Builder
	for _, f := range fences {
		b.WriteString(f.Code)
		if f.Code != "" && !strings.HasSuffix(f.Code, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// checkFences rejects an unterminated ``` fence, which goldmark would run to EOF.
func checkFences(src []byte) error {
	open := 0 // backticks of the open fence, 0 if none
	for _, line := range bytes.Split(src, []byte("\n")) {
		trim := bytes.TrimLeft(line, " \t")
		n := 0
		for n < len(trim) && trim[n] == '`' {
			n++
		}
		if n < 3 {
			continue
		}
		switch {
		case open == 0:
			open = n
		case n >= open:
			open = 0
		}
	}
	if open != 0 {
		return ErrUnterminatedFence
	}
	return nil
}

func isDiffLanguage(info string) bool {
	lang, _, _ := strings.Cut(strings.TrimSpace(info), " ")
	lang, _, _ = strings.Cut(lang, "{")
	switch strings.ToLower(lang) {
	case "diff", "patch", "udiff":
		return true
	default:
		return false
	}
}

func fenceContent(src []byte, fcb *ast.FencedCodeBlock) (string, int) {
	lines := fcb.Lines()
	if lines == nil || lines.Len() == 0 {
		return "", -1
	}
	start := -1
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if seg.Start < 0 || seg.Stop < seg.Start || seg.Stop > len(src) {
			continue
		}
		if start == -1 {
			start = seg.Start
		}
		buf.Write(seg.Value(src))
	}
	return buf.String(), start
}
