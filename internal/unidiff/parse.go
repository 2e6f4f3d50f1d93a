package unidiff

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedHunkHeader is returned (wrapped) by Parse when an "@@" line can't be parsed.
var ErrMalformedHunkHeader = errors.New("malformed hunk header")

// ErrUnsupportedCombined is returned (wrapped) by Parse for combined diffs with more than two parents.
var ErrUnsupportedCombined = errors.New("combined diff with more than two parents")

var (
	hunkHeaderRe     = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
	combinedHeaderRe = regexp.MustCompile(`^@@@ -(\d+)(?:,(\d+))? -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@@`)
)

// Parse parses unified or combined diff text into Files, in input order.
//
// Text before the first file header is ignored. A hunk header without preceding file headers starts an unnamed File (ex: the output of `diff -u a b` piped through
// a tool that stripped headers). Files without hunks (renames, mode changes, binary files) are returned with no Blocks.
func Parse(text string) ([]File, error) {
	p := parser{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.line(strings.TrimSuffix(scanner.Text(), "\r")); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read diff: %w", err)
	}
	p.flushFile()
	return p.files, nil
}

type parser struct {
	files []File
	file  *File
	block *Block

	oldLine int // next old line number
	newLine int // next new line number

	// Lines still expected in the current hunk, per the header counts. When both are 0, the hunk is over.
	oldRemaining int
	newRemaining int
}

func (p *parser) inHunk() bool {
	return p.block != nil && (p.oldRemaining > 0 || p.newRemaining > 0)
}

func (p *parser) line(s string) error {
	if p.inHunk() {
		if s == "" || strings.ContainsRune(" +-\\", rune(s[0])) {
			p.hunkLine(s)
			return nil
		}
		// Header counts overstated the hunk (ex: a truncated diff); s starts something new.
		p.oldRemaining, p.newRemaining = 0, 0
	}

	switch {
	case strings.HasPrefix(s, "diff --git "):
		p.startFile(false)
		p.file.OldName, p.file.NewName = gitNames(strings.TrimPrefix(s, "diff --git "))
	case strings.HasPrefix(s, "diff --cc "), strings.HasPrefix(s, "diff --combined "):
		p.startFile(true)
		name := strings.TrimPrefix(strings.TrimPrefix(s, "diff --cc "), "diff --combined ")
		p.file.OldName, p.file.NewName = name, name
	case strings.HasPrefix(s, "--- "):
		if p.file == nil || len(p.file.Blocks) > 0 || p.block != nil {
			p.startFile(false)
		}
		p.file.OldName = headerName(strings.TrimPrefix(s, "--- "), "a/")
	case strings.HasPrefix(s, "+++ "):
		if p.file == nil {
			p.startFile(false)
		}
		p.file.NewName = headerName(strings.TrimPrefix(s, "+++ "), "b/")
	case strings.HasPrefix(s, "@@@@"):
		return fmt.Errorf("%w: %q", ErrUnsupportedCombined, s)
	case strings.HasPrefix(s, "@@@"):
		return p.startBlock(s, true)
	case strings.HasPrefix(s, "@@"):
		return p.startBlock(s, false)
	case strings.HasPrefix(s, `\`):
		// "\ No newline at end of file" trailing the last hunk line.
		p.markNoNewline()
	}
	return nil
}

func (p *parser) startFile(combined bool) {
	p.flushFile()
	p.file = &File{IsCombined: combined}
}

func (p *parser) flushBlock() {
	if p.block != nil && p.file != nil {
		p.file.Blocks = append(p.file.Blocks, *p.block)
	}
	p.block = nil
}

func (p *parser) flushFile() {
	p.flushBlock()
	if p.file != nil {
		p.files = append(p.files, *p.file)
	}
	p.file = nil
}

func (p *parser) startBlock(header string, combined bool) error {
	if p.file == nil {
		p.startFile(combined)
	}
	p.flushBlock()

	var oldStart, oldCount, newStart, newCount int
	if combined {
		m := combinedHeaderRe.FindStringSubmatch(header)
		if m == nil {
			return fmt.Errorf("%w: %q", ErrMalformedHunkHeader, header)
		}
		p.file.IsCombined = true
		oldStart, oldCount = atoiCount(m[1], m[2])
		newStart, newCount = atoiCount(m[5], m[6])
	} else {
		m := hunkHeaderRe.FindStringSubmatch(header)
		if m == nil {
			return fmt.Errorf("%w: %q", ErrMalformedHunkHeader, header)
		}
		oldStart, oldCount = atoiCount(m[1], m[2])
		newStart, newCount = atoiCount(m[3], m[4])
	}

	p.block = &Block{Header: header, OldStart: oldStart, NewStart: newStart}
	p.oldLine, p.newLine = oldStart, newStart
	p.oldRemaining, p.newRemaining = oldCount, newCount

	// "@@ -0,0 +1 @@": an empty side starts at line 0 but the first real line is 1.
	if oldCount == 0 {
		p.oldLine = oldStart + 1
	}
	if newCount == 0 {
		p.newLine = newStart + 1
	}
	return nil
}

func (p *parser) hunkLine(s string) {
	if strings.HasPrefix(s, `\`) {
		p.markNoNewline()
		return
	}

	n := PrefixLength(p.file.IsCombined)
	markers := s
	if len(markers) > n {
		markers = markers[:n]
	}

	lineType := LineContext
	switch {
	case strings.Contains(markers, "+"):
		lineType = LineInsert
	case strings.Contains(markers, "-"):
		lineType = LineDelete
	}

	ln := Line{Type: lineType, Content: s}
	switch lineType {
	case LineContext:
		ln.OldNumber, ln.NewNumber = p.oldLine, p.newLine
		p.oldLine++
		p.newLine++
		p.oldRemaining--
		p.newRemaining--
	case LineInsert:
		ln.NewNumber = p.newLine
		p.newLine++
		p.newRemaining--
	case LineDelete:
		ln.OldNumber = p.oldLine
		p.oldLine++
		p.oldRemaining--
	}
	if p.oldRemaining < 0 {
		p.oldRemaining = 0
	}
	if p.newRemaining < 0 {
		p.newRemaining = 0
	}
	p.block.Lines = append(p.block.Lines, ln)
}

func (p *parser) markNoNewline() {
	if p.block != nil && len(p.block.Lines) > 0 {
		p.block.Lines[len(p.block.Lines)-1].NoNewline = true
	}
}

// atoiCount parses a hunk range "start[,count]". A missing count means 1.
func atoiCount(start, count string) (int, int) {
	s, _ := strconv.Atoi(start)
	if count == "" {
		return s, 1
	}
	c, _ := strconv.Atoi(count)
	return s, c
}

// gitNames splits the "a/x b/y" tail of a "diff --git" line. Paths containing " b/" are ambiguous; the last occurrence wins.
func gitNames(rest string) (string, string) {
	idx := strings.LastIndex(rest, " b/")
	if idx < 0 {
		return "", ""
	}
	return strings.TrimPrefix(rest[:idx], "a/"), rest[idx+len(" b/"):]
}

func headerName(s string, gitPrefix string) string {
	if tab := strings.IndexByte(s, '\t'); tab >= 0 {
		s = s[:tab] // diff -u appends a timestamp after a tab
	}
	if s == "/dev/null" {
		return ""
	}
	return strings.TrimPrefix(s, gitPrefix)
}
