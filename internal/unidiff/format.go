package unidiff

import (
	"strings"
)

// Format renders files as unified diff text that Parse reads back. Blocks are written with their Header and raw line Contents; "/dev/null" stands in for an empty
// name. A Line with NoNewline is followed by a "\ No newline at end of file" line.
func Format(files ...File) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString("--- ")
		b.WriteString(formatName(f.OldName, "a/"))
		b.WriteString("\n+++ ")
		b.WriteString(formatName(f.NewName, "b/"))
		b.WriteString("\n")
		for _, block := range f.Blocks {
			b.WriteString(block.Header)
			b.WriteString("\n")
			for _, l := range block.Lines {
				b.WriteString(l.Content)
				b.WriteString("\n")
				if l.NoNewline {
					b.WriteString(noNewlineMarker + "\n")
				}
			}
		}
	}
	return b.String()
}

const noNewlineMarker = `\ No newline at end of file`

func formatName(name, gitPrefix string) string {
	if name == "" {
		return "/dev/null"
	}
	return gitPrefix + name
}
