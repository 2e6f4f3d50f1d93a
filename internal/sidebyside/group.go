package sidebyside

import "github.com/codalotl/sidebyside/internal/unidiff"

// LineGroup is a run of a block's lines. Either Context is non-empty (a context run), or Old and/or New are (a modified group: deletions then insertions, with no
// context between them). A LineGroup with all three empty is malformed.
type LineGroup struct {
	Context []unidiff.Line
	Old     []unidiff.Line
	New     []unidiff.Line
}

func (g LineGroup) isContext() bool {
	return len(g.Context) > 0
}

func (g LineGroup) empty() bool {
	return len(g.Context) == 0 && len(g.Old) == 0 && len(g.New) == 0
}

// Group splits lines into maximal LineGroups, in order. Consecutive context lines form one group. A run of deletions followed directly by a run of insertions forms
// one modified group; a deletion that follows an insertion starts a new group. Concatenating the lines of all groups reproduces lines. Empty input yields no groups.
func Group(lines []unidiff.Line) []LineGroup {
	var groups []LineGroup
	for _, line := range lines {
		groups = fold(groups, line)
	}
	return groups
}

// fold appends line to the last group of groups, or starts a new group if line can't extend it.
func fold(groups []LineGroup, line unidiff.Line) []LineGroup {
	n := len(groups)
	var last *LineGroup
	if n > 0 {
		last = &groups[n-1]
	}

	switch line.Type {
	case unidiff.LineContext:
		if last != nil && last.isContext() {
			last.Context = append(last.Context, line)
			return groups
		}
		return append(groups, LineGroup{Context: []unidiff.Line{line}})
	case unidiff.LineDelete:
		if last != nil && !last.isContext() && len(last.New) == 0 {
			last.Old = append(last.Old, line)
			return groups
		}
		return append(groups, LineGroup{Old: []unidiff.Line{line}})
	default:
		if last != nil && !last.isContext() {
			last.New = append(last.New, line)
			return groups
		}
		return append(groups, LineGroup{New: []unidiff.Line{line}})
	}
}
