package sidebyside

import (
	"fmt"

	"github.com/codalotl/sidebyside/internal/simplelogger"
)

// DefectKind is a category of recoverable input defect.
type DefectKind int

const (
	// MalformedGroup: a LineGroup with no lines reached the assembler. It is skipped.
	MalformedGroup DefectKind = iota

	// InconsistentLineNumbers: a line's type disagrees with its line numbers (ex: a deletion with a new line number). The numbers present are used as-is.
	InconsistentLineNumbers
)

func (k DefectKind) String() string {
	switch k {
	case MalformedGroup:
		return "MalformedGroup"
	case InconsistentLineNumbers:
		return "InconsistentLineNumbers"
	default:
		return fmt.Sprintf("DefectKind(%d)", int(k))
	}
}

// Defect is one reported input defect.
type Defect struct {
	Kind   DefectKind
	Block  int // Index of the block in the file.
	Detail string
}

func (d Defect) String() string {
	return fmt.Sprintf("%v: block %d: %s", d.Kind, d.Block, d.Detail)
}

// Diagnostics collects Defects while rows are produced. The zero value is ready to use.
type Diagnostics struct {
	Defects []Defect
}

func (d *Diagnostics) report(kind DefectKind, block int, format string, args ...any) {
	defect := Defect{Kind: kind, Block: block, Detail: fmt.Sprintf(format, args...)}
	simplelogger.Defect(kind.String(), "block %d: %s", block, defect.Detail)
	if d != nil {
		d.Defects = append(d.Defects, defect)
	}
}
