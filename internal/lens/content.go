package lens

import (
	"github.com/climatevision/explorer/pkg/types"
)

// ContentKind discriminates the variants of a CellContent.
type ContentKind uint8

const (
	ContentLabel ContentKind = iota
	ContentValueAt
)

// CellContent is the payload of one table cell: either free text or the
// address of a value inside a run. The zero CellContent is the empty label.
type CellContent struct {
	kind ContentKind
	text string
	run  types.RunID
	path types.Path
}

// Label returns a text cell.
func Label(text string) CellContent {
	return CellContent{kind: ContentLabel, text: text}
}

// ValueAt returns a cell that shows the value at path in run.
func ValueAt(run types.RunID, path types.Path) CellContent {
	return CellContent{kind: ContentValueAt, run: run, path: types.NewPath(path...)}
}

// Kind returns the variant of c.
func (c CellContent) Kind() ContentKind { return c.kind }

// Text returns the label text if c is a label.
func (c CellContent) Text() (string, bool) {
	if c.kind != ContentLabel {
		return "", false
	}
	return c.text, true
}

// Address returns the run and path if c is a value reference.
func (c CellContent) Address() (types.RunID, types.Path, bool) {
	if c.kind != ContentValueAt {
		return 0, nil, false
	}
	return c.run, c.path, true
}

// IsEmpty reports whether c is the empty label.
func (c CellContent) IsEmpty() bool {
	return c.kind == ContentLabel && c.text == ""
}

// Equal compares two cells structurally.
func (c CellContent) Equal(other CellContent) bool {
	if c.kind != other.kind {
		return false
	}
	if c.kind == ContentLabel {
		return c.text == other.text
	}
	return c.run == other.run && c.path.Equal(other.path)
}

func (c CellContent) String() string {
	if c.kind == ContentLabel {
		return c.text
	}
	return c.run.String() + ":" + c.path.String()
}

func emptyCell() CellContent { return Label("") }
