// Package document reads and writes the persisted explorer document: the
// list of lenses a user saved. It also renders lenses for the clipboard and
// stores documents in object storage.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/climatevision/explorer/internal/errors"
	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/pkg/types"
)

// Version is the only document version this package reads and writes.
const Version = 1

// Document is the saved state: an ordered list of lenses.
type Document struct {
	Lenses []lens.Lens
}

// Find returns the first lens with the given label.
func (d Document) Find(label string) (lens.Lens, bool) {
	for _, l := range d.Lenses {
		if l.Label() == label {
			return l, true
		}
	}
	return lens.Lens{}, false
}

type documentJSON struct {
	Version       *int              `json:"version"`
	InterestLists []json.RawMessage `json:"interestLists"`
}

type lensJSON struct {
	Label     string              `json:"label"`
	Kind      *string             `json:"kind,omitempty"`
	ShowGraph bool                `json:"showGraph"`
	Paths     [][]string          `json:"paths,omitempty"`
	Table     [][]json.RawMessage `json:"table,omitempty"`
}

type valueAtJSON struct {
	Run  *int     `json:"run"`
	Path []string `json:"path"`
}

// Decode parses a document. Any failure is a decode error whose context
// names the offending element, e.g. "interestLists[1].table[0][2]".
func Decode(data []byte) (Document, error) {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return Document{}, malformed("", "document must be an object", err)
	}
	if in.Version == nil {
		return Document{}, apperrors.NewDecodeError(apperrors.CodeUnknownVersion, "version",
			"document has no version", nil)
	}
	if *in.Version != Version {
		return Document{}, apperrors.NewDecodeError(apperrors.CodeUnknownVersion, "version",
			fmt.Sprintf("unsupported document version %d", *in.Version), nil)
	}

	doc := Document{Lenses: make([]lens.Lens, 0, len(in.InterestLists))}
	for i, raw := range in.InterestLists {
		l, err := decodeLens(fmt.Sprintf("interestLists[%d]", i), raw)
		if err != nil {
			return Document{}, err
		}
		doc.Lenses = append(doc.Lenses, l)
	}
	return doc, nil
}

func decodeLens(context string, raw json.RawMessage) (lens.Lens, error) {
	var in lensJSON
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return lens.Lens{}, malformed(context, "lens must be an object", nil)
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return lens.Lens{}, malformed(context, "lens must be an object", err)
	}

	kind := "table"
	if in.Kind != nil {
		kind = *in.Kind
	}

	switch kind {
	case "classic":
		paths := make([]types.Path, 0, len(in.Paths))
		for j, p := range in.Paths {
			if len(p) == 0 {
				return lens.Lens{}, malformed(fmt.Sprintf("%s.paths[%d]", context, j), "path must not be empty", nil)
			}
			paths = append(paths, types.NewPath(p...))
		}
		return lens.NewClassic(in.Label, paths, in.ShowGraph), nil

	case "table":
		rows := make([][]lens.CellContent, len(in.Table))
		for r, row := range in.Table {
			rows[r] = make([]lens.CellContent, len(row))
			for c, cell := range row {
				content, err := decodeCell(fmt.Sprintf("%s.table[%d][%d]", context, r, c), cell)
				if err != nil {
					return lens.Lens{}, err
				}
				rows[r][c] = content
			}
		}
		return lens.NewTable(in.Label, lens.GridFromRows(rows)).WithShowGraph(in.ShowGraph), nil

	default:
		return lens.Lens{}, apperrors.NewDecodeError(apperrors.CodeInvalidLensKind, context+".kind",
			fmt.Sprintf("unknown lens kind %q", kind), nil)
	}
}

// decodeCell accepts a label string, {"run": n, "path": [...]}, or a bare
// path array that refers to the first run.
func decodeCell(context string, raw json.RawMessage) (lens.CellContent, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return lens.CellContent{}, invalidCell(context, "empty cell", nil)
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return lens.CellContent{}, invalidCell(context, "invalid label", err)
		}
		return lens.Label(s), nil

	case '[':
		var path []string
		if err := json.Unmarshal(trimmed, &path); err != nil {
			return lens.CellContent{}, invalidCell(context, "path must be an array of strings", err)
		}
		if len(path) == 0 {
			return lens.CellContent{}, invalidCell(context, "path must not be empty", nil)
		}
		return lens.ValueAt(types.FirstRunID, types.NewPath(path...)), nil

	case '{':
		var v valueAtJSON
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return lens.CellContent{}, invalidCell(context, "value cell must have run and path", err)
		}
		if v.Run == nil || *v.Run < int(types.FirstRunID) {
			return lens.CellContent{}, invalidCell(context, "value cell needs a positive run id", nil)
		}
		if len(v.Path) == 0 {
			return lens.CellContent{}, invalidCell(context, "path must not be empty", nil)
		}
		return lens.ValueAt(types.RunID(*v.Run), types.NewPath(v.Path...)), nil

	default:
		return lens.CellContent{}, invalidCell(context, "cell must be a string, a path array or a value object", nil)
	}
}

func malformed(context, message string, cause error) error {
	return apperrors.NewDecodeError(apperrors.CodeMalformedDocument, context, message, cause)
}

func invalidCell(context, message string, cause error) error {
	return apperrors.NewDecodeError(apperrors.CodeInvalidCell, context, message, cause)
}

// Encode writes doc as a version 1 document. Cells are always written in
// the explicit {"run", "path"} form.
func Encode(doc Document) ([]byte, error) {
	out := struct {
		Version       int        `json:"version"`
		InterestLists []lensJSON `json:"interestLists"`
	}{Version: Version, InterestLists: make([]lensJSON, 0, len(doc.Lenses))}

	for _, l := range doc.Lenses {
		encoded, err := encodeLens(l)
		if err != nil {
			return nil, err
		}
		out.InterestLists = append(out.InterestLists, encoded)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode document", err)
	}
	return data, nil
}

func encodeLens(l lens.Lens) (lensJSON, error) {
	kind := l.Kind().String()
	out := lensJSON{Label: l.Label(), Kind: &kind, ShowGraph: l.ShowGraph()}

	if l.IsClassic() {
		out.Paths = make([][]string, 0, len(l.Paths()))
		for _, p := range l.Paths() {
			out.Paths = append(out.Paths, []string(p))
		}
		return out, nil
	}

	for _, row := range l.Grid().ToRows() {
		encoded := make([]json.RawMessage, 0, len(row))
		for _, c := range row {
			raw, err := encodeCell(c)
			if err != nil {
				return lensJSON{}, err
			}
			encoded = append(encoded, raw)
		}
		out.Table = append(out.Table, encoded)
	}
	if out.Table == nil {
		out.Table = [][]json.RawMessage{}
	}
	return out, nil
}

func encodeCell(c lens.CellContent) (json.RawMessage, error) {
	if text, ok := c.Text(); ok {
		return json.Marshal(text)
	}
	run, path, _ := c.Address()
	id := int(run)
	return json.Marshal(valueAtJSON{Run: &id, Path: []string(path)})
}
