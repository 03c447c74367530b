package document

import (
	"encoding/json"
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/climatevision/explorer/internal/cells"
	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/internal/valueset"
	"github.com/climatevision/explorer/pkg/types"
)

// Formatter renders values for the clipboard with a fixed locale.
type Formatter struct {
	printer           *message.Printer
	maxFractionDigits int
}

// NewFormatter returns a formatter for the given BCP 47 locale.
func NewFormatter(locale string, maxFractionDigits int) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("document: invalid locale %q: %w", locale, err)
	}
	return &Formatter{
		printer:           message.NewPrinter(tag),
		maxFractionDigits: maxFractionDigits,
	}, nil
}

// Number formats x with locale separators and at most the configured
// number of fraction digits.
func (f *Formatter) Number(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprint(x)
	}
	return f.printer.Sprint(number.Decimal(x, number.MaxFractionDigits(f.maxFractionDigits)))
}

// Value formats v. Null becomes the empty string, text passes through.
func (f *Formatter) Value(v types.Value) string {
	switch v.Kind() {
	case types.KindNumber:
		x, _ := v.AsNumber()
		return f.Number(x)
	case types.KindText:
		s, _ := v.AsText()
		return s
	default:
		return ""
	}
}

// Export renders l as rows of strings. A table lens keeps its grid, with
// labels verbatim and value cells resolved through vs. A classic lens gets a
// header row of run ids and one row per path headed by its short label.
func Export(l lens.Lens, vs valueset.ValueSet, f *Formatter) [][]string {
	if l.IsTable() {
		return exportTable(l.Grid(), vs, f)
	}
	return exportClassic(l, vs, f)
}

func exportTable(grid lens.Grid, vs valueset.ValueSet, f *Formatter) [][]string {
	rendered := cells.Map(grid, func(c lens.CellContent) string {
		if text, ok := c.Text(); ok {
			return text
		}
		run, path, _ := c.Address()
		return f.Value(vs.Value(run, path))
	})
	return rendered.ToRows()
}

func exportClassic(l lens.Lens, vs valueset.ValueSet, f *Formatter) [][]string {
	runs := vs.Runs()
	header := make([]string, 0, len(runs)+1)
	header = append(header, "")
	for _, r := range runs {
		header = append(header, r.String())
	}

	rows := [][]string{header}
	for _, p := range l.Paths() {
		row := make([]string, 0, len(runs)+1)
		row = append(row, l.ShortLabel(p))
		for _, r := range runs {
			row = append(row, f.Value(vs.Value(r, p)))
		}
		rows = append(rows, row)
	}
	return rows
}

// ClipboardJSON encodes exported rows as a 2-D JSON array of strings.
func ClipboardJSON(rows [][]string) ([]byte, error) {
	if rows == nil {
		rows = [][]string{}
	}
	return json.Marshal(rows)
}
