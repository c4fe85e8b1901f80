package reports

import (
	"fmt"
	"math"
	"sort"

	"github.com/2beens/fitassess/internal/assessment"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type styles struct {
	title  int
	header int
	label  int
}

func newStyles(f *excelize.File) (*styles, error) {
	s := &styles{}
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F5597"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	s.label, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}

	return s, nil
}

// sheetWriter appends rows to one sheet.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	styles *styles
	row    int
}

func newSheetWriter(f *excelize.File, sheet string, st *styles) (*sheetWriter, error) {
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return &sheetWriter{f: f, sheet: sheet, styles: st, row: 1}, nil
}

func (w *sheetWriter) write(style int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", w.sheet, w.row, err)
	}
	if style != 0 && len(values) > 0 {
		last, err := excelize.CoordinatesToCellName(len(values), w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, cell, last, style); err != nil {
			return fmt.Errorf("style %s row %d: %w", w.sheet, w.row, err)
		}
	}
	w.row++
	return nil
}

func (w *sheetWriter) title(text string) error {
	return w.write(w.styles.title, text)
}

func (w *sheetWriter) header(values ...any) error {
	return w.write(w.styles.header, values...)
}

func (w *sheetWriter) labelled(label string, values ...any) error {
	if err := w.write(0, append([]any{label}, values...)...); err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row-1)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, cell, cell, w.styles.label)
}

func (w *sheetWriter) skip() {
	w.row++
}

// finish drops the sheet every new workbook starts with and activates the first sheet.
func finish(f *excelize.File, first string) error {
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(first)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return nil
}

// cellValue keeps infinite boundaries readable in spreadsheets.
func cellValue(v float64) any {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	default:
		return v
	}
}

func bandValues(bands assessment.Bands) []any {
	out := make([]any, 0, len(bands))
	for _, v := range bands {
		out = append(out, cellValue(v))
	}
	return out
}

func sortedGenders[T any](m map[assessment.Gender]T) []assessment.Gender {
	out := make([]assessment.Gender, 0, len(m))
	for g := range m {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sortedBrackets orders age bracket labels by their lower bound.
func sortedBrackets[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for label := range m {
		out = append(out, label)
	}
	minAge := func(label string) int {
		b, err := assessment.ParseAgeBracket(label)
		if err != nil {
			return math.MaxInt
		}
		return b.Min
	}
	sort.Slice(out, func(i, j int) bool {
		mi, mj := minAge(out[i]), minAge(out[j])
		if mi != mj {
			return mi < mj
		}
		return out[i] < out[j]
	})
	return out
}
