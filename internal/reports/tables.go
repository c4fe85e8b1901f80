package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/2beens/fitassess/internal/assessment"

	"github.com/xuri/excelize/v2"
)

// WriteReferenceTables writes the normative tables as an xlsx workbook with
// one sheet per metric and a sheet of test units.
func WriteReferenceTables(w io.Writer, data assessment.ReferenceTableData) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	for _, sheet := range []struct {
		name  string
		write func(*sheetWriter) error
	}{
		{"BMI", func(sw *sheetWriter) error { return writeBMISheet(sw, data.BMI) }},
		{"WHR", func(sw *sheetWriter) error { return writeGenderBands(sw, assessment.MetricWHR, data.WHR) }},
		{"BodyFat", func(sw *sheetWriter) error {
			return writeBracketedBands(sw, assessment.MetricBodyFat, data.BodyFat)
		}},
		{"ExplosivePower", func(sw *sheetWriter) error {
			return writeBracketedBands(sw, assessment.MetricExplosivePower, data.ExplosivePower)
		}},
		{"PushUp", func(sw *sheetWriter) error {
			return writeBracketedBands(sw, assessment.MetricPushUp, data.PushUp)
		}},
		{"Squat", func(sw *sheetWriter) error {
			return writeBracketedBands(sw, assessment.MetricSquat, data.Squat)
		}},
		{"Plank", func(sw *sheetWriter) error { return writeGenderBands(sw, assessment.MetricPlank, data.Plank) }},
		{"OLS", func(sw *sheetWriter) error { return writeOLSSheet(sw, data.OLS) }},
		{"ToeTouch", func(sw *sheetWriter) error { return writeToeTouchSheet(sw, data.ToeTouch) }},
		{"Units", func(sw *sheetWriter) error { return writeUnitsSheet(sw, data.Units) }},
	} {
		sw, err := newSheetWriter(f, sheet.name, st)
		if err != nil {
			return err
		}
		if err := sheet.write(sw); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet.name, err)
		}
	}

	if err := finish(f, "BMI"); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func metricTitle(sw *sheetWriter, metric assessment.Metric) error {
	title := metric.String()
	if unit := metric.Unit(); unit != "" {
		title = fmt.Sprintf("%s (%s)", title, unit)
	}
	if err := sw.title(title); err != nil {
		return err
	}
	labels := assessment.LabelsFor(metric)
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.String()
	}
	if err := sw.labelled("Labels", strings.Join(names, ", ")); err != nil {
		return err
	}
	sw.skip()
	return nil
}

func boundaryHeader(prefix []any, n int) []any {
	out := append([]any(nil), prefix...)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("B%d", i))
	}
	return out
}

func maxBands[K comparable](rows map[K]assessment.Bands) int {
	n := 0
	for _, b := range rows {
		n = max(n, len(b))
	}
	return n
}

func writeBMISheet(sw *sheetWriter, bands []assessment.BMIBand) error {
	if err := metricTitle(sw, assessment.MetricBMI); err != nil {
		return err
	}
	if err := sw.header("Below", "Label"); err != nil {
		return err
	}
	for _, b := range bands {
		if err := sw.write(0, b.Below, b.Label.String()); err != nil {
			return err
		}
	}
	return sw.write(0, "∞", assessment.LabelObese.String())
}

func writeGenderBands(sw *sheetWriter, metric assessment.Metric, rows map[assessment.Gender]assessment.Bands) error {
	if err := metricTitle(sw, metric); err != nil {
		return err
	}
	if err := sw.header(boundaryHeader([]any{"Gender"}, maxBands(rows))...); err != nil {
		return err
	}
	for _, g := range sortedGenders(rows) {
		if err := sw.write(0, append([]any{g.String()}, bandValues(rows[g])...)...); err != nil {
			return err
		}
	}
	return nil
}

func writeBracketedBands(sw *sheetWriter, metric assessment.Metric, rows map[assessment.Gender]map[string]assessment.Bands) error {
	if err := metricTitle(sw, metric); err != nil {
		return err
	}
	n := 0
	for _, byAge := range rows {
		n = max(n, maxBands(byAge))
	}
	if err := sw.header(boundaryHeader([]any{"Gender", "Age"}, n)...); err != nil {
		return err
	}
	for _, g := range sortedGenders(rows) {
		for _, bracket := range sortedBrackets(rows[g]) {
			values := append([]any{g.String(), bracket}, bandValues(rows[g][bracket])...)
			if err := sw.write(0, values...); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeOLSSheet(sw *sheetWriter, rows map[assessment.Gender]map[string]assessment.StanceThresholds) error {
	if err := metricTitle(sw, assessment.MetricOLS); err != nil {
		return err
	}
	if err := sw.header("Gender", "Age", "Eyes open", "Eyes closed"); err != nil {
		return err
	}
	for _, g := range sortedGenders(rows) {
		for _, bracket := range sortedBrackets(rows[g]) {
			th := rows[g][bracket]
			if err := sw.write(0, g.String(), bracket, th.Open, th.Closed); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeToeTouchSheet(sw *sheetWriter, rows map[string]assessment.Bands) error {
	if err := metricTitle(sw, assessment.MetricToeTouch); err != nil {
		return err
	}
	if err := sw.header(boundaryHeader([]any{"Age"}, maxBands(rows))...); err != nil {
		return err
	}
	for _, bracket := range sortedBrackets(rows) {
		if err := sw.write(0, append([]any{bracket}, bandValues(rows[bracket])...)...); err != nil {
			return err
		}
	}
	return nil
}

func writeUnitsSheet(sw *sheetWriter, units map[assessment.Metric]string) error {
	if err := sw.title("Test units"); err != nil {
		return err
	}
	sw.skip()
	if err := sw.header("Metric", "Unit"); err != nil {
		return err
	}
	for _, m := range assessment.Metrics {
		unit, ok := units[m]
		if !ok {
			continue
		}
		if err := sw.write(0, m.String(), unit); err != nil {
			return err
		}
	}
	return nil
}
