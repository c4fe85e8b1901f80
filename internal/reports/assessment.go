package reports

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/2beens/fitassess/internal/assessment"
	"github.com/2beens/fitassess/internal/charts"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Assessment"
	chartsSheet  = "Charts"
)

var ErrNoResult = errors.New("no assessment result")

// WriteAssessment writes one assessment result as an xlsx workbook: a summary
// sheet with client data, metrics and labels, and a sheet with both charts.
func WriteAssessment(w io.Writer, result *assessment.Result) error {
	if result == nil {
		return ErrNoResult
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	sw, err := newSheetWriter(f, summarySheet, st)
	if err != nil {
		return err
	}
	if err := writeSummary(sw, result); err != nil {
		return fmt.Errorf("sheet %s: %w", summarySheet, err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "D", 16); err != nil {
		return err
	}

	if _, err := f.NewSheet(chartsSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", chartsSheet, err)
	}
	if err := addChart(f, "A1", result.Charts.BMIChart); err != nil {
		return fmt.Errorf("bmi chart: %w", err)
	}
	if err := addChart(f, "A22", result.Charts.RampChart); err != nil {
		return fmt.Errorf("ramp chart: %w", err)
	}

	if err := finish(f, summarySheet); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(sw *sheetWriter, r *assessment.Result) error {
	name := strings.TrimSpace(r.Client.FirstName + " " + r.Client.LastName)
	if name == "" {
		name = "Fitness assessment"
	}
	if err := sw.title(name); err != nil {
		return err
	}
	if err := sw.labelled("Gender", r.Gender.String()); err != nil {
		return err
	}
	if err := sw.labelled("Age", r.Age); err != nil {
		return err
	}
	for _, vital := range []struct {
		label string
		value int
	}{
		{"Resting HR", r.Client.RestingHR},
		{"Systolic BP", r.Client.SystolicBP},
		{"Diastolic BP", r.Client.DiastolicBP},
	} {
		if vital.value == 0 {
			continue
		}
		if err := sw.labelled(vital.label, vital.value); err != nil {
			return err
		}
	}
	sw.skip()

	if err := sw.header("Metric", "Value", "Unit", "Classification"); err != nil {
		return err
	}
	calc, cls := r.Calculations, r.Classifications
	for _, row := range []struct {
		metric assessment.Metric
		value  float64
		label  *assessment.Label
	}{
		{assessment.MetricBMI, calc.BMI, cls.BMI},
		{assessment.MetricWHR, calc.WHR, cls.WHR},
		{assessment.MetricBodyFat, calc.BodyFat, cls.BodyFat},
		{assessment.MetricExplosivePower, calc.ExplosivePower, cls.ExplosivePower},
	} {
		if err := sw.write(0, row.metric.String(), row.value, row.metric.Unit(), labelText(row.label)); err != nil {
			return err
		}
	}
	for _, row := range []struct {
		name  string
		label *assessment.Label
	}{
		{"PushUps", cls.PushUps},
		{"Squats", cls.Squats},
		{"Plank", cls.Plank},
		{"ToeTouch", cls.ToeTouch},
		{"OverallBalance", cls.OverallBalance},
	} {
		if err := sw.write(0, row.name, "", "", labelText(row.label)); err != nil {
			return err
		}
	}
	sw.skip()

	if err := sw.header("One-leg stance", "Right", "Left"); err != nil {
		return err
	}
	if err := sw.write(0, "Eyes open", labelText(r.Balance.OpenRight), labelText(r.Balance.OpenLeft)); err != nil {
		return err
	}
	if err := sw.write(0, "Eyes closed", labelText(r.Balance.ClosedRight), labelText(r.Balance.ClosedLeft)); err != nil {
		return err
	}
	sw.skip()

	if err := sw.header("Circumference", "cm"); err != nil {
		return err
	}
	c := r.Circumferences
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"Chest", c.ChestCm},
		{"Waist", c.WaistCm},
		{"Hip", c.HipCm},
		{"Arm left", c.ArmLeftCm},
		{"Arm right", c.ArmRightCm},
		{"Thigh left", c.ThighLeftCm},
		{"Thigh right", c.ThighRightCm},
	} {
		if err := sw.write(0, row.name, row.value); err != nil {
			return err
		}
	}
	return nil
}

func labelText(l *assessment.Label) string {
	if l == nil {
		return "n/a"
	}
	return l.String()
}

func addChart(f *excelize.File, cell, chart string) error {
	if chart == "" {
		return nil
	}
	raw, err := charts.DecodePNG(chart)
	if err != nil {
		return err
	}
	return f.AddPictureFromBytes(chartsSheet, cell, &excelize.Picture{
		Extension: ".png",
		File:      raw,
		Format:    &excelize.GraphicOptions{AutoFit: false},
	})
}
