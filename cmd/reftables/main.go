package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/fitassess/internal/assessment"
	"github.com/2beens/fitassess/internal/charts"
	"github.com/2beens/fitassess/internal/logging"
	"github.com/2beens/fitassess/internal/reports"
	"github.com/2beens/fitassess/pkg"

	log "github.com/sirupsen/logrus"
)

// reftables exports the reference tables as a workbook, together with sample
// charts, so the thresholds can be reviewed without running the service.
func main() {
	fmt.Println("exporting reference tables ...")

	outDir := flag.String("out", "./reftables", "output directory")
	withCharts := flag.Bool("charts", true, "also render sample BMI and ramp charts")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogLevel: *logLevel,
	})

	if err := run(*outDir, *withCharts); err != nil {
		log.Fatalf("export reference tables: %s", err)
	}
}

func run(outDir string, withCharts bool) error {
	exists, err := pkg.PathExists(outDir, true)
	if err != nil {
		return err
	}
	if !exists {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		log.Debugf("created output dir: %s", outDir)
	}

	var buf bytes.Buffer
	if err := reports.WriteReferenceTables(&buf, assessment.DefaultReferenceTables().Data()); err != nil {
		return err
	}
	tablesPath := filepath.Join(outDir, "reference_tables.xlsx")
	if err := os.WriteFile(tablesPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tablesPath, err)
	}
	log.Infof("reference tables written to: %s", tablesPath)

	if !withCharts {
		return nil
	}

	renderer := charts.NewRenderer()
	bmiChart, err := renderer.BMIChart(70, 175, 22.86)
	if err != nil {
		return fmt.Errorf("bmi chart: %w", err)
	}
	rampChart, err := renderer.RampChart(
		[]float64{50, 75, 100, 125, 150, 175, 200, 225, 250},
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 10},
	)
	if err != nil {
		return fmt.Errorf("ramp chart: %w", err)
	}

	for name, chart := range map[string]string{
		"sample_bmi.png":  bmiChart,
		"sample_ramp.png": rampChart,
	} {
		raw, err := charts.DecodePNG(chart)
		if err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Infof("sample chart written to: %s", path)
	}

	return nil
}
