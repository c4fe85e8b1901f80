package charts

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	bmiMinHeightCm = 140
	bmiMaxHeightCm = 200 // exclusive
)

type bmiCurve struct {
	bmi    float64
	label  string
	color  color.Color
	dashed bool
}

var bmiCurves = []bmiCurve{
	{bmi: 18.5, label: "Underweight 18.5", color: color.RGBA{B: 255, A: 255}, dashed: true},
	{bmi: 22, label: "Ideal 22", color: color.RGBA{G: 128, A: 255}},
	{bmi: 25, label: "Overweight 25", color: color.RGBA{R: 255, A: 255}, dashed: true},
}

// bmiCurvePoints returns the weight at the given BMI for each height in the chart range.
// Weight is on the X axis, height on the Y axis.
func bmiCurvePoints(bmi float64) plotter.XYs {
	pts := make(plotter.XYs, 0, bmiMaxHeightCm-bmiMinHeightCm)
	for h := bmiMinHeightCm; h < bmiMaxHeightCm; h++ {
		heightM := float64(h) / 100
		pts = append(pts, plotter.XY{X: bmi * heightM * heightM, Y: float64(h)})
	}
	return pts
}

func bmiPlot(weightKg, heightCm, bmi float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "BMI"
	p.X.Label.Text = "Weight (kg)"
	p.Y.Label.Text = "Height (cm)"
	p.Add(plotter.NewGrid())

	for _, c := range bmiCurves {
		line, err := plotter.NewLine(bmiCurvePoints(c.bmi))
		if err != nil {
			return nil, fmt.Errorf("bmi %v curve: %w", c.bmi, err)
		}
		line.LineStyle.Color = c.color
		line.LineStyle.Width = vg.Points(1.5)
		if c.dashed {
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}
		p.Add(line)
		p.Legend.Add(c.label, line)
	}

	marker, err := plotter.NewScatter(plotter.XYs{{X: weightKg, Y: heightCm}})
	if err != nil {
		return nil, fmt.Errorf("client marker: %w", err)
	}
	marker.GlyphStyle.Color = color.Black
	marker.GlyphStyle.Radius = vg.Points(3)
	marker.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(marker)
	p.Legend.Add(fmt.Sprintf("You - %.2f", bmi), marker)

	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}
