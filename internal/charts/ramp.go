package charts

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	rampMaxRPE = 10

	aerobicRPELow   = 2 // exclusive
	aerobicRPEHigh  = 6 // inclusive
	moderateRPELow  = 6 // exclusive
	moderateRPEHigh = 9 // exclusive
)

var (
	aerobicZoneColor   = color.NRGBA{R: 144, G: 238, B: 144, A: 77}
	moderateZoneColor  = color.NRGBA{R: 240, G: 230, B: 140, A: 77}
	anaerobicZoneColor = color.NRGBA{R: 240, G: 128, B: 128, A: 77}
)

// RampZones holds the load boundaries of the three training zones of a ramp test.
// The aerobic zone spans [MinLoad, AerobicThreshold], the moderate zone
// [AerobicThreshold, AnaerobicThreshold] and the anaerobic zone
// [AnaerobicThreshold, MaxLoad].
type RampZones struct {
	MinLoad            float64
	AerobicThreshold   float64
	AnaerobicThreshold float64
	MaxLoad            float64
}

// ComputeRampZones derives the zone thresholds as the mean load of the aerobic
// (2 < RPE <= 6) and moderate (6 < RPE < 9) stages. It reports false when either
// group is empty.
func ComputeRampZones(loads, rpe []float64) (RampZones, bool) {
	if len(loads) == 0 || len(loads) != len(rpe) {
		return RampZones{}, false
	}

	var aerobicSum, moderateSum float64
	var aerobicN, moderateN int
	for i, v := range rpe {
		switch {
		case v > aerobicRPELow && v <= aerobicRPEHigh:
			aerobicSum += loads[i]
			aerobicN++
		case v > moderateRPELow && v < moderateRPEHigh:
			moderateSum += loads[i]
			moderateN++
		}
	}
	if aerobicN == 0 || moderateN == 0 {
		return RampZones{}, false
	}

	return RampZones{
		MinLoad:            slices.Min(loads),
		AerobicThreshold:   aerobicSum / float64(aerobicN),
		AnaerobicThreshold: moderateSum / float64(moderateN),
		MaxLoad:            slices.Max(loads),
	}, true
}

func rampPlot(loads, rpe []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Ramp Test"
	p.X.Label.Text = "Load"
	p.Y.Label.Text = "RPE"

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(grid)

	if zones, ok := ComputeRampZones(loads, rpe); ok {
		for _, z := range []struct {
			label string
			from  float64
			to    float64
			fill  color.Color
		}{
			{"Aerobic Zone", zones.MinLoad, zones.AerobicThreshold, aerobicZoneColor},
			{"Moderate Zone", zones.AerobicThreshold, zones.AnaerobicThreshold, moderateZoneColor},
			{"Anaerobic Zone", zones.AnaerobicThreshold, zones.MaxLoad, anaerobicZoneColor},
		} {
			poly, err := plotter.NewPolygon(plotter.XYs{
				{X: z.from, Y: 0},
				{X: z.to, Y: 0},
				{X: z.to, Y: rampMaxRPE},
				{X: z.from, Y: rampMaxRPE},
			})
			if err != nil {
				return nil, fmt.Errorf("%s: %w", z.label, err)
			}
			poly.Color = z.fill
			poly.LineStyle.Width = 0
			p.Add(poly)
			p.Legend.Add(z.label, poly)
		}
	}

	pts := make(plotter.XYs, len(loads))
	for i := range loads {
		pts[i].X = loads[i]
		pts[i].Y = rpe[i]
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("rpe series: %w", err)
	}
	line.LineStyle.Color = color.Black
	points.GlyphStyle.Color = color.Black
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.Legend.Add("RPE", line, points)

	ticks := make([]plot.Tick, 0, len(loads))
	for _, l := range loads {
		ticks = append(ticks, plot.Tick{Value: l, Label: strconv.FormatFloat(l, 'f', -1, 64)})
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	// p.Add widens the axes to fit the data, so the RPE scale is pinned afterwards.
	p.Y.Min = 0
	p.Y.Max = math.Max(rampMaxRPE, slices.Max(rpe))

	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}
