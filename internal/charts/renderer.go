package charts

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var ErrInvalidSeries = errors.New("invalid chart series")

// Renderer draws the assessment charts and returns them as base64 encoded PNG.
// A Renderer is safe for concurrent use; every call renders into its own buffer.
type Renderer struct {
	cache *Cache

	bmiWidth, bmiHeight   vg.Length
	rampWidth, rampHeight vg.Length
}

type Option func(*Renderer)

// WithCache makes the renderer reuse charts it already rendered for the same input.
func WithCache(cache *Cache) Option {
	return func(r *Renderer) {
		r.cache = cache
	}
}

// WithSize overrides the default chart sizes.
func WithSize(bmiWidth, bmiHeight, rampWidth, rampHeight vg.Length) Option {
	return func(r *Renderer) {
		r.bmiWidth, r.bmiHeight = bmiWidth, bmiHeight
		r.rampWidth, r.rampHeight = rampWidth, rampHeight
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		bmiWidth:   4 * vg.Inch,
		bmiHeight:  3 * vg.Inch,
		rampWidth:  6 * vg.Inch,
		rampHeight: 4 * vg.Inch,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BMIChart plots the reference BMI curves together with the client's weight and height.
func (r *Renderer) BMIChart(weightKg, heightCm, bmi float64) (string, error) {
	if !finite(weightKg, heightCm, bmi) {
		return "", fmt.Errorf("%w: non-finite bmi chart input", ErrInvalidSeries)
	}
	key := cacheKey("bmi", r.bmiWidth, r.bmiHeight, []float64{weightKg, heightCm, bmi})
	return r.cached(key, func() (*plot.Plot, error) {
		return bmiPlot(weightKg, heightCm, bmi)
	}, r.bmiWidth, r.bmiHeight)
}

// RampChart plots perceived exertion against load, shading the training zones.
func (r *Renderer) RampChart(loads, rpe []float64) (string, error) {
	if len(loads) == 0 || len(loads) != len(rpe) {
		return "", fmt.Errorf("%w: got %d loads and %d rpe values", ErrInvalidSeries, len(loads), len(rpe))
	}
	if !finite(loads...) || !finite(rpe...) {
		return "", fmt.Errorf("%w: non-finite ramp test values", ErrInvalidSeries)
	}
	key := cacheKey("ramp", r.rampWidth, r.rampHeight, loads, rpe)
	return r.cached(key, func() (*plot.Plot, error) {
		return rampPlot(loads, rpe)
	}, r.rampWidth, r.rampHeight)
}

func (r *Renderer) cached(key []byte, build func() (*plot.Plot, error), w, h vg.Length) (string, error) {
	if r.cache != nil {
		if chart, ok := r.cache.Get(key); ok {
			return chart, nil
		}
	}

	p, err := build()
	if err != nil {
		return "", err
	}
	chart, err := encodePNG(p, w, h)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		r.cache.Set(key, chart)
	}
	return chart, nil
}

func encodePNG(p *plot.Plot, w, h vg.Length) (string, error) {
	writerTo, err := p.WriterTo(w, h, "png")
	if err != nil {
		return "", fmt.Errorf("create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writerTo.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("write png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodePNG turns a rendered chart back into raw PNG bytes.
func DecodePNG(chart string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(chart)
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
