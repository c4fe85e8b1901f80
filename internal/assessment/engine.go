package assessment

import (
	"context"
	"errors"

	"github.com/2beens/fitassess/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=assessment_test

// ChartRenderer draws the two assessment charts as base64 encoded PNG images.
type ChartRenderer interface {
	BMIChart(weightKg, heightCm, bmi float64) (string, error)
	RampChart(loads, rpe []float64) (string, error)
}

type Calculations struct {
	BMI            float64 `json:"BMI"`
	WHR            float64 `json:"WHR"`
	BodyFat        float64 `json:"BodyFat"`
	ExplosivePower float64 `json:"ExplosivePower"`
}

// Classifications holds one label per metric; nil means not available
// (no reference data for the client's age or gender).
type Classifications struct {
	BMI            *Label `json:"BMI"`
	WHR            *Label `json:"WHR"`
	BodyFat        *Label `json:"BodyFat"`
	ExplosivePower *Label `json:"ExplosivePower"`
	PushUps        *Label `json:"PushUps"`
	Squats         *Label `json:"Squats"`
	Plank          *Label `json:"Plank"`
	ToeTouch       *Label `json:"ToeTouch"`
	OverallBalance *Label `json:"OverallBalance"`
}

// Missing returns the names of the classifications that are not available.
func (c Classifications) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		label *Label
	}{
		{"BMI", c.BMI},
		{"WHR", c.WHR},
		{"BodyFat", c.BodyFat},
		{"ExplosivePower", c.ExplosivePower},
		{"PushUps", c.PushUps},
		{"Squats", c.Squats},
		{"Plank", c.Plank},
		{"ToeTouch", c.ToeTouch},
		{"OverallBalance", c.OverallBalance},
	} {
		if f.label == nil {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type Charts struct {
	BMIChart  string `json:"bmiChart"`
	RampChart string `json:"rampChart"`
}

// Result is the outcome of one assessment. It is built once and never mutated.
type Result struct {
	Client          ClientInfo            `json:"client"`
	Gender          Gender                `json:"gender"`
	Age             int                   `json:"age"`
	Calculations    Calculations          `json:"calculations"`
	Classifications Classifications       `json:"classifications"`
	Balance         StanceClassifications `json:"balance"`
	Circumferences  Circumferences        `json:"circumferences"`
	Charts          Charts                `json:"charts"`
}

// Engine computes assessments. It holds only immutable state and can be
// shared between goroutines.
type Engine struct {
	tables     *ReferenceTables
	classifier *Classifier
	charts     ChartRenderer
}

func NewEngine(tables *ReferenceTables, charts ChartRenderer) *Engine {
	return &Engine{
		tables:     tables,
		classifier: NewClassifier(tables),
		charts:     charts,
	}
}

func (e *Engine) Tables() *ReferenceTables {
	return e.tables
}

func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// ComputeAssessment validates the record, computes the derived metrics,
// classifies them and renders the charts.
// Validation failures match ErrValidation and no partial result is returned;
// calculation or rendering failures match ErrComputation.
func (e *Engine) ComputeAssessment(ctx context.Context, record ClientRecord) (_ *Result, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "engine.assessment.compute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(
		attribute.String("gender", record.Gender.String()),
		attribute.Int("age", record.Age),
	)

	if err := record.Validate(); err != nil {
		return nil, err
	}

	calc, err := e.calculate(record)
	if err != nil {
		return nil, err
	}

	classify := func(metric Metric, value float64) *Label {
		return labelPtr(e.classifier.Classify(metric, record.Gender, record.Age, value, ConditionNone))
	}
	stance := func(value float64, condition Condition) *Label {
		return labelPtr(e.classifier.Classify(MetricOLS, record.Gender, record.Age, value, condition))
	}

	balance := StanceClassifications{
		OpenRight:   stance(record.OneLegStance.OpenRightSec, ConditionOpen),
		OpenLeft:    stance(record.OneLegStance.OpenLeftSec, ConditionOpen),
		ClosedRight: stance(record.OneLegStance.ClosedRightSec, ConditionClosed),
		ClosedLeft:  stance(record.OneLegStance.ClosedLeftSec, ConditionClosed),
	}

	classifications := Classifications{
		BMI:            classify(MetricBMI, calc.BMI),
		WHR:            classify(MetricWHR, calc.WHR),
		BodyFat:        classify(MetricBodyFat, calc.BodyFat),
		ExplosivePower: classify(MetricExplosivePower, calc.ExplosivePower),
		PushUps:        classify(MetricPushUp, float64(record.PushUps)),
		Squats:         classify(MetricSquat, float64(record.Squats)),
		Plank:          classify(MetricPlank, record.PlankSeconds),
		ToeTouch:       classify(MetricToeTouch, record.ToeTouchCm),
		OverallBalance: labelPtr(OverallBalance(balance)),
	}
	if missing := classifications.Missing(); len(missing) > 0 {
		log.Debugf("assessment for %s aged %d: classifications not available: %v", record.Gender, record.Age, missing)
	}

	bmiChart, err := e.charts.BMIChart(record.WeightKg, record.HeightCm, calc.BMI)
	if err != nil {
		return nil, computationError("bmi chart", err)
	}
	rampChart, err := e.charts.RampChart(record.RampTest.Loads, record.RampTest.RPE)
	if err != nil {
		return nil, computationError("ramp chart", err)
	}

	return &Result{
		Client:          record.Client,
		Gender:          record.Gender,
		Age:             record.Age,
		Calculations:    calc,
		Classifications: classifications,
		Balance:         balance,
		Circumferences:  record.Circumferences,
		Charts: Charts{
			BMIChart:  bmiChart,
			RampChart: rampChart,
		},
	}, nil
}

func (e *Engine) calculate(record ClientRecord) (Calculations, error) {
	bmi, err := BMI(record.WeightKg, record.HeightCm)
	if err != nil {
		return Calculations{}, computationError("bmi", err)
	}
	whr, err := WHR(record.Circumferences.WaistCm, record.Circumferences.HipCm)
	if err != nil {
		return Calculations{}, computationError("whr", err)
	}
	bodyFat, err := BodyFatPercent(record.Gender, record.Age, record.Skinfolds)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return Calculations{}, err
		}
		return Calculations{}, computationError("body fat", err)
	}
	return Calculations{
		BMI:            bmi,
		WHR:            whr,
		BodyFat:        bodyFat,
		ExplosivePower: ExplosivePower(record.WeightKg, record.VerticalJumpCm),
	}, nil
}

func labelPtr(l Label, ok bool) *Label {
	if !ok {
		return nil
	}
	return &l
}
