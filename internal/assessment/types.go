package assessment

import (
	"fmt"
	"strings"
)

// Gender can be one of:
//   - male
//   - female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", fmt.Errorf("unknown gender: %q", s)
	}
	return g, nil
}

func (g Gender) String() string {
	return string(g)
}

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

// UnmarshalText accepts any letter case ("Male", "male", "MALE").
// Unknown values are kept as-is and rejected later by ClientRecord.Validate.
func (g *Gender) UnmarshalText(text []byte) error {
	*g = Gender(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

// Label is an ordinal classification of a single metric.
type Label string

const (
	LabelEssential    Label = "Essential"
	LabelExcellent    Label = "Excellent"
	LabelGood         Label = "Good"
	LabelAverage      Label = "Average"
	LabelBelowAverage Label = "Below Average"
	LabelPoor         Label = "Poor"

	LabelUnderweight Label = "Underweight"
	LabelNormal      Label = "Normal"
	LabelOverweight  Label = "Overweight"
	LabelObese       Label = "Obese"
)

func (l Label) String() string {
	return string(l)
}

var (
	standardLabels = []Label{LabelExcellent, LabelGood, LabelAverage, LabelBelowAverage, LabelPoor}
	bodyFatLabels  = []Label{LabelEssential, LabelExcellent, LabelGood, LabelAverage, LabelBelowAverage, LabelPoor}
)

// Metric names a classified test.
type Metric string

const (
	MetricBMI            Metric = "BMI"
	MetricWHR            Metric = "WHR"
	MetricBodyFat        Metric = "BodyFat"
	MetricExplosivePower Metric = "ExplosivePower"
	MetricPushUp         Metric = "PushUp"
	MetricSquat          Metric = "Squat"
	MetricPlank          Metric = "Plank"
	MetricOLS            Metric = "OLS"
	MetricToeTouch       Metric = "ToeTouch"
)

// Metrics lists every classified metric in report order.
var Metrics = []Metric{
	MetricBMI,
	MetricWHR,
	MetricBodyFat,
	MetricExplosivePower,
	MetricPushUp,
	MetricSquat,
	MetricPlank,
	MetricOLS,
	MetricToeTouch,
}

func (m Metric) String() string {
	return string(m)
}

// Unit returns the display unit of the metric value.
func (m Metric) Unit() string {
	switch m {
	case MetricBMI:
		return "kg/m²"
	case MetricBodyFat:
		return "%"
	case MetricExplosivePower:
		return "Watts"
	case MetricPushUp, MetricSquat:
		return "reps"
	case MetricPlank, MetricOLS:
		return "seconds"
	case MetricToeTouch:
		return "cm"
	default:
		return ""
	}
}

// Condition is the eyes-open / eyes-closed variant of the one-leg stance test.
type Condition string

const (
	ConditionNone   Condition = ""
	ConditionOpen   Condition = "open"
	ConditionClosed Condition = "closed"
)
