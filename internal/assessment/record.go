package assessment

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// ClientInfo is descriptive client data carried through to the result untouched.
type ClientInfo struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	RestingHR   int    `json:"restingHr,omitempty"`
	SystolicBP  int    `json:"systolicBp,omitempty"`
	DiastolicBP int    `json:"diastolicBp,omitempty"`
}

// Circumferences are tape measurements in cm.
type Circumferences struct {
	ChestCm      float64 `json:"chestCm"`
	WaistCm      float64 `json:"waistCm"`
	HipCm        float64 `json:"hipCm"`
	ArmLeftCm    float64 `json:"armLeftCm"`
	ArmRightCm   float64 `json:"armRightCm"`
	ThighLeftCm  float64 `json:"thighLeftCm"`
	ThighRightCm float64 `json:"thighRightCm"`
}

// OneLegStance durations in seconds.
type OneLegStance struct {
	OpenRightSec   float64 `json:"openRightSec"`
	OpenLeftSec    float64 `json:"openLeftSec"`
	ClosedRightSec float64 `json:"closedRightSec"`
	ClosedLeftSec  float64 `json:"closedLeftSec"`
}

// RampTest holds the workload steps and the perceived exertion (RPE, 0-10)
// reported at each step.
type RampTest struct {
	Loads Series `json:"loads"`
	RPE   Series `json:"rpe"`
}

// Series is a list of numbers. In JSON it is either an array or a
// comma-separated string ("50, 75, 100").
type Series []float64

func ParseSeries(s string) (Series, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Series{}, nil
	}
	parts := strings.Split(s, ",")
	out := make(Series, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse series value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s Series) finite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *Series) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err == nil {
		*s = values
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("series must be a number array or a comma-separated string")
	}
	parsed, err := ParseSeries(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ClientRecord is the complete set of measurements of one assessment.
type ClientRecord struct {
	Client ClientInfo

	Age      int
	Gender   Gender
	HeightCm float64
	WeightKg float64

	Circumferences Circumferences
	Skinfolds      Skinfolds

	PushUps        int
	Squats         int
	PlankSeconds   float64
	ToeTouchCm     float64
	VerticalJumpCm float64
	OneLegStance   OneLegStance
	RampTest       RampTest
}

// clientRecordJSON is the wire form; pointers tell a missing field from a zero.
type clientRecordJSON struct {
	Client         ClientInfo          `json:"client"`
	Age            *int                `json:"age"`
	Gender         *Gender             `json:"gender"`
	HeightCm       *float64            `json:"heightCm"`
	WeightKg       *float64            `json:"weightKg"`
	Circumferences *Circumferences     `json:"circumferences"`
	Skinfolds      map[string]*float64 `json:"skinfolds"`
	PushUps        *int                `json:"pushUps"`
	Squats         *int                `json:"squats"`
	PlankSeconds   *float64            `json:"plankSeconds"`
	ToeTouchCm     *float64            `json:"toeTouchCm"`
	VerticalJumpCm *float64            `json:"verticalJumpCm"`
	OneLegStance   *OneLegStance       `json:"oneLegStance"`
	RampTest       *RampTest           `json:"rampTest"`
}

// UnmarshalJSON decodes the record and reports every missing required field,
// and skinfold sites that do not belong to the gender, as ValidationErrors.
func (r *ClientRecord) UnmarshalJSON(data []byte) error {
	var w clientRecordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var errs error
	required := func(field string, present bool) {
		if !present {
			errs = multierr.Append(errs, newValidationError(field, "required field missing"))
		}
	}
	required("age", w.Age != nil)
	required("gender", w.Gender != nil)
	required("heightCm", w.HeightCm != nil)
	required("weightKg", w.WeightKg != nil)
	required("circumferences", w.Circumferences != nil)
	required("skinfolds", w.Skinfolds != nil)
	required("pushUps", w.PushUps != nil)
	required("squats", w.Squats != nil)
	required("plankSeconds", w.PlankSeconds != nil)
	required("toeTouchCm", w.ToeTouchCm != nil)
	required("verticalJumpCm", w.VerticalJumpCm != nil)
	required("oneLegStance", w.OneLegStance != nil)
	required("rampTest", w.RampTest != nil)
	if errs != nil {
		return errs
	}

	skinfolds, err := NewSkinfolds(*w.Gender, w.Skinfolds)
	if err != nil {
		return err
	}

	*r = ClientRecord{
		Client:         w.Client,
		Age:            *w.Age,
		Gender:         *w.Gender,
		HeightCm:       *w.HeightCm,
		WeightKg:       *w.WeightKg,
		Circumferences: *w.Circumferences,
		Skinfolds:      skinfolds,
		PushUps:        *w.PushUps,
		Squats:         *w.Squats,
		PlankSeconds:   *w.PlankSeconds,
		ToeTouchCm:     *w.ToeTouchCm,
		VerticalJumpCm: *w.VerticalJumpCm,
		OneLegStance:   *w.OneLegStance,
		RampTest:       *w.RampTest,
	}
	return nil
}

func (r ClientRecord) MarshalJSON() ([]byte, error) {
	w := clientRecordJSON{
		Client:         r.Client,
		Age:            &r.Age,
		Gender:         &r.Gender,
		HeightCm:       &r.HeightCm,
		WeightKg:       &r.WeightKg,
		Circumferences: &r.Circumferences,
		PushUps:        &r.PushUps,
		Squats:         &r.Squats,
		PlankSeconds:   &r.PlankSeconds,
		ToeTouchCm:     &r.ToeTouchCm,
		VerticalJumpCm: &r.VerticalJumpCm,
		OneLegStance:   &r.OneLegStance,
		RampTest:       &r.RampTest,
	}
	if r.Skinfolds != nil {
		w.Skinfolds = make(map[string]*float64)
		for _, site := range r.Skinfolds.Sites() {
			if site.Value != nil {
				w.Skinfolds[site.Name] = site.Value
			}
		}
	}
	return json.Marshal(w)
}

// MaxAge is the oldest age a record may carry.
const MaxAge = 120

// Validate checks every invariant of the record and returns all violations
// combined; each of them matches ErrValidation.
func (r ClientRecord) Validate() error {
	var errs error
	add := func(err error) {
		errs = multierr.Append(errs, err)
	}

	if !r.Gender.IsValid() {
		add(newValidationError("gender", "must be male or female, got %q", r.Gender))
	}
	switch {
	case r.Age < 0:
		add(newValidationError("age", "must not be negative"))
	case r.Age > MaxAge:
		add(newValidationError("age", "must not exceed %d", MaxAge))
	}

	positive := []struct {
		field string
		value float64
	}{
		{"heightCm", r.HeightCm},
		{"weightKg", r.WeightKg},
		{"circumferences.waistCm", r.Circumferences.WaistCm},
		{"circumferences.hipCm", r.Circumferences.HipCm},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			add(newValidationError(p.field, "must be a positive number"))
		}
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"circumferences.chestCm", r.Circumferences.ChestCm},
		{"circumferences.armLeftCm", r.Circumferences.ArmLeftCm},
		{"circumferences.armRightCm", r.Circumferences.ArmRightCm},
		{"circumferences.thighLeftCm", r.Circumferences.ThighLeftCm},
		{"circumferences.thighRightCm", r.Circumferences.ThighRightCm},
		{"pushUps", float64(r.PushUps)},
		{"squats", float64(r.Squats)},
		{"plankSeconds", r.PlankSeconds},
		{"toeTouchCm", r.ToeTouchCm},
		{"verticalJumpCm", r.VerticalJumpCm},
		{"oneLegStance.openRightSec", r.OneLegStance.OpenRightSec},
		{"oneLegStance.openLeftSec", r.OneLegStance.OpenLeftSec},
		{"oneLegStance.closedRightSec", r.OneLegStance.ClosedRightSec},
		{"oneLegStance.closedLeftSec", r.OneLegStance.ClosedLeftSec},
	}
	for _, nn := range nonNegative {
		if !(nn.value >= 0) {
			add(newValidationError(nn.field, "must not be negative"))
		}
	}

	switch {
	case r.Skinfolds == nil:
		add(newValidationError("skinfolds", "required field missing"))
	case r.Gender.IsValid() && r.Skinfolds.Gender() != r.Gender:
		add(newValidationError("skinfolds", "%s sites supplied for %s client", r.Skinfolds.Gender(), r.Gender))
	default:
		if _, err := SumSkinfolds(r.Skinfolds); err != nil {
			add(err)
		}
	}

	loads, rpe := len(r.RampTest.Loads), len(r.RampTest.RPE)
	switch {
	case loads == 0 || rpe == 0:
		add(newValidationError("rampTest", "loads and rpe must not be empty"))
	case loads != rpe:
		add(newValidationError("rampTest", "got %d loads and %d rpe values", loads, rpe))
	case !r.RampTest.Loads.finite() || !r.RampTest.RPE.finite():
		add(newValidationError("rampTest", "loads and rpe must be finite numbers"))
	}

	return errs
}
