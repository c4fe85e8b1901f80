package assessment

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AgeBracket is an inclusive integer age range, written as "min-max".
type AgeBracket struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func ParseAgeBracket(label string) (AgeBracket, error) {
	minStr, maxStr, found := strings.Cut(strings.TrimSpace(label), "-")
	if !found {
		return AgeBracket{}, fmt.Errorf("invalid age bracket %q: expected min-max", label)
	}
	minAge, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil {
		return AgeBracket{}, fmt.Errorf("invalid age bracket %q: %w", label, err)
	}
	maxAge, err := strconv.Atoi(strings.TrimSpace(maxStr))
	if err != nil {
		return AgeBracket{}, fmt.Errorf("invalid age bracket %q: %w", label, err)
	}
	if minAge < 0 || minAge > maxAge {
		return AgeBracket{}, fmt.Errorf("invalid age bracket %q: min must be in [0, max]", label)
	}
	return AgeBracket{Min: minAge, Max: maxAge}, nil
}

func (b AgeBracket) Contains(age int) bool {
	return b.Min <= age && age <= b.Max
}

func (b AgeBracket) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

func (b AgeBracket) overlaps(other AgeBracket) bool {
	return b.Min <= other.Max && other.Min <= b.Max
}

// Bands is an ordered sequence of boundary values, one per label.
type Bands []float64

type direction int

const (
	// higher values are better, boundaries are descending
	higherIsBetter direction = iota
	// lower values are better, boundaries are ascending
	lowerIsBetter
)

func (bands Bands) checkMonotonic(dir direction) error {
	for i := 1; i < len(bands); i++ {
		if dir == higherIsBetter && bands[i] > bands[i-1] {
			return fmt.Errorf("boundaries must be descending, got %v", []float64(bands))
		}
		if dir == lowerIsBetter && bands[i] < bands[i-1] {
			return fmt.Errorf("boundaries must be ascending, got %v", []float64(bands))
		}
	}
	return nil
}

func (bands Bands) clone() Bands {
	return append(Bands(nil), bands...)
}

// MarshalJSON writes an unbounded boundary as the string "Infinity",
// which plain JSON numbers cannot express.
func (bands Bands) MarshalJSON() ([]byte, error) {
	if bands == nil {
		return []byte("null"), nil
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range bands {
		if i > 0 {
			sb.WriteByte(',')
		}
		switch {
		case math.IsInf(v, 1):
			sb.WriteString(`"Infinity"`)
		case math.IsInf(v, -1):
			sb.WriteString(`"-Infinity"`)
		default:
			sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	sb.WriteByte(']')
	return []byte(sb.String()), nil
}

func (bands *Bands) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Bands, 0, len(raw))
	for _, r := range raw {
		var v float64
		if err := json.Unmarshal(r, &v); err == nil {
			out = append(out, v)
			continue
		}
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return fmt.Errorf("invalid boundary %s", r)
		}
		switch s {
		case "Infinity", "inf", "+Infinity":
			out = append(out, math.Inf(1))
		case "-Infinity", "-inf":
			out = append(out, math.Inf(-1))
		default:
			return fmt.Errorf("invalid boundary %q", s)
		}
	}
	*bands = out
	return nil
}

// StanceThresholds holds the one-leg stance pass thresholds in seconds.
type StanceThresholds struct {
	Open   float64 `json:"open"`
	Closed float64 `json:"closed"`
}

func (st StanceThresholds) forCondition(c Condition) (float64, bool) {
	switch c {
	case ConditionOpen:
		return st.Open, true
	case ConditionClosed:
		return st.Closed, true
	default:
		return 0, false
	}
}

type bracketRow[T any] struct {
	bracket AgeBracket
	value   T
}

// bracketed is a list of non-overlapping age brackets, sorted by Min.
type bracketed[T any] []bracketRow[T]

func newBracketed[T any](rows map[string]T, check func(T) error) (bracketed[T], error) {
	out := make(bracketed[T], 0, len(rows))
	for label, v := range rows {
		bracket, err := ParseAgeBracket(label)
		if err != nil {
			return nil, err
		}
		if check != nil {
			if err := check(v); err != nil {
				return nil, fmt.Errorf("age bracket %s: %w", label, err)
			}
		}
		out = append(out, bracketRow[T]{bracket: bracket, value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].bracket.Min < out[j].bracket.Min
	})
	for i := 1; i < len(out); i++ {
		if out[i].bracket.overlaps(out[i-1].bracket) {
			return nil, fmt.Errorf("age brackets %s and %s overlap", out[i-1].bracket, out[i].bracket)
		}
	}
	return out, nil
}

func (b bracketed[T]) lookup(age int) (T, bool) {
	for _, row := range b {
		if row.bracket.Contains(age) {
			return row.value, true
		}
	}
	var zero T
	return zero, false
}

// ReferenceTableData is the raw, string-keyed form of the normative tables.
// Age bracket keys are "min-max" labels; gender keys are Gender values.
type ReferenceTableData struct {
	WHR            map[Gender]Bands                       `json:"WHR"`
	BodyFat        map[Gender]map[string]Bands            `json:"BodyFat"`
	ExplosivePower map[Gender]map[string]Bands            `json:"ExplosivePower"`
	PushUp         map[Gender]map[string]Bands            `json:"PushUp"`
	Squat          map[Gender]map[string]Bands            `json:"Squat"`
	Plank          map[Gender]Bands                       `json:"Plank"`
	OLS            map[Gender]map[string]StanceThresholds `json:"OLS"`
	ToeTouch       map[string]Bands                       `json:"ToeTouch"`
	BMI            []BMIBand                              `json:"BMI,omitempty"`
	Units          map[Metric]string                      `json:"units,omitempty"`
}

// BMIBand is an upper-exclusive global BMI boundary.
type BMIBand struct {
	Below float64 `json:"below"`
	Label Label   `json:"label"`
}

// bmiBands are independent of gender and age; values at or above the last
// boundary are Obese.
var bmiBands = []BMIBand{
	{Below: 18.5, Label: LabelUnderweight},
	{Below: 25, Label: LabelNormal},
	{Below: 30, Label: LabelOverweight},
}

const plankPercentiles = 10

// ReferenceTables holds the normative data every classification is looked up in.
// It is immutable after construction and safe for concurrent use.
type ReferenceTables struct {
	whr            map[Gender]Bands
	bodyFat        map[Gender]bracketed[Bands]
	explosivePower map[Gender]bracketed[Bands]
	pushUp         map[Gender]bracketed[Bands]
	squat          map[Gender]bracketed[Bands]
	plank          map[Gender]Bands
	ols            map[Gender]bracketed[StanceThresholds]
	toeTouch       bracketed[Bands]
}

// NewReferenceTables validates the raw tables and builds the lookup structure.
// Brackets must parse and must not overlap, and boundary sequences must be
// monotonic in the direction their metric implies.
func NewReferenceTables(data ReferenceTableData) (*ReferenceTables, error) {
	t := &ReferenceTables{
		whr:            make(map[Gender]Bands),
		bodyFat:        make(map[Gender]bracketed[Bands]),
		explosivePower: make(map[Gender]bracketed[Bands]),
		pushUp:         make(map[Gender]bracketed[Bands]),
		squat:          make(map[Gender]bracketed[Bands]),
		plank:          make(map[Gender]Bands),
		ols:            make(map[Gender]bracketed[StanceThresholds]),
	}

	for g, bands := range data.WHR {
		if err := checkBands(bands, lowerIsBetter, len(standardLabels)); err != nil {
			return nil, fmt.Errorf("WHR %s: %w", g, err)
		}
		t.whr[g] = bands.clone()
	}

	genderedTables := []struct {
		metric Metric
		src    map[Gender]map[string]Bands
		dst    map[Gender]bracketed[Bands]
		dir    direction
		labels int
	}{
		{MetricBodyFat, data.BodyFat, t.bodyFat, lowerIsBetter, len(bodyFatLabels)},
		{MetricExplosivePower, data.ExplosivePower, t.explosivePower, higherIsBetter, len(standardLabels)},
		{MetricPushUp, data.PushUp, t.pushUp, higherIsBetter, len(standardLabels)},
		{MetricSquat, data.Squat, t.squat, higherIsBetter, len(standardLabels)},
	}
	for _, gt := range genderedTables {
		for g, rows := range gt.src {
			dir, labels := gt.dir, gt.labels
			b, err := newBracketed(cloneRows(rows), func(bands Bands) error {
				return checkBands(bands, dir, labels)
			})
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", gt.metric, g, err)
			}
			gt.dst[g] = b
		}
	}

	for g, perc := range data.Plank {
		if len(perc) != plankPercentiles {
			return nil, fmt.Errorf("plank %s: expected %d percentiles, got %d", g, plankPercentiles, len(perc))
		}
		if err := perc.checkMonotonic(lowerIsBetter); err != nil {
			return nil, fmt.Errorf("plank %s: %w", g, err)
		}
		t.plank[g] = perc.clone()
	}

	for g, rows := range data.OLS {
		b, err := newBracketed(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("OLS %s: %w", g, err)
		}
		t.ols[g] = b
	}

	toeTouch, err := newBracketed(cloneRows(data.ToeTouch), func(bands Bands) error {
		if len(bands) != 4 {
			return fmt.Errorf("expected 4 boundaries, got %d", len(bands))
		}
		return bands.checkMonotonic(lowerIsBetter)
	})
	if err != nil {
		return nil, fmt.Errorf("toe touch: %w", err)
	}
	t.toeTouch = toeTouch

	return t, nil
}

func checkBands(bands Bands, dir direction, maxLen int) error {
	if len(bands) == 0 {
		return fmt.Errorf("empty boundaries")
	}
	if len(bands) > maxLen {
		return fmt.Errorf("%d boundaries for %d labels", len(bands), maxLen)
	}
	return bands.checkMonotonic(dir)
}

func cloneRows(rows map[string]Bands) map[string]Bands {
	out := make(map[string]Bands, len(rows))
	for k, v := range rows {
		out[k] = v.clone()
	}
	return out
}

// Data returns a deep copy of the tables in their raw form, e.g. for
// reporting or for displaying the thresholds next to a result.
func (t *ReferenceTables) Data() ReferenceTableData {
	data := ReferenceTableData{
		WHR:            make(map[Gender]Bands),
		BodyFat:        make(map[Gender]map[string]Bands),
		ExplosivePower: make(map[Gender]map[string]Bands),
		PushUp:         make(map[Gender]map[string]Bands),
		Squat:          make(map[Gender]map[string]Bands),
		Plank:          make(map[Gender]Bands),
		OLS:            make(map[Gender]map[string]StanceThresholds),
		ToeTouch:       make(map[string]Bands),
		Units:          make(map[Metric]string),
		BMI:            append([]BMIBand(nil), bmiBands...),
	}
	for g, bands := range t.whr {
		data.WHR[g] = bands.clone()
	}
	for g, bands := range t.plank {
		data.Plank[g] = bands.clone()
	}
	for g, b := range t.bodyFat {
		data.BodyFat[g] = bandRows(b)
	}
	for g, b := range t.explosivePower {
		data.ExplosivePower[g] = bandRows(b)
	}
	for g, b := range t.pushUp {
		data.PushUp[g] = bandRows(b)
	}
	for g, b := range t.squat {
		data.Squat[g] = bandRows(b)
	}
	for g, b := range t.ols {
		rows := make(map[string]StanceThresholds, len(b))
		for _, row := range b {
			rows[row.bracket.String()] = row.value
		}
		data.OLS[g] = rows
	}
	data.ToeTouch = bandRows(t.toeTouch)
	for _, m := range Metrics {
		data.Units[m] = m.Unit()
	}
	return data
}

func bandRows(b bracketed[Bands]) map[string]Bands {
	rows := make(map[string]Bands, len(b))
	for _, row := range b {
		rows[row.bracket.String()] = row.value.clone()
	}
	return rows
}

// LabelsFor returns the ordered labels the boundaries of a banded metric map to.
func LabelsFor(metric Metric) []Label {
	switch metric {
	case MetricBodyFat:
		return append([]Label(nil), bodyFatLabels...)
	case MetricBMI:
		labels := make([]Label, 0, len(bmiBands)+1)
		for _, b := range bmiBands {
			labels = append(labels, b.Label)
		}
		return append(labels, LabelObese)
	case MetricOLS:
		return []Label{LabelGood, LabelPoor}
	default:
		return append([]Label(nil), standardLabels...)
	}
}
