package assessment

// Classifier maps a metric value to its ordinal label using the reference tables.
type Classifier struct {
	tables *ReferenceTables
}

func NewClassifier(tables *ReferenceTables) *Classifier {
	return &Classifier{
		tables: tables,
	}
}

// Classify returns the label of value for the given metric, gender and age.
// condition is only used by the one-leg stance test (open / closed eyes).
// The second return value is false on a lookup miss: unknown metric, no table
// for the gender, no age bracket containing age, or missing condition.
func (c *Classifier) Classify(metric Metric, gender Gender, age int, value float64, condition Condition) (Label, bool) {
	switch metric {
	case MetricBMI:
		return classifyBMI(value), true
	case MetricOLS:
		return c.classifyStance(gender, age, value, condition)
	case MetricToeTouch:
		bands, ok := c.tables.toeTouch.lookup(age)
		if !ok {
			return "", false
		}
		return classifyToeTouch(bands, value), true
	case MetricPlank:
		perc, ok := c.tables.plank[gender]
		if !ok {
			return "", false
		}
		return classifyPlank(perc, value), true
	case MetricWHR:
		bands, ok := c.tables.whr[gender]
		if !ok {
			return "", false
		}
		return scanAscending(bands, standardLabels, value), true
	case MetricBodyFat:
		bands, ok := c.tables.bodyFat[gender].lookup(age)
		if !ok {
			return "", false
		}
		return scanAscending(bands, bodyFatLabels, value), true
	case MetricExplosivePower:
		return lookupDescending(c.tables.explosivePower[gender], age, value)
	case MetricPushUp:
		return lookupDescending(c.tables.pushUp[gender], age, value)
	case MetricSquat:
		return lookupDescending(c.tables.squat[gender], age, value)
	default:
		return "", false
	}
}

func classifyBMI(value float64) Label {
	for _, band := range bmiBands {
		if value < band.Below {
			return band.Label
		}
	}
	return LabelObese
}

func (c *Classifier) classifyStance(gender Gender, age int, value float64, condition Condition) (Label, bool) {
	thresholds, ok := c.tables.ols[gender].lookup(age)
	if !ok {
		return "", false
	}
	threshold, ok := thresholds.forCondition(condition)
	if !ok {
		return "", false
	}
	if value >= threshold {
		return LabelGood, true
	}
	return LabelPoor, true
}

// classifyToeTouch compares the reach distance (lower is better) against
// boundaries 1..3; boundary 0 is not used.
func classifyToeTouch(b Bands, value float64) Label {
	switch {
	case value <= b[1]:
		return LabelExcellent
	case value <= b[2]:
		return LabelGood
	case value <= b[3]:
		return LabelAverage
	default:
		return LabelPoor
	}
}

// plankBands maps percentile indices to labels, best first.
var plankBands = []struct {
	percentile int
	label      Label
}{
	{7, LabelExcellent},
	{5, LabelGood},
	{3, LabelAverage},
	{1, LabelBelowAverage},
}

func classifyPlank(perc Bands, value float64) Label {
	for _, pb := range plankBands {
		if value >= perc[pb.percentile] {
			return pb.label
		}
	}
	return LabelPoor
}

func lookupDescending(table bracketed[Bands], age int, value float64) (Label, bool) {
	bands, ok := table.lookup(age)
	if !ok {
		return "", false
	}
	return scanDescending(bands, standardLabels, value), true
}

// scanDescending is used for higher-is-better metrics: the first boundary the
// value reaches wins, and the worst label is the fallback.
func scanDescending(bands Bands, labels []Label, value float64) Label {
	for i, b := range bands {
		if value >= b {
			return labels[i]
		}
	}
	return labels[len(labels)-1]
}

// scanAscending is used for lower-is-better metrics: the first boundary the
// value does not exceed wins, and the worst label is the fallback.
func scanAscending(bands Bands, labels []Label, value float64) Label {
	for i, b := range bands {
		if value <= b {
			return labels[i]
		}
	}
	return labels[len(labels)-1]
}
