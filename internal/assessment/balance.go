package assessment

// StanceClassifications holds the four one-leg stance results.
// A nil entry is a lookup miss for that stance.
type StanceClassifications struct {
	OpenRight   *Label `json:"openRight"`
	OpenLeft    *Label `json:"openLeft"`
	ClosedRight *Label `json:"closedRight"`
	ClosedLeft  *Label `json:"closedLeft"`
}

func (sc StanceClassifications) all() []*Label {
	return []*Label{sc.OpenRight, sc.OpenLeft, sc.ClosedRight, sc.ClosedLeft}
}

// OverallBalance reduces the four stance results into one balance label:
//   - all four Good or Excellent -> Excellent
//   - one Poor                  -> Good
//   - two or three Poor         -> Below Average
//   - four Poor                 -> Poor
//   - anything else             -> Average
//
// Missing results count as neither good nor poor. Returns false if all four are missing.
func OverallBalance(sc StanceClassifications) (Label, bool) {
	var (
		present  int
		good     int
		badCount int
	)
	for _, l := range sc.all() {
		if l == nil {
			continue
		}
		present++
		switch *l {
		case LabelGood, LabelExcellent:
			good++
		case LabelPoor:
			badCount++
		}
	}

	switch {
	case present == 0:
		return "", false
	case good == 4:
		return LabelExcellent, true
	case badCount == 1:
		return LabelGood, true
	case badCount >= 2 && badCount <= 3:
		return LabelBelowAverage, true
	case badCount == 4:
		return LabelPoor, true
	default:
		return LabelAverage, true
	}
}
