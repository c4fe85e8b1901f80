package assessment

import (
	"slices"
)

// Skinfolds is the set of caliper measurements (mm) used for body fat estimation.
// The measured sites depend on gender, so it is one of:
//   - MaleSkinfolds:   chest, abdomen, thigh
//   - FemaleSkinfolds: triceps, suprailiac, thigh
type Skinfolds interface {
	Gender() Gender
	Sites() []SkinfoldSite
	isSkinfolds()
}

// SkinfoldSite is a single measured site. Value is nil when it was not measured.
type SkinfoldSite struct {
	Name  string
	Value *float64
}

type MaleSkinfolds struct {
	Chest   *float64 `json:"chest"`
	Abdomen *float64 `json:"abdomen"`
	Thigh   *float64 `json:"thigh"`
}

func (MaleSkinfolds) Gender() Gender { return GenderMale }
func (MaleSkinfolds) isSkinfolds()   {}

func (s MaleSkinfolds) Sites() []SkinfoldSite {
	return []SkinfoldSite{
		{Name: "chest", Value: s.Chest},
		{Name: "abdomen", Value: s.Abdomen},
		{Name: "thigh", Value: s.Thigh},
	}
}

type FemaleSkinfolds struct {
	Triceps    *float64 `json:"triceps"`
	Suprailiac *float64 `json:"suprailiac"`
	Thigh      *float64 `json:"thigh"`
}

func (FemaleSkinfolds) Gender() Gender { return GenderFemale }
func (FemaleSkinfolds) isSkinfolds()   {}

func (s FemaleSkinfolds) Sites() []SkinfoldSite {
	return []SkinfoldSite{
		{Name: "triceps", Value: s.Triceps},
		{Name: "suprailiac", Value: s.Suprailiac},
		{Name: "thigh", Value: s.Thigh},
	}
}

const skinfoldSitesRequired = 3

// SumSkinfolds adds up the measured sites. Every one of the three sites must be present.
func SumSkinfolds(s Skinfolds) (float64, error) {
	if s == nil {
		return 0, newValidationError("skinfolds", "missing")
	}
	var (
		sum     float64
		present int
	)
	for _, site := range s.Sites() {
		if site.Value == nil {
			continue
		}
		if *site.Value < 0 {
			return 0, newValidationError("skinfolds."+site.Name, "must not be negative")
		}
		sum += *site.Value
		present++
	}
	if present != skinfoldSitesRequired {
		return 0, newValidationError(
			"skinfolds",
			"expected %d measured sites for %s, got %d", skinfoldSitesRequired, s.Gender(), present,
		)
	}
	return sum, nil
}

var (
	maleSkinfoldSites   = []string{"chest", "abdomen", "thigh"}
	femaleSkinfoldSites = []string{"triceps", "suprailiac", "thigh"}
)

// NewSkinfolds builds the gender-specific variant from a site name -> value map,
// as submitted by a form. Sites that do not belong to the gender are rejected.
func NewSkinfolds(gender Gender, sites map[string]*float64) (Skinfolds, error) {
	var allowed []string
	switch gender {
	case GenderMale:
		allowed = maleSkinfoldSites
	case GenderFemale:
		allowed = femaleSkinfoldSites
	default:
		return nil, newValidationError("gender", "must be male or female")
	}

	for name := range sites {
		if !slices.Contains(allowed, name) {
			return nil, newValidationError("skinfolds."+name, "not measured for %s", gender)
		}
	}

	if gender == GenderMale {
		return MaleSkinfolds{
			Chest:   sites["chest"],
			Abdomen: sites["abdomen"],
			Thigh:   sites["thigh"],
		}, nil
	}
	return FemaleSkinfolds{
		Triceps:    sites["triceps"],
		Suprailiac: sites["suprailiac"],
		Thigh:      sites["thigh"],
	}, nil
}
