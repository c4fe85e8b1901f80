package assessment_test

import (
	"errors"
	"testing"

	"github.com/2beens/fitassess/internal/assessment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 {
	return &v
}

func TestBMI(t *testing.T) {
	bmi, err := assessment.BMI(70, 175)
	require.NoError(t, err)
	assert.Equal(t, 22.86, bmi)

	bmi, err = assessment.BMI(100, 200)
	require.NoError(t, err)
	assert.Equal(t, 25.0, bmi)

	_, err = assessment.BMI(70, 0)
	assert.Error(t, err)
	_, err = assessment.BMI(70, -170)
	assert.Error(t, err)
}

func TestWHR(t *testing.T) {
	whr, err := assessment.WHR(80, 95)
	require.NoError(t, err)
	assert.Equal(t, 0.84, whr)

	whr, err = assessment.WHR(70, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.7, whr)

	_, err = assessment.WHR(80, 0)
	assert.Error(t, err)
}

func TestExplosivePower(t *testing.T) {
	assert.Equal(t, 3544.0, assessment.ExplosivePower(70, 40))
	assert.Equal(t, 2787.5, assessment.ExplosivePower(60, 35))
	// no floor at zero
	assert.Equal(t, -2055.0, assessment.ExplosivePower(0, 0))
}

func TestBodyFatPercent(t *testing.T) {
	male := assessment.MaleSkinfolds{Chest: f64(10), Abdomen: f64(15), Thigh: f64(12)}
	bf, err := assessment.BodyFatPercent(assessment.GenderMale, 25, male)
	require.NoError(t, err)
	assert.Equal(t, 10.66, bf)

	female := assessment.FemaleSkinfolds{Triceps: f64(15), Suprailiac: f64(12), Thigh: f64(20)}
	bf, err = assessment.BodyFatPercent(assessment.GenderFemale, 30, female)
	require.NoError(t, err)
	assert.InDelta(t, 19.5, bf, 1.5)

	// older clients with the same skinfolds have more body fat
	older, err := assessment.BodyFatPercent(assessment.GenderMale, 60, male)
	require.NoError(t, err)
	assert.Greater(t, older, 10.66)
}

func TestBodyFatPercent_InvalidSkinfolds(t *testing.T) {
	for name, tc := range map[string]struct {
		gender    assessment.Gender
		skinfolds assessment.Skinfolds
		field     string
	}{
		"nil": {
			gender:    assessment.GenderMale,
			skinfolds: nil,
			field:     "skinfolds",
		},
		"site missing": {
			gender:    assessment.GenderMale,
			skinfolds: assessment.MaleSkinfolds{Chest: f64(10), Thigh: f64(12)},
			field:     "skinfolds",
		},
		"negative site": {
			gender:    assessment.GenderFemale,
			skinfolds: assessment.FemaleSkinfolds{Triceps: f64(-1), Suprailiac: f64(12), Thigh: f64(20)},
			field:     "skinfolds.triceps",
		},
		"gender mismatch": {
			gender:    assessment.GenderFemale,
			skinfolds: assessment.MaleSkinfolds{Chest: f64(10), Abdomen: f64(15), Thigh: f64(12)},
			field:     "skinfolds",
		},
		"unknown gender": {
			gender:    assessment.Gender("other"),
			skinfolds: assessment.MaleSkinfolds{Chest: f64(10), Abdomen: f64(15), Thigh: f64(12)},
			field:     "gender",
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := assessment.BodyFatPercent(tc.gender, 30, tc.skinfolds)
			require.Error(t, err)
			assert.True(t, errors.Is(err, assessment.ErrValidation))

			var ve *assessment.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestBodyFatPercent_NonPositiveDensity(t *testing.T) {
	sf := assessment.MaleSkinfolds{Chest: f64(86), Abdomen: f64(86), Thigh: f64(86)}
	_, err := assessment.BodyFatPercent(assessment.GenderMale, 5000, sf)
	require.Error(t, err)
	assert.False(t, errors.Is(err, assessment.ErrValidation))
}

func TestBodyFatPercent_SiteOrderIndependent(t *testing.T) {
	forward := map[string]*float64{}
	forward["chest"] = f64(10)
	forward["abdomen"] = f64(15)
	forward["thigh"] = f64(12.5)

	backward := map[string]*float64{}
	backward["thigh"] = f64(12.5)
	backward["abdomen"] = f64(15)
	backward["chest"] = f64(10)

	// only the sum of the sites matters, so swapping values between sites is a no-op too
	swapped := map[string]*float64{
		"chest":   f64(12.5),
		"abdomen": f64(10),
		"thigh":   f64(15),
	}

	var results []float64
	for _, sites := range []map[string]*float64{forward, backward, swapped} {
		sf, err := assessment.NewSkinfolds(assessment.GenderMale, sites)
		require.NoError(t, err)
		bf, err := assessment.BodyFatPercent(assessment.GenderMale, 25, sf)
		require.NoError(t, err)
		results = append(results, bf)
	}

	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
}

func TestSumSkinfolds(t *testing.T) {
	sum, err := assessment.SumSkinfolds(assessment.FemaleSkinfolds{Triceps: f64(15), Suprailiac: f64(12.5), Thigh: f64(20)})
	require.NoError(t, err)
	assert.Equal(t, 47.5, sum)
}

func TestNewSkinfolds(t *testing.T) {
	sf, err := assessment.NewSkinfolds(assessment.GenderFemale, map[string]*float64{
		"triceps":    f64(15),
		"suprailiac": f64(12),
		"thigh":      f64(20),
	})
	require.NoError(t, err)
	assert.Equal(t, assessment.GenderFemale, sf.Gender())
	female, ok := sf.(assessment.FemaleSkinfolds)
	require.True(t, ok)
	assert.Equal(t, 12.0, *female.Suprailiac)

	_, err = assessment.NewSkinfolds(assessment.GenderMale, map[string]*float64{"triceps": f64(15)})
	require.Error(t, err)
	var ve *assessment.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "skinfolds.triceps", ve.Field)
}
