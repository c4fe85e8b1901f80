package assessment

import (
	"fmt"
	"math"
)

// Jackson-Pollock 3-site body density coefficients:
// density = c0 - c1*S + c2*S^2 - c3*age, S = sum of the three skinfolds (mm).
type densityCoefficients struct {
	c0, c1, c2, c3 float64
}

var jacksonPollock = map[Gender]densityCoefficients{
	GenderMale:   {c0: 1.10938, c1: 0.0008267, c2: 0.0000016, c3: 0.0002574},
	GenderFemale: {c0: 1.0994921, c1: 0.0009929, c2: 0.0000023, c3: 0.0001392},
}

// round2 leaves only 2 decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BMI returns weight / height(m)^2.
func BMI(weightKg, heightCm float64) (float64, error) {
	if heightCm <= 0 {
		return 0, fmt.Errorf("height must be positive, got %v", heightCm)
	}
	heightM := heightCm / 100
	return round2(weightKg / (heightM * heightM)), nil
}

// WHR returns the waist to hip ratio.
func WHR(waistCm, hipCm float64) (float64, error) {
	if hipCm <= 0 {
		return 0, fmt.Errorf("hip circumference must be positive, got %v", hipCm)
	}
	return round2(waistCm / hipCm), nil
}

// ExplosivePower estimates peak anaerobic power in watts from a countermovement
// vertical jump, using the Sayers equation:
// 60.7 * jump(cm) + 45.3 * mass(kg) - 2055
func ExplosivePower(weightKg, jumpHeightCm float64) float64 {
	return round2(60.7*jumpHeightCm + 45.3*weightKg - 2055)
}

// BodyFatPercent estimates body density with the Jackson-Pollock 3-site equation
// and converts it to % body fat with the Siri equation (495 / density - 450).
func BodyFatPercent(gender Gender, age int, skinfolds Skinfolds) (float64, error) {
	coef, ok := jacksonPollock[gender]
	if !ok {
		return 0, newValidationError("gender", "must be male or female")
	}
	if skinfolds != nil && skinfolds.Gender() != gender {
		return 0, newValidationError("skinfolds", "%s sites supplied for %s client", skinfolds.Gender(), gender)
	}

	sum, err := SumSkinfolds(skinfolds)
	if err != nil {
		return 0, err
	}

	a := float64(age)
	density := coef.c0 - coef.c1*sum + coef.c2*sum*sum - coef.c3*a
	if density <= 0 {
		return 0, fmt.Errorf("non-positive body density %v", density)
	}
	return round2(495/density - 450), nil
}
