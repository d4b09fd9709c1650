package utils

import (
	"math"
	"time"
)

// Activity-level multipliers applied to BMR to estimate total daily
// energy expenditure.
var activityCoefficients = map[string]float64{
	"sedentary":      1.2,
	"lightly_active": 1.35,
	"active":         1.5,
	"very_active":    1.7,
}

// CalculateBMR estimates basal metabolic rate via Mifflin-St Jeor.
func CalculateBMR(weightKg, heightCm float64, birthYear int, gender string) float64 {
	age := time.Now().Year() - birthYear
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == "female" {
		bmr -= 161
	} else {
		bmr += 5
	}
	if bmr < 0 {
		return 0
	}
	return bmr
}

// CalculateTDEE scales BMR by the activity-level coefficient. Unknown
// levels fall back to sedentary.
func CalculateTDEE(bmr float64, activityLevel string) float64 {
	coef, ok := activityCoefficients[activityLevel]
	if !ok {
		coef = activityCoefficients["sedentary"]
	}
	return math.Round(bmr * coef)
}

// EstimateStepsCalories approximates walking burn from step count and body
// weight. Uses ~0.57 kcal per kg per km at an average 0.762m stride.
func EstimateStepsCalories(steps int, weightKg float64) int {
	if weightKg <= 0 {
		weightKg = 70
	}
	km := StepsDistanceKM(steps)
	return int(math.Round(0.57 * weightKg * km))
}

// StepsDistanceKM converts steps to kilometers using an average stride.
func StepsDistanceKM(steps int) float64 {
	return float64(steps) * 0.000762
}
