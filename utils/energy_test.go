package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBMRMale(t *testing.T) {
	birthYear := time.Now().Year() - 30
	bmr := CalculateBMR(70, 175, birthYear, "male")

	// 10*70 + 6.25*175 - 5*30 + 5
	assert.InDelta(t, 1648.75, bmr, 0.01)
}

func TestCalculateBMRFemale(t *testing.T) {
	birthYear := time.Now().Year() - 30
	bmr := CalculateBMR(60, 165, birthYear, "female")

	// 10*60 + 6.25*165 - 5*30 - 161
	assert.InDelta(t, 1320.25, bmr, 0.01)
}

func TestCalculateTDEECoefficients(t *testing.T) {
	cases := []struct {
		level    string
		expected float64
	}{
		{"sedentary", 1200},
		{"lightly_active", 1350},
		{"active", 1500},
		{"very_active", 1700},
		{"unknown", 1200}, // falls back to sedentary
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			assert.InDelta(t, tc.expected, CalculateTDEE(1000, tc.level), 0.01)
		})
	}
}

func TestEstimateStepsCalories(t *testing.T) {
	got := EstimateStepsCalories(4000, 70)

	// 4000 steps * 0.762m is about 3.05 km; ~0.57 kcal/kg/km at 70 kg.
	assert.InDelta(t, 122, got, 2)
}

func TestEstimateStepsCaloriesDefaultWeight(t *testing.T) {
	assert.Equal(t, EstimateStepsCalories(4000, 70), EstimateStepsCalories(4000, 0))
}

func TestStepsDistanceKM(t *testing.T) {
	assert.InDelta(t, 3.048, StepsDistanceKM(4000), 0.001)
}
