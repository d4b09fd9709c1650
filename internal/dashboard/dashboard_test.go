package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nutriDayAPI/internal/diary"
	"nutriDayAPI/internal/user"
)

func TestBuildProgress(t *testing.T) {
	summary := diary.Summary{
		CaloriesEaten:  1500,
		CaloriesBurned: 200,
		WaterIntake:    1000,
		Steps:          4000,
	}
	goals := user.DailyGoals{Calories: 2000, WaterML: 2000, Steps: 8000}

	resp := Build("2024-01-01", summary, goals)

	assert.Equal(t, 700, resp.Progress.CaloriesRemaining)
	assert.InDelta(t, 75.0, resp.Progress.CaloriesPercent, 0.01)
	assert.InDelta(t, 50.0, resp.Progress.WaterPercent, 0.01)
	assert.InDelta(t, 50.0, resp.Progress.StepsPercent, 0.01)
}

func TestBuildCapsPercentAndFloorsRemaining(t *testing.T) {
	summary := diary.Summary{CaloriesEaten: 3000, WaterIntake: 2500}
	goals := user.DailyGoals{Calories: 2000, WaterML: 2000, Steps: 8000}

	resp := Build("2024-01-01", summary, goals)

	assert.Equal(t, 0, resp.Progress.CaloriesRemaining)
	assert.InDelta(t, 100.0, resp.Progress.CaloriesPercent, 0.01)
	assert.InDelta(t, 100.0, resp.Progress.WaterPercent, 0.01)
	assert.Zero(t, resp.Progress.StepsPercent)
}

func TestBuildZeroGoals(t *testing.T) {
	resp := Build("2024-01-01", diary.Summary{Steps: 5000}, user.DailyGoals{})

	assert.Zero(t, resp.Progress.StepsPercent)
	assert.Zero(t, resp.Progress.CaloriesPercent)
}
