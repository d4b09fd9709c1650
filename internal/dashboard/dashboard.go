package dashboard

import (
	"math"

	"nutriDayAPI/internal/diary"
	"nutriDayAPI/internal/user"
)

type Progress struct {
	CaloriesEaten     int     `json:"calories_eaten"`
	CaloriesBurned    int     `json:"calories_burned"`
	CaloriesGoal      int     `json:"calories_goal"`
	CaloriesRemaining int     `json:"calories_remaining"`
	CaloriesPercent   float64 `json:"calories_percent"`
	WaterIntake       int     `json:"water_intake"`
	WaterGoalML       int     `json:"water_goal_ml"`
	WaterPercent      float64 `json:"water_percent"`
	Steps             int     `json:"steps"`
	StepsGoal         int     `json:"steps_goal"`
	StepsPercent      float64 `json:"steps_percent"`
}

type Response struct {
	Date     string          `json:"date"`
	Summary  diary.Summary   `json:"summary"`
	Goals    user.DailyGoals `json:"goals"`
	Progress Progress        `json:"progress"`
}

// Build combines a day's summary with the user's goals into dashboard
// progress figures. Percentages are capped at 100.
func Build(date string, s diary.Summary, g user.DailyGoals) Response {
	p := Progress{
		CaloriesEaten:  s.CaloriesEaten,
		CaloriesBurned: s.CaloriesBurned,
		CaloriesGoal:   g.Calories,
		WaterIntake:    s.WaterIntake,
		WaterGoalML:    g.WaterML,
		Steps:          s.Steps,
		StepsGoal:      g.Steps,
	}
	p.CaloriesRemaining = g.Calories - s.CaloriesEaten + s.CaloriesBurned
	if p.CaloriesRemaining < 0 {
		p.CaloriesRemaining = 0
	}
	p.CaloriesPercent = percent(s.CaloriesEaten, g.Calories)
	p.WaterPercent = percent(s.WaterIntake, g.WaterML)
	p.StepsPercent = percent(s.Steps, g.Steps)

	return Response{Date: date, Summary: s, Goals: g, Progress: p}
}

func percent(value, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	pct := float64(value) / float64(goal) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*10) / 10
}
