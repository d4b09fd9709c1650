package diary

// Fold reduces a day's entries into its Summary, starting from the zero
// accumulator. Food and activity values accumulate; steps count and body
// weight are overwritten by each entry encountered, so callers must pass
// entries ordered by ascending time for the latest one to win. Water may
// go negative mid-fold (corrections) and is clamped to zero at the end.
func Fold(entries []*Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch p := e.Payload.(type) {
		case *FoodPayload:
			s.CaloriesEaten += p.Calories
			s.Protein += p.Protein
			s.Carbs += p.Carbs
			s.Fat += p.Fat
			s.Fiber += p.Fiber
		case *WaterPayload:
			s.WaterIntake += p.AmountML
		case *StepsPayload:
			s.Steps = p.Steps
			s.CaloriesBurned += p.CaloriesBurned
		case *WeightPayload:
			v := p.Value
			s.Weight = &v
		case *ActivityPayload:
			s.CaloriesBurned += p.CaloriesBurned
		}
	}
	if s.WaterIntake < 0 {
		s.WaterIntake = 0
	}
	return s
}
