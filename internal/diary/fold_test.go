package diary

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(t *testing.T, minute int, payload EntryPayload) *Entry {
	t.Helper()
	return &Entry{
		Type:    payload.Kind(),
		Time:    time.Date(2024, 1, 1, 8, minute, 0, 0, time.UTC),
		Payload: payload,
	}
}

func TestFoldEmptyDay(t *testing.T) {
	s := Fold(nil)

	assert.Equal(t, 0, s.CaloriesEaten)
	assert.Equal(t, 0, s.CaloriesBurned)
	assert.Equal(t, 0, s.WaterIntake)
	assert.Equal(t, 0, s.Steps)
	assert.Nil(t, s.Weight)
	assert.Zero(t, s.Protein)
	assert.Zero(t, s.Carbs)
	assert.Zero(t, s.Fat)
	assert.Zero(t, s.Fiber)
}

func TestFoldAccumulatesFoodMacros(t *testing.T) {
	entries := []*Entry{
		entryAt(t, 0, &FoodPayload{Calories: 300, Protein: 20, Carbs: 30, Fat: 10, Fiber: 4}),
		entryAt(t, 10, &FoodPayload{Calories: 450, Protein: 25, Carbs: 55, Fat: 12, Fiber: 6}),
		entryAt(t, 20, &FoodPayload{Calories: 250, Protein: 5, Carbs: 15, Fat: 18, Fiber: 2}),
	}

	s := Fold(entries)

	assert.Equal(t, 1000, s.CaloriesEaten)
	assert.InDelta(t, 50, s.Protein, 0.001)
	assert.InDelta(t, 100, s.Carbs, 0.001)
	assert.InDelta(t, 40, s.Fat, 0.001)
	assert.InDelta(t, 12, s.Fiber, 0.001)
}

func TestFoldStepsLastWriteWins(t *testing.T) {
	entries := []*Entry{
		entryAt(t, 0, &StepsPayload{Steps: 500, CaloriesBurned: 20}),
		entryAt(t, 30, &StepsPayload{Steps: 3000, CaloriesBurned: 120}),
	}

	s := Fold(entries)

	// Step counts are replaced, not summed; burned calories accumulate.
	assert.Equal(t, 3000, s.Steps)
	assert.Equal(t, 140, s.CaloriesBurned)
}

func TestFoldWeightLastWriteWins(t *testing.T) {
	entries := []*Entry{
		entryAt(t, 0, &WeightPayload{Value: 74.0, Unit: "kg"}),
		entryAt(t, 45, &WeightPayload{Value: 72.5, Unit: "kg"}),
	}

	s := Fold(entries)

	require.NotNil(t, s.Weight)
	assert.InDelta(t, 72.5, *s.Weight, 0.001)
}

func TestFoldWaterFloorsAtZero(t *testing.T) {
	entries := []*Entry{
		entryAt(t, 0, &WaterPayload{AmountML: 200}),
		entryAt(t, 5, &WaterPayload{AmountML: -500}),
	}

	s := Fold(entries)

	assert.Equal(t, 0, s.WaterIntake)
}

func TestFoldWaterCorrections(t *testing.T) {
	entries := []*Entry{
		entryAt(t, 0, &WaterPayload{AmountML: 500}),
		entryAt(t, 5, &WaterPayload{AmountML: 250}),
		entryAt(t, 10, &WaterPayload{AmountML: -250}),
	}

	s := Fold(entries)

	assert.Equal(t, 500, s.WaterIntake)
}

func TestFoldActivityAccumulatesBurn(t *testing.T) {
	entries := []*Entry{
		entryAt(t, 0, &ActivityPayload{Label: "running", DurationMin: 30, CaloriesBurned: 300}),
		entryAt(t, 30, &ActivityPayload{Label: "cycling", DurationMin: 45, CaloriesBurned: 250}),
		entryAt(t, 60, &StepsPayload{Steps: 4000, CaloriesBurned: 160}),
	}

	s := Fold(entries)

	assert.Equal(t, 710, s.CaloriesBurned)
	assert.Equal(t, 4000, s.Steps)
}

func TestFoldFullDayScenario(t *testing.T) {
	entries := []*Entry{
		entryAt(t, 0, &FoodPayload{Name: "oatmeal", Calories: 500, Protein: 30, Carbs: 40, Fat: 10, Fiber: 5, Meal: MealBreakfast}),
		entryAt(t, 10, &WaterPayload{AmountML: 250}),
		entryAt(t, 20, &StepsPayload{Steps: 4000, CaloriesBurned: 160}),
		entryAt(t, 30, &WeightPayload{Value: 72.5, Unit: "kg"}),
	}

	s := Fold(entries)

	assert.Equal(t, 500, s.CaloriesEaten)
	assert.Equal(t, 160, s.CaloriesBurned)
	assert.Equal(t, 250, s.WaterIntake)
	assert.Equal(t, 4000, s.Steps)
	require.NotNil(t, s.Weight)
	assert.InDelta(t, 72.5, *s.Weight, 0.001)
	assert.InDelta(t, 30, s.Protein, 0.001)
	assert.InDelta(t, 40, s.Carbs, 0.001)
	assert.InDelta(t, 10, s.Fat, 0.001)
	assert.InDelta(t, 5, s.Fiber, 0.001)
}

func TestFoldIdempotent(t *testing.T) {
	entries := []*Entry{
		entryAt(t, 0, &FoodPayload{Calories: 500, Protein: 30}),
		entryAt(t, 10, &WaterPayload{AmountML: 250}),
		entryAt(t, 20, &StepsPayload{Steps: 4000, CaloriesBurned: 160}),
	}

	first := Fold(entries)
	second := Fold(entries)

	assert.Equal(t, first, second)
}

func TestFoldDeletionRefold(t *testing.T) {
	food := entryAt(t, 0, &FoodPayload{Calories: 500, Protein: 30, Carbs: 40, Fat: 10, Fiber: 5})
	rest := []*Entry{
		entryAt(t, 10, &WaterPayload{AmountML: 250}),
		entryAt(t, 20, &StepsPayload{Steps: 4000, CaloriesBurned: 160}),
		entryAt(t, 30, &WeightPayload{Value: 72.5, Unit: "kg"}),
	}

	withFood := Fold(append([]*Entry{food}, rest...))
	withoutFood := Fold(rest)

	assert.Equal(t, 500, withFood.CaloriesEaten)
	assert.Equal(t, 0, withoutFood.CaloriesEaten)
	assert.Zero(t, withoutFood.Protein)

	// Everything else is unchanged by removing the food entry.
	assert.Equal(t, withFood.CaloriesBurned, withoutFood.CaloriesBurned)
	assert.Equal(t, withFood.WaterIntake, withoutFood.WaterIntake)
	assert.Equal(t, withFood.Steps, withoutFood.Steps)
	assert.Equal(t, *withFood.Weight, *withoutFood.Weight)
}

func TestDecodePayloadUnknownKind(t *testing.T) {
	_, err := DecodePayload("sleep", []byte(`{}`))
	assert.Error(t, err)
}

func TestDecodeFoodPayloadCoercesBadNumbers(t *testing.T) {
	raw := []byte(`{"name": "salad", "calories": "350", "protein": "abc", "carbs": 12.5, "fat": null}`)

	p, err := DecodePayload(KindFood, raw)
	require.NoError(t, err)

	food, ok := p.(*FoodPayload)
	require.True(t, ok)
	assert.Equal(t, "salad", food.Name)
	assert.Equal(t, 350, food.Calories)
	assert.Zero(t, food.Protein)
	assert.InDelta(t, 12.5, food.Carbs, 0.001)
	assert.Zero(t, food.Fat)
	assert.Zero(t, food.Fiber)
}

func TestEntryJSONShape(t *testing.T) {
	insight := "high in protein"
	e := &Entry{
		Type:      KindFood,
		Time:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		AIInsight: &insight,
		Payload:   &FoodPayload{Name: "chicken", Calories: 400, Protein: 45, Meal: MealLunch},
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "food", decoded["type"])
	assert.Equal(t, "high in protein", decoded["aiInsight"])
	payload, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "chicken", payload["name"])
	assert.EqualValues(t, 400, payload["calories"])

	var back Entry
	require.NoError(t, json.Unmarshal(data, &back))
	food, ok := back.Payload.(*FoodPayload)
	require.True(t, ok)
	assert.Equal(t, 400, food.Calories)
	assert.Equal(t, MealLunch, food.Meal)
}

func TestNormalizeDateStripsTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	d := NormalizeDate(time.Date(2024, 3, 15, 23, 45, 0, 0, loc))

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)
}
