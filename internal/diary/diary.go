package diary

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EntryKind string

const (
	KindFood     EntryKind = "food"
	KindWater    EntryKind = "water"
	KindSteps    EntryKind = "steps"
	KindWeight   EntryKind = "weight"
	KindActivity EntryKind = "activity"
)

func (k EntryKind) Valid() bool {
	switch k {
	case KindFood, KindWater, KindSteps, KindWeight, KindActivity:
		return true
	}
	return false
}

type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
	MealSnack     MealSlot = "snack"
	MealOther     MealSlot = "other"
)

// EntryPayload is the closed set of kind-specific entry data. Each variant
// carries only the fields that matter for its kind.
type EntryPayload interface {
	Kind() EntryKind
}

type FoodPayload struct {
	Name      string     `json:"name"`
	Calories  int        `json:"calories"`
	Protein   float64    `json:"protein"`
	Carbs     float64    `json:"carbs"`
	Fat       float64    `json:"fat"`
	Fiber     float64    `json:"fiber"`
	Amount    float64    `json:"amount"`
	Unit      string     `json:"unit"`
	Meal      MealSlot   `json:"meal"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
}

func (*FoodPayload) Kind() EntryKind { return KindFood }

// UnmarshalJSON coerces missing or non-numeric nutrient fields to zero
// instead of failing, so one bad field never blocks a summary.
func (p *FoodPayload) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	p.Name = looseString(m["name"])
	p.Calories = int(looseNumber(m["calories"]))
	p.Protein = looseNumber(m["protein"])
	p.Carbs = looseNumber(m["carbs"])
	p.Fat = looseNumber(m["fat"])
	p.Fiber = looseNumber(m["fiber"])
	p.Amount = looseNumber(m["amount"])
	p.Unit = looseString(m["unit"])
	p.Meal = MealSlot(looseString(m["meal"]))
	if raw, ok := m["product_id"]; ok {
		if id, err := uuid.Parse(looseString(raw)); err == nil {
			p.ProductID = &id
		}
	}
	return nil
}

// WaterPayload amounts are in ml. Negative amounts are corrections that
// remove previously logged water.
type WaterPayload struct {
	AmountML int `json:"amount_ml"`
}

func (*WaterPayload) Kind() EntryKind { return KindWater }

type StepsPayload struct {
	Steps          int     `json:"steps"`
	DistanceKM     float64 `json:"distance_km"`
	CaloriesBurned int     `json:"calories_burned"`
}

func (*StepsPayload) Kind() EntryKind { return KindSteps }

type WeightPayload struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"` // "kg" or "lb"
}

func (*WeightPayload) Kind() EntryKind { return KindWeight }

type ActivityPayload struct {
	Label          string  `json:"label"`
	DurationMin    float64 `json:"duration_min"`
	CaloriesBurned int     `json:"calories_burned"`
}

func (*ActivityPayload) Kind() EntryKind { return KindActivity }

// DecodePayload parses raw JSON into the variant matching kind.
func DecodePayload(kind EntryKind, raw []byte) (EntryPayload, error) {
	if len(raw) == 0 {
		raw = []byte(`{}`)
	}
	var p EntryPayload
	switch kind {
	case KindFood:
		p = &FoodPayload{}
	case KindWater:
		p = &WaterPayload{}
	case KindSteps:
		p = &StepsPayload{}
	case KindWeight:
		p = &WeightPayload{}
	case KindActivity:
		p = &ActivityPayload{}
	default:
		return nil, fmt.Errorf("unknown entry kind: %s", kind)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", kind, err)
	}
	return p, nil
}

type Entry struct {
	ID        uuid.UUID    `json:"id"`
	DayID     uuid.UUID    `json:"-"`
	Type      EntryKind    `json:"type"`
	Time      time.Time    `json:"time"`
	AIInsight *string      `json:"aiInsight,omitempty"`
	ImagePath *string      `json:"imagePath,omitempty"`
	Payload   EntryPayload `json:"data"`
}

// UnmarshalJSON decodes the payload into the variant named by the type
// field, since an interface field cannot be unmarshaled directly.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        uuid.UUID       `json:"id"`
		Type      EntryKind       `json:"type"`
		Time      time.Time       `json:"time"`
		AIInsight *string         `json:"aiInsight"`
		ImagePath *string         `json:"imagePath"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	payload, err := DecodePayload(raw.Type, raw.Data)
	if err != nil {
		return err
	}

	e.ID = raw.ID
	e.Type = raw.Type
	e.Time = raw.Time
	e.AIInsight = raw.AIInsight
	e.ImagePath = raw.ImagePath
	e.Payload = payload
	return nil
}

// Summary is the denormalized per-day aggregate. It is a cache over the
// day's entries and is always rebuilt by a full fold, never patched.
type Summary struct {
	CaloriesEaten  int      `json:"caloriesEaten"`
	CaloriesBurned int      `json:"caloriesBurned"`
	WaterIntake    int      `json:"waterIntake"`
	Steps          int      `json:"steps"`
	Weight         *float64 `json:"weight"`
	Protein        float64  `json:"protein"`
	Carbs          float64  `json:"carbs"`
	Fat            float64  `json:"fat"`
	Fiber          float64  `json:"fiber"`
}

type DayRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Date      time.Time `json:"date" db:"date"`
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type DayResponse struct {
	ID      uuid.UUID `json:"id"`
	Date    string    `json:"date"`
	Entries []*Entry  `json:"entries"`
	Summary Summary   `json:"summary"`
}

type AddEntryRequest struct {
	Date      string          `json:"date"` // "2006-01-02", empty means today
	Type      EntryKind       `json:"type"`
	Time      *time.Time      `json:"time,omitempty"`
	AIInsight *string         `json:"aiInsight,omitempty"`
	ImagePath *string         `json:"imagePath,omitempty"`
	Data      json.RawMessage `json:"data"`
}

type UpdateEntryRequest struct {
	Time      *time.Time      `json:"time,omitempty"`
	AIInsight *string         `json:"aiInsight,omitempty"`
	ImagePath *string         `json:"imagePath,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// FoodEstimate is the nutrient guess returned by photo analysis. It maps
// one-to-one onto a FoodPayload draft on the client.
type FoodEstimate struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Insight  string  `json:"insight,omitempty"`
}

const DateLayout = "2006-01-02"

// NormalizeDate strips the time-of-day component. Days are keyed by
// calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

func looseNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}
