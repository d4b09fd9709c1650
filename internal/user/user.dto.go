package user

type CreateUserRequest struct {
	ClerkID   string `json:"clerk_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

type UpdateProfileRequest struct {
	Username      string   `json:"username"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	ImageURL      string   `json:"imageUrl"`
	WeightKg      *float64 `json:"weightKg"`
	HeightCm      *float64 `json:"heightCm"`
	BirthYear     *int     `json:"birthYear"`
	Gender        *string  `json:"gender"`
	ActivityLevel string   `json:"activityLevel"`
	Goal          string   `json:"goal"`
}

// DailyGoals are the per-day targets derived from the user's profile.
type DailyGoals struct {
	Calories   int     `json:"calories"`
	WaterML    int     `json:"water_ml"`
	Steps      int     `json:"steps"`
	ProteinG   float64 `json:"protein_g"`
	BMR        float64 `json:"bmr"`
	TDEE       float64 `json:"tdee"`
	ProfileSet bool    `json:"profile_set"`
}
