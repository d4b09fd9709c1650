package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ClerkID       string    `json:"clerk_id" db:"clerk_id"`
	Email         string    `json:"email" db:"email"`
	Username      string    `json:"username" db:"username"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	WeightKg      *float64  `json:"weight_kg" db:"weight_kg"`
	HeightCm      *float64  `json:"height_cm" db:"height_cm"`
	BirthYear     *int      `json:"birth_year" db:"birth_year"`
	Gender        *string   `json:"gender" db:"gender"`
	ActivityLevel string    `json:"activity_level" db:"activity_level"`
	Goal          string    `json:"goal" db:"goal"` // lose | maintain | gain
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
