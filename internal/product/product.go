package product

import (
	"time"

	"github.com/google/uuid"
)

// Product is a reusable nutrition template. Rows with a nil OwnerID are
// global catalog items visible to everyone; owned rows are private.
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	OwnerID       *uuid.UUID `json:"owner_id" db:"owner_id"`
	Name          string     `json:"name" db:"name"`
	Brand         *string    `json:"brand" db:"brand"`
	ServingAmount float64    `json:"serving_amount" db:"serving_amount"`
	ServingUnit   string     `json:"serving_unit" db:"serving_unit"`
	Calories      int        `json:"calories" db:"calories"`
	Protein       float64    `json:"protein" db:"protein"`
	Carbs         float64    `json:"carbs" db:"carbs"`
	Fat           float64    `json:"fat" db:"fat"`
	Fiber         float64    `json:"fiber" db:"fiber"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateProductRequest struct {
	Name          string  `json:"name"`
	Brand         *string `json:"brand"`
	ServingAmount float64 `json:"serving_amount"`
	ServingUnit   string  `json:"serving_unit"`
	Calories      int     `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbs         float64 `json:"carbs"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
}

type UpdateProductRequest struct {
	Name          string   `json:"name"`
	Brand         *string  `json:"brand"`
	ServingAmount *float64 `json:"serving_amount"`
	ServingUnit   string   `json:"serving_unit"`
	Calories      *int     `json:"calories"`
	Protein       *float64 `json:"protein"`
	Carbs         *float64 `json:"carbs"`
	Fat           *float64 `json:"fat"`
	Fiber         *float64 `json:"fiber"`
}
