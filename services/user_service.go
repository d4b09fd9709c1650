package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nutriDayAPI/internal/user"
	"nutriDayAPI/utils"
)

const (
	defaultWaterGoalML = 2000
	defaultStepsGoal   = 8000
	defaultCalorieGoal = 2000
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	if req.ClerkID == "" {
		return nil, fmt.Errorf("%w: clerk_id is required", ErrValidation)
	}

	u := &user.User{
		ID:            uuid.New(),
		ClerkID:       req.ClerkID,
		Email:         req.Email,
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ImageURL:      req.ImageURL,
		ActivityLevel: "sedentary",
		Goal:          "maintain",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	query := `
	INSERT INTO users (id, clerk_id, email, username, first_name, last_name, image_url, activity_level, goal, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		u.ImageURL,
		u.ActivityLevel,
		u.Goal,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, username, first_name, last_name, image_url, email_verified,
	       weight_kg, height_cm, birth_year, gender, activity_level, goal, created_at, updated_at
	FROM users
	WHERE clerk_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.WeightKg,
		&u.HeightCm,
		&u.BirthYear,
		&u.Gender,
		&u.ActivityLevel,
		&u.Goal,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		username = COALESCE(NULLIF($2, ''), username),
		first_name = COALESCE(NULLIF($3, ''), first_name),
		last_name = COALESCE(NULLIF($4, ''), last_name),
		image_url = COALESCE(NULLIF($5, ''), image_url),
		weight_kg = COALESCE($6, weight_kg),
		height_cm = COALESCE($7, height_cm),
		birth_year = COALESCE($8, birth_year),
		gender = COALESCE($9, gender),
		activity_level = COALESCE(NULLIF($10, ''), activity_level),
		goal = COALESCE(NULLIF($11, ''), goal),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING id, clerk_id, email, username, first_name, last_name, image_url, email_verified,
	          weight_kg, height_cm, birth_year, gender, activity_level, goal, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		clerkID,
		req.Username,
		req.FirstName,
		req.LastName,
		req.ImageURL,
		req.WeightKg,
		req.HeightCm,
		req.BirthYear,
		req.Gender,
		req.ActivityLevel,
		req.Goal,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.WeightKg,
		&u.HeightCm,
		&u.BirthYear,
		&u.Gender,
		&u.ActivityLevel,
		&u.Goal,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	return nil
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, clerkID string, verified bool) error {
	_, err := s.db.Exec(ctx, `
	UPDATE users
	SET email_verified = $2, updated_at = NOW()
	WHERE clerk_id = $1
	`, clerkID, verified)
	return err
}

// GetDailyGoals derives the user's per-day targets from their biometrics.
// Without a complete profile the defaults apply and ProfileSet is false.
func (s *UserService) GetDailyGoals(ctx context.Context, clerkID string) (*user.DailyGoals, error) {
	u, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	goals := &user.DailyGoals{
		Calories: defaultCalorieGoal,
		WaterML:  defaultWaterGoalML,
		Steps:    defaultStepsGoal,
	}

	if u.WeightKg == nil || u.HeightCm == nil || u.BirthYear == nil {
		return goals, nil
	}

	gender := ""
	if u.Gender != nil {
		gender = *u.Gender
	}

	goals.ProfileSet = true
	goals.BMR = utils.CalculateBMR(*u.WeightKg, *u.HeightCm, *u.BirthYear, gender)
	goals.TDEE = utils.CalculateTDEE(goals.BMR, u.ActivityLevel)

	target := goals.TDEE
	switch u.Goal {
	case "lose":
		target -= 500
	case "gain":
		target += 300
	}
	if target < 1200 {
		target = 1200
	}
	goals.Calories = int(target)
	goals.ProteinG = 1.6 * *u.WeightKg

	return goals, nil
}
