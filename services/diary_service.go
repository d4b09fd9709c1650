package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nutriDayAPI/internal/diary"
	"nutriDayAPI/utils"
)

type DiaryService struct {
	db            *pgxpool.Pool
	users         *UserService
	notifications *NotificationService
}

func NewDiaryService(db *pgxpool.Pool, users *UserService, notifications *NotificationService) *DiaryService {
	return &DiaryService{db: db, users: users, notifications: notifications}
}

// GetOrCreateDay resolves the diary day for (user, date), creating a
// zero-valued row on first access. The unique (user_id, date) index makes
// concurrent first accesses converge on one row: the insert is a no-op for
// the loser and the follow-up select returns the winner's row.
func (s *DiaryService) GetOrCreateDay(ctx context.Context, clerkID string, date time.Time) (*diary.DayRecord, error) {
	if clerkID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	day := diary.NormalizeDate(date)

	_, err = s.db.Exec(ctx, `
	INSERT INTO diary_days (id, user_id, date, created_at, updated_at)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (user_id, date) DO NOTHING
	`, uuid.New(), userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to create diary day: %w", err)
	}

	return s.getDayRow(ctx, userID, day)
}

func (s *DiaryService) getDayRow(ctx context.Context, userID uuid.UUID, day time.Time) (*diary.DayRecord, error) {
	query := `
	SELECT id, user_id, date, calories_eaten, calories_burned, water_intake, steps, weight,
	       protein, carbs, fat, fiber, created_at, updated_at
	FROM diary_days
	WHERE user_id = $1 AND date = $2
	`

	d := &diary.DayRecord{}
	err := s.db.QueryRow(ctx, query, userID, day).Scan(
		&d.ID,
		&d.UserID,
		&d.Date,
		&d.Summary.CaloriesEaten,
		&d.Summary.CaloriesBurned,
		&d.Summary.WaterIntake,
		&d.Summary.Steps,
		&d.Summary.Weight,
		&d.Summary.Protein,
		&d.Summary.Carbs,
		&d.Summary.Fat,
		&d.Summary.Fiber,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: diary day", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get diary day: %w", err)
	}

	return d, nil
}

// GetDay returns the day with its entries ordered by time plus the current
// summary, creating the day when absent.
func (s *DiaryService) GetDay(ctx context.Context, clerkID string, date time.Time) (*diary.DayResponse, error) {
	d, err := s.GetOrCreateDay(ctx, clerkID, date)
	if err != nil {
		return nil, err
	}

	entries, err := s.listEntries(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	return &diary.DayResponse{
		ID:      d.ID,
		Date:    d.Date.Format(diary.DateLayout),
		Entries: entries,
		Summary: d.Summary,
	}, nil
}

// listEntries reads the full entry set of a day ordered by logged_at ASC
// (id as tie-break) so last-write-wins folds are deterministic.
func (s *DiaryService) listEntries(ctx context.Context, dayID uuid.UUID) ([]*diary.Entry, error) {
	query := `
	SELECT id, day_id, kind, logged_at, ai_insight, image_path, payload
	FROM diary_entries
	WHERE day_id = $1
	ORDER BY logged_at ASC, id ASC
	`

	rows, err := s.db.Query(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	defer rows.Close()

	var entries []*diary.Entry
	for rows.Next() {
		e := &diary.Entry{}
		var raw []byte
		err := rows.Scan(&e.ID, &e.DayID, &e.Type, &e.Time, &e.AIInsight, &e.ImagePath, &raw)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Payload, err = diary.DecodePayload(e.Type, raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	if entries == nil {
		entries = []*diary.Entry{}
	}

	return entries, nil
}

// Recompute folds every entry of the day into a fresh summary and writes
// it onto the day row. It is a full pull-based recompute invoked after each
// entry mutation; a failure leaves the previous summary untouched.
func (s *DiaryService) Recompute(ctx context.Context, dayID uuid.UUID) (diary.Summary, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM diary_days WHERE id = $1)`, dayID).Scan(&exists)
	if err != nil {
		return diary.Summary{}, fmt.Errorf("failed to check diary day: %w", err)
	}
	if !exists {
		return diary.Summary{}, fmt.Errorf("%w: diary day %s", ErrNotFound, dayID)
	}

	entries, err := s.listEntries(ctx, dayID)
	if err != nil {
		return diary.Summary{}, err
	}

	summary := diary.Fold(entries)

	_, err = s.db.Exec(ctx, `
	UPDATE diary_days
	SET calories_eaten = $2, calories_burned = $3, water_intake = $4, steps = $5, weight = $6,
	    protein = $7, carbs = $8, fat = $9, fiber = $10, updated_at = NOW()
	WHERE id = $1
	`,
		dayID,
		summary.CaloriesEaten,
		summary.CaloriesBurned,
		summary.WaterIntake,
		summary.Steps,
		summary.Weight,
		summary.Protein,
		summary.Carbs,
		summary.Fat,
		summary.Fiber,
	)
	if err != nil {
		return diary.Summary{}, fmt.Errorf("failed to write summary: %w", err)
	}

	return summary, nil
}

// AddEntry persists one logged event and recomputes the day's summary.
// Food entries referencing a catalog product inherit its nutrition values
// for any field left unset.
func (s *DiaryService) AddEntry(ctx context.Context, clerkID string, req *diary.AddEntryRequest) (*diary.DayResponse, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown entry type %q", ErrValidation, req.Type)
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := diary.ParseDate(req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		date = parsed
	}

	day, err := s.GetOrCreateDay(ctx, clerkID, date)
	if err != nil {
		return nil, err
	}

	payload, err := diary.DecodePayload(req.Type, req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if food, ok := payload.(*diary.FoodPayload); ok && food.ProductID != nil {
		if err := s.applyProductDefaults(ctx, food); err != nil {
			log.Printf("AddEntry: could not apply product defaults: %v", err)
		}
	}

	if steps, ok := payload.(*diary.StepsPayload); ok {
		s.fillStepsDerived(ctx, clerkID, steps)
	}

	loggedAt := time.Now()
	if req.Time != nil {
		loggedAt = *req.Time
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	_, err = s.db.Exec(ctx, `
	INSERT INTO diary_entries (id, day_id, kind, logged_at, ai_insight, image_path, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, uuid.New(), day.ID, req.Type, loggedAt, req.AIInsight, req.ImagePath, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	summary, err := s.Recompute(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	s.checkGoalProgress(ctx, clerkID, day.UserID, summary)

	return s.dayResponse(ctx, day.ID, day.Date, summary)
}

// UpdateEntry patches only the supplied fields of an entry. The kind is
// fixed at creation; payload fields are overlaid onto the stored payload.
func (s *DiaryService) UpdateEntry(ctx context.Context, clerkID string, entryID uuid.UUID, req *diary.UpdateEntryRequest) (*diary.DayResponse, error) {
	dayID, dayDate, kind, rawPayload, err := s.getOwnedEntry(ctx, clerkID, entryID)
	if err != nil {
		return nil, err
	}

	merged := rawPayload
	if len(req.Data) > 0 {
		merged, err = mergePayload(kind, rawPayload, req.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	_, err = s.db.Exec(ctx, `
	UPDATE diary_entries
	SET logged_at = COALESCE($2, logged_at),
	    ai_insight = COALESCE($3, ai_insight),
	    image_path = COALESCE($4, image_path),
	    payload = $5
	WHERE id = $1
	`, entryID, req.Time, req.AIInsight, req.ImagePath, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	summary, err := s.Recompute(ctx, dayID)
	if err != nil {
		return nil, err
	}

	return s.dayResponse(ctx, dayID, dayDate, summary)
}

// DeleteEntry removes an entry and re-folds the remaining set.
func (s *DiaryService) DeleteEntry(ctx context.Context, clerkID string, entryID uuid.UUID) (*diary.DayResponse, error) {
	dayID, dayDate, _, _, err := s.getOwnedEntry(ctx, clerkID, entryID)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(ctx, `DELETE FROM diary_entries WHERE id = $1`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: entry", ErrNotFound)
	}

	summary, err := s.Recompute(ctx, dayID)
	if err != nil {
		return nil, err
	}

	return s.dayResponse(ctx, dayID, dayDate, summary)
}

func (s *DiaryService) dayResponse(ctx context.Context, dayID uuid.UUID, date time.Time, summary diary.Summary) (*diary.DayResponse, error) {
	entries, err := s.listEntries(ctx, dayID)
	if err != nil {
		return nil, err
	}
	return &diary.DayResponse{
		ID:      dayID,
		Date:    date.Format(diary.DateLayout),
		Entries: entries,
		Summary: summary,
	}, nil
}

// getOwnedEntry loads an entry and verifies it belongs to the caller.
func (s *DiaryService) getOwnedEntry(ctx context.Context, clerkID string, entryID uuid.UUID) (dayID uuid.UUID, dayDate time.Time, kind diary.EntryKind, payload []byte, err error) {
	query := `
	SELECT e.day_id, d.date, e.kind, e.payload
	FROM diary_entries e
	INNER JOIN diary_days d ON d.id = e.day_id
	INNER JOIN users u ON u.id = d.user_id
	WHERE e.id = $1 AND u.clerk_id = $2
	`

	err = s.db.QueryRow(ctx, query, entryID, clerkID).Scan(&dayID, &dayDate, &kind, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("%w: entry", ErrNotFound)
			return
		}
		err = fmt.Errorf("failed to get entry: %w", err)
	}
	return
}

func (s *DiaryService) applyProductDefaults(ctx context.Context, food *diary.FoodPayload) error {
	query := `
	SELECT name, serving_amount, serving_unit, calories, protein, carbs, fat, fiber
	FROM products
	WHERE id = $1
	`

	var (
		name          string
		servingAmount float64
		servingUnit   string
		calories      int
		protein       float64
		carbs         float64
		fat           float64
		fiber         float64
	)
	err := s.db.QueryRow(ctx, query, *food.ProductID).Scan(
		&name, &servingAmount, &servingUnit, &calories, &protein, &carbs, &fat, &fiber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if food.Name == "" {
		food.Name = name
	}
	if food.Amount == 0 {
		food.Amount = servingAmount
	}
	if food.Unit == "" {
		food.Unit = servingUnit
	}
	if food.Calories == 0 && food.Protein == 0 && food.Carbs == 0 && food.Fat == 0 {
		food.Calories = calories
		food.Protein = protein
		food.Carbs = carbs
		food.Fat = fat
		food.Fiber = fiber
	}
	return nil
}

// fillStepsDerived computes distance and calorie burn when the client only
// sent a raw step count. Burn estimation uses the profile weight if set.
func (s *DiaryService) fillStepsDerived(ctx context.Context, clerkID string, steps *diary.StepsPayload) {
	if steps.DistanceKM == 0 {
		steps.DistanceKM = utils.StepsDistanceKM(steps.Steps)
	}
	if steps.CaloriesBurned != 0 {
		return
	}

	weightKg := 0.0
	if u, err := s.users.GetUserByClerkID(ctx, clerkID); err == nil && u.WeightKg != nil {
		weightKg = *u.WeightKg
	}
	steps.CaloriesBurned = utils.EstimateStepsCalories(steps.Steps, weightKg)
}

// checkGoalProgress fires a push when the day crosses a goal. Failures are
// logged only; goal nudges never fail a mutation.
func (s *DiaryService) checkGoalProgress(ctx context.Context, clerkID string, userID uuid.UUID, summary diary.Summary) {
	if s.notifications == nil {
		return
	}

	goals, err := s.users.GetDailyGoals(ctx, clerkID)
	if err != nil {
		log.Printf("checkGoalProgress: failed to get goals: %v", err)
		return
	}

	if goals.WaterML > 0 && summary.WaterIntake >= goals.WaterML {
		s.notifications.NotifyGoalReached(ctx, userID, "Hydration goal reached",
			fmt.Sprintf("You logged %d ml of water today. Goal complete!", summary.WaterIntake))
	}
	if goals.Steps > 0 && summary.Steps >= goals.Steps {
		s.notifications.NotifyGoalReached(ctx, userID, "Step goal reached",
			fmt.Sprintf("%d steps today. Goal complete!", summary.Steps))
	}
}

// mergePayload overlays the supplied JSON fields onto the stored payload
// and re-validates the result against the entry's kind.
func mergePayload(kind diary.EntryKind, stored, patch []byte) ([]byte, error) {
	var base map[string]json.RawMessage
	if err := json.Unmarshal(stored, &base); err != nil {
		base = map[string]json.RawMessage{}
	}

	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, fmt.Errorf("invalid entry data: %v", err)
	}
	for k, v := range overlay {
		base[k] = v
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}

	payload, err := diary.DecodePayload(kind, merged)
	if err != nil {
		return nil, err
	}

	// Re-encode through the typed payload so unknown keys are dropped.
	return json.Marshal(payload)
}
