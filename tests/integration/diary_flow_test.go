package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriDayAPI/handlers"
	"nutriDayAPI/internal/diary"
	modelUser "nutriDayAPI/internal/user"
	"nutriDayAPI/middleware"
	"nutriDayAPI/services"
	"nutriDayAPI/tests/helpers"
)

func newTestUser(t *testing.T, userService *services.UserService) string {
	t.Helper()
	clerkID := fmt.Sprintf("user_test_%d", time.Now().UnixNano())
	_, err := userService.CreateUser(context.Background(), &modelUser.CreateUserRequest{
		ClerkID:  clerkID,
		Email:    clerkID + "@example.com",
		Username: clerkID,
	})
	require.NoError(t, err)
	return clerkID
}

func authedRequest(method, target string, body []byte, clerkID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
	return req.WithContext(ctx)
}

// TestDiaryDayFlow walks the full log-and-summarize cycle: add food,
// water, steps and weight entries, verify the folded summary, then delete
// the food entry and verify the re-fold.
func TestDiaryDayFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	diaryService := services.NewDiaryService(pool, userService, nil)
	diaryHandler := handlers.NewDiaryHandler(diaryService, userService)

	clerkID := newTestUser(t, userService)
	date := "2024-06-01"

	add := func(body string) diary.DayResponse {
		req := authedRequest(http.MethodPost, "/api/v1/diary/entries", []byte(body), clerkID)
		rr := httptest.NewRecorder()
		diaryHandler.AddEntry(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var day diary.DayResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &day))
		return day
	}

	add(fmt.Sprintf(`{"date": "%s", "type": "food", "data": {"name": "bowl", "calories": 500, "protein": 30, "carbs": 40, "fat": 10, "fiber": 5, "meal": "lunch"}}`, date))
	add(fmt.Sprintf(`{"date": "%s", "type": "water", "data": {"amount_ml": 250}}`, date))
	add(fmt.Sprintf(`{"date": "%s", "type": "steps", "data": {"steps": 4000, "calories_burned": 160}}`, date))
	day := add(fmt.Sprintf(`{"date": "%s", "type": "weight", "data": {"value": 72.5, "unit": "kg"}}`, date))

	assert.Equal(t, 500, day.Summary.CaloriesEaten)
	assert.Equal(t, 160, day.Summary.CaloriesBurned)
	assert.Equal(t, 250, day.Summary.WaterIntake)
	assert.Equal(t, 4000, day.Summary.Steps)
	require.NotNil(t, day.Summary.Weight)
	assert.InDelta(t, 72.5, *day.Summary.Weight, 0.001)
	assert.InDelta(t, 30, day.Summary.Protein, 0.001)
	assert.Len(t, day.Entries, 4)

	// Recompute with no intervening changes yields the same summary.
	recomputed, err := diaryService.Recompute(context.Background(), day.ID)
	require.NoError(t, err)
	assert.Equal(t, day.Summary, recomputed)

	// Delete the food entry and verify everything else is untouched.
	var foodEntryID string
	for _, e := range day.Entries {
		if e.Type == diary.KindFood {
			foodEntryID = e.ID.String()
		}
	}
	require.NotEmpty(t, foodEntryID)

	req := authedRequest(http.MethodDelete, "/api/v1/diary/entries/"+foodEntryID, nil, clerkID)
	req = mux.SetURLVars(req, map[string]string{"id": foodEntryID})
	rr := httptest.NewRecorder()
	diaryHandler.DeleteEntry(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var after diary.DayResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &after))

	assert.Equal(t, 0, after.Summary.CaloriesEaten)
	assert.Zero(t, after.Summary.Protein)
	assert.Equal(t, 160, after.Summary.CaloriesBurned)
	assert.Equal(t, 250, after.Summary.WaterIntake)
	assert.Equal(t, 4000, after.Summary.Steps)
	assert.Len(t, after.Entries, 3)
}

func TestGetOrCreateDayUniqueness(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	diaryService := services.NewDiaryService(pool, userService, nil)

	clerkID := newTestUser(t, userService)
	date := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)

	const callers = 8
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day, err := diaryService.GetOrCreateDay(context.Background(), clerkID, date)
			if assert.NoError(t, err) {
				ids[i] = day.ID.String()
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Equal(t, ids[0], ids[i], "all callers must observe the same day row")
	}

	var count int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM diary_days d JOIN users u ON u.id = d.user_id WHERE u.clerk_id = $1`,
		clerkID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdateEntryPatchesOnlySuppliedFields(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	diaryService := services.NewDiaryService(pool, userService, nil)

	clerkID := newTestUser(t, userService)

	day, err := diaryService.AddEntry(context.Background(), clerkID, &diary.AddEntryRequest{
		Date: "2024-06-02",
		Type: diary.KindFood,
		Data: json.RawMessage(`{"name": "toast", "calories": 200, "protein": 6, "carbs": 30, "fat": 4, "meal": "breakfast"}`),
	})
	require.NoError(t, err)
	require.Len(t, day.Entries, 1)

	updated, err := diaryService.UpdateEntry(context.Background(), clerkID, day.Entries[0].ID, &diary.UpdateEntryRequest{
		Data: json.RawMessage(`{"calories": 250}`),
	})
	require.NoError(t, err)

	food, ok := updated.Entries[0].Payload.(*diary.FoodPayload)
	require.True(t, ok)
	assert.Equal(t, 250, food.Calories)
	assert.Equal(t, "toast", food.Name)
	assert.InDelta(t, 6, food.Protein, 0.001)
	assert.Equal(t, 250, updated.Summary.CaloriesEaten)
}

func TestWebhookCreatesAndDeletesUser(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)

	t.Setenv("CLERK_WEBHOOK_SECRET", "")

	clerkID := fmt.Sprintf("user_test_wh_%d", time.Now().UnixNano())

	payload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	u, err := userService.GetUserByClerkID(context.Background(), clerkID)
	require.NoError(t, err)
	assert.Equal(t, "test.user@example.com", u.Email)
	assert.True(t, u.EmailVerified)

	payload = helpers.MockClerkWebhookPayload("user.deleted", clerkID)
	req = httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr = httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err = userService.GetUserByClerkID(context.Background(), clerkID)
	assert.Error(t, err)
}
