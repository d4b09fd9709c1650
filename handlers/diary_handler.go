package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"nutriDayAPI/internal/dashboard"
	"nutriDayAPI/internal/diary"
	"nutriDayAPI/middleware"
	"nutriDayAPI/services"
)

type DiaryHandler struct {
	diaryService *services.DiaryService
	userService  *services.UserService
}

func NewDiaryHandler(diaryService *services.DiaryService, userService *services.UserService) *DiaryHandler {
	return &DiaryHandler{
		diaryService: diaryService,
		userService:  userService,
	}
}

// GetDay returns the diary day for ?date=YYYY-MM-DD (today by default)
// with entries ordered by time and the current summary.
func (h *DiaryHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	date, err := h.dateParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	day, err := h.diaryService.GetDay(ctx, clerkID, date)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, day)
}

func (h *DiaryHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req diary.AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("AddEntry Handler: Failed to decode request body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	day, err := h.diaryService.AddEntry(ctx, clerkID, &req)
	if err != nil {
		middleware.CountRecompute("error")
		respondWithServiceError(w, err)
		return
	}

	middleware.CountRecompute("ok")
	respondWithJSON(w, http.StatusCreated, day)
}

func (h *DiaryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid entry id")
		return
	}

	var req diary.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	day, err := h.diaryService.UpdateEntry(ctx, clerkID, entryID, &req)
	if err != nil {
		middleware.CountRecompute("error")
		respondWithServiceError(w, err)
		return
	}

	middleware.CountRecompute("ok")
	respondWithJSON(w, http.StatusOK, day)
}

func (h *DiaryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid entry id")
		return
	}

	day, err := h.diaryService.DeleteEntry(ctx, clerkID, entryID)
	if err != nil {
		middleware.CountRecompute("error")
		respondWithServiceError(w, err)
		return
	}

	middleware.CountRecompute("ok")
	respondWithJSON(w, http.StatusOK, day)
}

// GetDashboard combines the day's summary with the user's goals.
func (h *DiaryHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	date, err := h.dateParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	day, err := h.diaryService.GetDay(ctx, clerkID, date)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	goals, err := h.userService.GetDailyGoals(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard.Build(day.Date, day.Summary, *goals))
}

func (h *DiaryHandler) dateParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), nil
	}
	return diary.ParseDate(raw)
}
