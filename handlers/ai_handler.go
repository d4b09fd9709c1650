package handlers

import (
	"io"
	"log"
	"net/http"

	"nutriDayAPI/middleware"
	"nutriDayAPI/services"
)

const maxImageBytes = 10 << 20 // 10 MB

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// AnalyzeFood accepts a multipart "image" file and returns the model's
// nutrient estimate. No per-handler timeout here: the service bounds the
// model call itself.
func (h *AIHandler) AnalyzeFood(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if h.aiService == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Food analysis is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Form file 'image' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	estimate, err := h.aiService.AnalyzeFood(ctx, data, header.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("AnalyzeFood Handler: analysis failed: %v", err)
		respondWithError(w, http.StatusBadGateway, "Food analysis failed: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, estimate)
}
