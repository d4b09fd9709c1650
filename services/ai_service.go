package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"nutriDayAPI/internal/diary"
)

// aiCallTimeout bounds every model call. The vision endpoint gets no
// retries; a timeout surfaces as a single failure to the caller.
const aiCallTimeout = 30 * time.Second

const foodAnalysisPrompt = `You are a nutritionist. Analyze the food in this photo and estimate its
nutritional content for the visible portion:
- Name of the dish
- Calories
- Protein (g)
- Carbohydrates (g)
- Fat (g)
- Fiber (g)
- A one-sentence insight about the meal

Respond with a JSON object only, no markdown, in this exact shape:
{
  "name": "string",
  "calories": number,
  "protein": number,
  "carbs": number,
  "fat": number,
  "fiber": number,
  "insight": "string"
}
If the photo does not contain food, set all numbers to 0 and explain in "insight".`

type AIService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewAIService connects to Vertex AI. credentialsFile may be empty, in
// which case application default credentials apply.
func NewAIService(ctx context.Context, projectID, location, credentialsFile string) (*AIService, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: google project id is required", ErrValidation)
	}
	if location == "" {
		location = "us-central1"
	}

	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	return &AIService{
		client: client,
		model:  client.GenerativeModel("gemini-pro-vision"),
	}, nil
}

func (s *AIService) Close() error {
	return s.client.Close()
}

// AnalyzeFood sends the photo to the vision model and parses the nutrient
// estimate out of its response.
func (s *AIService) AnalyzeFood(ctx context.Context, imageData []byte, mimeType string) (*diary.FoodEstimate, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("%w: image data is required", ErrValidation)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	ctx, cancel := context.WithTimeout(ctx, aiCallTimeout)
	defer cancel()

	img := genai.ImageData(strings.TrimPrefix(mimeType, "image/"), imageData)
	resp, err := s.model.GenerateContent(ctx, genai.Text(foodAnalysisPrompt), img)
	if err != nil {
		return nil, fmt.Errorf("failed to call vision model: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("vision model returned no content")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	text = stripJSONFences(text)

	estimate := &diary.FoodEstimate{}
	if err := json.Unmarshal([]byte(text), estimate); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w while parsing %q", err, text)
	}

	if estimate.Name == "" && estimate.Calories == 0 {
		return nil, fmt.Errorf("no food recognized: %s", estimate.Insight)
	}

	return estimate, nil
}

// stripJSONFences removes the ```json code fences models wrap around
// structured output.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
