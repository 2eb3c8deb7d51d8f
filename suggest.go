package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /api/suggest.
type suggestRequest struct {
	Description string `json:"description"`
}

// suggestionResponse is the structured meal suggestion returned by the AI.
// Confidence is 1-5 indicating how accurate the nutrition estimate is.
type suggestionResponse struct {
	ItemName   string  `json:"item_name"`
	Calories   int     `json:"calories"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	FatG       float64 `json:"fat_g"`
	SugarG     float64 `json:"sugar_g"`
	SodiumMg   int     `json:"sodium_mg"`
	Confidence int     `json:"confidence"`
}

/* ─── OpenAI prompt constants ────────────────────────────────────────── */

// mealSystemPromptTemplate includes placeholders for the user's adjusted
// daily targets so the AI can suggest portions that fit what's left of the day.
const mealSystemPromptTemplate = `You are a nutrition assistant. The user's daily targets today are:
- Calories: %d kcal
- Protein: %.1f g
- Carbs: %.1f g
- Fat: %.1f g
- Sugar: %.1f g
- Sodium: %d mg

Parse the meal description and return a JSON object with:
- "item_name" (string, cleaned up title case)
- "calories" (integer, total for the described portion)
- "protein_g" (number, grams)
- "carbs_g" (number, grams)
- "fat_g" (number, grams)
- "sugar_g" (number, grams)
- "sodium_mg" (integer, milligrams)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Use your knowledge of similar foods to approximate. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

// mealSystemPromptFallback is used when the user has no computed targets yet.
const mealSystemPromptFallback = `You are a nutrition assistant. No daily targets are available for this user — estimate for a typical adult.

Parse the meal description and return a JSON object with:
- "item_name" (string, cleaned up title case)
- "calories" (integer, total for the described portion)
- "protein_g" (number, grams)
- "carbs_g" (number, grams)
- "fat_g" (number, grams)
- "sugar_g" (number, grams)
- "sodium_mg" (integer, milligrams)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food at all.
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string                 `json:"model"`
	Messages       []openAIMessage        `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the raw content string
// from the first choice. Uses raw net/http to avoid pulling in the OpenAI SDK.
func callOpenAI(ctx context.Context, messages []openAIMessage, baseURL string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := openAIRequest{
		Model:       "gpt-4o-mini",
		Messages:    messages,
		Temperature: 0,
		ResponseFormat: map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	// Parse the response to extract choices[0].message.content
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestMeal handles POST /api/suggest.
// Accepts a free-form meal description, calls OpenAI to parse it into
// structured nutrition data sized against the user's current daily targets,
// and returns the suggestion.
func (h *Handler) suggestMeal(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	messages := []openAIMessage{
		{Role: "system", Content: h.buildMealPrompt(c)},
		{Role: "user", Content: req.Description},
	}

	content, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL)
	if err != nil {
		log.Printf("[suggest] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// Check if the AI returned an "unrecognized" error
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[suggest] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	// Parse the suggestion
	var suggestion suggestionResponse
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		log.Printf("[suggest] Failed to parse suggestion JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// Validate that we got a usable response (at minimum, item_name and calories)
	if suggestion.ItemName == "" || suggestion.Calories == 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// buildMealPrompt loads the user's adjusted targets for today and builds the
// meal system prompt. Falls back to a generic prompt when the profile is
// incomplete or the DB is unavailable.
func (h *Handler) buildMealPrompt(c *gin.Context) string {
	if h.db == nil {
		return mealSystemPromptFallback
	}
	userID := c.GetInt("user_id")
	today := time.Now().Format("2006-01-02")

	targets, _, _, ok, err := h.adjustedTargetsForDate(c, userID, today)
	if err != nil || !ok {
		return mealSystemPromptFallback
	}

	return fmt.Sprintf(mealSystemPromptTemplate,
		targets.Calories, targets.ProteinG, targets.CarbsG,
		targets.FatG, targets.SugarG, targets.SodiumMg)
}
