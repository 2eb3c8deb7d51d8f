package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupSuggestTest creates a Gin engine with a mock OpenAI server and returns
// the router and a function to set the mock response. No DB needed — the
// prompt builder falls back to the generic prompt when h.db is nil.
func setupSuggestTest() (*gin.Engine, *httptest.Server, func(int, interface{})) {
	var mockStatus int
	var mockBody interface{}

	mockOpenAI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))

	gin.SetMode(gin.TestMode)
	h := Handler{openAIBaseURL: mockOpenAI.URL}
	router := gin.New()
	// Skip auth middleware for tests — set a dummy user_id
	router.POST("/api/suggest", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.suggestMeal)

	setMock := func(status int, body interface{}) {
		mockStatus = status
		mockBody = body
	}

	return router, mockOpenAI, setMock
}

// doSuggestRequest sends a POST to the suggest endpoint with the given body.
func doSuggestRequest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/suggest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"content": content,
				},
			},
		},
	}
}

func TestSuggest_MealSuccess(t *testing.T) {
	router, mockServer, setMock := setupSuggestTest()
	defer mockServer.Close()

	suggestion := `{"item_name":"Chicken Burrito Bowl","calories":620,"protein_g":42,"carbs_g":55,"fat_g":24,"sugar_g":6,"sodium_mg":980,"confidence":4}`
	setMock(http.StatusOK, openAIChatResponse(suggestion))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"chicken burrito bowl with rice and beans"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp suggestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ItemName != "Chicken Burrito Bowl" {
		t.Errorf("expected item_name 'Chicken Burrito Bowl', got '%s'", resp.ItemName)
	}
	if resp.Calories != 620 {
		t.Errorf("expected calories 620, got %d", resp.Calories)
	}
	if resp.SodiumMg != 980 {
		t.Errorf("expected sodium_mg 980, got %d", resp.SodiumMg)
	}
}

func TestSuggest_Unrecognized(t *testing.T) {
	router, mockServer, setMock := setupSuggestTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"error":"unrecognized"}`))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"asdfghjkl"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "unrecognized" {
		t.Errorf("expected error 'unrecognized', got '%s'", resp["error"])
	}
}

func TestSuggest_OpenAIError500(t *testing.T) {
	router, mockServer, setMock := setupSuggestTest()
	defer mockServer.Close()

	setMock(http.StatusInternalServerError, map[string]string{"error": "server error"})
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"banana"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "openai request failed" {
		t.Errorf("expected error 'openai request failed', got '%s'", resp["error"])
	}
}

func TestSuggest_EmptyDescription(t *testing.T) {
	router, mockServer, _ := setupSuggestTest()
	defer mockServer.Close()

	w := doSuggestRequest(router, `{"description":""}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSuggest_MalformedJSON(t *testing.T) {
	router, mockServer, setMock := setupSuggestTest()
	defer mockServer.Close()

	// OpenAI returns something that isn't valid JSON
	setMock(http.StatusOK, openAIChatResponse(`not valid json at all`))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"banana"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
}
