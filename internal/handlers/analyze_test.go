// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardleyscope/core/internal/models"
)

const twoComponentJSON = `{
	"components": [
		{"id": "user", "name": "User", "x": 0.9, "y": 0.95},
		{"id": "db", "name": "Database", "x": 0.8, "y": 0.2}
	],
	"relationships": [
		{"source": "user", "target": "db", "type": "depends_on"}
	]
}`

func TestAnalyzeMap(t *testing.T) {
	api := newTestAPI(t)

	t.Run("returns the analysis", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze-map", strings.NewReader(twoComponentJSON))
		w := httptest.NewRecorder()

		api.AnalyzeMap(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var result models.MapAnalysis
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))

		assert.Equal(t, 2, result.Overall.ComponentCount)
		assert.Equal(t, 1, result.Overall.RelationshipCount)
		assert.Equal(t, models.Commodity, result.Components["user"].PositionAnalysis.EvolutionStage)
		assert.Equal(t, models.HighValue, result.Components["user"].PositionAnalysis.ValueClassification)
		assert.Equal(t, models.Commodity, result.Components["db"].PositionAnalysis.EvolutionStage)
		assert.Equal(t, models.LowValue, result.Components["db"].PositionAnalysis.ValueClassification)
		require.Len(t, result.Recommendations, 1)
		assert.Equal(t, "user", result.Recommendations[0].ComponentID)
		assert.Equal(t, "Consider outsourcing or using existing solutions", result.Recommendations[0].Recommendation)
	})

	t.Run("empty map encodes empty lists", func(t *testing.T) {
		body := `{"components": [], "relationships": []}`
		req := httptest.NewRequest(http.MethodPost, "/analyze-map", strings.NewReader(body))
		w := httptest.NewRecorder()

		api.AnalyzeMap(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"recommendations":[]`)
		assert.Contains(t, w.Body.String(), `"cycles":[]`)
	})

	t.Run("pretty printing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze-map?pretty=true", strings.NewReader(twoComponentJSON))
		w := httptest.NewRecorder()

		api.AnalyzeMap(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\n  \"components\"")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze-map", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		api.AnalyzeMap(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid map")
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		body := `{"components": [{"id": "a", "x": 0.1, "y": 0.1}, {"id": "a", "x": 0.2, "y": 0.2}]}`
		req := httptest.NewRequest(http.MethodPost, "/analyze-map", strings.NewReader(body))
		w := httptest.NewRecorder()

		api.AnalyzeMap(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "duplicate component id")
	})

	t.Run("rejects empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze-map", strings.NewReader(""))
		w := httptest.NewRecorder()

		api.AnalyzeMap(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		body := strings.Repeat(" ", maxBodyBytes+1)
		req := httptest.NewRequest(http.MethodPost, "/analyze-map", strings.NewReader(body))
		w := httptest.NewRecorder()

		api.AnalyzeMap(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("returns 405 for GET request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyze-map", nil)
		w := httptest.NewRecorder()

		api.AnalyzeMap(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Contains(t, w.Body.String(), "Method not allowed")
	})

	t.Run("returns 503 when analysis times out", func(t *testing.T) {
		engine := blockingEngine{release: make(chan struct{})}
		defer close(engine.release)

		slow := newTestAPI(t)
		slow.Engine = engine
		slow.Timeout = 10 * time.Millisecond

		req := httptest.NewRequest(http.MethodPost, "/analyze-map", strings.NewReader(twoComponentJSON))
		w := httptest.NewRecorder()

		slow.AnalyzeMap(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCreateMapFromText(t *testing.T) {
	api := newTestAPI(t)

	t.Run("extracts components and relationships", func(t *testing.T) {
		body := `{"text": "The website depends on database. The database is a commodity service."}`
		req := httptest.NewRequest(http.MethodPost, "/create-map", strings.NewReader(body))
		w := httptest.NewRecorder()

		api.CreateMapFromText(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var extraction models.Extraction
		require.NoError(t, json.NewDecoder(w.Body).Decode(&extraction))

		assert.NotEmpty(t, extraction.Components)
		assert.NotEmpty(t, extraction.Relationships)
		assert.NotEmpty(t, extraction.Description)
	})

	t.Run("rejects missing text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/create-map", strings.NewReader(`{"text": "  "}`))
		w := httptest.NewRecorder()

		api.CreateMapFromText(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 405 for GET request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/create-map", nil)
		w := httptest.NewRecorder()

		api.CreateMapFromText(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
