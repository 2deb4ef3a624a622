// Package main starts an HTTP server that analyses Wardley maps and stores
// their version history. It wires configuration, logging, storage, caching
// and metrics around the internal handlers package.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardleyscope/core/cmd/api/middleware"
	"github.com/wardleyscope/core/internal/config"
	"github.com/wardleyscope/core/internal/handlers"
	"github.com/wardleyscope/core/internal/models"
	"go.uber.org/zap/zaptest"
)

const teaShop = `{
	"components": [
		{"id": "customer", "name": "Customer", "x": 0.95, "y": 0.99},
		{"id": "cup", "name": "Cup of tea", "x": 0.8, "y": 0.85},
		{"id": "tea", "name": "Tea", "x": 0.85, "y": 0.6},
		{"id": "kettle", "name": "Kettle", "x": 0.4, "y": 0.35},
		{"id": "power", "name": "Power", "x": 0.9, "y": 0.1}
	],
	"relationships": [
		{"source": "customer", "target": "cup", "type": "depends_on"},
		{"source": "cup", "target": "tea", "type": "consists_of"},
		{"source": "cup", "target": "kettle", "type": "depends_on"},
		{"source": "kettle", "target": "power", "type": "depends_on"}
	]
}`

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.RateLimit = 0

	d, err := openDeps(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	return newHandler(cfg, d, zaptest.NewLogger(t))
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMainRoutes(t *testing.T) {
	router := setupRouter(t)

	testCases := []struct {
		name           string
		path           string
		method         string
		body           string
		expectedStatus int
	}{
		{"health with GET", "/health", http.MethodGet, "", http.StatusOK},
		{"health with POST", "/health", http.MethodPost, "", http.StatusMethodNotAllowed},
		{"analyze with POST", "/analyze-map", http.MethodPost, teaShop, http.StatusOK},
		{"analyze with bad body", "/analyze-map", http.MethodPost, "invalid", http.StatusBadRequest},
		{"analyze with GET", "/analyze-map", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"create-map with POST", "/create-map", http.MethodPost, `{"text": "shop requires tea"}`, http.StatusOK},
		{"metrics with GET", "/metrics", http.MethodGet, "", http.StatusOK},
		{"preflight", "/maps/", http.MethodOptions, "", http.StatusNoContent},
		{"unknown path", "/unknown", http.MethodGet, "", http.StatusNotFound},
		{"root path", "/", http.MethodGet, "", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(router, tc.method, tc.path, tc.body)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestEndToEndFlow(t *testing.T) {
	router := setupRouter(t)

	t.Run("analyze, store, revise and compare", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/analyze-map", teaShop)
		require.Equal(t, http.StatusOK, w.Code)

		var analysis models.MapAnalysis
		require.NoError(t, json.NewDecoder(w.Body).Decode(&analysis))
		assert.Equal(t, 5, analysis.Overall.ComponentCount)
		assert.Equal(t, models.CustomBuilt, analysis.Components["kettle"].PositionAnalysis.EvolutionStage)
		require.NotEmpty(t, analysis.Relationships.Bottlenecks)
		assert.Equal(t, "cup", analysis.Relationships.Bottlenecks[0].ID)

		w = serve(router, http.MethodPost, "/maps/", fmt.Sprintf(`{"name": "Tea shop", "current_version": %s}`, teaShop))
		require.Equal(t, http.StatusCreated, w.Code)

		var created handlers.CreateMapResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

		revised := strings.Replace(teaShop, `"x": 0.4, "y": 0.35`, `"x": 0.7, "y": 0.35`, 1)
		w = serve(router, http.MethodPost, fmt.Sprintf("/maps/%d/versions", created.ID), revised)
		require.Equal(t, http.StatusCreated, w.Code)

		w = serve(router, http.MethodGet, fmt.Sprintf("/maps/%d/versions/2/compare/1", created.ID), "")
		require.Equal(t, http.StatusOK, w.Code)

		var d models.VersionDiff
		require.NoError(t, json.NewDecoder(w.Body).Decode(&d))
		require.Len(t, d.Components.Moved, 1)
		assert.Equal(t, "kettle", d.Components.Moved[0].ID)
		assert.Empty(t, d.Relationships.Added)
	})

	t.Run("metrics reflect traffic", func(t *testing.T) {
		serve(router, http.MethodGet, "/health", "")

		w := serve(router, http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `wardley_http_requests_total{code="200",method="GET",route="/health"}`)
		assert.Contains(t, w.Body.String(), "wardley_analysis_duration_seconds_count")
	})
}

func TestRateLimitWiring(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.RateLimit = 1
	cfg.Server.RateBurst = 1

	d, err := openDeps(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer d.Close()

	router := newHandler(cfg, d, zaptest.NewLogger(t))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/health", "").Code)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = newLogger(config.LogConfig{Level: "verbose", Format: "json"})
	assert.Error(t, err)
}
