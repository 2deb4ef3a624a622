// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardleyscope/core/internal/analysis"
	"github.com/wardleyscope/core/internal/cache"
	"github.com/wardleyscope/core/internal/metrics"
	"github.com/wardleyscope/core/internal/models"
	"github.com/wardleyscope/core/internal/store"
	"go.uber.org/zap/zaptest"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	api := New(analysis.NewDefault(), store.NewMemory(), zaptest.NewLogger(t))
	api.Metrics = metrics.New()
	api.Timeout = 2 * time.Second
	return api
}

// memCache is an in-process cache.Cache for exercising cache handling.
type memCache struct {
	mu      sync.Mutex
	entries map[string]*models.MapAnalysis
	failGet bool
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*models.MapAnalysis)}
}

func (c *memCache) Get(_ context.Context, key string) (*models.MapAnalysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failGet {
		return nil, errors.New("connection refused")
	}
	result, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return result, nil
}

func (c *memCache) Set(_ context.Context, key string, result *models.MapAnalysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	c.entries[key] = result
	return nil
}

// blockingEngine never finishes until release is closed.
type blockingEngine struct {
	release chan struct{}
}

func (e blockingEngine) Analyze(models.Snapshot) *models.MapAnalysis {
	<-e.release
	return &models.MapAnalysis{}
}

func (e blockingEngine) Thresholds() analysis.Thresholds {
	return analysis.DefaultThresholds()
}

func twoComponents() models.Snapshot {
	return models.Snapshot{
		Components: []models.Component{
			{ID: "user", Name: "User", X: 0.9, Y: 0.95},
			{ID: "db", Name: "Database", X: 0.8, Y: 0.2},
		},
		Relationships: []models.Relationship{
			{Source: "user", Target: "db", Type: models.DependsOn},
		},
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the engine", func(t *testing.T) {
		api := newTestAPI(t)

		result, err := api.analyze(ctx, twoComponents())
		require.NoError(t, err)

		assert.Equal(t, 2, result.Overall.ComponentCount)
		assert.Equal(t, 1, testutil.CollectAndCount(api.Metrics.AnalysisDuration))
	})

	t.Run("serves repeated input from the cache", func(t *testing.T) {
		api := newTestAPI(t)
		c := newMemCache()
		api.Cache = c

		first, err := api.analyze(ctx, twoComponents())
		require.NoError(t, err)
		second, err := api.analyze(ctx, twoComponents())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, c.sets)
		assert.Equal(t, 1.0, testutil.ToFloat64(api.Metrics.CacheLookups.WithLabelValues("hit")))
		assert.Equal(t, 1.0, testutil.ToFloat64(api.Metrics.CacheLookups.WithLabelValues("miss")))
	})

	t.Run("cache errors fall through to the engine", func(t *testing.T) {
		api := newTestAPI(t)
		api.Cache = &memCache{entries: map[string]*models.MapAnalysis{}, failGet: true}

		result, err := api.analyze(ctx, twoComponents())
		require.NoError(t, err)
		assert.Equal(t, 2, result.Overall.ComponentCount)
		assert.Equal(t, 1.0, testutil.ToFloat64(api.Metrics.CacheLookups.WithLabelValues("error")))
	})

	t.Run("times out", func(t *testing.T) {
		engine := blockingEngine{release: make(chan struct{})}
		defer close(engine.release)

		api := newTestAPI(t)
		api.Engine = engine
		api.Timeout = 20 * time.Millisecond

		_, err := api.analyze(ctx, twoComponents())
		assert.ErrorIs(t, err, ErrAnalysisTimeout)
		assert.Equal(t, 1.0, testutil.ToFloat64(api.Metrics.AnalysisTimeouts))
	})

	t.Run("gives up when the caller goes away", func(t *testing.T) {
		engine := blockingEngine{release: make(chan struct{})}
		defer close(engine.release)

		api := newTestAPI(t)
		api.Engine = engine

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := api.analyze(cancelled, twoComponents())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrAnalysisTimeout)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("works without metrics", func(t *testing.T) {
		api := newTestAPI(t)
		api.Metrics = nil

		_, err := api.analyze(ctx, twoComponents())
		assert.NoError(t, err)
	})
}
