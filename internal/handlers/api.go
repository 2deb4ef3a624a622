// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wardleyscope/core/internal/analysis"
	"github.com/wardleyscope/core/internal/cache"
	"github.com/wardleyscope/core/internal/metrics"
	"github.com/wardleyscope/core/internal/models"
	"github.com/wardleyscope/core/internal/store"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies read by any handler.
const maxBodyBytes = 4 << 20

// ErrAnalysisTimeout is returned when an analysis outlives its deadline.
var ErrAnalysisTimeout = errors.New("analysis timed out")

// Analyzer is satisfied by *analysis.Engine.
type Analyzer interface {
	Analyze(snapshot models.Snapshot) *models.MapAnalysis
	Thresholds() analysis.Thresholds
}

// API carries the dependencies shared by every endpoint. Cache and Metrics
// are optional.
type API struct {
	Engine  Analyzer
	Store   store.Store
	Cache   cache.Cache
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	// Timeout bounds a single analysis; zero means no limit.
	Timeout time.Duration
}

func New(engine Analyzer, st store.Store, logger *zap.Logger) *API {
	return &API{Engine: engine, Store: st, Logger: logger}
}

// analyze runs the engine under the configured deadline, consulting the
// cache first when one is attached.
func (a *API) analyze(ctx context.Context, snapshot models.Snapshot) (*models.MapAnalysis, error) {
	key := a.cacheKey(snapshot)
	if key != "" {
		cached, err := a.Cache.Get(ctx, key)
		switch {
		case err == nil:
			a.observeCache("hit")
			return cached, nil
		case errors.Is(err, cache.ErrMiss):
			a.observeCache("miss")
		default:
			a.observeCache("error")
			a.Logger.Warn("analysis cache read failed", zap.Error(err))
		}
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan *models.MapAnalysis, 1)
	go func() {
		done <- a.Engine.Analyze(snapshot)
	}()

	select {
	case result := <-done:
		elapsed := time.Since(start)
		if a.Metrics != nil {
			a.Metrics.ObserveAnalysis(len(snapshot.Components), result, elapsed)
		}
		a.Logger.Debug("analysis finished",
			zap.Int("components", len(snapshot.Components)),
			zap.Int("relationships", len(snapshot.Relationships)),
			zap.Int("recommendations", len(result.Recommendations)),
			zap.Duration("elapsed", elapsed),
		)

		if key != "" {
			if err := a.Cache.Set(ctx, key, result); err != nil {
				a.Logger.Warn("analysis cache write failed", zap.Error(err))
			}
		}
		return result, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			if a.Metrics != nil {
				a.Metrics.AnalysisTimeouts.Inc()
			}
			a.Logger.Warn("analysis timed out",
				zap.Int("components", len(snapshot.Components)),
				zap.Duration("timeout", a.Timeout),
			)
			return nil, ErrAnalysisTimeout
		}
		return nil, fmt.Errorf("analysis abandoned: %w", ctx.Err())
	}
}

func (a *API) cacheKey(snapshot models.Snapshot) string {
	if a.Cache == nil {
		return ""
	}

	key, err := cache.Key(snapshot, a.Engine.Thresholds())
	if err != nil {
		a.Logger.Warn("failed to build cache key", zap.Error(err))
		return ""
	}
	return key
}

func (a *API) observeCache(result string) {
	if a.Metrics != nil {
		a.Metrics.ObserveCache(result)
	}
}

// analysisFailed writes the response for an error returned by analyze.
func (a *API) analysisFailed(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrAnalysisTimeout) {
		http.Error(w, "Analysis timed out", http.StatusServiceUnavailable)
		return
	}
	a.Logger.Info("analysis abandoned", zap.Error(err))
	http.Error(w, "Request cancelled", http.StatusServiceUnavailable)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return nil, false
	}

	return body, true
}

func (a *API) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		a.Logger.Error("failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
