// Package main starts an HTTP server that analyses Wardley maps and stores
// their version history. It wires configuration, logging, storage, caching
// and metrics around the internal handlers package.
package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wardleyscope/core/cmd/api/middleware"
	"github.com/wardleyscope/core/internal/analysis"
	"github.com/wardleyscope/core/internal/cache"
	"github.com/wardleyscope/core/internal/config"
	"github.com/wardleyscope/core/internal/handlers"
	"github.com/wardleyscope/core/internal/metrics"
	"github.com/wardleyscope/core/internal/store"
	"go.uber.org/zap"
)

type deps struct {
	store   store.Store
	cache   *cache.Redis
	metrics *metrics.Metrics
}

func (d *deps) Close() error {
	var errs []error
	if d.cache != nil {
		errs = append(errs, d.cache.Close())
	}
	errs = append(errs, d.store.Close())
	return errors.Join(errs...)
}

// openDeps connects the backends named in cfg, falling back to an
// in-memory store and no cache when none are configured.
func openDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*deps, error) {
	d := &deps{metrics: metrics.New()}

	if cfg.Database.URL != "" {
		pg, err := store.OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		d.store = pg
	} else {
		logger.Warn("no database configured, maps are kept in memory")
		d.store = store.NewMemory()
	}

	if cfg.Redis.Addr != "" {
		c, err := cache.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			d.store.Close()
			return nil, err
		}
		d.cache = c
	}

	return d, nil
}

// newHandler builds the full middleware chain around the API routes.
func newHandler(cfg *config.Config, d *deps, logger *zap.Logger) http.Handler {
	api := handlers.New(analysis.New(cfg.Analysis.Thresholds), d.store, logger)
	api.Metrics = d.metrics
	api.Timeout = cfg.Analysis.Timeout
	if d.cache != nil {
		api.Cache = d.cache
	}

	router := mux.NewRouter()
	router.Use(middleware.Instrument(d.metrics))
	api.Register(router)
	router.Handle("/metrics", d.metrics.Handler()).Methods(http.MethodGet)

	var h http.Handler = router
	if cfg.Server.RateLimit > 0 {
		h = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst).Middleware(h)
	}
	h = middleware.AccessLog(logger)(h)
	h = middleware.Cors(cfg.Server.CORSOrigin)(h)
	return middleware.RequestID(h)
}
