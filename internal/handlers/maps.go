// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wardleyscope/core/internal/diff"
	"github.com/wardleyscope/core/internal/models"
	"github.com/wardleyscope/core/internal/parser"
	"github.com/wardleyscope/core/internal/store"
	"go.uber.org/zap"
)

const initialVersionComment = "Initial version"

type CreateMapResponse struct {
	ID      int64              `json:"id"`
	Map     *models.Map        `json:"map"`
	Version *models.MapVersion `json:"version,omitempty"`
}

// CreateMap stores a new map and, when current_version is given, analyses
// and stores it as version 1.
func (a *API) CreateMap(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	newMap, err := parser.ParseNewMap(body)
	if err != nil {
		http.Error(w, "Invalid map: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Analyse before creating anything so a timeout leaves no empty map.
	var result *models.MapAnalysis
	if newMap.CurrentVersion != nil {
		if result, err = a.analyze(ctx, *newMap.CurrentVersion); err != nil {
			a.analysisFailed(w, err)
			return
		}
	}

	m, err := a.Store.CreateMap(ctx, newMap)
	if err != nil {
		a.storeFailed(w, r, err)
		return
	}

	response := CreateMapResponse{ID: m.ID, Map: m}
	if newMap.CurrentVersion != nil {
		snapshot := *newMap.CurrentVersion
		if snapshot.Comment == "" {
			snapshot.Comment = initialVersionComment
		}

		version, err := a.Store.CreateVersion(ctx, m.ID, snapshot, result)
		if err != nil {
			a.storeFailed(w, r, err)
			return
		}
		response.Version = version
	}

	a.Logger.Info("map created", zap.Int64("map_id", m.ID), zap.Bool("with_version", response.Version != nil))
	a.writeJSON(w, r, http.StatusCreated, response)
}

func (a *API) CreateVersion(w http.ResponseWriter, r *http.Request) {
	mapID, ok := mapIDVar(w, r)
	if !ok {
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	snapshot, err := parser.ParseSnapshot(body, parser.FormatJSON)
	if err != nil {
		http.Error(w, "Invalid map: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if _, err := a.Store.GetMap(ctx, mapID); err != nil {
		a.storeFailed(w, r, err)
		return
	}

	result, err := a.analyze(ctx, *snapshot)
	if err != nil {
		a.analysisFailed(w, err)
		return
	}

	version, err := a.Store.CreateVersion(ctx, mapID, *snapshot, result)
	if err != nil {
		a.storeFailed(w, r, err)
		return
	}

	a.Logger.Info("version created", zap.Int64("map_id", mapID), zap.Int("version", version.Version))
	a.writeJSON(w, r, http.StatusCreated, version)
}

func (a *API) ListVersions(w http.ResponseWriter, r *http.Request) {
	mapID, ok := mapIDVar(w, r)
	if !ok {
		return
	}

	versions, err := a.Store.ListVersions(r.Context(), mapID)
	if err != nil {
		a.storeFailed(w, r, err)
		return
	}

	a.writeJSON(w, r, http.StatusOK, versions)
}

func (a *API) GetVersion(w http.ResponseWriter, r *http.Request) {
	mapID, ok := mapIDVar(w, r)
	if !ok {
		return
	}
	number, ok := versionVar(w, r, "version")
	if !ok {
		return
	}

	version, err := a.Store.GetVersion(r.Context(), mapID, number)
	if err != nil {
		a.storeFailed(w, r, err)
		return
	}

	a.writeJSON(w, r, http.StatusOK, version)
}

// CompareVersions reports what changed from the other version to version.
func (a *API) CompareVersions(w http.ResponseWriter, r *http.Request) {
	mapID, ok := mapIDVar(w, r)
	if !ok {
		return
	}
	number, ok := versionVar(w, r, "version")
	if !ok {
		return
	}
	other, ok := versionVar(w, r, "other")
	if !ok {
		return
	}

	ctx := r.Context()
	current, err := a.Store.GetVersion(ctx, mapID, number)
	if err != nil {
		a.storeFailed(w, r, err)
		return
	}
	previous, err := a.Store.GetVersion(ctx, mapID, other)
	if err != nil {
		a.storeFailed(w, r, err)
		return
	}

	a.writeJSON(w, r, http.StatusOK, diff.Versions(previous, current))
}

// VersionGraph renders a stored version as nodes and edges, decorated with
// the analysis saved alongside it.
func (a *API) VersionGraph(w http.ResponseWriter, r *http.Request) {
	mapID, ok := mapIDVar(w, r)
	if !ok {
		return
	}
	number, ok := versionVar(w, r, "version")
	if !ok {
		return
	}

	version, err := a.Store.GetVersion(r.Context(), mapID, number)
	if err != nil {
		a.storeFailed(w, r, err)
		return
	}

	a.writeJSON(w, r, http.StatusOK, parser.BuildGraph(version.Snapshot(), version.Analysis))
}

func (a *API) storeFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrMapNotFound):
		http.Error(w, "Map not found", http.StatusNotFound)
	case errors.Is(err, store.ErrVersionNotFound):
		http.Error(w, "Version not found", http.StatusNotFound)
	case errors.Is(err, store.ErrVersionConflict):
		http.Error(w, "Version conflict, retry", http.StatusConflict)
	default:
		a.Logger.Error("store operation failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func mapIDVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		http.Error(w, "Invalid map id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func versionVar(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || n < 1 {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
