// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register mounts every endpoint on r. Single-purpose endpoints check the
// method themselves; the map resources let the router reject other verbs.
func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/health", a.Health)
	r.HandleFunc("/analyze-map", a.AnalyzeMap)
	r.HandleFunc("/create-map", a.CreateMapFromText)

	r.HandleFunc("/maps/", a.CreateMap).Methods(http.MethodPost)
	r.HandleFunc("/maps/{id}/versions", a.CreateVersion).Methods(http.MethodPost)
	r.HandleFunc("/maps/{id}/versions", a.ListVersions).Methods(http.MethodGet)
	r.HandleFunc("/maps/{id}/versions/{version}", a.GetVersion).Methods(http.MethodGet)
	r.HandleFunc("/maps/{id}/versions/{version}/graph", a.VersionGraph).Methods(http.MethodGet)
	r.HandleFunc("/maps/{id}/versions/{version}/compare/{other}", a.CompareVersions).Methods(http.MethodGet)
}
