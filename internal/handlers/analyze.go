// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"net/http"

	"github.com/wardleyscope/core/internal/extract"
	"github.com/wardleyscope/core/internal/parser"
)

// AnalyzeMap analyses a posted snapshot without storing it.
func (a *API) AnalyzeMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
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

	result, err := a.analyze(r.Context(), *snapshot)
	if err != nil {
		a.analysisFailed(w, err)
		return
	}

	a.writeJSON(w, r, http.StatusOK, result)
}

// CreateMapFromText proposes components and relationships for free text.
// Nothing is stored.
func (a *API) CreateMapFromText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	text, err := parser.ParseText(body)
	if err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	a.writeJSON(w, r, http.StatusOK, extract.Extract(text))
}
