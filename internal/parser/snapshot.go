// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wardleyscope/core/internal/models"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a decoder from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func ParseSnapshot(data []byte, format Format) (*models.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty map data")
	}

	var snapshot models.Snapshot
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal map: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal map: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported map format %q", format)
	}

	if err := ValidateSnapshot(&snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// ValidateSnapshot checks that component ids are present and unique.
// Coordinates and relationship endpoints are left alone; analysis copes
// with out-of-range values and dangling relationships.
func ValidateSnapshot(snapshot *models.Snapshot) error {
	seen := make(map[string]bool, len(snapshot.Components))

	for i, c := range snapshot.Components {
		if c.ID == "" {
			return fmt.Errorf("invalid map: component %d missing id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("invalid map: duplicate component id %q", c.ID)
		}
		seen[c.ID] = true
	}

	return nil
}

func ParseNewMap(data []byte) (*models.NewMap, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty map data")
	}

	var m models.NewMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map: %w", err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("invalid map: missing name field")
	}

	if m.CurrentVersion != nil {
		if err := ValidateSnapshot(m.CurrentVersion); err != nil {
			return nil, err
		}
	}

	return &m, nil
}

type TextRequest struct {
	Text string `json:"text"`
}

func ParseText(data []byte) (string, error) {
	var req TextRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", fmt.Errorf("failed to unmarshal text request: %w", err)
	}

	if strings.TrimSpace(req.Text) == "" {
		return "", fmt.Errorf("invalid text request: missing text field")
	}

	return req.Text, nil
}
