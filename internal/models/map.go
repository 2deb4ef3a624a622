// Package models defines the core data structures and database interaction logic.
// It includes entity definitions and methods for persistence and validation.
package models

import "time"

type RelationshipType string

const (
	DependsOn  RelationshipType = "depends_on"
	Provides   RelationshipType = "provides"
	ConsistsOf RelationshipType = "consists_of"
)

// Component is a positioned node on a map. X is evolution, Y is value; both
// are expected in [0,1] but are not validated.
type Component struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

type Relationship struct {
	Source string           `json:"source" yaml:"source"`
	Target string           `json:"target" yaml:"target"`
	Type   RelationshipType `json:"type" yaml:"type"`
}

// Key identifies a relationship by its (source, target, type) triple.
func (r Relationship) Key() string {
	return r.Source + "\x00" + r.Target + "\x00" + string(r.Type)
}

// Snapshot is the unit of input handed to the analysis engine.
type Snapshot struct {
	Components    []Component    `json:"components" yaml:"components"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
	Comment       string         `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type Map struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewMap is the creation payload for a map and its optional first version.
type NewMap struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	OwnerID        string    `json:"owner_id"`
	CurrentVersion *Snapshot `json:"current_version,omitempty"`
}

type MapVersion struct {
	ID            int64          `json:"id"`
	MapID         int64          `json:"map_id"`
	Version       int            `json:"version"`
	Components    []Component    `json:"components"`
	Relationships []Relationship `json:"relationships"`
	Analysis      *MapAnalysis   `json:"analysis,omitempty"`
	Comment       string         `json:"comment"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (v *MapVersion) Snapshot() Snapshot {
	return Snapshot{
		Components:    v.Components,
		Relationships: v.Relationships,
		Comment:       v.Comment,
	}
}

// Extraction is what the text pipeline proposes for a piece of prose.
type Extraction struct {
	Components    []Component    `json:"components"`
	Relationships []Relationship `json:"relationships"`
	Description   string         `json:"description"`
}
