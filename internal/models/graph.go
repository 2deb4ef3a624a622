// Package models defines the core data structures and database interaction logic.
// It includes entity definitions and methods for persistence and validation.
package models

// Graph is a render-ready view of one snapshot: nodes placed on the map,
// typed edges and summary counts.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats *Stats `json:"stats,omitempty"`
}

type Node struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Stage     EvolutionStage `json:"stage,omitempty"`
	Value     ValueClass     `json:"value,omitempty"`
	Strategic bool           `json:"strategic"`
	Isolated  bool           `json:"isolated"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type Edge struct {
	Source  string           `json:"source"`
	Target  string           `json:"target"`
	Type    RelationshipType `json:"type"`
	InCycle bool             `json:"in_cycle"`
}

type Stats struct {
	TotalNodes   int            `json:"total_nodes"`
	TotalEdges   int            `json:"total_edges"`
	NodesByStage map[string]int `json:"nodes_by_stage,omitempty"`
	EdgesByType  map[string]int `json:"edges_by_type,omitempty"`
}
