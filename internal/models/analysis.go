// Package models defines the core data structures and database interaction logic.
// It includes entity definitions and methods for persistence and validation.
package models

type EvolutionStage string

const (
	Genesis     EvolutionStage = "Genesis"
	CustomBuilt EvolutionStage = "Custom Built"
	Product     EvolutionStage = "Product"
	Commodity   EvolutionStage = "Commodity"
)

type ValueClass string

const (
	LowValue    ValueClass = "Low"
	MediumValue ValueClass = "Medium"
	HighValue   ValueClass = "High"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Classification struct {
	EvolutionStage        EvolutionStage `json:"evolution_stage"`
	Characteristics       []string       `json:"characteristics"`
	ValueClassification   ValueClass     `json:"value_classification"`
	StrategicImplications []string       `json:"strategic_implications"`
	IsStrategic           bool           `json:"is_strategic"`
}

// NodeMetrics are the per-component network measures.
type NodeMetrics struct {
	Betweenness float64 `json:"betweenness"`
	Influence   float64 `json:"influence"`
	InDegree    int     `json:"in_degree"`
	OutDegree   int     `json:"out_degree"`
}

type ComponentAnalysis struct {
	Component        Component      `json:"component"`
	PositionAnalysis Classification `json:"position_analysis"`
	Network          NodeMetrics    `json:"network"`
}

type ScoredNode struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type DependencyChain struct {
	ID              string `json:"id"`
	DependenciesIn  int    `json:"dependencies_in"`
	DependenciesOut int    `json:"dependencies_out"`
}

type NetworkAnalysis struct {
	Bottlenecks       []ScoredNode      `json:"bottlenecks"`
	Dependencies      []DependencyChain `json:"dependencies"`
	KeyComponents     []ScoredNode      `json:"key_components"`
	Isolated          []string          `json:"isolated"`
	Cycles            [][]string        `json:"cycles"`
	StrategicClusters [][]string        `json:"strategic_clusters"`
}

type MapMetrics struct {
	ComplexityScore   float64 `json:"complexity_score"`
	ComponentCount    int     `json:"component_count"`
	RelationshipCount int     `json:"relationship_count"`
	AverageEvolution  float64 `json:"average_evolution"`
	AverageValue      float64 `json:"average_value"`
}

type StrategicRecommendation struct {
	ComponentID    string   `json:"component_id"`
	Recommendation string   `json:"recommendation"`
	Priority       Priority `json:"priority"`
	Impact         float64  `json:"impact"`
	Effort         float64  `json:"effort"`
	Rationale      string   `json:"rationale"`
}

// MapAnalysis is the full result of analysing one snapshot. Components is
// keyed by component id.
type MapAnalysis struct {
	Components      map[string]ComponentAnalysis `json:"components"`
	Relationships   NetworkAnalysis              `json:"relationships"`
	Overall         MapMetrics                   `json:"overall"`
	Recommendations []StrategicRecommendation    `json:"recommendations"`
}

type ComponentMove struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	From Point  `json:"from"`
	To   Point  `json:"to"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VersionDiff describes how the current snapshot differs from a previous one.
type VersionDiff struct {
	FromVersion int `json:"from_version,omitempty"`
	ToVersion   int `json:"to_version,omitempty"`
	Components  struct {
		Added   []Component     `json:"added"`
		Removed []Component     `json:"removed"`
		Moved   []ComponentMove `json:"moved"`
	} `json:"components"`
	Relationships struct {
		Added   []Relationship `json:"added"`
		Removed []Relationship `json:"removed"`
	} `json:"relationships"`
}

func (d *VersionDiff) Empty() bool {
	return len(d.Components.Added) == 0 &&
		len(d.Components.Removed) == 0 &&
		len(d.Components.Moved) == 0 &&
		len(d.Relationships.Added) == 0 &&
		len(d.Relationships.Removed) == 0
}
