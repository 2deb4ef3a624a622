// Package analysis turns a component graph into position classifications,
// network diagnostics, aggregate metrics and strategic recommendations.
package analysis

import (
	"slices"

	"github.com/wardleyscope/core/internal/models"
)

var stageCharacteristics = map[models.EvolutionStage][]string{
	models.Genesis:     {"Undefined", "Rapidly changing", "Uncertain", "High risk"},
	models.CustomBuilt: {"Emerging", "Improving", "Reducing risk", "High learning"},
	models.Product:     {"Stable", "Feature-driven", "Market differentiation", "Scalable"},
	models.Commodity:   {"Standardized", "Cost-driven", "Reliable", "Utility-like"},
}

var valueImplications = map[models.ValueClass][]string{
	models.LowValue:    {"Outsource candidate", "Minimize investment", "Standardize"},
	models.MediumValue: {"Balance investment", "Maintain efficiency", "Consider partnerships"},
	models.HighValue:   {"Core focus", "Strategic investment", "In-house development"},
}

// Stage maps an evolution coordinate to its stage. A value exactly on a
// boundary belongs to the later stage.
func (t Thresholds) Stage(x float64) models.EvolutionStage {
	switch {
	case x < t.GenesisLimit:
		return models.Genesis
	case x < t.CustomLimit:
		return models.CustomBuilt
	case x < t.ProductLimit:
		return models.Product
	default:
		return models.Commodity
	}
}

// NextStage reports the stage after the one x is in; Commodity has none.
func (t Thresholds) NextStage(x float64) (models.EvolutionStage, bool) {
	switch t.Stage(x) {
	case models.Genesis:
		return models.CustomBuilt, true
	case models.CustomBuilt:
		return models.Product, true
	case models.Product:
		return models.Commodity, true
	default:
		return "", false
	}
}

func (t Thresholds) Value(y float64) models.ValueClass {
	switch {
	case y < t.LowValueLimit:
		return models.LowValue
	case y < t.MediumValueLimit:
		return models.MediumValue
	default:
		return models.HighValue
	}
}

func (t Thresholds) IsStrategic(c models.Component) bool {
	return c.Y > t.StrategicValue && c.X < t.StrategicEvolution
}

// Classify derives the position analysis of a single component from its
// coordinates alone.
func (t Thresholds) Classify(c models.Component) models.Classification {
	stage := t.Stage(c.X)
	value := t.Value(c.Y)

	return models.Classification{
		EvolutionStage:        stage,
		Characteristics:       slices.Clone(stageCharacteristics[stage]),
		ValueClassification:   value,
		StrategicImplications: slices.Clone(valueImplications[value]),
		IsStrategic:           t.IsStrategic(c),
	}
}
