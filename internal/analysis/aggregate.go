// Package analysis turns a component graph into position classifications,
// network diagnostics, aggregate metrics and strategic recommendations.
package analysis

import (
	"github.com/wardleyscope/core/internal/graph"
	"github.com/wardleyscope/core/internal/models"
)

// Aggregate rolls up whole-map metrics. Counts are taken from the input as
// given; density comes from the built graph.
func Aggregate(components []models.Component, relationships []models.Relationship, g *graph.Graph) models.MapMetrics {
	metrics := models.MapMetrics{
		ComplexityScore:   g.Density(),
		ComponentCount:    len(components),
		RelationshipCount: len(relationships),
	}

	if len(components) == 0 {
		return metrics
	}

	var sumX, sumY float64
	for _, c := range components {
		sumX += c.X
		sumY += c.Y
	}
	metrics.AverageEvolution = sumX / float64(len(components))
	metrics.AverageValue = sumY / float64(len(components))

	return metrics
}
