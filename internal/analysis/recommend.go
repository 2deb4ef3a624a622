// Package analysis turns a component graph into position classifications,
// network diagnostics, aggregate metrics and strategic recommendations.
package analysis

import (
	"fmt"

	"github.com/wardleyscope/core/internal/graph"
	"github.com/wardleyscope/core/internal/models"
)

// Recommend applies the recommendation rules in order. Every matching rule
// contributes its own entry: first the per-component rules for each
// component in input order, then isolation, cycle and cluster rules.
func (t Thresholds) Recommend(
	components []models.Component,
	g *graph.Graph,
	betweenness []float64,
	network models.NetworkAnalysis,
) []models.StrategicRecommendation {
	recs := []models.StrategicRecommendation{}

	for _, c := range components {
		recs = append(recs, t.componentRules(c, g, betweenness)...)
	}

	for _, id := range network.Isolated {
		recs = append(recs, models.StrategicRecommendation{
			ComponentID:    id,
			Recommendation: "Consider integrating this isolated component",
			Priority:       models.PriorityMedium,
			Impact:         0.5,
			Effort:         0.4,
			Rationale:      "Isolated components may indicate missed opportunities",
		})
	}

	for _, cycle := range network.Cycles {
		recs = append(recs, models.StrategicRecommendation{
			ComponentID:    cycle[0],
			Recommendation: "Consider breaking circular dependency",
			Priority:       models.PriorityHigh,
			Impact:         0.8,
			Effort:         0.7,
			Rationale:      "Circular dependencies can cause maintenance issues",
		})
	}

	for _, cluster := range network.StrategicClusters {
		recs = append(recs, models.StrategicRecommendation{
			ComponentID:    cluster[0],
			Recommendation: "Consider creating a dedicated team for this strategic cluster",
			Priority:       models.PriorityHigh,
			Impact:         0.9,
			Effort:         0.8,
			Rationale:      "Strategic components should be managed together",
		})
	}

	return recs
}

func (t Thresholds) componentRules(c models.Component, g *graph.Graph, betweenness []float64) []models.StrategicRecommendation {
	var recs []models.StrategicRecommendation

	if c.Y > t.HighValue && c.X < t.GenesisLimit {
		recs = append(recs, models.StrategicRecommendation{
			ComponentID:    c.ID,
			Recommendation: "Consider investing in R&D to evolve this strategic component",
			Priority:       models.PriorityHigh,
			Impact:         0.9,
			Effort:         0.8,
			Rationale:      "High-value components in genesis stage need rapid evolution",
		})
	}

	if c.Y > t.HighValue && c.X > t.ProductLimit {
		recs = append(recs, models.StrategicRecommendation{
			ComponentID:    c.ID,
			Recommendation: "Consider outsourcing or using existing solutions",
			Priority:       models.PriorityMedium,
			Impact:         0.7,
			Effort:         0.5,
			Rationale:      "High-value commodity could be replaced with existing solutions",
		})
	}

	// Independent of the reported bottleneck list, which uses a lower threshold.
	if i, ok := g.Index(c.ID); ok && betweenness[i] > t.BottleneckRule {
		recs = append(recs, models.StrategicRecommendation{
			ComponentID:    c.ID,
			Recommendation: "Consider breaking down or duplicating this component",
			Priority:       models.PriorityHigh,
			Impact:         0.8,
			Effort:         0.7,
			Rationale:      "Component is a potential bottleneck in the value chain",
		})
	}

	if next, ok := t.NextStage(c.X); ok {
		recs = append(recs, models.StrategicRecommendation{
			ComponentID:    c.ID,
			Recommendation: fmt.Sprintf("Consider evolving to %s stage", next),
			Priority:       models.PriorityMedium,
			Impact:         0.6,
			Effort:         0.6,
			Rationale:      fmt.Sprintf("Natural evolution path available to %s", next),
		})
	}

	return recs
}
