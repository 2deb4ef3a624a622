// Package analysis turns a component graph into position classifications,
// network diagnostics, aggregate metrics and strategic recommendations.
package analysis

import (
	"github.com/wardleyscope/core/internal/graph"
	"github.com/wardleyscope/core/internal/models"
)

type Engine struct {
	thresholds Thresholds
}

func New(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

func NewDefault() *Engine {
	return New(DefaultThresholds())
}

func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Analyze runs the full pipeline over one snapshot. It is safe for
// concurrent use; each call builds its own graph.
func (e *Engine) Analyze(snapshot models.Snapshot) *models.MapAnalysis {
	t := e.thresholds
	g := graph.Build(snapshot.Components, snapshot.Relationships)
	scores := t.Scores(g)

	components := make(map[string]models.ComponentAnalysis, g.Len())
	for i := 0; i < g.Len(); i++ {
		c := g.Node(i)
		components[c.ID] = models.ComponentAnalysis{
			Component:        c,
			PositionAnalysis: t.Classify(c),
			Network: models.NodeMetrics{
				Betweenness: scores.Betweenness[i],
				Influence:   scores.Influence[i],
				InDegree:    g.InDegree(i),
				OutDegree:   g.OutDegree(i),
			},
		}
	}

	network := t.Network(g, scores)

	return &models.MapAnalysis{
		Components:      components,
		Relationships:   network,
		Overall:         Aggregate(snapshot.Components, snapshot.Relationships, g),
		Recommendations: t.Recommend(snapshot.Components, g, scores.Betweenness, network),
	}
}
