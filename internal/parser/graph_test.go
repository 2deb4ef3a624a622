// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardleyscope/core/internal/analysis"
	"github.com/wardleyscope/core/internal/models"
)

func TestBuildGraph(t *testing.T) {
	snapshot := models.Snapshot{
		Components: []models.Component{
			{ID: "a", Name: "A", X: 0.1, Y: 0.9},
			{ID: "b", Name: "B", X: 0.6, Y: 0.5},
			{ID: "c", X: 0.9, Y: 0.1},
			{ID: "lonely", Name: "Lonely", X: 0.3, Y: 0.3},
		},
		Relationships: []models.Relationship{
			{Source: "a", Target: "b", Type: models.DependsOn},
			{Source: "b", Target: "c", Type: models.ConsistsOf},
			{Source: "c", Target: "b", Type: models.Provides},
			{Source: "a", Target: "b", Type: models.DependsOn},
			{Source: "a", Target: "ghost", Type: models.DependsOn},
		},
	}

	t.Run("without analysis", func(t *testing.T) {
		graph := BuildGraph(snapshot, nil)

		require.Len(t, graph.Nodes, 4)
		assert.Equal(t, "c", graph.Nodes[2].Label)
		assert.Empty(t, graph.Nodes[0].Stage)
		assert.Nil(t, graph.Nodes[0].Metadata)
		assert.True(t, graph.Nodes[3].Isolated)
		assert.False(t, graph.Nodes[0].Isolated)

		require.Len(t, graph.Edges, 3)
		for _, e := range graph.Edges {
			assert.False(t, e.InCycle)
		}

		assert.Equal(t, 4, graph.Stats.TotalNodes)
		assert.Equal(t, 3, graph.Stats.TotalEdges)
		assert.Empty(t, graph.Stats.NodesByStage)
		assert.Equal(t, 1, graph.Stats.EdgesByType["depends_on"])
		assert.Equal(t, 1, graph.Stats.EdgesByType["consists_of"])
		assert.Equal(t, 1, graph.Stats.EdgesByType["provides"])
	})

	t.Run("with analysis", func(t *testing.T) {
		result := analysis.NewDefault().Analyze(snapshot)
		graph := BuildGraph(snapshot, result)

		a := graph.Nodes[0]
		assert.Equal(t, models.Genesis, a.Stage)
		assert.Equal(t, models.HighValue, a.Value)
		assert.True(t, a.Strategic)
		assert.Contains(t, a.Metadata, "betweenness")
		assert.Contains(t, a.Metadata, "influence")

		assert.False(t, graph.Edges[0].InCycle)
		assert.True(t, graph.Edges[1].InCycle)
		assert.True(t, graph.Edges[2].InCycle)

		assert.Equal(t, 1, graph.Stats.NodesByStage["Genesis"])
		assert.Equal(t, 1, graph.Stats.NodesByStage["Commodity"])
	})

	t.Run("empty snapshot", func(t *testing.T) {
		graph := BuildGraph(models.Snapshot{}, nil)

		assert.NotNil(t, graph.Nodes)
		assert.NotNil(t, graph.Edges)
		assert.Zero(t, graph.Stats.TotalNodes)
	})
}
