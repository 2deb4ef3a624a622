// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	"github.com/wardleyscope/core/internal/models"
)

// BuildGraph lays a snapshot out as nodes and edges. When result is non-nil
// nodes carry their classification and network scores, and edges that lie
// on a reported cycle are flagged. Relationships with an unknown endpoint
// and repeated relationships are dropped.
func BuildGraph(snapshot models.Snapshot, result *models.MapAnalysis) *models.Graph {
	graph := &models.Graph{
		Nodes: make([]models.Node, 0, len(snapshot.Components)),
		Edges: make([]models.Edge, 0, len(snapshot.Relationships)),
	}

	known := make(map[string]bool, len(snapshot.Components))

	for _, c := range snapshot.Components {
		if known[c.ID] {
			continue
		}
		known[c.ID] = true

		node := models.Node{
			ID:    c.ID,
			Label: c.Name,
			X:     c.X,
			Y:     c.Y,
		}
		if node.Label == "" {
			node.Label = c.ID
		}

		if result != nil {
			if ca, ok := result.Components[c.ID]; ok {
				node.Stage = ca.PositionAnalysis.EvolutionStage
				node.Value = ca.PositionAnalysis.ValueClassification
				node.Strategic = ca.PositionAnalysis.IsStrategic
				node.Metadata = map[string]any{
					"betweenness": ca.Network.Betweenness,
					"influence":   ca.Network.Influence,
				}
			}
		}

		graph.Nodes = append(graph.Nodes, node)
	}

	var onCycle map[[2]string]bool
	if result != nil {
		onCycle = cycleEdges(result.Relationships.Cycles)
	}

	seen := make(map[string]bool, len(snapshot.Relationships))
	linked := make(map[string]bool)
	for _, r := range snapshot.Relationships {
		if !known[r.Source] || !known[r.Target] || seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		linked[r.Source] = true
		linked[r.Target] = true

		graph.Edges = append(graph.Edges, models.Edge{
			Source:  r.Source,
			Target:  r.Target,
			Type:    r.Type,
			InCycle: onCycle[[2]string{r.Source, r.Target}],
		})
	}

	for i := range graph.Nodes {
		graph.Nodes[i].Isolated = !linked[graph.Nodes[i].ID]
	}

	graph.Stats = calculateStats(graph)

	return graph
}

func cycleEdges(cycles [][]string) map[[2]string]bool {
	edges := make(map[[2]string]bool)
	for _, cycle := range cycles {
		for i, id := range cycle {
			next := cycle[(i+1)%len(cycle)]
			edges[[2]string{id, next}] = true
		}
	}
	return edges
}

func calculateStats(graph *models.Graph) *models.Stats {
	stats := &models.Stats{
		TotalNodes:   len(graph.Nodes),
		TotalEdges:   len(graph.Edges),
		NodesByStage: make(map[string]int),
		EdgesByType:  make(map[string]int),
	}

	for _, n := range graph.Nodes {
		if n.Stage != "" {
			stats.NodesByStage[string(n.Stage)]++
		}
	}

	for _, e := range graph.Edges {
		stats.EdgesByType[string(e.Type)]++
	}

	return stats
}
