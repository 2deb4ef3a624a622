// Package analysis turns a component graph into position classifications,
// network diagnostics, aggregate metrics and strategic recommendations.
package analysis

import (
	"sort"

	"github.com/wardleyscope/core/internal/graph"
	"github.com/wardleyscope/core/internal/models"
)

// NetworkScores holds the per-node centrality measures of one graph, indexed
// like the graph's nodes.
type NetworkScores struct {
	Betweenness []float64
	Influence   []float64
}

func (t Thresholds) Scores(g *graph.Graph) NetworkScores {
	return NetworkScores{
		Betweenness: Betweenness(g),
		Influence:   Influence(g, t.Damping, t.MaxIterations, t.Tolerance),
	}
}

// Network computes the graph-wide structural diagnostics.
func (t Thresholds) Network(g *graph.Graph, scores NetworkScores) models.NetworkAnalysis {
	return models.NetworkAnalysis{
		Bottlenecks:       t.bottlenecks(g, scores.Betweenness),
		Dependencies:      t.dependencyChains(g),
		KeyComponents:     topScored(g, scores.Influence, t.TopN, -1),
		Isolated:          isolated(g),
		Cycles:            cycles(g),
		StrategicClusters: t.strategicClusters(g),
	}
}

// bottlenecks keeps the top-N nodes by betweenness, dropping any at or below
// the reporting threshold even when they are in the top N.
func (t Thresholds) bottlenecks(g *graph.Graph, betweenness []float64) []models.ScoredNode {
	return topScored(g, betweenness, t.TopN, t.BottleneckReport)
}

// scoreEpsilon absorbs rounding noise from the iterative scores so that
// nodes with mathematically equal scores keep their input order.
const scoreEpsilon = 1e-12

// topScored ranks nodes by score, ties (within scoreEpsilon) broken by input
// order, and returns at most limit of them whose score exceeds floor.
func topScored(g *graph.Graph, scores []float64, limit int, floor float64) []models.ScoredNode {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]]-scores[order[b]] > scoreEpsilon
	})

	limit = max(0, min(limit, len(order)))
	order = order[:limit]

	out := []models.ScoredNode{}
	for _, i := range order {
		if scores[i] > floor {
			out = append(out, models.ScoredNode{ID: g.ID(i), Score: scores[i]})
		}
	}

	return out
}

func (t Thresholds) dependencyChains(g *graph.Graph) []models.DependencyChain {
	out := []models.DependencyChain{}

	for i := 0; i < g.Len(); i++ {
		in, outDeg := g.InDegree(i), g.OutDegree(i)
		if in > t.DependencyDegree || outDeg > t.DependencyDegree {
			out = append(out, models.DependencyChain{
				ID:              g.ID(i),
				DependenciesIn:  in,
				DependenciesOut: outDeg,
			})
		}
	}

	return out
}

func isolated(g *graph.Graph) []string {
	out := []string{}

	for i := 0; i < g.Len(); i++ {
		if g.InDegree(i)+g.OutDegree(i) == 0 {
			out = append(out, g.ID(i))
		}
	}

	return out
}

func cycles(g *graph.Graph) [][]string {
	out := [][]string{}

	for _, cycle := range g.Cycles() {
		ids := make([]string, len(cycle))
		for k, i := range cycle {
			ids[k] = g.ID(i)
		}
		out = append(out, ids)
	}

	return out
}

// strategicClusters pairs every strategic node with its strategic neighbours
// (successors first, then predecessors). Clusters are reported per anchor and
// never merged, so one node can appear in several clusters.
func (t Thresholds) strategicClusters(g *graph.Graph) [][]string {
	strategic := make([]bool, g.Len())
	for i := range strategic {
		strategic[i] = g.Node(i).Y > t.ClusterValue
	}

	out := [][]string{}
	for i := 0; i < g.Len(); i++ {
		if !strategic[i] {
			continue
		}

		cluster := []string{g.ID(i)}
		seen := map[int]bool{i: true}
		for _, neighbours := range [][]int{g.Successors(i), g.Predecessors(i)} {
			for _, j := range neighbours {
				if strategic[j] && !seen[j] {
					seen[j] = true
					cluster = append(cluster, g.ID(j))
				}
			}
		}

		if len(cluster) > 1 {
			out = append(out, cluster)
		}
	}

	return out
}
