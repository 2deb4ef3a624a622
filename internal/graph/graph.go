// Package graph builds the directed component graph that map analysis runs on.
// Nodes keep the order in which components were supplied so every derived
// ranking is deterministic.
package graph

import (
	"slices"

	"github.com/wardleyscope/core/internal/models"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type Graph struct {
	nodes []models.Component
	index map[string]int
	succ  [][]int
	pred  [][]int
	types map[[2]int][]models.RelationshipType

	edgeCount int
	selfLoops []int

	// directed mirrors every non-loop edge; simple.DirectedGraph rejects self edges.
	directed *simple.DirectedGraph
}

// Build creates a graph from components and relationships. A component whose
// id was already seen is skipped. Relationships whose endpoints are not both
// present are dropped, and repeating an identical relationship has no effect.
func Build(components []models.Component, relationships []models.Relationship) *Graph {
	g := &Graph{
		nodes:    make([]models.Component, 0, len(components)),
		index:    make(map[string]int, len(components)),
		types:    make(map[[2]int][]models.RelationshipType),
		directed: simple.NewDirectedGraph(),
	}

	for _, c := range components {
		if _, exists := g.index[c.ID]; exists {
			continue
		}

		i := len(g.nodes)
		g.index[c.ID] = i
		g.nodes = append(g.nodes, c)
		g.succ = append(g.succ, nil)
		g.pred = append(g.pred, nil)
		g.directed.AddNode(simple.Node(i))
	}

	for _, rel := range relationships {
		g.addEdge(rel)
	}

	return g
}

func (g *Graph) addEdge(rel models.Relationship) {
	s, ok := g.index[rel.Source]
	if !ok {
		return
	}

	t, ok := g.index[rel.Target]
	if !ok {
		return
	}

	key := [2]int{s, t}
	existing := g.types[key]
	if slices.Contains(existing, rel.Type) {
		return
	}

	g.types[key] = append(existing, rel.Type)
	if len(existing) > 0 {
		return
	}

	g.succ[s] = append(g.succ[s], t)
	g.pred[t] = append(g.pred[t], s)
	g.edgeCount++

	if s == t {
		g.selfLoops = append(g.selfLoops, s)
		return
	}

	g.directed.SetEdge(g.directed.NewEdge(simple.Node(s), simple.Node(t)))
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) Node(i int) models.Component {
	return g.nodes[i]
}

func (g *Graph) ID(i int) string {
	return g.nodes[i].ID
}

func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

func (g *Graph) Successors(i int) []int {
	return g.succ[i]
}

func (g *Graph) Predecessors(i int) []int {
	return g.pred[i]
}

func (g *Graph) InDegree(i int) int {
	return len(g.pred[i])
}

func (g *Graph) OutDegree(i int) int {
	return len(g.succ[i])
}

// EdgeCount is the number of distinct (source, target) pairs. Several
// relationship types between the same pair count as one edge.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

func (g *Graph) HasEdge(source, target string) bool {
	s, ok := g.index[source]
	if !ok {
		return false
	}

	t, ok := g.index[target]
	if !ok {
		return false
	}

	return len(g.types[[2]int{s, t}]) > 0
}

// EdgeTypes returns the relationship types recorded between two components,
// in the order they were first seen.
func (g *Graph) EdgeTypes(source, target string) []models.RelationshipType {
	s, ok := g.index[source]
	if !ok {
		return nil
	}

	t, ok := g.index[target]
	if !ok {
		return nil
	}

	return slices.Clone(g.types[[2]int{s, t}])
}

// Density is distinct edges divided by n*(n-1). Self-loops count as edges
// but not in the denominator, so a graph with self-loops can exceed 1.
func (g *Graph) Density() float64 {
	n := len(g.nodes)
	if n < 2 {
		return 0
	}

	return float64(g.edgeCount) / float64(n*(n-1))
}

// Cycles enumerates every simple directed cycle as node indices. Each cycle
// starts at its lowest-index member and the list is sorted, so the same graph
// always yields the same cycles in the same order.
func (g *Graph) Cycles() [][]int {
	var cycles [][]int

	for _, n := range g.selfLoops {
		cycles = append(cycles, []int{n})
	}

	for _, found := range topo.DirectedCyclesIn(g.directed) {
		// gonum closes each cycle by repeating its first node.
		cycle := make([]int, 0, len(found)-1)
		for _, n := range found[:len(found)-1] {
			cycle = append(cycle, int(n.ID()))
		}
		cycles = append(cycles, rotateToMin(cycle))
	}

	slices.SortFunc(cycles, slices.Compare[[]int])

	return cycles
}

func rotateToMin(cycle []int) []int {
	if len(cycle) == 0 {
		return cycle
	}

	start := 0
	for i, n := range cycle {
		if n < cycle[start] {
			start = i
		}
	}

	return append(slices.Clone(cycle[start:]), cycle[:start]...)
}
