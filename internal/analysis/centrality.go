// Package analysis turns a component graph into position classifications,
// network diagnostics, aggregate metrics and strategic recommendations.
package analysis

import (
	"math"

	"github.com/wardleyscope/core/internal/graph"
)

// Betweenness computes normalized betweenness centrality for every node
// using Brandes' algorithm over unweighted shortest paths. Scores are
// scaled by 1/((n-1)(n-2)), the directed-graph normalization, and are all
// zero when the graph has fewer than three nodes.
func Betweenness(g *graph.Graph) []float64 {
	n := g.Len()
	cb := make([]float64, n)

	for s := 0; s < n; s++ {
		stack, sigma, pred := brandesBFS(g, s)
		brandesAccumulate(s, stack, sigma, pred, cb)
	}

	if n > 2 {
		scale := 1 / float64((n-1)*(n-2))
		for i := range cb {
			cb[i] *= scale
		}
	}

	return cb
}

func brandesBFS(g *graph.Graph, s int) ([]int, []float64, [][]int) {
	n := g.Len()
	stack := make([]int, 0, n)
	pred := make([][]int, n)
	sigma := make([]float64, n)
	dist := make([]int, n)

	for i := range dist {
		dist[i] = -1
	}
	sigma[s] = 1
	dist[s] = 0

	queue := []int{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		stack = append(stack, v)

		for _, w := range g.Successors(v) {
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				pred[w] = append(pred[w], v)
			}
		}
	}

	return stack, sigma, pred
}

func brandesAccumulate(s int, stack []int, sigma []float64, pred [][]int, cb []float64) {
	delta := make([]float64, len(sigma))

	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		for _, v := range pred[w] {
			delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
		}
		if w != s {
			cb[w] += delta[w]
		}
	}
}

// Influence ranks nodes by power-iteration PageRank. Each node's score is
// split evenly across its successors and dampened; the rank held by nodes
// without successors is spread uniformly over the graph. Iteration stops
// once the L1 change drops below n*tolerance or after maxIterations, in
// which case the last iterate is returned. Scores sum to 1.
func Influence(g *graph.Graph, damping float64, maxIterations int, tolerance float64) []float64 {
	n := g.Len()
	if n == 0 {
		return []float64{}
	}

	uniform := 1 / float64(n)
	x := make([]float64, n)
	for i := range x {
		x[i] = uniform
	}

	var dangling []int
	for i := 0; i < n; i++ {
		if g.OutDegree(i) == 0 {
			dangling = append(dangling, i)
		}
	}

	for iter := 0; iter < maxIterations; iter++ {
		last := x
		x = make([]float64, n)

		danglingSum := 0.0
		for _, i := range dangling {
			danglingSum += last[i]
		}
		base := damping*danglingSum*uniform + (1-damping)*uniform

		for i := 0; i < n; i++ {
			x[i] += base
			succ := g.Successors(i)
			if len(succ) == 0 {
				continue
			}
			share := damping * last[i] / float64(len(succ))
			for _, j := range succ {
				x[j] += share
			}
		}

		var diff float64
		for i := range x {
			diff += math.Abs(x[i] - last[i])
		}
		if diff < float64(n)*tolerance {
			break
		}
	}

	return x
}
