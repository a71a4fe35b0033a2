package graph

import (
	"sort"

	"github.com/nithin-eashwar/synapse/internal/models"
)

// structuralKinds restricts traversal to CALLS/INHERITS/IMPORTS, per
// models.StructuralKinds.
var structuralKinds = models.StructuralKinds

// SampleThreshold is the graph size above which betweenness centrality is
// computed on a uniform sample of sources and scaled, per spec.md §4.5.
const SampleThreshold = 2000

// CentralityResult is the per-entity betweenness output. Approximate is
// true when the graph exceeded SampleThreshold and sampling + scaling was
// used instead of an exact single-source-per-node computation.
type CentralityResult struct {
	Values      []float64
	Approximate bool
}

// BetweennessCentrality computes unweighted betweenness centrality over
// the structural subgraph via Brandes' BFS-accumulation algorithm. No
// graph library appears anywhere in the reference set, so this is
// hand-rolled; BFS shortest-path counting is the only approach available
// without one. For graphs larger than SampleThreshold, sources are
// restricted to a deterministic (entity-ID-ordered) sample and the result
// is scaled by N/sample_size, per spec.md §4.5.
func (g *Graph) BetweennessCentrality() []float64 {
	return g.BetweennessCentralityDetailed().Values
}

// BetweennessCentralityDetailed is BetweennessCentrality plus the
// Approximate flag spec.md §4.5 requires callers to surface.
func (g *Graph) BetweennessCentralityDetailed() CentralityResult {
	n := g.Len()
	centrality := make([]float64, n)

	sources := make([]int, n)
	for i := range sources {
		sources[i] = i
	}

	approximate := false
	scale := 1.0
	if n > SampleThreshold {
		approximate = true
		sampleSize := SampleThreshold
		// Deterministic sample: every floor(n/sampleSize)'th index by the
		// entity-ID-sorted order already held in g.entities, so two runs
		// on the same snapshot pick the same sources.
		stride := n / sampleSize
		if stride < 1 {
			stride = 1
		}
		sources = sources[:0]
		for i := 0; i < n; i += stride {
			sources = append(sources, i)
		}
		scale = float64(n) / float64(len(sources))
	}

	for _, s := range sources {
		stack := make([]int, 0, n)
		predecessors := make([][]int, n)
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
			for _, w := range g.Out(v, structuralKinds) {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		delta := make([]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				if sigma[w] != 0 {
					delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
				}
			}
			if w != s {
				centrality[w] += delta[w]
			}
		}
	}

	// Undirected-style double counting from running BFS from every source
	// is already the directed convention; normalise by (n-1)(n-2) so
	// values compare across repos of different sizes, then apply the
	// sampling scale factor.
	if n > 2 {
		norm := scale / float64((n-1)*(n-2))
		for i := range centrality {
			centrality[i] *= norm
		}
	}

	return CentralityResult{Values: centrality, Approximate: approximate}
}

// CentralityPercentiles converts raw betweenness values into each
// entity's percentile rank within the graph, in [0,1], for use as the
// centrality_risk factor input (spec.md §4.5: "normalised betweenness,
// percentile within graph"). Ties share the percentile of the highest
// rank among them.
func CentralityPercentiles(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return values[order[i]] < values[order[j]] })

	rank := make([]int, n)
	for pos, idx := range order {
		rank[idx] = pos
	}
	// Assign equal values the same (highest-shared) rank so percentile is
	// stable regardless of the deterministic ID-order tie-break upstream.
	for i := 0; i < n; {
		j := i
		for j < n && values[order[j]] == values[order[i]] {
			j++
		}
		for k := i; k < j; k++ {
			rank[order[k]] = j - 1
		}
		i = j
	}
	if n == 1 {
		out[order[0]] = 1.0
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = float64(rank[i]) / float64(n-1)
	}
	return out
}

// BlastRadiusResult is one entity reached during a blast-radius traversal.
type BlastRadiusResult struct {
	EntityID string
	Distance int
	Weight   float64 // decayed impact weight, in (0,1]
}

// MaxBlastFrontier caps the number of entities a single BlastRadius call
// will discover, per spec.md §4.5's "maximum frontier (default 500)".
const MaxBlastFrontier = 500

// BlastRadius performs BFS over the reverse structural edges of startID
// (i.e. "what depends on this, transitively"), decaying impact weight by
// decay per hop and stopping once weight falls under minWeight, maxDepth
// is reached, or MaxBlastFrontier entities have been discovered. Neighbour
// iteration order is edge-insertion order (g.In's natural order), so two
// runs over the same snapshot with the same parameters discover nodes in
// the same order and so produce identical results.
func (g *Graph) BlastRadius(startID string, maxDepth int, decay, minWeight float64) []BlastRadiusResult {
	start := g.IndexOf(startID)
	if start < 0 {
		return nil
	}

	visited := map[int]bool{start: true}
	type frontierItem struct {
		idx    int
		depth  int
		weight float64
	}
	queue := []frontierItem{{idx: start, depth: 0, weight: 1.0}}
	var results []BlastRadiusResult

	for len(queue) > 0 {
		if len(results) >= MaxBlastFrontier {
			break
		}
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth {
			continue
		}
		nextWeight := cur.weight * decay
		if nextWeight < minWeight {
			continue
		}

		for _, parent := range g.In(cur.idx, structuralKinds) {
			if len(results) >= MaxBlastFrontier {
				break
			}
			if visited[parent] {
				continue
			}
			visited[parent] = true
			results = append(results, BlastRadiusResult{
				EntityID: g.entities[parent].ID,
				Distance: cur.depth + 1,
				Weight:   nextWeight,
			})
			queue = append(queue, frontierItem{idx: parent, depth: cur.depth + 1, weight: nextWeight})
		}
	}

	return results
}
