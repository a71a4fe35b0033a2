// Package graph holds the in-memory directed multigraph produced from a
// resolved entity/relationship set: index-based adjacency over a flat
// entity slice, never a pointer graph, so cycles (import loops, recursive
// call chains) are representable without special-casing. Persistence to
// a remote graph store is out of scope; the graph here is in-memory only.
package graph

import (
	"sort"

	"github.com/nithin-eashwar/synapse/internal/models"
)

// Graph is an index-based directed multigraph. Entities live in a single
// slice; edges reference entities by their slice index, not by pointer.
type Graph struct {
	entities []models.Entity
	indexOf  map[string]int // entity ID -> slice index

	out map[int][]edge // index -> outgoing edges
	in  map[int][]edge // index -> incoming edges
}

type edge struct {
	to   int
	kind models.RelationshipKind
	attrs map[string]interface{}
}

// Stats summarizes a completed build: total node and deduplicated edge
// counts.
type Stats struct {
	Entities      int
	Relationships int
}

// New builds a Graph from a resolved entity and relationship set.
func New(entities []models.Entity, rels []models.Relationship) *Graph {
	g := &Graph{
		indexOf: make(map[string]int, len(entities)),
		out:     make(map[int][]edge),
		in:      make(map[int][]edge),
	}

	sorted := append([]models.Entity{}, entities...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	g.entities = sorted
	for i, e := range g.entities {
		g.indexOf[e.ID] = i
	}

	type edgeKey struct {
		src, dst int
		kind     models.RelationshipKind
	}
	seen := make(map[edgeKey]bool)

	for _, r := range rels {
		srcIdx, okS := g.indexOf[r.SourceID]
		dstIdx, okD := g.indexOf[r.TargetID]
		if !okS || !okD {
			continue // dangling reference to an entity never added; skip
		}
		key := edgeKey{src: srcIdx, dst: dstIdx, kind: r.Kind}
		if seen[key] {
			continue // edges are deduplicated by (source, target, kind)
		}
		seen[key] = true
		g.out[srcIdx] = append(g.out[srcIdx], edge{to: dstIdx, kind: r.Kind, attrs: r.Attrs})
		g.in[dstIdx] = append(g.in[dstIdx], edge{to: srcIdx, kind: r.Kind, attrs: r.Attrs})
	}

	return g
}

// Stats reports entity and relationship counts.
func (g *Graph) Stats() Stats {
	edges := 0
	for _, es := range g.out {
		edges += len(es)
	}
	return Stats{Entities: len(g.entities), Relationships: edges}
}

// Entity returns the entity at index i.
func (g *Graph) Entity(i int) models.Entity { return g.entities[i] }

// IndexOf returns the slice index for an entity ID, or -1 if absent.
func (g *Graph) IndexOf(id string) int {
	if i, ok := g.indexOf[id]; ok {
		return i
	}
	return -1
}

// Len returns the number of entities in the graph.
func (g *Graph) Len() int { return len(g.entities) }

// Out returns the outgoing neighbor indices from index i, optionally
// restricted to a set of relationship kinds (nil or empty means all kinds).
func (g *Graph) Out(i int, kinds map[models.RelationshipKind]bool) []int {
	var result []int
	for _, e := range g.out[i] {
		if len(kinds) == 0 || kinds[e.kind] {
			result = append(result, e.to)
		}
	}
	return result
}

// In returns the incoming neighbor indices to index i, optionally
// restricted to a set of relationship kinds.
func (g *Graph) In(i int, kinds map[models.RelationshipKind]bool) []int {
	var result []int
	for _, e := range g.in[i] {
		if len(kinds) == 0 || kinds[e.kind] {
			result = append(result, e.to)
		}
	}
	return result
}

// OutDegree counts structural outgoing edges (CALLS, INHERITS, IMPORTS).
func (g *Graph) OutDegree(i int) int {
	n := 0
	for _, e := range g.out[i] {
		if models.StructuralKinds[e.kind] {
			n++
		}
	}
	return n
}

// InDegree counts structural incoming edges.
func (g *Graph) InDegree(i int) int {
	n := 0
	for _, e := range g.in[i] {
		if models.StructuralKinds[e.kind] {
			n++
		}
	}
	return n
}

// AllEntities returns every entity in ID-sorted order.
func (g *Graph) AllEntities() []models.Entity {
	return append([]models.Entity{}, g.entities...)
}

// AllEdges returns every deduplicated edge in the graph, sorted by
// source ID, then target ID, then kind, for deterministic output.
func (g *Graph) AllEdges() []models.Relationship {
	var rels []models.Relationship
	for srcIdx, edges := range g.out {
		for _, e := range edges {
			rels = append(rels, models.Relationship{
				SourceID: g.entities[srcIdx].ID,
				TargetID: g.entities[e.to].ID,
				Kind:     e.kind,
				Attrs:    e.attrs,
			})
		}
	}
	sort.Slice(rels, func(i, j int) bool {
		if rels[i].SourceID != rels[j].SourceID {
			return rels[i].SourceID < rels[j].SourceID
		}
		if rels[i].TargetID != rels[j].TargetID {
			return rels[i].TargetID < rels[j].TargetID
		}
		return rels[i].Kind < rels[j].Kind
	})
	return rels
}
