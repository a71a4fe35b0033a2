// Package condenser projects the entity-level knowledge graph down to a
// directory -> file -> entity hierarchy, rolling up degree, complexity,
// and risk so a caller can inspect a repository at the granularity it
// wants rather than always at the entity level.
package condenser

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/nithin-eashwar/synapse/internal/graph"
	"github.com/nithin-eashwar/synapse/internal/models"
	"github.com/nithin-eashwar/synapse/internal/risk"
)

// FileNode is one file's rollup: every entity it defines plus aggregate
// complexity/degree/risk figures.
type FileNode struct {
	Path           string
	Entities       []models.Entity
	EntityDegree   map[string]int // entity ID -> in_degree + out_degree in the structural subgraph, external nodes excluded
	TotalCyclomatic int
	TotalCognitive  int
	MaxRiskScore    float64
	MaxRiskLevel    models.RiskLevel
}

// DirNode is a directory's rollup: its immediate files plus child
// directories, so the hierarchy can be walked top-down.
type DirNode struct {
	Path     string
	Files    []*FileNode
	Children map[string]*DirNode
}

// Condensed is the full projected hierarchy, rooted at "", plus the
// entity-level edges that connect entities appearing in the hierarchy
// (spec.md §4.9's `entity_edges`). Every edge endpoint is guaranteed to
// reference an entity present in some FileNode.Entities.
type Condensed struct {
	Root        *DirNode
	EntityEdges []models.Relationship
}

// Build projects g's entities (optionally scored by assessments, keyed by
// entity ID) into a directory/file hierarchy.
func Build(g *graph.Graph, assessments map[string]*risk.Assessment) *Condensed {
	files := make(map[string]*FileNode)
	var order []string
	included := make(map[string]bool)

	for i, e := range g.AllEntities() {
		if e.Kind == models.KindExternal {
			continue
		}
		path := e.Location.File
		if path == "" {
			continue
		}
		fn, ok := files[path]
		if !ok {
			fn = &FileNode{Path: path, EntityDegree: make(map[string]int)}
			files[path] = fn
			order = append(order, path)
		}
		fn.Entities = append(fn.Entities, e)
		degree := 0
		for _, j := range g.Out(i, models.StructuralKinds) {
			if g.Entity(j).Kind != models.KindExternal {
				degree++
			}
		}
		for _, j := range g.In(i, models.StructuralKinds) {
			if g.Entity(j).Kind != models.KindExternal {
				degree++
			}
		}
		fn.EntityDegree[e.ID] = degree
		fn.TotalCyclomatic += e.Cyclomatic
		fn.TotalCognitive += e.Cognitive
		included[e.ID] = true

		if a, ok := assessments[e.ID]; ok && a.Score > fn.MaxRiskScore {
			fn.MaxRiskScore = a.Score
			fn.MaxRiskLevel = a.Level
		}
	}

	sort.Strings(order)

	root := &DirNode{Path: "", Children: make(map[string]*DirNode)}
	for _, path := range order {
		attachFile(root, path, files[path])
	}

	var entityEdges []models.Relationship
	for _, rel := range g.AllEdges() {
		if included[rel.SourceID] && included[rel.TargetID] {
			entityEdges = append(entityEdges, rel)
		}
	}

	return &Condensed{Root: root, EntityEdges: entityEdges}
}

func attachFile(root *DirNode, path string, fn *FileNode) {
	dir := filepath.Dir(path)
	if dir == "." {
		dir = ""
	}
	segments := []string{}
	if dir != "" {
		segments = strings.Split(dir, "/")
	}

	current := root
	for _, seg := range segments {
		child, ok := current.Children[seg]
		if !ok {
			child = &DirNode{Path: joinPath(current.Path, seg), Children: make(map[string]*DirNode)}
			current.Children[seg] = child
		}
		current = child
	}
	current.Files = append(current.Files, fn)
}

func joinPath(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + "/" + seg
}

// DirRisk returns the max risk level observed anywhere under dir
// (including its children), walked recursively.
func (d *DirNode) DirRisk() models.RiskLevel {
	best := models.RiskLow
	rank := map[models.RiskLevel]int{models.RiskLow: 0, models.RiskMedium: 1, models.RiskHigh: 2, models.RiskCritical: 3}

	for _, f := range d.Files {
		if rank[f.MaxRiskLevel] > rank[best] {
			best = f.MaxRiskLevel
		}
	}
	for _, c := range d.Children {
		childBest := c.DirRisk()
		if rank[childBest] > rank[best] {
			best = childBest
		}
	}
	return best
}
