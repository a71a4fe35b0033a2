// Package query is a read-only façade over a built graph: the single
// entry point cmd/synapse and any future surface call into, so traversal
// and scoring logic stays out of the CLI layer.
package query

import (
	"sort"

	"github.com/nithin-eashwar/synapse/internal/condenser"
	"github.com/nithin-eashwar/synapse/internal/expertise"
	"github.com/nithin-eashwar/synapse/internal/governance"
	"github.com/nithin-eashwar/synapse/internal/graph"
	"github.com/nithin-eashwar/synapse/internal/models"
	"github.com/nithin-eashwar/synapse/internal/risk"
)

// Engine bundles everything a query needs: the built graph, precomputed
// risk assessments keyed by entity ID, mined expertise scores, and an
// optional governance ruleset.
type Engine struct {
	Graph       *graph.Graph
	Assessments map[string]*risk.Assessment
	Expertise   []models.ExpertiseScore
	BusFactors  []expertise.BusFactor
	Rules       *governance.RuleSet
}

// GraphView is the full node/edge snapshot returned by GetGraph.
type GraphView struct {
	Nodes []models.Entity
	Edges []models.Relationship
}

// GetGraph returns every entity and edge in the graph.
func (e *Engine) GetGraph() GraphView {
	return GraphView{Nodes: e.Graph.AllEntities(), Edges: e.Graph.AllEdges()}
}

// GetCondensedGraph returns the directory/file rollup of the graph.
func (e *Engine) GetCondensedGraph() *condenser.Condensed {
	return condenser.Build(e.Graph, e.Assessments)
}

// BlastRadius returns the transitive reverse-dependency set of entityID.
func (e *Engine) BlastRadius(entityID string, maxDepth int, decay, minWeight float64) []graph.BlastRadiusResult {
	return e.Graph.BlastRadius(entityID, maxDepth, decay, minWeight)
}

// BlastRadiusView is the blast_radius() query response of spec.md §6:
// the affected set, direct-caller count, the target's own risk score
// as the blast radius's aggregate risk, and rubric-derived
// recommendations carried over from that risk assessment.
type BlastRadiusView struct {
	Target           string
	Affected         []string
	DirectCallers    int
	BlastRadiusScore float64
	RiskLevel        models.RiskLevel
	RiskFactors      []risk.Factor
	Recommendations  []string
}

// BlastRadiusSummary assembles the full blast_radius() response for
// entityID. The second return is false if entityID is not in the graph
// (ErrNotFound, per spec.md §7 — the caller maps this to the error
// record).
func (e *Engine) BlastRadiusSummary(entityID string, maxDepth int, decay, minWeight float64) (BlastRadiusView, bool) {
	if e.Graph.IndexOf(entityID) < 0 {
		return BlastRadiusView{}, false
	}

	hits := e.Graph.BlastRadius(entityID, maxDepth, decay, minWeight)
	affected := make([]string, 0, len(hits))
	directCallers := 0
	for _, h := range hits {
		affected = append(affected, h.EntityID)
		if h.Distance == 1 {
			directCallers++
		}
	}

	view := BlastRadiusView{
		Target:        entityID,
		Affected:      affected,
		DirectCallers: directCallers,
		RiskLevel:     models.RiskLow,
	}
	if a, ok := e.Assessments[entityID]; ok {
		view.BlastRadiusScore = a.Score
		view.RiskLevel = a.Level
		view.RiskFactors = a.Factors
		view.Recommendations = a.Recommendations
	}
	return view, true
}

// ExpertFor returns the expertise scores for filePath, highest first.
func (e *Engine) ExpertFor(filePath string) []models.ExpertiseScore {
	var out []models.ExpertiseScore
	for _, sc := range e.Expertise {
		if sc.FilePath == filePath {
			out = append(out, sc)
		}
	}
	return out
}

// ExpertSummaryView is the expert_for() query response of spec.md §6:
// the primary and secondary experts for a file, its bus factor, and a
// rubric-derived recommendation.
type ExpertSummaryView struct {
	Target             string
	PrimaryExpert      *models.ExpertiseScore
	SecondaryExperts   []models.ExpertiseScore
	Score              float64
	BusFactor          int
	RecommendationText string
}

// ExpertSummary assembles the full expert_for() response for filePath.
func (e *Engine) ExpertSummary(filePath string) ExpertSummaryView {
	view := ExpertSummaryView{Target: filePath}

	scores := e.ExpertFor(filePath)
	if len(scores) > 0 {
		primary := scores[0]
		view.PrimaryExpert = &primary
		view.Score = primary.Total
		if len(scores) > 1 {
			view.SecondaryExperts = scores[1:]
		}
	}

	for _, bf := range e.BusFactors {
		if bf.FilePath == filePath {
			view.BusFactor = bf.Factor
			break
		}
	}

	view.RecommendationText = expertise.RecommendationText(view.BusFactor, view.Score, view.PrimaryExpert != nil)
	return view
}

// HeatmapView is the heatmap() query response of spec.md §6: per-module
// knowledge aggregates, the modules flagged as risk areas, and the
// average bus factor across every module.
type HeatmapView struct {
	Modules          map[string]expertise.ModuleHeatmapEntry
	RiskAreas        []string
	AverageBusFactor float64
}

// Heatmap aggregates bus factors and expertise scores to a per-module
// view, per spec.md §4.7/§6.
func (e *Engine) Heatmap(moduleOf func(string) string) HeatmapView {
	modules := expertise.Heatmap(e.Expertise, e.BusFactors, moduleOf)
	return HeatmapView{
		Modules:          modules,
		RiskAreas:        expertise.RiskAreas(modules),
		AverageBusFactor: expertise.AverageBusFactor(modules),
	}
}

// ByDeveloper aggregates expertise Total by top-level module and
// developer, for a per-person ownership breakdown view.
func (e *Engine) ByDeveloper(moduleOf func(string) string) map[string]map[string]float64 {
	return expertise.ByDeveloper(e.Expertise, moduleOf)
}

// BusFactorSummaryView is the bus_factor_summary() query response of
// spec.md §6: per-file bus factor, the files flagged as risk areas, and
// the configured warning threshold.
type BusFactorSummaryView struct {
	Analysis         map[string]int
	RiskAreas        []string
	WarningThreshold int
}

// BusFactorSummary returns the computed bus factors for every file, plus
// the files at or below the warning threshold.
func (e *Engine) BusFactorSummary() BusFactorSummaryView {
	analysis := make(map[string]int, len(e.BusFactors))
	var riskAreas []string
	for _, bf := range e.BusFactors {
		analysis[bf.FilePath] = bf.Factor
		if bf.Factor <= expertise.WarningThreshold {
			riskAreas = append(riskAreas, bf.FilePath)
		}
	}
	sort.Strings(riskAreas)
	return BusFactorSummaryView{
		Analysis:         analysis,
		RiskAreas:        riskAreas,
		WarningThreshold: expertise.WarningThreshold,
	}
}

// GovernanceValidate runs the loaded ruleset against a set of import edges.
func (e *Engine) GovernanceValidate(imports []governance.ImportEdge) []models.Violation {
	if e.Rules == nil {
		return nil
	}
	return e.Rules.ValidateAll(imports)
}

// GovernanceLayers returns the configured layer definitions.
func (e *Engine) GovernanceLayers() []models.Layer {
	if e.Rules == nil {
		return nil
	}
	return e.Rules.Layers
}

// GovernanceDriftView is the governance_drift() query response of
// spec.md §6: the current and baseline metrics, a bounded drift score,
// and a rubric-derived recommendation keyed on the dominant dimension
// that moved.
type GovernanceDriftView struct {
	Current         models.DriftMetrics
	Baseline        models.DriftMetrics
	DriftScore      float64
	Recommendations []string
}

// GovernanceDrift compares current metrics against a supplied baseline.
func (e *Engine) GovernanceDrift(baseline models.DriftMetrics, imports []governance.ImportEdge) GovernanceDriftView {
	if e.Rules == nil {
		return GovernanceDriftView{Baseline: baseline}
	}
	current := e.Rules.Metrics(imports)
	return GovernanceDriftView{
		Current:         current,
		Baseline:        baseline,
		DriftScore:      governance.Drift(baseline, current),
		Recommendations: governance.Recommend(baseline, current),
	}
}

// Assessment returns the risk assessment for an entity, if computed.
func (e *Engine) Assessment(entityID string) (*risk.Assessment, bool) {
	a, ok := e.Assessments[entityID]
	return a, ok
}
