package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithin-eashwar/synapse/internal/condenser"
	"github.com/nithin-eashwar/synapse/internal/expertise"
	"github.com/nithin-eashwar/synapse/internal/governance"
	"github.com/nithin-eashwar/synapse/internal/graph"
	"github.com/nithin-eashwar/synapse/internal/models"
	"github.com/nithin-eashwar/synapse/internal/risk"
)

func newTestEngine() *Engine {
	entities := []models.Entity{
		{ID: "a.py:foo", Kind: models.KindFunction, Name: "foo", Location: models.Location{File: "a.py"}},
		{ID: "a.py:bar", Kind: models.KindFunction, Name: "bar", Location: models.Location{File: "a.py"}},
	}
	rels := []models.Relationship{
		{SourceID: "a.py:bar", TargetID: "a.py:foo", Kind: models.RelCalls},
	}
	g := graph.New(entities, rels)

	assessments := map[string]*risk.Assessment{
		"a.py:foo": {EntityID: "a.py:foo", Score: 0.9, Level: models.RiskCritical},
	}

	exp := []models.ExpertiseScore{
		{DeveloperEmail: "ada@example.com", FilePath: "a.py", Total: 0.8},
	}

	return &Engine{
		Graph:       g,
		Assessments: assessments,
		Expertise:   exp,
		BusFactors:  []expertise.BusFactor{{FilePath: "a.py", Factor: 1}},
		Rules:       &governance.RuleSet{},
	}
}

func TestEngine_GetGraphReturnsNodesAndEdges(t *testing.T) {
	e := newTestEngine()
	view := e.GetGraph()
	assert.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)
	assert.Equal(t, "a.py:bar", view.Edges[0].SourceID)
	assert.Equal(t, "a.py:foo", view.Edges[0].TargetID)
	assert.Equal(t, models.RelCalls, view.Edges[0].Kind)
}

func TestEngine_GetCondensedGraphRollsUpRisk(t *testing.T) {
	e := newTestEngine()
	c := e.GetCondensedGraph()
	require.NotNil(t, c)
	assert.IsType(t, &condenser.Condensed{}, c)
}

func TestEngine_BlastRadiusTraversesReverseCallers(t *testing.T) {
	e := newTestEngine()
	results := e.BlastRadius("a.py:foo", 3, 0.5, 0.01)
	require.Len(t, results, 1)
	assert.Equal(t, "a.py:bar", results[0].EntityID)
}

func TestEngine_ExpertForFiltersByFile(t *testing.T) {
	e := newTestEngine()
	assert.Len(t, e.ExpertFor("a.py"), 1)
	assert.Empty(t, e.ExpertFor("nope.py"))
}

func TestEngine_HeatmapBucketsByModule(t *testing.T) {
	e := newTestEngine()
	hm := e.Heatmap(func(path string) string { return "root" })
	require.Contains(t, hm.Modules, "root")
	assert.Equal(t, 1, hm.Modules["root"].FileCount)
}

func TestEngine_ByDeveloperBucketsByModule(t *testing.T) {
	e := newTestEngine()
	byDev := e.ByDeveloper(func(path string) string { return "root" })
	require.Contains(t, byDev, "root")
	assert.InDelta(t, 0.8, byDev["root"]["ada@example.com"], 0.0001)
}

func TestEngine_BusFactorSummaryReturnsComputed(t *testing.T) {
	e := newTestEngine()
	summary := e.BusFactorSummary()
	assert.Len(t, summary.Analysis, 1)
	assert.Equal(t, 1, summary.Analysis["a.py"])
	assert.Contains(t, summary.RiskAreas, "a.py")
}

func TestEngine_GovernanceValidateWithNilRulesReturnsNil(t *testing.T) {
	e := newTestEngine()
	e.Rules = nil
	assert.Nil(t, e.GovernanceValidate(nil))
	assert.Nil(t, e.GovernanceLayers())
}

func TestEngine_GovernanceDriftWithNilRulesReturnsZero(t *testing.T) {
	e := newTestEngine()
	e.Rules = nil
	view := e.GovernanceDrift(models.DriftMetrics{}, nil)
	assert.Equal(t, models.DriftMetrics{}, view.Current)
	assert.Equal(t, 0.0, view.DriftScore)
	assert.Nil(t, view.Recommendations)
}

func TestEngine_AssessmentReturnsFoundFlag(t *testing.T) {
	e := newTestEngine()
	a, ok := e.Assessment("a.py:foo")
	require.True(t, ok)
	assert.Equal(t, models.RiskCritical, a.Level)

	_, ok = e.Assessment("missing")
	assert.False(t, ok)
}
