package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithin-eashwar/synapse/internal/models"
)

func TestAssess_HighSignalsProduceCriticalLevel(t *testing.T) {
	calc := NewCalculator(nil, nil)

	sig := EntitySignals{
		EntityID:        "e1",
		Cyclomatic:      15,
		Cognitive:       20,
		Centrality:      1.0,
		TestCoverage:    0,
		InDegree:        10,
		OutDegree:       10,
		ChangeFrequency: 30,
		BusFactor:       1,
	}
	assessment := calc.Assess(sig)

	assert.Equal(t, "e1", assessment.EntityID)
	assert.InDelta(t, 1.0, assessment.Score, 0.0001, "every factor maxed out should sum the full weight")
	assert.Equal(t, "CRITICAL", string(assessment.Level))
}

func TestAssess_LowSignalsProduceLowLevel(t *testing.T) {
	calc := NewCalculator(nil, nil)

	sig := EntitySignals{
		EntityID:        "e2",
		Cyclomatic:      0,
		Cognitive:       0,
		Centrality:      0,
		TestCoverage:    1.0,
		InDegree:        0,
		OutDegree:       0,
		ChangeFrequency: 0,
		BusFactor:       5,
	}
	assessment := calc.Assess(sig)
	assert.Equal(t, "LOW", string(assessment.Level))
	assert.InDelta(t, 0.0, assessment.Score, 0.0001)
	assert.Empty(t, assessment.Recommendations)
}

func TestAssess_UnknownCoverageScoresWorstCase(t *testing.T) {
	calc := NewCalculator(nil, nil)

	withUnknown := calc.Assess(EntitySignals{EntityID: "a", TestCoverage: -1, BusFactor: 5})
	withZero := calc.Assess(EntitySignals{EntityID: "b", TestCoverage: 0, BusFactor: 5})

	assert.InDelta(t, withZero.Score, withUnknown.Score, 0.0001, "unknown coverage scores the same worst-case risk as confirmed 0 coverage")
}

func TestBusFactorRisk_MatchesFourTierTable(t *testing.T) {
	assert.Equal(t, 1.0, busFactorRisk(1))
	assert.Equal(t, 1.0, busFactorRisk(0))
	assert.Equal(t, 0.6, busFactorRisk(2))
	assert.Equal(t, 0.3, busFactorRisk(3))
	assert.Equal(t, 0.0, busFactorRisk(4))
	assert.Equal(t, 0.0, busFactorRisk(10))
}

func TestComplexityScore_BlendsCyclomaticAndCognitive(t *testing.T) {
	score := complexityScore(EntitySignals{Cyclomatic: 15, Cognitive: 0})
	assert.InDelta(t, 0.5, score, 0.0001, "cyclomatic alone at its cap contributes half the blend")

	score = complexityScore(EntitySignals{Cyclomatic: 15, Cognitive: 20})
	assert.InDelta(t, 1.0, score, 0.0001)
}

func TestTopFactors_ReturnsAtMostThreeSortedByScore(t *testing.T) {
	calc := NewCalculator(nil, nil)

	sig := EntitySignals{
		EntityID:        "e3",
		Cyclomatic:      15,
		Cognitive:       20,
		Centrality:      0.9,
		TestCoverage:    0.1,
		InDegree:        9,
		OutDegree:       9,
		ChangeFrequency: 24,
		BusFactor:       1,
	}
	assessment := calc.Assess(sig)
	require.LessOrEqual(t, len(assessment.Factors), 3)
	for i := 1; i < len(assessment.Factors); i++ {
		assert.GreaterOrEqual(t, assessment.Factors[i-1].Score, assessment.Factors[i].Score, "factors sorted descending by score")
	}
}

func TestRecommend_LowLevelProducesNoRecommendation(t *testing.T) {
	assert.Empty(t, Recommend(models.RiskLow, []Factor{{Signal: "Low Test Coverage", Score: 0.9}}))
}

func TestRecommend_TestCoverageDominantProducesTestingAdvice(t *testing.T) {
	recs := Recommend(models.RiskHigh, []Factor{{Signal: "Low Test Coverage", Score: 0.9}})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "unit tests")
}

func TestRecommend_CriticalLevelIsFlaggedUrgent(t *testing.T) {
	recs := Recommend(models.RiskCritical, []Factor{{Signal: "Low Test Coverage", Score: 0.9}})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "URGENT")
}

func TestDefaultConfig_ThresholdsAreOrdered(t *testing.T) {
	cfg := DefaultConfig()
	assert.Less(t, cfg.MediumThreshold, cfg.HighThreshold)
	assert.Less(t, cfg.HighThreshold, cfg.CriticalThreshold)
}

func TestLevel_MatchesExactBandBoundaries(t *testing.T) {
	calc := NewCalculator(nil, DefaultConfig())

	cases := []struct {
		score float64
		want  models.RiskLevel
	}{
		{0.0, models.RiskLow},
		{0.1999, models.RiskLow},
		{0.2, models.RiskMedium},
		{0.3, models.RiskMedium},
		{0.4999, models.RiskMedium},
		{0.5, models.RiskHigh},
		{0.6, models.RiskHigh},
		{0.7999, models.RiskHigh},
		{0.8, models.RiskCritical},
		{0.85, models.RiskCritical},
		{1.0, models.RiskCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, calc.level(tc.score), "score %.4f", tc.score)
	}
}
