// Package risk computes a per-entity weighted risk score from six factors:
// complexity, graph centrality, test coverage, dependency fan-in, change
// frequency, and bus-factor: a Config of per-factor weights and
// threshold bands, a Calculator holding it plus a logrus.Logger, one
// calculate* method per factor, then a weighted sum mapped to a level band.
package risk

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nithin-eashwar/synapse/internal/models"
)

// Config holds factor weights and level thresholds. A score below
// MediumThreshold is LOW; there is no separate low-band boundary since
// LOW is simply "not yet MEDIUM".
type Config struct {
	MediumThreshold   float64
	HighThreshold     float64
	CriticalThreshold float64

	ComplexityWeight     float64
	CentralityWeight     float64
	TestCoverageWeight   float64
	DependencyWeight     float64
	ChangeFrequencyWeight float64
	BusFactorWeight      float64
}

// DefaultConfig returns the exact band boundaries a score is classified
// against: [0,0.2) LOW, [0.2,0.5) MEDIUM, [0.5,0.8) HIGH, [0.8,1] CRITICAL.
func DefaultConfig() *Config {
	return &Config{
		MediumThreshold:   0.2,
		HighThreshold:     0.5,
		CriticalThreshold: 0.8,

		ComplexityWeight:      0.25,
		CentralityWeight:      0.20,
		TestCoverageWeight:    0.20,
		DependencyWeight:      0.15,
		ChangeFrequencyWeight: 0.10,
		BusFactorWeight:       0.10,
	}
}

// Calculator scores entities against a Config.
type Calculator struct {
	logger *logrus.Logger
	config *Config
}

// NewCalculator creates a Calculator, defaulting config when nil.
func NewCalculator(logger *logrus.Logger, config *Config) *Calculator {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Calculator{logger: logger, config: config}
}

// EntitySignals is the per-entity input an assessment is computed from.
// Callers assemble these from graph.Graph, internal/gitminer, and a test
// coverage source (synapse has no coverage-file parser of its own; a
// negative value means "unknown", scored as worst-case per spec).
type EntitySignals struct {
	EntityID        string
	Cyclomatic      int
	Cognitive       int
	Centrality      float64 // percentile rank of betweenness within the graph, in [0,1]
	TestCoverage    float64 // [0,1], -1 means unknown
	InDegree        int     // structural in-degree
	OutDegree       int     // structural out-degree
	ChangeFrequency int     // commits touching this entity's file in the last 90 days
	BusFactor       int     // bus factor of this entity's file; 0 means unknown/not computed
}

// Factor is one named, weighted contribution to a total score.
type Factor struct {
	Signal string
	Impact string
	Score  float64
	Detail string
}

// Assessment is a completed risk scoring of one entity.
type Assessment struct {
	EntityID        string
	Score           float64
	Level           models.RiskLevel
	Factors         []Factor
	Recommendations []string
	ComputedAt      time.Time
}

// Assess scores a single entity against the six fixed-divisor factors of
// spec.md §4.5: complexity blends cyclomatic/15 and cognitive/20, dependency
// is (in+out degree)/20, change frequency is commits-last-90d/30, all
// clamped to [0,1] — none of these are relative to the rest of the batch.
func (c *Calculator) Assess(sig EntitySignals) *Assessment {
	complexity := complexityScore(sig)
	centrality := clamp01(sig.Centrality)
	coverage := coverageRisk(sig)
	dependency := clamp01(float64(sig.InDegree+sig.OutDegree) / 20.0)
	changeFreq := clamp01(float64(sig.ChangeFrequency) / 30.0)
	busFactor := busFactorRisk(sig.BusFactor)

	total := complexity*c.config.ComplexityWeight +
		centrality*c.config.CentralityWeight +
		coverage*c.config.TestCoverageWeight +
		dependency*c.config.DependencyWeight +
		changeFreq*c.config.ChangeFrequencyWeight +
		busFactor*c.config.BusFactorWeight

	assessment := &Assessment{
		EntityID:   sig.EntityID,
		Score:      total,
		Level:      c.level(total),
		ComputedAt: time.Now(),
	}
	assessment.Factors = c.topFactors(complexity, centrality, coverage, dependency, changeFreq, busFactor)
	assessment.Recommendations = Recommend(assessment.Level, assessment.Factors)

	c.logger.WithFields(logrus.Fields{
		"entity": sig.EntityID,
		"score":  total,
		"level":  assessment.Level,
	}).Debug("risk assessment computed")

	return assessment
}

// complexityScore blends min(1, cyclomatic/15) with cognitive/20, per
// spec.md §4.5's complexity_risk definition.
func complexityScore(sig EntitySignals) float64 {
	cyclo := clamp01(float64(sig.Cyclomatic) / 15.0)
	cognitive := clamp01(float64(sig.Cognitive) / 20.0)
	return (cyclo + cognitive) / 2.0
}

// coverageRisk is 1 − coverage; unknown coverage (-1) scores the worst
// case, 1.0, per spec.md §4.5.
func coverageRisk(sig EntitySignals) float64 {
	if sig.TestCoverage < 0 {
		return 1.0
	}
	return clamp01(1.0 - sig.TestCoverage)
}

// busFactorRisk is the four-tier table from spec.md §4.5: 1 if bus_factor
// <= 1, 0.6 if 2, 0.3 if 3, 0 otherwise. A bus factor of 0 (not computed,
// e.g. no git history available) is treated the same as <= 1: unknown
// ownership concentration is the conservative, highest-risk assumption.
func busFactorRisk(busFactor int) float64 {
	switch {
	case busFactor <= 1:
		return 1.0
	case busFactor == 2:
		return 0.6
	case busFactor == 3:
		return 0.3
	default:
		return 0.0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Calculator) level(score float64) models.RiskLevel {
	switch {
	case score >= c.config.CriticalThreshold:
		return models.RiskCritical
	case score >= c.config.HighThreshold:
		return models.RiskHigh
	case score >= c.config.MediumThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func (c *Calculator) topFactors(complexity, centrality, coverage, dependency, changeFreq, busFactor float64) []Factor {
	var factors []Factor

	if complexity > 0.6 {
		factors = append(factors, Factor{Signal: "High Complexity", Impact: impactLevel(complexity), Score: complexity, Detail: "cyclomatic complexity is high relative to the rest of the repository"})
	}
	if centrality > 0.7 {
		factors = append(factors, Factor{Signal: "High Centrality", Impact: impactLevel(centrality), Score: centrality, Detail: "entity sits on many shortest paths in the call graph"})
	}
	if coverage > 0.7 {
		factors = append(factors, Factor{Signal: "Low Test Coverage", Impact: impactLevel(coverage), Score: coverage, Detail: "insufficient test coverage for this entity's file"})
	}
	if dependency > 0.6 {
		factors = append(factors, Factor{Signal: "High Fan-in", Impact: impactLevel(dependency), Score: dependency, Detail: "many entities depend on this one directly"})
	}
	if changeFreq > 0.6 {
		factors = append(factors, Factor{Signal: "Frequently Changed", Impact: impactLevel(changeFreq), Score: changeFreq, Detail: "file has a high commit frequency in the mining window"})
	}
	if busFactor > 0 {
		factors = append(factors, Factor{Signal: "Bus Factor Risk", Impact: impactLevel(busFactor), Score: busFactor, Detail: "a single developer accounts for most of this file's history"})
	}

	sort.Slice(factors, func(i, j int) bool { return factors[i].Score > factors[j].Score })
	if len(factors) > 3 {
		factors = factors[:3]
	}
	return factors
}

// Recommend picks a recommendation string from a fixed rubric keyed on
// (level, dominant factor), per spec.md §4.5. LOW-risk entities get no
// recommendation; the dominant factor is the highest-scoring Factor in
// the already-sorted list topFactors produced.
func Recommend(level models.RiskLevel, factors []Factor) []string {
	if level == models.RiskLow || len(factors) == 0 {
		return nil
	}
	dominant := factors[0].Signal

	rubric := map[string]string{
		"High Complexity":      "Break this entity into smaller functions before extending it further.",
		"High Centrality":      "This entity sits on many call paths; changes here should go through extra review.",
		"Low Test Coverage":    "Add unit tests before modifying this code.",
		"High Fan-in":          "Many callers depend on this entity directly; prefer additive changes over signature changes.",
		"Frequently Changed":   "This file churns often; consider whether it needs refactoring to stabilize.",
		"Bus Factor Risk":      "Pair a second developer on this file to spread ownership knowledge.",
	}

	rec, ok := rubric[dominant]
	if !ok {
		return nil
	}
	if level == models.RiskCritical {
		rec = "URGENT: " + rec
	}
	return []string{rec}
}

func impactLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "CRITICAL"
	case score >= 0.6:
		return "HIGH"
	case score >= 0.4:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
