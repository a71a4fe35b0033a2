// Package governance loads an architecture rulebook from
// .synapse/architecture.yaml and validates a resolved import graph against
// it: glob-based layer classification, ordered boundary rules, and
// coupling/cohesion/drift metrics. Config is YAML unmarshalled into a
// typed struct via gopkg.in/yaml.v3, since this file is narrower than the
// tool's own viper-backed config and has no env var layer.
package governance

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nithin-eashwar/synapse/internal/models"
)

// RuleSet is the unmarshalled contents of architecture.yaml.
type RuleSet struct {
	Layers []models.Layer       `yaml:"layers"`
	Rules  []models.BoundaryRule `yaml:"rules"`
}

// Load reads and parses an architecture.yaml file. A missing file returns
// an empty RuleSet rather than an error: governance is optional per repo.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &RuleSet{}, nil
	}
	if err != nil {
		return nil, err
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// ClassifyLayer returns the name of the first layer whose glob pattern
// matches filePath (first-match-wins), or "" if no layer claims it.
func (rs *RuleSet) ClassifyLayer(filePath string) string {
	for _, layer := range rs.Layers {
		for _, pattern := range layer.Patterns {
			if ok, _ := filepath.Match(pattern, filePath); ok {
				return layer.Name
			}
			// filepath.Match doesn't cross path separators with "*";
			// architecture globs commonly use "**" for subtree matches.
			if matchDoubleStar(pattern, filePath) {
				return layer.Name
			}
		}
	}
	return ""
}

func matchDoubleStar(pattern, path string) bool {
	const marker = "**"
	idx := indexOf(pattern, marker)
	if idx < 0 {
		return false
	}
	prefix := pattern[:idx]
	suffix := pattern[idx+len(marker):]
	return hasPrefix(path, prefix) && hasSuffix(path, suffix)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Validate checks one import edge (fromFile imports toFile) against the
// ordered boundary rules, first-match-wins, default allow.
func (rs *RuleSet) Validate(fromFile, toFile string, lineNumber int) *models.Violation {
	fromLayer := rs.ClassifyLayer(fromFile)
	toLayer := rs.ClassifyLayer(toFile)

	for _, rule := range rs.Rules {
		if rule.From != fromLayer || rule.To != toLayer {
			continue
		}
		if rule.Action == models.ActionAllow {
			return nil
		}
		severity := models.SeverityWarning
		if rule.Action == models.ActionBlock {
			severity = models.SeverityError
		}
		return &models.Violation{
			RuleName: rule.Name, FromModule: fromFile, ToModule: toFile,
			FromLayer: fromLayer, ToLayer: toLayer, Severity: severity,
			FilePath: fromFile, LineNumber: lineNumber, Message: rule.Message,
		}
	}

	return nil // default allow
}

// ValidateAll runs Validate over every import edge and returns the
// violations in file, then line order.
func (rs *RuleSet) ValidateAll(imports []ImportEdge) []models.Violation {
	var violations []models.Violation
	for _, e := range imports {
		if v := rs.Validate(e.FromFile, e.ToFile, e.Line); v != nil {
			violations = append(violations, *v)
		}
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].FilePath != violations[j].FilePath {
			return violations[i].FilePath < violations[j].FilePath
		}
		return violations[i].LineNumber < violations[j].LineNumber
	})
	return violations
}

// ImportEdge is one structural IMPORTS edge, reduced to file-level
// granularity for governance purposes.
type ImportEdge struct {
	FromFile string
	ToFile   string
	Line     int
}

// Metrics computes coupling, cohesion, and per-layer balance from a set of
// import edges classified into layers.
func (rs *RuleSet) Metrics(imports []ImportEdge) models.DriftMetrics {
	layerOf := func(f string) string { return rs.ClassifyLayer(f) }

	crossLayer, sameLayer := 0, 0
	layerCounts := make(map[string]int)

	for _, e := range imports {
		fromLayer, toLayer := layerOf(e.FromFile), layerOf(e.ToFile)
		layerCounts[fromLayer]++
		if fromLayer == "" || toLayer == "" {
			continue
		}
		if fromLayer == toLayer {
			sameLayer++
		} else {
			crossLayer++
		}
	}

	total := crossLayer + sameLayer
	coupling := 0.0
	cohesion := 0.0
	if total > 0 {
		coupling = float64(crossLayer) / float64(total)
		cohesion = float64(sameLayer) / float64(total)
	}

	balance := make(map[string]float64)
	grandTotal := 0
	for _, n := range layerCounts {
		grandTotal += n
	}
	for layer, n := range layerCounts {
		if grandTotal > 0 {
			balance[layer] = float64(n) / float64(grandTotal)
		}
	}

	return models.DriftMetrics{
		CouplingScore:  coupling,
		CohesionScore:  cohesion,
		ViolationCount: len(rs.ValidateAll(imports)),
		LayerBalance:   balance,
	}
}

// Drift compares a current snapshot's metrics against a stored baseline,
// returning a single bounded scalar in [0,1]:
// clamp01(0.4·|C.coupling−B.coupling| + 0.3·(C.violations−B.violations)/max(B.violations,1) + 0.3·|C.cohesion−B.cohesion|).
func Drift(baseline, current models.DriftMetrics) float64 {
	couplingDelta := absFloat(current.CouplingScore - baseline.CouplingScore)
	cohesionDelta := absFloat(current.CohesionScore - baseline.CohesionScore)

	baselineViolations := float64(baseline.ViolationCount)
	if baselineViolations < 1 {
		baselineViolations = 1
	}
	violationDelta := float64(current.ViolationCount-baseline.ViolationCount) / baselineViolations

	score := 0.4*couplingDelta + 0.3*violationDelta + 0.3*cohesionDelta
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Recommend picks a rubric-derived recommendation for governance_drift()
// (spec.md §4.8), keyed on whichever of the three drift dimensions moved
// the most between baseline and current.
func Recommend(baseline, current models.DriftMetrics) []string {
	couplingDelta := current.CouplingScore - baseline.CouplingScore
	cohesionDelta := current.CohesionScore - baseline.CohesionScore
	violationDelta := current.ViolationCount - baseline.ViolationCount

	type dim struct {
		name string
		mag  float64
	}
	dims := []dim{
		{"coupling", absFloat(couplingDelta)},
		{"violations", absFloat(float64(violationDelta))},
		{"cohesion", absFloat(cohesionDelta)},
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i].mag > dims[j].mag })

	if dims[0].mag == 0 {
		return nil
	}

	switch dims[0].name {
	case "coupling":
		if couplingDelta > 0 {
			return []string{"Cross-layer coupling has grown; review recent imports for boundary rules that should be tightened."}
		}
		return nil
	case "violations":
		if violationDelta > 0 {
			return []string{"New boundary violations have appeared since the baseline; run governance validate to locate them."}
		}
		return nil
	case "cohesion":
		if cohesionDelta < 0 {
			return []string{"Layer cohesion has dropped; modules are reaching across layers more than the baseline expected."}
		}
		return nil
	default:
		return nil
	}
}
