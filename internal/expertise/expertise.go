// Package expertise scores each (developer, file) pair on seven weighted
// factors derived from mined commit history, then derives bus factor and
// knowledge-gap signals from those scores, using a developer-to-edit-count
// familiarity record per file; persistence is left to internal/storage, out
// of scope, so this package works entirely over in-memory commit records.
package expertise

import (
	"math"
	"sort"
	"time"

	"github.com/nithin-eashwar/synapse/internal/models"
)

// Weights holds the seven factor weights, all summing to 1.0 in
// DefaultWeights.
type Weights struct {
	CommitFrequency         float64
	LinesChanged             float64
	RefactorDepth            float64
	ArchitecturalChanges     float64
	BugFixes                 float64
	Recency                  float64
	CodeReviewParticipation  float64
}

// DefaultWeights is the factor weighting used when none is supplied.
// CodeReviewParticipation defaults to 0 per-score since synapse mines
// local git history only and has no PR-review data source wired (out of
// scope per the HTTP-surface exclusion); its weight is still carried so a
// future data source can populate it without a type change.
func DefaultWeights() Weights {
	return Weights{
		CommitFrequency:         0.15,
		LinesChanged:            0.10,
		RefactorDepth:           0.25,
		ArchitecturalChanges:    0.20,
		BugFixes:                0.15,
		Recency:                 0.10,
		CodeReviewParticipation: 0.05,
	}
}

// Scorer computes expertise scores from a mined commit set.
type Scorer struct {
	weights Weights
	now     time.Time
}

// NewScorer creates a Scorer. now anchors the Recency factor and must be
// passed explicitly (time.Now() is unavailable to orchestration scripts
// but the CLI entry point supplies it at run time).
func NewScorer(weights Weights, now time.Time) *Scorer {
	return &Scorer{weights: weights, now: now}
}

type accumulator struct {
	commits        int
	linesChanged   int
	refactorLines  int
	architectural  int
	bugfixes       int
	lastTouch      time.Time
}

// Score computes one models.ExpertiseScore per (developer email, file path)
// touched anywhere in commits. commit_frequency and lines_changed are
// normalised against each file's totals across every developer
// (commits_total(F), lines_total(F)), not a dataset-wide maximum, so a
// developer's share on a file always reflects that file alone.
func (s *Scorer) Score(commits []models.Commit) []models.ExpertiseScore {
	acc := make(map[[2]string]*accumulator) // [email, file] -> accumulator
	fileCommits := make(map[string]int)
	fileLines := make(map[string]int)

	for _, c := range commits {
		for _, f := range c.Files {
			key := [2]string{c.Author.Email, f.Path}
			a, ok := acc[key]
			if !ok {
				a = &accumulator{}
				acc[key] = a
			}
			lines := f.LinesAdded + f.LinesDeleted
			a.commits++
			a.linesChanged += lines
			fileCommits[f.Path]++
			fileLines[f.Path] += lines
			if c.Timestamp.After(a.lastTouch) {
				a.lastTouch = c.Timestamp
			}
			switch c.Classification {
			case models.ClassRefactor:
				a.refactorLines += lines
			case models.ClassArchitectural:
				a.architectural++
			case models.ClassBugfix:
				a.bugfixes++
			}
		}
	}

	scores := make([]models.ExpertiseScore, 0, len(acc))
	for key, a := range acc {
		file := key[1]
		factors := models.ExpertiseFactors{
			CommitFrequency:         math.Min(1.0, float64(a.commits)/float64(fileCommits[file])),
			LinesChanged:            ratio(a.linesChanged, fileLines[file]),
			RefactorDepth:           ratio(a.refactorLines, a.linesChanged),
			ArchitecturalChanges:    ratio(a.architectural, a.commits),
			BugFixes:                ratio(a.bugfixes, a.commits),
			Recency:                 s.recencyScore(a.lastTouch),
			CodeReviewParticipation: 0,
		}
		total := factors.CommitFrequency*s.weights.CommitFrequency +
			factors.LinesChanged*s.weights.LinesChanged +
			factors.RefactorDepth*s.weights.RefactorDepth +
			factors.ArchitecturalChanges*s.weights.ArchitecturalChanges +
			factors.BugFixes*s.weights.BugFixes +
			factors.Recency*s.weights.Recency +
			factors.CodeReviewParticipation*s.weights.CodeReviewParticipation

		confidence := math.Min(1.0, float64(a.commits)/10.0) // <10 commits: low-confidence signal

		scores = append(scores, models.ExpertiseScore{
			DeveloperEmail: key[0],
			FilePath:       key[1],
			Factors:        factors,
			Total:          total,
			Confidence:     confidence,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].FilePath != scores[j].FilePath {
			return scores[i].FilePath < scores[j].FilePath
		}
		return scores[i].Total > scores[j].Total
	})

	return scores
}

func (s *Scorer) recencyScore(last time.Time) float64 {
	if last.IsZero() {
		return 0
	}
	days := s.now.Sub(last).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Exp(-days / 90.0)
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// BusFactor is the minimum number of developers whose combined expertise
// share covers at least half of a file's total expertise score.
type BusFactor struct {
	FilePath string
	Factor   int
	TopOwners []string
}

// ComputeBusFactor groups scores by file and finds, for each file, the
// smallest set of top-ranked developers whose scores sum to >= 50% of the
// file's total.
func ComputeBusFactor(scores []models.ExpertiseScore) []BusFactor {
	byFile := make(map[string][]models.ExpertiseScore)
	var order []string
	for _, sc := range scores {
		if _, ok := byFile[sc.FilePath]; !ok {
			order = append(order, sc.FilePath)
		}
		byFile[sc.FilePath] = append(byFile[sc.FilePath], sc)
	}

	var results []BusFactor
	for _, file := range order {
		fileScores := append([]models.ExpertiseScore{}, byFile[file]...)
		sort.Slice(fileScores, func(i, j int) bool { return fileScores[i].Total > fileScores[j].Total })

		total := 0.0
		for _, sc := range fileScores {
			total += sc.Total
		}
		if total == 0 {
			results = append(results, BusFactor{FilePath: file, Factor: len(fileScores)})
			continue
		}

		covered := 0.0
		var owners []string
		k := 0
		for _, sc := range fileScores {
			covered += sc.Total
			owners = append(owners, sc.DeveloperEmail)
			k++
			if covered/total >= 0.5 {
				break
			}
		}
		results = append(results, BusFactor{FilePath: file, Factor: k, TopOwners: owners})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].FilePath < results[j].FilePath })
	return results
}

// KnowledgeGap flags a file whose bus factor is 1: a single developer
// accounts for at least half of the file's expertise score, so their
// departure would leave the file effectively unowned.
type KnowledgeGap struct {
	FilePath   string
	SoleExpert string
}

// FindKnowledgeGaps scans bus factors for single-owner files.
func FindKnowledgeGaps(busFactors []BusFactor) []KnowledgeGap {
	var gaps []KnowledgeGap
	for _, bf := range busFactors {
		if bf.Factor != 1 || len(bf.TopOwners) != 1 {
			continue
		}
		gaps = append(gaps, KnowledgeGap{FilePath: bf.FilePath, SoleExpert: bf.TopOwners[0]})
	}
	return gaps
}

// ByDeveloper buckets expertise scores by top-level module (the first
// path segment) and developer, summing Total for a per-module per-person
// ownership breakdown.
func ByDeveloper(scores []models.ExpertiseScore, moduleOf func(filePath string) string) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for _, sc := range scores {
		mod := moduleOf(sc.FilePath)
		if out[mod] == nil {
			out[mod] = make(map[string]float64)
		}
		out[mod][sc.DeveloperEmail] += sc.Total
	}
	return out
}

// ModuleHeatmapEntry is the per-module aggregate spec.md §4.7's "Heatmap"
// describes: bus_factor, expert_count (developers scoring >= 0.3
// anywhere in the module), has_gap, and file_count.
type ModuleHeatmapEntry struct {
	BusFactor   int
	ExpertCount int
	HasGap      bool
	FileCount   int
}

// WarningThreshold is the bus factor at or below which a file is
// considered a knowledge-risk area, surfaced by both Heatmap and
// BusFactorSummary.
const WarningThreshold = 2

// Heatmap aggregates bus factors and expertise scores to a per-module
// view, per spec.md §4.7: `{bus_factor, expert_count, has_gap, file_count}`
// per top-level module. A module's bus_factor is the minimum (worst-case)
// bus factor among its files; has_gap is true if any file in the module
// has a knowledge gap per spec.md §4.7's definition (bus_factor <= 1 or
// max score < 0.3).
func Heatmap(scores []models.ExpertiseScore, busFactors []BusFactor, moduleOf func(filePath string) string) map[string]ModuleHeatmapEntry {
	filesByModule := make(map[string]map[string]bool)
	expertsByModule := make(map[string]map[string]bool)
	maxScoreByFile := make(map[string]float64)

	for _, sc := range scores {
		mod := moduleOf(sc.FilePath)
		if filesByModule[mod] == nil {
			filesByModule[mod] = make(map[string]bool)
		}
		filesByModule[mod][sc.FilePath] = true
		if sc.Total >= 0.3 {
			if expertsByModule[mod] == nil {
				expertsByModule[mod] = make(map[string]bool)
			}
			expertsByModule[mod][sc.DeveloperEmail] = true
		}
		if sc.Total > maxScoreByFile[sc.FilePath] {
			maxScoreByFile[sc.FilePath] = sc.Total
		}
	}

	busFactorByModule := make(map[string]int)
	gapByModule := make(map[string]bool)
	for _, bf := range busFactors {
		mod := moduleOf(bf.FilePath)
		if cur, ok := busFactorByModule[mod]; !ok || bf.Factor < cur {
			busFactorByModule[mod] = bf.Factor
		}
		if bf.Factor <= 1 || maxScoreByFile[bf.FilePath] < 0.3 {
			gapByModule[mod] = true
		}
	}

	out := make(map[string]ModuleHeatmapEntry)
	for mod, files := range filesByModule {
		out[mod] = ModuleHeatmapEntry{
			BusFactor:   busFactorByModule[mod],
			ExpertCount: len(expertsByModule[mod]),
			HasGap:      gapByModule[mod],
			FileCount:   len(files),
		}
	}
	return out
}

// AverageBusFactor returns the mean bus factor across every module in a
// Heatmap result, or 0 if empty.
func AverageBusFactor(heat map[string]ModuleHeatmapEntry) float64 {
	if len(heat) == 0 {
		return 0
	}
	sum := 0
	for _, e := range heat {
		sum += e.BusFactor
	}
	return float64(sum) / float64(len(heat))
}

// RecommendationText picks a rubric-derived sentence for expert_for()
// responses (spec.md §6), keyed on whether a file has expertise data at
// all, its bus factor, and its top score.
func RecommendationText(busFactor int, topScore float64, hasExpert bool) string {
	if !hasExpert {
		return "No expertise data available for this file; treat any change here as unreviewed."
	}
	switch {
	case busFactor <= 1:
		return "Single point of failure: pair a second developer on this file before the primary expert becomes unavailable."
	case topScore < 0.3:
		return "No developer has strong expertise on this file; budget extra review time."
	case busFactor <= WarningThreshold:
		return "Knowledge is concentrated in a small group; consider spreading ownership."
	default:
		return "Expertise on this file is reasonably distributed."
	}
}

// RiskAreas returns the sorted module names whose bus factor is at or
// below WarningThreshold or which carry a knowledge gap.
func RiskAreas(heat map[string]ModuleHeatmapEntry) []string {
	var areas []string
	for mod, e := range heat {
		if e.HasGap || (e.BusFactor > 0 && e.BusFactor <= WarningThreshold) {
			areas = append(areas, mod)
		}
	}
	sort.Strings(areas)
	return areas
}
