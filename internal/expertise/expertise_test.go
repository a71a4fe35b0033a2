package expertise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithin-eashwar/synapse/internal/models"
)

func commit(email, path string, added, deleted int, class models.CommitClassification, when time.Time) models.Commit {
	return models.Commit{
		Hash:           "h",
		Author:         models.Author{Email: email},
		Timestamp:      when,
		Classification: class,
		Files: []models.FileChange{
			{Path: path, LinesAdded: added, LinesDeleted: deleted},
		},
	}
}

func TestScore_AggregatesPerDeveloperFile(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []models.Commit{
		commit("alice@x.com", "a.go", 10, 0, models.ClassRoutine, now.Add(-24*time.Hour)),
		commit("alice@x.com", "a.go", 5, 5, models.ClassBugfix, now.Add(-48*time.Hour)),
		commit("bob@x.com", "a.go", 1, 0, models.ClassRoutine, now.Add(-72*time.Hour)),
	}

	scorer := NewScorer(DefaultWeights(), now)
	scores := scorer.Score(commits)

	require.Len(t, scores, 2)
	// Scores for a file are sorted by Total descending.
	assert.Equal(t, "a.go", scores[0].FilePath)
	assert.Equal(t, "alice@x.com", scores[0].DeveloperEmail, "alice has more commits and more lines changed")
	assert.GreaterOrEqual(t, scores[0].Total, scores[1].Total)
}

func TestScore_RecencyDecaysWithAge(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []models.Commit{
		commit("recent@x.com", "f.go", 1, 0, models.ClassRoutine, now.Add(-1*24*time.Hour)),
		commit("stale@x.com", "g.go", 1, 0, models.ClassRoutine, now.Add(-400*24*time.Hour)),
	}

	scorer := NewScorer(DefaultWeights(), now)
	scores := scorer.Score(commits)
	require.Len(t, scores, 2)

	byEmail := map[string]models.ExpertiseScore{}
	for _, s := range scores {
		byEmail[s.DeveloperEmail] = s
	}
	assert.Greater(t, byEmail["recent@x.com"].Factors.Recency, byEmail["stale@x.com"].Factors.Recency)
}

func TestScore_ConfidenceScalesWithCommitCount(t *testing.T) {
	now := time.Now().UTC()
	var commits []models.Commit
	for i := 0; i < 10; i++ {
		commits = append(commits, commit("x@x.com", "f.go", 1, 0, models.ClassRoutine, now))
	}
	scorer := NewScorer(DefaultWeights(), now)
	scores := scorer.Score(commits)
	require.Len(t, scores, 1)
	assert.Equal(t, 1.0, scores[0].Confidence, "confidence caps at 1.0 once commits >= 10")
}

func TestScore_NormalisesCommitFrequencyAndLinesPerFileNotDataset(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []models.Commit{
		// alice dominates "big.go" with a huge changeset...
		commit("alice@x.com", "big.go", 500, 0, models.ClassRoutine, now),
		// ...while on "small.go" alice and bob split evenly.
		commit("alice@x.com", "small.go", 5, 0, models.ClassRoutine, now),
		commit("bob@x.com", "small.go", 5, 0, models.ClassRoutine, now),
	}
	scorer := NewScorer(DefaultWeights(), now)
	scores := scorer.Score(commits)

	var aliceSmall, bobSmall models.ExpertiseScore
	for _, s := range scores {
		if s.FilePath == "small.go" && s.DeveloperEmail == "alice@x.com" {
			aliceSmall = s
		}
		if s.FilePath == "small.go" && s.DeveloperEmail == "bob@x.com" {
			bobSmall = s
		}
	}
	assert.InDelta(t, 0.5, aliceSmall.Factors.LinesChanged, 0.0001, "alice's lines_changed share on small.go must be relative to small.go's own total, not big.go's")
	assert.InDelta(t, 0.5, bobSmall.Factors.LinesChanged, 0.0001)
	assert.InDelta(t, 0.5, aliceSmall.Factors.CommitFrequency, 0.0001)
}

func TestScore_RefactorDepthIsWeightedByLinesChanged(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []models.Commit{
		// One huge refactor commit and one tiny routine commit: refactor_depth
		// should reflect the line share, not a flat 1-of-2 commit count.
		commit("alice@x.com", "f.go", 90, 0, models.ClassRefactor, now),
		commit("alice@x.com", "f.go", 10, 0, models.ClassRoutine, now),
	}
	scorer := NewScorer(DefaultWeights(), now)
	scores := scorer.Score(commits)
	require.Len(t, scores, 1)
	assert.InDelta(t, 0.9, scores[0].Factors.RefactorDepth, 0.0001)
}

func TestComputeBusFactor_SingleDominantOwnerIsFactorOne(t *testing.T) {
	scores := []models.ExpertiseScore{
		{DeveloperEmail: "alice@x.com", FilePath: "f.go", Total: 0.9},
		{DeveloperEmail: "bob@x.com", FilePath: "f.go", Total: 0.1},
	}
	busFactors := ComputeBusFactor(scores)
	require.Len(t, busFactors, 1)
	assert.Equal(t, 1, busFactors[0].Factor)
	assert.Equal(t, []string{"alice@x.com"}, busFactors[0].TopOwners)
}

func TestComputeBusFactor_EvenSplitRequiresTwoOwners(t *testing.T) {
	scores := []models.ExpertiseScore{
		{DeveloperEmail: "alice@x.com", FilePath: "f.go", Total: 0.5},
		{DeveloperEmail: "bob@x.com", FilePath: "f.go", Total: 0.5},
	}
	busFactors := ComputeBusFactor(scores)
	require.Len(t, busFactors, 1)
	assert.Equal(t, 2, busFactors[0].Factor)
}

func TestFindKnowledgeGaps_FlagsBusFactorOneFiles(t *testing.T) {
	gaps := FindKnowledgeGaps([]BusFactor{
		{FilePath: "solo.go", Factor: 1, TopOwners: []string{"alice@x.com"}},
		{FilePath: "shared.go", Factor: 2, TopOwners: []string{"alice@x.com", "bob@x.com"}},
	})
	require.Len(t, gaps, 1)
	assert.Equal(t, "solo.go", gaps[0].FilePath)
	assert.Equal(t, "alice@x.com", gaps[0].SoleExpert)
}

func TestByDeveloper_SumsTotalsByModuleAndDeveloper(t *testing.T) {
	scores := []models.ExpertiseScore{
		{DeveloperEmail: "alice@x.com", FilePath: "internal/risk/risk.go", Total: 0.5},
		{DeveloperEmail: "alice@x.com", FilePath: "internal/risk/other.go", Total: 0.25},
		{DeveloperEmail: "bob@x.com", FilePath: "internal/graph/graph.go", Total: 0.75},
	}
	moduleOf := func(path string) string {
		if len(path) >= len("internal/risk") && path[:len("internal/risk")] == "internal/risk" {
			return "internal/risk"
		}
		return "internal/graph"
	}
	heatmap := ByDeveloper(scores, moduleOf)
	require.Contains(t, heatmap, "internal/risk")
	assert.InDelta(t, 0.75, heatmap["internal/risk"]["alice@x.com"], 0.0001)
	assert.InDelta(t, 0.75, heatmap["internal/graph"]["bob@x.com"], 0.0001)
}
