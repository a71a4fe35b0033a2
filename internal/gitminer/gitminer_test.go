package gitminer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithin-eashwar/synapse/internal/models"
)

func TestNormalizeGitHubEmail_StripsNumericPrefix(t *testing.T) {
	assert.Equal(t, "octocat@users.noreply.github.com", NormalizeGitHubEmail("12345+octocat@users.noreply.github.com"))
}

func TestNormalizeGitHubEmail_PassesThroughOtherAddresses(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeGitHubEmail("alice@example.com"))
}

func TestClassify_OrderedPatternTable(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    models.CommitClassification
	}{
		{"fix prefix", "fix: off by one in parser", models.ClassBugfix},
		{"fixes issue reference", "handle edge case, fixes #42", models.ClassBugfix},
		{"refactor prefix", "refactor: extract helper", models.ClassRefactor},
		{"architectural feature", "feat: redesign storage layer architecture", models.ClassArchitectural},
		{"breaking change", "rework public API (breaking change)", models.ClassArchitectural},
		{"routine default", "bump dependency versions", models.ClassRoutine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestParseLog_ParsesRecordAndFieldSeparators(t *testing.T) {
	output := "abc123" + fieldSep + "Alice" + fieldSep + "alice@example.com" + fieldSep +
		"2026-01-01T00:00:00Z" + fieldSep + "fix: bug\n" +
		"10\t2\tsrc/a.py\n" + recordSep

	commits := parseLog(output)
	require.Len(t, commits, 1)
	c := commits[0]
	assert.Equal(t, "abc123", c.Hash)
	assert.Equal(t, "alice@example.com", c.Author.Email)
	assert.Equal(t, models.ClassBugfix, c.Classification)
	require.Len(t, c.Files, 1)
	assert.Equal(t, "src/a.py", c.Files[0].Path)
	assert.Equal(t, 10, c.Files[0].LinesAdded)
	assert.Equal(t, 2, c.Files[0].LinesDeleted)
}

func TestParseLog_SkipsEmptyRecords(t *testing.T) {
	commits := parseLog(recordSep + recordSep)
	assert.Empty(t, commits)
}

func TestAggregateDevelopers_MergesMultipleNamesUnderOneEmail(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []models.Commit{
		{Author: models.Author{Name: "Alice", Email: "a@x.com"}, Timestamp: base, Files: []models.FileChange{{LinesAdded: 5}}},
		{Author: models.Author{Name: "Alice W", Email: "a@x.com"}, Timestamp: base.Add(24 * time.Hour), Files: []models.FileChange{{LinesAdded: 3, LinesDeleted: 1}}},
	}
	profiles := AggregateDevelopers(commits)
	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, "a@x.com", p.Email)
	assert.ElementsMatch(t, []string{"Alice", "Alice W"}, p.ObservedNames)
	assert.Equal(t, 2, p.TotalCommits)
	assert.Equal(t, 8, p.TotalLinesAdded)
	assert.Equal(t, 1, p.TotalLinesDeleted)
	assert.True(t, p.LastActivity.After(p.FirstActivity))
}
