package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithin-eashwar/synapse/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synapse.db")
	store, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_CreatesSchemaAndIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	assert.NotNil(t, store)
}

func TestSaveAndLoadDeveloperProfiles(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	profiles := []models.DeveloperProfile{
		{
			Email:             "ada@example.com",
			ObservedNames:     []string{"Ada Lovelace", "ada"},
			FirstActivity:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			LastActivity:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			TotalCommits:      42,
			TotalLinesAdded:   1000,
			TotalLinesDeleted: 200,
		},
	}
	require.NoError(t, store.SaveDeveloperProfiles(ctx, profiles))

	// Upsert with updated counts should not error and should overwrite.
	profiles[0].TotalCommits = 43
	require.NoError(t, store.SaveDeveloperProfiles(ctx, profiles))
}

func TestSaveAndQueryExpertiseScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	scores := []models.ExpertiseScore{
		{
			DeveloperEmail: "ada@example.com",
			FilePath:       "src/engine.py",
			Factors: models.ExpertiseFactors{
				CommitFrequency: 0.8,
				LinesChanged:    0.5,
				Recency:         0.9,
			},
			Total:      0.7,
			Confidence: 1.0,
		},
		{
			DeveloperEmail: "grace@example.com",
			FilePath:       "src/engine.py",
			Factors:        models.ExpertiseFactors{CommitFrequency: 0.3},
			Total:          0.3,
			Confidence:     0.6,
		},
	}
	require.NoError(t, store.SaveExpertiseScores(ctx, scores))

	got, err := store.ExpertiseForFile(ctx, "src/engine.py")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ada@example.com", got[0].DeveloperEmail, "should be ordered by total descending")
	assert.InDelta(t, 0.7, got[0].Total, 0.0001)
}

func TestExpertiseForFile_UnknownFileReturnsEmpty(t *testing.T) {
	store := openTestStore(t)
	got, err := store.ExpertiseForFile(context.Background(), "does/not/exist.py")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveAndLoadDriftBaseline(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	metrics := models.DriftMetrics{
		CouplingScore:  0.4,
		CohesionScore:  0.6,
		ViolationCount: 3,
	}
	require.NoError(t, store.SaveDriftBaseline(ctx, "/repo", metrics, `{"core":0.5}`))

	loaded, layerJSON, found, err := store.LoadDriftBaseline(ctx, "/repo")
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 0.4, loaded.CouplingScore, 0.0001)
	assert.Equal(t, `{"core":0.5}`, layerJSON)

	// Re-saving should overwrite, not duplicate.
	metrics.ViolationCount = 5
	require.NoError(t, store.SaveDriftBaseline(ctx, "/repo", metrics, `{"core":0.5}`))
	loaded2, _, found2, err := store.LoadDriftBaseline(ctx, "/repo")
	require.NoError(t, err)
	require.True(t, found2)
	assert.Equal(t, 5, loaded2.ViolationCount)
}

func TestLoadDriftBaseline_MissingRepoReturnsNotFound(t *testing.T) {
	store := openTestStore(t)
	loaded, _, found, err := store.LoadDriftBaseline(context.Background(), "/nowhere")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, loaded)
}
