package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithin-eashwar/synapse/internal/config"
)

func initGitRepo(t *testing.T, dir string) {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init")
	run("add", ".")
	run("commit", "-m", "initial commit")
}

func writeRepoFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOrchestrator_Run_ParsesResolvesAndScores(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repo := t.TempDir()
	writeRepoFile(t, repo, "pkg/base.py", "class Base:\n    pass\n")
	writeRepoFile(t, repo, "pkg/worker.py", `from pkg.base import Base

class Worker(Base):
    def run(self):
        return helper()

def helper():
    return 1
`)
	initGitRepo(t, repo)

	cfg := config.Default()
	cfg.Cache.Directory = ""

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	orch := NewOrchestrator(logger, cfg, 2)
	summary, err := orch.Run(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesTotal)
	assert.Equal(t, 2, summary.FilesParsed)
	assert.Zero(t, summary.FilesFailed)
	assert.NotNil(t, summary.Graph)
	assert.Greater(t, summary.Graph.Len(), 0)
	assert.NotEmpty(t, summary.Assessments)
	assert.NotEmpty(t, summary.Commits)
}

func TestOrchestrator_Run_ContinuesWhenGitHistoryUnavailable(t *testing.T) {
	repo := t.TempDir()
	writeRepoFile(t, repo, "solo.py", "def solo():\n    pass\n")

	cfg := config.Default()
	cfg.Cache.Directory = ""

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	orch := NewOrchestrator(logger, cfg, 1)
	summary, err := orch.Run(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesParsed)
	assert.Empty(t, summary.Commits, "no git repo means git mining fails but the run still completes")
	assert.NotNil(t, summary.Assessments)
}

func TestOrchestrator_Run_UsesParseCacheAcrossRuns(t *testing.T) {
	repo := t.TempDir()
	writeRepoFile(t, repo, "m.py", "def f():\n    pass\n")

	cacheDir := filepath.Join(t.TempDir(), "cache")
	cfg := config.Default()
	cfg.Cache.Directory = cacheDir

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	orch := NewOrchestrator(logger, cfg, 1)

	first, err := orch.Run(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 1, first.FilesParsed)

	second, err := orch.Run(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 1, second.FilesParsed, "cached parse should still report the file as parsed")
}
