package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSourceFile_SupportedExtensions(t *testing.T) {
	assert.True(t, IsSourceFile("a.py"))
	assert.True(t, IsSourceFile("a.ts"))
	assert.True(t, IsSourceFile("a.tsx"))
	assert.False(t, IsSourceFile("a.go"), "go files are not in the analysis surface")
	assert.False(t, IsSourceFile("a.txt"))
}

func TestIsSourceFile_ExcludesGeneratedFiles(t *testing.T) {
	assert.False(t, IsSourceFile("dist/bundle.min.js"))
	assert.False(t, IsSourceFile("src/types.d.ts"))
	assert.False(t, IsSourceFile("api_pb.js"))
}

func TestIsSourceFile_ExcludesGeneratedDirectories(t *testing.T) {
	assert.False(t, IsSourceFile("web/dist/app.js"))
	assert.False(t, IsSourceFile("web/build/app.ts"))
}

func TestIsSourceFile_ExcludesFixtureDirectories(t *testing.T) {
	assert.False(t, IsSourceFile("src/__tests__/fixtures/sample.ts"))
	assert.False(t, IsSourceFile("tests/fixtures/sample.py"))
}

func TestWalk_SkipsExcludedDirsAndReturnsSourceFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "pkg", "index.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.py"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "README.md"), []byte("x"), 0o644))

	files, err := Walk(root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "src", "main.py"), files[0])
}
