package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectLanguage_MapsExtensions(t *testing.T) {
	assert.Equal(t, "python", DetectLanguage("a.py"))
	assert.Equal(t, "typescript", DetectLanguage("a.ts"))
	assert.Equal(t, "tsx", DetectLanguage("a.tsx"))
	assert.Equal(t, "javascript", DetectLanguage("a.js"))
	assert.Equal(t, "", DetectLanguage("a.go"))
}

func TestParseFile_UnsupportedExtensionReturnsPartialParseError(t *testing.T) {
	path := writeTemp(t, "a.go", "package main")
	pf := ParseFile(path)
	require.Error(t, pf.Err)
}

func TestParseFile_MissingFileReturnsError(t *testing.T) {
	pf := ParseFile(filepath.Join(t.TempDir(), "nope.py"))
	require.Error(t, pf.Err)
}

func TestParseFile_PythonExtractsFunctionsAndImports(t *testing.T) {
	src := `import os
from collections import OrderedDict as OD

class Base:
    pass

class Worker(Base):
    def run(self):
        os.getcwd()
        return OD()
`
	path := writeTemp(t, "worker.py", src)
	pf := ParseFile(path)
	require.NoError(t, pf.Err)
	assert.Equal(t, "python", pf.Language)

	var names []string
	for _, e := range pf.Entities {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "Base")
	assert.Contains(t, names, "Worker")
	assert.Contains(t, names, "Worker.run")

	assert.Equal(t, "os", pf.Imports.Aliases["os"])
	assert.Equal(t, "collections.OrderedDict", pf.Imports.Aliases["OD"])

	var inheritCall *RawCall
	for i := range pf.Calls {
		if pf.Calls[i].Kind == "inherit" {
			inheritCall = &pf.Calls[i]
		}
	}
	require.NotNil(t, inheritCall, "Worker(Base) should register an inherit edge")
	assert.Equal(t, "Worker", inheritCall.CallerName)
	assert.Equal(t, "Base", inheritCall.CalleeText)
}

func TestParseFile_PythonCapturesCallSites(t *testing.T) {
	src := "def helper():\n    pass\n\ndef main():\n    helper()\n"
	path := writeTemp(t, "mod.py", src)
	pf := ParseFile(path)
	require.NoError(t, pf.Err)

	require.Len(t, pf.Calls, 1)
	assert.Equal(t, "main", pf.Calls[0].CallerName)
	assert.Equal(t, "helper", pf.Calls[0].CalleeText)
}
