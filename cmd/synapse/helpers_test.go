package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithin-eashwar/synapse/internal/condenser"
	"github.com/nithin-eashwar/synapse/internal/models"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestModuleOf_ReturnsTopLevelDirectory(t *testing.T) {
	assert.Equal(t, "internal", moduleOf("internal/risk/risk.go"))
	assert.Equal(t, ".", moduleOf("main.go"))
}

func TestJoinLines_JoinsWithNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\nc", joinLines([]string{"a", "b", "c"}))
	assert.Equal(t, "", joinLines(nil))
	assert.Equal(t, "solo", joinLines([]string{"solo"}))
}

func TestPrintCondensed_RendersNestedHierarchy(t *testing.T) {
	root := &condenser.DirNode{
		Path: "",
		Files: []*condenser.FileNode{
			{Path: "main.go", TotalCyclomatic: 2, MaxRiskLevel: models.RiskLow},
		},
		Children: map[string]*condenser.DirNode{
			"internal": {
				Path: "internal",
				Files: []*condenser.FileNode{
					{Path: "internal/risk.go", TotalCyclomatic: 9, MaxRiskLevel: models.RiskHigh},
				},
				Children: map[string]*condenser.DirNode{},
			},
		},
	}

	out := captureStdout(t, func() { printCondensed(root, 0) })
	assert.Contains(t, out, ". [")
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "internal")
	assert.Contains(t, out, "risk.go")
}
