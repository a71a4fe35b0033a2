package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_TypeScriptExtractsInterfaceAndTypeAlias(t *testing.T) {
	src := `interface Shape {
  area(): number;
}

interface Circle extends Shape {
  radius: number;
}

type Point = { x: number; y: number };
`
	path := writeTemp(t, "shapes.ts", src)
	pf := ParseFile(path)
	require.NoError(t, pf.Err)
	assert.Equal(t, "typescript", pf.Language)

	var names []string
	for _, e := range pf.Entities {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "Shape")
	assert.Contains(t, names, "Circle")
	assert.Contains(t, names, "Point")

	var inherit *RawCall
	for i := range pf.Calls {
		if pf.Calls[i].Kind == "inherit" {
			inherit = &pf.Calls[i]
		}
	}
	require.NotNil(t, inherit)
	assert.Equal(t, "Circle", inherit.CallerName)
	assert.Equal(t, "Shape", inherit.CalleeText)
}
