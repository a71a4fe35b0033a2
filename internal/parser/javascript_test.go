package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_JavaScriptExtractsClassAndMethodAndImport(t *testing.T) {
	src := `import { readFile } from 'fs';

class Animal {
  speak() {
    readFile('x');
  }
}

class Dog extends Animal {
  bark() {
    return true;
  }
}
`
	path := writeTemp(t, "animals.js", src)
	pf := ParseFile(path)
	require.NoError(t, pf.Err)
	assert.Equal(t, "javascript", pf.Language)

	var names []string
	for _, e := range pf.Entities {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "Animal")
	assert.Contains(t, names, "Dog")
	assert.Contains(t, names, "Animal.speak")
	assert.Contains(t, names, "Dog.bark")

	assert.Equal(t, "fs", pf.Imports.Aliases["readFile"])

	var inherit *RawCall
	for i := range pf.Calls {
		if pf.Calls[i].Kind == "inherit" {
			inherit = &pf.Calls[i]
		}
	}
	require.NotNil(t, inherit)
	assert.Equal(t, "Dog", inherit.CallerName)
	assert.Equal(t, "Animal", inherit.CalleeText)
}

func TestParseFile_JavaScriptNamedArrowFunctionIsCaptured(t *testing.T) {
	src := "const add = (a, b) => {\n  return a + b;\n};\n"
	path := writeTemp(t, "math.js", src)
	pf := ParseFile(path)
	require.NoError(t, pf.Err)

	var names []string
	for _, e := range pf.Entities {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "add")
}
