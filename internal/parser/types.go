// Package parser walks a repository tree with tree-sitter and emits one
// ParsedFile per source file: its entities, its import table, and its raw
// (unresolved) call sites.
package parser

import sitter "github.com/tree-sitter/go-tree-sitter"

// Entity is a function/method/class/module-level constant found in one
// file, before resolution assigns it a graph-wide stable ID.
type Entity struct {
	Kind       string // "function", "method", "class", "module", "import"
	Name       string // qualified nesting path, e.g. "Outer.Inner.method"
	FilePath   string // POSIX-normalised, relative to repo root
	StartLine  int
	EndLine    int
	Language   string
	Signature  string
	OwnerClass string
	ImportPath string // imports only
	Cyclomatic int    // functions/methods only
	Cognitive  int    // functions/methods only
}

// RawCall is a caller→callee textual reference discovered during parse,
// not yet resolved to a canonical entity ID.
type RawCall struct {
	CallerName string // qualified name of the entity making the call
	CalleeText string // textual target, e.g. "bar" or "mod.bar"
	Line       int
	Kind       string // "call" or "inherit"
}

// ImportTable maps a file's local aliases to canonical module paths.
// StarImports records modules imported with "import *"/"from x import *",
// in the order they appear in the file: star-import names are searched
// in file order during resolution.
type ImportTable struct {
	Aliases     map[string]string // alias -> canonical module
	StarImports []string
}

// NewImportTable returns an empty, initialised ImportTable.
func NewImportTable() *ImportTable {
	return &ImportTable{Aliases: make(map[string]string)}
}

// ParsedFile is everything one file contributes to the project index.
type ParsedFile struct {
	FilePath string
	Language string
	Entities []Entity
	Imports  *ImportTable
	Calls    []RawCall
	Err      error // non-nil => ErrPartialParse, file present but entity-less
}

// walkFn is called once per AST node in pre-order.
type walkFn func(node *sitter.Node)

func walk(node *sitter.Node, fn walkFn) {
	if node == nil {
		return
	}
	fn(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), fn)
	}
}

func nodeText(node *sitter.Node, code []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(code) {
		end = uint(len(code))
	}
	return string(code[start:end])
}

func nodeLine(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.StartPosition().Row) + 1
}

func nodeEndLine(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.EndPosition().Row) + 1
}
