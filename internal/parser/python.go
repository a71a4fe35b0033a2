package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nithin-eashwar/synapse/internal/complexity"
)

// extractPython walks a Python AST and produces entities, an import
// table, and raw call/inherit sites, including import-alias tracking
// and call-site capture.
func extractPython(filePath string, root *sitter.Node, code []byte) *ParsedFile {
	pf := &ParsedFile{FilePath: filePath, Imports: NewImportTable()}
	pf.Entities = append(pf.Entities, Entity{Kind: "module", Name: filepath.Base(filePath), FilePath: filePath, Language: "python"})

	var currentEnclosing func(node *sitter.Node) string
	currentEnclosing = func(node *sitter.Node) string {
		return pyEnclosingQualifiedName(node, code)
	}

	walk(root, func(node *sitter.Node) {
		switch node.Kind() {
		case "function_definition":
			pyFunctionDef(node, code, filePath, pf)
		case "class_definition":
			pyClassDef(node, code, filePath, pf)
		case "import_statement":
			pyImportStatement(node, code, pf.Imports)
		case "import_from_statement":
			pyImportFromStatement(node, code, pf.Imports)
		case "call":
			pyCallSite(node, code, currentEnclosing, pf)
		}
	})

	return pf
}

func pyFunctionDef(node *sitter.Node, code []byte, filePath string, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	funcName := nodeText(nameNode, code)
	params := nodeText(node.ChildByFieldName("parameters"), code)
	returnType := nodeText(node.ChildByFieldName("return_type"), code)

	sig := fmt.Sprintf("def %s%s", funcName, params)
	if returnType != "" {
		sig += " -> " + returnType
	}

	className := pyParentClassName(node, code)
	kind := "function"
	fullName := funcName
	if className != "" {
		kind = "method"
		fullName = className + "." + funcName
	}

	body := node.ChildByFieldName("body")

	pf.Entities = append(pf.Entities, Entity{
		Kind:       kind,
		Name:       fullName,
		FilePath:   filePath,
		StartLine:  nodeLine(node),
		EndLine:    nodeEndLine(node),
		Language:   "python",
		Signature:  sig,
		OwnerClass: className,
		Cyclomatic: complexity.Cyclomatic(body, code),
		Cognitive:  complexity.Cognitive(body, code),
	})
}

func pyClassDef(node *sitter.Node, code []byte, filePath string, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := nodeText(nameNode, code)
	superclasses := node.ChildByFieldName("superclasses")

	sig := "class " + className
	if superclasses != nil {
		sig += nodeText(superclasses, code)
		for i := uint(0); i < superclasses.ChildCount(); i++ {
			child := superclasses.Child(i)
			if child.Kind() == "identifier" || child.Kind() == "attribute" {
				pf.Calls = append(pf.Calls, RawCall{CallerName: className, CalleeText: nodeText(child, code), Line: nodeLine(child), Kind: "inherit"})
			}
		}
	}

	pf.Entities = append(pf.Entities, Entity{
		Kind:      "class",
		Name:      className,
		FilePath:  filePath,
		StartLine: nodeLine(node),
		EndLine:   nodeEndLine(node),
		Language:  "python",
		Signature: sig,
	})
}

func pyImportStatement(node *sitter.Node, code []byte, tbl *ImportTable) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name":
			module := nodeText(child, code)
			leaf := module
			if idx := strings.LastIndex(module, "."); idx >= 0 {
				leaf = module[idx+1:]
			}
			tbl.Aliases[leaf] = module
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode != nil && aliasNode != nil {
				tbl.Aliases[nodeText(aliasNode, code)] = nodeText(nameNode, code)
			}
		}
	}
}

func pyImportFromStatement(node *sitter.Node, code []byte, tbl *ImportTable) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}
	module := nodeText(moduleNode, code)

	hasStar := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "wildcard_import" {
			hasStar = true
		}
	}
	if hasStar {
		tbl.StarImports = append(tbl.StarImports, module)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name":
			if child == moduleNode {
				continue
			}
			name := nodeText(child, code)
			tbl.Aliases[name] = module + "." + name
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode != nil && aliasNode != nil {
				tbl.Aliases[nodeText(aliasNode, code)] = module + "." + nodeText(nameNode, code)
			}
		}
	}
}

func pyCallSite(node *sitter.Node, code []byte, enclosing func(*sitter.Node) string, pf *ParsedFile) {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return
	}
	callee := nodeText(fnNode, code)
	caller := enclosing(node)
	pf.Calls = append(pf.Calls, RawCall{CallerName: caller, CalleeText: callee, Line: nodeLine(node), Kind: "call"})
}

func pyParentClassName(node *sitter.Node, code []byte) string {
	current := node.Parent()
	for current != nil {
		if current.Kind() == "class_definition" {
			if nameNode := current.ChildByFieldName("name"); nameNode != nil {
				return nodeText(nameNode, code)
			}
		}
		current = current.Parent()
	}
	return ""
}

// pyEnclosingQualifiedName finds the nearest enclosing function/method's
// qualified name, walking up through class scopes: an entity's qualified
// name is its nesting path inside the file.
func pyEnclosingQualifiedName(node *sitter.Node, code []byte) string {
	current := node.Parent()
	for current != nil {
		if current.Kind() == "function_definition" {
			nameNode := current.ChildByFieldName("name")
			if nameNode == nil {
				return ""
			}
			name := nodeText(nameNode, code)
			if className := pyParentClassName(current, code); className != "" {
				return className + "." + name
			}
			return name
		}
		current = current.Parent()
	}
	return ""
}
