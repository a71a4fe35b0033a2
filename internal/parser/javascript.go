package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nithin-eashwar/synapse/internal/complexity"
)

// extractJavaScript walks a JavaScript/JSX AST, capturing import aliases,
// class heritage (INHERITS), and call sites.
func extractJavaScript(filePath string, root *sitter.Node, code []byte) *ParsedFile {
	return extractJSFamily(filePath, root, code, "javascript")
}

func extractJSFamily(filePath string, root *sitter.Node, code []byte, lang string) *ParsedFile {
	pf := &ParsedFile{FilePath: filePath, Imports: NewImportTable()}
	pf.Entities = append(pf.Entities, Entity{Kind: "module", Name: filepath.Base(filePath), FilePath: filePath, Language: lang})

	walk(root, func(node *sitter.Node) {
		switch node.Kind() {
		case "function_declaration":
			jsFunctionDecl(node, code, filePath, lang, pf)
		case "arrow_function", "function_expression":
			jsArrowFunction(node, code, filePath, lang, pf)
		case "class_declaration":
			jsClassDecl(node, code, filePath, lang, pf)
		case "method_definition":
			jsMethodDef(node, code, filePath, lang, pf)
		case "import_statement":
			jsImportStatement(node, code, pf.Imports)
		case "call_expression":
			jsCallExpression(node, code, pf)
		}
	})

	return pf
}

func jsFunctionDecl(node *sitter.Node, code []byte, filePath, lang string, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	funcName := nodeText(nameNode, code)
	params := nodeText(node.ChildByFieldName("parameters"), code)
	body := node.ChildByFieldName("body")
	pf.Entities = append(pf.Entities, Entity{
		Kind: "function", Name: funcName, FilePath: filePath,
		StartLine: nodeLine(node), EndLine: nodeEndLine(node), Language: lang,
		Signature:  fmt.Sprintf("function %s%s", funcName, params),
		Cyclomatic: complexity.Cyclomatic(body, code),
		Cognitive:  complexity.Cognitive(body, code),
	})
}

func jsArrowFunction(node *sitter.Node, code []byte, filePath, lang string, pf *ParsedFile) {
	parent := node.Parent()
	if parent == nil {
		return
	}
	var funcName string
	switch parent.Kind() {
	case "variable_declarator":
		funcName = nodeText(parent.ChildByFieldName("name"), code)
	case "assignment_expression":
		funcName = nodeText(parent.ChildByFieldName("left"), code)
	}
	if funcName == "" {
		return // anonymous callback, not a named entity
	}
	params := nodeText(node.ChildByFieldName("parameters"), code)
	body := node.ChildByFieldName("body")
	pf.Entities = append(pf.Entities, Entity{
		Kind: "function", Name: funcName, FilePath: filePath,
		StartLine: nodeLine(node), EndLine: nodeEndLine(node), Language: lang,
		Signature:  fmt.Sprintf("const %s = %s => ...", funcName, params),
		Cyclomatic: complexity.Cyclomatic(body, code),
		Cognitive:  complexity.Cognitive(body, code),
	})
}

func jsClassDecl(node *sitter.Node, code []byte, filePath, lang string, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := nodeText(nameNode, code)

	heritage := node.ChildByFieldName("superclass")
	for i := uint(0); heritage == nil && i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil && child.Kind() == "class_heritage" {
			// JS: class_heritage wraps the base expression; TS: an extends_clause.
			heritage = child.NamedChild(0)
			if heritage != nil && heritage.Kind() == "extends_clause" {
				heritage = heritage.ChildByFieldName("value")
			} else if heritage != nil && heritage.Kind() == "implements_clause" {
				heritage = nil
			}
		}
	}
	if heritage != nil {
		base := nodeText(heritage, code)
		pf.Calls = append(pf.Calls, RawCall{CallerName: className, CalleeText: base, Line: nodeLine(heritage), Kind: "inherit"})
	}

	pf.Entities = append(pf.Entities, Entity{
		Kind: "class", Name: className, FilePath: filePath,
		StartLine: nodeLine(node), EndLine: nodeEndLine(node), Language: lang,
	})
}

func jsMethodDef(node *sitter.Node, code []byte, filePath, lang string, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	methodName := nodeText(nameNode, code)
	params := nodeText(node.ChildByFieldName("parameters"), code)
	className := jsParentClassName(node, code)
	fullName := methodName
	if className != "" {
		fullName = className + "." + methodName
	}
	body := node.ChildByFieldName("body")
	pf.Entities = append(pf.Entities, Entity{
		Kind: "method", Name: fullName, FilePath: filePath,
		StartLine: nodeLine(node), EndLine: nodeEndLine(node), Language: lang,
		Signature: methodName + params, OwnerClass: className,
		Cyclomatic: complexity.Cyclomatic(body, code),
		Cognitive:  complexity.Cognitive(body, code),
	})
}

func jsImportStatement(node *sitter.Node, code []byte, tbl *ImportTable) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	module := strings.Trim(nodeText(sourceNode, code), "\"'`")

	clause := node.ChildByFieldName("import")
	for i := uint(0); clause == nil && i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil && child.Kind() == "import_clause" {
			clause = child
		}
	}
	if clause == nil {
		// Side-effect import: "import './x'" — no bindings to alias.
		return
	}

	walk(clause, func(n *sitter.Node) {
		switch n.Kind() {
		case "identifier":
			tbl.Aliases[nodeText(n, code)] = module
		case "namespace_import":
			if id := n.ChildByFieldName("name"); id != nil {
				tbl.Aliases[nodeText(id, code)] = module
			} else {
				tbl.StarImports = append(tbl.StarImports, module)
			}
		case "import_specifier":
			nameNode := n.ChildByFieldName("name")
			aliasNode := n.ChildByFieldName("alias")
			if aliasNode != nil {
				tbl.Aliases[nodeText(aliasNode, code)] = module
			} else if nameNode != nil {
				tbl.Aliases[nodeText(nameNode, code)] = module
			}
		}
	})
}

func jsCallExpression(node *sitter.Node, code []byte, pf *ParsedFile) {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return
	}
	caller := jsEnclosingQualifiedName(node, code)
	pf.Calls = append(pf.Calls, RawCall{CallerName: caller, CalleeText: nodeText(fnNode, code), Line: nodeLine(node), Kind: "call"})
}

func jsParentClassName(node *sitter.Node, code []byte) string {
	current := node.Parent()
	for current != nil {
		if current.Kind() == "class_declaration" || current.Kind() == "class" {
			if nameNode := current.ChildByFieldName("name"); nameNode != nil {
				return nodeText(nameNode, code)
			}
		}
		current = current.Parent()
	}
	return ""
}

func jsEnclosingQualifiedName(node *sitter.Node, code []byte) string {
	current := node.Parent()
	for current != nil {
		switch current.Kind() {
		case "method_definition":
			nameNode := current.ChildByFieldName("name")
			if nameNode == nil {
				return ""
			}
			name := nodeText(nameNode, code)
			if cls := jsParentClassName(current, code); cls != "" {
				return cls + "." + name
			}
			return name
		case "function_declaration":
			if nameNode := current.ChildByFieldName("name"); nameNode != nil {
				return nodeText(nameNode, code)
			}
			return ""
		}
		current = current.Parent()
	}
	return ""
}
