package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractTypeScript walks a TypeScript/TSX AST, sharing function/class/
// method/import handling with extractJSFamily (TS is a superset grammar),
// and additionally treats interface_declaration and type_alias_declaration
// as class-kind entities.
func extractTypeScript(filePath string, root *sitter.Node, code []byte) *ParsedFile {
	pf := extractJSFamily(filePath, root, code, "typescript")

	walk(root, func(node *sitter.Node) {
		switch node.Kind() {
		case "interface_declaration":
			tsInterfaceDecl(node, code, filePath, pf)
		case "type_alias_declaration":
			tsTypeAlias(node, code, filePath, pf)
		}
	})

	return pf
}

func tsInterfaceDecl(node *sitter.Node, code []byte, filePath string, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, code)

	clause := node.ChildByFieldName("extends_clause")
	for i := uint(0); clause == nil && i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil && child.Kind() == "extends_type_clause" {
			clause = child
		}
	}
	if clause != nil {
		for i := uint(0); i < clause.ChildCount(); i++ {
			child := clause.Child(i)
			if child.Kind() == "identifier" || child.Kind() == "type_identifier" {
				pf.Calls = append(pf.Calls, RawCall{CallerName: name, CalleeText: nodeText(child, code), Line: nodeLine(child), Kind: "inherit"})
			}
		}
	}

	pf.Entities = append(pf.Entities, Entity{
		Kind: "class", Name: name, FilePath: filePath,
		StartLine: nodeLine(node), EndLine: nodeEndLine(node), Language: "typescript",
	})
}

func tsTypeAlias(node *sitter.Node, code []byte, filePath string, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	pf.Entities = append(pf.Entities, Entity{
		Kind: "class", Name: nodeText(nameNode, code), FilePath: filePath,
		StartLine: nodeLine(node), EndLine: nodeEndLine(node), Language: "typescript",
	})
}
