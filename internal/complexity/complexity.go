// Package complexity computes cyclomatic and cognitive complexity for a
// single entity's AST subtree, using the same AST pre-order walk idiom
// the tree-sitter extractors in internal/parser use, applied to a
// decision-point grammar per language.
package complexity

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// decisionKinds are node kinds that add one branch to cyclomatic complexity.
// Shared across the JS/TS/Python grammars where node names coincide
// (if_statement, for_statement, ...), plus the language-specific kinds
// marked below.
var decisionKinds = map[string]bool{
	"if_statement":         true,
	"for_statement":        true,
	"for_in_statement":     true,
	"for_statement_range":  true,
	"while_statement":      true,
	"do_statement":         true,
	"case_clause":          true,
	"catch_clause":         true,
	"conditional_expression": true, // python, a if cond else b
	"ternary_expression":   true,  // js/ts, cond ? a : b
	"elif_clause":          true,  // python
	"except_clause":        true,  // python
	"with_statement":       true,  // python, context-managed branch
	"list_comprehension":   true,  // python, implicit loop
	"dictionary_comprehension": true,
	"set_comprehension":    true,
	"generator_expression": true,
}

// boolOperatorTexts add one branch for each short-circuit boolean operator,
// since "a && b" and "a and b" each introduce a new path.
var boolOperatorTexts = map[string]bool{
	"&&": true, "||": true, "and": true, "or": true,
}

// Cyclomatic computes McCabe complexity for a subtree: 1 (baseline path)
// plus one per decision point and per short-circuit boolean operator.
func Cyclomatic(root *sitter.Node, code []byte) int {
	complexity := 1
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if decisionKinds[n.Kind()] {
			complexity++
		}
		if n.Kind() == "binary_expression" || n.Kind() == "boolean_operator" {
			opNode := n.ChildByFieldName("operator")
			if opNode != nil && boolOperatorTexts[text(opNode, code)] {
				complexity++
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return complexity
}

// Cognitive computes a SonarSource-style cognitive complexity score:
// each nesting-increasing construct adds (1 + current nesting depth), and
// each short-circuit boolean operator adds a flat 1, regardless of depth.
func Cognitive(root *sitter.Node, code []byte) int {
	score := 0
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "if_statement", "for_statement", "for_in_statement", "while_statement",
			"do_statement", "except_clause", "elif_clause", "catch_clause":
			score += 1 + depth
			for i := uint(0); i < n.ChildCount(); i++ {
				walk(n.Child(i), depth+1)
			}
			return
		case "conditional_expression", "ternary_expression":
			score += 1 + depth
		case "binary_expression", "boolean_operator":
			opNode := n.ChildByFieldName("operator")
			if opNode != nil && boolOperatorTexts[text(opNode, code)] {
				score++
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i), depth)
		}
	}
	walk(root, 0)
	return score
}

func text(n *sitter.Node, code []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(code) {
		end = uint(len(code))
	}
	return string(code[start:end])
}
