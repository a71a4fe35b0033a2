package parser

import (
	"fmt"
	"os"
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	synerrors "github.com/nithin-eashwar/synapse/internal/errors"
)

// LanguageParser wraps a tree-sitter parser bound to one grammar.
// Close must always be called: tree-sitter parsers hold C memory (CGO).
type LanguageParser struct {
	parser   *sitter.Parser
	language *sitter.Language
	langName string
}

var extToLang = map[string]string{
	".js":  "javascript",
	".jsx": "jsx",
	".mjs": "javascript",
	".cjs": "javascript",
	".ts":  "typescript",
	".tsx": "tsx",
	".mts": "typescript",
	".cts": "typescript",
	".py":  "python",
	".pyi": "python",
	".pyw": "python",
}

// DetectLanguage returns the language identifier for filePath's extension,
// or "" if the extension is not one of the supported grammars.
func DetectLanguage(filePath string) string {
	return extToLang[filepath.Ext(filePath)]
}

// NewLanguageParser creates a parser for the given language identifier.
func NewLanguageParser(lang string) (*LanguageParser, error) {
	p := sitter.NewParser()
	if p == nil {
		return nil, fmt.Errorf("failed to create tree-sitter parser")
	}

	var language *sitter.Language
	switch lang {
	case "javascript", "jsx":
		language = sitter.NewLanguage(tree_sitter_javascript.Language())
	case "typescript":
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case "tsx":
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	case "python":
		language = sitter.NewLanguage(tree_sitter_python.Language())
	default:
		p.Close()
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	if err := p.SetLanguage(language); err != nil {
		p.Close()
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	return &LanguageParser{parser: p, language: language, langName: lang}, nil
}

// Close releases the parser's C resources.
func (lp *LanguageParser) Close() {
	if lp.parser != nil {
		lp.parser.Close()
	}
}

// Parse parses source bytes into a syntax tree. Caller must Close() the tree.
func (lp *LanguageParser) Parse(code []byte) (*sitter.Tree, error) {
	tree := lp.parser.Parse(code, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse failed")
	}
	return tree, nil
}

// ParseFile reads filePath, parses it with the grammar matching its
// extension, and extracts entities, imports, and raw call sites. A parse
// failure never returns a Go error: it is recorded on the ParsedFile as
// ErrPartialParse so the caller's batch continues.
func ParseFile(filePath string) *ParsedFile {
	normalized := filepath.ToSlash(filePath)
	lang := DetectLanguage(filePath)
	if lang == "" {
		return &ParsedFile{FilePath: normalized, Err: synerrors.PartialParse(normalized, fmt.Errorf("unsupported file type: %s", filePath))}
	}

	code, err := os.ReadFile(filePath)
	if err != nil {
		return &ParsedFile{FilePath: normalized, Language: lang, Err: synerrors.PartialParse(normalized, err)}
	}

	lp, err := NewLanguageParser(lang)
	if err != nil {
		return &ParsedFile{FilePath: normalized, Language: lang, Err: synerrors.PartialParse(normalized, err)}
	}
	defer lp.Close()

	tree, err := lp.Parse(code)
	if err != nil {
		return &ParsedFile{FilePath: normalized, Language: lang, Err: synerrors.PartialParse(normalized, err)}
	}
	defer tree.Close()

	root := tree.RootNode()
	var pf *ParsedFile
	switch lang {
	case "javascript", "jsx":
		pf = extractJavaScript(normalized, root, code)
	case "typescript", "tsx":
		pf = extractTypeScript(normalized, root, code)
	case "python":
		pf = extractPython(normalized, root, code)
	default:
		return &ParsedFile{FilePath: normalized, Language: lang, Err: synerrors.PartialParse(normalized, fmt.Errorf("no extractor for language: %s", lang))}
	}
	pf.Language = lang
	return pf
}
