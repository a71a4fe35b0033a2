// Package resolver turns each file's raw, textual call and inheritance
// references into edges between stable entity IDs. Resolution is entirely
// deterministic: import-alias lookup, then lexical scope search, then a
// first-match tie-break, then an ExternalRef fallback node. Each resolved
// edge records its matched target, its call-site line, and the method that
// produced it; no step here ever calls an LLM.
package resolver

import (
	"path"
	"sort"
	"strings"

	"github.com/nithin-eashwar/synapse/internal/models"
	"github.com/nithin-eashwar/synapse/internal/parser"
)

// Method is how a call/inherit reference was resolved.
type Method string

const (
	MethodAlias    Method = "import_alias"
	MethodLexical  Method = "lexical_scope"
	MethodExternal Method = "external_ref"
)

// Warning is a non-fatal ambiguity surfaced during resolution: star-import
// collisions are resolved by file order and reported, not silently
// dropped.
type Warning struct {
	File    string
	Symbol  string
	Message string
}

// Index is the project-wide symbol table built from every parsed file,
// used to resolve raw calls into entity IDs.
type Index struct {
	files        map[string]*parser.ParsedFile // normalised path -> file
	entityID     map[string]map[string]string  // file -> qualified name -> entity ID
	byBareName   map[string][]string           // bare trailing name -> entity IDs (any file); only consulted as a last resort after an import alias or star-import has already identified a target module
	starImports  map[string][]string           // file -> modules imported with "*"
	moduleToFile map[string]string             // canonical module path (or relative import specifier) -> file path
	entityOf     map[string]models.Entity
}

// NewIndex builds an Index from every successfully parsed file. Files with
// a non-nil Err still contribute nothing but are otherwise skipped; the
// caller is responsible for surfacing their ErrPartialParse separately.
func NewIndex(files []*parser.ParsedFile) *Index {
	idx := &Index{
		files:        make(map[string]*parser.ParsedFile),
		entityID:     make(map[string]map[string]string),
		byBareName:   make(map[string][]string),
		starImports:  make(map[string][]string),
		moduleToFile: make(map[string]string),
		entityOf:     make(map[string]models.Entity),
	}

	for _, pf := range files {
		if pf.Err != nil {
			continue
		}
		idx.files[pf.FilePath] = pf
		idx.entityID[pf.FilePath] = make(map[string]string)
		idx.moduleToFile[canonicalModule(pf.FilePath)] = pf.FilePath
		if pf.Imports != nil {
			idx.starImports[pf.FilePath] = append([]string{}, pf.Imports.StarImports...)
		}

		for _, e := range pf.Entities {
			id := entityIDFor(e)
			idx.entityID[pf.FilePath][e.Name] = id
			idx.entityOf[id] = toModelEntity(e, id)

			bare := e.Name
			if i := strings.LastIndex(bare, "."); i >= 0 {
				bare = bare[i+1:]
			}
			idx.byBareName[bare] = append(idx.byBareName[bare], id)
		}
	}

	// Stable order: callers downstream (centrality, risk) must not depend
	// on map iteration order.
	for k := range idx.byBareName {
		sort.Strings(idx.byBareName[k])
	}

	return idx
}

// canonicalModule derives the dotted module path a Python-style absolute
// import would name to refer to filePath: the extension is stripped, a
// trailing "__init__"/"index" segment collapses to its directory (package
// import), and path separators become dots. JS/TS relative imports never
// go through this table; they resolve directly against file paths in
// resolveRelativeModule instead.
func canonicalModule(filePath string) string {
	trimmed := strings.TrimSuffix(filePath, path.Ext(filePath))
	base := path.Base(trimmed)
	if base == "__init__" || base == "index" {
		trimmed = path.Dir(trimmed)
		if trimmed == "." {
			trimmed = ""
		}
	}
	return strings.ReplaceAll(trimmed, "/", ".")
}

func entityIDFor(e parser.Entity) string {
	return e.FilePath + ":" + e.Name
}

func toModelEntity(e parser.Entity, id string) models.Entity {
	kind := models.KindFunction
	switch e.Kind {
	case "method":
		kind = models.KindMethod
	case "class":
		kind = models.KindClass
	case "module":
		kind = models.KindModule
	case "import":
		kind = models.KindImport
	}
	return models.Entity{
		ID:   id,
		Kind: kind,
		Name: e.Name,
		Location: models.Location{
			File: e.FilePath, StartLine: e.StartLine, EndLine: e.EndLine,
		},
		Signature:  models.Signature{Params: nil, ReturnType: ""},
		Cyclomatic: e.Cyclomatic,
		Cognitive:  e.Cognitive,
		OwnerClass: e.OwnerClass,
		Language:   e.Language,
	}
}

// Entities returns every resolved entity known to the index, in a stable
// ID-sorted order.
func (idx *Index) Entities() []models.Entity {
	ids := make([]string, 0, len(idx.entityOf))
	for id := range idx.entityOf {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]models.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.entityOf[id])
	}
	return out
}

// Resolve walks every parsed file's raw calls/inherits and produces the
// resolved edge list plus any ambiguity warnings.
func (idx *Index) Resolve() ([]models.Relationship, []Warning) {
	var rels []models.Relationship
	var warnings []Warning

	for filePath, pf := range idx.files {
		for _, raw := range pf.Calls {
			sourceID, ok := idx.resolveCaller(filePath, raw.CallerName)
			if !ok {
				continue // unattributable call (module-level statement); skip
			}
			callerOwnerClass := idx.entityOf[sourceID].OwnerClass
			targetID, method, warn := idx.resolveCallee(filePath, raw.CalleeText, callerOwnerClass)
			if warn != nil {
				warnings = append(warnings, *warn)
			}
			kind := models.RelCalls
			if raw.Kind == "inherit" {
				kind = models.RelInherits
			}
			rels = append(rels, models.Relationship{
				SourceID: sourceID, TargetID: targetID, Kind: kind,
				Attrs: map[string]interface{}{"line": raw.Line, "method": string(method)},
			})
		}
	}

	sort.Slice(rels, func(i, j int) bool {
		if rels[i].SourceID != rels[j].SourceID {
			return rels[i].SourceID < rels[j].SourceID
		}
		return rels[i].TargetID < rels[j].TargetID
	})

	return rels, warnings
}

func (idx *Index) resolveCaller(filePath, callerName string) (string, bool) {
	if callerName == "" {
		return "", false
	}
	if id, ok := idx.entityID[filePath][callerName]; ok {
		return id, true
	}
	return "", false
}

// resolveCallee applies the resolution order: (1) import alias — the
// callee's head segment matches a local import alias, so the reference is
// qualified by the aliased module and resolved against that module's own
// file; (2) self/cls — the head segment is the instance/class receiver
// convention and the caller belongs to a class, so the reference is
// qualified by the caller's own enclosing class within this file; (3)
// lexical scope — an exact qualified-name match among this file's own
// entities; (4) star-import fallback — search every "*"-imported module's
// exported symbols in file order, the first match wins and a Warning is
// recorded when more than one star-imported module could have provided
// the symbol; (5) external reference — a synthetic node for anything left
// unresolved. callerOwnerClass is the class owning the calling method, or
// "" for module-level/free-function callers.
func (idx *Index) resolveCallee(filePath, calleeText, callerOwnerClass string) (string, Method, *Warning) {
	head := calleeText
	rest := ""
	if i := strings.Index(calleeText, "."); i >= 0 {
		head = calleeText[:i]
		rest = calleeText[i+1:]
	}

	if pf, ok := idx.files[filePath]; ok && pf.Imports != nil {
		if module, ok := pf.Imports.Aliases[head]; ok {
			if id, ok := idx.resolveModuleSymbol(filePath, module, head, rest); ok {
				return id, MethodAlias, nil
			}
			if ids := idx.byBareName[trailingSegment(calleeText)]; len(ids) > 0 {
				return ids[0], MethodAlias, nil
			}
			combined := module
			if rest != "" {
				combined = module + "." + rest
			}
			return externalID(combined), MethodAlias, nil
		}
	}

	if (head == "self" || head == "cls") && callerOwnerClass != "" && rest != "" {
		if id, ok := idx.entityID[filePath][callerOwnerClass+"."+rest]; ok {
			return id, MethodLexical, nil
		}
	}

	if id, ok := idx.entityID[filePath][calleeText]; ok {
		return id, MethodLexical, nil
	}

	if stars := idx.starImports[filePath]; len(stars) > 0 {
		var matches []string
		for _, mod := range stars {
			if id, ok := idx.resolveModuleSymbol(filePath, mod, "", calleeText); ok {
				matches = append(matches, id)
			}
		}
		if len(matches) > 0 {
			var warn *Warning
			if len(matches) > 1 {
				warn = &Warning{
					File: filePath, Symbol: calleeText,
					Message: "symbol resolved via star import is ambiguous across multiple modules; first-in-file-order match used",
				}
			}
			return matches[0], MethodExternal, warn
		}
	}

	return externalID(calleeText), MethodExternal, nil
}

// resolveModuleSymbol finds the entity ID that "symbol" (module+head+rest,
// assembled below) refers to. module is an import alias's value: either a
// JS/TS-style relative specifier ("./b", "../utils/b") or a Python-style
// absolute dotted module path, which may already have the target symbol
// baked into it (e.g. "from b import bar" records alias "bar" -> "b.bar").
// head is the original call's first segment (used only as the symbol name
// for the relative case when rest is empty); rest is everything after the
// first dot in the original call text.
func (idx *Index) resolveModuleSymbol(fromFile, module, head, rest string) (string, bool) {
	if strings.HasPrefix(module, ".") || strings.HasPrefix(module, "/") {
		file, ok := idx.resolveRelativeModule(fromFile, module)
		if !ok {
			return "", false
		}
		symbol := rest
		if symbol == "" {
			symbol = head
		}
		if symbol == "" {
			return "", false
		}
		id, ok := idx.entityID[file][symbol]
		return id, ok
	}

	combined := module
	if rest != "" {
		combined = module + "." + rest
	}
	parts := strings.Split(combined, ".")
	for i := len(parts) - 1; i >= 1; i-- {
		candidate := strings.Join(parts[:i], ".")
		file, ok := idx.moduleToFile[candidate]
		if !ok {
			continue
		}
		symbol := strings.Join(parts[i:], ".")
		if id, ok := idx.entityID[file][symbol]; ok {
			return id, true
		}
	}
	return "", false
}

// resolveRelativeModule resolves a JS/TS-style relative import specifier
// against the importing file's own directory, trying each supported
// extension and an "index" file per directory, the same resolution order
// a bundler would use.
func (idx *Index) resolveRelativeModule(fromFile, module string) (string, bool) {
	base := path.Clean(path.Join(path.Dir(fromFile), module))

	candidates := []string{base}
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx", ".py"} {
		candidates = append(candidates, base+ext)
		candidates = append(candidates, path.Join(base, "index"+ext))
	}

	for _, c := range candidates {
		if _, ok := idx.files[c]; ok {
			return c, true
		}
	}
	return "", false
}

// trailingSegment returns the text after the last '.' in s, or s itself if
// s has no dot.
func trailingSegment(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

func externalID(name string) string {
	return "external:" + name
}

// EnsureExternalEntities returns synthetic models.Entity records for every
// external: target ID present in rels, so the graph layer can add them as
// real nodes rather than dangling references.
func EnsureExternalEntities(rels []models.Relationship) []models.Entity {
	seen := make(map[string]bool)
	var out []models.Entity
	for _, r := range rels {
		if strings.HasPrefix(r.TargetID, "external:") && !seen[r.TargetID] {
			seen[r.TargetID] = true
			out = append(out, models.Entity{
				ID:   r.TargetID,
				Kind: models.KindExternal,
				Name: strings.TrimPrefix(r.TargetID, "external:"),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
