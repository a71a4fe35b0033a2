// Package discover walks a repository tree and yields the source files
// synapse's parser can handle (JS/TS/Python), skipping vendor/build
// directories and generated or fixture files.
package discover

import (
	"os"
	"path/filepath"
	"strings"
)

var excludeDirs = []string{
	".git", "node_modules", "vendor", "venv", "__pycache__",
	".next", ".nuxt", "dist", "build", "out", "target",
	".cache", ".parcel-cache", "coverage", ".nyc_output",
	".pytest_cache", ".tox", ".venv", "env", "__mocks__",
	".idea", ".vscode", ".synapse",
}

var supportedExt = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
	".py": true, ".pyi": true, ".pyw": true,
}

var generatedSuffixes = []string{
	".min.js", ".bundle.js", ".generated.ts", ".generated.js",
	".pb.js", ".pb.ts", ".d.ts", "_pb.js", "_pb.ts",
}

var generatedDirs = []string{"/dist/", "/build/", "/out/", "/.next/", "/.nuxt/"}

var fixtureDirs = []string{
	"/__tests__/fixtures/", "/__mocks__/", "/test/fixtures/",
	"/tests/fixtures/", "/spec/fixtures/",
}

func shouldSkipDir(name string) bool {
	for _, exclude := range excludeDirs {
		if name == exclude || strings.HasPrefix(name, exclude) {
			return true
		}
	}
	return false
}

func isGenerated(path string) bool {
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	for _, dir := range generatedDirs {
		if strings.Contains(path, dir) {
			return true
		}
	}
	return false
}

func isFixture(path string) bool {
	for _, dir := range fixtureDirs {
		if strings.Contains("/"+path, dir) {
			return true
		}
	}
	return false
}

// IsSourceFile reports whether path should be parsed: a supported
// extension, not generated, not a test fixture.
func IsSourceFile(path string) bool {
	if !supportedExt[filepath.Ext(path)] {
		return false
	}
	return !isGenerated(path) && !isFixture(path)
}

// Walk returns every source file under root, in filesystem walk order.
func Walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSourceFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
