package resolver

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dusk-indust/decompose/internal/parse"
)

var javaSourceRootNames = []string{
	"src/main/java", "src/main/kotlin",
	"src/test/java", "src/test/kotlin",
	"src/java", "src/kotlin",
}

// detectJavaSourceRoots returns the conventional Maven/Gradle source
// roots that are actually present among the discovered files, used by
// §4.5.2 strategy 5.
func detectJavaSourceRoots(files []*parse.ParsedFile) []string {
	present := make(map[string]bool)
	for _, f := range files {
		slash := filepath.ToSlash(f.Path)
		for _, root := range javaSourceRootNames {
			if strings.Contains(slash, root+"/") {
				present[root] = true
			}
		}
	}
	roots := make([]string, 0, len(present))
	for root := range present {
		roots = append(roots, root)
	}
	return roots
}

// buildJavaIndex builds javaFqnMap and javaPackageDirMap in one pass,
// per the performance contract in §4.5.7.
func (c *Context) buildJavaIndex(files []*parse.ParsedFile) {
	for _, f := range files {
		if f.Language != "java" && f.Language != "kotlin" {
			continue
		}
		pkg := f.Metadata.PackageName
		if pkg == "" {
			continue
		}
		c.javaPackageDirMap[pkg] = append(c.javaPackageDirMap[pkg], f.Path)

		stem := strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
		c.javaFqnMap[pkg+"."+stem] = f.Path
	}
}

// resolveJava implements §4.5.2's six strategies in fixed order.
func (c *Context) resolveJava(sourcePath string, edge parse.ImportEdge) []string {
	ref := strings.TrimSuffix(edge.Module, ".*")

	// 1. FQN map lookup.
	if path, ok := c.javaFqnMap[edge.Module]; ok {
		return []string{path}
	}

	// 2. Wildcard pkg.*
	if edge.IsGlob || strings.HasSuffix(edge.Module, ".*") {
		if files, ok := c.javaPackageDirMap[ref]; ok && len(files) > 0 {
			return files
		}
		suffix := strings.ReplaceAll(ref, ".", "/")
		return c.filesInDirWithSuffix(suffix)
	}

	// 3. Static import pkg.Class.member -> try pkg.Class as FQN.
	if idx := strings.LastIndex(ref, "."); idx != -1 {
		classFqn := ref[:idx]
		if path, ok := c.javaFqnMap[classFqn]; ok {
			return []string{path}
		}
	}

	// 4. Framework filter: known external prefixes resolve to nothing.
	for _, prefix := range c.kb.GetFrameworkFilter("java") {
		if strings.HasPrefix(edge.Module, prefix) {
			return nil
		}
	}

	// 5. Source-root paths.
	relPath := strings.ReplaceAll(ref, ".", "/")
	for _, root := range c.javaSourceRoots {
		candidate := filepath.Join(root, relPath)
		if resolved, ok := c.probeFile(candidate, []string{".java", ".kt"}); ok {
			return []string{resolved}
		}
	}

	// 6. Class-name suffix fallback, PascalCase only, dead-named excluded.
	lastSegment := ref
	if idx := strings.LastIndex(ref, "."); idx != -1 {
		lastSegment = ref[idx+1:]
	}
	if isPascalCase(lastSegment) {
		var matches []string
		for _, ext := range []string{".java", ".kt"} {
			for _, path := range c.suffixIndex[lastSegment+ext] {
				if !isDeadNamed(filepath.Base(path)) {
					matches = append(matches, path)
				}
			}
		}
		if len(matches) > 0 {
			return matches
		}
	}

	return nil
}

// filesInDirWithSuffix is the fallback half of strategy 2: any
// directory whose path suffix equals pkgPath, not just an exact
// javaPackageDirMap hit (handles packages split across source roots).
func (c *Context) filesInDirWithSuffix(pkgPath string) []string {
	var matches []string
	for dir, files := range c.dirIndex {
		if dir == pkgPath || strings.HasSuffix(dir, "/"+pkgPath) {
			for _, f := range files {
				if strings.HasSuffix(f, ".java") || strings.HasSuffix(f, ".kt") {
					matches = append(matches, f)
				}
			}
		}
	}
	return matches
}

func isPascalCase(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[0])
	return unicode.IsUpper(r)
}
