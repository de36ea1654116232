package resolver

import (
	"path/filepath"
	"strings"

	"github.com/dusk-indust/decompose/internal/parse"
)

var rustEditionRoots = map[string]bool{"mod.rs": true, "lib.rs": true, "main.rs": true}

// resolveRust implements §4.5.3. `use` paths rooted at crate/self/super
// resolve within the project; `mod foo;` declarations dispatch on
// whether the declaring file is itself an edition-2015 module root
// (mod.rs/lib.rs/main.rs, sibling foo.rs or foo/mod.rs) or an
// edition-2018 leaf file (parent-stem/foo.rs or parent-stem/foo/mod.rs).
// External crate imports resolve to empty.
func (c *Context) resolveRust(sourcePath string, edge parse.ImportEdge) []string {
	if edge.Kind == parse.ImportUseMacro && !strings.Contains(edge.Module, "::") {
		if resolved, ok := c.resolveRustMod(sourcePath, edge.Module); ok {
			return []string{resolved}
		}
		return nil
	}

	module := edge.Module
	if idx := strings.Index(module, "::{"); idx != -1 {
		module = module[:idx]
	}
	isGlob := edge.IsGlob || strings.HasSuffix(module, "::*")
	module = strings.TrimSuffix(module, "::*")

	switch {
	case strings.HasPrefix(module, "crate::"):
		relPath := strings.ReplaceAll(strings.TrimPrefix(module, "crate::"), "::", "/")
		candidates := []string{filepath.Join("src", relPath), relPath}
		if root := findCrateSrcRoot(sourcePath); root != "" {
			candidates = append(candidates, filepath.Join(root, relPath))
		}
		if isGlob {
			return c.filesInAnyDir(candidates)
		}
		for _, base := range candidates {
			if resolved, ok := c.probeFile(base, []string{".rs", "/mod.rs"}); ok {
				return []string{resolved}
			}
		}
		return nil

	case strings.HasPrefix(module, "self::"):
		relPath := strings.ReplaceAll(strings.TrimPrefix(module, "self::"), "::", "/")
		base := filepath.Join(dirOf(sourcePath), relPath)
		if isGlob {
			return c.filesInAnyDir([]string{base})
		}
		if resolved, ok := c.probeFile(base, []string{".rs", "/mod.rs"}); ok {
			return []string{resolved}
		}
		return nil

	case strings.HasPrefix(module, "super::"):
		relPath := strings.ReplaceAll(strings.TrimPrefix(module, "super::"), "::", "/")
		base := filepath.Join(dirOf(dirOf(sourcePath)), relPath)
		if isGlob {
			return c.filesInAnyDir([]string{base})
		}
		if resolved, ok := c.probeFile(base, []string{".rs", "/mod.rs"}); ok {
			return []string{resolved}
		}
		return nil

	default:
		return nil // external crate
	}
}

// filesInAnyDir returns every .rs file directly inside the first
// candidate directory that exists in the index — the glob-import
// counterpart ("use foo::*;") to the single-file probes above.
func (c *Context) filesInAnyDir(candidates []string) []string {
	for _, dir := range candidates {
		if files, ok := c.dirIndex[dir]; ok && len(files) > 0 {
			var matches []string
			for _, f := range files {
				if strings.HasSuffix(f, ".rs") {
					matches = append(matches, f)
				}
			}
			if len(matches) > 0 {
				return matches
			}
		}
	}
	return nil
}

// resolveRustMod resolves a `mod foo;` declaration per the 2015/2018
// split: the declaring file's own basename decides which module-tree
// shape applies.
func (c *Context) resolveRustMod(sourcePath, name string) (string, bool) {
	dir := dirOf(sourcePath)
	base := filepath.Base(sourcePath)

	if rustEditionRoots[base] {
		// 2015 style: sibling foo.rs or foo/mod.rs next to this root.
		if resolved, ok := c.probeFile(filepath.Join(dir, name), []string{".rs", "/mod.rs"}); ok {
			return resolved, true
		}
		return "", false
	}

	// 2018 style: <parent-file-stem>/foo.rs or <parent-file-stem>/foo/mod.rs.
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	moduleDir := filepath.Join(dir, stem)
	return c.probeFile(filepath.Join(moduleDir, name), []string{".rs", "/mod.rs"})
}

// findCrateSrcRoot walks up from a file path to the nearest ancestor
// directory literally named "src", the conventional crate source root.
func findCrateSrcRoot(filePath string) string {
	dir := dirOf(filePath)
	for dir != "." && dir != "/" && dir != "" {
		if filepath.Base(dir) == "src" {
			return dir
		}
		dir = dirOf(dir)
	}
	return ""
}
