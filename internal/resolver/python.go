package resolver

import (
	"path/filepath"
	"strings"

	"github.com/dusk-indust/decompose/internal/parse"
)

var pyMonorepoPrefixes = []string{"src", "app", "lib"}

// resolvePython implements §4.5.1: absolute dotted imports, shortened
// one segment at a time to find a symbol re-exported from a shallower
// module, monorepo source-root prefixes, and relative-dot imports.
func (c *Context) resolvePython(sourcePath string, edge parse.ImportEdge) []string {
	module := edge.Module
	if module == "" {
		return nil
	}

	if strings.HasPrefix(module, ".") {
		if resolved, ok := c.resolvePythonRelative(sourcePath, module); ok {
			return []string{resolved}
		}
		return nil
	}

	return c.resolvePythonAbsolute(module)
}

func (c *Context) resolvePythonAbsolute(module string) []string {
	segments := strings.Split(module, ".")
	for n := len(segments); n >= 1; n-- {
		relPath := filepath.Join(segments[:n]...)
		if resolved, ok := c.probeFile(relPath, []string{".py", "/__init__.py"}); ok {
			return []string{resolved}
		}
		for _, prefix := range pyMonorepoPrefixes {
			if resolved, ok := c.probeFile(filepath.Join(prefix, relPath), []string{".py", "/__init__.py"}); ok {
				return []string{resolved}
			}
		}
	}
	return nil
}

func (c *Context) resolvePythonRelative(sourcePath, module string) (string, bool) {
	dots := 0
	for _, ch := range module {
		if ch == '.' {
			dots++
			continue
		}
		break
	}
	modulePart := module[dots:]

	baseDir := dirOf(sourcePath)
	for i := 1; i < dots; i++ {
		baseDir = dirOf(baseDir)
	}

	if modulePart == "" {
		return c.probeFile(filepath.Join(baseDir, "__init__"), []string{".py"})
	}

	relPath := strings.ReplaceAll(modulePart, ".", "/")
	return c.probeFile(filepath.Join(baseDir, relPath), []string{".py", "/__init__.py"})
}
