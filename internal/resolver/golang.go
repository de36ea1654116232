package resolver

import (
	"strings"

	"github.com/dusk-indust/decompose/internal/parse"
)

// resolveGo implements §4.5.4: strip the module prefix and look up the
// local directory in goFilesByDir, or, for nested-module layouts where
// the import doesn't start with the declared module path, walk the
// import path's segments right-to-left trying each suffix as a
// directory.
func (c *Context) resolveGo(edge parse.ImportEdge) []string {
	if c.goModulePath != "" && strings.HasPrefix(edge.Module, c.goModulePath) {
		localPath := strings.TrimPrefix(edge.Module, c.goModulePath)
		localPath = strings.TrimPrefix(localPath, "/")
		if localPath == "" {
			localPath = "."
		}
		if files, ok := c.goFilesByDir[localPath]; ok && len(files) > 0 {
			return files
		}
		return nil
	}

	segments := strings.Split(edge.Module, "/")
	for start := 0; start < len(segments); start++ {
		candidate := strings.Join(segments[start:], "/")
		if files, ok := c.goFilesByDir[candidate]; ok && len(files) > 0 {
			return files
		}
	}
	return nil
}
