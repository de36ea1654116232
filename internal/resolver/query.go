package resolver

import (
	"path/filepath"
	"sort"
	"strings"
)

// entryExtensionSwaps are the compiled-output extensions an entry-point
// path written against source may actually resolve to (§4.7).
var entryExtensionSwaps = []string{".ts", ".tsx", ".js", ".mjs", ".jsx"}

// MatchEntryPath implements the walker's entry-point fuzzy matching
// (§4.7): exact match, extensionless match via filePathsNoExt, basename
// suffix match via suffixIndex, then extension-swap attempts.
func (c *Context) MatchEntryPath(raw string) (string, bool) {
	p := filepath.ToSlash(raw)
	if c.fileSet[p] {
		return p, true
	}
	if paths, ok := c.filePathsNoExt[p]; ok && len(paths) > 0 {
		return paths[0], true
	}
	base := filepath.Base(p)
	if paths, ok := c.suffixIndex[base]; ok && len(paths) > 0 {
		return paths[0], true
	}
	stripped := strings.TrimSuffix(p, filepath.Ext(p))
	for _, ext := range entryExtensionSwaps {
		if c.fileSet[stripped+ext] {
			return stripped + ext, true
		}
	}
	return "", false
}

// FilesInDir returns every discovered file directly inside dir, sorted.
// Used by the walker's directory-scanning auto-loader pass.
func (c *Context) FilesInDir(dir string) []string {
	return c.dirIndex[dir]
}

// AllPaths returns every discovered file RelPath, sorted. Used by the
// walker's glob pre-expansion pass.
func (c *Context) AllPaths() []string {
	paths := make([]string, 0, len(c.fileSet))
	for p := range c.fileSet {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
