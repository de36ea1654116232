package resolver

import (
	"path/filepath"
	"strings"

	"github.com/dusk-indust/decompose/internal/parse"
)

var tsDirectExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
var tsIndexSuffixes = []string{"/index.ts", "/index.tsx", "/index.js", "/index.jsx", "/index.mjs"}
var tsPlatformSuffixes = []string{".ios", ".android", ".web", ".native"}

// resolveJS implements §4.5.5 in order: relative path arithmetic, path
// aliases, workspace packages, tsconfig baseUrl, then external if
// nothing matched.
func (c *Context) resolveJS(sourcePath string, edge parse.ImportEdge) []string {
	importPath := edge.Module
	if importPath == "" {
		return nil
	}

	// 1. Relative / absolute-from-root.
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		base := filepath.Clean(filepath.Join(dirOf(sourcePath), importPath))
		if resolved, ok := c.resolveTSPath(base); ok {
			return []string{resolved}
		}
		return nil
	}
	if strings.HasPrefix(importPath, "/") {
		base := filepath.Clean(strings.TrimPrefix(importPath, "/"))
		if resolved, ok := c.resolveTSPath(base); ok {
			return []string{resolved}
		}
		return nil
	}

	scope := c.nearestTSConfig(dirOf(sourcePath))

	// 2. Path aliases.
	if scope != nil {
		if resolved, ok := c.resolveAlias(scope, importPath); ok {
			return []string{resolved}
		}
	}

	// 3. Workspace package.
	if resolved, ok := c.resolveWorkspaceImport(importPath); ok {
		return []string{resolved}
	}

	// 4. tsconfig baseUrl prefix lookup.
	if scope != nil {
		candidate := filepath.Join(scope.baseDir, importPath)
		if resolved, ok := c.resolveTSPath(candidate); ok {
			return []string{resolved}
		}
	}

	// 5. External — not a project file.
	return nil
}

// resolveWorkspaceImport implements strategy 3: split the reference
// into a workspace package name and subpath, and look up the
// (already-resolved) entry point or exports-map target.
func (c *Context) resolveWorkspaceImport(importPath string) (string, bool) {
	pkgName, subpath, hasSubpath := splitPackageSpecifier(importPath)
	ws, ok := c.workspacePackages[pkgName]
	if !ok {
		return "", false
	}

	if !hasSubpath {
		if ws.EntryPoint != "" {
			return ws.EntryPoint, true
		}
		for _, fallback := range []string{"src/main", "src/app", "src/server", "index", "src/entry"} {
			if resolved, ok := c.probeFile(filepath.Join(ws.Dir, fallback), tsExtensions); ok {
				return resolved, true
			}
		}
		return "", false
	}

	key := "./" + subpath
	if target, ok := ws.ExportsMap[key]; ok {
		return target, true
	}
	if resolved, ok := c.probeFile(filepath.Join(ws.Dir, "src", subpath), tsExtensions); ok {
		return resolved, true
	}
	if resolved, ok := c.probeFile(filepath.Join(ws.Dir, subpath), tsExtensions); ok {
		return resolved, true
	}
	return "", false
}

// splitPackageSpecifier splits "pkg/sub/path" into ("pkg", "sub/path",
// true) or "@scope/pkg/sub" into ("@scope/pkg", "sub", true). A bare
// package name (scoped or not) returns hasSubpath=false.
func splitPackageSpecifier(importPath string) (pkgName, subpath string, hasSubpath bool) {
	if strings.HasPrefix(importPath, "@") {
		afterScope := strings.Index(importPath[1:], "/")
		if afterScope == -1 {
			return importPath, "", false
		}
		scopeEnd := afterScope + 1
		secondSlash := strings.Index(importPath[scopeEnd+1:], "/")
		if secondSlash == -1 {
			return importPath, "", false
		}
		splitAt := scopeEnd + 1 + secondSlash
		return importPath[:splitAt], importPath[splitAt+1:], true
	}

	slash := strings.Index(importPath, "/")
	if slash == -1 {
		return importPath, "", false
	}
	return importPath[:slash], importPath[slash+1:], true
}

// resolveTSPath is the final-normalisation step shared by every
// strategy above (§4.5.5 step 6): try direct extensions, index
// variants, platform-specific suffix variants, then the
// extensionless-path index.
func (c *Context) resolveTSPath(base string) (string, bool) {
	stripped := strings.TrimSuffix(base, filepath.Ext(base))
	if stripped == "" {
		stripped = base
	}

	if resolved, ok := c.probeFile(stripped, tsDirectExtensions); ok {
		return resolved, true
	}
	for _, suffix := range tsIndexSuffixes {
		if candidate := stripped + suffix; c.fileSet[candidate] {
			return candidate, true
		}
	}
	for _, suffix := range tsPlatformSuffixes {
		if resolved, ok := c.probeFile(stripped+suffix, tsDirectExtensions); ok {
			return resolved, true
		}
	}
	if paths, ok := c.filePathsNoExt[stripped]; ok && len(paths) > 0 {
		return paths[0], true
	}
	return "", false
}
