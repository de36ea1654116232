// Package resolver translates a source-language module reference into
// concrete project files (SPEC_FULL.md §2 C7). A Context is built once
// per scan from the complete parsed-file set and consulted read-only by
// the graph walker; it never re-parses source and never mutates its
// indexes after construction.
package resolver

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-indust/decompose/internal/knowledge"
	"github.com/dusk-indust/decompose/internal/parse"
)

// Context holds every index the per-language resolution strategies
// consult. Lookups are O(1) or bounded by the candidate-file count,
// except the Java wildcard-import fallback (filesInDirWithSuffix), which
// scans every indexed directory.
type Context struct {
	projectRoot string
	kb          *knowledge.Base

	fileSet        map[string]bool     // RelPath -> present
	dirIndex       map[string][]string // dir -> sorted file RelPaths directly inside it
	suffixIndex    map[string][]string // basename -> sorted RelPaths sharing it
	filePathsNoExt map[string][]string // extensionless RelPath -> sorted RelPaths

	goModulePath string
	goFilesByDir map[string][]string // dir -> sorted .go RelPaths, tests and dead-named excluded

	javaSourceRoots   []string            // RelPaths like "src/main/java"
	javaFqnMap        map[string]string   // "com.pkg.Class" -> RelPath
	javaPackageDirMap map[string][]string // packageName -> sorted RelPaths in that package

	workspacePackages map[string]*WorkspacePackage // npm/bun workspace name -> package
	tsConfigs         []*tsConfigScope             // sorted by dir length descending
}

// NewContext builds a Context from the repository root and the parsed
// files discovered in it. kb supplies the Java/Kotlin framework-prefix
// filter (strategy 4 of §4.5.2).
func NewContext(projectRoot string, files []*parse.ParsedFile, kb *knowledge.Base) *Context {
	ctx := &Context{
		projectRoot:       projectRoot,
		kb:                kb,
		fileSet:           make(map[string]bool, len(files)),
		dirIndex:          make(map[string][]string),
		suffixIndex:       make(map[string][]string),
		filePathsNoExt:    make(map[string][]string),
		goFilesByDir:      make(map[string][]string),
		javaFqnMap:        make(map[string]string),
		javaPackageDirMap: make(map[string][]string),
		workspacePackages: make(map[string]*WorkspacePackage),
	}

	for _, f := range files {
		ctx.fileSet[f.Path] = true

		dir := filepath.Dir(f.Path)
		ctx.dirIndex[dir] = append(ctx.dirIndex[dir], f.Path)

		base := filepath.Base(f.Path)
		ctx.suffixIndex[base] = append(ctx.suffixIndex[base], f.Path)

		noExt := strings.TrimSuffix(f.Path, filepath.Ext(f.Path))
		ctx.filePathsNoExt[noExt] = append(ctx.filePathsNoExt[noExt], f.Path)

		if f.Language == "go" && !isDeadNamed(base) && !strings.HasSuffix(base, "_test.go") {
			ctx.goFilesByDir[dir] = append(ctx.goFilesByDir[dir], f.Path)
		}
	}

	for _, m := range []map[string][]string{ctx.dirIndex, ctx.suffixIndex, ctx.filePathsNoExt, ctx.goFilesByDir} {
		for k := range m {
			sort.Strings(m[k])
		}
	}

	ctx.buildJavaIndex(files)
	ctx.goModulePath = goModulePathFromFile(projectRoot)
	ctx.javaSourceRoots = detectJavaSourceRoots(files)
	ctx.scanWorkspaces()
	ctx.scanTSConfigs(files)

	return ctx
}

// isDeadNamed reports whether a basename carries one of the prefixes
// the resolver treats as already-excluded scaffolding (§4.5.2 strategy
// 6's exclusion list, applied project-wide to goFilesByDir too).
func isDeadNamed(base string) bool {
	for _, prefix := range []string{"dead-", "deprecated-", "legacy-", "old-", "unused-"} {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}

// probeFile checks basePath, then basePath+ext for each extension,
// against the known file set. No filesystem I/O — every candidate must
// already be a discovered project file.
func (c *Context) probeFile(basePath string, extensions []string) (string, bool) {
	if c.fileSet[basePath] {
		return basePath, true
	}
	for _, ext := range extensions {
		candidate := basePath + ext
		if c.fileSet[candidate] {
			return candidate, true
		}
	}
	return "", false
}
