// Package walker performs the single-threaded, deterministic breadth-
// first search that propagates reachability from a project's entry
// points across import edges and language-specific linking rules
// (SPEC_FULL.md §2 C8).
package walker

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/dusk-indust/decompose/internal/entrypoint"
	"github.com/dusk-indust/decompose/internal/parse"
	"github.com/dusk-indust/decompose/internal/resolver"
)

// Result is the outcome of one walk.
type Result struct {
	Reachable   map[string]bool
	EntryPoints map[string]entrypoint.Mark
}

// autoLoaderPattern flags index files that enumerate their own
// directory at runtime — static reference tracing cannot see the
// resulting edges, so every sibling file is treated as reachable.
var autoLoaderPattern = regexp.MustCompile(`requireDirectory|readdirSync\(\s*__dirname|glob\.sync|globSync`)

// Walk runs the BFS described in §4.7: seed from marks, pre-expand glob
// imports and directory-scanning auto-loaders, then propagate through
// same-package linking, the resolver, and re-export chains until the
// queue drains. The queue is array-and-index based, never sliced from
// the front, so draining it is O(n) rather than O(n^2).
func Walk(projectRoot string, files []*parse.ParsedFile, marks map[string]entrypoint.Mark, ctx *resolver.Context) Result {
	byPath := make(map[string]*parse.ParsedFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	reachable := make(map[string]bool, len(files))
	visited := make(map[string]bool, len(files))
	queued := make(map[string]bool, len(files))
	queue := make([]string, 0, len(files))

	enqueue := func(path string) {
		if path == "" || queued[path] {
			return
		}
		if _, ok := byPath[path]; !ok {
			return
		}
		queued[path] = true
		queue = append(queue, path)
	}

	entryPaths := make([]string, 0, len(marks))
	for p := range marks {
		entryPaths = append(entryPaths, p)
	}
	sort.Strings(entryPaths)
	for _, p := range entryPaths {
		enqueue(p)
	}

	// Glob pre-expansion: every file matching a glob import anywhere
	// becomes reachable at start, even if its importer is itself dead.
	for _, target := range globTargets(files, ctx) {
		reachable[target] = true
		enqueue(target)
	}

	// Directory-scanning auto-loaders: an index file whose content
	// matches autoLoaderPattern (it enumerates its own directory at
	// runtime) pulls in every sibling file, since no static import edge
	// will name them.
	for _, f := range files {
		if !strings.HasPrefix(filepath.Base(f.Path), "index.") {
			continue
		}
		content := readFile(projectRoot, f.Path)
		if content == "" || !autoLoaderPattern.MatchString(content) {
			continue
		}
		for _, sibling := range ctx.FilesInDir(filepath.Dir(f.Path)) {
			reachable[sibling] = true
			enqueue(sibling)
		}
	}

	for i := 0; i < len(queue); i++ {
		path := queue[i]
		f := byPath[path]
		if f == nil || visited[path] {
			continue
		}
		visited[path] = true
		reachable[path] = true

		for _, sibling := range ctx.SameUnit(f) {
			enqueue(sibling)
		}

		for _, edge := range f.Imports {
			for _, target := range ctx.Resolve(f.Language, f.Path, edge) {
				enqueue(target)
			}
			// Python "from mod import name" may also name a submodule
			// mod.name rather than a symbol inside mod (§4.7 step 4).
			if f.Language == "python" && edge.Name != "" {
				submodule := parse.ImportEdge{Module: edge.Module + "." + edge.Name, Kind: edge.Kind}
				for _, target := range ctx.Resolve("python", f.Path, submodule) {
					enqueue(target)
				}
			}
		}

		for _, export := range f.Exports {
			if export.SourceModule == "" {
				continue
			}
			reExport := parse.ImportEdge{Module: export.SourceModule, Kind: parse.ImportReExport}
			for _, target := range ctx.Resolve(f.Language, f.Path, reExport) {
				enqueue(target)
			}
		}
	}

	return Result{Reachable: reachable, EntryPoints: marks}
}

// globTargets implements §4.7's glob pre-expansion for relative
// filesystem-glob imports (e.g. a plugin loader's `./plugins/*`):
// patterns that are not a concrete path are matched against every
// discovered file, independent of whether the importing file is
// itself reachable. Language-level wildcard imports (Java `pkg.*`,
// Rust `use foo::*`) are already expanded by the resolver's own
// per-language strategies and do not need this pass.
func globTargets(files []*parse.ParsedFile, ctx *resolver.Context) []string {
	allPaths := ctx.AllPaths()
	seen := make(map[string]bool)
	var out []string

	for _, f := range files {
		for _, edge := range f.Imports {
			if !looksLikeFilesystemGlob(edge.Module) {
				continue
			}
			pattern := filepath.ToSlash(filepath.Join(filepath.Dir(f.Path), edge.Module))
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				continue
			}
			for _, p := range allPaths {
				if !seen[p] && g.Match(p) {
					seen[p] = true
					out = append(out, p)
				}
			}
		}
	}

	sort.Strings(out)
	return out
}

func looksLikeFilesystemGlob(module string) bool {
	if !strings.Contains(module, "*") {
		return false
	}
	return strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../")
}

// readFile re-reads a project file for the auto-loader content scan.
// Parse results do not retain source text (§4.3).
func readFile(projectRoot, relPath string) string {
	data, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(relPath)))
	if err != nil {
		return ""
	}
	return string(data)
}
