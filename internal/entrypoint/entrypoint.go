// Package entrypoint marks files as entry points with a textual reason,
// consulting package manifests, per-file metadata, DI class decorators,
// name-based path patterns, and framework-contributed patterns
// (SPEC_FULL.md §2 C6). A file is marked at most once: the first
// matching source wins.
package entrypoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/dusk-indust/decompose/internal/knowledge"
	"github.com/dusk-indust/decompose/internal/parse"
)

// Mark records why a file was classified as an entry point.
type Mark struct {
	Path   string
	Reason string
}

// diMarkerNames are class decorators the spec calls out as dependency-
// injection markers; any class carrying one marks its defining file.
var diMarkerNames = map[string]bool{
	"Controller": true, "Module": true, "Resolver": true, "Service": true,
	"Injectable": true, "RestController": true, "Entity": true,
	"Get": true, "Post": true, "Put": true, "Delete": true, "Patch": true,
	"Component": true, "Repository": true, "Configuration": true,
	"Bean": true, "Aspect": true, "Middleware": true, "Guard": true,
	"Interceptor": true, "Pipe": true, "Filter": true,
	"WebSocketGateway": true, "EventPattern": true, "MessagePattern": true,
}

// diContainerPattern matches a class name referenced through a DI
// container's get/resolve/create/obtain call.
var diContainerPattern = regexp.MustCompile(`(?:Container|Injector|container|injector)\.(?:get|resolve|create|obtain)\((\w+)`)

// diInjectPattern matches @Inject(ClassName)-style decorator arguments.
var diInjectPattern = regexp.MustCompile(`@(?:Inject|LazyService|ServiceToken)\((\w+)`)

// namePatterns is a representative subset of the spec's ~150 name-based
// path regexes: test/config/router/worker/migration/fixture/serverless
// conventions across the languages this module parses. It is not
// exhaustive — see DESIGN.md for the scope decision.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|/)(?:test|tests|spec|specs|__tests__)/`),
	regexp.MustCompile(`\.(?:test|spec)\.[jt]sx?$`),
	regexp.MustCompile(`_test\.go$`),
	regexp.MustCompile(`(?:^|/)conftest\.py$`),
	regexp.MustCompile(`(?:^|/)(?:test_|_test)\w*\.py$`),
	regexp.MustCompile(`\.d\.ts$`),
	regexp.MustCompile(`(?:^|/)(?:webpack|rollup|vite|jest|babel|tsup|esbuild)\.config\.[jt]s$`),
	regexp.MustCompile(`(?:^|/)tsconfig(?:\..+)?\.json$`),
	regexp.MustCompile(`(?:^|/)pages/.*\.(?:js|jsx|ts|tsx)$`),
	regexp.MustCompile(`(?:^|/)app/.*(?:page|layout|route)\.(?:js|jsx|ts|tsx)$`),
	regexp.MustCompile(`(?:^|/)routes?/`),
	regexp.MustCompile(`(?:^|/)workers?/`),
	regexp.MustCompile(`(?:^|/)stories/`),
	regexp.MustCompile(`\.stories\.[jt]sx?$`),
	regexp.MustCompile(`(?:^|/)benchmarks?/`),
	regexp.MustCompile(`_bench(?:mark)?\.go$`),
	regexp.MustCompile(`(?:^|/)codemods?/`),
	regexp.MustCompile(`(?:^|/)migrations?/`),
	regexp.MustCompile(`(?:^|/)(?:templates|views|_layouts|layouts)/`),
	regexp.MustCompile(`(?:^|/)fixtures?/`),
	regexp.MustCompile(`(?:^|/)(?:functions|netlify/functions|api)/.*\.(?:js|ts)$`),
	regexp.MustCompile(`(?:^|/)(?:public|static|assets)/`),
	regexp.MustCompile(`(?:^|/)cmd/[^/]+/main\.go$`),
	regexp.MustCompile(`(?:^|/)main\.(?:go|rs|py)$`),
	regexp.MustCompile(`(?:^|/)manage\.py$`),
	regexp.MustCompile(`(?:^|/)wsgi\.py$`),
	regexp.MustCompile(`(?:^|/)asgi\.py$`),
	regexp.MustCompile(`(?:^|/)settings\.py$`),
	regexp.MustCompile(`(?:^|/)index\.(?:js|jsx|ts|tsx|mjs)$`),
	regexp.MustCompile(`(?:^|/)Application\.java$`),
	regexp.MustCompile(`(?:^|/)Main\.(?:java|kt)$`),
	regexp.MustCompile(`(?:^|/)artisan$`),
	regexp.MustCompile(`(?:^|/)config/routes\.rb$`),
	regexp.MustCompile(`(?:^|/)bin/rails$`),
}

// reasonFor returns the human-readable reason for a name-pattern hit.
func reasonFor(pattern *regexp.Regexp) string {
	return "name-pattern: " + pattern.String()
}

// Classify returns a map of RelPath → Mark for every file judged to be
// an entry point. files is the parsed-file set; frameworks is the
// detected-framework set from C5; projectRoot is used to read root
// manifests.
func Classify(projectRoot string, files []*parse.ParsedFile, frameworks map[string]bool, kb *knowledge.Base) map[string]Mark {
	marks := make(map[string]Mark)
	mark := func(path, reason string) {
		if _, exists := marks[path]; exists {
			return
		}
		marks[path] = Mark{Path: path, Reason: reason}
	}

	// Source 1: root package.json manifest.
	for _, path := range rootManifestEntryPoints(projectRoot) {
		mark(path, "root manifest entry")
	}

	// Source 7: per-file metadata.
	for _, f := range files {
		if reason, ok := metadataEntryReason(f); ok {
			mark(f.Path, reason)
		}
	}

	// Source 8: class decorators (DI markers).
	for _, f := range files {
		for _, class := range f.Classes {
			for _, dec := range class.Decorators {
				if diMarkerNames[dec.Name] {
					mark(f.Path, "DI decorator: "+dec.Name)
					break
				}
			}
		}
	}

	// Source 9: name-based pattern list.
	for _, f := range files {
		for _, pat := range namePatterns {
			if pat.MatchString(f.Path) {
				mark(f.Path, reasonFor(pat))
				break
			}
		}
	}

	// Source 10: knowledge-base file patterns.
	for _, raw := range kb.GetEntryPointFilePatterns() {
		re, err := regexp.Compile(raw)
		if err != nil {
			continue
		}
		for _, f := range files {
			if re.MatchString(f.Path) {
				mark(f.Path, "knowledge-base pattern: "+raw)
			}
		}
	}

	// Source 11: framework entry patterns.
	for fw := range frameworks {
		rules, ok := kb.GetFramework(fw)
		if !ok {
			continue
		}
		for _, raw := range rules.EntryPatterns {
			re, err := regexp.Compile(raw)
			if err != nil {
				continue
			}
			for _, f := range files {
				if re.MatchString(f.Path) {
					mark(f.Path, "framework("+fw+") pattern: "+raw)
				}
			}
		}
	}

	// Source 12: DI container textual scanning.
	classOwners := make(map[string]string) // class name -> defining file
	for _, f := range files {
		for _, c := range f.Classes {
			classOwners[c.Name] = f.Path
		}
	}
	for _, f := range files {
		content := fileContentFor(projectRoot, f.Path)
		if content == "" {
			continue
		}
		for _, m := range diContainerPattern.FindAllStringSubmatch(content, -1) {
			if owner, ok := classOwners[m[1]]; ok {
				mark(owner, "DI container reference: "+m[1])
			}
		}
		for _, m := range diInjectPattern.FindAllStringSubmatch(content, -1) {
			if owner, ok := classOwners[m[1]]; ok {
				mark(owner, "DI inject reference: "+m[1])
			}
		}
	}

	return marks
}

// metadataEntryReason implements source 7: per-file metadata facts
// that independently qualify a file as an entry point.
func metadataEntryReason(f *parse.ParsedFile) (string, bool) {
	md := f.Metadata
	switch {
	case md.IsMainPackage && md.HasMainFunction:
		return "go main package with func main", true
	case md.HasMainFunction:
		return "has main function", true
	case md.HasInitFunction:
		return "go init function", true
	case md.IsTestFile:
		return "go test file", true
	case md.HasMainBlock:
		return "python __main__ block", true
	case md.HasMainMethod:
		return "has main method", true
	case md.IsSpringComponent:
		return "spring component", true
	}
	return "", false
}

// rootManifestEntryPoints implements a scoped version of source 1: the
// package.json "main"/"module"/"bin" fields. The root "exports" map is
// not walked and "scripts" commands are not parsed, here or elsewhere;
// the resolver's exportsMap (§4.5.5) covers workspace members only.
func rootManifestEntryPoints(projectRoot string) []string {
	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return nil
	}
	var manifest struct {
		Main   string            `json:"main"`
		Module string            `json:"module"`
		Bin    json.RawMessage   `json:"bin"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}

	var entries []string
	if manifest.Main != "" {
		entries = append(entries, filepath.ToSlash(manifest.Main))
	}
	if manifest.Module != "" {
		entries = append(entries, filepath.ToSlash(manifest.Module))
	}
	if len(manifest.Bin) > 0 {
		var asString string
		if err := json.Unmarshal(manifest.Bin, &asString); err == nil && asString != "" {
			entries = append(entries, filepath.ToSlash(asString))
		} else {
			var asMap map[string]string
			if err := json.Unmarshal(manifest.Bin, &asMap); err == nil {
				keys := make([]string, 0, len(asMap))
				for k := range asMap {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					entries = append(entries, filepath.ToSlash(asMap[k]))
				}
			}
		}
	}
	return entries
}

// fileContentFor reads a project file for textual DI-pattern scanning.
// Parse results do not retain source text, so this re-reads from disk;
// callers only invoke it for the (typically small) DI-scan pass.
func fileContentFor(projectRoot, relPath string) string {
	data, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(relPath)))
	if err != nil {
		return ""
	}
	return string(data)
}

// SortedPaths returns the marked entry-point paths in sorted order, for
// deterministic downstream consumption.
func SortedPaths(marks map[string]Mark) []string {
	paths := make([]string, 0, len(marks))
	for p := range marks {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
