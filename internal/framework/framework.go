// Package framework decides which framework heuristics apply to a
// project by inspecting its root manifests, marker files, and Go
// module imports (SPEC_FULL.md §2 C5).
package framework

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vifraa/gopom"
	"golang.org/x/mod/modfile"

	"github.com/dusk-indust/decompose/internal/knowledge"
)

// Detect returns every framework tag whose detection signals match
// root, checked in the fixed order the spec requires, short-circuiting
// on the first hit per framework.
func Detect(root string, kb *knowledge.Base) map[string]bool {
	detected := make(map[string]bool)

	manifests := loadManifests(root)
	goModImports := loadGoModImports(root)
	mavenDeps := loadMavenDependencies(root)

	for _, rules := range kb.GetAllFrameworks() {
		fw := rules.Framework
		if dependencyHit(rules.Detection.Dependencies, manifests) {
			detected[fw] = true
			continue
		}
		if dependencyHit(rules.Detection.Dependencies, manifestSet{raw: map[string]string{"pom.xml": mavenDeps}}) {
			detected[fw] = true
			continue
		}
		if markerFileHit(root, rules.Detection.Files) {
			detected[fw] = true
			continue
		}
		if buildFileHit(root, rules.Detection.BuildFiles) {
			detected[fw] = true
			continue
		}
		if goImportHit(rules.Detection.GoImports, goModImports) {
			detected[fw] = true
			continue
		}
	}

	return detected
}

// manifestSet holds the raw text of every root manifest this project
// has, keyed by filename.
type manifestSet struct {
	raw map[string]string
}

var rootManifestNames = []string{
	"package.json", "composer.json", "Cargo.toml", "go.mod",
	"requirements.txt", "pyproject.toml", "Pipfile",
	"pom.xml", "build.gradle", "build.gradle.kts",
}

func loadManifests(root string) manifestSet {
	ms := manifestSet{raw: make(map[string]string)}
	for _, name := range rootManifestNames {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		ms.raw[name] = string(data)
	}
	return ms
}

// dependencyHit checks if any of deps is declared in any manifest this
// project has. Each dependency string is itself a regular expression —
// Python-targeting rules use anchored forms like `^django[><=~! ]` so
// that "django" cannot match inside an unrelated longer identifier
// like "django-anything-else"; simple ecosystem names (`"next"`,
// `"express"`) are plain literal regexes and match as substrings.
func dependencyHit(deps []string, manifests manifestSet) bool {
	for _, dep := range deps {
		re, err := regexp.Compile(`(?m)` + dep)
		if err != nil {
			continue
		}
		for name, content := range manifests.raw {
			if isPythonManifest(name) {
				if re.MatchString(content) {
					return true
				}
				continue
			}
			if re.MatchString(content) {
				return true
			}
		}
	}
	return false
}

func isPythonManifest(name string) bool {
	return name == "requirements.txt" || name == "pyproject.toml" || name == "Pipfile"
}

func markerFileHit(root string, files []string) bool {
	for _, pattern := range files {
		matches, _ := filepath.Glob(filepath.Join(root, pattern))
		if len(matches) > 0 {
			return true
		}
	}
	return false
}

func buildFileHit(root string, buildFiles []string) bool {
	for _, name := range buildFiles {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		_ = data // presence of the named build file itself counts as the signal
		return true
	}
	return false
}

func goImportHit(goImports []string, projectImports map[string]bool) bool {
	for _, imp := range goImports {
		for seen := range projectImports {
			if strings.Contains(seen, imp) {
				return true
			}
		}
	}
	return false
}

// loadMavenDependencies renders a Maven pom.xml's declared dependency
// coordinates as "groupId:artifactId" lines, parsed structurally via
// gopom rather than matched against raw XML text, so a dependency
// regex cannot accidentally fire on an unrelated comment or string
// literal elsewhere in the file. Returns "" (fail-soft) if there is no
// pom.xml or it does not parse.
func loadMavenDependencies(root string) string {
	path := filepath.Join(root, "pom.xml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	project, err := gopom.Parse(path)
	if err != nil || project == nil || project.Dependencies == nil {
		return ""
	}

	var b strings.Builder
	for _, dep := range *project.Dependencies {
		b.WriteString(derefStr(dep.GroupID))
		b.WriteString(":")
		b.WriteString(derefStr(dep.ArtifactID))
		b.WriteString("\n")
	}
	return b.String()
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// loadGoModImports returns the module's require-block import paths by
// parsing go.mod, and falls back to a line scanner if the file is
// malformed (fail-soft, matching the parser contract elsewhere).
func loadGoModImports(root string) map[string]bool {
	imports := make(map[string]bool)
	path := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return imports
	}

	mf, err := modfile.Parse(path, data, nil)
	if err == nil {
		for _, req := range mf.Require {
			imports[req.Mod.Path] = true
		}
		return imports
	}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) >= 1 && strings.Contains(fields[0], "/") {
			imports[fields[0]] = true
		}
	}
	return imports
}
