package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-indust/decompose/internal/parse"
)

// aliasEntry is one compilerOptions.paths mapping, pre-split into a
// prefix (with any trailing "/*" removed) and candidate target
// prefixes, resolved relative to the tsconfig's baseUrl.
type aliasEntry struct {
	prefix   string
	wildcard bool
	targets  []string
}

// tsConfigScope is the alias/baseUrl configuration rooted at one
// tsconfig.json's directory. Monorepo packages each have their own
// scope; a nearer scope shadows the root's entirely rather than
// merging with it.
type tsConfigScope struct {
	dir     string
	baseDir string // baseUrl resolved to a RelPath; equals dir if unset
	aliases []aliasEntry
}

type tsconfigFile struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// scanTSConfigs finds every tsconfig.json among the discovered files'
// ancestor directories and builds one scope per file, sorted by
// directory depth descending so nearest-ancestor lookup is a linear
// scan that stops at the first match.
func (c *Context) scanTSConfigs(files []*parse.ParsedFile) {
	seen := make(map[string]bool)
	for _, f := range files {
		if filepath.Base(f.Path) != "tsconfig.json" {
			continue
		}
		dir := dirOf(f.Path)
		if seen[dir] {
			continue
		}
		seen[dir] = true

		data, err := os.ReadFile(filepath.Join(c.projectRoot, f.Path))
		if err != nil {
			continue
		}
		var tc tsconfigFile
		if err := json.Unmarshal(data, &tc); err != nil {
			continue
		}

		baseDir := dir
		if tc.CompilerOptions.BaseURL != "" {
			baseDir = filepath.Clean(filepath.Join(dir, tc.CompilerOptions.BaseURL))
		}

		scope := &tsConfigScope{dir: dir, baseDir: baseDir}
		for key, targets := range tc.CompilerOptions.Paths {
			wildcard := strings.HasSuffix(key, "/*")
			prefix := strings.TrimSuffix(key, "/*")
			cleanTargets := make([]string, 0, len(targets))
			for _, t := range targets {
				cleanTargets = append(cleanTargets, strings.TrimSuffix(t, "/*"))
			}
			scope.aliases = append(scope.aliases, aliasEntry{prefix: prefix, wildcard: wildcard, targets: cleanTargets})
		}
		sort.Slice(scope.aliases, func(i, j int) bool {
			return len(scope.aliases[i].prefix) > len(scope.aliases[j].prefix)
		})

		c.tsConfigs = append(c.tsConfigs, scope)
	}

	sort.Slice(c.tsConfigs, func(i, j int) bool {
		return len(c.tsConfigs[i].dir) > len(c.tsConfigs[j].dir)
	})
}

// nearestTSConfig returns the scope belonging to the nearest ancestor
// package of sourceDir, or nil if no tsconfig.json covers it.
func (c *Context) nearestTSConfig(sourceDir string) *tsConfigScope {
	for _, cfg := range c.tsConfigs {
		if cfg.dir == "." || isAncestorDir(cfg.dir, sourceDir) {
			return cfg
		}
	}
	return nil
}

func isAncestorDir(ancestor, dir string) bool {
	return dir == ancestor || strings.HasPrefix(dir, ancestor+"/")
}

// resolveAlias tries every alias in scope against importPath, longest
// prefix first, returning the first candidate target that exists.
func (c *Context) resolveAlias(scope *tsConfigScope, importPath string) (string, bool) {
	for _, alias := range scope.aliases {
		if alias.wildcard {
			if importPath != alias.prefix && !strings.HasPrefix(importPath, alias.prefix+"/") {
				continue
			}
			rest := strings.TrimPrefix(strings.TrimPrefix(importPath, alias.prefix), "/")
			for _, target := range alias.targets {
				candidate := filepath.Join(scope.baseDir, target, rest)
				if resolved, ok := c.resolveTSPath(candidate); ok {
					return resolved, true
				}
			}
		} else {
			if importPath != alias.prefix {
				continue
			}
			for _, target := range alias.targets {
				candidate := filepath.Join(scope.baseDir, target)
				if resolved, ok := c.resolveTSPath(candidate); ok {
					return resolved, true
				}
			}
		}
	}
	return "", false
}
