package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WorkspacePackage describes one npm/bun workspace member discovered
// under the project root (§4.5.5 strategy 3). EntryPoint and
// ExportsMap values are already resolved to concrete RelPaths — any
// dist/→src/ rewrite candidate has already been tried during indexing,
// since the resolver context never performs filesystem I/O per call.
type WorkspacePackage struct {
	Name       string
	Dir        string
	EntryPoint string            // "" if nothing resolved
	ExportsMap map[string]string // subpath ("./queries") -> resolved RelPath
}

var tsExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", "/index.ts", "/index.tsx", "/index.js", "/index.jsx"}

type packageManifest struct {
	Name       string          `json:"name"`
	Main       string          `json:"main"`
	Module     string          `json:"module"`
	Workspaces json.RawMessage `json:"workspaces"`
	Exports    json.RawMessage `json:"exports"`
}

// scanWorkspaces reads the root package.json's "workspaces" field,
// expands its glob patterns, and indexes every matched member package.
func (c *Context) scanWorkspaces() {
	data, err := os.ReadFile(filepath.Join(c.projectRoot, "package.json"))
	if err != nil {
		return
	}
	var pkg packageManifest
	if err := json.Unmarshal(data, &pkg); err != nil {
		return
	}

	patterns := parseWorkspacePatterns(pkg.Workspaces)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(c.projectRoot, pattern))
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, dir := range matches {
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				continue
			}
			c.loadWorkspacePackage(dir)
		}
	}
}

func parseWorkspacePatterns(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Packages
	}
	return nil
}

func (c *Context) loadWorkspacePackage(absDir string) {
	data, err := os.ReadFile(filepath.Join(absDir, "package.json"))
	if err != nil {
		return
	}
	var pkg packageManifest
	if err := json.Unmarshal(data, &pkg); err != nil || pkg.Name == "" {
		return
	}
	relDir, err := filepath.Rel(c.projectRoot, absDir)
	if err != nil {
		return
	}

	ws := &WorkspacePackage{Dir: relDir, Name: pkg.Name, ExportsMap: make(map[string]string)}
	c.parseExports(ws, pkg.Exports)

	if ws.EntryPoint == "" && pkg.Main != "" {
		ws.EntryPoint, _ = c.resolveDistRewrite(filepath.Join(relDir, pkg.Main))
	}
	if ws.EntryPoint == "" && pkg.Module != "" {
		ws.EntryPoint, _ = c.resolveDistRewrite(filepath.Join(relDir, pkg.Module))
	}
	if ws.EntryPoint == "" {
		for _, try := range []string{filepath.Join(relDir, "src", "index"), filepath.Join(relDir, "index")} {
			if resolved, ok := c.probeFile(try, tsExtensions); ok {
				ws.EntryPoint = resolved
				break
			}
		}
	}

	c.workspacePackages[pkg.Name] = ws
}

func (c *Context) parseExports(ws *WorkspacePackage, raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if resolved, ok := c.resolveDistRewrite(filepath.Join(ws.Dir, str)); ok {
			ws.EntryPoint = resolved
		}
		return
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return
	}
	for key, val := range obj {
		target := exportTargetString(val)
		if target == "" {
			continue
		}
		resolved, ok := c.resolveDistRewrite(filepath.Join(ws.Dir, target))
		if !ok {
			continue
		}
		if key == "." {
			ws.EntryPoint = resolved
		} else {
			ws.ExportsMap[key] = resolved
		}
	}
}

// exportTargetString extracts a file path from an exports map value,
// which may be a bare string or a conditional object
// {"import": "...", "default": "...", "require": "..."}.
func exportTargetString(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"import", "default", "require"} {
		if v, ok := obj[key]; ok {
			return exportTargetString(v)
		}
	}
	return ""
}

// resolveDistRewrite tries target as-is, then with a dist/ segment
// swapped for src/, then with the dist/ segment stripped entirely,
// probing tsExtensions against each (§4.5.5 strategy 3).
func (c *Context) resolveDistRewrite(target string) (string, bool) {
	target = filepath.Clean(target)
	candidates := []string{target}
	switch {
	case strings.Contains(target, "/dist/"):
		candidates = append(candidates, strings.Replace(target, "/dist/", "/src/", 1))
		candidates = append(candidates, strings.Replace(target, "/dist/", "/", 1))
	case strings.HasPrefix(target, "dist/"):
		candidates = append(candidates, "src/"+strings.TrimPrefix(target, "dist/"))
		candidates = append(candidates, strings.TrimPrefix(target, "dist/"))
	}
	for _, candidate := range candidates {
		if resolved, ok := c.probeFile(candidate, tsExtensions); ok {
			return resolved, true
		}
		stripped := strings.TrimSuffix(candidate, filepath.Ext(candidate))
		if resolved, ok := c.probeFile(stripped, tsExtensions); ok {
			return resolved, true
		}
	}
	return "", false
}
