package resolver

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// goModulePathFromFile reads the module declaration from the project's
// go.mod, falling back to a line scan if the file fails to parse —
// the same fail-soft pattern used for dependency detection (§4.4).
func goModulePathFromFile(projectRoot string) string {
	path := filepath.Join(projectRoot, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	mf, err := modfile.Parse(path, data, nil)
	if err == nil && mf.Module != nil {
		return mf.Module.Mod.Path
	}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module"))
		}
	}
	return ""
}
