package resolver

import "path/filepath"

// dirOf is filepath.Dir under a name that reads better at call sites
// that are translating spec prose directly ("F's directory").
func dirOf(path string) string {
	return filepath.Dir(path)
}
