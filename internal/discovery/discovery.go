// Package discovery walks a project tree and yields candidate source file
// paths, honoring ignore rules and size caps (SPEC_FULL.md §2 C2).
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// defaultExcludeDirs are well-known vendor/build directories skipped
// unconditionally, regardless of .gitignore content (spec.md §4.2).
var defaultExcludeDirs = map[string]bool{
	"node_modules":  true,
	".git":          true,
	"dist":          true,
	"build":         true,
	"target":        true,
	"vendor":        true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".tox":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
	"bin":           true,
	"obj":           true,
	".idea":         true,
	".vscode":       true,
	"coverage":      true,
	".next":         true,
	".nuxt":         true,
}

// defaultMaxFileSize caps individual file reads; larger files are treated
// as binary/generated and skipped (spec.md §4.2, §5 back-pressure).
const defaultMaxFileSize = 4 * 1024 * 1024 // 4 MiB

// Options configures a Walk call.
type Options struct {
	// ExcludeDirs are additional directory names to skip, beyond the
	// built-in defaults (project decompose.yml excludeDirs field).
	ExcludeDirs []string
	// MaxFileSize overrides defaultMaxFileSize when non-zero.
	MaxFileSize int64
	// MaxFiles caps the total number of files returned; 0 means no cap
	// (spec.md §5 "file discovery may cap total files").
	MaxFiles int
	// Warn receives a message for every directory or file skipped due to
	// an error (permission denied, symlink loop, …); never fatal.
	Warn func(msg string)
}

// Walk returns an ordered (sorted), deterministic list of project-root
// relative POSIX paths for every candidate source file under root.
// Directory-level errors are logged via opts.Warn and skipped, never
// fatal (spec.md §4.2, §7).
func Walk(root string, opts Options) ([]string, error) {
	exclude := make(map[string]bool, len(defaultExcludeDirs)+len(opts.ExcludeDirs))
	for d := range defaultExcludeDirs {
		exclude[d] = true
	}
	for _, d := range opts.ExcludeDirs {
		exclude[d] = true
	}

	maxSize := int64(defaultMaxFileSize)
	if opts.MaxFileSize > 0 {
		maxSize = opts.MaxFileSize
	}

	matcher := loadGitignore(root, opts.Warn)

	var results []string
	capHit := false

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			warn(opts.Warn, "skipping %s: %v", path, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil || relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if exclude[info.Name()] {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if capHit {
			return nil
		}

		if matcher != nil && matcher.MatchesPath(relPath) {
			return nil
		}
		if info.Size() > maxSize {
			warn(opts.Warn, "skipping %s: exceeds max file size", relPath)
			return nil
		}
		if looksBinary(path) {
			return nil
		}

		results = append(results, relPath)
		if opts.MaxFiles > 0 && len(results) >= opts.MaxFiles {
			capHit = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

// loadGitignore compiles the project's .gitignore, if present, into a
// matcher. A missing or unreadable .gitignore is not an error — it simply
// means no additional paths are filtered beyond the built-in defaults.
func loadGitignore(root string, warnFn func(string)) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	matcher := ignore.CompileIgnoreLines(lines...)
	return matcher
}

// binaryExtensions are skipped without reading file content — a cheap
// heuristic that covers the common cases without an I/O-costly content
// sniff (spec.md §4.2 "binary-file heuristics").
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".svg": true, ".webp": true, ".bmp": true, ".mp4": true, ".mov": true,
	".mp3": true, ".wav": true, ".zip": true, ".tar": true, ".gz": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".class": true,
	".jar": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".pdf": true, ".lock": true,
}

func looksBinary(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

func warn(fn func(string), format string, args ...any) {
	if fn == nil {
		return
	}
	fn(fmt.Sprintf(format, args...))
}
