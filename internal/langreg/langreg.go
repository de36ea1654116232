// Package langreg maps a file path to the language it belongs to; parsing
// itself is dispatched by parse.Dispatcher (SPEC_FULL.md §2 C3, spec.md
// invariant "a file's language is a pure function of its extension").
package langreg

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-indust/decompose/internal/knowledge"
)

// Registry maps file extensions to language tags, built once from the
// knowledge base's per-language file_extensions lists.
type Registry struct {
	byExtension map[string]string // ".go" -> "go"
	languages   []string          // sorted, stable iteration
}

// New builds a Registry from every language the knowledge base knows
// about. An extension claimed by more than one language keeps whichever
// language sorts first; the later claims are dropped without a warning
// and are not treated as an error.
func New(kb *knowledge.Base, languages []string) *Registry {
	sorted := append([]string(nil), languages...)
	sort.Strings(sorted)

	r := &Registry{
		byExtension: make(map[string]string),
		languages:   sorted,
	}

	for _, lang := range sorted {
		rules, ok := kb.GetLanguageRules(lang)
		if !ok {
			continue
		}
		for _, ext := range rules.FileExtensions {
			ext = strings.ToLower(ext)
			if _, claimed := r.byExtension[ext]; !claimed {
				r.byExtension[ext] = lang
			}
		}
	}

	return r
}

// Languages returns every language this registry was built for, sorted.
func (r *Registry) Languages() []string {
	return append([]string(nil), r.languages...)
}

// Lookup returns the language for path based on its extension, and
// whether a language claims that extension at all.
func (r *Registry) Lookup(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	lang, ok := r.byExtension[ext]
	return lang, ok
}
