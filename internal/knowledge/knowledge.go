package knowledge

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Base is the immutable, loaded-once rule set consulted throughout a scan.
// A malformed entry in any pool is dropped with a warning; the remaining
// entries still load (SPEC_FULL.md §4.1).
type Base struct {
	languages  map[string]LanguageRules
	frameworks map[string]FrameworkRules
	patterns   map[string]PatternRules
	learned    map[string][]LearnedEntry

	warnings []string
	frozen   bool
}

// Load reads all four pools from the embedded data filesystem. A malformed
// entry is recorded as a warning and skipped, matching spec.md §4.1 and
// §7's "malformed knowledge entry" taxonomy; only a pool-level read error,
// such as a missing pool directory, makes it return an error.
func Load() (*Base, error) {
	return LoadFS(DataFS, "data")
}

// LoadFS loads the four pools from an arbitrary fs.FS rooted at root. This
// indirection exists so tests can load a scratch pool directory instead of
// the embedded one.
func LoadFS(fsys fs.FS, root string) (*Base, error) {
	b := &Base{
		languages:  make(map[string]LanguageRules),
		frameworks: make(map[string]FrameworkRules),
		patterns:   make(map[string]PatternRules),
		learned:    make(map[string][]LearnedEntry),
	}

	if err := loadPool(fsys, root+"/languages", func(name string, data []byte) error {
		var rules LanguageRules
		if err := json.Unmarshal(data, &rules); err != nil {
			return err
		}
		if rules.Language == "" {
			return fmt.Errorf("missing language field")
		}
		b.languages[rules.Language] = rules
		return nil
	}, &b.warnings); err != nil {
		return nil, err
	}

	if err := loadPool(fsys, root+"/frameworks", func(name string, data []byte) error {
		var rules FrameworkRules
		if err := json.Unmarshal(data, &rules); err != nil {
			return err
		}
		if rules.Framework == "" {
			return fmt.Errorf("missing framework field")
		}
		b.frameworks[rules.Framework] = rules
		return nil
	}, &b.warnings); err != nil {
		return nil, err
	}

	if err := loadPool(fsys, root+"/patterns", func(name string, data []byte) error {
		var rules PatternRules
		if err := json.Unmarshal(data, &rules); err != nil {
			return err
		}
		if rules.ID == "" {
			return fmt.Errorf("missing id field")
		}
		b.patterns[rules.ID] = rules
		return nil
	}, &b.warnings); err != nil {
		return nil, err
	}

	if err := loadPool(fsys, root+"/learned", func(name string, data []byte) error {
		var entries []LearnedEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		key := strings.TrimSuffix(name, ".json")
		b.learned[key] = entries
		return nil
	}, &b.warnings); err != nil {
		return nil, err
	}

	b.frozen = true
	return b, nil
}

// loadPool walks every *.json file directly under dir, calling parse for
// each. A parse error is appended to warnings and the entry is skipped;
// pool-level I/O errors (e.g. the directory does not exist) propagate.
func loadPool(fsys fs.FS, dir string, parse func(name string, data []byte) error, warnings *[]string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read pool %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s/%s: read: %v", dir, name, err))
			continue
		}
		if err := parse(name, data); err != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s/%s: %v", dir, name, err))
			continue
		}
	}
	return nil
}

// Warnings returns the malformed-entry warnings accumulated during Load.
func (b *Base) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// GetLanguageRules returns the rules for lang and whether they were found.
func (b *Base) GetLanguageRules(lang string) (LanguageRules, bool) {
	r, ok := b.languages[lang]
	return r, ok
}

// GetAllFrameworks returns every loaded framework's rules, sorted by name
// for deterministic iteration.
func (b *Base) GetAllFrameworks() []FrameworkRules {
	out := make([]FrameworkRules, 0, len(b.frameworks))
	for _, fw := range b.frameworks {
		out = append(out, fw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Framework < out[j].Framework })
	return out
}

// GetFramework returns one framework's rules by name.
func (b *Base) GetFramework(name string) (FrameworkRules, bool) {
	fw, ok := b.frameworks[name]
	return fw, ok
}

// GetEntryPointFilePatterns returns the universal entry-point file-name
// regex patterns from patterns/entry-points.json.
func (b *Base) GetEntryPointFilePatterns() []string {
	p, ok := b.patterns["entry-points"]
	if !ok {
		return nil
	}
	return p.FilePatterns
}

// GetDIContainerPatterns returns the universal DI-container reference
// regex patterns from patterns/entry-points.json.
func (b *Base) GetDIContainerPatterns() []string {
	p, ok := b.patterns["entry-points"]
	if !ok {
		return nil
	}
	return p.DIContainerPatterns
}

// GetFrameworkFilter returns the import-prefix filter for lang — imports
// beginning with any of these prefixes are treated as external
// (spec.md §4.5.2 strategy 4, §8 invariant 8).
func (b *Base) GetFrameworkFilter(lang string) []string {
	r, ok := b.languages[lang]
	if !ok {
		return nil
	}
	return r.FrameworkFilter.Prefixes
}

// GetAllEntryPointAnnotations returns every annotation/decorator name
// registered as an entry-point marker for lang, across all frameworks
// listed in that language's rules.
func (b *Base) GetAllEntryPointAnnotations(lang string) []string {
	r, ok := b.languages[lang]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, group := range r.EntryPointAnnotations {
		for _, ann := range group {
			if !seen[ann.Name] {
				seen[ann.Name] = true
				out = append(out, ann.Name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// GetLearned returns the append-only pool named key (e.g. "false-positives").
func (b *Base) GetLearned(key string) []LearnedEntry {
	return b.learned[key]
}

// reset clears all loaded pools. It exists for test harnesses only — the
// knowledge base is otherwise frozen for the lifetime of a scan
// (spec.md §4.1).
func (b *Base) reset() {
	b.languages = make(map[string]LanguageRules)
	b.frameworks = make(map[string]FrameworkRules)
	b.patterns = make(map[string]PatternRules)
	b.learned = make(map[string][]LearnedEntry)
	b.warnings = nil
	b.frozen = false
}
