package knowledge

// EntryAnnotation names an annotation/decorator that, when found on a
// class, marks the file containing it as an entry point.
type EntryAnnotation struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportStrategy is one named step in a language's resolution strategy
// list (SPEC_FULL.md §4.5). Order is the fixed-order position; Name
// identifies the strategy the resolver dispatches to.
type ImportStrategy struct {
	Order int    `json:"order"`
	Name  string `json:"name"`
}

// LanguageRules is the on-disk shape of languages/<lang>.json.
type LanguageRules struct {
	Language             string                       `json:"language"`
	Version              string                       `json:"version"`
	FileExtensions       []string                     `json:"file_extensions"`
	EntryPointAnnotations map[string][]EntryAnnotation `json:"entry_point_annotations,omitempty"`
	ImportResolution     struct {
		Strategies []ImportStrategy `json:"strategies"`
	} `json:"import_resolution"`
	FrameworkFilter struct {
		Prefixes []string `json:"prefixes"`
	} `json:"framework_filter"`
	SamePackageLinking bool `json:"same_package_linking"`
}

// FrameworkDetection is the detection-signal block of a framework rule.
type FrameworkDetection struct {
	Dependencies []string `json:"dependencies,omitempty"`
	Files        []string `json:"files,omitempty"`
	BuildFiles   []string `json:"build_files,omitempty"`
	GoImports    []string `json:"go_imports,omitempty"`
}

// FrameworkRules is the on-disk shape of frameworks/<fw>.json.
type FrameworkRules struct {
	Framework      string              `json:"framework"`
	Detection      FrameworkDetection  `json:"detection"`
	EntryPatterns  []string            `json:"entry_patterns,omitempty"`
	EntryAnnotations []string          `json:"entry_annotations,omitempty"`
	DIDecorators   []string            `json:"di_decorators,omitempty"`
	SpecialFiles   []string            `json:"special_files,omitempty"`
}

// PatternRules is the on-disk shape of patterns/<pattern>.json.
type PatternRules struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	FilePatterns        []string `json:"file_patterns,omitempty"`
	DIContainerPatterns []string `json:"di_container_patterns,omitempty"`
}

// LearnedEntry is one record in an append-only learned pool
// (false-positives.json, new-patterns.json, changelog.json, pending.json,
// approved.json). The shape is intentionally permissive — the core only
// ever round-trips these records, it never interprets them.
type LearnedEntry map[string]any
