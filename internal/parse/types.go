// Package parse extracts imports, exports, classes, annotations, and
// language-specific metadata from a single source file (SPEC_FULL.md
// §2 C4). Every parser implements the same Parser interface and fails
// soft: a malformed file yields an empty-ish ParsedFile with
// Metadata.Error set, never an error return from Parse itself.
package parse

// ImportKind tags how a module reference was written.
type ImportKind string

const (
	ImportRelative ImportKind = "relative"
	ImportAbsolute ImportKind = "absolute"
	ImportWorkspace ImportKind = "workspace"
	ImportAlias    ImportKind = "alias"
	ImportWildcard ImportKind = "wildcard"
	ImportGlob     ImportKind = "glob"
	ImportStatic   ImportKind = "static"
	ImportUseMacro ImportKind = "use-macro"
	ImportReExport ImportKind = "re-export"
	ImportInclude  ImportKind = "include"
	ImportEmbed    ImportKind = "embed"
)

// ImportEdge is a directed import/use/require reference found in a file.
type ImportEdge struct {
	Module string     `json:"module"`
	Kind   ImportKind `json:"kind"`
	Name   string     `json:"name,omitempty"`
	IsGlob bool        `json:"isGlob,omitempty"`
	Line   int         `json:"line,omitempty"`
}

// ExportKind tags the kind of symbol an ExportRecord names.
type ExportKind string

const (
	ExportFunction  ExportKind = "function"
	ExportClass     ExportKind = "class"
	ExportType      ExportKind = "type"
	ExportInterface ExportKind = "interface"
	ExportEnum      ExportKind = "enum"
	ExportConst     ExportKind = "const"
	ExportModule    ExportKind = "module"
	ExportObject    ExportKind = "object"
	ExportTrait     ExportKind = "trait"
	ExportStruct    ExportKind = "struct"
)

// ExportRecord is a top-level exportable symbol. SourceModule is set
// when this export is a re-export of a name from another module, which
// the walker must follow transitively.
type ExportRecord struct {
	Name         string     `json:"name"`
	Kind         ExportKind `json:"kind"`
	Line         int        `json:"line,omitempty"`
	SourceModule string     `json:"sourceModule,omitempty"`
}

// AnnotationRecord is a decorator/annotation attached to a class or
// file (Java @Component, Python @app.route, TS @Injectable, …).
type AnnotationRecord struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args,omitempty"`
	Line int               `json:"line,omitempty"`
}

// ClassRecord carries decorators for DI-container entry-point detection.
type ClassRecord struct {
	Name       string             `json:"name"`
	Decorators []AnnotationRecord `json:"decorators,omitempty"`
	Line       int                `json:"line,omitempty"`
}

// Metadata holds the language-specific facts the walker and
// entry-point classifier read (SPEC_FULL.md §3). Only the fields
// relevant to a file's language are populated; the rest are zero
// values.
type Metadata struct {
	// Go
	IsMainPackage   bool `json:"isMainPackage,omitempty"`
	HasMainFunction bool `json:"hasMainFunction,omitempty"`
	HasInitFunction bool `json:"hasInitFunction,omitempty"`
	IsTestFile      bool `json:"isTestFile,omitempty"`
	PackageName     string `json:"packageName,omitempty"`

	// Python
	HasMainBlock bool `json:"hasMainBlock,omitempty"`

	// Java / Kotlin
	HasMainMethod    bool `json:"hasMainMethod,omitempty"`
	IsSpringComponent bool `json:"isSpringComponent,omitempty"`

	// Rust
	IsModRoot bool `json:"isModRoot,omitempty"` // mod.rs, lib.rs, or main.rs

	// Universal
	Error string `json:"error,omitempty"`
}

// ParsedFile is the output of parsing a single file.
type ParsedFile struct {
	Path        string             `json:"path"`
	Language    string             `json:"language"`
	Size        int64              `json:"size"`
	Lines       int                `json:"lines"`
	Imports     []ImportEdge       `json:"imports"`
	Exports     []ExportRecord     `json:"exports"`
	Classes     []ClassRecord      `json:"classes"`
	Annotations []AnnotationRecord `json:"annotations"`
	Metadata    Metadata           `json:"metadata"`
}

// Parser extracts a ParsedFile from raw source content. Implementations
// never return an error for malformed input — they set
// ParsedFile.Metadata.Error and return whatever could be salvaged.
type Parser interface {
	Parse(path string, content []byte) (*ParsedFile, error)
}

// emptyResult returns the minimal ParsedFile produced when extraction
// cannot proceed at all (e.g. tree-sitter failed to produce a tree).
func emptyResult(path, language string, content []byte, errMsg string) *ParsedFile {
	return &ParsedFile{
		Path:     path,
		Language: language,
		Size:     int64(len(content)),
		Lines:    countLines(content),
		Metadata: Metadata{Error: errMsg},
	}
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}
