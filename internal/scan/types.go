package scan

import "github.com/dusk-indust/decompose/internal/parse"

// Phase names a coarse stage of the scan, reported through onProgress
// (SPEC_FULL.md §6.2).
type Phase string

const (
	PhaseDiscovery Phase = "discovery"
	PhaseParsing   Phase = "parsing"
	PhaseAnalysis  Phase = "analysis"
	PhaseGraph     Phase = "graph"
	PhaseDetection Phase = "detection"
)

// Event is one progress notification emitted during a scan.
type Event struct {
	Phase      Phase  `json:"phase"`
	Message    string `json:"message,omitempty"`
	Current    int    `json:"current,omitempty"`
	Total      int    `json:"total,omitempty"`
	FilesFound int    `json:"filesFound,omitempty"`
}

// Options configures a Scan call.
type Options struct {
	// OnProgress receives phase-transition and file-count events. May be
	// nil.
	OnProgress func(Event)
	// Workers bounds the parsing-phase worker pool; 0 means auto
	// (runtime.GOMAXPROCS(0)).
	Workers int
	// Languages restricts the scan to these languages; empty means every
	// language the dispatcher supports.
	Languages []string
	// ExcludeDirs are additional directory names to skip beyond
	// discovery's built-in defaults.
	ExcludeDirs []string
	// MaxFileSize overrides discovery's default per-file size cap when
	// non-zero.
	MaxFileSize int64
	// MaxFiles caps the total number of files discovered; 0 means no
	// cap.
	MaxFiles int
}

// ExportSummary is the {name, kind} pair reported for each dead file's
// exports (§6.4).
type ExportSummary struct {
	Name string          `json:"name"`
	Kind parse.ExportKind `json:"kind"`
}

// DeadFile is one file judged unreachable from every entry point.
type DeadFile struct {
	File     string          `json:"file"`
	Size     int64           `json:"size"`
	Lines    int             `json:"lines"`
	Language string          `json:"language"`
	Exports  []ExportSummary `json:"exports"`
}

// EntryPoint is one file marked as an entry point, with the reason the
// classifier assigned it.
type EntryPoint struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Summary aggregates scan-wide counts (§6.4).
type Summary struct {
	TotalFiles     int            `json:"totalFiles"`
	EntryPoints    int            `json:"entryPoints"`
	ReachableFiles int            `json:"reachableFiles"`
	DeadFiles      int            `json:"deadFiles"`
	DeadRate       string         `json:"deadRate"`
	TotalDeadBytes int64          `json:"totalDeadBytes"`
	Languages      map[string]int `json:"languages"`
}

// Result is the full output of a Scan call.
type Result struct {
	DeadFiles   []DeadFile   `json:"deadFiles"`
	EntryPoints []EntryPoint `json:"entryPoints"`
	Summary     Summary      `json:"summary"`
}
