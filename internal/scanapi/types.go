// Package scanapi exposes internal/scan.Scan to external collaborators
// over two transports: an MCP tool served over streamable HTTP
// (mirroring internal/mcptools' build_graph tool) and an async job API
// built on internal/a2a's Task vocabulary (SPEC_FULL.md §2 C10, §6.6).
// Neither transport contains scan logic of its own.
package scanapi

import "github.com/dusk-indust/decompose/internal/scan"

// ScanInput is the input for the scan_dead_code MCP tool, mirroring
// spec.md §6.1's scan(projectPath, options) contract.
type ScanInput struct {
	ProjectPath string   `json:"projectPath" jsonschema:"the absolute path to the repository to scan for dead code"`
	Languages   []string `json:"languages,omitempty" jsonschema:"restrict the scan to these languages (default: all supported)"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"additional directory names to exclude beyond the built-in defaults"`
	MaxFiles    int      `json:"maxFiles,omitempty" jsonschema:"cap on the number of files discovered (default: no cap)"`
}

// ScanOutput is the result of the scan_dead_code MCP tool, mirroring
// spec.md §6.4's result shape.
type ScanOutput struct {
	Result scan.Result `json:"result"`
}
