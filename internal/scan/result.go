package scan

import (
	"fmt"
	"sort"

	"github.com/dusk-indust/decompose/internal/entrypoint"
	"github.com/dusk-indust/decompose/internal/parse"
	"github.com/dusk-indust/decompose/internal/walker"
)

// buildResult implements spec.md §4.8's dead-file computation: every
// parsed file that is not an entry point, not reachable, and not empty
// is dead. Dead files sort descending by size; entry points and the
// per-language summary are sorted/keyed for determinism.
func buildResult(files []*parse.ParsedFile, marks map[string]entrypoint.Mark, walked walker.Result) *Result {
	var deadFiles []DeadFile
	languages := make(map[string]int, 8)
	var totalDeadBytes int64

	for _, f := range files {
		languages[f.Language]++

		if marks[f.Path].Path != "" {
			continue
		}
		if walked.Reachable[f.Path] {
			continue
		}
		if f.Lines == 0 {
			continue
		}

		exports := make([]ExportSummary, 0, len(f.Exports))
		for _, e := range f.Exports {
			exports = append(exports, ExportSummary{Name: e.Name, Kind: e.Kind})
		}

		deadFiles = append(deadFiles, DeadFile{
			File:     f.Path,
			Size:     f.Size,
			Lines:    f.Lines,
			Language: f.Language,
			Exports:  exports,
		})
		totalDeadBytes += f.Size
	}

	sort.SliceStable(deadFiles, func(i, j int) bool {
		return deadFiles[i].Size > deadFiles[j].Size
	})

	entryPaths := entrypoint.SortedPaths(marks)
	entryPoints := make([]EntryPoint, 0, len(entryPaths))
	for _, p := range entryPaths {
		entryPoints = append(entryPoints, EntryPoint{File: p, Reason: marks[p].Reason})
	}

	total := len(files)
	deadRate := 0.0
	if total > 0 {
		deadRate = float64(len(deadFiles)) / float64(total) * 100
	}

	return &Result{
		DeadFiles:   deadFiles,
		EntryPoints: entryPoints,
		Summary: Summary{
			TotalFiles:     total,
			EntryPoints:    len(marks),
			ReachableFiles: len(walked.Reachable),
			DeadFiles:      len(deadFiles),
			DeadRate:       fmt.Sprintf("%.2f%%", deadRate),
			TotalDeadBytes: totalDeadBytes,
			Languages:      languages,
		},
	}
}
