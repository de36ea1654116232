// Package scan orchestrates the full reachability pipeline: knowledge
// load, file discovery, parallel parsing, framework detection,
// entry-point classification, resolver-context construction, and the
// BFS graph walk, producing the dead-file result set (SPEC_FULL.md §2
// C9, spec.md §4.8).
package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/decompose/internal/discovery"
	"github.com/dusk-indust/decompose/internal/entrypoint"
	"github.com/dusk-indust/decompose/internal/framework"
	"github.com/dusk-indust/decompose/internal/knowledge"
	"github.com/dusk-indust/decompose/internal/langreg"
	"github.com/dusk-indust/decompose/internal/parse"
	"github.com/dusk-indust/decompose/internal/resolver"
	"github.com/dusk-indust/decompose/internal/walker"
)

// Scan runs the full pipeline against projectPath and returns the dead-
// file result. Phases run in the fixed order the spec names:
// knowledge-load, discovery, parsing, framework detection, entry-point
// classification, resolver-context build, BFS (glob/auto-loader
// expansion happens inside the walker), dead-file computation.
func Scan(ctx context.Context, projectPath string, opts Options) (*Result, error) {
	emit := opts.OnProgress
	if emit == nil {
		emit = func(Event) {}
	}

	kb, err := knowledge.Load()
	if err != nil {
		return nil, err
	}

	emit(Event{Phase: PhaseDiscovery, Message: "walking project tree"})
	paths, err := discovery.Walk(projectPath, discovery.Options{
		ExcludeDirs: opts.ExcludeDirs,
		MaxFileSize: opts.MaxFileSize,
		MaxFiles:    opts.MaxFiles,
		Warn:        func(string) {},
	})
	if err != nil {
		return nil, err
	}
	emit(Event{Phase: PhaseDiscovery, FilesFound: len(paths)})

	dispatcher := parse.NewDispatcher()
	languages := opts.Languages
	if len(languages) == 0 {
		languages = dispatcher.SupportedLanguages()
	}
	registry := langreg.New(kb, languages)

	codePaths := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := registry.Lookup(p); ok {
			codePaths = append(codePaths, p)
		}
	}

	emit(Event{Phase: PhaseParsing, Total: len(codePaths)})
	files, err := parseAll(ctx, projectPath, codePaths, registry, dispatcher, opts.Workers, emit)
	if err != nil {
		return nil, err
	}

	emit(Event{Phase: PhaseAnalysis, Message: "detecting frameworks"})
	frameworks := framework.Detect(projectPath, kb)

	emit(Event{Phase: PhaseAnalysis, Message: "classifying entry points"})
	marks := entrypoint.Classify(projectPath, files, frameworks, kb)

	emit(Event{Phase: PhaseAnalysis, Message: "building resolver context"})
	resolverCtx := resolver.NewContext(projectPath, files, kb)

	emit(Event{Phase: PhaseGraph, Message: "walking reachability graph"})
	walked := walker.Walk(projectPath, files, marks, resolverCtx)

	emit(Event{Phase: PhaseDetection, Message: "computing dead files"})
	return buildResult(files, marks, walked), nil
}

// parseAll runs the parsing phase across a bounded worker pool, merging
// results back in the original discovery order regardless of
// completion order (§5 "SHALL ensure parse results are merged in
// deterministic order"). A single file's parse failure never halts the
// scan — the dispatcher already reduces parser errors to a
// Metadata.Error-carrying ParsedFile.
func parseAll(ctx context.Context, projectRoot string, paths []string, registry *langreg.Registry, dispatcher *parse.Dispatcher, workers int, emit func(Event)) ([]*parse.ParsedFile, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*parse.ParsedFile, len(paths))
	sem := make(chan struct{}, workers)
	g, gctx := errgroup.WithContext(ctx)

	var done int32
	var mu sync.Mutex

	for i, relPath := range paths {
		i, relPath := i, relPath
		lang, _ := registry.Lookup(relPath)

		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			data, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(relPath)))
			if err != nil {
				return nil // transient per-file read error: swallow (§7)
			}
			pf, _ := dispatcher.Parse(relPath, lang, data)
			if pf == nil {
				return nil
			}
			pf.Path = relPath
			pf.Language = lang
			results[i] = pf

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			emit(Event{Phase: PhaseParsing, Current: int(n), Total: len(paths)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]*parse.ParsedFile, 0, len(results))
	for _, pf := range results {
		if pf != nil {
			files = append(files, pf)
		}
	}
	return files, nil
}

