package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dusk-indust/decompose/internal/config"
	"github.com/dusk-indust/decompose/internal/scan"
	"github.com/dusk-indust/decompose/internal/scanapi"
)

// version is set by goreleaser at build time.
var version = "dev"

// cliFlags are parsed from the command line. Config-file values fill in
// anything left at its zero value.
type cliFlags struct {
	ProjectRoot string
	Languages   string
	ExcludeDirs string
	Workers     int
	MaxFiles    int
	Verbose     bool
	JSON        bool
	ServeMCP    bool
	MCPAddr     string
	ServeJobs   bool
	JobsAddr    string
	Version     bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("decompose", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the project to scan")
	fs.StringVar(&flags.Languages, "languages", "", "comma-separated list of languages to scan (default: all supported)")
	fs.StringVar(&flags.ExcludeDirs, "exclude-dirs", "", "comma-separated directory names to exclude beyond the built-in defaults")
	fs.IntVar(&flags.Workers, "workers", 0, "bound on the parsing worker pool (default: GOMAXPROCS)")
	fs.IntVar(&flags.MaxFiles, "max-files", 0, "cap on the number of files discovered (default: no cap)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print progress events to stderr")
	fs.BoolVar(&flags.JSON, "json", false, "print the scan result as JSON instead of a text summary")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run the scan_dead_code MCP tool over streamable HTTP")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", ":8090", "listen address for --serve-mcp")
	fs.BoolVar(&flags.ServeJobs, "serve-jobs", false, "run the async scan job API (REST + JSON-RPC + SSE)")
	fs.StringVar(&flags.JobsAddr, "jobs-addr", ":8091", "listen address for --serve-jobs")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	projectRoot := flags.ProjectRoot
	if !filepath.IsAbs(projectRoot) {
		abs, err := filepath.Abs(projectRoot)
		if err != nil {
			return fmt.Errorf("resolving project root: %w", err)
		}
		projectRoot = abs
	}

	projCfg, err := config.Load(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load decompose.yml: %v\n", err)
		projCfg = &config.ProjectConfig{}
	}
	if projCfg.Verbose && !flags.Verbose {
		flags.Verbose = true
	}

	opts := scanOptionsFrom(flags, projCfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.ServeMCP {
		svc := scanapi.NewService()
		fmt.Fprintf(os.Stderr, "decompose scan_dead_code MCP tool v%s listening on %s\n", version, flags.MCPAddr)
		return scanapi.RunMCPServer(ctx, svc, flags.MCPAddr)
	}

	if flags.ServeJobs {
		jobSvc := scanapi.NewJobService()
		server := scanapi.NewJobServer(jobSvc)
		server.Start(flags.JobsAddr)
		fmt.Fprintf(os.Stderr, "decompose scan job API v%s listening on %s\n", version, flags.JobsAddr)
		<-ctx.Done()
		return server.Stop(context.Background())
	}

	if flags.Verbose {
		opts.OnProgress = func(ev scan.Event) {
			fmt.Fprintln(os.Stderr, formatProgress(ev))
		}
	}

	result, err := scan.Scan(ctx, projectRoot, opts)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if flags.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSummary(result)
	return nil
}

func scanOptionsFrom(flags cliFlags, cfg *config.ProjectConfig) scan.Options {
	opts := scan.Options{
		Workers:  flags.Workers,
		MaxFiles: flags.MaxFiles,
	}
	if opts.Workers == 0 {
		opts.Workers = cfg.Workers
	}

	languages := splitCSV(flags.Languages)
	if len(languages) == 0 {
		languages = cfg.Languages
	}
	opts.Languages = languages

	excludes := splitCSV(flags.ExcludeDirs)
	excludes = append(excludes, cfg.ExcludeDirs...)
	excludes = append(excludes, cfg.GraphExcludes...)
	opts.ExcludeDirs = excludes

	return opts
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatProgress(ev scan.Event) string {
	switch {
	case ev.Total > 0:
		return fmt.Sprintf("[%s] %d/%d %s", ev.Phase, ev.Current, ev.Total, ev.Message)
	case ev.FilesFound > 0:
		return fmt.Sprintf("[%s] found %d files", ev.Phase, ev.FilesFound)
	default:
		return fmt.Sprintf("[%s] %s", ev.Phase, ev.Message)
	}
}

func printSummary(result *scan.Result) {
	s := result.Summary
	fmt.Printf("scanned %d files: %d entry points, %d reachable, %d dead (%s)\n",
		s.TotalFiles, s.EntryPoints, s.ReachableFiles, s.DeadFiles, s.DeadRate)
	if s.TotalDeadBytes > 0 {
		fmt.Printf("%d bytes of dead code across %d files\n", s.TotalDeadBytes, len(result.DeadFiles))
	}
	for _, d := range result.DeadFiles {
		fmt.Printf("  dead  %-60s %8d bytes  %5d lines  %s\n", d.File, d.Size, d.Lines, d.Language)
	}
}

func printUsage(fs *flag.FlagSet) {
	w := os.Stderr
	fmt.Fprintf(w, "decompose v%s — dead-code reachability scanner\n\n", version)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  decompose [flags]                 Scan --project-root and print a summary")
	fmt.Fprintln(w, "  decompose --json [flags]          Scan and print the full result as JSON")
	fmt.Fprintln(w, "  decompose --serve-mcp [flags]     Run the scan_dead_code MCP tool over HTTP")
	fmt.Fprintln(w, "  decompose --serve-jobs [flags]    Run the async scan job API")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  decompose --project-root ./app")
	fmt.Fprintln(w, "  decompose --project-root ./app --languages go,typescript --json")
	fmt.Fprintln(w, "  decompose --serve-jobs --jobs-addr :8091")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}
