package scanapi

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/decompose/internal/scan"
)

// version is set by the linker at build time.
var version = "dev"

// Service wraps internal/scan.Scan for the MCP tool handler. It holds no
// state of its own — each call is an independent scan.
type Service struct{}

// NewService returns a ready-to-use Service.
func NewService() *Service {
	return &Service{}
}

// ScanDeadCode walks a repository and reports every file unreachable from
// its entry points. This is the entire business logic the MCP tool
// exposes — everything else in this file is transport wiring.
func (s *Service) ScanDeadCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	if input.ProjectPath == "" {
		return nil, ScanOutput{}, fmt.Errorf("projectPath is required")
	}

	info, err := os.Stat(input.ProjectPath)
	if err != nil {
		return nil, ScanOutput{}, fmt.Errorf("cannot access projectPath: %w", err)
	}
	if !info.IsDir() {
		return nil, ScanOutput{}, fmt.Errorf("projectPath is not a directory: %s", input.ProjectPath)
	}

	result, err := scan.Scan(ctx, input.ProjectPath, scan.Options{
		Languages:   input.Languages,
		ExcludeDirs: input.ExcludeDirs,
		MaxFiles:    input.MaxFiles,
	})
	if err != nil {
		return nil, ScanOutput{}, fmt.Errorf("scan: %w", err)
	}

	return nil, ScanOutput{Result: *result}, nil
}

// NewScanMCPServer creates an MCP server exposing the scan_dead_code tool.
func NewScanMCPServer(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "decompose-scanapi",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_dead_code",
		Description: "Scan a repository for files unreachable from any entry point. Walks the file tree, parses every supported source file, classifies entry points, follows the import graph, and reports dead files sorted by size along with a reachability summary.",
	}, svc.ScanDeadCode)

	return server
}

// RunMCPServer starts an HTTP server exposing the scan_dead_code MCP tool
// until ctx is canceled.
func RunMCPServer(ctx context.Context, svc *Service, addr string) error {
	server := NewScanMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
