package scanapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestService_ScanDeadCode_RequiresProjectPath(t *testing.T) {
	svc := NewService()
	_, _, err := svc.ScanDeadCode(context.Background(), nil, ScanInput{})
	assert.Error(t, err)
}

func TestService_ScanDeadCode_RejectsMissingPath(t *testing.T) {
	svc := NewService()
	_, _, err := svc.ScanDeadCode(context.Background(), nil, ScanInput{ProjectPath: "/no/such/directory"})
	assert.Error(t, err)
}

func TestService_ScanDeadCode_ReturnsDeadFiles(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "src/index.ts", "import \"./used\";\n")
	writeFixture(t, root, "src/used.ts", "export const x = 1;\n")
	writeFixture(t, root, "src/dead.ts", "export const y = 2;\n")

	svc := NewService()
	_, out, err := svc.ScanDeadCode(context.Background(), nil, ScanInput{ProjectPath: root})
	require.NoError(t, err)

	found := false
	for _, d := range out.Result.DeadFiles {
		if d.File == "src/dead.ts" {
			found = true
		}
	}
	assert.True(t, found)
}
