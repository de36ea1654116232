package framework

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/decompose/internal/knowledge"
	"github.com/stretchr/testify/require"
)

func loadKB(t *testing.T) *knowledge.Base {
	t.Helper()
	kb, err := knowledge.Load()
	require.NoError(t, err)
	return kb
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetect_NextJsByDependency(t *testing.T) {
	root := t.TempDir()
	write(t, root, "package.json", `{"dependencies": {"next": "^14.0.0", "react": "^18.0.0"}}`)

	detected := Detect(root, loadKB(t))
	require.True(t, detected["nextjs"])
}

func TestDetect_DjangoByPythonRequirements(t *testing.T) {
	root := t.TempDir()
	write(t, root, "requirements.txt", "Django==4.2\nrequests==2.31\n")

	detected := Detect(root, loadKB(t))
	require.True(t, detected["django"])
}

func TestDetect_DjangoAnchoredMatchAvoidsFalsePositive(t *testing.T) {
	root := t.TempDir()
	write(t, root, "requirements.txt", "django-anything-else==1.0\n")

	detected := Detect(root, loadKB(t))
	require.False(t, detected["django"])
}

func TestDetect_DjangoMarkerFile(t *testing.T) {
	root := t.TempDir()
	write(t, root, "manage.py", "#!/usr/bin/env python\n")

	detected := Detect(root, loadKB(t))
	require.True(t, detected["django"])
}

func TestDetect_GinByGoModImport(t *testing.T) {
	root := t.TempDir()
	write(t, root, "go.mod", "module example.com/app\n\ngo 1.22\n\nrequire github.com/gin-gonic/gin v1.9.1\n")

	detected := Detect(root, loadKB(t))
	require.True(t, detected["gin"])
}

func TestDetect_NoFrameworksOnEmptyProject(t *testing.T) {
	root := t.TempDir()
	detected := Detect(root, loadKB(t))
	require.Empty(t, detected)
}
