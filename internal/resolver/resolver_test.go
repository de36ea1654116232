package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/decompose/internal/knowledge"
	"github.com/dusk-indust/decompose/internal/parse"
	"github.com/stretchr/testify/assert"
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

func filesFor(paths ...string) []*parse.ParsedFile {
	out := make([]*parse.ParsedFile, 0, len(paths))
	for _, p := range paths {
		lang := ""
		switch filepath.Ext(p) {
		case ".ts", ".tsx":
			lang = "typescript"
		case ".js", ".jsx":
			lang = "javascript"
		case ".go":
			lang = "go"
		case ".py":
			lang = "python"
		case ".rs":
			lang = "rust"
		}
		out = append(out, &parse.ParsedFile{Path: p, Language: lang})
	}
	return out
}

func TestResolveTS_RelativeAndIndex(t *testing.T) {
	root := t.TempDir()
	files := filesFor("src/index.ts", "src/service.ts", "src/components/index.ts")
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("typescript", "src/index.ts", parse.ImportEdge{Module: "./service"})
	require.Equal(t, []string{"src/service.ts"}, got)

	got = ctx.Resolve("typescript", "src/index.ts", parse.ImportEdge{Module: "./components"})
	require.Equal(t, []string{"src/components/index.ts"}, got)

	got = ctx.Resolve("typescript", "src/index.ts", parse.ImportEdge{Module: "./nonexistent"})
	require.Empty(t, got)
}

func TestResolveTS_ExternalPackage(t *testing.T) {
	root := t.TempDir()
	ctx := NewContext(root, filesFor("src/app.ts"), loadKB(t))
	got := ctx.Resolve("typescript", "src/app.ts", parse.ImportEdge{Module: "lodash"})
	require.Empty(t, got)
}

func TestResolveTS_WorkspaceDefaultAndSubpath(t *testing.T) {
	root := t.TempDir()
	write(t, root, "package.json", `{"name":"root","workspaces":["packages/*"]}`)
	write(t, root, "packages/logger/package.json", `{"name":"@test/logger","main":"src/index.ts"}`)
	write(t, root, "packages/db/package.json", `{"name":"@test/db","exports":{".":"./src/index.ts","./queries":"./src/queries.ts"}}`)

	files := filesFor(
		"packages/logger/src/index.ts",
		"packages/db/src/index.ts",
		"packages/db/src/queries.ts",
		"src/app.ts",
	)
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("typescript", "src/app.ts", parse.ImportEdge{Module: "@test/logger"})
	require.Equal(t, []string{"packages/logger/src/index.ts"}, got)

	got = ctx.Resolve("typescript", "src/app.ts", parse.ImportEdge{Module: "@test/db/queries"})
	require.Equal(t, []string{"packages/db/src/queries.ts"}, got)
}

func TestResolveTS_WorkspaceDistToSrcRewrite(t *testing.T) {
	root := t.TempDir()
	write(t, root, "package.json", `{"name":"root","workspaces":["packages/*"]}`)
	write(t, root, "packages/core/package.json", `{"name":"@test/core","main":"dist/index.js"}`)

	files := filesFor("packages/core/src/index.ts", "src/app.ts")
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("typescript", "src/app.ts", parse.ImportEdge{Module: "@test/core"})
	require.Equal(t, []string{"packages/core/src/index.ts"}, got)
}

func TestResolveTS_PathAlias(t *testing.T) {
	root := t.TempDir()
	write(t, root, "tsconfig.json", `{"compilerOptions":{"baseUrl":".","paths":{"@app/*":["src/app/*"]}}}`)

	files := filesFor("tsconfig.json", "src/app/widget.ts", "src/main.ts")
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("typescript", "src/main.ts", parse.ImportEdge{Module: "@app/widget"})
	require.Equal(t, []string{"src/app/widget.ts"}, got)
}

func TestResolveGo_LocalModuleAndExternal(t *testing.T) {
	root := t.TempDir()
	write(t, root, "go.mod", "module github.com/example/project\n\ngo 1.22\n")

	files := filesFor("internal/widget/widget.go", "internal/widget/helper.go", "cmd/app/main.go")
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("go", "cmd/app/main.go", parse.ImportEdge{Module: "github.com/example/project/internal/widget"})
	assert.ElementsMatch(t, []string{"internal/widget/widget.go", "internal/widget/helper.go"}, got)

	got = ctx.Resolve("go", "cmd/app/main.go", parse.ImportEdge{Module: "fmt"})
	require.Empty(t, got)
}

func TestResolveGo_ExcludesTestAndDeadNamedFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "go.mod", "module github.com/example/project\n\ngo 1.22\n")

	files := filesFor("internal/widget/widget.go", "internal/widget/widget_test.go", "internal/widget/dead-old.go")
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("go", "cmd/app/main.go", parse.ImportEdge{Module: "github.com/example/project/internal/widget"})
	require.Equal(t, []string{"internal/widget/widget.go"}, got)
}

func TestResolvePython_RelativeAndShortenedAbsolute(t *testing.T) {
	root := t.TempDir()
	files := filesFor("pkg/service.py", "pkg/models.py", "pkg/sub/handler.py")
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("python", "pkg/service.py", parse.ImportEdge{Module: ".models"})
	require.Equal(t, []string{"pkg/models.py"}, got)

	got = ctx.Resolve("python", "pkg/sub/handler.py", parse.ImportEdge{Module: "..models"})
	require.Equal(t, []string{"pkg/models.py"}, got)

	got = ctx.Resolve("python", "pkg/service.py", parse.ImportEdge{Module: "pkg.models"})
	require.Equal(t, []string{"pkg/models.py"}, got)
}

func TestResolvePython_External(t *testing.T) {
	root := t.TempDir()
	ctx := NewContext(root, filesFor("main.py"), loadKB(t))
	got := ctx.Resolve("python", "main.py", parse.ImportEdge{Module: "numpy"})
	require.Empty(t, got)
}

func TestResolveRust_CrateAndModTree(t *testing.T) {
	root := t.TempDir()
	files := filesFor(
		"src/model.rs", "src/service.rs", "src/main.rs",
		"src/handlers/mod.rs", "src/handlers/api.rs", "src/handlers/api/widget.rs",
	)
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("rust", "src/service.rs", parse.ImportEdge{Module: "crate::model::{Repository, User}"})
	require.Equal(t, []string{"src/model.rs"}, got)

	// src/main.rs is a 2015-style module root: "mod handlers;" looks for
	// a sibling handlers.rs or handlers/mod.rs.
	got = ctx.Resolve("rust", "src/main.rs", parse.ImportEdge{Module: "handlers", Kind: parse.ImportUseMacro})
	require.Equal(t, []string{"src/handlers/mod.rs"}, got)

	// src/handlers/api.rs is a 2018-style leaf module: "mod widget;"
	// looks under a directory named after its own stem, api/widget.rs.
	got = ctx.Resolve("rust", "src/handlers/api.rs", parse.ImportEdge{Module: "widget", Kind: parse.ImportUseMacro})
	require.Equal(t, []string{"src/handlers/api/widget.rs"}, got)
}

func TestResolveRust_ExternalCrate(t *testing.T) {
	root := t.TempDir()
	ctx := NewContext(root, filesFor("src/main.rs"), loadKB(t))
	got := ctx.Resolve("rust", "src/main.rs", parse.ImportEdge{Module: "std::collections::HashMap"})
	require.Empty(t, got)
}

func TestResolveJava_FQNAndWildcardAndFilter(t *testing.T) {
	root := t.TempDir()
	files := []*parse.ParsedFile{
		{Path: "src/main/java/com/acme/Widget.java", Language: "java", Metadata: parse.Metadata{PackageName: "com.acme"}},
		{Path: "src/main/java/com/acme/Gadget.java", Language: "java", Metadata: parse.Metadata{PackageName: "com.acme"}},
	}
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("java", "src/main/java/com/acme/Other.java", parse.ImportEdge{Module: "com.acme.Widget"})
	require.Equal(t, []string{"src/main/java/com/acme/Widget.java"}, got)

	got = ctx.Resolve("java", "src/main/java/com/acme/Other.java", parse.ImportEdge{Module: "com.acme.*", IsGlob: true})
	assert.ElementsMatch(t, []string{"src/main/java/com/acme/Widget.java", "src/main/java/com/acme/Gadget.java"}, got)

	got = ctx.Resolve("java", "src/main/java/com/acme/Other.java", parse.ImportEdge{Module: "java.util.List"})
	require.Empty(t, got)
}

func TestResolveJava_ClassNameSuffixFallback(t *testing.T) {
	root := t.TempDir()
	files := []*parse.ParsedFile{
		{Path: "src/main/java/com/acme/util/Formatter.java", Language: "java"},
		{Path: "src/main/java/legacy/dead-Formatter.java", Language: "java"},
	}
	ctx := NewContext(root, files, loadKB(t))

	got := ctx.Resolve("java", "src/main/java/com/acme/Other.java", parse.ImportEdge{Module: "com.unknownpkg.Formatter"})
	require.Equal(t, []string{"src/main/java/com/acme/util/Formatter.java"}, got)
}

func TestSameUnit_GoAndJavaPackageLinking(t *testing.T) {
	root := t.TempDir()
	files := []*parse.ParsedFile{
		{Path: "internal/widget/a.go", Language: "go"},
		{Path: "internal/widget/b.go", Language: "go"},
	}
	ctx := NewContext(root, files, loadKB(t))
	got := ctx.SameUnit(files[0])
	assert.ElementsMatch(t, []string{"internal/widget/a.go", "internal/widget/b.go"}, got)

	javaFiles := []*parse.ParsedFile{
		{Path: "com/acme/A.java", Language: "java", Metadata: parse.Metadata{PackageName: "com.acme"}},
		{Path: "com/acme/B.java", Language: "java", Metadata: parse.Metadata{PackageName: "com.acme"}},
	}
	jctx := NewContext(root, javaFiles, loadKB(t))
	gotJava := jctx.SameUnit(javaFiles[0])
	assert.ElementsMatch(t, []string{"com/acme/A.java", "com/acme/B.java"}, gotJava)
}
