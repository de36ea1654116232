package resolver

import "github.com/dusk-indust/decompose/internal/parse"

// Resolve translates a module reference imported by sourcePath into the
// set of concrete project files it may refer to. Resolution is
// language-dispatched first, then follows the fixed per-language
// strategy list (spec §4.5). An unresolved or external reference
// returns nil — never an error; "cannot resolve" is
// an expected outcome, not a failure (spec §7 "resolver external
// determination is not an error").
func (c *Context) Resolve(lang string, sourcePath string, edge parse.ImportEdge) []string {
	switch lang {
	case "python":
		return c.resolvePython(sourcePath, edge)
	case "java", "kotlin":
		return c.resolveJava(sourcePath, edge)
	case "rust":
		return c.resolveRust(sourcePath, edge)
	case "go":
		return c.resolveGo(edge)
	case "typescript", "javascript":
		return c.resolveJS(sourcePath, edge)
	default:
		return nil
	}
}

// SameUnit returns every file that shares a compilation unit with F
// under the same-package linking rule (§4.7.2): every non-test,
// non-dead-named .go file in F's directory, or every file sharing F's
// Java/Kotlin packageName. F itself is included in the result.
func (c *Context) SameUnit(f *parse.ParsedFile) []string {
	switch f.Language {
	case "go":
		if f.Metadata.IsTestFile {
			return nil
		}
		return c.goFilesByDir[dirOf(f.Path)]
	case "java", "kotlin":
		pkg := f.Metadata.PackageName
		if pkg == "" {
			return nil
		}
		return c.javaPackageDirMap[pkg]
	default:
		return nil
	}
}
