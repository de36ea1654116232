package parse

import "regexp"

// regexRuleTable holds one languageRegexRules per language handled by
// RegexParser rather than a tree-sitter grammar.
var regexRuleTable = map[string]languageRegexRules{
	"java": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*import\s+static\s+([\w.]+(?:\.\*)?)\s*;`), ImportStatic},
			{regexp.MustCompile(`^\s*import\s+([\w.]+(?:\.\*)?)\s*;`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*(?:(?:public|protected)\s+)(?:(?:abstract|final|static|sealed)\s+)*class\s+(\w+)`), ExportClass},
			{regexp.MustCompile(`^\s*(?:public\s+)?interface\s+(\w+)`), ExportInterface},
			{regexp.MustCompile(`^\s*(?:public\s+)?enum\s+(\w+)`), ExportEnum},
			{regexp.MustCompile(`^\s*(?:public\s+)?record\s+(\w+)`), ExportType},
		},
		annotations:      regexp.MustCompile(`^\s*@(\w+)`),
		stripLineComment: "//",
		stripBlockComment: [2]string{"/*", "*/"},
		packagePattern: regexp.MustCompile(`^\s*package\s+([\w.]+)\s*;`),
		mainPattern:    regexp.MustCompile(`public\s+static\s+void\s+main\s*\(`),
		springPattern:  regexp.MustCompile(`@(?:Component|Service|Repository|RestController|Controller|Configuration)\b`),
	},
	"kotlin": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*import\s+([\w.]+(?:\.\*)?)`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*(?:public\s+)?(?:open\s+|abstract\s+|sealed\s+|data\s+)*class\s+(\w+)`), ExportClass},
			{regexp.MustCompile(`^\s*(?:public\s+)?interface\s+(\w+)`), ExportInterface},
			{regexp.MustCompile(`^\s*(?:public\s+)?enum\s+class\s+(\w+)`), ExportEnum},
			{regexp.MustCompile(`^\s*(?:public\s+)?object\s+(\w+)`), ExportObject},
			{regexp.MustCompile(`^\s*(?:public\s+)?fun\s+(\w+)\s*\(`), ExportFunction},
		},
		annotations:      regexp.MustCompile(`^\s*@(\w+)`),
		stripLineComment: "//",
		stripBlockComment: [2]string{"/*", "*/"},
		packagePattern: regexp.MustCompile(`^\s*package\s+([\w.]+)`),
		mainPattern:    regexp.MustCompile(`fun\s+main\s*\(`),
		springPattern:  regexp.MustCompile(`@(?:Component|Service|Repository|RestController|Controller|Configuration)\b`),
	},
	"ruby": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*require(?:_relative)?\s+['"]([^'"]+)['"]`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*class\s+(\w+)`), ExportClass},
			{regexp.MustCompile(`^\s*module\s+(\w+)`), ExportModule},
			{regexp.MustCompile(`^\s*def\s+(?:self\.)?(\w+[?!]?)`), ExportFunction},
		},
		stripLineComment: "#",
	},
	"php": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*use\s+([\w\\]+)\s*;`), ImportAbsolute},
			{regexp.MustCompile(`^\s*require(?:_once)?\s*\(?['"]([^'"]+)['"]`), ImportRelative},
			{regexp.MustCompile(`^\s*include(?:_once)?\s*\(?['"]([^'"]+)['"]`), ImportInclude},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*(?:abstract\s+|final\s+)?class\s+(\w+)`), ExportClass},
			{regexp.MustCompile(`^\s*interface\s+(\w+)`), ExportInterface},
			{regexp.MustCompile(`^\s*trait\s+(\w+)`), ExportTrait},
			{regexp.MustCompile(`^\s*function\s+(\w+)\s*\(`), ExportFunction},
		},
		stripLineComment: "//",
		stripBlockComment: [2]string{"/*", "*/"},
		mainPattern: regexp.MustCompile(`^<\?php`),
	},
	"swift": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*import\s+(\w+)`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*(?:public|open)\s+(?:final\s+)?class\s+(\w+)`), ExportClass},
			{regexp.MustCompile(`^\s*(?:public|open)\s+struct\s+(\w+)`), ExportStruct},
			{regexp.MustCompile(`^\s*(?:public|open)\s+protocol\s+(\w+)`), ExportInterface},
			{regexp.MustCompile(`^\s*(?:public|open)\s+enum\s+(\w+)`), ExportEnum},
			{regexp.MustCompile(`^\s*(?:public|open)\s+func\s+(\w+)\s*\(`), ExportFunction},
			{regexp.MustCompile(`^\s*(?:public|open)\s+extension\s+(\w+)`), ExportType},
		},
		annotations:      regexp.MustCompile(`^\s*@(\w+)`),
		stripLineComment: "//",
		stripBlockComment: [2]string{"/*", "*/"},
		mainPattern: regexp.MustCompile(`@main\b|^\s*@UIApplicationMain\b`),
	},
	"scala": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*import\s+([\w.{}, ]+)`), ImportAbsolute},
		},
		exports: []exportPattern{
			// Scala visibility: exported unless explicitly marked private.
			{regexp.MustCompile(`^\s*(?:case\s+)?class\s+(\w+)(?:[^=]*)?$`), ExportClass},
			{regexp.MustCompile(`^\s*trait\s+(\w+)`), ExportTrait},
			{regexp.MustCompile(`^\s*object\s+(\w+)`), ExportObject},
			{regexp.MustCompile(`^\s*def\s+(\w+)\s*[(\[]`), ExportFunction},
			{regexp.MustCompile(`^\s*given\s+(\w+)`), ExportType},
		},
		annotations:      regexp.MustCompile(`^\s*@(\w+)`),
		stripLineComment: "//",
		stripBlockComment: [2]string{"/*", "*/"},
		packagePattern: regexp.MustCompile(`^\s*package\s+([\w.]+)`),
		mainPattern:    regexp.MustCompile(`def\s+main\s*\(\s*args`),
	},
	"elixir": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*import\s+([\w.]+)`), ImportAbsolute},
			{regexp.MustCompile(`^\s*alias\s+([\w.]+)`), ImportAlias},
			{regexp.MustCompile(`^\s*use\s+([\w.]+)`), ImportUseMacro},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*defmodule\s+([\w.]+)`), ExportModule},
			{regexp.MustCompile(`^\s*def\s+(\w+[?!]?)\s*[(\s]`), ExportFunction},
		},
		stripLineComment: "#",
	},
	"erlang": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*-import\(([\w]+)`), ImportAbsolute},
			{regexp.MustCompile(`^\s*-include\("([^"]+)"\)`), ImportInclude},
			{regexp.MustCompile(`^\s*-include_lib\("([^"]+)"\)`), ImportInclude},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*-export\(\[([^\]]+)\]\)`), ExportFunction},
		},
		stripLineComment: "%",
	},
	"ocaml": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*open\s+(\w+)`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*let\s+(?:rec\s+)?(\w+)\s*[=\s]`), ExportFunction},
			{regexp.MustCompile(`^\s*module\s+(\w+)`), ExportModule},
			{regexp.MustCompile(`^\s*type\s+(\w+)`), ExportType},
		},
		stripLineComment: "",
	},
	"fsharp": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*open\s+([\w.]+)`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*let\s+(?:rec\s+)?(\w+)\s*[=\s(]`), ExportFunction},
			{regexp.MustCompile(`^\s*module\s+([\w.]+)`), ExportModule},
			{regexp.MustCompile(`^\s*type\s+(\w+)`), ExportType},
		},
		stripLineComment: "//",
	},
	"perl": {
		imports: []importPattern{
			{regexp.MustCompile(`^\s*use\s+([\w:]+)`), ImportAbsolute},
			{regexp.MustCompile(`^\s*require\s+([\w:]+)`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*sub\s+(\w+)\s*[({]`), ExportFunction},
			{regexp.MustCompile(`^\s*package\s+([\w:]+)`), ExportModule},
		},
		stripLineComment: "#",
	},
	"zig": {
		imports: []importPattern{
			{regexp.MustCompile(`@import\("([^"]+)"\)`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`^\s*pub\s+fn\s+(\w+)\s*\(`), ExportFunction},
			{regexp.MustCompile(`^\s*pub\s+const\s+(\w+)\s*=\s*struct`), ExportStruct},
			{regexp.MustCompile(`^\s*pub\s+const\s+(\w+)`), ExportConst},
		},
		stripLineComment: "//",
		mainPattern:      regexp.MustCompile(`pub\s+fn\s+main\s*\(`),
	},
	"vbnet": {
		imports: []importPattern{
			{regexp.MustCompile(`(?i)^\s*Imports\s+([\w.]+)`), ImportAbsolute},
		},
		exports: []exportPattern{
			{regexp.MustCompile(`(?i)^\s*Public\s+Class\s+(\w+)`), ExportClass},
			{regexp.MustCompile(`(?i)^\s*Public\s+Interface\s+(\w+)`), ExportInterface},
			{regexp.MustCompile(`(?i)^\s*Public\s+Module\s+(\w+)`), ExportModule},
			{regexp.MustCompile(`(?i)^\s*Public\s+(?:Shared\s+)?(?:Function|Sub)\s+(\w+)`), ExportFunction},
		},
		stripLineComment: "'",
		mainPattern:      regexp.MustCompile(`(?i)Sub\s+Main\s*\(`),
	},
}
