package parse

import (
	"regexp"
	"strings"
)

// RegexParser extracts imports and exports with line-oriented regular
// expressions instead of a grammar. This is the expected strategy for
// languages this module has no tree-sitter binding for: no parser is
// required to understand semantics, only to find the directives and
// declarations a reachability walk needs.
type RegexParser struct {
	language string
	rules    languageRegexRules
}

// languageRegexRules is one language's extraction recipe: an import
// pattern set and an export pattern set, each with a capture group
// naming the module/symbol, plus optional metadata detectors.
type languageRegexRules struct {
	imports        []importPattern
	exports        []exportPattern
	annotations    *regexp.Regexp // leading decorator/annotation line, e.g. Java "@Foo"
	stripLineComment string
	stripBlockComment [2]string
	packagePattern *regexp.Regexp // Java/Kotlin "package a.b.c;"
	mainPattern    *regexp.Regexp // "public static void main" / "func main"
	springPattern  *regexp.Regexp
}

type importPattern struct {
	re   *regexp.Regexp
	kind ImportKind
}

type exportPattern struct {
	re   *regexp.Regexp
	kind ExportKind
}

// NewRegexParsers returns one RegexParser per regex-extracted language.
func NewRegexParsers() map[string]*RegexParser {
	parsers := make(map[string]*RegexParser, len(regexRuleTable))
	for lang, rules := range regexRuleTable {
		parsers[lang] = &RegexParser{language: lang, rules: rules}
	}
	return parsers
}

func (p *RegexParser) Parse(path string, content []byte) (*ParsedFile, error) {
	pf := &ParsedFile{
		Path:     path,
		Language: p.language,
		Size:     int64(len(content)),
		Lines:    countLines(content),
	}

	text := stripComments(string(content), p.rules)
	lines := strings.Split(text, "\n")

	if p.rules.packagePattern != nil {
		for _, line := range lines {
			if m := p.rules.packagePattern.FindStringSubmatch(line); m != nil {
				pf.Metadata.PackageName = m[1]
				break
			}
		}
	}
	if p.rules.mainPattern != nil && p.rules.mainPattern.MatchString(text) {
		pf.Metadata.HasMainMethod = true
	}
	if p.rules.springPattern != nil && p.rules.springPattern.MatchString(text) {
		pf.Metadata.IsSpringComponent = true
	}

	var pendingAnnotations []AnnotationRecord
	for i, line := range lines {
		lineNo := i + 1

		if p.rules.annotations != nil {
			if m := p.rules.annotations.FindStringSubmatch(line); m != nil {
				pendingAnnotations = append(pendingAnnotations, AnnotationRecord{Name: m[1], Line: lineNo})
				continue
			}
		}

		for _, ip := range p.rules.imports {
			if m := ip.re.FindStringSubmatch(line); m != nil {
				module := m[len(m)-1]
				pf.Imports = append(pf.Imports, ImportEdge{
					Module: module,
					Kind:   ip.kind,
					IsGlob: strings.HasSuffix(module, "*") || strings.HasSuffix(module, "_"),
					Line:   lineNo,
				})
			}
		}

		for _, ep := range p.rules.exports {
			if m := ep.re.FindStringSubmatch(line); m != nil {
				name := m[len(m)-1]
				pf.Exports = append(pf.Exports, ExportRecord{Name: name, Kind: ep.kind, Line: lineNo})
				if len(pendingAnnotations) > 0 {
					pf.Classes = append(pf.Classes, ClassRecord{Name: name, Decorators: pendingAnnotations, Line: lineNo})
					pf.Annotations = append(pf.Annotations, pendingAnnotations...)
				}
				pendingAnnotations = nil
				continue
			}
		}

		if len(line) > 0 && strings.TrimSpace(line) != "" && p.rules.annotations != nil && !p.rules.annotations.MatchString(line) {
			pendingAnnotations = nil
		}
	}

	return pf, nil
}

// stripComments removes line comments and the simplest block-comment
// form before pattern scanning, per the parser contract's note that
// comments must be stripped where false positives are probable.
func stripComments(text string, rules languageRegexRules) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if rules.stripLineComment != "" {
			if idx := strings.Index(line, rules.stripLineComment); idx >= 0 {
				lines[i] = line[:idx]
			}
		}
	}
	text = strings.Join(lines, "\n")

	open, close := rules.stripBlockComment[0], rules.stripBlockComment[1]
	if open == "" || close == "" {
		return text
	}
	var b strings.Builder
	for {
		start := strings.Index(text, open)
		if start < 0 {
			b.WriteString(text)
			break
		}
		end := strings.Index(text[start:], close)
		if end < 0 {
			b.WriteString(text[:start])
			break
		}
		b.WriteString(text[:start])
		b.WriteString(strings.Repeat("\n", strings.Count(text[start:start+end+len(close)], "\n"))) // preserve line numbering
		text = text[start+end+len(close):]
	}
	return b.String()
}
