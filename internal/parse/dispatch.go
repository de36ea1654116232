package parse

import "fmt"

// Dispatcher routes a file to the Parser registered for its language —
// a tree-sitter grammar where this module embeds one, a RegexParser
// otherwise (SPEC_FULL.md §4.3/§4 design notes: "regex is the design
// choice, not an accident" for the long tail of languages).
type Dispatcher struct {
	parsers map[string]Parser
}

// NewDispatcher builds a Dispatcher covering every language this module
// knows how to parse.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{parsers: make(map[string]Parser)}
	for lang, p := range NewTreeSitterParsers() {
		d.parsers[lang] = p
	}
	for lang, p := range NewRegexParsers() {
		d.parsers[lang] = p
	}
	return d
}

// Parse dispatches to the registered parser for language. An unknown
// language is a caller error, not a soft failure — the language
// registry should never hand the dispatcher a language it doesn't
// recognize.
func (d *Dispatcher) Parse(path, language string, content []byte) (*ParsedFile, error) {
	p, ok := d.parsers[language]
	if !ok {
		return nil, fmt.Errorf("parse: no parser registered for language %q", language)
	}
	result, err := p.Parse(path, content)
	if err != nil {
		return emptyResult(path, language, content, err.Error()), nil
	}
	return result, nil
}

// SupportedLanguages returns every language the dispatcher can parse.
func (d *Dispatcher) SupportedLanguages() []string {
	langs := make([]string, 0, len(d.parsers))
	for l := range d.parsers {
		langs = append(langs, l)
	}
	return langs
}
