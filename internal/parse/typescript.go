package parse

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsExtractor handles both TypeScript and JavaScript/JSX trees; the
// node kinds it reads are common to the TSX and TypeScript grammars.
type tsExtractor struct{}

func (e *tsExtractor) Extract(root *tree_sitter.Node, source []byte, path string) *ParsedFile {
	pf := &ParsedFile{}
	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, pf)
	return pf
}

func (e *tsExtractor) walk(cursor *tree_sitter.TreeCursor, source []byte, pf *ParsedFile) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_declaration":
		e.extractNamed(node, source, pf, ExportFunction)

	case "class_declaration":
		e.extractClass(node, source, pf)

	case "interface_declaration":
		e.extractNamed(node, source, pf, ExportInterface)

	case "type_alias_declaration":
		e.extractNamed(node, source, pf, ExportType)

	case "enum_declaration":
		e.extractNamed(node, source, pf, ExportEnum)

	case "lexical_declaration":
		e.extractArrowFunctions(node, source, pf)

	case "import_statement":
		e.extractImport(node, source, pf)

	case "export_statement":
		e.extractReExport(node, source, pf)

	case "decorator":
		e.recordDecorator(node, source, pf)
	}

	if cursor.GotoFirstChild() {
		e.walk(cursor, source, pf)
		for cursor.GotoNextSibling() {
			e.walk(cursor, source, pf)
		}
		cursor.GotoParent()
	}
}

func (e *tsExtractor) extractNamed(node *tree_sitter.Node, source []byte, pf *ParsedFile, kind ExportKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || !isTSExported(node) {
		return
	}
	pf.Exports = append(pf.Exports, ExportRecord{
		Name: nameNode.Utf8Text(source),
		Kind: kind,
		Line: int(node.StartPosition().Row) + 1,
	})
}

func (e *tsExtractor) extractClass(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	line := int(node.StartPosition().Row) + 1

	decorators := collectLeadingDecorators(node, source)
	pf.Classes = append(pf.Classes, ClassRecord{Name: name, Decorators: decorators, Line: line})

	if isTSExported(node) {
		pf.Exports = append(pf.Exports, ExportRecord{Name: name, Kind: ExportClass, Line: line})
	}
}

// collectLeadingDecorators looks at sibling decorator nodes directly
// above a class_declaration (the TS grammar attaches them outside the
// class node, inside a wrapping export_statement when exported).
func collectLeadingDecorators(node *tree_sitter.Node, source []byte) []AnnotationRecord {
	var decorators []AnnotationRecord
	parent := node.Parent()
	if parent == nil {
		return decorators
	}
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child == nil || child.Kind() != "decorator" {
			continue
		}
		decorators = append(decorators, decoratorRecord(child, source))
	}
	return decorators
}

func decoratorRecord(node *tree_sitter.Node, source []byte) AnnotationRecord {
	text := strings.TrimPrefix(node.Utf8Text(source), "@")
	name := text
	if idx := strings.IndexAny(text, "( "); idx >= 0 {
		name = text[:idx]
	}
	return AnnotationRecord{Name: name, Line: int(node.StartPosition().Row) + 1}
}

func (e *tsExtractor) recordDecorator(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	pf.Annotations = append(pf.Annotations, decoratorRecord(node, source))
}

func (e *tsExtractor) extractArrowFunctions(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	exported := isTSExported(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}
		valueNode := child.ChildByFieldName("value")
		if valueNode == nil || valueNode.Kind() != "arrow_function" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil || !exported {
			continue
		}
		pf.Exports = append(pf.Exports, ExportRecord{
			Name: nameNode.Utf8Text(source),
			Kind: ExportFunction,
			Line: int(child.StartPosition().Row) + 1,
		})
	}
}

func (e *tsExtractor) extractImport(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil && child.Kind() == "string" {
				sourceNode = child
				break
			}
		}
	}
	if sourceNode == nil {
		return
	}

	importPath := strings.Trim(sourceNode.Utf8Text(source), "\"'`")
	if importPath == "" {
		return
	}

	pf.Imports = append(pf.Imports, ImportEdge{
		Module: importPath,
		Kind:   classifyJSImportKind(importPath),
		Line:   int(node.StartPosition().Row) + 1,
	})
}

// extractReExport handles `export { x } from "./mod"` and
// `export * from "./mod"`, which the walker must follow as re-export
// chains rather than ordinary imports.
func (e *tsExtractor) extractReExport(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	module := strings.Trim(sourceNode.Utf8Text(source), "\"'`")
	if module == "" {
		return
	}
	line := int(node.StartPosition().Row) + 1

	var clause *tree_sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == "export_clause" {
			clause = child
			break
		}
	}
	if clause == nil {
		// export * from "./mod" — a glob-ish whole-module re-export.
		pf.Exports = append(pf.Exports, ExportRecord{Name: "*", Kind: ExportModule, Line: line, SourceModule: module})
		return
	}

	for i := uint(0); i < clause.ChildCount(); i++ {
		spec := clause.Child(i)
		if spec == nil || spec.Kind() != "export_specifier" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		pf.Exports = append(pf.Exports, ExportRecord{
			Name:         nameNode.Utf8Text(source),
			Kind:         ExportConst,
			Line:         line,
			SourceModule: module,
		})
	}
}

func classifyJSImportKind(module string) ImportKind {
	switch {
	case strings.HasPrefix(module, "./"), strings.HasPrefix(module, "../"), module == ".", module == "..":
		return ImportRelative
	case strings.HasPrefix(module, "/"):
		return ImportAbsolute
	default:
		return ImportWorkspace
	}
}

func isTSExported(node *tree_sitter.Node) bool {
	parent := node.Parent()
	return parent != nil && parent.Kind() == "export_statement"
}
