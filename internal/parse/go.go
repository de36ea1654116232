package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// goExtractor walks a Go source tree for imports, top-level exported
// symbols, and the package/main/init/test facts the walker needs.
type goExtractor struct{}

func (e *goExtractor) Extract(root *tree_sitter.Node, source []byte, path string) *ParsedFile {
	pf := &ParsedFile{}
	pf.Metadata.IsTestFile = strings.HasSuffix(path, "_test.go")

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, pf)
	return pf
}

func (e *goExtractor) walk(cursor *tree_sitter.TreeCursor, source []byte, pf *ParsedFile) {
	node := cursor.Node()

	switch node.Kind() {
	case "package_clause":
		id := node.ChildByFieldName("name")
		for i := uint(0); id == nil && i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil && child.Kind() == "package_identifier" {
				id = child
			}
		}
		if id != nil {
			pf.Metadata.PackageName = id.Utf8Text(source)
			pf.Metadata.IsMainPackage = pf.Metadata.PackageName == "main"
		}

	case "function_declaration":
		e.extractFunction(node, source, pf)

	case "method_declaration":
		e.extractMethod(node, source, pf)

	case "type_declaration":
		e.extractTypeDeclaration(node, source, pf)

	case "import_spec":
		e.extractImport(node, source, pf)
	}

	if cursor.GotoFirstChild() {
		e.walk(cursor, source, pf)
		for cursor.GotoNextSibling() {
			e.walk(cursor, source, pf)
		}
		cursor.GotoParent()
	}
}

func (e *goExtractor) extractFunction(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	line := int(node.StartPosition().Row) + 1

	switch name {
	case "main":
		pf.Metadata.HasMainFunction = true
	case "init":
		pf.Metadata.HasInitFunction = true
	}

	if isGoExported(name) {
		pf.Exports = append(pf.Exports, ExportRecord{Name: name, Kind: ExportFunction, Line: line})
	}
}

func (e *goExtractor) extractMethod(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	if isGoExported(name) {
		pf.Exports = append(pf.Exports, ExportRecord{
			Name: name,
			Kind: ExportFunction,
			Line: int(node.StartPosition().Row) + 1,
		})
	}
}

func (e *goExtractor) extractTypeDeclaration(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "type_spec" {
			continue
		}
		e.extractTypeSpec(child, source, pf)
	}
}

func (e *goExtractor) extractTypeSpec(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	if !isGoExported(name) {
		return
	}

	kind := ExportType
	var decorators []AnnotationRecord
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		switch typeNode.Kind() {
		case "interface_type":
			kind = ExportInterface
		case "struct_type":
			kind = ExportStruct
		}
	}

	line := int(node.StartPosition().Row) + 1
	pf.Exports = append(pf.Exports, ExportRecord{Name: name, Kind: kind, Line: line})
	if kind == ExportStruct {
		pf.Classes = append(pf.Classes, ClassRecord{Name: name, Decorators: decorators, Line: line})
	}
}

func (e *goExtractor) extractImport(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	pathNode := node.ChildByFieldName("path")
	if pathNode == nil {
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil && child.Kind() == "interpreted_string_literal" {
				pathNode = child
				break
			}
		}
	}
	if pathNode == nil {
		return
	}

	importPath := strings.Trim(pathNode.Utf8Text(source), "\"")
	if importPath == "" {
		return
	}

	pf.Imports = append(pf.Imports, ImportEdge{
		Module: importPath,
		Kind:   ImportAbsolute,
		Line:   int(node.StartPosition().Row) + 1,
	})
}

func isGoExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
