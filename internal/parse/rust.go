package parse

import (
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// rsExtractor walks a Rust source tree for `use` imports, `mod`
// declarations (each one is itself an ImportEdge the resolver follows
// as a module-tree reference), and pub items.
type rsExtractor struct{}

func (e *rsExtractor) Extract(root *tree_sitter.Node, source []byte, path string) *ParsedFile {
	pf := &ParsedFile{}
	base := strings.ToLower(filepath.Base(path))
	pf.Metadata.IsModRoot = base == "mod.rs" || base == "lib.rs" || base == "main.rs"

	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, pf)
	return pf
}

func (e *rsExtractor) walk(cursor *tree_sitter.TreeCursor, source []byte, pf *ParsedFile) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_item":
		e.extractNamed(node, source, pf, ExportFunction)

	case "struct_item":
		e.extractStruct(node, source, pf)

	case "enum_item":
		e.extractNamed(node, source, pf, ExportEnum)

	case "trait_item":
		e.extractNamed(node, source, pf, ExportTrait)

	case "type_item":
		e.extractNamed(node, source, pf, ExportType)

	case "mod_item":
		e.extractMod(node, source, pf)

	case "use_declaration":
		e.extractUse(node, source, pf)
	}

	if cursor.GotoFirstChild() {
		e.walk(cursor, source, pf)
		for cursor.GotoNextSibling() {
			e.walk(cursor, source, pf)
		}
		cursor.GotoParent()
	}
}

func (e *rsExtractor) extractNamed(node *tree_sitter.Node, source []byte, pf *ParsedFile, kind ExportKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || !isRustPub(node) {
		return
	}
	pf.Exports = append(pf.Exports, ExportRecord{
		Name: nameNode.Utf8Text(source),
		Kind: kind,
		Line: int(node.StartPosition().Row) + 1,
	})
}

func (e *rsExtractor) extractStruct(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	line := int(node.StartPosition().Row) + 1
	pf.Classes = append(pf.Classes, ClassRecord{Name: name, Line: line})
	if isRustPub(node) {
		pf.Exports = append(pf.Exports, ExportRecord{Name: name, Kind: ExportStruct, Line: line})
	}
}

// extractMod records `mod foo;` as an import edge so the resolver's
// Rust module-tree strategy can locate the sibling or nested file —
// `mod foo { ... }` inline bodies have no file reference and are
// skipped.
func (e *rsExtractor) extractMod(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	if node.ChildByFieldName("body") != nil {
		return
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	pf.Imports = append(pf.Imports, ImportEdge{
		Module: nameNode.Utf8Text(source),
		Kind:   ImportUseMacro,
		Line:   int(node.StartPosition().Row) + 1,
	})
}

func (e *rsExtractor) extractUse(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	argNode := node.ChildByFieldName("argument")
	line := int(node.StartPosition().Row) + 1

	var importPath string
	if argNode != nil {
		importPath = argNode.Utf8Text(source)
	} else {
		importPath = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(node.Utf8Text(source)), "use "), ";")
	}
	if importPath == "" {
		return
	}

	kind := ImportUseMacro
	switch {
	case strings.HasPrefix(importPath, "crate::"), strings.HasPrefix(importPath, "self::"), strings.HasPrefix(importPath, "super::"):
		kind = ImportRelative
	}

	pf.Imports = append(pf.Imports, ImportEdge{
		Module: importPath,
		Kind:   kind,
		IsGlob: strings.HasSuffix(importPath, "::*"),
		Line:   line,
	})
}

func isRustPub(node *tree_sitter.Node) bool {
	if node.ChildCount() == 0 {
		return false
	}
	first := node.Child(0)
	return first != nil && first.Kind() == "visibility_modifier"
}
