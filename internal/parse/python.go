package parse

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pyExtractor walks a Python module for imports, top-level def/class
// exports, decorators, and the `if __name__ == "__main__"` marker.
type pyExtractor struct{}

func (e *pyExtractor) Extract(root *tree_sitter.Node, source []byte, path string) *ParsedFile {
	pf := &ParsedFile{}
	cursor := root.Walk()
	defer cursor.Close()

	e.walk(cursor, source, pf)
	return pf
}

func (e *pyExtractor) walk(cursor *tree_sitter.TreeCursor, source []byte, pf *ParsedFile) {
	node := cursor.Node()

	switch node.Kind() {
	case "function_definition":
		if isPyTopLevel(node) {
			e.extractDef(node, source, pf, ExportFunction)
		}

	case "class_definition":
		if isPyTopLevel(node) {
			e.extractClass(node, source, pf)
		}

	case "import_statement":
		e.extractImport(node, source, pf)

	case "import_from_statement":
		e.extractFromImport(node, source, pf)

	case "if_statement":
		if isMainGuard(node, source) {
			pf.Metadata.HasMainBlock = true
		}
	}

	if cursor.GotoFirstChild() {
		e.walk(cursor, source, pf)
		for cursor.GotoNextSibling() {
			e.walk(cursor, source, pf)
		}
		cursor.GotoParent()
	}
}

func (e *pyExtractor) extractDef(node *tree_sitter.Node, source []byte, pf *ParsedFile, kind ExportKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	if !isPyExported(name) {
		return
	}
	pf.Exports = append(pf.Exports, ExportRecord{
		Name: name,
		Kind: kind,
		Line: int(node.StartPosition().Row) + 1,
	})
}

func (e *pyExtractor) extractClass(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(source)
	line := int(node.StartPosition().Row) + 1

	decorators := pyLeadingDecorators(node, source)
	pf.Classes = append(pf.Classes, ClassRecord{Name: name, Decorators: decorators, Line: line})

	if isPyExported(name) {
		pf.Exports = append(pf.Exports, ExportRecord{Name: name, Kind: ExportClass, Line: line})
	}
}

// pyLeadingDecorators reads decorator siblings inside a wrapping
// decorated_definition node, if the class/function is decorated.
func pyLeadingDecorators(node *tree_sitter.Node, source []byte) []AnnotationRecord {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}
	var decorators []AnnotationRecord
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child == nil || child.Kind() != "decorator" {
			continue
		}
		text := strings.TrimPrefix(strings.TrimSpace(child.Utf8Text(source)), "@")
		name := text
		if idx := strings.IndexAny(text, "( "); idx >= 0 {
			name = text[:idx]
		}
		decorators = append(decorators, AnnotationRecord{Name: name, Line: int(child.StartPosition().Row) + 1})
	}
	return decorators
}

func (e *pyExtractor) extractImport(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			e.appendImport(child.Utf8Text(source), "", pf, int(node.StartPosition().Row)+1)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode != nil {
				e.appendImport(nameNode.Utf8Text(source), "", pf, int(node.StartPosition().Row)+1)
			}
		}
	}
}

func (e *pyExtractor) extractFromImport(node *tree_sitter.Node, source []byte, pf *ParsedFile) {
	moduleNode := node.ChildByFieldName("module_name")
	line := int(node.StartPosition().Row) + 1
	if moduleNode == nil {
		return
	}

	// A relative_import node's text already carries the leading dots
	// ("..pkg" or just "."); a plain dotted_name carries none.
	full := moduleNode.Utf8Text(source)
	kind := ImportAbsolute
	if moduleNode.Kind() == "relative_import" || strings.HasPrefix(full, ".") {
		kind = ImportRelative
	}

	// from pkg import a, b, c — record one edge per imported name so the
	// resolver can shorten a dotted path when a submodule does not exist.
	names := importedNames(node, moduleNode, source)
	if len(names) == 0 {
		pf.Imports = append(pf.Imports, ImportEdge{Module: full, Kind: kind, Line: line})
		return
	}
	for _, n := range names {
		pf.Imports = append(pf.Imports, ImportEdge{Module: full, Kind: kind, Name: n, Line: line})
	}
}

// importedNames collects the names following "import" in a
// from-import, skipping the module_name node itself.
func importedNames(node, moduleNode *tree_sitter.Node, source []byte) []string {
	var names []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || sameNodeSpan(child, moduleNode) {
			continue
		}
		switch child.Kind() {
		case "wildcard_import":
			names = append(names, "*")
		case "aliased_import":
			if n := child.ChildByFieldName("name"); n != nil {
				names = append(names, n.Utf8Text(source))
			}
		case "dotted_name":
			names = append(names, child.Utf8Text(source))
		}
	}
	return names
}

// sameNodeSpan compares two nodes by source position, since wrapper
// values returned from separate tree walks are not pointer-comparable.
func sameNodeSpan(a, b *tree_sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartPosition() == b.StartPosition() && a.EndPosition() == b.EndPosition()
}

func (e *pyExtractor) appendImport(module, name string, pf *ParsedFile, line int) {
	if module == "" {
		return
	}
	pf.Imports = append(pf.Imports, ImportEdge{Module: module, Kind: ImportAbsolute, Name: name, Line: line})
}

// isMainGuard matches `if __name__ == "__main__":` — any if statement
// whose condition mentions both names, at any nesting depth.
func isMainGuard(node *tree_sitter.Node, source []byte) bool {
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return false
	}
	text := cond.Utf8Text(source)
	return strings.Contains(text, "__name__") && strings.Contains(text, "__main__")
}

func isPyTopLevel(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	if parent.Kind() == "module" {
		return true
	}
	if parent.Kind() == "decorated_definition" {
		grandparent := parent.Parent()
		return grandparent != nil && grandparent.Kind() == "module"
	}
	return false
}

func isPyExported(name string) bool {
	return !strings.HasPrefix(name, "_")
}
