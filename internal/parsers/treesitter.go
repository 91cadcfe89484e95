package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// walkTree visits node and its children depth-first. The visitor returns
// false to skip a subtree.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// nodeText returns the source text a node spans.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// fieldText returns the text of a named field child.
func fieldText(node *sitter.Node, field string, source []byte) string {
	return nodeText(node.ChildByFieldName(field), source)
}

// nodeLine returns the 1-indexed start line of a node.
func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// nearestAncestor returns the closest ancestor of the given kind.
func nearestAncestor(node *sitter.Node, kind string) *sitter.Node {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Kind() == kind {
			return cur
		}
	}
	return nil
}
