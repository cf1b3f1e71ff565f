package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"dsaviz/interpreter-go/pkg/ast"
)

func parseIdentifier(node *sitter.Node, source []byte) (*ast.Identifier, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: expected identifier")
	}
	switch node.Kind() {
	case "identifier", "property_identifier", "shorthand_property_identifier":
	default:
		return nil, unsupported(node, fmt.Sprintf("binding %s", describeKind(node.Kind())))
	}
	id := ast.ID(sliceContent(node, source))
	annotateSpan(id, node)
	return id, nil
}

func sliceContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !isIgnorableNode(child) {
			return child
		}
	}
	return nil
}

func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !isIgnorableNode(child) {
			out = append(out, child)
		}
	}
	return out
}

// fieldNode returns a named field child, ignoring anonymous tokens that some
// grammar versions attach to the same field.
func fieldNode(node *sitter.Node, name string) *sitter.Node {
	if node == nil {
		return nil
	}
	child := node.ChildByFieldName(name)
	if child == nil || !child.IsNamed() {
		return nil
	}
	return child
}

// hasToken reports whether node has a direct anonymous child with the given
// text, e.g. "async" or "let".
func hasToken(node *sitter.Node, token string) bool {
	if node == nil {
		return false
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

func operatorText(node *sitter.Node) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return op.Kind()
	}
	return ""
}

func unwrapParenthesized(node *sitter.Node) *sitter.Node {
	for node != nil && node.Kind() == "parenthesized_expression" {
		inner := firstNamedChild(node)
		if inner == nil {
			return node
		}
		node = inner
	}
	return node
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "comment", "html_comment":
		return true
	default:
		return false
	}
}

func describeKind(kind string) string {
	return formatExpectedKind(kind)
}
