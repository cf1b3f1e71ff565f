package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"dsaviz/interpreter-go/pkg/ast"
)

// ProgramParser wraps a tree-sitter parser configured for the JavaScript
// grammar. A ProgramParser is not safe for concurrent use.
type ProgramParser struct {
	parser *sitter.Parser
}

// NewProgramParser constructs a parser with the JavaScript language loaded.
func NewProgramParser() (*ProgramParser, error) {
	lang := sitter.NewLanguage(javascript.Language())
	if lang == nil {
		return nil, fmt.Errorf("parser: javascript language not available")
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("parser: %w", err)
	}

	return &ProgramParser{parser: p}, nil
}

// Close releases parser resources.
func (p *ProgramParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
	p.parser = nil
}

// ParseProgram parses source into the canonical AST. Syntax errors and
// constructs outside the supported subset are reported as *ParseError.
func (p *ProgramParser) ParseProgram(source []byte) (*ast.Program, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}

	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: parse returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "program" {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, syntaxError(root)
	}

	body := make([]ast.Statement, 0, root.NamedChildCount())
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		if isIgnorableNode(node) || node.Kind() == "hash_bang_line" {
			continue
		}
		stmt, err := parseStatement(node, source)
		if err != nil {
			return nil, wrapParseError(node, err)
		}
		body = append(body, stmt)
	}

	program := ast.NewProgram(body)
	annotateSpan(program, root)
	return program, nil
}

// Parse is a convenience wrapper that parses source with a short-lived
// parser.
func Parse(source []byte) (*ast.Program, error) {
	p, err := NewProgramParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ParseProgram(source)
}
