package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"dsaviz/interpreter-go/pkg/ast"
)

func parseStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: nil statement")
	}

	switch node.Kind() {
	case "lexical_declaration", "variable_declaration":
		decl, err := parseVariableDeclaration(node, source)
		if err != nil {
			return nil, err
		}
		return decl, nil
	case "expression_statement":
		expr, err := parseExpressionList(firstNamedChild(node), source)
		if err != nil {
			return nil, err
		}
		return annotateStatement(ast.NewExpressionStatement(expr), node), nil
	case "statement_block":
		return parseBlock(node, source)
	case "if_statement":
		return parseIfStatement(node, source)
	case "while_statement":
		test, err := parseExpressionList(unwrapParenthesized(fieldNode(node, "condition")), source)
		if err != nil {
			return nil, err
		}
		body, err := parseStatement(fieldNode(node, "body"), source)
		if err != nil {
			return nil, err
		}
		return annotateStatement(ast.NewWhileStatement(test, body), node), nil
	case "do_statement":
		body, err := parseStatement(fieldNode(node, "body"), source)
		if err != nil {
			return nil, err
		}
		test, err := parseExpressionList(unwrapParenthesized(fieldNode(node, "condition")), source)
		if err != nil {
			return nil, err
		}
		return annotateStatement(ast.NewDoWhileStatement(body, test), node), nil
	case "for_statement":
		return parseForStatement(node, source)
	case "for_in_statement":
		return parseForInStatement(node, source)
	case "break_statement":
		if fieldNode(node, "label") != nil {
			return nil, unsupported(node, "labeled break")
		}
		return annotateStatement(ast.NewBreakStatement(), node), nil
	case "continue_statement":
		if fieldNode(node, "label") != nil {
			return nil, unsupported(node, "labeled continue")
		}
		return annotateStatement(ast.NewContinueStatement(), node), nil
	case "return_statement":
		var arg ast.Expression
		if child := firstNamedChild(node); child != nil {
			expr, err := parseExpressionList(child, source)
			if err != nil {
				return nil, err
			}
			arg = expr
		}
		return annotateStatement(ast.NewReturnStatement(arg), node), nil
	case "throw_statement":
		arg, err := parseExpressionList(firstNamedChild(node), source)
		if err != nil {
			return nil, err
		}
		return annotateStatement(ast.NewThrowStatement(arg), node), nil
	case "try_statement":
		return parseTryStatement(node, source)
	case "function_declaration":
		return parseFunctionDeclaration(node, source)
	case "empty_statement":
		return annotateStatement(ast.NewEmptyStatement(), node), nil
	case "generator_function_declaration":
		return nil, unsupported(node, "generator function")
	case "class_declaration":
		return nil, unsupported(node, "class declaration")
	case "switch_statement":
		return nil, unsupported(node, "switch statement")
	case "labeled_statement":
		return nil, unsupported(node, "labeled statement")
	case "import_statement", "export_statement":
		return nil, unsupported(node, "module syntax")
	default:
		return nil, unsupported(node, fmt.Sprintf("statement %s", describeKind(node.Kind())))
	}
}

func parseVariableDeclaration(node *sitter.Node, source []byte) (*ast.VariableDeclaration, error) {
	kind := ast.DeclarationVar
	switch {
	case hasToken(node, "let"):
		kind = ast.DeclarationLet
	case hasToken(node, "const"):
		kind = ast.DeclarationConst
	}

	var decls []*ast.VariableDeclarator
	for _, child := range namedChildren(node) {
		if child.Kind() != "variable_declarator" {
			continue
		}
		nameNode := fieldNode(child, "name")
		id, err := parseIdentifier(nameNode, source)
		if err != nil {
			return nil, err
		}
		var init ast.Expression
		if valueNode := fieldNode(child, "value"); valueNode != nil {
			init, err = parseExpression(valueNode, source)
			if err != nil {
				return nil, err
			}
		}
		decl := ast.NewVariableDeclarator(id, init)
		annotateSpan(decl, child)
		decls = append(decls, decl)
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("parser: declaration without declarators")
	}

	decl := ast.NewVariableDeclaration(kind, decls)
	annotateSpan(decl, node)
	return decl, nil
}

func parseBlock(node *sitter.Node, source []byte) (*ast.BlockStatement, error) {
	if node == nil || node.Kind() != "statement_block" {
		return nil, fmt.Errorf("parser: expected block")
	}
	children := namedChildren(node)
	body := make([]ast.Statement, 0, len(children))
	for _, child := range children {
		stmt, err := parseStatement(child, source)
		if err != nil {
			return nil, wrapParseError(child, err)
		}
		body = append(body, stmt)
	}
	block := ast.NewBlockStatement(body)
	annotateSpan(block, node)
	return block, nil
}

func parseIfStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	test, err := parseExpressionList(unwrapParenthesized(fieldNode(node, "condition")), source)
	if err != nil {
		return nil, err
	}
	consequent, err := parseStatement(fieldNode(node, "consequence"), source)
	if err != nil {
		return nil, err
	}
	var alternate ast.Statement
	if elseNode := fieldNode(node, "alternative"); elseNode != nil {
		target := elseNode
		if elseNode.Kind() == "else_clause" {
			target = firstNamedChild(elseNode)
		}
		alternate, err = parseStatement(target, source)
		if err != nil {
			return nil, err
		}
	}
	return annotateStatement(ast.NewIfStatement(test, consequent, alternate), node), nil
}

func parseForStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	var init ast.Statement
	if initNode := fieldNode(node, "initializer"); initNode != nil {
		switch initNode.Kind() {
		case "lexical_declaration", "variable_declaration":
			decl, err := parseVariableDeclaration(initNode, source)
			if err != nil {
				return nil, err
			}
			init = decl
		case "empty_statement":
		case "expression_statement":
			expr, err := parseExpressionList(firstNamedChild(initNode), source)
			if err != nil {
				return nil, err
			}
			init = annotateStatement(ast.NewExpressionStatement(expr), initNode)
		default:
			expr, err := parseExpressionList(initNode, source)
			if err != nil {
				return nil, err
			}
			init = annotateStatement(ast.NewExpressionStatement(expr), initNode)
		}
	}

	var test ast.Expression
	if condNode := fieldNode(node, "condition"); condNode != nil {
		switch condNode.Kind() {
		case "empty_statement":
		case "expression_statement":
			expr, err := parseExpressionList(firstNamedChild(condNode), source)
			if err != nil {
				return nil, err
			}
			test = expr
		default:
			expr, err := parseExpressionList(condNode, source)
			if err != nil {
				return nil, err
			}
			test = expr
		}
	}

	var update ast.Expression
	if incNode := fieldNode(node, "increment"); incNode != nil {
		expr, err := parseExpressionList(incNode, source)
		if err != nil {
			return nil, err
		}
		update = expr
	}

	body, err := parseStatement(fieldNode(node, "body"), source)
	if err != nil {
		return nil, err
	}
	return annotateStatement(ast.NewForStatement(init, test, update, body), node), nil
}

func parseForInStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	if hasToken(node, "await") {
		return nil, unsupported(node, "for await")
	}
	var kind ast.DeclarationKind
	switch {
	case hasToken(node, "let"):
		kind = ast.DeclarationLet
	case hasToken(node, "const"):
		kind = ast.DeclarationConst
	case hasToken(node, "var"):
		kind = ast.DeclarationVar
	}

	operator := "of"
	if hasToken(node, "in") {
		operator = "in"
	}

	left, err := parseIdentifier(unwrapParenthesized(fieldNode(node, "left")), source)
	if err != nil {
		return nil, err
	}
	right, err := parseExpressionList(fieldNode(node, "right"), source)
	if err != nil {
		return nil, err
	}
	body, err := parseStatement(fieldNode(node, "body"), source)
	if err != nil {
		return nil, err
	}
	return annotateStatement(ast.NewForOfStatement(kind, left, operator, right, body), node), nil
}

func parseTryStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	block, err := parseBlock(fieldNode(node, "body"), source)
	if err != nil {
		return nil, err
	}

	var (
		param   *ast.Identifier
		handler *ast.BlockStatement
	)
	if catchNode := fieldNode(node, "handler"); catchNode != nil {
		if paramNode := fieldNode(catchNode, "parameter"); paramNode != nil {
			param, err = parseIdentifier(paramNode, source)
			if err != nil {
				return nil, err
			}
		}
		handler, err = parseBlock(fieldNode(catchNode, "body"), source)
		if err != nil {
			return nil, err
		}
	}

	var finalizer *ast.BlockStatement
	if finallyNode := fieldNode(node, "finalizer"); finallyNode != nil {
		finalizer, err = parseBlock(fieldNode(finallyNode, "body"), source)
		if err != nil {
			return nil, err
		}
	}

	if handler == nil && finalizer == nil {
		return nil, fmt.Errorf("parser: try without catch or finally")
	}
	return annotateStatement(ast.NewTryStatement(block, param, handler, finalizer), node), nil
}

func parseFunctionDeclaration(node *sitter.Node, source []byte) (ast.Statement, error) {
	if hasToken(node, "async") {
		return nil, unsupported(node, "async function")
	}
	id, err := parseIdentifier(fieldNode(node, "name"), source)
	if err != nil {
		return nil, err
	}
	params, err := parseParameters(fieldNode(node, "parameters"), source)
	if err != nil {
		return nil, err
	}
	body, err := parseBlock(fieldNode(node, "body"), source)
	if err != nil {
		return nil, err
	}
	return annotateStatement(ast.NewFunctionDeclaration(id, params, body), node), nil
}

func parseParameters(node *sitter.Node, source []byte) ([]*ast.Parameter, error) {
	if node == nil {
		return nil, nil
	}
	var params []*ast.Parameter
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "identifier":
			id, err := parseIdentifier(child, source)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.NewParameter(id, nil))
		case "assignment_pattern":
			id, err := parseIdentifier(fieldNode(child, "left"), source)
			if err != nil {
				return nil, err
			}
			def, err := parseExpression(fieldNode(child, "right"), source)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.NewParameter(id, def))
		case "rest_pattern":
			return nil, unsupported(child, "rest parameter")
		default:
			return nil, unsupported(child, fmt.Sprintf("parameter %s", describeKind(child.Kind())))
		}
	}
	return params, nil
}
