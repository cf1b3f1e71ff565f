package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"dsaviz/interpreter-go/pkg/ast"
)

var logicalOperators = map[string]bool{"&&": true, "||": true, "??": true}

// parseExpressionList parses an expression that may be a comma sequence.
func parseExpressionList(node *sitter.Node, source []byte) (ast.Expression, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: missing expression")
	}
	if node.Kind() != "sequence_expression" {
		return parseExpression(node, source)
	}
	var parts []ast.Expression
	if err := flattenSequence(node, source, &parts); err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewSequenceExpression(parts), node), nil
}

func flattenSequence(node *sitter.Node, source []byte, out *[]ast.Expression) error {
	for _, child := range namedChildren(node) {
		if child.Kind() == "sequence_expression" {
			if err := flattenSequence(child, source, out); err != nil {
				return err
			}
			continue
		}
		expr, err := parseExpression(child, source)
		if err != nil {
			return err
		}
		*out = append(*out, expr)
	}
	return nil
}

func parseExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: missing expression")
	}

	switch node.Kind() {
	case "identifier":
		return parseIdentifier(node, source)
	case "undefined":
		return annotateExpression(ast.ID("undefined"), node), nil
	case "number":
		return parseNumberLiteral(node, source)
	case "string":
		return parseStringLiteral(node, source)
	case "template_string":
		return parseTemplateString(node, source)
	case "true":
		return annotateExpression(ast.Bool(true), node), nil
	case "false":
		return annotateExpression(ast.Bool(false), node), nil
	case "null":
		return annotateExpression(ast.Null(), node), nil
	case "array":
		return parseArrayLiteral(node, source)
	case "parenthesized_expression":
		return parseExpressionList(firstNamedChild(node), source)
	case "sequence_expression":
		return parseExpressionList(node, source)
	case "member_expression":
		return parseMemberExpression(node, source)
	case "subscript_expression":
		return parseSubscriptExpression(node, source)
	case "call_expression":
		return parseCallExpression(node, source)
	case "new_expression":
		return parseNewExpression(node, source)
	case "assignment_expression":
		return parseAssignment(node, source, "=")
	case "augmented_assignment_expression":
		return parseAssignment(node, source, operatorText(node))
	case "update_expression":
		return parseUpdateExpression(node, source)
	case "binary_expression":
		return parseBinaryExpression(node, source)
	case "unary_expression":
		arg, err := parseExpression(fieldNode(node, "argument"), source)
		if err != nil {
			return nil, err
		}
		return annotateExpression(ast.NewUnaryExpression(operatorText(node), arg), node), nil
	case "ternary_expression":
		test, err := parseExpression(fieldNode(node, "condition"), source)
		if err != nil {
			return nil, err
		}
		consequent, err := parseExpression(fieldNode(node, "consequence"), source)
		if err != nil {
			return nil, err
		}
		alternate, err := parseExpression(fieldNode(node, "alternative"), source)
		if err != nil {
			return nil, err
		}
		return annotateExpression(ast.NewConditionalExpression(test, consequent, alternate), node), nil
	case "arrow_function":
		return parseArrowFunction(node, source)
	case "function_expression", "function":
		return parseFunctionExpression(node, source)
	case "object":
		return nil, unsupported(node, "object literal")
	case "regex":
		return nil, unsupported(node, "regular expression")
	case "this":
		return nil, unsupported(node, "this")
	case "spread_element":
		return nil, unsupported(node, "spread element")
	case "await_expression", "yield_expression":
		return nil, unsupported(node, describeKind(node.Kind()))
	case "class":
		return nil, unsupported(node, "class expression")
	default:
		return nil, unsupported(node, fmt.Sprintf("expression %s", describeKind(node.Kind())))
	}
}

func parseMemberExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	if fieldNode(node, "optional_chain") != nil || hasToken(node, "?.") {
		return nil, unsupported(node, "optional chaining")
	}
	object, err := parseExpression(fieldNode(node, "object"), source)
	if err != nil {
		return nil, err
	}
	propNode := fieldNode(node, "property")
	if propNode == nil || propNode.Kind() == "private_property_identifier" {
		return nil, unsupported(node, "member property")
	}
	prop := ast.ID(sliceContent(propNode, source))
	annotateSpan(prop, propNode)
	return annotateExpression(ast.NewMemberExpression(object, prop, false), node), nil
}

func parseSubscriptExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	if fieldNode(node, "optional_chain") != nil || hasToken(node, "?.") {
		return nil, unsupported(node, "optional chaining")
	}
	object, err := parseExpression(fieldNode(node, "object"), source)
	if err != nil {
		return nil, err
	}
	index, err := parseExpressionList(fieldNode(node, "index"), source)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewMemberExpression(object, index, true), node), nil
}

func parseArguments(node *sitter.Node, source []byte) ([]ast.Expression, error) {
	if node == nil {
		return nil, nil
	}
	if node.Kind() != "arguments" {
		return nil, unsupported(node, "tagged template")
	}
	children := namedChildren(node)
	args := make([]ast.Expression, 0, len(children))
	for _, child := range children {
		arg, err := parseExpression(child, source)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func parseCallExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	if fieldNode(node, "optional_chain") != nil || hasToken(node, "?.") {
		return nil, unsupported(node, "optional call")
	}
	calleeNode := fieldNode(node, "function")
	if calleeNode != nil && (calleeNode.Kind() == "import" || calleeNode.Kind() == "super") {
		return nil, unsupported(calleeNode, calleeNode.Kind())
	}
	callee, err := parseExpression(calleeNode, source)
	if err != nil {
		return nil, err
	}
	args, err := parseArguments(fieldNode(node, "arguments"), source)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewCallExpression(callee, args), node), nil
}

func parseNewExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	callee, err := parseExpression(fieldNode(node, "constructor"), source)
	if err != nil {
		return nil, err
	}
	args, err := parseArguments(fieldNode(node, "arguments"), source)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewNewExpression(callee, args), node), nil
}

func parseAssignment(node *sitter.Node, source []byte, operator string) (ast.Expression, error) {
	if operator == "" {
		return nil, fmt.Errorf("parser: assignment missing operator")
	}
	leftNode := unwrapParenthesized(fieldNode(node, "left"))
	if leftNode == nil {
		return nil, fmt.Errorf("parser: assignment missing target")
	}
	switch leftNode.Kind() {
	case "identifier", "member_expression", "subscript_expression":
	case "undefined":
		return nil, unsupported(leftNode, "assignment to undefined")
	default:
		return nil, unsupported(leftNode, "destructuring assignment")
	}
	left, err := parseExpression(leftNode, source)
	if err != nil {
		return nil, err
	}
	right, err := parseExpression(fieldNode(node, "right"), source)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewAssignmentExpression(operator, left, right), node), nil
}

func parseUpdateExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	arg, err := parseExpression(fieldNode(node, "argument"), source)
	if err != nil {
		return nil, err
	}
	switch arg.(type) {
	case *ast.Identifier, *ast.MemberExpression:
	default:
		return nil, unsupported(node, "update of non-reference")
	}
	prefix := false
	if first := node.Child(0); first != nil && !first.IsNamed() {
		prefix = first.Kind() == "++" || first.Kind() == "--"
	}
	return annotateExpression(ast.NewUpdateExpression(operatorText(node), prefix, arg), node), nil
}

func parseBinaryExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	left, err := parseExpression(fieldNode(node, "left"), source)
	if err != nil {
		return nil, err
	}
	right, err := parseExpression(fieldNode(node, "right"), source)
	if err != nil {
		return nil, err
	}
	op := operatorText(node)
	if op == "" {
		return nil, fmt.Errorf("parser: binary expression missing operator")
	}
	if logicalOperators[op] {
		return annotateExpression(ast.NewLogicalExpression(op, left, right), node), nil
	}
	return annotateExpression(ast.NewBinaryExpression(op, left, right), node), nil
}

func parseArrowFunction(node *sitter.Node, source []byte) (ast.Expression, error) {
	if hasToken(node, "async") {
		return nil, unsupported(node, "async arrow function")
	}
	var params []*ast.Parameter
	if single := fieldNode(node, "parameter"); single != nil {
		id, err := parseIdentifier(single, source)
		if err != nil {
			return nil, err
		}
		params = []*ast.Parameter{ast.NewParameter(id, nil)}
	} else {
		parsed, err := parseParameters(fieldNode(node, "parameters"), source)
		if err != nil {
			return nil, err
		}
		params = parsed
	}

	bodyNode := fieldNode(node, "body")
	if bodyNode != nil && bodyNode.Kind() == "statement_block" {
		body, err := parseBlock(bodyNode, source)
		if err != nil {
			return nil, err
		}
		return annotateExpression(ast.NewFunctionExpression(nil, params, body, true), node), nil
	}
	body, err := parseExpressionList(bodyNode, source)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewArrowExpression(params, body), node), nil
}

func parseFunctionExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	if hasToken(node, "async") {
		return nil, unsupported(node, "async function")
	}
	var id *ast.Identifier
	if nameNode := fieldNode(node, "name"); nameNode != nil {
		parsed, err := parseIdentifier(nameNode, source)
		if err != nil {
			return nil, err
		}
		id = parsed
	}
	params, err := parseParameters(fieldNode(node, "parameters"), source)
	if err != nil {
		return nil, err
	}
	body, err := parseBlock(fieldNode(node, "body"), source)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewFunctionExpression(id, params, body, false), node), nil
}
