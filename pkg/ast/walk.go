package ast

// Rewriter drives Rewrite. Enter runs before a node's children; returning
// false leaves the node and its whole subtree untouched. Leave runs after the
// children have been rewritten and returns the node that takes its place.
type Rewriter interface {
	Enter(node Node) bool
	Leave(node Node) Node
}

// Rewrite walks node depth-first, replacing children in place with whatever
// the rewriter's Leave returns. A replacement of the wrong category (for
// example a statement where an expression is required) is ignored.
func Rewrite(node Node, r Rewriter) Node {
	if node == nil || r == nil {
		return node
	}
	if !r.Enter(node) {
		return node
	}
	switch n := node.(type) {
	case *Program:
		n.Body = rewriteStatements(n.Body, r)
	case *VariableDeclaration:
		for _, decl := range n.Declarations {
			if decl != nil {
				Rewrite(decl, r)
			}
		}
	case *VariableDeclarator:
		n.Init = rewriteExpression(n.Init, r)
	case *ExpressionStatement:
		n.Expression = rewriteExpression(n.Expression, r)
	case *BlockStatement:
		n.Body = rewriteStatements(n.Body, r)
	case *IfStatement:
		n.Test = rewriteExpression(n.Test, r)
		n.Consequent = rewriteStatement(n.Consequent, r)
		n.Alternate = rewriteStatement(n.Alternate, r)
	case *WhileStatement:
		n.Test = rewriteExpression(n.Test, r)
		n.Body = rewriteStatement(n.Body, r)
	case *DoWhileStatement:
		n.Body = rewriteStatement(n.Body, r)
		n.Test = rewriteExpression(n.Test, r)
	case *ForStatement:
		n.Init = rewriteStatement(n.Init, r)
		n.Test = rewriteExpression(n.Test, r)
		n.Update = rewriteExpression(n.Update, r)
		n.Body = rewriteStatement(n.Body, r)
	case *ForOfStatement:
		n.Right = rewriteExpression(n.Right, r)
		n.Body = rewriteStatement(n.Body, r)
	case *ReturnStatement:
		n.Argument = rewriteExpression(n.Argument, r)
	case *ThrowStatement:
		n.Argument = rewriteExpression(n.Argument, r)
	case *TryStatement:
		n.Block = rewriteBlock(n.Block, r)
		n.Handler = rewriteBlock(n.Handler, r)
		n.Finalizer = rewriteBlock(n.Finalizer, r)
	case *FunctionDeclaration:
		rewriteParameters(n.Params, r)
		n.Body = rewriteBlock(n.Body, r)
	case *FunctionExpression:
		rewriteParameters(n.Params, r)
		n.Body = rewriteBlock(n.Body, r)
		n.ExpressionBody = rewriteExpression(n.ExpressionBody, r)
	case *TemplateLiteral:
		for i, expr := range n.Expressions {
			n.Expressions[i] = rewriteExpression(expr, r)
		}
	case *ArrayLiteral:
		for i, elem := range n.Elements {
			n.Elements[i] = rewriteExpression(elem, r)
		}
	case *MemberExpression:
		n.Object = rewriteExpression(n.Object, r)
		if n.Computed {
			n.Property = rewriteExpression(n.Property, r)
		}
	case *CallExpression:
		n.Callee = rewriteExpression(n.Callee, r)
		for i, arg := range n.Arguments {
			n.Arguments[i] = rewriteExpression(arg, r)
		}
	case *NewExpression:
		n.Callee = rewriteExpression(n.Callee, r)
		for i, arg := range n.Arguments {
			n.Arguments[i] = rewriteExpression(arg, r)
		}
	case *AssignmentExpression:
		n.Left = rewriteExpression(n.Left, r)
		n.Right = rewriteExpression(n.Right, r)
	case *UpdateExpression:
		n.Argument = rewriteExpression(n.Argument, r)
	case *BinaryExpression:
		n.Left = rewriteExpression(n.Left, r)
		n.Right = rewriteExpression(n.Right, r)
	case *LogicalExpression:
		n.Left = rewriteExpression(n.Left, r)
		n.Right = rewriteExpression(n.Right, r)
	case *UnaryExpression:
		n.Argument = rewriteExpression(n.Argument, r)
	case *ConditionalExpression:
		n.Test = rewriteExpression(n.Test, r)
		n.Consequent = rewriteExpression(n.Consequent, r)
		n.Alternate = rewriteExpression(n.Alternate, r)
	case *SequenceExpression:
		for i, expr := range n.Expressions {
			n.Expressions[i] = rewriteExpression(expr, r)
		}
	}
	return r.Leave(node)
}

func rewriteStatements(stmts []Statement, r Rewriter) []Statement {
	for i, stmt := range stmts {
		stmts[i] = rewriteStatement(stmt, r)
	}
	return stmts
}

func rewriteStatement(stmt Statement, r Rewriter) Statement {
	if stmt == nil {
		return nil
	}
	if out, ok := Rewrite(stmt, r).(Statement); ok && out != nil {
		return out
	}
	return stmt
}

func rewriteExpression(expr Expression, r Rewriter) Expression {
	if expr == nil {
		return nil
	}
	if out, ok := Rewrite(expr, r).(Expression); ok && out != nil {
		return out
	}
	return expr
}

func rewriteBlock(block *BlockStatement, r Rewriter) *BlockStatement {
	if block == nil {
		return nil
	}
	if out, ok := Rewrite(block, r).(*BlockStatement); ok && out != nil {
		return out
	}
	return block
}

func rewriteParameters(params []*Parameter, r Rewriter) {
	for _, param := range params {
		if param != nil {
			param.Default = rewriteExpression(param.Default, r)
		}
	}
}

type inspector func(Node) bool

func (f inspector) Enter(node Node) bool { return f(node) }
func (f inspector) Leave(node Node) Node { return node }

// Inspect visits node and its descendants in depth-first order. Returning
// false from fn skips the children of the current node.
func Inspect(node Node, fn func(Node) bool) {
	if fn == nil {
		return
	}
	Rewrite(node, inspector(fn))
}
