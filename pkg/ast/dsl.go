package ast

import "strconv"

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value, "")
}

func Int(value int) *NumberLiteral {
	return NewNumberLiteral(float64(value), strconv.Itoa(value))
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Null() *NullLiteral {
	return NewNullLiteral()
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

// Expression helpers.

func Member(object Expression, property string) *MemberExpression {
	return NewMemberExpression(object, ID(property), false)
}

func Index(object, index Expression) *MemberExpression {
	return NewMemberExpression(object, index, true)
}

func Call(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args)
}

// CallMember builds recv.method(args...).
func CallMember(receiver Expression, method string, args ...Expression) *CallExpression {
	return NewCallExpression(Member(receiver, method), args)
}

func New(callee Expression, args ...Expression) *NewExpression {
	return NewNewExpression(callee, args)
}

func Assign(left, right Expression) *AssignmentExpression {
	return NewAssignmentExpression("=", left, right)
}

func AssignOp(operator string, left, right Expression) *AssignmentExpression {
	return NewAssignmentExpression(operator, left, right)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Seq(exprs ...Expression) *SequenceExpression {
	return NewSequenceExpression(exprs)
}

// Statement helpers.

func Let(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(DeclarationLet, []*VariableDeclarator{NewVariableDeclarator(ID(name), init)})
}

func Const(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(DeclarationConst, []*VariableDeclarator{NewVariableDeclarator(ID(name), init)})
}

func Var(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(DeclarationVar, []*VariableDeclarator{NewVariableDeclarator(ID(name), init)})
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Block(body ...Statement) *BlockStatement {
	return NewBlockStatement(body)
}

func Prog(body ...Statement) *Program {
	return NewProgram(body)
}
