package ast

type NodeType string

const (
	NodeProgram               NodeType = "Program"
	NodeIdentifier            NodeType = "Identifier"
	NodeNumberLiteral         NodeType = "NumberLiteral"
	NodeStringLiteral         NodeType = "StringLiteral"
	NodeBooleanLiteral        NodeType = "BooleanLiteral"
	NodeNullLiteral           NodeType = "NullLiteral"
	NodeTemplateLiteral       NodeType = "TemplateLiteral"
	NodeArrayLiteral          NodeType = "ArrayLiteral"
	NodeMemberExpression      NodeType = "MemberExpression"
	NodeCallExpression        NodeType = "CallExpression"
	NodeNewExpression         NodeType = "NewExpression"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodeUpdateExpression      NodeType = "UpdateExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeLogicalExpression     NodeType = "LogicalExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeSequenceExpression    NodeType = "SequenceExpression"
	NodeFunctionExpression    NodeType = "FunctionExpression"
	NodeVariableDeclaration   NodeType = "VariableDeclaration"
	NodeVariableDeclarator    NodeType = "VariableDeclarator"
	NodeExpressionStatement   NodeType = "ExpressionStatement"
	NodeBlockStatement        NodeType = "BlockStatement"
	NodeIfStatement           NodeType = "IfStatement"
	NodeWhileStatement        NodeType = "WhileStatement"
	NodeDoWhileStatement      NodeType = "DoWhileStatement"
	NodeForStatement          NodeType = "ForStatement"
	NodeForOfStatement        NodeType = "ForOfStatement"
	NodeBreakStatement        NodeType = "BreakStatement"
	NodeContinueStatement     NodeType = "ContinueStatement"
	NodeReturnStatement       NodeType = "ReturnStatement"
	NodeThrowStatement        NodeType = "ThrowStatement"
	NodeTryStatement          NodeType = "TryStatement"
	NodeFunctionDeclaration   NodeType = "FunctionDeclaration"
	NodeEmptyStatement        NodeType = "EmptyStatement"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Program

type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

// NumberLiteral keeps the source spelling so printing round-trips hex and
// exponent forms unchanged.
type NumberLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value float64 `json:"value"`
	Raw   string  `json:"raw,omitempty"`
}

func NewNumberLiteral(value float64, raw string) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value, Raw: raw}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

// TemplateLiteral holds len(Expressions)+1 cooked text parts.
type TemplateLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Quasis      []string     `json:"quasis"`
	Expressions []Expression `json:"expressions"`
}

func NewTemplateLiteral(quasis []string, exprs []Expression) *TemplateLiteral {
	return &TemplateLiteral{nodeImpl: newNodeImpl(NodeTemplateLiteral), Quasis: quasis, Expressions: exprs}
}

// ArrayLiteral elements are nil for holes ([1, , 3]).
type ArrayLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

// Expressions

// MemberExpression covers obj.prop (Property is an *Identifier) and
// obj[expr] (Computed).
type MemberExpression struct {
	nodeImpl
	expressionMarker

	Object   Expression `json:"object"`
	Property Expression `json:"property"`
	Computed bool       `json:"computed"`
}

func NewMemberExpression(object, property Expression, computed bool) *MemberExpression {
	return &MemberExpression{nodeImpl: newNodeImpl(NodeMemberExpression), Object: object, Property: property, Computed: computed}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee Expression, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args}
}

type NewExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewNewExpression(callee Expression, args []Expression) *NewExpression {
	return &NewExpression{nodeImpl: newNodeImpl(NodeNewExpression), Callee: callee, Arguments: args}
}

// AssignmentExpression targets an *Identifier or a *MemberExpression.
// Operator is "=" or a compound form such as "+=".
type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewAssignmentExpression(operator string, left, right Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Left: left, Right: right}
}

type UpdateExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Prefix   bool       `json:"prefix"`
	Argument Expression `json:"argument"`
}

func NewUpdateExpression(operator string, prefix bool, argument Expression) *UpdateExpression {
	return &UpdateExpression{nodeImpl: newNodeImpl(NodeUpdateExpression), Operator: operator, Prefix: prefix, Argument: argument}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// LogicalExpression is &&, || or ??; the right side is evaluated lazily.
type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewLogicalExpression(operator string, left, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Operator: operator, Left: left, Right: right}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Argument Expression `json:"argument"`
}

func NewUnaryExpression(operator string, argument Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Argument: argument}
}

type ConditionalExpression struct {
	nodeImpl
	expressionMarker

	Test       Expression `json:"test"`
	Consequent Expression `json:"consequent"`
	Alternate  Expression `json:"alternate"`
}

func NewConditionalExpression(test, consequent, alternate Expression) *ConditionalExpression {
	return &ConditionalExpression{nodeImpl: newNodeImpl(NodeConditionalExpression), Test: test, Consequent: consequent, Alternate: alternate}
}

type SequenceExpression struct {
	nodeImpl
	expressionMarker

	Expressions []Expression `json:"expressions"`
}

func NewSequenceExpression(exprs []Expression) *SequenceExpression {
	return &SequenceExpression{nodeImpl: newNodeImpl(NodeSequenceExpression), Expressions: exprs}
}

// FunctionExpression covers `function` expressions and arrows. An arrow
// with an expression body stores it in ExpressionBody and leaves Body nil.
type FunctionExpression struct {
	nodeImpl
	expressionMarker

	ID             *Identifier     `json:"id,omitempty"`
	Params         []*Parameter    `json:"params"`
	Body           *BlockStatement `json:"body,omitempty"`
	ExpressionBody Expression      `json:"expressionBody,omitempty"`
	Arrow          bool            `json:"arrow"`
}

func NewFunctionExpression(id *Identifier, params []*Parameter, body *BlockStatement, arrow bool) *FunctionExpression {
	return &FunctionExpression{nodeImpl: newNodeImpl(NodeFunctionExpression), ID: id, Params: params, Body: body, Arrow: arrow}
}

func NewArrowExpression(params []*Parameter, body Expression) *FunctionExpression {
	return &FunctionExpression{nodeImpl: newNodeImpl(NodeFunctionExpression), Params: params, ExpressionBody: body, Arrow: true}
}

// Parameter is a named parameter with an optional default value.
type Parameter struct {
	Name    *Identifier `json:"name"`
	Default Expression  `json:"default,omitempty"`
}

func NewParameter(name *Identifier, def Expression) *Parameter {
	return &Parameter{Name: name, Default: def}
}

// Statements

type DeclarationKind string

const (
	DeclarationLet   DeclarationKind = "let"
	DeclarationConst DeclarationKind = "const"
	DeclarationVar   DeclarationKind = "var"
)

type VariableDeclaration struct {
	nodeImpl
	statementMarker

	Kind         DeclarationKind       `json:"kind"`
	Declarations []*VariableDeclarator `json:"declarations"`
}

func NewVariableDeclaration(kind DeclarationKind, decls []*VariableDeclarator) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Kind: kind, Declarations: decls}
}

// VariableDeclarator binds ID to Init; Init is nil for `let x;`.
type VariableDeclarator struct {
	nodeImpl

	ID   *Identifier `json:"id"`
	Init Expression  `json:"init,omitempty"`
}

func NewVariableDeclarator(id *Identifier, init Expression) *VariableDeclarator {
	return &VariableDeclarator{nodeImpl: newNodeImpl(NodeVariableDeclarator), ID: id, Init: init}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockStatement(body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Test       Expression `json:"test"`
	Consequent Statement  `json:"consequent"`
	Alternate  Statement  `json:"alternate,omitempty"`
}

func NewIfStatement(test Expression, consequent, alternate Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Test: test, Consequent: consequent, Alternate: alternate}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Test Expression `json:"test"`
	Body Statement  `json:"body"`
}

func NewWhileStatement(test Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Test: test, Body: body}
}

type DoWhileStatement struct {
	nodeImpl
	statementMarker

	Body Statement  `json:"body"`
	Test Expression `json:"test"`
}

func NewDoWhileStatement(body Statement, test Expression) *DoWhileStatement {
	return &DoWhileStatement{nodeImpl: newNodeImpl(NodeDoWhileStatement), Body: body, Test: test}
}

// ForStatement is the classic three-clause loop. Init is a
// *VariableDeclaration or *ExpressionStatement; any clause may be nil.
type ForStatement struct {
	nodeImpl
	statementMarker

	Init   Statement  `json:"init,omitempty"`
	Test   Expression `json:"test,omitempty"`
	Update Expression `json:"update,omitempty"`
	Body   Statement  `json:"body"`
}

func NewForStatement(init Statement, test, update Expression, body Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Init: init, Test: test, Update: update, Body: body}
}

// ForOfStatement iterates values ("of") or keys ("in"). Kind is empty when
// the loop binds an existing variable.
type ForOfStatement struct {
	nodeImpl
	statementMarker

	Kind     DeclarationKind `json:"kind,omitempty"`
	Left     *Identifier     `json:"left"`
	Operator string          `json:"operator"`
	Right    Expression      `json:"right"`
	Body     Statement       `json:"body"`
}

func NewForOfStatement(kind DeclarationKind, left *Identifier, operator string, right Expression, body Statement) *ForOfStatement {
	return &ForOfStatement{nodeImpl: newNodeImpl(NodeForOfStatement), Kind: kind, Left: left, Operator: operator, Right: right, Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type ThrowStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument"`
}

func NewThrowStatement(argument Expression) *ThrowStatement {
	return &ThrowStatement{nodeImpl: newNodeImpl(NodeThrowStatement), Argument: argument}
}

type TryStatement struct {
	nodeImpl
	statementMarker

	Block     *BlockStatement `json:"block"`
	Param     *Identifier     `json:"param,omitempty"`
	Handler   *BlockStatement `json:"handler,omitempty"`
	Finalizer *BlockStatement `json:"finalizer,omitempty"`
}

func NewTryStatement(block *BlockStatement, param *Identifier, handler, finalizer *BlockStatement) *TryStatement {
	return &TryStatement{nodeImpl: newNodeImpl(NodeTryStatement), Block: block, Param: param, Handler: handler, Finalizer: finalizer}
}

type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	ID     *Identifier     `json:"id"`
	Params []*Parameter    `json:"params"`
	Body   *BlockStatement `json:"body"`
}

func NewFunctionDeclaration(id *Identifier, params []*Parameter, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), ID: id, Params: params, Body: body}
}

type EmptyStatement struct {
	nodeImpl
	statementMarker
}

func NewEmptyStatement() *EmptyStatement {
	return &EmptyStatement{nodeImpl: newNodeImpl(NodeEmptyStatement)}
}
