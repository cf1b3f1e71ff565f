package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Operator binding strengths, loosest first.
const (
	precSequence = iota + 1
	precAssign
	precConditional
	precCoalesce
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precPrefix
	precPostfix
	precCall
	precPrimary
)

var binaryPrecedence = map[string]int{
	"??": precCoalesce, "||": precOr, "&&": precAnd,
	"|": precBitOr, "^": precBitXor, "&": precBitAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"instanceof": precRelational, "in": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
	"**": precExponent,
}

// Print renders a node as source text in the scripting language. Output is
// deterministic: two-space indentation, one statement per line, sequence
// expressions always parenthesised.
func Print(node Node) string {
	var p printer
	p.node(node)
	return strings.TrimRight(p.b.String(), "\n") + "\n"
}

// PrintExpression renders a single expression without a trailing newline.
func PrintExpression(expr Expression) string {
	var p printer
	p.expr(expr, precSequence)
	return p.b.String()
}

type printer struct {
	b     strings.Builder
	depth int
}

func (p *printer) write(s string) { p.b.WriteString(s) }

func (p *printer) pad() {
	for i := 0; i < p.depth; i++ {
		p.b.WriteString("  ")
	}
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case nil:
	case *Program:
		for _, stmt := range n.Body {
			p.stmt(stmt)
		}
	case Statement:
		p.stmt(n)
	case Expression:
		p.expr(n, precSequence)
	case *VariableDeclarator:
		p.declarator(n)
	}
}

func (p *printer) stmt(stmt Statement) {
	p.pad()
	p.stmtInline(stmt)
	p.write("\n")
}

// stmtInline prints a statement at the current position without leading
// padding or a trailing newline.
func (p *printer) stmtInline(stmt Statement) {
	switch s := stmt.(type) {
	case *VariableDeclaration:
		p.declaration(s)
		p.write(";")
	case *ExpressionStatement:
		if startsWithFunction(s.Expression) {
			p.write("(")
			p.expr(s.Expression, precSequence)
			p.write(");")
			return
		}
		p.expr(s.Expression, precSequence)
		p.write(";")
	case *BlockStatement:
		p.block(s)
	case *IfStatement:
		p.write("if (")
		p.expr(s.Test, precSequence)
		p.write(")")
		consequent := s.Consequent
		if inner, ok := consequent.(*IfStatement); ok && inner.Alternate == nil && s.Alternate != nil {
			consequent = NewBlockStatement([]Statement{inner})
		}
		p.body(consequent)
		if s.Alternate != nil {
			if _, ok := consequent.(*BlockStatement); ok {
				p.write(" ")
			} else {
				p.write("\n")
				p.pad()
			}
			p.write("else")
			if elseIf, ok := s.Alternate.(*IfStatement); ok {
				p.write(" ")
				p.stmtInline(elseIf)
				return
			}
			p.body(s.Alternate)
		}
	case *WhileStatement:
		p.write("while (")
		p.expr(s.Test, precSequence)
		p.write(")")
		p.body(s.Body)
	case *DoWhileStatement:
		p.write("do")
		p.body(s.Body)
		if _, ok := s.Body.(*BlockStatement); ok {
			p.write(" ")
		} else {
			p.write("\n")
			p.pad()
		}
		p.write("while (")
		p.expr(s.Test, precSequence)
		p.write(");")
	case *ForStatement:
		p.write("for (")
		switch init := s.Init.(type) {
		case *VariableDeclaration:
			p.declaration(init)
		case *ExpressionStatement:
			p.expr(init.Expression, precSequence)
		}
		p.write(";")
		if s.Test != nil {
			p.write(" ")
			p.expr(s.Test, precSequence)
		}
		p.write(";")
		if s.Update != nil {
			p.write(" ")
			p.expr(s.Update, precSequence)
		}
		p.write(")")
		p.body(s.Body)
	case *ForOfStatement:
		p.write("for (")
		if s.Kind != "" {
			p.write(string(s.Kind))
			p.write(" ")
		}
		p.write(s.Left.Name)
		p.write(" ")
		p.write(s.Operator)
		p.write(" ")
		p.expr(s.Right, precAssign)
		p.write(")")
		p.body(s.Body)
	case *BreakStatement:
		p.write("break;")
	case *ContinueStatement:
		p.write("continue;")
	case *ReturnStatement:
		if s.Argument == nil {
			p.write("return;")
			return
		}
		p.write("return ")
		p.expr(s.Argument, precSequence)
		p.write(";")
	case *ThrowStatement:
		p.write("throw ")
		p.expr(s.Argument, precSequence)
		p.write(";")
	case *TryStatement:
		p.write("try ")
		p.block(s.Block)
		if s.Handler != nil {
			p.write(" catch ")
			if s.Param != nil {
				p.write("(" + s.Param.Name + ") ")
			}
			p.block(s.Handler)
		}
		if s.Finalizer != nil {
			p.write(" finally ")
			p.block(s.Finalizer)
		}
	case *FunctionDeclaration:
		p.write("function ")
		p.write(s.ID.Name)
		p.params(s.Params)
		p.write(" ")
		p.block(s.Body)
	case *EmptyStatement:
		p.write(";")
	default:
		p.write(fmt.Sprintf("/* unsupported %T */", stmt))
	}
}

func (p *printer) body(stmt Statement) {
	if block, ok := stmt.(*BlockStatement); ok {
		p.write(" ")
		p.block(block)
		return
	}
	p.write("\n")
	p.depth++
	p.pad()
	p.stmtInline(stmt)
	p.depth--
}

func (p *printer) block(block *BlockStatement) {
	if block == nil || len(block.Body) == 0 {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.depth++
	for _, stmt := range block.Body {
		p.stmt(stmt)
	}
	p.depth--
	p.pad()
	p.write("}")
}

func (p *printer) declaration(decl *VariableDeclaration) {
	p.write(string(decl.Kind))
	p.write(" ")
	for i, d := range decl.Declarations {
		if i > 0 {
			p.write(", ")
		}
		p.declarator(d)
	}
}

func (p *printer) declarator(d *VariableDeclarator) {
	p.write(d.ID.Name)
	if d.Init != nil {
		p.write(" = ")
		p.expr(d.Init, precAssign)
	}
}

func (p *printer) params(params []*Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name.Name)
		if param.Default != nil {
			p.write(" = ")
			p.expr(param.Default, precAssign)
		}
	}
	p.write(")")
}

func (p *printer) args(args []Expression) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.expr(arg, precAssign)
	}
	p.write(")")
}

func (p *printer) expr(expr Expression, min int) {
	if expr == nil {
		return
	}
	prec := precedence(expr)
	_, isSeq := expr.(*SequenceExpression)
	wrap := prec < min || isSeq
	if wrap {
		p.write("(")
	}
	p.exprInner(expr)
	if wrap {
		p.write(")")
	}
}

func (p *printer) exprInner(expr Expression) {
	switch e := expr.(type) {
	case *Identifier:
		p.write(e.Name)
	case *NumberLiteral:
		if e.Raw != "" {
			p.write(e.Raw)
			return
		}
		p.write(formatNumber(e.Value))
	case *StringLiteral:
		p.write(quoteString(e.Value))
	case *BooleanLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *NullLiteral:
		p.write("null")
	case *TemplateLiteral:
		p.write("`")
		for i, quasi := range e.Quasis {
			p.write(escapeTemplate(quasi))
			if i < len(e.Expressions) {
				p.write("${")
				p.expr(e.Expressions[i], precSequence)
				p.write("}")
			}
		}
		p.write("`")
	case *ArrayLiteral:
		p.write("[")
		for i, elem := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			if elem != nil {
				p.expr(elem, precAssign)
			}
		}
		if n := len(e.Elements); n > 0 && e.Elements[n-1] == nil {
			p.write(",")
		}
		p.write("]")
	case *MemberExpression:
		if _, isNum := e.Object.(*NumberLiteral); isNum {
			p.write("(")
			p.exprInner(e.Object)
			p.write(")")
		} else {
			p.expr(e.Object, precCall)
		}
		if e.Computed {
			p.write("[")
			p.expr(e.Property, precSequence)
			p.write("]")
			return
		}
		p.write(".")
		p.exprInner(e.Property)
	case *CallExpression:
		p.expr(e.Callee, precCall)
		p.args(e.Arguments)
	case *NewExpression:
		p.write("new ")
		if id, ok := e.Callee.(*Identifier); ok {
			p.write(id.Name)
		} else {
			p.write("(")
			p.expr(e.Callee, precSequence)
			p.write(")")
		}
		p.args(e.Arguments)
	case *AssignmentExpression:
		p.expr(e.Left, precCall)
		p.write(" " + e.Operator + " ")
		p.expr(e.Right, precAssign)
	case *UpdateExpression:
		if e.Prefix {
			p.write(e.Operator)
			p.expr(e.Argument, precPrefix)
			return
		}
		p.expr(e.Argument, precPostfix)
		p.write(e.Operator)
	case *BinaryExpression:
		p.binary(e.Operator, e.Left, e.Right)
	case *LogicalExpression:
		p.binary(e.Operator, e.Left, e.Right)
	case *UnaryExpression:
		p.write(e.Operator)
		var inner printer
		inner.expr(e.Argument, precPrefix)
		text := inner.b.String()
		switch {
		case len(e.Operator) > 1:
			p.write(" ")
		case text != "" && (text[0] == e.Operator[0]):
			p.write(" ")
		}
		p.write(text)
	case *ConditionalExpression:
		p.expr(e.Test, precCoalesce)
		p.write(" ? ")
		p.expr(e.Consequent, precAssign)
		p.write(" : ")
		p.expr(e.Alternate, precAssign)
	case *SequenceExpression:
		for i, part := range e.Expressions {
			if i > 0 {
				p.write(", ")
			}
			p.expr(part, precAssign)
		}
	case *FunctionExpression:
		if e.Arrow {
			p.params(e.Params)
			p.write(" => ")
			if e.ExpressionBody != nil {
				p.expr(e.ExpressionBody, precAssign)
				return
			}
			p.block(e.Body)
			return
		}
		p.write("function")
		if e.ID != nil {
			p.write(" " + e.ID.Name)
		}
		p.params(e.Params)
		p.write(" ")
		p.block(e.Body)
	default:
		p.write(fmt.Sprintf("/* unsupported %T */", expr))
	}
}

func (p *printer) binary(op string, left, right Expression) {
	prec := binaryPrecedence[op]
	leftMin, rightMin := prec, prec+1
	if op == "**" {
		leftMin, rightMin = precPostfix, prec
	}
	if op == "??" {
		// ?? cannot be mixed with && or || without parentheses.
		leftMin, rightMin = mixedCoalesceMin(left, leftMin), mixedCoalesceMin(right, rightMin)
	}
	p.expr(left, leftMin)
	p.write(" " + op + " ")
	p.expr(right, rightMin)
}

func mixedCoalesceMin(expr Expression, min int) int {
	if logical, ok := expr.(*LogicalExpression); ok && logical.Operator != "??" {
		return precPrimary
	}
	return min
}

func precedence(expr Expression) int {
	switch e := expr.(type) {
	case *SequenceExpression:
		return precSequence
	case *AssignmentExpression:
		return precAssign
	case *FunctionExpression:
		if e.Arrow {
			return precAssign
		}
		return precPrimary
	case *ConditionalExpression:
		return precConditional
	case *BinaryExpression:
		return binaryPrecedence[e.Operator]
	case *LogicalExpression:
		return binaryPrecedence[e.Operator]
	case *UnaryExpression:
		return precPrefix
	case *UpdateExpression:
		if e.Prefix {
			return precPrefix
		}
		return precPostfix
	case *CallExpression, *MemberExpression, *NewExpression:
		return precCall
	case *NumberLiteral:
		if e.Value < 0 || math.Signbit(e.Value) {
			return precPrefix
		}
		return precPrimary
	default:
		return precPrimary
	}
}

// startsWithFunction reports whether printing expr would begin with the
// `function` keyword, which at statement start would parse as a declaration.
func startsWithFunction(expr Expression) bool {
	for expr != nil {
		switch e := expr.(type) {
		case *FunctionExpression:
			return !e.Arrow
		case *CallExpression:
			expr = e.Callee
		case *MemberExpression:
			expr = e.Object
		case *AssignmentExpression:
			expr = e.Left
		case *BinaryExpression:
			expr = e.Left
		case *LogicalExpression:
			expr = e.Left
		case *ConditionalExpression:
			expr = e.Test
		case *UpdateExpression:
			if e.Prefix {
				return false
			}
			expr = e.Argument
		default:
			return false
		}
	}
	return false
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == math.Trunc(v) && math.Abs(v) < 1e21:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func escapeTemplate(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '`':
			b.WriteString("\\`")
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\$`)
		case c == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
