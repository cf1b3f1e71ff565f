// Package instrument rewrites a parsed program so that every tracked
// declaration, assignment and in-place array mutation reports to the tracer
// binding. The rewrite preserves what the program computes; it only adds
// calls whose results are the values the original expressions produced.
package instrument

import (
	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/tracer"
)

// ReadInputName is the global the program calls to consume input.
const ReadInputName = "readInput"

var mutatingMethods = map[string]bool{
	"push":       true,
	"pop":        true,
	"shift":      true,
	"unshift":    true,
	"splice":     true,
	"sort":       true,
	"reverse":    true,
	"fill":       true,
	"copyWithin": true,
}

// IsMutatingMethod reports whether calls to the array method name are
// wrapped with a refresh.
func IsMutatingMethod(name string) bool {
	return mutatingMethods[name]
}

// Report counts the tracer calls inserted by one transform, keyed by
// primitive name.
type Report map[string]int

// Total returns the number of inserted calls.
func (r Report) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}

// Transform instruments program in place and returns it.
func Transform(program *ast.Program) *ast.Program {
	out, _ := TransformWithReport(program)
	return out
}

// TransformWithReport instruments program in place and reports which
// primitives were inserted. Code that is already instrumented is left alone,
// so running the transform twice yields the same tree.
func TransformWithReport(program *ast.Program) (*ast.Program, Report) {
	report := Report{}
	if program == nil {
		return nil, report
	}
	ast.Rewrite(program, &rewriter{report: report})
	return program, report
}

type rewriter struct {
	report Report
}

func (r *rewriter) Enter(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.CallExpression:
		if _, ok := BindingMethod(n); ok {
			return false
		}
	case *ast.SequenceExpression:
		if isInstrumentedPair(n) {
			return false
		}
	}
	return true
}

func (r *rewriter) Leave(node ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.VariableDeclarator:
		r.declarator(n)
	case *ast.AssignmentExpression:
		return r.assignment(n)
	case *ast.CallExpression:
		return r.call(n)
	}
	return node
}

func (r *rewriter) declarator(decl *ast.VariableDeclarator) {
	if decl.ID == nil || decl.Init == nil {
		return
	}
	name := decl.ID.Name
	switch init := decl.Init.(type) {
	case *ast.CallExpression:
		if isIdentifier(init.Callee, ReadInputName) {
			decl.Init = r.binding(tracer.MethodCreateString, init, ast.Str(name))
		}
	case *ast.NewExpression:
		if !isIdentifier(init.Callee, "Array") {
			return
		}
		var data ast.Expression
		switch len(init.Arguments) {
		case 0:
			data = ast.Int(0)
		case 1:
			data = init.Arguments[0]
		default:
			data = ast.Arr(init.Arguments...)
		}
		decl.Init = r.binding(tracer.MethodCreateArray, data, ast.Str(name))
	case *ast.ArrayLiteral:
		elements := make([]ast.Expression, len(init.Elements))
		for idx, elem := range init.Elements {
			if elem == nil {
				elem = ast.Null()
			}
			elements[idx] = elem
		}
		decl.Init = r.binding(tracer.MethodCreateArray, ast.Arr(elements...), ast.Str(name))
	case *ast.StringLiteral:
		decl.Init = r.binding(tracer.MethodCreateString, init, ast.Str(name))
	case *ast.NumberLiteral, *ast.BooleanLiteral:
		decl.Init = r.binding(tracer.MethodCreateVar, init, ast.Str(name))
	}
}

func (r *rewriter) assignment(assign *ast.AssignmentExpression) ast.Expression {
	switch left := assign.Left.(type) {
	case *ast.MemberExpression:
		array, ok := left.Object.(*ast.Identifier)
		if !ok || !left.Computed {
			return assign
		}
		if hasSideEffects(left.Property) {
			return r.binding(tracer.MethodRefreshArray, ast.Str(array.Name), assign)
		}
		element := ast.Index(ast.ID(array.Name), left.Property)
		return ast.Seq(assign, r.binding(tracer.MethodSetArrayElement, ast.Str(array.Name), left.Property, element))
	case *ast.Identifier:
		name := left.Name
		if isStringBuild(assign, name) {
			return ast.Seq(assign, r.binding(tracer.MethodUpdateString, ast.Str(name), ast.ID(name)))
		}
		if call, ok := assign.Right.(*ast.CallExpression); ok && isIdentifier(call.Callee, ReadInputName) {
			return assign
		}
		return ast.Seq(assign, r.binding(tracer.MethodUpdateVar, ast.Str(name), ast.ID(name)))
	}
	return assign
}

func (r *rewriter) call(call *ast.CallExpression) ast.Expression {
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok || member.Computed {
		return call
	}
	recv, ok := member.Object.(*ast.Identifier)
	if !ok || recv.Name == tracer.BindingName {
		return call
	}
	method, ok := member.Property.(*ast.Identifier)
	if !ok || !mutatingMethods[method.Name] {
		return call
	}
	return r.binding(tracer.MethodRefreshArray, ast.Str(recv.Name), call)
}

func (r *rewriter) binding(method string, args ...ast.Expression) *ast.CallExpression {
	r.report[method]++
	return BindingCall(method, args...)
}

// BindingCall builds __viz.method(args...).
func BindingCall(method string, args ...ast.Expression) *ast.CallExpression {
	return ast.CallMember(ast.ID(tracer.BindingName), method, args...)
}

// BindingMethod reports the primitive called by expr when expr is a call on
// the tracer binding.
func BindingMethod(expr ast.Expression) (string, bool) {
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		return "", false
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok || member.Computed || !isIdentifier(member.Object, tracer.BindingName) {
		return "", false
	}
	prop, ok := member.Property.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return prop.Name, true
}

// isStringBuild matches name += x, name = name + x and name = name.concat(x).
func isStringBuild(assign *ast.AssignmentExpression, name string) bool {
	switch assign.Operator {
	case "+=":
		return true
	case "=":
	default:
		return false
	}
	switch right := assign.Right.(type) {
	case *ast.BinaryExpression:
		return right.Operator == "+" && isIdentifier(right.Left, name)
	case *ast.CallExpression:
		member, ok := right.Callee.(*ast.MemberExpression)
		return ok && !member.Computed && isIdentifier(member.Object, name) && isIdentifier(member.Property, "concat")
	}
	return false
}

// isInstrumentedPair matches (assignment to T, __viz.primitive("T", ...)).
func isInstrumentedPair(seq *ast.SequenceExpression) bool {
	if len(seq.Expressions) != 2 {
		return false
	}
	assign, ok := seq.Expressions[0].(*ast.AssignmentExpression)
	if !ok {
		return false
	}
	target := assignmentTarget(assign)
	if target == "" {
		return false
	}
	if _, ok := BindingMethod(seq.Expressions[1]); !ok {
		return false
	}
	call := seq.Expressions[1].(*ast.CallExpression)
	if len(call.Arguments) == 0 {
		return false
	}
	name, ok := call.Arguments[0].(*ast.StringLiteral)
	return ok && name.Value == target
}

func assignmentTarget(assign *ast.AssignmentExpression) string {
	switch left := assign.Left.(type) {
	case *ast.Identifier:
		return left.Name
	case *ast.MemberExpression:
		if id, ok := left.Object.(*ast.Identifier); ok && left.Computed {
			return id.Name
		}
	}
	return ""
}

// hasSideEffects reports whether evaluating expr more than once could change
// the program's behaviour.
func hasSideEffects(expr ast.Expression) bool {
	found := false
	ast.Inspect(expr, func(node ast.Node) bool {
		if found {
			return false
		}
		switch node.(type) {
		case *ast.CallExpression, *ast.NewExpression, *ast.AssignmentExpression, *ast.UpdateExpression:
			found = true
			return false
		case *ast.FunctionExpression:
			return false
		}
		return true
	})
	return found
}

func isIdentifier(expr ast.Expression, name string) bool {
	id, ok := expr.(*ast.Identifier)
	return ok && id.Name == name
}
