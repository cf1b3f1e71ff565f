package interpreter

import (
	"strings"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Identifier:
		return i.lookupIdentifier(n, env)
	case *ast.NumberLiteral:
		return runtime.Number(n.Value), nil
	case *ast.StringLiteral:
		return runtime.String(n.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.TemplateLiteral:
		return i.evaluateTemplateLiteral(n, env)
	case *ast.ArrayLiteral:
		return i.evaluateArrayLiteral(n, env)
	case *ast.MemberExpression:
		obj, err := i.evaluateExpression(n.Object, env)
		if err != nil {
			return nil, err
		}
		key, err := i.memberKey(n, env)
		if err != nil {
			return nil, err
		}
		return i.getProperty(obj, key, n)
	case *ast.CallExpression:
		return i.evaluateCallExpression(n, env)
	case *ast.NewExpression:
		return i.evaluateNewExpression(n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignmentExpression(n, env)
	case *ast.UpdateExpression:
		return i.evaluateUpdateExpression(n, env)
	case *ast.BinaryExpression:
		left, err := i.evaluateExpression(n.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluateExpression(n.Right, env)
		if err != nil {
			return nil, err
		}
		return i.binaryOperation(n, n.Operator, left, right)
	case *ast.LogicalExpression:
		return i.evaluateLogicalExpression(n, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.ConditionalExpression:
		cond, err := i.evaluateExpression(n.Test, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.evaluateExpression(n.Consequent, env)
		}
		return i.evaluateExpression(n.Alternate, env)
	case *ast.SequenceExpression:
		var result runtime.Value = runtime.Undefined
		for _, expr := range n.Expressions {
			val, err := i.evaluateExpression(expr, env)
			if err != nil {
				return nil, err
			}
			result = val
		}
		return result, nil
	case *ast.FunctionExpression:
		name := ""
		if n.ID != nil {
			name = n.ID.Name
		}
		fn := i.makeFunction(name, n.Params, n.Body, n.ExpressionBody, n.Arrow, env)
		if n.ID != nil && !n.Arrow {
			// A named function expression sees its own name.
			self := env.Extend()
			fn.Closure = self
			self.Define(name, fn)
		}
		return fn, nil
	default:
		return nil, i.throwError(node, "SyntaxError: unsupported expression %T", node)
	}
}

func (i *Interpreter) lookupIdentifier(id *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	val, err := env.Get(id.Name)
	if err != nil {
		return nil, i.throwError(id, "ReferenceError: %s is not defined", id.Name)
	}
	if val == nil {
		return runtime.Undefined, nil
	}
	return val, nil
}

func (i *Interpreter) evaluateTemplateLiteral(tpl *ast.TemplateLiteral, env *runtime.Environment) (runtime.Value, error) {
	var b strings.Builder
	for idx, quasi := range tpl.Quasis {
		b.WriteString(quasi)
		if idx < len(tpl.Expressions) {
			val, err := i.evaluateExpression(tpl.Expressions[idx], env)
			if err != nil {
				return nil, err
			}
			b.WriteString(runtime.ToString(val))
		}
	}
	return runtime.String(b.String()), nil
}

func (i *Interpreter) evaluateArrayLiteral(arr *ast.ArrayLiteral, env *runtime.Environment) (runtime.Value, error) {
	if len(arr.Elements) > i.opts.MaxArrayLength {
		return nil, i.throwError(arr, "RangeError: Invalid array length")
	}
	elements := make([]runtime.Value, len(arr.Elements))
	for idx, elem := range arr.Elements {
		if elem == nil {
			continue
		}
		val, err := i.evaluateExpression(elem, env)
		if err != nil {
			return nil, err
		}
		elements[idx] = val
	}
	return runtime.NewArray(elements), nil
}

func (i *Interpreter) evaluateArguments(args []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	values := make([]runtime.Value, 0, len(args))
	for _, arg := range args {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

func (i *Interpreter) evaluateCallExpression(call *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	var (
		callee runtime.Value
		this   runtime.Value = runtime.Undefined
	)
	if member, ok := call.Callee.(*ast.MemberExpression); ok {
		obj, err := i.evaluateExpression(member.Object, env)
		if err != nil {
			return nil, err
		}
		key, err := i.memberKey(member, env)
		if err != nil {
			return nil, err
		}
		fn, err := i.getProperty(obj, key, member)
		if err != nil {
			return nil, err
		}
		callee, this = fn, obj
	} else {
		fn, err := i.evaluateExpression(call.Callee, env)
		if err != nil {
			return nil, err
		}
		callee = fn
	}
	args, err := i.evaluateArguments(call.Arguments, env)
	if err != nil {
		return nil, err
	}
	if !runtime.IsCallable(callee) {
		return nil, i.throwError(call, "TypeError: %s is not a function", ast.PrintExpression(call.Callee))
	}
	return i.callValue(callee, this, args, call)
}

func (i *Interpreter) evaluateNewExpression(expr *ast.NewExpression, env *runtime.Environment) (runtime.Value, error) {
	ctor, err := i.evaluateExpression(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(expr.Arguments, env)
	if err != nil {
		return nil, err
	}
	native, ok := ctor.(runtime.NativeFunctionValue)
	if !ok || !constructible[native.Name] {
		return nil, i.throwError(expr, "TypeError: %s is not a constructor", ast.PrintExpression(expr.Callee))
	}
	return i.callValue(native, runtime.Undefined, args, expr)
}

// constructible lists the builtins that may appear after `new`.
var constructible = map[string]bool{
	"Array":      true,
	"Error":      true,
	"TypeError":  true,
	"RangeError": true,
	"String":     true,
	"Number":     true,
	"Boolean":    true,
}

func (i *Interpreter) evaluateLogicalExpression(expr *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	if !i.logicalContinues(expr.Operator, left) {
		return left, nil
	}
	return i.evaluateExpression(expr.Right, env)
}

// logicalContinues reports whether the right operand of a logical operator
// must be evaluated given the left value.
func (i *Interpreter) logicalContinues(op string, left runtime.Value) bool {
	switch op {
	case "&&":
		return runtime.Truthy(left)
	case "||":
		return !runtime.Truthy(left)
	default:
		switch left.(type) {
		case runtime.UndefinedValue, runtime.NullValue:
			return true
		}
		return false
	}
}

func (i *Interpreter) makeFunction(name string, params []*ast.Parameter, body *ast.BlockStatement, exprBody ast.Expression, arrow bool, env *runtime.Environment) *runtime.FunctionValue {
	return &runtime.FunctionValue{
		Name:           name,
		Params:         params,
		Body:           body,
		ExpressionBody: exprBody,
		Arrow:          arrow,
		Closure:        env,
	}
}

// callValue invokes any callable. node is used for error positions and may be
// nil.
func (i *Interpreter) callValue(fn runtime.Value, this runtime.Value, args []runtime.Value, node ast.Node) (runtime.Value, error) {
	if i.callDepth >= maxCallDepth {
		return nil, i.throwError(node, "RangeError: Maximum call stack size exceeded")
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	switch f := fn.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(f, args)
	case runtime.NativeFunctionValue:
		val, err := f.Impl(i.nativeContext(this), args)
		if err != nil {
			return nil, i.adoptError(err, node)
		}
		return orUndefined(val), nil
	case runtime.NativeBoundMethodValue:
		val, err := f.Method.Impl(i.nativeContext(f.Receiver), args)
		if err != nil {
			return nil, i.adoptError(err, node)
		}
		return orUndefined(val), nil
	default:
		return nil, i.throwError(node, "TypeError: %s is not a function", runtime.ToString(fn))
	}
}

func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	env := runtime.NewFunctionEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		var val runtime.Value = runtime.Undefined
		if idx < len(args) {
			val = args[idx]
		}
		if _, missing := val.(runtime.UndefinedValue); missing && param.Default != nil {
			def, err := i.evaluateExpression(param.Default, env)
			if err != nil {
				return nil, err
			}
			val = def
		}
		env.Define(param.Name.Name, val)
	}

	if fn.ExpressionBody != nil {
		return i.evaluateExpression(fn.ExpressionBody, env)
	}
	if fn.Body == nil {
		return runtime.Undefined, nil
	}
	i.hoistDeclarations(fn.Body.Body, env)
	for _, stmt := range fn.Body.Body {
		if _, err := i.evaluateStatement(stmt, env); err != nil {
			switch sig := err.(type) {
			case returnSignal:
				return orUndefined(sig.value), nil
			case breakSignal, continueSignal:
				return nil, i.throwError(stmt, "SyntaxError: Illegal %s statement", sig.Error())
			}
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

func orUndefined(v runtime.Value) runtime.Value {
	if v == nil {
		return runtime.Undefined
	}
	return v
}
