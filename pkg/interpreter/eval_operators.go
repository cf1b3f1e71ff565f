package interpreter

import (
	"math"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/runtime"
)

func (i *Interpreter) binaryOperation(node ast.Node, op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		lp, rp := runtime.ToPrimitive(left), runtime.ToPrimitive(right)
		_, ls := lp.(runtime.StringValue)
		_, rs := rp.(runtime.StringValue)
		if ls || rs {
			return runtime.String(runtime.ToString(lp) + runtime.ToString(rp)), nil
		}
		return runtime.Number(runtime.ToNumber(lp) + runtime.ToNumber(rp)), nil
	case "-":
		return runtime.Number(runtime.ToNumber(left) - runtime.ToNumber(right)), nil
	case "*":
		return runtime.Number(runtime.ToNumber(left) * runtime.ToNumber(right)), nil
	case "/":
		return runtime.Number(runtime.ToNumber(left) / runtime.ToNumber(right)), nil
	case "%":
		return runtime.Number(math.Mod(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "**":
		return runtime.Number(pow(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "==":
		return runtime.Bool(runtime.LooseEquals(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.LooseEquals(left, right)), nil
	case "===":
		return runtime.Bool(runtime.StrictEquals(left, right)), nil
	case "!==":
		return runtime.Bool(!runtime.StrictEquals(left, right)), nil
	case "<", ">", "<=", ">=":
		return runtime.Bool(compare(op, left, right)), nil
	case "&":
		return runtime.Number(float64(runtime.ToInt32(left) & runtime.ToInt32(right))), nil
	case "|":
		return runtime.Number(float64(runtime.ToInt32(left) | runtime.ToInt32(right))), nil
	case "^":
		return runtime.Number(float64(runtime.ToInt32(left) ^ runtime.ToInt32(right))), nil
	case "<<":
		return runtime.Number(float64(runtime.ToInt32(left) << (runtime.ToUint32(right) & 31))), nil
	case ">>":
		return runtime.Number(float64(runtime.ToInt32(left) >> (runtime.ToUint32(right) & 31))), nil
	case ">>>":
		return runtime.Number(float64(runtime.ToUint32(left) >> (runtime.ToUint32(right) & 31))), nil
	case "in":
		return i.hasProperty(node, left, right)
	case "instanceof":
		ctor, ok := right.(runtime.NativeFunctionValue)
		if !ok {
			if runtime.IsCallable(right) {
				return runtime.False, nil
			}
			return nil, i.throwError(node, "TypeError: Right-hand side of 'instanceof' is not callable")
		}
		_, isArray := left.(*runtime.ArrayValue)
		return runtime.Bool(ctor.Name == "Array" && isArray), nil
	default:
		return nil, i.throwError(node, "SyntaxError: unsupported operator %s", op)
	}
}

// pow follows Math.pow where it differs from math.Pow.
func pow(base, exp float64) float64 {
	if math.IsNaN(exp) {
		return math.NaN()
	}
	if math.IsInf(exp, 0) && math.Abs(base) == 1 {
		return math.NaN()
	}
	return math.Pow(base, exp)
}

func compare(op string, left, right runtime.Value) bool {
	lp, rp := runtime.ToPrimitive(left), runtime.ToPrimitive(right)
	ls, lok := lp.(runtime.StringValue)
	rs, rok := rp.(runtime.StringValue)
	if lok && rok {
		switch op {
		case "<":
			return ls.Val < rs.Val
		case ">":
			return ls.Val > rs.Val
		case "<=":
			return ls.Val <= rs.Val
		default:
			return ls.Val >= rs.Val
		}
	}
	l, r := runtime.ToNumber(lp), runtime.ToNumber(rp)
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	default:
		return l >= r
	}
}

func (i *Interpreter) hasProperty(node ast.Node, key, obj runtime.Value) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.ArrayValue:
		if idx, ok := runtime.ArrayIndex(key); ok {
			return runtime.Bool(idx < len(o.Elements)), nil
		}
		name := runtime.ToString(key)
		_, method := i.arrayMethods[name]
		return runtime.Bool(name == "length" || method), nil
	case *runtime.ObjectValue:
		_, ok := o.Get(runtime.ToString(key))
		return runtime.Bool(ok), nil
	}
	return nil, i.throwError(node, "TypeError: Cannot use 'in' operator to search for '%s' in %s", runtime.ToString(key), runtime.ToString(obj))
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	switch expr.Operator {
	case "typeof":
		if id, ok := expr.Argument.(*ast.Identifier); ok && !env.Has(id.Name) {
			return runtime.String("undefined"), nil
		}
	case "delete":
		return i.evaluateDelete(expr, env)
	}

	val, err := i.evaluateExpression(expr.Argument, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "typeof":
		return runtime.String(runtime.TypeOf(val)), nil
	case "!":
		return runtime.Bool(!runtime.Truthy(val)), nil
	case "-":
		return runtime.Number(-runtime.ToNumber(val)), nil
	case "+":
		return runtime.Number(runtime.ToNumber(val)), nil
	case "~":
		return runtime.Number(float64(^runtime.ToInt32(val))), nil
	case "void":
		return runtime.Undefined, nil
	default:
		return nil, i.throwError(expr, "SyntaxError: unsupported operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateDelete(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	member, ok := expr.Argument.(*ast.MemberExpression)
	if !ok {
		if _, err := i.evaluateExpression(expr.Argument, env); err != nil {
			return nil, err
		}
		return runtime.True, nil
	}
	obj, err := i.evaluateExpression(member.Object, env)
	if err != nil {
		return nil, err
	}
	key, err := i.memberKey(member, env)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *runtime.ArrayValue:
		if idx, ok := runtime.ArrayIndex(key); ok && idx < len(o.Elements) {
			o.Elements[idx] = nil
		}
	case *runtime.ObjectValue:
		o.Delete(runtime.ToString(key))
	case runtime.UndefinedValue, runtime.NullValue:
		return nil, i.throwError(expr, "TypeError: Cannot convert undefined or null to object")
	}
	return runtime.True, nil
}
