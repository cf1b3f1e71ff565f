package interpreter

import (
	"math"
	"strings"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/runtime"
)

func (i *Interpreter) memberKey(member *ast.MemberExpression, env *runtime.Environment) (runtime.Value, error) {
	if !member.Computed {
		if id, ok := member.Property.(*ast.Identifier); ok {
			return runtime.String(id.Name), nil
		}
	}
	return i.evaluateExpression(member.Property, env)
}

func (i *Interpreter) getProperty(obj runtime.Value, key runtime.Value, node ast.Node) (runtime.Value, error) {
	name := runtime.ToString(key)
	switch o := obj.(type) {
	case *runtime.ArrayValue:
		if idx, ok := runtime.ArrayIndex(key); ok {
			if idx < len(o.Elements) {
				return orUndefined(o.Elements[idx]), nil
			}
			return runtime.Undefined, nil
		}
		if name == "length" {
			return runtime.Number(float64(len(o.Elements))), nil
		}
		return boundMethod(o, i.arrayMethods, name), nil
	case runtime.StringValue:
		if idx, ok := runtime.ArrayIndex(key); ok {
			runes := []rune(o.Val)
			if idx < len(runes) {
				return runtime.String(string(runes[idx])), nil
			}
			return runtime.Undefined, nil
		}
		if name == "length" {
			return runtime.Number(float64(len([]rune(o.Val)))), nil
		}
		return boundMethod(o, i.stringMethods, name), nil
	case runtime.NumberValue:
		return boundMethod(o, i.numberMethods, name), nil
	case runtime.BoolValue:
		if name == "toString" {
			return boundMethod(o, i.numberMethods, name), nil
		}
		return runtime.Undefined, nil
	case *runtime.ObjectValue:
		if val, ok := o.Get(name); ok {
			return val, nil
		}
		return runtime.Undefined, nil
	case runtime.NativeFunctionValue:
		switch name {
		case "name":
			return runtime.String(o.Name), nil
		case "length":
			return runtime.Number(float64(o.Arity)), nil
		}
		if statics, ok := i.statics[o.Name]; ok {
			if val, ok := statics.Get(name); ok {
				return val, nil
			}
		}
		return runtime.Undefined, nil
	case *runtime.FunctionValue:
		switch name {
		case "name":
			return runtime.String(o.Name), nil
		case "length":
			return runtime.Number(float64(len(o.Params))), nil
		}
		return runtime.Undefined, nil
	case runtime.NativeBoundMethodValue:
		if name == "name" {
			return runtime.String(o.Method.Name), nil
		}
		return runtime.Undefined, nil
	case runtime.UndefinedValue, runtime.NullValue, nil:
		return nil, i.throwError(node, "TypeError: Cannot read properties of %s (reading '%s')", runtime.ToString(obj), name)
	}
	return runtime.Undefined, nil
}

func boundMethod(receiver runtime.Value, methods map[string]runtime.NativeFunctionValue, name string) runtime.Value {
	method, ok := methods[name]
	if !ok {
		return runtime.Undefined
	}
	return runtime.NativeBoundMethodValue{Receiver: receiver, Method: method}
}

func (i *Interpreter) setProperty(obj runtime.Value, key runtime.Value, val runtime.Value, node ast.Node) error {
	name := runtime.ToString(key)
	switch o := obj.(type) {
	case *runtime.ArrayValue:
		if idx, ok := runtime.ArrayIndex(key); ok {
			if idx >= len(o.Elements) {
				if err := i.growArray(o, idx+1, node); err != nil {
					return err
				}
			}
			o.Elements[idx] = val
			return nil
		}
		if name == "length" {
			return i.setArrayLength(o, val, node)
		}
		return nil
	case *runtime.ObjectValue:
		o.Set(name, val)
		return nil
	case runtime.UndefinedValue, runtime.NullValue, nil:
		return i.throwError(node, "TypeError: Cannot set properties of %s (setting '%s')", runtime.ToString(obj), name)
	}
	return nil
}

// growArray extends arr to length n. New slots are holes (nil), which read as
// undefined.
func (i *Interpreter) growArray(arr *runtime.ArrayValue, n int, node ast.Node) error {
	if n > i.opts.MaxArrayLength {
		return i.throwError(node, "RangeError: Invalid array length")
	}
	for len(arr.Elements) < n {
		arr.Elements = append(arr.Elements, nil)
	}
	return nil
}

func (i *Interpreter) setArrayLength(arr *runtime.ArrayValue, val runtime.Value, node ast.Node) error {
	f := runtime.ToNumber(val)
	if math.IsNaN(f) || f < 0 || f != math.Trunc(f) || f >= 4294967296 {
		return i.throwError(node, "RangeError: Invalid array length")
	}
	n := int(f)
	if n <= len(arr.Elements) {
		arr.Elements = arr.Elements[:n]
		return nil
	}
	return i.growArray(arr, n, node)
}

func (i *Interpreter) evaluateAssignmentExpression(expr *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	target, err := i.resolveTarget(expr.Left, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case "=":
		val, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		if _, ok := expr.Left.(*ast.Identifier); ok {
			val = nameAnonymousFunction(val, target.name)
		}
		return val, target.store(val)
	case "&&=", "||=", "??=":
		current, err := target.load()
		if err != nil {
			return nil, err
		}
		if !i.logicalContinues(strings.TrimSuffix(expr.Operator, "="), current) {
			return current, nil
		}
		val, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		return val, target.store(val)
	default:
		current, err := target.load()
		if err != nil {
			return nil, err
		}
		right, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		val, err := i.binaryOperation(expr, strings.TrimSuffix(expr.Operator, "="), current, right)
		if err != nil {
			return nil, err
		}
		return val, target.store(val)
	}
}

func (i *Interpreter) evaluateUpdateExpression(expr *ast.UpdateExpression, env *runtime.Environment) (runtime.Value, error) {
	target, err := i.resolveTarget(expr.Argument, env)
	if err != nil {
		return nil, err
	}
	current, err := target.load()
	if err != nil {
		return nil, err
	}
	old := runtime.ToNumber(current)
	updated := old + 1
	if expr.Operator == "--" {
		updated = old - 1
	}
	if err := target.store(runtime.Number(updated)); err != nil {
		return nil, err
	}
	if expr.Prefix {
		return runtime.Number(updated), nil
	}
	return runtime.Number(old), nil
}

// reference is an evaluated assignment target. The object and key of a member
// target are evaluated once.
type reference struct {
	name  string
	load  func() (runtime.Value, error)
	store func(runtime.Value) error
}

func (i *Interpreter) resolveTarget(expr ast.Expression, env *runtime.Environment) (*reference, error) {
	switch target := expr.(type) {
	case *ast.Identifier:
		return &reference{
			name: target.Name,
			load: func() (runtime.Value, error) { return i.lookupIdentifier(target, env) },
			store: func(val runtime.Value) error {
				return i.assignIdentifier(target, val, env)
			},
		}, nil
	case *ast.MemberExpression:
		obj, err := i.evaluateExpression(target.Object, env)
		if err != nil {
			return nil, err
		}
		key, err := i.memberKey(target, env)
		if err != nil {
			return nil, err
		}
		return &reference{
			name:  runtime.ToString(key),
			load:  func() (runtime.Value, error) { return i.getProperty(obj, key, target) },
			store: func(val runtime.Value) error { return i.setProperty(obj, key, val, target) },
		}, nil
	default:
		return nil, i.throwError(expr, "SyntaxError: Invalid left-hand side in assignment")
	}
}

// assignIdentifier updates the nearest binding of id. Assigning an undeclared
// name creates a global.
func (i *Interpreter) assignIdentifier(id *ast.Identifier, val runtime.Value, env *runtime.Environment) error {
	if !env.Has(id.Name) {
		i.global.Define(id.Name, val)
		return nil
	}
	if err := env.Assign(id.Name, val); err != nil {
		return i.adoptError(err, id)
	}
	return nil
}
