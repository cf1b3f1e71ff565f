package interpreter

import (
	"strconv"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	if err := i.tick(); err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		return i.evaluateExpression(n.Expression, env)
	case *ast.VariableDeclaration:
		return runtime.Undefined, i.evaluateVariableDeclaration(n, env)
	case *ast.BlockStatement:
		return i.evaluateBlock(n, env.Extend())
	case *ast.IfStatement:
		cond, err := i.evaluateExpression(n.Test, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.evaluateStatement(n.Consequent, env)
		}
		if n.Alternate != nil {
			return i.evaluateStatement(n.Alternate, env)
		}
		return runtime.Undefined, nil
	case *ast.WhileStatement:
		return i.evaluateWhileStatement(n, env)
	case *ast.DoWhileStatement:
		return i.evaluateDoWhileStatement(n, env)
	case *ast.ForStatement:
		return i.evaluateForStatement(n, env)
	case *ast.ForOfStatement:
		return i.evaluateForOfStatement(n, env)
	case *ast.BreakStatement:
		return nil, breakSignal{}
	case *ast.ContinueStatement:
		return nil, continueSignal{}
	case *ast.ReturnStatement:
		var result runtime.Value = runtime.Undefined
		if n.Argument != nil {
			val, err := i.evaluateExpression(n.Argument, env)
			if err != nil {
				return nil, err
			}
			result = val
		}
		return nil, returnSignal{value: result}
	case *ast.ThrowStatement:
		val, err := i.evaluateExpression(n.Argument, env)
		if err != nil {
			return nil, err
		}
		return nil, throwSignal{value: val, span: n.Span()}
	case *ast.TryStatement:
		return i.evaluateTryStatement(n, env)
	case *ast.FunctionDeclaration:
		// Bound during hoisting.
		if !env.HasOwn(n.ID.Name) {
			env.Define(n.ID.Name, i.makeFunction(n.ID.Name, n.Params, n.Body, nil, false, env))
		}
		return runtime.Undefined, nil
	case *ast.EmptyStatement:
		return runtime.Undefined, nil
	default:
		return nil, i.throwError(node, "SyntaxError: unsupported statement %T", node)
	}
}

func (i *Interpreter) evaluateBlock(block *ast.BlockStatement, env *runtime.Environment) (runtime.Value, error) {
	i.hoistFunctions(block.Body, env)
	var result runtime.Value = runtime.Undefined
	for _, stmt := range block.Body {
		val, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateVariableDeclaration(decl *ast.VariableDeclaration, env *runtime.Environment) error {
	for _, d := range decl.Declarations {
		name := d.ID.Name
		var val runtime.Value = runtime.Undefined
		if d.Init != nil {
			v, err := i.evaluateExpression(d.Init, env)
			if err != nil {
				return err
			}
			val = nameAnonymousFunction(v, name)
		}
		switch decl.Kind {
		case ast.DeclarationVar:
			scope := env.FunctionScope()
			if d.Init == nil && scope.HasOwn(name) {
				continue
			}
			scope.Define(name, val)
		case ast.DeclarationConst:
			env.DefineConst(name, val)
		default:
			env.Define(name, val)
		}
	}
	return nil
}

func nameAnonymousFunction(v runtime.Value, name string) runtime.Value {
	if fn, ok := v.(*runtime.FunctionValue); ok && fn.Name == "" {
		fn.Name = name
	}
	return v
}

// runLoopBody evaluates one iteration. It reports whether the loop should
// stop and any error that must propagate.
func (i *Interpreter) runLoopBody(body ast.Statement, env *runtime.Environment) (bool, error) {
	if err := i.tick(); err != nil {
		return true, err
	}
	_, err := i.evaluateStatement(body, env)
	if err == nil {
		return false, nil
	}
	switch err.(type) {
	case breakSignal:
		return true, nil
	case continueSignal:
		return false, nil
	default:
		return true, err
	}
}

func (i *Interpreter) evaluateWhileStatement(loop *ast.WhileStatement, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.evaluateExpression(loop.Test, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.Undefined, nil
		}
		stop, err := i.runLoopBody(loop.Body, env)
		if err != nil {
			return nil, err
		}
		if stop {
			return runtime.Undefined, nil
		}
	}
}

func (i *Interpreter) evaluateDoWhileStatement(loop *ast.DoWhileStatement, env *runtime.Environment) (runtime.Value, error) {
	for {
		stop, err := i.runLoopBody(loop.Body, env)
		if err != nil {
			return nil, err
		}
		if stop {
			return runtime.Undefined, nil
		}
		cond, err := i.evaluateExpression(loop.Test, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.Undefined, nil
		}
	}
}

func (i *Interpreter) evaluateForStatement(loop *ast.ForStatement, env *runtime.Environment) (runtime.Value, error) {
	loopEnv := env.Extend()
	if loop.Init != nil {
		if _, err := i.evaluateStatement(loop.Init, loopEnv); err != nil {
			return nil, err
		}
	}
	for {
		if loop.Test != nil {
			cond, err := i.evaluateExpression(loop.Test, loopEnv)
			if err != nil {
				return nil, err
			}
			if !runtime.Truthy(cond) {
				return runtime.Undefined, nil
			}
		}
		stop, err := i.runLoopBody(loop.Body, loopEnv)
		if err != nil {
			return nil, err
		}
		if stop {
			return runtime.Undefined, nil
		}
		if loop.Update != nil {
			if _, err := i.evaluateExpression(loop.Update, loopEnv); err != nil {
				return nil, err
			}
		}
	}
}

func (i *Interpreter) evaluateForOfStatement(loop *ast.ForOfStatement, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := i.evaluateExpression(loop.Right, env)
	if err != nil {
		return nil, err
	}

	next, err := i.iterator(loop, iterable)
	if err != nil {
		return nil, err
	}
	for {
		item, ok := next()
		if !ok {
			return runtime.Undefined, nil
		}
		iterEnv := env.Extend()
		if err := i.bindLoopVariable(loop, item, iterEnv); err != nil {
			return nil, err
		}
		stop, err := i.runLoopBody(loop.Body, iterEnv)
		if err != nil {
			return nil, err
		}
		if stop {
			return runtime.Undefined, nil
		}
	}
}

// iterator yields values ("of") or keys ("in"). Arrays are read live so
// pushes during iteration are observed.
func (i *Interpreter) iterator(loop *ast.ForOfStatement, iterable runtime.Value) (func() (runtime.Value, bool), error) {
	keys := loop.Operator == "in"
	switch v := iterable.(type) {
	case *runtime.ArrayValue:
		idx := 0
		return func() (runtime.Value, bool) {
			if idx >= len(v.Elements) {
				return nil, false
			}
			cur := idx
			idx++
			if keys {
				return runtime.String(strconv.Itoa(cur)), true
			}
			return orUndefined(v.Elements[cur]), true
		}, nil
	case runtime.StringValue:
		runes := []rune(v.Val)
		idx := 0
		return func() (runtime.Value, bool) {
			if idx >= len(runes) {
				return nil, false
			}
			cur := idx
			idx++
			if keys {
				return runtime.String(strconv.Itoa(cur)), true
			}
			return runtime.String(string(runes[cur])), true
		}, nil
	case *runtime.ObjectValue:
		if !keys {
			break
		}
		names := v.Keys()
		idx := 0
		return func() (runtime.Value, bool) {
			if idx >= len(names) {
				return nil, false
			}
			idx++
			return runtime.String(names[idx-1]), true
		}, nil
	case runtime.UndefinedValue, runtime.NullValue:
		if keys {
			return func() (runtime.Value, bool) { return nil, false }, nil
		}
	}
	if keys {
		return func() (runtime.Value, bool) { return nil, false }, nil
	}
	return nil, i.throwError(loop.Right, "TypeError: %s is not iterable", ast.PrintExpression(loop.Right))
}

func (i *Interpreter) bindLoopVariable(loop *ast.ForOfStatement, item runtime.Value, iterEnv *runtime.Environment) error {
	name := loop.Left.Name
	switch loop.Kind {
	case ast.DeclarationConst:
		iterEnv.DefineConst(name, item)
	case ast.DeclarationLet:
		iterEnv.Define(name, item)
	case ast.DeclarationVar:
		iterEnv.FunctionScope().Define(name, item)
	default:
		return i.assignIdentifier(loop.Left, item, iterEnv)
	}
	return nil
}

func (i *Interpreter) evaluateTryStatement(stmt *ast.TryStatement, env *runtime.Environment) (runtime.Value, error) {
	result, err := i.evaluateBlock(stmt.Block, env.Extend())
	if err != nil {
		if sig, ok := err.(throwSignal); ok && stmt.Handler != nil {
			catchEnv := env.Extend()
			if stmt.Param != nil {
				catchEnv.Define(stmt.Param.Name, sig.value)
			}
			result, err = i.evaluateBlock(stmt.Handler, catchEnv)
		}
	}
	if stmt.Finalizer != nil {
		if _, finErr := i.evaluateBlock(stmt.Finalizer, env.Extend()); finErr != nil {
			return nil, finErr
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// hoistDeclarations binds function declarations and pre-declares `var`
// names for a function or program body.
func (i *Interpreter) hoistDeclarations(body []ast.Statement, env *runtime.Environment) {
	for _, name := range collectVarNames(body, nil) {
		if !env.HasOwn(name) {
			env.Define(name, runtime.Undefined)
		}
	}
	i.hoistFunctions(body, env)
}

func (i *Interpreter) hoistFunctions(body []ast.Statement, env *runtime.Environment) {
	for _, stmt := range body {
		if fn, ok := stmt.(*ast.FunctionDeclaration); ok {
			env.Define(fn.ID.Name, i.makeFunction(fn.ID.Name, fn.Params, fn.Body, nil, false, env))
		}
	}
}

func collectVarNames(stmts []ast.Statement, out []string) []string {
	for _, stmt := range stmts {
		out = collectVarNamesIn(stmt, out)
	}
	return out
}

func collectVarNamesIn(stmt ast.Statement, out []string) []string {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.Kind == ast.DeclarationVar {
			for _, d := range s.Declarations {
				out = append(out, d.ID.Name)
			}
		}
	case *ast.BlockStatement:
		out = collectVarNames(s.Body, out)
	case *ast.IfStatement:
		out = collectVarNamesIn(s.Consequent, out)
		if s.Alternate != nil {
			out = collectVarNamesIn(s.Alternate, out)
		}
	case *ast.WhileStatement:
		out = collectVarNamesIn(s.Body, out)
	case *ast.DoWhileStatement:
		out = collectVarNamesIn(s.Body, out)
	case *ast.ForStatement:
		if s.Init != nil {
			out = collectVarNamesIn(s.Init, out)
		}
		out = collectVarNamesIn(s.Body, out)
	case *ast.ForOfStatement:
		if s.Kind == ast.DeclarationVar {
			out = append(out, s.Left.Name)
		}
		out = collectVarNamesIn(s.Body, out)
	case *ast.TryStatement:
		out = collectVarNames(s.Block.Body, out)
		if s.Handler != nil {
			out = collectVarNames(s.Handler.Body, out)
		}
		if s.Finalizer != nil {
			out = collectVarNames(s.Finalizer.Body, out)
		}
	}
	return out
}
