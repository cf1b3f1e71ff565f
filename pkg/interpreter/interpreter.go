package interpreter

import (
	"context"
	"io"
	"math/rand"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/runtime"
)

const (
	DefaultMaxSteps       = 1_000_000
	DefaultMaxArrayLength = 1_000_000
	maxCallDepth          = 2_000
	ctxCheckInterval      = 1024
)

// Options configures resource limits and host hooks. Zero values select the
// defaults.
type Options struct {
	// MaxSteps bounds evaluated statements plus loop iterations. Negative
	// disables the limit.
	MaxSteps int
	// MaxArrayLength bounds the length any array may grow to.
	MaxArrayLength int
	// Stdout receives console output; nil discards it.
	Stdout io.Writer
	// RandomSeed seeds Math.random so runs are reproducible.
	RandomSeed int64
}

// Interpreter evaluates programs in a sandboxed tree-walking evaluator. It
// holds no process-wide state; each instance owns its global environment.
type Interpreter struct {
	global    *runtime.Environment
	opts      Options
	ctx       context.Context
	steps     int
	callDepth int
	rng       *rand.Rand
	statics   map[string]*runtime.ObjectValue
	stdout    io.Writer

	arrayMethods  map[string]runtime.NativeFunctionValue
	stringMethods map[string]runtime.NativeFunctionValue
	numberMethods map[string]runtime.NativeFunctionValue
}

// New returns an interpreter whose global environment carries the builtin
// library (Math, console, Array, String, Number, ...).
func New(opts Options) *Interpreter {
	if opts.MaxSteps == 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.MaxArrayLength <= 0 {
		opts.MaxArrayLength = DefaultMaxArrayLength
	}
	seed := opts.RandomSeed
	if seed == 0 {
		seed = 1
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	i := &Interpreter{
		global:  runtime.NewFunctionEnvironment(nil),
		opts:    opts,
		ctx:     context.Background(),
		rng:     rand.New(rand.NewSource(seed)),
		statics: make(map[string]*runtime.ObjectValue),
		stdout:  stdout,
	}
	i.installGlobals()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// MaxArrayLength reports the configured array length limit.
func (i *Interpreter) MaxArrayLength() int {
	return i.opts.MaxArrayLength
}

// Steps reports how many evaluation steps the last program consumed.
func (i *Interpreter) Steps() int {
	return i.steps
}

// EvaluateProgram executes a program against the global environment and
// returns the value of the last expression statement. Uncaught exceptions and
// exhausted limits are reported as *RuntimeError.
func (i *Interpreter) EvaluateProgram(ctx context.Context, program *ast.Program) (runtime.Value, error) {
	if program == nil {
		return runtime.Undefined, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	i.ctx = ctx
	i.steps = 0
	defer func() { i.ctx = context.Background() }()

	i.hoistDeclarations(program.Body, i.global)
	var last runtime.Value = runtime.Undefined
	for _, stmt := range program.Body {
		val, err := i.evaluateStatement(stmt, i.global)
		if err != nil {
			return nil, i.toRuntimeError(err, stmt)
		}
		if _, ok := stmt.(*ast.ExpressionStatement); ok {
			last = val
		}
	}
	return last, nil
}

// Call invokes a callable value with the given receiver and arguments.
func (i *Interpreter) Call(fn runtime.Value, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	val, err := i.callValue(fn, this, args, nil)
	if err != nil {
		return nil, i.toRuntimeError(err, nil)
	}
	return val, nil
}

// tick accounts one evaluation step and enforces limits and cancellation.
func (i *Interpreter) tick() error {
	i.steps++
	if i.opts.MaxSteps > 0 && i.steps > i.opts.MaxSteps {
		return ErrStepLimitExceeded
	}
	if i.steps%ctxCheckInterval == 0 {
		if err := i.ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) nativeContext(this runtime.Value) *runtime.NativeCallContext {
	return &runtime.NativeCallContext{
		Env:  i.global,
		This: this,
		Call: func(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return i.callValue(fn, runtime.Undefined, args, nil)
		},
	}
}
