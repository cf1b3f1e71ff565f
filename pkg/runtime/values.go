package runtime

import (
	"dsaviz/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindFunction
	KindNativeFunction
	KindNativeBoundMethod
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindNativeBoundMethod:
		return "native_bound_method"
	default:
		return "unknown"
	}
}

// Value is the interface implemented by all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type UndefinedValue struct{}

func (UndefinedValue) Kind() Kind { return KindUndefined }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

var (
	Undefined Value = UndefinedValue{}
	Null      Value = NullValue{}
	True      Value = BoolValue{Val: true}
	False     Value = BoolValue{Val: false}
)

func Number(v float64) Value { return NumberValue{Val: v} }

func String(v string) Value { return StringValue{Val: v} }

func Bool(v bool) Value {
	if v {
		return True
	}
	return False
}

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

// ArrayValue is shared by reference; every alias observes in-place updates.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

func NewArray(elements []Value) *ArrayValue {
	if elements == nil {
		elements = []Value{}
	}
	return &ArrayValue{Elements: elements}
}

// ObjectValue is a host-provided namespace such as Math or console. Keys keep
// insertion order.
type ObjectValue struct {
	Name  string
	props map[string]Value
	keys  []string
}

func (v *ObjectValue) Kind() Kind { return KindObject }

func NewObject(name string) *ObjectValue {
	return &ObjectValue{Name: name, props: make(map[string]Value)}
}

func (v *ObjectValue) Set(key string, value Value) {
	if _, ok := v.props[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.props[key] = value
}

func (v *ObjectValue) Get(key string) (Value, bool) {
	val, ok := v.props[key]
	return val, ok
}

// Delete removes key and reports whether it was present.
func (v *ObjectValue) Delete(key string) bool {
	if _, ok := v.props[key]; !ok {
		return false
	}
	delete(v.props, key)
	for idx, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:idx], v.keys[idx+1:]...)
			break
		}
	}
	return true
}

func (v *ObjectValue) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// DefineNative registers a native function property.
func (v *ObjectValue) DefineNative(name string, arity int, impl NativeFunc) {
	v.Set(name, NativeFunctionValue{Name: name, Arity: arity, Impl: impl})
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined closure. ExpressionBody is set for arrows
// with an expression body.
type FunctionValue struct {
	Name           string
	Params         []*ast.Parameter
	Body           *ast.BlockStatement
	ExpressionBody ast.Expression
	Arrow          bool
	Closure        *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Env  *Environment
	This Value
	// Call invokes a callable value, letting natives such as Array.prototype.map
	// run user callbacks.
	Call func(fn Value, args []Value) (Value, error)
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// NativeBoundMethodValue captures the receiver of a builtin method such as
// arr.push.
type NativeBoundMethodValue struct {
	Receiver Value
	Method   NativeFunctionValue
}

func (v NativeBoundMethodValue) Kind() Kind { return KindNativeBoundMethod }

// IsCallable reports whether v can be invoked.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *FunctionValue, NativeFunctionValue, NativeBoundMethodValue:
		return true
	default:
		return false
	}
}
