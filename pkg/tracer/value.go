package tracer

import (
	"encoding/json"
	"math"

	"dsaviz/interpreter-go/pkg/runtime"
)

// ValueKind classifies a captured value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindUndefined
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindFunction
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
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
	case KindFunction:
		return "function"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable copy of a runtime value taken when a snapshot is
// recorded. Arrays are copied element by element; functions and host objects
// keep only their name.
type Value struct {
	Kind   ValueKind
	Number float64
	Bool   bool
	// Text holds string contents, or the name of a function or object.
	Text  string
	Items []Value
	// Circular marks an array that contains itself at this position.
	Circular bool
}

var (
	Absent    = Value{Kind: KindAbsent}
	Undefined = Value{Kind: KindUndefined}
	Null      = Value{Kind: KindNull}
)

// Num, Str and Bool build scalar snapshot values.
func Num(f float64) Value { return Value{Kind: KindNumber, Number: f} }

func Str(s string) Value { return Value{Kind: KindString, Text: s} }

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List builds an array snapshot value.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, Items: items}
}

// Capture deep-copies v. A nil element (an array hole) becomes Absent.
func Capture(v runtime.Value) Value {
	return capture(v, nil)
}

func capture(v runtime.Value, seen map[*runtime.ArrayValue]bool) Value {
	switch val := v.(type) {
	case nil:
		return Absent
	case runtime.UndefinedValue:
		return Undefined
	case runtime.NullValue:
		return Null
	case runtime.BoolValue:
		return Bool(val.Val)
	case runtime.NumberValue:
		return Num(val.Val)
	case runtime.StringValue:
		return Str(val.Val)
	case *runtime.ArrayValue:
		if seen[val] {
			return Value{Kind: KindArray, Circular: true}
		}
		if seen == nil {
			seen = make(map[*runtime.ArrayValue]bool)
		}
		seen[val] = true
		defer delete(seen, val)
		items := make([]Value, len(val.Elements))
		for idx, elem := range val.Elements {
			items[idx] = capture(elem, seen)
		}
		return List(items...)
	case *runtime.FunctionValue:
		return Value{Kind: KindFunction, Text: val.Name}
	case runtime.NativeFunctionValue:
		return Value{Kind: KindFunction, Text: val.Name}
	case runtime.NativeBoundMethodValue:
		return Value{Kind: KindFunction, Text: val.Method.Name}
	case *runtime.ObjectValue:
		return Value{Kind: KindObject, Text: val.Name}
	default:
		return Undefined
	}
}

// String renders the value the way the program would print it. Absent slots
// render as the empty string; callers choose their own marker.
func (v Value) String() string {
	switch v.Kind {
	case KindAbsent:
		return ""
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return runtime.NumberToString(v.Number)
	case KindString:
		return v.Text
	case KindArray:
		if v.Circular {
			return "[Circular]"
		}
		out := "["
		for idx, item := range v.Items {
			if idx > 0 {
				out += ", "
			}
			if item.Kind == KindString {
				out += `"` + item.Text + `"`
				continue
			}
			out += item.String()
		}
		return out + "]"
	case KindFunction:
		if v.Text == "" {
			return "[Function]"
		}
		return "[Function: " + v.Text + "]"
	case KindObject:
		return "[object " + v.Text + "]"
	default:
		return ""
	}
}

// Interface converts the value to plain Go data for serialisation. Values
// with no JSON equivalent (absent, undefined, NaN, infinities, functions,
// host objects and circular references) become nil.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return nil
		}
		return v.Number
	case KindString:
		return v.Text
	case KindArray:
		if v.Circular {
			return nil
		}
		out := make([]any, len(v.Items))
		for idx, item := range v.Items {
			out[idx] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}
