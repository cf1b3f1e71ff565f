package interpreter

import (
	"strconv"
	"strings"

	"dsaviz/interpreter-go/pkg/runtime"
)

// Inspect renders a value the way console.log shows it: strings nested in
// arrays are quoted, functions show their name.
func Inspect(v runtime.Value) string {
	return inspect(v, false, nil)
}

func inspect(v runtime.Value, nested bool, seen map[*runtime.ArrayValue]bool) string {
	switch val := v.(type) {
	case runtime.StringValue:
		if nested {
			return quote(val.Val)
		}
		return val.Val
	case *runtime.ArrayValue:
		if seen[val] {
			return "[Circular]"
		}
		if len(val.Elements) == 0 {
			return "[]"
		}
		if seen == nil {
			seen = make(map[*runtime.ArrayValue]bool)
		}
		seen[val] = true
		defer delete(seen, val)
		parts := make([]string, len(val.Elements))
		for idx, elem := range val.Elements {
			parts[idx] = inspect(orUndefined(elem), true, seen)
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case *runtime.ObjectValue:
		keys := val.Keys()
		if len(keys) == 0 {
			return "{}"
		}
		parts := make([]string, len(keys))
		for idx, key := range keys {
			prop, _ := val.Get(key)
			parts[idx] = key + ": " + inspect(prop, true, seen)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *runtime.FunctionValue:
		return functionLabel(val.Name)
	case runtime.NativeFunctionValue:
		return functionLabel(val.Name)
	case runtime.NativeBoundMethodValue:
		return functionLabel(val.Method.Name)
	default:
		return runtime.ToString(v)
	}
}

func functionLabel(name string) string {
	if name == "" {
		return "[Function (anonymous)]"
	}
	return "[Function: " + name + "]"
}

func quote(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "\n", `\n`) + "'"
	}
	return strconv.Quote(s)
}
