package interpreter

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"dsaviz/interpreter-go/pkg/runtime"
)

var floatPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)

func arg(args []runtime.Value, idx int) runtime.Value {
	if idx < len(args) {
		return orUndefined(args[idx])
	}
	return runtime.Undefined
}

func native(name string, arity int, impl runtime.NativeFunc) runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{Name: name, Arity: arity, Impl: impl}
}

func (i *Interpreter) installGlobals() {
	g := i.global
	g.DefineConst("undefined", runtime.Undefined)
	g.DefineConst("NaN", runtime.Number(math.NaN()))
	g.DefineConst("Infinity", runtime.Number(math.Inf(1)))

	g.Define("Math", i.mathObject())
	g.Define("console", i.consoleObject())

	g.Define("parseInt", native("parseInt", 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(parseInt(runtime.ToString(arg(args, 0)), arg(args, 1))), nil
	}))
	g.Define("parseFloat", native("parseFloat", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(parseFloat(runtime.ToString(arg(args, 0)))), nil
	}))
	g.Define("isNaN", native("isNaN", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.Bool(math.IsNaN(runtime.ToNumber(arg(args, 0)))), nil
	}))
	g.Define("isFinite", native("isFinite", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		f := runtime.ToNumber(arg(args, 0))
		return runtime.Bool(!math.IsNaN(f) && !math.IsInf(f, 0)), nil
	}))

	g.Define("String", native("String", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.String(""), nil
		}
		return runtime.String(runtime.ToString(args[0])), nil
	}))
	g.Define("Number", native("Number", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(0), nil
		}
		return runtime.Number(runtime.ToNumber(args[0])), nil
	}))
	g.Define("Boolean", native("Boolean", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.Bool(runtime.Truthy(arg(args, 0))), nil
	}))
	g.Define("Array", native("Array", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return i.constructArray(args)
	}))
	for _, name := range []string{"Error", "TypeError", "RangeError"} {
		g.Define(name, native(name, 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if _, missing := arg(args, 0).(runtime.UndefinedValue); missing {
				return runtime.String(name), nil
			}
			return runtime.String(name + ": " + runtime.ToString(args[0])), nil
		}))
	}

	i.installStatics()
	i.arrayMethods = i.buildArrayMethods()
	i.stringMethods = i.buildStringMethods()
	i.numberMethods = i.buildNumberMethods()
}

func (i *Interpreter) installStatics() {
	array := runtime.NewObject("Array")
	array.DefineNative("isArray", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		_, ok := arg(args, 0).(*runtime.ArrayValue)
		return runtime.Bool(ok), nil
	})
	array.DefineNative("of", 0, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewArray(append([]runtime.Value(nil), args...)), nil
	})
	array.DefineNative("from", 1, func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		var items []runtime.Value
		switch src := arg(args, 0).(type) {
		case *runtime.ArrayValue:
			items = make([]runtime.Value, len(src.Elements))
			for idx, v := range src.Elements {
				items[idx] = orUndefined(v)
			}
		case runtime.StringValue:
			for _, r := range src.Val {
				items = append(items, runtime.String(string(r)))
			}
		}
		if mapper := arg(args, 1); runtime.IsCallable(mapper) {
			for idx, v := range items {
				mapped, err := ctx.Call(mapper, []runtime.Value{v, runtime.Number(float64(idx))})
				if err != nil {
					return nil, err
				}
				items[idx] = mapped
			}
		}
		return runtime.NewArray(items), nil
	})
	i.statics["Array"] = array

	number := runtime.NewObject("Number")
	number.DefineNative("isInteger", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		n, ok := arg(args, 0).(runtime.NumberValue)
		return runtime.Bool(ok && !math.IsInf(n.Val, 0) && n.Val == math.Trunc(n.Val)), nil
	})
	number.DefineNative("isFinite", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		n, ok := arg(args, 0).(runtime.NumberValue)
		return runtime.Bool(ok && !math.IsInf(n.Val, 0) && !math.IsNaN(n.Val)), nil
	})
	number.DefineNative("isNaN", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		n, ok := arg(args, 0).(runtime.NumberValue)
		return runtime.Bool(ok && math.IsNaN(n.Val)), nil
	})
	parseIntFn, _ := i.global.Get("parseInt")
	parseFloatFn, _ := i.global.Get("parseFloat")
	number.Set("parseInt", parseIntFn)
	number.Set("parseFloat", parseFloatFn)
	number.Set("MAX_SAFE_INTEGER", runtime.Number(9007199254740991))
	number.Set("MIN_SAFE_INTEGER", runtime.Number(-9007199254740991))
	number.Set("EPSILON", runtime.Number(math.Pow(2, -52)))
	number.Set("MAX_VALUE", runtime.Number(math.MaxFloat64))
	number.Set("MIN_VALUE", runtime.Number(math.SmallestNonzeroFloat64))
	number.Set("POSITIVE_INFINITY", runtime.Number(math.Inf(1)))
	number.Set("NEGATIVE_INFINITY", runtime.Number(math.Inf(-1)))
	i.statics["Number"] = number

	str := runtime.NewObject("String")
	str.DefineNative("fromCharCode", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteRune(rune(runtime.ToUint32(a) & 0xFFFF))
		}
		return runtime.String(b.String()), nil
	})
	i.statics["String"] = str
}

// constructArray implements Array(n) and Array(a, b, ...).
func (i *Interpreter) constructArray(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 1 {
		if n, ok := args[0].(runtime.NumberValue); ok {
			if n.Val < 0 || n.Val != math.Trunc(n.Val) || n.Val >= 4294967296 || int(n.Val) > i.opts.MaxArrayLength {
				return nil, fmt.Errorf("RangeError: Invalid array length")
			}
			return runtime.NewArray(make([]runtime.Value, int(n.Val))), nil
		}
	}
	if len(args) > i.opts.MaxArrayLength {
		return nil, fmt.Errorf("RangeError: Invalid array length")
	}
	return runtime.NewArray(append([]runtime.Value(nil), args...)), nil
}

func (i *Interpreter) mathObject() *runtime.ObjectValue {
	m := runtime.NewObject("Math")
	m.Set("PI", runtime.Number(math.Pi))
	m.Set("E", runtime.Number(math.E))
	m.Set("LN2", runtime.Number(math.Ln2))
	m.Set("LN10", runtime.Number(math.Ln10))
	m.Set("SQRT2", runtime.Number(math.Sqrt2))

	unary := map[string]func(float64) float64{
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"abs":   math.Abs,
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"trunc": math.Trunc,
		"log":   math.Log,
		"log2":  math.Log2,
		"log10": math.Log10,
		"exp":   math.Exp,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"round": round,
		"sign":  sign,
	}
	for _, name := range []string{"floor", "ceil", "round", "abs", "sqrt", "cbrt", "trunc", "sign", "log", "log2", "log10", "exp", "sin", "cos", "tan"} {
		fn := unary[name]
		m.DefineNative(name, 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(fn(runtime.ToNumber(arg(args, 0)))), nil
		})
	}
	m.DefineNative("pow", 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(pow(runtime.ToNumber(arg(args, 0)), runtime.ToNumber(arg(args, 1)))), nil
	})
	m.DefineNative("atan2", 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Atan2(runtime.ToNumber(arg(args, 0)), runtime.ToNumber(arg(args, 1)))), nil
	})
	m.DefineNative("hypot", 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		sum := 0.0
		for _, a := range args {
			f := runtime.ToNumber(a)
			sum += f * f
		}
		return runtime.Number(math.Sqrt(sum)), nil
	})
	m.DefineNative("min", 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		result := math.Inf(1)
		for _, a := range args {
			f := runtime.ToNumber(a)
			if math.IsNaN(f) {
				return runtime.Number(math.NaN()), nil
			}
			result = math.Min(result, f)
		}
		return runtime.Number(result), nil
	})
	m.DefineNative("max", 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		result := math.Inf(-1)
		for _, a := range args {
			f := runtime.ToNumber(a)
			if math.IsNaN(f) {
				return runtime.Number(math.NaN()), nil
			}
			result = math.Max(result, f)
		}
		return runtime.Number(result), nil
	})
	m.DefineNative("random", 0, func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
		return runtime.Number(i.rng.Float64()), nil
	})
	return m
}

func round(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	r := math.Floor(f)
	if f-r >= 0.5 {
		r++
	}
	return r
}

func sign(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return f
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return f
}

func (i *Interpreter) consoleObject() *runtime.ObjectValue {
	c := runtime.NewObject("console")
	for _, name := range []string{"log", "info", "warn", "error"} {
		c.DefineNative(name, 0, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, len(args))
			for idx, a := range args {
				if s, ok := a.(runtime.StringValue); ok {
					parts[idx] = s.Val
					continue
				}
				parts[idx] = Inspect(a)
			}
			fmt.Fprintln(i.stdout, strings.Join(parts, " "))
			return runtime.Undefined, nil
		})
	}
	return c
}

func parseFloat(s string) float64 {
	text := strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' })
	match := floatPrefix.FindString(text)
	if match == "" {
		return math.NaN()
	}
	return runtime.StringToNumber(match)
}

func parseInt(s string, radixArg runtime.Value) float64 {
	text := strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' })
	negative := false
	if text != "" && (text[0] == '+' || text[0] == '-') {
		negative = text[0] == '-'
		text = text[1:]
	}
	radix := int(runtime.ToInt32(radixArg))
	if radix != 0 && (radix < 2 || radix > 36) {
		return math.NaN()
	}
	if (radix == 0 || radix == 16) && len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		text = text[2:]
		radix = 16
	}
	if radix == 0 {
		radix = 10
	}
	result := 0.0
	digits := 0
	for _, r := range text {
		d := digitValue(r)
		if d < 0 || d >= radix {
			break
		}
		result = result*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return math.NaN()
	}
	if negative {
		return -result
	}
	return result
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	}
	return -1
}
